package seed

import (
	"fmt"
	"time"
)

// keyring maps dataset keys to the ids the store assigned, per record kind
type keyring struct {
	ids map[string]map[string]string
}

func newKeyring() *keyring {
	return &keyring{ids: make(map[string]map[string]string)}
}

func (k *keyring) put(kind, key, id string) {
	if key == "" {
		return
	}
	if k.ids[kind] == nil {
		k.ids[kind] = make(map[string]string)
	}
	k.ids[kind][key] = id
}

// lookup resolves key; an empty key resolves to an empty id
func (k *keyring) lookup(kind, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	id, ok := k.ids[kind][key]
	if !ok {
		return "", fmt.Errorf("unknown %s key %q", kind, key)
	}
	return id, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", s)
}
