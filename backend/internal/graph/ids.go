package graph

import (
	"encoding/hex"
	"regexp"

	"github.com/google/uuid"
)

var idPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// NewID returns a 24 hex character identifier. The first six bytes are the
// millisecond timestamp of a UUIDv7 so ids sort roughly by creation time.
func NewID() string {
	u, err := uuid.NewV7()
	if err != nil {
		u = uuid.New()
	}
	var b [12]byte
	copy(b[:6], u[:6])
	copy(b[6:], u[10:16])
	return hex.EncodeToString(b[:])
}

// IsValidID reports whether s has the 24 hex character identifier form
func IsValidID(s string) bool {
	return idPattern.MatchString(s)
}
