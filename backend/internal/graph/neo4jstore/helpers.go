package neo4jstore

import (
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// ============================================================================
// Helper Functions
// ============================================================================

func getInt64FromRecord(record *neo4j.Record, key string) int64 {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0
	}
	if i, ok := val.(int64); ok {
		return i
	}
	if i, ok := val.(int); ok {
		return int64(i)
	}
	return 0
}

func getMapFromRecord(record *neo4j.Record, key string) (map[string]interface{}, bool) {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return nil, false
	}
	m, ok := val.(map[string]interface{})
	return m, ok
}

func getStringFromMap(m map[string]interface{}, key, defaultValue string) string {
	val, ok := m[key]
	if !ok || val == nil {
		return defaultValue
	}
	if str, ok := val.(string); ok {
		return str
	}
	return defaultValue
}

func getBoolFromMap(m map[string]interface{}, key string, defaultValue bool) bool {
	val, ok := m[key]
	if !ok || val == nil {
		return defaultValue
	}
	if b, ok := val.(bool); ok {
		return b
	}
	return defaultValue
}

func getStringSliceFromMap(m map[string]interface{}, key string) []string {
	val, ok := m[key]
	if !ok || val == nil {
		return []string{}
	}
	if slice, ok := val.([]interface{}); ok {
		result := make([]string, 0, len(slice))
		for _, v := range slice {
			if str, ok := v.(string); ok {
				result = append(result, str)
			}
		}
		return result
	}
	if slice, ok := val.([]string); ok {
		return slice
	}
	return []string{}
}

func getTimeFromMap(m map[string]interface{}, key string) time.Time {
	if t := getTimePtrFromMap(m, key); t != nil {
		return *t
	}
	return time.Time{}
}

func getTimePtrFromMap(m map[string]interface{}, key string) *time.Time {
	val, ok := m[key]
	if !ok || val == nil {
		return nil
	}
	var t time.Time
	switch v := val.(type) {
	case time.Time:
		t = v
	case dbtype.LocalDateTime:
		t = v.Time()
	case dbtype.Date:
		t = v.Time()
	default:
		return nil
	}
	t = t.UTC()
	return &t
}

// timeParam converts optional times into a driver parameter (nil removes the property)
func timeParam(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func listParam(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
