// Package utils provides utility functions for the epochtree project.
package utils

// GetString safely extracts a string from a map, returning defaultVal if not found or wrong type.
func GetString(m map[string]interface{}, key, defaultVal string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return defaultVal
}

// GetFloat64 safely extracts a float64 from a map.
// Also handles int and int64 (common from hand-built parameter records).
func GetFloat64(m map[string]interface{}, key string, defaultVal float64) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return defaultVal
}

// GetInt safely extracts an int from a map.
// Also handles float64 (common from JSON) by converting.
func GetInt(m map[string]interface{}, key string, defaultVal int) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return defaultVal
}

// GetInt64 safely extracts an int64 from a map.
// Used for generator noise seeds, which must survive a JSON round-trip.
func GetInt64(m map[string]interface{}, key string, defaultVal int64) int64 {
	switch v := m[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return defaultVal
}

// GetMap safely extracts a nested map from a map.
func GetMap(m map[string]interface{}, key string) map[string]interface{} {
	if v, ok := m[key].(map[string]interface{}); ok {
		return v
	}
	return nil
}

// GetSlice safely extracts a []interface{} from a map.
func GetSlice(m map[string]interface{}, key string) []interface{} {
	if v, ok := m[key].([]interface{}); ok {
		return v
	}
	return nil
}

// Has reports whether the map contains the key at all, regardless of type.
func Has(m map[string]interface{}, key string) bool {
	_, ok := m[key]
	return ok
}
