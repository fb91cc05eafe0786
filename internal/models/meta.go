package models

import "strings"

// MetaField retrieves a metadata value by dotted path, descending nested
// maps, e.g. "cell.type" reads Meta["cell"]["type"]. A missing path is a
// lookup miss, reported as (nil, false), never an error.
func (e *Epoch) MetaField(path string) (interface{}, bool) {
	if e.Meta == nil || path == "" {
		return nil, false
	}

	// Fast path: flat key, possibly containing dots itself.
	if v, ok := e.Meta[path]; ok {
		return v, true
	}

	parts := strings.Split(path, ".")
	var cur interface{} = e.Meta
	for _, part := range parts {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// SetMetaField writes a metadata value at a flat key. Analysis code
// stores derived results elsewhere (node custom storage); this exists for
// importer enrichment of the bag.
func (e *Epoch) SetMetaField(key string, value interface{}) {
	if e.Meta == nil {
		e.Meta = make(map[string]interface{})
	}
	e.Meta[key] = value
}
