package firestore

// Document is a raw remote document: an opaque mapping from field name to a
// dynamically typed value, with the document identity injected under "id".
// Remote collections mix snake_case and camelCase spellings of the same
// field, so every accessor takes a list of candidate keys and resolves the
// first usable one.
type Document map[string]interface{}

// ID returns the document identity
func (d Document) ID() string {
	id, _ := d["id"].(string)
	return id
}

// Text returns the first non-empty string value among the candidate keys
func (d Document) Text(keys ...string) string {
	for _, key := range keys {
		if s, ok := d[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Field returns the first non-nil value among the candidate keys
func (d Document) Field(keys ...string) interface{} {
	for _, key := range keys {
		if v, ok := d[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

// Flag combines all present boolean values among the candidate keys with
// logical OR: either alias being true makes the flag true.
func (d Document) Flag(keys ...string) bool {
	for _, key := range keys {
		if b, ok := d[key].(bool); ok && b {
			return true
		}
	}
	return false
}

// FlagDefault behaves like Flag but returns def when no candidate key
// carries a boolean value
func (d Document) FlagDefault(def bool, keys ...string) bool {
	present := false
	for _, key := range keys {
		b, ok := d[key].(bool)
		if !ok {
			continue
		}
		present = true
		if b {
			return true
		}
	}
	if !present {
		return def
	}
	return false
}

// Items returns the first list value among the candidate keys
func (d Document) Items(keys ...string) ([]interface{}, bool) {
	for _, key := range keys {
		if list, ok := d[key].([]interface{}); ok {
			return list, true
		}
	}
	return nil, false
}

// Int returns the first non-zero integer-shaped value among the candidate
// keys, or 0. Remote numbers arrive as int64 or float64 depending on how
// the document was written.
func (d Document) Int(keys ...string) int {
	for _, key := range keys {
		switch v := d[key].(type) {
		case int64:
			if v != 0 {
				return int(v)
			}
		case float64:
			if v != 0 {
				return int(v)
			}
		case int:
			if v != 0 {
				return v
			}
		}
	}
	return 0
}
