package sync

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Accepted layouts for string timestamps. The remote store mixes native
// timestamp values with ISO-8601 strings, some carrying a literal Z
// suffix and some naive; naive inputs are taken as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime coerces a loosely typed remote value into a UTC instant.
// Returns false for any shape or string it cannot interpret; never panics.
func ParseTime(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v.UTC(), true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return v.UTC(), true
	case string:
		if v == "" {
			return time.Time{}, false
		}
		s := strings.TrimSpace(v)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

// TimePtr is ParseTime with absence expressed as nil, for nullable columns
func TimePtr(value interface{}) *time.Time {
	t, ok := ParseTime(value)
	if !ok {
		return nil
	}
	return &t
}

// ParseDecimal coerces a loosely typed remote value into a float.
// Empty strings, nulls and non-numeric strings yield absence; never panics.
func ParseDecimal(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		if v == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// DecimalPtr is ParseDecimal with absence expressed as nil
func DecimalPtr(value interface{}) *float64 {
	f, ok := ParseDecimal(value)
	if !ok {
		return nil
	}
	return &f
}

// jsonColumn serializes a raw remote value for a JSON column, nil when
// the value is absent or unserializable
func jsonColumn(value interface{}) datatypes.JSON {
	if value == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}
