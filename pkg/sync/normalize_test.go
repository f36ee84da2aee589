package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  float64
		ok    bool
	}{
		{"empty string", "", 0, false},
		{"nil", nil, 0, false},
		{"non-numeric string", "abc", 0, false},
		{"decimal string", "12.50", 12.5, true},
		{"integer", 12, 12.0, true},
		{"int64", int64(7), 7.0, true},
		{"float", 3.25, 3.25, true},
		{"padded string", " 9.5 ", 9.5, true},
		{"bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDecimal(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDecimalPtr(t *testing.T) {
	assert.Nil(t, DecimalPtr(""))
	assert.Nil(t, DecimalPtr(nil))

	p := DecimalPtr("12.50")
	require.NotNil(t, p)
	assert.Equal(t, 12.5, *p)
}

func TestParseTimeISO(t *testing.T) {
	got, ok := ParseTime("2024-01-15T10:00:00Z")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), got)
}

func TestParseTimeNaiveAssumesUTC(t *testing.T) {
	got, ok := ParseTime("2024-01-15T10:00:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), got)
}

func TestParseTimeOffset(t *testing.T) {
	got, ok := ParseTime("2024-01-15T10:00:00+02:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC), got)
}

func TestParseTimeNative(t *testing.T) {
	loc := time.FixedZone("X", 3600)
	native := time.Date(2024, 1, 15, 11, 0, 0, 0, loc)

	got, ok := ParseTime(native)
	require.True(t, ok)
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), got)
}

func TestParseTimeGarbage(t *testing.T) {
	for _, input := range []interface{}{"yesterday", "", nil, 42, []interface{}{"x"}} {
		_, ok := ParseTime(input)
		assert.False(t, ok, "input %v should not parse", input)
	}
}

func TestJSONColumn(t *testing.T) {
	assert.Nil(t, jsonColumn(nil))

	col := jsonColumn([]interface{}{"v1", "v2"})
	assert.JSONEq(t, `["v1","v2"]`, string(col))
}
