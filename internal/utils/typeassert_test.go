package utils

import "testing"

func TestGetString(t *testing.T) {
	m := map[string]interface{}{"name": "Amp1", "count": 3}
	if got := GetString(m, "name", "x"); got != "Amp1" {
		t.Errorf("GetString = %q", got)
	}
	if got := GetString(m, "count", "fallback"); got != "fallback" {
		t.Errorf("wrong type should fall back, got %q", got)
	}
	if got := GetString(m, "missing", "fallback"); got != "fallback" {
		t.Errorf("missing key should fall back, got %q", got)
	}
}

func TestGetFloat64(t *testing.T) {
	tests := []struct {
		name string
		m    map[string]interface{}
		want float64
	}{
		{"float64", map[string]interface{}{"v": 2.5}, 2.5},
		{"int", map[string]interface{}{"v": 3}, 3},
		{"int64", map[string]interface{}{"v": int64(4)}, 4},
		{"string falls back", map[string]interface{}{"v": "2.5"}, -1},
		{"missing falls back", map[string]interface{}{}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetFloat64(tt.m, "v", -1); got != tt.want {
				t.Errorf("GetFloat64 = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetInt64_JSONRoundTrip(t *testing.T) {
	// Seeds arrive as float64 after JSON unmarshaling.
	m := map[string]interface{}{"seed": float64(8151986)}
	if got := GetInt64(m, "seed", 0); got != 8151986 {
		t.Errorf("GetInt64 = %d", got)
	}
}

func TestGetMapAndSlice(t *testing.T) {
	m := map[string]interface{}{
		"params": map[string]interface{}{"offset": 1.0},
		"items":  []interface{}{"a", "b"},
	}
	if got := GetMap(m, "params"); got == nil || got["offset"] != 1.0 {
		t.Errorf("GetMap = %v", got)
	}
	if got := GetMap(m, "items"); got != nil {
		t.Errorf("non-map should return nil, got %v", got)
	}
	if got := GetSlice(m, "items"); len(got) != 2 {
		t.Errorf("GetSlice = %v", got)
	}
	if got := GetSlice(m, "params"); got != nil {
		t.Errorf("non-slice should return nil, got %v", got)
	}
}

func TestHas(t *testing.T) {
	m := map[string]interface{}{"present": nil}
	if !Has(m, "present") {
		t.Error("Has should see keys with nil values")
	}
	if Has(m, "absent") {
		t.Error("Has reported an absent key")
	}
}
