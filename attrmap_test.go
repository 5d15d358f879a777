// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package bigdb

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestAttrMapAliasing verifies that dash and underscore spellings address the same slot
func TestAttrMapAliasing(t *testing.T) {
	tests := []struct {
		name    string
		setKey  string
		readKey string
	}{
		{"set underscore read dash", "fabric_role", "fabric-role"},
		{"set dash read underscore", "fabric-role", "fabric_role"},
		{"mixed separators", "a_b-c", "a-b_c"},
		{"plain key", "name", "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewAttrMap().Set(tt.setKey, "leaf")
			v, err := m.Get(tt.readKey)
			if err != nil {
				t.Fatalf("Get(%q) error = %v", tt.readKey, err)
			}
			if v != "leaf" {
				t.Errorf("Get(%q) = %v, want leaf", tt.readKey, v)
			}
			if !m.Has(tt.readKey) {
				t.Errorf("Has(%q) = false", tt.readKey)
			}
		})
	}
}

// TestAttrMapOverwrite verifies that rewriting a key under the other spelling replaces it in place
func TestAttrMapOverwrite(t *testing.T) {
	m := NewAttrMap().
		Set("name", "leaf1").
		Set("fabric_role", "leaf").
		Set("dpid", "00:00:00:00:00:00:00:01").
		Set("fabric-role", "spine")

	if m.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", m.Len())
	}
	want := []string{"name", "fabric-role", "dpid"}
	if diff := cmp.Diff(want, m.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if got := m.String("fabric_role"); got != "spine" {
		t.Errorf("fabric_role = %q, want spine", got)
	}
}

// TestAttrMapDelete tests removal under either spelling
func TestAttrMapDelete(t *testing.T) {
	m := NewAttrMap().Set("name", "leaf1").Set("fabric-role", "leaf")
	m.Delete("fabric_role")
	m.Delete("missing")

	if m.Has("fabric-role") {
		t.Error("fabric-role still present after Delete")
	}
	if diff := cmp.Diff([]string{"name"}, m.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

// TestAttrMapKeyNotFound tests the missing-key error
func TestAttrMapKeyNotFound(t *testing.T) {
	m := NewAttrMap().Set("name", "leaf1")

	_, err := m.Get("fabric_role")
	if err == nil {
		t.Fatal("expected error for missing key")
	}
	if !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("errors.Is(err, ErrKeyNotFound) = false for %v", err)
	}
	var keyErr *KeyNotFoundError
	if !errors.As(err, &keyErr) {
		t.Fatalf("expected *KeyNotFoundError, got %T", err)
	}
	if keyErr.Key != "fabric-role" {
		t.Errorf("Key = %q, want normalized fabric-role", keyErr.Key)
	}

	var nilMap *AttrMap
	if _, err := nilMap.Get("x"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("nil map Get error = %v", err)
	}
}

// TestAttrMapAccessors tests the typed helpers
func TestAttrMapAccessors(t *testing.T) {
	v, err := FromJSON([]byte(`{
		"name": "leaf1",
		"port": 8443,
		"switch_config": {"fabric-role": "leaf"},
		"interface": [{"name": "ethernet1"}, {"name": "ethernet2"}],
		"description": null
	}`))
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}
	m := v.(*AttrMap)

	if got := m.String("name"); got != "leaf1" {
		t.Errorf("String(name) = %q", got)
	}
	if got := m.String("port"); got != "8443" {
		t.Errorf("String(port) = %q", got)
	}
	if got := m.String("description"); got != "" {
		t.Errorf("String(description) = %q, want empty for null", got)
	}
	if got := m.String("missing"); got != "" {
		t.Errorf("String(missing) = %q", got)
	}
	if got := m.Map("switch-config").String("fabric_role"); got != "leaf" {
		t.Errorf("nested fabric_role = %q", got)
	}
	if m.Map("name") != nil {
		t.Error("Map(name) should be nil for a string")
	}
	if got := len(m.List("interface")); got != 2 {
		t.Errorf("List(interface) length = %d", got)
	}
	if m.List("name") != nil {
		t.Error("List(name) should be nil for a string")
	}

	var visited []string
	m.Range(func(key string, _ any) bool {
		visited = append(visited, key)
		return key != "switch-config"
	})
	if diff := cmp.Diff([]string{"name", "port", "switch-config"}, visited); diff != "" {
		t.Errorf("Range stop mismatch (-want +got):\n%s", diff)
	}
}

// TestFromJSON tests decoding of each JSON kind
func TestFromJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  any
	}{
		{"string", `"leaf1"`, "leaf1"},
		{"number", `8443`, json.Number("8443")},
		{"float", `1.5`, json.Number("1.5")},
		{"true", `true`, true},
		{"false", `false`, false},
		{"null", `null`, nil},
		{"array", `[1,"a",null]`, []any{json.Number("1"), "a", nil}},
		{"object", `{"fabric_role":"leaf"}`, NewAttrMap().Set("fabric-role", "leaf")},
		{
			"list of objects",
			`[{"name":"leaf1"},{"name":"leaf2"}]`,
			[]any{NewAttrMap().Set("name", "leaf1"), NewAttrMap().Set("name", "leaf2")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromJSON([]byte(tt.input))
			if err != nil {
				t.Fatalf("FromJSON() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FromJSON() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestFromJSONInvalid tests rejection of malformed documents
func TestFromJSONInvalid(t *testing.T) {
	for _, input := range []string{``, `{`, `{"a":}`, `not json`} {
		if _, err := FromJSON([]byte(input)); err == nil {
			t.Errorf("FromJSON(%q) expected error", input)
		}
	}
}

// TestAttrMapOrderPreserved verifies decode order survives a round trip
func TestAttrMapOrderPreserved(t *testing.T) {
	input := `{"zeta":1,"alpha":{"y":true,"b":false},"mid_key":"x"}`

	v, err := FromJSON([]byte(input))
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}
	m := v.(*AttrMap)

	if diff := cmp.Diff([]string{"zeta", "alpha", "mid-key"}, m.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}

	out, err := ToJSON(m)
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	want := `{"zeta":1,"alpha":{"y":true,"b":false},"mid-key":"x"}`
	if string(out) != want {
		t.Errorf("ToJSON() = %s, want %s", out, want)
	}

	back, err := FromJSON(out)
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}
	if diff := cmp.Diff(m, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

// TestAttrMapEqual tests order-insensitive equality
func TestAttrMapEqual(t *testing.T) {
	a := NewAttrMap().Set("name", "leaf1").Set("fabric_role", "leaf")
	b := NewAttrMap().Set("fabric-role", "leaf").Set("name", "leaf1")
	c := NewAttrMap().Set("name", "leaf1").Set("fabric_role", "spine")

	if !a.Equal(b) {
		t.Error("maps with the same entries in different order should be equal")
	}
	if a.Equal(c) {
		t.Error("maps with different values should not be equal")
	}
	if a.Equal(NewAttrMap().Set("name", "leaf1")) {
		t.Error("maps with different sizes should not be equal")
	}
}

// TestAttrMapUnmarshalJSON tests use with encoding/json
func TestAttrMapUnmarshalJSON(t *testing.T) {
	var wrapper struct {
		Switch *AttrMap `json:"switch"`
	}
	if err := json.Unmarshal([]byte(`{"switch":{"fabric-role":"leaf","name":"leaf1"}}`), &wrapper); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if got := wrapper.Switch.String("fabric_role"); got != "leaf" {
		t.Errorf("fabric_role = %q", got)
	}

	m := NewAttrMap()
	if err := m.UnmarshalJSON([]byte(`[1,2]`)); err == nil {
		t.Error("expected error decoding an array into AttrMap")
	}
}

// TestToJSON tests encoding of the supported payload kinds
func TestToJSON(t *testing.T) {
	tests := []struct {
		name    string
		data    any
		want    string
		wantErr bool
	}{
		{"attr map", NewAttrMap().Set("fabric_role", "leaf"), `{"fabric-role":"leaf"}`, false},
		{"body", Body{}.Set("mac_address", "00:00:00:00:00:01"), `{"mac-address":"00:00:00:00:00:01"}`, false},
		{"body pointer", &Body{}, `{}`, false},
		{"raw message", json.RawMessage(`{"a":1}`), `{"a":1}`, false},
		{"invalid raw message", json.RawMessage(`{"a":`), ``, true},
		{"plain map", map[string]any{"a": 1}, `{"a":1}`, false},
		{"slice of maps", []*AttrMap{NewAttrMap().Set("x_y", 1)}, `[{"x-y":1}]`, false},
		{"nil", nil, `null`, false},
		{"unsupported", make(chan int), ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToJSON(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ToJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(got) != tt.want {
				t.Errorf("ToJSON() = %s, want %s", got, tt.want)
			}
		})
	}
}
