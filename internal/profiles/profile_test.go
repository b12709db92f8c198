package profiles

import (
	"encoding/json"
	"testing"
)

func TestIsJSONObject(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"object", `{"field_of_endeavor": "immunology"}`, true},
		{"empty object", `{}`, true},
		{"leading whitespace", "\n\t {\"a\": 1}", true},
		{"array", `[1, 2]`, false},
		{"string", `"profile"`, false},
		{"empty", ``, false},
		{"truncated", `{"a":`, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := isJSONObject(json.RawMessage(tc.raw)); got != tc.want {
				t.Errorf("isJSONObject(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}
