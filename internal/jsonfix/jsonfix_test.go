package jsonfix

import (
	"encoding/json"
	"testing"
)

// TestFix tests the textual repair rules.
func TestFix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trailing comma before object close",
			input: `{"a": 1,}`,
			want:  `{"a": 1}`,
		},
		{
			name:  "run of trailing commas",
			input: `{"a": 1,,,}`,
			want:  `{"a": 1}`,
		},
		{
			name:  "trailing comma before array close",
			input: `[1, 2, 3,]`,
			want:  `[1, 2, 3]`,
		},
		{
			name:  "trailing comma with whitespace before closer",
			input: "{\"a\": 1,\n}",
			want:  "{\"a\": 1\n}",
		},
		{
			name:  "missing colon before number",
			input: `{"a" 1}`,
			want:  `{"a":1}`,
		},
		{
			name:  "missing colon before string",
			input: `{"name" "alice"}`,
			want:  `{"name":"alice"}`,
		},
		{
			name:  "both fixes in one document",
			input: `{"name" "alice", "tags": [1, 2,],}`,
			want:  `{"name":"alice", "tags": [1, 2]}`,
		},
		{
			name:  "valid JSON left untouched",
			input: `{"a": 1, "b": [true, null], "c": {"d": "e"}}`,
			want:  `{"a": 1, "b": [true, null], "c": {"d": "e"}}`,
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "not JSON at all",
			input: "<html><body>hi</body></html>",
			want:  "<html><body>hi</body></html>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Fix(tt.input)
			if got != tt.want {
				t.Errorf("Fix(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestFixIdempotent verifies that applying Fix twice yields the same result
// as applying it once.
func TestFixIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`{"a": 1,}`,
		`{"a": 1,,,}`,
		`{"a" 1}`,
		`{"name" "alice", "tags": [1, 2,],}`,
		`{"a": 1}`,
		`[]`,
		"",
		"garbage that is not json",
	}

	for _, input := range inputs {
		once := Fix(input)
		twice := Fix(once)
		if once != twice {
			t.Errorf("Fix not idempotent for %q: once=%q twice=%q", input, once, twice)
		}
	}
}

// TestFixRepairedOutputParses verifies that the documented examples parse as
// valid JSON after repair.
func TestFixRepairedOutputParses(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`{"a": 1,}`,
		`{"a": 1,,,}`,
		`{"a" 1}`,
		`{"name" "alice", "links": {"peer" "fc00::1",},}`,
	}

	for _, input := range inputs {
		var v any
		repaired := Fix(input)
		if err := json.Unmarshal([]byte(repaired), &v); err != nil {
			t.Errorf("repaired output %q does not parse: %v", repaired, err)
		}
	}
}
