package explain

import "testing"

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"plain", `{"a":1}`, `{"a":1}`, true},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`, true},
		{"prose around", `Sure! {"a":{"b":2}} Hope this helps {"c":3}`, `{"a":{"b":2}}`, true},
		{"brace in string", `{"a":"}{","b":"\"}"}`, `{"a":"}{","b":"\"}"}`, true},
		{"unbalanced", `{"a":{"b":1}`, "", false},
		{"stray brace in prose", "Use {curly} braces {like this. {\"a\":1}", `{"a":1}`, true},
		{"balanced invalid first", `{"a" 1} then {"b":2}`, `{"b":2}`, true},
		{"spaced key", "{\n  \"a\": 1\n}", "{\n  \"a\": 1\n}", true},
		{"none", "no json here", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractJSON(tc.input)
			if tc.ok && err != nil {
				t.Fatalf("ExtractJSON(%q) error: %v", tc.input, err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("ExtractJSON(%q) = %q, want error", tc.input, got)
			}
			if got != tc.want {
				t.Fatalf("ExtractJSON(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
