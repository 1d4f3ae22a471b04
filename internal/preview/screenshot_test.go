package preview

import "testing"

func TestPercentEncodeForDataURL(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"abc-123_~.", "abc-123_~."},
		{"a b", "a%20b"},
		{"<p>&amp;</p>", "%3Cp%3E%26amp%3B%3C%2Fp%3E"},
		{"é", "%C3%A9"},
	}
	for _, tt := range tests {
		if got := percentEncodeForDataURL(tt.in); got != tt.expected {
			t.Errorf("percentEncodeForDataURL(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}
