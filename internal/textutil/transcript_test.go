package textutil

import "testing"

func TestNormalizeTranscript(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   string
	}{
		{"ascii", []string{"Hello", "WORLD"}, "hello world"},
		{"vietnamese", []string{"Xin", "CHÀO", "Việt", "Nam"}, "xin chào việt nam"},
		{"single", []string{"A"}, "a"},
		{"empty", nil, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeTranscript(tc.tokens); got != tc.want {
				t.Fatalf("NormalizeTranscript(%q) = %q, want %q", tc.tokens, got, tc.want)
			}
		})
	}
}

func TestIsNormalizedTranscript(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"xin chào", true},
		{"Xin chào", false},
		{"xin  chào", false},
		{" xin chào", false},
		{"xin chào ", false},
		{"xin\tchào", false},
		{"", true},
	}
	for _, tc := range tests {
		if got := IsNormalizedTranscript(tc.text); got != tc.want {
			t.Fatalf("IsNormalizedTranscript(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}
