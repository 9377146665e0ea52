package mask

import "testing"

func TestKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"typical API key", "AIzaSyD1234567890abcdefghij", "AIza…ghij"},
		{"exactly 9 chars", "abcdefghi", "abcd…fghi"},
		{"too short to mask", "abcdefgh", "…"},
		{"empty", "", "…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.input); got != tt.want {
				t.Errorf("Key(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestShortHash(t *testing.T) {
	a := ShortHash("AIzaSyD1234567890")
	b := ShortHash("AIzaSyD1234567890")
	c := ShortHash("different")

	if len(a) != 12 {
		t.Errorf("ShortHash length = %d, want 12", len(a))
	}
	if a != b {
		t.Errorf("ShortHash not deterministic: %q vs %q", a, b)
	}
	if a == c {
		t.Errorf("ShortHash collision for different inputs")
	}
}
