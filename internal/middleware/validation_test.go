package middleware

import "testing"

func TestValidateCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid key", "game", "game", false},
		{"hangul label", "게임", "게임", false},
		{"trims whitespace", "  game  ", "game", false},
		{"empty", "", "", true},
		{"too long", "abcdefghijklmnopqrstu", "", true},
		{"exactly 20", "abcdefghij0123456789", "abcdefghij0123456789", false},
		{"path traversal", "../etc", "", true},
		{"sql injection", "a'; DROP--", "", true},
		{"spaces inside", "game review", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateCategory(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateDays(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"empty means all", "", 0, false},
		{"valid", "30", 30, false},
		{"max", "365", 365, false},
		{"over max", "366", 0, true},
		{"zero", "0", 0, true},
		{"negative", "-5", 0, true},
		{"not a number", "abc", 0, true},
		{"trims whitespace", " 7 ", 7, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateDays(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}
