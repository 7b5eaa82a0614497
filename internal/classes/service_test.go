package classes

import "testing"

func TestDefaultPassword(t *testing.T) {
	tests := []struct {
		classID string
		seat    int
		want    string
	}{
		{"601", 5, "60105"},
		{"601", 12, "60112"},
		{"7a", 1, "7a01"},
	}
	for _, tt := range tests {
		if got := DefaultPassword(tt.classID, tt.seat); got != tt.want {
			t.Errorf("DefaultPassword(%q, %d) = %q, want %q", tt.classID, tt.seat, got, tt.want)
		}
	}
}
