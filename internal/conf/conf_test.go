package conf

import (
	"testing"
	"time"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", time.Second},
		{"90s", 90 * time.Second},
		{"soon", time.Second},
		{"-5s", time.Second},
	}
	for _, tt := range tests {
		if got := Duration(tt.in, time.Second); got != tt.want {
			t.Errorf("Duration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
