package redis

import (
	"testing"
	"time"
)

func TestClampWindow(t *testing.T) {
	cases := []struct {
		name string
		in   time.Duration
		want time.Duration
	}{
		{"zero", 0, time.Second},
		{"negative", -5 * time.Second, time.Second},
		{"sub-second", 200 * time.Millisecond, time.Second},
		{"normal", 60 * time.Second, 60 * time.Second},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := clampWindow(tc.in); got != tc.want {
				t.Fatalf("clampWindow(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
