package money

import (
	"math"
	"testing"
)

func TestToCents(t *testing.T) {
	cases := []struct {
		in   float64
		want int64
	}{
		{0, 0},
		{25.00, 2500},
		{0.01, 1},
		{0.005, 1},
		{1.005, 101},
		{-1.005, -101},
		{19.99, 1999},
		{156.25 / 100, 156},
	}
	for _, tc := range cases {
		if got := ToCents(tc.in); got != tc.want {
			t.Fatalf("ToCents(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestToCentsNonFinite(t *testing.T) {
	if got := ToCents(math.NaN()); got != 0 {
		t.Fatalf("ToCents(NaN) = %d, want 0", got)
	}
	if got := ToCents(math.Inf(1)); got != 0 {
		t.Fatalf("ToCents(+Inf) = %d, want 0", got)
	}
	if got := ToCents(math.Inf(-1)); got != 0 {
		t.Fatalf("ToCents(-Inf) = %d, want 0", got)
	}
}

func TestRoundTripIdempotence(t *testing.T) {
	cases := []int64{0, 1, -1, 99, 100, 101, 2500, 156, -156, 999999999, 123456789012}
	for _, c := range cases {
		if got := ToCents(FromCents(c)); got != c {
			t.Fatalf("ToCents(FromCents(%d)) = %d", c, got)
		}
	}
}

func TestRoundCents(t *testing.T) {
	if got := RoundCents(156.25); got != 156 {
		t.Fatalf("RoundCents(156.25) = %d, want 156", got)
	}
	if got := RoundCents(156.5); got != 157 {
		t.Fatalf("RoundCents(156.5) = %d, want 157", got)
	}
	if got := RoundCents(-156.5); got != -157 {
		t.Fatalf("RoundCents(-156.5) = %d, want -157", got)
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{2500, "$25.00"},
		{2656, "$26.56"},
		{-199, "-$1.99"},
	}
	for _, tc := range cases {
		if got := Format(tc.in); got != tc.want {
			t.Fatalf("Format(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
