package core

import (
	"math"
	"testing"
)

func TestDBToLinearRoundTrip(t *testing.T) {
	for _, db := range []float64{-120, -60, -20, -6, 0, 6, 24} {
		lin := DBToLinear(db)
		got := LinearToDB(lin)
		if math.Abs(got-db) > 1e-5 {
			t.Fatalf("round trip at %v dB: got %v", db, got)
		}
	}
}

func TestLinearToDBFloor(t *testing.T) {
	for _, lin := range []float64{0, -1, -0.0001} {
		if got := LinearToDB(lin); got != SilenceFloorDB {
			t.Fatalf("LinearToDB(%v) = %v, want %v", lin, got, SilenceFloorDB)
		}
	}
}

func TestClamp(t *testing.T) {
	cases := []struct {
		v, lo, hi, want float64
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{5, 10, 0, 5}, // swapped bounds
	}
	for _, c := range cases {
		if got := Clamp(c.v, c.lo, c.hi); got != c.want {
			t.Fatalf("Clamp(%v, %v, %v) = %v, want %v", c.v, c.lo, c.hi, got, c.want)
		}
	}
}

func TestClampIdempotent(t *testing.T) {
	for _, v := range []float64{-50, 0, 3.5, 100} {
		once := Clamp(v, -10, 10)
		twice := Clamp(once, -10, 10)
		if once != twice {
			t.Fatalf("Clamp not idempotent at %v: %v vs %v", v, once, twice)
		}
	}
}

func TestSmoothCoefInstantaneous(t *testing.T) {
	if got := SmoothCoef(0, 48000); got != 1 {
		t.Fatalf("SmoothCoef(0, sr) = %v, want 1", got)
	}
	if got := SmoothCoef(-5, 48000); got != 1 {
		t.Fatalf("SmoothCoef(negative, sr) = %v, want 1", got)
	}
}

func TestSmoothCoefRange(t *testing.T) {
	c := SmoothCoef(100, 48000)
	if c <= 0 || c > 1 {
		t.Fatalf("SmoothCoef(100, 48000) = %v, want in (0, 1]", c)
	}
}
