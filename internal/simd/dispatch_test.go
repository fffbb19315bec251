package simd

import "testing"

func TestSum(t *testing.T) {
	got := Sum([]float64{1, 2, 3, 4})
	if got != 10 {
		t.Fatalf("Sum = %v, want 10", got)
	}
}

func TestSumSquares(t *testing.T) {
	got := SumSquares([]float64{1, 2, 3})
	if got != 14 {
		t.Fatalf("SumSquares = %v, want 14", got)
	}
}

func TestMaxAbs(t *testing.T) {
	cases := []struct {
		name string
		in   []float64
		want float64
	}{
		{"empty", nil, 0},
		{"mixed", []float64{-0.5, 0.9, -1.2, 0.3}, 1.2},
		{"all negative", []float64{-0.1, -0.2}, 0.2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := MaxAbs(c.in); got != c.want {
				t.Fatalf("MaxAbs(%v) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestScaleInPlace(t *testing.T) {
	x := []float64{1, -2, 3}
	ScaleInPlace(x, 2)
	want := []float64{2, -4, 6}
	for i := range x {
		if x[i] != want[i] {
			t.Fatalf("index %d: got %v, want %v", i, x[i], want[i])
		}
	}
}

func TestDetectIsStable(t *testing.T) {
	a := Detect()
	b := Detect()
	if a != b {
		t.Fatalf("Detect() not stable across calls: %+v vs %+v", a, b)
	}
}
