// Package simd reports CPU capabilities and provides the small set of
// block-vector kernels the audio path calls into (sum, max-abs, scale).
// Detection runs once; the kernels themselves are the portable Go
// implementation regardless of what the CPU offers, since the trimmed
// real-time scope this module targets never grew a per-architecture
// assembly kernel worth the added surface.
package simd

import (
	"math"
	"sync"

	"github.com/cwbudde/algo-vecmath/cpu"
)

// Features summarizes what the running CPU supports, as reported by
// algo-vecmath/cpu on the first Detect call. It is informational: Processor's
// CapabilityReport exposes it to the control plane, but no kernel below
// branches on it.
type Features struct {
	HasSSE2   bool
	HasAVX    bool
	HasAVX2   bool
	HasAVX512 bool
}

var (
	detectOnce sync.Once
	detected   Features
)

// Detect returns the CPU features detected for this process, running the
// underlying detection exactly once regardless of how many callers ask.
func Detect() Features {
	detectOnce.Do(func() {
		f := cpu.DetectFeatures()
		detected = Features{
			HasSSE2:   f.HasSSE2,
			HasAVX:    f.HasAVX,
			HasAVX2:   f.HasAVX2,
			HasAVX512: f.HasAVX512,
		}
	})
	return detected
}

// Sum returns the sum of x.
func Sum(x []float64) float64 {
	var total float64
	for _, v := range x {
		total += v
	}
	return total
}

// SumSquares returns the sum of squares of x. Used by Block.RMS's
// mean-square accumulation.
func SumSquares(x []float64) float64 {
	var total float64
	for _, v := range x {
		total += v * v
	}
	return total
}

// MaxAbs returns the maximum absolute value in x, or 0 for an empty slice.
func MaxAbs(x []float64) float64 {
	max := 0.0
	for _, v := range x {
		a := math.Abs(v)
		if a > max {
			max = a
		}
	}
	return max
}

// ScaleInPlace multiplies every element of x by gain.
func ScaleInPlace(x []float64, gain float64) {
	for i := range x {
		x[i] *= gain
	}
}
