package audio

import (
	"math"

	"github.com/cwbudde/volumod/internal/core"
	"github.com/cwbudde/volumod/internal/simd"
)

// Block is an interleaved audio buffer: samples[frame*channels+ch].
// The host owns the underlying slice; the engine borrows a Block for the
// duration of one process call and never keeps a reference afterward.
type Block struct {
	samples    []float64
	sampleRate float64
	channels   int
}

// New allocates a zeroed Block of frameCount frames at channels and
// sampleRate.
func New(sampleRate float64, channels, frameCount int) *Block {
	if channels < 1 {
		channels = 1
	}
	return &Block{
		samples:    make([]float64, frameCount*channels),
		sampleRate: sampleRate,
		channels:   channels,
	}
}

// FromSamples wraps an existing interleaved slice without copying it.
// len(samples) need not be an exact multiple of channels; FrameCount
// simply floors.
func FromSamples(samples []float64, sampleRate float64, channels int) *Block {
	if channels < 1 {
		channels = 1
	}
	return &Block{samples: samples, sampleRate: sampleRate, channels: channels}
}

// Samples returns the raw interleaved backing slice.
func (b *Block) Samples() []float64 { return b.samples }

// SampleRate returns the block's sample rate in Hz.
func (b *Block) SampleRate() float64 { return b.sampleRate }

// Channels returns the interleaved channel count.
func (b *Block) Channels() int { return b.channels }

// FrameCount returns the number of frames held by the block.
func (b *Block) FrameCount() int {
	if b.channels == 0 {
		return 0
	}
	return len(b.samples) / b.channels
}

// Get returns the sample at (frame, ch), or 0 if out of range.
func (b *Block) Get(frame, ch int) float64 {
	i, ok := b.index(frame, ch)
	if !ok {
		return 0
	}
	return b.samples[i]
}

// Set writes v at (frame, ch); out-of-range indices are a no-op.
func (b *Block) Set(frame, ch int, v float64) {
	i, ok := b.index(frame, ch)
	if !ok {
		return
	}
	b.samples[i] = v
}

func (b *Block) index(frame, ch int) (int, bool) {
	if frame < 0 || ch < 0 || ch >= b.channels || frame >= b.FrameCount() {
		return 0, false
	}
	return frame*b.channels + ch, true
}

// Peak returns the maximum absolute sample value across the block, or 0
// for an empty block.
func (b *Block) Peak() float64 {
	return simd.MaxAbs(b.samples)
}

// RMS returns the root-mean-square level across all samples, or 0 for an
// empty block.
func (b *Block) RMS() float64 {
	n := len(b.samples)
	if n == 0 {
		return 0
	}
	return math.Sqrt(simd.SumSquares(b.samples) / float64(n))
}

// ApplyGain multiplies every sample by g in place.
func (b *Block) ApplyGain(g float64) {
	simd.ScaleInPlace(b.samples, g)
}

// Mix adds other's samples, scaled by g, into this block in place. It is
// a no-op if the two blocks have different lengths.
func (b *Block) Mix(other *Block, g float64) {
	if len(b.samples) != len(other.samples) {
		return
	}
	for i, v := range other.samples {
		b.samples[i] += v * g
	}
}

// Clone returns a deep copy of the block.
func (b *Block) Clone() *Block {
	out := make([]float64, len(b.samples))
	core.CopyInto(out, b.samples)
	return &Block{samples: out, sampleRate: b.sampleRate, channels: b.channels}
}

// Clear zeros every sample in the block.
func (b *Block) Clear() {
	core.Zero(b.samples)
}
