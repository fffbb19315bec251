package loudness

import (
	"math"
	"testing"

	"github.com/cwbudde/volumod/audio"
	"github.com/cwbudde/volumod/internal/testutil"
)

func TestNewValidatesSampleRate(t *testing.T) {
	if _, err := New(0, 2); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestSetTargetLUFSClamped(t *testing.T) {
	n, _ := New(48000, 2)
	n.SetTargetLUFS(10)
	if got := n.TargetLUFS(); got != MaxTargetLUFS {
		t.Fatalf("TargetLUFS() = %v, want %v", got, MaxTargetLUFS)
	}
	n.SetTargetLUFS(-100)
	if got := n.TargetLUFS(); got != MinTargetLUFS {
		t.Fatalf("TargetLUFS() = %v, want %v", got, MinTargetLUFS)
	}
}

func TestSilenceBelowGateSkipsGainApplication(t *testing.T) {
	n, _ := New(48000, 2)
	before := n.CurrentGain()
	samples := make([]float64, 512*2) // all zero
	block := audio.FromSamples(samples, 48000, 2)
	n.ProcessBlock(block)
	if n.CurrentGain() != before {
		t.Fatalf("gain changed on silent (gated) block: %v -> %v", before, n.CurrentGain())
	}
	for _, v := range block.Samples() {
		if v != 0 {
			t.Fatal("gated block should be left untouched")
		}
	}
}

func TestGainConvergesTowardTarget(t *testing.T) {
	n, _ := New(48000, 1)
	// EnergyOnly integrates the true mean square. The default
	// WeightedByFrameCount reads a stream of 512-frame blocks about
	// 27 dB (10*log10(512)) hot and would attenuate this sine instead.
	n.SetMode(EnergyOnly)
	n.SetTargetLUFS(-14)
	sine := testutil.DeterministicSine(1000, 48000, 0.1, 512)
	for i := 0; i < 500; i++ {
		block := audio.FromSamples(append([]float64(nil), sine...), 48000, 1)
		n.ProcessBlock(block)
	}
	g := n.CurrentGain()
	if g < 1.0 {
		t.Fatalf("expected gain to boost a quiet 0.1-amplitude sine, got %v", g)
	}
}

func TestGainStaysWithinBounds(t *testing.T) {
	n, _ := New(48000, 1)
	sine := testutil.DeterministicSine(1000, 48000, 0.9, 512)
	for i := 0; i < 500; i++ {
		block := audio.FromSamples(append([]float64(nil), sine...), 48000, 1)
		n.ProcessBlock(block)
		g := n.CurrentGain()
		lo := math.Pow(10, minGainDB/20)
		hi := math.Pow(10, maxGainDB/20)
		if g < lo-1e-9 || g > hi+1e-9 {
			t.Fatalf("gain %v out of bounds [%v, %v]", g, lo, hi)
		}
	}
}

func TestGainSmoothingIsOnePole(t *testing.T) {
	n, _ := New(48000, 1)
	sine := testutil.DeterministicSine(1000, 48000, 0.05, 512)
	prev := n.CurrentGain()
	prevStep := 0.0
	for i := 0; i < 50; i++ {
		block := audio.FromSamples(append([]float64(nil), sine...), 48000, 1)
		n.ProcessBlock(block)
		cur := n.CurrentGain()
		step := cur - prev
		// one-pole property: the gain never overshoots its target, so for
		// a constant-level input it approaches monotonically and
		// successive steps never change direction
		if i > 0 && step*prevStep < 0 {
			t.Fatalf("gain step at %d reversed direction: %v -> %v", i, prev, cur)
		}
		prev = cur
		prevStep = step
	}
}

func TestResetClearsIntegration(t *testing.T) {
	n, _ := New(48000, 1)
	sine := testutil.DeterministicSine(1000, 48000, 0.2, 512)
	block := audio.FromSamples(sine, 48000, 1)
	n.ProcessBlock(block)
	n.Reset()
	if n.sampleCount != 0 || n.integratedSum != 0 {
		t.Fatal("Reset did not clear integration state")
	}
	if n.CurrentGain() != 1.0 {
		t.Fatalf("Reset did not restore unity gain: %v", n.CurrentGain())
	}
}

func TestEmptyBlockIsNoOp(t *testing.T) {
	n, _ := New(48000, 2)
	b := audio.New(48000, 2, 0)
	n.ProcessBlock(b) // must not panic
}
