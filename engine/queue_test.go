package engine

import (
	"testing"

	"github.com/cwbudde/volumod/dsp/biquad"
	"github.com/cwbudde/volumod/eq"
)

func TestEQBandSlotCoalesces(t *testing.T) {
	var q commandQueue
	q.pushEQBand(0, 3, biquad.Coefficients{B0: 1})
	q.pushEQBand(0, 7, biquad.Coefficients{B0: 2})

	p := newTestProcessor(t)
	q.drain(p)

	if got := p.eq.BandGain(0); got != 7 {
		t.Fatalf("BandGain(0) = %v, want 7 (latest pushed value should win)", got)
	}
	if p.queueHasPendingEQBand(0) {
		t.Fatal("pending flag should be cleared after drain")
	}
}

func TestEQPresetPushAndDrain(t *testing.T) {
	var q commandQueue
	gains := eq.PresetCurve(eq.BassBoost)
	var coeffs [eq.NumBands]biquad.Coefficients
	for i := range coeffs {
		coeffs[i] = biquad.Peak(eq.BandFrequencyHz(i), 48000, eq.BandQ(), gains[i])
	}
	q.pushEQPreset(gains, coeffs)

	p := newTestProcessor(t)
	q.drain(p)

	for i, want := range gains {
		if got := p.eq.BandGain(i); got != want {
			t.Fatalf("band %d gain = %v, want %v", i, got, want)
		}
	}
}

func TestDrainIsIdempotentWithoutNewPushes(t *testing.T) {
	var q commandQueue
	q.pushReset()

	p := newTestProcessor(t)
	q.drain(p)
	framesBefore := p.GetStats().FramesProcessed

	// A second drain with nothing newly pushed must not re-trigger reset.
	q.drain(p)
	if p.GetStats().FramesProcessed != framesBefore {
		t.Fatal("second drain with no new pushes should be a no-op")
	}
}

func TestStartStopNoiseLearnRoundTrip(t *testing.T) {
	var q commandQueue
	p := newTestProcessor(t)

	q.pushStartNoiseLearn()
	q.drain(p)
	if !p.noise.IsLearning() {
		t.Fatal("expected noise reducer to be learning after drain")
	}

	q.pushStopNoiseLearn()
	q.drain(p)
	if p.noise.IsLearning() {
		t.Fatal("expected noise reducer to have stopped learning after drain")
	}
}

func TestPushEQBandOutOfRangeIsNoOp(t *testing.T) {
	var q commandQueue
	q.pushEQBand(-1, 5, biquad.Coefficients{})
	q.pushEQBand(eq.NumBands, 5, biquad.Coefficients{})
	p := newTestProcessor(t)
	q.drain(p) // must not panic
}

// queueHasPendingEQBand is a small test-only accessor so the coalescing
// test can assert the pending flag was actually cleared, not merely that
// the gain happened to match.
func (p *Processor) queueHasPendingEQBand(i int) bool {
	return p.queue.eqBand[i].pending.Load()
}
