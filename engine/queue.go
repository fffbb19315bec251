package engine

import (
	"sync/atomic"

	"github.com/cwbudde/volumod/dsp/biquad"
	"github.com/cwbudde/volumod/eq"
)

// eqBandSlot coalesces pending band-gain changes: a control-thread call
// that arrives before the audio thread has drained the previous one
// simply overwrites it, so the queue always carries only the most
// recent value per band, discarding stale ones (an SPSC queue of depth
// one per kind is the simplest structure that satisfies "drop the
// oldest pending command of the same kind to preserve recency").
type eqBandSlot struct {
	pending atomic.Bool
	gainDB  float64
	coeffs  biquad.Coefficients
}

type eqPresetSlot struct {
	pending atomic.Bool
	gains   [eq.NumBands]float64
	coeffs  [eq.NumBands]biquad.Coefficients
}

// commandQueue carries composite parameter changes from the control
// thread to the audio thread: precomputed filter coefficient sets and
// one-shot state transitions. Every field here is either an atomic flag
// or a plain value protected by the happens-before edge that flag's
// Store/Load pair establishes, per the Go memory model's treatment of
// sync/atomic as a synchronization primitive.
type commandQueue struct {
	eqBand   [eq.NumBands]eqBandSlot
	eqPreset eqPresetSlot

	startNoiseLearn atomic.Bool
	stopNoiseLearn  atomic.Bool
	resetRequested  atomic.Bool
}

// pushEQBand enqueues a precomputed coefficient set for band i, built by
// the caller off the audio thread.
func (q *commandQueue) pushEQBand(i int, gainDB float64, coeffs biquad.Coefficients) {
	if i < 0 || i >= eq.NumBands {
		return
	}
	slot := &q.eqBand[i]
	slot.gainDB = gainDB
	slot.coeffs = coeffs
	slot.pending.Store(true)
}

// pushEQPreset enqueues a precomputed ten-band coefficient set.
func (q *commandQueue) pushEQPreset(gains [eq.NumBands]float64, coeffs [eq.NumBands]biquad.Coefficients) {
	q.eqPreset.gains = gains
	q.eqPreset.coeffs = coeffs
	q.eqPreset.pending.Store(true)
}

func (q *commandQueue) pushStartNoiseLearn() { q.startNoiseLearn.Store(true) }
func (q *commandQueue) pushStopNoiseLearn()  { q.stopNoiseLearn.Store(true) }
func (q *commandQueue) pushReset()           { q.resetRequested.Store(true) }

// drain applies every pending command to the owning Processor's
// components. Called once at the top of Process, on the audio thread
// only. Every branch here is allocation-free.
func (q *commandQueue) drain(p *Processor) {
	for i := range q.eqBand {
		slot := &q.eqBand[i]
		if slot.pending.CompareAndSwap(true, false) {
			p.eq.ApplyBandCoefficients(i, slot.gainDB, slot.coeffs)
		}
	}
	if q.eqPreset.pending.CompareAndSwap(true, false) {
		p.eq.ApplyPresetCoefficients(q.eqPreset.gains, q.eqPreset.coeffs)
	}
	if q.startNoiseLearn.CompareAndSwap(true, false) {
		p.noise.StartLearning()
	}
	if q.stopNoiseLearn.CompareAndSwap(true, false) {
		p.noise.StopLearning()
	}
	if q.resetRequested.CompareAndSwap(true, false) {
		p.resetComponents()
	}
}
