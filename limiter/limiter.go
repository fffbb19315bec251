package limiter

import (
	"fmt"

	"github.com/cwbudde/volumod/audio"
	"github.com/cwbudde/volumod/dsp/envelope"
	"github.com/cwbudde/volumod/internal/core"
)

const (
	defaultCeilingDB = -0.5
	defaultReleaseMs = 50

	minReleaseMs = 10
	maxReleaseMs = 2000

	// instantAttackCoef makes the shared Follower snap to a new,
	// larger reduction in a single sample: no look-ahead, so the very
	// first sample of an overshoot must already be clamped.
	instantAttackCoef = 1.0
)

// Limiter is a peak-hold brick-wall limiter: attack is instantaneous,
// computed from the current frame's cross-channel peak, so the output
// never exceeds the ceiling even on the first sample of an overshoot.
// Only release toward unity gain is gradual. The gain reduction amount
// (1 - envelope) is tracked by a dsp/envelope.Follower with its attack
// coefficient pinned to 1: a rising reduction target snaps instantly,
// a falling one decays at the configured release rate.
type Limiter struct {
	sampleRate float64

	ceilingDB float64
	releaseMs float64

	reduction *envelope.Follower
}

// New returns a Limiter at the default -0.5 dBFS ceiling and 50 ms
// release, with envelope starting fully open.
func New(sampleRate float64) (*Limiter, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("limiter: sample rate must be positive, got %v", sampleRate)
	}
	l := &Limiter{
		sampleRate: sampleRate,
		ceilingDB:  defaultCeilingDB,
		releaseMs:  defaultReleaseMs,
		reduction:  envelope.New(instantAttackCoef, 0),
	}
	l.updateReleaseCoef()
	return l, nil
}

// SetCeilingDB sets the output ceiling in dBFS.
func (l *Limiter) SetCeilingDB(db float64) { l.ceilingDB = db }

// CeilingDB returns the current ceiling in dBFS.
func (l *Limiter) CeilingDB() float64 { return l.ceilingDB }

// SetReleaseMs sets the release time in ms, clamped to [10, 2000].
func (l *Limiter) SetReleaseMs(ms float64) {
	l.releaseMs = core.Clamp(ms, minReleaseMs, maxReleaseMs)
	l.updateReleaseCoef()
}

// Envelope returns the current gain envelope, in (0, 1].
func (l *Limiter) Envelope() float64 { return 1 - l.reduction.Value() }

func (l *Limiter) updateReleaseCoef() {
	l.reduction.SetCoefficients(instantAttackCoef, core.SmoothCoef(l.releaseMs, l.sampleRate))
}

// ProcessBlock limits block in place, frame by frame.
func (l *Limiter) ProcessBlock(block *audio.Block) {
	frameCount := block.FrameCount()
	channels := block.Channels()
	ceilingLinear := core.DBToLinear(l.ceilingDB)

	for f := 0; f < frameCount; f++ {
		peak := 0.0
		for ch := 0; ch < channels; ch++ {
			v := block.Get(f, ch)
			if v < 0 {
				v = -v
			}
			if v > peak {
				peak = v
			}
		}

		// Every overshoot requests the reduction that brings this
		// frame's peak exactly to the ceiling. A deeper one than the
		// current reduction snaps the follower to it; a milder one lets
		// the release branch ease the existing reduction down toward it,
		// never below it, so the ceiling holds on every frame. Without
		// an overshoot the target is 0 and the reduction decays toward
		// unity gain.
		target := 0.0
		if peak > ceilingLinear {
			target = 1 - ceilingLinear/peak
		}
		l.reduction.Process(target)

		gain := 1 - l.reduction.Value()
		if gain < 1 {
			for ch := 0; ch < channels; ch++ {
				block.Set(f, ch, block.Get(f, ch)*gain)
			}
		}
	}
}

// Reset opens the envelope fully.
func (l *Limiter) Reset() {
	l.reduction.Reset()
}
