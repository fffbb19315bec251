package compressor

import (
	"fmt"

	"github.com/cwbudde/volumod/audio"
	"github.com/cwbudde/volumod/internal/core"
)

// Mode selects one of the built-in presets.
type Mode int

const (
	Gentle Mode = iota
	Moderate
	Aggressive
	Limiting
)

func (m Mode) String() string {
	switch m {
	case Gentle:
		return "gentle"
	case Moderate:
		return "moderate"
	case Aggressive:
		return "aggressive"
	case Limiting:
		return "limiting"
	default:
		return "unknown"
	}
}

type preset struct {
	thresholdDB float64
	ratio       float64
	attackMs    float64
	releaseMs   float64
	kneeDB      float64
	makeupDB    float64
}

var presets = map[Mode]preset{
	Gentle:     {thresholdDB: -20, ratio: 2, attackMs: 20, releaseMs: 200, kneeDB: 6, makeupDB: 2},
	Moderate:   {thresholdDB: -18, ratio: 4, attackMs: 10, releaseMs: 150, kneeDB: 4, makeupDB: 4},
	Aggressive: {thresholdDB: -15, ratio: 8, attackMs: 5, releaseMs: 100, kneeDB: 2, makeupDB: 6},
	Limiting:   {thresholdDB: -1, ratio: 20, attackMs: 0.5, releaseMs: 50, kneeDB: 0, makeupDB: 0},
}

const (
	minRatio = 1
	maxRatio = 100

	minKneeDB = 0
	maxKneeDB = 24

	minAttackMs = 0.1
	maxAttackMs = 500

	minReleaseMs = 10
	maxReleaseMs = 2000
)

// Metrics is a snapshot of the compressor's current dynamics state.
type Metrics struct {
	GainReductionDB float64
}

// Compressor is a soft-knee feed-forward dynamic-range compressor with
// automatic or fixed makeup gain.
type Compressor struct {
	sampleRate float64

	thresholdDB float64
	ratio       float64
	kneeDB      float64
	attackMs    float64
	releaseMs   float64
	makeupDB    float64
	autoMakeup  bool

	attackCoef  float64
	releaseCoef float64

	envelopeDB      float64
	gainReductionDB float64
}

// New returns a Compressor at the Moderate preset for sampleRate.
func New(sampleRate float64) (*Compressor, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("compressor: sample rate must be positive, got %v", sampleRate)
	}
	c := &Compressor{sampleRate: sampleRate}
	c.applyPreset(presets[Moderate])
	c.updateTimeConstants()
	return c, nil
}

func (c *Compressor) applyPreset(p preset) {
	c.thresholdDB = p.thresholdDB
	c.ratio = p.ratio
	c.attackMs = p.attackMs
	c.releaseMs = p.releaseMs
	c.kneeDB = p.kneeDB
	c.makeupDB = p.makeupDB
	c.updateTimeConstants()
}

// SetMode loads one of the built-in presets.
func (c *Compressor) SetMode(m Mode) {
	p, ok := presets[m]
	if !ok {
		p = presets[Moderate]
	}
	c.applyPreset(p)
}

// SetThreshold sets the compression threshold in dB.
func (c *Compressor) SetThreshold(db float64) { c.thresholdDB = db }

// SetRatio sets the compression ratio, clamped to [1, 100].
func (c *Compressor) SetRatio(ratio float64) {
	c.ratio = core.Clamp(ratio, minRatio, maxRatio)
}

// SetKnee sets the knee width in dB, clamped to [0, 24].
func (c *Compressor) SetKnee(kneeDB float64) {
	c.kneeDB = core.Clamp(kneeDB, minKneeDB, maxKneeDB)
}

// SetAttack sets the attack time in ms, clamped to [0.1, 500].
func (c *Compressor) SetAttack(ms float64) {
	c.attackMs = core.Clamp(ms, minAttackMs, maxAttackMs)
	c.updateTimeConstants()
}

// SetRelease sets the release time in ms, clamped to [10, 2000].
func (c *Compressor) SetRelease(ms float64) {
	c.releaseMs = core.Clamp(ms, minReleaseMs, maxReleaseMs)
	c.updateTimeConstants()
}

// SetMakeupGain sets a fixed makeup gain in dB, disabling auto makeup.
func (c *Compressor) SetMakeupGain(db float64) {
	c.makeupDB = db
	c.autoMakeup = false
}

// SetAutoMakeup enables or disables automatic makeup gain, computed as
// -threshold*(1 - 1/ratio) when enabled.
func (c *Compressor) SetAutoMakeup(enabled bool) { c.autoMakeup = enabled }

// GainReductionDB returns the most recent gain reduction, always >= 0.
func (c *Compressor) GainReductionDB() float64 { return c.gainReductionDB }

func (c *Compressor) updateTimeConstants() {
	c.attackCoef = core.SmoothCoef(c.attackMs, c.sampleRate)
	c.releaseCoef = core.SmoothCoef(c.releaseMs, c.sampleRate)
}

func (c *Compressor) makeupGainDB() float64 {
	if c.autoMakeup {
		return -c.thresholdDB * (1 - 1/c.ratio)
	}
	return c.makeupDB
}

// gainReductionCurve evaluates the static soft-knee curve at xDB, always
// returning a value <= 0.
func gainReductionCurve(xDB, thresholdDB, ratio, kneeDB float64) float64 {
	lower := thresholdDB - kneeDB/2
	upper := thresholdDB + kneeDB/2

	switch {
	case xDB < lower:
		return 0
	case xDB > upper || kneeDB <= 0:
		return (thresholdDB + (xDB-thresholdDB)/ratio) - xDB
	default:
		d := xDB - lower
		return (1/ratio - 1) * d * d / (2 * kneeDB)
	}
}

// ProcessBlock compresses block in place, taking the per-frame peak
// across channels as the detector input.
func (c *Compressor) ProcessBlock(block *audio.Block) {
	frameCount := block.FrameCount()
	channels := block.Channels()
	makeupLinear := core.DBToLinear(c.makeupGainDB())

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
		xDB := core.LinearToDB(peak)

		if xDB > c.envelopeDB {
			c.envelopeDB += c.attackCoef * (xDB - c.envelopeDB)
		} else {
			c.envelopeDB += c.releaseCoef * (xDB - c.envelopeDB)
		}

		grDB := gainReductionCurve(c.envelopeDB, c.thresholdDB, c.ratio, c.kneeDB)
		c.gainReductionDB = -grDB

		gain := core.DBToLinear(grDB) * makeupLinear
		for ch := 0; ch < channels; ch++ {
			block.Set(f, ch, block.Get(f, ch)*gain)
		}
	}
}

// Reset zeros the envelope and reported gain reduction.
func (c *Compressor) Reset() {
	c.envelopeDB = 0
	c.gainReductionDB = 0
}

// GetMetrics returns a snapshot of the compressor's dynamics state.
func (c *Compressor) GetMetrics() Metrics {
	return Metrics{GainReductionDB: c.gainReductionDB}
}
