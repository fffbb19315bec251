package noise

import (
	"fmt"

	"github.com/cwbudde/volumod/audio"
	"github.com/cwbudde/volumod/dsp/biquad"
	"github.com/cwbudde/volumod/internal/core"
)

// Mode selects a fixed reduction amount, or adaptive tracking of the
// noise floor.
type Mode int

const (
	Light Mode = iota
	Moderate
	Aggressive
	Adaptive
)

func (m Mode) String() string {
	switch m {
	case Light:
		return "light"
	case Moderate:
		return "moderate"
	case Aggressive:
		return "aggressive"
	case Adaptive:
		return "adaptive"
	default:
		return "unknown"
	}
}

// defaultReductionDB returns the initial reduction amount for each mode.
func defaultReductionDB(m Mode) float64 {
	switch m {
	case Light:
		return 6
	case Moderate:
		return 12
	case Aggressive:
		return 20
	case Adaptive:
		return 10
	default:
		return 12
	}
}

const learnUpdateRate = 0.1
const adaptiveUpdateRate = 0.01
const adaptiveQuietWindowDB = 10

const (
	minReductionDB = 0
	maxReductionDB = 30

	voiceHighpassHz = 300
	voiceHighpassQ  = 0.707
	voicePeakHz     = 2500
	voicePeakQ      = 1.0
	voicePeakGainDB = 3.0
)

// profile tracks the learned or adapted noise floor.
type profile struct {
	floorDB    float64
	isLearned  bool
	updateRate float64
}

func (p *profile) observe(blockRMSDB float64) {
	if !p.isLearned {
		p.floorDB = blockRMSDB
		p.isLearned = true
		return
	}
	p.floorDB += p.updateRate * (blockRMSDB - p.floorDB)
}

// voiceFilters is one channel's series pair used by voice enhancement.
type voiceFilters struct {
	highpass *biquad.Section
	peak     *biquad.Section
}

// Reducer is a wide-band adaptive gate: samples below a learned or
// preset floor are attenuated, samples above pass through unchanged.
type Reducer struct {
	sampleRate float64
	channels   int

	enabled      bool
	mode         Mode
	reductionDB  float64
	voiceEnhance bool
	learnNoise   bool

	profile profile
	voice   []voiceFilters
}

// New returns a Reducer configured for sampleRate and channels, defaulted
// to adaptive mode, enabled, with voice enhancement off.
func New(sampleRate float64, channels int) (*Reducer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("noise: sample rate must be positive, got %v", sampleRate)
	}
	if channels < 1 {
		channels = 1
	}
	r := &Reducer{
		sampleRate:  sampleRate,
		channels:    channels,
		enabled:     true,
		mode:        Adaptive,
		reductionDB: defaultReductionDB(Adaptive),
		profile:     profile{updateRate: learnUpdateRate},
	}
	r.buildVoiceFilters()
	return r, nil
}

func (r *Reducer) buildVoiceFilters() {
	r.voice = make([]voiceFilters, r.channels)
	hp := biquad.Highpass(voiceHighpassHz, r.sampleRate, voiceHighpassQ)
	pk := biquad.Peak(voicePeakHz, r.sampleRate, voicePeakQ, voicePeakGainDB)
	for ch := range r.voice {
		r.voice[ch] = voiceFilters{
			highpass: biquad.NewSection(hp),
			peak:     biquad.NewSection(pk),
		}
	}
}

// SetEnabled toggles the reducer on or off.
func (r *Reducer) SetEnabled(enabled bool) { r.enabled = enabled }

// Enabled reports whether the reducer is active.
func (r *Reducer) Enabled() bool { return r.enabled }

// SetMode selects a preset reduction amount, or adaptive tracking.
func (r *Reducer) SetMode(m Mode) {
	r.mode = m
	r.reductionDB = defaultReductionDB(m)
}

// Mode returns the current mode.
func (r *Reducer) Mode() Mode { return r.mode }

// SetReductionDB overrides the current reduction amount, clamped to
// [0, 30] dB.
func (r *Reducer) SetReductionDB(db float64) {
	r.reductionDB = core.Clamp(db, minReductionDB, maxReductionDB)
}

// ReductionDB returns the current reduction amount in dB.
func (r *Reducer) ReductionDB() float64 { return r.reductionDB }

// SetVoiceEnhance toggles the voice-band shaping stage.
func (r *Reducer) SetVoiceEnhance(enabled bool) { r.voiceEnhance = enabled }

// StartLearning resets the profile and begins learning the noise floor
// from incoming blocks.
func (r *Reducer) StartLearning() {
	r.profile = profile{updateRate: learnUpdateRate}
	r.learnNoise = true
}

// StopLearning freezes the learned floor.
func (r *Reducer) StopLearning() { r.learnNoise = false }

// IsLearning reports whether the reducer is currently learning.
func (r *Reducer) IsLearning() bool { return r.learnNoise }

// Reset clears learned state and filter history but preserves mode and
// reduction settings.
func (r *Reducer) Reset() {
	r.profile = profile{updateRate: learnUpdateRate}
	r.learnNoise = false
	for i := range r.voice {
		r.voice[i].highpass.Reset()
		r.voice[i].peak.Reset()
	}
}

// ProcessBlock gates block in place. An empty block is a no-op.
func (r *Reducer) ProcessBlock(block *audio.Block) {
	if !r.enabled {
		return
	}
	frameCount := block.FrameCount()
	if frameCount == 0 {
		return
	}

	rmsDB := core.LinearToDB(block.RMS())

	if r.learnNoise {
		r.profile.observe(rmsDB)
	}

	if r.mode == Adaptive {
		if rmsDB <= r.profile.floorDB+adaptiveQuietWindowDB {
			r.profile.floorDB += adaptiveUpdateRate * (rmsDB - r.profile.floorDB)
		}
		r.reductionDB = core.Clamp(-(r.profile.floorDB + 40), 6, 24)
	}

	threshold := r.profile.floorDB + r.reductionDB/2

	for f := 0; f < frameCount; f++ {
		for ch := 0; ch < block.Channels(); ch++ {
			s := block.Get(f, ch)
			inputDB := core.LinearToDB(absFloat(s))
			if inputDB < threshold {
				atten := minFloat(threshold-inputDB, r.reductionDB)
				s *= core.DBToLinear(-atten)
			}
			if r.voiceEnhance && ch < len(r.voice) {
				s = r.voice[ch].highpass.ProcessSample(s)
				s = r.voice[ch].peak.ProcessSample(s)
			}
			block.Set(f, ch, s)
		}
	}
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
