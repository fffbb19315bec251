package eq

import (
	"fmt"
	"math"

	"github.com/cwbudde/volumod/audio"
	"github.com/cwbudde/volumod/dsp/biquad"
	"github.com/cwbudde/volumod/internal/core"
)

// NumBands is the fixed number of ISO-centered bands.
const NumBands = 10

var bandFrequenciesHz = [NumBands]float64{31, 62, 125, 250, 500, 1000, 2000, 4000, 8000, 16000}

var bandQ = math.Sqrt2

const (
	MinBandGainDB = -24
	MaxBandGainDB = 24
)

// Preset selects one of the built-in ten-band curves.
type Preset int

const (
	Flat Preset = iota
	Speech
	Music
	BassBoost
	TrebleBoost
	Loudness
	HearingAid
	NightMode
)

func (p Preset) String() string {
	switch p {
	case Flat:
		return "flat"
	case Speech:
		return "speech"
	case Music:
		return "music"
	case BassBoost:
		return "bass_boost"
	case TrebleBoost:
		return "treble_boost"
	case Loudness:
		return "loudness"
	case HearingAid:
		return "hearing_aid"
	case NightMode:
		return "night_mode"
	default:
		return "unknown"
	}
}

var presetCurves = map[Preset][NumBands]float64{
	Flat:        {0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	Speech:      {-6, -4, -2, 0, 2, 4, 4, 2, 0, -2},
	Music:       {2, 1, 0, -1, 0, 0, 1, 2, 2, 1},
	BassBoost:   {6, 5, 3, 1, 0, 0, 0, 0, 0, 0},
	TrebleBoost: {0, 0, 0, 0, 0, 1, 2, 4, 5, 6},
	Loudness:    {6, 4, 1, 0, -1, 0, 1, 3, 4, 3},
	HearingAid:  {0, 0, 0, 0, 1, 3, 5, 7, 9, 10},
	NightMode:   {-8, -6, -3, -1, 0, 2, 2, 1, 0, -1},
}

// Equalizer is a ten-band parametric EQ with independent state per
// channel; channels never share filter history.
type Equalizer struct {
	sampleRate float64
	channels   int

	bandGainsDB  [NumBands]float64
	outputGainDB float64

	// filters[ch][band]
	filters [][NumBands]*biquad.Section
}

// New returns a flat Equalizer for sampleRate and channels.
func New(sampleRate float64, channels int) (*Equalizer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("eq: sample rate must be positive, got %v", sampleRate)
	}
	if channels < 1 {
		channels = 1
	}
	e := &Equalizer{sampleRate: sampleRate, channels: channels}
	e.filters = make([][NumBands]*biquad.Section, channels)
	for ch := range e.filters {
		for b := range e.filters[ch] {
			e.filters[ch][b] = biquad.NewSection(biquad.Peak(bandFrequenciesHz[b], sampleRate, bandQ, 0))
		}
	}
	return e, nil
}

// SetPreset loads one of the built-in curves, rebuilding every band's
// coefficients.
func (e *Equalizer) SetPreset(p Preset) {
	curve, ok := presetCurves[p]
	if !ok {
		curve = presetCurves[Flat]
	}
	for b := 0; b < NumBands; b++ {
		e.bandGainsDB[b] = curve[b]
		e.rebuildBand(b)
	}
}

// SetBandGain sets band i's gain in dB, clamped to [-24, 24], and
// recomputes that band's coefficients on every channel.
func (e *Equalizer) SetBandGain(i int, gainDB float64) {
	if i < 0 || i >= NumBands {
		return
	}
	e.bandGainsDB[i] = core.Clamp(gainDB, MinBandGainDB, MaxBandGainDB)
	e.rebuildBand(i)
}

// BandGain returns band i's current gain in dB.
func (e *Equalizer) BandGain(i int) float64 {
	if i < 0 || i >= NumBands {
		return 0
	}
	return e.bandGainsDB[i]
}

// SetOutputGain sets the master output gain in dB.
func (e *Equalizer) SetOutputGain(db float64) { e.outputGainDB = db }

// BandFrequencyHz returns band i's fixed ISO center frequency.
func BandFrequencyHz(i int) float64 {
	if i < 0 || i >= NumBands {
		return 0
	}
	return bandFrequenciesHz[i]
}

// BandQ returns the fixed Q used by every band.
func BandQ() float64 { return bandQ }

// PresetCurve returns the ten band gains for a built-in preset.
func PresetCurve(p Preset) [NumBands]float64 {
	if curve, ok := presetCurves[p]; ok {
		return curve
	}
	return presetCurves[Flat]
}

// ApplyBandCoefficients installs a precomputed coefficient set for band i
// across every channel, without recomputing anything. Used by callers
// (the engine's command queue) that compute coefficients off the audio
// thread and hand them across ready to install.
func (e *Equalizer) ApplyBandCoefficients(i int, gainDB float64, coeffs biquad.Coefficients) {
	if i < 0 || i >= NumBands {
		return
	}
	e.bandGainsDB[i] = gainDB
	for ch := range e.filters {
		e.filters[ch][i].SetCoefficients(coeffs)
	}
}

// ApplyPresetCoefficients installs a precomputed set of ten coefficient
// sets in one pass, without recomputing anything.
func (e *Equalizer) ApplyPresetCoefficients(gains [NumBands]float64, coeffs [NumBands]biquad.Coefficients) {
	for i := 0; i < NumBands; i++ {
		e.ApplyBandCoefficients(i, gains[i], coeffs[i])
	}
}

func (e *Equalizer) rebuildBand(i int) {
	coeffs := biquad.Peak(bandFrequenciesHz[i], e.sampleRate, bandQ, e.bandGainsDB[i])
	for ch := range e.filters {
		e.filters[ch][i].SetCoefficients(coeffs)
	}
}

// isFlat reports whether every band gain and the output gain are 0, the
// short-circuit condition that skips processing entirely.
func (e *Equalizer) isFlat() bool {
	if e.outputGainDB != 0 {
		return false
	}
	for _, g := range e.bandGainsDB {
		if g != 0 {
			return false
		}
	}
	return true
}

// ProcessBlock runs the EQ chain over block in place. If every band gain
// and the output gain are 0, the block passes through untouched.
func (e *Equalizer) ProcessBlock(block *audio.Block) {
	if e.isFlat() {
		return
	}
	outputGain := core.DBToLinear(e.outputGainDB)
	frameCount := block.FrameCount()
	channels := block.Channels()
	if channels > len(e.filters) {
		channels = len(e.filters)
	}
	for f := 0; f < frameCount; f++ {
		for ch := 0; ch < channels; ch++ {
			s := block.Get(f, ch)
			for b := 0; b < NumBands; b++ {
				s = e.filters[ch][b].ProcessSample(s)
			}
			if outputGain != 1 {
				s *= outputGain
			}
			block.Set(f, ch, s)
		}
	}
}

// Reset zeros every band's filter history but preserves gains.
func (e *Equalizer) Reset() {
	for ch := range e.filters {
		for b := range e.filters[ch] {
			e.filters[ch][b].Reset()
		}
	}
}
