package loudness

import (
	"fmt"
	"math"

	"github.com/cwbudde/volumod/audio"
	"github.com/cwbudde/volumod/dsp/biquad"
	"github.com/cwbudde/volumod/internal/core"
)

const (
	defaultTargetLUFS = -14.0
	maxGainDB         = 12.0
	minGainDB         = -24.0
	gateThresholdDB   = -70.0
	MinTargetLUFS     = -60.0
	MaxTargetLUFS     = 0.0

	gainSmoothTimeMs = 100.0

	kWeightingShelfHz  = 1500.0
	kWeightingShelfDB  = 4.0
	kWeightingHighpass = 38.0
	kWeightingHPFQ     = 0.5
)

var kWeightingShelfQ = 1 / math.Sqrt2

// IntegrationMode selects how block energy is folded into the running
// integrated-loudness accumulator.
type IntegrationMode int

const (
	// WeightedByFrameCount accumulates block_sum * frame_count, matching
	// the original engine exactly (see the accumulation note below).
	WeightedByFrameCount IntegrationMode = iota
	// EnergyOnly accumulates block_sum alone, the conventional BS.1770
	// integration a caller may opt into instead.
	EnergyOnly
)

// kWeighting is the two-stage BS.1770-style pre-filter cascade for one
// channel: high-shelf then high-pass, applied in series.
type kWeighting struct {
	shelf    *biquad.Section
	highpass *biquad.Section
}

func newKWeighting(sampleRate float64) *kWeighting {
	return &kWeighting{
		shelf:    biquad.NewSection(biquad.HighShelf(kWeightingShelfHz, sampleRate, kWeightingShelfQ, kWeightingShelfDB)),
		highpass: biquad.NewSection(biquad.Highpass(kWeightingHighpass, sampleRate, kWeightingHPFQ)),
	}
}

func (k *kWeighting) process(x float64) float64 {
	return k.highpass.ProcessSample(k.shelf.ProcessSample(x))
}

func (k *kWeighting) reset() {
	k.shelf.Reset()
	k.highpass.Reset()
}

// Normalizer measures integrated K-weighted loudness and applies a
// smoothed broadband gain converging on a target LUFS.
//
// The accumulation in ProcessBlock deliberately multiplies each block's
// energy by its frame count before adding it to the running integral,
// matching the source system this engine descends from. Conventional
// loudness integration would accumulate energy alone; this weights long
// blocks quadratically in the running mean. Set Mode to EnergyOnly to
// opt into the conventional behavior instead.
type Normalizer struct {
	sampleRate float64
	channels   int

	targetLUFS float64
	mode       IntegrationMode

	integratedSum float64
	sampleCount   uint64

	currentGain    float64
	gainSmoothCoef float64

	left  *kWeighting
	right *kWeighting
}

// New returns a Normalizer for sampleRate and channels, targeting -14
// LUFS by default.
func New(sampleRate float64, channels int) (*Normalizer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("loudness: sample rate must be positive, got %v", sampleRate)
	}
	if channels < 1 {
		channels = 1
	}
	return &Normalizer{
		sampleRate:     sampleRate,
		channels:       channels,
		targetLUFS:     defaultTargetLUFS,
		currentGain:    1.0,
		gainSmoothCoef: core.SmoothCoef(gainSmoothTimeMs, sampleRate),
		left:           newKWeighting(sampleRate),
		right:          newKWeighting(sampleRate),
	}, nil
}

// SetTargetLUFS updates the target loudness, clamped to [-60, 0].
func (n *Normalizer) SetTargetLUFS(lufs float64) {
	n.targetLUFS = core.Clamp(lufs, MinTargetLUFS, MaxTargetLUFS)
}

// TargetLUFS returns the current target loudness.
func (n *Normalizer) TargetLUFS() float64 { return n.targetLUFS }

// SetMode selects how block energy is folded into the integration.
func (n *Normalizer) SetMode(m IntegrationMode) { n.mode = m }

// CurrentGain returns the current smoothed linear gain.
func (n *Normalizer) CurrentGain() float64 { return n.currentGain }

// Reset clears the integration state, filter history, and current gain.
func (n *Normalizer) Reset() {
	n.integratedSum = 0
	n.sampleCount = 0
	n.currentGain = 1.0
	n.left.reset()
	n.right.reset()
}

// ProcessBlock measures block, updates the integrated loudness estimate
// if the block is above the gate threshold, and applies the smoothed
// gain in place. Below the gate, the block passes through unmodified and
// the integration is left untouched.
func (n *Normalizer) ProcessBlock(block *audio.Block) {
	frameCount := block.FrameCount()
	if frameCount == 0 {
		return
	}

	var blockSum float64
	channels := block.Channels()
	for f := 0; f < frameCount; f++ {
		l := block.Get(f, 0)
		r := l
		if channels > 1 {
			r = block.Get(f, 1)
		}
		kL := n.left.process(l)
		kR := n.right.process(r)
		blockSum += kL*kL + kR*kR
	}

	meanSqBlock := blockSum / float64(frameCount*2)
	blockLUFS := core.SilenceFloorDB
	if meanSqBlock > 0 {
		blockLUFS = -0.691 + 10*math.Log10(meanSqBlock)
	}

	if blockLUFS < gateThresholdDB {
		return
	}

	switch n.mode {
	case EnergyOnly:
		n.integratedSum += blockSum
	default:
		n.integratedSum += blockSum * float64(frameCount)
	}
	n.sampleCount += uint64(frameCount)

	integratedLUFS := core.SilenceFloorDB
	if n.sampleCount > 0 {
		meanSq := n.integratedSum / float64(n.sampleCount*2)
		if meanSq > 0 {
			integratedLUFS = -0.691 + 10*math.Log10(meanSq)
		}
	}

	gainDB := core.Clamp(n.targetLUFS-integratedLUFS, minGainDB, maxGainDB)
	targetGain := core.DBToLinear(gainDB)
	n.currentGain += n.gainSmoothCoef * (targetGain - n.currentGain)

	block.ApplyGain(n.currentGain)
}
