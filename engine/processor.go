package engine

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/volumod/audio"
	"github.com/cwbudde/volumod/compressor"
	"github.com/cwbudde/volumod/dsp/biquad"
	"github.com/cwbudde/volumod/eq"
	"github.com/cwbudde/volumod/internal/core"
	"github.com/cwbudde/volumod/limiter"
	"github.com/cwbudde/volumod/loudness"
	"github.com/cwbudde/volumod/noise"
)

const defaultTargetLUFS = -14.0

// Processor owns one instance each of the noise reducer, normalizer,
// compressor, equalizer, and limiter, and runs them in that fixed order
// once per audio block. Process is the only method that may run on the
// real-time audio thread; every other exported method is the control
// surface and is safe to call from any other goroutine.
type Processor struct {
	config Config

	noise      *noise.Reducer
	normalizer *loudness.Normalizer
	comp       *compressor.Compressor
	eq         *eq.Equalizer
	lim        *limiter.Limiter

	queue commandQueue

	bypass         atomic.Bool
	enableNoise    atomic.Bool
	enableNormal   atomic.Bool
	enableComp     atomic.Bool
	enableEQ       atomic.Bool
	enableLimiter  atomic.Bool
	voiceEnhance   atomic.Bool
	targetLUFS     atomicFloat64
	compressorMode atomic.Int32
	noiseMode      atomic.Int32

	// Audio-thread-owned cache of the last-applied value for each
	// scalar above; compared against the atomic each block so a
	// parameter change is only pushed into a sub-component once,
	// without needing a separate dirty flag.
	cachedTargetLUFS     float64
	cachedCompressorMode int32
	cachedNoiseMode      int32
	cachedVoiceEnhance   bool

	lifecycle       atomic.Int32
	inputLevelDB    atomicFloat64
	outputLevelDB   atomicFloat64
	gainReductionDB atomicFloat64
	framesProcessed atomic.Uint64
	underruns       atomic.Uint64

	presetMu   sync.Mutex
	presetName string

	log *logrus.Entry
}

// New constructs a Processor for cfg, with every stage enabled or
// disabled per cfg's initial flags. cfg's sample rate and channel count
// are fixed for the processor's lifetime.
func New(cfg Config) (*Processor, error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("engine: sample rate must be positive, got %v", cfg.SampleRate)
	}
	if cfg.Channels < 1 {
		cfg.Channels = 1
	}

	log := logrus.WithFields(logrus.Fields{"function": "New"})

	n, err := noise.New(cfg.SampleRate, cfg.Channels)
	if err != nil {
		log.WithError(err).Error("failed to construct noise reducer")
		return nil, fmt.Errorf("engine: %w", err)
	}
	lo, err := loudness.New(cfg.SampleRate, cfg.Channels)
	if err != nil {
		log.WithError(err).Error("failed to construct normalizer")
		return nil, fmt.Errorf("engine: %w", err)
	}
	co, err := compressor.New(cfg.SampleRate)
	if err != nil {
		log.WithError(err).Error("failed to construct compressor")
		return nil, fmt.Errorf("engine: %w", err)
	}
	eqz, err := eq.New(cfg.SampleRate, cfg.Channels)
	if err != nil {
		log.WithError(err).Error("failed to construct equalizer")
		return nil, fmt.Errorf("engine: %w", err)
	}
	li, err := limiter.New(cfg.SampleRate)
	if err != nil {
		log.WithError(err).Error("failed to construct limiter")
		return nil, fmt.Errorf("engine: %w", err)
	}

	p := &Processor{
		config:     cfg,
		noise:      n,
		normalizer: lo,
		comp:       co,
		eq:         eqz,
		lim:        li,
		log:        log,
	}

	p.enableNoise.Store(cfg.EnableNoiseReduction)
	p.enableNormal.Store(cfg.EnableNormalizer)
	p.enableComp.Store(cfg.EnableCompressor)
	p.enableEQ.Store(cfg.EnableEQ)
	p.enableLimiter.Store(cfg.EnableLimiter)

	p.targetLUFS.Store(defaultTargetLUFS)
	p.cachedTargetLUFS = defaultTargetLUFS

	p.compressorMode.Store(int32(compressor.Moderate))
	p.cachedCompressorMode = int32(compressor.Moderate)

	p.noiseMode.Store(int32(noise.Adaptive))
	p.cachedNoiseMode = int32(noise.Adaptive)

	p.lifecycle.Store(int32(Idle))

	log.WithFields(logrus.Fields{
		"sample_rate": cfg.SampleRate,
		"channels":    cfg.Channels,
	}).Info("processor initialized")

	return p, nil
}

// Process runs the fixed chain over block once, in place. Must only be
// called from the audio callback thread. A bypassed processor returns
// without mutating block or updating any meter, per the bypass
// invariant. A zero-length block is treated as degenerate and is also a
// complete no-op.
func (p *Processor) Process(block *audio.Block) error {
	if block == nil {
		return nil
	}

	p.queue.drain(p)

	if p.bypass.Load() {
		p.lifecycle.Store(int32(BypassedState))
		return nil
	}

	frameCount := block.FrameCount()
	if frameCount == 0 {
		return nil
	}

	p.applyPendingScalars()

	inputDB := core.LinearToDB(block.RMS())

	if p.enableNoise.Load() {
		p.noise.ProcessBlock(block)
	}
	if p.enableNormal.Load() {
		p.normalizer.ProcessBlock(block)
	}
	if p.enableComp.Load() {
		p.comp.ProcessBlock(block)
	}
	if p.enableEQ.Load() {
		p.eq.ProcessBlock(block)
	}
	if p.enableLimiter.Load() {
		p.lim.ProcessBlock(block)
	}

	outputDB := core.LinearToDB(block.RMS())

	p.inputLevelDB.Store(inputDB)
	p.outputLevelDB.Store(outputDB)
	p.gainReductionDB.Store(p.comp.GainReductionDB())
	p.framesProcessed.Add(uint64(frameCount))
	p.lifecycle.Store(int32(Active))

	return nil
}

// applyPendingScalars pushes any changed scalar atomic into its owning
// sub-component, comparing against the audio thread's own cache so each
// change is applied exactly once. Every branch here recomputes at most a
// handful of filter coefficients from plain arithmetic — allocation-free
// and bounded, so it is safe to run on the audio thread.
func (p *Processor) applyPendingScalars() {
	if v := p.targetLUFS.Load(); v != p.cachedTargetLUFS {
		p.normalizer.SetTargetLUFS(v)
		p.cachedTargetLUFS = v
	}
	if m := p.compressorMode.Load(); m != p.cachedCompressorMode {
		p.comp.SetMode(compressor.Mode(m))
		p.cachedCompressorMode = m
	}
	if m := p.noiseMode.Load(); m != p.cachedNoiseMode {
		p.noise.SetMode(noise.Mode(m))
		p.cachedNoiseMode = m
	}
	if v := p.voiceEnhance.Load(); v != p.cachedVoiceEnhance {
		p.noise.SetVoiceEnhance(v)
		p.cachedVoiceEnhance = v
	}
}

func (p *Processor) resetComponents() {
	p.noise.Reset()
	p.normalizer.Reset()
	p.comp.Reset()
	p.eq.Reset()
	p.lim.Reset()
	p.inputLevelDB.Store(core.SilenceFloorDB)
	p.outputLevelDB.Store(core.SilenceFloorDB)
	p.gainReductionDB.Store(0)
	p.framesProcessed.Store(0)
}

// --- Control surface -------------------------------------------------

// SetBypass toggles bypass on or off.
func (p *Processor) SetBypass(bypass bool) {
	p.bypass.Store(bypass)
	p.log.WithField("bypass", bypass).Debug("bypass set")
}

// ToggleBypass flips the current bypass state.
func (p *Processor) ToggleBypass() {
	p.SetBypass(!p.bypass.Load())
}

// IsBypassed reports the current bypass state.
func (p *Processor) IsBypassed() bool { return p.bypass.Load() }

// SetNormalizerTarget sets the target loudness in LUFS, clamped to
// [-60, 0]; out-of-range values are clamped silently, not rejected.
func (p *Processor) SetNormalizerTarget(lufs float64) {
	clamped := core.Clamp(lufs, loudness.MinTargetLUFS, loudness.MaxTargetLUFS)
	if clamped != lufs {
		p.log.WithFields(logrus.Fields{"requested": lufs, "clamped": clamped}).Debug("normalizer target clamped")
	}
	p.targetLUFS.Store(clamped)
}

// SetCompressionMode selects one of the compressor's built-in presets.
func (p *Processor) SetCompressionMode(m compressor.Mode) {
	p.compressorMode.Store(int32(m))
	p.log.WithField("mode", m).Debug("compression mode set")
}

// SetNoiseReductionMode selects one of the noise reducer's modes.
func (p *Processor) SetNoiseReductionMode(m noise.Mode) {
	p.noiseMode.Store(int32(m))
	p.log.WithField("mode", m).Debug("noise reduction mode set")
}

// SetEQPreset loads one of the equalizer's built-in curves. The
// coefficient sets for all ten bands are computed here, off the audio
// thread, and handed to the command queue ready to install.
func (p *Processor) SetEQPreset(preset eq.Preset) {
	gains := eq.PresetCurve(preset)
	var coeffs [eq.NumBands]biquad.Coefficients
	for i := 0; i < eq.NumBands; i++ {
		coeffs[i] = biquad.Peak(eq.BandFrequencyHz(i), p.config.SampleRate, eq.BandQ(), gains[i])
	}
	p.queue.pushEQPreset(gains, coeffs)
	p.presetMu.Lock()
	p.presetName = preset.String()
	p.presetMu.Unlock()
	p.log.WithField("preset", preset).Debug("eq preset queued")
}

// CurrentPreset returns the name of the last EQ preset requested, or ""
// if none has been set since construction.
func (p *Processor) CurrentPreset() string {
	p.presetMu.Lock()
	defer p.presetMu.Unlock()
	return p.presetName
}

// SetEQBand sets band i's gain in dB, clamped to [-24, 24]. The
// coefficient set is computed here, off the audio thread.
func (p *Processor) SetEQBand(i int, gainDB float64) {
	clamped := core.Clamp(gainDB, eq.MinBandGainDB, eq.MaxBandGainDB)
	coeffs := biquad.Peak(eq.BandFrequencyHz(i), p.config.SampleRate, eq.BandQ(), clamped)
	p.queue.pushEQBand(i, clamped, coeffs)
}

// SetEnabled toggles whether stage runs at all. Each stage is gated in
// Process by this flag alone, re-read fresh on every block; there is no
// separate "compiled into the chain" distinction after construction.
func (p *Processor) SetEnabled(stage Stage, on bool) {
	switch stage {
	case StageNoiseReduction:
		p.enableNoise.Store(on)
	case StageNormalizer:
		p.enableNormal.Store(on)
	case StageCompressor:
		p.enableComp.Store(on)
	case StageEQ:
		p.enableEQ.Store(on)
	case StageLimiter:
		p.enableLimiter.Store(on)
	default:
		return
	}
	p.log.WithFields(logrus.Fields{"stage": stage, "enabled": on}).Debug("stage enabled flag set")
}

// IsEnabled reports whether stage currently runs.
func (p *Processor) IsEnabled(stage Stage) bool {
	switch stage {
	case StageNoiseReduction:
		return p.enableNoise.Load()
	case StageNormalizer:
		return p.enableNormal.Load()
	case StageCompressor:
		return p.enableComp.Load()
	case StageEQ:
		return p.enableEQ.Load()
	case StageLimiter:
		return p.enableLimiter.Load()
	default:
		return false
	}
}

// EnableVoiceEnhancement toggles the noise reducer's voice-band shaping
// stage.
func (p *Processor) EnableVoiceEnhancement(enabled bool) {
	p.voiceEnhance.Store(enabled)
}

// StartNoiseLearning begins learning the noise floor from incoming
// blocks.
func (p *Processor) StartNoiseLearning() {
	p.queue.pushStartNoiseLearn()
}

// StopNoiseLearning freezes the learned noise floor.
func (p *Processor) StopNoiseLearning() {
	p.queue.pushStopNoiseLearn()
}

// GetLevels returns the most recently measured input and output RMS
// levels in dB. The two values are independent atomic snapshots with no
// causal ordering guaranteed between them.
func (p *Processor) GetLevels() (inputDB, outputDB float64) {
	return p.inputLevelDB.Load(), p.outputLevelDB.Load()
}

// GetStats returns throughput accounting.
func (p *Processor) GetStats() Stats {
	return Stats{
		FramesProcessed: p.framesProcessed.Load(),
		Underruns:       p.underruns.Load(),
	}
}

// GetState returns a full snapshot of the processor's meters and
// lifecycle state.
func (p *Processor) GetState() State {
	return State{
		Lifecycle:       LifecycleState(p.lifecycle.Load()),
		Bypassed:        p.bypass.Load(),
		InputLevelDB:    p.inputLevelDB.Load(),
		OutputLevelDB:   p.outputLevelDB.Load(),
		GainReductionDB: p.gainReductionDB.Load(),
		FramesProcessed: p.framesProcessed.Load(),
	}
}

// Reset requests that every stage reset its internal state and that the
// meters go back to silence: -120 dB input and output levels, zero gain
// reduction and zero frames processed. Applied at the top of the next
// Process call.
func (p *Processor) Reset() {
	p.queue.pushReset()
	p.log.Debug("reset requested")
}
