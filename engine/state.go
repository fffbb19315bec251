package engine

// LifecycleState is the coarse operating state reported to control
// threads.
type LifecycleState int

const (
	Idle LifecycleState = iota
	Active
	BypassedState
	ErrorState
)

func (s LifecycleState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case BypassedState:
		return "bypassed"
	case ErrorState:
		return "error"
	default:
		return "unknown"
	}
}

// Stage identifies one of the five chain stages for SetEnabled.
type Stage int

const (
	StageNoiseReduction Stage = iota
	StageNormalizer
	StageCompressor
	StageEQ
	StageLimiter
)

func (s Stage) String() string {
	switch s {
	case StageNoiseReduction:
		return "noise_reduction"
	case StageNormalizer:
		return "normalizer"
	case StageCompressor:
		return "compressor"
	case StageEQ:
		return "eq"
	case StageLimiter:
		return "limiter"
	default:
		return "unknown"
	}
}

// Config is the immutable-after-construction shape of a Processor: the
// stream format it was built for, and the initial enable_* flags. Those
// flags only seed the per-stage atomics; every stage is built either
// way, and each may be toggled at runtime through the Processor's
// SetEnabled, consulted fresh on every block. Config only fixes the
// stream's sample rate and channel count for the process lifetime.
type Config struct {
	SampleRate float64
	Channels   int

	EnableNoiseReduction bool
	EnableNormalizer     bool
	EnableCompressor     bool
	EnableEQ             bool
	EnableLimiter        bool
}

// DefaultConfig returns the documented defaults: 48 kHz stereo with
// every stage enabled.
func DefaultConfig() Config {
	return Config{
		SampleRate:           48000,
		Channels:             2,
		EnableNoiseReduction: true,
		EnableNormalizer:     true,
		EnableCompressor:     true,
		EnableEQ:             true,
		EnableLimiter:        true,
	}
}

// State is a snapshot of a Processor's meters and lifecycle state, safe
// to read from any thread — it is built from a set of independently
// updated atomics with no causal ordering guaranteed between fields.
type State struct {
	Lifecycle       LifecycleState
	Bypassed        bool
	InputLevelDB    float64
	OutputLevelDB   float64
	GainReductionDB float64
	FramesProcessed uint64
}

// Stats is the subset of State relevant to throughput accounting.
type Stats struct {
	FramesProcessed uint64
	Underruns       uint64
}
