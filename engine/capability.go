package engine

import "github.com/cwbudde/volumod/internal/simd"

// CapabilityReport describes the CPU features detected for this process,
// surfaced to the control plane for diagnostics. It never affects the
// audio path's behavior — only its own operator-facing reporting.
type CapabilityReport struct {
	HasSSE2   bool
	HasAVX    bool
	HasAVX2   bool
	HasAVX512 bool
}

// CapabilityReport returns the CPU features detected for this process;
// detection runs once, on first use.
func (p *Processor) CapabilityReport() CapabilityReport {
	f := simd.Detect()
	return CapabilityReport{
		HasSSE2:   f.HasSSE2,
		HasAVX:    f.HasAVX,
		HasAVX2:   f.HasAVX2,
		HasAVX512: f.HasAVX512,
	}
}
