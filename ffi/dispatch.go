package ffi

import (
	"github.com/cwbudde/volumod/compressor"
	"github.com/cwbudde/volumod/engine"
	"github.com/cwbudde/volumod/eq"
	"github.com/cwbudde/volumod/noise"
)

// Dispatch routes a decoded Command to p's control surface and builds
// the Response a bridge sends back across the wire. p may be nil,
// modeling a command that arrives before a handle has been allocated.
func Dispatch(p *engine.Processor, cmd Command) Response {
	if p == nil {
		return Response{Success: false, ErrorMessage: "Processor not initialized"}
	}

	switch cmd.CmdType {
	case SetBypass:
		p.SetBypass(cmd.ParamInt != 0)
		return successResponse(p)

	case SetPreset:
		p.SetEQPreset(eq.Preset(cmd.ParamInt))
		return successResponse(p)

	case SetNormalizerTarget:
		p.SetNormalizerTarget(float64(cmd.ParamFloat))
		return successResponse(p)

	case SetCompressionMode:
		p.SetCompressionMode(compressor.Mode(cmd.ParamInt))
		return successResponse(p)

	case SetNoiseMode:
		p.SetNoiseReductionMode(noise.Mode(cmd.ParamInt))
		return successResponse(p)

	case SetEQBand:
		p.SetEQBand(int(cmd.ParamInt), float64(cmd.ParamFloat))
		return successResponse(p)

	case StartNoiseLearn:
		p.StartNoiseLearning()
		return successResponse(p)

	case StopNoiseLearn:
		p.StopNoiseLearning()
		return successResponse(p)

	case ResetCommand:
		p.Reset()
		return successResponse(p)

	case GetState:
		return successResponse(p)

	case GetLevels:
		return successResponse(p)

	default:
		return Response{
			Success:      false,
			ErrorMessage: "unknown command",
			State:        stateFrom(p),
		}
	}
}

func successResponse(p *engine.Processor) Response {
	return Response{Success: true, State: stateFrom(p)}
}

func stateFrom(p *engine.Processor) ProcessorState {
	s := p.GetState()
	return ProcessorState{
		IsActive:        s.Lifecycle == engine.Active,
		IsBypassed:      s.Bypassed,
		InputDB:         float32(s.InputLevelDB),
		OutputDB:        float32(s.OutputLevelDB),
		GainReductionDB: float32(s.GainReductionDB),
		PresetName:      p.CurrentPreset(),
	}
}
