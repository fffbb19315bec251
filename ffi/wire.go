package ffi

import (
	"encoding/binary"
	"fmt"
	"math"
)

// CommandType identifies the operation a Command requests.
type CommandType uint8

const (
	SetBypass CommandType = iota
	SetPreset
	SetNormalizerTarget
	SetCompressionMode
	SetNoiseMode
	SetEQBand
	StartNoiseLearn
	StopNoiseLearn
	ResetCommand
	GetState
	GetLevels
)

func (c CommandType) String() string {
	switch c {
	case SetBypass:
		return "set_bypass"
	case SetPreset:
		return "set_preset"
	case SetNormalizerTarget:
		return "set_normalizer_target"
	case SetCompressionMode:
		return "set_compression_mode"
	case SetNoiseMode:
		return "set_noise_mode"
	case SetEQBand:
		return "set_eq_band"
	case StartNoiseLearn:
		return "start_noise_learn"
	case StopNoiseLearn:
		return "stop_noise_learn"
	case ResetCommand:
		return "reset"
	case GetState:
		return "get_state"
	case GetLevels:
		return "get_levels"
	default:
		return "unknown"
	}
}

// IsKnown reports whether c falls within the enumerated command range.
func (c CommandType) IsKnown() bool { return c <= GetLevels }

// Command is the fixed-plus-variable-length request a control bridge
// sends across the wire. Every field is meaningful only for some
// CmdType values; unused fields are simply zero.
type Command struct {
	CmdType     CommandType
	ParamInt    int32
	ParamFloat  float32
	ParamString string
	ParamBytes  []byte
}

// Serialize encodes c as:
// [cmd_type u8][param_int i32][param_float f32][len(param_string) u32][param_string][len(param_bytes) u32][param_bytes]
func (c Command) Serialize() []byte {
	buf := make([]byte, 1+4+4+4+len(c.ParamString)+4+len(c.ParamBytes))
	pos := 0
	buf[pos] = byte(c.CmdType)
	pos++
	binary.LittleEndian.PutUint32(buf[pos:], uint32(c.ParamInt))
	pos += 4
	binary.LittleEndian.PutUint32(buf[pos:], math.Float32bits(c.ParamFloat))
	pos += 4
	binary.LittleEndian.PutUint32(buf[pos:], uint32(len(c.ParamString)))
	pos += 4
	pos += copy(buf[pos:], c.ParamString)
	binary.LittleEndian.PutUint32(buf[pos:], uint32(len(c.ParamBytes)))
	pos += 4
	copy(buf[pos:], c.ParamBytes)
	return buf
}

// ParseCommand decodes a Command from data, as written by Serialize.
func ParseCommand(data []byte) (Command, error) {
	var c Command
	if len(data) < 1+4+4+4 {
		return c, fmt.Errorf("ffi: command too short: %d bytes", len(data))
	}
	pos := 0
	c.CmdType = CommandType(data[pos])
	pos++
	c.ParamInt = int32(binary.LittleEndian.Uint32(data[pos:]))
	pos += 4
	c.ParamFloat = math.Float32frombits(binary.LittleEndian.Uint32(data[pos:]))
	pos += 4

	strLen := int(binary.LittleEndian.Uint32(data[pos:]))
	pos += 4
	if pos+strLen > len(data) {
		return c, fmt.Errorf("ffi: command param_string truncated")
	}
	c.ParamString = string(data[pos : pos+strLen])
	pos += strLen

	if pos+4 > len(data) {
		return c, fmt.Errorf("ffi: command missing param_bytes length")
	}
	bytesLen := int(binary.LittleEndian.Uint32(data[pos:]))
	pos += 4
	if pos+bytesLen > len(data) {
		return c, fmt.Errorf("ffi: command param_bytes truncated")
	}
	c.ParamBytes = append([]byte(nil), data[pos:pos+bytesLen]...)

	return c, nil
}

// ProcessorState mirrors the in-process API's processor_get_state shape.
type ProcessorState struct {
	IsActive        bool
	IsBypassed      bool
	InputDB         float32
	OutputDB        float32
	GainReductionDB float32
	PresetName      string
}

// Response is what a Dispatch call returns across the wire.
type Response struct {
	Success      bool
	ErrorMessage string
	State        ProcessorState
	Data         []byte
}

// Serialize encodes r as:
// [success u8][len(error_message) u32][error_message]
// [is_active u8][is_bypassed u8][input_db f32][output_db f32][gain_reduction_db f32][len(preset_name) u32][preset_name]
// [len(data) u32][data]
func (r Response) Serialize() []byte {
	size := 1 + 4 + len(r.ErrorMessage) +
		1 + 1 + 4 + 4 + 4 + 4 + len(r.State.PresetName) +
		4 + len(r.Data)
	buf := make([]byte, size)
	pos := 0

	buf[pos] = boolToByte(r.Success)
	pos++
	binary.LittleEndian.PutUint32(buf[pos:], uint32(len(r.ErrorMessage)))
	pos += 4
	pos += copy(buf[pos:], r.ErrorMessage)

	buf[pos] = boolToByte(r.State.IsActive)
	pos++
	buf[pos] = boolToByte(r.State.IsBypassed)
	pos++
	binary.LittleEndian.PutUint32(buf[pos:], math.Float32bits(r.State.InputDB))
	pos += 4
	binary.LittleEndian.PutUint32(buf[pos:], math.Float32bits(r.State.OutputDB))
	pos += 4
	binary.LittleEndian.PutUint32(buf[pos:], math.Float32bits(r.State.GainReductionDB))
	pos += 4
	binary.LittleEndian.PutUint32(buf[pos:], uint32(len(r.State.PresetName)))
	pos += 4
	pos += copy(buf[pos:], r.State.PresetName)

	binary.LittleEndian.PutUint32(buf[pos:], uint32(len(r.Data)))
	pos += 4
	copy(buf[pos:], r.Data)

	return buf
}

// ParseResponse decodes a Response from data, as written by Serialize.
func ParseResponse(data []byte) (Response, error) {
	var r Response
	pos := 0

	if pos+1+4 > len(data) {
		return r, fmt.Errorf("ffi: response too short")
	}
	r.Success = data[pos] != 0
	pos++
	errLen := int(binary.LittleEndian.Uint32(data[pos:]))
	pos += 4
	if pos+errLen > len(data) {
		return r, fmt.Errorf("ffi: response error_message truncated")
	}
	r.ErrorMessage = string(data[pos : pos+errLen])
	pos += errLen

	if pos+1+1+4+4+4+4 > len(data) {
		return r, fmt.Errorf("ffi: response state truncated")
	}
	r.State.IsActive = data[pos] != 0
	pos++
	r.State.IsBypassed = data[pos] != 0
	pos++
	r.State.InputDB = math.Float32frombits(binary.LittleEndian.Uint32(data[pos:]))
	pos += 4
	r.State.OutputDB = math.Float32frombits(binary.LittleEndian.Uint32(data[pos:]))
	pos += 4
	r.State.GainReductionDB = math.Float32frombits(binary.LittleEndian.Uint32(data[pos:]))
	pos += 4
	presetLen := int(binary.LittleEndian.Uint32(data[pos:]))
	pos += 4
	if pos+presetLen > len(data) {
		return r, fmt.Errorf("ffi: response preset_name truncated")
	}
	r.State.PresetName = string(data[pos : pos+presetLen])
	pos += presetLen

	if pos+4 > len(data) {
		return r, fmt.Errorf("ffi: response missing data length")
	}
	dataLen := int(binary.LittleEndian.Uint32(data[pos:]))
	pos += 4
	if pos+dataLen > len(data) {
		return r, fmt.Errorf("ffi: response data truncated")
	}
	r.Data = append([]byte(nil), data[pos:pos+dataLen]...)

	return r, nil
}

// AudioData carries a block of interleaved audio samples across the
// wire as 32-bit floats.
type AudioData struct {
	Samples     []float32
	SampleRate  uint32
	Channels    uint8
	FrameCount  uint32
	TimestampMs uint64
}

// Serialize encodes a as:
// [sample_rate u32][channels u8][frame_count u32][timestamp_ms u64][len(samples) u32][samples f32...]
func (a AudioData) Serialize() []byte {
	buf := make([]byte, 4+1+4+8+4+4*len(a.Samples))
	pos := 0
	binary.LittleEndian.PutUint32(buf[pos:], a.SampleRate)
	pos += 4
	buf[pos] = a.Channels
	pos++
	binary.LittleEndian.PutUint32(buf[pos:], a.FrameCount)
	pos += 4
	binary.LittleEndian.PutUint64(buf[pos:], a.TimestampMs)
	pos += 8
	binary.LittleEndian.PutUint32(buf[pos:], uint32(len(a.Samples)))
	pos += 4
	for _, s := range a.Samples {
		binary.LittleEndian.PutUint32(buf[pos:], math.Float32bits(s))
		pos += 4
	}
	return buf
}

// ParseAudioData decodes an AudioData from data, as written by Serialize.
func ParseAudioData(data []byte) (AudioData, error) {
	var a AudioData
	if len(data) < 4+1+4+8+4 {
		return a, fmt.Errorf("ffi: audio data too short")
	}
	pos := 0
	a.SampleRate = binary.LittleEndian.Uint32(data[pos:])
	pos += 4
	a.Channels = data[pos]
	pos++
	a.FrameCount = binary.LittleEndian.Uint32(data[pos:])
	pos += 4
	a.TimestampMs = binary.LittleEndian.Uint64(data[pos:])
	pos += 8
	count := int(binary.LittleEndian.Uint32(data[pos:]))
	pos += 4
	if pos+4*count > len(data) {
		return a, fmt.Errorf("ffi: audio data samples truncated")
	}
	a.Samples = make([]float32, count)
	for i := 0; i < count; i++ {
		a.Samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[pos:]))
		pos += 4
	}
	return a, nil
}

// MeterData is a fixed-size snapshot of level meters, sent on a
// separate low-rate channel from audio itself.
type MeterData struct {
	InputPeakDB   float32
	InputRMSDB    float32
	OutputPeakDB  float32
	OutputRMSDB   float32
	GainReduction float32
	TimestampMs   uint64
}

// meterDataSize is MeterData's fixed wire size: five f32 fields plus a
// u64 timestamp.
const meterDataSize = 5*4 + 8

// Serialize encodes m into a fixed-size little-endian buffer.
func (m MeterData) Serialize() []byte {
	buf := make([]byte, meterDataSize)
	pos := 0
	for _, v := range []float32{m.InputPeakDB, m.InputRMSDB, m.OutputPeakDB, m.OutputRMSDB, m.GainReduction} {
		binary.LittleEndian.PutUint32(buf[pos:], math.Float32bits(v))
		pos += 4
	}
	binary.LittleEndian.PutUint64(buf[pos:], m.TimestampMs)
	return buf
}

// ParseMeterData decodes a MeterData from its fixed-size wire form.
func ParseMeterData(data []byte) (MeterData, error) {
	var m MeterData
	if len(data) < meterDataSize {
		return m, fmt.Errorf("ffi: meter data too short: %d bytes, want %d", len(data), meterDataSize)
	}
	fields := []*float32{&m.InputPeakDB, &m.InputRMSDB, &m.OutputPeakDB, &m.OutputRMSDB, &m.GainReduction}
	pos := 0
	for _, f := range fields {
		*f = math.Float32frombits(binary.LittleEndian.Uint32(data[pos:]))
		pos += 4
	}
	m.TimestampMs = binary.LittleEndian.Uint64(data[pos:])
	return m, nil
}

func boolToByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
