package ffi

import "testing"

func TestCommandRoundTrip(t *testing.T) {
	c := Command{
		CmdType:     SetEQBand,
		ParamInt:    3,
		ParamFloat:  -6.5,
		ParamString: "band three",
		ParamBytes:  []byte{1, 2, 3, 4},
	}
	got, err := ParseCommand(c.Serialize())
	if err != nil {
		t.Fatalf("ParseCommand() error = %v", err)
	}
	if got.CmdType != c.CmdType || got.ParamInt != c.ParamInt || got.ParamFloat != c.ParamFloat || got.ParamString != c.ParamString {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, c)
	}
	if string(got.ParamBytes) != string(c.ParamBytes) {
		t.Fatalf("ParamBytes mismatch: got %v, want %v", got.ParamBytes, c.ParamBytes)
	}
}

func TestCommandTooShort(t *testing.T) {
	if _, err := ParseCommand([]byte{1, 2}); err == nil {
		t.Fatal("expected error for truncated command")
	}
}

func TestCommandTypeIsKnown(t *testing.T) {
	if !SetBypass.IsKnown() {
		t.Fatal("SetBypass should be known")
	}
	if !GetLevels.IsKnown() {
		t.Fatal("GetLevels should be known")
	}
	if CommandType(11).IsKnown() {
		t.Fatal("CommandType(11) should not be known")
	}
}

func TestResponseRoundTrip(t *testing.T) {
	r := Response{
		Success:      true,
		ErrorMessage: "",
		State: ProcessorState{
			IsActive:        true,
			IsBypassed:      false,
			InputDB:         -12.5,
			OutputDB:        -14.0,
			GainReductionDB: 2.25,
			PresetName:      "bass_boost",
		},
		Data: []byte{9, 8, 7},
	}
	got, err := ParseResponse(r.Serialize())
	if err != nil {
		t.Fatalf("ParseResponse() error = %v", err)
	}
	if got.Success != r.Success || got.State != r.State {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, r)
	}
	if string(got.Data) != string(r.Data) {
		t.Fatalf("Data mismatch: got %v, want %v", got.Data, r.Data)
	}
}

func TestResponseWithErrorMessage(t *testing.T) {
	r := Response{Success: false, ErrorMessage: "Processor not initialized"}
	got, err := ParseResponse(r.Serialize())
	if err != nil {
		t.Fatalf("ParseResponse() error = %v", err)
	}
	if got.Success || got.ErrorMessage != r.ErrorMessage {
		t.Fatalf("got %+v, want %+v", got, r)
	}
}

func TestAudioDataRoundTrip(t *testing.T) {
	a := AudioData{
		Samples:     []float32{0.1, -0.2, 0.3, -0.4},
		SampleRate:  48000,
		Channels:    2,
		FrameCount:  2,
		TimestampMs: 123456789,
	}
	got, err := ParseAudioData(a.Serialize())
	if err != nil {
		t.Fatalf("ParseAudioData() error = %v", err)
	}
	if got.SampleRate != a.SampleRate || got.Channels != a.Channels || got.FrameCount != a.FrameCount || got.TimestampMs != a.TimestampMs {
		t.Fatalf("header mismatch: got %+v, want %+v", got, a)
	}
	if len(got.Samples) != len(a.Samples) {
		t.Fatalf("sample count mismatch: got %d, want %d", len(got.Samples), len(a.Samples))
	}
	for i := range a.Samples {
		if got.Samples[i] != a.Samples[i] {
			t.Fatalf("sample %d: got %v, want %v", i, got.Samples[i], a.Samples[i])
		}
	}
}

func TestAudioDataTooShort(t *testing.T) {
	if _, err := ParseAudioData([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for truncated audio data")
	}
}

func TestMeterDataRoundTrip(t *testing.T) {
	m := MeterData{
		InputPeakDB:   -3.5,
		InputRMSDB:    -10.2,
		OutputPeakDB:  -0.5,
		OutputRMSDB:   -8.1,
		GainReduction: 4.0,
		TimestampMs:   987654321,
	}
	got, err := ParseMeterData(m.Serialize())
	if err != nil {
		t.Fatalf("ParseMeterData() error = %v", err)
	}
	if got != m {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, m)
	}
}

func TestMeterDataFixedSize(t *testing.T) {
	var m MeterData
	if got := len(m.Serialize()); got != meterDataSize {
		t.Fatalf("MeterData wire size = %d, want %d", got, meterDataSize)
	}
}

func TestMeterDataTooShort(t *testing.T) {
	if _, err := ParseMeterData([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for truncated meter data")
	}
}
