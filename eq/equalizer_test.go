package eq

import (
	"math"
	"testing"

	"github.com/cwbudde/volumod/audio"
	"github.com/cwbudde/volumod/internal/testutil"
)

func TestFlatPresetIsIdentityPastTransient(t *testing.T) {
	e, _ := New(48000, 1)
	e.SetPreset(Flat)
	in := testutil.DeterministicSine(1000, 48000, 0.5, 512)
	block := audio.FromSamples(append([]float64(nil), in...), 48000, 1)
	e.ProcessBlock(block)
	out := block.Samples()
	for i := 64; i < len(out); i++ {
		if math.Abs(out[i]-in[i]) > 1e-6 {
			t.Fatalf("flat preset altered sample %d: got %v, want %v", i, out[i], in[i])
		}
	}
}

func TestFlatPresetShortCircuitsEntirely(t *testing.T) {
	e, _ := New(48000, 1)
	e.SetPreset(Flat)
	in := []float64{0.1, 0.2, 0.3}
	block := audio.FromSamples(append([]float64(nil), in...), 48000, 1)
	e.ProcessBlock(block)
	for i, v := range block.Samples() {
		if v != in[i] {
			t.Fatalf("flat preset should short-circuit without touching samples: index %d got %v want %v", i, v, in[i])
		}
	}
}

func TestBassBoostPreset(t *testing.T) {
	e, _ := New(48000, 1)
	e.SetPreset(BassBoost)
	want := []float64{6, 5, 3, 1, 0, 0, 0, 0, 0, 0}
	for i, g := range want {
		if got := e.BandGain(i); got != g {
			t.Fatalf("band %d gain = %v, want %v", i, got, g)
		}
	}
}

func TestSetBandGainClamps(t *testing.T) {
	e, _ := New(48000, 1)
	e.SetBandGain(0, 100)
	if got := e.BandGain(0); got != MaxBandGainDB {
		t.Fatalf("BandGain(0) = %v, want %v", got, MaxBandGainDB)
	}
	e.SetBandGain(0, -100)
	if got := e.BandGain(0); got != MinBandGainDB {
		t.Fatalf("BandGain(0) = %v, want %v", got, MinBandGainDB)
	}
}

func TestPerChannelFiltersIndependent(t *testing.T) {
	e, _ := New(48000, 2)
	e.SetPreset(BassBoost)
	if e.filters[0][0] == e.filters[1][0] {
		t.Fatal("channel 0 and channel 1 share a filter instance")
	}
}

func TestResetThenSilenceYieldsSilence(t *testing.T) {
	e, _ := New(48000, 1)
	e.SetPreset(BassBoost)
	loud := audio.FromSamples(testutil.DeterministicSine(200, 48000, 0.9, 256), 48000, 1)
	e.ProcessBlock(loud)
	e.Reset()
	silence := audio.New(48000, 1, 256)
	e.ProcessBlock(silence)
	for i, v := range silence.Samples() {
		if v != 0 {
			t.Fatalf("index %d: got %v after Reset+silence, want 0", i, v)
		}
	}
}

func TestOutputGainApplied(t *testing.T) {
	e, _ := New(48000, 1)
	e.SetOutputGain(6)
	in := []float64{0.1, 0.1, 0.1}
	block := audio.FromSamples(append([]float64(nil), in...), 48000, 1)
	e.ProcessBlock(block)
	if block.Samples()[0] == in[0] {
		t.Fatal("output gain was not applied")
	}
}
