package loudness

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-loudness/internal/testutil"
)

func TestNewValidation(t *testing.T) {
	if _, err := New(0, 48000, ModeM); !errors.Is(err, ErrInvalidChannelCount) {
		t.Errorf("channels=0: error = %v, want ErrInvalidChannelCount", err)
	}

	if _, err := New(2, 4000, ModeM); !errors.Is(err, ErrInvalidSampleRate) {
		t.Errorf("fs=4000: error = %v, want ErrInvalidSampleRate", err)
	}

	m, err := New(2, 48000, ModeI|ModeLRA|ModeSamplePeak|ModeTruePeak)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if m.Channels() != 2 || m.SampleRate() != 48000 {
		t.Fatalf("accessors: %d ch, %v Hz", m.Channels(), m.SampleRate())
	}
}

func TestModeImplications(t *testing.T) {
	tests := []struct {
		mode    Mode
		implied Mode
	}{
		{ModeS, ModeM},
		{ModeI, ModeM},
		{ModeLRA, ModeS},
		{ModeLRA, ModeM},
		{ModeSamplePeak, ModeM},
		{ModeTruePeak, ModeM},
	}

	for _, tt := range tests {
		if !tt.mode.Has(tt.implied) {
			t.Errorf("mode %b should imply %b", tt.mode, tt.implied)
		}
	}
}

func TestQueryRequiresMode(t *testing.T) {
	m, err := New(1, 48000, ModeM)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := m.ShortTerm(); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("ShortTerm error = %v, want ErrInvalidMode", err)
	}

	if _, err := m.Integrated(); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("Integrated error = %v, want ErrInvalidMode", err)
	}

	if _, err := m.LoudnessRange(); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("LoudnessRange error = %v, want ErrInvalidMode", err)
	}

	if _, err := m.SamplePeak(0); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("SamplePeak error = %v, want ErrInvalidMode", err)
	}

	if _, err := m.TruePeak(0); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("TruePeak error = %v, want ErrInvalidMode", err)
	}

	if _, err := m.Momentary(); err != nil {
		t.Errorf("Momentary error = %v, want nil", err)
	}
}

func TestSetChannel(t *testing.T) {
	m, err := New(2, 48000, ModeM)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := m.SetChannel(0, DualMono); err != nil {
		t.Fatalf("SetChannel error = %v", err)
	}

	role, err := m.Channel(0)
	if err != nil || role != DualMono {
		t.Fatalf("Channel(0) = %v, %v", role, err)
	}

	if err := m.SetChannel(2, Left); !errors.Is(err, ErrInvalidChannelIndex) {
		t.Errorf("out-of-range index: error = %v, want ErrInvalidChannelIndex", err)
	}

	if err := m.SetChannel(0, ChannelRole(99)); !errors.Is(err, ErrInvalidChannelRole) {
		t.Errorf("unknown role: error = %v, want ErrInvalidChannelRole", err)
	}
}

func TestDefaultChannelMap(t *testing.T) {
	m, err := New(8, 48000, ModeM)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	want := []ChannelRole{Left, Right, Center, Unused, LeftSurround, RightSurround, Unused, Unused}
	for i, w := range want {
		role, err := m.Channel(i)
		if err != nil {
			t.Fatalf("Channel(%d) error = %v", i, err)
		}

		if role != w {
			t.Errorf("channel %d = %v, want %v", i, role, w)
		}
	}
}

func TestChannelWeights(t *testing.T) {
	tests := []struct {
		role   ChannelRole
		weight float64
	}{
		{Unused, 0},
		{Left, 1},
		{Right, 1},
		{Center, 1},
		{LeftSurround, 1.41},
		{RightSurround, 1.41},
		{DualMono, 2},
	}

	for _, tt := range tests {
		if got := tt.role.Weight(); got != tt.weight {
			t.Errorf("%v.Weight() = %v, want %v", tt.role, got, tt.weight)
		}
	}
}

func TestUnalignedFrames(t *testing.T) {
	m, err := New(2, 48000, ModeM)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := m.AddFrames(make([]float64, 5)); !errors.Is(err, ErrUnalignedFrames) {
		t.Errorf("error = %v, want ErrUnalignedFrames", err)
	}
}

func TestReconfigureNoChange(t *testing.T) {
	m, err := New(2, 48000, ModeI)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := m.Reconfigure(2, 48000); !errors.Is(err, ErrNoChange) {
		t.Errorf("error = %v, want ErrNoChange", err)
	}
}

func TestReconfigureKeepsGatingBlocks(t *testing.T) {
	m, err := New(2, 48000, ModeI)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	sig := testutil.SineAtDBFS(1000, 48000, -23, 48000*10)
	if err := m.AddFrames(testutil.Interleave(sig, sig)); err != nil {
		t.Fatalf("AddFrames error = %v", err)
	}

	if err := m.Reconfigure(2, 44100); err != nil {
		t.Fatalf("Reconfigure error = %v", err)
	}

	sig = testutil.SineAtDBFS(1000, 44100, -23, 44100*10)
	if err := m.AddFrames(testutil.Interleave(sig, sig)); err != nil {
		t.Fatalf("AddFrames error = %v", err)
	}

	got, err := m.Integrated()
	if err != nil {
		t.Fatalf("Integrated error = %v", err)
	}

	if math.Abs(got+23) > 0.1 {
		t.Fatalf("Integrated = %v, want -23 +- 0.1 across reconfigure", got)
	}
}

func TestReconfigureDropsPartialSubBlock(t *testing.T) {
	m, err := New(1, 48000, ModeM)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// 150 ms: one full sub-block plus half of the next.
	if err := m.AddFrames(testutil.Ones(7200)); err != nil {
		t.Fatalf("AddFrames error = %v", err)
	}

	if err := m.Reconfigure(1, 44100); err != nil {
		t.Fatalf("Reconfigure error = %v", err)
	}

	mom, err := m.Momentary()
	if err != nil {
		t.Fatalf("Momentary error = %v", err)
	}

	if !math.IsInf(mom, -1) {
		t.Fatalf("Momentary after reconfigure = %v, want -Inf", mom)
	}
}

func TestResetClearsEverything(t *testing.T) {
	m, err := New(2, 48000, ModeI|ModeLRA|ModeSamplePeak)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	sig := testutil.SineAtDBFS(1000, 48000, -20, 48000*5)
	if err := m.AddFrames(testutil.Interleave(sig, sig)); err != nil {
		t.Fatalf("AddFrames error = %v", err)
	}

	m.Reset()

	if v, _ := m.Momentary(); !math.IsInf(v, -1) {
		t.Errorf("Momentary after Reset = %v, want -Inf", v)
	}

	if v, _ := m.Integrated(); !math.IsInf(v, -1) {
		t.Errorf("Integrated after Reset = %v, want -Inf", v)
	}

	if v, _ := m.LoudnessRange(); v != 0 {
		t.Errorf("LoudnessRange after Reset = %v, want 0", v)
	}

	if v, _ := m.SamplePeak(0); v != 0 {
		t.Errorf("SamplePeak after Reset = %v, want 0", v)
	}
}
