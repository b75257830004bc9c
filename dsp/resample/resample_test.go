package resample

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-loudness/internal/testutil"
)

func TestNewUpsamplerValidation(t *testing.T) {
	if _, err := NewUpsampler(0); err == nil {
		t.Fatal("expected error for factor=0")
	}

	if _, err := NewUpsampler(-2); err == nil {
		t.Fatal("expected error for factor=-2")
	}
}

func TestBypassFactorOne(t *testing.T) {
	u, err := NewUpsampler(1)
	if err != nil {
		t.Fatalf("NewUpsampler() error = %v", err)
	}

	in := []float64{0.5, -0.25, 1, 0}

	out := u.Process(nil, in)
	testutil.RequireSliceNearlyEqual(t, out, in, 0)

	if u.TapsPerPhase() != 0 {
		t.Fatalf("TapsPerPhase = %d, want 0 for bypass", u.TapsPerPhase())
	}
}

func TestOutputLen(t *testing.T) {
	u, err := NewUpsampler(4)
	if err != nil {
		t.Fatalf("NewUpsampler() error = %v", err)
	}

	if got := u.OutputLen(256); got != 1024 {
		t.Fatalf("OutputLen(256) = %d, want 1024", got)
	}

	if got := len(u.Process(nil, make([]float64, 256))); got != 1024 {
		t.Fatalf("len(out) = %d, want 1024", got)
	}
}

func TestDCGain(t *testing.T) {
	for _, factor := range []int{2, 4} {
		u, err := NewUpsampler(factor)
		if err != nil {
			t.Fatalf("NewUpsampler(%d) error = %v", factor, err)
		}

		out := u.Process(nil, testutil.Ones(256))

		// Skip the filter warm-up, then every interpolated value of a DC
		// input must sit at 1.
		for i := u.TapsPerPhase() * factor; i < len(out); i++ {
			if math.Abs(out[i]-1) > 1e-3 {
				t.Fatalf("factor %d: out[%d] = %v, want 1", factor, i, out[i])
			}
		}
	}
}

func TestChunkedMatchesOneShot(t *testing.T) {
	in := testutil.DeterministicNoise(42, 0.8, 1000)

	one, err := NewUpsampler(4)
	if err != nil {
		t.Fatalf("NewUpsampler() error = %v", err)
	}

	want := one.Process(nil, in)

	chunked, err := NewUpsampler(4)
	if err != nil {
		t.Fatalf("NewUpsampler() error = %v", err)
	}

	var got []float64
	for _, n := range []int{1, 7, 64, 128, 300, 500} {
		got = append(got, chunked.Process(nil, in[:n])...)
		in = in[n:]
	}

	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestSinePeakPreserved(t *testing.T) {
	fs := 48000.0
	sig := testutil.DeterministicSine(1000, fs, 1.0, 4800)

	u, err := NewUpsampler(4)
	if err != nil {
		t.Fatalf("NewUpsampler() error = %v", err)
	}

	out := u.Process(nil, sig)

	peak := 0.0
	for _, v := range out[u.TapsPerPhase()*4:] {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}

	if peak < 0.995 || peak > 1.01 {
		t.Fatalf("interpolated sine peak = %v, want ~1", peak)
	}
}

func TestResetClearsHistory(t *testing.T) {
	u, err := NewUpsampler(2)
	if err != nil {
		t.Fatalf("NewUpsampler() error = %v", err)
	}

	first := u.Process(nil, testutil.Impulse(64, 0))

	u.Reset()

	second := u.Process(nil, testutil.Impulse(64, 0))
	testutil.RequireSliceNearlyEqual(t, second, first, 0)
}

func TestQualityProfiles(t *testing.T) {
	tests := []struct {
		quality Quality
		taps    int
	}{
		{QualityFast, 16},
		{QualityBalanced, 32},
		{QualityBest, 64},
	}

	for _, tt := range tests {
		u, err := NewUpsampler(2, WithQuality(tt.quality))
		if err != nil {
			t.Fatalf("NewUpsampler(%v) error = %v", tt.quality, err)
		}

		if u.TapsPerPhase() != tt.taps {
			t.Errorf("quality %v: taps = %d, want %d", tt.quality, u.TapsPerPhase(), tt.taps)
		}

		if u.Quality() != tt.quality {
			t.Errorf("Quality() = %v, want %v", u.Quality(), tt.quality)
		}
	}
}
