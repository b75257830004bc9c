package resample

import (
	"errors"

	"github.com/cwbudde/algo-loudness/dsp/core"
)

// ErrInvalidFactor indicates an invalid upsampling factor.
var ErrInvalidFactor = errors.New("resample: invalid factor")

// Quality controls default anti-aliasing filter settings.
type Quality int

const (
	// QualityFast prioritizes lower CPU usage.
	QualityFast Quality = iota
	// QualityBalanced is the default quality/performance trade-off.
	QualityBalanced
	// QualityBest prioritizes stopband attenuation and passband flatness.
	QualityBest
)

// Profile exposes default filter parameters for each quality mode.
type Profile struct {
	TapsPerPhase      int
	CutoffScale       float64
	KaiserBeta        float64
	NominalStopbandDB float64
}

// QualityProfile returns the default profile used by quality mode q.
func QualityProfile(q Quality) Profile {
	switch q {
	case QualityFast:
		return Profile{TapsPerPhase: 16, CutoffScale: 0.88, KaiserBeta: 5.0, NominalStopbandDB: 55}
	case QualityBest:
		return Profile{TapsPerPhase: 64, CutoffScale: 0.96, KaiserBeta: 9.0, NominalStopbandDB: 90}
	default:
		return Profile{TapsPerPhase: 32, CutoffScale: 0.92, KaiserBeta: 7.5, NominalStopbandDB: 75}
	}
}

type config struct {
	quality      Quality
	tapsPerPhase int
	cutoffScale  float64
	kaiserBeta   float64
}

// Option configures the upsampler.
type Option func(*config)

// WithQuality selects a predefined anti-aliasing quality mode.
func WithQuality(q Quality) Option {
	return func(cfg *config) {
		cfg.quality = q
	}
}

// WithTapsPerPhase overrides taps per polyphase branch.
func WithTapsPerPhase(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.tapsPerPhase = n
		}
	}
}

// WithCutoffScale overrides normalized cutoff scaling in range (0, 1].
// 1.0 equals the theoretical anti-aliasing cutoff.
func WithCutoffScale(v float64) Option {
	return func(cfg *config) {
		if v > 0 && v <= 1 {
			cfg.cutoffScale = v
		}
	}
}

// WithKaiserBeta overrides the Kaiser window beta parameter.
func WithKaiserBeta(beta float64) Option {
	return func(cfg *config) {
		if beta >= 0 {
			cfg.kaiserBeta = beta
		}
	}
}

func defaultConfig() config {
	return config{quality: QualityBalanced}
}

func (c config) finalized() config {
	p := QualityProfile(c.quality)
	if c.tapsPerPhase <= 0 {
		c.tapsPerPhase = p.TapsPerPhase
	}

	if c.cutoffScale <= 0 || c.cutoffScale > 1 {
		c.cutoffScale = p.CutoffScale
	}

	if c.kaiserBeta <= 0 {
		c.kaiserBeta = p.KaiserBeta
	}

	return c
}

// Upsampler performs streaming integer-factor upsampling using a
// polyphase FIR. Factor 1 bypasses filtering entirely.
type Upsampler struct {
	factor int

	quality Quality

	taps   []float64
	phases [][]float64

	history []float64
}

// NewUpsampler creates an upsampler for the given integer factor.
func NewUpsampler(factor int, opts ...Option) (*Upsampler, error) {
	if factor < 1 {
		return nil, ErrInvalidFactor
	}

	cfg := defaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	cfg = cfg.finalized()

	u := &Upsampler{
		factor:  factor,
		quality: cfg.quality,
	}

	if factor == 1 {
		return u, nil
	}

	taps, phases, err := designPolyphaseFIR(factor, cfg)
	if err != nil {
		return nil, err
	}

	u.taps = taps
	u.phases = phases
	u.history = make([]float64, 0, cfg.tapsPerPhase-1)

	return u, nil
}

// Reset clears internal filter state.
func (u *Upsampler) Reset() {
	u.history = u.history[:0]
}

// OutputLen returns the number of output samples produced for n input
// samples.
func (u *Upsampler) OutputLen(n int) int {
	if n <= 0 {
		return 0
	}

	return n * u.factor
}

// Process upsamples src by the configured factor, writing into dst and
// returning it. dst is grown as needed (pass nil to allocate, or reuse
// a previous return value to avoid reallocating the output). Each call
// still allocates a temporary work buffer of history plus input. Filter
// history carries across calls, so chunked input is equivalent to one
// call.
func (u *Upsampler) Process(dst, src []float64) []float64 {
	if len(src) == 0 {
		return dst[:0]
	}

	dst = core.EnsureLen(dst, len(src)*u.factor)

	if u.factor == 1 {
		core.CopyInto(dst, src)

		return dst
	}

	tapsPerPhase := len(u.phases[0])

	work := make([]float64, len(u.history)+len(src))
	copy(work, u.history)
	copy(work[len(u.history):], src)

	base := len(u.history)

	out := 0
	for i := range src {
		pos := base + i

		for _, phase := range u.phases {
			var y float64

			for k, c := range phase {
				idx := pos - k
				if idx < 0 {
					break
				}

				y += c * work[idx]
			}

			dst[out] = y
			out++
		}
	}

	keep := tapsPerPhase - 1
	if keep > len(work) {
		keep = len(work)
	}

	u.history = append(u.history[:0], work[len(work)-keep:]...)

	return dst
}

// Factor returns the configured upsampling factor.
func (u *Upsampler) Factor() int {
	return u.factor
}

// Quality returns the configured quality mode.
func (u *Upsampler) Quality() Quality {
	return u.quality
}

// TapsPerPhase returns taps in each polyphase branch.
func (u *Upsampler) TapsPerPhase() int {
	if len(u.phases) == 0 {
		return 0
	}

	return len(u.phases[0])
}

// Prototype returns a copy of the underlying prototype FIR taps.
func (u *Upsampler) Prototype() []float64 {
	out := make([]float64, len(u.taps))
	copy(out, u.taps)

	return out
}
