package loudness

import "github.com/cwbudde/algo-loudness/dsp/resample"

// meterConfig holds optional Meter settings.
type meterConfig struct {
	truePeakQuality resample.Quality
}

// Option mutates a meterConfig.
type Option func(*meterConfig)

func defaultMeterConfig() meterConfig {
	return meterConfig{
		truePeakQuality: resample.QualityBalanced,
	}
}

// WithTruePeakQuality selects the oversampler quality used for true
// peak detection. The default (QualityBalanced) keeps the first alias
// image below -60 dB; QualityFast trades attenuation for CPU.
func WithTruePeakQuality(q resample.Quality) Option {
	return func(cfg *meterConfig) {
		cfg.truePeakQuality = q
	}
}

func applyOptions(opts ...Option) meterConfig {
	cfg := defaultMeterConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
