// Package resample provides streaming integer-factor upsampling using
// polyphase FIR filtering with anti-aliasing defaults.
//
// The primary use is true-peak detection, where the input stream is
// oversampled 2x or 4x and the reconstructed intersample maxima are
// read off the upsampled signal. [Upsampler.Process] carries filter
// history across calls, so a stream fed in arbitrary chunks produces
// the same output as a single call.
//
// Quality modes:
//   - QualityFast: lower CPU, lower attenuation
//   - QualityBalanced: default mode
//   - QualityBest: higher attenuation and flatter passband
//
// Default quality/performance matrix:
//
//	mode            taps/phase   nominal stopband
//	QualityFast     16           ~55 dB
//	QualityBalanced 32           ~75 dB
//	QualityBest     64           ~90 dB
package resample
