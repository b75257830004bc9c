// Package kweighting provides the K-weighting pre-filter defined by
// ITU-R BS.1770 for loudness measurement.
//
// K-weighting is a two-stage cascade:
//
//   - Stage 1: a high shelf (+4 dB above ~1681 Hz) modelling the
//     acoustic effect of the head.
//   - Stage 2: a high pass (~38 Hz, Q ≈ 0.5), the RLB revision of the
//     B-weighting low-frequency rolloff.
//
// Coefficients are derived from the analog prototype at any supported
// sample rate via the bilinear transform with frequency pre-warping
// (K = tan(pi*f0/fs)), so the filter tracks BS.1770 at 44.1 kHz, 48 kHz
// and all high-rate multiples rather than only at the tabulated rates.
//
// The bilinear pre-warp of the 1681 Hz shelf degrades as the corner
// approaches Nyquist; rates below [MinSampleRate] (8 kHz) are rejected.
package kweighting
