// Package loudness implements EBU R128 / ITU-R BS.1770 loudness
// measurement: momentary and short-term loudness, gated integrated
// loudness, loudness range (LRA), and per-channel sample and true peak.
//
// A [Meter] consumes interleaved PCM in 16/32-bit integer or 32/64-bit
// float formats and answers measurement queries at any point in the
// stream. Measurements are selected by [Mode] bits at construction;
// [ModeHistogram] bounds memory on arbitrarily long programmes by
// storing gating blocks in 0.1 LU histograms instead of exact lists.
//
// Multiple meters can be merged with [IntegratedMultiple] and
// [LoudnessRangeMultiple], treating separately measured programmes as
// one continuous one.
package loudness
