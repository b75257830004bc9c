package loudness

import (
	"math"

	"github.com/cwbudde/algo-loudness/dsp/core"
	"github.com/cwbudde/algo-loudness/dsp/filter/biquad"
	"github.com/cwbudde/algo-loudness/dsp/filter/design/kweighting"
	"github.com/cwbudde/algo-loudness/dsp/resample"
)

// Window geometry: measurements advance in 100 ms sub-blocks with 75%
// overlap. The sub-block ring covers the 3 s short-term window; the
// momentary window is its most recent 4 entries.
const (
	subBlocksPerSecond = 10
	momentarySubBlocks = 4
	shortTermSubBlocks = 30
)

// Meter implements EBU R128 / ITU-R BS.1770 loudness metering over an
// interleaved multichannel PCM stream.
//
// A Meter is not safe for concurrent use; distinct Meters are
// independent and may be driven from distinct goroutines.
type Meter struct {
	mode       Mode
	channels   int
	sampleRate float64

	cfg meterConfig

	channelMap []ChannelRole
	weights    []float64

	// K-weighting cascade per channel
	filters []*biquad.Chain

	// Forming 100 ms sub-block
	subBlockLen     int
	samplesInBucket int
	bucketSums      []float64 // per channel, sum of squared filtered samples

	// Ring of completed sub-block sums, per channel
	ring       [][]float64
	ringPos    int
	ringFilled int

	// Gating block records
	blocks   *blockStore // 400 ms, integrated loudness
	stBlocks *blockStore // 3 s, loudness range

	// Peak state
	samplePeak []float64
	truePeak   []float64
	upsamplers []*resample.Upsampler

	// Reusable scratch
	scratch   []float64 // one channel of deinterleaved input
	upScratch []float64 // oversampler output
}

// New creates a Meter for the given channel count, sample rate (Hz) and
// measurement modes.
func New(channels int, sampleRate float64, mode Mode, opts ...Option) (*Meter, error) {
	if channels < 1 {
		return nil, ErrInvalidChannelCount
	}

	if sampleRate < kweighting.MinSampleRate {
		return nil, ErrInvalidSampleRate
	}

	m := &Meter{
		mode: mode,
		cfg:  applyOptions(opts...),
	}

	m.blocks = newBlockStore(mode.Has(ModeHistogram))
	m.stBlocks = newBlockStore(mode.Has(ModeHistogram))

	if err := m.rebuild(channels, sampleRate); err != nil {
		return nil, err
	}

	return m, nil
}

// rebuild sizes all per-channel state for the given parameters and
// resets everything except the recorded gating blocks.
func (m *Meter) rebuild(channels int, sampleRate float64) error {
	filters := make([]*biquad.Chain, channels)

	for i := range filters {
		chain, err := kweighting.New(sampleRate)
		if err != nil {
			return err
		}

		filters[i] = chain
	}

	m.channels = channels
	m.sampleRate = sampleRate
	m.filters = filters

	m.channelMap = defaultChannelMap(channels)
	m.weights = make([]float64, channels)
	for i, role := range m.channelMap {
		m.weights[i] = role.Weight()
	}

	m.subBlockLen = int(math.Round(sampleRate / subBlocksPerSecond))

	m.bucketSums = make([]float64, channels)
	m.ring = make([][]float64, channels)
	for i := range m.ring {
		m.ring[i] = make([]float64, shortTermSubBlocks)
	}

	m.ringPos = 0
	m.ringFilled = 0
	m.samplesInBucket = 0

	m.samplePeak = make([]float64, channels)
	m.truePeak = make([]float64, channels)

	m.scratch = make([]float64, m.subBlockLen)
	m.upScratch = nil

	m.upsamplers = nil
	if m.mode.Has(ModeTruePeak) {
		factor := oversampleFactor(sampleRate)

		m.upsamplers = make([]*resample.Upsampler, channels)
		for i := range m.upsamplers {
			u, err := resample.NewUpsampler(factor, resample.WithQuality(m.cfg.truePeakQuality))
			if err != nil {
				return err
			}

			m.upsamplers[i] = u
		}
	}

	return nil
}

// oversampleFactor returns the true-peak oversampling factor for the
// given rate: 4x below 96 kHz, 2x below 192 kHz, bypass above.
func oversampleFactor(sampleRate float64) int {
	switch {
	case sampleRate < 96000:
		return 4
	case sampleRate < 192000:
		return 2
	default:
		return 1
	}
}

// Reconfigure changes the channel count and/or sample rate in place.
// Filters are rebuilt, the channel map reverts to its default, the
// partial 100 ms sub-block is discarded and peak state is cleared.
// Recorded gating blocks are kept: block loudness is rate and layout
// independent, so integrated loudness and LRA keep accumulating across
// the change. Returns ErrNoChange if both parameters match the current
// configuration.
func (m *Meter) Reconfigure(channels int, sampleRate float64) error {
	if channels == m.channels && sampleRate == m.sampleRate {
		return ErrNoChange
	}

	if channels < 1 {
		return ErrInvalidChannelCount
	}

	if sampleRate < kweighting.MinSampleRate {
		return ErrInvalidSampleRate
	}

	return m.rebuild(channels, sampleRate)
}

// Reset clears all measurement state, including recorded gating blocks
// and peaks, without changing the configuration.
func (m *Meter) Reset() {
	for i := range m.filters {
		m.filters[i].Reset()
		core.Zero(m.ring[i])
	}

	core.Zero(m.bucketSums)
	core.Zero(m.samplePeak)
	core.Zero(m.truePeak)

	for _, u := range m.upsamplers {
		u.Reset()
	}

	m.ringPos = 0
	m.ringFilled = 0
	m.samplesInBucket = 0

	m.blocks.reset()
	m.stBlocks.reset()
}

// SetChannel assigns a role to one channel. Unknown roles are rejected.
func (m *Meter) SetChannel(index int, role ChannelRole) error {
	if index < 0 || index >= m.channels {
		return ErrInvalidChannelIndex
	}

	if !role.valid() {
		return ErrInvalidChannelRole
	}

	m.channelMap[index] = role
	m.weights[index] = role.Weight()

	return nil
}

// Channel returns the role currently assigned to the given channel.
func (m *Meter) Channel(index int) (ChannelRole, error) {
	if index < 0 || index >= m.channels {
		return Unused, ErrInvalidChannelIndex
	}

	return m.channelMap[index], nil
}

// Channels returns the configured channel count.
func (m *Meter) Channels() int { return m.channels }

// SampleRate returns the configured sample rate in Hz.
func (m *Meter) SampleRate() float64 { return m.sampleRate }

// Mode returns the measurement modes set at construction.
func (m *Meter) Mode() Mode { return m.mode }

// sample constrains the PCM input formats AddFrames accepts.
type sample interface {
	~int16 | ~int32 | ~float32 | ~float64
}

// AddFrames consumes interleaved 64-bit float frames at full scale
// (1.0 = 0 dBFS). The buffer length must be a whole number of frames.
func (m *Meter) AddFrames(src []float64) error {
	return addFrames(m, src, 1)
}

// AddFramesFloat32 consumes interleaved 32-bit float frames.
func (m *Meter) AddFramesFloat32(src []float32) error {
	return addFrames(m, src, 1)
}

// AddFramesInt16 consumes interleaved 16-bit signed integer frames.
// Full-scale (-32768..32767) maps to the -1..1 float range.
func (m *Meter) AddFramesInt16(src []int16) error {
	return addFrames(m, src, 1.0/32768.0)
}

// AddFramesInt32 consumes interleaved 32-bit signed integer frames.
func (m *Meter) AddFramesInt32(src []int32) error {
	return addFrames(m, src, 1.0/2147483648.0)
}

// addFrames is the shared input path: deinterleave and scale into the
// per-channel scratch in sub-block sized chunks, track peaks, filter,
// and accumulate squared energy. Chunking never crosses a 100 ms
// boundary, so any partition of the input stream produces identical
// state.
func addFrames[T sample](m *Meter, src []T, scale float64) error {
	if len(src)%m.channels != 0 {
		return ErrUnalignedFrames
	}

	frames := len(src) / m.channels

	offset := 0
	for frames > 0 {
		chunk := m.subBlockLen - m.samplesInBucket
		if chunk > frames {
			chunk = frames
		}

		for ch := 0; ch < m.channels; ch++ {
			buf := m.scratch[:chunk]

			for i := range chunk {
				buf[i] = float64(src[offset+i*m.channels+ch]) * scale
			}

			if m.mode.Has(ModeSamplePeak) {
				m.trackSamplePeak(ch, buf)
			}

			if m.mode.Has(ModeTruePeak) {
				m.trackTruePeak(ch, buf)
			}

			m.filters[ch].ProcessBlock(buf)

			sum := m.bucketSums[ch]
			for _, y := range buf {
				sum += y * y
			}

			m.bucketSums[ch] = sum
		}

		m.samplesInBucket += chunk
		offset += chunk * m.channels
		frames -= chunk

		if m.samplesInBucket == m.subBlockLen {
			m.finishSubBlock()
		}
	}

	return nil
}

func (m *Meter) trackSamplePeak(ch int, buf []float64) {
	peak := m.samplePeak[ch]

	for _, v := range buf {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}

	m.samplePeak[ch] = peak
}

func (m *Meter) trackTruePeak(ch int, buf []float64) {
	m.upScratch = m.upsamplers[ch].Process(m.upScratch, buf)

	peak := m.truePeak[ch]

	for _, v := range m.upScratch {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}

	// The oversampled grid need not pass through the input sample
	// instants, so the input samples also bound the true peak.
	for _, v := range buf {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}

	m.truePeak[ch] = peak
}

// finishSubBlock rotates the completed 100 ms sub-block into the ring
// and appends gating records for every window that is fully populated.
func (m *Meter) finishSubBlock() {
	for ch := range m.ring {
		m.ring[ch][m.ringPos] = m.bucketSums[ch]
		m.bucketSums[ch] = 0
		m.filters[ch].FlushDenormals()
	}

	m.ringPos = (m.ringPos + 1) % shortTermSubBlocks
	if m.ringFilled < shortTermSubBlocks {
		m.ringFilled++
	}

	m.samplesInBucket = 0

	if m.mode.Has(ModeI) {
		if e, ok := m.windowEnergy(momentarySubBlocks); ok {
			m.blocks.record(e)
		}
	}

	if m.mode.Has(ModeLRA) {
		if e, ok := m.windowEnergy(shortTermSubBlocks); ok {
			m.stBlocks.record(e)
		}
	}
}

// windowEnergy returns the channel-weighted mean-square energy over the
// most recent n completed sub-blocks, or ok=false while the window is
// not yet fully populated.
func (m *Meter) windowEnergy(n int) (float64, bool) {
	if m.ringFilled < n {
		return 0, false
	}

	samples := float64(n * m.subBlockLen)

	var energy float64

	for ch := range m.ring {
		w := m.weights[ch]
		if w == 0 {
			continue
		}

		var sum float64

		for k := range n {
			idx := (m.ringPos - 1 - k + shortTermSubBlocks) % shortTermSubBlocks
			sum += m.ring[ch][idx]
		}

		energy += w * sum / samples
	}

	return energy, true
}

// Momentary returns the loudness of the last 400 ms in LUFS, or -Inf
// until 400 ms of audio have been consumed.
func (m *Meter) Momentary() (float64, error) {
	if !m.mode.Has(ModeM) {
		return 0, ErrInvalidMode
	}

	e, ok := m.windowEnergy(momentarySubBlocks)
	if !ok {
		return math.Inf(-1), nil
	}

	return energyToLoudness(e), nil
}

// ShortTerm returns the loudness of the last 3 s in LUFS, or -Inf until
// 3 s of audio have been consumed.
func (m *Meter) ShortTerm() (float64, error) {
	if !m.mode.Has(ModeS) {
		return 0, ErrInvalidMode
	}

	e, ok := m.windowEnergy(shortTermSubBlocks)
	if !ok {
		return math.Inf(-1), nil
	}

	return energyToLoudness(e), nil
}

// Integrated returns the gated integrated loudness of everything
// consumed so far in LUFS, or -Inf if no block survives gating.
func (m *Meter) Integrated() (float64, error) {
	if !m.mode.Has(ModeI) {
		return 0, ErrInvalidMode
	}

	return gatedLoudness([]*blockStore{m.blocks}), nil
}

// LoudnessRange returns the loudness range (LRA) of everything consumed
// so far in LU.
func (m *Meter) LoudnessRange() (float64, error) {
	if !m.mode.Has(ModeLRA) {
		return 0, ErrInvalidMode
	}

	return loudnessRange([]*blockStore{m.stBlocks}), nil
}

// SamplePeak returns the maximum absolute sample value seen on the
// given channel since construction, Reset or Reconfigure. 1.0 is
// 0 dBFS.
func (m *Meter) SamplePeak(channel int) (float64, error) {
	if !m.mode.Has(ModeSamplePeak) {
		return 0, ErrInvalidMode
	}

	if channel < 0 || channel >= m.channels {
		return 0, ErrInvalidChannelIndex
	}

	return m.samplePeak[channel], nil
}

// TruePeak returns the maximum absolute value of the oversampled signal
// and of the input samples seen on the given channel since
// construction, Reset or Reconfigure, so it never reads below the
// sample peak. Intersample peaks may exceed 1.0. At 192 kHz and above the
// oversampler is bypassed and the result equals the sample peak.
func (m *Meter) TruePeak(channel int) (float64, error) {
	if !m.mode.Has(ModeTruePeak) {
		return 0, ErrInvalidMode
	}

	if channel < 0 || channel >= m.channels {
		return 0, ErrInvalidChannelIndex
	}

	return m.truePeak[channel], nil
}
