package loudness

// IntegratedMultiple computes the gated integrated loudness of several
// programmes as if they were one: every 400 ms block from every meter
// enters a single virtual accumulator before the two-stage gate runs.
// Meters may differ in sample rate and channel count; block loudness is
// already on the common LUFS scale. Every meter must have ModeI set.
//
// The meters are read without being mutated; the caller must ensure no
// concurrent writer.
func IntegratedMultiple(meters []*Meter) (float64, error) {
	stores, err := collectStores(meters, ModeI, func(m *Meter) *blockStore { return m.blocks })
	if err != nil {
		return 0, err
	}

	return gatedLoudness(stores), nil
}

// LoudnessRangeMultiple computes the loudness range of several
// programmes as one, merging all short-term blocks. Every meter must
// have ModeLRA set.
func LoudnessRangeMultiple(meters []*Meter) (float64, error) {
	stores, err := collectStores(meters, ModeLRA, func(m *Meter) *blockStore { return m.stBlocks })
	if err != nil {
		return 0, err
	}

	return loudnessRange(stores), nil
}

func collectStores(meters []*Meter, required Mode, pick func(*Meter) *blockStore) ([]*blockStore, error) {
	stores := make([]*blockStore, 0, len(meters))

	for _, m := range meters {
		if !m.mode.Has(required) {
			return nil, ErrInvalidMode
		}

		stores = append(stores, pick(m))
	}

	return stores, nil
}
