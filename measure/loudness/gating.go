package loudness

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Gating parameters from BS.1770 / EBU Tech 3342.
const (
	absoluteGate       = -70.0
	relativeGateOffset = -10.0
	rangeGateOffset    = -20.0

	rangeLowPercentile  = 0.10
	rangeHighPercentile = 0.95
)

// blockStore accumulates the loudness of completed gating blocks,
// either as an exact list of linear energies (unbounded, precise) or as
// a fixed histogram (constant memory, quantized to 0.1 LU).
type blockStore struct {
	hist     *histogram
	energies []float64
}

func newBlockStore(useHistogram bool) *blockStore {
	s := &blockStore{}
	if useHistogram {
		s.hist = &histogram{}
	}

	return s
}

func (s *blockStore) record(energy float64) {
	if s.hist != nil {
		s.hist.add(energyToLoudness(energy))

		return
	}

	s.energies = append(s.energies, energy)
}

func (s *blockStore) reset() {
	if s.hist != nil {
		s.hist.reset()
	}

	s.energies = s.energies[:0]
}

// forEach visits every recorded block as (linear energy, multiplicity).
// Histogram stores report bin-center energies with bin counts.
func (s *blockStore) forEach(fn func(energy float64, count uint64)) {
	if s.hist != nil {
		energies := binEnergies()
		for i, c := range s.hist.counts {
			if c > 0 {
				fn(energies[i], c)
			}
		}

		return
	}

	for _, e := range s.energies {
		fn(e, 1)
	}
}

// gatedMean returns the mean energy of all blocks at or above the
// loudness threshold, across all stores.
func gatedMean(stores []*blockStore, threshold float64) (float64, bool) {
	var (
		sum float64
		n   uint64
	)

	for _, s := range stores {
		if s == nil {
			continue
		}

		s.forEach(func(energy float64, count uint64) {
			if energyToLoudness(energy) >= threshold {
				sum += energy * float64(count)
				n += count
			}
		})
	}

	if n == 0 {
		return 0, false
	}

	return sum / float64(n), true
}

// gatedLoudness implements the two-stage absolute/relative gate over
// all blocks in the given stores and returns integrated loudness in
// LUFS, or -Inf if no block survives gating.
func gatedLoudness(stores []*blockStore) float64 {
	mean, ok := gatedMean(stores, absoluteGate)
	if !ok {
		return math.Inf(-1)
	}

	threshold := math.Max(absoluteGate, energyToLoudness(mean)+relativeGateOffset)

	mean, ok = gatedMean(stores, threshold)
	if !ok {
		return math.Inf(-1)
	}

	return energyToLoudness(mean)
}

// loudnessRange computes LRA in LU over the short-term blocks in the
// given stores. If any store uses histogram storage the whole merge
// runs on a combined histogram, so mixed-mode merges stay within the
// histogram quantization tolerance.
func loudnessRange(stores []*blockStore) float64 {
	for _, s := range stores {
		if s != nil && s.hist != nil {
			return histogramRange(stores)
		}
	}

	return preciseRange(stores)
}

func preciseRange(stores []*blockStore) float64 {
	var (
		kept []float64 // loudness of blocks past the absolute gate
		sum  float64   // their energy sum
	)

	for _, s := range stores {
		if s == nil {
			continue
		}

		for _, e := range s.energies {
			l := energyToLoudness(e)
			if l >= absoluteGate {
				kept = append(kept, l)
				sum += e
			}
		}
	}

	if len(kept) == 0 {
		return 0
	}

	threshold := energyToLoudness(sum/float64(len(kept))) + rangeGateOffset

	gated := kept[:0]
	for _, l := range kept {
		if l >= threshold {
			gated = append(gated, l)
		}
	}

	if len(gated) < 2 {
		return 0
	}

	sort.Float64s(gated)

	if gated[0] == gated[len(gated)-1] {
		return 0
	}

	high := stat.Quantile(rangeHighPercentile, stat.LinInterp, gated, nil)
	low := stat.Quantile(rangeLowPercentile, stat.LinInterp, gated, nil)

	return high - low
}

func histogramRange(stores []*blockStore) float64 {
	var counts [histBins]uint64

	for _, s := range stores {
		if s == nil {
			continue
		}

		if s.hist != nil {
			for i, c := range s.hist.counts {
				counts[i] += c
			}

			continue
		}

		for _, e := range s.energies {
			if l := energyToLoudness(e); l >= histMin {
				counts[binIndex(l)]++
			}
		}
	}

	energies := binEnergies()

	var (
		sum   float64
		total uint64
	)

	for i, c := range counts {
		if c > 0 {
			sum += energies[i] * float64(c)
			total += c
		}
	}

	if total == 0 {
		return 0
	}

	threshold := energyToLoudness(sum/float64(total)) + rangeGateOffset

	start := 0
	for start < histBins && binCenter(start) < threshold {
		start++
	}

	var gated uint64
	for i := start; i < histBins; i++ {
		gated += counts[i]
	}

	if gated < 2 {
		return 0
	}

	lowTarget := uint64(float64(gated-1)*rangeLowPercentile + 0.5)
	highTarget := uint64(float64(gated-1)*rangeHighPercentile + 0.5)

	cum := uint64(0)
	lowBin, highBin := -1, -1

	for i := start; i < histBins; i++ {
		cum += counts[i]

		if lowBin < 0 && cum > lowTarget {
			lowBin = i
		}

		if cum > highTarget {
			highBin = i

			break
		}
	}

	if lowBin < 0 || highBin < 0 {
		return 0
	}

	return binCenter(highBin) - binCenter(lowBin)
}
