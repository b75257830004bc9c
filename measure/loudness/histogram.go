package loudness

import (
	"math"
	"sync"

	"github.com/cwbudde/algo-loudness/dsp/core"
)

// Histogram storage: 0.1 LU bins spanning [-70, +5) LUFS. Blocks below
// the absolute gate are never recorded (they cannot pass gating), blocks
// above the range clamp into the top bin. Bin counters only grow.
const (
	histBins  = 750
	histMin   = -70.0
	histWidth = 0.1
)

var (
	histEnergyOnce sync.Once
	histEnergy     [histBins]float64
)

// binEnergies returns the linear energy of each bin center, computed
// once on first use.
func binEnergies() *[histBins]float64 {
	histEnergyOnce.Do(func() {
		for i := range histEnergy {
			histEnergy[i] = loudnessToEnergy(binCenter(i))
		}
	})

	return &histEnergy
}

func binCenter(i int) float64 {
	return histMin + (float64(i)+0.5)*histWidth
}

func binIndex(loudness float64) int {
	i := int((loudness - histMin) / histWidth)

	return core.ClampInt(i, 0, histBins-1)
}

type histogram struct {
	counts [histBins]uint64
}

// add records one block at the given loudness. Blocks below the
// histogram floor are dropped; see the storage note above.
func (h *histogram) add(loudness float64) {
	if loudness < histMin {
		return
	}

	h.counts[binIndex(loudness)]++
}

func (h *histogram) reset() {
	h.counts = [histBins]uint64{}
}

func energyToLoudness(energy float64) float64 {
	if energy <= 0 {
		return math.Inf(-1)
	}

	return -0.691 + 10*math.Log10(energy)
}

func loudnessToEnergy(loudness float64) float64 {
	return math.Pow(10, (loudness+0.691)/10)
}
