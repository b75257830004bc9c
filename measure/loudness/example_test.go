package loudness_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-loudness/measure/loudness"
)

func ExampleMeter() {
	sampleRate := 48000.0

	meter, err := loudness.New(2, sampleRate, loudness.ModeI|loudness.ModeSamplePeak)
	if err != nil {
		panic(err)
	}

	// 20 seconds of a stereo 1 kHz sine at -23 dBFS.
	amp := math.Pow(10, -23.0/20)
	frames := int(sampleRate * 20)
	buf := make([]float64, 2*frames)

	for i := range frames {
		v := amp * math.Sin(2*math.Pi*1000*float64(i)/sampleRate)
		buf[2*i] = v
		buf[2*i+1] = v
	}

	if err := meter.AddFrames(buf); err != nil {
		panic(err)
	}

	integrated, err := meter.Integrated()
	if err != nil {
		panic(err)
	}

	peak, err := meter.SamplePeak(0)
	if err != nil {
		panic(err)
	}

	fmt.Printf("integrated: %.0f LUFS\n", integrated)
	fmt.Printf("sample peak: %.3f\n", peak)

	// Output:
	// integrated: -23 LUFS
	// sample peak: 0.071
}

func ExampleIntegratedMultiple() {
	first, err := loudness.New(2, 48000, loudness.ModeI)
	if err != nil {
		panic(err)
	}

	second, err := loudness.New(2, 48000, loudness.ModeI)
	if err != nil {
		panic(err)
	}

	// Feed each meter its part of the programme, then merge.
	buf := make([]float64, 2*48000)
	for i := range 48000 {
		v := 0.1 * math.Sin(2*math.Pi*997*float64(i)/48000)
		buf[2*i] = v
		buf[2*i+1] = v
	}

	if err := first.AddFrames(buf); err != nil {
		panic(err)
	}

	if err := second.AddFrames(buf); err != nil {
		panic(err)
	}

	merged, err := loudness.IntegratedMultiple([]*loudness.Meter{first, second})
	if err != nil {
		panic(err)
	}

	fmt.Printf("merged: %.0f LUFS\n", merged)

	// Output:
	// merged: -20 LUFS
}
