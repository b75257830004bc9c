package loudness

import "errors"

var (
	// ErrInvalidMode indicates a query for a measurement whose mode bit
	// was not set at construction.
	ErrInvalidMode = errors.New("loudness: measurement mode not enabled")

	// ErrInvalidChannelIndex indicates a channel index >= Channels().
	ErrInvalidChannelIndex = errors.New("loudness: channel index out of range")

	// ErrInvalidChannelRole indicates a role outside the declared enum.
	ErrInvalidChannelRole = errors.New("loudness: unknown channel role")

	// ErrInvalidChannelCount indicates a channel count below 1.
	ErrInvalidChannelCount = errors.New("loudness: channel count must be at least 1")

	// ErrInvalidSampleRate indicates a sample rate below the K-weighting
	// design floor (kweighting.MinSampleRate).
	ErrInvalidSampleRate = errors.New("loudness: sample rate below minimum")

	// ErrNoChange indicates a reconfiguration with unchanged parameters.
	// The meter state is untouched.
	ErrNoChange = errors.New("loudness: parameters unchanged")

	// ErrUnalignedFrames indicates an input buffer whose length is not a
	// whole number of frames.
	ErrUnalignedFrames = errors.New("loudness: buffer length not a multiple of channel count")
)
