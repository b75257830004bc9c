package loudness

// ChannelRole describes the semantic position of one channel in the
// input stream. The role determines the channel's weight in the
// BS.1770 energy sum.
type ChannelRole int

const (
	// Unused excludes the channel from measurement (e.g. LFE).
	Unused ChannelRole = iota
	// Left front channel.
	Left
	// Right front channel.
	Right
	// Center front channel.
	Center
	// LeftSurround rear channel (+1.5 dB weighting).
	LeftSurround
	// RightSurround rear channel (+1.5 dB weighting).
	RightSurround
	// DualMono is a single channel counted twice.
	DualMono
)

// Weight returns the BS.1770 energy weight G for the role.
func (r ChannelRole) Weight() float64 {
	switch r {
	case Unused:
		return 0
	case LeftSurround, RightSurround:
		return 1.41
	case DualMono:
		return 2.0
	default:
		return 1.0
	}
}

// String returns a human-readable name for the role.
func (r ChannelRole) String() string {
	switch r {
	case Unused:
		return "Unused"
	case Left:
		return "Left"
	case Right:
		return "Right"
	case Center:
		return "Center"
	case LeftSurround:
		return "LeftSurround"
	case RightSurround:
		return "RightSurround"
	case DualMono:
		return "DualMono"
	default:
		return "Unknown"
	}
}

func (r ChannelRole) valid() bool {
	return r >= Unused && r <= DualMono
}

// defaultChannelMap returns the 5.1-style default layout:
// L, R, C, Unused, Ls, Rs, then Unused for any further channels.
func defaultChannelMap(channels int) []ChannelRole {
	defaults := []ChannelRole{Left, Right, Center, Unused, LeftSurround, RightSurround}

	m := make([]ChannelRole, channels)
	for i := range m {
		if i < len(defaults) {
			m[i] = defaults[i]
		} else {
			m[i] = Unused
		}
	}

	return m
}
