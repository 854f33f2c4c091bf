// Package band classifies Wi-Fi channels into frequency bands.
package band

// FiveGHzMinChannel is the lowest channel number allocated to the 5GHz band.
// Every 2.4GHz channel (1-14) sits below it.
const FiveGHzMinChannel = 36

// Band is a coarse frequency classification derived from a channel number
type Band int

const (
	Unknown Band = iota
	TwoPointFourGHz
	FiveGHz
)

// Classify maps a channel number to its band. Channel 0 means the driver did
// not report one.
func Classify(channel int) Band {
	switch {
	case channel >= FiveGHzMinChannel:
		return FiveGHz
	case channel > 0:
		return TwoPointFourGHz
	default:
		return Unknown
	}
}

// IsFiveGHz reports whether channel belongs to the 5GHz band.
func IsFiveGHz(channel int) bool {
	return Classify(channel) == FiveGHz
}

func (b Band) String() string {
	switch b {
	case FiveGHz:
		return "5GHz"
	case TwoPointFourGHz:
		return "2.4GHz"
	default:
		return "unknown"
	}
}
