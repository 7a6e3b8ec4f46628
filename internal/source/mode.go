// internal/source/mode.go
package source

import "strings"

// Mode selects how a Source produces readings.
// Closed set: anything unrecognized behaves as Hardware.
type Mode uint8

const (
	Simulate Mode = iota
	Fixed
	Hardware
)

func (m Mode) String() string {
	switch m {
	case Simulate:
		return "simulate"
	case Fixed:
		return "fixed"
	default:
		return "hardware"
	}
}

// ParseMode maps a configuration string to a Mode.
// Empty means Simulate. known is false when s fell back to Hardware.
func ParseMode(s string) (m Mode, known bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "simulate":
		return Simulate, true
	case "fixed":
		return Fixed, true
	case "hardware":
		return Hardware, true
	default:
		return Hardware, false
	}
}
