// internal/mirror/encode.go
package mirror

import (
	"math"

	"github.com/tamzrod/vitals-sampler/internal/reading"
)

// Readings block layout. Protocol-locked.
const (
	SlotValidMask   = 0 // bit0 temperature, bit1 heart rate, bit2 spo2
	SlotTemperature = 1 // temperature x10
	SlotHeartRate   = 2
	SlotSpO2        = 3
	SlotEpochHi     = 4 // capture instant, unix seconds, big-endian
	SlotEpochLo     = 5

	SlotsPerReadings = 6
)

const (
	validTemperature uint16 = 1 << 0
	validHeartRate   uint16 = 1 << 1
	validSpO2        uint16 = 1 << 2
)

// EncodeReadings converts a snapshot into the readings block.
// Absent values are written as 0 with their valid bit cleared.
// No IO. No side effects.
func EncodeReadings(s reading.Snapshot) []uint16 {
	regs := make([]uint16, SlotsPerReadings)

	if v, ok := s.Temperature.Get(); ok {
		regs[SlotValidMask] |= validTemperature
		regs[SlotTemperature] = clampU16(v * 10)
	}
	if v, ok := s.HeartRate.Get(); ok {
		regs[SlotValidMask] |= validHeartRate
		regs[SlotHeartRate] = clampU16(v)
	}
	if v, ok := s.SpO2.Get(); ok {
		regs[SlotValidMask] |= validSpO2
		regs[SlotSpO2] = clampU16(v)
	}

	if s.Sampled() {
		sec := s.At.Unix()
		if sec < 0 {
			sec = 0
		}
		u := uint32(sec)
		regs[SlotEpochHi] = uint16(u >> 16)
		regs[SlotEpochLo] = uint16(u)
	}

	return regs
}

func clampU16(v float64) uint16 {
	v = math.Round(v)
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= math.MaxUint16:
		return math.MaxUint16
	}
	return uint16(v)
}
