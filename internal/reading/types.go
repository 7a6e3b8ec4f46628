// internal/reading/types.go
package reading

import (
	"encoding/json"
	"time"
)

// Name identifies one measurement category.
type Name string

const (
	Temperature Name = "temperature"
	HeartRate   Name = "heartRate"
	SpO2        Name = "spo2"
)

// Names lists every supported reading in wire order.
var Names = []Name{Temperature, HeartRate, SpO2}

// ParseName validates a sensor name. Names are case-sensitive.
func ParseName(s string) (Name, bool) {
	switch Name(s) {
	case Temperature, HeartRate, SpO2:
		return Name(s), true
	}
	return "", false
}

// Value is either absent or holds exactly one number.
// The zero Value is absent.
type Value struct {
	v  float64
	ok bool
}

// Of returns a present Value.
func Of(v float64) Value { return Value{v: v, ok: true} }

// Absent returns the absent Value.
func Absent() Value { return Value{} }

// Get returns the number and whether it is present.
func (v Value) Get() (float64, bool) { return v.v, v.ok }

// Present reports whether the value holds a number.
func (v Value) Present() bool { return v.ok }

// Or returns the number, or def when absent.
func (v Value) Or(def float64) float64 {
	if !v.ok {
		return def
	}
	return v.v
}

// MarshalJSON encodes an absent value as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.ok {
		return []byte("null"), nil
	}
	return json.Marshal(v.v)
}

// Tuple is the output of one sampling tick.
type Tuple struct {
	Temperature Value
	HeartRate   Value
	SpO2        Value
}

// Get returns the value for a reading name.
func (t Tuple) Get(n Name) Value {
	switch n {
	case Temperature:
		return t.Temperature
	case HeartRate:
		return t.HeartRate
	case SpO2:
		return t.SpO2
	}
	return Absent()
}

// AnyPresent reports whether at least one reading holds a number.
func (t Tuple) AnyPresent() bool {
	return t.Temperature.ok || t.HeartRate.ok || t.SpO2.ok
}

// Snapshot is a Tuple plus the instant it was captured.
// A zero At means nothing has been sampled yet.
type Snapshot struct {
	Tuple
	At time.Time
}

// Sampled reports whether the snapshot came from a tick.
func (s Snapshot) Sampled() bool { return !s.At.IsZero() }

// Timestamp returns the capture instant as epoch seconds, absent if never sampled.
func (s Snapshot) Timestamp() Value {
	if s.At.IsZero() {
		return Absent()
	}
	return Of(float64(s.At.UnixNano()) / 1e9)
}

// Tick is one sampling loop iteration as seen by downstream consumers.
type Tick struct {
	Snapshot
	// Failed is set when the source failed and the tuple was blanked.
	Failed bool
}
