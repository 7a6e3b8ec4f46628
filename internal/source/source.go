// internal/source/source.go
package source

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/tamzrod/vitals-sampler/internal/reading"
)

// Source produces one full reading tuple per call.
// Sample must not block beyond trivial computation.
type Source interface {
	Sample() reading.Tuple
}

// Func adapts a plain function to Source.
type Func func() reading.Tuple

func (f Func) Sample() reading.Tuple { return f() }

// FixedValues holds the raw override strings for Fixed mode.
// nil means "not configured".
type FixedValues struct {
	Temperature *string
	HeartRate   *string
	SpO2        *string
}

// New builds the Source for a mode.
// rng is only used by Simulate; nil seeds from the runtime.
func New(mode Mode, fixed FixedValues, rng *rand.Rand) Source {
	switch mode {
	case Simulate:
		if rng == nil {
			rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
		return &simulator{rng: rng}
	case Fixed:
		return fixedSource{vals: fixed}
	default:
		return hardware{}
	}
}

// ---- SIMULATE ----

// simulator is not safe for concurrent use; the sampling loop owns it.
type simulator struct {
	rng *rand.Rand
}

func (s *simulator) Sample() reading.Tuple {
	temp := 98.6 + (s.rng.Float64()-0.5)*2.0
	hr := 72 + int((s.rng.Float64()-0.5)*18)
	spo2 := 98 + int((s.rng.Float64()-0.5)*3)

	return reading.Tuple{
		Temperature: reading.Of(math.Round(temp*10) / 10),
		HeartRate:   reading.Of(float64(hr)),
		SpO2:        reading.Of(float64(spo2)),
	}
}

// ---- FIXED ----

// fixedSource parses its overrides on every tick.
// Any parse failure discards all three values for that tick.
type fixedSource struct {
	vals FixedValues
}

func (f fixedSource) Sample() reading.Tuple {
	temp, err := parseFloat(f.vals.Temperature)
	if err != nil {
		return reading.Tuple{}
	}
	hr, err := parseInt(f.vals.HeartRate)
	if err != nil {
		return reading.Tuple{}
	}
	spo2, err := parseInt(f.vals.SpO2)
	if err != nil {
		return reading.Tuple{}
	}
	return reading.Tuple{Temperature: temp, HeartRate: hr, SpO2: spo2}
}

func parseFloat(s *string) (reading.Value, error) {
	if s == nil {
		return reading.Absent(), nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
	if err != nil {
		return reading.Absent(), fmt.Errorf("source: bad float %q: %w", *s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return reading.Absent(), fmt.Errorf("source: non-finite float %q", *s)
	}
	return reading.Of(v), nil
}

func parseInt(s *string) (reading.Value, error) {
	if s == nil {
		return reading.Absent(), nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil {
		return reading.Absent(), fmt.Errorf("source: bad integer %q: %w", *s, err)
	}
	return reading.Of(float64(v)), nil
}

// ---- HARDWARE ----

// hardware is the placeholder for a real sensor integration.
type hardware struct{}

func (hardware) Sample() reading.Tuple { return reading.Tuple{} }

// ---- SAFETY ----

// Safe calls src.Sample and converts a panic into an all-absent tuple.
// failed reports whether the call panicked.
func Safe(src Source) (t reading.Tuple, failed bool) {
	defer func() {
		if r := recover(); r != nil {
			t = reading.Tuple{}
			failed = true
		}
	}()
	return src.Sample(), false
}
