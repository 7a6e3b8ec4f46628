// internal/api/maxonce.go
package api

import (
	"net/http"
	"time"

	"github.com/tamzrod/vitals-sampler/internal/reading"
)

// Fixed fields expected by the downstream pulse-oximeter consumer.
// They carry no computed meaning here.
const (
	absentSentinel = -999

	qualityIRRatio    = 0.027993735624050352
	qualityRedRatio   = 0.031982853867433145
	qualityTol        = 10
	qualityWinSamples = 300

	reasonValid   = "algorithm_valid"
	reasonInvalid = "algorithm_invalid"
)

var qualityLimits = [2]float64{0.005, 3.0}

type quality struct {
	AlgoValid  bool          `json:"algo_valid"`
	GateOK     bool          `json:"gate_ok"`
	HREMA      reading.Value `json:"hr_ema"`
	HRRaw      float64       `json:"hr_raw"`
	HRRecent   []float64     `json:"hr_recent"`
	IRRatio    float64       `json:"ir_ratio"`
	Limits     [2]float64    `json:"limits"`
	Reason     string        `json:"reason"`
	RedRatio   float64       `json:"red_ratio"`
	SpO2Raw    float64       `json:"spo2_raw"`
	Stable     bool          `json:"stable"`
	Tol        int           `json:"tol"`
	WinSamples int           `json:"win_samples"`
}

type maxOnceResponse struct {
	HeartRate    reading.Value `json:"heart_rate"`
	HeartRateAvg reading.Value `json:"heart_rate_avg"`
	Quality      quality       `json:"quality"`
	SpO2         reading.Value `json:"spo2"`
	SpO2Avg      reading.Value `json:"spo2_avg"`
}

// buildMaxOnce derives the diagnostic object from one snapshot.
func buildMaxOnce(t reading.Tuple) maxOnceResponse {
	hr, sp := t.HeartRate, t.SpO2
	valid := hr.Present() && sp.Present()

	recent := []float64{}
	if v, ok := hr.Get(); ok {
		recent = append(recent, v)
	}

	reason := reasonInvalid
	if valid {
		reason = reasonValid
	}

	return maxOnceResponse{
		HeartRate:    hr,
		HeartRateAvg: hr,
		SpO2:         sp,
		SpO2Avg:      sp,
		Quality: quality{
			AlgoValid:  valid,
			GateOK:     true,
			HREMA:      hr,
			HRRaw:      hr.Or(absentSentinel),
			HRRecent:   recent,
			IRRatio:    qualityIRRatio,
			Limits:     qualityLimits,
			Reason:     reason,
			RedRatio:   qualityRedRatio,
			SpO2Raw:    sp.Or(absentSentinel),
			Stable:     valid,
			Tol:        qualityTol,
			WinSamples: qualityWinSamples,
		},
	}
}

func (s *Server) handleMaxOnce(w http.ResponseWriter, r *http.Request) {
	if _, err := s.svc.Reader.Latest(); err != nil {
		s.unavailable(w, r, err)
		return
	}

	// Settle is unconditional; a client that goes away only cuts it short.
	t := time.NewTimer(s.settle)
	select {
	case <-t.C:
	case <-r.Context().Done():
		t.Stop()
	}

	writeJSON(w, http.StatusOK, buildMaxOnce(s.svc.Cache.Read().Tuple))
}
