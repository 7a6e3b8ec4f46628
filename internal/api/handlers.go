// internal/api/handlers.go
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tamzrod/vitals-sampler/internal/reader"
	"github.com/tamzrod/vitals-sampler/internal/reading"
)

// maxWait bounds caller waits so the duration cannot overflow.
const maxWait = time.Hour

// ---- response shapes ----

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type healthResponse struct {
	OK        bool          `json:"ok"`
	Provider  string        `json:"provider"`
	Sampling  bool          `json:"sampling"`
	Timestamp reading.Value `json:"timestamp"`
}

type heartRateResponse struct {
	HeartRateBPM reading.Value `json:"heart_rate_bpm"`
	Valid        bool          `json:"valid"`
}

type spo2Response struct {
	SpO2Percent reading.Value `json:"spo2_percent"`
	Valid       bool          `json:"valid"`
}

type temperatureResponse struct {
	AmbientTempC reading.Value `json:"ambient_temp_C"`
	Connected    bool          `json:"connected"`
	ObjectTempC  reading.Value `json:"object_temp_C"`
}

type valuesResponse struct {
	Temperature reading.Value `json:"temperature"`
	HeartRate   reading.Value `json:"heartRate"`
	SpO2        reading.Value `json:"spo2"`
	Timestamp   reading.Value `json:"timestamp"`
}

type readAllResponse struct {
	OK     bool           `json:"ok"`
	Values valuesResponse `json:"values"`
}

// ---- handlers ----

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Reader.Latest()
	if err != nil {
		s.unavailable(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		OK:        true,
		Provider:  "raspi",
		Sampling:  true,
		Timestamp: snap.Timestamp(),
	})
}

func (s *Server) handleReadSensor(w http.ResponseWriter, r *http.Request) {
	name, ok := reading.ParseName(strings.TrimSpace(r.PathValue("sensor")))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{OK: false, Error: "unknown sensor"})
		return
	}

	q := r.URL.Query()
	// pin is reserved for a hardware backend; accepted and ignored here.
	if pin, ok := parsePin(q.Get("pin")); ok {
		s.log.Debug("pin ignored by sampler", slog.String("sensor", string(name)), slog.Int("pin", pin))
	}

	snap, err := s.wait(r.Context(), parseWait(q.Get("wait")), reader.Field(name))
	if err != nil {
		s.unavailable(w, r, err)
		return
	}

	v := snap.Get(name)
	switch name {
	case reading.HeartRate:
		writeJSON(w, http.StatusOK, heartRateResponse{HeartRateBPM: v, Valid: v.Present()})
	case reading.SpO2:
		writeJSON(w, http.StatusOK, spo2Response{SpO2Percent: v, Valid: v.Present()})
	case reading.Temperature:
		writeJSON(w, http.StatusOK, temperatureResponse{AmbientTempC: v, Connected: v.Present(), ObjectTempC: v})
	}
}

func (s *Server) handleReadAll(w http.ResponseWriter, r *http.Request) {
	snap, err := s.wait(r.Context(), parseWait(r.URL.Query().Get("wait")), reader.Any())
	if err != nil {
		s.unavailable(w, r, err)
		return
	}

	// One snapshot: all values share the same capture instant.
	writeJSON(w, http.StatusOK, readAllResponse{
		OK: true,
		Values: valuesResponse{
			Temperature: snap.Temperature,
			HeartRate:   snap.HeartRate,
			SpO2:        snap.SpO2,
			Timestamp:   snap.Timestamp(),
		},
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{OK: false, Error: "not found"})
}

// ---- helpers ----

func (s *Server) wait(ctx context.Context, wait time.Duration, pred reader.Predicate) (reading.Snapshot, error) {
	start := time.Now()
	snap, err := s.svc.Reader.WaitFor(ctx, wait, pred)
	if err == nil && s.metrics != nil {
		s.metrics.ObserveWait(time.Since(start), pred(snap.Tuple))
	}
	return snap, err
}

func (s *Server) unavailable(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Warn("sampling unavailable",
		slog.String("request_id", RequestIDFrom(r.Context())),
		slog.Any("error", err),
	)
	writeJSON(w, http.StatusServiceUnavailable, errorResponse{OK: false, Error: "sampling unavailable"})
}

// parseWait reads seconds as a float. Malformed input means 0.
func parseWait(s string) time.Duration {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= maxWait.Seconds() {
		return maxWait
	}
	return time.Duration(f * float64(time.Second))
}

// parsePin reads an integer pin. Malformed input means absent.
func parsePin(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
