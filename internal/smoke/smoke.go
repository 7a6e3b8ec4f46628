// internal/smoke/smoke.go
package smoke

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBase is where a locally started service listens.
const DefaultBase = "http://127.0.0.1:7000"

// DefaultTimeout bounds each request; the slowest default check waits 5s.
const DefaultTimeout = 10 * time.Second

// Check is one GET against the service.
type Check struct {
	Name string
	Path string
}

// DefaultChecks exercises every read endpoint once.
var DefaultChecks = []Check{
	{Name: "Health check", Path: "/healthz"},
	{Name: "Heart Rate", Path: "/api/read/heartRate?wait=3"},
	{Name: "SpO2", Path: "/api/read/spo2?wait=5"},
	{Name: "Temperature", Path: "/api/read/temperature"},
	{Name: "Max Once", Path: "/api/max/once"},
}

// Result is the outcome of one Check.
type Result struct {
	Check  Check
	Status int
	Body   map[string]any
	Err    error
}

// Runner issues checks sequentially and reports each to Out.
type Runner struct {
	Base   string
	Client *http.Client
	Out    io.Writer
}

// Run executes checks in order. Every check runs even after a failure;
// the returned error joins all failures.
func (r *Runner) Run(ctx context.Context, checks []Check) ([]Result, error) {
	base := strings.TrimRight(r.Base, "/")
	if base == "" {
		base = DefaultBase
	}
	client := r.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	out := r.Out
	if out == nil {
		out = io.Discard
	}

	results := make([]Result, 0, len(checks))
	var errs []error

	for _, c := range checks {
		url := base + c.Path
		fmt.Fprintf(out, "\nTesting %s: %s\n", c.Name, url)

		res := r.one(ctx, client, c, url)
		results = append(results, res)

		if res.Err != nil {
			fmt.Fprintf(out, "Error: %v\n", res.Err)
			errs = append(errs, fmt.Errorf("%s: %w", c.Name, res.Err))
			continue
		}
		fmt.Fprintf(out, "Status: %d\n", res.Status)
		pretty, _ := json.MarshalIndent(res.Body, "", "  ")
		fmt.Fprintf(out, "Response: %s\n", pretty)
	}
	return results, errors.Join(errs...)
}

func (r *Runner) one(ctx context.Context, client *http.Client, c Check, url string) Result {
	res := Result{Check: c}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		res.Err = err
		return res
	}
	resp, err := client.Do(req)
	if err != nil {
		res.Err = err
		return res
	}
	defer resp.Body.Close()

	res.Status = resp.StatusCode
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		res.Err = err
		return res
	}
	if err := json.Unmarshal(b, &res.Body); err != nil {
		res.Err = fmt.Errorf("decode response: %w", err)
		return res
	}
	if resp.StatusCode != http.StatusOK {
		res.Err = fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return res
}
