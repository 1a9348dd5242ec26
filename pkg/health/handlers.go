// Package health serves liveness and readiness probes for the streamable
// HTTP transport.
package health

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
)

const (
	StatusOK       = "ok"
	StatusNotReady = "not ready"
)

type Checker interface {
	SetReady(ready bool)
	Ready() bool
	LivenessHandler(w http.ResponseWriter, r *http.Request)
	ReadinessHandler(w http.ResponseWriter, r *http.Request)
}

type checker struct {
	ready atomic.Bool
}

var _ Checker = &checker{}

// NewChecker returns a checker that starts out not ready.
func NewChecker() Checker {
	return &checker{}
}

func (c *checker) SetReady(ready bool) {
	c.ready.Store(ready)
}

func (c *checker) Ready() bool {
	return c.ready.Load()
}

// LivenessHandler answers 200 for as long as the process serves HTTP.
func (c *checker) LivenessHandler(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, http.StatusOK, StatusOK)
}

// ReadinessHandler answers 200 once the MCP handler is mounted and 503
// before that or while shutting down.
func (c *checker) ReadinessHandler(w http.ResponseWriter, _ *http.Request) {
	if c.Ready() {
		writeStatus(w, http.StatusOK, StatusOK)
		return
	}

	writeStatus(w, http.StatusServiceUnavailable, StatusNotReady)
}

// Mount registers both probes on r. Only GET and HEAD are routed.
func Mount(r chi.Router, c Checker, livenessPath, readinessPath string) {
	r.Get(livenessPath, c.LivenessHandler)
	r.Head(livenessPath, c.LivenessHandler)
	r.Get(readinessPath, c.ReadinessHandler)
	r.Head(readinessPath, c.ReadinessHandler)
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
}
