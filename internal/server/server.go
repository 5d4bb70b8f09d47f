// Package server exposes a twin.Session over a JSON HTTP API.
//
//	GET  /api/graph            current snapshot (closed edges carry a null weight)
//	GET  /api/metrics          latest metrics with active policies
//	GET  /api/history          retained metric points
//	GET  /api/state            session id, state and tick count
//	POST /api/tick             advance one tick
//	POST /api/policies         apply records (JSON/YAML list or {"actions": [...]})
//	POST /api/interpret        {"text": "..."} interpreted and applied
//	GET  /api/recommendation   advisory text for the latest metrics
//	POST /api/reset            restore the initial graph
//	GET  /api/route?from=&to=  least-cost path on the current snapshot
//	GET  /api/reach?from=      intersections reachable from a node over passable roads
//	GET  /metrics              Prometheus exposition
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/katalvlaran/citytwin/twin"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Server holds the HTTP handlers of one session.
type Server struct {
	session  *twin.Session
	gatherer prometheus.Gatherer
	logger   *log.Logger
}

// New returns a Server for session. A nil gatherer disables /metrics; a
// nil logger uses log.Default().
func New(session *twin.Session, gatherer prometheus.Gatherer, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{session: session, gatherer: gatherer, logger: logger}
}

// RegisterRoutes mounts the API on router.
func (s *Server) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/graph", s.handleGraph).Methods(http.MethodGet)
	api.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet)
	api.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	api.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	api.HandleFunc("/tick", s.handleTick).Methods(http.MethodPost)
	api.HandleFunc("/policies", s.handlePolicies).Methods(http.MethodPost)
	api.HandleFunc("/interpret", s.handleInterpret).Methods(http.MethodPost)
	api.HandleFunc("/recommendation", s.handleRecommendation).Methods(http.MethodGet)
	api.HandleFunc("/reset", s.handleReset).Methods(http.MethodPost)
	api.HandleFunc("/route", s.handleRoute).Methods(http.MethodGet).Queries("from", "{from}", "to", "{to}")
	api.HandleFunc("/reach", s.handleReach).Methods(http.MethodGet).Queries("from", "{from}")

	if s.gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
}

// Router returns a new router with every route and request logging.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	s.RegisterRoutes(r)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Printf("server: %s %s (%s)", r.Method, r.URL.Path, time.Since(start).Round(time.Microsecond))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error()})
}

var errMissingText = errors.New("server: text is required")
