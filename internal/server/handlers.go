package server

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/katalvlaran/citytwin/bfs"
	"github.com/katalvlaran/citytwin/core"
	"github.com/katalvlaran/citytwin/dijkstra"
	"github.com/katalvlaran/citytwin/interpret"
	"github.com/katalvlaran/citytwin/policy"
	"github.com/katalvlaran/citytwin/twin"
)

// edgeView is the JSON form of an edge. JSON has no infinity, so the
// weight of an impassable edge is null.
type edgeView struct {
	ID            string   `json:"id"`
	Source        string   `json:"source"`
	Target        string   `json:"target"`
	Capacity      float64  `json:"capacity"`
	CurrentFlow   float64  `json:"currentFlow"`
	BaseWeight    float64  `json:"baseWeight"`
	CurrentWeight *float64 `json:"currentWeight"`
	Utilization   *float64 `json:"utilization"`
	Closed        bool     `json:"isClosed"`
	SpeedLimit    float64  `json:"speedLimit"`
	Tags          []string `json:"tags,omitempty"`
}

type graphView struct {
	Nodes []core.Node `json:"nodes"`
	Edges []edgeView  `json:"edges"`
}

func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

func viewGraph(g *core.Graph) graphView {
	edges := g.Edges()
	out := graphView{Nodes: g.Nodes(), Edges: make([]edgeView, len(edges))}
	for i, e := range edges {
		out.Edges[i] = edgeView{
			ID:            e.ID,
			Source:        e.Source,
			Target:        e.Target,
			Capacity:      e.Capacity,
			CurrentFlow:   e.CurrentFlow,
			BaseWeight:    e.BaseWeight,
			CurrentWeight: finite(e.CurrentWeight),
			Utilization:   finite(e.Utilization()),
			Closed:        e.Closed,
			SpeedLimit:    e.SpeedLimit,
			Tags:          e.Tags,
		}
	}
	return out
}

func (s *Server) handleGraph(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, viewGraph(s.session.Graph()))
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Latest())
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.session.History())
}

type stateView struct {
	ID    string     `json:"id"`
	State twin.State `json:"state"`
	Ticks uint64     `json:"ticks"`
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, stateView{ID: s.session.ID(), State: s.session.State(), Ticks: s.session.Ticks()})
}

func (s *Server) handleTick(w http.ResponseWriter, _ *http.Request) {
	snap, err := s.session.Tick()
	if err != nil {
		s.logger.Printf("server: tick: %v", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handlePolicies(w http.ResponseWriter, r *http.Request) {
	records, err := policy.ParseRecords(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	b, err := s.session.ApplyPolicy(records...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

type interpretRequest struct {
	Text string `json:"text"`
}

type interpretResponse struct {
	Interpretation interpret.Interpretation `json:"interpretation"`
	Batch          twin.Batch               `json:"batch"`
}

func (s *Server) handleInterpret(w http.ResponseWriter, r *http.Request) {
	var req interpretRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, errMissingText)
		return
	}

	in, b, err := s.session.Submit(r.Context(), req.Text)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, interpretResponse{Interpretation: in, Batch: b})
	case errors.Is(err, interpret.ErrEmptyInput):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, interpret.ErrUpstream), errors.Is(err, interpret.ErrMalformedResponse):
		s.logger.Printf("server: interpret: %v", err)
		writeError(w, http.StatusBadGateway, err)
	default:
		s.logger.Printf("server: interpret: %v", err)
		writeError(w, http.StatusInternalServerError, err)
	}
}

type recommendationView struct {
	Recommendation string `json:"recommendation"`
}

func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	text, err := s.session.Recommend(r.Context())
	if err != nil {
		s.logger.Printf("server: recommend: %v", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, recommendationView{Recommendation: text})
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.session.Reset()
	writeJSON(w, http.StatusOK, s.session.Latest())
}

type routeView struct {
	From    string   `json:"from"`
	To      string   `json:"to"`
	Path    []string `json:"path"`
	Cost    float64  `json:"cost"`
	Reached bool     `json:"reached"`
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	from, to := vars["from"], vars["to"]

	g := s.session.Graph()
	path, err := dijkstra.ShortestPath(g, from, to)
	switch {
	case errors.Is(err, dijkstra.ErrVertexNotFound), errors.Is(err, dijkstra.ErrEmptySource):
		writeError(w, http.StatusNotFound, err)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	cost, err := dijkstra.PathCost(g, path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, routeView{
		From:    from,
		To:      to,
		Path:    path,
		Cost:    cost,
		Reached: len(path) > 0 || from == to,
	})
}

type reachView struct {
	From      string         `json:"from"`
	Reachable int            `json:"reachable"`
	Depth     map[string]int `json:"depth"`
	Unreached []string       `json:"unreached"`
}

func (s *Server) handleReach(w http.ResponseWriter, r *http.Request) {
	from := mux.Vars(r)["from"]

	g := s.session.Graph()
	res, err := bfs.BFS(g, from, bfs.WithContext(r.Context()))
	switch {
	case errors.Is(err, bfs.ErrStartNodeNotFound):
		writeError(w, http.StatusNotFound, err)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, reachView{
		From:      from,
		Reachable: len(res.Order),
		Depth:     res.Depth,
		Unreached: res.Unreached(g),
	})
}
