package web

import (
	"net/http"
	"sort"
	"time"

	"github.com/umputun/invflow/app/ctrlgroup"
	"github.com/umputun/invflow/app/intent"
	"github.com/umputun/invflow/app/iteration"
	"github.com/umputun/invflow/app/journal"
	"github.com/umputun/invflow/app/project"
)

// APIIterationsResponse is the JSON response for /api/v1/iterations
type APIIterationsResponse struct {
	Iterations []string  `json:"iterations"`
	Timestamp  time.Time `json:"timestamp"`
}

// APIIterationResponse is the JSON response for a single iteration
type APIIterationResponse struct {
	Iteration *iteration.Iteration `json:"iteration"`
	Summary   project.Summary      `json:"summary"`
}

// APIHistoryResponse is the JSON response for journal entries
type APIHistoryResponse struct {
	Iteration string          `json:"iteration,omitempty"`
	Entries   []journal.Entry `json:"entries"`
}

// APIIntentsResponse is the JSON response for interrupted submissions
type APIIntentsResponse struct {
	Intents []intent.Intent `json:"intents"`
}

// APIControlGroupsResponse is the JSON response for the control group ledger
type APIControlGroupsResponse struct {
	ControlGroups ctrlgroup.Ledger `json:"control_groups"`
}

// handleIterations lists names of all iterations
func (s *Server) handleIterations(w http.ResponseWriter, _ *http.Request) {
	names, err := s.project.List()
	if err != nil {
		s.writeErr(w, err)
		return
	}
	sort.Strings(names)
	s.writeJSON(w, http.StatusOK, APIIterationsResponse{Iterations: names, Timestamp: time.Now()})
}

// handleIteration returns the iteration record with job counts
func (s *Server) handleIteration(w http.ResponseWriter, r *http.Request) {
	it, err := s.project.Iteration(r.PathValue("name"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, APIIterationResponse{Iteration: it, Summary: project.Summarize(it)})
}

// handleHistory returns journal entries of one iteration or of all of them
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	entries, err := s.project.History(r.Context(), name)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	s.writeJSON(w, http.StatusOK, APIHistoryResponse{Iteration: name, Entries: entries})
}

// handleIntents lists submissions interrupted before their job was recorded
func (s *Server) handleIntents(w http.ResponseWriter, _ *http.Request) {
	res := s.project.Intents()
	if res == nil {
		res = []intent.Intent{}
	}
	s.writeJSON(w, http.StatusOK, APIIntentsResponse{Intents: res})
}

// handleControlGroups returns the control group ledger
func (s *Server) handleControlGroups(w http.ResponseWriter, _ *http.Request) {
	ledger, err := s.project.ControlGroups()
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if ledger == nil {
		ledger = ctrlgroup.Ledger{}
	}
	s.writeJSON(w, http.StatusOK, APIControlGroupsResponse{ControlGroups: ledger})
}

// handleSweep checks outstanding jobs of the iteration right away
func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	rep, err := s.sweeper.Sweep(r.Context(), r.PathValue("name"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rep)
}
