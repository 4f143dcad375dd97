// Package api serves the polity state over HTTP.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (the command plane).
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/ArtoLabs/GovGen/internal/election"
	"github.com/ArtoLabs/GovGen/internal/engine"
	"github.com/ArtoLabs/GovGen/internal/persistence"
)

// Server serves the simulation over HTTP.
type Server struct {
	Sim      *engine.Simulation
	Eng      *engine.Engine
	DB       *persistence.DB
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Public endpoints (GET, read-only).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/players", s.handlePlayers)
	mux.HandleFunc("/api/v1/offices", s.handleOffices)
	mux.HandleFunc("/api/v1/elections", s.handleElections)
	mux.HandleFunc("/api/v1/innovations", s.handleInnovations)
	mux.HandleFunc("/api/v1/events", s.handleEvents)

	// Command endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/nominate", s.adminOnly(s.handleNominate))
	mux.HandleFunc("/api/v1/vote", s.adminOnly(s.handleVote))
	mux.HandleFunc("/api/v1/nominations/start", s.adminOnly(s.handleStartNominations))
	mux.HandleFunc("/api/v1/nominations/close", s.adminOnly(s.handleCloseNominations))
	mux.HandleFunc("/api/v1/appoint", s.adminOnly(s.handleAppoint))
	mux.HandleFunc("/api/v1/research", s.adminOnly(s.handleResearch))
	mux.HandleFunc("/api/v1/end-turn", s.adminOnly(s.handleEndTurn))
	mux.HandleFunc("/api/v1/speed", s.adminOnly(s.handleSpeed))
	mux.HandleFunc("/api/v1/snapshot", s.adminOnly(s.handleSnapshot))

	return mux
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, s.Handler()); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// adminOnly gates POST endpoints behind the bearer admin key.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}
		if s.AdminKey == "" {
			writeError(w, http.StatusForbidden, "command endpoints disabled")
			return
		}
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != s.AdminKey {
			writeError(w, http.StatusUnauthorized, "invalid bearer token")
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// commandStatus maps election errors to HTTP statuses. Everything in
// the taxonomy is recoverable; the caller re-prompts.
func commandStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, election.ErrAuthorizationDenied), errors.Is(err, engine.ErrNotYourTurn):
		return http.StatusForbidden
	default:
		return http.StatusConflict
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	current := s.Sim.CurrentPlayer()
	currentName := ""
	if current != nil {
		currentName = current.Name
	}
	writeJSON(w, map[string]any{
		"stats":          s.Sim.Stats(),
		"current_player": currentName,
		"speed":          s.Eng.Speed(),
	})
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	players := s.Sim.Roster()
	type playerView struct {
		Name    string   `json:"name"`
		Age     int      `json:"age"`
		Offices []string `json:"offices"`
	}
	out := make([]playerView, 0, len(players))
	for _, p := range players {
		offices := s.Sim.PlayerOffices(p.Name)
		sort.Strings(offices)
		out = append(out, playerView{Name: p.Name, Age: p.Age, Offices: offices})
	}
	writeJSON(w, out)
}

func (s *Server) handleOffices(w http.ResponseWriter, r *http.Request) {
	offices := s.Sim.Government.Offices()
	names := make([]string, 0, len(offices))
	for name := range offices {
		names = append(names, name)
	}
	sort.Strings(names)

	type officeView struct {
		Config  any      `json:"config"`
		Holders []string `json:"holders"`
		Queued  []int    `json:"queued_seats,omitempty"`
	}
	out := make([]officeView, 0, len(names))
	for _, name := range names {
		out = append(out, officeView{
			Config:  offices[name],
			Holders: s.Sim.OfficeHolders(name),
			Queued:  s.Sim.QueuedSeats(name),
		})
	}
	writeJSON(w, out)
}

func (s *Server) handleElections(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.ElectionViews())
}

func (s *Server) handleInnovations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Innovations())
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	writeJSON(w, s.Sim.Events(limit))
}

func (s *Server) handleNominate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Office    string `json:"office"`
		Nominator string `json:"nominator"`
		Candidate string `json:"candidate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.Sim.Nominate(req.Office, req.Nominator, req.Candidate); err != nil {
		writeError(w, commandStatus(err), err.Error())
		return
	}
	writeJSON(w, map[string]string{"status": "nominated"})
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Office string   `json:"office"`
		Voter  string   `json:"voter"`
		Ballot []string `json:"ballot"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.Sim.CastBallot(req.Office, req.Voter, election.Ballot(req.Ballot)); err != nil {
		writeError(w, commandStatus(err), err.Error())
		return
	}
	writeJSON(w, map[string]string{"status": "ballot cast"})
}

func (s *Server) handleStartNominations(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Office string `json:"office"`
		Player string `json:"player"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.Sim.StartNominations(req.Office, req.Player); err != nil {
		writeError(w, commandStatus(err), err.Error())
		return
	}
	writeJSON(w, map[string]string{"status": "nominations opened"})
}

func (s *Server) handleCloseNominations(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Office string `json:"office"`
		Player string `json:"player"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.Sim.CloseNominations(req.Office, req.Player); err != nil {
		writeError(w, commandStatus(err), err.Error())
		return
	}
	writeJSON(w, map[string]string{"status": "nominations closed"})
}

func (s *Server) handleAppoint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Office    string `json:"office"`
		Appointer string `json:"appointer"`
		Appointee string `json:"appointee"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.Sim.Appoint(req.Office, req.Appointer, req.Appointee); err != nil {
		writeError(w, commandStatus(err), err.Error())
		return
	}
	writeJSON(w, map[string]string{"status": "appointed"})
}

func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Innovation string `json:"innovation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.Sim.Research(req.Innovation); err != nil {
		writeError(w, commandStatus(err), err.Error())
		return
	}
	writeJSON(w, map[string]string{"status": "queued"})
}

func (s *Server) handleEndTurn(w http.ResponseWriter, r *http.Request) {
	if err := s.Sim.EndTurn(); err != nil {
		writeError(w, commandStatus(err), err.Error())
		return
	}
	current := s.Sim.CurrentPlayer()
	writeJSON(w, map[string]any{
		"status":      "turn ended",
		"next_player": current.Name,
		"year":        s.Sim.CurrentYear(),
	})
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Speed float64 `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Speed < 0 || req.Speed > 100 {
		writeError(w, http.StatusBadRequest, "speed must be in [0, 100]")
		return
	}
	s.Eng.SetSpeed(req.Speed)
	writeJSON(w, map[string]any{"status": "ok", "speed": req.Speed})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence disabled")
		return
	}
	if err := s.DB.SaveState(s.Sim); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, map[string]string{"status": "saved"})
}
