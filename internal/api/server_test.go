package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArtoLabs/GovGen/internal/election"
	"github.com/ArtoLabs/GovGen/internal/engine"
	"github.com/ArtoLabs/GovGen/internal/entropy"
	"github.com/ArtoLabs/GovGen/internal/innovation"
	"github.com/ArtoLabs/GovGen/internal/polity"
)

func testServer(t *testing.T) (*Server, *engine.Simulation) {
	t.Helper()
	offices := map[string]polity.OfficeConfig{
		"Elder": {
			Name:               "Elder",
			MaxHolders:         1,
			Selection:          polity.SelectVoting,
			VotingSystem:       polity.FirstPastThePost,
			NominationMethod:   polity.NominateOpen,
			NominationControl:  polity.ControlTimeBased,
			NominationDuration: 1,
		},
		"Scribe": {
			Name:       "Scribe",
			MaxHolders: 1,
			Selection:  polity.SelectAppointment,
			Appointer:  polity.Anyone,
		},
	}
	gov := polity.NewGovernment(offices)
	for _, n := range []string{"Alice", "Bob", "Cleo"} {
		gov.AddPlayer(polity.NewPlayer(n, 30, "", 5, 5, 5))
	}
	pool := innovation.NewPool(innovation.Catalog(), 0)
	sim := engine.NewSimulation(gov, pool, entropy.New(4))
	sim.Start()

	srv := &Server{
		Sim:      sim,
		Eng:      engine.NewEngine(),
		AdminKey: "sekrit",
	}
	return srv, sim
}

func doRequest(t *testing.T, srv *Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestStatusEndpoint(t *testing.T) {
	srv, _ := testServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/api/v1/status", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Stats         engine.SimStats `json:"stats"`
		CurrentPlayer string          `json:"current_player"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Alice", resp.CurrentPlayer)
	assert.Equal(t, 3, resp.Stats.Players)
	assert.Equal(t, 1, resp.Stats.LiveElections)
}

func TestElectionsEndpoint(t *testing.T) {
	srv, _ := testServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/api/v1/elections", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var views []election.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "Elder", views[0].Office)
	assert.Equal(t, "nomination_open", views[0].Phase)
}

func TestCommandsRequireBearerToken(t *testing.T) {
	srv, _ := testServer(t)
	body := `{"office":"Elder","nominator":"Alice","candidate":"Bob"}`

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/nominate", "sekrit", body)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/api/v1/nominate", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/api/v1/nominate", "wrong", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/api/v1/nominate", "sekrit", body)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCommandsDisabledWithoutAdminKey(t *testing.T) {
	srv, _ := testServer(t)
	srv.AdminKey = ""
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/end-turn", "anything", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCommandErrorMapping(t *testing.T) {
	srv, _ := testServer(t)

	// Not the turn-holder: forbidden.
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/nominate", "sekrit",
		`{"office":"Elder","nominator":"Bob","candidate":"Cleo"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// No active vote to join: conflict.
	rec = doRequest(t, srv, http.MethodPost, "/api/v1/vote", "sekrit",
		`{"office":"Elder","voter":"Alice","ballot":["Bob"]}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Garbage body: bad request.
	rec = doRequest(t, srv, http.MethodPost, "/api/v1/vote", "sekrit", "{nope")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAppointEndpoint(t *testing.T) {
	srv, sim := testServer(t)

	// Only the turn-holder may appoint.
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/appoint", "sekrit",
		`{"office":"Scribe","appointer":"Bob","appointee":"Cleo"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/api/v1/appoint", "sekrit",
		`{"office":"Scribe","appointer":"Alice","appointee":"Cleo"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, sim.PlayerOffices("Cleo"), "Scribe")

	// The single seat is now taken.
	rec = doRequest(t, srv, http.MethodPost, "/api/v1/appoint", "sekrit",
		`{"office":"Scribe","appointer":"Alice","appointee":"Bob"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestReadsStaySafeWhileTurnsAdvance(t *testing.T) {
	srv, sim := testServer(t)
	handler := srv.Handler()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			_ = sim.EndTurn()
		}
	}()

	paths := []string{
		"/api/v1/status",
		"/api/v1/players",
		"/api/v1/offices",
		"/api/v1/innovations",
		"/api/v1/elections",
	}
	for i := 0; i < 40; i++ {
		for _, path := range paths {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code, path)
		}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/speed", strings.NewReader(`{"speed":2}`))
		req.Header.Set("Authorization", "Bearer sekrit")
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	<-done

	assert.Equal(t, 3, sim.Stats().Players)
}

func TestEndTurnAdvancesRotation(t *testing.T) {
	srv, sim := testServer(t)
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/end-turn", "sekrit", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		NextPlayer string `json:"next_player"`
		Year       int    `json:"year"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Bob", resp.NextPlayer)
	assert.Equal(t, 0, resp.Year)
	assert.Equal(t, "Bob", sim.CurrentPlayer().Name)
}

func TestSpeedValidation(t *testing.T) {
	srv, _ := testServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/speed", "sekrit", `{"speed":12}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 12.0, srv.Eng.Speed())

	rec = doRequest(t, srv, http.MethodPost, "/api/v1/speed", "sekrit", `{"speed":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/api/v1/snapshot", "sekrit", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "no database wired")
}

func TestResearchEndpoint(t *testing.T) {
	srv, sim := testServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/research", "sekrit", `{"innovation":"Fire"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Fire"}, sim.Pool.Queue())

	rec = doRequest(t, srv, http.MethodPost, "/api/v1/research", "sekrit", `{"innovation":"Alchemy"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
