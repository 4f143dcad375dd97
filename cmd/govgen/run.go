package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ArtoLabs/GovGen/internal/api"
	"github.com/ArtoLabs/GovGen/internal/conf"
	"github.com/ArtoLabs/GovGen/internal/engine"
	"github.com/ArtoLabs/GovGen/internal/entropy"
	"github.com/ArtoLabs/GovGen/internal/innovation"
	"github.com/ArtoLabs/GovGen/internal/persistence"
	"github.com/ArtoLabs/GovGen/internal/polity"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation with the HTTP command plane",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSimulation()
	},
}

func runSimulation() error {
	slog.Info("GovGen — tribal democratization simulation")

	rng := entropy.NewCrypto()
	if seed := conf.GetSeed(); seed != 0 {
		rng = entropy.New(seed)
		slog.Info("seeded randomness", "seed", seed)
	}

	// ── Database ──────────────────────────────────────────────────────
	dbPath := conf.GetDBPath()
	if dir := filepath.Dir(dbPath); dir != "." {
		os.MkdirAll(dir, 0755)
	}
	db, err := persistence.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	// ── Load or found the tribe ──────────────────────────────────────
	gov := polity.NewGovernment(polity.TribalOffices())
	pool := innovation.NewPool(innovation.Catalog(), conf.GetStartingPoints())

	if db.HasState() {
		slog.Info("found saved polity, loading...")
		players, err := db.LoadPlayers()
		if err != nil {
			return fmt.Errorf("load players: %w", err)
		}
		for _, p := range players {
			gov.AddPlayer(p)
		}
		if err := db.LoadAssignments(gov); err != nil {
			return fmt.Errorf("load assignments: %w", err)
		}
		discovered, err := db.LoadInnovations()
		if err != nil {
			return fmt.Errorf("load innovations: %w", err)
		}
		for _, name := range discovered {
			if err := pool.Grant(name); err != nil {
				slog.Warn("saved innovation no longer in catalog", "name", name)
			}
		}
	} else {
		slog.Info("no saved polity, founding a new tribe")
		for _, p := range polity.FoundingPlayers() {
			gov.AddPlayer(p)
		}
		// The tribe starts with its free foundational discoveries.
		for _, name := range []string{"Fire", "Language", "Tribalism", "Hierarchy", "Symbolism", "Toolmaking"} {
			if err := pool.Grant(name); err != nil {
				return fmt.Errorf("grant starting innovation: %w", err)
			}
		}
	}

	// ── Simulation ────────────────────────────────────────────────────
	sim := engine.NewSimulation(gov, pool, rng)
	if db.HasState() {
		sim.SetYear(db.GetMetaInt("year", 0))
		sim.SetTurnIndex(db.GetMetaInt("turn_index", 0))
		if events, err := db.RecentEvents(1000); err == nil {
			sim.RestoreEvents(events)
		}
	}
	sim.Start()

	eng := engine.NewEngine()
	eng.Interval = conf.GetTurnInterval()
	eng.OnTurn = func() bool {
		err := sim.EndTurn()
		if errors.Is(err, engine.ErrBallotPending) {
			// Turn stays open until the ballot arrives over the API.
			return false
		}
		if err != nil {
			slog.Error("end turn", "error", err)
			return false
		}
		if sim.TurnIndex() == 0 {
			if err := db.SaveState(sim); err != nil {
				slog.Error("yearly save failed", "error", err)
			}
		}
		return true
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	adminKey := conf.GetAdminKey()
	if adminKey == "" {
		slog.Warn("admin key not set — command endpoints will be disabled")
	}
	apiServer := &api.Server{
		Sim:      sim,
		Eng:      eng,
		DB:       db,
		Port:     conf.GetAPIPort(),
		AdminKey: adminKey,
	}
	apiServer.Start()

	// ── Start ─────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	stats := sim.Stats()
	fmt.Printf("\nThe tribe gathers: %d members, year %d, %d innovations discovered.\n",
		stats.Players, stats.Year, stats.Innovations)
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", conf.GetAPIPort())
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run()

	slog.Info("final save...")
	if err := db.SaveState(sim); err != nil {
		slog.Error("final save failed", "error", err)
	}

	fmt.Println("Simulation stopped. Polity state saved.")
	return nil
}
