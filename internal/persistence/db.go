// Package persistence provides SQLite-based polity state storage.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/ArtoLabs/GovGen/internal/engine"
	"github.com/ArtoLabs/GovGen/internal/polity"
)

// DB wraps a SQLite connection for polity state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		age INTEGER NOT NULL,
		description TEXT NOT NULL,
		charisma INTEGER NOT NULL,
		intelligence INTEGER NOT NULL,
		strength INTEGER NOT NULL,
		traits_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS assignments (
		office TEXT NOT NULL,
		seat INTEGER NOT NULL,
		player_name TEXT NOT NULL,
		PRIMARY KEY (office, seat)
	);

	CREATE TABLE IF NOT EXISTS innovations (
		name TEXT PRIMARY KEY
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		year INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS polity_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_year ON events(year);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// HasState reports whether a saved polity exists.
func (db *DB) HasState() bool {
	var n int
	if err := db.conn.Get(&n, "SELECT COUNT(*) FROM players"); err != nil {
		return false
	}
	return n > 0
}

// SavePlayers writes all players (full replace).
func (db *DB) SavePlayers(players []*polity.Player) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM players"); err != nil {
		return err
	}

	for _, p := range players {
		traitsJSON, _ := json.Marshal(p.Traits)
		_, err := tx.Exec(`INSERT INTO players
			(id, name, age, description, charisma, intelligence, strength, traits_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID.String(), p.Name, p.Age, p.Description,
			p.Charisma, p.Intelligence, p.Strength, string(traitsJSON),
		)
		if err != nil {
			return fmt.Errorf("insert player %s: %w", p.Name, err)
		}
	}

	return tx.Commit()
}

// LoadPlayers reads all players in name order.
func (db *DB) LoadPlayers() ([]*polity.Player, error) {
	rows, err := db.conn.Queryx("SELECT id, name, age, description, charisma, intelligence, strength, traits_json FROM players ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []*polity.Player
	for rows.Next() {
		var (
			idStr, traitsJSON string
			p                 polity.Player
		)
		if err := rows.Scan(&idStr, &p.Name, &p.Age, &p.Description,
			&p.Charisma, &p.Intelligence, &p.Strength, &traitsJSON); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("player %s id: %w", p.Name, err)
		}
		p.ID = id
		if err := json.Unmarshal([]byte(traitsJSON), &p.Traits); err != nil {
			return nil, fmt.Errorf("player %s traits: %w", p.Name, err)
		}
		players = append(players, &p)
	}
	return players, rows.Err()
}

// SaveAssignments writes the ledger's office holders (full replace).
func (db *DB) SaveAssignments(gov *polity.Government) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM assignments"); err != nil {
		return err
	}

	for office := range gov.Offices() {
		for i, name := range gov.OfficeHolders(office) {
			_, err := tx.Exec(
				"INSERT INTO assignments (office, seat, player_name) VALUES (?, ?, ?)",
				office, i+1, name,
			)
			if err != nil {
				return fmt.Errorf("insert assignment %s/%s: %w", office, name, err)
			}
		}
	}

	return tx.Commit()
}

// LoadAssignments replays saved assignments into the ledger.
func (db *DB) LoadAssignments(gov *polity.Government) error {
	rows, err := db.conn.Queryx("SELECT office, seat, player_name FROM assignments ORDER BY office, seat")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			office, name string
			seat         int
		)
		if err := rows.Scan(&office, &seat, &name); err != nil {
			return err
		}
		if err := gov.Assign(office, seat, name); err != nil {
			return fmt.Errorf("replay assignment %s/%s: %w", office, name, err)
		}
	}
	return rows.Err()
}

// SaveInnovations writes the discovered set (full replace).
func (db *DB) SaveInnovations(discovered []string) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM innovations"); err != nil {
		return err
	}
	for _, name := range discovered {
		if _, err := tx.Exec("INSERT INTO innovations (name) VALUES (?)", name); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadInnovations reads the discovered innovation names.
func (db *DB) LoadInnovations() ([]string, error) {
	var names []string
	err := db.conn.Select(&names, "SELECT name FROM innovations ORDER BY name")
	return names, err
}

// SaveEvents writes the event log (full replace).
func (db *DB) SaveEvents(events []engine.Event) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM events"); err != nil {
		return err
	}
	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (year, description, category) VALUES (?, ?, ?)",
			e.Year, e.Description, e.Category,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RecentEvents returns the most recent N events, oldest first.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT year, description, category FROM (SELECT id, year, description, category FROM events ORDER BY id DESC LIMIT ?) ORDER BY id",
		limit,
	)
	return events, err
}

// SaveMeta stores a key-value pair in polity metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO polity_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM polity_meta WHERE key = ?", key)
	return value, err
}

// GetMetaInt retrieves an integer metadata value, or def when absent.
func (db *DB) GetMetaInt(key string, def int) int {
	v, err := db.GetMeta(key)
	if err != nil {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// SaveState performs a full save of the simulation.
func (db *DB) SaveState(sim *engine.Simulation) error {
	slog.Info("saving polity state",
		"players", len(sim.Government.Players()),
		"year", sim.CurrentYear(),
	)

	if err := db.SavePlayers(sim.Government.Players()); err != nil {
		return fmt.Errorf("save players: %w", err)
	}
	if err := db.SaveAssignments(sim.Government); err != nil {
		return fmt.Errorf("save assignments: %w", err)
	}
	if err := db.SaveInnovations(sim.Pool.Discovered()); err != nil {
		return fmt.Errorf("save innovations: %w", err)
	}
	if err := db.SaveEvents(sim.AllEvents()); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if err := db.SaveMeta("year", strconv.Itoa(sim.CurrentYear())); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	if err := db.SaveMeta("turn_index", strconv.Itoa(sim.TurnIndex())); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	if err := db.SaveMeta("points", strconv.Itoa(sim.Pool.Points())); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	slog.Info("polity state saved")
	return nil
}
