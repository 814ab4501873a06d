// Package persistence provides SQLite-based storage for players, their
// current save, medals and an archive of finished games.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/alexandrarotta/microestado/internal/state"
)

// ErrNotFound is returned when a player, save or archive entry is missing.
var ErrNotFound = errors.New("not found")

// DB wraps a SQLite connection.
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
		token TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		medals_json TEXT NOT NULL DEFAULT '[]',
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS saves (
		player_id TEXT PRIMARY KEY REFERENCES players(id),
		state_json TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		version TEXT NOT NULL,
		level INTEGER NOT NULL,
		tick_count INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS archive (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		player_id TEXT NOT NULL,
		archived_at INTEGER NOT NULL,
		reason TEXT NOT NULL,
		country TEXT NOT NULL,
		tick_count INTEGER NOT NULL,
		state_zst BLOB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_archive_player ON archive(player_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Player is an account identified by a bearer token.
type Player struct {
	ID         string `db:"id" json:"id"`
	Token      string `db:"token" json:"token,omitempty"`
	Name       string `db:"name" json:"name"`
	MedalsJSON string `db:"medals_json" json:"-"`
	CreatedAt  int64  `db:"created_at" json:"createdAt"`
}

// Medals decodes the player's medal list.
func (p *Player) Medals() []string {
	var out []string
	if err := json.Unmarshal([]byte(p.MedalsJSON), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

// CreatePlayer registers a new player with a fresh token.
func (db *DB) CreatePlayer(name string) (*Player, error) {
	p := &Player{
		ID:         uuid.NewString(),
		Token:      uuid.NewString(),
		Name:       name,
		MedalsJSON: "[]",
		CreatedAt:  time.Now().UnixMilli(),
	}
	_, err := db.conn.NamedExec(`INSERT INTO players (id, token, name, medals_json, created_at)
		VALUES (:id, :token, :name, :medals_json, :created_at)`, p)
	if err != nil {
		return nil, fmt.Errorf("insert player: %w", err)
	}
	slog.Info("player created", "player", p.ID)
	return p, nil
}

// PlayerByToken resolves a bearer token.
func (db *DB) PlayerByToken(token string) (*Player, error) {
	var p Player
	err := db.conn.Get(&p, "SELECT id, token, name, medals_json, created_at FROM players WHERE token = ?", token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get player: %w", err)
	}
	return &p, nil
}

// Player returns a player by id.
func (db *DB) Player(id string) (*Player, error) {
	var p Player
	err := db.conn.Get(&p, "SELECT id, token, name, medals_json, created_at FROM players WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get player: %w", err)
	}
	return &p, nil
}

// AwardMedals adds medals the player does not hold yet and returns the
// full list.
func (db *DB) AwardMedals(playerID string, medals []string) ([]string, error) {
	tx, err := db.conn.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var raw string
	err = tx.Get(&raw, "SELECT medals_json FROM players WHERE id = ?", playerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get medals: %w", err)
	}
	p := Player{MedalsJSON: raw}
	held := p.Medals()
	changed := false
	for _, m := range medals {
		if !containsString(held, m) {
			held = append(held, m)
			changed = true
		}
	}
	if !changed {
		return held, nil
	}
	out, _ := json.Marshal(held)
	if _, err := tx.Exec("UPDATE players SET medals_json = ? WHERE id = ?", string(out), playerID); err != nil {
		return nil, fmt.Errorf("update medals: %w", err)
	}
	return held, tx.Commit()
}

type saveRow struct {
	PlayerID  string `db:"player_id"`
	StateJSON string `db:"state_json"`
	UpdatedAt int64  `db:"updated_at"`
	Version   string `db:"version"`
	Level     int    `db:"level"`
	TickCount int    `db:"tick_count"`
}

func decodeSave(raw string) (*state.Save, error) {
	var s state.Save
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("decode save: %w", err)
	}
	s.Normalize()
	return &s, nil
}

// LoadSave returns the player's current save.
func (db *DB) LoadSave(playerID string) (*state.Save, error) {
	return loadSave(db.conn, playerID)
}

func loadSave(q sqlx.Queryer, playerID string) (*state.Save, error) {
	var row saveRow
	err := sqlx.Get(q, &row, "SELECT * FROM saves WHERE player_id = ?", playerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get save: %w", err)
	}
	return decodeSave(row.StateJSON)
}

func writeSave(x sqlx.Execer, playerID string, s *state.Save) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode save: %w", err)
	}
	_, err = x.Exec(`INSERT INTO saves (player_id, state_json, updated_at, version, level, tick_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(player_id) DO UPDATE SET
			state_json = excluded.state_json,
			updated_at = excluded.updated_at,
			version = excluded.version,
			level = excluded.level,
			tick_count = excluded.tick_count`,
		playerID, string(raw), s.UpdatedAt.UnixMilli(), s.Version, s.Level, s.TickCount)
	if err != nil {
		return fmt.Errorf("upsert save: %w", err)
	}
	return nil
}

// WriteSave stores s unconditionally. The server uses it for snapshots it
// owns, such as autosaves of live sessions.
func (db *DB) WriteSave(playerID string, s *state.Save) error {
	return writeSave(db.conn, playerID, s)
}

// MergeSave stores incoming unless the stored snapshot is at least as new.
// It returns the snapshot that won and whether it was the incoming one.
func (db *DB) MergeSave(playerID string, incoming *state.Save) (*state.Save, bool, error) {
	tx, err := db.conn.Beginx()
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	stored, err := loadSave(tx, playerID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}
	kept := state.Merge(stored, incoming)
	if kept != incoming {
		slog.Debug("stale save ignored", "player", playerID, "stored", stored.UpdatedAt, "incoming", incoming.UpdatedAt)
		return kept, false, nil
	}
	if err := writeSave(tx, playerID, incoming); err != nil {
		return nil, false, err
	}
	return incoming, true, tx.Commit()
}

// DeleteSave removes the player's current save.
func (db *DB) DeleteSave(playerID string) error {
	_, err := db.conn.Exec("DELETE FROM saves WHERE player_id = ?", playerID)
	return err
}

// SaveMeta stores a key-value pair.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return value, err
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
