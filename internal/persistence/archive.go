package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/alexandrarotta/microestado/internal/state"
)

// Archived is the listing entry of an archived game.
type Archived struct {
	ID         int64  `db:"id" json:"id"`
	PlayerID   string `db:"player_id" json:"playerId"`
	ArchivedAt int64  `db:"archived_at" json:"archivedAt"`
	Reason     string `db:"reason" json:"reason"`
	Country    string `db:"country" json:"country"`
	TickCount  int    `db:"tick_count" json:"tickCount"`
}

var (
	codecOnce sync.Once
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
	codecErr  error
)

// codec returns the shared zstd encoder and decoder. Both are safe for
// concurrent EncodeAll/DecodeAll calls.
func codec() (*zstd.Encoder, *zstd.Decoder, error) {
	codecOnce.Do(func() {
		encoder, codecErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if codecErr != nil {
			return
		}
		decoder, codecErr = zstd.NewReader(nil)
	})
	return encoder, decoder, codecErr
}

// Archive stores a compressed copy of a finished or abandoned game.
func (db *DB) Archive(playerID string, s *state.Save, reason string) (int64, error) {
	enc, _, err := codec()
	if err != nil {
		return 0, fmt.Errorf("zstd: %w", err)
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return 0, fmt.Errorf("encode save: %w", err)
	}
	blob := enc.EncodeAll(raw, make([]byte, 0, len(raw)/4))

	res, err := db.conn.Exec(`INSERT INTO archive (player_id, archived_at, reason, country, tick_count, state_zst)
		VALUES (?, ?, ?, ?, ?, ?)`,
		playerID, time.Now().UnixMilli(), reason, s.Country.FormalName, s.TickCount, blob)
	if err != nil {
		return 0, fmt.Errorf("insert archive: %w", err)
	}
	return res.LastInsertId()
}

// ArchivedGames lists a player's archive, newest first.
func (db *DB) ArchivedGames(playerID string, limit int) ([]Archived, error) {
	var out []Archived
	err := db.conn.Select(&out,
		`SELECT id, player_id, archived_at, reason, country, tick_count
		FROM archive WHERE player_id = ? ORDER BY id DESC LIMIT ?`,
		playerID, limit,
	)
	return out, err
}

// LoadArchived decompresses one archived save of the player.
func (db *DB) LoadArchived(playerID string, id int64) (*state.Save, error) {
	_, dec, err := codec()
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	var blob []byte
	err = db.conn.Get(&blob, "SELECT state_zst FROM archive WHERE id = ? AND player_id = ?", id, playerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get archive: %w", err)
	}
	raw, err := dec.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return decodeSave(string(raw))
}
