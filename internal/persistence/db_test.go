package persistence

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandrarotta/microestado/internal/state"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testSave(updated time.Time, treasury float64) *state.Save {
	s := &state.Save{
		Country:   state.Country{FormalName: "Republica de Prueba"},
		Treasury:  treasury,
		TickCount: 12,
		UpdatedAt: updated,
	}
	s.Normalize()
	return s
}

func TestPlayers(t *testing.T) {
	db := openTestDB(t)

	p, err := db.CreatePlayer("ana")
	require.NoError(t, err)
	assert.NotEmpty(t, p.Token)

	got, err := db.PlayerByToken(p.Token)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Empty(t, got.Medals())

	_, err = db.PlayerByToken("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMedalsAreAwardedOnce(t *testing.T) {
	db := openTestDB(t)
	p, err := db.CreatePlayer("ana")
	require.NoError(t, err)

	medals, err := db.AwardMedals(p.ID, []string{"REELECTION_L2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"REELECTION_L2"}, medals)

	medals, err = db.AwardMedals(p.ID, []string{"REELECTION_L2", "LEVEL1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"REELECTION_L2", "LEVEL1"}, medals)

	got, err := db.Player(p.ID)
	require.NoError(t, err)
	assert.Equal(t, medals, got.Medals())

	_, err = db.AwardMedals("missing", []string{"X"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMergeSaveLastWriteWins(t *testing.T) {
	db := openTestDB(t)
	p, err := db.CreatePlayer("ana")
	require.NoError(t, err)

	_, err = db.LoadSave(p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	kept, accepted, err := db.MergeSave(p.ID, testSave(t0, 100))
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, 100.0, kept.Treasury)

	// Older snapshot loses.
	kept, accepted, err = db.MergeSave(p.ID, testSave(t0.Add(-time.Minute), 5))
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.Equal(t, 100.0, kept.Treasury)

	// Ties keep the stored snapshot.
	_, accepted, err = db.MergeSave(p.ID, testSave(t0, 7))
	require.NoError(t, err)
	assert.False(t, accepted)

	_, accepted, err = db.MergeSave(p.ID, testSave(t0.Add(time.Minute), 300))
	require.NoError(t, err)
	assert.True(t, accepted)

	got, err := db.LoadSave(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 300.0, got.Treasury)
	assert.True(t, got.UpdatedAt.Equal(t0.Add(time.Minute)))
}

func TestArchive(t *testing.T) {
	db := openTestDB(t)
	p, err := db.CreatePlayer("ana")
	require.NoError(t, err)

	s := testSave(time.Now(), 42)
	s.Publish("Un dia tranquilo.", state.NewsSystem, state.SeverityOK)
	id, err := db.Archive(p.ID, s, "reset")
	require.NoError(t, err)

	list, err := db.ArchivedGames(p.ID, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "reset", list[0].Reason)
	assert.Equal(t, "Republica de Prueba", list[0].Country)
	assert.Equal(t, 12, list[0].TickCount)

	got, err := db.LoadArchived(p.ID, id)
	require.NoError(t, err)
	assert.Equal(t, 42.0, got.Treasury)
	require.Len(t, got.News, 1)
	assert.Equal(t, "Un dia tranquilo.", got.News[0].Text)

	_, err = db.LoadArchived("someone-else", id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMeta(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.SaveMeta("catalog_version", "abc"))
	v, err := db.GetMeta("catalog_version")
	require.NoError(t, err)
	assert.Equal(t, "abc", v)

	_, err = db.GetMeta("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
