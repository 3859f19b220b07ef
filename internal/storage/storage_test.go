package storage

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubesim"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenMigrates(t *testing.T) {
	db := openTestDB(t)
	v, err := db.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	// Running again is a no-op.
	require.NoError(t, db.MigrateUp())
	v, err = db.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestTransactionCommitsOrRollsBack(t *testing.T) {
	db := openTestDB(t)
	boom := errors.New("boom")
	hasTable := func(name string) bool {
		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE name = ?`, name).Scan(&n))
		return n == 1
	}

	err := db.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`CREATE TABLE scratch (x INTEGER)`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, hasTable("scratch"))

	require.NoError(t, db.Transaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(`CREATE TABLE scratch (x INTEGER)`)
		return err
	}))
	assert.True(t, hasTable("scratch"))
}

func TestDefaultDBPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	p, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".cubesim", "cubesim.db"), p)
}

func TestSessionLifecycle(t *testing.T) {
	db := openTestDB(t)
	repo := NewSessionRepository(db)

	id, err := repo.Create("mirror", "GoCube_1234")
	require.NoError(t, err)

	s, err := repo.Get(id[:8])
	require.NoError(t, err)
	assert.Equal(t, id, s.SessionID)
	assert.Equal(t, "mirror", s.Mode)
	require.NotNil(t, s.DeviceName)
	assert.Equal(t, "GoCube_1234", *s.DeviceName)
	assert.Nil(t, s.EndedAt)

	require.NoError(t, repo.End(id))
	s, err = repo.Get(id)
	require.NoError(t, err)
	require.NotNil(t, s.EndedAt)
	assert.GreaterOrEqual(t, s.Duration().Nanoseconds(), int64(0))

	assert.ErrorIs(t, repo.End(id), ErrSessionNotFound)
	_, err = repo.Get("no-such-session")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestJournalRecordsEngineTurns(t *testing.T) {
	db := openTestDB(t)
	j, err := StartJournal(db, "turn", "")
	require.NoError(t, err)

	e := cubesim.New()
	e.OnTurn(j.RecordTurn)
	e.OnSequenceComplete(j.RecordSequence)
	require.NoError(t, e.RequestSequence(cubesim.SexyMove))
	for e.Shuffling() || e.Animating() {
		e.Update()
	}
	require.NoError(t, j.Close())

	turns, err := NewTurnRepository(db).GetBySession(j.SessionID())
	require.NoError(t, err)
	require.Len(t, turns, 4)
	notation := make([]string, len(turns))
	for i, tr := range turns {
		assert.Equal(t, i, tr.Seq)
		assert.Equal(t, "sequence", tr.Source)
		notation[i] = tr.Notation
	}
	assert.Equal(t, []string{"R", "U", "R'", "U'"}, notation)
	assert.Equal(t, cubesim.R.Turns()[0], turns[0].Turn())

	seqs, err := NewTurnRepository(db).GetSequences(j.SessionID())
	require.NoError(t, err)
	require.Len(t, seqs, 1)
	assert.Equal(t, "R U R' U'", seqs[0].Notation)
	assert.Equal(t, 4, seqs[0].TurnCount)

	s, err := NewSessionRepository(db).Get(j.SessionID())
	require.NoError(t, err)
	assert.Equal(t, 4, s.TurnCount)
	assert.Equal(t, 1, s.SequenceCount)
}

func TestListNewestFirst(t *testing.T) {
	db := openTestDB(t)
	repo := NewSessionRepository(db)
	first, err := repo.Create("play", "")
	require.NoError(t, err)
	second, err := repo.Create("shuffle", "")
	require.NoError(t, err)

	list, err := repo.List(10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0].SessionID)
	assert.Equal(t, first, list[1].SessionID)
}
