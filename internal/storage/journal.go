package storage

import (
	"time"

	"fortio.org/log"

	"github.com/SeamusWaldron/cubesim"
)

// Journal records one session's turns as the engine commits them.
type Journal struct {
	sessions  *SessionRepository
	turns     *TurnRepository
	sessionID string
	seq       int
	now       func() time.Time
}

// StartJournal opens a new session in db.
func StartJournal(db *DB, mode, deviceName string) (*Journal, error) {
	sessions := NewSessionRepository(db)
	id, err := sessions.Create(mode, deviceName)
	if err != nil {
		return nil, err
	}
	log.S(log.Info, "journal session started", log.Str("session", id), log.Str("mode", mode))
	return &Journal{
		sessions:  sessions,
		turns:     NewTurnRepository(db),
		sessionID: id,
		now:       time.Now,
	}, nil
}

// SessionID returns the ID of the journal's session.
func (j *Journal) SessionID() string {
	return j.sessionID
}

// Turns returns how many turns were recorded.
func (j *Journal) Turns() int {
	return j.seq
}

// RecordTurn stores a committed turn. Failures are logged, not returned,
// so the caller can use it directly as an engine callback.
func (j *Journal) RecordTurn(ev cubesim.TurnEvent) {
	if err := j.turns.Create(j.sessionID, j.seq, j.now(), ev); err != nil {
		log.Errf("journal: %v", err)
		return
	}
	j.seq++
}

// RecordSequence stores a finished sequence.
func (j *Journal) RecordSequence(s cubesim.SequenceSummary) {
	if err := j.turns.CreateSequence(j.sessionID, j.now(), s); err != nil {
		log.Errf("journal: %v", err)
	}
}

// Close ends the session.
func (j *Journal) Close() error {
	return j.sessions.End(j.sessionID)
}
