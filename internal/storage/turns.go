package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/SeamusWaldron/cubesim"
)

// TurnRecord is one committed quarter turn.
type TurnRecord struct {
	TurnID     int64
	SessionID  string
	Seq        int
	TsMs       int64
	Tick       uint64
	Axis       int
	LayerIndex int
	Clockwise  bool
	Source     string
	Notation   string
}

// Turn converts the record back into an engine turn.
func (t TurnRecord) Turn() cubesim.SliceTurn {
	return cubesim.SliceTurn{Axis: cubesim.Axis(t.Axis), Index: t.LayerIndex, Clockwise: t.Clockwise}
}

// SequenceRecord is one finished shuffle or scripted sequence.
type SequenceRecord struct {
	SequenceID int64
	SessionID  string
	Source     string
	Notation   string
	TurnCount  int
	StartTick  uint64
	EndTick    uint64
	EndedAt    time.Time
}

// TurnRepository provides CRUD operations for turns and sequences.
type TurnRepository struct {
	db *DB
}

// NewTurnRepository creates a new turn repository.
func NewTurnRepository(db *DB) *TurnRepository {
	return &TurnRepository{db: db}
}

// Create stores a committed turn and bumps the session's turn count.
func (r *TurnRepository) Create(sessionID string, seq int, at time.Time, ev cubesim.TurnEvent) error {
	return r.db.Transaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO turns (session_id, seq, ts_ms, tick, axis, layer_index, clockwise, source, notation)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, sessionID, seq, at.UnixMilli(), int64(ev.Tick), int(ev.Turn.Axis), ev.Turn.Index,
			ev.Turn.Clockwise, ev.Source.String(), ev.Move.Notation())
		if err != nil {
			return fmt.Errorf("failed to create turn %d: %w", seq, err)
		}
		_, err = tx.Exec(`UPDATE sessions SET turn_count = turn_count + 1 WHERE session_id = ?`, sessionID)
		if err != nil {
			return fmt.Errorf("failed to update turn count: %w", err)
		}
		return nil
	})
}

// CreateSequence stores a finished sequence and bumps the session's
// sequence count.
func (r *TurnRepository) CreateSequence(sessionID string, at time.Time, s cubesim.SequenceSummary) error {
	moves := make([]cubesim.Move, len(s.Turns))
	for i, t := range s.Turns {
		moves[i] = cubesim.MoveForTurn(t)
	}
	return r.db.Transaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO sequences (session_id, source, notation, turn_count, start_tick, end_tick, ended_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, sessionID, s.Source.String(), cubesim.FormatMoves(moves), len(s.Turns),
			int64(s.StartTick), int64(s.EndTick), at.UTC().Format(timeLayout))
		if err != nil {
			return fmt.Errorf("failed to create sequence: %w", err)
		}
		_, err = tx.Exec(`UPDATE sessions SET sequence_count = sequence_count + 1 WHERE session_id = ?`, sessionID)
		if err != nil {
			return fmt.Errorf("failed to update sequence count: %w", err)
		}
		return nil
	})
}

// GetBySession retrieves all turns of a session in order.
func (r *TurnRepository) GetBySession(sessionID string) ([]TurnRecord, error) {
	rows, err := r.db.Query(`
		SELECT turn_id, session_id, seq, ts_ms, tick, axis, layer_index, clockwise, source, notation
		FROM turns
		WHERE session_id = ?
		ORDER BY seq
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get turns: %w", err)
	}
	defer rows.Close()

	var turns []TurnRecord
	for rows.Next() {
		var t TurnRecord
		var tick int64
		if err := rows.Scan(&t.TurnID, &t.SessionID, &t.Seq, &t.TsMs, &tick, &t.Axis,
			&t.LayerIndex, &t.Clockwise, &t.Source, &t.Notation); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		t.Tick = uint64(tick)
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// GetSequences retrieves the finished sequences of a session in order.
func (r *TurnRepository) GetSequences(sessionID string) ([]SequenceRecord, error) {
	rows, err := r.db.Query(`
		SELECT sequence_id, session_id, source, notation, turn_count, start_tick, end_tick, ended_at
		FROM sequences
		WHERE session_id = ?
		ORDER BY sequence_id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sequences: %w", err)
	}
	defer rows.Close()

	var out []SequenceRecord
	for rows.Next() {
		var s SequenceRecord
		var start, end int64
		var ended string
		if err := rows.Scan(&s.SequenceID, &s.SessionID, &s.Source, &s.Notation, &s.TurnCount,
			&start, &end, &ended); err != nil {
			return nil, fmt.Errorf("failed to scan sequence: %w", err)
		}
		s.StartTick, s.EndTick = uint64(start), uint64(end)
		if s.EndedAt, err = time.Parse(timeLayout, ended); err != nil {
			return nil, fmt.Errorf("sequence %d: bad end time: %w", s.SequenceID, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
