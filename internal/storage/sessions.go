package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when a session ID has no row.
var ErrSessionNotFound = errors.New("storage: session not found")

// Fixed width so that timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Session is one run of the simulator.
type Session struct {
	SessionID     string
	StartedAt     time.Time
	EndedAt       *time.Time
	Mode          string // play, mirror, shuffle, turn
	DeviceName    *string
	TurnCount     int
	SequenceCount int
}

// Duration returns how long the session ran, or zero if it is still open.
func (s *Session) Duration() time.Duration {
	if s.EndedAt == nil {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create opens a new session and returns its ID.
func (r *SessionRepository) Create(mode, deviceName string) (string, error) {
	id := uuid.New().String()

	var device *string
	if deviceName != "" {
		device = &deviceName
	}

	_, err := r.db.Exec(`
		INSERT INTO sessions (session_id, started_at, mode, device_name)
		VALUES (?, ?, ?, ?)
	`, id, time.Now().UTC().Format(timeLayout), mode, device)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

// End closes a session.
func (r *SessionRepository) End(sessionID string) error {
	res, err := r.db.Exec(`
		UPDATE sessions SET ended_at = ? WHERE session_id = ? AND ended_at IS NULL
	`, time.Now().UTC().Format(timeLayout), sessionID)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("end %s: %w", sessionID, ErrSessionNotFound)
	}
	return nil
}

// Get retrieves a session by ID. A unique prefix of the ID is accepted.
func (r *SessionRepository) Get(sessionID string) (*Session, error) {
	rows, err := r.db.Query(`
		SELECT session_id, started_at, ended_at, mode, device_name, turn_count, sequence_count
		FROM sessions
		WHERE session_id LIKE ? || '%'
		LIMIT 2
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	defer rows.Close()

	sessions, err := scanSessions(rows)
	if err != nil {
		return nil, err
	}
	switch len(sessions) {
	case 0:
		return nil, fmt.Errorf("%s: %w", sessionID, ErrSessionNotFound)
	case 1:
		return &sessions[0], nil
	default:
		return nil, fmt.Errorf("session prefix %q is ambiguous", sessionID)
	}
}

// List returns the most recent sessions, newest first.
func (r *SessionRepository) List(limit int) ([]Session, error) {
	rows, err := r.db.Query(`
		SELECT session_id, started_at, ended_at, mode, device_name, turn_count, sequence_count
		FROM sessions
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

func scanSessions(rows *sql.Rows) ([]Session, error) {
	var out []Session
	for rows.Next() {
		var s Session
		var started string
		var ended sql.NullString
		var device sql.NullString
		if err := rows.Scan(&s.SessionID, &started, &ended, &s.Mode, &device, &s.TurnCount, &s.SequenceCount); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}

		t, err := time.Parse(timeLayout, started)
		if err != nil {
			return nil, fmt.Errorf("session %s: bad start time: %w", s.SessionID, err)
		}
		s.StartedAt = t
		if ended.Valid {
			t, err := time.Parse(timeLayout, ended.String)
			if err != nil {
				return nil, fmt.Errorf("session %s: bad end time: %w", s.SessionID, err)
			}
			s.EndedAt = &t
		}
		if device.Valid {
			s.DeviceName = &device.String
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
