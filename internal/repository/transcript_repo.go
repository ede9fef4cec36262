package repository

import (
	"context"

	"github.com/cdc-ai/personaproxy/internal/domain"
)

// TranscriptRepository handles transcript persistence
type TranscriptRepository struct {
	db *DB
}

// NewTranscriptRepository creates a new transcript repository
func NewTranscriptRepository(db *DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// Create appends a transcript entry to a session
func (r *TranscriptRepository) Create(ctx context.Context, sessionID int64, prompt, response string) (*domain.Transcript, error) {
	transcript := &domain.Transcript{
		SessionID: sessionID,
		Prompt:    prompt,
		Response:  response,
	}
	var ts dbTime

	err := r.db.QueryRowContext(ctx, r.db.Rebind(`
		INSERT INTO transcripts (session_id, prompt, response)
		VALUES (?, ?, ?)
		RETURNING id, timestamp
	`), sessionID, prompt, response).Scan(&transcript.ID, &ts)
	if err != nil {
		return nil, err
	}

	transcript.Timestamp = ts.Time
	return transcript, nil
}

// ListByEmail returns every transcript entry of a user, newest session first
// and oldest entry first within a session
func (r *TranscriptRepository) ListByEmail(ctx context.Context, email string) ([]*domain.TranscriptRow, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT t.prompt, t.response, t.timestamp, p.name, s.created_at
		FROM transcripts t
		JOIN sessions s ON t.session_id = s.id
		JOIN users u ON s.user_id = u.id
		JOIN personas p ON s.persona_id = p.id
		WHERE LOWER(u.email) = LOWER(?)
		ORDER BY s.created_at DESC, s.id DESC, t.timestamp ASC, t.id ASC
	`), email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.TranscriptRow
	for rows.Next() {
		row := &domain.TranscriptRow{}
		var ts, createdAt dbTime

		if err := rows.Scan(&row.Prompt, &row.Response, &ts, &row.Persona, &createdAt); err != nil {
			return nil, err
		}

		row.Timestamp = ts.Time
		row.SessionCreatedAt = createdAt.Time
		row.Zoned = r.db.dialect == DialectPostgres
		result = append(result, row)
	}

	return result, rows.Err()
}
