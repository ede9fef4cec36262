package repository

import (
	"context"
	"database/sql"

	"github.com/cdc-ai/personaproxy/internal/domain"
)

// SessionRepository handles session persistence
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Start upserts the user and persona, creates a session linking them and
// bumps the persona's interaction count, all in one transaction.
// email and personaName must already be normalized.
func (r *SessionRepository) Start(ctx context.Context, email, personaName string) (*domain.Session, error) {
	session := &domain.Session{}

	err := r.db.InTx(ctx, func(tx *sql.Tx) error {
		userID, err := upsertUser(ctx, r.db, tx, email)
		if err != nil {
			return err
		}

		personaID, err := upsertPersona(ctx, r.db, tx, personaName)
		if err != nil {
			return err
		}

		var createdAt dbTime
		err = tx.QueryRowContext(ctx, r.db.Rebind(`
			INSERT INTO sessions (user_id, persona_id)
			VALUES (?, ?)
			RETURNING id, created_at
		`), userID, personaID).Scan(&session.ID, &createdAt)
		if err != nil {
			return err
		}

		session.UserID = userID
		session.PersonaID = personaID
		session.CreatedAt = createdAt.Time

		return incrementInteractions(ctx, r.db, tx, personaID)
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}
