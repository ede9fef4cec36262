package repository

import (
	"context"
	"database/sql"

	"github.com/cdc-ai/personaproxy/internal/domain"
)

// UserRepository handles user persistence
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByEmail retrieves a user by normalized email. Returns nil when absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user := &domain.User{}

	err := r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT id, email FROM users WHERE email = ?
	`), email).Scan(&user.ID, &user.Email)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// List retrieves all users ordered by email
func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, email FROM users ORDER BY email ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		user := &domain.User{}
		if err := rows.Scan(&user.ID, &user.Email); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// SessionsByEmail lists a user with each of their sessions and its persona
func (r *UserRepository) SessionsByEmail(ctx context.Context, email string) ([]*domain.UserSessionRow, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT u.id, u.email, s.id, p.name
		FROM users u
		LEFT JOIN sessions s ON s.user_id = u.id
		LEFT JOIN personas p ON s.persona_id = p.id
		WHERE u.email = ?
		ORDER BY s.id ASC
	`), email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*domain.UserSessionRow{}
	for rows.Next() {
		row := &domain.UserSessionRow{}
		var sessionID sql.NullInt64
		var persona sql.NullString

		if err := rows.Scan(&row.UserID, &row.Email, &sessionID, &persona); err != nil {
			return nil, err
		}

		if sessionID.Valid {
			row.SessionID = &sessionID.Int64
		}
		if persona.Valid {
			row.Persona = &persona.String
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// Delete removes a user together with its sessions and their transcripts,
// children first, in a single transaction
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.db.InTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.db.Rebind(`
			DELETE FROM transcripts
			WHERE session_id IN (SELECT id FROM sessions WHERE user_id = ?)
		`), id); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM sessions WHERE user_id = ?`), id); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM users WHERE id = ?`), id)
		if err != nil {
			return err
		}

		affected, _ := result.RowsAffected()
		if affected == 0 {
			return domain.ErrNotFound
		}

		return nil
	})
}

func upsertUser(ctx context.Context, db *DB, q querier, email string) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, db.Rebind(`
		INSERT INTO users (email)
		VALUES (?)
		ON CONFLICT (email) DO UPDATE SET email = excluded.email
		RETURNING id
	`), email).Scan(&id)
	return id, err
}
