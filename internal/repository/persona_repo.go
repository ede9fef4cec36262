package repository

import (
	"context"

	"github.com/cdc-ai/personaproxy/internal/domain"
)

// PersonaRepository handles persona persistence
type PersonaRepository struct {
	db *DB
}

// NewPersonaRepository creates a new persona repository
func NewPersonaRepository(db *DB) *PersonaRepository {
	return &PersonaRepository{db: db}
}

// List retrieves all personas, most used first
func (r *PersonaRepository) List(ctx context.Context) ([]*domain.Persona, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, interaction_count
		FROM personas ORDER BY interaction_count DESC, name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	personas := []*domain.Persona{}
	for rows.Next() {
		persona := &domain.Persona{}
		if err := rows.Scan(&persona.ID, &persona.Name, &persona.InteractionCount); err != nil {
			return nil, err
		}
		personas = append(personas, persona)
	}

	return personas, rows.Err()
}

func upsertPersona(ctx context.Context, db *DB, q querier, name string) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, db.Rebind(`
		INSERT INTO personas (name)
		VALUES (?)
		ON CONFLICT (name) DO UPDATE SET name = excluded.name
		RETURNING id
	`), name).Scan(&id)
	return id, err
}

func incrementInteractions(ctx context.Context, db *DB, q querier, id int64) error {
	_, err := q.ExecContext(ctx, db.Rebind(`
		UPDATE personas SET interaction_count = interaction_count + 1 WHERE id = ?
	`), id)
	return err
}
