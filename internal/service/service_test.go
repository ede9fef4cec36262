package service

import (
	"context"
	"testing"

	"github.com/cdc-ai/personaproxy/internal/repository"
)

type testRepos struct {
	db          *repository.DB
	users       *repository.UserRepository
	personas    *repository.PersonaRepository
	sessions    *repository.SessionRepository
	transcripts *repository.TranscriptRepository
}

func newTestRepos(t *testing.T) *testRepos {
	t.Helper()

	db, err := repository.NewDB(":memory:")
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &testRepos{
		db:          db,
		users:       repository.NewUserRepository(db),
		personas:    repository.NewPersonaRepository(db),
		sessions:    repository.NewSessionRepository(db),
		transcripts: repository.NewTranscriptRepository(db),
	}
}

func (r *testRepos) sessionService() *SessionService {
	return NewSessionService(r.users, r.sessions, r.transcripts)
}

func (r *testRepos) adminService() *AdminService {
	return NewAdminService(r.users, r.personas)
}

func (r *testRepos) exec(t *testing.T, query string) {
	t.Helper()
	if _, err := r.db.ExecContext(context.Background(), query); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}

func (r *testRepos) count(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	if err := r.db.QueryRowContext(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("query %q: %v", query, err)
	}
	return n
}
