package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cdc-ai/personaproxy/internal/domain"
	"github.com/cdc-ai/personaproxy/internal/repository"
)

// groupKeyLayout formats session creation time to minute precision.
// Sessions of the same persona started within one minute share a bucket.
const groupKeyLayout = "2006-01-02T15-04"

// SessionService handles sessions and their transcripts
type SessionService struct {
	userRepo       *repository.UserRepository
	sessionRepo    *repository.SessionRepository
	transcriptRepo *repository.TranscriptRepository
}

// NewSessionService creates a new session service
func NewSessionService(
	userRepo *repository.UserRepository,
	sessionRepo *repository.SessionRepository,
	transcriptRepo *repository.TranscriptRepository,
) *SessionService {
	return &SessionService{
		userRepo:       userRepo,
		sessionRepo:    sessionRepo,
		transcriptRepo: transcriptRepo,
	}
}

// StartSession creates a session for the given email and persona
func (s *SessionService) StartSession(ctx context.Context, req *domain.StartSessionRequest) (*domain.StartSessionResponse, error) {
	email := domain.NormalizeEmail(req.Email)
	persona := domain.NormalizePersona(req.Persona)
	if email == "" || persona == "" {
		return nil, fmt.Errorf("%w: email and persona are required", domain.ErrInvalidRequest)
	}

	session, err := s.sessionRepo.Start(ctx, email, persona)
	if err != nil {
		return nil, fmt.Errorf("%w: start session: %v", domain.ErrUpstream, err)
	}

	return &domain.StartSessionResponse{
		SessionID:        session.ID,
		SessionCreatedAt: session.CreatedAt,
	}, nil
}

// SaveTranscript records one prompt/response pair
func (s *SessionService) SaveTranscript(ctx context.Context, req *domain.SaveTranscriptRequest) (*domain.SaveTranscriptResponse, error) {
	if req.SessionID == 0 || req.Prompt == "" || req.Response == "" {
		return nil, fmt.Errorf("%w: missing required fields", domain.ErrInvalidRequest)
	}

	transcript, err := s.transcriptRepo.Create(ctx, req.SessionID, req.Prompt, req.Response)
	if err != nil {
		return nil, fmt.Errorf("%w: save transcript: %v", domain.ErrUpstream, err)
	}

	return &domain.SaveTranscriptResponse{Message: "Saved successfully.", ID: transcript.ID}, nil
}

// TranscriptsByEmail returns a user's transcripts grouped per persona session
func (s *SessionService) TranscriptsByEmail(ctx context.Context, email string) (*domain.TranscriptsResponse, error) {
	rows, err := s.transcriptRepo.ListByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("%w: list transcripts: %v", domain.ErrUpstream, err)
	}

	return &domain.TranscriptsResponse{Transcripts: GroupTranscripts(rows)}, nil
}

// GroupTranscripts buckets rows by "<persona>_<session minute>", keeping row order
func GroupTranscripts(rows []*domain.TranscriptRow) map[string][]domain.TranscriptEntry {
	grouped := make(map[string][]domain.TranscriptEntry)
	for _, r := range rows {
		key := r.Persona + "_" + r.SessionCreatedAt.Format(groupKeyLayout)
		grouped[key] = append(grouped[key], domain.TranscriptEntry{
			Prompt:    r.Prompt,
			Response:  r.Response,
			Timestamp: isoTimestamp(r.Timestamp, r.Zoned),
		})
	}
	return grouped
}

// isoTimestamp writes microseconds only when non-zero, always as six
// digits, and the UTC offset only for zoned values
func isoTimestamp(t time.Time, zoned bool) string {
	layout := "2006-01-02T15:04:05"
	if t.Nanosecond()/int(time.Microsecond) != 0 {
		layout += ".000000"
	}
	if zoned {
		layout += "-07:00"
	}
	return t.Format(layout)
}

// DebugUser lists a user's sessions with their personas
func (s *SessionService) DebugUser(ctx context.Context, email string) ([]*domain.UserSessionRow, error) {
	rows, err := s.userRepo.SessionsByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("%w: debug user: %v", domain.ErrUpstream, err)
	}
	return rows, nil
}
