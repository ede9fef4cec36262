package service

import (
	"context"
	"fmt"

	"github.com/cdc-ai/personaproxy/internal/domain"
	"github.com/cdc-ai/personaproxy/internal/repository"
)

// StatusService reports store connectivity
type StatusService struct {
	db *repository.DB
}

// NewStatusService creates a new status service
func NewStatusService(db *repository.DB) *StatusService {
	return &StatusService{db: db}
}

// DatabaseTime asks the store for its current time
func (s *StatusService) DatabaseTime(ctx context.Context) (string, error) {
	now, err := s.db.Now(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: database time: %v", domain.ErrUpstream, err)
	}
	return now, nil
}
