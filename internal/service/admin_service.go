package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cdc-ai/personaproxy/internal/domain"
	"github.com/cdc-ai/personaproxy/internal/repository"
)

// AdminService handles admin operations. Callers are authorized by middleware.
type AdminService struct {
	userRepo    *repository.UserRepository
	personaRepo *repository.PersonaRepository
}

// NewAdminService creates a new admin service
func NewAdminService(
	userRepo *repository.UserRepository,
	personaRepo *repository.PersonaRepository,
) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		personaRepo: personaRepo,
	}
}

// WipeUser deletes a user with all sessions and transcripts
func (s *AdminService) WipeUser(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return fmt.Errorf("%w: lookup user: %v", domain.ErrUpstream, err)
	}
	if user == nil {
		return domain.ErrNotFound
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: wipe user: %v", domain.ErrUpstream, err)
	}

	return nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list users: %v", domain.ErrUpstream, err)
	}
	return users, nil
}

func (s *AdminService) ListPersonas(ctx context.Context) ([]*domain.Persona, error) {
	personas, err := s.personaRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list personas: %v", domain.ErrUpstream, err)
	}
	return personas, nil
}
