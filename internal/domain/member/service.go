package member

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/benbjohnson/clock"

	"github.com/rowanmb/jobsite/internal/repository"
)

// Service handles profile and sharing operations.
type Service struct {
	repo   Repository
	clock  clock.Clock
	logger *slog.Logger
}

// NewService creates a new membership service.
func NewService(repo Repository, clk clock.Clock, logger *slog.Logger) *Service {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, clock: clk, logger: logger}
}

// EnsureProfile upserts the principal's profile so others can find them by
// email when sharing.
func (s *Service) EnsureProfile(ctx context.Context, principalID, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if principalID == "" {
		return fmt.Errorf("%w: missing principal id", ErrInvalidInput)
	}
	if err := s.repo.UpsertProfile(ctx, &Profile{ID: principalID, Email: email}); err != nil {
		return fmt.Errorf("ensuring profile: %w", err)
	}
	return nil
}

// Share grants the user behind email access to the project. An unknown
// email surfaces ErrUserNotFound and the operation is abandoned.
func (s *Service) Share(ctx context.Context, projectID, email string, role Role) (*Membership, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: missing email", ErrInvalidInput)
	}
	if !ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	profile, err := s.repo.GetProfileByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("looking up profile: %w", err)
	}

	m := &Membership{
		ProjectID: projectID,
		UserID:    profile.ID,
		Role:      role,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.AddMember(ctx, m); err != nil {
		return nil, fmt.Errorf("adding member: %w", err)
	}
	s.logger.Info("project shared", "project_id", projectID, "user_id", profile.ID, "role", role)
	return m, nil
}

// Members lists who has access to the project.
func (s *Service) Members(ctx context.Context, projectID string) ([]Membership, error) {
	return s.repo.ListMembers(ctx, projectID)
}
