package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/caseflow/caseflow/internal/platform/auth"
	"github.com/caseflow/caseflow/internal/platform/awsx"
)

type Service struct {
	repo     Repository
	identity awsx.IdentityProvider // nil when Cognito is not configured
	mailer   awsx.Mailer           // nil when SES is not configured
	log      zerolog.Logger
}

func NewService(repo Repository, identity awsx.IdentityProvider, mailer awsx.Mailer, log zerolog.Logger) *Service {
	return &Service{repo: repo, identity: identity, mailer: mailer, log: log}
}

func (s *Service) Create(ctx context.Context, u *User) error {
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return fmt.Errorf("a valid email is required")
	}
	if u.FirstName == "" || u.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	if u.Role == "" {
		u.Role = "staff"
	}
	if !auth.ValidRole(u.Role) {
		return fmt.Errorf("invalid role: %s", u.Role)
	}
	u.IsActive = true

	if err := s.repo.Create(ctx, u); err != nil {
		return err
	}

	// Provisioning and invites are best-effort; the record is the source of
	// truth and a failed side effect must not roll it back.
	if s.identity != nil {
		if err := s.identity.CreateAccount(ctx, u.Email); err != nil {
			s.log.Error().Err(err).Str("email", u.Email).Msg("cognito provisioning failed")
		}
	}
	if s.mailer != nil {
		body := fmt.Sprintf("Hi %s,\n\nYour account has been created. Sign in with %s to get started.\n", u.FirstName, u.Email)
		if err := s.mailer.Send(ctx, u.Email, "Welcome to CaseFlow", body); err != nil {
			s.log.Error().Err(err).Str("email", u.Email).Msg("welcome email failed")
		}
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *Service) Update(ctx context.Context, u *User) error {
	if u.Role != "" && !auth.ValidRole(u.Role) {
		return fmt.Errorf("invalid role: %s", u.Role)
	}
	return s.repo.Update(ctx, u)
}

// Deactivate marks the user inactive and disables the linked login account.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	if s.identity != nil {
		if err := s.identity.DisableAccount(ctx, u.Email); err != nil {
			s.log.Error().Err(err).Str("email", u.Email).Msg("cognito disable failed")
		}
	}
	return nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByRole(ctx context.Context, role string, limit, offset int) ([]*User, int, error) {
	return s.repo.ListByRole(ctx, role, limit, offset)
}

// RoleLevel returns the access level of the given user, consulting the
// stored role. Inactive users have level 0.
func (s *Service) RoleLevel(ctx context.Context, id uuid.UUID) (int, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if !u.IsActive {
		return 0, nil
	}
	return auth.RoleLevel(u.Role), nil
}
