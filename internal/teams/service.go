package teams

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staffhubhq/staffhub-backend/pkg/db"
	"github.com/staffhubhq/staffhub-backend/pkg/db/models"
	pkgerrors "github.com/staffhubhq/staffhub-backend/pkg/errors"
)

// ServiceParams groups dependencies for the team service.
type ServiceParams struct {
	Repo Repository
}

// Service manages team CRUD.
type Service struct {
	repo Repository
}

// NewService builds a team service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo}, nil
}

func (s *Service) Create(ctx context.Context, name string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "team name is required")
	}
	team := &models.Team{Name: name}
	if err := s.repo.Create(ctx, team); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a team with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating team")
	}
	return team, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	team, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "team not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading team")
	}
	return team, nil
}

func (s *Service) List(ctx context.Context) ([]models.Team, error) {
	teams, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing teams")
	}
	return teams, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, name string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "team name is required")
	}
	team, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	team.Name = name
	if err := s.repo.Update(ctx, team); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a team with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating team")
	}
	return team, nil
}

// Delete removes a team. Teams with assigned members cannot be removed until
// their members are reassigned.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	members, err := s.repo.CountMembers(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting team members")
	}
	if members > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "team still has members assigned")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting team")
	}
	return nil
}
