package shifts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staffhubhq/staffhub-backend/pkg/db"
	"github.com/staffhubhq/staffhub-backend/pkg/db/models"
	pkgerrors "github.com/staffhubhq/staffhub-backend/pkg/errors"
)

// ServiceParams groups dependencies for the shift service.
type ServiceParams struct {
	Repo Repository
}

// Service manages the shift-type catalog.
type Service struct {
	repo Repository
}

// NewService builds a shift service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo}, nil
}

// ShiftInput carries the fields accepted on create and update.
type ShiftInput struct {
	Name      string
	StartTime string
	EndTime   string
	Color     string
}

func (s *Service) Create(ctx context.Context, input ShiftInput) (*models.Shift, error) {
	shift, err := shiftFromInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, shift); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a shift with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating shift")
	}
	return shift, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Shift, error) {
	shift, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shift not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading shift")
	}
	return shift, nil
}

func (s *Service) List(ctx context.Context) ([]models.Shift, error) {
	shifts, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing shifts")
	}
	return shifts, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input ShiftInput) (*models.Shift, error) {
	shift, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := shiftFromInput(input)
	if err != nil {
		return nil, err
	}
	shift.Name = updated.Name
	shift.StartTime = updated.StartTime
	shift.EndTime = updated.EndTime
	shift.Color = updated.Color

	if err := s.repo.Update(ctx, shift); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a shift with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating shift")
	}
	return shift, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting shift")
	}
	return nil
}

func shiftFromInput(input ShiftInput) (*models.Shift, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shift name is required")
	}
	start := strings.TrimSpace(input.StartTime)
	end := strings.TrimSpace(input.EndTime)
	for _, value := range []string{start, end} {
		if value == "" {
			continue
		}
		if _, err := time.Parse("15:04", value); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "shift times must use HH:MM format")
		}
	}
	return &models.Shift{
		Name:      name,
		StartTime: start,
		EndTime:   end,
		Color:     strings.TrimSpace(input.Color),
	}, nil
}
