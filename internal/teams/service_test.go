package teams

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staffhubhq/staffhub-backend/pkg/db/models"
	pkgerrors "github.com/staffhubhq/staffhub-backend/pkg/errors"
)

type stubRepo struct {
	team    *models.Team
	members int64
	deleted bool
}

func (s *stubRepo) Create(ctx context.Context, team *models.Team) error { return nil }
func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	if s.team == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.team, nil
}
func (s *stubRepo) List(ctx context.Context) ([]models.Team, error)     { return nil, nil }
func (s *stubRepo) Update(ctx context.Context, team *models.Team) error { return nil }
func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = true
	return nil
}
func (s *stubRepo) CountMembers(ctx context.Context, id uuid.UUID) (int64, error) {
	return s.members, nil
}

func TestCreateRequiresName(t *testing.T) {
	svc, _ := NewService(ServiceParams{Repo: &stubRepo{}})
	if _, err := svc.Create(context.Background(), " "); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteRefusesNonEmptyTeam(t *testing.T) {
	repo := &stubRepo{team: &models.Team{ID: uuid.New(), Name: "Kitchen"}, members: 3}
	svc, _ := NewService(ServiceParams{Repo: repo})

	err := svc.Delete(context.Background(), repo.team.ID)
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if repo.deleted {
		t.Fatal("delete must not reach the repo")
	}
}

func TestDeleteEmptyTeam(t *testing.T) {
	repo := &stubRepo{team: &models.Team{ID: uuid.New(), Name: "Kitchen"}}
	svc, _ := NewService(ServiceParams{Repo: repo})

	if err := svc.Delete(context.Background(), repo.team.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !repo.deleted {
		t.Fatal("expected repo delete")
	}
}

func TestGetMissingTeam(t *testing.T) {
	svc, _ := NewService(ServiceParams{Repo: &stubRepo{}})
	if _, err := svc.Get(context.Background(), uuid.New()); pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
