package permissions

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

// ClientPermissionInput carries the fields accepted on create and update.
type ClientPermissionInput struct {
	Menu string
	Path string
	Name string
	Sort int
}

func (s *Service) CreateClient(ctx context.Context, input ClientPermissionInput) (*models.ClientPermission, error) {
	perm, err := clientPermissionFromInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateClientPermission(ctx, perm); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a client permission with this path already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating client permission")
	}
	return perm, nil
}

func (s *Service) GetClient(ctx context.Context, id uuid.UUID) (*models.ClientPermission, error) {
	perm, err := s.repo.FindClientPermission(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client permission not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading client permission")
	}
	return perm, nil
}

func (s *Service) ListClient(ctx context.Context) ([]models.ClientPermission, error) {
	perms, err := s.repo.ListClientPermissions(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing client permissions")
	}
	return perms, nil
}

func (s *Service) UpdateClient(ctx context.Context, id uuid.UUID, input ClientPermissionInput) (*models.ClientPermission, error) {
	perm, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := clientPermissionFromInput(input)
	if err != nil {
		return nil, err
	}
	perm.Menu = updated.Menu
	perm.Path = updated.Path
	perm.Name = updated.Name
	perm.Sort = updated.Sort

	if err := s.repo.UpdateClientPermission(ctx, perm); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a client permission with this path already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating client permission")
	}
	return perm, nil
}

func (s *Service) DeleteClient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetClient(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteClientPermission(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting client permission")
	}
	return nil
}

func clientPermissionFromInput(input ClientPermissionInput) (*models.ClientPermission, error) {
	menu := strings.TrimSpace(input.Menu)
	if menu == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu is required")
	}
	path := strings.TrimSpace(input.Path)
	if path == "" || !strings.HasPrefix(path, "/") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "path must start with /")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	return &models.ClientPermission{
		Menu: menu,
		Path: path,
		Name: name,
		Sort: input.Sort,
	}, nil
}
