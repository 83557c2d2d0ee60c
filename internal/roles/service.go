package roles

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staffhubhq/staffhub-backend/pkg/db"
	"github.com/staffhubhq/staffhub-backend/pkg/db/models"
	"github.com/staffhubhq/staffhub-backend/pkg/enums"
	pkgerrors "github.com/staffhubhq/staffhub-backend/pkg/errors"
)

// ServiceParams groups dependencies for the role service.
type ServiceParams struct {
	Repo Repository
}

// Service manages roles and their permission links.
type Service struct {
	repo Repository
}

// NewService builds a role service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo}, nil
}

// RoleInput carries the fields accepted on create and update. Permission links
// are reconnected wholesale: the stored sets become exactly the provided IDs.
type RoleInput struct {
	Name                string
	PermissionIDs       []uuid.UUID
	ClientPermissionIDs []uuid.UUID
}

func (s *Service) Create(ctx context.Context, input RoleInput) (*models.Role, error) {
	name := strings.TrimSpace(input.Name)
	roleType, err := enums.DeriveRoleType(name)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	role := &models.Role{Name: name, Type: roleType}
	if err := s.repo.Create(ctx, role); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a role with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating role")
	}

	if err := s.relink(ctx, role, input); err != nil {
		return nil, err
	}
	return s.Get(ctx, role.ID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Role, error) {
	role, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "role not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading role")
	}
	return role, nil
}

func (s *Service) List(ctx context.Context) ([]models.Role, error) {
	roles, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing roles")
	}
	return roles, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input RoleInput) (*models.Role, error) {
	role, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	roleType, err := enums.DeriveRoleType(name)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	role.Name = name
	role.Type = roleType

	if err := s.repo.Update(ctx, role); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a role with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating role")
	}

	if err := s.relink(ctx, role, input); err != nil {
		return nil, err
	}
	return s.Get(ctx, role.ID)
}

// Delete removes a role. Roles still assigned to users cannot be removed.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	users, err := s.repo.CountUsers(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting role users")
	}
	if users > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "role is still assigned to users")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting role")
	}
	return nil
}

func (s *Service) relink(ctx context.Context, role *models.Role, input RoleInput) error {
	perms, err := s.repo.FindPermissionsByIDs(ctx, input.PermissionIDs)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving permissions")
	}
	if len(perms) != len(uniqueIDs(input.PermissionIDs)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "one or more permission ids do not exist")
	}
	if err := s.repo.ReplacePermissions(ctx, role, perms); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "linking permissions")
	}

	clientPerms, err := s.repo.FindClientPermissionsByIDs(ctx, input.ClientPermissionIDs)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving client permissions")
	}
	if len(clientPerms) != len(uniqueIDs(input.ClientPermissionIDs)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "one or more client permission ids do not exist")
	}
	if err := s.repo.ReplaceClientPermissions(ctx, role, clientPerms); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "linking client permissions")
	}
	return nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
