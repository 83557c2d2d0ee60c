package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staffhubhq/staffhub-backend/pkg/config"
	"github.com/staffhubhq/staffhub-backend/pkg/db"
	"github.com/staffhubhq/staffhub-backend/pkg/db/models"
	"github.com/staffhubhq/staffhub-backend/pkg/enums"
	pkgerrors "github.com/staffhubhq/staffhub-backend/pkg/errors"
	"github.com/staffhubhq/staffhub-backend/pkg/mailer"
	"github.com/staffhubhq/staffhub-backend/pkg/pagination"
	"github.com/staffhubhq/staffhub-backend/pkg/security"
)

const tempPasswordLength = 12

// RoleDirectory resolves roles referenced by user records.
type RoleDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Role, error)
}

// ServiceParams groups dependencies for the user service.
type ServiceParams struct {
	Repo        Repository
	Roles       RoleDirectory
	Mailer      mailer.Sender
	PasswordCfg config.PasswordConfig
}

// Service manages the admin user lifecycle.
type Service struct {
	repo        Repository
	roles       RoleDirectory
	mailer      mailer.Sender
	passwordCfg config.PasswordConfig
}

// NewService builds a user service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Roles == nil {
		return nil, errors.New("role directory is required")
	}
	if params.Mailer == nil {
		return nil, errors.New("mailer is required")
	}
	return &Service{
		repo:        params.Repo,
		roles:       params.Roles,
		mailer:      params.Mailer,
		passwordCfg: params.PasswordCfg,
	}, nil
}

// ListParams carries the admin listing filters.
type ListParams struct {
	TeamID *uuid.UUID
	RoleID *uuid.UUID
	Limit  int
	Cursor string
}

// ListResult is one page of users plus the cursor for the next page.
type ListResult struct {
	Users      []models.User
	NextCursor string
}

func (s *Service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	after, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	users, next, err := s.repo.List(ctx, ListQuery{
		TeamID: params.TeamID,
		RoleID: params.RoleID,
		Limit:  params.Limit,
		After:  after,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing users")
	}

	result := &ListResult{Users: users}
	if next != nil {
		result.NextCursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

// CreateInput carries the fields for admin user creation. A temporary
// password is generated and mailed to the new user.
type CreateInput struct {
	Email     string
	FirstName string
	LastName  string
	RoleID    uuid.UUID
	TeamID    *uuid.UUID
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if firstName == "" || lastName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first and last name are required")
	}
	if _, err := s.resolveRole(ctx, input.RoleID); err != nil {
		return nil, err
	}

	tempPassword, err := security.GenerateTempPassword(tempPasswordLength)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating temporary password")
	}
	hash, err := security.HashPassword(tempPassword, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Confirmed:    true,
		RoleID:       input.RoleID,
		TeamID:       input.TeamID,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a user with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating user")
	}

	s.mailer.SendAsync(ctx, mailer.Message{
		To:      email,
		Subject: "Your StaffHub account",
		Body:    fmt.Sprintf("Hi %s,\n\nAn account has been created for you. Your temporary password is: %s\n\nPlease change it after your first login.", firstName, tempPassword),
	})

	return s.Get(ctx, user.ID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	return user, nil
}

// UpdateInput carries the mutable profile fields.
type UpdateInput struct {
	FirstName string
	LastName  string
	RoleID    uuid.UUID
	TeamID    *uuid.UUID
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if firstName == "" || lastName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first and last name are required")
	}
	if _, err := s.resolveRole(ctx, input.RoleID); err != nil {
		return nil, err
	}

	user.FirstName = firstName
	user.LastName = lastName
	user.RoleID = input.RoleID
	user.TeamID = input.TeamID
	user.Role = nil
	user.Team = nil

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating user")
	}
	return s.Get(ctx, id)
}

// SetBlocked toggles the account block flag.
func (s *Service) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Blocked = blocked
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating user")
	}
	return user, nil
}

// SetConfirmed toggles the email confirmation flag.
func (s *Service) SetConfirmed(ctx context.Context, id uuid.UUID, confirmed bool) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Confirmed = confirmed
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating user")
	}
	return user, nil
}

// Delete removes a user. Accounts holding the SUPER_ADMIN role cannot be
// deleted.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if user.Role != nil && user.Role.Type == enums.RoleTypeSuperAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "super admin accounts cannot be deleted")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting user")
	}
	return nil
}

func (s *Service) resolveRole(ctx context.Context, roleID uuid.UUID) (*models.Role, error) {
	if roleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role id is required")
	}
	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "role does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading role")
	}
	return role, nil
}
