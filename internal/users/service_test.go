package users

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staffhubhq/staffhub-backend/pkg/config"
	"github.com/staffhubhq/staffhub-backend/pkg/db/models"
	"github.com/staffhubhq/staffhub-backend/pkg/enums"
	pkgerrors "github.com/staffhubhq/staffhub-backend/pkg/errors"
	"github.com/staffhubhq/staffhub-backend/pkg/mailer"
	"github.com/staffhubhq/staffhub-backend/pkg/pagination"
)

type stubRepo struct {
	users   map[uuid.UUID]*models.User
	deleted []uuid.UUID
}

func newStubRepo() *stubRepo {
	return &stubRepo{users: map[uuid.UUID]*models.User{}}
}

func (s *stubRepo) Create(ctx context.Context, user *models.User) error {
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return errDuplicate
		}
	}
	user.ID = uuid.New()
	s.users[user.ID] = user
	return nil
}
func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}
func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (s *stubRepo) List(ctx context.Context, query ListQuery) ([]models.User, *pagination.Cursor, error) {
	return nil, nil, nil
}
func (s *stubRepo) Update(ctx context.Context, user *models.User) error {
	s.users[user.ID] = user
	return nil
}
func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	delete(s.users, id)
	return nil
}
func (s *stubRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}
func (s *stubRepo) CountByRoleType(ctx context.Context, roleType string) (int64, error) {
	return 0, nil
}

var errDuplicate = duplicateError{}

type duplicateError struct{}

func (duplicateError) Error() string { return `duplicate key value violates unique constraint` }

type stubRoles struct {
	roles map[uuid.UUID]*models.Role
}

func (s *stubRoles) FindByID(ctx context.Context, id uuid.UUID) (*models.Role, error) {
	role, ok := s.roles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return role, nil
}

type captureMailer struct {
	sent []mailer.Message
}

func (c *captureMailer) Send(ctx context.Context, msg mailer.Message) error {
	c.sent = append(c.sent, msg)
	return nil
}
func (c *captureMailer) SendAsync(ctx context.Context, msg mailer.Message) {
	c.sent = append(c.sent, msg)
}

func fastPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func newTestService(t *testing.T) (*Service, *stubRepo, *stubRoles, *captureMailer) {
	t.Helper()
	repo := newStubRepo()
	roles := &stubRoles{roles: map[uuid.UUID]*models.Role{}}
	mail := &captureMailer{}
	svc, err := NewService(ServiceParams{
		Repo:        repo,
		Roles:       roles,
		Mailer:      mail,
		PasswordCfg: fastPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, roles, mail
}

func addRole(roles *stubRoles, roleType enums.RoleType) uuid.UUID {
	id := uuid.New()
	roles.roles[id] = &models.Role{ID: id, Name: string(roleType), Type: roleType}
	return id
}

func TestCreateSendsTempPasswordEmail(t *testing.T) {
	svc, repo, roles, mail := newTestService(t)
	roleID := addRole(roles, enums.RoleTypeEmployee)

	user, err := svc.Create(context.Background(), CreateInput{
		Email:     "  New.Worker@Example.COM ",
		FirstName: "New",
		LastName:  "Worker",
		RoleID:    roleID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.Email != "new.worker@example.com" {
		t.Fatalf("email must be stored lowercase, got %q", user.Email)
	}
	if user.PasswordHash == "" || !strings.HasPrefix(user.PasswordHash, "$argon2id$") {
		t.Fatalf("expected argon2id hash, got %q", user.PasswordHash)
	}
	if len(mail.sent) != 1 || mail.sent[0].To != "new.worker@example.com" {
		t.Fatalf("expected welcome email, got %+v", mail.sent)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected 1 stored user")
	}
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	svc, _, roles, _ := newTestService(t)
	roleID := addRole(roles, enums.RoleTypeEmployee)

	input := CreateInput{Email: "worker@example.com", FirstName: "A", LastName: "B", RoleID: roleID}
	if _, err := svc.Create(context.Background(), input); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(context.Background(), input)
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateRejectsUnknownRole(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, err := svc.Create(context.Background(), CreateInput{
		Email:     "worker@example.com",
		FirstName: "A",
		LastName:  "B",
		RoleID:    uuid.New(),
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteRefusesSuperAdmin(t *testing.T) {
	svc, repo, roles, _ := newTestService(t)
	roleID := addRole(roles, enums.RoleTypeSuperAdmin)

	user := &models.User{
		Email:  "admin@example.com",
		RoleID: roleID,
		Role:   roles.roles[roleID],
	}
	repo.Create(context.Background(), user)

	err := svc.Delete(context.Background(), user.ID)
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(repo.deleted) != 0 {
		t.Fatal("delete must not reach the repo")
	}
}

func TestSetBlockedToggles(t *testing.T) {
	svc, repo, roles, _ := newTestService(t)
	roleID := addRole(roles, enums.RoleTypeEmployee)
	user := &models.User{Email: "worker@example.com", RoleID: roleID}
	repo.Create(context.Background(), user)

	updated, err := svc.SetBlocked(context.Background(), user.ID, true)
	if err != nil {
		t.Fatalf("block: %v", err)
	}
	if !updated.Blocked {
		t.Fatal("expected blocked user")
	}
}

func TestListRejectsInvalidCursor(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, err := svc.List(context.Background(), ListParams{Cursor: "%%%"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
