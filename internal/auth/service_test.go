package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staffhubhq/staffhub-backend/internal/menu"
	pkgauth "github.com/staffhubhq/staffhub-backend/pkg/auth"
	"github.com/staffhubhq/staffhub-backend/pkg/config"
	"github.com/staffhubhq/staffhub-backend/pkg/db/models"
	"github.com/staffhubhq/staffhub-backend/pkg/enums"
	pkgerrors "github.com/staffhubhq/staffhub-backend/pkg/errors"
	"github.com/staffhubhq/staffhub-backend/pkg/logger"
	"github.com/staffhubhq/staffhub-backend/pkg/mailer"
	"github.com/staffhubhq/staffhub-backend/pkg/security"
)

type fakeUsers struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]*models.User{}, byID: map[uuid.UUID]*models.User{}}
}

func (f *fakeUsers) Create(ctx context.Context, user *models.User) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return duplicateError{}
	}
	user.ID = uuid.New()
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return nil
}
func (f *fakeUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}
func (f *fakeUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}
func (f *fakeUsers) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if user, ok := f.byID[id]; ok {
		user.LastLoginAt = &at
	}
	return nil
}

type duplicateError struct{}

func (duplicateError) Error() string { return "duplicate key value violates unique constraint" }

type fakeRoles struct {
	employee *models.Role
}

func (f *fakeRoles) FindByType(ctx context.Context, roleType enums.RoleType) (*models.Role, error) {
	if f.employee != nil && f.employee.Type == roleType {
		return f.employee, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeSessions struct {
	generated []string
	revoked   []string
	rotateErr error
}

func (f *fakeSessions) Generate(ctx context.Context, accessID string) (string, error) {
	f.generated = append(f.generated, accessID)
	return "refresh-" + accessID, nil
}
func (f *fakeSessions) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if f.rotateErr != nil {
		return "", "", f.rotateErr
	}
	newID := uuid.NewString()
	return newID, "refresh-" + newID, nil
}
func (f *fakeSessions) Revoke(ctx context.Context, accessID string) error {
	f.revoked = append(f.revoked, accessID)
	return nil
}

type fakeMenu struct{}

func (fakeMenu) ForRole(ctx context.Context, roleID uuid.UUID) ([]menu.Entry, error) {
	return []menu.Entry{{Name: "Dashboard", Path: "/dashboard"}}, nil
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

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-at-least-32-characters",
		Issuer:            "staffhub-test",
		ExpirationMinutes: 15,
	}
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

type fixture struct {
	svc      *Service
	users    *fakeUsers
	sessions *fakeSessions
	mail     *captureMailer
	role     *models.Role
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:    newFakeUsers(),
		sessions: &fakeSessions{},
		mail:     &captureMailer{},
		role: &models.Role{
			ID:   uuid.New(),
			Name: "Employee",
			Type: enums.RoleTypeEmployee,
		},
	}
	svc, err := NewService(ServiceParams{
		Users:       f.users,
		Roles:       &fakeRoles{employee: f.role},
		Sessions:    f.sessions,
		Menu:        fakeMenu{},
		Mailer:      f.mail,
		Logger:      logger.New(logger.Options{ServiceName: "test"}),
		JWTCfg:      testJWTConfig(),
		PasswordCfg: fastPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	f.svc = svc
	return f
}

func (f *fixture) addConfirmedUser(t *testing.T, email, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, fastPasswordConfig())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Test",
		LastName:     "User",
		Confirmed:    true,
		RoleID:       f.role.ID,
		Role:         f.role,
	}
	if err := f.users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestRegisterAssignsEmployeeRole(t *testing.T) {
	f := newFixture(t)

	user, err := f.svc.Register(context.Background(), RegisterInput{
		Email:     "New@Example.com",
		Password:  "supersecret",
		FirstName: "New",
		LastName:  "User",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.RoleID != f.role.ID {
		t.Fatalf("expected employee role, got %s", user.RoleID)
	}
	if user.Confirmed {
		t.Fatal("self-registered accounts must start unconfirmed")
	}
	if user.Email != "new@example.com" {
		t.Fatalf("email must be lowercased, got %q", user.Email)
	}
	if len(f.mail.sent) != 1 {
		t.Fatalf("expected confirmation email, got %d", len(f.mail.sent))
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Register(context.Background(), RegisterInput{
		Email:     "new@example.com",
		Password:  "short",
		FirstName: "New",
		LastName:  "User",
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	input := RegisterInput{Email: "new@example.com", Password: "supersecret", FirstName: "A", LastName: "B"}
	if _, err := f.svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := f.svc.Register(context.Background(), input)
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginIssuesSessionWithMenu(t *testing.T) {
	f := newFixture(t)
	user := f.addConfirmedUser(t, "worker@example.com", "supersecret")

	sess, err := f.svc.Login(context.Background(), LoginInput{Email: "Worker@Example.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.AccessToken == "" || sess.RefreshToken == "" {
		t.Fatal("expected token pair")
	}
	if sess.User.ID != user.ID || sess.User.RoleType != enums.RoleTypeEmployee {
		t.Fatalf("unexpected user summary: %+v", sess.User)
	}
	if len(sess.Menu) != 1 {
		t.Fatalf("expected menu tree, got %+v", sess.Menu)
	}
	if len(f.sessions.generated) != 1 {
		t.Fatalf("expected 1 stored session, got %d", len(f.sessions.generated))
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), sess.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID || claims.ID != f.sessions.generated[0] {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if user.LastLoginAt == nil {
		t.Fatal("expected last login timestamp")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture(t)
	f.addConfirmedUser(t, "worker@example.com", "supersecret")

	_, err := f.svc.Login(context.Background(), LoginInput{Email: "worker@example.com", Password: "wrong-pass"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "whatever123"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginBlockedAndUnconfirmed(t *testing.T) {
	f := newFixture(t)
	blocked := f.addConfirmedUser(t, "blocked@example.com", "supersecret")
	blocked.Blocked = true

	_, err := f.svc.Login(context.Background(), LoginInput{Email: "blocked@example.com", Password: "supersecret"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for blocked, got %v", err)
	}

	pending := f.addConfirmedUser(t, "pending@example.com", "supersecret")
	pending.Confirmed = false
	_, err = f.svc.Login(context.Background(), LoginInput{Email: "pending@example.com", Password: "supersecret"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for unconfirmed, got %v", err)
	}
}

func TestRefreshRotatesExpiredToken(t *testing.T) {
	f := newFixture(t)
	user := f.addConfirmedUser(t, "worker@example.com", "supersecret")

	// token minted an hour ago with a 15 minute ttl has lapsed
	expired, err := pkgauth.MintAccessToken(testJWTConfig(), time.Now().Add(-time.Hour), pkgauth.AccessTokenPayload{
		UserID:   user.ID,
		RoleID:   user.RoleID,
		RoleType: enums.RoleTypeEmployee,
		JTI:      "old-access-id",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	sess, err := f.svc.Refresh(context.Background(), expired, "refresh-old-access-id")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if sess.AccessToken == "" || sess.RefreshToken == "" {
		t.Fatal("expected fresh token pair")
	}
	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), sess.AccessToken)
	if err != nil {
		t.Fatalf("parse new token: %v", err)
	}
	if claims.ID == "old-access-id" {
		t.Fatal("expected a new access id")
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	f := newFixture(t)
	if err := f.svc.Logout(context.Background(), "some-access-id"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(f.sessions.revoked) != 1 || f.sessions.revoked[0] != "some-access-id" {
		t.Fatalf("expected revoked session, got %+v", f.sessions.revoked)
	}
}

func TestMeReturnsProfileAndMenu(t *testing.T) {
	f := newFixture(t)
	user := f.addConfirmedUser(t, "worker@example.com", "supersecret")

	profile, err := f.svc.Me(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if profile.User.Email != "worker@example.com" || len(profile.Menu) != 1 {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}
