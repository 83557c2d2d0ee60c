package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/staffhubhq/staffhub-backend/internal/menu"
	pkgauth "github.com/staffhubhq/staffhub-backend/pkg/auth"
	"github.com/staffhubhq/staffhub-backend/pkg/auth/session"
	"github.com/staffhubhq/staffhub-backend/pkg/config"
	"github.com/staffhubhq/staffhub-backend/pkg/db"
	"github.com/staffhubhq/staffhub-backend/pkg/db/models"
	"github.com/staffhubhq/staffhub-backend/pkg/enums"
	pkgerrors "github.com/staffhubhq/staffhub-backend/pkg/errors"
	"github.com/staffhubhq/staffhub-backend/pkg/logger"
	"github.com/staffhubhq/staffhub-backend/pkg/mailer"
	"github.com/staffhubhq/staffhub-backend/pkg/security"
)

const minPasswordLength = 8

// UserStore is the persistence surface the auth flows need.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// RoleStore resolves the default role for self-registration.
type RoleStore interface {
	FindByType(ctx context.Context, roleType enums.RoleType) (*models.Role, error)
}

// SessionManager is the refresh-session surface backed by Redis.
type SessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// MenuResolver builds the navigation tree for a role.
type MenuResolver interface {
	ForRole(ctx context.Context, roleID uuid.UUID) ([]menu.Entry, error)
}

// ServiceParams groups dependencies for the auth service.
type ServiceParams struct {
	Users       UserStore
	Roles       RoleStore
	Sessions    SessionManager
	Menu        MenuResolver
	Mailer      mailer.Sender
	Logger      *logger.Logger
	JWTCfg      config.JWTConfig
	PasswordCfg config.PasswordConfig
}

// Service implements registration, login, and session lifecycle.
type Service struct {
	users       UserStore
	roles       RoleStore
	sessions    SessionManager
	menu        MenuResolver
	mailer      mailer.Sender
	logg        *logger.Logger
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	now         func() time.Time
}

// NewService builds an auth service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Users == nil {
		return nil, errors.New("user store is required")
	}
	if params.Roles == nil {
		return nil, errors.New("role store is required")
	}
	if params.Sessions == nil {
		return nil, errors.New("session manager is required")
	}
	if params.Menu == nil {
		return nil, errors.New("menu resolver is required")
	}
	if params.Mailer == nil {
		return nil, errors.New("mailer is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Service{
		users:       params.Users,
		roles:       params.Roles,
		sessions:    params.Sessions,
		menu:        params.Menu,
		mailer:      params.Mailer,
		logg:        params.Logger,
		jwtCfg:      params.JWTCfg,
		passwordCfg: params.PasswordCfg,
		now:         time.Now,
	}, nil
}

// RegisterInput carries the self-registration fields.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates a new unconfirmed account with the default employee role.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if firstName == "" || lastName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first and last name are required")
	}

	role, err := s.roles.FindByType(ctx, enums.RoleTypeEmployee)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "default employee role is missing")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		RoleID:       role.ID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a user with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating user")
	}

	s.mailer.SendAsync(ctx, mailer.Message{
		To:      email,
		Subject: "Confirm your StaffHub account",
		Body:    fmt.Sprintf("Hi %s,\n\nYour account has been created. An administrator will confirm it shortly.", firstName),
	})

	return user, nil
}

// LoginInput carries the credential pair.
type LoginInput struct {
	Email    string
	Password string
}

// UserSummary is the profile shape returned alongside tokens.
type UserSummary struct {
	ID        uuid.UUID      `json:"id"`
	Email     string         `json:"email"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	RoleID    uuid.UUID      `json:"roleId"`
	RoleName  string         `json:"roleName"`
	RoleType  enums.RoleType `json:"roleType"`
}

// Session is the login/refresh response: the token pair plus everything the
// SPA needs to render without a second round trip.
type Session struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserSummary  `json:"user"`
	Menu         []menu.Entry `json:"menu"`
}

// Login verifies credentials and opens a session. Invalid credentials,
// blocked accounts, and unconfirmed accounts all surface as UNAUTHORIZED.
func (s *Service) Login(ctx context.Context, input LoginInput) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidCredentials()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, invalidCredentials()
	}
	if user.Blocked {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account is blocked")
	}
	if !user.Confirmed {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account is not confirmed yet")
	}
	if user.Role == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user has no role loaded")
	}

	sess, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, s.now().UTC()); err != nil {
		s.logg.Warn(s.logg.WithUserID(ctx, user.ID.String()), "could not update last login timestamp")
	}
	return sess, nil
}

// Refresh rotates the refresh session and issues a fresh token pair. The
// expired access token identifies the session being rotated.
func (s *Service) Refresh(ctx context.Context, accessToken, refreshToken string) (*Session, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefreshToken, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotating session")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user no longer exists")
	}
	if user.Blocked {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account is blocked")
	}
	if user.Role == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user has no role loaded")
	}

	accessToken, err = pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID:   user.ID,
		RoleID:   user.RoleID,
		RoleType: user.Role.Type,
		JTI:      newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	menuTree, err := s.menu.ForRole(ctx, user.RoleID)
	if err != nil {
		return nil, err
	}

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		User:         summarize(user),
		Menu:         menuTree,
	}, nil
}

// Logout revokes the refresh session tied to the access token's jti.
func (s *Service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "access id is required")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoking session")
	}
	return nil
}

// Profile is the /me response.
type Profile struct {
	User UserSummary  `json:"user"`
	Menu []menu.Entry `json:"menu"`
}

// Me returns the caller's profile and navigation tree.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	menuTree, err := s.menu.ForRole(ctx, user.RoleID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: summarize(user), Menu: menuTree}, nil
}

func (s *Service) openSession(ctx context.Context, user *models.User) (*Session, error) {
	accessID := session.NewAccessID()
	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID:   user.ID,
		RoleID:   user.RoleID,
		RoleType: user.Role.Type,
		JTI:      accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	refreshToken, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing session")
	}

	menuTree, err := s.menu.ForRole(ctx, user.RoleID)
	if err != nil {
		return nil, err
	}

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         summarize(user),
		Menu:         menuTree,
	}, nil
}

func summarize(user *models.User) UserSummary {
	summary := UserSummary{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		RoleID:    user.RoleID,
	}
	if user.Role != nil {
		summary.RoleName = user.Role.Name
		summary.RoleType = user.Role.Type
	}
	return summary
}

func invalidCredentials() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
}
