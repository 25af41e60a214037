package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/trainingdesk-backend/internal/schema"
	"github.com/angelmondragon/trainingdesk-backend/internal/store"
	pkgAuth "github.com/angelmondragon/trainingdesk-backend/pkg/auth"
	"github.com/angelmondragon/trainingdesk-backend/pkg/config"
	"github.com/angelmondragon/trainingdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/trainingdesk-backend/pkg/errors"
	"github.com/angelmondragon/trainingdesk-backend/pkg/logger"
	"github.com/angelmondragon/trainingdesk-backend/pkg/security"
)

const (
	invalidCredentialsMessage = "invalid credentials"

	// AdminID is the principal id of the configured operator account.
	AdminID = "admin"
)

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Me(ctx context.Context, principal Principal) (*MeResponse, error)
	ChangePassword(ctx context.Context, principal Principal, req ChangePasswordRequest) error
	Authorize(ctx context.Context, claims Principal) (*Principal, error)
}

type Store interface {
	Dispatch(ctx context.Context, action store.Action) error
	User(id string) (store.User, bool)
	UserByEmail(email string) (store.User, bool)
}

// AdminAccount is the operator login configured outside the managed user list.
type AdminAccount struct {
	Name         string
	Email        string
	PasswordHash string
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Store     Store
	Logger    *logger.Logger
	Admin     AdminAccount
	JWTConfig config.JWTConfig
	Passwords config.PasswordConfig
	// ChangeDelay simulates a slow backend before a password change is applied.
	ChangeDelay time.Duration
	Now         func() time.Time
}

type service struct {
	store       Store
	logg        *logger.Logger
	jwtCfg      config.JWTConfig
	passwords   config.PasswordConfig
	changeDelay time.Duration
	now         func() time.Time

	mu    sync.Mutex
	admin AdminAccount
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "user store required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	if strings.TrimSpace(params.Admin.Email) == "" || params.Admin.PasswordHash == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "admin account required")
	}
	svc := &service{
		store:       params.Store,
		logg:        params.Logger,
		jwtCfg:      params.JWTConfig,
		passwords:   params.Passwords,
		changeDelay: params.ChangeDelay,
		now:         params.Now,
		admin:       params.Admin,
	}
	if svc.now == nil {
		svc.now = func() time.Time { return time.Now().UTC() }
	}
	return svc, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := schema.Struct(req); err != nil {
		return nil, err
	}

	principal, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if principal.Role != enums.UserRoleAdmin {
		if err := s.recordLogin(ctx, principal.ID, now); err != nil {
			return nil, err
		}
	}

	token, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID: principal.ID,
		Name:   principal.Name,
		Email:  principal.Email,
		Role:   principal.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	ctx = s.logg.WithUserID(ctx, principal.ID)
	s.logg.Info(s.logg.WithActorRole(ctx, principal.Role.String()), "auth.login")
	return &LoginResponse{
		AccessToken: token,
		ExpiresAt:   now.Add(s.jwtCfg.TTL()),
		User:        *principal,
	}, nil
}

func (s *service) Me(ctx context.Context, principal Principal) (*MeResponse, error) {
	if principal.Role == enums.UserRoleAdmin {
		admin := s.adminAccount()
		return &MeResponse{Principal: Principal{ID: AdminID, Name: admin.Name, Email: admin.Email, Role: enums.UserRoleAdmin}}, nil
	}
	user, ok := s.store.User(principal.ID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
	}
	return &MeResponse{Principal: principalOf(user), Account: &user}, nil
}

// Authorize resolves token claims against the current account. Deleted accounts
// are rejected as unauthenticated; locked or inactive ones as forbidden. The
// returned principal carries the account's current name and role.
func (s *service) Authorize(ctx context.Context, claims Principal) (*Principal, error) {
	if claims.Role == enums.UserRoleAdmin || claims.ID == AdminID {
		admin := s.adminAccount()
		if claims.ID != AdminID || !strings.EqualFold(claims.Email, strings.TrimSpace(admin.Email)) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
		}
		return &Principal{ID: AdminID, Name: admin.Name, Email: admin.Email, Role: enums.UserRoleAdmin}, nil
	}

	user, ok := s.store.User(claims.ID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
	}
	if user.IsLocked {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is locked")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is inactive")
	}
	principal := principalOf(user)
	if principal.Role != claims.Role {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"user_id":    user.ID,
			"token_role": claims.Role.String(),
			"role":       principal.Role.String(),
		}), "auth.role_changed_since_login")
	}
	return &principal, nil
}

func (s *service) ChangePassword(ctx context.Context, principal Principal, req ChangePasswordRequest) error {
	if err := schema.Struct(req); err != nil {
		return err
	}
	if err := security.CheckNewPassword(req.CurrentPassword, req.NewPassword, req.ConfirmPassword, s.passwords.MinLength); err != nil {
		return passwordRuleError(err, s.passwords.MinLength)
	}

	currentHash, err := s.passwordHash(principal)
	if err != nil {
		return err
	}
	valid, err := security.VerifyPassword(req.CurrentPassword, currentHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return pkgerrors.Validation("validation failed", pkgerrors.FieldErrors{"current_password": "is incorrect"})
	}

	hash, err := security.HashPassword(req.NewPassword, s.passwords)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.wait(ctx); err != nil {
		return err
	}

	if principal.Role == enums.UserRoleAdmin {
		s.mu.Lock()
		s.admin.PasswordHash = hash
		s.mu.Unlock()
	} else {
		user, ok := s.store.User(principal.ID)
		if !ok {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
		}
		user.PasswordHash = hash
		user.UpdatedAt = s.now()
		if err := s.store.Dispatch(ctx, store.UpdateUser{User: user}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
		}
	}

	s.logg.Info(s.logg.WithUserID(ctx, principal.ID), "auth.password_changed")
	return nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*Principal, error) {
	admin := s.adminAccount()
	if strings.EqualFold(email, strings.TrimSpace(admin.Email)) {
		if err := verify(password, admin.PasswordHash); err != nil {
			return nil, err
		}
		return &Principal{ID: AdminID, Name: admin.Name, Email: admin.Email, Role: enums.UserRoleAdmin}, nil
	}

	user, ok := s.store.UserByEmail(email)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if err := verify(password, user.PasswordHash); err != nil {
		return nil, err
	}
	if user.IsLocked {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is locked")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is inactive")
	}
	principal := principalOf(user)
	return &principal, nil
}

func (s *service) recordLogin(ctx context.Context, userID string, at time.Time) error {
	user, ok := s.store.User(userID)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user.LastLogin = &at
	if err := s.store.Dispatch(ctx, store.UpdateUser{User: user}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	return nil
}

func (s *service) passwordHash(principal Principal) (string, error) {
	if principal.Role == enums.UserRoleAdmin {
		return s.adminAccount().PasswordHash, nil
	}
	user, ok := s.store.User(principal.ID)
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
	}
	return user.PasswordHash, nil
}

func (s *service) adminAccount() AdminAccount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.admin
}

func (s *service) wait(ctx context.Context) error {
	if s.changeDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.changeDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func verify(password, hash string) error {
	valid, err := security.VerifyPassword(password, hash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return nil
}

func passwordRuleError(err error, minLength int) error {
	switch {
	case errors.Is(err, security.ErrPasswordMismatch):
		return pkgerrors.Validation("validation failed", pkgerrors.FieldErrors{"confirm_password": "must match new_password"})
	case errors.Is(err, security.ErrPasswordTooShort):
		return pkgerrors.Validation("validation failed", pkgerrors.FieldErrors{"new_password": fmt.Sprintf("must be at least %d characters", minLength)})
	case errors.Is(err, security.ErrPasswordUnchanged):
		return pkgerrors.Validation("validation failed", pkgerrors.FieldErrors{"new_password": "must differ from current_password"})
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func principalOf(u store.User) Principal {
	return Principal{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
