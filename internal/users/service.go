package users

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/trainingdesk-backend/internal/schema"
	"github.com/angelmondragon/trainingdesk-backend/internal/store"
	"github.com/angelmondragon/trainingdesk-backend/pkg/config"
	"github.com/angelmondragon/trainingdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/trainingdesk-backend/pkg/errors"
	"github.com/angelmondragon/trainingdesk-backend/pkg/logger"
	"github.com/angelmondragon/trainingdesk-backend/pkg/security"
	"github.com/google/uuid"
)

type Store interface {
	Dispatch(ctx context.Context, action store.Action) error
	FilteredUsers() ([]store.User, string)
	User(id string) (store.User, bool)
	UserByEmail(email string) (store.User, bool)
	SelectedUser() (store.User, bool)
}

type Service interface {
	List(ctx context.Context, params ListParams) ([]store.User, error)
	Get(ctx context.Context, id string) (*store.User, error)
	Create(ctx context.Context, actor Actor, input Input) (*store.User, error)
	Update(ctx context.Context, actor Actor, id string, input Input) (*store.User, error)
	Delete(ctx context.Context, actor Actor, id string) error
	Select(ctx context.Context, id string) (*store.User, error)
	ClearSelection(ctx context.Context) error
	Selected(ctx context.Context) (*store.User, error)
}

type ServiceParams struct {
	Store     Store
	Logger    *logger.Logger
	Passwords config.PasswordConfig
	// SaveDelay simulates a slow backend before each create or update.
	SaveDelay time.Duration
	Now       func() time.Time
	NewID     func() string
}

type service struct {
	store     Store
	logg      *logger.Logger
	passwords config.PasswordConfig
	saveDelay time.Duration
	now       func() time.Time
	newID     func() string

	mu sync.Mutex
}

func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "user store required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	svc := &service{
		store:     params.Store,
		logg:      params.Logger,
		passwords: params.Passwords,
		saveDelay: params.SaveDelay,
		now:       params.Now,
		newID:     params.NewID,
	}
	if svc.now == nil {
		svc.now = func() time.Time { return time.Now().UTC() }
	}
	if svc.newID == nil {
		svc.newID = uuid.NewString
	}
	return svc, nil
}

func (s *service) List(ctx context.Context, params ListParams) ([]store.User, error) {
	if err := schema.Struct(params); err != nil {
		return nil, err
	}
	if params.From != nil && params.To != nil && params.From.After(*params.To) {
		return nil, pkgerrors.Validation("validation failed", pkgerrors.FieldErrors{"from": "must not be after to"})
	}

	s.mu.Lock()
	err := s.store.Dispatch(ctx, store.FilterUsers{Term: params.Search})
	filtered, _ := s.store.FilteredUsers()
	s.mu.Unlock()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "filter users")
	}

	out := make([]store.User, 0, len(filtered))
	for _, u := range filtered {
		if params.Role != "" && u.Role != params.Role {
			continue
		}
		if params.Status == StatusActive && !u.IsActive || params.Status == StatusInactive && u.IsActive {
			continue
		}
		if !inRange(u.CreatedAt, params.From, params.To) {
			continue
		}
		out = append(out, u)
	}
	sortUsers(out, params.SortBy, params.SortDir)
	return out, nil
}

func (s *service) Get(ctx context.Context, id string) (*store.User, error) {
	u, ok := s.store.User(id)
	if !ok {
		return nil, pkgerrors.NotFound("user", id)
	}
	return &u, nil
}

func (s *service) Create(ctx context.Context, actor Actor, input Input) (*store.User, error) {
	input = normalize(input)
	if err := schema.Struct(input); err != nil {
		return nil, err
	}
	if err := schema.Var("password", input.Password, "required,min=6"); err != nil {
		return nil, err
	}
	if err := authorize(actor, input.Role); err != nil {
		return nil, err
	}
	if _, taken := s.store.UserByEmail(input.Email); taken {
		return nil, emailTaken(input.Email)
	}

	hash, err := security.HashPassword(input.Password, s.passwords)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// re-check: another create may have claimed the email during the delay
	if _, taken := s.store.UserByEmail(input.Email); taken {
		return nil, emailTaken(input.Email)
	}

	now := s.now()
	user := apply(store.User{
		ID:           s.newID(),
		PasswordHash: hash,
		CreatedBy:    actor.Name,
		CreatedAt:    now,
		JoiningDate:  startOfDay(now),
	}, input)
	user.UpdatedAt = now

	if err := s.store.Dispatch(ctx, store.AddUser{User: user}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add user")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"user_id":    user.ID,
		"role":       user.Role,
		"created_by": actor.ID,
	}), "users.created")
	return &user, nil
}

func (s *service) Update(ctx context.Context, actor Actor, id string, input Input) (*store.User, error) {
	input = normalize(input)
	if input.Password != "" {
		return nil, pkgerrors.Validation("validation failed", pkgerrors.FieldErrors{"password": "is not allowed"})
	}
	if err := schema.Struct(input); err != nil {
		return nil, err
	}
	existing, ok := s.store.User(id)
	if !ok {
		return nil, pkgerrors.NotFound("user", id)
	}
	if err := authorize(actor, existing.Role); err != nil {
		return nil, err
	}
	if err := authorize(actor, input.Role); err != nil {
		return nil, err
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok = s.store.User(id)
	if !ok {
		return nil, pkgerrors.NotFound("user", id)
	}
	if other, taken := s.store.UserByEmail(input.Email); taken && other.ID != id {
		return nil, emailTaken(input.Email)
	}

	user := apply(existing, input)
	user.UpdatedAt = s.now()
	if err := s.store.Dispatch(ctx, store.UpdateUser{User: user}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"user_id":    user.ID,
		"updated_by": actor.ID,
	}), "users.updated")
	return &user, nil
}

func (s *service) Delete(ctx context.Context, actor Actor, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.store.User(id)
	if !ok {
		return pkgerrors.NotFound("user", id)
	}
	if err := authorize(actor, existing.Role); err != nil {
		return err
	}
	if err := s.store.Dispatch(ctx, store.DeleteUser{ID: id}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"user_id":    id,
		"deleted_by": actor.ID,
	}), "users.deleted")
	return nil
}

func (s *service) Select(ctx context.Context, id string) (*store.User, error) {
	u, ok := s.store.User(id)
	if !ok {
		return nil, pkgerrors.NotFound("user", id)
	}
	if err := s.store.Dispatch(ctx, store.SetSelectedUser{User: &u}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "select user")
	}
	return &u, nil
}

func (s *service) ClearSelection(ctx context.Context) error {
	if err := s.store.Dispatch(ctx, store.SetSelectedUser{}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear user selection")
	}
	return nil
}

func (s *service) Selected(ctx context.Context) (*store.User, error) {
	u, ok := s.store.SelectedUser()
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *service) wait(ctx context.Context) error {
	if s.saveDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.saveDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// authorize keeps sub-admins to trainer and trainee accounts.
func authorize(actor Actor, role enums.UserRole) error {
	if !actor.Role.CanManageUsers() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "role cannot manage users")
	}
	if actor.Role == enums.UserRoleSubAdmin && role == enums.UserRoleSubAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "sub-admins cannot manage sub-admin accounts")
	}
	return nil
}

func emailTaken(email string) error {
	return pkgerrors.Newf(pkgerrors.CodeConflict, "email %q is already in use", email)
}

func normalize(in Input) Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.ContactNumber = strings.TrimSpace(in.ContactNumber)
	in.Country = strings.TrimSpace(in.Country)
	in.Region = strings.TrimSpace(in.Region)
	in.PreferredRegion = strings.TrimSpace(in.PreferredRegion)
	in.UserType = strings.TrimSpace(in.UserType)
	in.ReportingManager = strings.TrimSpace(in.ReportingManager)
	in.Department = strings.TrimSpace(in.Department)
	in.EmployeeCode = strings.TrimSpace(in.EmployeeCode)
	return in
}

// apply copies the editable fields onto u, leaving identity, credentials and audit fields alone.
func apply(u store.User, in Input) store.User {
	u.Name = in.Name
	u.Email = in.Email
	u.Role = in.Role
	u.ContactNumber = in.ContactNumber
	u.Country = in.Country
	u.Region = in.Region
	u.IsLocked = in.IsLocked
	u.IsActive = in.IsActive
	u.IsUserVerified = in.IsUserVerified
	u.PreferredTheme = in.PreferredTheme
	u.PreferredLanguage = in.PreferredLanguage
	u.PreferredRegion = in.PreferredRegion
	u.UserType = in.UserType
	u.ReportingManager = in.ReportingManager
	u.Department = in.Department
	u.EmployeeCode = in.EmployeeCode
	if in.JoiningDate != nil {
		u.JoiningDate = in.JoiningDate.UTC()
	}
	return u
}

func inRange(createdAt time.Time, from, to *time.Time) bool {
	if from != nil && createdAt.Before(startOfDay(*from)) {
		return false
	}
	if to != nil && !createdAt.Before(startOfDay(*to).AddDate(0, 0, 1)) {
		return false
	}
	return true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sortUsers(users []store.User, by, dir string) {
	if by == "" {
		return
	}
	slices.SortStableFunc(users, func(a, b store.User) int {
		var c int
		switch by {
		case SortByEmail:
			c = cmp.Compare(a.Email, b.Email)
		case SortByRole:
			c = cmp.Compare(a.Role, b.Role)
		case SortByRegion:
			c = cmp.Compare(strings.ToLower(a.Region), strings.ToLower(b.Region))
		case SortByCreatedAt:
			c = a.CreatedAt.Compare(b.CreatedAt)
		case SortByLastLogin:
			c = compareLogin(a.LastLogin, b.LastLogin)
		default:
			c = cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
		if dir == SortDesc {
			return -c
		}
		return c
	})
}

// compareLogin orders never-logged-in users first.
func compareLogin(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}
