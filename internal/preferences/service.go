package preferences

import (
	"context"
	"strings"

	"github.com/angelmondragon/trainingdesk-backend/internal/schema"
	"github.com/angelmondragon/trainingdesk-backend/internal/store"
	"github.com/angelmondragon/trainingdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/trainingdesk-backend/pkg/errors"
	"github.com/angelmondragon/trainingdesk-backend/pkg/logger"
)

type Store interface {
	Dispatch(ctx context.Context, action store.Action) error
	Preferences() store.UIPreferences
	UserSettings(userID string) (store.UserSettings, bool)
	User(id string) (store.User, bool)
}

// Caller is the signed-in user whose settings are read or written.
type Caller struct {
	UserID string
	Name   string
	Email  string
	Role   enums.UserRole
}

// Settings is the combined settings page payload.
type Settings struct {
	Preferences store.UIPreferences `json:"preferences"`
	Profile     store.Profile       `json:"profile"`
}

type Service interface {
	Get(ctx context.Context, caller Caller) (*Settings, error)
	UpdatePreferences(ctx context.Context, caller Caller, patch store.PreferencesPatch) (*store.UIPreferences, error)
	UpdateProfile(ctx context.Context, caller Caller, patch store.ProfilePatch) (*store.Profile, error)
}

type ServiceParams struct {
	Store  Store
	Logger *logger.Logger
}

type service struct {
	store Store
	logg  *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "preferences store required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{store: params.Store, logg: params.Logger}, nil
}

func (s *service) Get(ctx context.Context, caller Caller) (*Settings, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	settings := s.settingsOf(caller)
	return &Settings{Preferences: settings.Preferences, Profile: settings.Profile}, nil
}

func (s *service) UpdatePreferences(ctx context.Context, caller Caller, patch store.PreferencesPatch) (*store.UIPreferences, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, pkgerrors.Validation("at least one preference is required", nil)
	}
	if err := schema.Struct(patch); err != nil {
		return nil, err
	}
	action := store.UpdatePreferences{UserID: caller.UserID, Base: s.baseProfile(caller), Patch: patch}
	if err := s.store.Dispatch(ctx, action); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update preferences")
	}
	prefs := s.settingsOf(caller).Preferences
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"user_id": caller.UserID, "theme": prefs.Theme}), "preferences.updated")
	return &prefs, nil
}

func (s *service) UpdateProfile(ctx context.Context, caller Caller, patch store.ProfilePatch) (*store.Profile, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	patch = trimProfilePatch(patch)
	if patch.IsEmpty() {
		return nil, pkgerrors.Validation("at least one profile field is required", nil)
	}
	if err := schema.Struct(patch); err != nil {
		return nil, err
	}
	action := store.UpdateProfile{UserID: caller.UserID, Base: s.baseProfile(caller), Patch: patch}
	if err := s.store.Dispatch(ctx, action); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}
	profile := s.settingsOf(caller).Profile
	s.logg.Info(s.logg.WithUserID(ctx, caller.UserID), "preferences.profile_updated")
	return &profile, nil
}

// settingsOf falls back to the store defaults and the account record until the
// caller saves something.
func (s *service) settingsOf(caller Caller) store.UserSettings {
	if settings, ok := s.store.UserSettings(caller.UserID); ok {
		return settings
	}
	return store.UserSettings{Preferences: s.store.Preferences(), Profile: s.baseProfile(caller)}
}

func (s *service) baseProfile(caller Caller) store.Profile {
	u, ok := s.store.User(caller.UserID)
	if !ok {
		return store.Profile{FullName: caller.Name, Email: caller.Email, Role: caller.Role.String()}
	}
	profile := store.Profile{
		FullName:        u.Name,
		Email:           u.Email,
		Role:            u.Role.String(),
		DateJoined:      u.JoiningDate,
		AssignedCountry: u.Country,
		AssignedRegion:  u.Region,
	}
	if u.LastLogin != nil {
		profile.LastLogin = *u.LastLogin
	}
	return profile
}

func requireCaller(caller Caller) error {
	if strings.TrimSpace(caller.UserID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "caller required")
	}
	return nil
}

func trimProfilePatch(patch store.ProfilePatch) store.ProfilePatch {
	for _, field := range []**string{&patch.FullName, &patch.Email, &patch.Role, &patch.AssignedCountry, &patch.AssignedRegion} {
		if *field != nil {
			trimmed := strings.TrimSpace(**field)
			*field = &trimmed
		}
	}
	return patch
}
