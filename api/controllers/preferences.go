package controllers

import (
	"net/http"

	"github.com/angelmondragon/trainingdesk-backend/api/middleware"
	"github.com/angelmondragon/trainingdesk-backend/api/responses"
	"github.com/angelmondragon/trainingdesk-backend/api/validators"
	"github.com/angelmondragon/trainingdesk-backend/internal/preferences"
	"github.com/angelmondragon/trainingdesk-backend/internal/store"
	pkgerrors "github.com/angelmondragon/trainingdesk-backend/pkg/errors"
	"github.com/angelmondragon/trainingdesk-backend/pkg/logger"
)

func PreferencesGet(svc preferences.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, ok := loadSettings(w, r, svc, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, settings.Preferences)
	}
}

func PreferencesUpdate(svc preferences.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "preferences service unavailable"))
			return
		}
		caller, err := settingsCaller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var patch store.PreferencesPatch
		if err := validators.DecodeJSONPatch(r, &patch); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		prefs, err := svc.UpdatePreferences(r.Context(), caller, patch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, prefs)
	}
}

func ProfileGet(svc preferences.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, ok := loadSettings(w, r, svc, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, settings.Profile)
	}
}

func ProfileUpdate(svc preferences.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "preferences service unavailable"))
			return
		}
		caller, err := settingsCaller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var patch store.ProfilePatch
		if err := validators.DecodeJSONPatch(r, &patch); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		profile, err := svc.UpdateProfile(r.Context(), caller, patch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

func loadSettings(w http.ResponseWriter, r *http.Request, svc preferences.Service, logg *logger.Logger) (*preferences.Settings, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "preferences service unavailable"))
		return nil, false
	}
	caller, err := settingsCaller(r)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	settings, err := svc.Get(r.Context(), caller)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	return settings, true
}

func settingsCaller(r *http.Request) (preferences.Caller, error) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		return preferences.Caller{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return preferences.Caller{UserID: p.UserID, Name: p.Name, Email: p.Email, Role: p.Role}, nil
}
