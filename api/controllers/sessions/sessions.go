package sessions

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/trainingdesk-backend/api/middleware"
	"github.com/angelmondragon/trainingdesk-backend/api/responses"
	"github.com/angelmondragon/trainingdesk-backend/api/validators"
	sessionsvc "github.com/angelmondragon/trainingdesk-backend/internal/sessions"
	"github.com/angelmondragon/trainingdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/trainingdesk-backend/pkg/errors"
	"github.com/angelmondragon/trainingdesk-backend/pkg/logger"
)

type startRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// Length is enforced by the service after trimming.
type messageRequest struct {
	Content string `json:"content" validate:"required"`
}

// History lists the caller's archived sessions, optionally filtered by status and product.
// Admins see every user's sessions.
func History(svc sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session service unavailable"))
			return
		}
		params := sessionsvc.HistoryParams{
			Status:    enums.SessionStatus(strings.ToLower(validators.QueryString(r, "status", 20))),
			ProductID: validators.QueryString(r, "product_id", 64),
		}
		owner, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		views, err := svc.History(r.Context(), owner, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

func Start(svc sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session service unavailable"))
			return
		}
		owner, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body startRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Start(r.Context(), owner, strings.TrimSpace(body.ProductID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

func Get(svc sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session service unavailable"))
			return
		}
		sessionID := strings.TrimSpace(chi.URLParam(r, "sessionId"))
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session id is required"))
			return
		}
		owner, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Get(r.Context(), owner, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func Current(svc sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return transition(svc, logg, sessionsvc.Service.Current)
}

func AcceptGuidelines(svc sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return transition(svc, logg, sessionsvc.Service.AcceptGuidelines)
}

func CompleteVideo(svc sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return transition(svc, logg, sessionsvc.Service.CompleteVideo)
}

func Complete(svc sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return transition(svc, logg, sessionsvc.Service.Complete)
}

func Abandon(svc sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return transition(svc, logg, sessionsvc.Service.Abandon)
}

// SendMessage appends a trainee message and returns the assistant reply when one arrived.
func SendMessage(svc sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session service unavailable"))
			return
		}
		owner, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body messageRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.SendMessage(r.Context(), owner, body.Content)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

type sessionStep func(sessionsvc.Service, context.Context, sessionsvc.Owner) (*sessionsvc.SessionView, error)

func transition(svc sessionsvc.Service, logg *logger.Logger, step sessionStep) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session service unavailable"))
			return
		}
		owner, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := step(svc, r.Context(), owner)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func ownerFromRequest(r *http.Request) (sessionsvc.Owner, error) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		return sessionsvc.Owner{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return sessionsvc.Owner{UserID: p.UserID, Role: p.Role}, nil
}
