package documents

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/trainingdesk-backend/api/responses"
	"github.com/angelmondragon/trainingdesk-backend/api/validators"
	docsvc "github.com/angelmondragon/trainingdesk-backend/internal/documents"
	"github.com/angelmondragon/trainingdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/trainingdesk-backend/pkg/errors"
	"github.com/angelmondragon/trainingdesk-backend/pkg/logger"
)

// filesField is the multipart field carrying uploaded files.
const filesField = "files"

func List(svc docsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "document service unavailable"))
			return
		}
		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		docs, err := svc.ListByProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, docs)
	}
}

// Upload attaches files under one purpose to an existing product.
func Upload(svc docsvc.Service, maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "document service unavailable"))
			return
		}
		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input docsvc.UploadInput
		if strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/") {
			form, err := validators.ParseUpload(w, r, maxUploadBytes)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			defer func() { _ = form.RemoveAll() }()

			files, err := validators.SniffFiles(form.File[filesField])
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input = docsvc.UploadInput{
				Purpose: enums.DocumentPurpose(strings.ToLower(validators.FormValue(form, "purpose", 40))),
				Files:   files,
			}
		} else if err := validators.DecodeJSONPatch(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.ProductID = productID

		docs, err := svc.Upload(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, docs)
	}
}

func Delete(svc docsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "document service unavailable"))
			return
		}
		documentID := strings.TrimSpace(chi.URLParam(r, "documentId"))
		if documentID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "document id is required"))
			return
		}
		if err := svc.Delete(r.Context(), documentID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

type deleteManyRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

// DeleteMany removes several documents; unknown ids are reported, not fatal.
func DeleteMany(svc docsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "document service unavailable"))
			return
		}
		var body deleteManyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.DeleteMany(r.Context(), body.IDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func productIDParam(r *http.Request) (string, error) {
	productID := strings.TrimSpace(chi.URLParam(r, "productId"))
	if productID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return productID, nil
}
