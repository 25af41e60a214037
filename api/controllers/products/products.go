package products

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/trainingdesk-backend/api/responses"
	"github.com/angelmondragon/trainingdesk-backend/api/validators"
	productsvc "github.com/angelmondragon/trainingdesk-backend/internal/products"
	"github.com/angelmondragon/trainingdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/trainingdesk-backend/pkg/errors"
	"github.com/angelmondragon/trainingdesk-backend/pkg/logger"
)

const maxSearchLen = 100

// List returns the knowledge base rows matching the query filters.
func List(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		params, err := parseListParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func parseListParams(r *http.Request) (productsvc.ListParams, error) {
	from, err := validators.ParseQueryDate(r, "from")
	if err != nil {
		return productsvc.ListParams{}, err
	}
	to, err := validators.ParseQueryDate(r, "to")
	if err != nil {
		return productsvc.ListParams{}, err
	}
	return productsvc.ListParams{
		Search:   validators.QueryString(r, "search", maxSearchLen),
		Category: enums.DocumentPurpose(strings.ToLower(validators.QueryString(r, "category", 40))),
		From:     from,
		To:       to,
		SortBy:   strings.ToLower(validators.QueryString(r, "sort_by", 40)),
		SortDir:  strings.ToLower(validators.QueryString(r, "sort_dir", 8)),
	}, nil
}

// Detail returns a product with its documents grouped by purpose.
func Detail(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		detail, err := svc.Get(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// Create accepts either a multipart form (file parts named by purpose) or a JSON body
// describing the files.
func Create(svc productsvc.Service, maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var (
			input productsvc.CreateInput
			err   error
		)
		if isMultipart(r) {
			input, err = createInputFromForm(w, r, maxUploadBytes)
		} else {
			err = validators.DecodeJSONPatch(r, &input)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/")
}

func createInputFromForm(w http.ResponseWriter, r *http.Request, maxUploadBytes int64) (productsvc.CreateInput, error) {
	form, err := validators.ParseUpload(w, r, maxUploadBytes)
	if err != nil {
		return productsvc.CreateInput{}, err
	}
	defer func() { _ = form.RemoveAll() }()

	groups, err := groupsFromForm(form)
	if err != nil {
		return productsvc.CreateInput{}, err
	}
	return productsvc.CreateInput{
		Name:        validators.FormValue(form, "name", 200),
		Description: validators.FormValue(form, "description", 2000),
		Country:     validators.FormValue(form, "country", 100),
		Region:      validators.FormValue(form, "region", 100),
		Groups:      groups,
	}, nil
}

func groupsFromForm(form *multipart.Form) ([]productsvc.DocumentGroup, error) {
	for field := range form.File {
		if !enums.DocumentPurpose(field).IsValid() {
			return nil, pkgerrors.Validation("validation failed", pkgerrors.FieldErrors{field: "is not a document purpose"})
		}
	}

	var groups []productsvc.DocumentGroup
	for _, purpose := range enums.DocumentPurposes() {
		headers := form.File[purpose.String()]
		if len(headers) == 0 {
			continue
		}
		files, err := validators.SniffFiles(headers)
		if err != nil {
			return nil, err
		}
		groups = append(groups, productsvc.DocumentGroup{Purpose: purpose, Files: files})
	}
	return groups, nil
}

type selectRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

func Selected(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		product, err := svc.Selected(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func Select(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		var body selectRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Select(r.Context(), strings.TrimSpace(body.ProductID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ClearSelection(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		if err := svc.ClearSelection(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
