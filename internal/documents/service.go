package documents

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/trainingdesk-backend/internal/schema"
	"github.com/angelmondragon/trainingdesk-backend/internal/store"
	"github.com/angelmondragon/trainingdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/trainingdesk-backend/pkg/errors"
	"github.com/angelmondragon/trainingdesk-backend/pkg/logger"
	"github.com/google/uuid"
)

const DefaultMaxPerPurpose = 10

type Store interface {
	Dispatch(ctx context.Context, action store.Action) error
	Product(id string) (store.Product, bool)
	Document(id string) (store.Document, bool)
	DocumentsByProduct(productID string) []store.Document
}

type Service interface {
	ListByProduct(ctx context.Context, productID string) ([]store.Document, error)
	Upload(ctx context.Context, input UploadInput) ([]store.Document, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (*DeleteManyResult, error)
}

type UploadInput struct {
	ProductID string                `json:"product_id" validate:"required"`
	Purpose   enums.DocumentPurpose `json:"purpose" validate:"required,enum"`
	Files     []FileInput           `json:"files" validate:"required,min=1,dive"`
}

type DeleteManyResult struct {
	Deleted  []string `json:"deleted"`
	NotFound []string `json:"not_found"`
}

type ServiceParams struct {
	Store         Store
	Logger        *logger.Logger
	MaxPerPurpose int
	// CapLock serialises every writer that checks or changes per-purpose counts.
	// Share it with the product service so product creation and uploads agree.
	CapLock sync.Locker
	Now     func() time.Time
	NewID   func() string
}

type service struct {
	store         Store
	logg          *logger.Logger
	maxPerPurpose int
	now           func() time.Time
	newID         func() string
	capLock       sync.Locker
}

func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "document store required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	svc := &service{
		store:         params.Store,
		logg:          params.Logger,
		maxPerPurpose: params.MaxPerPurpose,
		now:           params.Now,
		newID:         params.NewID,
		capLock:       params.CapLock,
	}
	if svc.maxPerPurpose <= 0 {
		svc.maxPerPurpose = DefaultMaxPerPurpose
	}
	if svc.capLock == nil {
		svc.capLock = &sync.Mutex{}
	}
	if svc.now == nil {
		svc.now = func() time.Time { return time.Now().UTC() }
	}
	if svc.newID == nil {
		svc.newID = uuid.NewString
	}
	return svc, nil
}

func (s *service) ListByProduct(ctx context.Context, productID string) ([]store.Document, error) {
	if _, ok := s.store.Product(productID); !ok {
		return nil, pkgerrors.NotFound("product", productID)
	}
	return s.store.DocumentsByProduct(productID), nil
}

func (s *service) Upload(ctx context.Context, input UploadInput) ([]store.Document, error) {
	input.ProductID = strings.TrimSpace(input.ProductID)
	if err := schema.Struct(input); err != nil {
		return nil, err
	}
	if _, ok := s.store.Product(input.ProductID); !ok {
		return nil, pkgerrors.NotFound("product", input.ProductID)
	}
	docs, err := BuildDocuments(input.ProductID, input.Purpose, input.Files, s.newID, s.now())
	if err != nil {
		return nil, err
	}

	s.capLock.Lock()
	defer s.capLock.Unlock()

	existing := CountByPurpose(s.store.DocumentsByProduct(input.ProductID))[input.Purpose]
	if existing+len(docs) > s.maxPerPurpose {
		return nil, pkgerrors.Validation("document limit reached", pkgerrors.FieldErrors{
			"files": fmt.Sprintf("maximum %d documents per purpose; %d already uploaded", s.maxPerPurpose, existing),
		})
	}

	for _, doc := range docs {
		if err := s.store.Dispatch(ctx, store.AddDocument{Document: doc}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add document")
		}
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"product_id": input.ProductID,
		"purpose":    input.Purpose,
		"count":      len(docs),
	}), "documents.uploaded")
	return docs, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	s.capLock.Lock()
	defer s.capLock.Unlock()

	if _, ok := s.store.Document(id); !ok {
		return pkgerrors.NotFound("document", id)
	}
	if err := s.store.Dispatch(ctx, store.DeleteDocument{ID: id}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete document")
	}
	s.logg.Info(s.logg.WithField(ctx, "document_id", id), "documents.deleted")
	return nil
}

func (s *service) DeleteMany(ctx context.Context, ids []string) (*DeleteManyResult, error) {
	if len(ids) == 0 {
		return nil, pkgerrors.Validation("validation failed", pkgerrors.FieldErrors{"ids": "must contain at least 1 item(s)"})
	}

	s.capLock.Lock()
	defer s.capLock.Unlock()

	result := &DeleteManyResult{Deleted: []string{}, NotFound: []string{}}
	seen := make(map[string]struct{}, len(ids))
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := s.store.Document(id); !ok {
			result.NotFound = append(result.NotFound, id)
			continue
		}
		if err := s.store.Dispatch(ctx, store.DeleteDocument{ID: id}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete document")
		}
		result.Deleted = append(result.Deleted, id)
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"deleted":   len(result.Deleted),
		"not_found": len(result.NotFound),
	}), "documents.bulk_deleted")
	return result, nil
}

// BuildDocuments turns validated file inputs into documents for one product and purpose.
// It rejects any file that is not a PDF or DOCX.
func BuildDocuments(productID string, purpose enums.DocumentPurpose, files []FileInput, newID func() string, uploadedAt time.Time) ([]store.Document, error) {
	rejected := pkgerrors.FieldErrors{}
	docs := make([]store.Document, 0, len(files))
	for i, f := range files {
		fileType, ok := ResolveFileType(f)
		if !ok {
			rejected[fmt.Sprintf("files[%d]", i)] = "only PDF and DOCX files are allowed"
			continue
		}
		docs = append(docs, store.Document{
			ID:         newID(),
			ProductID:  productID,
			Name:       strings.TrimSpace(f.Name),
			Purpose:    purpose,
			FileType:   fileType,
			UploadedAt: uploadedAt,
		})
	}
	if len(rejected) > 0 {
		return nil, pkgerrors.Validation("unsupported file type", rejected)
	}
	return docs, nil
}

// CountByPurpose tallies documents per purpose.
func CountByPurpose(docs []store.Document) map[enums.DocumentPurpose]int {
	counts := make(map[enums.DocumentPurpose]int, len(enums.DocumentPurposes()))
	for _, d := range docs {
		counts[d.Purpose]++
	}
	return counts
}
