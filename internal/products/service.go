package products

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/trainingdesk-backend/internal/documents"
	"github.com/angelmondragon/trainingdesk-backend/internal/schema"
	"github.com/angelmondragon/trainingdesk-backend/internal/store"
	"github.com/angelmondragon/trainingdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/trainingdesk-backend/pkg/errors"
	"github.com/angelmondragon/trainingdesk-backend/pkg/logger"
	"github.com/google/uuid"
)

type Store interface {
	Dispatch(ctx context.Context, action store.Action) error
	Products() []store.Product
	Product(id string) (store.Product, bool)
	SelectedProduct() (store.Product, bool)
	Documents() []store.Document
	DocumentsByProduct(productID string) []store.Document
}

type Service interface {
	List(ctx context.Context, params ListParams) ([]Summary, error)
	Get(ctx context.Context, id string) (*Detail, error)
	Create(ctx context.Context, input CreateInput) (*CreateResult, error)
	Select(ctx context.Context, id string) (*store.Product, error)
	ClearSelection(ctx context.Context) error
	Selected(ctx context.Context) (*store.Product, error)
}

type ServiceParams struct {
	Store         Store
	Logger        *logger.Logger
	MaxPerPurpose int
	// CapLock is the lock the document service holds while enforcing the cap.
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
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "product store required")
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
		svc.maxPerPurpose = documents.DefaultMaxPerPurpose
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

func (s *service) List(ctx context.Context, params ListParams) ([]Summary, error) {
	if err := schema.Struct(params); err != nil {
		return nil, err
	}
	if params.From != nil && params.To != nil && params.From.After(*params.To) {
		return nil, pkgerrors.Validation("validation failed", pkgerrors.FieldErrors{"from": "must not be after to"})
	}

	byProduct := make(map[string][]store.Document)
	for _, doc := range s.store.Documents() {
		byProduct[doc.ProductID] = append(byProduct[doc.ProductID], doc)
	}

	term := strings.ToLower(strings.TrimSpace(params.Search))
	rows := make([]Summary, 0)
	for _, p := range s.store.Products() {
		if term != "" && !matchesSearch(p, term) {
			continue
		}
		if !inRange(p.CreatedAt, params.From, params.To) {
			continue
		}
		row := Summary{
			Product:       p,
			DocumentCount: len(byProduct[p.ID]),
			Purposes:      purposesOf(byProduct[p.ID]),
		}
		if params.Category != "" && !slices.Contains(row.Purposes, params.Category) {
			continue
		}
		rows = append(rows, row)
	}

	sortSummaries(rows, params.SortBy, params.SortDir)
	return rows, nil
}

func (s *service) Get(ctx context.Context, id string) (*Detail, error) {
	product, ok := s.store.Product(id)
	if !ok {
		return nil, pkgerrors.NotFound("product", id)
	}
	docs := s.store.DocumentsByProduct(id)

	detail := &Detail{Product: product}
	for _, purpose := range enums.DocumentPurposes() {
		group := PurposeGroup{Purpose: purpose, Documents: []store.Document{}, Capacity: s.maxPerPurpose}
		for _, doc := range docs {
			if doc.Purpose == purpose {
				group.Documents = append(group.Documents, doc)
			}
		}
		group.Count = len(group.Documents)
		detail.Groups = append(detail.Groups, group)
	}
	return detail, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*CreateResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.Country = strings.TrimSpace(input.Country)
	input.Region = strings.TrimSpace(input.Region)
	if err := schema.Struct(input); err != nil {
		return nil, err
	}

	product := store.Product{
		ID:          s.newID(),
		Name:        input.Name,
		Description: input.Description,
		Country:     input.Country,
		Region:      input.Region,
		CreatedAt:   s.now(),
	}

	tooMany := pkgerrors.FieldErrors{}
	var docs []store.Document
	for i, group := range input.Groups {
		if len(group.Files) > s.maxPerPurpose {
			tooMany[fmt.Sprintf("groups[%d].files", i)] = fmt.Sprintf("must contain at most %d item(s)", s.maxPerPurpose)
			continue
		}
		built, err := documents.BuildDocuments(product.ID, group.Purpose, group.Files, s.newID, product.CreatedAt)
		if err != nil {
			return nil, err
		}
		docs = append(docs, built...)
	}
	if len(tooMany) > 0 {
		return nil, pkgerrors.Validation("document limit reached", tooMany)
	}

	if err := s.addWithDocuments(ctx, product, docs); err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"product_id": product.ID,
		"documents":  len(docs),
	}), "products.created")
	return &CreateResult{Product: product, Documents: docs}, nil
}

// addWithDocuments holds the cap lock from the moment the product becomes visible
// until its documents are counted, so a concurrent upload cannot slip past the cap.
func (s *service) addWithDocuments(ctx context.Context, product store.Product, docs []store.Document) error {
	s.capLock.Lock()
	defer s.capLock.Unlock()

	if err := s.store.Dispatch(ctx, store.AddProduct{Product: product}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add product")
	}
	for _, doc := range docs {
		if err := s.store.Dispatch(ctx, store.AddDocument{Document: doc}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add document")
		}
	}
	return nil
}

func (s *service) Select(ctx context.Context, id string) (*store.Product, error) {
	product, ok := s.store.Product(strings.TrimSpace(id))
	if !ok {
		return nil, pkgerrors.NotFound("product", id)
	}
	if err := s.store.Dispatch(ctx, store.SelectProduct{Product: product}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "select product")
	}
	return &product, nil
}

func (s *service) ClearSelection(ctx context.Context) error {
	if err := s.store.Dispatch(ctx, store.ClearSelectedProduct{}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear product selection")
	}
	return nil
}

func (s *service) Selected(ctx context.Context) (*store.Product, error) {
	product, ok := s.store.SelectedProduct()
	if !ok {
		return nil, nil
	}
	return &product, nil
}

func matchesSearch(p store.Product, term string) bool {
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Country), term) ||
		strings.Contains(strings.ToLower(p.Region), term)
}

// inRange treats to as inclusive through the end of its day.
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

func purposesOf(docs []store.Document) []enums.DocumentPurpose {
	counts := documents.CountByPurpose(docs)
	out := make([]enums.DocumentPurpose, 0, len(counts))
	for _, purpose := range enums.DocumentPurposes() {
		if counts[purpose] > 0 {
			out = append(out, purpose)
		}
	}
	return out
}

func sortSummaries(rows []Summary, by, dir string) {
	if by == "" {
		return
	}
	key := func(s Summary) string {
		switch by {
		case SortByCountry:
			return strings.ToLower(s.Country)
		case SortByRegion:
			return strings.ToLower(s.Region)
		default:
			return strings.ToLower(s.Name)
		}
	}
	slices.SortStableFunc(rows, func(a, b Summary) int {
		var c int
		if by == SortByCreatedAt {
			c = a.CreatedAt.Compare(b.CreatedAt)
		} else {
			c = cmp.Compare(key(a), key(b))
		}
		if dir == SortDesc {
			return -c
		}
		return c
	})
}
