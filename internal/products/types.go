package products

import (
	"time"

	"github.com/angelmondragon/trainingdesk-backend/internal/documents"
	"github.com/angelmondragon/trainingdesk-backend/internal/store"
	"github.com/angelmondragon/trainingdesk-backend/pkg/enums"
)

const (
	SortByName      = "name"
	SortByCountry   = "country"
	SortByRegion    = "region"
	SortByCreatedAt = "created_at"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListParams filters the knowledge base listing. Zero values disable each filter.
type ListParams struct {
	Search   string                `form:"search"`
	Category enums.DocumentPurpose `form:"category" validate:"omitempty,enum"`
	From     *time.Time            `form:"from"`
	To       *time.Time            `form:"to"`
	SortBy   string                `form:"sort_by" validate:"omitempty,oneof=name country region created_at"`
	SortDir  string                `form:"sort_dir" validate:"omitempty,oneof=asc desc"`
}

// Summary is one knowledge base row.
type Summary struct {
	store.Product
	DocumentCount int                     `json:"document_count"`
	Purposes      []enums.DocumentPurpose `json:"purposes"`
}

type PurposeGroup struct {
	Purpose   enums.DocumentPurpose `json:"purpose"`
	Documents []store.Document      `json:"documents"`
	Count     int                   `json:"count"`
	Capacity  int                   `json:"capacity"`
}

type Detail struct {
	store.Product
	Groups []PurposeGroup `json:"groups"`
}

type DocumentGroup struct {
	Purpose enums.DocumentPurpose `json:"purpose" validate:"required,enum"`
	Files   []documents.FileInput `json:"files" validate:"required,min=1,dive"`
}

type CreateInput struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"required,max=2000"`
	Country     string          `json:"country" validate:"required,max=100"`
	Region      string          `json:"region" validate:"required,max=100"`
	Groups      []DocumentGroup `json:"groups" validate:"required,min=1,unique=Purpose,dive"`
}

type CreateResult struct {
	Product   store.Product    `json:"product"`
	Documents []store.Document `json:"documents"`
}
