package users

import (
	"time"

	"github.com/angelmondragon/trainingdesk-backend/pkg/enums"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"

	SortByName      = "name"
	SortByEmail     = "email"
	SortByRole      = "role"
	SortByRegion    = "region"
	SortByCreatedAt = "created_at"
	SortByLastLogin = "last_login"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// Actor is the signed-in operator performing a user mutation.
type Actor struct {
	ID   string
	Name string
	Role enums.UserRole
}

type ListParams struct {
	Search  string         `form:"search"`
	Role    enums.UserRole `form:"role" validate:"omitempty,enum"`
	Status  string         `form:"status" validate:"omitempty,oneof=active inactive"`
	From    *time.Time     `form:"from"`
	To      *time.Time     `form:"to"`
	SortBy  string         `form:"sort_by" validate:"omitempty,oneof=name email role region created_at last_login"`
	SortDir string         `form:"sort_dir" validate:"omitempty,oneof=asc desc"`
}

// Input carries every editable user field. Password is only accepted on create.
type Input struct {
	Name              string                  `json:"name" validate:"required,max=120"`
	Email             string                  `json:"email" validate:"required,email"`
	Password          string                  `json:"password,omitempty"`
	Role              enums.UserRole          `json:"role" validate:"required,enum,ne=Admin"`
	ContactNumber     string                  `json:"contact_number" validate:"max=32"`
	Country           string                  `json:"country" validate:"max=100"`
	Region            string                  `json:"region" validate:"required,max=100"`
	IsLocked          bool                    `json:"is_locked"`
	IsActive          bool                    `json:"is_active"`
	IsUserVerified    bool                    `json:"is_user_verified"`
	PreferredTheme    enums.Theme             `json:"preferred_theme" validate:"omitempty,enum"`
	PreferredLanguage enums.PreferredLanguage `json:"preferred_language" validate:"omitempty,enum"`
	PreferredRegion   string                  `json:"preferred_region" validate:"max=100"`
	UserType          string                  `json:"user_type" validate:"max=40"`
	ReportingManager  string                  `json:"reporting_manager" validate:"max=120"`
	JoiningDate       *time.Time              `json:"joining_date,omitempty"`
	Department        string                  `json:"department" validate:"max=100"`
	EmployeeCode      string                  `json:"employee_code" validate:"max=32"`
}
