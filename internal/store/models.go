package store

import (
	"time"

	"github.com/angelmondragon/trainingdesk-backend/pkg/enums"
)

// Product is a trainable item in the knowledge base. Products are never updated or deleted.
type Product struct {
	ID          string    `json:"id" validate:"required"`
	Name        string    `json:"name" validate:"required,max=200"`
	Description string    `json:"description" validate:"required,max=2000"`
	Country     string    `json:"country" validate:"required,max=100"`
	Region      string    `json:"region" validate:"required,max=100"`
	CreatedAt   time.Time `json:"created_at"`
}

// Document is a file attached to a product under one purpose.
type Document struct {
	ID         string                `json:"id" validate:"required"`
	ProductID  string                `json:"product_id" validate:"required"`
	Name       string                `json:"name" validate:"required,max=255"`
	Purpose    enums.DocumentPurpose `json:"purpose" validate:"required,enum"`
	FileType   enums.FileType        `json:"file_type" validate:"required,enum"`
	UploadedAt time.Time             `json:"uploaded_at"`
}

type Message struct {
	ID        string            `json:"id"`
	Role      enums.MessageRole `json:"role"`
	Content   string            `json:"content"`
	Timestamp time.Time         `json:"timestamp"`
}

// Session is one guided training run for a product.
type Session struct {
	ID                 string              `json:"id"`
	UserID             string              `json:"user_id"`
	ProductID          string              `json:"product_id"`
	ProductName        string              `json:"product_name"`
	VideoWatched       bool                `json:"video_watched"`
	GuidelinesAccepted bool                `json:"guidelines_accepted"`
	Messages           []Message           `json:"messages"`
	Status             enums.SessionStatus `json:"status"`
	StartedAt          time.Time           `json:"started_at"`
	LastAccessedAt     time.Time           `json:"last_accessed_at"`
	CompletedAt        *time.Time          `json:"completed_at,omitempty"`
}

// User is a managed account. Admin operators are not stored here.
type User struct {
	ID                string                  `json:"id" validate:"required"`
	Name              string                  `json:"name" validate:"required,max=120"`
	Email             string                  `json:"email" validate:"required,email"`
	PasswordHash      string                  `json:"-" validate:"required"`
	Role              enums.UserRole          `json:"role" validate:"required,enum,ne=Admin"`
	ContactNumber     string                  `json:"contact_number" validate:"max=32"`
	Country           string                  `json:"country" validate:"max=100"`
	Region            string                  `json:"region" validate:"required,max=100"`
	IsLocked          bool                    `json:"is_locked"`
	LastLogin         *time.Time              `json:"last_login,omitempty"`
	PreferredTheme    enums.Theme             `json:"preferred_theme" validate:"omitempty,enum"`
	PreferredLanguage enums.PreferredLanguage `json:"preferred_language" validate:"omitempty,enum"`
	PreferredRegion   string                  `json:"preferred_region"`
	CreatedBy         string                  `json:"created_by"`
	IsActive          bool                    `json:"is_active"`
	UserType          string                  `json:"user_type"`
	ReportingManager  string                  `json:"reporting_manager,omitempty"`
	JoiningDate       time.Time               `json:"joining_date"`
	IsUserVerified    bool                    `json:"is_user_verified"`
	Department        string                  `json:"department"`
	EmployeeCode      string                  `json:"employee_code" validate:"max=32"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
}

type UIPreferences struct {
	UILanguage      enums.UILanguage    `json:"ui_language" validate:"required,enum"`
	ChatbotLanguage enums.UILanguage    `json:"chatbot_language" validate:"required,enum"`
	Theme           enums.Theme         `json:"theme" validate:"required,enum"`
	Notifications   bool                `json:"notifications"`
	ChatVerbosity   enums.ChatVerbosity `json:"chat_verbosity" validate:"required,enum"`
	EnableCitations bool                `json:"enable_citations"`
}

// PreferencesPatch is a partial UIPreferences; nil fields are left untouched.
type PreferencesPatch struct {
	UILanguage      *enums.UILanguage    `json:"ui_language,omitempty" validate:"omitempty,enum"`
	ChatbotLanguage *enums.UILanguage    `json:"chatbot_language,omitempty" validate:"omitempty,enum"`
	Theme           *enums.Theme         `json:"theme,omitempty" validate:"omitempty,enum"`
	Notifications   *bool                `json:"notifications,omitempty"`
	ChatVerbosity   *enums.ChatVerbosity `json:"chat_verbosity,omitempty" validate:"omitempty,enum"`
	EnableCitations *bool                `json:"enable_citations,omitempty"`
}

// Profile is the signed-in operator's display profile.
type Profile struct {
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	DateJoined      time.Time `json:"date_joined"`
	AssignedCountry string    `json:"assigned_country"`
	AssignedRegion  string    `json:"assigned_region"`
	LastLogin       time.Time `json:"last_login"`
}

type ProfilePatch struct {
	FullName        *string    `json:"full_name,omitempty" validate:"omitnil,min=1,max=120"`
	Email           *string    `json:"email,omitempty" validate:"omitnil,email"`
	Role            *string    `json:"role,omitempty" validate:"omitempty,max=40"`
	DateJoined      *time.Time `json:"date_joined,omitempty"`
	AssignedCountry *string    `json:"assigned_country,omitempty" validate:"omitempty,max=100"`
	AssignedRegion  *string    `json:"assigned_region,omitempty" validate:"omitempty,max=100"`
	LastLogin       *time.Time `json:"last_login,omitempty"`
}
