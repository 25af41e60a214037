package store

import (
	"time"

	"github.com/angelmondragon/trainingdesk-backend/pkg/enums"
)

func at(layout, value string) time.Time {
	t, err := time.ParseInLocation(layout, value, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func day(value string) time.Time { return at(time.DateOnly, value) }

func ts(value string) time.Time { return at("2006-01-02T15:04:05", value) }

func tsPtr(value string) *time.Time {
	t := ts(value)
	return &t
}

// DefaultPreferences are the preferences a fresh store starts with.
func DefaultPreferences() UIPreferences {
	return UIPreferences{
		UILanguage:      enums.UILanguageEnglish,
		ChatbotLanguage: enums.UILanguageEnglish,
		Theme:           enums.ThemeLight,
		Notifications:   true,
		ChatVerbosity:   enums.ChatVerbosityDetailed,
		EnableCitations: true,
	}
}

// MockState is the demo data set the dashboard ships with. Every seeded user gets
// passwordHash so the demo accounts can sign in.
func MockState(passwordHash string) State {
	return State{
		Products:  ProductState{Products: mockProducts()},
		Documents: DocumentState{Documents: mockDocuments()},
		Sessions:  SessionState{History: mockSessions()},
		Users: UserState{
			Users:    mockUsers(passwordHash),
			Filtered: mockUsers(passwordHash),
		},
		Preferences: PreferencesState{
			Preferences: DefaultPreferences(),
			Profile: Profile{
				FullName:        "Sarah Mitchell",
				Email:           "sarah.mitchell@company.com",
				Role:            enums.UserRoleTrainer.String(),
				DateJoined:      day("2024-06-15"),
				AssignedCountry: "United States",
				AssignedRegion:  "North America",
				LastLogin:       ts("2026-01-07T09:30:00"),
			},
		},
	}
}

func mockProducts() []Product {
	return []Product{
		{ID: "1", Name: "CloudSync Pro", Description: "Enterprise cloud synchronization solution", Country: "United States", Region: "North America", CreatedAt: day("2025-12-15")},
		{ID: "2", Name: "DataGuard Shield", Description: "Advanced data protection platform", Country: "Germany", Region: "Europe", CreatedAt: day("2025-12-20")},
		{ID: "3", Name: "AI Analytics Hub", Description: "Intelligent analytics and reporting system", Country: "Singapore", Region: "Asia Pacific", CreatedAt: day("2026-01-05")},
	}
}

func mockDocuments() []Document {
	return []Document{
		{ID: "d1", ProductID: "1", Name: "Training Manual v2.0.pdf", Purpose: enums.DocumentPurposeTraining, FileType: enums.FileTypePDF, UploadedAt: day("2025-12-16")},
		{ID: "d2", ProductID: "1", Name: "Quick Reference Guide.pdf", Purpose: enums.DocumentPurposeReference, FileType: enums.FileTypePDF, UploadedAt: day("2025-12-16")},
		{ID: "d3", ProductID: "1", Name: "Compliance Requirements.docx", Purpose: enums.DocumentPurposeCompliance, FileType: enums.FileTypeDOCX, UploadedAt: day("2025-12-17")},
		{ID: "d4", ProductID: "2", Name: "Security Guidelines.pdf", Purpose: enums.DocumentPurposeGuidelines, FileType: enums.FileTypePDF, UploadedAt: day("2025-12-21")},
		{ID: "d5", ProductID: "2", Name: "Technical Specifications.pdf", Purpose: enums.DocumentPurposeTechnical, FileType: enums.FileTypePDF, UploadedAt: day("2025-12-21")},
		{ID: "d6", ProductID: "3", Name: "User Training Materials.pdf", Purpose: enums.DocumentPurposeTraining, FileType: enums.FileTypePDF, UploadedAt: day("2026-01-06")},
	}
}

// mockSessions belong to the demo trainee Sneha Desai (u4).
func mockSessions() []Session {
	return []Session{
		{
			ID:                 "s1",
			UserID:             "u4",
			ProductID:          "1",
			ProductName:        "CloudSync Pro",
			VideoWatched:       true,
			GuidelinesAccepted: true,
			Messages: []Message{
				{ID: "m1", Role: enums.MessageRoleUser, Content: "How do I configure the sync settings?", Timestamp: ts("2026-01-03T10:30:00")},
				{ID: "m2", Role: enums.MessageRoleAssistant, Content: "To configure sync settings, navigate to Settings > Synchronization. You can set up automatic sync intervals, choose which folders to sync, and configure conflict resolution rules.", Timestamp: ts("2026-01-03T10:30:15")},
			},
			Status:         enums.SessionStatusCompleted,
			StartedAt:      ts("2026-01-03T10:15:00"),
			LastAccessedAt: ts("2026-01-03T11:00:00"),
			CompletedAt:    tsPtr("2026-01-03T11:00:00"),
		},
		{
			ID:                 "s2",
			UserID:             "u4",
			ProductID:          "2",
			ProductName:        "DataGuard Shield",
			VideoWatched:       true,
			GuidelinesAccepted: true,
			Messages:           []Message{},
			Status:             enums.SessionStatusCompleted,
			StartedAt:          ts("2026-01-04T14:20:00"),
			LastAccessedAt:     ts("2026-01-04T15:10:00"),
			CompletedAt:        tsPtr("2026-01-04T15:10:00"),
		},
		{
			ID:                 "s3",
			UserID:             "u4",
			ProductID:          "3",
			ProductName:        "SecureAuth Max",
			GuidelinesAccepted: true,
			Messages:           []Message{},
			Status:             enums.SessionStatusInProgress,
			StartedAt:          ts("2026-01-05T09:00:00"),
			LastAccessedAt:     ts("2026-01-05T09:30:00"),
		},
	}
}

func mockUsers(passwordHash string) []User {
	return []User{
		{
			ID: "u1", Name: "Rajesh Kumar", Email: "rajesh.kumar@company.com", PasswordHash: passwordHash,
			Role: enums.UserRoleTrainer, ContactNumber: "+91-9876543210", Country: "India", Region: "Tamil Nadu",
			LastLogin: tsPtr("2026-01-08T14:30:00"), PreferredTheme: enums.ThemeLight,
			PreferredLanguage: enums.PreferredLanguageTamil, PreferredRegion: "Tamil Nadu", CreatedBy: "Admin",
			IsActive: true, UserType: "Full-time", ReportingManager: "John Doe", JoiningDate: day("2025-06-15"),
			IsUserVerified: true, Department: "Training", EmployeeCode: "EMP001",
			CreatedAt: ts("2025-06-15T10:00:00"), UpdatedAt: ts("2026-01-08T14:30:00"),
		},
		{
			ID: "u2", Name: "Priya Singh", Email: "priya.singh@company.com", PasswordHash: passwordHash,
			Role: enums.UserRoleTrainee, ContactNumber: "+91-9876543211", Country: "India", Region: "Gujarat",
			LastLogin: tsPtr("2026-01-07T10:15:00"), PreferredTheme: enums.ThemeDark,
			PreferredLanguage: enums.PreferredLanguageHindi, PreferredRegion: "Gujarat", CreatedBy: "Admin",
			IsActive: true, UserType: "Part-time", ReportingManager: "Rajesh Kumar", JoiningDate: day("2025-08-20"),
			IsUserVerified: true, Department: "Operations", EmployeeCode: "EMP002",
			CreatedAt: ts("2025-08-20T09:30:00"), UpdatedAt: ts("2026-01-07T10:15:00"),
		},
		{
			ID: "u3", Name: "Amit Patel", Email: "amit.patel@company.com", PasswordHash: passwordHash,
			Role: enums.UserRoleTrainer, ContactNumber: "+91-9876543212", Country: "India", Region: "Karnataka",
			IsLocked: true, LastLogin: tsPtr("2025-12-20T16:45:00"), PreferredTheme: enums.ThemeLight,
			PreferredLanguage: enums.PreferredLanguageKannada, PreferredRegion: "Karnataka", CreatedBy: "Admin",
			IsActive: false, UserType: "Full-time", ReportingManager: "Sarah Johnson", JoiningDate: day("2025-04-10"),
			IsUserVerified: false, Department: "Training", EmployeeCode: "EMP003",
			CreatedAt: ts("2025-04-10T11:00:00"), UpdatedAt: ts("2026-01-05T08:00:00"),
		},
		{
			ID: "u4", Name: "Sneha Desai", Email: "sneha.desai@company.com", PasswordHash: passwordHash,
			Role: enums.UserRoleTrainee, ContactNumber: "+91-9876543213", Country: "India", Region: "West Bengal",
			LastLogin: tsPtr("2026-01-08T11:20:00"), PreferredTheme: enums.ThemeLight,
			PreferredLanguage: enums.PreferredLanguageBengali, PreferredRegion: "West Bengal", CreatedBy: "Admin",
			IsActive: true, UserType: "Full-time", ReportingManager: "Priya Singh", JoiningDate: day("2025-09-05"),
			IsUserVerified: true, Department: "Support", EmployeeCode: "EMP004",
			CreatedAt: ts("2025-09-05T13:45:00"), UpdatedAt: ts("2026-01-08T11:20:00"),
		},
	}
}
