package store

// PreferencesState holds the store-wide defaults and the settings each user
// has saved. Patches without a user id edit the defaults.
type PreferencesState struct {
	Preferences UIPreferences           `json:"preferences"`
	Profile     Profile                 `json:"user_profile"`
	ByUser      map[string]UserSettings `json:"by_user,omitempty"`
}

// UserSettings is one user's saved preferences and profile.
type UserSettings struct {
	Preferences UIPreferences `json:"preferences"`
	Profile     Profile       `json:"user_profile"`
}

func (s *PreferencesState) reduce(action Action) bool {
	switch a := action.(type) {
	case UpdatePreferences:
		if a.UserID == "" {
			s.Preferences = s.Preferences.Merge(a.Patch)
			return true
		}
		settings := s.settingsFor(a.UserID, a.Base)
		settings.Preferences = settings.Preferences.Merge(a.Patch)
		s.ByUser[a.UserID] = settings
	case UpdateProfile:
		if a.UserID == "" {
			s.Profile = s.Profile.Merge(a.Patch)
			return true
		}
		settings := s.settingsFor(a.UserID, a.Base)
		settings.Profile = settings.Profile.Merge(a.Patch)
		s.ByUser[a.UserID] = settings
	default:
		return false
	}
	return true
}

func (s *PreferencesState) settingsFor(userID string, base Profile) UserSettings {
	if s.ByUser == nil {
		s.ByUser = make(map[string]UserSettings)
	}
	if settings, ok := s.ByUser[userID]; ok {
		return settings
	}
	return UserSettings{Preferences: s.Preferences, Profile: base}
}

func (s PreferencesState) clone() PreferencesState {
	out := s
	if s.ByUser != nil {
		out.ByUser = make(map[string]UserSettings, len(s.ByUser))
		for id, settings := range s.ByUser {
			out.ByUser[id] = settings
		}
	}
	return out
}

// Merge returns p with every non-nil field of patch applied.
func (p UIPreferences) Merge(patch PreferencesPatch) UIPreferences {
	if patch.UILanguage != nil {
		p.UILanguage = *patch.UILanguage
	}
	if patch.ChatbotLanguage != nil {
		p.ChatbotLanguage = *patch.ChatbotLanguage
	}
	if patch.Theme != nil {
		p.Theme = *patch.Theme
	}
	if patch.Notifications != nil {
		p.Notifications = *patch.Notifications
	}
	if patch.ChatVerbosity != nil {
		p.ChatVerbosity = *patch.ChatVerbosity
	}
	if patch.EnableCitations != nil {
		p.EnableCitations = *patch.EnableCitations
	}
	return p
}

// Merge returns p with every non-nil field of patch applied.
func (p Profile) Merge(patch ProfilePatch) Profile {
	if patch.FullName != nil {
		p.FullName = *patch.FullName
	}
	if patch.Email != nil {
		p.Email = *patch.Email
	}
	if patch.Role != nil {
		p.Role = *patch.Role
	}
	if patch.DateJoined != nil {
		p.DateJoined = *patch.DateJoined
	}
	if patch.AssignedCountry != nil {
		p.AssignedCountry = *patch.AssignedCountry
	}
	if patch.AssignedRegion != nil {
		p.AssignedRegion = *patch.AssignedRegion
	}
	if patch.LastLogin != nil {
		p.LastLogin = *patch.LastLogin
	}
	return p
}

// IsEmpty reports whether the patch changes nothing.
func (p PreferencesPatch) IsEmpty() bool {
	return p == PreferencesPatch{}
}

func (p ProfilePatch) IsEmpty() bool {
	return p == ProfilePatch{}
}
