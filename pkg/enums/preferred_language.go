package enums

import "fmt"

// PreferredLanguage is a managed user's spoken language.
type PreferredLanguage string

const (
	PreferredLanguageEnglish PreferredLanguage = "English"
	PreferredLanguageHindi   PreferredLanguage = "Hindi"
	PreferredLanguageKannada PreferredLanguage = "Kannada"
	PreferredLanguageBengali PreferredLanguage = "Bengali"
	PreferredLanguageTamil   PreferredLanguage = "Tamil"
)

var validPreferredLanguages = []PreferredLanguage{
	PreferredLanguageEnglish,
	PreferredLanguageHindi,
	PreferredLanguageKannada,
	PreferredLanguageBengali,
	PreferredLanguageTamil,
}

func (p PreferredLanguage) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PreferredLanguage.
func (p PreferredLanguage) IsValid() bool {
	for _, candidate := range validPreferredLanguages {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePreferredLanguage converts raw input into a PreferredLanguage.
func ParsePreferredLanguage(value string) (PreferredLanguage, error) {
	for _, candidate := range validPreferredLanguages {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid preferred language %q", value)
}
