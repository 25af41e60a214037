package enums

import "fmt"

// UILanguage is the interface and chatbot language code.
type UILanguage string

const (
	UILanguageEnglish UILanguage = "en"
	UILanguageSpanish UILanguage = "es"
	UILanguageFrench  UILanguage = "fr"
	UILanguageGerman  UILanguage = "de"
	UILanguageChinese UILanguage = "zh"
)

var validUILanguages = []UILanguage{
	UILanguageEnglish,
	UILanguageSpanish,
	UILanguageFrench,
	UILanguageGerman,
	UILanguageChinese,
}

func (u UILanguage) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UILanguage.
func (u UILanguage) IsValid() bool {
	for _, candidate := range validUILanguages {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUILanguage converts raw input into a UILanguage.
func ParseUILanguage(value string) (UILanguage, error) {
	for _, candidate := range validUILanguages {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ui language %q", value)
}
