package enums

import "fmt"

type ChatVerbosity string

const (
	ChatVerbosityShort    ChatVerbosity = "short"
	ChatVerbosityDetailed ChatVerbosity = "detailed"
)

var validChatVerbosities = []ChatVerbosity{
	ChatVerbosityShort,
	ChatVerbosityDetailed,
}

func (c ChatVerbosity) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ChatVerbosity.
func (c ChatVerbosity) IsValid() bool {
	for _, candidate := range validChatVerbosities {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseChatVerbosity converts raw input into a ChatVerbosity.
func ParseChatVerbosity(value string) (ChatVerbosity, error) {
	for _, candidate := range validChatVerbosities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid chat verbosity %q", value)
}
