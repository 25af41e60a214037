package enums

import "fmt"

// DocumentPurpose groups product documents.
type DocumentPurpose string

const (
	DocumentPurposeTraining   DocumentPurpose = "training"
	DocumentPurposeReference  DocumentPurpose = "reference"
	DocumentPurposeCompliance DocumentPurpose = "compliance"
	DocumentPurposeGuidelines DocumentPurpose = "guidelines"
	DocumentPurposeTechnical  DocumentPurpose = "technical"
)

var validDocumentPurposes = []DocumentPurpose{
	DocumentPurposeTraining,
	DocumentPurposeReference,
	DocumentPurposeCompliance,
	DocumentPurposeGuidelines,
	DocumentPurposeTechnical,
}

func (d DocumentPurpose) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DocumentPurpose.
func (d DocumentPurpose) IsValid() bool {
	for _, candidate := range validDocumentPurposes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDocumentPurpose converts raw input into a DocumentPurpose.
func ParseDocumentPurpose(value string) (DocumentPurpose, error) {
	for _, candidate := range validDocumentPurposes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid document purpose %q", value)
}

// DocumentPurposes returns every purpose in display order.
func DocumentPurposes() []DocumentPurpose {
	out := make([]DocumentPurpose, len(validDocumentPurposes))
	copy(out, validDocumentPurposes)
	return out
}
