package enums

import "fmt"

// FileType is the accepted document format.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeDOCX FileType = "docx"
)

var validFileTypes = []FileType{
	FileTypePDF,
	FileTypeDOCX,
}

func (f FileType) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FileType.
func (f FileType) IsValid() bool {
	for _, candidate := range validFileTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFileType converts raw input into a FileType.
func ParseFileType(value string) (FileType, error) {
	for _, candidate := range validFileTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid file type %q", value)
}

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// FileTypeFromMime maps an accepted MIME type to its FileType.
func FileTypeFromMime(mime string) (FileType, bool) {
	switch mime {
	case MimePDF:
		return FileTypePDF, true
	case MimeDOCX:
		return FileTypeDOCX, true
	default:
		return "", false
	}
}

// MimeType returns the canonical MIME type for the file type.
func (f FileType) MimeType() string {
	switch f {
	case FileTypePDF:
		return MimePDF
	case FileTypeDOCX:
		return MimeDOCX
	default:
		return ""
	}
}
