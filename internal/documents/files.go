package documents

import (
	"path/filepath"
	"strings"

	"github.com/angelmondragon/trainingdesk-backend/pkg/enums"
)

// FileInput describes one uploaded file. ContentType, when set, is the sniffed MIME type
// and takes precedence over the file extension.
type FileInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty" validate:"gte=0"`
}

// ResolveFileType maps f to an accepted file type. Only PDF and DOCX are accepted.
func ResolveFileType(f FileInput) (enums.FileType, bool) {
	if ct := strings.TrimSpace(f.ContentType); ct != "" {
		mime, _, _ := strings.Cut(ct, ";")
		return enums.FileTypeFromMime(strings.TrimSpace(mime))
	}
	switch strings.ToLower(filepath.Ext(f.Name)) {
	case ".pdf":
		return enums.FileTypePDF, true
	case ".docx":
		return enums.FileTypeDOCX, true
	}
	return "", false
}
