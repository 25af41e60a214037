package validators

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/angelmondragon/trainingdesk-backend/internal/documents"
	pkgerrors "github.com/angelmondragon/trainingdesk-backend/pkg/errors"
)

const multipartMemory = 8 << 20

// ParseUpload parses a multipart request body capped at maxBytes.
func ParseUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (*multipart.Form, error) {
	if !strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "multipart/form-data body required")
	}
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
	}
	return r.MultipartForm, nil
}

// FormValue returns the trimmed first value of key, cut to maxLen.
func FormValue(form *multipart.Form, key string, maxLen int) string {
	if form == nil {
		return ""
	}
	values := form.Value[key]
	if len(values) == 0 {
		return ""
	}
	return SanitizeString(values[0], maxLen)
}

// SniffFiles describes each uploaded part, detecting its MIME type from content.
// Generic containers (zip, octet-stream) are left untyped so the extension decides.
func SniffFiles(headers []*multipart.FileHeader) ([]documents.FileInput, error) {
	files := make([]documents.FileInput, 0, len(headers))
	for _, fh := range headers {
		contentType, err := sniff(fh)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read uploaded file")
		}
		files = append(files, documents.FileInput{
			Name:        SanitizeString(fh.Filename, 255),
			ContentType: contentType,
			Size:        fh.Size,
		})
	}
	return files, nil
}

func sniff(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	detected, err := mimetype.DetectReader(f)
	if err != nil {
		return "", err
	}
	if detected.Is("application/zip") || detected.Is("application/octet-stream") {
		return "", nil
	}
	return detected.String(), nil
}
