package validators

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/angelmondragon/trainingdesk-backend/internal/documents"
	"github.com/angelmondragon/trainingdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/trainingdesk-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func TestDecodeJSONBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.co","password":"x"}`))
	var body loginBody
	require.NoError(t, DecodeJSONBody(req, &body))
	assert.Equal(t, "a@b.co", body.Email)
}

func TestDecodeJSONBodyRejections(t *testing.T) {
	cases := map[string]string{
		"empty":         ``,
		"unknown field": `{"email":"a@b.co","password":"x","admin":true}`,
		"malformed":     `{"email":`,
		"two objects":   `{"email":"a@b.co","password":"x"}{}`,
		"invalid email": `{"email":"nope","password":"x"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(raw))
			var body loginBody
			err := DecodeJSONBody(req, &body)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
		})
	}
}

func TestDecodeJSONPatchSkipsValidation(t *testing.T) {
	req := httptest.NewRequest("PATCH", "/", strings.NewReader(`{"email":"nope"}`))
	var body loginBody
	require.NoError(t, DecodeJSONPatch(req, &body))
}

func TestParseQueryDate(t *testing.T) {
	req := httptest.NewRequest("GET", "/?from=2026-01-05&to=2026-01-07T10:00:00Z&bad=yesterday", nil)

	from, err := ParseQueryDate(req, "from")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-05", from.Format("2006-01-02"))

	to, err := ParseQueryDate(req, "to")
	require.NoError(t, err)
	assert.Equal(t, 10, to.Hour())

	missing, err := ParseQueryDate(req, "none")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = ParseQueryDate(req, "bad")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestQueryString(t *testing.T) {
	req := httptest.NewRequest("GET", "/?search=%20%20cloud%20sync%20%20", nil)
	assert.Equal(t, "cloud", QueryString(req, "search", 5))
	assert.Equal(t, "cloud sync", QueryString(req, "search", 0))
}

func buildMultipart(t *testing.T, field string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "  Widget  "))
	for name, content := range files {
		part, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestParseUploadAndSniffFiles(t *testing.T) {
	body, contentType := buildMultipart(t, "training", map[string]string{
		"manual.pdf": "%PDF-1.4\n1 0 obj\n<<>>\nendobj\n",
		"notes.pdf":  "just some plain text pretending to be a pdf",
	})
	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", contentType)

	form, err := ParseUpload(httptest.NewRecorder(), req, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, "Widget", FormValue(form, "name", 100))

	files, err := SniffFiles(form.File["training"])
	require.NoError(t, err)
	require.Len(t, files, 2)

	byName := map[string]documents.FileInput{}
	for _, f := range files {
		byName[f.Name] = f
	}
	ft, ok := documents.ResolveFileType(byName["manual.pdf"])
	assert.True(t, ok)
	assert.Equal(t, enums.FileTypePDF, ft)
	assert.Positive(t, byName["manual.pdf"].Size)

	_, ok = documents.ResolveFileType(byName["notes.pdf"])
	assert.False(t, ok, "text content must not pass as pdf")
}

func TestParseUploadRejections(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	_, err := ParseUpload(httptest.NewRecorder(), req, 1<<20)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	body, contentType := buildMultipart(t, "training", map[string]string{"big.pdf": strings.Repeat("x", 4096)})
	req = httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", contentType)
	_, err = ParseUpload(httptest.NewRecorder(), req, 512)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestSanitizeString(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"trims", "  Kerala  ", 0, "Kerala"},
		{"drops control characters", "Manual\x00\r\n v2.pdf", 0, "Manual v2.pdf"},
		{"cuts on rune boundary", "ééééé", 3, "ééé"},
		{"trims after cut", "ab  cd", 3, "ab"},
		{"short input untouched", "Guide", 10, "Guide"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SanitizeString(tc.input, tc.maxLen)
			assert.Equal(t, tc.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
