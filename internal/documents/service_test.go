package documents

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/angelmondragon/trainingdesk-backend/internal/store"
	"github.com/angelmondragon/trainingdesk-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/trainingdesk-backend/pkg/errors"
	"github.com/angelmondragon/trainingdesk-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var uploadTime = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, maxPerPurpose int) (Service, *store.Root) {
	t.Helper()
	root := store.New(store.WithInitialState(store.MockState("hash")))
	seq := 0
	svc, err := NewService(ServiceParams{
		Store:         root,
		Logger:        logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		MaxPerPurpose: maxPerPurpose,
		Now:           func() time.Time { return uploadTime },
		NewID: func() string {
			seq++
			return fmt.Sprintf("doc-%d", seq)
		},
	})
	require.NoError(t, err)
	return svc, root
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) *pkgerrors.Error {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code(), typed.Message())
	return typed
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{Logger: logger.New(logger.Options{ServiceName: "test", Output: io.Discard})})
	requireCode(t, err, pkgerrors.CodeDependency)
}

func TestResolveFileType(t *testing.T) {
	cases := []struct {
		name string
		in   FileInput
		want enums.FileType
		ok   bool
	}{
		{"pdf by extension", FileInput{Name: "Manual.PDF"}, enums.FileTypePDF, true},
		{"docx by extension", FileInput{Name: "notes.docx"}, enums.FileTypeDOCX, true},
		{"pdf by mime", FileInput{Name: "upload", ContentType: "application/pdf"}, enums.FileTypePDF, true},
		{"mime with params", FileInput{Name: "x", ContentType: enums.MimeDOCX + "; charset=binary"}, enums.FileTypeDOCX, true},
		{"mime wins over extension", FileInput{Name: "fake.pdf", ContentType: "text/plain"}, "", false},
		{"legacy doc rejected", FileInput{Name: "old.doc"}, "", false},
		{"no extension", FileInput{Name: "README"}, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ResolveFileType(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestUploadAddsDocuments(t *testing.T) {
	svc, root := newTestService(t, 0)
	ctx := context.Background()

	docs, err := svc.Upload(ctx, UploadInput{
		ProductID: "3",
		Purpose:   enums.DocumentPurposeReference,
		Files:     []FileInput{{Name: "Cheat Sheet.pdf"}, {Name: " Setup.docx "}},
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "doc-1", docs[0].ID)
	assert.Equal(t, "Setup.docx", docs[1].Name)
	assert.Equal(t, enums.FileTypeDOCX, docs[1].FileType)
	assert.Equal(t, uploadTime, docs[1].UploadedAt)

	listed, err := svc.ListByProduct(ctx, "3")
	require.NoError(t, err)
	assert.Len(t, listed, 3)
	assert.Len(t, root.Documents(), 8)
}

func TestUploadEnforcesPerPurposeCap(t *testing.T) {
	svc, root := newTestService(t, 3)
	ctx := context.Background()

	// product 1 already holds one training document
	_, err := svc.Upload(ctx, UploadInput{
		ProductID: "1",
		Purpose:   enums.DocumentPurposeTraining,
		Files:     []FileInput{{Name: "a.pdf"}, {Name: "b.pdf"}, {Name: "c.pdf"}},
	})
	typed := requireCode(t, err, pkgerrors.CodeValidation)
	assert.Contains(t, typed.Details(), "files")
	assert.Len(t, root.Documents(), 6)

	_, err = svc.Upload(ctx, UploadInput{
		ProductID: "1",
		Purpose:   enums.DocumentPurposeTraining,
		Files:     []FileInput{{Name: "a.pdf"}, {Name: "b.pdf"}},
	})
	require.NoError(t, err)

	// other purposes have their own cap
	_, err = svc.Upload(ctx, UploadInput{
		ProductID: "1",
		Purpose:   enums.DocumentPurposeTechnical,
		Files:     []FileInput{{Name: "a.pdf"}, {Name: "b.pdf"}, {Name: "c.pdf"}},
	})
	require.NoError(t, err)
}

func TestUploadValidation(t *testing.T) {
	svc, root := newTestService(t, 0)
	ctx := context.Background()

	_, err := svc.Upload(ctx, UploadInput{ProductID: "1", Purpose: enums.DocumentPurposeTraining})
	typed := requireCode(t, err, pkgerrors.CodeValidation)
	assert.Equal(t, pkgerrors.FieldErrors{"files": "is required"}, typed.Details())

	_, err = svc.Upload(ctx, UploadInput{ProductID: "1", Purpose: "marketing", Files: []FileInput{{Name: "a.pdf"}}})
	typed = requireCode(t, err, pkgerrors.CodeValidation)
	assert.Equal(t, pkgerrors.FieldErrors{"purpose": "must be one of the allowed values"}, typed.Details())

	_, err = svc.Upload(ctx, UploadInput{
		ProductID: "1",
		Purpose:   enums.DocumentPurposeTraining,
		Files:     []FileInput{{Name: "a.pdf"}, {Name: "slides.pptx"}},
	})
	typed = requireCode(t, err, pkgerrors.CodeValidation)
	assert.Equal(t, pkgerrors.FieldErrors{"files[1]": "only PDF and DOCX files are allowed"}, typed.Details())

	_, err = svc.Upload(ctx, UploadInput{ProductID: "missing", Purpose: enums.DocumentPurposeTraining, Files: []FileInput{{Name: "a.pdf"}}})
	requireCode(t, err, pkgerrors.CodeNotFound)

	assert.Len(t, root.Documents(), 6)
}

func TestDelete(t *testing.T) {
	svc, root := newTestService(t, 0)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "d2"))
	_, ok := root.Document("d2")
	assert.False(t, ok)

	requireCode(t, svc.Delete(ctx, "d2"), pkgerrors.CodeNotFound)
}

func TestDeleteMany(t *testing.T) {
	svc, root := newTestService(t, 0)
	ctx := context.Background()

	res, err := svc.DeleteMany(ctx, []string{"d1", "nope", "d3", "d1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "d3"}, res.Deleted)
	assert.Equal(t, []string{"nope"}, res.NotFound)
	assert.Len(t, root.Documents(), 4)

	_, err = svc.DeleteMany(ctx, nil)
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestListByProductUnknown(t *testing.T) {
	svc, _ := newTestService(t, 0)
	_, err := svc.ListByProduct(context.Background(), "404")
	requireCode(t, err, pkgerrors.CodeNotFound)
}
