package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/podanie"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/docx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTemplateService struct {
	podanie.TemplateService
	received []byte
	err      error
}

func (f *fakeTemplateService) Import(ctx context.Context, r io.Reader, filename string) (podanie.ImportTemplateResponse, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return podanie.ImportTemplateResponse{}, err
	}
	f.received = data
	if f.err != nil {
		return podanie.ImportTemplateResponse{}, f.err
	}
	return podanie.ImportTemplateResponse{HTML: "<p>Wniosek</p>", Filename: filename}, nil
}

func uploadRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/templates/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestTemplateHandler_Import(t *testing.T) {
	t.Run("returns the converted body", func(t *testing.T) {
		svc := &fakeTemplateService{}
		rec := httptest.NewRecorder()

		NewTemplateHandler(svc).Import(rec, uploadRequest(t, "file", "wniosek.docx", []byte("PK\x03\x04docx")))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []byte("PK\x03\x04docx"), svc.received)
		var resp struct {
			Data podanie.ImportTemplateResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "<p>Wniosek</p>", resp.Data.HTML)
		assert.Equal(t, "wniosek.docx", resp.Data.Filename)
	})

	t.Run("missing file field", func(t *testing.T) {
		svc := &fakeTemplateService{}
		rec := httptest.NewRecorder()

		NewTemplateHandler(svc).Import(rec, uploadRequest(t, "logo", "wniosek.docx", []byte("x")))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Nil(t, svc.received)
	})

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unsupported format", podanie.ErrImportFormat, http.StatusUnprocessableEntity},
		{"unreadable document", docx.ErrInvalid, http.StatusUnprocessableEntity},
		{"too large", podanie.ErrImportTooLarge, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			NewTemplateHandler(&fakeTemplateService{err: tt.err}).Import(rec, uploadRequest(t, "file", "wniosek.pdf", []byte("%PDF")))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
