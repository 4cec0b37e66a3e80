package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veritas-legal/casefile-api/internal/ai"
	"github.com/veritas-legal/casefile-api/internal/config"
	"github.com/veritas-legal/casefile-api/internal/domain"
	"github.com/veritas-legal/casefile-api/internal/http/handler"
	"github.com/veritas-legal/casefile-api/internal/repository"
	"github.com/veritas-legal/casefile-api/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newDocumentHandlerRouter(db *gorm.DB, storage *fakeBlobStore, userID uuid.UUID) chi.Router {
	docService := service.NewDocumentService(
		repository.NewDocumentRepository(db),
		repository.NewCaseRepository(db),
		repository.NewUserRepository(db),
		repository.NewPromptRepository(db),
		storage,
		ai.NewClient(&config.AIConfig{}, zap.NewNop()),
		zap.NewNop(),
	)
	h := handler.NewDocumentHandler(docService, 1, zap.NewNop())

	r := chi.NewRouter()
	r.Use(withTestUser(userID))
	r.Route("/cases/{id}/documents", func(r chi.Router) {
		r.Get("/", h.ListByCase)
		r.Post("/", h.Upload)
	})
	r.Route("/documents/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Delete("/", h.Delete)
		r.Get("/download", h.Download)
		r.Get("/url", h.SignedURL)
	})
	return r
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestDocumentHandler_Upload(t *testing.T) {
	db := setupTestDB(t)
	storage := newFakeBlobStore()
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")
	router := newDocumentHandlerRouter(db, storage, user.ID)

	body, contentType := multipartBody(t, "file", "er_records.pdf", []byte("pdf content"))
	req := httptest.NewRequest(http.MethodPost, "/cases/"+c.ID.String()+"/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var dto domain.DocumentDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, "er_records.pdf", dto.Filename)
	assert.Equal(t, "uploaded", dto.Status)
	assert.Len(t, storage.blobs, 1)
}

func TestDocumentHandler_Upload_MissingFile(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")
	router := newDocumentHandlerRouter(db, newFakeBlobStore(), user.ID)

	body, contentType := multipartBody(t, "attachment", "er_records.pdf", []byte("pdf content"))
	req := httptest.NewRequest(http.MethodPost, "/cases/"+c.ID.String()+"/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocumentHandler_Upload_EmptyFile(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")
	router := newDocumentHandlerRouter(db, newFakeBlobStore(), user.ID)

	body, contentType := multipartBody(t, "file", "empty.pdf", nil)
	req := httptest.NewRequest(http.MethodPost, "/cases/"+c.ID.String()+"/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocumentHandler_Upload_TooLarge(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")
	// Limit is 1 MB; send 2 MB
	router := newDocumentHandlerRouter(db, newFakeBlobStore(), user.ID)

	body, contentType := multipartBody(t, "file", "big.pdf", make([]byte, 2*1024*1024))
	req := httptest.NewRequest(http.MethodPost, "/cases/"+c.ID.String()+"/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestDocumentHandler_Download(t *testing.T) {
	db := setupTestDB(t)
	storage := newFakeBlobStore()
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")
	router := newDocumentHandlerRouter(db, storage, user.ID)

	// Upload through the handler, then download what was stored
	body, contentType := multipartBody(t, "file", "er_records.pdf", []byte("pdf content"))
	req := httptest.NewRequest(http.MethodPost, "/cases/"+c.ID.String()+"/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var dto domain.DocumentDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/documents/"+dto.ID.String()+"/download", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pdf content", rec.Body.String())
}

func TestDocumentHandler_SignedURL(t *testing.T) {
	db := setupTestDB(t)
	storage := newFakeBlobStore()
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")
	router := newDocumentHandlerRouter(db, storage, user.ID)

	doc := &domain.Document{
		CaseID:       c.ID,
		Filename:     "records.pdf",
		ContentType:  "application/pdf",
		Size:         11,
		Container:    "documents",
		BlobName:     "u1/1_a_records.pdf",
		Status:       domain.ProcessingStatusUploaded,
		UploadedByID: user.ID,
	}
	require.NoError(t, repository.NewDocumentRepository(db).Create(context.Background(), doc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/documents/"+doc.ID.String()+"/url", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp domain.SignedURLResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.URL, doc.BlobName)
	assert.False(t, resp.Degraded)
}

func TestDocumentHandler_Get_NotFound(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "jane@example.com")
	router := newDocumentHandlerRouter(db, newFakeBlobStore(), user.ID)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/documents/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
