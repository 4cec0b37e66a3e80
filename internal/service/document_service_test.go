package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veritas-legal/casefile-api/internal/ai"
	"github.com/veritas-legal/casefile-api/internal/blob"
	"github.com/veritas-legal/casefile-api/internal/domain"
	"github.com/veritas-legal/casefile-api/internal/repository"
	"github.com/veritas-legal/casefile-api/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newDocumentService(db *gorm.DB, storage *fakeBlobStore) *service.DocumentService {
	return newDocumentServiceWithAnalyzer(db, storage, newUnconfiguredAiClient())
}

func newDocumentServiceWithAnalyzer(db *gorm.DB, storage *fakeBlobStore, analyzer service.DocumentAnalyzer) *service.DocumentService {
	return service.NewDocumentService(
		repository.NewDocumentRepository(db),
		repository.NewCaseRepository(db),
		repository.NewUserRepository(db),
		repository.NewPromptRepository(db),
		storage,
		analyzer,
		zap.NewNop(),
	)
}

// fakeAnalyzer stands in for the AI provider in analysis tests
type fakeAnalyzer struct {
	result *ai.AnalysisResult
	err    error
}

func (f *fakeAnalyzer) Configured(user *domain.User) bool {
	return true
}

func (f *fakeAnalyzer) AnalyzeDocument(ctx context.Context, user *domain.User, systemPrompt, filename, text string) (*ai.AnalysisResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func seedAnalysisPrompt(t *testing.T, db *gorm.DB) {
	require.NoError(t, repository.NewPromptRepository(db).Upsert(context.Background(), &domain.AiPrompt{
		Name:     domain.PromptDocumentAnalysis,
		Template: "Summarize the document.",
	}))
}

func TestDocumentService_Upload(t *testing.T) {
	db := setupTestDB(t)
	storage := newFakeBlobStore()
	svc := newDocumentService(db, storage)
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")

	dto, err := svc.Upload(context.Background(), c.ID, user.ID, "ER Records.pdf", "application/pdf", []byte("pdf bytes"))

	require.NoError(t, err)
	assert.Equal(t, "ER Records.pdf", dto.Filename)
	assert.Equal(t, blob.ContainerDocuments, dto.Container)
	assert.Equal(t, "uploaded", dto.Status)
	assert.Equal(t, int64(9), dto.Size)

	// The blob holds the uploaded bytes under the generated name
	data, err := storage.Fetch(context.Background(), blob.ContainerDocuments, dto.BlobName)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf bytes"), data)
}

func TestDocumentService_Upload_DefaultsContentType(t *testing.T) {
	db := setupTestDB(t)
	svc := newDocumentService(db, newFakeBlobStore())
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")

	dto, err := svc.Upload(context.Background(), c.ID, user.ID, "notes.bin", "", []byte{0x01})

	require.NoError(t, err)
	assert.Equal(t, blob.DefaultContentType, dto.ContentType)
}

func TestDocumentService_Upload_CaseNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newDocumentService(db, newFakeBlobStore())
	user := createTestUser(t, db, "jane@example.com")

	_, err := svc.Upload(context.Background(), uuid.New(), user.ID, "a.pdf", "application/pdf", []byte("x"))

	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDocumentService_Upload_BlobFailure(t *testing.T) {
	db := setupTestDB(t)
	storage := newFakeBlobStore()
	storage.uploadErr = fmt.Errorf("storage unavailable")
	svc := newDocumentService(db, storage)
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")

	_, err := svc.Upload(context.Background(), c.ID, user.ID, "a.pdf", "application/pdf", []byte("x"))

	require.Error(t, err)

	// No orphan record is left behind
	docs, listErr := svc.ListByCase(context.Background(), c.ID)
	require.NoError(t, listErr)
	assert.Empty(t, docs)
}

func TestDocumentService_SignedURL(t *testing.T) {
	db := setupTestDB(t)
	storage := newFakeBlobStore()
	svc := newDocumentService(db, storage)
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")
	doc := createTestDocument(t, db, c.ID, user.ID, "u1/1_a_records.pdf")

	resp, err := svc.SignedURL(context.Background(), doc.ID)

	require.NoError(t, err)
	assert.Contains(t, resp.URL, doc.BlobName)
	assert.False(t, resp.Degraded)
	assert.NotEmpty(t, resp.ExpiresAt)
}

func TestDocumentService_SignedURL_Degraded(t *testing.T) {
	db := setupTestDB(t)
	storage := newFakeBlobStore()
	storage.signed = false
	svc := newDocumentService(db, storage)
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")
	doc := createTestDocument(t, db, c.ID, user.ID, "u1/1_a_records.pdf")

	resp, err := svc.SignedURL(context.Background(), doc.ID)

	require.NoError(t, err)
	assert.True(t, resp.Degraded)
	assert.Empty(t, resp.ExpiresAt)
}

func TestDocumentService_Delete(t *testing.T) {
	db := setupTestDB(t)
	storage := newFakeBlobStore()
	svc := newDocumentService(db, storage)
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")
	doc := createTestDocument(t, db, c.ID, user.ID, "u1/1_a_records.pdf")
	storage.blobs[storage.key(doc.Container, doc.BlobName)] = []byte("content")

	require.NoError(t, svc.Delete(context.Background(), doc.ID))

	_, err := svc.GetByID(context.Background(), doc.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Empty(t, storage.blobs)
}

func TestDocumentService_Delete_SurvivesBlobFailure(t *testing.T) {
	db := setupTestDB(t)
	storage := newFakeBlobStore()
	storage.deleteErr = fmt.Errorf("storage unavailable")
	svc := newDocumentService(db, storage)
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")
	doc := createTestDocument(t, db, c.ID, user.ID, "u1/1_a_records.pdf")

	require.NoError(t, svc.Delete(context.Background(), doc.ID))

	_, err := svc.GetByID(context.Background(), doc.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDocumentService_Analyze_RequiresProvider(t *testing.T) {
	db := setupTestDB(t)
	svc := newDocumentService(db, newFakeBlobStore())
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")
	doc := createTestDocument(t, db, c.ID, user.ID, "u1/1_a_records.pdf")

	_, err := svc.Analyze(context.Background(), doc.ID, user.ID)

	assert.ErrorIs(t, err, service.ErrAiNotConfigured)
}

func TestDocumentService_Analyze_RejectsConcurrentRun(t *testing.T) {
	db := setupTestDB(t)
	svc := newDocumentService(db, newFakeBlobStore())
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")
	doc := createTestDocument(t, db, c.ID, user.ID, "u1/1_a_records.pdf")

	docRepo := repository.NewDocumentRepository(db)
	require.NoError(t, docRepo.UpdateStatus(context.Background(), doc.ID, domain.ProcessingStatusAnalyzing))

	_, err := svc.Analyze(context.Background(), doc.ID, user.ID)

	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestDocumentService_Analyze_MovesBlobToProcessed(t *testing.T) {
	db := setupTestDB(t)
	seedAnalysisPrompt(t, db)
	storage := newFakeBlobStore()
	analyzer := &fakeAnalyzer{result: &ai.AnalysisResult{
		Summary:       "Emergency room records for the March collision.",
		ExtractedData: `{"provider":"County General"}`,
		Model:         "gpt-4o",
	}}
	svc := newDocumentServiceWithAnalyzer(db, storage, analyzer)
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")
	doc := createTestDocument(t, db, c.ID, user.ID, "u1/1_a_records.pdf")
	storage.blobs[storage.key(doc.Container, doc.BlobName)] = []byte("er visit notes")

	dto, err := svc.Analyze(context.Background(), doc.ID, user.ID)

	require.NoError(t, err)
	assert.Equal(t, "processed", dto.Status)
	assert.Equal(t, blob.ContainerProcessed, dto.Container)
	assert.Equal(t, "Emergency room records for the March collision.", dto.AiSummary)
	assert.Equal(t, `{"provider":"County General"}`, dto.ExtractedData)

	// The blob now lives only in the processed container
	_, err = storage.Fetch(context.Background(), blob.ContainerProcessed, doc.BlobName)
	assert.NoError(t, err)
	_, err = storage.Fetch(context.Background(), blob.ContainerDocuments, doc.BlobName)
	assert.Error(t, err)
}

func TestDocumentService_Analyze_FailureSetsErrorStatus(t *testing.T) {
	db := setupTestDB(t)
	seedAnalysisPrompt(t, db)
	storage := newFakeBlobStore()
	analyzer := &fakeAnalyzer{err: fmt.Errorf("model endpoint unreachable")}
	svc := newDocumentServiceWithAnalyzer(db, storage, analyzer)
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")
	doc := createTestDocument(t, db, c.ID, user.ID, "u1/1_a_records.pdf")
	storage.blobs[storage.key(doc.Container, doc.BlobName)] = []byte("er visit notes")

	_, err := svc.Analyze(context.Background(), doc.ID, user.ID)

	require.Error(t, err)
	reloaded, getErr := svc.GetByID(context.Background(), doc.ID)
	require.NoError(t, getErr)
	assert.Equal(t, "error", reloaded.Status)
}

func TestDocumentService_Analyze_MissingBlobSetsErrorStatus(t *testing.T) {
	db := setupTestDB(t)
	seedAnalysisPrompt(t, db)
	svc := newDocumentServiceWithAnalyzer(db, newFakeBlobStore(), &fakeAnalyzer{
		result: &ai.AnalysisResult{Summary: "unused"},
	})
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")
	doc := createTestDocument(t, db, c.ID, user.ID, "u1/1_a_records.pdf")

	_, err := svc.Analyze(context.Background(), doc.ID, user.ID)

	require.Error(t, err)
	reloaded, getErr := svc.GetByID(context.Background(), doc.ID)
	require.NoError(t, getErr)
	assert.Equal(t, "error", reloaded.Status)
}

func TestDocumentService_Analyze_CopyFailureKeepsContainer(t *testing.T) {
	db := setupTestDB(t)
	seedAnalysisPrompt(t, db)
	storage := newFakeBlobStore()
	storage.copyErr = fmt.Errorf("destination unavailable")
	svc := newDocumentServiceWithAnalyzer(db, storage, &fakeAnalyzer{
		result: &ai.AnalysisResult{Summary: "Records summary."},
	})
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")
	doc := createTestDocument(t, db, c.ID, user.ID, "u1/1_a_records.pdf")
	storage.blobs[storage.key(doc.Container, doc.BlobName)] = []byte("er visit notes")

	dto, err := svc.Analyze(context.Background(), doc.ID, user.ID)

	require.NoError(t, err)
	assert.Equal(t, "processed", dto.Status)
	assert.Equal(t, blob.ContainerDocuments, dto.Container)

	// The original blob is untouched when the move fails
	data, fetchErr := storage.Fetch(context.Background(), blob.ContainerDocuments, doc.BlobName)
	require.NoError(t, fetchErr)
	assert.Equal(t, []byte("er visit notes"), data)
}

func TestDocumentService_Analyze_SurvivesSourceDeleteFailure(t *testing.T) {
	db := setupTestDB(t)
	seedAnalysisPrompt(t, db)
	storage := newFakeBlobStore()
	storage.deleteErr = fmt.Errorf("lease held")
	svc := newDocumentServiceWithAnalyzer(db, storage, &fakeAnalyzer{
		result: &ai.AnalysisResult{Summary: "Records summary."},
	})
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")
	doc := createTestDocument(t, db, c.ID, user.ID, "u1/1_a_records.pdf")
	storage.blobs[storage.key(doc.Container, doc.BlobName)] = []byte("er visit notes")

	dto, err := svc.Analyze(context.Background(), doc.ID, user.ID)

	// The record points at the processed copy even though the stale source
	// could not be removed
	require.NoError(t, err)
	assert.Equal(t, blob.ContainerProcessed, dto.Container)
	_, fetchErr := storage.Fetch(context.Background(), blob.ContainerProcessed, doc.BlobName)
	assert.NoError(t, fetchErr)
}

func TestDocumentService_Analyze_StaleAnalyzingRetried(t *testing.T) {
	db := setupTestDB(t)
	seedAnalysisPrompt(t, db)
	storage := newFakeBlobStore()
	svc := newDocumentServiceWithAnalyzer(db, storage, &fakeAnalyzer{
		result: &ai.AnalysisResult{Summary: "Records summary."},
	})
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")
	doc := createTestDocument(t, db, c.ID, user.ID, "u1/1_a_records.pdf")
	storage.blobs[storage.key(doc.Container, doc.BlobName)] = []byte("er visit notes")

	// A run that crashed an hour ago left the document stuck in analyzing
	docRepo := repository.NewDocumentRepository(db)
	require.NoError(t, docRepo.UpdateStatus(context.Background(), doc.ID, domain.ProcessingStatusAnalyzing))
	require.NoError(t, db.Model(&domain.Document{}).Where("id = ?", doc.ID).
		UpdateColumn("updated_at", time.Now().Add(-time.Hour)).Error)

	dto, err := svc.Analyze(context.Background(), doc.ID, user.ID)

	require.NoError(t, err)
	assert.Equal(t, "processed", dto.Status)
}
