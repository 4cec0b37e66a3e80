package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/veritas-legal/casefile-api/internal/ai"
	"github.com/veritas-legal/casefile-api/internal/blob"
	"github.com/veritas-legal/casefile-api/internal/domain"
	"github.com/veritas-legal/casefile-api/internal/mapper"
	"github.com/veritas-legal/casefile-api/internal/repository"
	"go.uber.org/zap"
)

// maxAnalysisBytes caps how much document content is sent to the model
const maxAnalysisBytes = 120_000

// analysisStaleAfter is how long a document may sit in analyzing before a
// new request may take over. A crash mid-analysis never reaches a terminal
// status, so the guard expires.
const analysisStaleAfter = 15 * time.Minute

// DocumentAnalyzer is the AI surface the document service depends on.
// The ai package's Client satisfies it; tests substitute fakes.
type DocumentAnalyzer interface {
	Configured(user *domain.User) bool
	AnalyzeDocument(ctx context.Context, user *domain.User, systemPrompt, filename, text string) (*ai.AnalysisResult, error)
}

// DocumentService handles document upload, retrieval and AI analysis
type DocumentService struct {
	docRepo    *repository.DocumentRepository
	caseRepo   *repository.CaseRepository
	userRepo   *repository.UserRepository
	promptRepo *repository.PromptRepository
	storage    BlobStore
	aiClient   DocumentAnalyzer
	logger     *zap.Logger
}

func NewDocumentService(
	docRepo *repository.DocumentRepository,
	caseRepo *repository.CaseRepository,
	userRepo *repository.UserRepository,
	promptRepo *repository.PromptRepository,
	storage BlobStore,
	aiClient DocumentAnalyzer,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		docRepo:    docRepo,
		caseRepo:   caseRepo,
		userRepo:   userRepo,
		promptRepo: promptRepo,
		storage:    storage,
		aiClient:   aiClient,
		logger:     logger,
	}
}

// Upload stores the file in blob storage and records it against the case.
// The blob is written first; if the database insert fails the blob is
// cleaned up so no orphan remains.
func (s *DocumentService) Upload(ctx context.Context, caseID, userID uuid.UUID, filename, contentType string, data []byte) (*domain.DocumentDTO, error) {
	if _, err := s.caseRepo.GetByID(ctx, caseID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	if contentType == "" {
		contentType = blob.DefaultContentType
	}

	blobName := blob.GenerateBlobName(filename, userID.String())
	if err := s.storage.Upload(ctx, blob.ContainerDocuments, blobName, data, contentType); err != nil {
		return nil, fmt.Errorf("failed to upload blob: %w", err)
	}

	doc := &domain.Document{
		CaseID:       caseID,
		Filename:     filename,
		ContentType:  contentType,
		Size:         int64(len(data)),
		Container:    blob.ContainerDocuments,
		BlobName:     blobName,
		Status:       domain.ProcessingStatusUploaded,
		UploadedByID: userID,
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		if delErr := s.storage.Delete(ctx, blob.ContainerDocuments, blobName); delErr != nil {
			s.logger.Warn("Failed to clean up blob after record insert failure",
				zap.String("blob", blobName),
				zap.Error(delErr),
			)
		}
		return nil, fmt.Errorf("failed to create document record: %w", err)
	}

	s.logger.Info("Document uploaded",
		zap.String("document_id", doc.ID.String()),
		zap.String("case_id", caseID.String()),
		zap.Int64("size", doc.Size),
	)

	dto := mapper.ToDocumentDTO(doc)
	return &dto, nil
}

// GetByID returns a document record
func (s *DocumentService) GetByID(ctx context.Context, id uuid.UUID) (*domain.DocumentDTO, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	dto := mapper.ToDocumentDTO(doc)
	return &dto, nil
}

// ListByCase returns all documents attached to a case
func (s *DocumentService) ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.DocumentDTO, error) {
	if _, err := s.caseRepo.GetByID(ctx, caseID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	docs, err := s.docRepo.ListByCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	dtos := make([]domain.DocumentDTO, len(docs))
	for i := range docs {
		dtos[i] = mapper.ToDocumentDTO(&docs[i])
	}
	return dtos, nil
}

// Download streams a document's content to the response writer. Error
// responses for missing blobs are written by the storage layer.
func (s *DocumentService) Download(ctx context.Context, id uuid.UUID, w http.ResponseWriter) error {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get document: %w", err)
	}
	return s.storage.Download(ctx, doc.Container, doc.BlobName, w)
}

// SignedURL returns a time-limited access URL for a document
func (s *DocumentService) SignedURL(ctx context.Context, id uuid.UUID) (*domain.SignedURLResponse, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	expiry := s.storage.DefaultSasExpiry()
	url, signed, err := s.storage.SignedURL(ctx, doc.Container, doc.BlobName, expiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate signed url: %w", err)
	}

	resp := &domain.SignedURLResponse{URL: url, Degraded: !signed}
	if signed {
		resp.ExpiresAt = nowPlus(expiry)
	}
	return resp, nil
}

// Delete removes the document record and its blob. The record is deleted
// first; a blob deletion failure is logged but does not fail the request.
func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get document: %w", err)
	}

	if err := s.docRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete document record: %w", err)
	}

	if err := s.storage.Delete(ctx, doc.Container, doc.BlobName); err != nil {
		s.logger.Warn("Failed to delete document blob",
			zap.String("document_id", id.String()),
			zap.String("blob", doc.BlobName),
			zap.Error(err),
		)
	}

	return nil
}

// Analyze runs AI analysis over a document. The document transitions
// uploaded -> analyzing -> processed, or to error if any step fails after
// the transition to analyzing. On success the blob is moved to the
// processed-documents container. An in-progress analysis blocks a second
// run until it goes stale.
func (s *DocumentService) Analyze(ctx context.Context, id, userID uuid.UUID) (*domain.DocumentDTO, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	if doc.Status == domain.ProcessingStatusAnalyzing && time.Since(doc.UpdatedAt) < analysisStaleAfter {
		return nil, fmt.Errorf("%w: analysis already in progress", ErrConflict)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !s.aiClient.Configured(user) {
		return nil, ErrAiNotConfigured
	}

	if err := s.docRepo.UpdateStatus(ctx, id, domain.ProcessingStatusAnalyzing); err != nil {
		return nil, fmt.Errorf("failed to mark document analyzing: %w", err)
	}

	dto, err := s.runAnalysis(ctx, doc, user)
	if err != nil {
		if stErr := s.docRepo.UpdateStatus(ctx, id, domain.ProcessingStatusError); stErr != nil {
			s.logger.Error("Failed to mark document errored",
				zap.String("document_id", id.String()),
				zap.Error(stErr),
			)
		}
		return nil, err
	}
	return dto, nil
}

func (s *DocumentService) runAnalysis(ctx context.Context, doc *domain.Document, user *domain.User) (*domain.DocumentDTO, error) {
	prompt, err := s.promptRepo.GetByName(ctx, domain.PromptDocumentAnalysis)
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis prompt: %w", err)
	}

	data, err := s.storage.Fetch(ctx, doc.Container, doc.BlobName)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document content: %w", err)
	}

	result, err := s.aiClient.AnalyzeDocument(ctx, user, prompt.Template, doc.Filename, textForAnalysis(data))
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	// Move the blob to the processed container. The source is kept until
	// the record points at the new container, so a failed record update
	// never leaves the record referencing a deleted blob. A copy failure
	// leaves the document processed in its original container.
	container, blobName := doc.Container, doc.BlobName
	moved := false
	if container != blob.ContainerProcessed {
		if err := s.storage.Copy(ctx, container, blobName, blob.ContainerProcessed, blobName, false); err != nil {
			s.logger.Warn("Failed to copy analyzed blob to processed container",
				zap.String("document_id", doc.ID.String()),
				zap.Error(err),
			)
		} else {
			moved = true
			container = blob.ContainerProcessed
		}
	}

	if err := s.docRepo.SetAnalysis(ctx, doc.ID, result.Summary, result.ExtractedData, container, blobName); err != nil {
		return nil, fmt.Errorf("failed to store analysis: %w", err)
	}

	if moved {
		if err := s.storage.Delete(ctx, doc.Container, blobName); err != nil {
			s.logger.Warn("Failed to delete source blob after move",
				zap.String("document_id", doc.ID.String()),
				zap.String("container", doc.Container),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("Document analyzed",
		zap.String("document_id", doc.ID.String()),
		zap.String("model", result.Model),
	)

	return s.GetByID(ctx, doc.ID)
}

// textForAnalysis renders blob content for the model. Binary formats are
// summarized by size since no text extraction service is wired in.
func textForAnalysis(data []byte) string {
	if len(data) > maxAnalysisBytes {
		data = data[:maxAnalysisBytes]
	}
	if utf8.Valid(data) && !strings.ContainsRune(string(data), 0) {
		return string(data)
	}
	return fmt.Sprintf("[binary content, %d bytes; text extraction unavailable]", len(data))
}
