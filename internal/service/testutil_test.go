package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/veritas-legal/casefile-api/internal/ai"
	"github.com/veritas-legal/casefile-api/internal/auth"
	"github.com/veritas-legal/casefile-api/internal/config"
	"github.com/veritas-legal/casefile-api/internal/domain"
	"github.com/veritas-legal/casefile-api/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	err = db.AutoMigrate(
		&domain.User{},
		&domain.Case{},
		&domain.Document{},
		&domain.MedicalBill{},
		&domain.AiChatSession{},
		&domain.AiChatMessage{},
		&domain.DemandLetter{},
		&domain.AiPrompt{},
	)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func newTestIssuer() *auth.TokenIssuer {
	return auth.NewTokenIssuer(&config.AuthConfig{
		JWTSecret:     "test-secret-key-for-service-tests",
		TokenTTLHours: 1,
	})
}

// newUnconfiguredAiClient has no server-level provider; only users with
// their own key count as configured.
func newUnconfiguredAiClient() *ai.Client {
	return ai.NewClient(&config.AIConfig{}, zap.NewNop())
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  "Test User",
	}
	require.NoError(t, repository.NewUserRepository(db).Create(context.Background(), user))
	return user
}

func createTestCase(t *testing.T, db *gorm.DB, userID uuid.UUID, caseNumber string) *domain.Case {
	c := &domain.Case{
		ClientName:  "John Smith",
		CaseNumber:  caseNumber,
		CaseType:    domain.CaseTypeAutoAccident,
		Status:      domain.CaseStatusActive,
		CreatedByID: userID,
	}
	require.NoError(t, repository.NewCaseRepository(db).Create(context.Background(), c))
	return c
}

func createTestDocument(t *testing.T, db *gorm.DB, caseID, userID uuid.UUID, blobName string) *domain.Document {
	doc := &domain.Document{
		CaseID:       caseID,
		Filename:     "records.pdf",
		ContentType:  "application/pdf",
		Size:         1024,
		Container:    "documents",
		BlobName:     blobName,
		Status:       domain.ProcessingStatusUploaded,
		UploadedByID: userID,
	}
	require.NoError(t, repository.NewDocumentRepository(db).Create(context.Background(), doc))
	return doc
}

// fakeBlobStore is an in-memory BlobStore with injectable failures
type fakeBlobStore struct {
	blobs map[string][]byte

	uploadErr error
	deleteErr error
	copyErr   error
	signed    bool
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[string][]byte), signed: true}
}

func (f *fakeBlobStore) key(container, blobName string) string {
	return container + "/" + blobName
}

func (f *fakeBlobStore) Upload(ctx context.Context, container, blobName string, data []byte, contentType string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.blobs[f.key(container, blobName)] = data
	return nil
}

func (f *fakeBlobStore) Download(ctx context.Context, container, blobName string, w http.ResponseWriter) error {
	data, err := f.Fetch(ctx, container, blobName)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (f *fakeBlobStore) Fetch(ctx context.Context, container, blobName string) ([]byte, error) {
	data, ok := f.blobs[f.key(container, blobName)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return data, nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, container, blobName string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.blobs, f.key(container, blobName))
	return nil
}

func (f *fakeBlobStore) Copy(ctx context.Context, srcContainer, srcBlob, dstContainer, dstBlob string, deleteSource bool) error {
	if f.copyErr != nil {
		return f.copyErr
	}
	data, ok := f.blobs[f.key(srcContainer, srcBlob)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	f.blobs[f.key(dstContainer, dstBlob)] = data
	if deleteSource {
		delete(f.blobs, f.key(srcContainer, srcBlob))
	}
	return nil
}

func (f *fakeBlobStore) SignedURL(ctx context.Context, container, blobName string, expiry time.Duration) (string, bool, error) {
	url := "https://test.blob.local/" + container + "/" + blobName
	if f.signed {
		return url + "?sig=test", true, nil
	}
	return url, false, nil
}

func (f *fakeBlobStore) DefaultSasExpiry() time.Duration {
	return time.Hour
}
