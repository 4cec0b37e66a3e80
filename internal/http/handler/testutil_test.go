package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/veritas-legal/casefile-api/internal/domain"
	"github.com/veritas-legal/casefile-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

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

func createTestUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  "Jane Doe",
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

// fakeBlobStore is an in-memory stand-in for blob storage
type fakeBlobStore struct {
	blobs map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[string][]byte)}
}

func (f *fakeBlobStore) key(container, blobName string) string {
	return container + "/" + blobName
}

func (f *fakeBlobStore) Upload(ctx context.Context, container, blobName string, data []byte, contentType string) error {
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
	delete(f.blobs, f.key(container, blobName))
	return nil
}

func (f *fakeBlobStore) Copy(ctx context.Context, srcContainer, srcBlob, dstContainer, dstBlob string, deleteSource bool) error {
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
	return "https://test.blob.local/" + container + "/" + blobName + "?sig=test", true, nil
}

func (f *fakeBlobStore) DefaultSasExpiry() time.Duration {
	return time.Hour
}
