package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veritas-legal/casefile-api/internal/domain"
	"github.com/veritas-legal/casefile-api/internal/repository"
	"github.com/veritas-legal/casefile-api/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newDemandLetterService(db *gorm.DB) *service.DemandLetterService {
	return service.NewDemandLetterService(
		repository.NewDemandLetterRepository(db),
		repository.NewCaseRepository(db),
		repository.NewDocumentRepository(db),
		repository.NewMedicalBillRepository(db),
		repository.NewUserRepository(db),
		repository.NewPromptRepository(db),
		newUnconfiguredAiClient(),
		zap.NewNop(),
	)
}

func createTestLetter(t *testing.T, db *gorm.DB, caseID uuid.UUID) *domain.DemandLetter {
	letter := &domain.DemandLetter{
		CaseID:  caseID,
		Title:   "Demand letter for case CV-2024-0193",
		Content: "Dear Claims Adjuster...",
		Status:  domain.DemandLetterStatusDraft,
	}
	require.NoError(t, repository.NewDemandLetterRepository(db).Create(context.Background(), letter))
	return letter
}

func TestDemandLetterService_Generate_RequiresProvider(t *testing.T) {
	db := setupTestDB(t)
	svc := newDemandLetterService(db)
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")

	_, err := svc.Generate(context.Background(), c.ID, user.ID, &domain.GenerateDemandLetterRequest{})

	assert.ErrorIs(t, err, service.ErrAiNotConfigured)
}

func TestDemandLetterService_Generate_CaseNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newDemandLetterService(db)
	user := createTestUser(t, db, "jane@example.com")

	_, err := svc.Generate(context.Background(), uuid.New(), user.ID, &domain.GenerateDemandLetterRequest{})

	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDemandLetterService_GetByID(t *testing.T) {
	db := setupTestDB(t)
	svc := newDemandLetterService(db)
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")
	letter := createTestLetter(t, db, c.ID)

	dto, err := svc.GetByID(context.Background(), letter.ID)

	require.NoError(t, err)
	assert.Equal(t, "Dear Claims Adjuster...", dto.Content)
	assert.Equal(t, "draft", dto.Status)
}

func TestDemandLetterService_Update(t *testing.T) {
	db := setupTestDB(t)
	svc := newDemandLetterService(db)
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")
	letter := createTestLetter(t, db, c.ID)

	dto, err := svc.Update(context.Background(), letter.ID, &domain.UpdateDemandLetterRequest{
		Title:   "Final demand",
		Content: "Dear Adjuster, please find our final demand...",
		Status:  "final",
	})

	require.NoError(t, err)
	assert.Equal(t, "Final demand", dto.Title)
	assert.Equal(t, "final", dto.Status)
}

func TestDemandLetterService_ListByCase(t *testing.T) {
	db := setupTestDB(t)
	svc := newDemandLetterService(db)
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")
	createTestLetter(t, db, c.ID)
	createTestLetter(t, db, c.ID)

	letters, err := svc.ListByCase(context.Background(), c.ID)

	require.NoError(t, err)
	assert.Len(t, letters, 2)
}

func TestDemandLetterService_Delete(t *testing.T) {
	db := setupTestDB(t)
	svc := newDemandLetterService(db)
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")
	letter := createTestLetter(t, db, c.ID)

	require.NoError(t, svc.Delete(context.Background(), letter.ID))

	_, err := svc.GetByID(context.Background(), letter.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), uuid.New()), service.ErrNotFound)
}
