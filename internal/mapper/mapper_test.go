package mapper

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/veritas-legal/casefile-api/internal/domain"
)

var testTime = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func TestToUserDTO(t *testing.T) {
	user := &domain.User{
		BaseModel:   domain.BaseModel{ID: uuid.New(), CreatedAt: testTime},
		Email:       "jane@example.com",
		DisplayName: "Jane Doe",
	}

	dto := ToUserDTO(user)

	assert.Equal(t, user.ID, dto.ID)
	assert.Equal(t, "jane@example.com", dto.Email)
	assert.False(t, dto.AiConfigured)
	assert.Equal(t, "2024-03-15T10:30:00Z", dto.CreatedAt)
}

func TestToUserDTO_AiKeyReducedToFlag(t *testing.T) {
	user := &domain.User{
		BaseModel:        domain.BaseModel{ID: uuid.New(), CreatedAt: testTime},
		Email:            "jane@example.com",
		AiApiKey:         "sk-secret",
		AiEndpoint:       "https://myorg.openai.azure.com",
		AiDeploymentName: "gpt-4o",
	}

	dto := ToUserDTO(user)

	assert.True(t, dto.AiConfigured)
	assert.Equal(t, "https://myorg.openai.azure.com", dto.AiEndpoint)
	assert.Equal(t, "gpt-4o", dto.AiDeploymentName)
}

func TestToCaseDTO(t *testing.T) {
	userID := uuid.New()
	c := &domain.Case{
		BaseModel:   domain.BaseModel{ID: uuid.New(), CreatedAt: testTime, UpdatedAt: testTime},
		ClientName:  "John Smith",
		CaseNumber:  "CV-2024-0193",
		CaseType:    domain.CaseTypeAutoAccident,
		Status:      domain.CaseStatusActive,
		Description: "Rear-end collision on I-95",
		CreatedByID: userID,
	}

	dto := ToCaseDTO(c, 3, 12450.75)

	assert.Equal(t, "John Smith", dto.ClientName)
	assert.Equal(t, "CV-2024-0193", dto.CaseNumber)
	assert.Equal(t, "auto_accident", dto.CaseType)
	assert.Equal(t, "active", dto.Status)
	assert.Equal(t, userID, dto.CreatedByID)
	assert.Equal(t, int64(3), dto.DocumentCount)
	assert.Equal(t, 12450.75, dto.BillTotal)
	assert.Equal(t, "2024-03-15T10:30:00Z", dto.CreatedAt)
}

func TestToDocumentDTO(t *testing.T) {
	doc := &domain.Document{
		BaseModel:     domain.BaseModel{ID: uuid.New(), CreatedAt: testTime, UpdatedAt: testTime},
		CaseID:        uuid.New(),
		Filename:      "er_records.pdf",
		ContentType:   "application/pdf",
		Size:          204800,
		Container:     "processed-documents",
		BlobName:      "u1/1710499800000_abc123_er_records.pdf",
		Status:        domain.ProcessingStatusProcessed,
		AiSummary:     "ER visit for whiplash on 2024-01-12.",
		ExtractedData: `{"provider":"Mercy General"}`,
		UploadedByID:  uuid.New(),
	}

	dto := ToDocumentDTO(doc)

	assert.Equal(t, doc.CaseID, dto.CaseID)
	assert.Equal(t, "processed", dto.Status)
	assert.Equal(t, "processed-documents", dto.Container)
	assert.Equal(t, `{"provider":"Mercy General"}`, dto.ExtractedData)
	assert.False(t, dto.SearchIndexed)
}

func TestToMedicalBillDTO(t *testing.T) {
	serviceDate := time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)
	docID := uuid.New()
	bill := &domain.MedicalBill{
		BaseModel:   domain.BaseModel{ID: uuid.New(), CreatedAt: testTime, UpdatedAt: testTime},
		CaseID:      uuid.New(),
		DocumentID:  &docID,
		Provider:    "Mercy General Hospital",
		Treatment:   "Emergency room visit",
		Amount:      3821.50,
		ServiceDate: &serviceDate,
		Status:      domain.BillStatusVerified,
	}

	dto := ToMedicalBillDTO(bill)

	assert.Equal(t, "Mercy General Hospital", dto.Provider)
	assert.Equal(t, 3821.50, dto.Amount)
	assert.Equal(t, "2024-01-12", dto.ServiceDate)
	assert.Empty(t, dto.BillingDate)
	assert.Equal(t, "verified", dto.Status)
}

func TestToChatSessionDTO(t *testing.T) {
	session := &domain.AiChatSession{
		BaseModel: domain.BaseModel{ID: uuid.New(), CreatedAt: testTime},
		CaseID:    uuid.New(),
		UserID:    uuid.New(),
		Title:     "Chat about case CV-2024-0193",
	}
	messages := []domain.AiChatMessage{
		{
			BaseModel: domain.BaseModel{ID: uuid.New(), CreatedAt: testTime},
			SessionID: session.ID,
			Role:      domain.ChatRoleUser,
			Content:   "What are the total medical specials?",
		},
		{
			BaseModel: domain.BaseModel{ID: uuid.New(), CreatedAt: testTime},
			SessionID: session.ID,
			Role:      domain.ChatRoleAssistant,
			Content:   "The bills on file total $3,821.50.",
		},
	}

	dto := ToChatSessionDTO(session, messages)

	assert.Len(t, dto.Messages, 2)
	assert.Equal(t, "user", dto.Messages[0].Role)
	assert.Equal(t, "assistant", dto.Messages[1].Role)

	empty := ToChatSessionDTO(session, nil)
	assert.Nil(t, empty.Messages)
}

func TestToDemandLetterDTO(t *testing.T) {
	letter := &domain.DemandLetter{
		BaseModel: domain.BaseModel{ID: uuid.New(), CreatedAt: testTime, UpdatedAt: testTime},
		CaseID:    uuid.New(),
		Title:     "Demand letter for case CV-2024-0193",
		Content:   "Dear Claims Adjuster...",
		Status:    domain.DemandLetterStatusDraft,
		ModelUsed: "gpt-4o",
	}

	dto := ToDemandLetterDTO(letter)

	assert.Equal(t, "draft", dto.Status)
	assert.Equal(t, "gpt-4o", dto.ModelUsed)
	assert.Equal(t, "2024-03-15T10:30:00Z", dto.UpdatedAt)
}
