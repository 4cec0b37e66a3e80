package mapper

import (
	"github.com/veritas-legal/casefile-api/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"
const dateFormat = "2006-01-02"

// ToUserDTO converts User to UserDTO. The API key is reduced to a flag.
func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:               user.ID,
		Email:            user.Email,
		DisplayName:      user.DisplayName,
		AiConfigured:     user.AiApiKey != "",
		AiEndpoint:       user.AiEndpoint,
		AiDeploymentName: user.AiDeploymentName,
		CreatedAt:        user.CreatedAt.Format(timeFormat),
	}
}

// ToCaseDTO converts Case to CaseDTO with computed aggregates
func ToCaseDTO(c *domain.Case, documentCount int64, billTotal float64) domain.CaseDTO {
	return domain.CaseDTO{
		ID:            c.ID,
		ClientName:    c.ClientName,
		CaseNumber:    c.CaseNumber,
		CaseType:      string(c.CaseType),
		Status:        string(c.Status),
		Description:   c.Description,
		CreatedByID:   c.CreatedByID,
		DocumentCount: documentCount,
		BillTotal:     billTotal,
		CreatedAt:     c.CreatedAt.Format(timeFormat),
		UpdatedAt:     c.UpdatedAt.Format(timeFormat),
	}
}

// ToDocumentDTO converts Document to DocumentDTO
func ToDocumentDTO(doc *domain.Document) domain.DocumentDTO {
	return domain.DocumentDTO{
		ID:            doc.ID,
		CaseID:        doc.CaseID,
		Filename:      doc.Filename,
		ContentType:   doc.ContentType,
		Size:          doc.Size,
		Container:     doc.Container,
		BlobName:      doc.BlobName,
		Status:        string(doc.Status),
		AiSummary:     doc.AiSummary,
		ExtractedData: doc.ExtractedData,
		SearchIndexed: doc.SearchIndexed,
		UploadedByID:  doc.UploadedByID,
		CreatedAt:     doc.CreatedAt.Format(timeFormat),
		UpdatedAt:     doc.UpdatedAt.Format(timeFormat),
	}
}

// ToMedicalBillDTO converts MedicalBill to MedicalBillDTO
func ToMedicalBillDTO(bill *domain.MedicalBill) domain.MedicalBillDTO {
	dto := domain.MedicalBillDTO{
		ID:         bill.ID,
		CaseID:     bill.CaseID,
		DocumentID: bill.DocumentID,
		Provider:   bill.Provider,
		Treatment:  bill.Treatment,
		Amount:     bill.Amount,
		Status:     string(bill.Status),
		CreatedAt:  bill.CreatedAt.Format(timeFormat),
		UpdatedAt:  bill.UpdatedAt.Format(timeFormat),
	}
	if bill.ServiceDate != nil {
		dto.ServiceDate = bill.ServiceDate.Format(dateFormat)
	}
	if bill.BillingDate != nil {
		dto.BillingDate = bill.BillingDate.Format(dateFormat)
	}
	return dto
}

// ToChatSessionDTO converts AiChatSession to ChatSessionDTO. Messages are
// included when loaded.
func ToChatSessionDTO(session *domain.AiChatSession, messages []domain.AiChatMessage) domain.ChatSessionDTO {
	dto := domain.ChatSessionDTO{
		ID:        session.ID,
		CaseID:    session.CaseID,
		UserID:    session.UserID,
		Title:     session.Title,
		CreatedAt: session.CreatedAt.Format(timeFormat),
	}
	if len(messages) > 0 {
		dto.Messages = make([]domain.ChatMessageDTO, len(messages))
		for i := range messages {
			dto.Messages[i] = ToChatMessageDTO(&messages[i])
		}
	}
	return dto
}

// ToChatMessageDTO converts AiChatMessage to ChatMessageDTO
func ToChatMessageDTO(message *domain.AiChatMessage) domain.ChatMessageDTO {
	return domain.ChatMessageDTO{
		ID:        message.ID,
		SessionID: message.SessionID,
		Role:      string(message.Role),
		Content:   message.Content,
		CreatedAt: message.CreatedAt.Format(timeFormat),
	}
}

// ToDemandLetterDTO converts DemandLetter to DemandLetterDTO
func ToDemandLetterDTO(letter *domain.DemandLetter) domain.DemandLetterDTO {
	return domain.DemandLetterDTO{
		ID:        letter.ID,
		CaseID:    letter.CaseID,
		Title:     letter.Title,
		Content:   letter.Content,
		Status:    string(letter.Status),
		ModelUsed: letter.ModelUsed,
		CreatedAt: letter.CreatedAt.Format(timeFormat),
		UpdatedAt: letter.UpdatedAt.Format(timeFormat),
	}
}
