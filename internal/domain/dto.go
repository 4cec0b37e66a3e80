package domain

import (
	"github.com/google/uuid"
)

// ============================================================================
// Auth
// ============================================================================

// RegisterRequest is the payload for creating a new account
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	DisplayName string `json:"displayName" validate:"required,max=200"`
}

// LoginRequest is the payload for authenticating
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued access token and the user profile
type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// AiSettingsRequest updates a user's AI provider configuration
type AiSettingsRequest struct {
	ApiKey         string `json:"apiKey" validate:"max=500"`
	Endpoint       string `json:"endpoint" validate:"omitempty,url,max=500"`
	DeploymentName string `json:"deploymentName" validate:"max=200"`
}

// UserDTO is the external representation of a user. The API key is never
// echoed back, only a flag indicating one is configured.
type UserDTO struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	DisplayName      string    `json:"displayName"`
	AiConfigured     bool      `json:"aiConfigured"`
	AiEndpoint       string    `json:"aiEndpoint,omitempty"`
	AiDeploymentName string    `json:"aiDeploymentName,omitempty"`
	CreatedAt        string    `json:"createdAt"`
}

// ============================================================================
// Cases
// ============================================================================

// CreateCaseRequest is the payload for creating a case
type CreateCaseRequest struct {
	ClientName  string `json:"clientName" validate:"required,max=200"`
	CaseNumber  string `json:"caseNumber" validate:"required,max=50"`
	CaseType    string `json:"caseType" validate:"omitempty,oneof=personal_injury medical_malpractice workers_compensation auto_accident premises_liability other"`
	Status      string `json:"status" validate:"omitempty,oneof=active closed pending"`
	Description string `json:"description"`
}

// UpdateCaseRequest is the payload for updating a case
type UpdateCaseRequest struct {
	ClientName  string `json:"clientName" validate:"required,max=200"`
	CaseType    string `json:"caseType" validate:"omitempty,oneof=personal_injury medical_malpractice workers_compensation auto_accident premises_liability other"`
	Status      string `json:"status" validate:"omitempty,oneof=active closed pending"`
	Description string `json:"description"`
}

// CaseDTO is the external representation of a case
type CaseDTO struct {
	ID            uuid.UUID `json:"id"`
	ClientName    string    `json:"clientName"`
	CaseNumber    string    `json:"caseNumber"`
	CaseType      string    `json:"caseType"`
	Status        string    `json:"status"`
	Description   string    `json:"description,omitempty"`
	CreatedByID   uuid.UUID `json:"createdById"`
	DocumentCount int64     `json:"documentCount"`
	BillTotal     float64   `json:"billTotal"`
	CreatedAt     string    `json:"createdAt"`
	UpdatedAt     string    `json:"updatedAt"`
}

// ============================================================================
// Documents
// ============================================================================

// DocumentDTO is the external representation of a document
type DocumentDTO struct {
	ID            uuid.UUID `json:"id"`
	CaseID        uuid.UUID `json:"caseId"`
	Filename      string    `json:"filename"`
	ContentType   string    `json:"contentType"`
	Size          int64     `json:"size"`
	Container     string    `json:"container"`
	BlobName      string    `json:"blobName"`
	Status        string    `json:"status"`
	AiSummary     string    `json:"aiSummary,omitempty"`
	ExtractedData string    `json:"extractedData,omitempty"`
	SearchIndexed bool      `json:"searchIndexed"`
	UploadedByID  uuid.UUID `json:"uploadedById"`
	CreatedAt     string    `json:"createdAt"`
	UpdatedAt     string    `json:"updatedAt"`
}

// SignedURLResponse carries a time-limited access URL for a document.
// Degraded is true when no signing credential was available and the URL
// is the bare blob URL.
type SignedURLResponse struct {
	URL       string `json:"url"`
	ExpiresAt string `json:"expiresAt,omitempty"`
	Degraded  bool   `json:"degraded"`
}

// ============================================================================
// Medical bills
// ============================================================================

// CreateMedicalBillRequest is the payload for recording a medical bill
type CreateMedicalBillRequest struct {
	DocumentID  *uuid.UUID `json:"documentId"`
	Provider    string     `json:"provider" validate:"required,max=200"`
	Treatment   string     `json:"treatment" validate:"max=500"`
	Amount      float64    `json:"amount" validate:"required,gt=0"`
	ServiceDate string     `json:"serviceDate" validate:"omitempty,datetime=2006-01-02"`
	BillingDate string     `json:"billingDate" validate:"omitempty,datetime=2006-01-02"`
	Status      string     `json:"status" validate:"omitempty,oneof=pending verified disputed paid"`
}

// UpdateMedicalBillRequest is the payload for updating a medical bill
type UpdateMedicalBillRequest struct {
	Provider    string  `json:"provider" validate:"required,max=200"`
	Treatment   string  `json:"treatment" validate:"max=500"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	ServiceDate string  `json:"serviceDate" validate:"omitempty,datetime=2006-01-02"`
	BillingDate string  `json:"billingDate" validate:"omitempty,datetime=2006-01-02"`
	Status      string  `json:"status" validate:"omitempty,oneof=pending verified disputed paid"`
}

// MedicalBillDTO is the external representation of a medical bill
type MedicalBillDTO struct {
	ID          uuid.UUID  `json:"id"`
	CaseID      uuid.UUID  `json:"caseId"`
	DocumentID  *uuid.UUID `json:"documentId,omitempty"`
	Provider    string     `json:"provider"`
	Treatment   string     `json:"treatment,omitempty"`
	Amount      float64    `json:"amount"`
	ServiceDate string     `json:"serviceDate,omitempty"`
	BillingDate string     `json:"billingDate,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

// ============================================================================
// Chat
// ============================================================================

// CreateChatSessionRequest is the payload for starting a chat session
type CreateChatSessionRequest struct {
	Title string `json:"title" validate:"max=200"`
}

// SendChatMessageRequest is the payload for a user chat turn
type SendChatMessageRequest struct {
	Content string `json:"content" validate:"required,max=32000"`
}

// ChatSessionDTO is the external representation of a chat session
type ChatSessionDTO struct {
	ID        uuid.UUID        `json:"id"`
	CaseID    uuid.UUID        `json:"caseId"`
	UserID    uuid.UUID        `json:"userId"`
	Title     string           `json:"title"`
	Messages  []ChatMessageDTO `json:"messages,omitempty"`
	CreatedAt string           `json:"createdAt"`
}

// ChatMessageDTO is the external representation of a chat message
type ChatMessageDTO struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"sessionId"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt string    `json:"createdAt"`
}

// ============================================================================
// Demand letters
// ============================================================================

// GenerateDemandLetterRequest is the payload for generating a demand letter
type GenerateDemandLetterRequest struct {
	Title        string `json:"title" validate:"max=200"`
	Instructions string `json:"instructions" validate:"max=4000"`
}

// UpdateDemandLetterRequest is the payload for editing a demand letter
type UpdateDemandLetterRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
	Status  string `json:"status" validate:"omitempty,oneof=draft final"`
}

// DemandLetterDTO is the external representation of a demand letter
type DemandLetterDTO struct {
	ID        uuid.UUID `json:"id"`
	CaseID    uuid.UUID `json:"caseId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Status    string    `json:"status"`
	ModelUsed string    `json:"modelUsed,omitempty"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}
