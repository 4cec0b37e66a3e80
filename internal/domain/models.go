package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns an ID when the caller has not set one
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// User represents an account in the system
type User struct {
	BaseModel
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null;column:password_hash"`
	DisplayName  string `gorm:"type:varchar(200);not null;column:display_name"`

	// Optional per-user AI provider configuration. When set, these take
	// precedence over the server-level AI configuration.
	AiApiKey         string `gorm:"type:varchar(500);column:ai_api_key"`
	AiEndpoint       string `gorm:"type:varchar(500);column:ai_endpoint"`
	AiDeploymentName string `gorm:"type:varchar(200);column:ai_deployment_name"`
}

// CaseStatus represents the lifecycle status of a case
type CaseStatus string

const (
	CaseStatusActive  CaseStatus = "active"
	CaseStatusClosed  CaseStatus = "closed"
	CaseStatusPending CaseStatus = "pending"
)

// CaseType classifies the legal matter
type CaseType string

const (
	CaseTypePersonalInjury CaseType = "personal_injury"
	CaseTypeMedMal         CaseType = "medical_malpractice"
	CaseTypeWorkersComp    CaseType = "workers_compensation"
	CaseTypeAutoAccident   CaseType = "auto_accident"
	CaseTypePremises       CaseType = "premises_liability"
	CaseTypeOther          CaseType = "other"
)

// Case represents a legal matter. Users are referenced, never cascade-deleted;
// documents, bills, chat sessions and demand letters are owned and cascade.
type Case struct {
	BaseModel
	ClientName  string     `gorm:"type:varchar(200);not null;index;column:client_name"`
	CaseNumber  string     `gorm:"type:varchar(50);not null;uniqueIndex;column:case_number"`
	CaseType    CaseType   `gorm:"type:varchar(50);not null;default:'other';column:case_type"`
	Status      CaseStatus `gorm:"type:varchar(50);not null;default:'active';index"`
	Description string     `gorm:"type:text"`
	CreatedByID uuid.UUID  `gorm:"type:uuid;not null;column:created_by_id"`
	CreatedBy   *User      `gorm:"foreignKey:CreatedByID"`

	Documents     []Document      `gorm:"foreignKey:CaseID;constraint:OnDelete:CASCADE"`
	MedicalBills  []MedicalBill   `gorm:"foreignKey:CaseID;constraint:OnDelete:CASCADE"`
	ChatSessions  []AiChatSession `gorm:"foreignKey:CaseID;constraint:OnDelete:CASCADE"`
	DemandLetters []DemandLetter  `gorm:"foreignKey:CaseID;constraint:OnDelete:CASCADE"`
}

// ProcessingStatus represents a document's lifecycle through upload,
// AI analysis and indexing.
type ProcessingStatus string

const (
	ProcessingStatusUploaded  ProcessingStatus = "uploaded"
	ProcessingStatusAnalyzing ProcessingStatus = "analyzing"
	ProcessingStatusProcessed ProcessingStatus = "processed"
	ProcessingStatusError     ProcessingStatus = "error"
)

// Document represents an uploaded case document stored in blob storage
type Document struct {
	BaseModel
	CaseID      uuid.UUID `gorm:"type:uuid;not null;index;column:case_id"`
	Case        *Case     `gorm:"foreignKey:CaseID"`
	Filename    string    `gorm:"type:varchar(255);not null"`
	ContentType string    `gorm:"type:varchar(100);not null;column:content_type"`
	Size        int64     `gorm:"not null"`
	Container   string    `gorm:"type:varchar(100);not null"`
	BlobName    string    `gorm:"type:varchar(500);not null;unique;column:blob_name"`

	Status        ProcessingStatus `gorm:"type:varchar(50);not null;default:'uploaded';index"`
	AiSummary     string           `gorm:"type:text;column:ai_summary"`
	ExtractedData string           `gorm:"type:jsonb;column:extracted_data"`
	SearchIndexed bool             `gorm:"not null;default:false;column:search_indexed"`
	UploadedByID  uuid.UUID        `gorm:"type:uuid;not null;column:uploaded_by_id"`
	UploadedBy    *User            `gorm:"foreignKey:UploadedByID"`
}

// BillStatus represents the review status of a medical bill
type BillStatus string

const (
	BillStatusPending  BillStatus = "pending"
	BillStatusVerified BillStatus = "verified"
	BillStatusDisputed BillStatus = "disputed"
	BillStatusPaid     BillStatus = "paid"
)

// MedicalBill represents a medical expense tracked against a case,
// optionally linked to the document it was extracted from.
type MedicalBill struct {
	BaseModel
	CaseID      uuid.UUID  `gorm:"type:uuid;not null;index;column:case_id"`
	Case        *Case      `gorm:"foreignKey:CaseID"`
	DocumentID  *uuid.UUID `gorm:"type:uuid;index;column:document_id"`
	Document    *Document  `gorm:"foreignKey:DocumentID"`
	Provider    string     `gorm:"type:varchar(200);not null"`
	Treatment   string     `gorm:"type:varchar(500)"`
	Amount      float64    `gorm:"type:decimal(12,2);not null"`
	ServiceDate *time.Time `gorm:"column:service_date"`
	BillingDate *time.Time `gorm:"column:billing_date"`
	Status      BillStatus `gorm:"type:varchar(50);not null;default:'pending';index"`
}

// AiChatSession represents a conversation about a case
type AiChatSession struct {
	BaseModel
	CaseID   uuid.UUID       `gorm:"type:uuid;not null;index;column:case_id"`
	Case     *Case           `gorm:"foreignKey:CaseID"`
	UserID   uuid.UUID       `gorm:"type:uuid;not null;index;column:user_id"`
	User     *User           `gorm:"foreignKey:UserID"`
	Title    string          `gorm:"type:varchar(200);not null"`
	Messages []AiChatMessage `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

// ChatRole is the author role of a chat message
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
	ChatRoleSystem    ChatRole = "system"
)

// AiChatMessage represents a single conversation turn
type AiChatMessage struct {
	BaseModel
	SessionID uuid.UUID      `gorm:"type:uuid;not null;index;column:session_id"`
	Session   *AiChatSession `gorm:"foreignKey:SessionID"`
	Role      ChatRole       `gorm:"type:varchar(20);not null"`
	Content   string         `gorm:"type:text;not null"`
}

// DemandLetterStatus represents the editing state of a demand letter
type DemandLetterStatus string

const (
	DemandLetterStatusDraft DemandLetterStatus = "draft"
	DemandLetterStatusFinal DemandLetterStatus = "final"
)

// DemandLetter represents generated demand-letter content tied to a case
type DemandLetter struct {
	BaseModel
	CaseID    uuid.UUID          `gorm:"type:uuid;not null;index;column:case_id"`
	Case      *Case              `gorm:"foreignKey:CaseID"`
	Title     string             `gorm:"type:varchar(200);not null"`
	Content   string             `gorm:"type:text;not null"`
	Status    DemandLetterStatus `gorm:"type:varchar(50);not null;default:'draft'"`
	ModelUsed string             `gorm:"type:varchar(100);column:model_used"`
}

// AiPrompt represents a named reusable prompt template
type AiPrompt struct {
	BaseModel
	Name     string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Template string `gorm:"type:text;not null"`
}

// Well-known prompt names seeded by migration
const (
	PromptDocumentAnalysis = "document_analysis"
	PromptDemandLetter     = "demand_letter"
	PromptChatSystem       = "chat_system"
)
