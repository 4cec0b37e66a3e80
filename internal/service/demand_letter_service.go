package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"github.com/veritas-legal/casefile-api/internal/ai"
	"github.com/veritas-legal/casefile-api/internal/domain"
	"github.com/veritas-legal/casefile-api/internal/mapper"
	"github.com/veritas-legal/casefile-api/internal/repository"
	"go.uber.org/zap"
)

// DemandLetterService handles demand letter generation and editing
type DemandLetterService struct {
	letterRepo *repository.DemandLetterRepository
	caseRepo   *repository.CaseRepository
	docRepo    *repository.DocumentRepository
	billRepo   *repository.MedicalBillRepository
	userRepo   *repository.UserRepository
	promptRepo *repository.PromptRepository
	aiClient   *ai.Client
	logger     *zap.Logger
}

func NewDemandLetterService(
	letterRepo *repository.DemandLetterRepository,
	caseRepo *repository.CaseRepository,
	docRepo *repository.DocumentRepository,
	billRepo *repository.MedicalBillRepository,
	userRepo *repository.UserRepository,
	promptRepo *repository.PromptRepository,
	aiClient *ai.Client,
	logger *zap.Logger,
) *DemandLetterService {
	return &DemandLetterService{
		letterRepo: letterRepo,
		caseRepo:   caseRepo,
		docRepo:    docRepo,
		billRepo:   billRepo,
		userRepo:   userRepo,
		promptRepo: promptRepo,
		aiClient:   aiClient,
		logger:     logger,
	}
}

// Generate asks the model to draft a demand letter from the case record,
// its processed document summaries and its medical bills. The draft is
// stored and returned.
func (s *DemandLetterService) Generate(ctx context.Context, caseID, userID uuid.UUID, req *domain.GenerateDemandLetterRequest) (*domain.DemandLetterDTO, error) {
	c, err := s.caseRepo.GetByID(ctx, caseID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !s.aiClient.Configured(user) {
		return nil, ErrAiNotConfigured
	}

	prompt, err := s.promptRepo.GetByName(ctx, domain.PromptDemandLetter)
	if err != nil {
		return nil, fmt.Errorf("failed to load demand letter prompt: %w", err)
	}

	caseContext, err := s.buildCaseContext(ctx, c)
	if err != nil {
		return nil, err
	}
	if req.Instructions != "" {
		caseContext += "\n\nAdditional instructions:\n" + req.Instructions
	}

	content, model, err := s.aiClient.Complete(ctx, user, []ai.Message{
		{Role: openai.ChatMessageRoleSystem, Content: prompt.Template},
		{Role: openai.ChatMessageRoleUser, Content: caseContext},
	})
	if err != nil {
		return nil, fmt.Errorf("demand letter generation failed: %w", err)
	}

	title := req.Title
	if title == "" {
		title = "Demand letter for case " + c.CaseNumber
	}

	letter := &domain.DemandLetter{
		CaseID:    caseID,
		Title:     title,
		Content:   content,
		Status:    domain.DemandLetterStatusDraft,
		ModelUsed: model,
	}
	if err := s.letterRepo.Create(ctx, letter); err != nil {
		return nil, fmt.Errorf("failed to store demand letter: %w", err)
	}

	s.logger.Info("Demand letter generated",
		zap.String("letter_id", letter.ID.String()),
		zap.String("case_id", caseID.String()),
		zap.String("model", model),
	)

	dto := mapper.ToDemandLetterDTO(letter)
	return &dto, nil
}

// GetByID returns a demand letter
func (s *DemandLetterService) GetByID(ctx context.Context, id uuid.UUID) (*domain.DemandLetterDTO, error) {
	letter, err := s.letterRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get demand letter: %w", err)
	}
	dto := mapper.ToDemandLetterDTO(letter)
	return &dto, nil
}

// ListByCase returns a case's demand letters, newest first
func (s *DemandLetterService) ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.DemandLetterDTO, error) {
	if _, err := s.caseRepo.GetByID(ctx, caseID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	letters, err := s.letterRepo.ListByCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list demand letters: %w", err)
	}

	dtos := make([]domain.DemandLetterDTO, len(letters))
	for i := range letters {
		dtos[i] = mapper.ToDemandLetterDTO(&letters[i])
	}
	return dtos, nil
}

// Update edits a demand letter's title, content or status. Finalized
// letters may be reopened by setting status back to draft.
func (s *DemandLetterService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateDemandLetterRequest) (*domain.DemandLetterDTO, error) {
	letter, err := s.letterRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get demand letter: %w", err)
	}

	letter.Title = req.Title
	letter.Content = req.Content
	if req.Status != "" {
		letter.Status = domain.DemandLetterStatus(req.Status)
	}

	if err := s.letterRepo.Update(ctx, letter); err != nil {
		return nil, fmt.Errorf("failed to update demand letter: %w", err)
	}

	dto := mapper.ToDemandLetterDTO(letter)
	return &dto, nil
}

// Delete removes a demand letter
func (s *DemandLetterService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.letterRepo.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete demand letter: %w", err)
	}
	return nil
}

func (s *DemandLetterService) buildCaseContext(ctx context.Context, c *domain.Case) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Client: %s\nCase number: %s\nType: %s\n", c.ClientName, c.CaseNumber, c.CaseType)
	if c.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", c.Description)
	}

	bills, err := s.billRepo.ListByCase(ctx, c.ID)
	if err != nil {
		return "", fmt.Errorf("failed to list medical bills: %w", err)
	}
	if len(bills) > 0 {
		b.WriteString("\nMedical bills:\n")
		var total float64
		for _, bill := range bills {
			fmt.Fprintf(&b, "- %s", bill.Provider)
			if bill.Treatment != "" {
				fmt.Fprintf(&b, " (%s)", bill.Treatment)
			}
			if bill.ServiceDate != nil {
				fmt.Fprintf(&b, ", service date %s", bill.ServiceDate.Format("2006-01-02"))
			}
			fmt.Fprintf(&b, ": $%.2f [%s]\n", bill.Amount, bill.Status)
			total += bill.Amount
		}
		fmt.Fprintf(&b, "Total billed: $%.2f\n", total)
	}

	docs, err := s.docRepo.ListByCase(ctx, c.ID)
	if err != nil {
		return "", fmt.Errorf("failed to list documents: %w", err)
	}
	for _, doc := range docs {
		if doc.Status == domain.ProcessingStatusProcessed && doc.AiSummary != "" {
			fmt.Fprintf(&b, "\nDocument %q summary:\n%s\n", doc.Filename, doc.AiSummary)
		}
	}

	return b.String(), nil
}
