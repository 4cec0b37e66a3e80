package database

import (
	"github.com/veritas-legal/casefile-api/internal/domain"
	"gorm.io/gorm"
)

// defaultPrompts are inserted when a well-known prompt is missing. The SQL
// migration seeds the same rows; this covers auto-migrated databases and
// never overwrites operator-edited templates.
var defaultPrompts = map[string]string{
	domain.PromptDocumentAnalysis: `You are a paralegal assistant reviewing documents for a personal injury law practice. Analyze the document content provided by the user. Reply with a JSON object containing two fields: "summary", a concise plain-language summary of the document including parties, dates, amounts and any medically or legally significant findings; and "extracted", an object with any structured fields you can identify (e.g. provider, dates of service, billed amounts, diagnoses, policy numbers). Reply with JSON only.`,
	domain.PromptDemandLetter:     `You are an experienced personal injury attorney drafting a demand letter to an insurance carrier. Using the case context provided by the user, write a complete, professional demand letter. Include an introduction identifying the claimant and claim, a liability section, a damages section itemizing medical specials from the listed bills, and a concluding demand. Use formal but clear language. Do not invent facts that are not in the provided context; use bracketed placeholders for missing details such as [ADJUSTER NAME].`,
	domain.PromptChatSystem:       `You are a knowledgeable legal assistant helping an attorney work a personal injury case. Answer questions using the case context provided below. Be precise about amounts and dates, cite which document a fact came from when possible, and say plainly when the answer is not in the case materials. Do not provide advice to be relayed to clients as legal advice without attorney review.`,
}

// SeedPrompts inserts any missing well-known prompt templates
func SeedPrompts(db *gorm.DB) error {
	for name, template := range defaultPrompts {
		var count int64
		if err := db.Model(&domain.AiPrompt{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&domain.AiPrompt{Name: name, Template: template}).Error; err != nil {
			return err
		}
	}
	return nil
}
