// Package categorize assigns a document category and therapeutic tags from
// the document text using keyword matching.
package categorize

import (
	"context"
	"strings"

	"noteflow/internal/domain"
	"noteflow/internal/port"
)

const maxTags = 10

// tagKeywords maps a therapeutic tag to the lowercase keywords that imply it.
// Iteration uses tagOrder so tag output is deterministic.
var tagKeywords = map[string][]string{
	"CBT":                 {"cognitive behavioral", "cbt", "cognitive restructuring", "thought record"},
	"ACT":                 {"acceptance commitment", "psychological flexibility"},
	"DBT":                 {"dialectical behavior", "dbt", "distress tolerance", "emotion regulation"},
	"Narrative Therapy":   {"narrative", "externalize", "re-authoring", "dominant story"},
	"Mindfulness":         {"mindfulness", "grounding", "breathing exercise"},
	"Anxiety":             {"anxiety", "anxious", "worry", "panic"},
	"Depression":          {"depression", "depressed", "sadness", "hopeless"},
	"Trauma":              {"trauma", "ptsd", "flashback", "triggered"},
	"Relationship Issues": {"relationship", "partner", "couple", "conflict"},
	"Family Dynamics":     {"family", "parent", "sibling", "family system"},
	"Coping Skills":       {"coping", "strategies", "techniques"},
	"Homework":            {"homework", "assignment", "between sessions"},
	"Progress":            {"progress", "improvement", "growth"},
}

var tagOrder = []string{
	"CBT", "ACT", "DBT", "Narrative Therapy", "Mindfulness",
	"Anxiety", "Depression", "Trauma", "Relationship Issues", "Family Dynamics",
	"Coping Skills", "Homework", "Progress",
}

// categoryKeywords decides the document category; first match in order wins.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{domain.CategoryTreatmentPlan, []string{"treatment plan", "treatment goals", "plan of care"}},
	{domain.CategoryAssessment, []string{"assessment", "diagnostic", "evaluation", "mental status exam"}},
	{domain.CategoryIntakeForm, []string{"intake", "new client questionnaire", "consent to treat"}},
	{domain.CategoryCorrespondence, []string{"dear ", "referral letter", "to whom it may concern"}},
	{domain.CategoryProgressNotes, []string{"session", "progress note", "soap"}},
}

// KeywordCategorizer implements port.DocumentCategorizer with keyword
// matching. It is the offline fallback for when no model-based categorizer is
// configured.
type KeywordCategorizer struct{}

// NewKeywordCategorizer creates a KeywordCategorizer.
func NewKeywordCategorizer() *KeywordCategorizer {
	return &KeywordCategorizer{}
}

func (c *KeywordCategorizer) Categorize(_ context.Context, text string) (*port.Categorization, error) {
	lower := strings.ToLower(text)

	category := domain.CategoryUncategorized
	for _, ck := range categoryKeywords {
		if containsAny(lower, ck.keywords) {
			category = ck.category
			break
		}
	}

	var tags []string
	for _, tag := range tagOrder {
		if containsAny(lower, tagKeywords[tag]) {
			tags = append(tags, tag)
		}
		if len(tags) == maxTags {
			break
		}
	}

	return &port.Categorization{
		Category: category,
		Tags:     tags,
	}, nil
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
