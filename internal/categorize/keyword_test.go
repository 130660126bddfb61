package categorize

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noteflow/internal/domain"
)

func TestCategorize_ProgressNotes(t *testing.T) {
	c := NewKeywordCategorizer()

	cat, err := c.Categorize(context.Background(), "Session 1: client reported reduced anxiety after practicing mindfulness.")

	require.NoError(t, err)
	assert.Equal(t, domain.CategoryProgressNotes, cat.Category)
	assert.Equal(t, []string{"Mindfulness", "Anxiety"}, cat.Tags)
}

func TestCategorize_FirstCategoryMatchWins(t *testing.T) {
	c := NewKeywordCategorizer()

	// Contains both treatment-plan and session keywords; treatment plan is
	// checked first.
	cat, err := c.Categorize(context.Background(), "Treatment plan reviewed during the session.")

	require.NoError(t, err)
	assert.Equal(t, domain.CategoryTreatmentPlan, cat.Category)
}

func TestCategorize_Uncategorized(t *testing.T) {
	c := NewKeywordCategorizer()

	cat, err := c.Categorize(context.Background(), "grocery list: milk, eggs, bread")

	require.NoError(t, err)
	assert.Equal(t, domain.CategoryUncategorized, cat.Category)
	assert.Empty(t, cat.Tags)
}

func TestCategorize_TagOrderIsDeterministic(t *testing.T) {
	c := NewKeywordCategorizer()
	text := "Used CBT thought records for anxiety and depression; practiced mindfulness; assigned homework."

	for i := 0; i < 5; i++ {
		cat, err := c.Categorize(context.Background(), text)
		require.NoError(t, err)
		assert.Equal(t, []string{"CBT", "Mindfulness", "Anxiety", "Depression", "Homework"}, cat.Tags)
	}
}

func TestCategorize_CaseInsensitive(t *testing.T) {
	c := NewKeywordCategorizer()

	cat, err := c.Categorize(context.Background(), "SESSION NOTES: PANIC symptoms discussed.")

	require.NoError(t, err)
	assert.Equal(t, domain.CategoryProgressNotes, cat.Category)
	assert.Contains(t, cat.Tags, "Anxiety")
}
