package intake

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const multiClientDocument = `Comprehensive Clinical Documentation
Client Index:
1. Sarah Johnson (2 sessions)
2. Michael Smith (1 session)

Sarah Johnson
Session 1: 2025-07-01
Discussed anxiety management and thought records.
Session 2: 2025-07-08
Reviewed homework and practiced grounding.

Michael Smith
Session 1: 2025-07-02
Intake session covering family history.
`

func TestSectionFor_SlicesToNextHeading(t *testing.T) {
	s := NewSegmenter(0)
	entry := ClientIndexEntry{Name: "Sarah Johnson", ExpectedSessionCount: 2}

	section := s.SectionFor(multiClientDocument, entry)

	assert.True(t, strings.HasPrefix(section, "Sarah Johnson"))
	assert.Contains(t, section, "Session 2: 2025-07-08")
	assert.NotContains(t, section, "Michael Smith")
	assert.NotContains(t, section, "family history")
}

func TestSectionFor_LastClientRunsToEnd(t *testing.T) {
	s := NewSegmenter(0)
	entry := ClientIndexEntry{Name: "Michael Smith", ExpectedSessionCount: 2}

	section := s.SectionFor(multiClientDocument, entry)

	assert.True(t, strings.HasPrefix(section, "Michael Smith"))
	assert.Contains(t, section, "family history")
}

func TestSectionFor_SkipsOwnNameHeading(t *testing.T) {
	text := `Sarah Johnson
Session 1: 2025-07-01
Initial discussion.

Sarah Johnson
Session 2: 2025-07-08
Continued work.

Michael Smith
Session 1: 2025-07-02
Other client.
`
	s := NewSegmenter(0)
	entry := ClientIndexEntry{Name: "Sarah Johnson", ExpectedSessionCount: 2}

	section := s.SectionFor(text, entry)

	assert.Contains(t, section, "Session 2: 2025-07-08")
	assert.NotContains(t, section, "Michael Smith")
}

func TestSectionFor_SingleSessionUsesWholeText(t *testing.T) {
	text := "Preamble line.\nClient: Sarah Johnson\nSession notes follow.\n"
	s := NewSegmenter(0)
	entry := ClientIndexEntry{Name: "Sarah Johnson", ExpectedSessionCount: 1}

	assert.Equal(t, text, s.SectionFor(text, entry))
}

func TestSectionFor_IndexedSingleSessionEntryIsSliced(t *testing.T) {
	s := NewSegmenter(0)
	entry := ClientIndexEntry{Name: "Michael Smith", ExpectedSessionCount: 1, FromIndex: true}

	section := s.SectionFor(multiClientDocument, entry)

	assert.True(t, strings.HasPrefix(section, "Michael Smith"))
	assert.NotContains(t, section, "Client Index")
	assert.NotContains(t, section, "Discussed anxiety management")
}

func TestSectionFor_NameNotFound(t *testing.T) {
	s := NewSegmenter(0)
	entry := ClientIndexEntry{Name: "Gregory Houseman", ExpectedSessionCount: 2}

	assert.Empty(t, s.SectionFor(multiClientDocument, entry))
}

func TestSectionFor_CaseInsensitiveFallback(t *testing.T) {
	text := "SARAH JOHNSON\nSession 1: 2025-07-01\nNotes here.\n"
	s := NewSegmenter(0)
	entry := ClientIndexEntry{Name: "Sarah Johnson", ExpectedSessionCount: 1}

	assert.Equal(t, text, s.SectionFor(text, entry))
}

func TestChunkSections_SplitsAtBoundaries(t *testing.T) {
	text := "Intro paragraph with no structure.\n\n" +
		"Sarah Johnson\nSession 1: 2025-07-01\n" + strings.Repeat("Detailed clinical narrative. ", 10) + "\n\n" +
		"Michael Smith\nSession 1: 2025-07-02\n" + strings.Repeat("Another detailed narrative. ", 10) + "\n"
	s := NewSegmenter(100)

	sections := s.ChunkSections(text)

	require.Len(t, sections, 2)
	assert.Equal(t, "Sarah Johnson", sections[0].Name)
	assert.True(t, strings.HasPrefix(sections[0].Text, "Sarah Johnson"))
	assert.NotContains(t, sections[0].Text, "Michael Smith")
	assert.Equal(t, "Michael Smith", sections[1].Name)
}

func TestChunkSections_DiscardsShortChunks(t *testing.T) {
	text := "Header.\n\nSarah Johnson\nSession 1: tiny\n"
	s := NewSegmenter(100)

	assert.Empty(t, s.ChunkSections(text))
}

func TestChunkSections_DiscardsChunksWithoutSessionMarker(t *testing.T) {
	text := "Header.\n\nSarah Johnson\n" + strings.Repeat("Narrative text without any session numbering. ", 10) + "\n"
	s := NewSegmenter(100)

	assert.Empty(t, s.ChunkSections(text))
}

func TestChunkSections_NoBoundaries(t *testing.T) {
	s := NewSegmenter(100)
	assert.Nil(t, s.ChunkSections("plain unstructured text without any headings"))
}
