package intake

import (
	"log"
	"regexp"
	"strings"
)

// capitalizedHeading matches a line that looks like the start of the next
// client's section: a capitalized two-or-three-word name on its own line.
var capitalizedHeading = regexp.MustCompile(`(?m)^([A-Z][A-Za-z'.-]+ [A-Z][A-Za-z'.-]+(?: [A-Z][A-Za-z'.-]+)?)\s*$`)

// chunkBoundary matches a blank line followed by a capitalized two-word
// name and a newline; used only in chunk-fallback mode.
var chunkBoundary = regexp.MustCompile(`\n\s*\n([A-Z][A-Za-z'.-]+ [A-Z][A-Za-z'.-]+)\n`)

// sessionMarker distinguishes real client sections from noise in
// chunk-fallback mode.
var sessionMarker = regexp.MustCompile(`Session\s+\d+\s*:`)

// Segmenter isolates each client's text section from the full document.
type Segmenter struct {
	minChunkChars int
}

// NewSegmenter creates a Segmenter with the given chunk-fallback minimum
// section length.
func NewSegmenter(minChunkChars int) *Segmenter {
	if minChunkChars <= 0 {
		minChunkChars = 100
	}
	return &Segmenter{minChunkChars: minChunkChars}
}

// SectionFor locates the section of text belonging to the given index
// entry: from the first occurrence of the client's name to the next
// capitalized-name heading or end of document. For fallback-identified
// single-session documents the whole text is accepted as the section as
// long as the name appears anywhere; index entries are always sliced so
// one client's section never carries another's sessions. Returns "" when
// the name cannot be located; that client is skipped, not fatal.
func (s *Segmenter) SectionFor(text string, entry ClientIndexEntry) string {
	// Prefer the name standing alone as a heading; a raw substring search
	// would land on the client index entry instead of the body section.
	start := headingIndex(text, entry.Name)
	if start < 0 {
		start = strings.Index(text, entry.Name)
	}
	if start < 0 {
		start = indexFold(text, entry.Name)
	}
	if start < 0 {
		log.Printf("intake.Segmenter: client %q not found in document", entry.Name)
		return ""
	}

	if !entry.FromIndex && entry.ExpectedSessionCount == 1 {
		return text
	}

	rest := text[start+len(entry.Name):]
	end := len(rest)
	for _, loc := range capitalizedHeading.FindAllStringSubmatchIndex(rest, -1) {
		heading := rest[loc[2]:loc[3]]
		if strings.EqualFold(heading, entry.Name) {
			continue
		}
		end = loc[0]
		break
	}
	return text[start : start+len(entry.Name)+end]
}

// ChunkSections performs fallback segmentation for documents with no
// client index: the text is split at chunk boundaries, and candidate
// sections that are too short or carry no session marker are discarded as
// noise.
func (s *Segmenter) ChunkSections(text string) []ChunkSection {
	bounds := chunkBoundary.FindAllStringSubmatchIndex(text, -1)
	if len(bounds) == 0 {
		return nil
	}

	var sections []ChunkSection
	for i, b := range bounds {
		name := text[b[2]:b[3]]
		start := b[2]
		end := len(text)
		if i+1 < len(bounds) {
			end = bounds[i+1][0]
		}
		body := text[start:end]

		if len(body) < s.minChunkChars {
			log.Printf("intake.Segmenter: discarding chunk for %q (%d chars, below minimum)", name, len(body))
			continue
		}
		if !sessionMarker.MatchString(body) {
			log.Printf("intake.Segmenter: discarding chunk for %q (no session marker)", name)
			continue
		}
		sections = append(sections, ChunkSection{Name: name, Text: body})
	}
	return sections
}

// ChunkSection is one candidate client section found in chunk-fallback
// mode.
type ChunkSection struct {
	Name string
	Text string
}

// headingIndex returns the offset of the first line consisting solely of
// name (ignoring surrounding whitespace and case), or -1.
func headingIndex(text, name string) int {
	offset := 0
	for {
		line := text[offset:]
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
		}
		if strings.EqualFold(strings.TrimSpace(line), name) {
			return offset + len(line) - len(strings.TrimLeft(line, " \t\r"))
		}
		next := strings.IndexByte(text[offset:], '\n')
		if next < 0 {
			return -1
		}
		offset += next + 1
	}
}

// indexFold returns the index of the first case-insensitive occurrence of
// sub in s, or -1.
func indexFold(s, sub string) int {
	return strings.Index(strings.ToLower(s), strings.ToLower(sub))
}
