package intake

import (
	"log"
	"regexp"
	"strconv"
	"strings"
)

// clientIndexHeading locates the document's explicit "Client Index" block.
var clientIndexHeading = regexp.MustCompile(`(?im)^\s*client\s+index\s*:?\s*$`)

// indexEntryPattern matches a single index entry: "Jane Doe (3 sessions)".
var indexEntryPattern = regexp.MustCompile(`(?m)^\s*(?:\d+\.\s*)?([A-Z][A-Za-z'.-]+(?:\s+[A-Z][A-Za-z'.-]+)+)\s*\((\d+)\s+sessions?\)`)

// fallbackIdentityPatterns are tried in order when no client index exists.
// Only the first matching pattern is used; the document is then assumed to
// be a single-client, single-session note.
var fallbackIdentityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\s*([A-Z][A-Za-z'.-]+(?:\s+[A-Z][A-Za-z'.-]+)+)\s+Appointment\b`),
	regexp.MustCompile(`(?m)^\s*Client:\s*([A-Z][A-Za-z'.-]+(?:\s+[A-Z][A-Za-z'.-]+)*)\s*$`),
	regexp.MustCompile(`(?m)^\s*Patient:\s*([A-Z][A-Za-z'.-]+(?:\s+[A-Z][A-Za-z'.-]+)*)\s*$`),
	regexp.MustCompile(`\A\s*([A-Z][A-Za-z'.-]+\s+[A-Z][A-Za-z'.-]+)\s*\n`),
}

// ExtractClientIndex parses the document's client index into entries, or
// falls back to single-client identity heuristics. An empty result means
// the document has no recognizable structure and the segmenter should use
// chunk-fallback mode.
func ExtractClientIndex(text string) []ClientIndexEntry {
	if loc := clientIndexHeading.FindStringIndex(text); loc != nil {
		entries := parseIndexBlock(text[loc[1]:])
		if len(entries) > 0 {
			log.Printf("intake.ExtractClientIndex: found client index with %d entries", len(entries))
			return entries
		}
	}

	for _, p := range fallbackIdentityPatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		first, last := SplitName(name)
		log.Printf("intake.ExtractClientIndex: no index, fallback identity %q (single session assumed)", name)
		return []ClientIndexEntry{{
			Name:                 name,
			FirstName:            first,
			LastName:             last,
			ExpectedSessionCount: 1,
		}}
	}

	return nil
}

// parseIndexBlock reads consecutive index entries following the heading,
// stopping at the first non-matching, non-blank line.
func parseIndexBlock(block string) []ClientIndexEntry {
	var entries []ClientIndexEntry
	for _, line := range strings.Split(block, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(entries) > 0 {
				break
			}
			continue
		}
		m := indexEntryPattern.FindStringSubmatch(line)
		if m == nil {
			break
		}
		count, err := strconv.Atoi(m[2])
		if err != nil || count < 1 {
			continue
		}
		name := strings.TrimSpace(m[1])
		first, last := SplitName(name)
		entries = append(entries, ClientIndexEntry{
			Name:                 name,
			FirstName:            first,
			LastName:             last,
			ExpectedSessionCount: count,
			FromIndex:            true,
		})
	}
	return entries
}

// SplitName divides a full name into first and last components. Middle
// tokens are folded into the last name.
func SplitName(full string) (first, last string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
