package understanding

import (
	"fmt"

	"noteflow/internal/port"
)

const sessionSchema = `{
  "name": "",
  "firstName": "",
  "lastName": "",
  "sessions": [
    {
      "sessionNumber": 1,
      "sessionDate": "YYYY-MM-DD",
      "content": "",
      "subjective": "",
      "objective": "",
      "assessment": "",
      "plan": "",
      "keyPoints": [],
      "significantQuotes": [],
      "narrativeSummary": ""
    }
  ]
}`

// chunkSchema is the reduced shape used when the client had to be guessed
// from the text: identity plus bare sessions, no SOAP breakdown.
const chunkSchema = `{
  "name": "",
  "firstName": "",
  "lastName": "",
  "sessions": [
    {
      "sessionNumber": 1,
      "sessionDate": "YYYY-MM-DD",
      "content": "",
      "narrativeSummary": ""
    }
  ]
}`

// BuildSessionPrompt returns the extraction prompt for a block of clinical
// session text. In chunk mode the provider must also identify the client
// from the text itself and only the reduced schema is requested.
func BuildSessionPrompt(input port.UnderstandInput) string {
	if input.ChunkMode {
		return `You are a clinical documentation assistant. This text contains therapy session notes for a single client. Identify the client's name from the text. Extract EVERY session documented in the text.

IMPORTANT INSTRUCTIONS:
- Extract ALL sessions. Do not skip, merge, or summarize sessions.
- Session dates must be in YYYY-MM-DD format. If a session's date cannot be determined, use "UNKNOWN".
- "content" is the full narrative of the session. Preserve clinical detail.

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation. The object must follow this schema:

` + chunkSchema + `

TEXT:
` + input.SectionText
	}

	identity := fmt.Sprintf("This text contains therapy session notes for the client %q.", input.ClientName)

	return `You are a clinical documentation assistant. ` + identity + ` Extract EVERY session documented in the text.

IMPORTANT INSTRUCTIONS:
- Extract ALL sessions. Do not skip, merge, or summarize sessions.
- Session dates must be in YYYY-MM-DD format. If a session's date cannot be determined, use "UNKNOWN".
- "content" is the full narrative of the session. Preserve clinical detail.
- Fill the SOAP fields (subjective, objective, assessment, plan) when the note is structured that way; otherwise leave them empty.
- "keyPoints" lists the clinically significant observations. "significantQuotes" lists verbatim client statements.

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation. The object must follow this schema:

` + sessionSchema + `

TEXT:
` + input.SectionText
}
