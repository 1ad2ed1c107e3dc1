package workflow

import (
	"fmt"
	"strings"
)

// Fixed reply texts. These go straight to the user, so wording changes are
// user-visible.
const (
	replyIntro = "Hi! I will help you put together a resume and a cover letter for an internship. " +
		"To get started, tell me about yourself: your full name, education and key skills."

	replyProfileDone = "Great! Now tell me about the internship you are applying for: " +
		"company name, programme description and the main requirements."

	replyStylePrompt = "Thanks! Now pick a style for your documents:\n\n" +
		"1. Formal - strict business tone\n" +
		"2. Creative - lively, with a personal touch\n" +
		"3. Minimal - concise, essentials only\n\n" +
		"Reply with a number or a style name. Add \"english\" if you want the documents in English."

	replyGenerating = "Got it! Generating your documents now, this may take a few seconds."

	replyRevisionLimit = "You have already used the maximum number of revisions (3). " +
		"The documents are ready to use. Start a new session to create another set."

	replyFinal = "Thanks for working with me! Your documents are ready to send. Good luck with the internship! " +
		"Start a new session to create another set."

	replyGenerationFailed = "Sorry, something went wrong while generating the documents. Please try again."

	replyEditFailed = "Sorry, something went wrong while applying your edits. Please try again."

	replyTurnFailed = "Sorry, something went wrong. Please try again, or reset the session to start over."
)

// CoverLetterMarker splits a combined model reply into the two documents.
// The generation and edit prompts instruct the model to emit it verbatim.
const (
	CoverLetterMarker = "COVER LETTER"
	resumeHeading     = "RESUME:"
)

var styleDescriptions = map[string]string{
	StyleFormal:   "a professional, formal style with business vocabulary",
	StyleCreative: "a lively style with personality and creative touches",
	StyleMinimal:  "a concise style with no filler, key information only",
}

var languageDescriptions = map[string]string{
	LanguageRU: "in Russian",
	LanguageEN: "in English",
}

const extractionPromptFormat = `Extract information about the user from their message. Return JSON with the fields:
- name (full name)
- education (university, major, graduation year)
- skills (comma-separated)
- experience (work or internship experience)
- projects (projects)
- achievements (achievements)

Leave a field empty if the message does not mention it.

User message: %s

Return ONLY the JSON, no extra text.`

func buildExtractionPrompt(userText string) string {
	return fmt.Sprintf(extractionPromptFormat, userText)
}

func buildGenerationPrompt(c *Conversation) string {
	styleDesc := styleDescriptions[c.Style]
	if styleDesc == "" {
		styleDesc = styleDescriptions[StyleFormal]
	}
	langDesc := languageDescriptions[c.Language]
	if langDesc == "" {
		langDesc = languageDescriptions[LanguageRU]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create two documents %s in %s:\n\n", langDesc, styleDesc)
	b.WriteString("1. RESUME (CV)\n")
	b.WriteString("2. COVER LETTER\n\n")
	b.WriteString("IMPORTANT: use ONLY the information the candidate provided below. Do NOT invent data for fields marked \"not specified\".\n\n")

	b.WriteString("Candidate information:\n")
	for _, f := range ProfileFields {
		value := strings.TrimSpace(c.Profile[f.Key])
		if value == "" {
			value = "not specified"
		}
		fmt.Fprintf(&b, "- %s: %s\n", strings.ToUpper(f.Key[:1])+f.Key[1:], value)
	}

	b.WriteString("\nInternship description:\n")
	b.WriteString(c.Vacancy)
	b.WriteString("\n\n")

	b.WriteString("Resume requirements:\n")
	b.WriteString("- Use ONLY the data above\n")
	b.WriteString("- Structure: Contacts, Education, Skills, Experience, Projects, Achievements\n")
	b.WriteString("- Adapt to the internship requirements and reuse its key words\n\n")

	b.WriteString("Cover letter requirements:\n")
	b.WriteString("- 3-4 paragraphs\n")
	b.WriteString("- Why the candidate fits this internship\n")
	b.WriteString("- Why they are interested in the company or programme\n")
	b.WriteString("- What they can bring to the team\n\n")

	b.WriteString("Output format:\n")
	b.WriteString("RESUME:\n[resume content]\n\n")
	b.WriteString("COVER LETTER:\n[cover letter content]\n\n")
	b.WriteString("Do not use markdown formatting.")
	return b.String()
}

func buildEditPrompt(c *Conversation, request string) string {
	var b strings.Builder
	b.WriteString("The user asks for edits to their documents. Apply the requested changes.\n\n")

	b.WriteString("Current resume:\n")
	b.WriteString(c.Resume)
	b.WriteString("\n\nCurrent cover letter:\n")
	b.WriteString(c.CoverLetter)
	b.WriteString("\n\nEdit request:\n")
	b.WriteString(request)
	b.WriteString("\n\n")

	b.WriteString("Requirements:\n")
	fmt.Fprintf(&b, "- Change only what the user asked to change\n")
	fmt.Fprintf(&b, "- Keep the overall style (%s) and language (%s)\n", c.Style, c.Language)
	fmt.Fprintf(&b, "- Stay adapted to the internship: %s\n", c.Vacancy)
	b.WriteString("- Return BOTH documents in the same format\n\n")

	b.WriteString("Output format:\n")
	b.WriteString("RESUME:\n[updated resume]\n\n")
	b.WriteString("COVER LETTER:\n[updated cover letter]")
	return b.String()
}

// joinWithAnd renders a list the way a person would: "a", "a and b",
// "a, b and c".
func joinWithAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
