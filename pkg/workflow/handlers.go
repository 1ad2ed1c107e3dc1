package workflow

import (
	"context"
	"log"
	"strings"

	"ai-studybot-be/pkg/llm"
)

// Handlers holds the per-stage turn logic. Each handler reads the
// conversation plus the latest user message and proposes a delta; it makes
// at most two collaborator calls per turn and never lets a collaborator
// failure escape as an error. The failure becomes a plain reply and the
// workflow stays where it is.
type Handlers struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewHandlers(llmProvider llm.LLMProvider, logger *log.Logger) *Handlers {
	return &Handlers{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// CollectProfile asks for and accumulates profile fields until the required
// set is complete. Extraction goes through the model first; if the call or
// the structured parse fails we fall back to keyword extraction on the raw
// message.
func (h *Handlers) CollectProfile(ctx context.Context, c *Conversation, userText string) (*Delta, error) {
	if len(c.History) <= 1 && strings.TrimSpace(userText) == "" {
		// First entry with nothing to work on yet.
		return &Delta{Reply: replyIntro}, nil
	}

	var extracted map[string]string
	response, err := h.llmProvider.Generate(ctx, buildExtractionPrompt(userText), llm.WithTemperature(0.0))
	if err != nil {
		h.logger.Printf("[PROFILE] extraction call failed, using keyword fallback: %v", err)
		extracted = ExtractProfile(userText)
	} else {
		extracted = ExtractProfile(response)
	}
	h.logger.Printf("[PROFILE] extracted fields: %v", keysOf(extracted))

	merged := make(map[string]string, len(c.Profile)+len(extracted))
	for k, v := range c.Profile {
		merged[k] = v
	}
	for k, v := range extracted {
		if strings.TrimSpace(v) != "" {
			merged[k] = v
		}
	}

	missing := missingRequired(merged)
	reply := replyProfileDone
	if len(missing) > 0 {
		reply = "Please tell me: " + joinWithAnd(missing) + "."
	}

	return &Delta{Profile: extracted, Reply: reply}, nil
}

// CollectVacancy stores the internship description verbatim and moves the
// conversation on to style selection.
func (h *Handlers) CollectVacancy(ctx context.Context, c *Conversation, userText string) (*Delta, error) {
	return &Delta{Vacancy: userText, Reply: replyStylePrompt}, nil
}

// Keyword tables for style selection. Checked in order; the first matching
// keyword wins.
var styleKeywords = []struct {
	style string
	words []string
}{
	{StyleFormal, []string{"1", "formal", "business", "strict"}},
	{StyleCreative, []string{"2", "creative", "lively", "personal"}},
	{StyleMinimal, []string{"3", "minimal", "concise", "essentials"}},
}

// SelectStyle resolves style and output language from plain keywords. No
// model call here; the choices are a closed set.
func (h *Handlers) SelectStyle(ctx context.Context, c *Conversation, userText string) (*Delta, error) {
	lower := strings.ToLower(userText)

	style := StyleFormal // default
	for _, sk := range styleKeywords {
		if hasAnyKeyword(lower, sk.words) {
			style = sk.style
			break
		}
	}

	language := c.Language
	if language == "" {
		language = LanguageRU // session default
	}
	if hasAnyKeyword(lower, []string{"english", "en"}) {
		language = LanguageEN
	} else if hasAnyKeyword(lower, []string{"russian", "ru"}) {
		language = LanguageRU
	}

	return &Delta{Style: style, Language: language, Reply: replyGenerating}, nil
}

// Generate builds the single generation prompt from everything collected so
// far and splits the reply into the two documents.
func (h *Handlers) Generate(ctx context.Context, c *Conversation, userText string) (*Delta, error) {
	response, err := h.llmProvider.Generate(ctx, buildGenerationPrompt(c))
	if err != nil {
		h.logger.Printf("[GENERATE] collaborator call failed: %v", err)
		return &Delta{Reply: replyGenerationFailed}, nil
	}

	resume, coverLetter, found := SplitDocuments(response)
	if !found {
		// Whole reply is the resume; an empty cover letter is a valid
		// outcome here, not an error.
		h.logger.Printf("[GENERATE] cover letter marker missing, treating full reply as resume")
	}

	reply := "Your documents are ready!\n\n" + formatDocuments(resume, coverLetter) +
		"\n\nWant to change anything? Tell me what to adjust (for example: \"make the resume shorter\")."

	return &Delta{
		Resume:         strPtr(resume),
		CoverLetter:    strPtr(coverLetter),
		ResetRevisions: true,
		Reply:          reply,
	}, nil
}

// Edit applies one bounded revision round to the generated documents.
func (h *Handlers) Edit(ctx context.Context, c *Conversation, userText string) (*Delta, error) {
	if c.Revisions >= MaxRevisions {
		// Route already sends capped sessions to FINAL; this guard keeps
		// the invariant even if a stale state slips through.
		return &Delta{Stage: StageFinal, Reply: replyRevisionLimit}, nil
	}

	response, err := h.llmProvider.Generate(ctx, buildEditPrompt(c, userText))
	if err != nil {
		h.logger.Printf("[EDIT] collaborator call failed: %v", err)
		return &Delta{Reply: replyEditFailed}, nil
	}

	resume, coverLetter, found := SplitDocuments(response)
	if !found {
		// Unlike generation, a missing marker here keeps the previous
		// documents rather than wiping the cover letter.
		h.logger.Printf("[EDIT] cover letter marker missing, keeping previous documents")
		resume, coverLetter = c.Resume, c.CoverLetter
	}

	reply := "Documents updated!\n\n" + formatDocuments(resume, coverLetter) +
		"\n\nYou can request more edits or finish here."

	return &Delta{
		Resume:        strPtr(resume),
		CoverLetter:   strPtr(coverLetter),
		BumpRevisions: true,
		Reply:         reply,
	}, nil
}

// Final is idempotent: the same closing message for any input.
func (h *Handlers) Final(ctx context.Context, c *Conversation, userText string) (*Delta, error) {
	return &Delta{Stage: StageFinal, Reply: replyFinal}, nil
}

func formatDocuments(resume, coverLetter string) string {
	var b strings.Builder
	b.WriteString("RESUME:\n\n")
	b.WriteString(resume)
	if strings.TrimSpace(coverLetter) != "" {
		b.WriteString("\n\n")
		b.WriteString(coverLetter)
	}
	return b.String()
}

// hasAnyKeyword reports whether the message contains one of the keywords.
// Short keywords ("1", "en", "ru") must match a whole token so that e.g.
// "generate" doesn't select English output.
func hasAnyKeyword(lowerMsg string, words []string) bool {
	var tokens []string
	for _, kw := range words {
		if len(kw) > 2 {
			if strings.Contains(lowerMsg, kw) {
				return true
			}
			continue
		}
		if tokens == nil {
			tokens = strings.Fields(lowerMsg)
		}
		for _, tok := range tokens {
			if strings.Trim(tok, ".,!?:;\"'()") == kw {
				return true
			}
		}
	}
	return false
}

func missingRequired(profile map[string]string) []string {
	var missing []string
	for _, f := range ProfileFields {
		if f.Required && strings.TrimSpace(profile[f.Key]) == "" {
			missing = append(missing, f.Ask)
		}
	}
	return missing
}

func keysOf(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
