package classifier

import (
	"context"
	"log"
	"strings"
	"time"

	"ai-studybot-be/internal/constant"
	"ai-studybot-be/pkg/llm"
	"ai-studybot-be/pkg/requestlog"
)

// Subjects is the fixed classification taxonomy. Anything the model
// returns outside this set lands in SubjectOther.
var Subjects = []string{
	"Numerical Methods",
	"Computer Networks",
	"Python Programming",
	"Physics",
}

// SubjectOther is the explicit fallback bucket for material that fits no
// subject, and for model labels that fail taxonomy validation.
const SubjectOther = "Other"

// Classifier labels study links against the taxonomy and records the
// result in the persistent log.
type Classifier struct {
	llmProvider llm.LLMProvider
	store       *requestlog.Store
	logger      *log.Logger
}

func NewClassifier(llmProvider llm.LLMProvider, store *requestlog.Store, logger *log.Logger) *Classifier {
	return &Classifier{
		llmProvider: llmProvider,
		store:       store,
		logger:      logger,
	}
}

// Classify runs one taxonomy call for the link or text, validates the
// returned label and appends a record to the log. The returned count is
// the log size after the append.
func (c *Classifier) Classify(ctx context.Context, input string) (requestlog.Record, int, error) {
	response, err := c.llmProvider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: constant.ClassifyPrompt},
		{Role: llm.RoleUser, Content: input},
	})
	if err != nil {
		return requestlog.Record{}, 0, err
	}

	rawLabel := strings.TrimSpace(response)
	subject, recognized := NormalizeSubject(rawLabel)
	if !recognized {
		// Labels outside the taxonomy land in Other; the raw label
		// stays on the record.
		c.logger.Printf("[CLASSIFY] unrecognized subject label %q, falling back to %s", rawLabel, SubjectOther)
		subject = SubjectOther
	}

	record := requestlog.Record{
		Date:         time.Now().Format("2006-01-02"),
		Subject:      subject,
		OriginalLink: input,
	}
	if subject != rawLabel {
		record.RawLabel = rawLabel
	}

	total, err := c.store.Append(record)
	if err != nil {
		return requestlog.Record{}, 0, err
	}
	return record, total, nil
}

// NormalizeSubject validates a label against the taxonomy
// (case-insensitively) and returns its canonical spelling. "Other subject"
// variants collapse into SubjectOther.
func NormalizeSubject(label string) (string, bool) {
	trimmed := strings.TrimSpace(label)
	for _, s := range Subjects {
		if strings.EqualFold(trimmed, s) {
			return s, true
		}
	}
	if strings.EqualFold(trimmed, SubjectOther) || strings.EqualFold(trimmed, "Other subject") {
		return SubjectOther, true
	}
	return trimmed, false
}
