package classifier

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"ai-studybot-be/internal/constant"
	"ai-studybot-be/pkg/llm"
	"ai-studybot-be/pkg/requestlog"
)

// Intent is what the agent decided a message is asking for.
type Intent string

const (
	IntentClassify Intent = "classify"
	IntentReport   Intent = "report"
	IntentChat     Intent = "chat"
)

// windowDays maps period keywords to a day count. Resolution walks the
// slice in order so "week" wins over a stray "month" later in the message.
var windowDays = []struct {
	keyword string
	days    int
}{
	{"week", 7},
	{"month", 30},
	{"quarter", 90},
	{"year", 365},
}

const defaultWindowDays = 30

// Reporter builds subject reports over the persistent log.
type Reporter struct {
	llmProvider llm.LLMProvider
	store       *requestlog.Store
	logger      *log.Logger
}

func NewReporter(llmProvider llm.LLMProvider, store *requestlog.Store, logger *log.Logger) *Reporter {
	return &Reporter{
		llmProvider: llmProvider,
		store:       store,
		logger:      logger,
	}
}

// DetectIntent routes a free-form message. A link means classification, a
// period or report keyword means a report, anything else is plain chat.
func DetectIntent(message string) Intent {
	lower := strings.ToLower(message)
	if strings.Contains(lower, "http://") || strings.Contains(lower, "https://") || strings.Contains(lower, "www.") {
		return IntentClassify
	}
	for _, kw := range []string{"report", "materials", "list", "saved", "show me"} {
		if strings.Contains(lower, kw) {
			return IntentReport
		}
	}
	return IntentChat
}

// ResolveWindow picks the report period from the message keywords. No
// keyword means the default 30-day window.
func ResolveWindow(message string) int {
	lower := strings.ToLower(message)
	for _, w := range windowDays {
		if strings.Contains(lower, w.keyword) {
			return w.days
		}
	}
	return defaultWindowDays
}

// ResolveSubject finds which taxonomy subject a report request is about.
// Substring match against the canonical names comes first; only when that
// fails does the model get asked, and its answer is validated the same way
// a classification label is.
func (r *Reporter) ResolveSubject(ctx context.Context, message string) (string, error) {
	lower := strings.ToLower(message)
	for _, s := range Subjects {
		if strings.Contains(lower, strings.ToLower(s)) {
			return s, nil
		}
	}

	response, err := r.llmProvider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: constant.SubjectResolvePrompt},
		{Role: llm.RoleUser, Content: message},
	})
	if err != nil {
		return "", err
	}

	subject, recognized := NormalizeSubject(response)
	if !recognized {
		r.logger.Printf("[REPORT] unrecognized subject %q from resolver, falling back to %s", response, SubjectOther)
		return SubjectOther, nil
	}
	return subject, nil
}

// Report returns the records for the requested subject and period plus a
// rendered summary. An empty result is a normal outcome with its own
// message, not an error.
func (r *Reporter) Report(ctx context.Context, message string) (string, []requestlog.Record, error) {
	subject, err := r.ResolveSubject(ctx, message)
	if err != nil {
		return "", nil, err
	}
	days := ResolveWindow(message)

	records, err := r.store.ReadAll()
	if err != nil {
		return "", nil, err
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	matched := requestlog.Filter(records, subject, cutoff)

	if len(matched) == 0 {
		return fmt.Sprintf("No saved materials for %s in the last %d days.", subject, days), matched, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Materials for %s (last %d days):\n", subject, days)
	for i, rec := range matched {
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, rec.Date, rec.OriginalLink)
	}
	fmt.Fprintf(&b, "Total: %d", len(matched))

	return b.String(), matched, nil
}
