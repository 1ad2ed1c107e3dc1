package workflow

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"ai-studybot-be/pkg/llm"
)

// scriptedLLM returns queued replies in order; the last reply repeats. A
// non-nil err fails every call.
type scriptedLLM struct {
	replies []string
	err     error
	prompts []string
}

func (f *scriptedLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	prompt := ""
	if len(history) > 0 {
		prompt = history[len(history)-1].Content
	}
	return f.reply(prompt)
}

func (f *scriptedLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.reply(prompt)
}

func (f *scriptedLLM) reply(prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", nil
	}
	r := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return r, nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestCollectProfileMissingFields(t *testing.T) {
	fake := &scriptedLLM{replies: []string{`{"name": "Ivan Petrov"}`}}
	h := NewHandlers(fake, testLogger())
	c := NewConversation("s1", "u1")
	c.History = []llm.Message{
		{Role: llm.RoleAssistant, Content: "hi"},
		{Role: llm.RoleUser, Content: "I'm Ivan"},
	}

	delta, err := h.CollectProfile(context.Background(), c, "I'm Ivan")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if delta.Profile["name"] != "Ivan Petrov" {
		t.Errorf("extracted name = %q", delta.Profile["name"])
	}
	if !strings.HasPrefix(delta.Reply, "Please tell me: ") {
		t.Fatalf("reply = %q, want missing-fields prompt", delta.Reply)
	}
	// Required fields only, in declaration order, name already provided.
	if !strings.Contains(delta.Reply, "education") || !strings.Contains(delta.Reply, "skills") {
		t.Errorf("reply %q does not list the missing required fields", delta.Reply)
	}
	if strings.Contains(delta.Reply, "full name") {
		t.Errorf("reply %q asks for a field that was just provided", delta.Reply)
	}
	if strings.Contains(delta.Reply, "projects") {
		t.Errorf("reply %q asks for an optional field", delta.Reply)
	}
}

func TestCollectProfileComplete(t *testing.T) {
	fake := &scriptedLLM{replies: []string{
		`{"name": "Ivan Petrov", "education": "MSU", "skills": "Python"}`,
	}}
	h := NewHandlers(fake, testLogger())
	c := NewConversation("s1", "u1")
	c.History = []llm.Message{
		{Role: llm.RoleAssistant, Content: "hi"},
		{Role: llm.RoleUser, Content: "details"},
	}

	delta, err := h.CollectProfile(context.Background(), c, "details")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if delta.Reply != replyProfileDone {
		t.Errorf("reply = %q, want profile-done prompt", delta.Reply)
	}
	if delta.Stage != "" {
		t.Errorf("handler set stage %q, progression belongs to the router", delta.Stage)
	}
}

func TestCollectProfileLLMFailureFallsBack(t *testing.T) {
	fake := &scriptedLLM{err: errors.New("model down")}
	h := NewHandlers(fake, testLogger())
	c := NewConversation("s1", "u1")
	c.History = []llm.Message{
		{Role: llm.RoleAssistant, Content: "hi"},
		{Role: llm.RoleUser, Content: "x"},
	}

	delta, err := h.CollectProfile(context.Background(), c, "My name is Ivan Petrov")
	if err != nil {
		t.Fatalf("LLM failure must not fail the turn: %v", err)
	}
	if delta.Profile["name"] != "Ivan Petrov" {
		t.Errorf("keyword fallback missed the name, got %v", delta.Profile)
	}
}

func TestCollectVacancyStoredVerbatim(t *testing.T) {
	h := NewHandlers(&scriptedLLM{}, testLogger())
	c := NewConversation("s1", "u1")

	vacancy := "Backend internship at Acme.\nRequirements: Go, SQL."
	delta, err := h.CollectVacancy(context.Background(), c, vacancy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if delta.Vacancy != vacancy {
		t.Errorf("vacancy altered: %q", delta.Vacancy)
	}
	if delta.Reply != replyStylePrompt {
		t.Errorf("reply = %q, want style prompt", delta.Reply)
	}
}

func TestSelectStyle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantSty  string
		wantLang string
	}{
		{"numeric formal", "1", StyleFormal, LanguageRU},
		{"numeric creative", "2 please", StyleCreative, LanguageRU},
		{"named minimal", "minimal works for me", StyleMinimal, LanguageRU},
		{"keyword business", "something business-like", StyleFormal, LanguageRU},
		{"english request", "creative, english please", StyleCreative, LanguageEN},
		{"short en token", "3 en", StyleMinimal, LanguageEN},
		{"en not matched inside words", "generate", StyleFormal, LanguageRU},
		{"unrecognized defaults to formal", "whatever you think", StyleFormal, LanguageRU},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandlers(&scriptedLLM{}, testLogger())
			c := NewConversation("s1", "u1")

			delta, err := h.SelectStyle(context.Background(), c, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if delta.Style != tt.wantSty {
				t.Errorf("style = %q, want %q", delta.Style, tt.wantSty)
			}
			if delta.Language != tt.wantLang {
				t.Errorf("language = %q, want %q", delta.Language, tt.wantLang)
			}
		})
	}
}

func TestGenerateSplitsDocuments(t *testing.T) {
	fake := &scriptedLLM{replies: []string{
		"RESUME:\nIvan Petrov, MSU\n\nCOVER LETTER:\nDear team, I would love to join.",
	}}
	h := NewHandlers(fake, testLogger())
	c := NewConversation("s1", "u1")
	c.Style = StyleFormal
	c.Language = LanguageRU
	c.Revisions = 2

	delta, err := h.Generate(context.Background(), c, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if delta.Resume == nil || *delta.Resume != "Ivan Petrov, MSU" {
		t.Errorf("resume delta = %v", delta.Resume)
	}
	if delta.CoverLetter == nil || !strings.HasPrefix(*delta.CoverLetter, "COVER LETTER:") {
		t.Errorf("cover letter delta = %v", delta.CoverLetter)
	}
	if !delta.ResetRevisions {
		t.Error("generation must reset the revision counter")
	}
}

func TestGenerateMissingMarker(t *testing.T) {
	fake := &scriptedLLM{replies: []string{"Just one document, no marker."}}
	h := NewHandlers(fake, testLogger())
	c := NewConversation("s1", "u1")

	delta, err := h.Generate(context.Background(), c, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if delta.Resume == nil || *delta.Resume != "Just one document, no marker." {
		t.Errorf("resume delta = %v", delta.Resume)
	}
	if delta.CoverLetter == nil || *delta.CoverLetter != "" {
		t.Errorf("cover letter should be explicitly empty, got %v", delta.CoverLetter)
	}
}

func TestGenerateLLMFailure(t *testing.T) {
	fake := &scriptedLLM{err: errors.New("model down")}
	h := NewHandlers(fake, testLogger())
	c := NewConversation("s1", "u1")

	delta, err := h.Generate(context.Background(), c, "")
	if err != nil {
		t.Fatalf("LLM failure must not fail the turn: %v", err)
	}
	if delta.Reply != replyGenerationFailed {
		t.Errorf("reply = %q, want generation-failed message", delta.Reply)
	}
	if delta.Resume != nil {
		t.Error("failed generation must not touch the documents")
	}
}

func TestEditKeepsDocumentsWithoutMarker(t *testing.T) {
	fake := &scriptedLLM{replies: []string{"Sure, shortened it for you."}}
	h := NewHandlers(fake, testLogger())
	c := NewConversation("s1", "u1")
	c.Resume = "old resume"
	c.CoverLetter = "old letter"
	c.Revisions = 1

	delta, err := h.Edit(context.Background(), c, "make it shorter")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *delta.Resume != "old resume" || *delta.CoverLetter != "old letter" {
		t.Error("missing marker must keep the previous documents")
	}
	if !delta.BumpRevisions {
		t.Error("a failed split still consumes a revision")
	}
}

func TestEditAtRevisionLimit(t *testing.T) {
	fake := &scriptedLLM{err: errors.New("must not be called")}
	h := NewHandlers(fake, testLogger())
	c := NewConversation("s1", "u1")
	c.Revisions = MaxRevisions

	delta, err := h.Edit(context.Background(), c, "one more change")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if delta.Stage != StageFinal {
		t.Errorf("stage = %q, want FINAL", delta.Stage)
	}
	if delta.Reply != replyRevisionLimit {
		t.Errorf("reply = %q, want revision-limit message", delta.Reply)
	}
	if len(fake.prompts) != 0 {
		t.Error("capped edit must not call the model")
	}
}

func TestFinalIsIdempotent(t *testing.T) {
	h := NewHandlers(&scriptedLLM{}, testLogger())
	c := NewConversation("s1", "u1")
	c.Stage = StageFinal

	for _, input := range []string{"thanks", "change the resume", ""} {
		delta, err := h.Final(context.Background(), c, input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if delta.Stage != StageFinal || delta.Reply != replyFinal {
			t.Errorf("Final(%q) = stage %q reply %q", input, delta.Stage, delta.Reply)
		}
	}
}
