package service

import (
	"context"
	"io"
	"log"
	"testing"

	"ai-studybot-be/internal/dto"
	"ai-studybot-be/internal/entity"
	"ai-studybot-be/internal/pkg/mailer"
	"ai-studybot-be/internal/repository/memory"
	"ai-studybot-be/pkg/llm"
	"ai-studybot-be/pkg/workflow"

	"github.com/stretchr/testify/assert"
)

type stubLLM struct {
	reply string
	err   error
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return s.reply, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.reply, s.err
}

type stubMailer struct {
	sentTo string
	err    error
}

func (m *stubMailer) SendDocuments(toEmail, resume, coverLetter string) error {
	m.sentTo = toEmail
	return m.err
}

type stubTranscriptRepo struct {
	archived []*entity.Transcript
}

func (r *stubTranscriptRepo) Archive(ctx context.Context, transcript *entity.Transcript) error {
	r.archived = append(r.archived, transcript)
	return nil
}

func (r *stubTranscriptRepo) FindAllByUserId(ctx context.Context, userId string) ([]*entity.Transcript, error) {
	var out []*entity.Transcript
	for _, tr := range r.archived {
		if tr.UserId == userId {
			out = append(out, tr)
		}
	}
	return out, nil
}

func newTestService(provider llm.LLMProvider, email *stubMailer) IAssistantService {
	logger := log.New(io.Discard, "", 0)
	dispatcher := workflow.NewDispatcher(provider, logger)
	var emailService mailer.IEmailService
	if email != nil {
		emailService = email
	}
	return NewAssistantService(memory.NewSessionRepository(), nil, dispatcher, emailService, nil, logger)
}

func TestCreateSessionSeedsGreeting(t *testing.T) {
	svc := newTestService(&stubLLM{}, nil)

	res, err := svc.CreateSession(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.NotEmpty(t, res.SessionId)
	assert.Contains(t, res.Greeting, "resume")

	session, err := svc.GetSession(context.Background(), "user-1", res.SessionId)
	assert.NoError(t, err)
	assert.Equal(t, string(workflow.StageStart), session.Stage)
}

func TestSendChatOwnership(t *testing.T) {
	svc := newTestService(&stubLLM{reply: `{"name": "Ivan"}`}, nil)

	res, err := svc.CreateSession(context.Background(), "user-1")
	assert.NoError(t, err)

	_, err = svc.SendChat(context.Background(), "intruder", &dto.SendChatRequest{
		SessionId: res.SessionId,
		Chat:      "hello",
	})
	assert.ErrorIs(t, err, ErrSessionForbidden)

	_, err = svc.SendChat(context.Background(), "user-1", &dto.SendChatRequest{
		SessionId: "no-such-session",
		Chat:      "hello",
	})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSendChatAdvancesAndPersists(t *testing.T) {
	svc := newTestService(&stubLLM{reply: `{"name": "Ivan", "education": "MSU", "skills": "Go"}`}, nil)

	created, err := svc.CreateSession(context.Background(), "user-1")
	assert.NoError(t, err)

	res, err := svc.SendChat(context.Background(), "user-1", &dto.SendChatRequest{
		SessionId: created.SessionId,
		Chat:      "Ivan, MSU, Go",
	})
	assert.NoError(t, err)
	assert.Equal(t, string(workflow.StageCollectingProfile), res.Stage)
	assert.NotEmpty(t, res.Chunks)
	assert.Equal(t, res.Reply, res.Chunks[0])

	session, err := svc.GetSession(context.Background(), "user-1", created.SessionId)
	assert.NoError(t, err)
	assert.Equal(t, "Ivan", session.Profile["name"])
}

func TestResetSessionClearsState(t *testing.T) {
	svc := newTestService(&stubLLM{reply: `{"name": "Ivan", "education": "MSU", "skills": "Go"}`}, nil)

	created, err := svc.CreateSession(context.Background(), "user-1")
	assert.NoError(t, err)

	_, err = svc.SendChat(context.Background(), "user-1", &dto.SendChatRequest{
		SessionId: created.SessionId,
		Chat:      "Ivan, MSU, Go",
	})
	assert.NoError(t, err)

	_, err = svc.ResetSession(context.Background(), "user-1", created.SessionId)
	assert.NoError(t, err)

	session, err := svc.GetSession(context.Background(), "user-1", created.SessionId)
	assert.NoError(t, err)
	assert.Equal(t, string(workflow.StageStart), session.Stage)
	assert.Empty(t, session.Profile)
}

func TestDeleteSession(t *testing.T) {
	svc := newTestService(&stubLLM{}, nil)

	created, err := svc.CreateSession(context.Background(), "user-1")
	assert.NoError(t, err)

	err = svc.DeleteSession(context.Background(), "user-1", created.SessionId)
	assert.NoError(t, err)

	_, err = svc.GetSession(context.Background(), "user-1", created.SessionId)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestExportDocuments(t *testing.T) {
	mail := &stubMailer{}
	svc := newTestService(&stubLLM{}, mail)

	created, err := svc.CreateSession(context.Background(), "user-1")
	assert.NoError(t, err)

	// Nothing generated yet.
	err = svc.ExportDocuments(context.Background(), "user-1", &dto.ExportDocumentsRequest{
		SessionId: created.SessionId,
		Email:     "ivan@example.com",
	})
	assert.ErrorIs(t, err, ErrNoDocuments)
}

func TestExportDocumentsDisabled(t *testing.T) {
	svc := newTestService(&stubLLM{}, nil)

	created, err := svc.CreateSession(context.Background(), "user-1")
	assert.NoError(t, err)

	err = svc.ExportDocuments(context.Background(), "user-1", &dto.ExportDocumentsRequest{
		SessionId: created.SessionId,
		Email:     "ivan@example.com",
	})
	assert.ErrorIs(t, err, ErrExportDisabled)
}

func TestListTranscriptsDisabled(t *testing.T) {
	svc := newTestService(&stubLLM{}, nil)

	_, err := svc.ListTranscripts(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrArchiveDisabled)
}

func TestListTranscriptsFiltersByUser(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	repo := &stubTranscriptRepo{archived: []*entity.Transcript{
		{SessionId: "s1", UserId: "user-1", Stage: "FINAL", Resume: "resume 1", Revisions: 3},
		{SessionId: "s2", UserId: "someone-else", Stage: "FINAL"},
	}}
	svc := NewAssistantService(
		memory.NewSessionRepository(),
		repo,
		workflow.NewDispatcher(&stubLLM{}, logger),
		nil,
		nil,
		logger,
	)

	transcripts, err := svc.ListTranscripts(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Len(t, transcripts, 1)
	assert.Equal(t, "s1", transcripts[0].SessionId)
	assert.Equal(t, "resume 1", transcripts[0].Resume)
	assert.Equal(t, 3, transcripts[0].Revisions)
}

func TestProcessReturnsChunks(t *testing.T) {
	svc := newTestService(&stubLLM{reply: `{"name": "Ivan"}`}, nil)

	created, err := svc.CreateSession(context.Background(), "user-1")
	assert.NoError(t, err)

	chunks, err := svc.Process(context.Background(), "user-1", created.SessionId, "I'm Ivan")
	assert.NoError(t, err)
	assert.NotEmpty(t, chunks)
}
