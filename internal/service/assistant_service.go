package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"ai-studybot-be/internal/dto"
	"ai-studybot-be/internal/entity"
	"ai-studybot-be/internal/pkg/mailer"
	"ai-studybot-be/internal/repository/contract"
	"ai-studybot-be/pkg/events"
	"ai-studybot-be/pkg/llm"
	pktNats "ai-studybot-be/pkg/nats"
	"ai-studybot-be/pkg/utils"
	"ai-studybot-be/pkg/workflow"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionForbidden = errors.New("session belongs to another user")
	ErrNoDocuments      = errors.New("no documents generated yet")
	ErrExportDisabled   = errors.New("email export is not configured")
	ErrArchiveDisabled  = errors.New("transcript archive is not configured")
)

// IAssistantService defines the resume assistant service interface
type IAssistantService interface {
	CreateSession(ctx context.Context, userId string) (*dto.CreateSessionResponse, error)
	SendChat(ctx context.Context, userId string, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetSession(ctx context.Context, userId string, sessionId string) (*dto.GetSessionResponse, error)
	ResetSession(ctx context.Context, userId string, sessionId string) (*dto.CreateSessionResponse, error)
	DeleteSession(ctx context.Context, userId string, sessionId string) error
	ExportDocuments(ctx context.Context, userId string, request *dto.ExportDocumentsRequest) error
	ListTranscripts(ctx context.Context, userId string) ([]dto.TranscriptResponse, error)

	// Process is the websocket entry point: one turn, reply pre-chunked.
	Process(ctx context.Context, userId, sessionId, chat string) ([]string, error)
}

type assistantService struct {
	sessionRepo    contract.SessionRepository
	transcriptRepo contract.TranscriptRepository // nil when no archive DB is configured
	dispatcher     *workflow.Dispatcher
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher // nil when NATS is disabled
	logger         *log.Logger

	// Per-session locks: a session's turns run strictly one at a time, so
	// concurrent messages cannot interleave half-applied state.
	sessionLocks sync.Map
}

func NewAssistantService(
	sessionRepo contract.SessionRepository,
	transcriptRepo contract.TranscriptRepository,
	dispatcher *workflow.Dispatcher,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
	logger *log.Logger,
) IAssistantService {
	return &assistantService{
		sessionRepo:    sessionRepo,
		transcriptRepo: transcriptRepo,
		dispatcher:     dispatcher,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

func (s *assistantService) lockSession(sessionId string) *sync.Mutex {
	mu, _ := s.sessionLocks.LoadOrStore(sessionId, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// CreateSession starts a fresh conversation seeded with the greeting, so
// the first user message lands straight in profile collection.
func (s *assistantService) CreateSession(ctx context.Context, userId string) (*dto.CreateSessionResponse, error) {
	conversation := workflow.NewConversation(uuid.NewString(), userId)
	greeting := workflow.Greeting()
	conversation.History = append(conversation.History, llm.Message{Role: llm.RoleAssistant, Content: greeting})

	if err := s.sessionRepo.Save(ctx, conversation); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{
		SessionId: conversation.ID,
		Greeting:  greeting,
	}, nil
}

func (s *assistantService) loadOwned(ctx context.Context, userId, sessionId string) (*workflow.Conversation, error) {
	conversation, found, err := s.sessionRepo.Get(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrSessionNotFound
	}
	if conversation.UserID != userId {
		return nil, ErrSessionForbidden
	}
	return conversation, nil
}

// SendChat runs one workflow turn for the session.
func (s *assistantService) SendChat(ctx context.Context, userId string, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	mu := s.lockSession(request.SessionId)
	mu.Lock()
	defer mu.Unlock()

	conversation, err := s.loadOwned(ctx, userId, request.SessionId)
	if err != nil {
		return nil, err
	}

	prevStage := conversation.Stage
	reply := s.dispatcher.Turn(ctx, conversation, request.Chat)

	if err := s.sessionRepo.Save(ctx, conversation); err != nil {
		return nil, err
	}

	s.afterTurn(ctx, conversation, prevStage)

	return &dto.SendChatResponse{
		SessionId: conversation.ID,
		Stage:     string(conversation.Stage),
		Reply:     reply,
		Chunks:    utils.ChunkReply(reply),
		Revisions: conversation.Revisions,
	}, nil
}

// afterTurn handles the side effects of stage transitions: archiving a
// finished session and publishing events. All best-effort.
func (s *assistantService) afterTurn(ctx context.Context, c *workflow.Conversation, prevStage workflow.Stage) {
	if c.Stage == workflow.StageGenerating && c.Resume != "" && s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewDocumentsReady(c.ID, c.UserID, c.Revisions)); err != nil {
			s.logger.Printf("[ASSISTANT] failed to publish documents-ready event: %v", err)
		}
	}

	if c.Stage != workflow.StageFinal || prevStage == workflow.StageFinal {
		return
	}

	if s.transcriptRepo != nil {
		if err := s.archive(ctx, c); err != nil {
			s.logger.Printf("[ASSISTANT] failed to archive session %s: %v", c.ID, err)
		}
	}
	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewSessionFinalized(c.ID, c.UserID)); err != nil {
			s.logger.Printf("[ASSISTANT] failed to publish session-finalized event: %v", err)
		}
	}
}

func (s *assistantService) archive(ctx context.Context, c *workflow.Conversation) error {
	profile, err := json.Marshal(c.Profile)
	if err != nil {
		return err
	}
	history, err := json.Marshal(c.History)
	if err != nil {
		return err
	}

	return s.transcriptRepo.Archive(ctx, &entity.Transcript{
		Id:          uuid.New(),
		SessionId:   c.ID,
		UserId:      c.UserID,
		Stage:       string(c.Stage),
		Profile:     datatypes.JSON(profile),
		Vacancy:     c.Vacancy,
		Style:       c.Style,
		Language:    c.Language,
		Resume:      c.Resume,
		CoverLetter: c.CoverLetter,
		Revisions:   c.Revisions,
		History:     datatypes.JSON(history),
		CreatedAt:   time.Now(),
	})
}

func (s *assistantService) GetSession(ctx context.Context, userId string, sessionId string) (*dto.GetSessionResponse, error) {
	conversation, err := s.loadOwned(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}

	return &dto.GetSessionResponse{
		SessionId:   conversation.ID,
		Stage:       string(conversation.Stage),
		Profile:     conversation.Profile,
		Vacancy:     conversation.Vacancy,
		Style:       conversation.Style,
		Language:    conversation.Language,
		Resume:      conversation.Resume,
		CoverLetter: conversation.CoverLetter,
		Revisions:   conversation.Revisions,
	}, nil
}

// ResetSession reopens a session from scratch, keeping its id.
func (s *assistantService) ResetSession(ctx context.Context, userId string, sessionId string) (*dto.CreateSessionResponse, error) {
	mu := s.lockSession(sessionId)
	mu.Lock()
	defer mu.Unlock()

	conversation, err := s.loadOwned(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}

	conversation.Reset()
	greeting := workflow.Greeting()
	conversation.History = append(conversation.History, llm.Message{Role: llm.RoleAssistant, Content: greeting})

	if err := s.sessionRepo.Save(ctx, conversation); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{
		SessionId: conversation.ID,
		Greeting:  greeting,
	}, nil
}

func (s *assistantService) DeleteSession(ctx context.Context, userId string, sessionId string) error {
	if _, err := s.loadOwned(ctx, userId, sessionId); err != nil {
		return err
	}
	s.sessionLocks.Delete(sessionId)
	return s.sessionRepo.Delete(ctx, sessionId)
}

// ExportDocuments mails the generated documents to the user.
func (s *assistantService) ExportDocuments(ctx context.Context, userId string, request *dto.ExportDocumentsRequest) error {
	if s.emailService == nil {
		return ErrExportDisabled
	}

	conversation, err := s.loadOwned(ctx, userId, request.SessionId)
	if err != nil {
		return err
	}
	if conversation.Resume == "" {
		return ErrNoDocuments
	}

	return s.emailService.SendDocuments(request.Email, conversation.Resume, conversation.CoverLetter)
}

// ListTranscripts returns the user's archived sessions, newest first.
func (s *assistantService) ListTranscripts(ctx context.Context, userId string) ([]dto.TranscriptResponse, error) {
	if s.transcriptRepo == nil {
		return nil, ErrArchiveDisabled
	}

	transcripts, err := s.transcriptRepo.FindAllByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}

	res := make([]dto.TranscriptResponse, 0, len(transcripts))
	for _, tr := range transcripts {
		res = append(res, dto.TranscriptResponse{
			SessionId:   tr.SessionId,
			Stage:       tr.Stage,
			Vacancy:     tr.Vacancy,
			Style:       tr.Style,
			Language:    tr.Language,
			Resume:      tr.Resume,
			CoverLetter: tr.CoverLetter,
			Revisions:   tr.Revisions,
			ArchivedAt:  tr.CreatedAt,
		})
	}
	return res, nil
}

func (s *assistantService) Process(ctx context.Context, userId, sessionId, chat string) ([]string, error) {
	response, err := s.SendChat(ctx, userId, &dto.SendChatRequest{
		SessionId: sessionId,
		Chat:      chat,
	})
	if err != nil {
		return nil, err
	}
	return response.Chunks, nil
}
