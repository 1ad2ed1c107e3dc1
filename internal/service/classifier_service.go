package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"ai-studybot-be/internal/constant"
	"ai-studybot-be/internal/dto"
	"ai-studybot-be/pkg/classifier"
	"ai-studybot-be/pkg/events"
	"ai-studybot-be/pkg/llm"
	pktNats "ai-studybot-be/pkg/nats"
)

// IClassifierService routes and executes study material requests: link
// classification, subject reports and fallback chat.
type IClassifierService interface {
	Classify(ctx context.Context, userId string, request *dto.ClassifyRequest) (*dto.ClassifyResponse, error)
	Report(ctx context.Context, request *dto.ReportRequest) (*dto.ReportResponse, error)
	HandleMessage(ctx context.Context, userId string, request *dto.AgentRequest) (*dto.AgentResponse, error)
}

type classifierService struct {
	classifier       *classifier.Classifier
	reporter         *classifier.Reporter
	llmProvider      llm.LLMProvider
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher // nil when NATS is disabled
	logger           *log.Logger
}

func NewClassifierService(
	clf *classifier.Classifier,
	reporter *classifier.Reporter,
	llmProvider llm.LLMProvider,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	logger *log.Logger,
) IClassifierService {
	return &classifierService{
		classifier:       clf,
		reporter:         reporter,
		llmProvider:      llmProvider,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           logger,
	}
}

func (s *classifierService) Classify(ctx context.Context, userId string, request *dto.ClassifyRequest) (*dto.ClassifyResponse, error) {
	record, total, err := s.classifier.Classify(ctx, request.Input)
	if err != nil {
		return nil, err
	}

	// Fan out on the event bus. The response does not depend on delivery.
	payload := dto.PublishLinkClassifiedMessage{
		UserId:  userId,
		Subject: record.Subject,
		Link:    record.OriginalLink,
		Total:   total,
	}
	if payloadJson, err := json.Marshal(payload); err == nil {
		if err := s.publisherService.Publish(ctx, payloadJson); err != nil {
			s.logger.Printf("[CLASSIFIER] failed to publish link-classified message: %v", err)
		}
	}
	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewLinkClassified(userId, record.Subject, record.OriginalLink, total)); err != nil {
			s.logger.Printf("[CLASSIFIER] failed to publish NATS event: %v", err)
		}
	}

	return &dto.ClassifyResponse{
		Subject:  record.Subject,
		RawLabel: record.RawLabel,
		Link:     record.OriginalLink,
		Total:    total,
	}, nil
}

func (s *classifierService) Report(ctx context.Context, request *dto.ReportRequest) (*dto.ReportResponse, error) {
	summary, records, err := s.reporter.Report(ctx, request.Query)
	if err != nil {
		return nil, err
	}
	return &dto.ReportResponse{
		Summary: summary,
		Records: records,
	}, nil
}

// HandleMessage is the agent entry point: detect what the message asks for
// and run the matching operation.
func (s *classifierService) HandleMessage(ctx context.Context, userId string, request *dto.AgentRequest) (*dto.AgentResponse, error) {
	switch classifier.DetectIntent(request.Message) {
	case classifier.IntentClassify:
		classification, err := s.Classify(ctx, userId, &dto.ClassifyRequest{Input: request.Message})
		if err != nil {
			return nil, err
		}
		return &dto.AgentResponse{
			Intent:         string(classifier.IntentClassify),
			Reply:          fmt.Sprintf("Saved under %s. You now have %d saved materials.", classification.Subject, classification.Total),
			Classification: classification,
		}, nil

	case classifier.IntentReport:
		report, err := s.Report(ctx, &dto.ReportRequest{Query: request.Message})
		if err != nil {
			return nil, err
		}
		return &dto.AgentResponse{
			Intent: string(classifier.IntentReport),
			Reply:  report.Summary,
			Report: report,
		}, nil

	default:
		reply, err := s.llmProvider.Chat(ctx, []llm.Message{
			{Role: llm.RoleSystem, Content: constant.AgentChatPrompt},
			{Role: llm.RoleUser, Content: request.Message},
		})
		if err != nil {
			return nil, err
		}
		return &dto.AgentResponse{
			Intent: string(classifier.IntentChat),
			Reply:  reply,
		}, nil
	}
}
