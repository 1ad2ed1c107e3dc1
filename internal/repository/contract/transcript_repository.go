package contract

import (
	"context"

	"ai-studybot-be/internal/entity"
)

type TranscriptRepository interface {
	Archive(ctx context.Context, transcript *entity.Transcript) error
	FindAllByUserId(ctx context.Context, userId string) ([]*entity.Transcript, error)
}
