package implementation

import (
	"context"

	"ai-studybot-be/internal/entity"
	"ai-studybot-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TranscriptRepositoryImpl struct {
	db *gorm.DB
}

func NewTranscriptRepository(db *gorm.DB) contract.TranscriptRepository {
	return &TranscriptRepositoryImpl{db: db}
}

func (r *TranscriptRepositoryImpl) Archive(ctx context.Context, transcript *entity.Transcript) error {
	if transcript.Id == uuid.Nil {
		transcript.Id = uuid.New()
	}
	return r.db.WithContext(ctx).Create(transcript).Error
}

func (r *TranscriptRepositoryImpl) FindAllByUserId(ctx context.Context, userId string) ([]*entity.Transcript, error) {
	var transcripts []*entity.Transcript
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Find(&transcripts).Error
	if err != nil {
		return nil, err
	}
	return transcripts, nil
}
