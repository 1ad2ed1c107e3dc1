package dto

import "time"

type CreateSessionResponse struct {
	SessionId string `json:"session_id"`
	Greeting  string `json:"greeting"`
}

type SendChatRequest struct {
	SessionId string `json:"session_id" validate:"required"`
	Chat      string `json:"chat" validate:"required"`
}

type SendChatResponse struct {
	SessionId string   `json:"session_id"`
	Stage     string   `json:"stage"`
	Reply     string   `json:"reply"`
	Chunks    []string `json:"chunks,omitempty"` // reply split for transports with message size limits
	Revisions int      `json:"revisions"`
}

type GetSessionResponse struct {
	SessionId   string            `json:"session_id"`
	Stage       string            `json:"stage"`
	Profile     map[string]string `json:"profile"`
	Vacancy     string            `json:"vacancy"`
	Style       string            `json:"style"`
	Language    string            `json:"language"`
	Resume      string            `json:"resume"`
	CoverLetter string            `json:"cover_letter"`
	Revisions   int               `json:"revisions"`
}

type ExportDocumentsRequest struct {
	SessionId string `json:"session_id" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
}

type TranscriptResponse struct {
	SessionId   string    `json:"session_id"`
	Stage       string    `json:"stage"`
	Vacancy     string    `json:"vacancy"`
	Style       string    `json:"style"`
	Language    string    `json:"language"`
	Resume      string    `json:"resume"`
	CoverLetter string    `json:"cover_letter"`
	Revisions   int       `json:"revisions"`
	ArchivedAt  time.Time `json:"archived_at"`
}
