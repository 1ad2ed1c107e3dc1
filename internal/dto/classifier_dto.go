package dto

import "ai-studybot-be/pkg/requestlog"

type ClassifyRequest struct {
	Input string `json:"input" validate:"required"`
}

type ClassifyResponse struct {
	Subject  string `json:"subject"`
	RawLabel string `json:"raw_label,omitempty"`
	Link     string `json:"link"`
	Total    int    `json:"total"`
}

type ReportRequest struct {
	Query string `json:"query" validate:"required"`
}

type ReportResponse struct {
	Summary string              `json:"summary"`
	Records []requestlog.Record `json:"records"`
}

type AgentRequest struct {
	Message string `json:"message" validate:"required"`
}

type AgentResponse struct {
	Intent string `json:"intent"` // "classify" | "report" | "chat"
	Reply  string `json:"reply"`

	Classification *ClassifyResponse `json:"classification,omitempty"`
	Report         *ReportResponse   `json:"report,omitempty"`
}

// PublishLinkClassifiedMessage is the event-bus payload emitted after a
// link lands in the log.
type PublishLinkClassifiedMessage struct {
	UserId  string `json:"user_id"`
	Subject string `json:"subject"`
	Link    string `json:"link"`
	Total   int    `json:"total"`
}
