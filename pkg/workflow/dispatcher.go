package workflow

import (
	"context"
	"log"

	"ai-studybot-be/pkg/llm"
)

// HandlerFunc is the signature every stage handler implements.
type HandlerFunc func(ctx context.Context, c *Conversation, userText string) (*Delta, error)

// Dispatcher is the only place that sequences Route -> handler -> merge.
// It owns the history: the user turn goes in before routing, the assistant
// reply after the merge.
type Dispatcher struct {
	handlers map[Stage]HandlerFunc
	logger   *log.Logger
}

func NewDispatcher(llmProvider llm.LLMProvider, logger *log.Logger) *Dispatcher {
	h := NewHandlers(llmProvider, logger)
	return &Dispatcher{
		logger: logger,
		handlers: map[Stage]HandlerFunc{
			StageCollectingProfile: h.CollectProfile,
			StageCollectingVacancy: h.CollectVacancy,
			StageSelectingStyle:    h.SelectStyle,
			StageGenerating:        h.Generate,
			StageEditing:           h.Edit,
			StageFinal:             h.Final,
		},
	}
}

// Turn processes one user turn to completion and returns the reply. The
// handler runs for the stage being entered, not the stage the conversation
// was in. A handler error never corrupts state: the delta is discarded, the
// stage reverts and the user gets a plain error reply.
func (d *Dispatcher) Turn(ctx context.Context, c *Conversation, userText string) string {
	c.History = append(c.History, llm.Message{Role: llm.RoleUser, Content: userText})

	prev := c.Stage
	next := Route(c)

	handler, ok := d.handlers[next]
	if !ok {
		// Route only returns registered stages; getting here means the
		// stage set and the handler table drifted apart.
		d.logger.Printf("[DISPATCH] no handler registered for stage %s", next)
		c.History = append(c.History, llm.Message{Role: llm.RoleAssistant, Content: replyTurnFailed})
		return replyTurnFailed
	}

	c.Stage = next
	d.logger.Printf("[DISPATCH] session=%s stage=%s -> %s", c.ID, prev, next)

	delta, err := handler(ctx, c, userText)
	if err != nil {
		d.logger.Printf("[DISPATCH] handler for stage %s failed: %v", next, err)
		c.Stage = prev
		delta = &Delta{Reply: replyTurnFailed}
	}

	delta.apply(c)
	c.History = append(c.History, llm.Message{Role: llm.RoleAssistant, Content: delta.Reply})
	return delta.Reply
}

// Greeting is the assistant's opening message, seeded into history when a
// session is created so the first real user message lands in profile
// collection.
func Greeting() string {
	return replyIntro
}
