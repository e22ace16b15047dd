package ports

import (
	"context"

	"github.com/bnema/persona-cli/internal/domain"
)

// ReplyContext is the bundle handed to the generative-response collaborator.
type ReplyContext struct {
	History       []domain.Message
	PersonaPrompt string
	SpeakerName   string
	TimeOfDay     string
	Location      string
}

// Responder produces the character's next chat turn. A failed call is
// recovered locally: the turn simply yields no message.
type Responder interface {
	GenerateReply(ctx context.Context, rc ReplyContext) (string, error)
}
