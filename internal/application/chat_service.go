package application

import (
	"context"
	"fmt"

	"github.com/bnema/persona-cli/internal/domain"
	"github.com/bnema/persona-cli/internal/ports"
	"go.uber.org/zap"
)

// ChatService appends user turns and requests generated replies. While a
// reply is pending the service is busy and rejects new outgoing messages;
// the virtual clock keeps ticking, which is intentional: the world keeps
// moving while the character "thinks".
type ChatService struct {
	responder ports.Responder
	snapshots *SnapshotService
	logger    *zap.Logger

	busy bool
}

func NewChatService(responder ports.Responder, snapshots *SnapshotService, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ChatService{responder: responder, snapshots: snapshots, logger: logger}
}

func (s *ChatService) Busy() bool {
	return s.busy
}

// AppendUser records an outgoing user message and persists the session.
// It returns false without mutating anything while a reply is pending or
// while the character is at work.
func (s *ChatService) AppendUser(ctx context.Context, session *domain.Session, text string) (domain.Message, bool, error) {
	if s.busy || session.IsWorking() {
		return domain.Message{}, false, nil
	}

	msg := domain.NewUserMessage(text, session.Clock.Now())
	session.Append(msg)

	if err := s.snapshots.SaveSession(ctx, session); err != nil {
		return msg, true, fmt.Errorf("persist session after user message: %w", err)
	}

	s.busy = true
	return msg, true, nil
}

// Generate calls the generative collaborator. It takes a copied history so
// it can run off the tick loop; it mutates nothing.
func (s *ChatService) Generate(ctx context.Context, ch domain.Character, history []domain.Message, now domain.VirtualTime) (string, error) {
	if s.responder == nil {
		return "", fmt.Errorf("no responder configured")
	}

	return s.responder.GenerateReply(ctx, ports.ReplyContext{
		History:       history,
		PersonaPrompt: ch.PersonaPrompt,
		SpeakerName:   ch.Name,
		TimeOfDay:     timeOfDay(now),
		Location:      ch.Scenario.Location,
	})
}

// CompleteReply finishes a turn. A generation error is recovered locally:
// logged, busy flag cleared, no model message appended.
func (s *ChatService) CompleteReply(ctx context.Context, ch domain.Character, session *domain.Session, text string, genErr error) (domain.Message, bool, error) {
	s.busy = false

	if genErr != nil {
		s.logger.Warn("reply generation failed, turn skipped",
			zap.String("character", string(ch.ID)),
			zap.Error(genErr))
		return domain.Message{}, false, nil
	}

	msg := domain.NewModelMessage(text, ch.Name, session.Clock.Now())
	session.Append(msg)

	if err := s.snapshots.SaveSession(ctx, session); err != nil {
		return msg, true, fmt.Errorf("persist session after reply: %w", err)
	}

	return msg, true, nil
}

// CopyHistory snapshots the message log for use outside the tick loop.
func CopyHistory(session *domain.Session) []domain.Message {
	history := make([]domain.Message, len(session.Messages))
	copy(history, session.Messages)
	return history
}

func timeOfDay(now domain.VirtualTime) string {
	switch h := now.Hour(); {
	case h < 5:
		return "deep night"
	case h < 9:
		return "early morning"
	case h < 12:
		return "morning"
	case h < 17:
		return "afternoon"
	case h < 21:
		return "evening"
	default:
		return "night"
	}
}
