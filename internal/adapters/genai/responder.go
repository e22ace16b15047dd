package genai

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/persona-cli/internal/domain"
	"github.com/bnema/persona-cli/internal/ports"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// Responder generates character replies through the Gemini API. Failures are
// returned to the caller, who recovers by skipping the turn.
type Responder struct {
	client *genai.Client
	model  string
}

var _ ports.Responder = (*Responder)(nil)

func NewResponder(ctx context.Context, apiKey, model string) (*Responder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("genai api key is required")
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Responder{client: client, model: model}, nil
}

func (r *Responder) GenerateReply(ctx context.Context, rc ports.ReplyContext) (string, error) {
	contents := historyContents(rc.History)
	if len(contents) == 0 {
		return "", fmt.Errorf("empty conversation history")
	}

	resp, err := r.client.Models.GenerateContent(ctx, r.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction(rc), genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty reply from model")
	}

	return text, nil
}

// historyContents maps the message log onto the wire roles. System events
// are folded in as bracketed narration on the model side so the model sees
// what happened in the simulated world.
func historyContents(history []domain.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		text := msg.Text
		var role genai.Role = genai.RoleUser
		if msg.Role == domain.RoleModel {
			role = genai.RoleModel
		}
		if msg.IsSystemEvent {
			text = "[" + text + "]"
		}
		contents = append(contents, genai.NewContentFromText(text, role))
	}
	return contents
}

func systemInstruction(rc ports.ReplyContext) string {
	var b strings.Builder
	b.WriteString(rc.PersonaPrompt)
	if rc.SpeakerName != "" {
		fmt.Fprintf(&b, "\nYou are %s. Stay in character.", rc.SpeakerName)
	}
	if rc.TimeOfDay != "" {
		fmt.Fprintf(&b, "\nIt is currently %s.", rc.TimeOfDay)
	}
	if rc.Location != "" {
		fmt.Fprintf(&b, "\nYou are at: %s.", rc.Location)
	}
	return b.String()
}
