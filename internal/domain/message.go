package domain

import "github.com/google/uuid"

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one entry in a session's append-only conversation log. Ordering
// is insertion order; the log is never re-sorted by timestamp.
type Message struct {
	ID            string      `json:"id"`
	Role          Role        `json:"role"`
	Text          string      `json:"text"`
	Timestamp     VirtualTime `json:"timestamp"`
	IsSystemEvent bool        `json:"isSystemEvent,omitempty"`
	SpeakerName   string      `json:"speakerName,omitempty"`
	Image         string      `json:"image,omitempty"`
}

func NewUserMessage(text string, at VirtualTime) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Text:      text,
		Timestamp: at,
	}
}

func NewModelMessage(text, speaker string, at VirtualTime) Message {
	return Message{
		ID:          uuid.NewString(),
		Role:        RoleModel,
		Text:        text,
		Timestamp:   at,
		SpeakerName: speaker,
	}
}

// NewSystemMessage creates a narration entry emitted by the scheduler (shift
// changes, salary payouts, delivery arrivals). System events render on the
// model side of the transcript but carry no speaker.
func NewSystemMessage(text string, at VirtualTime) Message {
	return Message{
		ID:            uuid.NewString(),
		Role:          RoleModel,
		Text:          text,
		Timestamp:     at,
		IsSystemEvent: true,
	}
}
