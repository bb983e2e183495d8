package chat

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a transcript message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Fixed bot replies.
const (
	UploadErrorText   = "Sorry, there was an error processing your documents."
	AskErrorText      = "Sorry, there was an error processing your question."
	SelectionHintText = "Please select which documents you want to ask about from the sidebar."
)

// Message is one transcript entry. Messages are never mutated after they
// are appended.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Sources   []string  `json:"sources,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func newMessage(role Role, text string, sources []string) Message {
	var src []string
	if len(sources) > 0 {
		src = append([]string(nil), sources...)
	}
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Sources:   src,
		CreatedAt: time.Now(),
	}
}
