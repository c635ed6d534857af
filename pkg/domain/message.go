package domain

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Message is a single artifact published to the shared log.
// Identity is the publish sequence (Seq), never the content.
type Message struct {
	// Seq is the 0-based publish position, assigned by the log.
	Seq int `json:"seq"`

	// Topic is the publisher's profile. It doubles as the subscription key.
	Topic string `json:"topic"`

	Content string `json:"content"`

	// CauseBy optionally names what caused the publish (e.g. the step name).
	CauseBy string `json:"cause_by,omitempty"`

	// SentFrom is the name of the publishing agent. The seed carries OriginTopic.
	SentFrom string `json:"sent_from,omitempty"`

	PublishedAt time.Time `json:"published_at"`
}

// NewMessage builds an unpublished message. Seq and PublishedAt are stamped by the log.
func NewMessage(topic, content, sentFrom string) Message {
	return Message{
		Topic:    topic,
		Content:  content,
		SentFrom: sentFrom,
	}
}

func (m Message) String() string {
	preview := m.Content
	if utf8.RuneCountInString(preview) > 50 {
		preview = string([]rune(preview)[:50])
	}
	return fmt.Sprintf("%s: %s...", m.Topic, preview)
}
