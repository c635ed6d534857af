package ports

import (
	"context"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
)

// Log is the shared, append-only message log as seen by agents.
type Log interface {
	// Publish appends msg and returns it with its sequence number stamped.
	Publish(msg domain.Message) domain.Message

	// FetchAll returns the full ordered history as of the call.
	FetchAll() []domain.Message

	// FindLatest returns the most recent message with the given topic.
	FindLatest(topic string) (domain.Message, bool)
}

// Agent is the capability contract of every actor in a workflow.
type Agent interface {
	// Name is unique within an Environment and is what workflow steps refer to.
	Name() string

	// Topic is what the agent publishes under.
	Topic() string

	// Subscribe unions topics into the subscription set.
	Subscribe(topics ...string)

	// Subscription returns the subscribed topics, sorted.
	Subscription() []string

	// Observe returns, in publish order, the messages whose topic is subscribed.
	Observe(log Log) []domain.Message

	// Act observes, computes an artifact and publishes exactly one message.
	// Content that fails validation is not an error; a returned error signals
	// a resource-level failure and is counted as one failed attempt.
	Act(ctx context.Context, log Log) (string, error)
}
