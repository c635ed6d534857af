// Package agents provides the standard template agents that carry an idea
// from understanding to delivery. Their output is deterministic: each one
// renders a structured artifact from what it observed.
package agents

import (
	"context"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/agent"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/artifact"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/ports"
)

// Topics published by the standard agents.
const (
	TopicUnderstanding = "Project Understanding"
	TopicScope         = "Project Scope"
	TopicArchitecture  = "System Architecture"
	TopicStructure     = "Folder Structure"
	TopicCode          = "Code Generation"
	TopicValidation    = "Project Validation"
	TopicDelivery      = "Delivery"
)

// ComposeFunc builds an artifact from the observed messages.
type ComposeFunc func(ctx context.Context, observed []domain.Message) (artifact.Artifact, error)

// Template is an agent that renders one artifact per action.
type Template struct {
	*agent.Role
	compose ComposeFunc
}

var _ ports.Agent = (*Template)(nil)

// NewTemplate creates a Template agent.
func NewTemplate(name, topic string, compose ComposeFunc, opts ...agent.RoleOption) *Template {
	return &Template{
		Role:    agent.NewRole(name, topic, opts...),
		compose: compose,
	}
}

// Act renders the artifact, prefixed with the memory summary when a memory
// reader is wired, and publishes it.
func (t *Template) Act(ctx context.Context, log ports.Log) (string, error) {
	observed := t.Observe(log)

	art, err := t.compose(ctx, observed)
	if err != nil {
		return "", err
	}
	content := t.MemoryContext(ctx) + art.Render()

	causeBy := ""
	if n := len(observed); n > 0 {
		causeBy = observed[n-1].Topic
	}
	t.PublishCausedBy(log, content, causeBy)
	return content, nil
}

// static returns a ComposeFunc for a fixed artifact.
func static(a artifact.Artifact) ComposeFunc {
	return func(context.Context, []domain.Message) (artifact.Artifact, error) {
		return a, nil
	}
}
