package domain

const (
	// OriginTopic is the reserved topic the seed request is published under.
	OriginTopic = "User"

	// DefaultWorkflowName is used when a workflow file does not name itself.
	DefaultWorkflowName = "sop"

	// MaxRetriesLimit caps a step's retry budget.
	MaxRetriesLimit = 1000
)
