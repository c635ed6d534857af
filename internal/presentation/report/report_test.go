package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesohamdatta/AgenDev-Studio/internal/presentation/report"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/artifact"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
)

func sampleRun() *domain.RunResult {
	good := artifact.Artifact{Title: "Scope", Purpose: "p", Output: "- list files", NextStep: "n"}.Render()
	return &domain.RunResult{
		ID:       "run-1",
		Workflow: "sop",
		Seed:     "file tool",
		Status:   domain.RunCompleted,
		Success:  true,
		Log: []domain.Message{
			{Seq: 0, Topic: domain.OriginTopic, Content: "file tool", SentFrom: domain.OriginTopic},
			{Seq: 1, Topic: "Scope", Content: "draft", SentFrom: "Planner"},
			{Seq: 2, Topic: "Scope", Content: good, SentFrom: "Planner"},
		},
		Steps: []domain.StepReport{{
			Step:    "scope",
			Agent:   "Planner",
			Outcome: domain.StepAdvanced,
			Attempts: []domain.AttemptReport{
				{Number: 1, MessageSeq: 1, Valid: false},
				{Number: 2, MessageSeq: 2, Valid: true},
			},
		}},
	}
}

func TestExtract_SkipsSeedAndMarksAccepted(t *testing.T) {
	sections := report.Extract(sampleRun())
	require.Len(t, sections, 2)

	assert.Equal(t, "draft", sections[0].Output)
	assert.False(t, sections[0].Accepted)

	assert.Equal(t, "- list files", sections[1].Output)
	assert.True(t, sections[1].Accepted)
	assert.Equal(t, "Planner", sections[1].Agent)
}

func TestMarkdown(t *testing.T) {
	md := report.Markdown(sampleRun(), false)
	assert.Contains(t, md, "# sop")
	assert.Contains(t, md, "**Status:** COMPLETED")
	assert.Contains(t, md, "## Scope\n")
	assert.Contains(t, md, "- list files")
	assert.NotContains(t, md, "rejected")

	all := report.Markdown(sampleRun(), true)
	assert.Contains(t, all, "## Scope (rejected)")
	assert.Contains(t, all, "draft")
}

func TestMarkdown_Failure(t *testing.T) {
	res := sampleRun()
	res.Status = domain.RunFailed
	res.Success = false
	res.Failure = &domain.Failure{Step: "scope", Kind: domain.FailureStepExhausted, Err: domain.ErrStepExhausted}

	md := report.Markdown(res, false)
	assert.Contains(t, md, `**Failure:** step "scope" failed`)
}
