package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/agent"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/ports"
)

func TestMatrix_Lineage(t *testing.T) {
	m := NewMatrix()
	m.Link("idea", "prd", "")
	m.Link("prd", "design", Generates)
	m.Link("design", "code", Generates)
	m.Link("notes", "code", Observes)

	lineage := m.Lineage("code")
	require.Len(t, lineage, 3)
	assert.Equal(t, "design", lineage[0].Upstream)
	assert.Equal(t, "prd", lineage[1].Upstream)
	assert.Equal(t, "idea", lineage[2].Upstream)
	assert.Equal(t, Generates, lineage[2].Relationship)

	assert.Len(t, m.Upstream("code"), 2)
	assert.Empty(t, m.Lineage("idea"))
	assert.Equal(t, "code <- design <- prd <- idea", String("code", lineage))
	assert.Equal(t, []string{"code", "design", "prd"}, m.IDs())
}

func TestMatrix_LineageStopsOnCycle(t *testing.T) {
	m := NewMatrix()
	m.Link("a", "b", "")
	m.Link("b", "a", "")

	assert.Len(t, m.Lineage("b"), 2)
}

func TestFromLog(t *testing.T) {
	guide := agent.NewFunc("Guide", "Understanding", agent.Static(""), agent.WithSubscription(domain.OriginTopic))
	coder := agent.NewFunc("Coder", "Code", agent.Static(""), agent.WithSubscription("Understanding", domain.OriginTopic))

	log := []domain.Message{
		{Seq: 0, Topic: domain.OriginTopic, SentFrom: domain.OriginTopic},
		{Seq: 1, Topic: "Understanding", SentFrom: "Guide", CauseBy: domain.OriginTopic},
		{Seq: 2, Topic: "Code", SentFrom: "Coder", CauseBy: "Understanding"},
		{Seq: 3, Topic: "Code", SentFrom: "Coder", CauseBy: "Understanding"},
	}

	m := FromLog(log, []ports.Agent{guide, coder})

	assert.Empty(t, m.Upstream("msg-0"))
	lineage := m.Lineage("msg-3")
	require.Len(t, lineage, 2)
	assert.Equal(t, "msg-1", lineage[0].Upstream)
	assert.Equal(t, "msg-0", lineage[1].Upstream)

	ups := m.Upstream("msg-2")
	require.Len(t, ups, 2)
	rels := map[string]string{}
	for _, l := range ups {
		rels[l.Upstream] = l.Relationship
	}
	assert.Equal(t, Generates, rels["msg-1"])
	assert.Equal(t, Observes, rels["msg-0"])
}
