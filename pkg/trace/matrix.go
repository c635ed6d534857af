// Package trace records which artifacts were derived from which.
package trace

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/ports"
)

// Relationship kinds.
const (
	Generates = "generates"
	Observes  = "observes"
)

// Link is one upstream edge of an artifact.
type Link struct {
	Upstream     string    `json:"upstream"`
	Downstream   string    `json:"downstream"`
	Relationship string    `json:"type"`
	Timestamp    time.Time `json:"timestamp"`
}

// Matrix maps each artifact ID to its upstream links.
// Safe for concurrent use.
type Matrix struct {
	mu    sync.RWMutex
	links map[string][]Link
	now   func() time.Time
}

// NewMatrix creates an empty matrix.
func NewMatrix() *Matrix {
	return &Matrix{links: make(map[string][]Link), now: time.Now}
}

// Link records that downstream was derived from upstream.
// An empty relationship defaults to Generates.
func (m *Matrix) Link(upstream, downstream, relationship string) {
	if relationship == "" {
		relationship = Generates
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links[downstream] = append(m.links[downstream], Link{
		Upstream:     upstream,
		Downstream:   downstream,
		Relationship: relationship,
		Timestamp:    m.now().UTC(),
	})
}

// Upstream returns the direct upstream links of id.
func (m *Matrix) Upstream(id string) []Link {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Link(nil), m.links[id]...)
}

// Lineage follows the first upstream link of id back to the root.
// Cycles are cut at the first repeated ID.
func (m *Matrix) Lineage(id string) []Link {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var lineage []Link
	seen := map[string]bool{id: true}
	current := id
	for {
		links := m.links[current]
		if len(links) == 0 {
			return lineage
		}
		parent := links[0]
		lineage = append(lineage, parent)
		if seen[parent.Upstream] {
			return lineage
		}
		seen[parent.Upstream] = true
		current = parent.Upstream
	}
}

// IDs returns every artifact with at least one upstream link, sorted.
func (m *Matrix) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.links))
	for id := range m.links {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MessageID is the artifact ID used for a logged message.
func MessageID(m domain.Message) string {
	return "msg-" + strconv.Itoa(m.Seq)
}

// FromLog derives a matrix from a finished log. Each message is linked to the
// latest earlier message on every topic its author subscribes to. Messages
// from authors not in agents (such as the seed) have no upstream.
func FromLog(log []domain.Message, agents []ports.Agent) *Matrix {
	byName := make(map[string]ports.Agent, len(agents))
	for _, a := range agents {
		byName[a.Name()] = a
	}

	m := NewMatrix()
	latest := make(map[string]domain.Message)
	for _, msg := range log {
		if author, ok := byName[msg.SentFrom]; ok {
			for _, topic := range author.Subscription() {
				up, ok := latest[topic]
				if !ok {
					continue
				}
				rel := Observes
				if topic == msg.CauseBy {
					rel = Generates
				}
				m.Link(MessageID(up), MessageID(msg), rel)
			}
		}
		latest[msg.Topic] = msg
	}
	return m
}

// String renders a lineage as "msg-3 <- msg-2 <- msg-0".
func String(id string, lineage []Link) string {
	s := id
	for _, l := range lineage {
		s += fmt.Sprintf(" <- %s", l.Upstream)
	}
	return s
}
