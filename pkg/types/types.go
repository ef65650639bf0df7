package types

import (
	"bytes"
	"encoding/json"
)

// EntityGroup holds the named entities recognized in one sentence, keyed by
// entity tag (e.g. PERSON, LOCATION). Each entity is a run of contiguous
// same-tag tokens joined by spaces. Tag order reflects first appearance in
// the sentence.
type EntityGroup struct {
	tags     []string
	entities map[string][]string
}

// NewEntityGroup returns an empty EntityGroup.
func NewEntityGroup() *EntityGroup {
	return &EntityGroup{entities: make(map[string][]string)}
}

// Append adds one entity under tag, preserving first-appearance tag order.
// Entities under the same tag accumulate; nothing is ever overwritten.
func (g *EntityGroup) Append(tag, entity string) {
	if _, ok := g.entities[tag]; !ok {
		g.tags = append(g.tags, tag)
	}
	g.entities[tag] = append(g.entities[tag], entity)
}

// Entities returns the entities recorded under tag, in order of appearance.
func (g *EntityGroup) Entities(tag string) []string {
	return g.entities[tag]
}

// Tags returns the tags in order of first appearance.
func (g *EntityGroup) Tags() []string {
	out := make([]string, len(g.tags))
	copy(out, g.tags)
	return out
}

// Len returns the number of distinct tags in the group.
func (g *EntityGroup) Len() int { return len(g.tags) }

// MarshalJSON renders the group as a JSON object with tags in
// first-appearance order.
func (g *EntityGroup) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, tag := range g.tags {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(tag)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(g.entities[tag])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Result is the outcome of classifying one submitted text: one EntityGroup
// per sentence line the engine emitted, in emission order.
type Result []*EntityGroup

// ClassifierModel describes a serialized classifier found in the engine
// installation.
type ClassifierModel struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// StatusResponse is a read-only projection of the classifier state.
type StatusResponse struct {
	// Overall state: idle or busy.
	State string `json:"state"`
	// Number of requests waiting behind the in-flight one.
	QueueDepth int `json:"queue_depth"`
	// Total requests completed since startup.
	RequestsTotal uint64 `json:"requests_total"`
	// Process ID of the engine subprocess, 0 if not running.
	EnginePID int `json:"engine_pid,omitempty"`
	// Uptime of the classifier in seconds.
	UptimeSeconds int64 `json:"uptime_seconds"`
}
