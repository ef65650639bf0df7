// Package parser reconstructs entity groups from the engine's tagged output
// lines. One line of whitespace-separated word/TAG pairs maps to one
// EntityGroup; contiguous tokens sharing a non-O tag merge into one entity.
package parser

import (
	"regexp"
	"strings"

	"nertag/pkg/types"
)

// tagged matches one word/TAG pair. The word may itself contain slashes;
// the tag is the run of uppercase letters after the last slash.
var tagged = regexp.MustCompile(`^(.+)/([A-Z]+)$`)

// outsideTag marks a token that belongs to no entity.
const outsideTag = "O"

// ParseLine parses one tagged sentence line into an EntityGroup. Tokens that
// do not match the word/TAG pattern are dropped. An entity run closes on an
// O token, on a transition to a different tag, or at end of line; every close
// appends to the group, so repeated runs of the same tag accumulate.
func ParseLine(line string) *types.EntityGroup {
	g := types.NewEntityGroup()
	var run []string
	runTag := ""
	flush := func() {
		if len(run) > 0 {
			g.Append(runTag, strings.Join(run, " "))
			run = run[:0]
		}
	}
	for _, tok := range strings.Fields(line) {
		m := tagged.FindStringSubmatch(tok)
		if m == nil {
			continue
		}
		word, tag := m[1], m[2]
		switch {
		case tag == outsideTag:
			flush()
			runTag = ""
		case tag == runTag:
			run = append(run, word)
		default:
			flush()
			runTag = tag
			run = append(run, word)
		}
	}
	flush()
	return g
}
