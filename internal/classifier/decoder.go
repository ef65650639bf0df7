package classifier

import (
	"nertag/internal/parser"
	"nertag/internal/tokenizer"
	"nertag/pkg/types"
)

// frameDecoder reconstructs one request's response from the unframed line
// stream. consume reports completion; result is valid once consume has
// returned true. The interface isolates the framing heuristic so a different
// scheme (e.g. a sentinel line) could replace token counting without touching
// the admission queue.
type frameDecoder interface {
	consume(line string) bool
	result() types.Result
}

// countingDecoder frames responses by token accounting: it starts from the
// submitted text's countable-token total and subtracts each output line's
// tagged-token count. The response is complete when the balance reaches zero
// (or drops below it, if the engine splits tokens differently than we do).
type countingDecoder struct {
	remaining int
	groups    types.Result
}

func newCountingDecoder(remaining int) *countingDecoder {
	return &countingDecoder{remaining: remaining}
}

func (d *countingDecoder) consume(line string) bool {
	d.remaining -= tokenizer.CountTaggedTokens(line)
	d.groups = append(d.groups, parser.ParseLine(line))
	return d.remaining <= 0
}

func (d *countingDecoder) result() types.Result {
	return d.groups
}

// countTokens is the input-side half of the accounting.
func countTokens(text string) int {
	return tokenizer.CountTokens(text)
}
