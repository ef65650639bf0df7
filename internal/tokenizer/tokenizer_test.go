package tokenizer

import (
	"reflect"
	"testing"
)

func TestWords_SplitsPunctuation(t *testing.T) {
	got := Words("John lives in Paris.")
	want := []string{"John", "lives", "in", "Paris", "."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestWords_KeepsHyphensAndApostrophes(t *testing.T) {
	got := Words("Jean-Luc doesn't mind")
	want := []string{"Jean-Luc", "doesn't", "mind"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestCountTokens_MultiCharOnly(t *testing.T) {
	// All tokens longer than one character: count equals word count.
	if got := CountTokens("John lives in Paris"); got != 4 {
		t.Fatalf("got %d want 4", got)
	}
}

func TestCountTokens_FiltersSingleChars(t *testing.T) {
	if got := CountTokens("John lives in Paris ."); got != 4 {
		t.Fatalf("got %d want 4", got)
	}
	if got := CountTokens("( a b )"); got != 0 {
		t.Fatalf("got %d want 0", got)
	}
	if got := CountTokens(""); got != 0 {
		t.Fatalf("got %d want 0", got)
	}
}

func TestCountTaggedTokens_StripsTags(t *testing.T) {
	line := "John/PERSON lives/O in/O Paris/LOCATION ./O"
	if got := CountTaggedTokens(line); got != 4 {
		t.Fatalf("got %d want 4", got)
	}
}

func TestCountTaggedTokens_NormalizesEscapes(t *testing.T) {
	// Escaped brackets collapse to single characters and fall out of the count.
	line := "-LRB-/O see/O -RRB-/O"
	if got := CountTaggedTokens(line); got != 1 {
		t.Fatalf("got %d want 1", got)
	}
}

func TestCountTaggedTokens_NeverExceedsPlainCount(t *testing.T) {
	cases := []struct {
		plain  string
		tagged string
	}{
		{"John lives in Paris .", "John/PERSON lives/O in/O Paris/LOCATION ./O"},
		{"( hello world )", "-LRB-/O hello/O world/O -RRB-/O"},
		{"New York is big", "New/LOCATION York/LOCATION is/O big/O"},
	}
	for _, c := range cases {
		if tagged, plain := CountTaggedTokens(c.tagged), CountTokens(c.plain); tagged > plain {
			t.Fatalf("tagged count %d exceeds plain count %d for %q", tagged, plain, c.plain)
		}
	}
}

func TestNormalize(t *testing.T) {
	pairs := map[string]string{
		"``":    "'",
		"''":    "'",
		"-LRB-": "(",
		"-RRB-": ")",
		"-LSB-": "[",
		"-RSB-": "]",
		"-LCB-": "{",
		"-RCB-": "}",
		"word":  "word",
	}
	for in, want := range pairs {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalize_PositionIndependent(t *testing.T) {
	// A sentence of escape tokens normalizes to its literal equivalent
	// regardless of where each token sits.
	line := "-LRB-/O -LRB-/O word/O -LRB-/O"
	if got := CountTaggedTokens(line); got != 1 {
		t.Fatalf("got %d want 1", got)
	}
}
