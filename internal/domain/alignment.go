// Package domain defines the core types of the alignment pipeline:
// tokenized sentences, alignment spans, and the three-layer alignment
// structure exchanged between the pipeline, the cache, and the API.
package domain

// Token is a single analyzed word. IDs are ordinal within one sentence
// and carry a side prefix ("s0", "s1", ... for source; "t0", ... for target).
// Tokens are immutable once produced by analysis.
type Token struct {
	ID       string   `json:"id"`
	Form     string   `json:"form"`
	Lemma    string   `json:"lemma"`
	POS      string   `json:"pos"`
	Features []string `json:"features"`
}

// TokenizedSentence is one side (source or target) of a sentence pair.
type TokenizedSentence struct {
	Lang   string  `json:"lang"`
	Text   string  `json:"text"`
	Tokens []Token `json:"tokens"`
}

// AlignmentSpan asserts a correspondence between a set of source token IDs
// and a set of target token IDs, with a human-readable linguistic label.
type AlignmentSpan struct {
	Source []string `json:"source"`
	Target []string `json:"target"`
	Label  string   `json:"label"`
}

// Degenerate reports whether the span references no tokens on one side.
// Such spans are invalid and must be dropped before caching or responding.
func (s AlignmentSpan) Degenerate() bool {
	return len(s.Source) == 0 || len(s.Target) == 0
}

// AlignmentLayers groups spans into the three independent alignment
// categories. Any layer may legitimately be empty.
type AlignmentLayers struct {
	Lexical              []AlignmentSpan `json:"lexical"`
	GrammaticalRelations []AlignmentSpan `json:"grammatical_relations"`
	Features             []AlignmentSpan `json:"features"`
}

// EmptyLayers returns an AlignmentLayers with all three layers present
// but empty, so they marshal as [] rather than null.
func EmptyLayers() AlignmentLayers {
	return AlignmentLayers{
		Lexical:              []AlignmentSpan{},
		GrammaticalRelations: []AlignmentSpan{},
		Features:             []AlignmentSpan{},
	}
}

// FilterDegenerate returns a copy of the layers with degenerate spans
// removed. Span order within each layer is preserved. The returned
// layers always have non-nil slices.
func (l AlignmentLayers) FilterDegenerate() AlignmentLayers {
	out := EmptyLayers()
	for _, s := range l.Lexical {
		if !s.Degenerate() {
			out.Lexical = append(out.Lexical, s)
		}
	}
	for _, s := range l.GrammaticalRelations {
		if !s.Degenerate() {
			out.GrammaticalRelations = append(out.GrammaticalRelations, s)
		}
	}
	for _, s := range l.Features {
		if !s.Degenerate() {
			out.Features = append(out.Features, s)
		}
	}
	return out
}

// SentencePair is the unit of output and of caching: one source sentence,
// its translation, and the alignment layers between them.
type SentencePair struct {
	ID     string            `json:"id"`
	Source TokenizedSentence `json:"source"`
	Target TokenizedSentence `json:"target"`
	Layers AlignmentLayers   `json:"layers"`
}

// AlignmentDocument wraps sentence pairs in a one-element collection for
// forward compatibility with multi-sentence inputs. Cached values store
// the whole document.
type AlignmentDocument struct {
	Sentences []SentencePair `json:"sentences"`
}
