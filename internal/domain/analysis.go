package domain

import (
	"fmt"
	"strings"
)

// AnalysisRow is one raw token as produced by the linguistic analyzer:
// surface form, lemma, coarse UPOS tag, and the raw UD feature string
// (pipe-separated "Key=Value" pairs, possibly empty).
type AnalysisRow struct {
	Form  string `json:"form"`
	Lemma string `json:"lemma"`
	UPOS  string `json:"upos"`
	Feats string `json:"feats"`
}

// TokensFromAnalysis converts analyzer rows into API tokens. IDs are
// ordinal with the given side prefix ("s" or "t"), POS tags are
// lower-cased, and raw UD feature strings are rewritten as
// human-readable descriptions in the given language.
func TokensFromAnalysis(prefix, lang string, rows []AnalysisRow) []Token {
	tokens := make([]Token, 0, len(rows))
	for i, row := range rows {
		tokens = append(tokens, Token{
			ID:       fmt.Sprintf("%s%d", prefix, i),
			Form:     row.Form,
			Lemma:    row.Lemma,
			POS:      strings.ToLower(row.UPOS),
			Features: DescribeFeatures(lang, row.Form, row.Feats),
		})
	}
	return tokens
}
