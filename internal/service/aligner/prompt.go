package aligner

import (
	"encoding/json"
	"fmt"

	"github.com/itzulbide/alignd/internal/domain"
)

// buildPrompt creates the alignment prompt: both texts, both token lists
// as JSON, worked examples per layer, and the output-format contract.
func buildPrompt(source, target domain.TokenizedSentence) (string, error) {
	sourceTokens, err := json.MarshalIndent(source.Tokens, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal source tokens: %w", err)
	}
	targetTokens, err := json.MarshalIndent(target.Tokens, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal target tokens: %w", err)
	}

	return fmt.Sprintf(`Generate translation alignments between %s and %s tokens.

Source text: %q
Target text: %q

Source tokens:
%s

Target tokens:
%s

Generate alignments for three layers using the same labeling style as these examples:

**Lexical layer examples:**
- "know → ezagutu (core meaning)"
- "gave → eman (core meaning)"
- "book → liburu (in 'liburua')"
- "friend → lagun (in 'lagunari')"

**Grammatical Relations layer examples:**
- "subject (ergative): 'I' → 1st person subject agreement in 'dut'"
- "direct object (absolutive): 'him' → 3rd person object agreement in 'dut' (no separate pronoun)"
- "indirect object (dative): 'to my friend' → 'nire lagunari' (dative case)"

**Features layer examples:**
- "negation: 'don't' → 'ez'"
- "auxiliary function: 'don't' (do-support) → 'dut' (carries tense/agreement)"
- "aspect: present habitual 'know' → imperfective '-tzen' in 'ezagutzen'"
- "person/number agreement: 'I' → 1st person singular in 'dut'"
- "definiteness: 'the' → '-a' suffix in 'liburua'"

Return ONLY a JSON object with this structure:
{
  "lexical": [
    {"source": ["s0"], "target": ["t1"], "label": "word1 → word2 (core meaning)"},
    {"source": ["s1"], "target": ["t0"], "label": "word3 → word4 (in 'inflected_form')"}
  ],
  "grammatical_relations": [
    {"source": ["s1"], "target": ["t0"], "label": "grammatical_role (case): 'source_phrase' → target_description"}
  ],
  "features": [
    {"source": ["s1"], "target": ["t2"], "label": "feature_name: 'source_form' → 'target_form' (explanation)"}
  ]
}

Guidelines:
- Use token IDs from the provided lists (s0, s1, etc. for source; t0, t1, etc. for target)
- Labels must follow the exact style from the examples above
- For lexical: "source_word → target_word (core meaning)" or "source_word → target_word (in 'inflected_form')"
- For grammatical relations: "role (case): 'source_phrase' → explanation with target"
- For features: "feature: 'source' → 'target' (explanation)" or "feature: 'source' → explanation"
- Be linguistically precise and detailed in explanations
- Focus on how the source language's structures map to the target language's morphology and syntax
- Empty layers are acceptable if no alignments exist`,
		source.Lang, target.Lang,
		source.Text, target.Text,
		sourceTokens, targetTokens,
	), nil
}
