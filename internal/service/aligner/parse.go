package aligner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/itzulbide/alignd/internal/domain"
)

// rawSpan mirrors one completion item. Pointer fields distinguish an
// absent key from an empty value: a missing source/target/label makes
// the whole completion invalid.
type rawSpan struct {
	Source *[]string `json:"source"`
	Target *[]string `json:"target"`
	Label  *string   `json:"label"`
}

type rawLayers struct {
	Lexical              []rawSpan `json:"lexical"`
	GrammaticalRelations []rawSpan `json:"grammatical_relations"`
	Features             []rawSpan `json:"features"`
}

// parseAlignmentResponse extracts and validates the JSON object in an LLM
// completion. The completion may surround the object with explanatory
// prose; everything between the first '{' and the last '}', inclusive, is
// treated as the payload. Span order within each layer follows the
// completion's emission order.
func parseAlignmentResponse(content string) (domain.AlignmentLayers, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end <= start {
		return domain.AlignmentLayers{}, fmt.Errorf("no JSON object found in completion")
	}

	var raw rawLayers
	if err := json.Unmarshal([]byte(content[start:end+1]), &raw); err != nil {
		return domain.AlignmentLayers{}, fmt.Errorf("decode completion JSON: %w", err)
	}

	layers := domain.EmptyLayers()
	var err error
	if layers.Lexical, err = convertSpans("lexical", raw.Lexical); err != nil {
		return domain.AlignmentLayers{}, err
	}
	if layers.GrammaticalRelations, err = convertSpans("grammatical_relations", raw.GrammaticalRelations); err != nil {
		return domain.AlignmentLayers{}, err
	}
	if layers.Features, err = convertSpans("features", raw.Features); err != nil {
		return domain.AlignmentLayers{}, err
	}
	return layers, nil
}

func convertSpans(layer string, raw []rawSpan) ([]domain.AlignmentSpan, error) {
	spans := []domain.AlignmentSpan{}
	for i, r := range raw {
		if r.Source == nil || r.Target == nil || r.Label == nil {
			return nil, fmt.Errorf("%s[%d]: missing source, target, or label", layer, i)
		}
		spans = append(spans, domain.AlignmentSpan{
			Source: *r.Source,
			Target: *r.Target,
			Label:  *r.Label,
		})
	}
	return spans, nil
}
