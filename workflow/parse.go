package workflow

import (
	"encoding/json"
	"fmt"

	"github.com/coderman400/AIArchitect/pkg/formatting"
)

// Parse turns model output into a workflow tree in two explicit stages.
// The JSON object is taken from content directly or from a fenced code
// block and validated strictly. If validation fails, Repair runs once and
// the repaired document is validated again. The applied fixes are returned
// so callers can log them. A document that still fails is reported as
// ErrValidation; there is no fallback to an empty tree.
func Parse(content []byte, fallbackName string) (Detail, []Fix, error) {
	doc, err := formatting.Parse[map[string]any](string(content))
	if err != nil {
		return Detail{}, nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if doc == nil {
		return Detail{}, nil, fmt.Errorf("%w: empty document", ErrValidation)
	}

	var fixes []Fix
	if err := Validate(doc); err != nil {
		doc, fixes = Repair(doc, fallbackName)
		if err := Validate(doc); err != nil {
			return Detail{}, fixes, err
		}
	}

	d, err := fromDocument(doc)
	if err != nil {
		return Detail{}, fixes, err
	}
	return d, fixes, nil
}

func fromDocument(doc map[string]any) (Detail, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return Detail{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	var d Detail
	if err := json.Unmarshal(data, &d); err != nil {
		return Detail{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return d, nil
}
