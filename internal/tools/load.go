package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/coderman400/AIArchitect/workflow"
)

var errEmptyDocument = errors.New("document is empty")

// ReadDocument reads a workflow document and returns it as JSON.
// Files ending in .yaml or .yml are converted from YAML.
func ReadDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAMLToJSON(data)
	default:
		return data, nil
	}
}

// YAMLToJSON converts a YAML document to its JSON equivalent.
func YAMLToJSON(data []byte) ([]byte, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errEmptyDocument
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return json.Marshal(doc)
}

// LoadDetail reads a workflow tree and validates it strictly.
func LoadDetail(path string) (workflow.Detail, error) {
	data, err := ReadDocument(path)
	if err != nil {
		return workflow.Detail{}, err
	}
	return workflow.UnmarshalDetail(data)
}

// LoadGraph reads a React Flow graph document.
func LoadGraph(path string) (workflow.Graph, error) {
	data, err := ReadDocument(path)
	if err != nil {
		return workflow.Graph{}, err
	}

	var g workflow.Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return workflow.Graph{}, fmt.Errorf("%w: %w", workflow.ErrValidation, err)
	}
	return g, nil
}
