package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/coderman400/AIArchitect/workflow"
)

// ValidationResult reports the outcome of workflow.validate.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Error string           `json:"error,omitempty"`
	Fixes []workflow.Fix   `json:"fixes,omitempty"`
	Tree  *workflow.Detail `json:"tree,omitempty"`
}

func (s *Server) handleEncode(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tree, err := detailArg(req, "tree")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return marshalResult(workflow.Encode(tree, nil))
}

func (s *Server) handleDecode(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := mcp.ParseStringMap(req, "graph", nil)
	if raw == nil {
		return mcp.NewToolResultError("graph is required"), nil
	}

	var g workflow.Graph
	if err := remarshal(raw, &g); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid graph: %v", err)), nil
	}

	tree, err := workflow.Decode(g)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return marshalResult(tree)
}

func (s *Server) handlePatch(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	original, err := detailArg(req, "original")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	updated, err := detailArg(req, "updated")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return marshalResult(workflow.Patch(original, updated))
}

func (s *Server) handleValidate(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := mcp.ParseStringMap(req, "tree", nil)
	if raw == nil {
		return mcp.NewToolResultError("tree is required"), nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid tree: %v", err)), nil
	}

	var result ValidationResult
	if req.GetBool("repair", false) {
		tree, fixes, err := workflow.Parse(data, req.GetString("name", "workflow"))
		result = validation(tree, fixes, err)
		s.logger.Info("workflow repaired", "fixes", len(fixes), "valid", result.Valid)
	} else {
		tree, err := workflow.UnmarshalDetail(data)
		result = validation(tree, nil, err)
	}
	return marshalResult(result)
}

func validation(tree workflow.Detail, fixes []workflow.Fix, err error) ValidationResult {
	if err != nil {
		return ValidationResult{Error: err.Error(), Fixes: fixes}
	}
	return ValidationResult{Valid: true, Fixes: fixes, Tree: &tree}
}

func detailArg(req mcp.CallToolRequest, name string) (workflow.Detail, error) {
	raw := mcp.ParseStringMap(req, name, nil)
	if raw == nil {
		return workflow.Detail{}, fmt.Errorf("%s is required", name)
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return workflow.Detail{}, fmt.Errorf("invalid %s: %w", name, err)
	}

	d, err := workflow.UnmarshalDetail(data)
	if err != nil {
		return workflow.Detail{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	return d, nil
}

func remarshal(src any, dst any) error {
	data, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

func marshalResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultJSON(json.RawMessage(data))
}
