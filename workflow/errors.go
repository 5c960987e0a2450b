// Package workflow models business-process workflow trees and the pure
// transforms around them: tree to positioned graph (Encode), graph back to
// tree (Decode), key-based auxiliary field merge (Patch), and strict schema
// validation with an explicit repair pass for model output (Parse).
package workflow

import "errors"

// Sentinel errors for workflow operations.
var (
	// ErrValidation reports a tree or graph that does not have the expected shape.
	ErrValidation = errors.New("invalid workflow")
	// ErrLookup reports a graph reference to a node id that does not exist.
	ErrLookup = errors.New("unknown node reference")
)
