package workflow

import (
	"fmt"
	"strings"
)

// Decode rebuilds a workflow tree from a graph. Nesting comes only from
// each node's ParentID; sibling order is the order of g.Nodes. Edges are
// checked for dangling endpoints but do not affect the result. Labels split
// on the first ": " into actor and action. Nodes without children decode
// with absent substeps. Actors lists the distinct actors of top-level steps
// only. The returned Detail has no name.
func Decode(g Graph) (Detail, error) {
	index := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		if n.ID == "" {
			return Detail{}, fmt.Errorf("%w: node %d has no id", ErrValidation, i)
		}
		if _, ok := index[n.ID]; ok {
			return Detail{}, fmt.Errorf("%w: duplicate node id %q", ErrValidation, n.ID)
		}
		index[n.ID] = i
	}

	children := make(map[string][]int)
	var roots []int
	for i, n := range g.Nodes {
		if n.ParentID == "" {
			roots = append(roots, i)
			continue
		}
		if _, ok := index[n.ParentID]; !ok {
			return Detail{}, fmt.Errorf("%w: node %q parent %q", ErrLookup, n.ID, n.ParentID)
		}
		children[n.ParentID] = append(children[n.ParentID], i)
	}

	for _, e := range g.Edges {
		if _, ok := index[e.Source]; !ok {
			return Detail{}, fmt.Errorf("%w: edge %q source %q", ErrLookup, e.ID, e.Source)
		}
		if _, ok := index[e.Target]; !ok {
			return Detail{}, fmt.Errorf("%w: edge %q target %q", ErrLookup, e.ID, e.Target)
		}
	}

	d := &decoder{nodes: g.Nodes, children: children}

	steps := make(Steps, 0, len(roots))
	for _, i := range roots {
		steps = append(steps, d.build(i))
	}

	if d.visited != len(g.Nodes) {
		return Detail{}, fmt.Errorf(
			"%w: %d nodes are not reachable from a top-level node",
			ErrValidation, len(g.Nodes)-d.visited,
		)
	}

	return Detail{
		Actors: topLevelActors(steps),
		Steps:  steps,
	}, nil
}

type decoder struct {
	nodes    []Node
	children map[string][]int
	visited  int
}

func (d *decoder) build(i int) Step {
	d.visited++
	n := d.nodes[i]

	actor, action := splitLabel(n.Data.Label)
	step := Step{
		Actor:            actor,
		Action:           action,
		Type:             n.Data.NodeType,
		AIRecommendation: recommendation(n.Data),
	}

	kids := d.children[n.ID]
	if len(kids) > 0 {
		step.Substeps = make(Steps, 0, len(kids))
		for _, k := range kids {
			step.Substeps = append(step.Substeps, d.build(k))
		}
	}

	return step
}

func splitLabel(label string) (actor, action string) {
	if before, after, ok := strings.Cut(label, labelSeparator); ok {
		return before, after
	}
	return "", label
}

func recommendation(data NodeData) any {
	if data.Recommendation != nil {
		return cloneValue(data.Recommendation)
	}
	if data.Description != "" {
		return data.Description
	}
	return nil
}
