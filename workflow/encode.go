package workflow

const (
	depthOffset    = 200
	emissionOffset = 100
)

// Encode flattens d into a positioned graph. Steps are emitted depth-first,
// a parent before its substeps, siblings in order. Each step links to its
// first substep and substeps chain to their predecessor. Top-level steps
// chain from the last node emitted for the previous top-level step, so the
// edges thread the whole forest in document order.
//
// A nil newID uses NewID.
func Encode(d Detail, newID IDFunc) Graph {
	if newID == nil {
		newID = NewID
	}

	e := &encoder{
		newID: newID,
		nodes: make([]Node, 0, d.Count()),
		edges: make([]Edge, 0),
	}

	var tail string
	for _, step := range d.Steps {
		id := e.emit(step, "", 0)
		if tail != "" {
			e.link(tail, id)
		}
		tail = e.nodes[len(e.nodes)-1].ID
	}

	return Graph{Nodes: e.nodes, Edges: e.edges}
}

type encoder struct {
	newID IDFunc
	nodes []Node
	edges []Edge
}

func (e *encoder) emit(step Step, parentID string, depth int) string {
	node := Node{
		ID:   e.newID(),
		Type: NodeType,
		Position: Position{
			X: float64(depth * depthOffset),
			Y: float64(len(e.nodes) * emissionOffset),
		},
		Data: nodeData(step),
	}
	if parentID != "" {
		node.ParentID = parentID
		node.Extent = ExtentParent
	}
	e.nodes = append(e.nodes, node)

	prev := node.ID
	for _, sub := range step.Substeps {
		id := e.emit(sub, node.ID, depth+1)
		e.link(prev, id)
		prev = id
	}

	return node.ID
}

func (e *encoder) link(source, target string) {
	e.edges = append(e.edges, Edge{
		ID:     EdgeID(source, target),
		Source: source,
		Target: target,
		Type:   EdgeType,
	})
}

func nodeData(step Step) NodeData {
	data := NodeData{
		Label:          step.Label(),
		NodeType:       step.Type,
		Recommendation: cloneValue(step.AIRecommendation),
	}
	if text, ok := step.AIRecommendation.(string); ok {
		data.Description = text
	}
	return data
}
