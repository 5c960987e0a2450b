package workflow

import "encoding/json"

// Steps is an ordered step sequence that keeps "absent" and "empty" apart.
// A nil Steps means the step has no notion of children and is omitted from
// JSON; a non-nil empty Steps means the step has zero children and is
// serialized as [].
type Steps []Step

// NoSteps returns an explicitly empty, present step sequence.
func NoSteps() Steps {
	return Steps{}
}

// Present reports whether the sequence exists, even if it holds no steps.
func (s Steps) Present() bool {
	return s != nil
}

// Step is a single node of a workflow tree.
type Step struct {
	Actor            string         `json:"actor"`
	Action           string         `json:"action"`
	Substeps         Steps          `json:"substeps,omitzero"`
	Type             string         `json:"type,omitempty"`
	AIRecommendation any            `json:"ai_recommendation,omitempty"`
	Inputs           []string       `json:"inputs,omitempty"`
	Outputs          []string       `json:"outputs,omitempty"`
	Connections      []string       `json:"connections,omitempty"`
	Extra            map[string]any `json:"extra,omitempty"`
	Subworkflows     []Detail       `json:"subworkflows,omitempty"`
}

// Key identifies a step among its siblings when merging trees.
func (s Step) Key() StepKey {
	return StepKey{Actor: s.Actor, Action: s.Action}
}

// Label renders the display label used for graph nodes.
func (s Step) Label() string {
	if s.Actor == "" {
		return s.Action
	}
	return s.Actor + labelSeparator + s.Action
}

// StepKey is the (actor, action) identity used to match steps across tree versions.
type StepKey struct {
	Actor  string
	Action string
}

// Detail is the root of a workflow tree.
type Detail struct {
	Name         string         `json:"name"`
	Actors       []string       `json:"actors"`
	Steps        Steps          `json:"steps"`
	Inputs       []string       `json:"inputs,omitempty"`
	Outputs      []string       `json:"outputs,omitempty"`
	Connections  []string       `json:"connections,omitempty"`
	Extra        map[string]any `json:"extra,omitempty"`
	Subworkflows []Detail       `json:"subworkflows,omitempty"`
}

// MarshalJSON writes nil Actors and Steps as [] so the output always
// passes Validate.
func (d Detail) MarshalJSON() ([]byte, error) {
	type detail Detail
	out := detail(d)
	if out.Actors == nil {
		out.Actors = []string{}
	}
	if out.Steps == nil {
		out.Steps = NoSteps()
	}
	return json.Marshal(out)
}

// Walk visits every step depth-first, parents before children. The visit
// function receives the nesting depth (0 for top-level steps). Returning
// false stops the walk.
func (d *Detail) Walk(visit func(step *Step, depth int) bool) {
	walkSteps(d.Steps, 0, visit)
}

// Count returns the total number of steps in the tree.
func (d *Detail) Count() int {
	n := 0
	d.Walk(func(*Step, int) bool {
		n++
		return true
	})
	return n
}

func walkSteps(steps Steps, depth int, visit func(*Step, int) bool) bool {
	for i := range steps {
		if !visit(&steps[i], depth) {
			return false
		}
		if !walkSteps(steps[i].Substeps, depth+1, visit) {
			return false
		}
	}
	return true
}

// topLevelActors returns the distinct non-empty actors of the top-level
// steps in order of first appearance. Nested steps are not scanned.
func topLevelActors(steps Steps) []string {
	actors := make([]string, 0, len(steps))
	seen := make(map[string]struct{}, len(steps))
	for _, s := range steps {
		if s.Actor == "" {
			continue
		}
		if _, ok := seen[s.Actor]; ok {
			continue
		}
		seen[s.Actor] = struct{}{}
		actors = append(actors, s.Actor)
	}
	return actors
}
