package workflow

// Clone returns a deep copy of d that shares no containers with it.
// Nil and empty sequences keep their distinction.
func (d Detail) Clone() Detail {
	return Detail{
		Name:         d.Name,
		Actors:       cloneStrings(d.Actors),
		Steps:        d.Steps.Clone(),
		Inputs:       cloneStrings(d.Inputs),
		Outputs:      cloneStrings(d.Outputs),
		Connections:  cloneStrings(d.Connections),
		Extra:        cloneMap(d.Extra),
		Subworkflows: cloneDetails(d.Subworkflows),
	}
}

// Clone returns a deep copy of s.
func (s Steps) Clone() Steps {
	if s == nil {
		return nil
	}
	out := make(Steps, len(s))
	for i, step := range s {
		out[i] = step.Clone()
	}
	return out
}

// Clone returns a deep copy of s.
func (s Step) Clone() Step {
	return Step{
		Actor:            s.Actor,
		Action:           s.Action,
		Substeps:         s.Substeps.Clone(),
		Type:             s.Type,
		AIRecommendation: cloneValue(s.AIRecommendation),
		Inputs:           cloneStrings(s.Inputs),
		Outputs:          cloneStrings(s.Outputs),
		Connections:      cloneStrings(s.Connections),
		Extra:            cloneMap(s.Extra),
		Subworkflows:     cloneDetails(s.Subworkflows),
	}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}

func cloneDetails(ds []Detail) []Detail {
	if ds == nil {
		return nil
	}
	out := make([]Detail, len(ds))
	for i, d := range ds {
		out[i] = d.Clone()
	}
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue deep-copies the container shapes produced by encoding/json.
// Scalars are returned as is.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		if t == nil {
			return t
		}
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return cloneStrings(t)
	default:
		return v
	}
}
