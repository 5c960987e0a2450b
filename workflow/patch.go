package workflow

// Patch carries auxiliary metadata (inputs, outputs, connections, extra,
// subworkflows) from original into a deep copy of updated. Fields are only
// filled where updated leaves them empty; present values are never
// overwritten.
//
// Steps are matched level by level on their (actor, action) key. When
// several original steps share a key, the last one wins. Matching recurses
// into substeps only when both matched steps have substeps. Steps new in
// updated keep their fields as given, and steps missing from updated are
// dropped.
func Patch(original, updated Detail) Detail {
	patched := updated.Clone()

	backfill(patched.aux(), original.aux())
	patchSteps(original.Steps, patched.Steps)

	return patched
}

func patchSteps(original, patched Steps) {
	if len(original) == 0 || len(patched) == 0 {
		return
	}

	byKey := make(map[StepKey]*Step, len(original))
	for i := range original {
		byKey[original[i].Key()] = &original[i]
	}

	for i := range patched {
		step := &patched[i]
		match, ok := byKey[step.Key()]
		if !ok {
			continue
		}

		backfill(step.aux(), match.aux())

		if len(step.Substeps) > 0 && len(match.Substeps) > 0 {
			patchSteps(match.Substeps, step.Substeps)
		}
	}
}

// auxFields points at the five auxiliary fields shared by Step and Detail.
type auxFields struct {
	inputs       *[]string
	outputs      *[]string
	connections  *[]string
	extra        *map[string]any
	subworkflows *[]Detail
}

func (d *Detail) aux() auxFields {
	return auxFields{&d.Inputs, &d.Outputs, &d.Connections, &d.Extra, &d.Subworkflows}
}

func (s *Step) aux() auxFields {
	return auxFields{&s.Inputs, &s.Outputs, &s.Connections, &s.Extra, &s.Subworkflows}
}

func backfill(dst, src auxFields) {
	if len(*dst.inputs) == 0 && len(*src.inputs) > 0 {
		*dst.inputs = cloneStrings(*src.inputs)
	}
	if len(*dst.outputs) == 0 && len(*src.outputs) > 0 {
		*dst.outputs = cloneStrings(*src.outputs)
	}
	if len(*dst.connections) == 0 && len(*src.connections) > 0 {
		*dst.connections = cloneStrings(*src.connections)
	}
	if len(*dst.extra) == 0 && len(*src.extra) > 0 {
		*dst.extra = cloneMap(*src.extra)
	}
	if len(*dst.subworkflows) == 0 && len(*src.subworkflows) > 0 {
		*dst.subworkflows = cloneDetails(*src.subworkflows)
	}
}
