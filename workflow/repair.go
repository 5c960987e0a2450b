package workflow

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// Repair rules, reported in Fix.Rule.
const (
	RuleActorDefault     = "actor-default"
	RuleStepFromString   = "step-from-string"
	RuleWrapSubsteps     = "wrap-substeps"
	RuleDropEmptyAction  = "drop-empty-action"
	RuleStringify        = "stringify"
	RuleWrapList         = "wrap-list"
	RuleNameFallback     = "name-fallback"
	RuleDeriveActors     = "derive-actors"
	RuleRenameKey        = "rename-key"
	RuleMoveToExtra      = "move-to-extra"
	RuleDropInvalidField = "drop-invalid-field"
)

// Fix records one change made by Repair.
type Fix struct {
	Path string `json:"path"`
	Rule string `json:"rule"`
}

func (f Fix) String() string {
	return f.Path + ": " + f.Rule
}

var (
	listFields = []string{"inputs", "outputs", "connections"}

	stepAliases = map[string]string{
		"sub_steps": "substeps",
		"children":  "substeps",
		"steps":     "substeps",
		"role":      "actor",
		"task":      "action",
	}

	detailKeys = map[string]bool{
		"name": true, "actors": true, "steps": true, "inputs": true,
		"outputs": true, "connections": true, "extra": true, "subworkflows": true,
	}

	stepKeys = map[string]bool{
		"actor": true, "action": true, "substeps": true, "type": true,
		"ai_recommendation": true, "inputs": true, "outputs": true,
		"connections": true, "extra": true, "subworkflows": true,
	}
)

// Repair rewrites a loosely shaped workflow document into one the schema
// accepts, applying only these rules:
//
//   - a missing or null actor becomes ""
//   - a step given as a bare string becomes a step with that action
//   - substeps given as a single object become a one-element list
//   - steps without an action are dropped; "task" or "description"
//     stand in for a missing action
//   - non-string list entries are stringified, and a scalar where a list
//     is expected becomes a one-element list
//   - a missing name takes fallbackName
//   - missing actors are derived from the top-level steps
//   - the aliases sub_steps, children, steps (on a step), role, and task
//     are renamed to their canonical keys; when several aliases name the
//     same key, the first in sorted order wins and the rest move to extra
//   - unknown keys move into extra; auxiliary fields of the wrong type
//     are dropped
//
// The input is not modified. Every applied rule is reported.
func Repair(doc map[string]any, fallbackName string) (map[string]any, []Fix) {
	r := &repairer{}
	out := r.detail(doc, "", fallbackName)
	return out, r.fixes
}

type repairer struct {
	fixes []Fix
}

func (r *repairer) fix(path, rule string) {
	if path == "" {
		path = "/"
	}
	r.fixes = append(r.fixes, Fix{Path: path, Rule: rule})
}

func (r *repairer) detail(doc map[string]any, path, fallbackName string) map[string]any {
	out := make(map[string]any, len(doc))
	extra := map[string]any{}

	for _, k := range slices.Sorted(maps.Keys(doc)) {
		v := doc[k]
		if detailKeys[k] {
			out[k] = cloneValue(v)
			continue
		}
		r.fix(path+"/"+k, RuleMoveToExtra)
		extra[k] = cloneValue(v)
	}

	switch name := out["name"].(type) {
	case string:
		if name == "" && fallbackName != "" {
			out["name"] = fallbackName
			r.fix(path+"/name", RuleNameFallback)
		}
	case nil:
		out["name"] = fallbackName
		r.fix(path+"/name", RuleNameFallback)
	default:
		out["name"] = stringify(name)
		r.fix(path+"/name", RuleStringify)
	}

	out["steps"] = r.steps(out["steps"], path+"/steps", true)
	r.aux(out, path, extra)

	if _, ok := out["actors"]; !ok || out["actors"] == nil {
		out["actors"] = actorsOf(out["steps"].([]any))
		r.fix(path+"/actors", RuleDeriveActors)
	} else {
		out["actors"] = r.list(out["actors"], path+"/actors")
	}

	return out
}

// steps normalizes a step sequence. When required is false a nil input
// stays nil, keeping substeps absent.
func (r *repairer) steps(v any, path string, required bool) any {
	var items []any
	switch t := v.(type) {
	case nil:
		if !required {
			return nil
		}
		return []any{}
	case []any:
		items = t
	case map[string]any:
		r.fix(path, RuleWrapSubsteps)
		items = []any{t}
	case string:
		r.fix(path, RuleWrapSubsteps)
		items = []any{t}
	default:
		r.fix(path, RuleDropInvalidField)
		if !required {
			return nil
		}
		return []any{}
	}

	out := make([]any, 0, len(items))
	for i, item := range items {
		itemPath := path + "/" + strconv.Itoa(i)
		step, ok := r.step(item, itemPath)
		if !ok {
			r.fix(itemPath, RuleDropEmptyAction)
			continue
		}
		out = append(out, step)
	}
	return out
}

func (r *repairer) step(v any, path string) (map[string]any, bool) {
	var src map[string]any
	switch t := v.(type) {
	case string:
		r.fix(path, RuleStepFromString)
		src = map[string]any{"actor": "", "action": t}
	case map[string]any:
		src = t
	default:
		return nil, false
	}

	out := make(map[string]any, len(src))
	extra := map[string]any{}

	for _, k := range slices.Sorted(maps.Keys(src)) {
		val := src[k]
		if canon, ok := stepAliases[k]; ok {
			_, taken := src[canon]
			_, renamed := out[canon]
			if !taken && !renamed {
				r.fix(path+"/"+k, RuleRenameKey)
				out[canon] = cloneValue(val)
				continue
			}
		}
		if stepKeys[k] || k == "description" {
			out[k] = cloneValue(val)
			continue
		}
		r.fix(path+"/"+k, RuleMoveToExtra)
		extra[k] = cloneValue(val)
	}

	if desc, ok := out["description"]; ok {
		delete(out, "description")
		if action, _ := out["action"].(string); action == "" {
			if s, ok := desc.(string); ok && s != "" {
				r.fix(path+"/description", RuleRenameKey)
				out["action"] = s
			}
		} else {
			extra["description"] = desc
			r.fix(path+"/description", RuleMoveToExtra)
		}
	}

	switch a := out["action"].(type) {
	case string:
		if a == "" {
			return nil, false
		}
	case nil:
		return nil, false
	default:
		r.fix(path+"/action", RuleStringify)
		out["action"] = stringify(a)
	}

	switch a := out["actor"].(type) {
	case string:
	case nil:
		r.fix(path+"/actor", RuleActorDefault)
		out["actor"] = ""
	default:
		r.fix(path+"/actor", RuleStringify)
		out["actor"] = stringify(a)
	}

	if t, ok := out["type"]; ok {
		if _, isString := t.(string); !isString {
			if t == nil {
				delete(out, "type")
			} else {
				r.fix(path+"/type", RuleStringify)
				out["type"] = stringify(t)
			}
		}
	}

	if sub, ok := out["substeps"]; ok {
		if s := r.steps(sub, path+"/substeps", false); s != nil {
			out["substeps"] = s
		} else {
			delete(out, "substeps")
		}
	}

	r.aux(out, path, extra)
	return out, true
}

// aux normalizes the auxiliary fields of a step or detail in place and
// merges moved keys into extra.
func (r *repairer) aux(out map[string]any, path string, moved map[string]any) {
	for _, f := range listFields {
		v, ok := out[f]
		if !ok {
			continue
		}
		if v == nil {
			delete(out, f)
			continue
		}
		out[f] = r.list(v, path+"/"+f)
	}

	if v, ok := out["extra"]; ok {
		if m, isMap := v.(map[string]any); isMap {
			for k, val := range moved {
				if _, exists := m[k]; !exists {
					m[k] = val
				}
			}
		} else {
			if v != nil {
				r.fix(path+"/extra", RuleDropInvalidField)
			}
			delete(out, "extra")
			if len(moved) > 0 {
				out["extra"] = moved
			}
		}
	} else if len(moved) > 0 {
		out["extra"] = moved
	}

	if v, ok := out["subworkflows"]; ok {
		var items []any
		switch t := v.(type) {
		case []any:
			items = t
		case map[string]any:
			r.fix(path+"/subworkflows", RuleWrapList)
			items = []any{t}
		default:
			if v != nil {
				r.fix(path+"/subworkflows", RuleDropInvalidField)
			}
			delete(out, "subworkflows")
			return
		}

		subs := make([]any, 0, len(items))
		for i, item := range items {
			m, ok := item.(map[string]any)
			itemPath := fmt.Sprintf("%s/subworkflows/%d", path, i)
			if !ok {
				r.fix(itemPath, RuleDropInvalidField)
				continue
			}
			subs = append(subs, r.detail(m, itemPath, ""))
		}
		out["subworkflows"] = subs
	}
}

func (r *repairer) list(v any, path string) []any {
	items, ok := v.([]any)
	if !ok {
		r.fix(path, RuleWrapList)
		items = []any{v}
	}

	out := make([]any, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
			continue
		}
		if item == nil {
			continue
		}
		r.fix(path, RuleStringify)
		out = append(out, stringify(item))
	}
	return out
}

func actorsOf(steps []any) []any {
	actors := make([]any, 0)
	seen := map[string]bool{}
	for _, s := range steps {
		m, ok := s.(map[string]any)
		if !ok {
			continue
		}
		actor, _ := m["actor"].(string)
		if actor == "" || seen[actor] {
			continue
		}
		seen[actor] = true
		actors = append(actors, actor)
	}
	return actors
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
