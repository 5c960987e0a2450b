package prompts

const summarizeSpec = `Respond with a JSON object matching this exact structure:

{
  "name": "<process name>",
  "description": "<short description>"
}

Field constraints:
- name: Short title of the overall process, at most eight words.
- description: Two to four sentences describing the process.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Describe exactly one process
- Base the summary only on the provided material`

const detailSpec = `Respond with a JSON object matching this exact structure:

{
  "name": "<workflow name>",
  "actors": ["<actor>"],
  "steps": [
    {
      "actor": "<actor>",
      "action": "<action>",
      "substeps": [{"actor": "<actor>", "action": "<action>"}]
    }
  ],
  "inputs": ["<input>"],
  "outputs": ["<output>"],
  "connections": ["<related workflow>"],
  "extra": {},
  "subworkflows": []
}

Field constraints:
- name: The workflow name from the summary.
- actors: Distinct actors of the top-level steps.
- steps: Ordered list. Every step requires a non-empty action. actor is a
  string and may be empty when no actor applies. substeps is optional and
  uses the same step structure recursively.
- inputs, outputs, connections: Optional lists of strings.
- extra: Optional object with additional facts.
- subworkflows: Optional list of workflow objects with this same structure.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Use only the keys shown above
- Never use strings in place of step objects`

const enrichSpec = `Respond with a JSON object matching this exact structure:

{
  "type": "<integration type>",
  "recommendation": "<recommendation>"
}

Field constraints:
- type: One of manual, email, crm, erp, spreadsheet, messaging, document,
  approval, scheduling, custom.
- recommendation: One or two sentences describing the integration. Empty
  string when type is manual.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Classify only the step provided in the prompt`

var specs = map[Stage]string{
	StageSummarize: summarizeSpec,
	StageDetail:    detailSpec,
	StageEnrich:    enrichSpec,
}

// Spec returns the hardcoded specification for a generation stage.
// Specifications define the expected output format and behavioral constraints.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
