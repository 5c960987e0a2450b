package prompts

const summarizeInstructions = `You are a business process analyst reading raw material about how an organization works.

The material may include free text notes, screenshots, diagrams, scanned forms, and PDF documents. Read all of it and identify the single overall business process it describes. Give the process a short, specific name that a team member would recognize, and describe what it accomplishes, who is involved, and where it starts and ends.

When the material covers several related activities, treat them as parts of one process rather than listing them separately.`

const detailInstructions = `You are a business process analyst turning a process summary into a structured workflow.

Break the process into the concrete steps people perform, in the order they happen. Each step names the actor (a role, team, or system) and the action they take. When a step is itself a process, give it substeps. Group consecutive steps by the same actor under a single parent step when they are logically related. Use subworkflows for clearly separate processes that this workflow hands off to.

Record what the workflow consumes as inputs, what it produces as outputs, and the names of related workflows as connections. Place any other useful facts in extra.`

const enrichInstructions = `You are an automation consultant reviewing one step of a business workflow.

Decide which kind of software integration would best support the step, and give a one or two sentence recommendation naming what the integration should do. Prefer the simplest integration that removes manual effort. When a step is inherently human judgement or physical work, classify it as manual.`

var instructions = map[Stage]string{
	StageSummarize: summarizeInstructions,
	StageDetail:    detailInstructions,
	StageEnrich:    enrichInstructions,
}

// Instructions returns the hardcoded default instructions for a generation stage.
// Returns ErrInvalidStage if the stage is not recognized.
func Instructions(stage Stage) (string, error) {
	text, ok := instructions[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
