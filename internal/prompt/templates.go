package prompt

import _ "embed"

// Template files embedded at compile time
var (
	//go:embed templates/system.txt
	SystemTemplate string

	//go:embed templates/initial.txt
	InitialTemplate string

	//go:embed templates/plan-section.txt
	PlanSection string

	//go:embed templates/context-section.txt
	ContextSection string

	//go:embed templates/continuation.txt
	ContinuationTemplate string

	//go:embed templates/truncation-retry.txt
	TruncationRetryNote string

	//go:embed templates/targeted.txt
	TargetedTemplate string
)
