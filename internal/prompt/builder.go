// Package prompt composes the text sent to the generation service for each
// kind of batch.
package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/CodexForgeBR/batchgen/internal/fileset"
)

// DefaultPreviewLimit caps the accumulated filenames listed in a targeted
// fetch.
const DefaultPreviewLimit = 20

// BuildSystemInstruction returns the JSON output contract, followed by an
// optional caller-supplied instruction.
func BuildSystemInstruction(custom string) string {
	custom = strings.TrimSpace(custom)
	if custom != "" {
		custom = "\n" + custom + "\n"
	}
	return strings.ReplaceAll(SystemTemplate, "{{CUSTOM_INSTRUCTION}}", custom)
}

// BuildInitialPrompt constructs the first batch prompt. planned and total
// may be empty when no plan exists; existing is the project context.
func BuildInitialPrompt(request string, planned []string, total int, existing fileset.FileSet) string {
	prompt := strings.ReplaceAll(InitialTemplate, "{{REQUEST}}", strings.TrimSpace(request))

	planSection := ""
	if len(planned) > 0 {
		if total < len(planned) {
			total = len(planned)
		}
		planSection = strings.ReplaceAll(PlanSection, "{{TOTAL}}", strconv.Itoa(total))
		planSection = strings.ReplaceAll(planSection, "{{FILES}}", bulletList(planned))
	}
	prompt = strings.ReplaceAll(prompt, "{{PLAN_SECTION}}", planSection)

	contextSection := ""
	if len(existing) > 0 {
		contextSection = strings.ReplaceAll(ContextSection, "{{CONTEXT_FILES}}", renderFiles(existing))
	}
	prompt = strings.ReplaceAll(prompt, "{{CONTEXT_SECTION}}", contextSection)

	return prompt
}

// BuildContinuationPrompt constructs the prompt for batch > 1. It lists the
// completed and remaining paths alongside the original request.
func BuildContinuationPrompt(request string, completed, remaining []string, batch, total int) string {
	if total < len(completed)+len(remaining) {
		total = len(completed) + len(remaining)
	}

	prompt := ContinuationTemplate
	prompt = strings.ReplaceAll(prompt, "{{BATCH}}", strconv.Itoa(batch))
	prompt = strings.ReplaceAll(prompt, "{{REQUEST}}", strings.TrimSpace(request))
	prompt = strings.ReplaceAll(prompt, "{{COMPLETED_COUNT}}", strconv.Itoa(len(completed)))
	prompt = strings.ReplaceAll(prompt, "{{COMPLETED_FILES}}", bulletList(completed))
	prompt = strings.ReplaceAll(prompt, "{{REMAINING_COUNT}}", strconv.Itoa(len(remaining)))
	prompt = strings.ReplaceAll(prompt, "{{TOTAL}}", strconv.Itoa(total))

	remainingList := bulletList(remaining)
	if len(remaining) == 0 {
		remainingList = "(unknown - emit whatever the request still needs)"
	}
	prompt = strings.ReplaceAll(prompt, "{{REMAINING_FILES}}", remainingList)

	return prompt
}

// BuildTruncationRetryPrompt appends the cut-off note to a batch prompt.
// attempt is the retry number, starting at 1.
func BuildTruncationRetryPrompt(base string, attempt int) string {
	return base + strings.ReplaceAll(TruncationRetryNote, "{{ATTEMPT}}", strconv.Itoa(attempt))
}

// BuildTargetedPrompt constructs the narrow request for missing paths.
// Only the first previewLimit accumulated paths are listed.
func BuildTargetedPrompt(request string, missing, accumulated []string, previewLimit int) string {
	prompt := TargetedTemplate
	prompt = strings.ReplaceAll(prompt, "{{MISSING_FILES}}", bulletList(missing))
	prompt = strings.ReplaceAll(prompt, "{{REQUEST}}", strings.TrimSpace(request))
	prompt = strings.ReplaceAll(prompt, "{{ACCUMULATED_COUNT}}", strconv.Itoa(len(accumulated)))
	prompt = strings.ReplaceAll(prompt, "{{ACCUMULATED_PREVIEW}}", PreviewList(accumulated, previewLimit))
	return prompt
}

// PreviewList renders at most limit paths as a bullet list, followed by a
// "+N more" line when paths were cut. A limit <= 0 uses DefaultPreviewLimit.
func PreviewList(paths []string, limit int) string {
	if limit <= 0 {
		limit = DefaultPreviewLimit
	}
	if len(paths) <= limit {
		return bulletList(paths)
	}
	return bulletList(paths[:limit]) + fmt.Sprintf("\n- ... (+%d more)", len(paths)-limit)
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(item)
	}
	return b.String()
}

func renderFiles(fs fileset.FileSet) string {
	var b strings.Builder
	for i, path := range fs.Paths() {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "### %s\n```\n%s\n```", path, strings.TrimRight(fs[path], "\n"))
	}
	return b.String()
}
