package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatEvent(t *testing.T) {
	s := Summary{Label: "todo-app", SessionID: "abc123", Batches: 3, Files: 12, Missing: 2, ExitCode: 2}

	tests := []struct {
		name        string
		event       string
		wantContain []string
	}{
		{"completed", EventCompleted, []string{"✅", "todo-app", "[abc123]", "12 files", "3 batches"}},
		{"partial", EventPartial, []string{"⚠️", "12 files", "2 missing", "exit 2"}},
		{"empty", EventEmpty, []string{"❌", "no valid files"}},
		{"failed", EventFailed, []string{"🚨", "failed at batch 3"}},
		{"interrupted", EventInterrupted, []string{"⏸️", "--resume"}},
		{"rate limited", EventRateLimited, []string{"⏳", "rate limit", "batch 3"}},
		{"unknown", "custom", []string{"ℹ️", "event: custom"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := FormatEvent(tt.event, s)
			for _, want := range tt.wantContain {
				assert.Contains(t, msg, want)
			}
		})
	}
}
