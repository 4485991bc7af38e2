// Package exitcode defines named exit codes for the batchgen CLI.
//
// Each code maps a session outcome to a numeric value recognized by shell
// scripts and CI pipelines.
package exitcode

const (
	Success         = 0   // Generation finished with every planned file
	Error           = 1   // Invalid args, provider failure, misconfiguration
	Partial         = 2   // Finished with planned files still missing
	EmptyGeneration = 3   // No valid file survived validation
	Interrupted     = 130 // SIGINT/SIGTERM received
)

// Name returns the human-readable name for the given exit code.
// Unknown codes return "unknown".
func Name(code int) string {
	switch code {
	case Success:
		return "Success"
	case Error:
		return "Error"
	case Partial:
		return "Partial"
	case EmptyGeneration:
		return "EmptyGeneration"
	case Interrupted:
		return "Interrupted"
	default:
		return "unknown"
	}
}
