// Package cli provides help text and usage formatting for the batchgen CLI.
package cli

import (
	"github.com/spf13/cobra"
)

const helpTemplate = `batchgen - Multi-batch source file generation with completion detection

USAGE
  batchgen (--prompt <text> | --prompt-file <path> | --plan <path>) [flags]

FLAGS
  Request:
    -p, --prompt <text>                    Generation request text
    --prompt-file <path>                   Read the generation request from a file
    --plan <path>                          Generation plan (YAML: request, total_files, files)
    --label <name>                         Label recorded with applied files and notifications

  Backend:
    --provider <openai|ollama>             Generation backend (default: openai)
    -m, --model <name>                     Model name (default: gpt-4o-mini / qwen2.5-coder)
    --base-url <url>                       Override the backend endpoint
    --api-key-env <var>                    Environment variable holding the API key (default: OPENAI_API_KEY)
    --max-output-tokens <int>              Output token cap per batch (default: 8192)
    --temperature <float>                  Sampling temperature (default: 0.4)
    --no-json-mode                         Do not request a JSON response format

  Session Limits:
    --max-batches <int>                    Batches before completion is forced (default: 5)
    --max-retries <int>                    Retries per batch (default: 3)
    --retry-base-delay-ms <int>            Linear backoff step in ms (default: 1000)
    --targeted-preview-limit <int>         Accumulated filenames shown in a targeted fetch (default: 20)
    --inactivity-timeout <int>             Seconds without stream output before a batch is abandoned (default: 120)

  Paths:
    -o, --output-dir <dir>                 Directory generated files are written to (default: .)
    --project <dir>                        Existing project whose files are sent as context
    --include <glob>                       Glob patterns selecting context files (repeatable)
    --state-dir <dir>                      Directory for session state (default: .batchgen)
    --log-file <path>                      Mirror log output to a rotating file
    --transcript-file <path>               Markdown transcript of outcomes (default: .batchgen/transcript.md)
    --config <path>                        Path to additional config file

  Notifications:
    --notify-webhook <url>                 OpenClaw webhook URL (default: http://127.0.0.1:18789/webhook)
    --notify-channel <channel>             Notification channel (default: telegram)
    --notify-chat-id <id>                  Recipient chat ID (required to enable notifications)

  Session Management:
    --resume                               Resume the last interrupted session
    --resume-force                         Resume even if the plan changed (implies --resume)
    --clean                                Clear the saved session; exits unless a request is given
    --status                               Show session status and exit
    --dry-run                              Generate but do not write files

  Help & Version:
    -v, --verbose                          Enable debug output
    -h, --help                             Show this help text
    --version                              Show version, commit, build date

EXIT CODES
  0   Success              Every planned file was generated
  1   Error                Invalid arguments, provider failure, misconfiguration
  2   Partial              Files were applied but some are missing or completion was forced
  3   EmptyGeneration      No valid file survived validation; nothing was applied
  130 Interrupted          SIGINT or SIGTERM received; use --resume

EXAMPLES
  # Generate a small project from a prompt
  batchgen --prompt "A Go CLI that converts CSV to JSON" -o ./csv2json

  # Follow a plan, sending the existing project as context
  batchgen --plan plan.yaml --project . --include 'internal/**/*.go'

  # Use a local model
  batchgen --provider ollama --model llama3.1:8b --prompt-file request.md

  # Resume an interrupted session
  batchgen --resume

For more information, see: https://github.com/CodexForgeBR/batchgen
`

// SetCustomHelp configures the cobra command to use our custom help template.
func SetCustomHelp(cmd *cobra.Command) {
	cmd.SetHelpTemplate(helpTemplate)
}
