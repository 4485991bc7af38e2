package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/batchgen/internal/cli"
	"github.com/CodexForgeBR/batchgen/internal/config"
	"github.com/CodexForgeBR/batchgen/internal/exitcode"
	"github.com/CodexForgeBR/batchgen/internal/logging"
	"github.com/CodexForgeBR/batchgen/internal/model"
	"github.com/CodexForgeBR/batchgen/internal/phases"
	sighandler "github.com/CodexForgeBR/batchgen/internal/signal"
)

// version vars injected via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cfg := config.NewDefaultConfig()

	rootCmd := &cobra.Command{
		Use:     "batchgen",
		Short:   "Batched multi-file code generation with resumable sessions",
		Long:    "batchgen asks a model for a set of files in batches, keeps going until every planned file exists, and writes the validated result into the output directory.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validate flags after parsing
			if err := cli.ValidateFlags(cmd, cfg); err != nil {
				return err
			}
			return run(cmd, cfg)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Bind all CLI flags to the config
	cli.BindFlags(rootCmd, cfg)

	// Set custom help template
	cli.SetCustomHelp(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, cfg *config.Config) error {
	// CLI flags are already bound to cfg, now layer the config files under them
	finalCfg, err := config.LoadWithPrecedence(
		config.GlobalConfigPath(),
		config.ProjectConfigPath(cfg.StateDir),
		cfg.ConfigFile,
		cli.BuildOverrides(cmd, cfg),
	)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Merge CLI-only flags (not in config files)
	finalCfg.ConfigFile = cfg.ConfigFile
	finalCfg.Prompt = cfg.Prompt
	finalCfg.PromptFile = cfg.PromptFile
	finalCfg.PlanFile = cfg.PlanFile
	finalCfg.Label = cfg.Label
	finalCfg.Resume = cfg.Resume
	finalCfg.ResumeForce = cfg.ResumeForce
	finalCfg.Clean = cfg.Clean
	finalCfg.Status = cfg.Status
	finalCfg.DryRun = cfg.DryRun
	cfg = finalCfg

	cfg.Model = model.ResolveModel(cfg.Provider, cfg.Model)
	cfg.APIKeyEnv = model.ResolveAPIKeyEnv(cfg.Provider, cfg.APIKeyEnv)
	if err := model.ValidateModelProvider(cfg.Provider, cfg.Model, cfg.BaseURL); err != nil {
		return err
	}

	logging.SetVerbose(cfg.Verbose)

	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	// Save a resumable snapshot on interrupt
	stop := sighandler.SetupSignalHandler(ctx, cancel, func(sig os.Signal) {
		logging.Warn(fmt.Sprintf("Received %s, saving session...", sig))
	})
	defer stop()

	exitCode := phases.NewOrchestrator(cfg).Run(ctx)
	logging.Debug(fmt.Sprintf("Exiting with %d (%s)", exitCode, exitcode.Name(exitCode)))

	stop()
	cancel(nil)
	_ = logging.Close()
	os.Exit(exitCode)
	return nil // unreachable
}
