package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/reoring/plmcheck/i18n"
	"github.com/reoring/plmcheck/internal/config"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	cfgFile string
}

// NewRootCmd creates the root plmcheck command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "plmcheck",
		Short: "Validate and lint UI manifests",
		Long: TitleStyle.Render("plmcheck") + SubtitleStyle.Render(" - validate and lint UI manifests") + `

plmcheck checks page and component manifests against a PLM JSON Schema
and reports advisory metadata warnings (naming, known component types,
description/intent/llmHint/exampleInput fields).

` + SubtitleStyle.Render("Examples:") + `
  plmcheck validate manifests/              Validate every *.json in a folder
  plmcheck validate -r --include '**/*.yaml' .
  plmcheck validate --schema ui.schema.json home.json
  plmcheck lint --format json home.json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&g.cfgFile, "config", "", "config file (default is ./"+config.ConfigFileName+")")
	root.PersistentFlags().Bool("verbose", false, "enable debug logging")
	root.PersistentFlags().String("lang", "", "message language ("+fmt.Sprint(i18n.Languages())+")")
	root.PersistentFlags().String("format", "", "output format: text or json")

	root.AddCommand(newValidateCmd(g))
	root.AddCommand(newLintCmd(g))
	return root
}

func versionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// Execute runs the root command and exits with the code carried by an
// *ExitError, or 1 for any other error.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		NewRootCmd(),
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(ExitInvalid)
	}
}

// loadConfig resolves settings for cmd, applies the message language and
// maps failures to a usage exit code.
func loadConfig(cmd *cobra.Command, g *globalFlags) (*config.Config, error) {
	cfg, _, err := config.Load(config.LoadOptions{
		ConfigFilePath: g.cfgFile,
		Flags:          cmd.Flags(),
	})
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Err: fmt.Errorf("configuration: %w", err)}
	}
	i18n.SetLanguage(cfg.Lang)
	return cfg, nil
}
