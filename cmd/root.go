// Copyright (c) 2025 Tag Sense
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for Tag Sense.
// Every subcommand runs one bridge operation against the local Ollama server
// or the tagging backend and prints the result as styled text, JSON or YAML.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"tagsense/cli/internal/bridge"
	"tagsense/cli/internal/config"
	"tagsense/cli/internal/logging"
	"tagsense/cli/internal/render"
	"tagsense/cli/internal/terminal"
)

var (
	showVersion  bool
	outputFormat string
	logLevel     string
)

// errReported marks an error already shown to the user.
var errReported = errors.New("reported")

// app is the per-run state built before any subcommand runs.
type app struct {
	cfg    config.Config
	logger *pterm.Logger
	bridge *bridge.Bridge
	out    *render.Renderer
}

var current *app

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "tagsense",
	Short: "Tag Sense CLI for tagging files with a local model",
	Long: `Tag Sense generates tags for your files with a local model.

It talks to two services on this machine: the Ollama inference server
(127.0.0.1:11434) and the Tag Sense tagging backend (127.0.0.1:5000).`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("tagsense %s\n", Version)
			services := current.bridge.CheckServices(cmd.Context())
			fmt.Printf("ollama   %s\nbackend  %s\n", services.Inference.Health(), services.Backend.Health())
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// setup loads config and wires the logger, bridge and renderer for this run.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	format := render.Text
	if !terminal.IsInteractive(os.Stdout) {
		format = render.JSON
	}
	if outputFormat != "" {
		if format, err = render.ParseFormat(outputFormat); err != nil {
			return err
		}
	}
	if format != render.Text {
		pterm.DisableStyling()
	}

	logger := logging.New(cfg.LogLevel, os.Stderr, format != render.Text)
	current = &app{
		cfg:    cfg,
		logger: logger,
		out:    render.NewRenderer(os.Stdout, format),
		bridge: bridge.New(
			bridge.WithManifest(cfg.Manifest()),
			bridge.WithLogger(logger),
			bridge.WithModel(cfg.Model),
			bridge.WithStatusRetries(cfg.StatusRetries),
		),
	}
	logger.Debug("configuration loaded", logger.Args("inference_url", cfg.InferenceURL, "backend_url", cfg.BackendURL, "output", string(format)))
	return nil
}

// Execute runs the CLI application. Ctrl-C cancels the running operation.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version and service health")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "Output format: text, json or yaml (default text on a terminal, json otherwise)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error or off")
}
