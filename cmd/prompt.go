// Copyright (c) 2025 Tag Sense
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"tagsense/cli/internal/manifest"
)

var promptCmd = &cobra.Command{
	Use:   "prompt <text>...",
	Short: "Send a prompt to the local model",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stop := startAreaSpinner("Thinking")
		res, err := current.bridge.SendPrompt(cmd.Context(), strings.Join(args, " "))
		stop()
		return report(manifest.SendPrompt, res, err)
	},
}

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the file types the backend can tag",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := current.bridge.ListSupportedTypes(cmd.Context())
		return report(manifest.ListSupportedTypes, res, err)
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models installed in Ollama",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := current.bridge.ListModels(cmd.Context())
		return report(manifest.ListModels, res, err)
	},
}

func init() {
	rootCmd.AddCommand(promptCmd, typesCmd, modelsCmd)
}
