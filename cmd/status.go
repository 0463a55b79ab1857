// Copyright (c) 2025 Tag Sense
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/spf13/cobra"

	"tagsense/cli/internal/bridge/model"
)

var statusStrict bool

// statusCmd checks both local services. Status checks never fail; an
// unreachable service is reported, not returned as an error.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether Ollama and the tagging backend are running",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		services := current.bridge.CheckServices(cmd.Context())
		if err := current.out.Render(services); err != nil {
			return err
		}
		if statusStrict && (services.Inference.Health() != model.Healthy || services.Backend.Health() != model.Healthy) {
			return errReported
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusStrict, "strict", false, "Exit non-zero unless both services are healthy")
	rootCmd.AddCommand(statusCmd)
}
