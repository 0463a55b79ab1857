// Copyright (c) 2025 Tag Sense
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"tagsense/cli/internal/config"
	"tagsense/cli/internal/render"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change CLI settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings, including environment overrides",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if current.out.Format() != render.Text {
			return current.out.Render(current.cfg)
		}
		p, _ := config.Path()
		data := pterm.TableData{{"Setting", "Value"}}
		data = append(data,
			[]string{"inference_url", current.cfg.InferenceURL},
			[]string{"backend_url", current.cfg.BackendURL},
			[]string{"model", current.cfg.Model},
			[]string{"log_level", current.cfg.LogLevel},
			[]string{"status_retries", fmt.Sprint(current.cfg.StatusRetries)},
		)
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			return err
		}
		pterm.Println(pterm.NewStyle(pterm.FgGray).Sprint("File: " + p))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Change one setting in the config file",
	Args:      cobra.ExactArgs(2),
	ValidArgs: config.Keys(),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Start from the file, not the effective config, so env overrides
		// are not written back.
		cfg, err := config.LoadFile()
		if err != nil {
			return err
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		pterm.Success.Printf("%s updated\n", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
