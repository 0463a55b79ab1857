// Copyright (c) 2025 Tag Sense
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tagsense/cli/internal/manifest"
)

var (
	invokeArgs     []string
	invokeArgsJSON string
	invokeList     bool
)

// invokeCmd runs any operation by its wire name, the way the desktop UI
// calls the bridge.
var invokeCmd = &cobra.Command{
	Use:   "invoke <operation>",
	Short: "Run a bridge operation by name",
	Example: `  tagsense invoke check_backend_status
  tagsense invoke process_file_for_tags --arg file_path=/docs/a.pdf --arg context=invoices
  tagsense invoke process_files_for_tags --args '{"file_paths": ["/docs/a.pdf", "/docs/b.md"]}'`,
	Args: func(cmd *cobra.Command, args []string) error {
		if invokeList {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if invokeList {
			for _, op := range manifest.Operations() {
				ep, _ := manifest.Lookup(op)
				fmt.Printf("%-26s %-4s %-24s %s\n", op, ep.Method, ep.Path, ep.Timeout)
			}
			return nil
		}
		callArgs, err := parseInvokeArgs(invokeArgs, invokeArgsJSON)
		if err != nil {
			return err
		}
		op, _ := manifest.Parse(args[0])
		stop := func() {}
		if !manifest.IsStatusCheck(op) {
			stop = startAreaSpinner("Running " + args[0])
		}
		res, err := current.bridge.Invoke(cmd.Context(), args[0], callArgs)
		stop()
		return report(op, res, err)
	},
}

// parseInvokeArgs merges --args JSON with repeated --arg key=value pairs.
// Keys ending in _paths collect every value into a list.
func parseInvokeArgs(pairs []string, raw string) (map[string]any, error) {
	out := map[string]any{}
	if strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return nil, fmt.Errorf("--args must be a JSON object: %w", err)
		}
		if out == nil {
			return nil, fmt.Errorf("--args must be a JSON object, got null")
		}
	}
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("--arg %q: want key=value", p)
		}
		if strings.HasSuffix(key, "_paths") {
			list, _ := out[key].([]any)
			out[key] = append(list, value)
			continue
		}
		out[key] = value
	}
	return out, nil
}

func init() {
	invokeCmd.Flags().StringArrayVar(&invokeArgs, "arg", nil, "Operation argument as key=value (repeatable)")
	invokeCmd.Flags().StringVar(&invokeArgsJSON, "args", "", "Operation arguments as a JSON object")
	invokeCmd.Flags().BoolVar(&invokeList, "list", false, "List operations with their endpoint and timeout")
	rootCmd.AddCommand(invokeCmd)
}
