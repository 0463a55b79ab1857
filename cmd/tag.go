// Copyright (c) 2025 Tag Sense
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"tagsense/cli/internal/manifest"
)

var tagContext string

var filesCmd = &cobra.Command{
	Use:   "files <folder>",
	Short: "List the files in a folder that can be tagged",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := current.bridge.ListFolderFiles(cmd.Context(), absPath(args[0]))
		return report(manifest.ListFolderFiles, res, err)
	},
}

var tagFileCmd = &cobra.Command{
	Use:   "tag-file <file>",
	Short: "Generate tags for one file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := absPath(args[0])
		stop := startAreaSpinner(fmt.Sprintf("Tagging %s", filepath.Base(path)))
		res, err := current.bridge.ProcessFileForTags(cmd.Context(), path, tagContext)
		stop()
		return report(manifest.ProcessFileForTags, res, err)
	},
}

var tagFilesCmd = &cobra.Command{
	Use:   "tag-files <file>...",
	Short: "Generate tags for several files in one request",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := make([]string, 0, len(args))
		for _, a := range args {
			paths = append(paths, absPath(a))
		}
		stop := startAreaSpinner(fmt.Sprintf("Tagging %d files", len(paths)))
		res, err := current.bridge.ProcessFilesForTags(cmd.Context(), paths)
		stop()
		return report(manifest.ProcessFilesForTags, res, err)
	},
}

var tagFolderCmd = &cobra.Command{
	Use:   "tag-folder <folder>",
	Short: "Generate tags for every supported file in a folder",
	Long: `Generate tags for every supported file in a folder.

Large folders can take several minutes; the request gives up after ten.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folder := absPath(args[0])
		stop := startAreaSpinner(fmt.Sprintf("Tagging %s", folder))
		res, err := current.bridge.ProcessFolderForTags(cmd.Context(), folder)
		stop()
		return report(manifest.ProcessFolderForTags, res, err)
	},
}

// absPath resolves p against the working directory, since the backend
// runs with its own. Blank input is passed through for validation.
func absPath(p string) string {
	if p == "" {
		return p
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func init() {
	tagFileCmd.Flags().StringVar(&tagContext, "context", "", "Hint for the model, e.g. \"tax documents\"")
	rootCmd.AddCommand(filesCmd, tagFileCmd, tagFilesCmd, tagFolderCmd)
}
