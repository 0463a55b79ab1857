// Package main is the entry point for the Tag Sense CLI.
// It tags local files through the Ollama server and the tagging backend.
package main

import (
	"tagsense/cli/cmd"
)

func main() {
	cmd.Execute()
}
