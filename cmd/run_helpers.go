// Copyright (c) 2025 Tag Sense
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"
	"sync"
	"time"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"

	"tagsense/cli/internal/logging"
	"tagsense/cli/internal/manifest"
	"tagsense/cli/internal/render"
	"tagsense/cli/internal/terminal"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// startAreaSpinner shows a spinner line with the elapsed time until the
// returned function is called. It does nothing unless stdout is a terminal
// showing text output.
func startAreaSpinner(text string) func() {
	if current.out.Format() != render.Text || !terminal.IsInteractive(os.Stdout) {
		return func() {}
	}
	cursor.Hide()
	area, err := pterm.DefaultArea.WithRemoveWhenDone(true).Start()
	if err != nil {
		cursor.Show()
		return func() {}
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		start := time.Now()
		t := time.NewTicker(120 * time.Millisecond)
		defer t.Stop()
		for i := 0; ; i++ {
			select {
			case <-t.C:
				area.Update(fmt.Sprintf("%s %s %s", spinnerFrames[i%len(spinnerFrames)], text,
					pterm.NewStyle(pterm.FgGray).Sprint(time.Since(start).Truncate(time.Second))))
			case <-stop:
				return
			}
		}
	}()

	return func() {
		close(stop)
		wg.Wait()
		_ = area.Stop()
		cursor.Show()
	}
}

// report prints a result, or the error in the chosen output format.
// A shown error comes back as errReported so Execute exits non-zero quietly.
func report(op manifest.Operation, res any, err error) error {
	if err != nil {
		current.logger.Debug("operation failed", current.logger.Args("operation", string(op), "error", err.Error()))
		if current.out.Format() == render.Text {
			logging.ShowError(op, err)
		} else if rerr := current.out.RenderError(err); rerr != nil {
			return rerr
		}
		return errReported
	}
	return current.out.Render(res)
}
