// Copyright (c) 2025 Tag Sense
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	bridgeerrors "tagsense/cli/internal/errors"
	"tagsense/cli/internal/httperrors"
	"tagsense/cli/internal/manifest"
)

// PresentError formats an error as a single line, prefixed by context when given.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	msg := bridgeerrors.Message(err)
	if context == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", context, msg)
}

// StartHint is the command that starts the service behind target.
func StartHint(t manifest.Target) string {
	if t == manifest.Inference {
		return "ollama serve"
	}
	return "python tagging_api.py"
}

// FormatError renders a failed operation as a titled block with a likely
// cause and what to do next.
func FormatError(op manifest.Operation, err error) string {
	ep, _ := manifest.Lookup(op)
	service := ep.Target.Display()

	var builder strings.Builder
	kind := bridgeerrors.KindOf(err)

	switch kind {
	case bridgeerrors.ConnectionFailure:
		builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Connection Failed"))
		builder.WriteString("\n\n")
		builder.WriteString(fmt.Sprintf("Could not get an answer from the %s.\n", service))
		builder.WriteString("\n")
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Start it with '" + StartHint(ep.Target) + "' and run 'tagsense status'"))

	case bridgeerrors.UpstreamError:
		builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Request Rejected"))
		builder.WriteString("\n\n")
		builder.WriteString(fmt.Sprintf("The %s answered with HTTP %d.\n", service, bridgeerrors.StatusOf(err)))
		builder.WriteString("This usually means:\n")
		switch status := bridgeerrors.StatusOf(err); {
		case status == 404:
			builder.WriteString("  • The path does not exist on this machine\n")
			builder.WriteString("  • The service is an older version without this endpoint\n")
		case status >= 500:
			builder.WriteString("  • The service failed while generating tags\n")
			builder.WriteString("  • The model is not installed (ollama pull tinyllama)\n")
		default:
			builder.WriteString("  • The request was not accepted as sent\n")
		}
		builder.WriteString("\n")
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Check the service output for details"))

	case bridgeerrors.MalformedResponse:
		builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Unexpected Reply"))
		builder.WriteString("\n\n")
		builder.WriteString(fmt.Sprintf("The %s answered, but not with the JSON object expected.\n", service))
		builder.WriteString("\n")
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Make sure the configured URL points at the right service (tagsense config show)"))

	case bridgeerrors.ValidationError:
		builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Invalid Input"))
		builder.WriteString("\n\n")
		builder.WriteString(bridgeerrors.Message(err))
		builder.WriteString("\n")
		return builder.String()

	default:
		builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Operation Failed"))
		builder.WriteString("\n")
	}

	builder.WriteString("\n")
	if msg := PresentError("", err); strings.TrimSpace(msg) != "" {
		builder.WriteString("\n")
		builder.WriteString(pterm.NewStyle(pterm.FgGray).Sprint("Technical details: " + msg))
	}
	return builder.String()
}

// ShowError prints FormatError for op and, for connection failures,
// the troubleshooting steps for the underlying cause.
func ShowError(op manifest.Operation, err error) {
	pterm.Println()
	pterm.Println(FormatError(op, err))
	pterm.Println()
	if bridgeerrors.HasKind(err, bridgeerrors.ConnectionFailure) {
		ep, _ := manifest.Lookup(op)
		httperrors.Show(httperrors.Classify(err), ep.Target.Display(), StartHint(ep.Target))
	}
}
