// Copyright (c) 2025 Tag Sense
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package render prints bridge results for people (styled text) or for
// other programs (JSON, YAML).
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"tagsense/cli/internal/bridge/model"
	bridgeerrors "tagsense/cli/internal/errors"
	"tagsense/cli/internal/terminal"
)

// Format selects how results are printed.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat accepts text, json or yaml in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case Text, JSON, YAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
}

// Renderer writes results to w in one format.
type Renderer struct {
	w      io.Writer
	format Format
	width  int
}

// NewRenderer creates a renderer instance.
func NewRenderer(w io.Writer, format Format) *Renderer {
	return &Renderer{w: w, format: format, width: terminal.Width()}
}

// Format returns the renderer's output format.
func (r *Renderer) Format() Format { return r.format }

// Render prints one result value.
func (r *Renderer) Render(v any) error {
	switch r.format {
	case JSON:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	case YAML:
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	var (
		out string
		err error
	)
	switch res := v.(type) {
	case model.Services:
		out = r.services(res)
	case model.Status:
		out = statusLine("service", res)
	case model.TagResult:
		out, err = r.tagResult(res)
	case model.BatchResult:
		out, err = r.batch(res)
	case model.FolderResult:
		out, err = r.folder(res)
	case model.FolderFiles:
		out, err = r.folderFiles(res)
	case model.SupportedTypes:
		out, err = r.supportedTypes(res)
	case model.Models:
		out, err = r.models(res)
	case string:
		out = res + "\n"
	default:
		return fmt.Errorf("cannot render %T as text", v)
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(r.w, out)
	return err
}

// ErrorReply is the machine-readable shape of a failed operation.
type ErrorReply struct {
	Error ErrorBody `json:"error" yaml:"error"`
}

// ErrorBody carries the error kind and, for upstream errors, the HTTP status.
type ErrorBody struct {
	Kind       string `json:"kind" yaml:"kind"`
	Message    string `json:"message" yaml:"message"`
	StatusCode int    `json:"statusCode,omitempty" yaml:"statusCode,omitempty"`
}

// RenderError prints err as an ErrorReply. Text output is left to the
// caller, which knows the operation that failed.
func (r *Renderer) RenderError(err error) error {
	if r.format == Text {
		return fmt.Errorf("cannot render errors as text")
	}
	return r.Render(ErrorReply{Error: ErrorBody{
		Kind:       string(bridgeerrors.KindOf(err)),
		Message:    bridgeerrors.Message(err),
		StatusCode: bridgeerrors.StatusOf(err),
	}})
}

func (r *Renderer) services(s model.Services) string {
	return statusLine("Ollama (inference)", s.Inference) + statusLine("Tagging backend", s.Backend)
}

func statusLine(name string, s model.Status) string {
	var mark string
	switch s.Health() {
	case model.Healthy:
		mark = pterm.NewStyle(pterm.FgGreen).Sprint("●")
	case model.Degraded:
		mark = pterm.NewStyle(pterm.FgYellow).Sprint("●")
	default:
		mark = pterm.NewStyle(pterm.FgRed).Sprint("●")
	}
	line := fmt.Sprintf("%s %-20s %s\n", mark, name, s.Health())
	if msg, ok := s.ErrorMessage(); ok {
		line += pterm.NewStyle(pterm.FgGray).Sprint("    "+msg) + "\n"
	}
	return line
}

func (r *Renderer) tagResult(t model.TagResult) (string, error) {
	var b strings.Builder
	title := "File"
	if t.Filename != nil {
		title = *t.Filename
	}
	if t.Success {
		b.WriteString(pterm.NewStyle(pterm.FgLightCyan, pterm.Bold).Sprint(title))
	} else {
		b.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint(title + " (failed)"))
	}
	b.WriteString("\n")
	if t.Error != nil {
		b.WriteString("  " + *t.Error + "\n")
	}
	if len(t.Tags) > 0 {
		list, err := pterm.DefaultBulletList.WithItems(stringListToBulletItems(t.Tags)).Srender()
		if err != nil {
			return "", err
		}
		b.WriteString(list)
	} else if t.Success {
		b.WriteString("  no tags\n")
	}
	var meta []string
	if t.FileType != nil {
		meta = append(meta, "type "+*t.FileType)
	}
	if t.ModelUsed != nil {
		meta = append(meta, "model "+*t.ModelUsed)
	}
	if len(meta) > 0 {
		b.WriteString(pterm.NewStyle(pterm.FgGray).Sprint("  "+strings.Join(meta, ", ")) + "\n")
	}
	return b.String(), nil
}

func (r *Renderer) batch(res model.BatchResult) (string, error) {
	var b strings.Builder
	for _, t := range res.Results {
		s, err := r.tagResult(t)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	if len(res.Results) == 0 {
		b.WriteString("No results\n")
	}
	return b.String(), nil
}

func (r *Renderer) folder(f model.FolderResult) (string, error) {
	var b strings.Builder

	title := pterm.NewStyle(pterm.FgGreen, pterm.Bold).Sprint("Folder Tagged")
	if !f.Success {
		title = pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Folder Not Tagged")
	}
	var details []string
	if f.FolderPath != nil {
		details = append(details, "Folder: "+*f.FolderPath)
	}
	if f.Message != nil {
		details = append(details, *f.Message)
	}
	if f.Error != nil {
		details = append(details, "Error: "+*f.Error)
	}
	for _, k := range []string{"total", "processed", "errors"} {
		if v, ok := f.Summary[k]; ok {
			details = append(details, fmt.Sprintf("%s: %v", strings.ToUpper(k[:1])+k[1:], v))
		}
	}
	if len(details) == 0 {
		details = append(details, "No details returned")
	}
	b.WriteString(pterm.DefaultBox.WithTitle(title).WithPadding(1).Sprint(strings.Join(details, "\n")))
	b.WriteString("\n")

	if len(f.Results) == 0 {
		return b.String(), nil
	}
	cell := r.width / 3
	data := pterm.TableData{{"File", "Tags", "Error"}}
	for _, rec := range f.Results {
		data = append(data, []string{
			terminal.Truncate(recordString(rec, "filename"), cell),
			terminal.Truncate(strings.Join(recordStrings(rec, "tags"), ", "), cell),
			terminal.Truncate(recordString(rec, "error"), cell),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", err
	}
	b.WriteString(table)
	b.WriteString("\n")
	return b.String(), nil
}

func (r *Renderer) folderFiles(f model.FolderFiles) (string, error) {
	var b strings.Builder
	if f.Error != nil {
		b.WriteString(pterm.NewStyle(pterm.FgRed).Sprint(*f.Error) + "\n")
	}
	b.WriteString(pterm.NewStyle(pterm.FgLightCyan, pterm.Bold).Sprintf("%d supported file(s)", f.Count))
	b.WriteString("\n")
	if len(f.Files) > 0 {
		list, err := pterm.DefaultBulletList.WithItems(stringListToBulletItems(f.Files)).Srender()
		if err != nil {
			return "", err
		}
		b.WriteString(list)
	}
	return b.String(), nil
}

func (r *Renderer) supportedTypes(s model.SupportedTypes) (string, error) {
	data := pterm.TableData{
		{"Kind", "Extensions"},
		{"text", strings.Join(s.TextExtensions, " ")},
		{"image", strings.Join(s.ImageExtensions, " ")},
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", err
	}
	return table + "\n", nil
}

func (r *Renderer) models(m model.Models) (string, error) {
	var b strings.Builder
	b.WriteString(pterm.NewStyle(pterm.FgLightCyan, pterm.Bold).Sprint("Installed models"))
	b.WriteString("\n")
	if len(m.AvailableModels) == 0 {
		b.WriteString("  none\n")
	} else {
		list, err := pterm.DefaultBulletList.WithItems(stringListToBulletItems(m.AvailableModels)).Srender()
		if err != nil {
			return "", err
		}
		b.WriteString(list)
	}
	b.WriteString(fmt.Sprintf("tinyllama: %s   vision: %s\n", yesNo(m.TinyllamaAvailable), yesNo(m.VisionAvailable)))
	return b.String(), nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func recordString(rec model.Record, key string) string {
	s, _ := rec[key].(string)
	return s
}

func recordStrings(rec model.Record, key string) []string {
	items, _ := rec[key].([]any)
	var out []string
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func stringListToBulletItems(items []string) (out []pterm.BulletListItem) {
	for _, s := range items {
		out = append(out, pterm.BulletListItem{Level: 0, Text: s})
	}
	return out
}
