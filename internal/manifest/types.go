// Copyright (c) 2025 Tag Sense
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package manifest describes every bridge operation in one table: which local
// service it targets, the endpoint path and HTTP method it uses, and how long
// it may run. Timeouts live here and nowhere else.
package manifest

import (
	"net/http"
	"sort"
	"strings"
	"time"
)

// Operation identifies one named bridge capability.
type Operation string

const (
	CheckInferenceStatus Operation = "check_ollama_status"
	CheckBackendStatus   Operation = "check_backend_status"
	ListFolderFiles      Operation = "get_folder_files"
	ProcessFolderForTags Operation = "process_folder_for_tags"
	ProcessFileForTags   Operation = "process_file_for_tags"
	SendPrompt           Operation = "send_prompt_to_tinyllama"
	ProcessFilesForTags  Operation = "process_files_for_tags"
	ListSupportedTypes   Operation = "get_supported_types"
	ListModels           Operation = "get_available_models"
)

// Target names one of the two local services.
type Target string

const (
	Inference Target = "inference"
	Backend   Target = "backend"
)

// Display returns the human name of the service for messages.
func (t Target) Display() string {
	switch t {
	case Inference:
		return "inference server"
	case Backend:
		return "backend"
	default:
		return string(t)
	}
}

const (
	// DefaultInferenceURL is where Ollama listens by default.
	DefaultInferenceURL = "http://127.0.0.1:11434"
	// DefaultBackendURL is where the tagging API listens by default.
	DefaultBackendURL = "http://127.0.0.1:5000"
)

// Endpoint is the fixed wiring of one operation.
type Endpoint struct {
	Target  Target
	Method  string
	Path    string
	Timeout time.Duration
}

// HasBody reports whether requests for this endpoint carry a JSON body.
func (e Endpoint) HasBody() bool { return e.Method != http.MethodGet }

var endpoints = map[Operation]Endpoint{
	CheckInferenceStatus: {Target: Inference, Method: http.MethodGet, Path: "/api/tags", Timeout: 5 * time.Second},
	SendPrompt:           {Target: Inference, Method: http.MethodPost, Path: "/api/generate", Timeout: 30 * time.Second},

	CheckBackendStatus:   {Target: Backend, Method: http.MethodGet, Path: "/api/health", Timeout: 5 * time.Second},
	ListSupportedTypes:   {Target: Backend, Method: http.MethodGet, Path: "/api/supported-types", Timeout: 5 * time.Second},
	ListModels:           {Target: Backend, Method: http.MethodGet, Path: "/api/models", Timeout: 10 * time.Second},
	ListFolderFiles:      {Target: Backend, Method: http.MethodPost, Path: "/api/get-folder-files", Timeout: 30 * time.Second},
	ProcessFileForTags:   {Target: Backend, Method: http.MethodPost, Path: "/api/process-file", Timeout: 6 * time.Minute},
	ProcessFolderForTags: {Target: Backend, Method: http.MethodPost, Path: "/api/process-folder", Timeout: 10 * time.Minute},
	ProcessFilesForTags:  {Target: Backend, Method: http.MethodPost, Path: "/api/process-files", Timeout: 10 * time.Minute},
}

// Lookup returns the endpoint for op.
func Lookup(op Operation) (Endpoint, bool) {
	e, ok := endpoints[op]
	return e, ok
}

// Parse resolves a wire name such as "process_file_for_tags" to an Operation.
// Hyphens are accepted in place of underscores.
func Parse(name string) (Operation, bool) {
	op := Operation(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_"))
	_, ok := endpoints[op]
	return op, ok
}

// Operations returns every known operation sorted by wire name.
func Operations() []Operation {
	ops := make([]Operation, 0, len(endpoints))
	for op := range endpoints {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

// IsStatusCheck reports whether op is a liveness probe.
func IsStatusCheck(op Operation) bool {
	return op == CheckInferenceStatus || op == CheckBackendStatus
}

// Manifest holds the base URL of each service.
type Manifest struct {
	InferenceURL string `json:"inference_url"`
	BackendURL   string `json:"backend_url"`
}

// Default returns the fixed local addresses.
func Default() Manifest {
	return Manifest{InferenceURL: DefaultInferenceURL, BackendURL: DefaultBackendURL}
}

// BaseURL returns the base URL for t without a trailing slash.
func (m Manifest) BaseURL(t Target) string {
	var base string
	switch t {
	case Inference:
		base = m.InferenceURL
	case Backend:
		base = m.BackendURL
	}
	return strings.TrimRight(base, "/")
}

// URL returns the absolute request URL for op.
func (m Manifest) URL(op Operation) (string, bool) {
	e, ok := endpoints[op]
	if !ok {
		return "", false
	}
	return m.BaseURL(e.Target) + e.Path, true
}
