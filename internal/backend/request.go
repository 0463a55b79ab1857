// Copyright (c) 2025 Tag Sense
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	bridgeerrors "tagsense/cli/internal/errors"
	"tagsense/cli/internal/manifest"
)

// Args is the caller-supplied argument map of one operation, keyed by the
// wire field name (folder_path, file_path, context, prompt, file_paths).
type Args map[string]any

// DefaultModel is the completion model used when none is configured.
const DefaultModel = "tinyllama"

// Builder shapes caller arguments into request payloads.
type Builder struct {
	// Model is sent as the "model" field of prompt completions.
	Model string
}

// Payload returns the JSON body for op, or nil for bodiless operations.
// Required string arguments must be present and non-blank; optional
// arguments that are blank after trimming are left out of the body.
func (b Builder) Payload(op manifest.Operation, args Args) (map[string]any, error) {
	switch op {
	case manifest.ListFolderFiles, manifest.ProcessFolderForTags:
		folder, err := requiredString(args, "folder_path")
		if err != nil {
			return nil, err
		}
		return map[string]any{"folder_path": folder}, nil

	case manifest.ProcessFileForTags:
		file, err := requiredString(args, "file_path")
		if err != nil {
			return nil, err
		}
		body := map[string]any{"file_path": file}
		c, send, err := optionalString(args, "context")
		if err != nil {
			return nil, err
		}
		if send {
			body["context"] = c
		}
		return body, nil

	case manifest.ProcessFilesForTags:
		files, err := requiredStrings(args, "file_paths")
		if err != nil {
			return nil, err
		}
		return map[string]any{"file_paths": files}, nil

	case manifest.SendPrompt:
		prompt, err := requiredString(args, "prompt")
		if err != nil {
			return nil, err
		}
		model := strings.TrimSpace(b.Model)
		if model == "" {
			model = DefaultModel
		}
		return map[string]any{"model": model, "prompt": prompt, "stream": false}, nil

	case manifest.CheckInferenceStatus, manifest.CheckBackendStatus,
		manifest.ListSupportedTypes, manifest.ListModels:
		return nil, nil
	}
	return nil, bridgeerrors.Newf(bridgeerrors.ValidationError, "unknown operation %q", op)
}

// NewRequest builds the HTTP request for op against the service addresses in m.
func NewRequest(ctx context.Context, m manifest.Manifest, op manifest.Operation, payload map[string]any) (*http.Request, error) {
	ep, ok := manifest.Lookup(op)
	if !ok {
		return nil, bridgeerrors.Newf(bridgeerrors.ValidationError, "unknown operation %q", op)
	}
	url, _ := m.URL(op)

	if !ep.HasBody() {
		return http.NewRequestWithContext(ctx, ep.Method, url, nil)
	}

	buf := new(bytes.Buffer)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if payload == nil {
		payload = map[string]any{}
	}
	if err := enc.Encode(payload); err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, ep.Method, url, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func requiredString(args Args, key string) (string, error) {
	v, present := args[key]
	if !present || v == nil {
		return "", bridgeerrors.Newf(bridgeerrors.ValidationError, "%s is required", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", bridgeerrors.Newf(bridgeerrors.ValidationError, "%s must be a string, got %T", key, v)
	}
	if strings.TrimSpace(s) == "" {
		return "", bridgeerrors.Newf(bridgeerrors.ValidationError, "%s must not be empty", key)
	}
	return s, nil
}

// optionalString returns the trimmed value of key and whether it should be sent.
func optionalString(args Args, key string) (string, bool, error) {
	v := args[key]
	if v == nil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, bridgeerrors.Newf(bridgeerrors.ValidationError, "%s must be a string, got %T", key, v)
	}
	s = strings.TrimSpace(s)
	return s, s != "", nil
}

func requiredStrings(args Args, key string) ([]string, error) {
	v, present := args[key]
	if !present || v == nil {
		return nil, bridgeerrors.Newf(bridgeerrors.ValidationError, "%s is required", key)
	}

	var items []any
	switch vv := v.(type) {
	case []string:
		for _, s := range vv {
			items = append(items, s)
		}
	case []any:
		items = vv
	default:
		return nil, bridgeerrors.Newf(bridgeerrors.ValidationError, "%s must be a list of strings, got %T", key, v)
	}
	if len(items) == 0 {
		return nil, bridgeerrors.Newf(bridgeerrors.ValidationError, "%s must not be empty", key)
	}

	out := make([]string, 0, len(items))
	for i, it := range items {
		s, ok := it.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, bridgeerrors.Newf(bridgeerrors.ValidationError, "%s[%d] must be a non-empty string", key, i)
		}
		out = append(out, s)
	}
	return out, nil
}
