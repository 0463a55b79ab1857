// Copyright (c) 2025 Tag Sense
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	bridgeerrors "tagsense/cli/internal/errors"
	"tagsense/cli/internal/manifest"
)

func TestPayloadContext(t *testing.T) {
	tests := []struct {
		name        string
		context     any
		wantContext string
		wantPresent bool
	}{
		{name: "absent", context: nil, wantPresent: false},
		{name: "empty", context: "", wantPresent: false},
		{name: "whitespace only", context: " \t\n ", wantPresent: false},
		{name: "trimmed", context: "  invoices from 2024  ", wantContext: "invoices from 2024", wantPresent: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := Args{"file_path": "/tmp/a.txt"}
			if tt.context != nil {
				args["context"] = tt.context
			}
			body, err := Builder{}.Payload(manifest.ProcessFileForTags, args)
			if err != nil {
				t.Fatalf("Payload() error = %v", err)
			}
			got, present := body["context"]
			if present != tt.wantPresent {
				t.Fatalf("context present = %v, want %v (body %v)", present, tt.wantPresent, body)
			}
			if present && got != tt.wantContext {
				t.Errorf("context = %q, want %q", got, tt.wantContext)
			}
			if body["file_path"] != "/tmp/a.txt" {
				t.Errorf("file_path = %v, want /tmp/a.txt", body["file_path"])
			}
		})
	}
}

func TestPayloadValidation(t *testing.T) {
	tests := []struct {
		name string
		op   manifest.Operation
		args Args
	}{
		{name: "folder missing", op: manifest.ProcessFolderForTags, args: Args{}},
		{name: "folder null", op: manifest.ListFolderFiles, args: Args{"folder_path": nil}},
		{name: "folder blank", op: manifest.ListFolderFiles, args: Args{"folder_path": "   "}},
		{name: "folder not string", op: manifest.ProcessFolderForTags, args: Args{"folder_path": 7}},
		{name: "file missing", op: manifest.ProcessFileForTags, args: Args{"context": "x"}},
		{name: "context not string", op: manifest.ProcessFileForTags, args: Args{"file_path": "/a", "context": 42}},
		{name: "prompt empty", op: manifest.SendPrompt, args: Args{"prompt": ""}},
		{name: "file list empty", op: manifest.ProcessFilesForTags, args: Args{"file_paths": []any{}}},
		{name: "file list mixed", op: manifest.ProcessFilesForTags, args: Args{"file_paths": []any{"/a", 3}}},
		{name: "file list wrong type", op: manifest.ProcessFilesForTags, args: Args{"file_paths": "/a"}},
		{name: "unknown op", op: manifest.Operation("nope"), args: Args{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Builder{}.Payload(tt.op, tt.args)
			if got := bridgeerrors.KindOf(err); got != bridgeerrors.ValidationError {
				t.Errorf("KindOf(err) = %q, want %q (err %v)", got, bridgeerrors.ValidationError, err)
			}
		})
	}
}

func TestPayloadShapes(t *testing.T) {
	prompt, err := Builder{Model: "llama3"}.Payload(manifest.SendPrompt, Args{"prompt": "Hello! What is 2 + 2?"})
	if err != nil {
		t.Fatalf("Payload(SendPrompt) error = %v", err)
	}
	if prompt["model"] != "llama3" || prompt["prompt"] != "Hello! What is 2 + 2?" || prompt["stream"] != false {
		t.Errorf("prompt payload = %v", prompt)
	}

	prompt, _ = Builder{}.Payload(manifest.SendPrompt, Args{"prompt": "hi"})
	if prompt["model"] != DefaultModel {
		t.Errorf("default model = %v, want %s", prompt["model"], DefaultModel)
	}

	files, err := Builder{}.Payload(manifest.ProcessFilesForTags, Args{"file_paths": []string{"/a.txt", "/b.md"}})
	if err != nil {
		t.Fatalf("Payload(ProcessFilesForTags) error = %v", err)
	}
	if got := files["file_paths"].([]string); len(got) != 2 || got[0] != "/a.txt" || got[1] != "/b.md" {
		t.Errorf("file_paths = %v", got)
	}

	for _, op := range []manifest.Operation{manifest.CheckInferenceStatus, manifest.CheckBackendStatus, manifest.ListSupportedTypes, manifest.ListModels} {
		body, err := Builder{}.Payload(op, Args{"ignored": true})
		if err != nil || body != nil {
			t.Errorf("Payload(%s) = %v, %v; want nil, nil", op, body, err)
		}
	}
}

func TestNewRequest(t *testing.T) {
	m := manifest.Default()

	req, err := NewRequest(context.Background(), m, manifest.CheckBackendStatus, nil)
	if err != nil {
		t.Fatalf("NewRequest(GET) error = %v", err)
	}
	if req.Method != http.MethodGet || req.Body != nil {
		t.Errorf("GET request method = %s, body = %v; want GET with no body", req.Method, req.Body)
	}
	if got := req.URL.String(); got != "http://127.0.0.1:5000/api/health" {
		t.Errorf("URL = %s", got)
	}

	req, err = NewRequest(context.Background(), m, manifest.ProcessFolderForTags, map[string]any{"folder_path": "/docs/<q&a>"})
	if err != nil {
		t.Fatalf("NewRequest(POST) error = %v", err)
	}
	if req.Header.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", req.Header.Get("Content-Type"))
	}
	raw, _ := io.ReadAll(req.Body)
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if decoded["folder_path"] != "/docs/<q&a>" {
		t.Errorf("folder_path = %v", decoded["folder_path"])
	}
	if want := `{"folder_path":"/docs/<q&a>"}` + "\n"; string(raw) != want {
		t.Errorf("body = %q, want %q", raw, want)
	}
}
