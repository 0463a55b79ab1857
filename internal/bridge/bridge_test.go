// Copyright (c) 2025 Tag Sense
// Licensed under the MIT License. See LICENSE file in the project root for details.

package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"

	"tagsense/cli/internal/bridge/model"
	bridgeerrors "tagsense/cli/internal/errors"
	"tagsense/cli/internal/manifest"
)

// newTestBridge serves every path from routes on one server playing both services.
func newTestBridge(t *testing.T, routes map[string]http.HandlerFunc) *Bridge {
	t.Helper()
	mux := http.NewServeMux()
	for path, h := range routes {
		mux.HandleFunc(path, h)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return New(WithManifest(manifest.Manifest{InferenceURL: srv.URL, BackendURL: srv.URL}), WithHTTPClient(srv.Client()))
}

func reply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func unreachableBridge(t *testing.T) *Bridge {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return New(WithManifest(manifest.Manifest{InferenceURL: url, BackendURL: url}))
}

func TestCheckBackendStatus(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantHealth model.Health
		wantMsg    string
	}{
		{name: "healthy", status: 200, body: `{"status": "running", "ollama_connected": true}`, wantHealth: model.Healthy},
		{name: "ollama down", status: 200, body: `{"ollama_connected": false}`, wantHealth: model.Degraded, wantMsg: "Ollama is not running"},
		{name: "flag missing", status: 200, body: `{"status": "running"}`, wantHealth: model.Degraded, wantMsg: "Ollama is not running"},
		{name: "flag wrong type", status: 200, body: `{"ollama_connected": "yes"}`, wantHealth: model.Degraded, wantMsg: "Ollama is not running"},
		{name: "unreadable body", status: 200, body: `<html>`, wantHealth: model.Degraded, wantMsg: "backend health reply unreadable"},
		{name: "server error", status: 500, body: `{"ollama_connected": true}`, wantHealth: model.Unreachable, wantMsg: "HTTP 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBridge(t, map[string]http.HandlerFunc{"/api/health": reply(tt.status, tt.body)})
			st := b.CheckBackendStatus(context.Background())
			if st.Health() != tt.wantHealth {
				t.Fatalf("Health() = %v, want %v", st.Health(), tt.wantHealth)
			}
			msg, ok := st.ErrorMessage()
			if tt.wantMsg == "" && ok {
				t.Errorf("ErrorMessage() = %q, want none", msg)
			}
			if tt.wantMsg != "" && !strings.Contains(msg, tt.wantMsg) {
				t.Errorf("ErrorMessage() = %q, want it to contain %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestBackendUpOllamaDownWireShape(t *testing.T) {
	b := newTestBridge(t, map[string]http.HandlerFunc{"/api/health": reply(200, `{"ollama_connected": false}`)})
	st := b.CheckBackendStatus(context.Background())

	if !st.Connected() || st.DependencyConnected() {
		t.Errorf("Connected() = %v, DependencyConnected() = %v; want true, false", st.Connected(), st.DependencyConnected())
	}
	raw, err := json.Marshal(st)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	_ = json.Unmarshal(raw, &got)
	if got["connected"] != true || got["dependencyConnected"] != false {
		t.Errorf("wire = %s", raw)
	}
	if msg, _ := got["errorMessage"].(string); !strings.HasPrefix(msg, "Ollama is not running") {
		t.Errorf("errorMessage = %q", msg)
	}
}

func TestCheckInferenceStatus(t *testing.T) {
	b := newTestBridge(t, map[string]http.HandlerFunc{"/api/tags": reply(200, `{"models": []}`)})
	if st := b.CheckInferenceStatus(context.Background()); st.Health() != model.Healthy {
		t.Errorf("Health() = %v, want healthy", st.Health())
	}

	st := unreachableBridge(t).CheckInferenceStatus(context.Background())
	if st.Connected() || st.DependencyConnected() {
		t.Errorf("unreachable server reported connected=%v dependency=%v", st.Connected(), st.DependencyConnected())
	}
	if msg, ok := st.ErrorMessage(); !ok || !strings.Contains(msg, "refused") {
		t.Errorf("ErrorMessage() = %q, %v; want a refused-connection message", msg, ok)
	}
	raw, _ := json.Marshal(st)
	if !strings.Contains(string(raw), `"connected":false`) || !strings.Contains(string(raw), `"dependencyConnected":false`) {
		t.Errorf("wire = %s", raw)
	}
}

func TestCheckServicesOneDown(t *testing.T) {
	b := newTestBridge(t, map[string]http.HandlerFunc{
		"/api/tags":   reply(503, ``),
		"/api/health": reply(200, `{"ollama_connected": false}`),
	})
	got := b.CheckServices(context.Background())
	if got.Inference.Health() != model.Unreachable {
		t.Errorf("Inference = %v, want unreachable", got.Inference.Health())
	}
	if got.Backend.Health() != model.Degraded {
		t.Errorf("Backend = %v, want degraded", got.Backend.Health())
	}
}

func TestProcessFileForTags(t *testing.T) {
	tests := []struct {
		name string
		body string
		want model.TagResult
	}{
		{
			name: "full reply",
			body: `{"success": true, "tags": ["finance", "invoice"], "error": null, "file_type": "pdf", "model_used": "tinyllama", "filename": "a.pdf", "path": "/d/a.pdf", "text_preview": "..."}`,
			want: model.TagResult{Success: true, Tags: []string{"finance", "invoice"}, FileType: ptr("pdf"), ModelUsed: ptr("tinyllama"), Filename: ptr("a.pdf"), Path: ptr("/d/a.pdf")},
		},
		{
			name: "empty object",
			body: `{}`,
			want: model.TagResult{Tags: []string{}},
		},
		{
			name: "mixed tag types",
			body: `{"success": true, "tags": ["a", 3, "b", null, {"x": 1}, true]}`,
			want: model.TagResult{Success: true, Tags: []string{"a", "b"}},
		},
		{
			name: "wrong field types",
			body: `{"success": "true", "tags": "a,b", "error": 5, "file_type": ["txt"]}`,
			want: model.TagResult{Tags: []string{}},
		},
		{
			name: "backend reported failure",
			body: `{"success": false, "error": "Unsupported file type: .exe", "tags": []}`,
			want: model.TagResult{Tags: []string{}, Error: ptr("Unsupported file type: .exe")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBridge(t, map[string]http.HandlerFunc{"/api/process-file": reply(200, tt.body)})
			got, err := b.ProcessFileForTags(context.Background(), "/d/a.pdf", "")
			if err != nil {
				t.Fatalf("ProcessFileForTags() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ProcessFileForTags() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTagResultMissingTagsMarshalsEmptyList(t *testing.T) {
	b := newTestBridge(t, map[string]http.HandlerFunc{"/api/process-file": reply(200, `{"filename": "a.txt"}`)})
	got, err := b.ProcessFileForTags(context.Background(), "/a.txt", "")
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := json.Marshal(got)
	if !strings.Contains(string(raw), `"tags":[]`) || !strings.Contains(string(raw), `"success":false`) {
		t.Errorf("wire = %s", raw)
	}
	if strings.Contains(string(raw), "modelUsed") {
		t.Errorf("absent modelUsed should be omitted: %s", raw)
	}
}

func TestProcessFileSendsTrimmedContext(t *testing.T) {
	var seen []map[string]any
	var mu sync.Mutex
	b := newTestBridge(t, map[string]http.HandlerFunc{"/api/process-file": func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		seen = append(seen, body)
		mu.Unlock()
		_, _ = w.Write([]byte(`{"success": true, "tags": []}`))
	}})

	for _, c := range []string{"   ", "  tax documents "} {
		if _, err := b.ProcessFileForTags(context.Background(), "/a.txt", c); err != nil {
			t.Fatal(err)
		}
	}
	if _, ok := seen[0]["context"]; ok {
		t.Errorf("blank context was sent: %v", seen[0])
	}
	if seen[1]["context"] != "tax documents" {
		t.Errorf("context = %v, want %q", seen[1]["context"], "tax documents")
	}
}

func TestProcessFolderForTags(t *testing.T) {
	body := `{
		"success": true,
		"folder_path": "/docs",
		"message": "Processed 2 files",
		"results": [{"filename": "a.txt", "tags": ["x"]}, "junk", 4, {"filename": "b.md"}],
		"summary": {"total": 2, "processed": 2, "errors": 0}
	}`
	b := newTestBridge(t, map[string]http.HandlerFunc{"/api/process-folder": reply(200, body)})
	got, err := b.ProcessFolderForTags(context.Background(), "/docs")
	if err != nil {
		t.Fatalf("ProcessFolderForTags() error = %v", err)
	}
	if !got.Success || *got.FolderPath != "/docs" || *got.Message != "Processed 2 files" {
		t.Errorf("got %+v", got)
	}
	if len(got.Results) != 2 || got.Results[0]["filename"] != "a.txt" || got.Results[1]["filename"] != "b.md" {
		t.Errorf("Results = %v", got.Results)
	}
	if got.Summary["total"] != float64(2) {
		t.Errorf("Summary = %v", got.Summary)
	}

	b = newTestBridge(t, map[string]http.HandlerFunc{"/api/process-folder": reply(200, `{"success": false}`)})
	got, err = b.ProcessFolderForTags(context.Background(), "/docs")
	if err != nil {
		t.Fatal(err)
	}
	if got.Results == nil || len(got.Results) != 0 || got.Summary != nil || got.FolderPath != nil {
		t.Errorf("defaults = %+v", got)
	}
	raw, _ := json.Marshal(got)
	if !strings.Contains(string(raw), `"results":[]`) || !strings.Contains(string(raw), `"summary":null`) {
		t.Errorf("wire = %s", raw)
	}
}

func TestListFolderFiles(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantFiles []string
		wantCount int
	}{
		{name: "with count", body: `{"success": true, "files": ["/a.txt", "/b.md"], "count": 2}`, wantFiles: []string{"/a.txt", "/b.md"}, wantCount: 2},
		{name: "count defaults to files", body: `{"success": true, "files": ["/a.txt", 1]}`, wantFiles: []string{"/a.txt"}, wantCount: 1},
		{name: "fractional count ignored", body: `{"files": [], "count": 1.5}`, wantFiles: []string{}, wantCount: 0},
		{name: "oversized count ignored", body: `{"files": ["/a"], "count": 1e300}`, wantFiles: []string{"/a"}, wantCount: 1},
		{name: "count at int64 bound ignored", body: `{"files": ["/a"], "count": 9223372036854775808}`, wantFiles: []string{"/a"}, wantCount: 1},
		{name: "negative oversized count ignored", body: `{"files": ["/a", "/b"], "count": -1e300}`, wantFiles: []string{"/a", "/b"}, wantCount: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBridge(t, map[string]http.HandlerFunc{"/api/get-folder-files": reply(200, tt.body)})
			got, err := b.ListFolderFiles(context.Background(), "/docs")
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got.Files, tt.wantFiles) || got.Count != tt.wantCount {
				t.Errorf("got files %v count %d, want %v %d", got.Files, got.Count, tt.wantFiles, tt.wantCount)
			}
		})
	}
}

func TestProcessFilesForTags(t *testing.T) {
	body := `{"results": [
		{"filename": "a.txt", "success": true, "tags": ["one", 2, "three"]},
		"bad",
		{"filename": "gone.txt", "success": false, "error": "File not found", "tags": []}
	]}`
	b := newTestBridge(t, map[string]http.HandlerFunc{"/api/process-files": reply(200, body)})
	got, err := b.ProcessFilesForTags(context.Background(), []string{"/a.txt", "/gone.txt"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Results) != 2 {
		t.Fatalf("Results = %+v", got.Results)
	}
	if !reflect.DeepEqual(got.Results[0].Tags, []string{"one", "three"}) {
		t.Errorf("Results[0].Tags = %v", got.Results[0].Tags)
	}
	if got.Results[1].Success || got.Results[1].Error == nil || *got.Results[1].Error != "File not found" {
		t.Errorf("Results[1] = %+v", got.Results[1])
	}
}

func TestSendPrompt(t *testing.T) {
	var body map[string]any
	b := newTestBridge(t, map[string]http.HandlerFunc{"/api/generate": func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"model": "tinyllama", "response": "2 + 2 = 4", "done": true}`))
	}})
	got, err := b.SendPrompt(context.Background(), "Hello! What is 2 + 2?")
	if err != nil {
		t.Fatal(err)
	}
	if got != "2 + 2 = 4" {
		t.Errorf("SendPrompt() = %q", got)
	}
	if body["model"] != "tinyllama" || body["stream"] != false {
		t.Errorf("payload = %v", body)
	}

	b = newTestBridge(t, map[string]http.HandlerFunc{"/api/generate": reply(200, `{"done": true}`)})
	if _, err := b.SendPrompt(context.Background(), "hi"); !bridgeerrors.HasKind(err, bridgeerrors.MalformedResponse) {
		t.Errorf("missing response: err = %v, want malformed_response", err)
	}
}

func TestSupportedTypesAndModels(t *testing.T) {
	b := newTestBridge(t, map[string]http.HandlerFunc{
		"/api/supported-types": reply(200, `{"text_extensions": [".txt", ".md"], "all_extensions": [".txt", ".md", ".png"]}`),
		"/api/models":          reply(200, `{"available_models": ["tinyllama:latest", 7], "tinyllama_available": true}`),
	})
	types, err := b.ListSupportedTypes(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(types.TextExtensions) != 2 || len(types.ImageExtensions) != 0 || types.ImageExtensions == nil || len(types.AllExtensions) != 3 {
		t.Errorf("types = %+v", types)
	}
	models, err := b.ListModels(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(models.AvailableModels, []string{"tinyllama:latest"}) || !models.TinyllamaAvailable || models.VisionAvailable {
		t.Errorf("models = %+v", models)
	}
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantKind   bridgeerrors.Kind
		wantStatus int
	}{
		{name: "500 with json body", handler: reply(500, `{"success": false, "tags": []}`), wantKind: bridgeerrors.UpstreamError, wantStatus: 500},
		{name: "404 with text body", handler: reply(404, `File not found`), wantKind: bridgeerrors.UpstreamError, wantStatus: 404},
		{name: "invalid json", handler: reply(200, `{"success": tru`), wantKind: bridgeerrors.MalformedResponse},
		{name: "top-level array", handler: reply(200, `["a"]`), wantKind: bridgeerrors.MalformedResponse},
		{name: "empty body", handler: reply(200, ``), wantKind: bridgeerrors.MalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBridge(t, map[string]http.HandlerFunc{"/api/process-file": tt.handler})
			got, err := b.ProcessFileForTags(context.Background(), "/a.txt", "ctx")
			if got.Tags != nil || got.Success {
				t.Errorf("result surfaced alongside error: %+v", got)
			}
			if k := bridgeerrors.KindOf(err); k != tt.wantKind {
				t.Fatalf("KindOf(err) = %q, want %q (err %v)", k, tt.wantKind, err)
			}
			if s := bridgeerrors.StatusOf(err); s != tt.wantStatus {
				t.Errorf("StatusOf(err) = %d, want %d", s, tt.wantStatus)
			}
		})
	}

	_, err := unreachableBridge(t).ProcessFolderForTags(context.Background(), "/docs")
	if !bridgeerrors.HasKind(err, bridgeerrors.ConnectionFailure) {
		t.Errorf("unreachable backend: err = %v, want connection_failure", err)
	}
}

func TestValidationNeverCallsOut(t *testing.T) {
	called := false
	b := newTestBridge(t, map[string]http.HandlerFunc{"/": func(w http.ResponseWriter, r *http.Request) { called = true }})

	_, err := b.ProcessFolderForTags(context.Background(), "  ")
	if !bridgeerrors.HasKind(err, bridgeerrors.ValidationError) {
		t.Errorf("blank folder: err = %v", err)
	}
	_, err = b.SendPrompt(context.Background(), "")
	if !bridgeerrors.HasKind(err, bridgeerrors.ValidationError) {
		t.Errorf("empty prompt: err = %v", err)
	}
	if called {
		t.Error("a request was sent for invalid input")
	}
}

func ptr(s string) *string { return &s }
