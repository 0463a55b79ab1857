// Copyright (c) 2025 Tag Sense
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package bridge is the command bridge between the desktop UI and the two
// local services: the Ollama inference server and the tagging backend.
// Each operation builds one HTTP request, runs it under the operation's fixed
// timeout and turns the reply into a typed result.
//
// Every operation returns either a result or an *errors.E, never both.
// Status checks are the exception to the error path: a service that cannot
// be reached is itself a status, so they always return a model.Status.
//
// A Bridge holds no mutable state and may be used from many goroutines.
package bridge

import (
	"context"
	"net/http"
	"time"

	"github.com/pterm/pterm"
	"golang.org/x/sync/errgroup"

	"tagsense/cli/internal/backend"
	"tagsense/cli/internal/bridge/model"
	bridgeerrors "tagsense/cli/internal/errors"
	"tagsense/cli/internal/manifest"
)

// statusRetryDelay is the pause between status check attempts.
const statusRetryDelay = 250 * time.Millisecond

// Bridge runs operations against the local services.
type Bridge struct {
	api           backend.API
	builder       backend.Builder
	logger        *pterm.Logger
	statusRetries int
}

type options struct {
	manifest      manifest.Manifest
	client        *http.Client
	logger        *pterm.Logger
	model         string
	statusRetries int
	api           backend.API
}

// Option configures a Bridge.
type Option func(*options)

// WithManifest overrides the service base URLs.
func WithManifest(m manifest.Manifest) Option { return func(o *options) { o.manifest = m } }

// WithHTTPClient sets the HTTP client used for every call.
func WithHTTPClient(c *http.Client) Option { return func(o *options) { o.client = c } }

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *pterm.Logger) Option { return func(o *options) { o.logger = l } }

// WithModel sets the completion model for SendPrompt.
func WithModel(name string) Option { return func(o *options) { o.model = name } }

// WithStatusRetries retries status checks up to n extra times after a
// connection failure. Other operations are never retried.
func WithStatusRetries(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.statusRetries = n
		}
	}
}

// WithAPI replaces the HTTP transport, e.g. with a test double.
func WithAPI(api backend.API) Option { return func(o *options) { o.api = api } }

// New creates a Bridge for the default local addresses unless overridden.
func New(opts ...Option) *Bridge {
	o := options{manifest: manifest.Default(), model: backend.DefaultModel}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
	}
	if o.api == nil {
		o.api = backend.New(o.manifest, o.client, o.logger)
	}
	return &Bridge{
		api:           o.api,
		builder:       backend.Builder{Model: o.model},
		logger:        o.logger,
		statusRetries: o.statusRetries,
	}
}

// call runs Build → Send → Parse for op.
func (b *Bridge) call(ctx context.Context, op manifest.Operation, args backend.Args) (RawReply, error) {
	payload, err := b.builder.Payload(op, args)
	if err != nil {
		return nil, err
	}
	body, err := b.api.Send(ctx, op, payload)
	if err != nil {
		return nil, err
	}
	return parseReply(body)
}

// probe sends a status check, retrying connection failures when configured.
func (b *Bridge) probe(ctx context.Context, op manifest.Operation) ([]byte, error) {
	var (
		body []byte
		err  error
	)
	for attempt := 0; ; attempt++ {
		body, err = b.api.Send(ctx, op, nil)
		if err == nil || !bridgeerrors.HasKind(err, bridgeerrors.ConnectionFailure) || attempt >= b.statusRetries {
			return body, err
		}
		b.logger.Debug("retrying status check", b.logger.Args("operation", string(op), "attempt", attempt+1))
		select {
		case <-ctx.Done():
			return nil, err
		case <-time.After(statusRetryDelay):
		}
	}
}

// CheckInferenceStatus probes the inference server. The server has no
// dependency of its own, so a 2xx answer is Healthy.
func (b *Bridge) CheckInferenceStatus(ctx context.Context) model.Status {
	if _, err := b.probe(ctx, manifest.CheckInferenceStatus); err != nil {
		return model.UnreachableStatus(bridgeerrors.Message(err))
	}
	return model.HealthyStatus()
}

// CheckBackendStatus probes the backend and reads whether the backend itself
// can reach the inference server.
func (b *Bridge) CheckBackendStatus(ctx context.Context) model.Status {
	body, err := b.probe(ctx, manifest.CheckBackendStatus)
	if err != nil {
		return model.UnreachableStatus(bridgeerrors.Message(err))
	}
	raw, err := parseReply(body)
	if err != nil {
		b.logger.Warn("backend health reply unreadable", b.logger.Args("error", err.Error()))
		return model.DegradedStatus("backend health reply unreadable: " + bridgeerrors.Message(err))
	}
	st := backendStatus(raw)
	if st.Health() == model.Degraded {
		b.logger.Warn("backend is up but cannot reach ollama")
	}
	return st
}

// CheckServices checks both services concurrently.
func (b *Bridge) CheckServices(ctx context.Context) model.Services {
	var (
		out model.Services
		g   errgroup.Group
	)
	g.Go(func() error { out.Inference = b.CheckInferenceStatus(ctx); return nil })
	g.Go(func() error { out.Backend = b.CheckBackendStatus(ctx); return nil })
	_ = g.Wait()
	return out
}

// ListFolderFiles lists the files in folderPath the backend can tag.
func (b *Bridge) ListFolderFiles(ctx context.Context, folderPath string) (model.FolderFiles, error) {
	return b.listFolderFiles(ctx, backend.Args{"folder_path": folderPath})
}

func (b *Bridge) listFolderFiles(ctx context.Context, args backend.Args) (model.FolderFiles, error) {
	raw, err := b.call(ctx, manifest.ListFolderFiles, args)
	if err != nil {
		return model.FolderFiles{}, err
	}
	return normalizeFolderFiles(raw), nil
}

// ProcessFolderForTags tags every supported file in folderPath.
// This may take minutes; the operation timeout is ten.
func (b *Bridge) ProcessFolderForTags(ctx context.Context, folderPath string) (model.FolderResult, error) {
	return b.processFolder(ctx, backend.Args{"folder_path": folderPath})
}

func (b *Bridge) processFolder(ctx context.Context, args backend.Args) (model.FolderResult, error) {
	raw, err := b.call(ctx, manifest.ProcessFolderForTags, args)
	if err != nil {
		return model.FolderResult{}, err
	}
	return normalizeFolder(raw), nil
}

// ProcessFileForTags tags one file. userContext is an optional hint for the
// model; a blank value is not sent.
func (b *Bridge) ProcessFileForTags(ctx context.Context, filePath, userContext string) (model.TagResult, error) {
	return b.processFile(ctx, backend.Args{"file_path": filePath, "context": userContext})
}

func (b *Bridge) processFile(ctx context.Context, args backend.Args) (model.TagResult, error) {
	raw, err := b.call(ctx, manifest.ProcessFileForTags, args)
	if err != nil {
		return model.TagResult{}, err
	}
	return normalizeTag(raw), nil
}

// ProcessFilesForTags tags an explicit list of files in one backend call.
func (b *Bridge) ProcessFilesForTags(ctx context.Context, filePaths []string) (model.BatchResult, error) {
	return b.processFiles(ctx, backend.Args{"file_paths": filePaths})
}

func (b *Bridge) processFiles(ctx context.Context, args backend.Args) (model.BatchResult, error) {
	raw, err := b.call(ctx, manifest.ProcessFilesForTags, args)
	if err != nil {
		return model.BatchResult{}, err
	}
	return normalizeBatch(raw), nil
}

// SendPrompt asks the inference server for a completion of prompt.
func (b *Bridge) SendPrompt(ctx context.Context, prompt string) (string, error) {
	return b.sendPrompt(ctx, backend.Args{"prompt": prompt})
}

func (b *Bridge) sendPrompt(ctx context.Context, args backend.Args) (string, error) {
	raw, err := b.call(ctx, manifest.SendPrompt, args)
	if err != nil {
		return "", err
	}
	return normalizePrompt(raw)
}

// ListSupportedTypes returns the file extensions the backend can tag.
func (b *Bridge) ListSupportedTypes(ctx context.Context) (model.SupportedTypes, error) {
	raw, err := b.call(ctx, manifest.ListSupportedTypes, nil)
	if err != nil {
		return model.SupportedTypes{}, err
	}
	return normalizeSupportedTypes(raw), nil
}

// ListModels returns the models installed on the inference server, as seen
// by the backend.
func (b *Bridge) ListModels(ctx context.Context) (model.Models, error) {
	raw, err := b.call(ctx, manifest.ListModels, nil)
	if err != nil {
		return model.Models{}, err
	}
	return normalizeModels(raw), nil
}
