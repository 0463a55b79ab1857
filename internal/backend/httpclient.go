// Copyright (c) 2025 Tag Sense
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pterm/pterm"

	bridgeerrors "tagsense/cli/internal/errors"
	"tagsense/cli/internal/httperrors"
	"tagsense/cli/internal/manifest"
)

// HTTP implements API over plain local HTTP.
// It holds no per-call state and is safe for concurrent use.
type HTTP struct {
	// manifest holds the base URL of each service
	manifest manifest.Manifest
	// client is shared by all calls; deadlines come from the operation table
	client *http.Client
	logger *pterm.Logger

	// timeouts replaces table timeouts in tests only
	timeouts map[manifest.Operation]time.Duration
}

// newHTTP creates a transport for the services in m.
// A nil client uses a fresh http.Client without its own timeout.
func newHTTP(m manifest.Manifest, client *http.Client, logger *pterm.Logger) *HTTP {
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
	}
	return &HTTP{manifest: m, client: client, logger: logger}
}

func (h *HTTP) timeoutFor(op manifest.Operation, ep manifest.Endpoint) time.Duration {
	if d, ok := h.timeouts[op]; ok {
		return d
	}
	return ep.Timeout
}

// Send performs op with the given payload and returns the body of a 2xx
// reply. Every failure is an *errors.E: ConnectionFailure when no complete
// response arrived within the operation timeout, UpstreamError for any
// non-2xx status (the body is not read).
func (h *HTTP) Send(ctx context.Context, op manifest.Operation, payload map[string]any) ([]byte, error) {
	ep, ok := manifest.Lookup(op)
	if !ok {
		return nil, bridgeerrors.Newf(bridgeerrors.ValidationError, "unknown operation %q", op)
	}
	timeout := h.timeoutFor(op, ep)
	service := ep.Target.Display()
	url, _ := h.manifest.URL(op)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := NewRequest(ctx, h.manifest, op, payload)
	if err != nil {
		if bridgeerrors.KindOf(err) != "" {
			return nil, err
		}
		return nil, bridgeerrors.Wrap(bridgeerrors.ValidationError, "could not build request", err)
	}

	start := time.Now()
	h.logger.Debug("bridge request", h.logger.Args("operation", string(op), "method", ep.Method, "url", url, "timeout", timeout.String()))

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Debug("bridge transport failure", h.logger.Args("operation", string(op), "cause", httperrors.Classify(err).String(), "elapsed", time.Since(start).String()))
		return nil, bridgeerrors.Wrap(bridgeerrors.ConnectionFailure, httperrors.Describe(err, service, url, timeout), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		h.logger.Debug("bridge upstream error", h.logger.Args("operation", string(op), "status", resp.StatusCode, "elapsed", time.Since(start).String()))
		return nil, bridgeerrors.Upstream(resp.StatusCode, service)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, bridgeerrors.Wrap(bridgeerrors.ConnectionFailure, httperrors.Describe(err, service, url, timeout), err)
	}

	h.logger.Debug("bridge response", h.logger.Args("operation", string(op), "status", resp.StatusCode, "bytes", len(body), "elapsed", time.Since(start).String()))
	return body, nil
}
