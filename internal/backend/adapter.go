// Copyright (c) 2025 Tag Sense
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend builds and sends the HTTP requests behind every bridge
// operation. It knows how each operation's arguments become a request body
// and how a failed exchange maps onto the bridge error kinds; it does not
// interpret reply bodies.
package backend

import (
	"context"

	"tagsense/cli/internal/manifest"
)

// API sends one operation to its service.
// Implementations may call the real local services or provide mocks for tests.
type API interface {
	// Send performs op and returns the raw body of a 2xx reply.
	Send(ctx context.Context, op manifest.Operation, payload map[string]any) ([]byte, error)
}
