// Copyright (c) 2025 Tag Sense
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"net/http"

	"github.com/pterm/pterm"

	"tagsense/cli/internal/manifest"
)

// New creates the HTTP transport for the services in m.
func New(m manifest.Manifest, client *http.Client, logger *pterm.Logger) API {
	return newHTTP(m, client, logger)
}
