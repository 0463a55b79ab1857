// Copyright (c) 2025 Tag Sense
// Licensed under the MIT License. See LICENSE file in the project root for details.

package bridge

import (
	"context"

	"tagsense/cli/internal/backend"
	bridgeerrors "tagsense/cli/internal/errors"
	"tagsense/cli/internal/manifest"
)

// Invoke runs the operation with the given wire name, the way the UI layer
// calls commands by name. args holds the operation's fields as decoded from
// JSON; required fields must be strings (file_paths a list of strings).
//
// The returned value is the operation's result type: model.Status,
// model.FolderFiles, model.FolderResult, model.TagResult, model.BatchResult,
// model.SupportedTypes, model.Models, or string for prompts.
func (b *Bridge) Invoke(ctx context.Context, name string, args map[string]any) (any, error) {
	op, ok := manifest.Parse(name)
	if !ok {
		return nil, bridgeerrors.Newf(bridgeerrors.ValidationError, "unknown operation %q", name)
	}
	a := backend.Args(args)

	var (
		res any
		err error
	)
	switch op {
	case manifest.CheckInferenceStatus:
		return b.CheckInferenceStatus(ctx), nil
	case manifest.CheckBackendStatus:
		return b.CheckBackendStatus(ctx), nil
	case manifest.ListFolderFiles:
		res, err = b.listFolderFiles(ctx, a)
	case manifest.ProcessFolderForTags:
		res, err = b.processFolder(ctx, a)
	case manifest.ProcessFileForTags:
		res, err = b.processFile(ctx, a)
	case manifest.ProcessFilesForTags:
		res, err = b.processFiles(ctx, a)
	case manifest.SendPrompt:
		res, err = b.sendPrompt(ctx, a)
	case manifest.ListSupportedTypes:
		res, err = b.ListSupportedTypes(ctx)
	case manifest.ListModels:
		res, err = b.ListModels(ctx)
	default:
		return nil, bridgeerrors.Newf(bridgeerrors.ValidationError, "unknown operation %q", name)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}
