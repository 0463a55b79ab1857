// Copyright (c) 2025 Tag Sense
// Licensed under the MIT License. See LICENSE file in the project root for details.

package bridge

import (
	"tagsense/cli/internal/bridge/model"
	bridgeerrors "tagsense/cli/internal/errors"
)

// OllamaDownMessage explains a backend that is up while Ollama is not.
const OllamaDownMessage = "Ollama is not running. Start it with 'ollama serve' so the backend can generate tags."

func normalizeTag(r RawReply) model.TagResult {
	return model.TagResult{
		Success:   r.Bool("success"),
		Tags:      r.Strings("tags"),
		Error:     r.String("error"),
		FileType:  r.String("file_type"),
		ModelUsed: r.String("model_used"),
		Filename:  r.String("filename"),
		Path:      r.String("path"),
	}
}

func normalizeFolder(r RawReply) model.FolderResult {
	return model.FolderResult{
		Success:    r.Bool("success"),
		Error:      r.String("error"),
		Results:    r.Records("results"),
		Summary:    r.Record("summary"),
		FolderPath: r.String("folder_path"),
		Message:    r.String("message"),
	}
}

func normalizeFolderFiles(r RawReply) model.FolderFiles {
	files := r.Strings("files")
	return model.FolderFiles{
		Success: r.Bool("success"),
		Files:   files,
		Count:   r.Int("count", len(files)),
		Error:   r.String("error"),
	}
}

// normalizeBatch normalizes each element of "results" as a tag result.
func normalizeBatch(r RawReply) model.BatchResult {
	records := r.Records("results")
	out := model.BatchResult{Results: make([]model.TagResult, 0, len(records))}
	for _, rec := range records {
		out.Results = append(out.Results, normalizeTag(RawReply(rec)))
	}
	return out
}

func normalizeSupportedTypes(r RawReply) model.SupportedTypes {
	return model.SupportedTypes{
		TextExtensions:  r.Strings("text_extensions"),
		ImageExtensions: r.Strings("image_extensions"),
		AllExtensions:   r.Strings("all_extensions"),
	}
}

func normalizeModels(r RawReply) model.Models {
	return model.Models{
		AvailableModels:    r.Strings("available_models"),
		TinyllamaAvailable: r.Bool("tinyllama_available"),
		VisionAvailable:    r.Bool("vision_available"),
	}
}

// normalizePrompt extracts the completion text. Unlike the other results a
// prompt has no neutral default, so a missing "response" is an error.
func normalizePrompt(r RawReply) (string, error) {
	s := r.String("response")
	if s == nil {
		return "", bridgeerrors.New(bridgeerrors.MalformedResponse, "no response received from model")
	}
	return *s, nil
}

// backendStatus reads the nested inference reachability flag of a health reply.
func backendStatus(r RawReply) model.Status {
	if r.Bool("ollama_connected") {
		return model.HealthyStatus()
	}
	return model.DegradedStatus(OllamaDownMessage)
}
