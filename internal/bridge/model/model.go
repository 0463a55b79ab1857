// Copyright (c) 2025 Tag Sense
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package model defines the result values returned by bridge operations.
// Every type has a stable shape: list fields are never nil after
// normalization, optional strings are nil when the service did not send them.
//
// The JSON field names are the ones the desktop UI reads.
package model

// Record is an opaque JSON object passed through to the caller untouched.
type Record = map[string]any

// TagResult is the outcome of tagging one file.
type TagResult struct {
	Success   bool     `json:"success" yaml:"success"`
	Tags      []string `json:"tags" yaml:"tags"`
	Error     *string  `json:"error,omitempty" yaml:"error,omitempty"`
	FileType  *string  `json:"fileType,omitempty" yaml:"fileType,omitempty"`
	ModelUsed *string  `json:"modelUsed,omitempty" yaml:"modelUsed,omitempty"`
	Filename  *string  `json:"filename,omitempty" yaml:"filename,omitempty"`
	Path      *string  `json:"path,omitempty" yaml:"path,omitempty"`
}

// FolderResult is the outcome of tagging every supported file in a folder.
type FolderResult struct {
	Success    bool     `json:"success" yaml:"success"`
	Error      *string  `json:"error,omitempty" yaml:"error,omitempty"`
	Results    []Record `json:"results" yaml:"results"`
	Summary    Record   `json:"summary" yaml:"summary"`
	FolderPath *string  `json:"folderPath,omitempty" yaml:"folderPath,omitempty"`
	Message    *string  `json:"message,omitempty" yaml:"message,omitempty"`
}

// FolderFiles lists the supported files found in a folder.
type FolderFiles struct {
	Success bool     `json:"success" yaml:"success"`
	Files   []string `json:"files" yaml:"files"`
	Count   int      `json:"count" yaml:"count"`
	Error   *string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// BatchResult holds one TagResult per requested file, in reply order.
type BatchResult struct {
	Results []TagResult `json:"results" yaml:"results"`
}

// SupportedTypes lists the file extensions the backend can tag.
type SupportedTypes struct {
	TextExtensions  []string `json:"textExtensions" yaml:"textExtensions"`
	ImageExtensions []string `json:"imageExtensions" yaml:"imageExtensions"`
	AllExtensions   []string `json:"allExtensions" yaml:"allExtensions"`
}

// Models reports which models the inference server has installed.
type Models struct {
	AvailableModels    []string `json:"availableModels" yaml:"availableModels"`
	TinyllamaAvailable bool     `json:"tinyllamaAvailable" yaml:"tinyllamaAvailable"`
	VisionAvailable    bool     `json:"visionAvailable" yaml:"visionAvailable"`
}
