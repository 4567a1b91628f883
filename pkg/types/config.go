// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// StoreConfig holds settings for the reference job store.
// Per prd014-store R1.1-R1.2.
type StoreConfig struct {
	// JobsDir is the base directory for job databases (contains jobs.db).
	JobsDir string `json:"jobs_dir" yaml:"jobs_dir"`
}

// DedupeConfig holds settings for the duplicate grouping stage.
type DedupeConfig struct {
	// MinConfidence is the confidence floor below which a member can
	// never be elected canonical over a scored rival (default 0, off).
	MinConfidence int `json:"min_confidence" yaml:"min_confidence"`
}

// ExportConfig holds settings for the export stage.
// Per prd013-export R5.1-R5.2.
type ExportConfig struct {
	// OutputDir is the directory for exported files (default "output").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Basename is the suggested filename stem (default "references").
	Basename string `json:"basename" yaml:"basename"`

	// Style is the citation style used for text-based exports.
	Style CitationStyle `json:"style" yaml:"style"`
}

// EngineConfig groups all stage configurations.
type EngineConfig struct {
	Store  StoreConfig  `json:"store" yaml:"store"`
	Dedupe DedupeConfig `json:"dedupe" yaml:"dedupe"`
	Export ExportConfig `json:"export" yaml:"export"`
}
