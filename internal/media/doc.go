// Package media classifies input files and enumerates legal conversion targets.
//
// Classification prefers the declared content type when the caller has one
// (file pickers usually do) and falls back to a fixed extension allow-list so
// files with unusual or missing metadata still gate the available actions
// correctly. The package also owns the fixed per-kind target format sets and
// the legacy-container check that routes AVI sources to the external tool.
//
// Keep format policy here; the orchestrator and CLI both depend on it and must
// agree on what is convertible.
package media
