// Package config loads, normalizes, and validates mediaconv configuration.
//
// Conversion parameters (target format, compression, quality) are always
// supplied per-request and never live here; the config file only carries
// ambient settings: directories, external tool binaries, notification
// collaborators, logging, and watch-mode timing. Defaults are usable without
// any config file present.
//
// Always obtain settings through this package so downstream code receives
// expanded paths and validated values.
package config
