// Package config loads, normalizes, and validates lipsync configuration data.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours environment fallbacks such as LIPSYNC_RECOGNIZER.
// Every knob the CLI needs lives on Config so the recognizer command, cache
// location and export defaults are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
