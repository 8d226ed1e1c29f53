// Package config loads, normalizes, and validates TechSprint configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks. The Config
// type centralizes every knob the CLI and caption engine need: workspace
// directories, render profile selection, caption timing overrides, QC
// thresholds, and log output settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical modes, and clear validation errors.
package config
