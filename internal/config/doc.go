// Package config loads, normalizes, and validates butler configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads an optional TOML file, and applies environment overrides
// such as R2_ACCESS_KEY_ID. Environment variables remain the source of record
// for remote-store credentials; the file exists for paths, limits, and log
// settings. Missing required credentials fail validation before any pipeline
// work begins.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
