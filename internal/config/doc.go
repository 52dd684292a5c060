// Package config loads, normalizes, and validates cinebo configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// CLI needs: data and output directories, point-of-sale import rules, venue
// identity for settlement reports, and poster rendering parameters.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
