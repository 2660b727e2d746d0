// Package config loads, normalizes, and validates reelfetch configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// INSTAGRAM_SESSION_ID. The Config type centralizes every knob the CLI
// needs: download and history locations, pacing and retry budgets, filter
// defaults, and platform credentials.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
