// Package config loads, normalizes, and validates vivosprep configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// VIVOSPREP_RAW_DIR. Environment variables may also be seeded from a dotenv
// file before loading. The Config type centralizes the corpus layout names,
// output knobs, and history database settings the CLI needs.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
