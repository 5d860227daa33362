// Package config resolves the active settings profile (development, production,
// testing) and layers overrides from a YAML file, environment variables (with an
// optional .env file) and CLI flags on top of it, with precedence: CLI flags >
// Environment variables > YAML config > Profile defaults.
package config
