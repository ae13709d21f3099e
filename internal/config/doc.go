// Package config loads and validates the configuration of the answers core
// from environment variables (KITTENS_ prefix), an optional config.yaml and an
// optional .env file.
package config
