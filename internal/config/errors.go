package config

import "errors"

var (
	// ErrNotFound is returned by Load when the configuration file does not exist.
	ErrNotFound = errors.New("configuration file not found")

	// ErrFormat is returned for a file extension other than .yaml, .yml or .toml.
	ErrFormat = errors.New("unsupported configuration format")

	// ErrInvalid wraps the field errors reported by Validate.
	ErrInvalid = errors.New("invalid configuration")
)
