package config

import "errors"

var (
	// ErrParsingConfig is returned when the environment cannot be parsed into the config struct.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrReadEnvFile is returned when a .env file cannot be read.
	ErrReadEnvFile = errors.New("failed to read env file")

	// ErrNilPointer is returned when a nil pointer is provided to Into.
	ErrNilPointer = errors.New("nil pointer provided to config loader")
)
