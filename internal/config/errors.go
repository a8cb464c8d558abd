package config

import "errors"

// Configuration validation errors returned by Config.Validate and
// Config.ValidateTargets. Callers use errors.Is for programmatic handling.
var (
	// ErrNoTarget is returned when neither arguments nor --list provide an address.
	ErrNoTarget = errors.New("no target specified: provide an IP address or use --list")

	// ErrInvalidProbeTimeout is returned when the probe timeout is not positive.
	ErrInvalidProbeTimeout = errors.New("invalid probe timeout: must be positive")

	// ErrInvalidLookupTimeout is returned when the exit-list lookup timeout is not positive.
	ErrInvalidLookupTimeout = errors.New("invalid lookup timeout: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown are set.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidNegativeCacheTTL is returned when the negative cache TTL is negative.
	// Use 0 to disable negative caching.
	ErrInvalidNegativeCacheTTL = errors.New("invalid negative cache ttl: must be non-negative")

	// ErrNoCache is returned when no cache connection string is configured.
	ErrNoCache = errors.New("no cache configured: set --cache or cache in the config file")
)
