package config

import "time"

// File is the structure of the .proxyip YAML configuration file.
// Every field is optional; unset fields keep the value already in Config.
type File struct {
	// Ports overrides the probed port list.
	Ports []int `yaml:"ports,omitempty"`

	// Cache is the cache connection string.
	Cache string `yaml:"cache,omitempty"`

	// ProbeTimeout bounds each port probe, e.g. "2s".
	ProbeTimeout time.Duration `yaml:"probeTimeout,omitempty"`

	// LookupTimeout bounds each exit-list lookup, e.g. "5s".
	LookupTimeout time.Duration `yaml:"lookupTimeout,omitempty"`

	// ExitListZone overrides the Tor exit-list DNS zone.
	ExitListZone string `yaml:"exitListZone,omitempty"`

	// Batch is the number of concurrent checks in list mode.
	Batch int `yaml:"batch,omitempty"`

	// NegativeCacheTTL enables in-memory negative caching, e.g. "10m".
	NegativeCacheTTL time.Duration `yaml:"negativeCacheTTL,omitempty"`
}

// Apply copies every set field of f into cfg.
func (f *File) Apply(cfg *Config) {
	if f == nil {
		return
	}
	if len(f.Ports) > 0 {
		cfg.Ports = append([]int(nil), f.Ports...)
	}
	if f.Cache != "" {
		cfg.CacheURL = f.Cache
	}
	if f.ProbeTimeout != 0 {
		cfg.ProbeTimeout = f.ProbeTimeout
	}
	if f.LookupTimeout != 0 {
		cfg.LookupTimeout = f.LookupTimeout
	}
	if f.ExitListZone != "" {
		cfg.ExitListZone = f.ExitListZone
	}
	if f.Batch != 0 {
		cfg.BatchSize = f.Batch
	}
	if f.NegativeCacheTTL != 0 {
		cfg.NegativeCacheTTL = f.NegativeCacheTTL
	}
}
