package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/proxyip/internal/ports"
	"github.com/nao1215/proxyip/internal/probe"
	"github.com/nao1215/proxyip/internal/tor"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "proxyip"

	// DefaultProbeTimeout bounds each TCP probe.
	DefaultProbeTimeout = probe.DefaultTimeout

	// DefaultLookupTimeout bounds each exit-list DNS lookup.
	DefaultLookupTimeout = tor.DefaultLookupTimeout

	// DefaultExitListZone is the DNS zone of the Tor exit list.
	DefaultExitListZone = tor.DefaultExitListZone

	// DefaultBatchSize is the number of addresses checked concurrently in list mode.
	// Each check already fans out one probe per port, so keep this modest.
	DefaultBatchSize = 10
)

// Config holds all configuration options for proxyip.
// It is populated from defaults, then the config file, then CLI flags, and
// passed through the application rather than kept in global state.
type Config struct {
	// Ports are the TCP ports probed on every address.
	// When empty, ports.Default() is used.
	Ports []int

	// CacheURL is the cache connection string (memory://, sqlite://dir, redis://...).
	CacheURL string

	// ProbeTimeout bounds connect plus write for each port probe.
	ProbeTimeout time.Duration

	// LookupTimeout bounds each exit-list DNS lookup.
	LookupTimeout time.Duration

	// ExitListZone is the DNS zone queried for Tor exit membership.
	ExitListZone string

	// BatchSize is the number of concurrent checks when processing many addresses.
	BatchSize int

	// NegativeCacheTTL remembers negative verdicts in memory for this long.
	// Zero disables negative caching.
	NegativeCacheTTL time.Duration

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is an explicit configuration file path.
	ConfigFilePath string

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile writes the report to a file instead of stdout.
	ReportFile string

	// Targets are the IP addresses to classify.
	Targets []string
}

// NewConfig creates a Config with default values.
// The default cache is an SQLite database in the XDG data directory.
func NewConfig() *Config {
	return &Config{
		CacheURL:      DefaultCacheURL(),
		ProbeTimeout:  DefaultProbeTimeout,
		LookupTimeout: DefaultLookupTimeout,
		ExitListZone:  DefaultExitListZone,
		BatchSize:     DefaultBatchSize,
	}
}

// DefaultCacheURL returns the sqlite:// connection string for the XDG data directory.
func DefaultCacheURL() string {
	return "sqlite://" + filepath.ToSlash(XDGDataDir())
}

// XDGDataDir returns the XDG data directory for proxyip.
// On Linux: ~/.local/share/proxyip
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for proxyip.
// On Linux: ~/.config/proxyip
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// EffectivePorts returns the configured ports, or the default list when none are set.
func (c *Config) EffectivePorts() []int {
	if len(c.Ports) == 0 {
		return ports.Default()
	}
	return c.Ports
}

// Validate checks every setting except the target list.
// It returns the first problem found.
func (c *Config) Validate() error {
	if _, err := ports.New(c.EffectivePorts()); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if c.CacheURL == "" {
		return ErrNoCache
	}

	if c.ProbeTimeout <= 0 {
		return ErrInvalidProbeTimeout
	}

	if c.LookupTimeout <= 0 {
		return ErrInvalidLookupTimeout
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.NegativeCacheTTL < 0 {
		return ErrInvalidNegativeCacheTTL
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}

// ValidateTargets runs Validate and additionally requires at least one target.
func (c *Config) ValidateTargets() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	return c.Validate()
}
