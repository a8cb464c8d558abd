package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/proxyip/internal/ports"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default ProbeTimeout is 2 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.ProbeTimeout != 2*time.Second {
			t.Errorf("expected ProbeTimeout to be 2s, got %v", cfg.ProbeTimeout)
		}
	})

	t.Run("default LookupTimeout is 5 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.LookupTimeout != 5*time.Second {
			t.Errorf("expected LookupTimeout to be 5s, got %v", cfg.LookupTimeout)
		}
	})

	t.Run("default ExitListZone is dnsel.torproject.org", func(t *testing.T) {
		t.Parallel()
		if cfg.ExitListZone != "dnsel.torproject.org" {
			t.Errorf("unexpected ExitListZone %q", cfg.ExitListZone)
		}
	})

	t.Run("default BatchSize is 10", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != 10 {
			t.Errorf("expected BatchSize to be 10, got %d", cfg.BatchSize)
		}
	})

	t.Run("default cache is sqlite in the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if !strings.HasPrefix(cfg.CacheURL, "sqlite://") {
			t.Errorf("expected sqlite cache, got %q", cfg.CacheURL)
		}
		if !strings.HasSuffix(cfg.CacheURL, AppName) {
			t.Errorf("expected cache path to end with %q, got %q", AppName, cfg.CacheURL)
		}
	})

	t.Run("negative cache is disabled by default", func(t *testing.T) {
		t.Parallel()
		if cfg.NegativeCacheTTL != 0 {
			t.Errorf("expected NegativeCacheTTL 0, got %v", cfg.NegativeCacheTTL)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	validConfig := func() *Config {
		return &Config{
			Ports:         []int{80, 443},
			CacheURL:      "memory://",
			ProbeTimeout:  2 * time.Second,
			LookupTimeout: 5 * time.Second,
			BatchSize:     10,
			Targets:       []string{"192.0.2.1"},
		}
	}

	t.Run("valid config returns nil", func(t *testing.T) {
		t.Parallel()
		if err := validConfig().ValidateTargets(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("empty ports fall back to defaults", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Ports = nil
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if !slices.Equal(cfg.EffectivePorts(), ports.Default()) {
			t.Error("expected default ports")
		}
	})

	t.Run("out of range port returns ErrInvalidPorts", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Ports = []int{80, 70000}
		if err := cfg.Validate(); !errors.Is(err, ports.ErrInvalidPorts) {
			t.Errorf("expected ErrInvalidPorts, got %v", err)
		}
	})

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"empty targets returns ErrNoTarget", func(c *Config) { c.Targets = nil }, ErrNoTarget},
		{"empty cache returns ErrNoCache", func(c *Config) { c.CacheURL = "" }, ErrNoCache},
		{"zero probe timeout", func(c *Config) { c.ProbeTimeout = 0 }, ErrInvalidProbeTimeout},
		{"negative probe timeout", func(c *Config) { c.ProbeTimeout = -time.Second }, ErrInvalidProbeTimeout},
		{"zero lookup timeout", func(c *Config) { c.LookupTimeout = 0 }, ErrInvalidLookupTimeout},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, ErrInvalidBatchSize},
		{"negative batch size", func(c *Config) { c.BatchSize = -1 }, ErrInvalidBatchSize},
		{"negative ttl", func(c *Config) { c.NegativeCacheTTL = -time.Minute }, ErrInvalidNegativeCacheTTL},
		{"json and markdown", func(c *Config) { c.JSONReport, c.MarkdownReport = true, true }, ErrConflictingReportFormats},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.ValidateTargets(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	t.Run("Validate ignores targets", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Targets = nil
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

// TestFileApply tests merging a config file into a Config.
func TestFileApply(t *testing.T) {
	t.Parallel()

	t.Run("set fields override", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		f := &File{
			Ports:            []int{3128, 1080},
			Cache:            "redis://localhost:6379/0",
			ProbeTimeout:     500 * time.Millisecond,
			LookupTimeout:    time.Second,
			ExitListZone:     "exitlist.test",
			Batch:            3,
			NegativeCacheTTL: 10 * time.Minute,
		}
		f.Apply(cfg)

		if !slices.Equal(cfg.Ports, []int{3128, 1080}) {
			t.Errorf("unexpected ports %v", cfg.Ports)
		}
		if cfg.CacheURL != "redis://localhost:6379/0" {
			t.Errorf("unexpected cache %q", cfg.CacheURL)
		}
		if cfg.ProbeTimeout != 500*time.Millisecond || cfg.LookupTimeout != time.Second {
			t.Errorf("unexpected timeouts %v %v", cfg.ProbeTimeout, cfg.LookupTimeout)
		}
		if cfg.ExitListZone != "exitlist.test" || cfg.BatchSize != 3 {
			t.Errorf("unexpected zone/batch %q %d", cfg.ExitListZone, cfg.BatchSize)
		}
		if cfg.NegativeCacheTTL != 10*time.Minute {
			t.Errorf("unexpected ttl %v", cfg.NegativeCacheTTL)
		}
	})

	t.Run("unset fields keep defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		want := *cfg
		(&File{}).Apply(cfg)

		if cfg.CacheURL != want.CacheURL || cfg.ProbeTimeout != want.ProbeTimeout || cfg.BatchSize != want.BatchSize {
			t.Errorf("defaults changed: %+v", cfg)
		}
	})

	t.Run("nil file is a no-op", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		var f *File
		f.Apply(cfg)
		if cfg.BatchSize != DefaultBatchSize {
			t.Error("nil file must not change config")
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for missing file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.proxyip")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config")
		}
	})

	t.Run("parses ports, cache and durations", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `ports: [80, 443, 8080]
cache: "sqlite:///var/lib/proxyip"
probeTimeout: 1500ms
lookupTimeout: 3s
batch: 4
negativeCacheTTL: 15m
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(cf.Ports, []int{80, 443, 8080}) {
			t.Errorf("unexpected ports %v", cf.Ports)
		}
		if cf.Cache != "sqlite:///var/lib/proxyip" {
			t.Errorf("unexpected cache %q", cf.Cache)
		}
		if cf.ProbeTimeout != 1500*time.Millisecond {
			t.Errorf("unexpected probe timeout %v", cf.ProbeTimeout)
		}
		if cf.LookupTimeout != 3*time.Second {
			t.Errorf("unexpected lookup timeout %v", cf.LookupTimeout)
		}
		if cf.Batch != 4 {
			t.Errorf("unexpected batch %d", cf.Batch)
		}
		if cf.NegativeCacheTTL != 15*time.Minute {
			t.Errorf("unexpected ttl %v", cf.NegativeCacheTTL)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("ports: [80]"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})
}

// TestLoadTargets tests reading a target list file.
func TestLoadTargets(t *testing.T) {
	t.Parallel()

	t.Run("skips comments and blank lines", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "targets.txt")
		content := "# exits\n109.70.100.27\n\n  192.0.2.1  \n# end\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write list: %v", err)
		}

		got, err := LoadTargets(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"109.70.100.27", "192.0.2.1"}
		if !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("missing file returns error", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadTargets(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if dir := XDGDataDir(); filepath.Base(dir) != AppName {
		t.Errorf("expected data dir to end with %q, got %q", AppName, dir)
	}
	if dir := XDGConfigDir(); filepath.Base(dir) != AppName {
		t.Errorf("expected config dir to end with %q, got %q", AppName, dir)
	}
}
