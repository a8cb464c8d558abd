package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/nao1215/proxyip/internal/cache"
	"github.com/nao1215/proxyip/internal/classifier"
	"github.com/nao1215/proxyip/internal/config"
	"github.com/nao1215/proxyip/internal/report"
)

type stubOracle struct {
	exits map[string]bool
}

func (o stubOracle) CheckTorExitNode(_ context.Context, ip string) (bool, error) {
	return o.exits[ip], nil
}

// openPort starts a listener on 127.0.0.1 that accepts and drops connections.
func openPort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_, _ = io.Copy(io.Discard, conn)
			_ = conn.Close()
		}
	}()

	return ln.Addr().(*net.TCPAddr).Port
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildCheckConfig(t *testing.T) {
	t.Parallel()

	t.Run("flags override the config file", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeFile(t, ".proxyip", "batch: 3\nprobeTimeout: 1s\ncache: memory://\nports: [80]\n")
		listPath := writeFile(t, "ips.txt", "# list\n198.51.100.1\n198.51.100.2\n")

		cmd := NewCheckCmd()
		if err := cmd.ParseFlags([]string{
			"--config", cfgPath,
			"--probe-timeout", "250ms",
			"--ports", "1080,3128",
			"--list", listPath,
			"--json",
			"192.0.2.7",
		}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildCheckConfig(cmd, cmd.Flags().Args())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.ProbeTimeout != 250*time.Millisecond {
			t.Errorf("expected flag to win, got %v", cfg.ProbeTimeout)
		}
		if cfg.BatchSize != 3 {
			t.Errorf("expected batch from file, got %d", cfg.BatchSize)
		}
		if cfg.CacheURL != "memory://" {
			t.Errorf("expected cache from file, got %q", cfg.CacheURL)
		}
		if len(cfg.Ports) != 2 || cfg.Ports[0] != 1080 || cfg.Ports[1] != 3128 {
			t.Errorf("unexpected ports %v", cfg.Ports)
		}
		want := []string{"192.0.2.7", "198.51.100.1", "198.51.100.2"}
		if len(cfg.Targets) != len(want) {
			t.Fatalf("expected targets %v, got %v", want, cfg.Targets)
		}
		for i := range want {
			if cfg.Targets[i] != want[i] {
				t.Errorf("target %d: expected %q, got %q", i, want[i], cfg.Targets[i])
			}
		}
		if !cfg.JSONReport {
			t.Error("expected JSON report")
		}
	})

	t.Run("missing explicit config file is an error", func(t *testing.T) {
		t.Parallel()

		cmd := NewCheckCmd()
		if err := cmd.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}
		if _, err := buildCheckConfig(cmd, nil); !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("validation rejects bad ports", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeFile(t, ".proxyip", "")
		cmd := NewRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"check", "--config", cfgPath, "--cache", "memory://", "--ports", "70000", "192.0.2.1"})

		if err := cmd.Execute(); err == nil {
			t.Error("expected configuration error")
		}
	})

	t.Run("no targets is an error", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeFile(t, ".proxyip", "")
		cmd := NewRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"check", "--config", cfgPath, "--cache", "memory://"})

		if err := cmd.Execute(); !errors.Is(err, config.ErrNoTarget) {
			t.Errorf("expected ErrNoTarget, got %v", err)
		}
	})
}

func TestRunCheck(t *testing.T) {
	t.Parallel()

	t.Run("single open port is a proxy", func(t *testing.T) {
		t.Parallel()

		port := openPort(t)
		cfg := config.NewConfig()
		cfg.CacheURL = "memory://"
		cfg.Ports = []int{port}
		cfg.Targets = []string{"127.0.0.1"}

		results, err := runCheck(t.Context(), cfg, quietLogger(), classifier.WithOracle(stubOracle{}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("expected 1 result, got %d", len(results))
		}
		r := results[0]
		if !r.Proxy || r.Signal != classifier.SignalPort || r.Port != port {
			t.Errorf("unexpected result %+v", r)
		}
	})

	t.Run("batch keeps input order and mixes signals", func(t *testing.T) {
		t.Parallel()

		port := openPort(t)
		cfg := config.NewConfig()
		cfg.CacheURL = "memory://"
		cfg.Ports = []int{port}
		cfg.ProbeTimeout = 500 * time.Millisecond
		cfg.BatchSize = 2
		cfg.Targets = []string{"198.51.100.9", "127.0.0.1", "127.0.0.2"}

		oracle := stubOracle{exits: map[string]bool{"198.51.100.9": true}}
		results, err := runCheck(t.Context(), cfg, quietLogger(), classifier.WithOracle(oracle))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 3 {
			t.Fatalf("expected 3 results, got %d", len(results))
		}

		if results[0].IP != "198.51.100.9" || results[0].Signal != classifier.SignalTor {
			t.Errorf("result 0: %+v", results[0])
		}
		if results[1].IP != "127.0.0.1" || results[1].Signal != classifier.SignalPort {
			t.Errorf("result 1: %+v", results[1])
		}
		// Nothing listens on 127.0.0.2.
		if results[2].IP != "127.0.0.2" || results[2].Proxy {
			t.Errorf("result 2: %+v", results[2])
		}
	})

	t.Run("sqlite cache remembers verdicts across runs", func(t *testing.T) {
		t.Parallel()

		port := openPort(t)
		dir := t.TempDir()
		cfg := config.NewConfig()
		cfg.CacheURL = "sqlite://" + filepath.ToSlash(dir)
		cfg.Ports = []int{port}
		cfg.Targets = []string{"127.0.0.1"}

		if _, err := runCheck(t.Context(), cfg, quietLogger(), classifier.WithOracle(stubOracle{})); err != nil {
			t.Fatalf("first run: %v", err)
		}
		results, err := runCheck(t.Context(), cfg, quietLogger(), classifier.WithOracle(stubOracle{}))
		if err != nil {
			t.Fatalf("second run: %v", err)
		}
		if results[0].Signal != classifier.SignalCache {
			t.Errorf("expected cache hit on second run, got %+v", results[0])
		}
	})

	t.Run("unsupported cache scheme fails", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.CacheURL = "mongodb://localhost"
		cfg.Targets = []string{"127.0.0.1"}

		if _, err := runCheck(t.Context(), cfg, quietLogger()); !errors.Is(err, cache.ErrUnsupportedScheme) {
			t.Errorf("expected ErrUnsupportedScheme, got %v", err)
		}
	})
}

func TestOutputReport(t *testing.T) {
	t.Parallel()

	results := []classifier.Result{
		{IP: "127.0.0.1", Proxy: true, Signal: classifier.SignalPort, Port: 3128},
	}

	t.Run("json to stdout", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.JSONReport = true

		var buf bytes.Buffer
		if err := outputReport(cfg, results, &buf, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var doc report.JSONReport
		if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if doc.Summary.ByPort != 1 {
			t.Errorf("unexpected summary %+v", doc.Summary)
		}
	})

	t.Run("markdown to file", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.MarkdownReport = true
		cfg.ReportFile = filepath.Join(t.TempDir(), "reports", "out.md")

		var stdout bytes.Buffer
		if err := outputReport(cfg, results, &stdout, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout.Len() != 0 {
			t.Error("nothing should be written to stdout")
		}

		data, err := os.ReadFile(cfg.ReportFile)
		if err != nil {
			t.Fatalf("report file missing: %v", err)
		}
		if !bytes.Contains(data, []byte("# Proxy IP Report")) {
			t.Errorf("unexpected markdown:\n%s", data)
		}
	})
}

func TestCheckCommandEndToEnd(t *testing.T) {
	t.Parallel()

	port := openPort(t)
	cfgPath := writeFile(t, ".proxyip", "")

	var stdout bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{
		"check",
		"--config", cfgPath,
		"--cache", "memory://",
		"--ports", strconv.Itoa(port),
		"--zone", "invalid",
		"--lookup-timeout", "200ms",
		"--json",
		"127.0.0.1",
	})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc report.JSONReport
	if err := json.Unmarshal(stdout.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout.String())
	}
	if len(doc.Results) != 1 || !doc.Results[0].Proxy {
		t.Errorf("expected 127.0.0.1 to be a proxy: %+v", doc.Results)
	}
}
