package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

type testConfig struct {
	Address string `env:"CMD_TEST_ADDRESS" envDefault:"127.0.0.1:8501"`
	DataDir string `env:"CMD_TEST_DATA_DIR" envDefault:"data"`
}

func TestFlagsOverrideEnvDefaults(t *testing.T) {
	t.Setenv("CMD_TEST_ADDRESS", "env:9000")
	t.Setenv("CMD_TEST_DATA_DIR", "env-data")

	var cfg testConfig
	if err := ParseConfig(&cfg); err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.StringVar(&cfg.Address, "address", cfg.Address, "address")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "data dir")
	if err := ParseArgs(fs, []string{"-address", "flag:9001"}); err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}

	if cfg.Address != "flag:9001" {
		t.Fatalf("Address = %q, want %q", cfg.Address, "flag:9001")
	}
	if cfg.DataDir != "env-data" {
		t.Fatalf("DataDir = %q, want %q", cfg.DataDir, "env-data")
	}
}

func TestParseHelpersRejectNilTargets(t *testing.T) {
	t.Parallel()

	if err := ParseConfig[testConfig](nil); err == nil {
		t.Fatal("ParseConfig(nil) error = nil, want error")
	}
	if err := ParseArgs(nil, nil); err == nil {
		t.Fatal("ParseArgs(nil) error = nil, want error")
	}
}

func TestParseArgsAcceptsNilArgs(t *testing.T) {
	t.Parallel()

	if err := ParseArgs(flag.NewFlagSet("test", flag.ContinueOnError), nil); err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	t.Parallel()

	if err := RunWithTelemetry(context.Background(), " ", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(context.Background(), ServiceEncoding, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}

func TestRunWithTelemetryReturnsRunError(t *testing.T) {
	t.Setenv("ENCODING_TASK_OTEL_ENDPOINT", "")

	want := errors.New("listen failed")
	called := false
	err := RunWithTelemetry(context.Background(), ServiceEncoding, func(context.Context) error {
		called = true
		return want
	})
	if !called {
		t.Fatal("expected run function to be called")
	}
	if !errors.Is(err, want) {
		t.Fatalf("RunWithTelemetry() error = %v, want %v", err, want)
	}
}
