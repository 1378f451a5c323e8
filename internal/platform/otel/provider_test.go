package otel_test

import (
	"context"
	"testing"

	"github.com/louisbranch/encodingtask/internal/platform/otel"
)

func TestConfigActive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  otel.Config
		want bool
	}{
		{name: "empty", cfg: otel.Config{}, want: false},
		{name: "endpoint", cfg: otel.Config{Endpoint: "http://collector:4318"}, want: true},
		{name: "disabled", cfg: otel.Config{Endpoint: "http://collector:4318", Enabled: "FALSE"}, want: false},
		{name: "enabled", cfg: otel.Config{Endpoint: "http://collector:4318", Enabled: "true"}, want: true},
	}
	for _, tc := range tests {
		if got := tc.cfg.Active(); got != tc.want {
			t.Fatalf("%s: Active() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSetup_NoopWhenEndpointEmpty(t *testing.T) {
	t.Setenv("ENCODING_TASK_OTEL_ENDPOINT", "")
	t.Setenv("ENCODING_TASK_OTEL_ENABLED", "")

	shutdown, err := otel.Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_NoopWhenExplicitlyDisabled(t *testing.T) {
	t.Setenv("ENCODING_TASK_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("ENCODING_TASK_OTEL_ENABLED", "false")

	shutdown, err := otel.Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_CreatesProviderWhenEndpointSet(t *testing.T) {
	// Non-routable address so no export happens.
	t.Setenv("ENCODING_TASK_OTEL_ENDPOINT", "http://192.0.2.1:4318")
	t.Setenv("ENCODING_TASK_OTEL_ENABLED", "")

	shutdown, err := otel.Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}
