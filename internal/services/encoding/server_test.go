package encoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/encodingtask/internal/services/encoding/platform/httpx"
	"github.com/louisbranch/encodingtask/internal/services/encoding/routepath"
	"github.com/louisbranch/encodingtask/internal/testkit/encodingtest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	env := encodingtest.New(t, encodingtest.Options{})
	return Config{
		HTTPAddr:        "127.0.0.1:0",
		Sessions:        env.Manager,
		DefaultLanguage: env.Deps.DefaultLanguage,
	}
}

func TestNewHandlerRequiresSessions(t *testing.T) {
	t.Parallel()

	if _, err := NewHandler(Config{}); err == nil {
		t.Fatalf("NewHandler() error = nil, want error")
	}
}

func TestNewServerRequiresHTTPAddr(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.HTTPAddr = "  "
	if _, err := NewServer(context.Background(), cfg); err == nil {
		t.Fatalf("NewServer() error = nil, want error")
	}
}

func TestNewHandlerServesStaticAssets(t *testing.T) {
	t.Parallel()

	h, err := NewHandler(testConfig(t))
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	for _, path := range []string{routepath.RecorderJS, routepath.Stylesheet} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d, want %d", path, rr.Code, http.StatusOK)
		}
		if rr.Body.Len() == 0 {
			t.Fatalf("GET %s body is empty", path)
		}
	}
}

func TestNewHandlerAddsRequestID(t *testing.T) {
	t.Parallel()

	h, err := NewHandler(testConfig(t))
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, routepath.Root, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("GET / status = %d, want %d", rr.Code, http.StatusOK)
	}
	if got := rr.Header().Get(httpx.RequestIDHeader); !strings.HasPrefix(got, "enc-") {
		t.Fatalf("%s = %q, want enc- prefix", httpx.RequestIDHeader, got)
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.GRPCAddr = "127.0.0.1:0"
	server, err := NewServer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.ListenAndServe(ctx) }()

	conn, err := grpc.NewClient(server.health.Addr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial health: %v", err)
	}
	defer conn.Close()
	checkCtx, checkCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer checkCancel()
	resp, err := grpc_health_v1.NewHealthClient(conn).Check(checkCtx, &grpc_health_v1.HealthCheckRequest{Service: HealthService}, grpc.WaitForReady(true))
	if err != nil {
		t.Fatalf("health check: %v", err)
	}
	if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Fatalf("health status = %v, want SERVING", resp.GetStatus())
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ListenAndServe() error = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("ListenAndServe() did not return after cancel")
	}
}
