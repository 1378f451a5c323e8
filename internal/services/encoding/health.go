package encoding

import (
	"errors"
	"fmt"
	"net"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthService is the service name reported alongside the overall status.
const HealthService = "encoding.v1.EncodingTask"

// healthServer serves the standard gRPC health protocol.
type healthServer struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
}

func newHealthServer(addr string) (*healthServer, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthSrv := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthSrv.SetServingStatus(HealthService, grpc_health_v1.HealthCheckResponse_SERVING)
	return &healthServer{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthSrv,
	}, nil
}

// Addr returns the listener address.
func (s *healthServer) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve blocks until the server stops.
func (s *healthServer) Serve() error {
	if s == nil {
		return errors.New("health server is nil")
	}
	err := s.grpcServer.Serve(s.listener)
	if err == nil || errors.Is(err, grpc.ErrServerStopped) {
		return nil
	}
	return err
}

// Stop marks every service NOT_SERVING and drains in-flight checks.
func (s *healthServer) Stop() {
	if s == nil {
		return
	}
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}

// Close stops immediately.
func (s *healthServer) Close() {
	if s == nil {
		return
	}
	s.health.Shutdown()
	s.grpcServer.Stop()
	_ = s.listener.Close()
}
