// Package grpc hosts the gRPC listener the gateway's RPC surface would run
// behind. There is no protoc-generated service: the
// methods spec.md §6 names are plain Go on internal/api.ConnectorService,
// called directly by tests and wired here only far enough to give the
// process a real listener, graceful shutdown, and a standard gRPC health
// check — the teacher's internal/adapters/grpc/server.go shape, generalized
// from one fixed service to whatever services Register attaches.
package grpc

import (
	"fmt"
	"net"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server represents a gRPC server
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	logger     *zap.Logger
	port string
}

// NewServer creates a new gRPC server with an otelgrpc stats handler for
// distributed tracing and a standard health service, so a gRPC health
// check immediately reflects whether the process is serving (SPEC_FULL.md
// §15).
func NewServer(port string, logger *zap.Logger) *Server {
	healthSrv := health.NewServer()
	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	return &Server{
		grpcServer: grpcServer,
		health:     healthSrv,
		logger:     logger,
		port:       port,
	}
}

// Registrar is anything that attaches its service implementation to the
// underlying *grpc.Server, the same shape a protoc-generated
// RegisterXServer function has.
type Registrar func(*grpc.Server)

// Register attaches a service to the server before Start is called.
func (s *Server) Register(r Registrar) {
	r(s.grpcServer)
}

// Start starts the gRPC server
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.port)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.logger.Info("starting gRPC server", zap.String("port", s.port))

	if err := s.grpcServer.Serve(lis); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}

	return nil
}

// Stop gracefully stops the gRPC server
func (s *Server) Stop() {
	s.logger.Info("stopping gRPC server")
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
