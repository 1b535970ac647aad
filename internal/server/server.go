// Package server runs the gRPC health endpoint and the catalog hot-reloader.
package server

import (
	"context"
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Service names reported by the health server. The empty name is the overall status.
const (
	ServiceSite    = "kroneus.site"
	ServiceCatalog = "kroneus.catalog"
)

// Config holds gRPC server configuration.
type Config struct {
	Addr string
}

// Server serves grpc.health.v1.Health.
type Server struct {
	cfg        Config
	health     *health.Server
	grpcServer *grpc.Server
	logger     *zap.Logger
}

// New creates a health server. Every service starts NOT_SERVING.
func New(cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:        cfg,
		health:     health.NewServer(),
		grpcServer: grpc.NewServer(),
		logger:     logger,
	}
	for _, name := range []string{"", ServiceSite, ServiceCatalog} {
		s.health.SetServingStatus(name, healthpb.HealthCheckResponse_NOT_SERVING)
	}
	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	return s
}

// SetServing flips a service between SERVING and NOT_SERVING.
func (s *Server) SetServing(service string, serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(service, status)
}

// Start listens on the configured address and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	s.logger.Info("grpc health listening", zap.String("addr", lis.Addr().String()))

	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()
	return s.ServeOn(lis)
}

// ServeOn serves on the given listener. Blocks until stopped.
func (s *Server) ServeOn(lis net.Listener) error {
	return s.grpcServer.Serve(lis)
}

// GracefulStop reports NOT_SERVING for everything and stops the server.
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
