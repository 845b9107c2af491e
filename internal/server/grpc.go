package server

import (
	"github.com/fekuna/penstore/pkg/logger"
	"github.com/fekuna/penstore/pkg/middleware"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the name orchestrators probe on the health service.
const ServiceName = "penstore"

// NewGRPCServer returns a server exposing the standard health service and
// reflection. Callers flip the status through the returned health server.
func NewGRPCServer(log logger.ZapLogger) (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(grpc.UnaryInterceptor(middleware.UnaryLogger(log)))
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)
	return srv, hs
}
