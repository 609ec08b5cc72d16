package main

import (
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// healthService exposes grpc.health.v1.Health for orchestrators that probe
// over gRPC.
type healthService struct {
	srv    *grpc.Server
	health *health.Server
}

func newHealthService() *healthService {
	h := &healthService{srv: grpc.NewServer(), health: health.NewServer()}
	healthpb.RegisterHealthServer(h.srv, h.health)
	h.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	h.health.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	return h
}

func (h *healthService) Serve(lis net.Listener) error { return h.srv.Serve(lis) }

// Stop marks every service NOT_SERVING and drains open calls.
func (h *healthService) Stop() {
	h.health.Shutdown()
	h.srv.GracefulStop()
}
