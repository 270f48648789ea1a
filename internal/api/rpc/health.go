// Package rpc exposes the gRPC health checking protocol for squarehouse.
package rpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/KretovDmitry/squarehouse/internal/errs"
	"github.com/KretovDmitry/squarehouse/internal/logger"
	"github.com/KretovDmitry/squarehouse/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// AnalyticsService is the health service name reflecting
// the analytics database availability.
const AnalyticsService = "squarehouse.Analytics"

// HealthServer serves grpc.health.v1.Health. The overall status is
// SERVING while the process runs; AnalyticsService follows the result
// of pinging the event storage.
type HealthServer struct {
	server   *grpc.Server
	health   *health.Server
	events   repository.EventStorage
	logger   logger.Logger
	interval time.Duration
}

// NewHealthServer registers a new server, ensuring that the dependencies are valid values.
func NewHealthServer(
	events repository.EventStorage,
	interval time.Duration,
	logger logger.Logger,
) (*HealthServer, error) {
	if events == nil {
		return nil, fmt.Errorf("%w: event store", errs.ErrNilDependency)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger", errs.ErrNilDependency)
	}
	if interval <= 0 {
		return nil, errors.New("probe interval should be positive")
	}

	recoveryOpt := recovery.WithRecoveryHandler(func(p any) error {
		logger.Errorf("rpc handler panic: %v", p)
		return status.Errorf(codes.Internal, "internal error")
	})

	s := &HealthServer{
		server: grpc.NewServer(
			grpc.ChainUnaryInterceptor(
				logging.UnaryServerInterceptor(InterceptorLogger(logger)),
				recovery.UnaryServerInterceptor(recoveryOpt),
			),
			grpc.ChainStreamInterceptor(
				logging.StreamServerInterceptor(InterceptorLogger(logger)),
				recovery.StreamServerInterceptor(recoveryOpt),
			),
		),
		health:   health.NewServer(),
		events:   events,
		logger:   logger,
		interval: interval,
	}

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(AnalyticsService, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(s.server, s.health)

	return s, nil
}

// Probe pings the event storage once and publishes the result.
func (s *HealthServer) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	st := healthpb.HealthCheckResponse_SERVING
	if err := s.events.Ping(ctx); err != nil {
		st = healthpb.HealthCheckResponse_NOT_SERVING
		s.logger.Debugf("analytics probe failed: %v", err)
	}
	s.health.SetServingStatus(AnalyticsService, st)
	return st
}

// Watch probes the event storage every interval until ctx is done.
func (s *HealthServer) Watch(ctx context.Context) {
	s.Probe(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Probe(ctx)
		}
	}
}

// Check answers a health check without going through the network.
func (s *HealthServer) Check(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	res, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return res.GetStatus(), nil
}

// Serve accepts connections on lis until Stop is called.
func (s *HealthServer) Serve(lis net.Listener) error {
	s.logger.Infof("gRPC health server has started: %s", lis.Addr())
	return s.server.Serve(lis)
}

// Stop marks every service NOT_SERVING and stops the server gracefully.
func (s *HealthServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}

// InterceptorLogger adapts the application logger to the
// go-grpc-middleware logging interface.
func InterceptorLogger(l logger.Logger) logging.Logger {
	return logging.LoggerFunc(func(ctx context.Context, lvl logging.Level, msg string, fields ...any) {
		lg := l.With(ctx, fields...)
		switch lvl {
		case logging.LevelDebug:
			lg.Debug(msg)
		case logging.LevelInfo:
			lg.Info(msg)
		case logging.LevelWarn:
			lg.Warn(msg)
		case logging.LevelError:
			lg.Error(msg)
		default:
			lg.Errorf("unknown level %v: %s", lvl, msg)
		}
	})
}
