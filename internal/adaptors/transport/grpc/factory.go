package grpc_transport

import (
	"context"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"

	"gitlab.com/pietroski-software-company/golang/devex/errorsx"
	"gitlab.com/pietroski-software-company/golang/devex/options"
	"gitlab.com/pietroski-software-company/golang/devex/slogx"
	"gitlab.com/pietroski-software-company/golang/devex/tracer"

	driver_config "gitlab.com/pietroski-software-company/lightning-db-driver/internal/config"
	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/engine"
)

// Factory serves an engine on a listener and fits servermanager's server
// contract.
type Factory struct {
	cfg    *driver_config.Config
	logger slogx.SLogger
	tracer tracer.Tracer

	listener net.Listener
	server   *grpc.Server

	engine  engine.Engine
	service *Server
}

func New(
	ctx context.Context,
	opts ...options.Option,
) (*Factory, error) {
	factory := &Factory{
		cfg:    driver_config.Default(),
		logger: slogx.New(),
		tracer: tracer.New(),
	}
	options.ApplyOptions(factory, opts...)

	service, err := NewServer(ctx,
		WithEngine(factory.engine),
		WithLogger(factory.logger),
		WithTracer(factory.tracer),
	)
	if err != nil {
		return nil, err
	}
	factory.service = service

	if factory.listener == nil {
		srvCfg := factory.cfg.Driver.Server
		listener, err := net.Listen(srvCfg.Network, fmt.Sprintf(":%v", srvCfg.Port))
		if err != nil {
			factory.logger.Error(ctx, "error creating net listener", "error", err)
			return nil, errorsx.Wrap(err, "error creating net listener")
		}
		factory.listener = listener
	}

	factory.handle()

	return factory, nil
}

func (s *Factory) handle() {
	grpcOpts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			UnaryServerTraceInterceptor(s.tracer),
		),
		grpc.ChainStreamInterceptor(
			StreamServerTraceInterceptor(s.tracer),
		),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			MaxConnectionIdle: 15 * time.Second,
			Time:              5 * time.Second,
			Timeout:           1 * time.Second,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             5 * time.Second,
			PermitWithoutStream: true,
		}),
	}
	grpcServer := grpc.NewServer(grpcOpts...)
	RegisterEngineServer(grpcServer, s.service)

	s.server = grpcServer
}

func (s *Factory) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *Factory) Start() error {
	return s.server.Serve(s.listener)
}

func (s *Factory) Stop() {
	s.server.GracefulStop()
	if err := s.engine.Close(); err != nil {
		s.logger.Error(context.Background(), "failed to close engine", "error", err)
	}
}
