package main

import (
	"context"
	"log"
	"os"

	"gitlab.com/pietroski-software-company/golang/devex/servermanager"
	"gitlab.com/pietroski-software-company/golang/devex/servermanager/pprofx"
	"gitlab.com/pietroski-software-company/golang/devex/slogx"
	"gitlab.com/pietroski-software-company/golang/devex/tracer"

	"gitlab.com/pietroski-software-company/lightning-db-driver/internal/adaptors/engine/localengine"
	grpc_transport "gitlab.com/pietroski-software-company/lightning-db-driver/internal/adaptors/transport/grpc"
	driver_config "gitlab.com/pietroski-software-company/lightning-db-driver/internal/config"
)

func main() {
	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()
	t := tracer.New()
	ctx, err := t.Trace(ctx)
	if err != nil {
		log.Fatal(err)
	}

	logger := slogx.New() // slogx.WithLogLevel(slog.LevelDebug)

	cfg, err := driver_config.Load()
	if err != nil {
		logger.Error(ctx, "failed to load ltng-driver configs", "error", err)

		return
	}

	if kind := cfg.Driver.EngineKind(); kind != driver_config.LocalEngineKind {
		logger.Error(ctx, "ltng-driver daemon only serves a local engine", "engine", kind.String())

		return
	}

	logger.Debug(ctx, "opening local engine",
		"path", cfg.Driver.Local.Path, "in_memory", cfg.Driver.Local.InMemory)
	engine, err := localengine.New(ctx,
		localengine.WithConfig(cfg.Driver.Local),
		localengine.WithLogger(logger),
	)
	if err != nil {
		logger.Error(ctx, "failed to open local engine", "error", err)

		return
	}

	factory, err := grpc_transport.New(ctx,
		grpc_transport.WithConfig(cfg),
		grpc_transport.WithLogger(logger),
		grpc_transport.WithTracer(t),
		grpc_transport.WithEngine(engine),
	)
	if err != nil {
		logger.Error(ctx, "error creating ltng-driver factory", "error", err)
		_ = engine.Close()

		return
	}

	servermanager.New(ctx, cancelFn,
		servermanager.WithExiter(os.Exit),
		servermanager.WithLogger(logger),
		servermanager.WithPprofServer(ctx,
			pprofx.WithPprofLogger(logger),
			pprofx.WithPprofPort(cfg.Driver.Server.PprofPort),
		),
		servermanager.WithServers(servermanager.ServerMapping{
			"ltng-driver-engine": factory,
		}),
	).StartServers()
}
