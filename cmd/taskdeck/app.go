package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/taskdeck/taskdeck/internal/config"
	mongoInfra "github.com/taskdeck/taskdeck/internal/infrastructure/mongodb"
	"github.com/taskdeck/taskdeck/internal/infrastructure/monitor"
	"github.com/taskdeck/taskdeck/internal/services/lifecycle"
	"github.com/taskdeck/taskdeck/pkg/logger"
	mongoRepo "github.com/taskdeck/taskdeck/repository/mongodb"
	"github.com/taskdeck/taskdeck/usecase/registry"
)

// app wires the pieces a single invocation needs. One-shot commands
// build it, run one registry operation, and shut it down; the
// interactive shell keeps it alive until exit.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	manager  *lifecycle.Manager
	registry *registry.Registry
	monitor  *monitor.Monitor

	ctx    context.Context
	cancel context.CancelFunc
}

func newApp(signals ...os.Signal) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{Level: cfg.Logger.Level, Encoding: cfg.Logger.Encoding})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, log)
	manager.Listen(cancel, signals...)

	conn := mongoInfra.Connect(ctx, cfg.Mongo, log)
	manager.Register("mongodb", conn.Close)

	store := mongoRepo.NewTaskStore(conn)

	ictx, icancel := context.WithTimeout(ctx, cfg.Context.OpTimeout)
	if err := store.EnsureIndexes(ictx); err != nil {
		log.Warn("task indexes not ensured", zap.Error(err))
	}
	icancel()

	reg := registry.New(store, log)
	manager.Register("task registry", reg.Close)

	// Load warns on its own when the store is unreachable; commands then
	// run against an empty mirror until the store comes back.
	lctx, lcancel := context.WithTimeout(ctx, cfg.Context.OpTimeout)
	_ = reg.Load(lctx)
	lcancel()

	mon := monitor.New(reg, 0, log)

	return &app{
		cfg:      cfg,
		logger:   log,
		manager:  manager,
		registry: reg,
		monitor:  mon,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// opCtx bounds a single registry operation.
func (a *app) opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(a.ctx, a.cfg.Context.OpTimeout)
}

func (a *app) shutdown() {
	if err := a.manager.Shutdown(context.Background()); err != nil {
		a.logger.Warn("shutdown finished with errors", zap.Error(err))
	}
	a.cancel()
	_ = a.logger.Sync()
}
