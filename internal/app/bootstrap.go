package app

import (
	"errors"
	"fmt"

	"github.com/tresmontes-cajas/internal/provider"
	"github.com/tresmontes-cajas/internal/router"
	"github.com/tresmontes-cajas/internal/worker"
)

// BuildRunner wires the container and builds the services opts.Mode asks for.
func BuildRunner(opts Options) (*Runner, error) {
	opts = normalizeOptions(opts)
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if _, err := ParseMode(opts.Mode); err != nil {
		return nil, err
	}
	if opts.Mode == ModeWorker && !cfg.Queue.Enabled {
		return nil, errors.New("worker mode needs queue.enabled")
	}

	container := provider.NewContainer(cfg)
	var services []Service
	if opts.servesHTTP() {
		services = append(services, NewHTTPService(cfg.Server, router.SetupRouter(cfg, container), opts.Logger))
	}
	if opts.runsWorker() {
		workerService, err := worker.NewService(&cfg.Queue, cfg.Export.Dir, worker.NewConsumer(container))
		if err != nil {
			return nil, fmt.Errorf("report worker: %w", err)
		}
		services = append(services, workerService)
	}

	if plants, err := container.PlantRepo.List(true); err == nil {
		opts.Logger.Infow("app_plants_loaded", "active_plants", len(plants))
	} else {
		opts.Logger.Warnw("app_plants_load_failed", "error", err)
	}
	return NewRunner(services...), nil
}

// Run starts the application and blocks until a signal or a service failure.
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start",
		"mode", opts.Mode,
		"services", runner.Names(),
		"addr", opts.Config.Server.Addr(),
		"timezone", opts.Config.App.Timezone,
		"queue_enabled", opts.Config.Queue.Enabled,
	)
	return RunWithOptions(runner, opts)
}
