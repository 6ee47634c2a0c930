package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/tresmontes-cajas/internal/config"
	"github.com/tresmontes-cajas/internal/logger"
	"github.com/tresmontes-cajas/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	exportCleanupInterval = time.Hour
	exportRetention       = 7 * 24 * time.Hour
)

// Service asynq server lifecycle
type Service struct {
	name      string
	server    *asynq.Server
	mux       *asynq.ServeMux
	consumer  *Consumer
	exportDir string
}

// NewService creates the worker service.
func NewService(cfg *config.QueueConfig, exportDir string, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:      "worker",
		server:    server,
		mux:       mux,
		consumer:  consumer,
		exportDir: exportDir,
	}, nil
}

// Name service name
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start runs the server until Stop.
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.exportDir != "" {
		go s.runExportCleanupLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop shuts the server down.
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func (s *Service) runExportCleanupLoop(ctx context.Context) {
	runOnce := func() {
		removed, err := pruneExports(s.exportDir, time.Now().Add(-exportRetention))
		if err != nil {
			logger.Warnw("worker_export_cleanup_failed", "dir", s.exportDir, "error", err)
			return
		}
		if removed > 0 {
			logger.Infow("worker_export_cleanup_done", "dir", s.exportDir, "removed", removed)
		}
	}
	runOnce()

	ticker := time.NewTicker(exportCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

// pruneExports deletes workbooks in dir last modified before cutoff.
func pruneExports(dir string, cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".xlsx" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return removed, err
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
				return removed, err
			}
			removed++
		}
	}
	return removed, nil
}
