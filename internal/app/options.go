package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tresmontes-cajas/internal/config"
	"github.com/tresmontes-cajas/internal/logger"

	"go.uber.org/zap"
)

// Run modes. api serves the HTTP API only; worker only consumes report export jobs.
const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

const defaultShutdownTimeout = 15 * time.Second

// Options startup options
type Options struct {
	Config          *config.Config
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Mode            string
}

// ParseMode validates a -mode flag value. Empty means ModeAll.
func ParseMode(raw string) (string, error) {
	switch mode := strings.ToLower(strings.TrimSpace(raw)); mode {
	case "":
		return ModeAll, nil
	case ModeAll, ModeAPI, ModeWorker:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown run mode %q (want all, api or worker)", raw)
	}
}

func (o Options) servesHTTP() bool {
	return o.Mode == ModeAll || o.Mode == ModeAPI
}

// runsWorker a disabled queue only drops the worker in all mode; worker mode requires it.
func (o Options) runsWorker() bool {
	return o.Mode == ModeWorker || (o.Mode == ModeAll && o.Config != nil && o.Config.Queue.Enabled)
}

// normalizeOptions fills defaults. The shutdown timeout comes from server config when unset.
func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 && opts.Config != nil && opts.Config.Server.ShutdownTimeoutSeconds > 0 {
		opts.ShutdownTimeout = time.Duration(opts.Config.Server.ShutdownTimeoutSeconds) * time.Second
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	if mode, err := ParseMode(opts.Mode); err == nil {
		opts.Mode = mode
	}
	return opts
}
