package queue

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tresmontes-cajas/internal/config"
	"github.com/tresmontes-cajas/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue queue used when the config lists none.
	DefaultQueue = constants.QueueDefault
)

// ErrDisabled the queue is not configured.
var ErrDisabled = errors.New("queue disabled")

// Client wraps the asynq client.
type Client struct {
	client       *asynq.Client
	enabled      bool
	defaultQueue string
}

// NewClient creates a client; a disabled config yields a client whose Enabled is false.
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{enabled: false, defaultQueue: DefaultQueue}, nil
	}
	opt := buildRedisOpt(cfg)
	client := asynq.NewClient(opt)
	return &Client{
		client:       client,
		enabled:      true,
		defaultQueue: DefaultQueue,
	}, nil
}

// Enabled reports whether tasks can be enqueued.
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close closes the client.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueRenumber pushes a renumber task. Only one may be pending at a time.
func (c *Client) EnqueueRenumber(payload RenumberPayload, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	task, err := NewRenumberTask(payload)
	if err != nil {
		return nil, err
	}
	options := append([]asynq.Option{
		asynq.Queue(c.defaultQueue),
		asynq.MaxRetry(1),
		asynq.Unique(10 * time.Minute),
	}, opts...)
	return c.client.Enqueue(task, options...)
}

// EnqueueReportExport pushes an export task.
func (c *Client) EnqueueReportExport(payload ReportExportPayload, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	task, err := NewReportExportTask(payload)
	if err != nil {
		return nil, err
	}
	options := append([]asynq.Option{asynq.Queue(c.defaultQueue), asynq.MaxRetry(3)}, opts...)
	return c.client.Enqueue(task, options...)
}

// BuildServerConfig returns the asynq server options.
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	opt := buildRedisOpt(cfg)
	concurrency := 10
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{DefaultQueue: 1}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host := "127.0.0.1"
	port := 6379
	password := ""
	db := 0
	if cfg != nil {
		if strings.TrimSpace(cfg.Host) != "" {
			host = strings.TrimSpace(cfg.Host)
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		password = cfg.Password
		db = cfg.DB
	}
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	}
}
