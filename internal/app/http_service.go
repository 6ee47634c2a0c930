package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/tresmontes-cajas/internal/config"

	"go.uber.org/zap"
)

const readHeaderTimeout = 10 * time.Second

// HTTPService serves the gin engine. Read and write timeouts come from server config
// so roster uploads and report downloads can take longer than a plain JSON call.
type HTTPService struct {
	server *http.Server
	logger *zap.SugaredLogger
}

// NewHTTPService creates the HTTP service for cfg.
func NewHTTPService(cfg config.ServerConfig, handler http.Handler, log *zap.SugaredLogger) *HTTPService {
	return &HTTPService{
		server: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
			ReadTimeout:       seconds(cfg.ReadTimeoutSeconds),
			WriteTimeout:      seconds(cfg.WriteTimeoutSeconds),
		},
		logger: log,
	}
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

// Name service name
func (s *HTTPService) Name() string {
	return "http"
}

// Start listens on the configured address until Stop.
func (s *HTTPService) Start(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("http server not initialized")
	}
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until Stop.
func (s *HTTPService) Serve(ctx context.Context, ln net.Listener) error {
	if s.logger != nil {
		s.logger.Infow("http_listening", "addr", ln.Addr().String(),
			"read_timeout", s.server.ReadTimeout, "write_timeout", s.server.WriteTimeout)
	}
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests until ctx expires.
func (s *HTTPService) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
