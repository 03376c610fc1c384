package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/garyjia/invoice-generator/internal/application/port"
	"github.com/garyjia/invoice-generator/internal/application/service"
	"github.com/garyjia/invoice-generator/internal/config"
	httpserver "github.com/garyjia/invoice-generator/internal/interfaces/http"
	"github.com/garyjia/invoice-generator/internal/layout"
	"github.com/garyjia/invoice-generator/internal/render"
	"github.com/garyjia/invoice-generator/internal/storage"
	"github.com/garyjia/invoice-generator/internal/telemetry"
)

// Container manages all application dependencies and lifecycle.
// Components are built in dependency order by Start.
type Container struct {
	config *config.Config
	logger *zap.Logger

	// Infrastructure
	store    *storage.InvoiceStore
	renderer *render.PDFRenderer
	metrics  *telemetry.Metrics

	// Application
	invoiceService service.InvoiceService

	// Interfaces
	server *httpserver.Server

	// Lifecycle
	mu     sync.Mutex
	ready  atomic.Bool
	closed atomic.Bool
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components:
// 1. Storage and renderer
// 2. Metrics
// 3. Invoice service
// 4. HTTP server
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.logger.Info("Starting container initialization")

	store, err := storage.NewInvoiceStore(c.config.Storage.Dir, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	c.store = store
	c.renderer = render.NewPDFRenderer(c.renderConfig(), c.logger)
	c.logger.Info("Storage initialized", zap.String("dir", c.config.Storage.Dir))

	var recorder port.InvoiceRecorder
	var serverMetrics httpserver.Metrics
	if c.config.Metrics.Enabled {
		c.metrics = telemetry.NewMetrics(c.config.Metrics.Namespace)
		recorder = c.metrics
		serverMetrics = c.metrics
		c.logger.Info("Metrics initialized", zap.String("namespace", c.config.Metrics.Namespace))
	}

	c.invoiceService = service.NewInvoiceService(
		c.renderer,
		c.store,
		recorder,
		service.InvoiceServiceConfig{
			Layout: layout.Options{TrustNotesMarkup: c.config.Render.TrustNotesMarkup},
		},
		&zapLoggerAdapter{logger: c.logger},
	)

	c.server = httpserver.NewServer(
		httpserver.ServerConfig{
			Host:         c.config.Server.Host,
			Port:         c.config.Server.Port,
			ReadTimeout:  c.config.Server.ReadTimeout,
			WriteTimeout: c.config.Server.WriteTimeout,
		},
		c.invoiceService,
		serverMetrics,
		&zapLoggerAdapter{logger: c.logger},
	)

	c.ready.Store(true)
	c.logger.Info("Container started successfully")
	return nil
}

// Close releases the container. The HTTP server is stopped by its own Start.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	var err error
	if c.server != nil {
		err = c.server.Stop()
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if err != nil {
		return fmt.Errorf("stop server: %w", err)
	}
	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Server returns the HTTP server
func (c *Container) Server() *httpserver.Server {
	return c.server
}

// InvoiceService returns the invoice service
func (c *Container) InvoiceService() service.InvoiceService {
	return c.invoiceService
}

func (c *Container) renderConfig() render.Config {
	cfg := render.DefaultConfig()
	r := c.config.Render
	cfg.PageSize = r.PageSize
	cfg.MarginTop = r.MarginTop
	cfg.MarginBottom = r.MarginBottom
	cfg.MarginLeft = r.MarginLeft
	cfg.MarginRight = r.MarginRight
	return cfg
}

// zapLoggerAdapter adapts zap.Logger to the service and http Logger interfaces.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Debug(msg string, keysAndValues ...interface{}) {
	a.logger.Debug(msg, convertToZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, convertToZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, convertToZapFields(keysAndValues...)...)
}

// convertToZapFields converts key-value pairs to zap fields.
func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		if err, isErr := keysAndValues[i+1].(error); isErr {
			fields = append(fields, zap.NamedError(key, err))
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
