// Package app provides the dependency injection container that assembles application components.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	authHTTP "github.com/allisson/farmaggregator/internal/auth/http"
	authService "github.com/allisson/farmaggregator/internal/auth/service"
	authUseCase "github.com/allisson/farmaggregator/internal/auth/usecase"
	"github.com/allisson/farmaggregator/internal/config"
	cryptoService "github.com/allisson/farmaggregator/internal/crypto/service"
	"github.com/allisson/farmaggregator/internal/database"
	farmHTTP "github.com/allisson/farmaggregator/internal/farm/http"
	farmService "github.com/allisson/farmaggregator/internal/farm/service"
	farmUseCase "github.com/allisson/farmaggregator/internal/farm/usecase"
	apphttp "github.com/allisson/farmaggregator/internal/http"
	"github.com/allisson/farmaggregator/internal/metrics"
	notificationService "github.com/allisson/farmaggregator/internal/notification/service"
	notificationUseCase "github.com/allisson/farmaggregator/internal/notification/usecase"
)

// Container holds all application dependencies. Components are created on first access.
type Container struct {
	config *config.Config

	// ctx bounds background work owned by the container; cancelled on Shutdown.
	ctx    context.Context
	cancel context.CancelFunc

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	txManager       database.TxManager
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	tokenCipher     cryptoService.TokenCipher
	farmHTTPClient  *http.Client

	// Auth
	secretService    authService.SecretService
	tokenService     authService.TokenService
	clientRepository authUseCase.ClientRepository
	tokenRepository  authUseCase.TokenRepository
	clientUseCase    authUseCase.ClientUseCase
	tokenUseCase     authUseCase.TokenUseCase
	tokenHandler     *authHTTP.TokenHandler

	// Notification
	userRepository notificationUseCase.UserRepository
	mailer         notificationService.Mailer
	alertSink      notificationUseCase.AlertSink

	// Farm
	farmRepository       farmUseCase.FarmRepository
	farmTokenRepository  farmUseCase.FarmTokenRepository
	tokenStore           farmUseCase.TokenStore
	farmResolver         farmUseCase.FarmResolver
	tokenExchanger       farmService.TokenExchanger
	clientFactory        farmUseCase.ClientFactory
	authorizationUseCase farmUseCase.AuthorizationUseCase
	farmRegistry         farmUseCase.FarmRegistry
	farmHandler          *farmHTTP.FarmHandler

	// Servers
	httpServer    *apphttp.Server
	metricsServer *apphttp.MetricsServer

	mu                       sync.Mutex
	loggerInit               sync.Once
	dbInit                   sync.Once
	txManagerInit            sync.Once
	metricsProviderInit      sync.Once
	businessMetricsInit      sync.Once
	tokenCipherInit          sync.Once
	farmHTTPClientInit       sync.Once
	secretServiceInit        sync.Once
	tokenServiceInit         sync.Once
	clientRepositoryInit     sync.Once
	tokenRepositoryInit      sync.Once
	clientUseCaseInit        sync.Once
	tokenUseCaseInit         sync.Once
	tokenHandlerInit         sync.Once
	userRepositoryInit       sync.Once
	mailerInit               sync.Once
	alertSinkInit            sync.Once
	farmRepositoryInit       sync.Once
	farmTokenRepositoryInit  sync.Once
	tokenStoreInit           sync.Once
	farmResolverInit         sync.Once
	tokenExchangerInit       sync.Once
	clientFactoryInit        sync.Once
	authorizationUseCaseInit sync.Once
	farmRegistryInit         sync.Once
	farmHandlerInit          sync.Once
	httpServerInit           sync.Once
	metricsServerInit        sync.Once
	initErrors               map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	ctx, cancel := context.WithCancel(context.Background())
	return &Container{
		config:     cfg,
		ctx:        ctx,
		cancel:     cancel,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// storedError returns the error recorded by a previous failed initialization of name.
func (c *Container) storedError(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initErrors[name]
}

func (c *Container) recordError(name string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initErrors[name] = err
}

// Logger returns the JSON structured logger configured from LOG_LEVEL.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := c.initDB()
		if err != nil {
			c.recordError("db", err)
			return
		}
		c.db = db
	})
	if err := c.storedError("db"); err != nil {
		return nil, err
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.recordError("txManager", fmt.Errorf("failed to get database for tx manager: %w", err))
			return
		}
		c.txManager = database.NewTxManager(db)
	})
	if err := c.storedError("txManager"); err != nil {
		return nil, err
	}
	return c.txManager, nil
}

// MetricsProvider returns the OpenTelemetry provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.recordError("metricsProvider", fmt.Errorf("failed to create metrics provider: %w", err))
			return
		}
		c.metricsProvider = provider
	})
	if err := c.storedError("metricsProvider"); err != nil {
		return nil, err
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder; a no-op one when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.recordError("businessMetrics", err)
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		bm, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.recordError("businessMetrics", fmt.Errorf("failed to create business metrics: %w", err))
			return
		}
		c.businessMetrics = bm
	})
	if err := c.storedError("businessMetrics"); err != nil {
		return nil, err
	}
	return c.businessMetrics, nil
}

// TokenCipher returns the cipher that seals farm tokens at rest.
func (c *Container) TokenCipher() (cryptoService.TokenCipher, error) {
	c.tokenCipherInit.Do(func() {
		cipher, err := cryptoService.OpenTokenCipher(c.ctx, c.config.TokenEncryptionKeyURI)
		if err != nil {
			c.recordError("tokenCipher", fmt.Errorf("failed to open token cipher: %w", err))
			return
		}
		c.tokenCipher = cipher
	})
	if err := c.storedError("tokenCipher"); err != nil {
		return nil, err
	}
	return c.tokenCipher, nil
}

// FarmHTTPClient returns the outbound client used for every farm request.
func (c *Container) FarmHTTPClient() (*http.Client, error) {
	c.farmHTTPClientInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.recordError("farmHTTPClient", err)
			return
		}

		transport := http.DefaultTransport
		if provider != nil {
			transport = otelhttp.NewTransport(transport, otelhttp.WithMeterProvider(provider.MeterProvider()))
		}
		c.farmHTTPClient = &http.Client{
			Transport: transport,
			Timeout:   c.config.FarmHTTPTimeout,
		}
	})
	if err := c.storedError("farmHTTPClient"); err != nil {
		return nil, err
	}
	return c.farmHTTPClient, nil
}

// HTTPServer returns the API server with its router configured.
func (c *Container) HTTPServer() (*apphttp.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.recordError("httpServer", err)
			return
		}
		c.httpServer = server
	})
	if err := c.storedError("httpServer"); err != nil {
		return nil, err
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*apphttp.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.recordError("metricsServer", err)
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = apphttp.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if err := c.storedError("metricsServer"); err != nil {
		return nil, err
	}
	return c.metricsServer, nil
}

// Shutdown releases every initialized resource.
func (c *Container) Shutdown(ctx context.Context) error {
	c.cancel()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.tokenCipher != nil {
		if err := c.tokenCipher.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("token cipher close: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}

func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(c.ctx, database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func (c *Container) initHTTPServer() (*apphttp.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	tokenHandler, err := c.TokenHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get token handler for http server: %w", err)
	}

	farmHandler, err := c.FarmHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get farm handler for http server: %w", err)
	}

	tokenUseCase, err := c.TokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get token use case for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := apphttp.NewServer(db, c.config.ServerHost, c.config.ServerPort, c.Logger())
	server.SetupRouter(
		c.ctx,
		c.config,
		tokenHandler,
		farmHandler,
		tokenUseCase,
		c.TokenService(),
		provider,
	)
	return server, nil
}
