// Package container - Dependency Injection container for the application.
//
// Container управляет жизненным циклом всех зависимостей:
// - Создание (eager initialization в Initialize)
// - Доступ (getters)
// - Закрытие (cleanup)
//
// Pattern: Composition Root
// - Все зависимости собираются в одном месте
// - Легко тестировать
// - Легко заменять реализации
package container

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/wallethub/core/internal/adapters/http"
	"github.com/wallethub/core/internal/adapters/http/handlers"
	"github.com/wallethub/core/internal/adapters/http/middleware"
	"github.com/wallethub/core/internal/application/orchestrator"
	"github.com/wallethub/core/internal/application/ports"
	"github.com/wallethub/core/internal/application/usecases/transaction"
	"github.com/wallethub/core/internal/application/usecases/wallet"
	"github.com/wallethub/core/internal/application/worker"
	"github.com/wallethub/core/internal/config"
	"github.com/wallethub/core/internal/domain/entities"
	"github.com/wallethub/core/internal/infrastructure/bus/natsjs"
	"github.com/wallethub/core/internal/infrastructure/cache/rediscache"
	"github.com/wallethub/core/internal/infrastructure/fxsource"
	"github.com/wallethub/core/internal/infrastructure/persistence/postgres"
	"github.com/wallethub/core/internal/infrastructure/provider"
	"github.com/wallethub/core/internal/infrastructure/scheduler"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// Container
// ============================================

// Container - DI контейнер приложения.
type Container struct {
	config *config.Config
	logger *slog.Logger

	// Infrastructure
	pool        *pgxpool.Pool
	redisClient *redis.Client
	natsConn    *nats.Conn
	js          nats.JetStreamContext

	// Repositories
	walletRepo        ports.WalletRepository
	accountRepo       ports.WalletAccountRepository
	txRepo            ports.TransactionRepository
	rateRepo          ports.CurrencyRateRepository
	balanceRepo       ports.ProviderBalanceRepository
	linkedAccountRepo ports.ProviderLinkedAccountRepository

	// Unit of Work
	uow ports.UnitOfWork

	// Cache / Bus
	idempotencyCache ports.IdempotencyCache
	busProducer      ports.BusProducer
	busConsumer      *natsjs.Consumer

	// Provider gateway
	stripeProvider       *provider.Stripe
	cloudpaymentsProvider *provider.Cloudpayments
	activeProvider       ports.Provider

	// FX
	fxSource    ports.FXSource
	fxRefresher *scheduler.FXRefresher

	// Use Cases
	createWalletUC    *wallet.CreateWalletUseCase
	getBalanceUC      *wallet.GetBalanceUseCase
	transferUC        *transaction.TransferUseCase
	convertUC         *transaction.ConvertUseCase
	createPaymentUC   *transaction.CreatePaymentTransactionUseCase
	connectStripeUC   *transaction.ConnectAccountStripeUseCase
	createWithdrawUC  *transaction.CreateWithdrawTransactionUseCase
	handlePaymentUC   *transaction.HandleStripePaymentUseCase
	handlePayoutUC    *transaction.HandleStripePayoutUseCase

	// Worker / Orchestrator
	walletWorker   *worker.Worker
	resultConsumer *orchestrator.ResultConsumer

	// HTTP
	httpServer *http.Server

	// background subscription lifetime
	bgCtx    context.Context
	bgCancel context.CancelFunc
}

// New создаёт новый контейнер с заданной конфигурацией.
func New(cfg *config.Config) *Container {
	return &Container{
		config: cfg,
	}
}

// ============================================
// Initialization
// ============================================

// Initialize инициализирует все зависимости.
func (c *Container) Initialize(ctx context.Context) error {
	c.logger = c.initLogger()
	c.logger.Info("Initializing application container...")

	c.bgCtx, c.bgCancel = context.WithCancel(context.Background())

	if err := c.initDatabase(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.logger.Info("Database connected")

	c.initRepositories()
	c.logger.Info("Repositories initialized")

	c.initCache()
	c.logger.Info("Idempotency cache connected")

	if err := c.initBus(); err != nil {
		return fmt.Errorf("failed to initialize message bus: %w", err)
	}
	c.logger.Info("Message bus connected")

	if err := c.initProvider(); err != nil {
		return fmt.Errorf("failed to initialize payment provider: %w", err)
	}
	c.logger.Info("Payment provider initialized")

	c.initFX()
	c.logger.Info("FX source initialized")

	c.initUseCases()
	c.logger.Info("Use cases initialized")

	c.initWorker()
	c.logger.Info("Wallet worker initialized")

	c.initHTTPServer()
	c.logger.Info("HTTP server initialized")

	c.fxRefresher.Start(c.bgCtx)
	c.startResultConsumer()

	c.logger.Info("Container initialization complete")
	return nil
}

// initLogger инициализирует логгер.
func (c *Container) initLogger() *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch c.config.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: c.config.App.Debug,
	}

	if c.config.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// initDatabase инициализирует подключение к БД.
func (c *Container) initDatabase(ctx context.Context) error {
	poolConfig, err := pgxpool.ParseConfig(c.config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = c.config.Database.MaxConnections
	poolConfig.MinConns = c.config.Database.MinConnections
	poolConfig.MaxConnLifetime = c.config.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = c.config.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.pool = pool
	return nil
}

// initRepositories инициализирует репозитории и Unit of Work.
func (c *Container) initRepositories() {
	c.walletRepo = postgres.NewWalletRepository(c.pool)
	c.accountRepo = postgres.NewWalletAccountRepository(c.pool)
	c.txRepo = postgres.NewTransactionRepository(c.pool)
	c.rateRepo = postgres.NewCurrencyRateRepository(c.pool)
	c.balanceRepo = postgres.NewProviderBalanceRepository(c.pool)
	c.linkedAccountRepo = postgres.NewProviderLinkedAccountRepository(c.pool)

	c.uow = postgres.NewUnitOfWork(c.pool)
}

// initCache подключается к Redis и строит IdempotencyCache поверх него.
func (c *Container) initCache() {
	c.redisClient = rediscache.NewClient(c.config.Redis.Addr, c.config.Redis.Password, c.config.Redis.DB)
	c.idempotencyCache = rediscache.NewIdempotencyCache(c.redisClient, c.config.Redis.KeyPrefix)
}

// initBus подключается к NATS JetStream, обеспечивает наличие стрима и
// строит producer/consumer поверх подключения.
func (c *Container) initBus() error {
	nc, err := nats.Connect(c.config.Bus.URL)
	if err != nil {
		return fmt.Errorf("connect nats: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return fmt.Errorf("jetstream context: %w", err)
	}

	if err := natsjs.EnsureStream(js, c.config.Bus.StreamName, c.config.Bus.SubjectPrefix); err != nil {
		nc.Close()
		return fmt.Errorf("ensure stream: %w", err)
	}

	c.natsConn = nc
	c.js = js
	c.busProducer = natsjs.NewProducer(js)
	c.busConsumer = natsjs.NewConsumer(js, c.config.Bus.MaxDeliver, c.config.Bus.AckWait)
	return nil
}

// initProvider wires both provider variants and selects the active one
// through the compile-time-exhaustive factory switch.
func (c *Container) initProvider() error {
	stripeClient := provider.NewHTTPStripeClient(c.config.Provider.Stripe.SecretKey)
	c.stripeProvider = provider.NewStripe(stripeClient, provider.StripeConfig{
		SuccessURL:           c.config.Provider.Stripe.SuccessURL,
		CancelURL:            c.config.Provider.Stripe.CancelURL,
		WebhookPaymentSecret: c.config.Provider.Stripe.WebhookPaymentSecret,
		WebhookPayoutSecret:  c.config.Provider.Stripe.WebhookPayoutSecret,
	})
	c.cloudpaymentsProvider = provider.NewCloudpayments()

	active, err := provider.NewProvider(entities.Provider(c.config.Provider.Active), c.stripeProvider, c.cloudpaymentsProvider)
	if err != nil {
		return err
	}
	c.activeProvider = active
	return nil
}

// initFX wires the FX source and refresher, but does not start the
// refresher's ticker — that happens once the rest of the container is up.
func (c *Container) initFX() {
	c.fxSource = fxsource.NewHTTPSource(c.config.FX.SourceURL)
	c.fxRefresher = scheduler.NewFXRefresher(c.fxSource, c.rateRepo)
}

// initUseCases инициализирует use cases.
func (c *Container) initUseCases() {
	c.createWalletUC = wallet.NewCreateWalletUseCase(c.walletRepo, c.uow)
	c.getBalanceUC = wallet.NewGetBalanceUseCase(c.walletRepo, c.accountRepo)

	c.transferUC = transaction.NewTransferUseCase(
		c.walletRepo, c.txRepo, c.idempotencyCache, c.busProducer, c.uow,
		c.config.Bus.SubjectPrefix, c.config.Bus.Partitions,
	)
	c.convertUC = transaction.NewConvertUseCase(
		c.walletRepo, c.txRepo, c.idempotencyCache, c.busProducer, c.uow,
		c.config.Bus.SubjectPrefix, c.config.Bus.Partitions,
	)
	c.createPaymentUC = transaction.NewCreatePaymentTransactionUseCase(
		c.walletRepo, c.txRepo, c.idempotencyCache, c.activeProvider, c.uow,
	)
	c.connectStripeUC = transaction.NewConnectAccountStripeUseCase(c.linkedAccountRepo, c.activeProvider, c.uow)
	c.createWithdrawUC = transaction.NewCreateWithdrawTransactionUseCase(
		c.walletRepo, c.accountRepo, c.txRepo, c.balanceRepo, c.linkedAccountRepo, c.rateRepo,
		c.idempotencyCache, c.activeProvider, c.uow,
	)
	c.handlePaymentUC = transaction.NewHandleStripePaymentUseCase(
		c.txRepo, c.balanceRepo, c.rateRepo, c.idempotencyCache, c.busProducer, c.uow,
		c.config.Bus.SubjectPrefix, c.config.Bus.Partitions,
	)
	c.handlePayoutUC = transaction.NewHandleStripePayoutUseCase(
		c.txRepo, c.balanceRepo, c.rateRepo, c.idempotencyCache, c.busProducer, c.uow,
		c.config.Bus.SubjectPrefix, c.config.Bus.Partitions,
	)
}

// initWorker wires the wallet worker and the settlement-result consumer,
// but does not subscribe either yet — the worker subscribes from
// cmd/worker, the result consumer subscribes from startResultConsumer.
func (c *Container) initWorker() {
	c.walletWorker = worker.New(
		c.accountRepo, c.rateRepo, c.idempotencyCache, c.busProducer, c.uow,
		c.config.Bus.SubjectPrefix, c.config.Bus.ResultSubject, c.config.Bus.DLQSubject,
		c.config.Bus.Partitions,
	)
	c.resultConsumer = orchestrator.New(c.txRepo, c.uow)
}

// startResultConsumer subscribes the admitting side's settlement-result
// consumer in the background for the lifetime of the container.
func (c *Container) startResultConsumer() {
	go func() {
		err := c.busConsumer.Subscribe(c.bgCtx, c.config.Bus.ResultSubject, c.config.Bus.ResultDurable, c.resultConsumer.Handle)
		if err != nil && c.bgCtx.Err() == nil {
			c.logger.Error("result consumer subscription ended", "error", err)
		}
	}()
}

// initHTTPServer инициализирует HTTP сервер.
func (c *Container) initHTTPServer() {
	var tokenValidator func(token string) (*middleware.AuthClaims, error)
	if c.config.Auth.EnableMockAuth {
		tokenValidator = middleware.MockTokenValidator
	} else {
		tokenValidator = middleware.NewJWTTokenValidator(c.config.Auth.JWTSecret, c.config.Auth.JWTIssuer)
	}

	routerConfig := &http.RouterConfig{
		Logger:             c.logger,
		Pool:               c.pool,
		Version:            c.config.App.Version,
		BuildTime:          c.config.App.BuildTime,
		Environment:        c.config.App.Environment,
		AllowedOrigins:     c.config.CORS.AllowedOrigins,
		AuthTokenValidator: tokenValidator,
	}

	router := http.NewRouterBuilder(routerConfig).
		WithWalletHandler(handlers.NewWalletHandler(c.createWalletUC, c.getBalanceUC)).
		WithTransactionHandler(handlers.NewTransactionHandler(
			c.transferUC, c.convertUC, c.createPaymentUC, c.connectStripeUC, c.createWithdrawUC,
		)).
		WithWebhookHandler(handlers.NewWebhookHandler(c.activeProvider, c.handlePaymentUC, c.handlePayoutUC)).
		Build()

	serverConfig := &http.ServerConfig{
		Host:            c.config.Server.Host,
		Port:            fmt.Sprintf("%d", c.config.Server.Port),
		ReadTimeout:     c.config.Server.ReadTimeout,
		WriteTimeout:    c.config.Server.WriteTimeout,
		IdleTimeout:     c.config.Server.IdleTimeout,
		ShutdownTimeout: c.config.Server.ShutdownTimeout,
		Logger:          c.logger,
	}

	c.httpServer = http.NewServer(serverConfig, router)
}

// ============================================
// Getters
// ============================================

// Config возвращает конфигурацию.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger возвращает логгер.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// Pool возвращает пул соединений к БД.
func (c *Container) Pool() *pgxpool.Pool {
	return c.pool
}

// HTTPServer возвращает HTTP сервер.
func (c *Container) HTTPServer() *http.Server {
	return c.httpServer
}

// BusConsumer возвращает consumer шины сообщений, используемый
// cmd/worker для подписки wallet worker'а.
func (c *Container) BusConsumer() *natsjs.Consumer {
	return c.busConsumer
}

// Worker возвращает wallet worker.
func (c *Container) Worker() *worker.Worker {
	return c.walletWorker
}

// ============================================
// Repository Getters
// ============================================

// WalletRepository возвращает репозиторий кошельков.
func (c *Container) WalletRepository() ports.WalletRepository {
	return c.walletRepo
}

// TransactionRepository возвращает репозиторий транзакций.
func (c *Container) TransactionRepository() ports.TransactionRepository {
	return c.txRepo
}

// UnitOfWork возвращает Unit of Work.
func (c *Container) UnitOfWork() ports.UnitOfWork {
	return c.uow
}

// ============================================
// Shutdown
// ============================================

// Shutdown выполняет graceful shutdown всех компонентов.
func (c *Container) Shutdown(ctx context.Context) error {
	c.logger.Info("Shutting down container...")

	var errs []error

	if c.bgCancel != nil {
		c.bgCancel()
	}

	if c.fxRefresher != nil {
		c.fxRefresher.Stop()
	}

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("HTTP server shutdown: %w", err))
		}
	}

	if c.natsConn != nil {
		c.natsConn.Close()
	}

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}

	if c.pool != nil {
		done := make(chan struct{})
		go func() {
			c.pool.Close()
			close(done)
		}()

		select {
		case <-done:
			c.logger.Info("Database connection closed")
		case <-ctx.Done():
			c.logger.Warn("Database close timeout")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	c.logger.Info("Container shutdown complete")
	return nil
}

// ============================================
// Health Check
// ============================================

// HealthStatus - статус здоровья приложения.
type HealthStatus struct {
	Status string            `json:"status"`
	Version string           `json:"version"`
	Uptime time.Duration     `json:"uptime"`
	Checks map[string]string `json:"checks"`
}

// Health возвращает статус здоровья приложения.
func (c *Container) Health(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:  "healthy",
		Version: c.config.App.Version,
		Checks:  make(map[string]string),
	}

	if err := c.pool.Ping(ctx); err != nil {
		status.Status = "unhealthy"
		status.Checks["database"] = "error: " + err.Error()
	} else {
		status.Checks["database"] = "ok"
	}

	if err := c.redisClient.Ping(ctx).Err(); err != nil {
		status.Status = "unhealthy"
		status.Checks["redis"] = "error: " + err.Error()
	} else {
		status.Checks["redis"] = "ok"
	}

	return status
}
