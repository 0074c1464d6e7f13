package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/orders_sync/config"
	"github.com/Gunvolt24/orders_sync/internal/cache/query"
	"github.com/Gunvolt24/orders_sync/internal/domain"
	"github.com/Gunvolt24/orders_sync/internal/fixtures"
	"github.com/Gunvolt24/orders_sync/internal/gateway"
	"github.com/Gunvolt24/orders_sync/internal/gateway/memory"
	"github.com/Gunvolt24/orders_sync/internal/gateway/remote"
	"github.com/Gunvolt24/orders_sync/internal/kafka"
	"github.com/Gunvolt24/orders_sync/internal/ports"
	"github.com/Gunvolt24/orders_sync/internal/presentation"
	"github.com/Gunvolt24/orders_sync/internal/repository/orders"
	"github.com/Gunvolt24/orders_sync/internal/selectors"
	"github.com/Gunvolt24/orders_sync/internal/store/postgres"
	rest "github.com/Gunvolt24/orders_sync/internal/transport/http"
	"github.com/Gunvolt24/orders_sync/internal/usecase"
	"github.com/Gunvolt24/orders_sync/pkg/logger"
	"github.com/Gunvolt24/orders_sync/pkg/metrics"
	"github.com/Gunvolt24/orders_sync/pkg/telemetry"
	"github.com/Gunvolt24/orders_sync/pkg/validate"
)

// App — собранное приложение и его внешние интерфейсы (HTTP, consumer, модуль заказов).
type App struct {
	Logger          ports.Logger          // логгер
	HTTPServer      *http.Server          // HTTP-сервер
	KafkaConsumer   ports.MessageConsumer // консьюмер сообщений; nil — выключен
	Orders          *OrdersModule         // жизненный цикл кэша заказов; nil — без него
	gracefulTimeout time.Duration         // время ожидания завершения HTTP-сервера
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим и уровень задаются конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd, cfg.Logger.Level)
	if err != nil {
		return nil, func() {}, err
	}
	closeLogger := func() {
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	// Пул подключений Postgres.
	pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	if err != nil {
		closeLogger()
		return nil, func() {}, err
	}

	// Трейсинг OTEL; при выключенном — только пропагаторы.
	shutdownTrace, err := telemetry.SetupTracing(ctx, telemetry.Options{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		logg.Warnf(ctx, "failed to setup tracing: %v", err)
		shutdownTrace = func(context.Context) error { return nil }
	} else if cfg.Tracing.Enabled {
		logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
			cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
	}

	orderValidator := validate.NewOrderValidator()
	orderStore := postgres.NewOrderStore(pool)

	// Источники заказов ядра.
	seed, err := seedOrders(ctx, cfg.Local.SeedPath, orderValidator)
	if err != nil {
		_ = shutdownTrace(ctx)
		pool.Close()
		closeLogger()
		return nil, func() {}, err
	}
	gateways := gateway.NewFactory(map[domain.Resource]ports.OrdersGateway{
		domain.ResourceLocal: gateway.Instrument(domain.ResourceLocal,
			memory.New(seed, memory.WithDelay(cfg.Local.Delay)), logg),
		domain.ResourceRemote: gateway.Instrument(domain.ResourceRemote,
			remote.New(cfg.Remote.BaseURL, remote.NewHTTPClient(cfg.Remote.Timeout), orderValidator), logg),
	})

	// Кэш запросов, выбор источника и репозиторий.
	queryClient := query.NewClient(
		query.WithStaleTime(cfg.Query.StaleTime),
		query.WithGCTime(cfg.Query.GCTime),
		query.WithLogger(logg),
		query.WithMetrics(metrics.Query{}),
	)
	resources := presentation.NewResourceStore(defaultResource(ctx, cfg.DefaultResource, logg))
	ordersRepo := orders.New(queryClient, gateways, resources, logg)

	selectorSet, err := selectors.NewSet(cfg.Query.SelectorCacheSize)
	if err != nil {
		queryClient.Close()
		pool.Close()
		closeLogger()
		return nil, func() {}, err
	}

	// Режим Gin.
	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	// Роутер и HTTP-сервер.
	apiHandler := rest.NewAPIHandler(orderStore, logg, cfg.HTTP.HandlerTimeout)
	viewHandler := rest.NewViewHandler(ordersRepo, selectorSet, resources, rest.ViewUseCases{
		DeleteOrder:     usecase.NewDeleteOrderUseCase(ordersRepo, logg),
		DeleteOrderItem: usecase.NewDeleteOrderItemUseCase(ordersRepo, logg),
		SwitchResource:  usecase.NewSwitchResourceUseCase(resources, logg),
	}, logg, cfg.HTTP.HandlerTimeout)
	router := rest.NewRouter(apiHandler, viewHandler, logg, otelServiceName)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	// Консьюмер Kafka: снимки заказов в хранилище REST API.
	var consumer *kafka.Consumer
	if cfg.Kafka.Enabled {
		kafkaCfg := kafka.ConsumerConfig{
			Brokers:        cfg.Kafka.Brokers,
			GroupID:        cfg.Kafka.GroupID,
			Topic:          cfg.Kafka.Topic,
			StartOffset:    cfg.Kafka.StartOffset,
			ProcessTimeout: cfg.Kafka.ProcessTimeout,
			RetryInitial:   cfg.Kafka.RetryInitial,
			RetryMax:       cfg.Kafka.RetryMax,
		}
		if err := kafkaCfg.Validate(); err != nil {
			queryClient.Close()
			_ = shutdownTrace(ctx)
			pool.Close()
			closeLogger()
			return nil, func() {}, fmt.Errorf("kafka config: %w", err)
		}
		// новый снимок в хранилище делает устаревшими данные remote-источника
		refreshRemote := kafka.WithIngestHook(func(ctx context.Context) {
			if err := ordersRepo.Invalidate(ctx, domain.ResourceRemote); err != nil {
				logg.Warnf(ctx, "invalidate remote orders after ingest: %v", err)
			}
		})
		consumer = kafka.NewConsumer(&kafkaCfg, usecase.NewIngestService(orderStore, logg, orderValidator), logg, refreshRemote)
	}

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		Orders:          NewOrdersModule(ordersRepo, resources, logg),
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}
	if consumer != nil {
		app.KafkaConsumer = consumer
	}

	// Очистка ресурсов (в обратном порядке).
	cleanup := func() {
		queryClient.Close()
		if terr := shutdownTrace(context.Background()); terr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", terr)
		}
		if consumer != nil {
			if err := consumer.Close(); err != nil {
				logg.Warnf(ctx, "kafka consumer close error: %v", err)
			}
		}

		pool.Close()
		closeLogger()
	}

	return app, cleanup, nil
}

// seedOrders — данные local-источника: файл, если задан, иначе встроенный набор.
func seedOrders(ctx context.Context, path string, validator ports.OrderValidator) ([]domain.OrderEntity, error) {
	if strings.TrimSpace(path) == "" {
		return fixtures.Orders(), nil
	}
	return fixtures.LoadFile(ctx, path, validator)
}

// defaultResource — источник из конфигурации; неизвестный → local и предупреждение.
func defaultResource(ctx context.Context, raw string, log ports.Logger) domain.Resource {
	res, err := domain.ParseResource(raw)
	if err != nil {
		log.Warnf(ctx, "default resource: %v, fallback to %s", err, domain.ResourceLocal)
		return domain.ResourceLocal
	}
	return res
}

// Run — запускает HTTP-сервер и консьюмера; ждёт отмены контекста или ошибки и останавливает их.
// Отмена ctx — штатная остановка (nil); сбой компонента возвращается после остановки остальных.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	if a.Orders != nil {
		a.Orders.Mount(runCtx)
	}

	consumerDone := make(chan struct{})
	if a.KafkaConsumer != nil {
		go func() {
			defer close(consumerDone)
			a.Logger.Infof(ctx, "kafka consumer starting")
			if err := a.KafkaConsumer.Run(runCtx); err != nil {
				errCh <- fmt.Errorf("kafka consumer: %w", err)
			}
		}()
	} else {
		close(consumerDone)
	}

	go func() {
		a.Logger.Infof(ctx, "http server starting (addr=%s)", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Errorf(ctx, "background error: %v", err)
			runErr = err
		}
	}
	stop()

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
	} else {
		a.Logger.Infof(ctx, "http server stopped gracefully")
	}

	// незавершённые загрузки и мутации заказов отменяются
	if a.Orders != nil {
		a.Orders.Unmount(ctx)
	}

	select {
	case <-consumerDone:
	case <-shutdownCtx.Done():
		a.Logger.Warnf(ctx, "kafka consumer did not stop in %s", gt)
	}
	if a.KafkaConsumer != nil {
		if err := a.KafkaConsumer.Close(); err != nil {
			a.Logger.Warnf(ctx, "kafka consumer close error: %v", err)
		}
	}

	a.Logger.Infof(ctx, "service stopped")
	return runErr
}
