package app

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fanwaves/internal/cart"
	"github.com/vladislavdragonenkov/fanwaves/internal/checkout"
	"github.com/vladislavdragonenkov/fanwaves/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/fanwaves/internal/health"
	"github.com/vladislavdragonenkov/fanwaves/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/fanwaves/internal/metrics"
	"github.com/vladislavdragonenkov/fanwaves/internal/version"
)

// Runtime собирает зависимости одного процесса: корзину и всё вокруг неё.
type Runtime struct {
	Config   Config
	Logger   *log.Entry
	Cart     *cart.Store
	Checkout *checkout.Service
	Metrics  *metrics.CartMetrics
	Registry *prometheus.Registry
	Health   *healthcheck.Handler

	storage  *storageDependencies
	producer *kafka.Producer
}

// Open собирает Runtime. out получает запросы на оформление, когда Kafka не настроен.
func Open(ctx context.Context, cfg Config, out io.Writer, logger *log.Entry) (*Runtime, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}
	if out == nil {
		out = os.Stdout
	}
	if cfg.CartKey == "" {
		cfg.CartKey = cart.DefaultKey
	}

	storage, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	cartMetrics := metrics.NewCartMetricsWithRegisterer(registry)

	store := cart.NewStore(storage.snapshots, cfg.CartKey, cartMetrics, logger.WithField("component", "cart"))

	health := healthcheck.NewHandler(version.GetVersion())
	health.RegisterChecker("snapshot-store", storage.storageChecker)

	var publisher domain.CheckoutPublisher = checkout.NewWriterPublisher(out)
	producer, kafkaErr := initKafkaProducer(cfg, logger)
	switch {
	case kafkaErr != nil:
		health.RegisterChecker("checkout-broker", healthcheck.NewDegradingChecker("checkout-broker", func() error {
			return kafkaErr
		}))
	case producer != nil:
		publisher = checkout.NewRetryingPublisher(producer, checkout.DefaultRetryConfig(), logger.WithField("component", "checkout-retry"))
	}

	return &Runtime{
		Config:   cfg,
		Logger:   logger,
		Cart:     store,
		Checkout: checkout.NewService(store, publisher, cartMetrics, logger.WithField("component", "checkout")),
		Metrics:  cartMetrics,
		Registry: registry,
		Health:   health,
		storage:  storage,
		producer: producer,
	}, nil
}

// Close выгружает метрики в MetricsFile и освобождает подключения.
func (r *Runtime) Close() error {
	var errs []error

	if r.Config.MetricsFile != "" {
		if err := metrics.WriteTextfile(r.Config.MetricsFile, r.Registry); err != nil {
			errs = append(errs, err)
		}
	}

	closeKafka(r.producer, r.Logger)

	if r.storage != nil && r.storage.closeFn != nil {
		if err := r.storage.closeFn(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// ServeOps держит ops-сервер до отмены ctx. Пустой MetricsAddr: сразу nil.
func (r *Runtime) ServeOps(ctx context.Context) error {
	if r.Config.MetricsAddr == "" {
		return nil
	}
	srv, err := startOpsServer(ctx, r.Config.MetricsAddr, r.Logger, r.Registry, r.Health)
	if err != nil {
		return err
	}
	<-ctx.Done()
	shutdownHTTP(srv, r.Logger)
	return nil
}
