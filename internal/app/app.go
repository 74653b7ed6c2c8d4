// Package app собирает сервис из доменных пакетов: хранилище, шина событий,
// Kafka, outbox worker и HTTP-сервер метрик с graceful shutdown.
package app

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/commerce/internal/checkout"
	"github.com/vladislavdragonenkov/commerce/internal/events"
	healthcheck "github.com/vladislavdragonenkov/commerce/internal/health"
	"github.com/vladislavdragonenkov/commerce/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/commerce/internal/metrics"
	"github.com/vladislavdragonenkov/commerce/internal/order"
	"github.com/vladislavdragonenkov/commerce/internal/service/outbox"
	"github.com/vladislavdragonenkov/commerce/internal/shipping"
	"github.com/vladislavdragonenkov/commerce/internal/version"
)

// Run запускает сервис и блокируется до отмены ctx.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	rt, err := initRuntimeDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if rt.closeFn != nil {
		defer func() {
			if err := rt.closeFn(); err != nil {
				logger.WithError(err).Warn("failed to close storage")
			}
		}()
	}

	bus := events.NewBus(logger)
	checkouts := checkout.NewStore()

	methods := shipping.NewRegistry()
	methods.Register(shipping.NewMethod(
		cfg.ShippingMethodID,
		cfg.ShippingLabel,
		shipping.NewFlatFeeCalculator(),
		map[string]any{
			shipping.ConfigAmountMinor:   cfg.ShippingFlatFeeMinor,
			shipping.ConfigFreeOverMinor: cfg.ShippingFreeOverMinor,
			shipping.ConfigLabel:         cfg.ShippingLabel,
		},
	))

	checkoutMetrics := metrics.NewCheckoutMetrics()

	fees := checkout.NewShippingFees(
		rt.adjustments,
		methods,
		checkouts,
		rt.tx,
		logger,
		checkout.WithShippingMetrics(checkoutMetrics),
	)
	fees.Register(bus)

	factory := order.NewFactory(
		rt.orders,
		rt.outboxRepo,
		rt.tx,
		logger,
		order.WithBus(bus),
		order.WithMetrics(checkoutMetrics),
	)

	// Kafka опционален: без брокеров сервис работает на внутренней шине.
	producer, _ := initKafkaProducer(cfg.KafkaBrokers, logger)

	var worker *outbox.Worker
	if producer != nil {
		publisher := kafka.NewOutboxPublisher(producer, kafka.TopicOrderEvents)
		dlqPublisher := kafka.NewOutboxPublisher(producer, kafka.TopicDeadLetterQueue)
		worker = outbox.NewWorker(
			rt.outboxRepo,
			publisher,
			outbox.WithLogger(logger.WithField("component", "outbox-worker")),
			outbox.WithDLQPublisher(dlqPublisher),
			outbox.WithPollInterval(cfg.OutboxPollInterval),
			outbox.WithBatchSize(cfg.OutboxBatchSize),
			outbox.WithMaxAttempts(cfg.OutboxMaxAttempts),
			outbox.WithRetryBaseDelay(cfg.OutboxRetryDelay),
		)
	}

	var consumer *kafka.Consumer
	if producer != nil {
		handler := kafka.DispatchByEventType(map[kafka.EventType]kafka.MessageHandler{
			kafka.EventTypeCartUpdated:       kafka.NewCartEventHandler(rt.carts, bus, logger),
			kafka.EventTypeCheckoutCompleted: kafka.NewCheckoutCompletedHandler(rt.carts, checkouts, factory, logger),
		}, logger)
		consumer, _ = initCartConsumer(cfg, handler, producer, logger)
	}

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	healthHandler.RegisterChecker("storage", rt.storageChecker)

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	workerDone := make(chan struct{})
	if worker != nil {
		go func() {
			defer close(workerDone)
			worker.Run(runCtx)
		}()
	} else {
		close(workerDone)
	}

	if consumer != nil {
		if err := consumer.Start(runCtx); err != nil {
			logger.WithError(err).Error("failed to start kafka consumer")
		}
	}

	<-ctx.Done()
	logger.Info("получен сигнал остановки, останавливаем сервис")

	cancel()
	<-workerDone

	if consumer != nil {
		if err := consumer.Stop(); err != nil {
			logger.WithError(err).Warn("failed to stop kafka consumer")
		}
	}
	shutdownHTTP(metricsSrv, logger)
	closeKafka(producer, logger)

	return ctx.Err()
}
