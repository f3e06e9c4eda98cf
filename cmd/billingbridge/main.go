package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	config "github.com/davicafu/billingbridge/internal/config"
	eventApp "github.com/davicafu/billingbridge/internal/event/application"
	eventHttp "github.com/davicafu/billingbridge/internal/event/infra/inbound/http"
	eventGateway "github.com/davicafu/billingbridge/internal/event/infra/outbound/gateway"
	invoiceApp "github.com/davicafu/billingbridge/internal/invoice/application"
	invoiceHttp "github.com/davicafu/billingbridge/internal/invoice/infra/inbound/http"
	invoiceGateway "github.com/davicafu/billingbridge/internal/invoice/infra/outbound/gateway"
	paymentApp "github.com/davicafu/billingbridge/internal/payment/application"
	paymentHttp "github.com/davicafu/billingbridge/internal/payment/infra/inbound/http"
	paymentGateway "github.com/davicafu/billingbridge/internal/payment/infra/outbound/gateway"
	sharedApp "github.com/davicafu/billingbridge/internal/shared/application"
	infraEvents "github.com/davicafu/billingbridge/internal/shared/infra/events"
	"github.com/davicafu/billingbridge/internal/shared/infra/gateway"
	sharedBus "github.com/davicafu/billingbridge/internal/shared/infra/platform/bus"
	sharedCache "github.com/davicafu/billingbridge/internal/shared/infra/platform/cache"
	"github.com/davicafu/billingbridge/internal/shared/temporal"
	"github.com/davicafu/billingbridge/pkg/logger"
)

// ---------------- Main ----------------
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger.Init(cfg.LogLevel) // inicializa zap
	log := logger.Logger()    // obtiene logger estructurado
	defer log.Sync()          // flush buffers al salir

	if err := cfg.Validate(); err != nil {
		log.Fatal("configuración inválida", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---------------- Motor de facturación ----------------
	engine, err := gateway.New(gateway.Config{
		BaseURL:   cfg.BillingAPIURL,
		APIKey:    cfg.BillingAPIKey,
		Timeout:   cfg.BillingTimeout,
		UserAgent: cfg.BillingUserAgent,
	}, log)
	if err != nil {
		log.Fatal("failed to build billing engine client", zap.Error(err))
	}

	// ---------------- Cache ----------------
	stopCache := func() {}
	var cacheInstance sharedCache.Cache
	inMemoryCache := func() sharedCache.Cache {
		c := sharedCache.NewInMemoryCache(sharedCache.DefaultCleanupInterval)
		stopCache = c.Stop
		return c
	}
	if cfg.RedisAddr == "" {
		log.Info("⚡️ REDIS_ADDR vacío, detección de repeticiones en memoria")
		cacheInstance = inMemoryCache()
	} else if rdb, err := sharedCache.NewRedisClient(ctx, cfg.RedisAddr); err != nil {
		log.Warn("⚠️ Redis no disponible, cache en memoria:", zap.Error(err))
		cacheInstance = inMemoryCache()
	} else {
		stopCache = func() { _ = rdb.Close() }
		cacheInstance = sharedCache.NewRedisCache(rdb)
		log.Info("✅ Redis conectado, cache habilitado")
	}
	defer stopCache()

	// ---------------- Events ---------------
	bus, closeBus := buildEventBus(ctx, cfg, log)
	defer closeBus()
	publisher := sharedApp.NewDomainEventPublisher(bus, log)

	// --------------- Servicios --------------
	normalizer := temporal.NewNormalizer()
	usageEventService := eventApp.NewUsageEventService(
		normalizer,
		eventGateway.NewUsageEventClient(engine),
		publisher,
		cacheInstance,
		cfg.IdempotencyTTL,
		log,
	)
	paymentService := paymentApp.NewPaymentService(
		normalizer,
		paymentGateway.NewPaymentClient(engine),
		publisher,
		cacheInstance,
		cfg.IdempotencyTTL,
		cfg.DefaultCurrency,
		log,
	)
	invoiceService := invoiceApp.NewInvoiceService(invoiceGateway.NewInvoiceClient(engine), publisher, log)

	// ---------------- HTTP ----------------
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(handlers{
		usageEvents: eventHttp.NewUsageEventHandler(usageEventService),
		payments:    paymentHttp.NewPaymentHandler(paymentService),
		invoices:    invoiceHttp.NewInvoiceHandler(invoiceService),
	}, time.Now, log)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("🚀 Server running", zap.String("url", "http://localhost:"+cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("🛑 Apagando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown incompleto", zap.Error(err))
	}
}

// buildEventBus elige el bus según EVENT_BUS. La función devuelta cierra las conexiones.
func buildEventBus(ctx context.Context, cfg *config.Config, log *zap.Logger) (sharedBus.EventBus, func()) {
	switch cfg.EventBus {
	case config.BusKafka:
		log.Info("🚀 Usando Kafka como bus de eventos", zap.Strings("brokers", cfg.KafkaBrokers))
		writer := infraEvents.NewKafkaWriter(cfg.KafkaBrokers, cfg.EventExchange)
		publisher := infraEvents.NewKafkaPublisher(writer, cfg.EventExchange, log)
		return publisher, func() { _ = publisher.Close() }

	case config.BusMemory:
		log.Info("⚡️Usando bus de eventos en memoria (canales de Go)")
		inMemoryBus := infraEvents.NewInMemoryEventBus()
		log.Info("🎧 Iniciando listener en memoria para eventos de dominio")
		infraEvents.BackgroundConsumerChan(ctx, inMemoryBus.Subscribe(64), infraEvents.NewLogHandler(log))
		return inMemoryBus, func() {}

	default:
		log.Info("🐇 Usando RabbitMQ como bus de eventos", zap.String("exchange", cfg.EventExchange))
		publisher, err := infraEvents.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.EventExchange, log)
		if err != nil {
			log.Fatal("failed to connect to RabbitMQ", zap.Error(err))
		}
		return publisher, func() { _ = publisher.Close() }
	}
}
