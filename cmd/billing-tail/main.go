// billing-tail se suscribe al bus de eventos de dominio y registra cada evento recibido.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	config "github.com/davicafu/billingbridge/internal/config"
	infraEvents "github.com/davicafu/billingbridge/internal/shared/infra/events"
	"github.com/davicafu/billingbridge/pkg/logger"
)

func main() {
	bindingKey := flag.String("binding", "#", "patrón de routing key (solo rabbitmq)")
	groupID := flag.String("group", "billing-tail", "consumer group (solo kafka)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger.Init(cfg.LogLevel)
	log := logger.Logger()
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := infraEvents.NewLogHandler(log)

	switch cfg.EventBus {
	case config.BusKafka:
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    cfg.EventExchange,
			GroupID:  *groupID,
			MinBytes: 1,
			MaxBytes: 10e6, // 10MB
		})
		defer reader.Close()
		infraEvents.NewConsumerAdapter(reader, handler, log).Start(ctx)

	case config.BusRabbitMQ:
		consumer, err := infraEvents.NewRabbitMQConsumer(cfg.RabbitMQURL, cfg.EventExchange, *bindingKey, handler, log)
		if err != nil {
			log.Fatal("failed to connect to RabbitMQ", zap.Error(err))
		}
		defer consumer.Close()
		if err := consumer.Start(ctx); err != nil {
			log.Fatal("failed to start consumer", zap.Error(err))
		}

	default:
		log.Fatal("billing-tail necesita un bus externo (rabbitmq o kafka)", zap.String("event_bus", cfg.EventBus))
	}

	<-ctx.Done()
	log.Info("👋 billing-tail detenido")
}
