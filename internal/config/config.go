package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Tipos de bus de eventos soportados.
const (
	BusRabbitMQ = "rabbitmq"
	BusKafka    = "kafka"
	BusMemory   = "memory"
)

type Config struct {
	HTTPPort string
	LogLevel string

	BillingAPIURL    string
	BillingAPIKey    string
	BillingTimeout   time.Duration
	BillingUserAgent string
	DefaultCurrency  string

	EventBus      string
	EventExchange string
	RabbitMQURL   string
	KafkaBrokers  []string

	RedisAddr      string
	IdempotencyTTL time.Duration

	ShutdownTimeout time.Duration
}

// LoadConfig lee un .env opcional y después las variables de entorno. Las variables del
// proceso tienen prioridad sobre el fichero.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				return nil, fmt.Errorf("load %s: %w", f, err)
			}
		}
	}

	getEnv := func(key, fallback string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	var errs []error
	getDuration := func(key, fallback string) time.Duration {
		raw := getEnv(key, fallback)
		d, err := time.ParseDuration(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid duration %q", key, raw))
			return 0
		}
		return d
	}

	cfg := &Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		BillingAPIURL:    getEnv("BILLING_API_URL", ""),
		BillingAPIKey:    getEnv("BILLING_API_KEY", ""),
		BillingTimeout:   getDuration("BILLING_HTTP_TIMEOUT", "5m"),
		BillingUserAgent: getEnv("BILLING_USER_AGENT", "billingbridge/1.0"),
		DefaultCurrency:  strings.ToUpper(getEnv("DEFAULT_CURRENCY", "MWK")),

		EventBus:      strings.ToLower(getEnv("EVENT_BUS", BusRabbitMQ)),
		EventExchange: getEnv("EVENT_EXCHANGE", "billing.events"),
		RabbitMQURL:   getEnv("RABBITMQ_URL", ""),
		KafkaBrokers:  splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),

		RedisAddr:      getEnv("REDIS_ADDR", ""),
		IdempotencyTTL: getDuration("IDEMPOTENCY_TTL", "24h"),

		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", "10s"),
	}

	if cfg.RabbitMQURL == "" {
		cfg.RabbitMQURL = rabbitURL(
			getEnv("RABBITMQ_USER", "guest"),
			getEnv("RABBITMQ_PASSWORD", "guest"),
			getEnv("RABBITMQ_HOST", "localhost"),
			getEnv("RABBITMQ_PORT", "5672"),
		)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// Validate rechaza configuraciones con las que el servicio no puede arrancar.
func (c *Config) Validate() error {
	var errs []error
	if c.BillingAPIURL == "" {
		errs = append(errs, errors.New("BILLING_API_URL is required"))
	} else if u, err := url.Parse(c.BillingAPIURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("BILLING_API_URL %q is not an absolute URL", c.BillingAPIURL))
	}
	if c.BillingAPIKey == "" {
		errs = append(errs, errors.New("BILLING_API_KEY is required"))
	}
	if len(c.DefaultCurrency) != 3 {
		errs = append(errs, fmt.Errorf("DEFAULT_CURRENCY %q must have 3 letters", c.DefaultCurrency))
	}
	switch c.EventBus {
	case BusRabbitMQ, BusMemory:
	case BusKafka:
		if len(c.KafkaBrokers) == 0 {
			errs = append(errs, errors.New("KAFKA_BROKERS is required for the kafka bus"))
		}
	default:
		errs = append(errs, fmt.Errorf("EVENT_BUS %q must be one of rabbitmq, kafka, memory", c.EventBus))
	}
	// La caché guarda el TTL en segundos enteros; por debajo de 1s quedaría sin caducidad.
	if c.IdempotencyTTL < time.Second {
		errs = append(errs, fmt.Errorf("IDEMPOTENCY_TTL %s must be at least 1s", c.IdempotencyTTL))
	}
	if c.BillingTimeout <= 0 {
		errs = append(errs, errors.New("BILLING_HTTP_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

func rabbitURL(user, password, host, port string) string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(user, password),
		Host:   host + ":" + port,
		Path:   "/",
	}
	return u.String()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
