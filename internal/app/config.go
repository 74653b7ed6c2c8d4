package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// StorageDriver выбирает реализацию хранилища.
type StorageDriver string

const (
	StorageDriverMemory   StorageDriver = "memory"
	StorageDriverPostgres StorageDriver = "postgres"
)

// Config описывает настройки запуска приложения.
type Config struct {
	MetricsAddr string

	StorageDriver       StorageDriver
	PostgresDSN         string
	PostgresAutoMigrate bool

	// KafkaBrokers — список брокеров через запятую; пустая строка отключает Kafka.
	KafkaBrokers       string
	KafkaGroupID       string
	ConsumerMaxRetries int

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int
	OutboxRetryDelay   time.Duration

	// Способ доставки по умолчанию, регистрируемый в реестре при старте.
	ShippingMethodID      string
	ShippingLabel         string
	ShippingFlatFeeMinor  int64
	ShippingFreeOverMinor int64
}

// DefaultConfig возвращает базовую конфигурацию для локального запуска.
func DefaultConfig() Config {
	return Config{
		MetricsAddr:           ":9090",
		StorageDriver:         StorageDriverMemory,
		PostgresAutoMigrate:   true,
		KafkaGroupID:          "commerce-checkout",
		ConsumerMaxRetries:    3,
		OutboxPollInterval:    1 * time.Second,
		OutboxBatchSize:       100,
		OutboxMaxAttempts:     3,
		OutboxRetryDelay:      50 * time.Millisecond,
		ShippingMethodID:      "standard",
		ShippingLabel:         "Standard delivery",
		ShippingFlatFeeMinor:  495,
		ShippingFreeOverMinor: 0,
	}
}

// LoadConfig читает конфигурацию из окружения поверх DefaultConfig.
func LoadConfig() Config {
	cfg := DefaultConfig()

	cfg.MetricsAddr = envString("COMMERCE_METRICS_ADDR", cfg.MetricsAddr)
	if driver := envString("COMMERCE_STORAGE_DRIVER", ""); driver != "" {
		cfg.StorageDriver = StorageDriver(driver)
	}
	cfg.PostgresDSN = envString("COMMERCE_POSTGRES_DSN", cfg.PostgresDSN)
	cfg.PostgresAutoMigrate = envBool("COMMERCE_POSTGRES_AUTO_MIGRATE", cfg.PostgresAutoMigrate)

	cfg.KafkaBrokers = envString("COMMERCE_KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaGroupID = envString("COMMERCE_KAFKA_GROUP_ID", cfg.KafkaGroupID)
	cfg.ConsumerMaxRetries = envInt("COMMERCE_CONSUMER_MAX_RETRIES", cfg.ConsumerMaxRetries)

	cfg.OutboxPollInterval = envDuration("COMMERCE_OUTBOX_POLL_INTERVAL", cfg.OutboxPollInterval)
	cfg.OutboxBatchSize = envInt("COMMERCE_OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.OutboxMaxAttempts = envInt("COMMERCE_OUTBOX_MAX_ATTEMPTS", cfg.OutboxMaxAttempts)
	cfg.OutboxRetryDelay = envDuration("COMMERCE_OUTBOX_RETRY_DELAY", cfg.OutboxRetryDelay)

	cfg.ShippingMethodID = envString("COMMERCE_SHIPPING_METHOD_ID", cfg.ShippingMethodID)
	cfg.ShippingLabel = envString("COMMERCE_SHIPPING_LABEL", cfg.ShippingLabel)
	cfg.ShippingFlatFeeMinor = envInt64("COMMERCE_SHIPPING_FLAT_FEE_MINOR", cfg.ShippingFlatFeeMinor)
	cfg.ShippingFreeOverMinor = envInt64("COMMERCE_SHIPPING_FREE_OVER_MINOR", cfg.ShippingFreeOverMinor)

	return cfg
}

func envString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envInt64(key string, fallback int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
