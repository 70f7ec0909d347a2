// Package app собирает зависимости корзины: хранилище снапшотов, метрики,
// передачу на оформление и ops HTTP-сервер.
package app

import (
	"strings"
	"time"

	"github.com/vladislavdragonenkov/fanwaves/internal/cart"
	"github.com/vladislavdragonenkov/fanwaves/internal/messaging/kafka"
)

// Поддерживаемые драйверы хранилища снапшотов.
const (
	StorageDriverMemory   = "memory"
	StorageDriverFile     = "file"
	StorageDriverPostgres = "postgres"
	StorageDriverRedis    = "redis"
)

// Config описывает настройки запуска корзины.
type Config struct {
	StorageDriver string
	StoragePath   string
	CartKey       string

	PostgresDSN         string
	PostgresAutoMigrate bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration

	// KafkaBrokers: список через запятую; пустая строка отключает Kafka.
	KafkaBrokers  string
	CheckoutTopic string

	// MetricsAddr: адрес ops-сервера shell; пустой отключает сервер.
	MetricsAddr string
	// MetricsFile: путь textfile-выгрузки метрик при закрытии; пустой отключает.
	MetricsFile string
	LogLevel    string
}

// DefaultConfig возвращает настройки по умолчанию.
func DefaultConfig() Config {
	return Config{
		StorageDriver:       StorageDriverFile,
		StoragePath:         "data",
		CartKey:             cart.DefaultKey,
		PostgresAutoMigrate: true,
		CheckoutTopic:       kafka.TopicCheckoutRequests,
		LogLevel:            "info",
	}
}

// Brokers разбирает KafkaBrokers, отбрасывая пустые элементы и пробелы.
func (c Config) Brokers() []string {
	var brokers []string
	for _, broker := range strings.Split(c.KafkaBrokers, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}
