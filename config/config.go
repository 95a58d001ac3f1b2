package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// InitDB opens the MySQL connection from DB_* environment variables.
// Tests use an in-memory sqlite handle instead and never call this.
func InitDB() (*gorm.DB, error) {
	user := getEnv("DB_USER", "root")
	pass := os.Getenv("DB_PASSWORD")
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "3306")
	name := getEnv("DB_NAME", "homeplate")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, name)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// InitRedis connects the cart store client.
func InitRedis() *redis.Client {
	db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	return redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})
}

// InitKafkaWriter returns the order event writer, or nil when no broker is
// configured; callers treat nil as "event stream disabled".
func InitKafkaWriter() *kafka.Writer {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		return nil
	}
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers),
		Topic:        getEnv("KAFKA_ORDER_TOPIC", "order-events"),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
}
