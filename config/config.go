// Package config reads the process environment once at startup.
package config

import (
	"fmt"
	"os"
)

// Config holds everything the load board needs to run. All values come from
// the environment; sensible defaults keep a bare local run working with the
// in-memory store and no broker.
type Config struct {
	// Database (PostgreSQL). Empty DB_HOST means run on the in-memory store.
	DB_USER     string
	DB_PASSWORD string
	DB_NAME     string
	DB_HOST     string
	DB_PORT     string
	// Kafka. Empty KAFKA_BROKER disables event publishing.
	KAFKA_BROKER string
	KAFKA_TOPIC  string
	// HTTP listen address.
	HTTP_ADDR string
	// Excel workbook the sync endpoints read and write.
	EXCEL_FILE_PATH string
	// Customer the monthly pallet rollup reports on.
	ROLLUP_CUSTOMER string
}

func Load() *Config {
	return &Config{
		DB_USER:     os.Getenv("DB_USER"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_NAME:     os.Getenv("DB_NAME"),
		DB_HOST:     os.Getenv("DB_HOST"),
		DB_PORT:     getEnv("DB_PORT", "5432"),

		KAFKA_BROKER: os.Getenv("KAFKA_BROKER"),
		KAFKA_TOPIC:  getEnv("KAFKA_TOPIC", "loadboard.shipments"),

		HTTP_ADDR:       getEnv("HTTP_ADDR", ":8000"),
		EXCEL_FILE_PATH: getEnv("EXCEL_FILE_PATH", "LoadBoard.xlsx"),
		ROLLUP_CUSTOMER: os.Getenv("ROLLUP_CUSTOMER"),
	}
}

// GetDBURL formats the config into a PostgreSQL connection string.
func (c *Config) GetDBURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DB_USER, c.DB_PASSWORD, c.DB_HOST, c.DB_PORT, c.DB_NAME)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
