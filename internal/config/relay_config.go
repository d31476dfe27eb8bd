package config

import "os"

// RelayConfig holds the settings the outbox relay binary needs, and
// nothing else.
type RelayConfig struct {
	DatabaseURL      string
	RabbitMQURL      string
	BookingQueueName string
}

func LoadRelayConfig() *RelayConfig {
	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	rabbitURL := os.Getenv("RABBITMQ_URL")
	if rabbitURL == "" {
		panic("RABBITMQ_URL environment variable is required")
	}

	queueName := os.Getenv("BOOKING_QUEUE_NAME")
	if queueName == "" {
		queueName = "bookings"
	}

	return &RelayConfig{
		DatabaseURL:      dbURL,
		RabbitMQURL:      rabbitURL,
		BookingQueueName: queueName,
	}
}
