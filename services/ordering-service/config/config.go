package config

import "os"

// Config enumerates everything the ordering service needs. Nothing reads the
// environment after Load returns.
type Config struct {
	Port        string
	OrdersTable string
	ClaimsTable string

	// Queue-delivered checkout events (bus rule target).
	QueueName       string
	EventSource     string
	EventDetailType string

	// Direct stream subscription. Disabled when KafkaBrokers is empty.
	KafkaBrokers string
	KafkaTopic   string
	KafkaGroupID string

	// Best-effort order-created notifications. Disabled when empty.
	SNSTopicArn string
}

func Load() Config {
	return Config{
		Port:            getEnv("PORT", "8083"),
		OrdersTable:     getEnv("ORDER_TABLE", "order"),
		ClaimsTable:     getEnv("CLAIMS_TABLE", "order-claims"),
		QueueName:       getEnv("QUEUE_NAME", "OrderQueue"),
		EventSource:     getEnv("EVENT_SOURCE", "com.swn.basket.checkoutbasket"),
		EventDetailType: getEnv("EVENT_DETAILTYPE", "CheckoutBasket"),
		KafkaBrokers:    os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:      getEnv("KAFKA_TOPIC", "basket.checkout"),
		KafkaGroupID:    getEnv("KAFKA_GROUP_ID", "ordering-service"),
		SNSTopicArn:     os.Getenv("SNS_ORDER_TOPIC_ARN"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
