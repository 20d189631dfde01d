package config

import "os"

// Config enumerates everything the basket service needs. Nothing reads the
// environment after Load returns.
type Config struct {
	Port        string
	BasketTable string

	// Checkout event routing. The ordering rule on the bus matches on
	// (EventSource, EventDetailType); anything else is dropped.
	EventBusName    string
	EventSource     string
	EventDetailType string

	// Optional Kafka mirror for direct subscribers. Disabled when
	// KafkaBrokers is empty.
	KafkaBrokers string
	KafkaTopic   string
}

func Load() Config {
	return Config{
		Port:            getEnv("PORT", "8081"),
		BasketTable:     getEnv("BASKET_TABLE", "basket"),
		EventBusName:    getEnv("EVENT_BUSNAME", "SwnEventBus"),
		EventSource:     getEnv("EVENT_SOURCE", "com.swn.basket.checkoutbasket"),
		EventDetailType: getEnv("EVENT_DETAILTYPE", "CheckoutBasket"),
		KafkaBrokers:    os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:      getEnv("KAFKA_TOPIC", "basket.checkout"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
