package config

import (
	"os"
	"strings"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName         string
	HTTPPort            string
	PostgresDSN         string
	KafkaBrokers        []string
	AdminAddress        string
	BaseMetadataLocator string

	EnableSaleEventEmission bool
	EnableOutboxRelay       bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "atelier"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	admin := strings.TrimSpace(os.Getenv("ADMIN_ADDRESS"))
	if admin == "" {
		admin = "0xadmin"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	return Config{
		ServiceName:         service,
		HTTPPort:            port,
		PostgresDSN:         os.Getenv("POSTGRES_DSN"),
		KafkaBrokers:        brokers,
		AdminAddress:        admin,
		BaseMetadataLocator: os.Getenv("BASE_METADATA_LOCATOR"),

		EnableSaleEventEmission: envBool("ENABLE_SALE_EVENT_EMISSION", true),
		EnableOutboxRelay:       envBool("ENABLE_OUTBOX_RELAY", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
