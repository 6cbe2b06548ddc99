// Package config loads process configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds the bridge's environment-sourced configuration.
type Config struct {
	KafkaBootstrapServers []string
	KafkaSASLUsername     string
	KafkaSASLPassword     string
	KafkaSASLMechanism    string
	APISigningKey         string
	ExternalURL           string
	Namespace             string
}

// Load reads Config from the environment, applying the documented
// defaults for optional variables. Required variables missing from the
// environment produce an error; the caller (main) treats that as fatal.
func Load() (*Config, error) {
	bootstrap := os.Getenv("KAFKA_BOOTSTRAP_SERVERS")
	if bootstrap == "" {
		return nil, fmt.Errorf("KAFKA_BOOTSTRAP_SERVERS must be set")
	}

	username := os.Getenv("KAFKA_SASL_USERNAME")
	if username == "" {
		return nil, fmt.Errorf("KAFKA_SASL_USERNAME must be set")
	}

	password := os.Getenv("KAFKA_SASL_PASSWORD")
	if password == "" {
		return nil, fmt.Errorf("KAFKA_SASL_PASSWORD must be set")
	}

	signingKey := os.Getenv("API_SIGNING_KEY")
	if signingKey == "" {
		return nil, fmt.Errorf("API_SIGNING_KEY must be set")
	}

	mechanism := os.Getenv("KAFKA_SASL_MECHANISM")
	if mechanism == "" {
		mechanism = "SCRAM-SHA-512"
	}

	externalURL := os.Getenv("EXTERNAL_URL")
	if externalURL == "" {
		externalURL = "http://localhost:8080"
	}

	namespace := os.Getenv("NAMESPACE")
	if namespace == "" {
		namespace = "default"
	}

	return &Config{
		KafkaBootstrapServers: splitCSV(bootstrap),
		KafkaSASLUsername:     username,
		KafkaSASLPassword:     password,
		KafkaSASLMechanism:    mechanism,
		APISigningKey:         signingKey,
		ExternalURL:           externalURL,
		Namespace:             namespace,
	}, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
