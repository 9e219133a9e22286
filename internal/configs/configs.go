package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	APIBaseURL            string
	RequestTimeoutSeconds int
	SessionDBPath         string
	FakeServerAddr        string
}

func Load() Config {
	cfg := Config{
		APIBaseURL:            getEnv("TODO_API_BASE_URL", "http://127.0.0.1:8080"),
		RequestTimeoutSeconds: getEnvAsInt("TODO_REQUEST_TIMEOUT_SECONDS", 10),
		SessionDBPath:         getEnv("TODO_SESSION_DB", "todosync.db"),
		FakeServerAddr:        getEnv("TODO_FAKE_SERVER_ADDR", "127.0.0.1:8080"),
	}

	validate(cfg)
	return cfg
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func validate(cfg Config) {
	if cfg.APIBaseURL == "" {
		log.Fatal("TODO_API_BASE_URL must not be empty (e.g. http://127.0.0.1:8080)")
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		log.Fatal("TODO_REQUEST_TIMEOUT_SECONDS must be greater than 0")
	}
	if cfg.SessionDBPath == "" {
		log.Fatal("TODO_SESSION_DB must not be empty")
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid integer value for %s", key)
		}
		return i
	}
	return defaultVal
}
