package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	// Persistence
	StoreDriver    string // sqlite, postgres, mysql, redis, mongo or memory
	StoreDSN       string // empty selects the driver default
	StoreNamespace string // key prefix for redis, database name for mongo

	// Content
	QuestionsPath string
	GlossaryPath  string

	// Mock exam
	MockQuestionCount int
	MockDuration      time.Duration
	MockPassPercent   int

	CORSOrigins []string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		ServerAddress:     mustGetenv("SERVER_ADDRESS"),
		ShutdownTimeout:   mustGetDuration("SHUTDOWN_TIMEOUT"),
		StoreDriver:       getenvDefault("STORE_DRIVER", "sqlite"),
		StoreDSN:          os.Getenv("STORE_DSN"),
		StoreNamespace:    getenvDefault("STORE_NAMESPACE", "quizcore"),
		QuestionsPath:     getenvDefault("QUESTIONS_PATH", "data/questions_v2.json"),
		GlossaryPath:      getenvDefault("GLOSSARY_PATH", "data/glossary.json"),
		MockQuestionCount: getenvInt("MOCK_QUESTION_COUNT", 65),
		MockDuration:      getenvDuration("MOCK_DURATION", 130*time.Minute),
		MockPassPercent:   getenvInt("MOCK_PASS_PERCENT", 72),
		CORSOrigins:       splitList(getenvDefault("CORS_ORIGINS", "http://localhost:3000")),
	}
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func mustGetDuration(k string) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getenvInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Fatalf("config: %s=%q is not a positive integer", k, v)
	}
	return n
}

func getenvDuration(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Fatalf("config: %s=%q is not a valid duration", k, v)
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
