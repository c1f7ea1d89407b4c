package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DatabaseURL string
	RedisURL    string
	Port        int
	APIKey      string

	TelegramBotToken  string
	TelegramOpsChatID int64

	MTBridgeBaseURL string
	MTBridgeToken   string

	RiskSweepSecs        int
	RiskFetchTimeoutSecs int
	RiskSweepWorkers     int

	OpenAIAPIKey string
	OpenAIModel  string
}

func Load() *Config {
	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		APIKey:           strings.TrimSpace(os.Getenv("API_KEY")),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		MTBridgeBaseURL:  strings.TrimRight(strings.TrimSpace(os.Getenv("MT_BRIDGE_BASE_URL")), "/"),
		MTBridgeToken:    strings.TrimSpace(os.Getenv("MT_BRIDGE_TOKEN")),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}
	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set, notifications disabled")
	}
	if cfg.MTBridgeBaseURL == "" {
		log.Println("Warning: MT_BRIDGE_BASE_URL not set, account data fetches will fail")
	}

	cfg.Port = 8080
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Port = n
		}
	}

	if v := strings.TrimSpace(os.Getenv("TELEGRAM_OPS_CHAT_ID")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.TelegramOpsChatID = n
		} else {
			log.Printf("Warning: invalid TELEGRAM_OPS_CHAT_ID=%q, ops notifications disabled", v)
		}
	}

	cfg.RiskSweepSecs = 300
	if v := strings.TrimSpace(os.Getenv("RISK_SWEEP_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RiskSweepSecs = n
		}
	}

	cfg.RiskFetchTimeoutSecs = 8
	if v := strings.TrimSpace(os.Getenv("RISK_FETCH_TIMEOUT_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RiskFetchTimeoutSecs = n
		}
	}

	cfg.RiskSweepWorkers = 4
	if v := strings.TrimSpace(os.Getenv("RISK_SWEEP_WORKERS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RiskSweepWorkers = n
		}
	}

	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	return cfg
}
