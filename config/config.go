package config

import (
	"flag"
	"os"
	"strconv"
	"sync"
	"time"
)

const (
	defaultServerAddr   = ":8080"
	defaultDatabaseDSN  = ""
	defaultRedisAddr    = "localhost:6379"
	defaultLogLevel     = "debug"
	defaultBaseURL      = "http://localhost:8080"
	defaultOpenAIURL    = "https://api.openai.com/v1"
	defaultOpenAIModel  = "gpt-4"
	defaultEmailFrom    = "RushMyBookReport <reports@rushmybookreport.com>"
	defaultBatchSize    = 10
	defaultPollInterval = time.Minute
	defaultRateLimit    = 5
	defaultRateWindow   = time.Minute
)

type Config struct {
	ServerAddr  string
	DatabaseDSN string
	RedisAddr   string
	LogLevel    string
	BaseURL     string

	OpenAIBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string

	StripeAPIKey        string
	StripeWebhookSecret string

	ResendAPIKey string
	EmailFrom    string

	// shared secret for the batch fulfillment trigger endpoint
	CronAPIKey string

	BatchSize    int
	PollInterval time.Duration

	RateLimit  int
	RateWindow time.Duration
}

var (
	once      sync.Once
	singleton *Config
)

// New returns new Config. It parses command line and environment variables only once.
func New() (*Config, error) {
	once.Do(func() {
		cfg := Config{
			OpenAIModel:  defaultOpenAIModel,
			EmailFrom:    defaultEmailFrom,
			BatchSize:    defaultBatchSize,
			PollInterval: defaultPollInterval,
			RateLimit:    defaultRateLimit,
			RateWindow:   defaultRateWindow,
		}

		// initialize flags
		flag.StringVar(&cfg.ServerAddr, "a", defaultServerAddr, "server address")
		flag.StringVar(&cfg.DatabaseDSN, "d", defaultDatabaseDSN, "database DSN")
		flag.StringVar(&cfg.RedisAddr, "r", defaultRedisAddr, "redis address")
		flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")
		flag.StringVar(&cfg.BaseURL, "b", defaultBaseURL, "public base URL for checkout redirects")
		flag.StringVar(&cfg.OpenAIBaseURL, "g", defaultOpenAIURL, "text generation API base URL")

		flag.Parse()

		// if environment variable is set, then using it
		if runAddrEnv := os.Getenv("RUN_ADDRESS"); runAddrEnv != "" {
			cfg.ServerAddr = runAddrEnv
		}
		if dataBaseURIEnv := os.Getenv("DATABASE_URI"); dataBaseURIEnv != "" {
			cfg.DatabaseDSN = dataBaseURIEnv
		}
		if redisAddrEnv := os.Getenv("REDIS_ADDRESS"); redisAddrEnv != "" {
			cfg.RedisAddr = redisAddrEnv
		}
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			cfg.LogLevel = logLevelEnv
		}
		if baseURLEnv := os.Getenv("BASE_URL"); baseURLEnv != "" {
			cfg.BaseURL = baseURLEnv
		}
		if openAIURLEnv := os.Getenv("OPENAI_BASE_URL"); openAIURLEnv != "" {
			cfg.OpenAIBaseURL = openAIURLEnv
		}
		if modelEnv := os.Getenv("OPENAI_MODEL"); modelEnv != "" {
			cfg.OpenAIModel = modelEnv
		}
		if fromEnv := os.Getenv("EMAIL_FROM"); fromEnv != "" {
			cfg.EmailFrom = fromEnv
		}
		if batchSizeEnv := os.Getenv("BATCH_SIZE"); batchSizeEnv != "" {
			if v, err := strconv.Atoi(batchSizeEnv); err == nil && v > 0 {
				cfg.BatchSize = v
			}
		}
		if pollEnv := os.Getenv("POLL_INTERVAL"); pollEnv != "" {
			if v, err := time.ParseDuration(pollEnv); err == nil && v > 0 {
				cfg.PollInterval = v
			}
		}

		// secrets come from environment only
		cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
		cfg.StripeAPIKey = os.Getenv("STRIPE_SECRET_KEY")
		cfg.StripeWebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")
		cfg.ResendAPIKey = os.Getenv("RESEND_API_KEY")
		cfg.CronAPIKey = os.Getenv("CRON_API_KEY")

		singleton = &cfg
	})

	return singleton, nil
}
