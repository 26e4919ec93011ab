package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/samyukta/registration-service/internal/domain"
)

type Config struct {
	AppEnv string

	HTTPAddr    string
	DatabaseURL string

	JWTSecret string
	JWTIssuer string

	// RabbitMQ
	RabbitURL      string
	RabbitExchange string

	// Redis: rate limiting + notification idempotency
	RedisURL             string
	NotifyIdempotencyTTL time.Duration

	// Rate Limiting
	RLEnabled bool
	RLLimit   int
	RLWindow  time.Duration

	SMTP  SMTPConfig
	Push  PushConfig
	S3    S3Config
	Sheet SheetsConfig

	Capacity domain.CapacityLimits

	LogLevel  string
	LogFormat string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Insecure bool
	Timeout  time.Duration
}

// Enabled is false in local dev, where the fake sender is used.
func (c SMTPConfig) Enabled() bool { return c.Host != "" }

type PushConfig struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subject         string
}

func (c PushConfig) Enabled() bool { return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != "" }

type S3Config struct {
	Endpoint          string
	Region            string
	AccessKeyID       string
	SecretAccessKey   string
	Bucket            string
	UsePathStyle      bool
	PresignTTL        time.Duration
	PitchDeckMaxBytes int64
}

func (c S3Config) Enabled() bool { return c.Bucket != "" }

type SheetsConfig struct {
	CredentialsFile string
	SpreadsheetID   string
}

func (c SheetsConfig) Enabled() bool { return c.CredentialsFile != "" && c.SpreadsheetID != "" }

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.AppEnv = getEnv("APP_ENV", "dev")
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")
	cfg.DatabaseURL = getEnv("DATABASE_URL", "")

	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.JWTIssuer = getEnv("JWT_ISSUER", "")

	cfg.RabbitURL = getEnv("RABBIT_URL", "")
	cfg.RabbitExchange = getEnv("RABBIT_EXCHANGE", "samyukta.events")

	cfg.RedisURL = getEnv("REDIS_URL", "redis://localhost:6379/0")
	cfg.NotifyIdempotencyTTL = getDuration("NOTIFY_IDEMPOTENCY_TTL", 72*time.Hour)

	// 100 reqs / 1 min
	cfg.RLEnabled = getBool("RL_ENABLED", true)
	cfg.RLLimit = getIntEnv("RL_IP_LIMIT", 100)
	cfg.RLWindow = getDuration("RL_IP_WINDOW", 1*time.Minute)

	cfg.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     getIntEnv("SMTP_PORT", 587),
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "Samyukta 2025 <no-reply@samyukta.tech>"),
		Insecure: getBool("SMTP_INSECURE", false),
		Timeout:  getDuration("SMTP_TIMEOUT", 10*time.Second),
	}

	cfg.Push = PushConfig{
		VAPIDPublicKey:  getEnv("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey: getEnv("VAPID_PRIVATE_KEY", ""),
		Subject:         getEnv("VAPID_SUBJECT", "mailto:admin@samyukta.tech"),
	}

	cfg.S3 = S3Config{
		Endpoint:          getEnv("S3_ENDPOINT", ""),
		Region:            getEnv("S3_REGION", "ap-south-1"),
		AccessKeyID:       getEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey:   getEnv("S3_SECRET_ACCESS_KEY", ""),
		Bucket:            getEnv("S3_BUCKET", ""),
		UsePathStyle:      getBool("S3_USE_PATH_STYLE", false),
		PresignTTL:        getDuration("PRESIGN_TTL", 15*time.Minute),
		PitchDeckMaxBytes: int64(getIntEnv("PITCH_DECK_MAX_BYTES", 10<<20)),
	}

	cfg.Sheet = SheetsConfig{
		CredentialsFile: getEnv("SHEETS_CREDENTIALS_FILE", ""),
		SpreadsheetID:   getEnv("SHEETS_SPREADSHEET_ID", ""),
	}

	def := domain.DefaultCapacityLimits()
	cfg.Capacity = domain.CapacityLimits{
		MaxTotal:                 getIntEnv("CAP_MAX_TOTAL", def.MaxTotal),
		MaxCloud:                 getIntEnv("CAP_MAX_CLOUD", def.MaxCloud),
		MaxAI:                    getIntEnv("CAP_MAX_AI", def.MaxAI),
		MaxHackathon:             getIntEnv("CAP_MAX_HACKATHON", def.MaxHackathon),
		MaxPitch:                 getIntEnv("CAP_MAX_PITCH", def.MaxPitch),
		MaxMaleAccommodation:     getIntEnv("CAP_MAX_MALE_ACCOMMODATION", def.MaxMaleAccommodation),
		MaxFemaleAccommodation:   getIntEnv("CAP_MAX_FEMALE_ACCOMMODATION", def.MaxFemaleAccommodation),
		DirectJoinThreshold:      getIntEnv("CAP_DIRECT_JOIN_THRESHOLD", def.DirectJoinThreshold),
		PitchModeThreshold:       getIntEnv("CAP_PITCH_MODE_THRESHOLD", def.PitchModeThreshold),
		DirectJoinHackathonPrice: getIntEnv("CAP_DIRECT_JOIN_HACKATHON_PRICE", def.DirectJoinHackathonPrice),
		DirectJoinPitchPrice:     getIntEnv("CAP_DIRECT_JOIN_PITCH_PRICE", def.DirectJoinPitchPrice),
	}

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "console")

	cfg.HTTPReadTimeout = getDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	cfg.HTTPWriteTimeout = getDuration("HTTP_WRITE_TIMEOUT", 20*time.Second)
	cfg.HTTPIdleTimeout = getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second)

	// validation
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("missing DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing JWT_SECRET")
	}
	// Rabbit may be empty in dev only
	if cfg.AppEnv != "dev" && cfg.RabbitURL == "" {
		return nil, fmt.Errorf("missing RABBIT_URL (required when APP_ENV != dev)")
	}
	if err := cfg.Capacity.Validate(); err != nil {
		return nil, err
	}
	if cfg.S3.PitchDeckMaxBytes <= 0 {
		return nil, fmt.Errorf("PITCH_DECK_MAX_BYTES must be > 0")
	}

	return cfg, nil
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getIntEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return def
	}
}
