package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server       ServerConfig
	Auth         AuthConfig
	Attendance   AttendanceConfig
	Postgres     PostgresConfig
	Notification NotificationConfig
	RateLimit    RateLimitConfig
	Log          LogConfig
}

type ServerConfig struct {
	Port             string
	GinMode          string
	CORSOrigins      []string
	CORSCredentials  bool
	RequestTimeout   time.Duration
	ShutdownTimeout  time.Duration
	MaxBodyBytes     int64
	MigrateOnStartup bool
}

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
}

type AttendanceConfig struct {
	// HMACSecret falls back to SERVICE_ROLE_KEY when ATTENDANCE_HMAC_SECRET is unset.
	HMACSecret    string
	SkewTolerance int
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
	MaxConns    int32
}

type NotificationConfig struct {
	Driver       string
	QueueSize    int
	PushURL      string
	PushToken    string
	KafkaBrokers []string
	KafkaTopic   string
}

type RateLimitConfig struct {
	ScannerRequestsPerMinute int
}

type LogConfig struct {
	Level       string
	Development bool
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:             getenv("PORT", "8080"),
			GinMode:          getenv("GIN_MODE", "release"),
			CORSOrigins:      splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
			CORSCredentials:  getbool("CORS_ALLOW_CREDENTIALS", false),
			RequestTimeout:   getduration("REQUEST_TIMEOUT", 10*time.Second),
			ShutdownTimeout:  getduration("SHUTDOWN_TIMEOUT", 10*time.Second),
			MaxBodyBytes:     int64(getint("MAX_BODY_BYTES", 64<<10)),
			MigrateOnStartup: getbool("MIGRATE_ON_STARTUP", true),
		},
		Auth: AuthConfig{
			JWTSecret:   os.Getenv("JWT_SECRET"),
			JWTIssuer:   os.Getenv("JWT_ISSUER"),
			JWTAudience: os.Getenv("JWT_AUDIENCE"),
		},
		Attendance: AttendanceConfig{
			HMACSecret:    firstNonEmpty(os.Getenv("ATTENDANCE_HMAC_SECRET"), os.Getenv("SERVICE_ROLE_KEY")),
			SkewTolerance: getint("ATTENDANCE_SKEW_WINDOWS", 1),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
			MaxConns:    int32(getint("PG_MAX_CONNS", 10)),
		},
		Notification: NotificationConfig{
			Driver:       strings.ToLower(getenv("NOTIFY_DRIVER", "log")),
			QueueSize:    getint("NOTIFY_QUEUE_SIZE", 256),
			PushURL:      os.Getenv("NOTIFY_PUSH_URL"),
			PushToken:    os.Getenv("NOTIFY_PUSH_TOKEN"),
			KafkaBrokers: splitList(getenv("KAFKA_BROKERS", "localhost:9092")),
			KafkaTopic:   getenv("KAFKA_NOTIFICATION_TOPIC", "session-notifications"),
		},
		RateLimit: RateLimitConfig{
			ScannerRequestsPerMinute: getint("SCANNER_RATE_LIMIT_RPM", 600),
		},
		Log: LogConfig{
			Level:       getenv("LOG_LEVEL", "info"),
			Development: getbool("LOG_DEVELOPMENT", false),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getint(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getbool(key string, fallback bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getduration(key string, fallback time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
