package cliparse

import (
	"errors"
	"flag"
	"fmt"
	iofs "io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             int
	DatabaseURL      string
	DatabaseType     string
	AdminKeySalt     string
	ParticipantSalt  string
	EventName        string
	RedisURL         string
	AllowedOrigins   []string
	SubscriberBuffer int
}

const (
	DefaultPort             = 3318
	DefaultEventName        = "quickly-judge"
	DefaultSubscriberBuffer = 16
)

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var (
		cfg     Config
		envFile string
		origins string
	)

	fs := flag.NewFlagSet("quickly-judge", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite, postgres or pgx)")
	fs.StringVar(&cfg.RedisURL, "redis", "", "Redis URL for cross-instance notifications")
	fs.StringVar(&origins, "origins", "", "Comma-separated CORS origins")
	fs.StringVar(&cfg.EventName, "event", "", "Event name")
	fs.IntVar(&cfg.SubscriberBuffer, "buffer", 0, "Per-subscriber notification buffer")
	fs.StringVar(&envFile, "env", ".env", "Optional .env file")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")
	fs.StringVar(&cfg.ParticipantSalt, "participant-salt", "", "Participant key salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// .env never overrides variables already set in the environment
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, iofs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	switch cfg.DatabaseType {
	case "sqlite", "postgres", "pgx":
	default:
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.EventName == "" {
		cfg.EventName = os.Getenv("EVENT_NAME")
		if cfg.EventName == "" {
			cfg.EventName = DefaultEventName
		}
	}

	if cfg.RedisURL == "" {
		cfg.RedisURL = os.Getenv("REDIS_URL")
	}

	if origins == "" {
		origins = os.Getenv("ALLOWED_ORIGINS")
	}
	cfg.AllowedOrigins = splitList(origins)

	if cfg.SubscriberBuffer == 0 {
		if bufStr := os.Getenv("SUBSCRIBER_BUFFER"); bufStr != "" {
			n, err := strconv.Atoi(bufStr)
			if err != nil || n <= 0 {
				return Config{}, errors.New("invalid SUBSCRIBER_BUFFER env variable")
			}
			cfg.SubscriberBuffer = n
		} else {
			cfg.SubscriberBuffer = DefaultSubscriberBuffer
		}
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	if cfg.ParticipantSalt == "" {
		cfg.ParticipantSalt = os.Getenv("PARTICIPANT_KEY_SALT")
	}
	if cfg.ParticipantSalt == "" {
		return Config{}, errors.New("PARTICIPANT_KEY_SALT required")
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
