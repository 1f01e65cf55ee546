package config

import (
	"fmt"
	"strings"
	"time"

	"oa_backend/pkg/utils"
)

// Config holds every runtime setting of the server.
type Config struct {
	Port string

	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBMaxOpenConns int
	DBApplySchema  bool

	JWTSecret string
	JWTTTL    time.Duration

	CORSAllowedOrigins []string

	LogLevel  string
	LogFormat string

	// Location decides which calendar day "today" is for check-ins.
	Location *time.Location
}

// Load reads the configuration from the environment, after merging an optional .env file.
func Load() (*Config, error) {
	if err := utils.LoadDotEnv(); err != nil {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{
		Port:           utils.Getenv("PORT", "8080"),
		DBHost:         utils.Getenv("DB_HOST", "localhost"),
		DBPort:         utils.Getenv("DB_PORT", "5432"),
		DBUser:         utils.Getenv("DB_USER", "oa_user"),
		DBPassword:     utils.Getenv("DB_PASSWORD", "oa_password"),
		DBName:         utils.Getenv("DB_NAME", "oa_db"),
		DBSSLMode:      utils.Getenv("DB_SSLMODE", "disable"),
		DBMaxOpenConns: utils.GetenvInt("DB_MAX_OPEN_CONNS", 10),
		DBApplySchema:  utils.GetenvBool("DB_APPLY_SCHEMA", false),
		JWTSecret:      utils.Getenv("JWT_SECRET", ""),
		JWTTTL:         time.Duration(utils.GetenvInt("JWT_TTL_HOURS", 24)) * time.Hour,
		LogLevel:       utils.Getenv("LOG_LEVEL", "info"),
		LogFormat:      utils.Getenv("LOG_FORMAT", "console"),
	}

	origins := utils.Getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	loc, err := time.LoadLocation(utils.Getenv("APP_TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("APP_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}
	return cfg, nil
}

// DSN renders the lib/pq connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}
