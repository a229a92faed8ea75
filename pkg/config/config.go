package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Avatar   AvatarConfig
	LiveKit  LiveKitConfig
	Speech   SpeechConfig
	LLM      LLMConfig
	Auth     AuthConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string `envconfig:"PORT" default:"8080"`
	Host            string `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int    `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"testify"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int    `envconfig:"DB_MIN_CONNS" default:"5"`

	// AutoMigrate applies the sql-migrate files at startup. Development
	// convenience only; production schema changes go through the migrate
	// script.
	AutoMigrate bool `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string        `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string        `envconfig:"REDIS_PORT" default:"6379"`
	Password string        `envconfig:"REDIS_PASSWORD" default:""`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	KBTTL    time.Duration `envconfig:"REDIS_KB_TTL" default:"1h"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string        `envconfig:"JWT_SECRET" default:"change-me-in-production"`
	Expiry time.Duration `envconfig:"JWT_EXPIRY" default:"24h"`
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"testify-sessions"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
}

// AvatarConfig holds streaming avatar API configuration
type AvatarConfig struct {
	BaseURL string        `envconfig:"AVATAR_API_BASE_URL" default:"https://api.heygen.com"`
	APIKey  string        `envconfig:"AVATAR_API_KEY" default:""`
	Quality string        `envconfig:"AVATAR_QUALITY" default:"high"`
	Timeout time.Duration `envconfig:"AVATAR_API_TIMEOUT" default:"30s"`
	UseMock bool          `envconfig:"AVATAR_USE_MOCK" default:"false"`
}

// LiveKitConfig holds media server credentials, used by the mock avatar
// backend to mint room tokens against a local server
type LiveKitConfig struct {
	URL       string `envconfig:"LIVEKIT_URL" default:"ws://localhost:7880"`
	APIKey    string `envconfig:"LIVEKIT_API_KEY" default:"devkey"`
	APISecret string `envconfig:"LIVEKIT_API_SECRET" default:"secret"`
}

// SpeechConfig holds speech-to-text configuration
type SpeechConfig struct {
	AssemblyAIKey string `envconfig:"ASSEMBLYAI_API_KEY" default:""`
	SampleRate    int    `envconfig:"SPEECH_SAMPLE_RATE" default:"16000"`
}

// LLMConfig holds the language model provider chain configuration
type LLMConfig struct {
	IlmuBaseURL   string        `envconfig:"ILMU_BASE_URL" default:""`
	IlmuAPIKey    string        `envconfig:"ILMU_API_KEY" default:""`
	IlmuModel     string        `envconfig:"ILMU_MODEL" default:"ilmu-chat"`
	OpenAIBaseURL string        `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com"`
	OpenAIAPIKey  string        `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIModel   string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	Timeout       time.Duration `envconfig:"LLM_TIMEOUT" default:"30s"`
}

// AuthConfig holds the static credential list. Users are encoded as
// "email:password:code" triples separated by commas.
type AuthConfig struct {
	Users string `envconfig:"AUTH_USERS" default:"demo@testify.com:demo123:DEMO001"`
}

// StaticUser is one parsed credential triple.
type StaticUser struct {
	Email      string
	Password   string
	UniqueCode string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !c.Avatar.UseMock && c.Avatar.APIKey == "" {
		return fmt.Errorf("AVATAR_API_KEY is required unless AVATAR_USE_MOCK is set")
	}
	if c.LLM.IlmuAPIKey == "" && c.LLM.OpenAIAPIKey == "" {
		return fmt.Errorf("at least one of ILMU_API_KEY or OPENAI_API_KEY is required")
	}
	if len(c.StaticUsers()) == 0 {
		return fmt.Errorf("AUTH_USERS must contain at least one email:password:code triple")
	}
	return nil
}

// StaticUsers parses the configured credential triples. Malformed entries
// are skipped.
func (c *Config) StaticUsers() []StaticUser {
	var users []StaticUser
	for _, raw := range strings.Split(c.Auth.Users, ",") {
		parts := strings.SplitN(strings.TrimSpace(raw), ":", 3)
		if len(parts) != 3 || parts[0] == "" {
			continue
		}
		users = append(users, StaticUser{Email: parts[0], Password: parts[1], UniqueCode: parts[2]})
	}
	return users
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// GetAllowedOrigins splits the configured origin list.
func (c *Config) GetAllowedOrigins() []string {
	parts := strings.Split(c.Server.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
