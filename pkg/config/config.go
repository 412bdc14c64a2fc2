package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Discord      DiscordConfig
	JWT          JWTConfig
	GigaChat     GigaChatConfig
	SaluteSpeech SaluteSpeechConfig
	Logger       LoggerConfig
}

type ServerConfig struct {
	Port         string
	BaseURL      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	URL       string
	AuthToken string
}

type DiscordConfig struct {
	BotToken     string
	ClientID     string
	ClientSecret string
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	InsecureSkipVerify bool
}

type SaluteSpeechConfig struct {
	APIKey string
	Scope  string
}

type LoggerConfig struct {
	Level string
}

// Load reads configuration from a .env file (when present) and the
// environment. Missing required values abort startup.
func Load() (*Config, error) {
	// Try to load .env from the current directory or project root.
	for _, envFile := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	jwtExp, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "168"))
	insecureSkipVerify := getEnv("GIGACHAT_INSECURE_SKIP_VERIFY", "true") == "true"

	port := getEnv("PORT", "3333")

	cfg := &Config{
		Server: ServerConfig{
			Port:         port,
			BaseURL:      getEnv("BASE_URL", "http://localhost:"+port),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			URL:       os.Getenv("DATABASE_URL"),
			AuthToken: os.Getenv("DATABASE_AUTH_TOKEN"),
		},
		Discord: DiscordConfig{
			BotToken:     os.Getenv("DISCORD_BOT_TOKEN"),
			ClientID:     os.Getenv("DISCORD_CLIENT_ID"),
			ClientSecret: os.Getenv("DISCORD_CLIENT_SECRET"),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "change-me-in-production"),
			Expiration: time.Duration(jwtExp) * time.Hour,
		},
		GigaChat: GigaChatConfig{
			APIKey:             os.Getenv("GIGACHAT_API_KEY"),
			Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			InsecureSkipVerify: insecureSkipVerify,
		},
		SaluteSpeech: SaluteSpeechConfig{
			APIKey: os.Getenv("SALUTE_SPEECH_API_KEY"),
			Scope:  getEnv("SALUTE_SPEECH_SCOPE", "SALUTE_SPEECH_PERS"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.Database.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.Discord.BotToken == "" {
		missing = append(missing, "DISCORD_BOT_TOKEN")
	}
	if c.Discord.ClientID == "" {
		missing = append(missing, "DISCORD_CLIENT_ID")
	}
	if c.Discord.ClientSecret == "" {
		missing = append(missing, "DISCORD_CLIENT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
