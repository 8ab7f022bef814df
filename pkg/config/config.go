package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ErrConfigurationMissing is returned by Validate when a credential required
// by the selected completion provider is not set.
var ErrConfigurationMissing = errors.New("configuration missing")

const (
	ProviderGigaChat = "gigachat"
	ProviderGemini   = "gemini"
	ProviderStub     = "stub"

	StorageLocal = "local"
	StorageGCS   = "gcs"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Auth       AuthConfig
	LLM        LLMConfig
	Extraction ExtractionConfig
	Storage    StorageConfig
	Logger     LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	// ConnectRetries bounds the startup ping attempts.
	ConnectRetries uint64
}

type AuthConfig struct {
	Enabled    bool
	SecretKey  string
	Expiration time.Duration
}

type LLMConfig struct {
	Provider string
	GigaChat GigaChatConfig
	Gemini   GeminiConfig
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	Model              string
	InsecureSkipVerify bool
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type ExtractionConfig struct {
	Timeout time.Duration
}

type StorageConfig struct {
	Backend   string
	UploadDir string
	GCSBucket string
	// PublicURL prefixes blob keys in API responses.
	PublicURL string
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work too (Docker/K8s)
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	bodyLimitMB, _ := strconv.Atoi(getEnv("SERVER_BODY_LIMIT_MB", "4"))
	jwtExp, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	extractionTimeout, _ := strconv.Atoi(getEnv("EXTRACTION_TIMEOUT_SECONDS", "10"))
	connectRetries, _ := strconv.ParseUint(getEnv("DB_CONNECT_RETRIES", "5"), 10, 64)
	insecureSkipVerify := getEnv("GIGACHAT_INSECURE_SKIP_VERIFY", "true") == "true"

	backend := getEnv("STORAGE_BACKEND", StorageLocal)
	uploadDir := getEnv("UPLOAD_DIR", "uploads")
	publicURL := getEnv("STORAGE_PUBLIC_URL", "/uploads")
	if backend == StorageGCS && os.Getenv("STORAGE_PUBLIC_URL") == "" {
		publicURL = "https://storage.googleapis.com/" + getEnv("GCS_BUCKET", "")
	}

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
			BodyLimit:    bodyLimitMB * 1024 * 1024,
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			DBName:         getEnv("DB_NAME", "transcripts"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			ConnectRetries: connectRetries,
		},
		Auth: AuthConfig{
			Enabled:    getEnv("AUTH_ENABLED", "false") == "true",
			SecretKey:  getEnv("JWT_SECRET_KEY", ""),
			Expiration: time.Duration(jwtExp) * time.Hour,
		},
		LLM: LLMConfig{
			Provider: getEnv("LLM_PROVIDER", ProviderGigaChat),
			GigaChat: GigaChatConfig{
				APIKey:             getEnv("GIGACHAT_API_KEY", ""),
				Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
				Model:              getEnv("GIGACHAT_MODEL", "GigaChat"),
				InsecureSkipVerify: insecureSkipVerify,
			},
			Gemini: GeminiConfig{
				APIKey: getEnv("GEMINI_API_KEY", ""),
				Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			},
		},
		Extraction: ExtractionConfig{
			Timeout: time.Duration(extractionTimeout) * time.Second,
		},
		Storage: StorageConfig{
			Backend:   backend,
			UploadDir: uploadDir,
			GCSBucket: getEnv("GCS_BUCKET", ""),
			PublicURL: publicURL,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

// Validate checks process-wide settings once at startup so that a missing
// credential fails the process instead of every request.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGigaChat:
		if c.LLM.GigaChat.APIKey == "" {
			return fmt.Errorf("%w: GIGACHAT_API_KEY is not set", ErrConfigurationMissing)
		}
	case ProviderGemini:
		if c.LLM.Gemini.APIKey == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY is not set", ErrConfigurationMissing)
		}
	case ProviderStub:
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLM.Provider)
	}

	switch c.Storage.Backend {
	case StorageLocal:
	case StorageGCS:
		if c.Storage.GCSBucket == "" {
			return fmt.Errorf("%w: GCS_BUCKET is not set", ErrConfigurationMissing)
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}

	if c.Auth.Enabled && c.Auth.SecretKey == "" {
		return fmt.Errorf("%w: JWT_SECRET_KEY is not set", ErrConfigurationMissing)
	}

	if c.Extraction.Timeout <= 0 {
		return fmt.Errorf("EXTRACTION_TIMEOUT_SECONDS must be positive")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
