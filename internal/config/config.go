package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

// Config конфигурация сервера консолидации
type Config struct {
	// Сервер
	Port string `json:"port"`

	// База данных
	DatabasePath string `json:"database_path"`

	// Connection pooling
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`

	// Логирование
	LogLevel string `json:"log_level"`

	// Консолидация
	BucketCap    int  `json:"bucket_cap"`
	SeedDefaults bool `json:"seed_defaults"`

	// Внешний реестр фреймворков; пустой URL отключает реестр,
	// требования берутся только из локальной базы
	Registry *RegistryConfig `json:"registry"`

	// Экспорт
	ExportDir string `json:"export_dir"`
}

// RegistryConfig конфигурация клиента внешнего реестра фреймворков
type RegistryConfig struct {
	BaseURL           string        `json:"base_url"`
	Timeout           time.Duration `json:"timeout"`
	RequestsPerSecond float64       `json:"requests_per_second"`
	CacheTTL          time.Duration `json:"cache_ttl"`
}

// configJSON промежуточная форма для JSON файла: длительности строками
type configJSON struct {
	Port            string `json:"port"`
	DatabasePath    string `json:"database_path"`
	MaxOpenConns    int    `json:"max_open_conns"`
	MaxIdleConns    int    `json:"max_idle_conns"`
	ConnMaxLifetime string `json:"conn_max_lifetime"`
	LogLevel        string `json:"log_level"`
	BucketCap       int    `json:"bucket_cap"`
	SeedDefaults    *bool  `json:"seed_defaults"`
	Registry        *struct {
		BaseURL           string  `json:"base_url"`
		Timeout           string  `json:"timeout"`
		RequestsPerSecond float64 `json:"requests_per_second"`
		CacheTTL          string  `json:"cache_ttl"`
	} `json:"registry"`
	ExportDir string `json:"export_dir"`
}

// LoadConfig загружает конфигурацию из JSON файла (если путь передан и
// файл существует) с откатом на переменные окружения
func LoadConfig(configPath ...string) (*Config, error) {
	if len(configPath) > 0 && configPath[0] != "" {
		if config, err := loadFromFile(configPath[0]); err == nil {
			if validationErr := config.Validate(); validationErr == nil {
				log.Printf("Config loaded from %s", configPath[0])
				return config, nil
			} else {
				log.Printf("Invalid config in %s, falling back to env: %v", configPath[0], validationErr)
			}
		} else if !os.IsNotExist(err) {
			log.Printf("Failed to read config %s, falling back to env: %v", configPath[0], err)
		}
	}

	config := &Config{
		Port:            getEnv("SERVER_PORT", "9999"),
		DatabasePath:    getEnv("DATABASE_PATH", "compliance.db"),
		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		BucketCap:       getEnvInt("BUCKET_CAP", 3),
		SeedDefaults:    getEnv("SEED_DEFAULTS", "true") == "true",
		ExportDir:       getEnv("EXPORT_DIR", "exports"),
	}
	if baseURL := os.Getenv("REGISTRY_BASE_URL"); baseURL != "" {
		config.Registry = &RegistryConfig{
			BaseURL:           baseURL,
			Timeout:           getEnvDuration("REGISTRY_TIMEOUT", 30*time.Second),
			RequestsPerSecond: getEnvFloat("REGISTRY_REQUESTS_PER_SECOND", 5),
			CacheTTL:          getEnvDuration("REGISTRY_CACHE_TTL", 15*time.Minute),
		}
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw configJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config := &Config{
		Port:            raw.Port,
		DatabasePath:    raw.DatabasePath,
		MaxOpenConns:    raw.MaxOpenConns,
		MaxIdleConns:    raw.MaxIdleConns,
		ConnMaxLifetime: parseDurationOr(raw.ConnMaxLifetime, 5*time.Minute),
		LogLevel:        raw.LogLevel,
		BucketCap:       raw.BucketCap,
		SeedDefaults:    true,
		ExportDir:       raw.ExportDir,
	}
	if raw.SeedDefaults != nil {
		config.SeedDefaults = *raw.SeedDefaults
	}
	if raw.Registry != nil && raw.Registry.BaseURL != "" {
		config.Registry = &RegistryConfig{
			BaseURL:           raw.Registry.BaseURL,
			Timeout:           parseDurationOr(raw.Registry.Timeout, 30*time.Second),
			RequestsPerSecond: raw.Registry.RequestsPerSecond,
			CacheTTL:          parseDurationOr(raw.Registry.CacheTTL, 15*time.Minute),
		}
	}
	return config, nil
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return duration
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int или возвращает значение по умолчанию
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat получает переменную окружения как float64 или возвращает значение по умолчанию
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как Duration или возвращает значение по умолчанию
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
