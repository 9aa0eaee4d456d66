package config

import (
	"flag"
	"os"
	"time"
)

// Config содержит конфигурацию приложения.
type Config struct {
	RunAddress       string
	DataDir          string
	DatabaseURI      string
	SettingsDBPath   string
	SyncBaseURL      string
	SyncPullInterval time.Duration
	JWTSecret        string
	TokenExpiration  time.Duration
	RequireAuth      bool
}

// Load загружает конфигурацию из флагов командной строки и переменных окружения.
// Приоритет: переменные окружения > флаги > значения по умолчанию.
func Load() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "адрес и порт запуска сервиса")
	flag.StringVar(&cfg.DataDir, "data", "data", "каталог JSON-файлов коллекций")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "строка подключения к PostgreSQL (пусто — файловое хранилище)")
	flag.StringVar(&cfg.SettingsDBPath, "local", "local.db", "путь локального KV-файла (зеркало настроек и курсоры)")
	flag.StringVar(&cfg.SyncBaseURL, "sync", "", "адрес сервиса синхронизации (пусто — синхронизация отключена)")
	flag.BoolVar(&cfg.RequireAuth, "auth", false, "требовать JWT оператора на мутирующих маршрутах")
	flag.Parse()

	if envRunAddr := os.Getenv("RUN_ADDRESS"); envRunAddr != "" {
		cfg.RunAddress = envRunAddr
	}
	if envDataDir := os.Getenv("DATA_DIR"); envDataDir != "" {
		cfg.DataDir = envDataDir
	}
	if envDBURI := os.Getenv("DATABASE_URI"); envDBURI != "" {
		cfg.DatabaseURI = envDBURI
	}
	if envLocal := os.Getenv("SETTINGS_DB"); envLocal != "" {
		cfg.SettingsDBPath = envLocal
	}
	if envSync := os.Getenv("SYNC_BASE_URL"); envSync != "" {
		cfg.SyncBaseURL = envSync
	}
	if os.Getenv("REQUIRE_AUTH") != "" {
		cfg.RequireAuth = true
	}

	// Интервал опроса сервиса синхронизации
	cfg.SyncPullInterval = 30 * time.Second
	if envInterval := os.Getenv("SYNC_PULL_INTERVAL"); envInterval != "" {
		if d, err := time.ParseDuration(envInterval); err == nil && d > 0 {
			cfg.SyncPullInterval = d
		}
	}

	// JWT секрет
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "default-secret-change-in-production"
	}

	// Время жизни токена
	cfg.TokenExpiration = 24 * time.Hour

	return cfg
}
