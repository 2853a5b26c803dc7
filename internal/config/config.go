package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iudanet/vaultsync/internal/validation"
)

var (
	// ErrMissingJWTSecret без секрета невозможно подписывать токены терминалов
	ErrMissingJWTSecret = errors.New("auth.jwt_secret is required")
	// ErrMissingJoinKey без ключа присоединения нельзя регистрировать терминалы
	ErrMissingJoinKey = errors.New("auth.join_key is required")
)

// Duration обертка над time.Duration для чтения человекочитаемых
// значений из YAML: "30s", "15m", "24h"
type Duration time.Duration

// UnmarshalYAML реализует yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Std возвращает значение как стандартный time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config корневая конфигурация сервера синхронизации
type Config struct {
	Server    ServerConfig    `yaml:"server"`    // Server настройки HTTP сервера
	Storage   StorageConfig   `yaml:"storage"`   // Storage настройки хранилища
	Auth      AuthConfig      `yaml:"auth"`      // Auth настройки регистрации и токенов
	Sync      SyncConfig      `yaml:"sync"`      // Sync настройки протокола синхронизации
	Reconcile ReconcileConfig `yaml:"reconcile"` // Reconcile настройки фоновой сверки
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	ListenAddr      string   `yaml:"listen_addr"`      // ListenAddr адрес и порт, например ":8080"
	NodeName        string   `yaml:"node_name"`        // NodeName имя сервера в векторных часах
	ShutdownTimeout Duration `yaml:"shutdown_timeout"` // ShutdownTimeout время на graceful shutdown
	RateWindow      Duration `yaml:"rate_window"`      // RateWindow окно rate limiter
	RateLimit       int      `yaml:"rate_limit"`       // RateLimit запросов на IP за окно
}

// StorageConfig настройки хранилища
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"` // DatabasePath путь к файлу SQLite
}

// AuthConfig настройки регистрации терминалов и выдачи токенов
type AuthConfig struct {
	JWTSecret string   `yaml:"jwt_secret"` // JWTSecret секрет подписи JWT
	JoinKey   string   `yaml:"join_key"`   // JoinKey общий ключ для регистрации терминалов
	TokenTTL  Duration `yaml:"token_ttl"`  // TokenTTL срок жизни токена терминала
}

// SyncConfig настройки протокола синхронизации
type SyncConfig struct {
	MaxBatchSize int `yaml:"max_batch_size"` // MaxBatchSize максимум записей в одном push/pull
}

// ReconcileConfig настройки фоновой сверки данных.
// Нулевой интервал отключает фоновый поиск аномалий.
type ReconcileConfig struct {
	SweepInterval Duration `yaml:"sweep_interval"` // SweepInterval период поиска аномалий
}

// Default возвращает конфигурацию со значениями по умолчанию.
// Секреты (jwt_secret, join_key) умолчаний не имеют и должны быть
// заданы в файле или через окружение.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr:      ":8080",
			NodeName:        "server",
			ShutdownTimeout: Duration(10 * time.Second),
			RateWindow:      Duration(time.Minute),
			RateLimit:       100,
		},
		Storage: StorageConfig{
			DatabasePath: "vaultsync.db",
		},
		Auth: AuthConfig{
			TokenTTL: Duration(24 * time.Hour),
		},
		Sync: SyncConfig{
			MaxBatchSize: 100,
		},
		Reconcile: ReconcileConfig{
			SweepInterval: Duration(15 * time.Minute),
		},
	}
}

// Load читает конфигурацию из YAML файла поверх значений по умолчанию,
// затем применяет переменные окружения и валидирует результат.
// Пустой путь означает конфигурацию только из умолчаний и окружения.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv применяет переменные окружения поверх текущих значений.
// Окружение имеет приоритет над файлом, это позволяет не хранить
// секреты на диске рядом с конфигом.
func (c *Config) applyEnv() error {
	if v := os.Getenv("VAULTSYNC_LISTEN_ADDR"); v != "" {
		c.Server.ListenAddr = v
	}
	if v := os.Getenv("VAULTSYNC_NODE_NAME"); v != "" {
		c.Server.NodeName = v
	}
	if v := os.Getenv("VAULTSYNC_DB_PATH"); v != "" {
		c.Storage.DatabasePath = v
	}
	if v := os.Getenv("VAULTSYNC_JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("VAULTSYNC_JOIN_KEY"); v != "" {
		c.Auth.JoinKey = v
	}
	if v := os.Getenv("VAULTSYNC_SYNC_BATCH_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid VAULTSYNC_SYNC_BATCH_SIZE %q: %w", v, err)
		}
		c.Sync.MaxBatchSize = size
	}
	if v := os.Getenv("VAULTSYNC_RECONCILE_INTERVAL"); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid VAULTSYNC_RECONCILE_INTERVAL %q: %w", v, err)
		}
		c.Reconcile.SweepInterval = Duration(interval)
	}

	return nil
}

// Validate проверяет полноту и согласованность конфигурации
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return errors.New("server.listen_addr must not be empty")
	}
	if err := validation.ValidateNodeName(c.Server.NodeName); err != nil {
		return fmt.Errorf("server.node_name: %w", err)
	}
	if c.Server.ShutdownTimeout.Std() <= 0 {
		return errors.New("server.shutdown_timeout must be positive")
	}
	if c.Server.RateLimit <= 0 {
		return errors.New("server.rate_limit must be positive")
	}
	if c.Server.RateWindow.Std() <= 0 {
		return errors.New("server.rate_window must be positive")
	}
	if c.Storage.DatabasePath == "" {
		return errors.New("storage.database_path must not be empty")
	}
	if c.Auth.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.Auth.JoinKey == "" {
		return ErrMissingJoinKey
	}
	if c.Auth.TokenTTL.Std() <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	if c.Sync.MaxBatchSize <= 0 {
		return errors.New("sync.max_batch_size must be positive")
	}
	if c.Reconcile.SweepInterval.Std() < 0 {
		return errors.New("reconcile.sweep_interval must not be negative")
	}

	return nil
}
