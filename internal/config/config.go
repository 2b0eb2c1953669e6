package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// поддерживаемые драйверы БД
const (
	DriverPQ  = "postgres"
	DriverPGX = "pgx"
)

type Config struct {
	Env        string           `yaml:"env" env:"APP_ENV" env-default:"dev"` // environment
	HTTPServer HTTPServerConfig `yaml:"http_server"`
	Database   DatabaseConfig   `yaml:"database"`
	JWT        JWTConfig        `yaml:"jwt"`
	Migrations MigrationsConfig `yaml:"migrations"`
	Bootstrap  BootstrapConfig  `yaml:"bootstrap"`
}

// HTTPServerConfig структура http сервера
type HTTPServerConfig struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout         time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"5s"`
}

// DatabaseConfig структура по работе с БД и пулом соединений
type DatabaseConfig struct {
	Driver          string        `yaml:"driver" env:"DB_DRIVER" env-default:"postgres"`
	Host            string        `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            int           `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User            string        `yaml:"user" env:"DB_USER" env-required:"true"`
	Password        string        `yaml:"-" env:"DB_PASSWORD" env-required:"true"`
	Name            string        `yaml:"name" env:"DB_NAME" env-required:"true"`
	SSLMode         string        `yaml:"ssl_mode" env:"DB_SSLMODE" env-default:"disable"`
	MaxOpenConns    int           `yaml:"max_open_conns" env-default:"10"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env-default:"5m"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" env-default:"1m"`
}

// JWTConfig настройка jwt, TokenTTL в минутах (по умолчанию сутки)
type JWTConfig struct {
	Secret   string `yaml:"-" env:"JWT_SECRET" env-required:"true"`
	TokenTTL int    `yaml:"token_ttl" env-default:"1440"`
}

type MigrationsConfig struct {
	Table string `yaml:"table" env-default:"schema_migrations"`
}

// BootstrapConfig - создание схемы и начальных данных
type BootstrapConfig struct {
	OnStartup     bool   `yaml:"on_startup" env:"BOOTSTRAP_ON_STARTUP" env-default:"false"`
	AdminUsername string `yaml:"admin_username" env-default:"admin"`
	AdminPassword string `yaml:"-" env:"ADMIN_PASSWORD" env-default:"admin123"`
}

// минимальная длина секрета подписи в prod
const minProdSecretLen = 32

// DSN собирает строку подключения для обычных запросов
func (c DatabaseConfig) DSN() string {
	return c.dsn(nil)
}

// MigrateDSN собирает DSN для golang-migrate с отдельной таблицей версий
func (c DatabaseConfig) MigrateDSN(migrationsTable string) string {
	return c.dsn(url.Values{"x-migrations-table": []string{migrationsTable}})
}

func (c DatabaseConfig) dsn(extra url.Values) string {
	query := url.Values{"sslmode": []string{c.SSLMode}}
	for k, v := range extra {
		query[k] = v
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + strconv.Itoa(c.Port),
		Path:     "/" + c.Name,
		RawQuery: query.Encode(),
	}
	return u.String()
}

// TokenTTLDuration переводит TokenTTL в time.Duration
func (c JWTConfig) TokenTTLDuration() time.Duration {
	return time.Duration(c.TokenTTL) * time.Minute
}

// Validate проверяет то, что не выразить тегами cleanenv
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPQ, DriverPGX:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns <= 0 {
		return errors.New("database.max_open_conns must be positive")
	}
	if c.JWT.TokenTTL <= 0 {
		return errors.New("jwt.token_ttl must be positive")
	}
	if c.Env == "prod" && len(c.JWT.Secret) < minProdSecretLen {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes in prod", minProdSecretLen)
	}
	return nil
}

// MustLoad - если не загружаем - паникуем
func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		log.Fatal("CONFIG_PATH not exists")
	}
	return MustLoadByPath(configPath)
}

func fetchConfigPath() string {
	var path string

	flag.StringVar(&path, "config", "", "path to config file")
	flag.Parse()

	return ResolvePath(path)
}

// ResolvePath возвращает путь из флага, а если он пуст - из CONFIG_PATH
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("CONFIG_PATH")
}

func MustLoadByPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file not found: " + configPath)
	}

	// .env не обязателен, переменные окружения имеют приоритет
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("can't read config file %s: %v", configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config %s: %v", configPath, err)
	}

	return &cfg
}
