package config_test

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/linemk/pricedesk/internal/config"
	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	// Создаем временный файл с конфигурацией
	tmpFile, err := os.CreateTemp(t.TempDir(), "config_test_*.yaml")
	assert.NoError(t, err)

	_, err = tmpFile.WriteString(content)
	assert.NoError(t, err)
	assert.NoError(t, tmpFile.Close())
	return tmpFile.Name()
}

func TestMustLoadByPath_Success(t *testing.T) {
	// Устанавливаем обязательные переменные окружения
	t.Setenv("DB_PASSWORD", "mypassword")
	t.Setenv("JWT_SECRET", "mysecret")

	// Пример содержимого конфигурационного файла
	path := writeConfig(t, `
env: "local"
http_server:
  address: "localhost:8080"
  timeout: "4s"
  idle_timeout: "60s"
database:
  host: "localhost"
  port: 5432
  user: "postgres"
  name: "pricedesk"
  max_open_conns: 7
jwt:
  token_ttl: 60
migrations:
  table: "migrations"
bootstrap:
  on_startup: true
`)

	// Загружаем конфигурацию из временного файла
	cfg := config.MustLoadByPath(path)

	// Проверяем, что конфигурация загружена корректно
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "localhost:8080", cfg.HTTPServer.Address)
	assert.Equal(t, 4*time.Second, cfg.HTTPServer.Timeout)
	assert.Equal(t, 60*time.Second, cfg.HTTPServer.IdleTimeout)
	assert.Equal(t, 5*time.Second, cfg.HTTPServer.ShutdownTimeout)
	assert.Equal(t, config.DriverPQ, cfg.Database.Driver)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, "mypassword", cfg.Database.Password)
	assert.Equal(t, "pricedesk", cfg.Database.Name)
	assert.Equal(t, 7, cfg.Database.MaxOpenConns)
	assert.Equal(t, "mysecret", cfg.JWT.Secret)
	assert.Equal(t, 60*time.Minute, cfg.JWT.TokenTTLDuration())
	assert.Equal(t, "migrations", cfg.Migrations.Table)
	assert.True(t, cfg.Bootstrap.OnStartup)
	assert.Equal(t, "admin", cfg.Bootstrap.AdminUsername)
	assert.Equal(t, "admin123", cfg.Bootstrap.AdminPassword)
}

func TestMustLoadByPath_Defaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "mypassword")
	t.Setenv("JWT_SECRET", "mysecret")

	path := writeConfig(t, `
database:
  user: "postgres"
  name: "pricedesk"
`)
	cfg := config.MustLoadByPath(path)

	assert.Equal(t, "dev", cfg.Env)
	// сутки по умолчанию
	assert.Equal(t, 24*time.Hour, cfg.JWT.TokenTTLDuration())
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, "schema_migrations", cfg.Migrations.Table)
	assert.False(t, cfg.Bootstrap.OnStartup)
}

func TestMustLoadByPath_FileNotFound(t *testing.T) {
	// Ожидаем панику, если файла не существует
	assert.Panics(t, func() {
		config.MustLoadByPath("non_existent_config.yaml")
	})
}

func TestValidate(t *testing.T) {
	valid := config.Config{
		Env:      "prod",
		Database: config.DatabaseConfig{Driver: config.DriverPGX, MaxOpenConns: 10},
		JWT:      config.JWTConfig{Secret: strings.Repeat("s", 32), TokenTTL: 1440},
	}
	assert.NoError(t, valid.Validate())

	weakSecret := valid
	weakSecret.JWT.Secret = "short"
	assert.Error(t, weakSecret.Validate(), "short secret must be rejected in prod")

	badDriver := valid
	badDriver.Database.Driver = "mysql"
	assert.Error(t, badDriver.Validate())

	noPool := valid
	noPool.Database.MaxOpenConns = 0
	assert.Error(t, noPool.Validate())
}

func TestDSN(t *testing.T) {
	db := config.DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "shop",
		Password: "p@ss word",
		Name:     "pricedesk",
		SSLMode:  "disable",
	}

	assert.Equal(t, "postgres://shop:p%40ss%20word@db:5433/pricedesk?sslmode=disable", db.DSN())
	assert.Equal(t,
		"postgres://shop:p%40ss%20word@db:5433/pricedesk?sslmode=disable&x-migrations-table=migrations",
		db.MigrateDSN("migrations"),
	)
}

func TestResolvePath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/etc/pricedesk.yaml")
	assert.Equal(t, "custom.yaml", config.ResolvePath("custom.yaml"))
	assert.Equal(t, "/etc/pricedesk.yaml", config.ResolvePath(""))
}
