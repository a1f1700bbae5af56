package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Porta != "8080" {
		t.Errorf("Porta = %q, want %q", cfg.Porta, "8080")
	}
	if cfg.Armazenamento.Modo != ModoDocumento {
		t.Errorf("Modo = %q, want %q", cfg.Armazenamento.Modo, ModoDocumento)
	}
	if cfg.Armazenamento.ArquivoDados != "data/dados.json" {
		t.Errorf("ArquivoDados = %q", cfg.Armazenamento.ArquivoDados)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STORAGE_MODE", "RELACIONAL")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.interno")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "folha")
	t.Setenv("DB_USERNAME", "rh")
	t.Setenv("DB_PASSWORD", "segredo")
	t.Setenv("DB_SSL_MODE_DISABLE", "true")
	t.Setenv("CORS_ORIGINS", "http://a.local, http://b.local")
	t.Setenv("READ_HEADER_TIMEOUT", "2s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Porta != "9090" {
		t.Errorf("Porta = %q", cfg.Porta)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.Armazenamento.Modo != ModoRelacional {
		t.Errorf("Modo = %q", cfg.Armazenamento.Modo)
	}
	if len(cfg.OrigensCORS) != 2 || cfg.OrigensCORS[1] != "http://b.local" {
		t.Errorf("OrigensCORS = %v", cfg.OrigensCORS)
	}
	if cfg.ReadHeaderTimeout != 2*time.Second {
		t.Errorf("ReadHeaderTimeout = %v", cfg.ReadHeaderTimeout)
	}

	want := "host=db.interno user=rh password=segredo dbname=folha port=6543 sslmode=disable"
	if got := cfg.Armazenamento.Banco.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	path := filepath.Join(t.TempDir(), "dp.yaml")
	content := `
porta: "7000"
armazenamento:
  modo: relacional
  banco:
    driver: sqlite
    caminho: /tmp/dp-test.db
notificacao:
  webhook_url: http://hooks.local/dp
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Porta != "7000" {
		t.Errorf("Porta = %q", cfg.Porta)
	}
	if cfg.Armazenamento.Banco.Driver != DriverSQLite || cfg.Armazenamento.Banco.Caminho != "/tmp/dp-test.db" {
		t.Errorf("Banco = %+v", cfg.Armazenamento.Banco)
	}
	if cfg.Notificacao.WebhookURL != "http://hooks.local/dp" {
		t.Errorf("WebhookURL = %q", cfg.Notificacao.WebhookURL)
	}
	if cfg.Notificacao.RabbitQueue != "dp_eventos" {
		t.Errorf("RabbitQueue = %q, want default", cfg.Notificacao.RabbitQueue)
	}
}

func TestLoad_InvalidMode(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("STORAGE_MODE", "planilha")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for unknown storage mode")
	}
}

func TestLoad_InvalidDriver(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("STORAGE_MODE", "relacional")
	t.Setenv("DB_DRIVER", "oracle")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nao-existe.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_YAMLTimeouts(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	path := filepath.Join(t.TempDir(), "dp.yaml")
	content := `
log_level: warn
read_header_timeout: 3s
shutdown_timeout: 1m
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ReadHeaderTimeout != 3*time.Second {
		t.Errorf("ReadHeaderTimeout = %v", cfg.ReadHeaderTimeout)
	}
	if cfg.ShutdownTimeout != time.Minute {
		t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
	if cfg.LogLevel != slog.LevelWarn {
		t.Errorf("LogLevel = %v, want warn", cfg.LogLevel)
	}

	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("env should override yaml, ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		env, value string
	}{
		{"LOG_LEVEL", "verbose"},
		{"READ_HEADER_TIMEOUT", "cinco"},
		{"SHUTDOWN_TIMEOUT", "10"},
		{"SHUTDOWN_TIMEOUT", "-1s"},
		{"DB_PORT", "porta"},
	}
	for _, tt := range tests {
		t.Run(tt.env+"="+tt.value, func(t *testing.T) {
			t.Setenv("CONFIG_PATH", "")
			t.Setenv(tt.env, tt.value)
			if _, err := Load(""); err == nil {
				t.Fatalf("expected error for %s=%q", tt.env, tt.value)
			}
		})
	}
}
