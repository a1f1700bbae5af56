package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Modos de armazenamento.
const (
	ModoDocumento  = "documento"
	ModoRelacional = "relacional"
)

// Drivers do modo relacional.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config é a configuração do processo. Os campos *Raw guardam o texto vindo do
// YAML ou do ambiente; validar os converte nos campos tipados.
type Config struct {
	Porta       string     `yaml:"porta"`
	LogLevel    slog.Level `yaml:"-"`
	LogLevelRaw string     `yaml:"log_level"`
	OrigensCORS []string   `yaml:"origens_cors"`

	ReadHeaderTimeout    time.Duration `yaml:"-"`
	ReadHeaderTimeoutRaw string        `yaml:"read_header_timeout"`
	ShutdownTimeout      time.Duration `yaml:"-"`
	ShutdownTimeoutRaw   string        `yaml:"shutdown_timeout"`

	Armazenamento Armazenamento `yaml:"armazenamento"`
	Notificacao   Notificacao   `yaml:"notificacao"`
}

// Armazenamento escolhe e parametriza a estratégia de persistência.
type Armazenamento struct {
	Modo         string `yaml:"modo"`
	ArquivoDados string `yaml:"arquivo_dados"`
	Banco        Banco  `yaml:"banco"`
}

// Banco reúne os parâmetros de conexão do modo relacional.
type Banco struct {
	Driver     string `yaml:"driver"`
	Host       string `yaml:"host"`
	Port       uint   `yaml:"port"`
	Nome       string `yaml:"nome"`
	Usuario    string `yaml:"usuario"`
	Senha      string `yaml:"senha"`
	SSLDisable bool   `yaml:"ssl_disable"`
	Caminho    string `yaml:"caminho"` // arquivo do SQLite
}

// Notificacao configura os canais opcionais de eventos.
type Notificacao struct {
	WebhookURL  string `yaml:"webhook_url"`
	RabbitURI   string `yaml:"rabbit_uri"`
	RabbitQueue string `yaml:"rabbit_queue"`
}

// Padrao devolve a configuração usada quando nada é informado.
func Padrao() *Config {
	return &Config{
		Porta:                "8080",
		LogLevel:             slog.LevelInfo,
		LogLevelRaw:          "info",
		OrigensCORS:          []string{"*"},
		ReadHeaderTimeout:    5 * time.Second,
		ReadHeaderTimeoutRaw: "5s",
		ShutdownTimeout:      10 * time.Second,
		ShutdownTimeoutRaw:   "10s",
		Armazenamento: Armazenamento{
			Modo:         ModoDocumento,
			ArquivoDados: "data/dados.json",
			Banco: Banco{
				Driver:  DriverPostgres,
				Host:    "localhost",
				Port:    5432,
				Nome:    "departamento_pessoal",
				Caminho: "data/dp.db",
			},
		},
		Notificacao: Notificacao{RabbitQueue: "dp_eventos"},
	}
}

// Load monta a configuração: padrões, depois o arquivo YAML (se houver),
// depois as variáveis de ambiente (.env incluído).
func Load(path string) (*Config, error) {
	// .env é opcional
	_ = godotenv.Load()

	cfg := Padrao()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := cfg.aplicarAmbiente(); err != nil {
		return nil, err
	}

	if err := cfg.validar(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) aplicarAmbiente() error {
	c.Porta = getenvAny(c.Porta, "PORT", "API_PORT")
	c.LogLevelRaw = getenv("LOG_LEVEL", c.LogLevelRaw)
	c.ReadHeaderTimeoutRaw = getenv("READ_HEADER_TIMEOUT", c.ReadHeaderTimeoutRaw)
	c.ShutdownTimeoutRaw = getenv("SHUTDOWN_TIMEOUT", c.ShutdownTimeoutRaw)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.OrigensCORS = splitList(v)
	}

	a := &c.Armazenamento
	a.Modo = strings.ToLower(getenv("STORAGE_MODE", a.Modo))
	a.ArquivoDados = getenv("DATA_FILE", a.ArquivoDados)

	b := &a.Banco
	b.Driver = strings.ToLower(getenv("DB_DRIVER", b.Driver))
	b.Host = getenv("DB_HOST", b.Host)
	if v := os.Getenv("DB_PORT"); v != "" {
		port, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return fmt.Errorf("config: invalid DB_PORT %q", v)
		}
		b.Port = uint(port)
	}
	b.Nome = getenv("DB_NAME", b.Nome)
	b.Usuario = getenv("DB_USERNAME", b.Usuario)
	b.Senha = getenv("DB_PASSWORD", b.Senha)
	b.Caminho = getenv("DB_PATH", b.Caminho)
	if os.Getenv("DB_SSL_MODE_DISABLE") == "true" {
		b.SSLDisable = true
	}

	n := &c.Notificacao
	n.WebhookURL = getenv("WEBHOOK_URL", n.WebhookURL)
	n.RabbitURI = getenvAny(n.RabbitURI, "RABBITMQ_URL", "RABBIT_URI")
	n.RabbitQueue = getenvAny(n.RabbitQueue, "RABBITMQ_QUEUE", "RABBIT_QUEUE")
	return nil
}

func (c *Config) validar() error {
	if c.Porta == "" {
		return errors.New("config: porta must be set")
	}

	level, err := parseLevel(c.LogLevelRaw)
	if err != nil {
		return err
	}
	c.LogLevel = level
	if c.ReadHeaderTimeout, err = parseDuration("read_header_timeout", c.ReadHeaderTimeoutRaw); err != nil {
		return err
	}
	if c.ShutdownTimeout, err = parseDuration("shutdown_timeout", c.ShutdownTimeoutRaw); err != nil {
		return err
	}
	switch c.Armazenamento.Modo {
	case ModoDocumento:
		if c.Armazenamento.ArquivoDados == "" {
			return errors.New("config: armazenamento.arquivo_dados must be set")
		}
	case ModoRelacional:
		switch c.Armazenamento.Banco.Driver {
		case DriverPostgres:
			if c.Armazenamento.Banco.Host == "" || c.Armazenamento.Banco.Nome == "" {
				return errors.New("config: banco.host and banco.nome must be set")
			}
		case DriverSQLite:
			if c.Armazenamento.Banco.Caminho == "" {
				return errors.New("config: banco.caminho must be set")
			}
		default:
			return fmt.Errorf("config: unknown database driver %q", c.Armazenamento.Banco.Driver)
		}
	default:
		return fmt.Errorf("config: unknown storage mode %q", c.Armazenamento.Modo)
	}
	return nil
}

// DSN monta a string de conexão do Postgres no formato key=value.
func (b Banco) DSN() string {
	var sslMode string
	if b.SSLDisable {
		sslMode = " sslmode=disable"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d%s", b.Host, b.Usuario, b.Senha, b.Nome, b.Port, sslMode)
}

// InitLogger instala um logger JSON como padrão do processo.
func InitLogger(level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	l := slog.New(h)
	slog.SetDefault(l)
	return l
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvAny(def string, keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

func parseDuration(campo, s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("config: invalid %s %q", campo, s)
	}
	return d, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("config: invalid log_level %q", s)
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
