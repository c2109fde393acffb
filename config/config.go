// Package config carrega a configuração do serviço a partir de YAML e variáveis de ambiente.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type HTTPConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type DatabaseConfig struct {
	DSN            string `yaml:"dsn"`
	MaxOpenConns   int    `yaml:"max_open_conns"`
	MigrateOnStart bool   `yaml:"migrate_on_start"`
}

type SolanaConfig struct {
	RPCURL     string `yaml:"rpc_url"`
	Commitment string `yaml:"commitment"`
}

type ReconcilerConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Interval  time.Duration `yaml:"interval"`
	BatchSize int           `yaml:"batch_size"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Config é a configuração completa do processo.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Solana     SolanaConfig     `yaml:"solana"`
	Reconciler ReconcilerConfig `yaml:"reconciler"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// Default devolve os valores usados quando o arquivo omite um campo.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns:   10,
			MigrateOnStart: true,
		},
		Solana: SolanaConfig{
			RPCURL:     "https://api.devnet.solana.com",
			Commitment: "finalized",
		},
		Reconciler: ReconcilerConfig{
			Enabled:   true,
			Interval:  30 * time.Second,
			BatchSize: 50,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load lê o arquivo (opcional quando path é vazio), aplica o ambiente e valida.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("falha ao ler configuração %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("configuração YAML inválida em %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("CAPTABLE_HTTP_ADDR"); ok && v != "" {
		c.HTTP.Addr = v
	}
	if v, ok := lookup("CAPTABLE_DATABASE_DSN"); ok && v != "" {
		c.Database.DSN = v
	}
	if v, ok := lookup("CAPTABLE_SOLANA_RPC_URL"); ok && v != "" {
		c.Solana.RPCURL = v
	}
	if v, ok := lookup("CAPTABLE_LOG_LEVEL"); ok && v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v, ok := lookup("CAPTABLE_RECONCILE_INTERVAL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CAPTABLE_RECONCILE_INTERVAL inválido: %w", err)
		}
		c.Reconciler.Interval = d
	}
	return nil
}

// Validate rejeita configurações com as quais o serviço não consegue subir.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Database.DSN) == "" {
		errs = append(errs, errors.New("database.dsn é obrigatório"))
	}
	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr é obrigatório"))
	}
	if c.HTTP.ReadTimeout <= 0 || c.HTTP.WriteTimeout <= 0 {
		errs = append(errs, errors.New("timeouts HTTP devem ser positivos"))
	}
	if c.Reconciler.Enabled {
		if c.Reconciler.Interval <= 0 {
			errs = append(errs, errors.New("reconciler.interval deve ser positivo"))
		}
		if c.Reconciler.BatchSize <= 0 {
			errs = append(errs, errors.New("reconciler.batch_size deve ser positivo"))
		}
		if c.Solana.RPCURL == "" {
			errs = append(errs, errors.New("solana.rpc_url é obrigatório com o reconciliador ativo"))
		}
	}
	return errors.Join(errs...)
}
