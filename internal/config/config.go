// Package config provides configuration related utilities.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Default values for config.
const (
	defaultHost                   = "0.0.0.0"
	defaultPort                   = "8080"
	defaultRPCPort                = "3200"
	defaultLogPath                = "logs/app.log"
	defaultLogLevel               = "info"
	defaultMaxLogSizeMB           = 5
	defaultMaxLogBackups          = 10
	defaultMaxLogFileLifetimeDays = 14
	defaultProbeInterval          = 10 * time.Second
)

// Default variables.
var (
	// DefaultAddress is the address to start the HTTP server on.
	DefaultAddress = fmt.Sprintf("%s:%s", defaultHost, defaultPort)
	// DefaultRPCAddress is the address to start the gRPC health server on.
	DefaultRPCAddress = fmt.Sprintf("%s:%s", defaultHost, defaultRPCPort)
)

// Config represents an application configuration.
type (
	Config struct {
		// The data source name (DSN) for connecting to the analytics database.
		DSN string `yaml:"dsn" env:"DATABASE_DSN"`
		// RunMigrations applies the embedded schema on start.
		RunMigrations Enabled `yaml:"run_migrations" env:"RUN_MIGRATIONS"`
		// TLSEnabled determines whether the server will be started in the TLS mode.
		TLSEnabled Enabled `yaml:"enable_https" env:"ENABLE_HTTPS"`
		// Subconfigs.
		Server Server `yaml:"http_server"`
		RPC    RPC    `yaml:"rpc"`
		Logger Logger `yaml:"logger"`
	}
	// Config for HTTP server.
	Server struct {
		// Address to run the server.
		RunAddress *NetAddress `yaml:"server_address" env:"SERVER_ADDRESS"`
		// Read header timeout.
		Timeout time.Duration `yaml:"timeout" env-default:"5s"`
		// Idle timeout.
		IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
		// Shutdown timeout.
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"30s"`
	}
	// Config for gRPC health server.
	RPC struct {
		// Enabled defines if the gRPC health server should run next to HTTP.
		Enabled Enabled `yaml:"enable_rpc" env:"ENABLE_RPC"`
		// Address to run the gRPC server.
		Address *NetAddress `yaml:"rpc_address" env:"RPC_ADDRESS"`
		// How often the analytics database is probed.
		ProbeInterval time.Duration `yaml:"probe_interval" env:"RPC_PROBE_INTERVAL"`
	}
	// Config for application's logger.
	Logger struct {
		// Path to store log files.
		Path string `yaml:"log_path" env:"LOG_PATH"`
		// Application logging level.
		Level string `yaml:"level" env:"LOG_LEVEL"`
		// Log files details.
		MaxSizeMB  int `yaml:"max_size_mb"`
		MaxBackups int `yaml:"max_backups"`
		MaxAgeDays int `yaml:"max_age_days"`
	}
)

// Interface implementation guards.
var (
	_ flag.Value      = (*NetAddress)(nil)
	_ cleanenv.Setter = (*NetAddress)(nil)
	_ flag.Value      = (*Enabled)(nil)
	_ cleanenv.Setter = (*Enabled)(nil)
)

// NetAddress represents a network address with a host and a port.
type NetAddress string

// NewNetAddress returns a pointer to a new NetAddress with default Host and Port.
func NewNetAddress() *NetAddress {
	a := NetAddress(DefaultAddress)
	return &a
}

// String returns a string representation of the NetAddress in the form "host:port".
func (a *NetAddress) String() string {
	return string(*a)
}

// Set sets the host and port of the NetAddress from a string
// in the form "host:port". Missing host falls back to 0.0.0.0.
func (a *NetAddress) Set(s string) error {
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "https://")

	hp := strings.Split(s, ":")

	if len(hp) != 2 {
		return errors.New("need address in a form host:port")
	}

	if _, err := strconv.Atoi(hp[1]); err != nil {
		return fmt.Errorf("invalid port: %w", err)
	}

	if hp[0] != "" {
		*a = NetAddress(fmt.Sprintf("%s:%s", hp[0], hp[1]))
		return nil
	}

	*a = NetAddress(fmt.Sprintf("%s:%s", defaultHost, hp[1]))
	return nil
}

// SetValue implements cleanenv value setter.
func (a *NetAddress) SetValue(s string) error {
	return a.Set(s)
}

// Enabled implements general setter for boolean values.
// Implements cleanenv value setter.
type Enabled bool

// Set sets Enabled value from string.
func (e *Enabled) Set(s string) error {
	trueValues := []string{
		"true", "1", "t", "T", "TRUE", "True",
	}
	falseValues := []string{
		"false", "0", "f", "F", "FALSE", "False",
	}
	switch {
	case slices.Contains(trueValues, s):
		*e = true
	case slices.Contains(falseValues, s):
		*e = false
	default:
		return fmt.Errorf(
			"invalid value: %q; need boolean value in form: true: %q false: %q",
			s,
			strings.Join(trueValues, "\", \""),
			strings.Join(falseValues, "\", \""),
		)
	}
	return nil
}

// SetValue implements cleanenv value setter.
func (e *Enabled) SetValue(s string) error {
	return e.Set(s)
}

// String returns a string representation of the Enabled value.
func (e *Enabled) String() string {
	return fmt.Sprintf("%v", bool(*e))
}

// IsBoolFlag lets the flag be passed without a value.
func (e *Enabled) IsBoolFlag() bool {
	return true
}

func newDefault() *Config {
	var cfg Config
	cfg.Server.RunAddress = NewNetAddress()
	rpcAddr := NetAddress(DefaultRPCAddress)
	cfg.RPC.Address = &rpcAddr
	cfg.RPC.ProbeInterval = defaultProbeInterval
	cfg.Logger.Path = defaultLogPath
	cfg.Logger.Level = defaultLogLevel
	cfg.Logger.MaxSizeMB = defaultMaxLogSizeMB
	cfg.Logger.MaxBackups = defaultMaxLogBackups
	cfg.Logger.MaxAgeDays = defaultMaxLogFileLifetimeDays
	return &cfg
}

// Order of loading configuration:
// 1. Config file (YAML, JSON supported)
// 2. Flags
// 3. Environment variables

// Load returns an application configuration which is populated
// from the configuration file named by CONFIG, the given
// command line arguments and environment variables.
func Load(args []string) (*Config, error) {
	cfg := newDefault()

	// Configuration file path.
	if configPath, set := os.LookupEnv("CONFIG"); set {
		if err := readFile(configPath, cfg); err != nil {
			return nil, err
		}
	}

	// Read given flags. If not provided use file values.
	fs := flag.NewFlagSet("squarehouse", flag.ContinueOnError)
	fs.Var(cfg.Server.RunAddress, "a", "server start address in form host:port")
	fs.Var(cfg.RPC.Address, "g", "gRPC health server address in form host:port")
	fs.Var(&cfg.TLSEnabled, "s", "run the server in TLS mode")
	fs.Var(&cfg.RPC.Enabled, "r", "run the gRPC health server")
	fs.Var(&cfg.RunMigrations, "m", "apply database migrations on start")
	fs.StringVar(&cfg.DSN, "d", cfg.DSN, "analytics database data source name")
	fs.StringVar(&cfg.Logger.Level, "l", cfg.Logger.Level, "logging level")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Read environment variables.
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read environment variables: %w", err)
	}

	return cfg, nil
}

// MustLoad is like Load for the process arguments but exits on failure.
func MustLoad() *Config {
	cfg, err := Load(os.Args[1:])
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return cfg
}

func readFile(configPath string, cfg *Config) error {
	file, err := os.Open(configPath)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer file.Close()

	// Support different file extensions.
	switch ext := filepath.Ext(configPath); ext {
	case ".yaml", ".yml":
		err = cleanenv.ParseYAML(file, cfg)
	case ".json":
		err = cleanenv.ParseJSON(file, cfg)
	default:
		return fmt.Errorf("unsupported configuration file extension: %q", ext)
	}
	if err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	return nil
}

// NewForTest returns application configuration for testing.
func NewForTest() *Config {
	cfg := newDefault()
	cfg.Server.Timeout = 5 * time.Second
	cfg.Server.IdleTimeout = 60 * time.Second
	cfg.Server.ShutdownTimeout = 30 * time.Second
	cfg.RPC.ProbeInterval = 100 * time.Millisecond
	cfg.Logger.Path = filepath.Join(os.TempDir(), "squarehouse-test.log")
	return cfg
}
