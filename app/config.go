package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/paw-chain/swapcore/app/telemetry"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. SWAPD_API_ADDRESS.
	EnvPrefix = "SWAPD"

	// DefaultChainID is the chain id used when none is configured.
	DefaultChainID uint64 = 280

	defaultAPIAddress     = "127.0.0.1:1317"
	defaultMetricsAddress = "127.0.0.1:26660"
	defaultRateLimitRPS   = 100
)

// Config is the node configuration read from <home>/config/app.toml.
type Config struct {
	ChainID   uint64
	DBBackend string
	LogLevel  string
	API       APIConfig
	Metrics   MetricsConfig
	Telemetry telemetry.Config
}

// APIConfig configures the read-only REST server.
type APIConfig struct {
	Address      string
	RateLimitRPS int
	CORSOrigins  []string
}

// MetricsConfig configures the prometheus and health server.
type MetricsConfig struct {
	Address string
}

// DefaultConfig returns the default node configuration.
func DefaultConfig() Config {
	return Config{
		ChainID:   DefaultChainID,
		DBBackend: string(dbm.GoLevelDBBackend),
		LogLevel:  zerolog.InfoLevel.String(),
		API: APIConfig{
			Address:      defaultAPIAddress,
			RateLimitRPS: defaultRateLimitRPS,
			CORSOrigins:  []string{"*"},
		},
		Metrics: MetricsConfig{
			Address: defaultMetricsAddress,
		},
		Telemetry: telemetry.DefaultConfig(),
	}
}

// ConfigPath returns the app.toml location under home.
func ConfigPath(home string) string {
	return filepath.Join(home, "config", "app.toml")
}

// GenesisPath returns the genesis.json location under home.
func GenesisPath(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

func newViper(defaults Config) *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")

	v.SetDefault("chain_id", defaults.ChainID)
	v.SetDefault("db_backend", defaults.DBBackend)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("api.address", defaults.API.Address)
	v.SetDefault("api.rate_limit_rps", defaults.API.RateLimitRPS)
	v.SetDefault("api.cors_origins", defaults.API.CORSOrigins)
	v.SetDefault("metrics.address", defaults.Metrics.Address)
	v.SetDefault("telemetry.enabled", defaults.Telemetry.Enabled)
	v.SetDefault("telemetry.exporter", defaults.Telemetry.Exporter)
	v.SetDefault("telemetry.endpoint", defaults.Telemetry.Endpoint)
	v.SetDefault("telemetry.service_name", defaults.Telemetry.ServiceName)
	v.SetDefault("telemetry.sample_rate", defaults.Telemetry.SampleRate)
	return v
}

// LoadConfig reads the configuration under home. A missing file yields the
// defaults; environment variables override both.
func LoadConfig(home string) (Config, error) {
	v := newViper(DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigFile(ConfigPath(home))
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read %s: %w", ConfigPath(home), err)
	}

	chainID, err := cast.ToUint64E(v.Get("chain_id"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid chain_id: %w", err)
	}
	rps, err := cast.ToIntE(v.Get("api.rate_limit_rps"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid api.rate_limit_rps: %w", err)
	}
	tracing, err := cast.ToBoolE(v.Get("telemetry.enabled"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid telemetry.enabled: %w", err)
	}
	sampleRate, err := cast.ToFloat64E(v.Get("telemetry.sample_rate"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid telemetry.sample_rate: %w", err)
	}

	cfg := Config{
		ChainID:   chainID,
		DBBackend: cast.ToString(v.Get("db_backend")),
		LogLevel:  cast.ToString(v.Get("log_level")),
		API: APIConfig{
			Address:      cast.ToString(v.Get("api.address")),
			RateLimitRPS: rps,
			CORSOrigins:  corsOrigins(v.Get("api.cors_origins")),
		},
		Metrics: MetricsConfig{
			Address: cast.ToString(v.Get("metrics.address")),
		},
		Telemetry: telemetry.Config{
			Enabled:     tracing,
			Exporter:    cast.ToString(v.Get("telemetry.exporter")),
			Endpoint:    cast.ToString(v.Get("telemetry.endpoint")),
			ServiceName: cast.ToString(v.Get("telemetry.service_name")),
			SampleRate:  sampleRate,
		},
	}
	return cfg, cfg.Validate()
}

// corsOrigins accepts a list or a comma separated string from the environment.
func corsOrigins(raw interface{}) []string {
	if s, ok := raw.(string); ok {
		raw = strings.Split(s, ",")
	}
	var origins []string
	for _, o := range cast.ToStringSlice(raw) {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if c.ChainID == 0 {
		return fmt.Errorf("chain_id must be positive")
	}
	switch dbm.BackendType(c.DBBackend) {
	case dbm.GoLevelDBBackend, dbm.MemDBBackend:
	default:
		return fmt.Errorf("unsupported db_backend %q", c.DBBackend)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	if c.API.RateLimitRPS < 0 {
		return fmt.Errorf("api.rate_limit_rps must not be negative")
	}
	return c.Telemetry.Validate()
}

// WriteConfig writes cfg to <home>/config/app.toml.
func WriteConfig(home string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(ConfigPath(home)), 0o755); err != nil {
		return err
	}
	return newViper(cfg).WriteConfigAs(ConfigPath(home))
}

// NewLogger returns a logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer) log.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return log.NewLogger(w, log.LevelOption(level))
}

// NewTelemetry builds the tracer provider configured under telemetry.
func (c Config) NewTelemetry(ctx context.Context) (*telemetry.Provider, error) {
	return telemetry.NewProvider(ctx, c.Telemetry, c.ChainID)
}

// OpenDB opens the state database under <home>/data.
func (c Config) OpenDB(home string) (dbm.DB, error) {
	backend := dbm.BackendType(c.DBBackend)
	if backend == dbm.MemDBBackend {
		return dbm.NewMemDB(), nil
	}
	return dbm.NewDB("application", backend, filepath.Join(home, "data"))
}
