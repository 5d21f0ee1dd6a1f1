package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/spf13/viper"
)

// EVMConfig is the configuration for the EVM chains.
//
// WARNING: This data type contains sensitive fields and should not be logged or set in file
// configuration.
type EVMConfig struct {
	DeployerKey string `mapstructure:"deployer_key" yaml:"deployer_key"` // Secret: The private key of the operating signer.
	GasLimit    uint64 `mapstructure:"gas_limit" yaml:"gas_limit"`       // Fixed gas limit. Zero estimates per transaction.
}

// OnchainConfig wraps the configuration for the onchain components.
type OnchainConfig struct {
	EVM EVMConfig `mapstructure:"evm" yaml:"evm"`
}

// MigrationConfig tunes capability migration runs.
type MigrationConfig struct {
	SettlementTimeout time.Duration `mapstructure:"settlement_timeout" yaml:"settlement_timeout"` // Bound on waiting for one transaction.
	ReadAttempts      uint          `mapstructure:"read_attempts" yaml:"read_attempts"`           // Attempts of every ledger read.
	ConfirmTick       time.Duration `mapstructure:"confirm_tick" yaml:"confirm_tick"`             // Receipt polling interval.
}

// LogConfig configures the runtime logger.
type LogConfig struct {
	Level    string `mapstructure:"level" yaml:"level"`
	Encoding string `mapstructure:"encoding" yaml:"encoding"`
}

// Config wraps the entire runtime configuration of omnictl.
type Config struct {
	Onchain   OnchainConfig   `mapstructure:"onchain" yaml:"onchain"`
	Migration MigrationConfig `mapstructure:"migration" yaml:"migration"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

// Load loads the config from the file path, falling back to env vars if the file does not exist.
// If the file exists, any env vars that are set will override the values loaded from the file.
func Load(filePath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(filePath)

	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", filePath, err)
		}
	}

	return unmarshal(v)
}

// LoadEnv loads the config from the environment variables.
func LoadEnv() (*Config, error) {
	v := newViper()

	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("migration.settlement_timeout", 5*time.Minute)
	v.SetDefault("migration.read_attempts", 3)
	v.SetDefault("migration.confirm_tick", time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")

	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if cfg.Migration.ReadAttempts == 0 {
		return nil, errors.New("migration.read_attempts must be at least 1")
	}
	if cfg.Migration.SettlementTimeout <= 0 {
		return nil, fmt.Errorf("migration.settlement_timeout must be positive, got %s", cfg.Migration.SettlementTimeout)
	}
	if cfg.Migration.ConfirmTick <= 0 {
		return nil, fmt.Errorf("migration.confirm_tick must be positive, got %s", cfg.Migration.ConfirmTick)
	}

	return cfg, nil
}

var (
	// envBindings maps config keys to the environment variables that can provide them. The first
	// name is preferred; later names are the variables of the hardhat tooling this replaces.
	envBindings = map[string][]string{
		"onchain.evm.deployer_key":     {"ONCHAIN_EVM_DEPLOYER_KEY", "PRIVATE_KEY"},
		"onchain.evm.gas_limit":        {"ONCHAIN_EVM_GAS_LIMIT"},
		"migration.settlement_timeout": {"MIGRATION_SETTLEMENT_TIMEOUT"},
		"migration.read_attempts":      {"MIGRATION_READ_ATTEMPTS"},
		"migration.confirm_tick":       {"MIGRATION_CONFIRM_TICK"},
		"log.level":                    {"LOG_LEVEL"},
		"log.encoding":                 {"LOG_ENCODING"},
	}
)

// bindEnvs binds the environment variables to the viper instance.
func bindEnvs(v *viper.Viper) error {
	for key, envs := range envBindings {
		// Prepend the env key to the start of the arguments
		inputs := slices.Insert(slices.Clone(envs), 0, key)

		if err := v.BindEnv(inputs...); err != nil {
			return err
		}
	}

	return nil
}
