package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	// fileCfg is the config that is loaded from the testdata/config.yml file.
	fileCfg = &Config{
		Onchain: OnchainConfig{
			EVM: EVMConfig{DeployerKey: "0xabc", GasLimit: 300000},
		},
		Migration: MigrationConfig{
			SettlementTimeout: 2 * time.Minute,
			ReadAttempts:      5,
			ConfirmTick:       500 * time.Millisecond,
		},
		Log: LogConfig{Level: "debug", Encoding: "json"},
	}

	// defaultCfg is the config when nothing is set.
	defaultCfg = &Config{
		Migration: MigrationConfig{
			SettlementTimeout: 5 * time.Minute,
			ReadAttempts:      3,
			ConfirmTick:       time.Second,
		},
		Log: LogConfig{Level: "info", Encoding: "console"},
	}

	// envVars is the environment variables that used to set the config.
	envVars = map[string]string{
		"ONCHAIN_EVM_DEPLOYER_KEY":     "0x123",
		"ONCHAIN_EVM_GAS_LIMIT":        "100000",
		"MIGRATION_SETTLEMENT_TIMEOUT": "90s",
		"MIGRATION_READ_ATTEMPTS":      "7",
		"MIGRATION_CONFIRM_TICK":       "250ms",
		"LOG_LEVEL":                    "warn",
		"LOG_ENCODING":                 "console",
	}

	// envCfg is the config that is loaded from the environment variables.
	envCfg = &Config{
		Onchain: OnchainConfig{
			EVM: EVMConfig{DeployerKey: "0x123", GasLimit: 100000},
		},
		Migration: MigrationConfig{
			SettlementTimeout: 90 * time.Second,
			ReadAttempts:      7,
			ConfirmTick:       250 * time.Millisecond,
		},
		Log: LogConfig{Level: "warn", Encoding: "console"},
	}
)

func Test_Load(t *testing.T) { //nolint:paralleltest // see comment in setupEnvVars
	tests := []struct {
		name       string
		beforeFunc func(t *testing.T)
		givePath   string
		want       *Config
		wantErr    string
	}{
		{
			name:     "load from file",
			givePath: "./testdata/config.yml",
			want:     fileCfg,
		},
		{
			name:     "load from empty file",
			givePath: "./testdata/empty.yml",
			want:     defaultCfg,
		},
		{
			name: "override with env",
			beforeFunc: func(t *testing.T) {
				t.Helper()

				setupEnvVars(t, envVars)
			},
			givePath: "./testdata/config.yml",
			want:     envCfg,
		},
		{
			name: "fallback to env when file not found",
			beforeFunc: func(t *testing.T) {
				t.Helper()

				setupEnvVars(t, envVars)
			},
			givePath: "./testdata/missing.yml",
			want:     envCfg,
		},
		{
			name: "legacy deployer key variable",
			beforeFunc: func(t *testing.T) {
				t.Helper()

				setupEnvVars(t, map[string]string{"PRIVATE_KEY": "0xlegacy"})
			},
			givePath: "./testdata/missing.yml",
			want: func() *Config {
				c := *defaultCfg
				c.Onchain.EVM.DeployerKey = "0xlegacy"

				return &c
			}(),
		},
		{
			name:     "read attempts must be positive",
			givePath: "./testdata/invalid_attempts.yml",
			wantErr:  "migration.read_attempts must be at least 1",
		},
	}

	for _, tt := range tests { //nolint:paralleltest // see comment in setupEnvVars
		t.Run(tt.name, func(t *testing.T) {
			if tt.beforeFunc != nil {
				tt.beforeFunc(t)
			}

			got, err := Load(tt.givePath)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_LoadEnv(t *testing.T) { //nolint:paralleltest // see comment in setupEnvVars
	setupEnvVars(t, envVars)

	got, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, envCfg, got)
}

func Test_LoadEnv_InvalidDurations(t *testing.T) { //nolint:paralleltest // see comment in setupEnvVars
	tests := []struct {
		name    string
		vars    map[string]string
		wantErr string
	}{
		{
			name:    "zero settlement timeout",
			vars:    map[string]string{"MIGRATION_SETTLEMENT_TIMEOUT": "0s"},
			wantErr: "migration.settlement_timeout must be positive, got 0s",
		},
		{
			name:    "negative settlement timeout",
			vars:    map[string]string{"MIGRATION_SETTLEMENT_TIMEOUT": "-1m"},
			wantErr: "migration.settlement_timeout must be positive, got -1m0s",
		},
		{
			name:    "zero confirm tick",
			vars:    map[string]string{"MIGRATION_CONFIRM_TICK": "0s"},
			wantErr: "migration.confirm_tick must be positive, got 0s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupEnvVars(t, tt.vars)

			_, err := LoadEnv()
			require.EqualError(t, err, tt.wantErr)
		})
	}
}

// setupEnvVars sets the environment variables for the test. Tests using it cannot run in
// parallel because the environment is process wide.
func setupEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()

	// Clear every bound variable so values from the outer environment do not leak in.
	for _, envs := range envBindings {
		for _, env := range envs {
			t.Setenv(env, "")
		}
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}
