// Command omnictl generates the cross-chain messaging topology of the WXRP bridge and migrates
// privileged control of its contracts to their final holders.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	config "github.com/wxrp-bridge/omnichain-deployments/config/env"
	"github.com/wxrp-bridge/omnichain-deployments/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lggr, err := newLogger()
	if err != nil {
		return err
	}

	root, err := newRootCmd(lggr)
	if err != nil {
		return err
	}

	return root.ExecuteContext(ctx)
}

// newLogger builds the logger from the LOG_LEVEL and LOG_ENCODING settings.
func newLogger() (logger.Logger, error) {
	cfg, err := config.LoadEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	lcfg, err := logger.ParseConfig(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	return lcfg.New()
}
