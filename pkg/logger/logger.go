package logger

import (
	"fmt"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// Logger is the structured logging interface used across the module. It is satisfied by
// go.uber.org/zap.SugaredLogger.
//
// Loggers should be injected and usually named after the component using them, e.g.
// logger.Named(lggr, "migration").
//
// Tests
//   - Tests should use a [Test] logger, with [New] being reserved for actual runtime.
//   - Use [TestObserved] when a test needs to assert on the emitted log lines.
//
// Levels
//   - Error: an operation failed and the operator has to act on it. Example: a transaction reverted.
//   - Warn: something unexpected happened that did not stop the run. Example: a read was retried.
//   - Info: high level progress. Example: a phase transition, a transaction being sent.
//   - Debug: forensic detail. Example: raw ledger reads.
type Logger interface {
	// Name returns the fully qualified name of the logger.
	Name() string

	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
	Panic(args ...any)
	// Fatal logs and then calls os.Exit(1)
	// Be careful about using this since it does NOT unwind the stack and may exit uncleanly
	Fatal(args ...any)

	Debugf(format string, values ...any)
	Infof(format string, values ...any)
	Warnf(format string, values ...any)
	Errorf(format string, values ...any)
	Panicf(format string, values ...any)
	Fatalf(format string, values ...any)

	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
	Panicw(msg string, keysAndValues ...any)
	Fatalw(msg string, keysAndValues ...any)

	// Sync flushes any buffered log entries.
	Sync() error
}

// Encoding selects the output format of a runtime logger.
type Encoding string

const (
	EncodingJSON    Encoding = "json"
	EncodingConsole Encoding = "console"
)

// Config configures a runtime logger.
type Config struct {
	Level    zapcore.Level
	Encoding Encoding
}

var defaultConfig Config

// New returns a new Logger with the default configuration.
func New() (Logger, error) { return defaultConfig.New() }

// New returns a new Logger for Config.
func (c *Config) New() (Logger, error) {
	return NewWith(func(cfg *zap.Config) {
		cfg.Level.SetLevel(c.Level)
		switch c.Encoding {
		case "", EncodingJSON:
		case EncodingConsole:
			cfg.Encoding = string(EncodingConsole)
			cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		}
	})
}

// ParseConfig builds a Config from the textual level and encoding used on the command line.
func ParseConfig(level string, encoding string) (Config, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return Config{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	switch Encoding(encoding) {
	case "", EncodingJSON, EncodingConsole:
	default:
		return Config{}, fmt.Errorf("invalid log encoding %q", encoding)
	}

	return Config{Level: lvl, Encoding: Encoding(encoding)}, nil
}

// NewWith returns a new Logger from a modified [zap.Config].
func NewWith(cfgFn func(*zap.Config)) (Logger, error) {
	cfg := zap.NewProductionConfig()
	cfgFn(&cfg)
	core, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return &logger{core.Sugar()}, nil
}

// Named returns a child logger with name appended to the logger name. Loggers that were not
// created by this package are returned unchanged.
func Named(l Logger, name string) Logger {
	if zl, ok := l.(*logger); ok {
		return &logger{zl.SugaredLogger.Named(name)}
	}

	return l
}

// With returns a child logger carrying the given key value pairs on every entry. Loggers that
// were not created by this package are returned unchanged.
func With(l Logger, keysAndValues ...any) Logger {
	if zl, ok := l.(*logger); ok {
		return &logger{zl.SugaredLogger.With(keysAndValues...)}
	}

	return l
}

// Test returns a new test Logger for tb.
func Test(tb testing.TB) Logger {
	tb.Helper()
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000000000")
	lggr := zap.New(
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(cfg),
			zaptest.NewTestingWriter(tb),
			zapcore.DebugLevel,
		),
	)

	return &logger{lggr.Sugar()}
}

// TestObserved returns a new test Logger for tb and ObservedLogs at the given Level.
func TestObserved(tb testing.TB, lvl zapcore.Level) (Logger, *observer.ObservedLogs) {
	tb.Helper()
	oCore, logs := observer.New(lvl)
	observe := zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, oCore)
	})
	sl := zaptest.NewLogger(tb, zaptest.WrapOptions(observe, zap.AddCaller())).Sugar()

	return &logger{sl}, logs
}

// Nop returns a no-op Logger.
func Nop() Logger {
	return &logger{zap.New(zapcore.NewNopCore()).Sugar()}
}

type logger struct {
	*zap.SugaredLogger
}

func (l *logger) Name() string {
	return l.Desugar().Name()
}
