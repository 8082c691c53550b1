// Package logger provides a global logger for the application
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"go.uber.org/zap"
)

// Logger stays a no-op until Init runs, so library code may log from tests.
var Logger = zap.NewNop()

type options struct {
	environment string
	debug       bool
	trace       bool
	output      io.Writer
}

type Option func(*options)

// WithEnvironment overrides the ENVIRONMENT variable.
func WithEnvironment(environment string) Option {
	return func(o *options) {
		o.environment = environment
	}
}

func WithDebug(debug bool) Option {
	return func(o *options) {
		o.debug = debug
	}
}

func WithTrace(trace bool) Option {
	return func(o *options) {
		o.trace = trace
	}
}

// WithOutput sends console output to w instead of stderr.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// initLogger reads ENVIRONMENT from the process environment only; loading
// .env is left to config.LoadConfig.
func initLogger(o *options) {
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	if o.output != nil {
		writer = zerolog.ConsoleWriter{Out: o.output, NoColor: true}
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(writer).With().Caller().Logger()

	environment := strings.ToLower(o.environment)
	if environment == "" {
		environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	}
	if environment == "" {
		environment = "prod"
	}

	// Set default to Info level
	var logLevel zerolog.Level
	switch environment {
	case "dev", "test":
		logLevel = zerolog.TraceLevel
		log.Info().Str("environment", environment).Msg("Development/Test environment detected - enabling all log levels")
	case "prod":
		logLevel = zerolog.InfoLevel
		log.Info().Str("environment", environment).Msg("Production environment detected - enabling info level and above")
	default:
		logLevel = zerolog.InfoLevel
		log.Warn().Str("environment", environment).Msg("Unknown environment - defaulting to production log level (info and above)")
	}

	if o.debug {
		logLevel = zerolog.DebugLevel
		log.Info().Msg("Debug flag detected - overriding environment log level")
	} else if o.trace {
		logLevel = zerolog.TraceLevel
		log.Info().Msg("Trace flag detected - overriding environment log level")
	}

	// Apply the log level globally
	zerolog.SetGlobalLevel(logLevel)

	zapConfig := zap.NewProductionConfig()
	if logLevel <= zerolog.DebugLevel {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zl, err := zapConfig.Build()
	if err != nil {
		log.Warn().Err(err).Msg("failed to build zap logger, keeping no-op logger")
	} else {
		Logger = zl
	}

	// Log the current level
	switch logLevel {
	case zerolog.DebugLevel:
		log.Debug().Str("environment", environment).Msg("Debug logging enabled")
	case zerolog.TraceLevel:
		log.Trace().Str("environment", environment).Msg("Trace logging enabled")
	case zerolog.InfoLevel:
		log.Info().Str("environment", environment).Msg("Info logging enabled")
	}
}

// Init initializes the logger with the configuration from the environment
// and the given options.
// It sets up the global logger to use zerolog with console output.
// Example usage:
//
//	logger.Init(logger.WithDebug(debug)) <- inside whichever main() function in your entrypoint
func Init(opts ...Option) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	initLogger(o)
}

// Sugar returns a sugared logger for easier use
func Sugar() *zap.SugaredLogger {
	return Logger.Sugar()
}

// Sync flushes the zap logger. Call it before the process exits.
func Sync() {
	_ = Logger.Sync()
}
