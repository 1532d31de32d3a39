package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options represents logger settings
type Options struct {
	JSON    bool // production JSON encoder, console encoder otherwise
	Verbose bool // debug level
}

// New creates a sugared logger writing to stderr
func New(options Options) (*zap.SugaredLogger, error) {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if options.Verbose {
		level.SetLevel(zap.DebugLevel)
	}
	if options.JSON {
		config := zap.NewProductionConfig()
		config.Level = level
		config.OutputPaths = []string{"stderr"}
		config.ErrorOutputPaths = []string{"stderr"}
		logger, err := config.Build()
		if err != nil {
			return nil, err
		}
		return logger.Sugar(), nil
	}
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	encoderConfig.CallerKey = ""
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stderr), level)
	return zap.New(core).Sugar(), nil
}

// Nop returns a logger discarding everything
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
