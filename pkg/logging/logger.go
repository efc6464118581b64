// Package logging provides the process-wide structured logger used by
// cmd/roadgraph and pkg/api, replacing ad-hoc log.Printf/log.Fatalf calls.
package logging

import (
	"os"
	"sync"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	log  *zap.Logger
	once sync.Once
)

// Init initializes the global logger with console output only.
func Init(verbose bool) {
	once.Do(func() {
		initLogger(verbose, "")
	})
}

// InitWithFile initializes the global logger with console and rotating
// file output via lumberjack.
func InitWithFile(verbose bool, logFile string) {
	once.Do(func() {
		initLogger(verbose, logFile)
	})
}

func initLogger(verbose bool, logFile string) {
	var level zapcore.Level
	var encoderConfig zapcore.EncoderConfig

	if verbose {
		level = zapcore.DebugLevel
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	} else {
		level = zapcore.InfoLevel
		encoderConfig = zap.NewProductionEncoderConfig()
	}

	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		level,
	)

	cores := []zapcore.Core{consoleCore}

	if logFile != "" {
		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   logFile,
				MaxSize:    50, // MB
				MaxBackups: 5,
				MaxAge:     30, // days
			}),
			level,
		)
		cores = append(cores, fileCore)
	}

	log = zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zapcore.ErrorLevel))
}

// Get returns the global logger, initializing it in non-verbose console-only
// mode on first use if no explicit Init call has happened yet.
func Get() *zap.Logger {
	if log == nil {
		Init(false)
	}
	return log
}

// Sync flushes any buffered log entries.
func Sync() {
	if log != nil {
		log.Sync()
	}
}
