package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	MAX_FILE_SIZE_MB = 10
	MAX_FILE_BACKUPS = 5
)

func encoderConfig() zapcore.EncoderConfig {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return encCfg
}

// NewBootstrap returns the logger used until the configuration is loaded.
func NewBootstrap() *zap.Logger {
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.Lock(os.Stdout), zap.InfoLevel)
	return zap.New(core)
}

// New logs JSON lines to stdout and, when logFile is set, to a size rotated file.
func New(level zapcore.Level, logFile string) *zap.Logger {
	return zap.New(newCore(level, zapcore.Lock(os.Stdout), fileSink(logFile)), zap.AddCaller())
}

func newCore(level zapcore.Level, stdout zapcore.WriteSyncer, file zapcore.WriteSyncer) zapcore.Core {
	enc := zapcore.NewJSONEncoder(encoderConfig())
	lvl := zap.NewAtomicLevelAt(level)
	cores := []zapcore.Core{zapcore.NewCore(enc, stdout, lvl)}
	if file != nil {
		cores = append(cores, zapcore.NewCore(enc.Clone(), file, lvl))
	}
	return zapcore.NewTee(cores...)
}

func fileSink(logFile string) zapcore.WriteSyncer {
	if logFile == "" {
		return nil
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    MAX_FILE_SIZE_MB,
		MaxBackups: MAX_FILE_BACKUPS,
	})
}

func Component(logger *zap.Logger, name string) *zap.Logger {
	return logger.With(zap.String("component", name))
}
