package zlogger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var defaultLogLevel = zapcore.InfoLevel
var Logger *zap.SugaredLogger

func init() {
	Logger = zap.New(consoleCore(defaultLogLevel)).Sugar()
}

func consoleCore(level zapcore.Level) zapcore.Core {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(os.Stderr), level)
}

// SetLogFile routes log output to a rotating file. With verbose set, logs are
// mirrored to stderr as well.
func SetLogFile(logFile string, verbose bool) {
	fileSink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    50, // megabytes
		MaxBackups: 3,
	})

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), fileSink, zapcore.DebugLevel),
	}
	if verbose {
		cores = append(cores, consoleCore(defaultLogLevel))
	}

	Logger = zap.New(zapcore.NewTee(cores...)).Sugar()
}
