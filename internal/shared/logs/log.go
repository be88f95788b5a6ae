package logs

import (
	"os"
	"strings"
	"sync/atomic"

	"InjectContainer/internal/shared/config"
	"InjectContainer/modules/kit/logx"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// Init 按配置构建全局 logger：控制台彩色输出，配置了 file_dir 时再写一份 JSON 文件（lumberjack 切割）。
func Init(appName string, cfg config.LogConfig) error {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
		lvl = zapcore.InfoLevel
	}
	atomicLevel := zap.NewAtomicLevelAt(lvl)

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	consoleCfg := encoderCfg
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	fileCfg := encoderCfg
	fileCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stderr), atomicLevel)
	if cfg.FileDir != "" {
		// 文件只写 JSON，避免把 ANSI 颜色写进日志文件
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.FileDir,
			MaxSize:    max(1, cfg.MaxSize),
			MaxBackups: max(0, cfg.MaxBackups),
			MaxAge:     max(0, cfg.MaxAge),
			Compress:   cfg.Compress,
		}
		core = zapcore.NewTee(
			core,
			zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(fileWriter), atomicLevel),
		)
	}

	opts := []zap.Option{zap.AddCaller(), zap.AddCallerSkip(1)}
	if cfg.Dev {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	}

	if old := logger.Swap(zap.New(core, opts...).Named(appName)); old != nil {
		_ = old.Sync()
	}
	return nil
}

// Logger 返回适配成 logx.Logger 的全局 logger。ZapLogger 同样是一层包装，沿用 Init 中的 caller skip。
func Logger() logx.Logger {
	return logx.NewZapLogger(logger.Load())
}

func Sync() error {
	return logger.Load().Sync()
}

func Debug(msg string, fields ...zap.Field) { logger.Load().Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { logger.Load().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { logger.Load().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { logger.Load().Error(msg, fields...) }

// Fatal 输出后退出进程（os.Exit(1)）。
func Fatal(msg string, fields ...zap.Field) { logger.Load().Fatal(msg, fields...) }
