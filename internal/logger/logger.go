// internal/logger/logger.go
//
// Structured logger (Zap + optional Lumberjack sink).
//
// Context
// -------
// `Build` turns the resolved logging configuration into a *zap.Logger:
// the encoder follows `logging.format` (console for text, JSON for
// machine ingestion), the level gate follows the parsed filter
// expression, and when `logging.file` is set the same events are also
// written to a rotating file.  Rotation, compression, and retention are
// handled by Lumberjack; no external log-rotate job is required.
//
// `Install` builds and promotes the logger to the process-wide default
// exactly once.  A second install is a programmer error and reports the
// Internal kind, which is the only externally visible contract of the
// guard.
//
// Usage
// -----
//
//	log, err := logger.Install(cfg)
//	if err != nil { … }
//	log.Infow("bot online", "environment", cfg.Environment)
//
// Notes
// -----
//   - Zap core uses ISO-8601 timestamps and lowercase levels.
//   - Build is pure and repeatable; only Install touches global state.

package logger

import (
	"os"
	"sync/atomic"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vuhn/zalokit/internal/apperr"
	"github.com/vuhn/zalokit/internal/config"
)

var installed atomic.Bool

// Build constructs a logger from the resolved configuration without
// installing it.  An invalid filter expression fails with a Config
// error before any sink is opened.
func Build(cfg config.Config) (*zap.Logger, error) {
	f, err := parseFilter(cfg.Logging.Filter)
	if err != nil {
		return nil, err
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		NameKey:      "scope",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeName:   zapcore.FullNameEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	var enc zapcore.Encoder
	switch cfg.Logging.Format {
	case config.FormatJSON:
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	sink := zapcore.AddSync(zapcore.Lock(os.Stdout))
	if cfg.Logging.File != "" {
		fileSink := &lumberjack.Logger{
			Filename:   cfg.Logging.File,
			MaxSize:    50, // MB
			MaxBackups: 7,
			MaxAge:     14, // days
			Compress:   true,
		}
		sink = zapcore.NewMultiWriteSyncer(sink, zapcore.AddSync(fileSink))
	}

	// The inner core is wide open; scopedCore is the only gate.
	inner := zapcore.NewCore(enc, sink, zapcore.DebugLevel)
	return zap.New(newScopedCore(inner, f)), nil
}

// Install builds the logger and makes it the process-wide default via
// zap.ReplaceGlobals.  Exactly one install may succeed per process; a
// second attempt fails with an Internal error and leaves the existing
// global untouched.
func Install(cfg config.Config) (*zap.SugaredLogger, error) {
	log, err := Build(cfg)
	if err != nil {
		return nil, err
	}
	if !installed.CompareAndSwap(false, true) {
		return nil, apperr.New(apperr.Internal, "process-wide logger already installed")
	}
	zap.ReplaceGlobals(log)
	return log.Sugar(), nil
}
