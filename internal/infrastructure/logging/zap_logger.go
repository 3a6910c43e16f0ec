package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rafabene/seguros-backoffice/internal/domain/ports"
)

// ZapLogger implementa ports.Logger usando zap
type ZapLogger struct {
	logger *zap.SugaredLogger
}

// NewZapLogger cria um logger JSON no nível e destino informados.
// output aceita "stdout", "stderr" ou um caminho de arquivo.
func NewZapLogger(level, output string) (ports.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	if output == "" {
		output = "stderr"
	}
	if err := ensureDir(output); err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{output}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return Wrap(logger), nil
}

// Wrap adapta um *zap.Logger existente (ex.: zaptest) ao ports.Logger
func Wrap(logger *zap.Logger) ports.Logger {
	return &ZapLogger{logger: logger.Sugar()}
}

// Nop retorna um logger que descarta tudo
func Nop() ports.Logger {
	return Wrap(zap.NewNop())
}

// ParseLevel converte o nível textual; vazio equivale a info
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
}

func (l *ZapLogger) Info(msg string, args ...any) {
	l.logger.Infow(msg, args...)
}

func (l *ZapLogger) Error(msg string, args ...any) {
	l.logger.Errorw(msg, args...)
}

func (l *ZapLogger) Debug(msg string, args ...any) {
	l.logger.Debugw(msg, args...)
}

func (l *ZapLogger) Warn(msg string, args ...any) {
	l.logger.Warnw(msg, args...)
}

func (l *ZapLogger) With(args ...any) ports.Logger {
	return &ZapLogger{logger: l.logger.With(args...)}
}

// Sync descarrega buffers pendentes
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}

func ensureDir(output string) error {
	if output == "stdout" || output == "stderr" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	return nil
}
