// Package loghandler configures go-ethereum/log's root logger for marfd:
// a tty-aware terminal handler on stderr, optionally duplicated to a
// lumberjack-rotated file, following the go-ethereum-family convention of
// centralizing this in one small setup function commands call once at
// startup.
package loghandler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/blockstack-chain/marf-store/marfconfig"
)

var levels = map[string]slog.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
	"crit":  log.LevelCrit,
}

// Setup installs the root log handler described by cfg. jsonOutput selects
// a JSON handler over the default human-readable terminal handler; it is a
// CLI-only knob (--log.json), not part of the persisted config, since it
// only affects how the output is read, not what gets logged.
func Setup(cfg marfconfig.LogConfig, jsonOutput bool) error {
	lvl, ok := levels[cfg.Level]
	if !ok {
		return fmt.Errorf("unknown log level %q", cfg.Level)
	}

	var writer io.Writer = os.Stderr
	useColor := isatty.IsTerminal(os.Stderr.Fd()) && os.Getenv("TERM") != "dumb"
	if useColor {
		writer = colorable.NewColorableStderr()
	}

	var handler slog.Handler
	if jsonOutput {
		handler = log.JSONHandler(writer)
	} else {
		handler = log.NewTerminalHandler(writer, useColor)
	}

	if cfg.File != "" {
		handler = fanOut{
			primary: handler,
			secondary: log.JSONHandler(&lumberjack.Logger{
				Filename:   cfg.File,
				MaxSize:    maxOr(cfg.MaxSizeMB, 100),
				MaxBackups: cfg.MaxBackups,
			}),
		}
	}

	glogger := log.NewGlogHandler(handler)
	glogger.Verbosity(lvl)
	log.SetDefault(log.NewLogger(glogger))
	return nil
}

// fanOut duplicates every record to two handlers, the terminal/JSON stderr
// handler and the rotated file handler, since slog.Handler has no built-in
// notion of "and also write this elsewhere".
type fanOut struct {
	primary, secondary slog.Handler
}

func (f fanOut) Enabled(ctx context.Context, level slog.Level) bool {
	return f.primary.Enabled(ctx, level) || f.secondary.Enabled(ctx, level)
}

func (f fanOut) Handle(ctx context.Context, record slog.Record) error {
	if err := f.primary.Handle(ctx, record.Clone()); err != nil {
		return err
	}
	return f.secondary.Handle(ctx, record.Clone())
}

func (f fanOut) WithAttrs(attrs []slog.Attr) slog.Handler {
	return fanOut{f.primary.WithAttrs(attrs), f.secondary.WithAttrs(attrs)}
}

func (f fanOut) WithGroup(name string) slog.Handler {
	return fanOut{f.primary.WithGroup(name), f.secondary.WithGroup(name)}
}

func maxOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
