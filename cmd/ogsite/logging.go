package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/eringen/ogsite/config"
)

// newLogger builds the process logger from the log settings. With a file
// configured, output goes to a rotating file and the returned closer must be
// closed on exit.
func newLogger(stderr io.Writer, cfg config.Log, verbose bool) (*slog.Logger, io.Closer, error) {
	if cfg.File == "" {
		return newStderrLogger(stderr, verbose, cfg.Level), nil, nil
	}
	level, err := parseLevel(cfg.Level, verbose)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	lj := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}
	return slog.New(slog.NewJSONHandler(lj, &slog.HandlerOptions{Level: level})), lj, nil
}

func newStderrLogger(w io.Writer, verbose bool, level string) *slog.Logger {
	lvl, err := parseLevel(level, verbose)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func parseLevel(s string, verbose bool) (slog.Level, error) {
	if verbose {
		return slog.LevelDebug, nil
	}
	if s == "" {
		return slog.LevelInfo, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}
