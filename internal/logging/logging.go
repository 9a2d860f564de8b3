// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the log destination and verbosity.
type Options struct {
	Level string // debug, info, warn, error; unknown values mean info
	Path  string // log file; empty discards all output

	// Writer overrides Path when set. Used by tests.
	Writer io.Writer
}

// ParseLevel maps a level name to a zap level.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds a JSON logger. The returned close function flushes and
// closes the log file and is always safe to call.
func New(opts Options) (*zap.Logger, func() error, error) {
	noop := func() error { return nil }

	var (
		sink    zapcore.WriteSyncer
		closeFn = noop
	)
	switch {
	case opts.Writer != nil:
		sink = zapcore.AddSync(opts.Writer)
	case opts.Path != "":
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0700); err != nil {
			return zap.NewNop(), noop, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return zap.NewNop(), noop, fmt.Errorf("failed to open log file %s: %w", opts.Path, err)
		}
		sink = zapcore.Lock(f)
		closeFn = f.Close
	default:
		return zap.NewNop(), noop, nil
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, ParseLevel(opts.Level))
	log := zap.New(core, zap.AddCaller())

	return log, func() error {
		_ = log.Sync()
		return closeFn()
	}, nil
}

// OrNop returns log, or a no-op logger when log is nil.
func OrNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
