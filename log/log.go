// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log wraps go-ethereum's slog based logger.
package log

import (
	"context"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Logger writes key/value pairs to a Handler.
type Logger = ethlog.Logger

// Levels in ascending severity.
const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = ethlog.LevelDebug
	LevelInfo  = ethlog.LevelInfo
	LevelWarn  = ethlog.LevelWarn
	LevelError = ethlog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

// Numeric verbosities accepted by FromLegacyLevel.
const (
	LegacyLevelCrit = iota
	LegacyLevelError
	LegacyLevelWarn
	LegacyLevelInfo
	LegacyLevelDebug
	LegacyLevelTrace
)

// Root returns the root logger.
func Root() Logger {
	return ethlog.Root()
}

// SetDefault sets the root logger.
func SetDefault(l Logger) {
	ethlog.SetDefault(l)
}

// NewLogger creates a logger with the given handler.
func NewLogger(h slog.Handler) Logger {
	return ethlog.NewLogger(h)
}

// FromLegacyLevel maps a numeric verbosity (0 crit .. 5 trace) to a level.
func FromLegacyLevel(lvl int) slog.Level {
	return ethlog.FromLegacyLevel(lvl)
}

// WithContext returns a logger carrying ctx that writes through whatever
// the root logger is at the time of each call.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

type lazyLogger struct {
	ctx []any
}

func (l *lazyLogger) logger() Logger {
	return ethlog.Root().With(l.ctx...)
}

func (l *lazyLogger) With(ctx ...any) Logger {
	return &lazyLogger{ctx: append(append([]any{}, l.ctx...), ctx...)}
}

func (l *lazyLogger) New(ctx ...any) Logger {
	return l.With(ctx...)
}

func (l *lazyLogger) Log(level slog.Level, msg string, ctx ...any) {
	l.logger().Log(level, msg, ctx...)
}

func (l *lazyLogger) Trace(msg string, ctx ...any) { l.logger().Trace(msg, ctx...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { l.logger().Debug(msg, ctx...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { l.logger().Info(msg, ctx...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { l.logger().Warn(msg, ctx...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { l.logger().Error(msg, ctx...) }
func (l *lazyLogger) Crit(msg string, ctx ...any)  { l.logger().Crit(msg, ctx...) }

func (l *lazyLogger) Write(level slog.Level, msg string, attrs ...any) {
	l.logger().Write(level, msg, attrs...)
}

func (l *lazyLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return ethlog.Root().Enabled(ctx, level)
}

func (l *lazyLogger) Handler() slog.Handler {
	return l.logger().Handler()
}
