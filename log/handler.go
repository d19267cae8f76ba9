// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"io"
	"log/slog"
	"os"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
)

// levelHandler filters records below a level that can change at runtime.
type levelHandler struct {
	slog.Handler
	level *slog.LevelVar
}

func (h *levelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level() && h.Handler.Enabled(ctx, level)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{h.Handler.WithAttrs(attrs), h.level}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{h.Handler.WithGroup(name), h.level}
}

// NewTerminalHandler returns a human readable handler filtered by level.
// Colour is used when wr is a terminal.
func NewTerminalHandler(wr io.Writer, level *slog.LevelVar) slog.Handler {
	return &levelHandler{ethlog.NewTerminalHandlerWithLevel(wr, LevelTrace, isTerminal(wr)), level}
}

// NewJSONHandler returns a JSON handler filtered by level.
func NewJSONHandler(wr io.Writer, level *slog.LevelVar) slog.Handler {
	return &levelHandler{ethlog.JSONHandlerWithLevel(wr, LevelTrace), level}
}

func isTerminal(wr io.Writer) bool {
	f, ok := wr.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
