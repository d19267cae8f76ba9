// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"bufio"
	"bytes"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/log"
)

// RequestIDHeader carries the id a request is logged with.
const RequestIDHeader = "X-Request-Id"

// maxLoggedBody caps how much of a request body ends up in a log line.
const maxLoggedBody = 4096

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	return h.Hijack()
}

func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// RequestLoggerMiddleware logs every request while enabled is set. With a
// non-zero slowQueriesThreshold, slower requests are logged regardless.
func RequestLoggerMiddleware(logger log.Logger, enabled *atomic.Bool, slowQueriesThreshold time.Duration) func(http.Handler) http.Handler {
	shouldLog := func(took time.Duration) bool {
		return enabled.Load() || (slowQueriesThreshold > 0 && took > slowQueriesThreshold)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled.Load() && slowQueriesThreshold == 0 {
				next.ServeHTTP(w, r)
				return
			}

			var body []byte
			if r.Body != nil {
				b, err := io.ReadAll(r.Body)
				if err != nil {
					logger.Warn("failed to read request body", "err", err)
					http.Error(w, "failed to read body", http.StatusBadRequest)
					return
				}
				body = b
				r.Body = io.NopCloser(bytes.NewReader(b))
			}

			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewRandom().String()
			}
			w.Header().Set(RequestIDHeader, id)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)
			took := time.Since(start)
			if !shouldLog(took) {
				return
			}

			var route string
			if cur := mux.CurrentRoute(r); cur != nil {
				route = cur.GetName()
			}
			if len(body) > maxLoggedBody {
				body = body[:maxLoggedBody]
			}
			logger.Info("API Request",
				"id", id,
				"route", route,
				"method", r.Method,
				"uri", r.URL.String(),
				"status", rec.status,
				"took", took,
				"body", string(body),
			)
		})
	}
}
