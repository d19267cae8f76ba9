// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/reverts"
)

// JSONContentType is set on every JSON response.
const JSONContentType = "application/json; charset=utf-8"

// statusError pins an http status to an error. A nil cause answers with an
// empty body.
type statusError struct {
	cause  error
	status int
}

func (e *statusError) Error() string {
	if e.cause == nil {
		return http.StatusText(e.status)
	}
	return e.cause.Error()
}

func (e *statusError) Cause() error { return e.cause }

// HTTPError attaches status to cause.
func HTTPError(cause error, status int) error {
	return &statusError{cause, status}
}

// BadRequest answers 400.
func BadRequest(cause error) error { return HTTPError(cause, http.StatusBadRequest) }

// Forbidden answers 403.
func Forbidden(cause error) error { return HTTPError(cause, http.StatusForbidden) }

// NotFound answers 404.
func NotFound(cause error) error { return HTTPError(cause, http.StatusNotFound) }

// StatusOf resolves the status code err should be answered with. Rejected
// calls map by kind; anything unrecognised is a server fault.
func StatusOf(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		return se.status
	}
	kind, ok := reverts.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case reverts.Authorization:
		return http.StatusForbidden
	case reverts.Paused:
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

// HandlerFunc is an http handler that reports failure by returning an error.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc adapts f to http.HandlerFunc, turning a returned error into
// a plain-text response with the status chosen by StatusOf.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		status := StatusOf(err)
		var se *statusError
		if errors.As(err, &se) && se.cause == nil {
			w.WriteHeader(status)
			return
		}
		http.Error(w, err.Error(), status)
	}
}

// ParseJSON decodes one JSON value from r, rejecting unknown fields.
func ParseJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// WriteJSON answers with obj encoded as JSON.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}
