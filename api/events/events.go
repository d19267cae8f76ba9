// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package events serves queries over the event log.
package events

import (
	"context"
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/utils"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/logdb"
)

type Events struct {
	db    *logdb.LogDB
	limit uint64
}

// New returns the event handlers. No response carries more than limit events.
func New(db *logdb.LogDB, limit uint64) *Events {
	return &Events{db: db, limit: limit}
}

// page checks the requested window against the limit. Without one, a
// window one past the limit is used so an oversized result can be told apart.
func (e *Events) page(opts *Options) (*Options, error) {
	if opts == nil {
		return &Options{Limit: e.limit + 1}, nil
	}
	if opts.Limit > e.limit {
		return nil, utils.Forbidden(errors.Errorf("options.limit exceeds the maximum allowed value of %d", e.limit))
	}
	if opts.Offset > math.MaxInt64 {
		return nil, utils.BadRequest(errors.Errorf("options.offset exceeds the maximum allowed value of %d", int64(math.MaxInt64)))
	}
	return opts, nil
}

func (e *Events) query(ctx context.Context, ef *EventFilter) ([]*FilteredEvent, error) {
	f, err := convertFilter(ef)
	if err != nil {
		return nil, utils.BadRequest(err)
	}
	found, err := e.db.FilterEvents(ctx, f)
	if err != nil {
		return nil, err
	}
	if uint64(len(found)) > e.limit {
		return nil, utils.Forbidden(errors.Errorf("the number of filtered logs exceeds the maximum allowed value of %d, please use pagination", e.limit))
	}
	out := make([]*FilteredEvent, 0, len(found))
	for _, ev := range found {
		out = append(out, convertEvent(ev))
	}
	return out, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var ef EventFilter
	if err := utils.ParseJSON(req.Body, &ef); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	opts, err := e.page(ef.Options)
	if err != nil {
		return err
	}
	ef.Options = opts

	found, err := e.query(req.Context(), &ef)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, found)
}

// handleCallEvents lists the events emitted by a single call, in emit order.
func (e *Events) handleCallEvents(w http.ResponseWriter, req *http.Request) error {
	seq, err := utils.Uint64Var(req, "seq")
	if err != nil {
		return err
	}
	opts, err := e.page(nil)
	if err != nil {
		return err
	}
	found, err := e.query(req.Context(), &EventFilter{
		Range:   &Range{Unit: logdb.Call, From: &seq, To: &seq},
		Options: opts,
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, found)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /logs/event").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
	sub.Path("/call/{seq}").
		Methods(http.MethodGet).
		Name("GET /logs/event/call/{seq}").
		HandlerFunc(utils.WrapHandlerFunc(e.handleCallEvents))
}
