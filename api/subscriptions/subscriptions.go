// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/utils"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/log"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/logdb"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/runtime"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 7) / 10
	writeWait  = 10 * time.Second

	messageCacheSize = 1024
)

var logger = log.WithContext("pkg", "subscriptions")

type Subscriptions struct {
	rt             *runtime.Runtime
	logDB          *logdb.LogDB
	backtraceLimit uint64
	upgrader       *websocket.Upgrader
	cache          *messageCache
	done           chan struct{}
	wg             sync.WaitGroup
	closeOnce      sync.Once
}

func New(rt *runtime.Runtime, allowedOrigins []string, backtraceLimit uint64) *Subscriptions {
	return &Subscriptions{
		rt:             rt,
		logDB:          rt.LogDB(),
		backtraceLimit: backtraceLimit,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		cache: newMessageCache(messageCacheSize),
		done:  make(chan struct{}),
	}
}

func parseFilter(req *http.Request) (*EventFilter, error) {
	query := req.URL.Query()
	var filter EventFilter
	if s := query.Get("addr"); s != "" {
		addr, err := yum.ParseAddress(s)
		if err != nil {
			return nil, errors.WithMessage(err, "addr")
		}
		filter.Address = &addr
	}
	for i := range filter.Topics {
		name := "t" + strconv.Itoa(i)
		if s := query.Get(name); s != "" {
			topic, err := yum.ParseBytes32(s)
			if err != nil {
				return nil, errors.WithMessage(err, name)
			}
			filter.Topics[i] = &topic
		}
	}
	return &filter, nil
}

// parsePosition returns the call sequence to resume after, the current one if absent.
func (s *Subscriptions) parsePosition(req *http.Request) (uint64, error) {
	current := s.rt.CallSeq()
	str := strings.TrimSpace(req.URL.Query().Get("pos"))
	if str == "" {
		return current, nil
	}
	pos, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return 0, errors.WithMessage(err, "pos")
	}
	if pos > current {
		return 0, errors.New("pos: beyond the latest call")
	}
	if current-pos > s.backtraceLimit {
		return 0, errors.Errorf("pos: backtrace limit of %d calls exceeded", s.backtraceLimit)
	}
	return pos, nil
}

func (s *Subscriptions) handleSubscribeEvent(w http.ResponseWriter, req *http.Request) error {
	filter, err := parseFilter(req)
	if err != nil {
		return utils.BadRequest(err)
	}
	pos, err := s.parsePosition(req)
	if err != nil {
		return utils.BadRequest(err)
	}

	s.wg.Add(1)
	defer s.wg.Done()

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has responded
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	defer conn.Close()

	if err := s.pipe(req.Context(), conn, filter, pos); err != nil {
		logger.Debug("subscription closed", "err", err)
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	}
	return nil
}

func (s *Subscriptions) send(conn *websocket.Conn, msg *EventMessage) error {
	data, _, err := s.cache.GetOrAdd(msg)
	if err != nil {
		return err
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

// backtrace sends the stored events of calls after pos, up to the call seq to.
func (s *Subscriptions) backtrace(ctx context.Context, conn *websocket.Conn, filter *EventFilter, pos, to uint64) error {
	if s.logDB == nil || pos >= to {
		return nil
	}
	events, err := s.logDB.FilterEvents(ctx, &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Address: filter.Address, Topics: filter.Topics}},
		Range:       &logdb.Range{Unit: logdb.Call, From: pos + 1, To: to},
	})
	if err != nil {
		return err
	}
	for _, ev := range events {
		msg := &EventMessage{
			Address: ev.Address,
			Data:    ev.Data,
			Meta:    LogMeta{ev.CallSeq, ev.CallTime, ev.Method, ev.Caller, ev.Index},
		}
		for _, topic := range ev.Topics {
			if topic != nil {
				msg.Topics = append(msg.Topics, *topic)
			}
		}
		if err := s.send(conn, msg); err != nil {
			return err
		}
	}
	return nil
}

func (s *Subscriptions) pipe(ctx context.Context, conn *websocket.Conn, filter *EventFilter, pos uint64) error {
	receipts := make(chan *runtime.Receipt, 64)
	sub := s.rt.SubscribeReceipts(receipts)
	defer sub.Unsubscribe()

	// calls up to current are backtraced, later ones arrive from the feed
	current := s.rt.CallSeq()
	if err := s.backtrace(ctx, conn, filter, pos, current); err != nil {
		return err
	}

	closed := make(chan struct{})
	conn.SetReadLimit(512)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return err
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "service shutdown")
			return conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		case <-closed:
			return nil
		case err := <-sub.Err():
			return err
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		case receipt := <-receipts:
			if receipt.CallSeq <= current {
				continue
			}
			for i, ev := range receipt.Events {
				if !filter.Match(ev) {
					continue
				}
				msg := &EventMessage{
					Address: ev.Address,
					Topics:  ev.Topics,
					Data:    ev.Data,
					Meta:    LogMeta{receipt.CallSeq, receipt.CallTime, receipt.Method, receipt.Caller, uint32(i)},
				}
				if err := s.send(conn, msg); err != nil {
					return err
				}
			}
		}
	}
}

// Close disconnects every subscriber and waits for them to exit.
func (s *Subscriptions) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/event").
		Methods(http.MethodGet).
		Name("WS /subscriptions/event").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvent))
}
