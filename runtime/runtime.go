// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/kv"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/log"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/logdb"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/state"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

const (
	metaBucket = kv.Bucket("m")
	// receipts a subscriber may fall behind by before it is dropped
	subBacklog = 4096
)

var (
	logger = log.WithContext("pkg", "runtime")

	callSeqKey  = []byte("call-seq")
	callTimeKey = []byte("call-time")

	errLagging = errors.New("subscriber lagging behind")
	errClosed  = errors.New("runtime closed")
)

// Receipt describes a committed call.
type Receipt struct {
	CallSeq     uint64
	CallTime    uint64
	Method      string
	Caller      yum.Address
	Events      yum.Events
	StateDigest yum.Bytes32
}

// Func is the body of a call. now is the call time, read once per call.
type Func func(c *builtin.Contracts, now uint64) error

// Runtime executes calls one at a time against committed state.
// A call either commits all of its changes or none of them.
type Runtime struct {
	mu       sync.RWMutex
	db       kv.Store
	stater   *state.Stater
	logDB    *logdb.LogDB
	clock    Clock
	callSeq  uint64
	callTime uint64

	closed bool
	scope  event.SubscriptionScope

	subsMu sync.Mutex
	subs   map[*receiptSub]struct{}
}

// receiptSub queues receipts for one subscriber so publishing never waits on it.
type receiptSub struct {
	queue  chan *Receipt
	lagged chan struct{}
}

// New creates a runtime over db. logDB is optional.
func New(db kv.Store, stater *state.Stater, logDB *logdb.LogDB, clock Clock) (*Runtime, error) {
	r := &Runtime{
		db:     db,
		stater: stater,
		logDB:  logDB,
		clock:  clock,
		subs:   make(map[*receiptSub]struct{}),
	}

	getter := metaBucket.NewGetter(db)
	var err error
	if r.callSeq, err = loadUint64(getter, callSeqKey); err != nil {
		return nil, errors.Wrap(err, "load call seq")
	}
	if r.callTime, err = loadUint64(getter, callTimeKey); err != nil {
		return nil, errors.Wrap(err, "load call time")
	}

	if logDB != nil {
		// drop events of calls never committed to state
		if newest, ok, err := logDB.NewestCallSeq(); err != nil {
			return nil, errors.Wrap(err, "load newest logged call")
		} else if ok && newest > r.callSeq {
			logger.Warn("truncating event log", "from", newest, "to", r.callSeq)
			if err := logDB.Truncate(r.callSeq); err != nil {
				return nil, errors.Wrap(err, "truncate event log")
			}
		}
	}

	return r, nil
}

func loadUint64(getter kv.Getter, key []byte) (uint64, error) {
	val, err := getter.Get(key)
	if err != nil {
		if getter.IsNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	if len(val) != 8 {
		return 0, errors.Errorf("corrupted meta value %q", key)
	}
	return binary.BigEndian.Uint64(val), nil
}

// publish hands receipt to every subscriber queue without blocking. A
// subscriber whose queue is full is dropped and its subscription fails with
// errLagging. The caller holds subsMu.
func (r *Runtime) publish(receipt *Receipt) {
	for s := range r.subs {
		select {
		case s.queue <- receipt:
		default:
			logger.Warn("dropping lagging receipt subscriber", "seq", receipt.CallSeq)
			close(s.lagged)
			delete(r.subs, s)
		}
	}
}

// Close ends all subscriptions. Later calls fail.
func (r *Runtime) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.scope.Close()
}

// Closed reports whether Close was called.
func (r *Runtime) Closed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.closed
}

// Stater returns the state creator.
func (r *Runtime) Stater() *state.Stater {
	return r.stater
}

// LogDB returns the event log, nil if not enabled.
func (r *Runtime) LogDB() *logdb.LogDB {
	return r.logDB
}

// CallSeq returns the sequence number of the last committed call.
func (r *Runtime) CallSeq() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.callSeq
}

// CallTime returns the time of the last committed call.
func (r *Runtime) CallTime() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.callTime
}

// SubscribeReceipts delivers receipts of committed calls to ch, in commit
// order. A subscriber more than subBacklog receipts behind is dropped with an
// error on Err.
func (r *Runtime) SubscribeReceipts(ch chan<- *Receipt) event.Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return event.NewSubscription(func(<-chan struct{}) error { return errClosed })
	}

	s := &receiptSub{
		queue:  make(chan *Receipt, subBacklog),
		lagged: make(chan struct{}),
	}
	r.subsMu.Lock()
	r.subs[s] = struct{}{}
	r.subsMu.Unlock()

	return r.scope.Track(event.NewSubscription(func(quit <-chan struct{}) error {
		defer func() {
			r.subsMu.Lock()
			delete(r.subs, s)
			r.subsMu.Unlock()
		}()
		for {
			select {
			case receipt := <-s.queue:
				select {
				case ch <- receipt:
				case <-s.lagged:
					return errLagging
				case <-quit:
					return nil
				}
			case <-s.lagged:
				return errLagging
			case <-quit:
				return nil
			}
		}
	}))
}

// now returns the clock time, never earlier than the last committed call.
func (r *Runtime) now() uint64 {
	return max(r.clock.Now(), r.callTime)
}

// Now returns the time the next call would observe.
func (r *Runtime) Now() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.now()
}

// View runs fn against committed state. Changes made by fn are discarded.
func (r *Runtime) View(fn Func) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return fn(builtin.New(r.stater.NewState()), r.now())
}

// Exec runs fn as one call made by caller.
func (r *Runtime) Exec(method string, caller yum.Address, fn Func) (*Receipt, error) {
	r.mu.Lock()
	receipt, err := r.exec(method, caller, fn)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	// subsMu is taken before mu is released so receipts go out in commit order
	r.subsMu.Lock()
	r.mu.Unlock()
	r.publish(receipt)
	r.subsMu.Unlock()
	return receipt, nil
}

func (r *Runtime) exec(method string, caller yum.Address, fn Func) (receipt *Receipt, err error) {
	if r.closed {
		return nil, errClosed
	}

	startTime := time.Now()
	defer func() {
		observeCall(method, err, time.Since(startTime).Milliseconds())
	}()

	now := r.now()
	st := r.stater.NewState()
	contracts := builtin.New(st)

	logger.Debug("exec call", "method", method, "caller", caller, "time", now)
	checkpoint := st.NewCheckpoint()
	if err := fn(contracts, now); err != nil {
		st.RevertTo(checkpoint)
		logger.Debug("call reverted", "method", method, "caller", caller, "err", err)
		return nil, err
	}

	stage := st.Stage()
	receipt = &Receipt{
		CallSeq:     r.callSeq + 1,
		CallTime:    now,
		Method:      method,
		Caller:      caller,
		Events:      st.Events(),
		StateDigest: stage.Hash(),
	}

	if err := stage.Commit(func(batch kv.Putter) error {
		putter := metaBucket.NewPutter(batch)
		if err := putter.Put(callSeqKey, binary.BigEndian.AppendUint64(nil, receipt.CallSeq)); err != nil {
			return err
		}
		return putter.Put(callTimeKey, binary.BigEndian.AppendUint64(nil, receipt.CallTime))
	}); err != nil {
		logger.Error("failed to commit call", "method", method, "err", err)
		return nil, err
	}
	r.callSeq = receipt.CallSeq
	r.callTime = receipt.CallTime

	if r.logDB != nil {
		if err := r.logDB.Insert(receipt.CallSeq, receipt.CallTime, method, caller, receipt.Events); err != nil {
			// state is committed, only the log lags behind
			logger.Error("failed to write event log", "seq", receipt.CallSeq, "err", err)
		}
	}

	r.observeCommit(len(receipt.Events))
	return receipt, nil
}
