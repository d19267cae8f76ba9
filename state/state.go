// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/stackedmap"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr yum.Address
	key  yum.Bytes32
}

// bytes returns the kv key of the slot.
func (k storageKey) bytes() []byte {
	b := make([]byte, 0, yum.AddressLength+32)
	b = append(b, k.addr[:]...)
	return append(b, k.key[:]...)
}

type checkpoint struct {
	revision int
	events   int
}

// State manages contract storage of one call.
type State struct {
	stater      *Stater
	sm          *stackedmap.StackedMap[storageKey, rlp.RawValue]
	events      yum.Events
	checkpoints []checkpoint
}

func newState(stater *Stater) *State {
	s := &State{stater: stater}
	s.sm = stackedmap.New(func(key storageKey) (rlp.RawValue, bool, error) {
		v, err := stater.load(key)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	})
	return s
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr yum.Address, key yum.Bytes32) (yum.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return yum.Bytes32{}, err
	}
	if len(raw) == 0 {
		return yum.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return yum.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// structured value, return hash of raw data
		return yum.Blake2b(raw), nil
	}
	return yum.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr yum.Address, key, value yum.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr yum.Address, key yum.Bytes32) (rlp.RawValue, error) {
	v, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return v, nil
}

// SetRawStorage set storage value in rlp raw.
// An empty value deletes the slot.
func (s *State) SetRawStorage(addr yum.Address, key yum.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr yum.Address, key yum.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr yum.Address, key yum.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// AddEvent appends an event. Events are reverted along with storage.
func (s *State) AddEvent(ev *yum.Event) {
	s.events = append(s.events, ev)
}

// Events returns events emitted since the state was created.
func (s *State) Events() yum.Events {
	return s.events
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	rev := s.sm.Push()
	s.checkpoints = append(s.checkpoints, checkpoint{rev, len(s.events)})
	return rev
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	for n := len(s.checkpoints); n > 0 && s.checkpoints[n-1].revision >= revision; n-- {
		s.events = s.events[:s.checkpoints[n-1].events]
		s.checkpoints = s.checkpoints[:n-1]
	}
	s.sm.PopTo(revision)
}

// Stage makes a stage object to compute digest or commit all changes.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey][]byte)
	s.sm.Journal(func(k storageKey, v rlp.RawValue) bool {
		changes[k] = v
		return true
	})
	return &Stage{stater: s.stater, changes: changes}
}
