// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/golang/snappy"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

// LogDB stores events of committed calls.
type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
	stmtCache     *stmtCache
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	dsn := path + "?_journal=wal"
	if path == ":memory:" {
		dsn = path
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()

	// a memory db lives per connection
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path:          path,
		db:            db,
		driverVersion: driverVer,
		stmtCache:     newStmtCache(db),
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// DriverVersion returns the sqlite library version.
func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// Insert stores the events of one committed call.
func (db *LogDB) Insert(callSeq, callTime uint64, method string, caller yum.Address, events yum.Events) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT OR REPLACE INTO event(seq, callTime, method, caller, address, topic0, topic1, topic2, topic3, topic4, data) VALUES(?,?,?,?,?,?,?,?,?,?,?)")
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i, ev := range events {
		var topics [5][]byte
		for j := 0; j < len(ev.Topics) && j < len(topics); j++ {
			topics[j] = ev.Topics[j].Bytes()
		}
		if _, err := stmt.Exec(
			newSequence(callSeq, uint32(i)),
			callTime,
			method,
			caller.Bytes(),
			ev.Address.Bytes(),
			topics[0],
			topics[1],
			topics[2],
			topics[3],
			topics[4],
			snappy.Encode(nil, ev.Data),
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// NewestCallSeq returns the sequence of the latest call with stored events.
func (db *LogDB) NewestCallSeq() (uint64, bool, error) {
	var seq sql.NullInt64
	if err := db.db.QueryRow("SELECT MAX(seq) FROM event").Scan(&seq); err != nil {
		return 0, false, err
	}
	if !seq.Valid {
		return 0, false, nil
	}
	return sequence(seq.Int64).CallSeq(), true, nil
}

// Truncate removes the events of calls after callSeq.
func (db *LogDB) Truncate(callSeq uint64) error {
	_, err := db.db.Exec("DELETE FROM event WHERE seq >= ?", newSequence(callSeq+1, 0))
	return err
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, "SELECT * FROM event ORDER BY seq ASC")
	}
	metricsHandleEventsFilter(filter)

	var (
		args  []any
		conds []string
	)
	if filter.Range != nil {
		if filter.Range.Unit == Time {
			conds = append(conds, "callTime >= ?")
			args = append(args, filter.Range.From)
			if filter.Range.To >= filter.Range.From {
				conds = append(conds, "callTime <= ?")
				args = append(args, filter.Range.To)
			}
		} else {
			if filter.Range.From > maxCall {
				return nil, nil
			}
			conds = append(conds, "seq >= ?")
			args = append(args, newSequence(filter.Range.From, 0))
			if filter.Range.To >= filter.Range.From && filter.Range.To < maxCall {
				conds = append(conds, "seq < ?")
				args = append(args, newSequence(filter.Range.To+1, 0))
			}
		}
	}

	var (
		ors     []string
		orsArgs []any
	)
	for _, c := range filter.CriteriaSet {
		var ands []string
		if c.Address != nil {
			ands = append(ands, "address = ?")
			orsArgs = append(orsArgs, c.Address.Bytes())
		}
		for i, topic := range c.Topics {
			if topic != nil {
				ands = append(ands, fmt.Sprintf("topic%d = ?", i))
				orsArgs = append(orsArgs, topic.Bytes())
			}
		}
		// an empty criteria matches everything
		if len(ands) == 0 {
			ors = nil
			break
		}
		ors = append(ors, "("+strings.Join(ands, " AND ")+")")
	}
	if len(ors) > 0 {
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
		args = append(args, orsArgs...)
	}

	stmt := "SELECT * FROM event"
	if len(conds) > 0 {
		stmt += " WHERE " + strings.Join(conds, " AND ")
	}
	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	stmt, release, err := db.stmtCache.Prepare(ctx, query)
	if err != nil {
		return nil, err
	}
	defer release()
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq      sequence
			callTime uint64
			method   string
			caller   []byte
			address  []byte
			topics   [5][]byte
			data     []byte
		)
		if err := rows.Scan(
			&seq,
			&callTime,
			&method,
			&caller,
			&address,
			&topics[0],
			&topics[1],
			&topics[2],
			&topics[3],
			&topics[4],
			&data,
		); err != nil {
			return nil, err
		}
		decoded, err := snappy.Decode(nil, data)
		if err != nil {
			return nil, errors.Wrap(err, "decode event data")
		}
		event := &Event{
			CallSeq:  seq.CallSeq(),
			Index:    seq.Index(),
			CallTime: callTime,
			Method:   method,
			Caller:   yum.BytesToAddress(caller),
			Address:  yum.BytesToAddress(address),
			Data:     decoded,
		}
		for i, topic := range topics {
			if len(topic) > 0 {
				h := yum.BytesToBytes32(topic)
				event.Topics[i] = &h
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
