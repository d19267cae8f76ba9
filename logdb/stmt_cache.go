// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"sync"
)

// maxCachedStmts bounds the number of kept statements, filter queries vary with the criteria count.
const maxCachedStmts = 256

// stmtCache keeps prepared statements by query text.
type stmtCache struct {
	db    *sql.DB
	mu    sync.Mutex
	stmts map[string]*sql.Stmt
}

func newStmtCache(db *sql.DB) *stmtCache {
	return &stmtCache{db: db, stmts: make(map[string]*sql.Stmt)}
}

// Prepare returns the statement for query and a release func to call once done with it.
func (sc *stmtCache) Prepare(ctx context.Context, query string) (*sql.Stmt, func(), error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if stmt, ok := sc.stmts[query]; ok {
		return stmt, func() {}, nil
	}
	stmt, err := sc.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	if len(sc.stmts) >= maxCachedStmts {
		return stmt, func() { stmt.Close() }, nil
	}
	sc.stmts[query] = stmt
	return stmt, func() {}, nil
}

func (sc *stmtCache) Len() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return len(sc.stmts)
}

func (sc *stmtCache) Clear() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	for query, stmt := range sc.stmts {
		stmt.Close()
		delete(sc.stmts, query)
	}
}
