// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

const eventTableSchema = `
CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY NOT NULL,
	callTime INTEGER NOT NULL,
	method TEXT NOT NULL,
	caller BLOB NOT NULL,
	address BLOB NOT NULL,
	topic0 BLOB,
	topic1 BLOB,
	topic2 BLOB,
	topic3 BLOB,
	topic4 BLOB,
	data BLOB
);

CREATE INDEX IF NOT EXISTS event_i0 ON event(callTime);
CREATE INDEX IF NOT EXISTS event_i1 ON event(address, seq);
CREATE INDEX IF NOT EXISTS event_i2 ON event(topic0, seq);
CREATE INDEX IF NOT EXISTS event_i3 ON event(topic1, seq);
CREATE INDEX IF NOT EXISTS event_i4 ON event(topic2, seq);
`
