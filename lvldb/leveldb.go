// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb implements kv.Store on goleveldb.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/kv"
)

var _ kv.Store = (*LevelDB)(nil)

const minCacheMB = 16

// Options tunes a store. Sizes below the minimum are raised to it.
type Options struct {
	CacheSize              int // MiB, split between block cache and write buffer
	OpenFilesCacheCapacity int
}

// LevelDB is a kv.Store backed by goleveldb. Single puts are not synced;
// batches are.
type LevelDB struct {
	db        *leveldb.DB
	read      *opt.ReadOptions
	write     *opt.WriteOptions
	syncWrite *opt.WriteOptions
}

// New opens the store at path, creating it when missing.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrap(err, "open storage")
	}
	return open(stg, opts)
}

// NewMem returns a store that lives in memory.
func NewMem() (*LevelDB, error) {
	return open(storage.NewMemStorage(), Options{})
}

func open(stg storage.Storage, opts Options) (*LevelDB, error) {
	cacheMB := max(opts.CacheSize, minCacheMB)
	db, err := leveldb.Open(stg, &opt.Options{
		OpenFilesCacheCapacity: max(opts.OpenFilesCacheCapacity, minCacheMB),
		BlockCacheCapacity:     cacheMB / 2 * opt.MiB,
		WriteBuffer:            cacheMB / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	})
	if err != nil {
		stg.Close()
		return nil, errors.Wrap(err, "open leveldb")
	}
	return &LevelDB{
		db:        db,
		read:      &opt.ReadOptions{},
		write:     &opt.WriteOptions{},
		syncWrite: &opt.WriteOptions{Sync: true},
	}, nil
}

// IsNotFound reports whether err is the missing key error of Get.
func (l *LevelDB) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

func (l *LevelDB) Get(key []byte) ([]byte, error) { return l.db.Get(key, l.read) }
func (l *LevelDB) Has(key []byte) (bool, error)   { return l.db.Has(key, l.read) }
func (l *LevelDB) Put(key, value []byte) error    { return l.db.Put(key, value, l.write) }
func (l *LevelDB) Delete(key []byte) error        { return l.db.Delete(key, l.write) }

func (l *LevelDB) Iterate(r kv.Range) kv.Iterator {
	return l.db.NewIterator(&util.Range{Start: r.Start, Limit: r.Limit}, l.read)
}

// NewBatch returns a batch that is written atomically and synced.
func (l *LevelDB) NewBatch() kv.Batch {
	return &batch{new(leveldb.Batch), l}
}

// Close releases the store. Any later call fails.
func (l *LevelDB) Close() error {
	return l.db.Close()
}

// Stats is a point in time summary of the store.
type Stats struct {
	Levels      int
	SizeBytes   int64
	Compactions uint32
	ReadBytes   uint64
	WriteBytes  uint64
}

// Stats reads the current store statistics.
func (l *LevelDB) Stats() (Stats, error) {
	var s leveldb.DBStats
	if err := l.db.Stats(&s); err != nil {
		return Stats{}, errors.Wrap(err, "leveldb stats")
	}
	return Stats{
		Levels:      len(s.LevelSizes),
		SizeBytes:   s.LevelSizes.Sum(),
		Compactions: s.MemComp + s.Level0Comp + s.NonLevel0Comp + s.SeekComp,
		ReadBytes:   s.IORead,
		WriteBytes:  s.IOWrite,
	}, nil
}

type batch struct {
	b  *leveldb.Batch
	db *LevelDB
}

func (b *batch) Put(key, value []byte) error {
	b.b.Put(key, value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.b.Delete(key)
	return nil
}

func (b *batch) Len() int { return b.b.Len() }

func (b *batch) Write() error {
	return b.db.db.Write(b.b, b.db.syncWrite)
}
