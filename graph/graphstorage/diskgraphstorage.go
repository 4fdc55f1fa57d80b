/*
 * PetraDB
 *
 * Copyright 2021 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package graphstorage contains classes which model storage objects for graph data.

There are two main storage objects: DiskGraphStorage which provides disk storage
and MemoryGraphStorage which provides memory-only storage.

Both are backed by a Badger key-value store. The logically separate
keyspaces of the graph are mapped to one byte prefixes on the physical
keys. Write batches are applied as a single Badger transaction which
makes them atomic across keyspaces.
*/
package graphstorage

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/krotik/common/fileutil"
	"github.com/krotik/common/logutil"

	"github.com/krotik/petradb/graph/util"
)

/*
Logger for graph storage related events
*/
var log = logutil.GetLogger("petradb.graphstorage")

/*
DiskGraphStorage data structure
*/
type DiskGraphStorage struct {
	name          string       // Name of the graph storage
	readonly      bool         // Flag for readonly mode
	db            *badger.DB   // Underlying key-value store
	mutex         *sync.Mutex  // Mutex to protect lifecycle operations
	openIterators int          // Number of iterators which have not been closed
	closed        bool         // Flag if the storage has been closed
}

/*
NewDiskGraphStorage creates a new DiskGraphStorage instance.
*/
func NewDiskGraphStorage(name string, readonly bool) (Storage, error) {

	// Create the storage directory if it does not exist yet

	if res, _ := fileutil.PathExists(name); !res {
		if err := os.MkdirAll(name, 0770); err != nil {
			return nil, &util.GraphError{Type: util.ErrOpening, Detail: err.Error()}
		}
	}

	opts := badger.DefaultOptions(name)
	opts.Logger = storageLogger{}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, &util.GraphError{Type: util.ErrOpening, Detail: err.Error()}
	}

	log.Info("Opened disk graph storage ", name)

	return &DiskGraphStorage{name, readonly, db, &sync.Mutex{}, 0, false}, nil
}

/*
Name returns the name of the DiskGraphStorage instance.
*/
func (dgs *DiskGraphStorage) Name() string {
	return dgs.name
}

/*
Get does a point lookup in a keyspace. The returned value is nil if the
key does not exist.
*/
func (dgs *DiskGraphStorage) Get(ks Keyspace, key []byte) ([]byte, error) {
	if err := dgs.checkOpen(); err != nil {
		return nil, err
	}

	var value []byte

	err := dgs.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(physicalKey(ks, key))

		if err == badger.ErrKeyNotFound {
			return nil
		} else if err != nil {
			return err
		}

		value, err = item.ValueCopy(nil)

		return err
	})

	if err != nil {
		return nil, &util.GraphError{Type: util.ErrReading, Detail: err.Error()}
	}

	return value, nil
}

/*
WriteBatch applies a list of write operations atomically.
*/
func (dgs *DiskGraphStorage) WriteBatch(ops []Op) error {
	if err := dgs.checkOpen(); err != nil {
		return err
	}

	if dgs.readonly {
		return &util.GraphError{Type: util.ErrReadOnly, Detail: "Cannot write to " + dgs.name}
	}

	err := dgs.db.Update(func(txn *badger.Txn) error {

		for _, op := range ops {
			var err error

			if len(op.Key) == 0 {
				return fmt.Errorf("Operation on %v has an empty key", dgs.name)
			}

			if op.Delete {
				err = txn.Delete(physicalKey(op.Keyspace, op.Key))
			} else {
				err = txn.Set(physicalKey(op.Keyspace, op.Key), op.Value)
			}

			if err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return &util.GraphError{Type: util.ErrWriting, Detail: err.Error()}
	}

	return nil
}

/*
Iterator returns a forward iterator over all entries of a keyspace whose
keys start with the given prefix.
*/
func (dgs *DiskGraphStorage) Iterator(ks Keyspace, prefix []byte) (KVIterator, error) {
	if err := dgs.checkOpen(); err != nil {
		return nil, err
	}

	physPrefix := physicalKey(ks, prefix)

	txn := dgs.db.NewTransaction(false)

	opts := badger.DefaultIteratorOptions
	opts.Prefix = physPrefix

	it := txn.NewIterator(opts)
	it.Rewind()

	dgs.mutex.Lock()
	dgs.openIterators++
	dgs.mutex.Unlock()

	return &diskKVIterator{dgs, txn, it, false}, nil
}

/*
Close closes the storage. Closing an already closed storage is a no-op.
*/
func (dgs *DiskGraphStorage) Close() error {
	dgs.mutex.Lock()
	defer dgs.mutex.Unlock()

	if dgs.closed {
		return nil
	}

	if dgs.openIterators > 0 {
		return &util.GraphError{
			Type:   util.ErrUsage,
			Detail: "Cannot close graph storage with open iterators",
		}
	}

	dgs.closed = true

	if err := dgs.db.Close(); err != nil {
		return &util.GraphError{Type: util.ErrClosing, Detail: err.Error()}
	}

	log.Info("Closed disk graph storage ", dgs.name)

	return nil
}

/*
checkOpen checks that the storage has not been closed.
*/
func (dgs *DiskGraphStorage) checkOpen() error {
	dgs.mutex.Lock()
	defer dgs.mutex.Unlock()

	if dgs.closed {
		return &util.GraphError{Type: util.ErrUsage, Detail: dgs.name + " was closed"}
	}

	return nil
}

/*
releaseIterator decreases the counter of open iterators.
*/
func (dgs *DiskGraphStorage) releaseIterator() {
	dgs.mutex.Lock()
	dgs.openIterators--
	dgs.mutex.Unlock()
}

/*
physicalKey prepends the keyspace prefix to a logical key.
*/
func physicalKey(ks Keyspace, key []byte) []byte {
	physKey := make([]byte, 0, len(key)+1)
	physKey = append(physKey, byte(ks))
	return append(physKey, key...)
}

/*
diskKVIterator is a KVIterator over a Badger prefix iterator.
*/
type diskKVIterator struct {
	dgs    *DiskGraphStorage // Graph storage which created the iterator
	txn    *badger.Txn       // Read transaction which scopes the iterator
	it     *badger.Iterator  // Internal Badger iterator
	closed bool              // Flag if the iterator has been closed
}

/*
HasNext returns if there is a next key-value pair.
*/
func (dki *diskKVIterator) HasNext() bool {
	return !dki.closed && dki.it.Valid()
}

/*
Next returns the next key-value pair without the keyspace prefix.
*/
func (dki *diskKVIterator) Next() ([]byte, []byte, error) {
	if dki.closed || !dki.it.Valid() {
		return nil, nil, &util.GraphError{
			Type:   util.ErrReading,
			Detail: "Iterator has no more items",
		}
	}

	item := dki.it.Item()

	key := item.KeyCopy(nil)[1:]

	value, err := item.ValueCopy(nil)
	if err != nil {
		return nil, nil, &util.GraphError{Type: util.ErrReading, Detail: err.Error()}
	}

	dki.it.Next()

	return key, value, nil
}

/*
Close releases the iterator and its underlying resources.
*/
func (dki *diskKVIterator) Close() {
	if dki.closed {
		return
	}

	dki.closed = true

	dki.it.Close()
	dki.txn.Discard()

	dki.dgs.releaseIterator()
}

/*
storageLogger routes messages of the underlying key-value store to the
graph storage logger.
*/
type storageLogger struct {
}

func (storageLogger) Errorf(format string, args ...interface{}) {
	log.Error(formatArgs(format, args))
}

func (storageLogger) Warningf(format string, args ...interface{}) {
	log.Warning(formatArgs(format, args))
}

func (storageLogger) Infof(format string, args ...interface{}) {
	log.Debug(formatArgs(format, args))
}

func (storageLogger) Debugf(format string, args ...interface{}) {
	log.Debug(formatArgs(format, args))
}

/*
formatArgs formats a log message of the underlying key-value store.
*/
func formatArgs(format string, args []interface{}) string {
	return strings.TrimSpace(fmt.Sprintf(format, args...))
}
