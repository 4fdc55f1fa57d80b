/*
 * PetraDB
 *
 * Copyright 2021 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package graphstorage

import (
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/krotik/petradb/graph/util"
)

/*
NewMemoryGraphStorage creates a memory-only graph storage. Nothing is
persisted to disk. The storage is mainly useful for testing and for
ephemeral graph data.
*/
func NewMemoryGraphStorage(name string) (Storage, error) {

	opts := badger.DefaultOptions("")
	opts.InMemory = true
	opts.Logger = storageLogger{}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, &util.GraphError{Type: util.ErrOpening, Detail: err.Error()}
	}

	return &DiskGraphStorage{name, false, db, &sync.Mutex{}, 0, false}, nil
}
