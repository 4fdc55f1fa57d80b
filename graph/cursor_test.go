/*
 * PetraDB
 *
 * Copyright 2021 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package graph

import (
	"testing"

	"github.com/krotik/petradb/graph/codec"
	"github.com/krotik/petradb/graph/data"
	"github.com/krotik/petradb/graph/graphstorage"
	"github.com/krotik/petradb/graph/util"
)

func TestCursorRelease(t *testing.T) {
	gm, gs := newTestManager(t)
	defer gs.Close()

	ts := &testStorage{Storage: gs}
	gm.gs = ts

	for _, key := range []string{"node_1", "node_2"} {
		if err := gm.StoreNode(data.NewGraphNode(key, "Test")); err != nil {
			t.Error(err)
			return
		}
	}

	// A drained cursor releases its iterator

	it, err := gm.NodeIterator()
	if err != nil {
		t.Fatal(err)
	}

	for it.HasNext() {
		it.Next()
	}

	if ts.iteratorOpens != 1 || ts.iteratorCloses != 1 {
		t.Error("Unexpected result:", ts.iteratorOpens, ts.iteratorCloses)
		return
	}

	// Closing a drained cursor again is a no-op

	it.Close()

	if ts.iteratorCloses != 1 {
		t.Error("Unexpected result:", ts.iteratorCloses)
		return
	}

	// An aborted cursor releases its iterator on close

	it, err = gm.NodeIterator()
	if err != nil {
		t.Fatal(err)
	}

	if !it.HasNext() {
		t.Error("Unexpected result: cursor has no items")
		return
	}

	it.Next()
	it.Close()

	if ts.iteratorOpens != 2 || ts.iteratorCloses != 2 {
		t.Error("Unexpected result:", ts.iteratorOpens, ts.iteratorCloses)
		return
	}

	// A closed cursor has no more items and reports its misuse

	if it.HasNext() {
		t.Error("Unexpected result: closed cursor has items")
		return
	}

	if res := it.Next(); res != nil {
		t.Error("Unexpected result:", res)
		return
	}

	ge, ok := it.Error().(*util.GraphError)
	if !ok || ge.Type != util.ErrUsage {
		t.Error("Unexpected result:", it.Error())
		return
	}
}

func TestEdgeCursorRelease(t *testing.T) {
	gm, gs := newTestManager(t)
	defer gs.Close()

	ts := &testStorage{Storage: gs}
	gm.gs = ts

	if err := gm.StoreEdge(data.NewGraphEdge("edge_1", "LINKED",
		"node_a", "node_b", false)); err != nil {
		t.Error(err)
		return
	}

	it, err := gm.IncidentEdges("node_a")
	if err != nil {
		t.Fatal(err)
	}

	for it.HasNext() {
		it.Next()
	}

	it.Close()
	it.Close()

	if ts.iteratorOpens != 1 || ts.iteratorCloses != 1 {
		t.Error("Unexpected result:", ts.iteratorOpens, ts.iteratorCloses)
		return
	}

	if res := it.Next(); res != nil || it.Error() == nil {
		t.Error("Unexpected result:", res, it.Error())
		return
	}
}

func TestIndexInconsistency(t *testing.T) {
	gm, gs := newTestManager(t)
	defer gs.Close()

	// Plant an index entry which references a non-existent node

	err := gs.WriteBatch([]graphstorage.Op{{
		Keyspace: graphstorage.KeyspaceNodePropIndex,
		Key:      codec.ComposeKey("name", "Ana", "ghost"),
	}})
	if err != nil {
		t.Fatal(err)
	}

	it, err := gm.NodeIteratorByProperty("name", "Ana")
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	if !it.HasNext() {
		t.Error("Unexpected result: cursor has no items")
		return
	}

	if res := it.Next(); res != nil {
		t.Error("Unexpected result:", res)
		return
	}

	ge, ok := it.Error().(*util.GraphError)
	if !ok || ge.Type != util.ErrIndexInconsistency {
		t.Error("Unexpected result:", it.Error())
		return
	}

	// Same for a planted adjacency entry

	err = gs.WriteBatch([]graphstorage.Op{{
		Keyspace: graphstorage.KeyspaceAdjacency,
		Key:      codec.ComposeKey("node_a", "ghost_edge"),
	}})
	if err != nil {
		t.Fatal(err)
	}

	eit, err := gm.IncidentEdges("node_a")
	if err != nil {
		t.Fatal(err)
	}
	defer eit.Close()

	if res := eit.Next(); res != nil {
		t.Error("Unexpected result:", res)
		return
	}

	ge, ok = eit.Error().(*util.GraphError)
	if !ok || ge.Type != util.ErrIndexInconsistency {
		t.Error("Unexpected result:", eit.Error())
		return
	}
}
