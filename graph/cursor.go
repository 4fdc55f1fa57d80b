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
	"github.com/krotik/petradb/graph/data"
	"github.com/krotik/petradb/graph/graphstorage"
	"github.com/krotik/petradb/graph/util"
)

/*
NodeCursor can be used to iterate the nodes of a query result. The cursor
does a single forward pass over its results. A cursor must be closed after
use - a cursor which is drained closes itself. Closing a cursor more than
once is a no-op.
*/
type NodeCursor struct {
	gm        *Manager                // GraphManager which created the cursor
	it        graphstorage.KVIterator // Internal keyspace iterator
	prefixLen int                     // Length of the scanned key prefix
	join      bool                    // Flag if entries are index entries which reference the primary keyspace
	LastError error                   // Last encountered error
	closed    bool                    // Flag if the cursor has been closed
}

/*
HasNext returns if there is a next node.
*/
func (nc *NodeCursor) HasNext() bool {
	if nc.closed {
		return false
	}

	if !nc.it.HasNext() {
		nc.Close()
		return false
	}

	return true
}

/*
Next returns the next node. Sets the LastError attribute and closes the
cursor if an error occurs.
*/
func (nc *NodeCursor) Next() *data.Node {
	key, val, err := nc.fetchNext()
	if err != nil {
		nc.LastError = err
		nc.Close()
		return nil
	}

	var node *data.Node

	if nc.join {

		// The entry is an index entry - look up the referenced node

		nodeKey := string(key[nc.prefixLen:])

		val, err = nc.gm.gs.Get(graphstorage.KeyspaceNodes, []byte(nodeKey))

		if err == nil && val == nil {
			err = &util.GraphError{
				Type:   util.ErrIndexInconsistency,
				Detail: "Index entry references non-existent node: " + nodeKey,
			}
		}

		if err == nil {
			node, err = decodeNode(nodeKey, val)
		}

	} else {

		node, err = decodeNode(string(key), val)
	}

	if err != nil {
		nc.LastError = err
		nc.Close()
		return nil
	}

	return node
}

/*
Error returns the last encountered error.
*/
func (nc *NodeCursor) Error() error {
	return nc.LastError
}

/*
Close releases the cursor and its underlying resources.
*/
func (nc *NodeCursor) Close() {
	if !nc.closed {
		nc.closed = true
		nc.it.Close()
	}
}

/*
fetchNext fetches the next raw entry of the cursor.
*/
func (nc *NodeCursor) fetchNext() ([]byte, []byte, error) {
	if nc.closed {
		return nil, nil, &util.GraphError{
			Type:   util.ErrUsage,
			Detail: "Cursor was closed",
		}
	}

	return nc.it.Next()
}

/*
EdgeCursor can be used to iterate the edges of a query result. The cursor
does a single forward pass over its results. A cursor must be closed after
use - a cursor which is drained closes itself. Closing a cursor more than
once is a no-op.
*/
type EdgeCursor struct {
	gm        *Manager                // GraphManager which created the cursor
	it        graphstorage.KVIterator // Internal keyspace iterator
	prefixLen int                     // Length of the scanned key prefix
	join      bool                    // Flag if entries are index entries which reference the primary keyspace
	LastError error                   // Last encountered error
	closed    bool                    // Flag if the cursor has been closed
}

/*
HasNext returns if there is a next edge.
*/
func (ec *EdgeCursor) HasNext() bool {
	if ec.closed {
		return false
	}

	if !ec.it.HasNext() {
		ec.Close()
		return false
	}

	return true
}

/*
Next returns the next edge. Sets the LastError attribute and closes the
cursor if an error occurs.
*/
func (ec *EdgeCursor) Next() *data.Edge {
	key, val, err := ec.fetchNext()
	if err != nil {
		ec.LastError = err
		ec.Close()
		return nil
	}

	var edge *data.Edge

	if ec.join {

		// The entry is an index entry - look up the referenced edge

		edgeKey := string(key[ec.prefixLen:])

		val, err = ec.gm.gs.Get(graphstorage.KeyspaceEdges, []byte(edgeKey))

		if err == nil && val == nil {
			err = &util.GraphError{
				Type:   util.ErrIndexInconsistency,
				Detail: "Index entry references non-existent edge: " + edgeKey,
			}
		}

		if err == nil {
			edge, err = decodeEdge(edgeKey, val)
		}

	} else {

		edge, err = decodeEdge(string(key), val)
	}

	if err != nil {
		ec.LastError = err
		ec.Close()
		return nil
	}

	return edge
}

/*
Error returns the last encountered error.
*/
func (ec *EdgeCursor) Error() error {
	return ec.LastError
}

/*
Close releases the cursor and its underlying resources.
*/
func (ec *EdgeCursor) Close() {
	if !ec.closed {
		ec.closed = true
		ec.it.Close()
	}
}

/*
fetchNext fetches the next raw entry of the cursor.
*/
func (ec *EdgeCursor) fetchNext() ([]byte, []byte, error) {
	if ec.closed {
		return nil, nil, &util.GraphError{
			Type:   util.ErrUsage,
			Detail: "Cursor was closed",
		}
	}

	return ec.it.Next()
}
