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
	"fmt"

	"github.com/krotik/petradb/graph/codec"
	"github.com/krotik/petradb/graph/data"
	"github.com/krotik/petradb/graph/graphstorage"
	"github.com/krotik/petradb/graph/util"
)

/*
EdgeCount returns the total number of stored edges.
*/
func (gm *Manager) EdgeCount() (uint64, error) {
	return gm.readCount([]byte(MetaEdgesTotal))
}

/*
FetchEdge fetches a single edge from the graph. The returned edge is nil
if the edge does not exist.
*/
func (gm *Manager) FetchEdge(key string) (*data.Edge, error) {
	val, err := gm.gs.Get(graphstorage.KeyspaceEdges, []byte(key))
	if err != nil || val == nil {
		return nil, err
	}

	return decodeEdge(key, val)
}

/*
StoreEdge stores a single edge in the graph. Storing an edge with an
existing key is an error - stored edges are never mutated. The endpoints
of the edge are not required to reference stored nodes.
*/
func (gm *Manager) StoreEdge(edge *data.Edge) error {

	// Check if the edge can be stored

	if err := gm.checkEdge(edge); err != nil {
		return err
	}

	// Take writer lock

	gm.mutex.Lock()
	defer gm.mutex.Unlock()

	// Check for an existing edge with the same key

	val, err := gm.gs.Get(graphstorage.KeyspaceEdges, []byte(edge.Key))
	if err != nil {
		return err
	} else if val != nil {
		return &util.GraphError{
			Type:   util.ErrInvalidData,
			Detail: fmt.Sprintf("Edge %v exists already", edge.Key),
		}
	}

	// Build up the write batch which touches all affected keyspaces

	ops := []graphstorage.Op{{
		Keyspace: graphstorage.KeyspaceEdges,
		Key:      []byte(edge.Key),
		Value: codec.EncodeEdgeValue(edge.Label, edge.End1, edge.End2,
			edge.Directed, edge.Props),
	}}

	ops = append(ops, graphstorage.Op{
		Keyspace: graphstorage.KeyspaceEdgesByLabel,
		Key:      codec.ComposeKey(edge.Label, edge.Key),
	})

	// A directed edge is only indexed under its source node - an
	// undirected edge is indexed under both of its endpoints

	ops = append(ops, graphstorage.Op{
		Keyspace: graphstorage.KeyspaceAdjacency,
		Key:      codec.ComposeKey(edge.End1, edge.Key),
	})

	if !edge.Directed && edge.End2 != edge.End1 {
		ops = append(ops, graphstorage.Op{
			Keyspace: graphstorage.KeyspaceAdjacency,
			Key:      codec.ComposeKey(edge.End2, edge.Key),
		})
	}

	ops = append(ops, propIndexOps(graphstorage.KeyspaceEdgePropIndex,
		edge.Key, edge.Props)...)

	count, err := gm.EdgeCount()
	if err != nil {
		return err
	}

	ops = append(ops, countOp([]byte(MetaEdgesTotal), count+1))

	labelCountKey := codec.ComposeKey(MetaEdgeLabelCount, edge.Label)

	labelCount, err := gm.readCount(labelCountKey)
	if err != nil {
		return err
	}

	ops = append(ops, countOp(labelCountKey, labelCount+1))

	schemaOp, err := gm.schemaOp(MetaEdgeLabelSchema, edge.Label, edge.Props)
	if err != nil {
		return err
	}
	if schemaOp != nil {
		ops = append(ops, *schemaOp)
	}

	return gm.gs.WriteBatch(ops)
}

/*
EdgeIterator returns a cursor over all stored edges in edge key order.
*/
func (gm *Manager) EdgeIterator() (*EdgeCursor, error) {
	it, err := gm.gs.Iterator(graphstorage.KeyspaceEdges, nil)
	if err != nil {
		return nil, err
	}

	return &EdgeCursor{gm, it, 0, false, nil, false}, nil
}

/*
EdgeIteratorByLabel returns a cursor over all edges with a given label in
edge key order.
*/
func (gm *Manager) EdgeIteratorByLabel(label string) (*EdgeCursor, error) {
	prefix := codec.ComposePrefix(label)

	it, err := gm.gs.Iterator(graphstorage.KeyspaceEdgesByLabel, prefix)
	if err != nil {
		return nil, err
	}

	return &EdgeCursor{gm, it, len(prefix), true, nil, false}, nil
}

/*
IncidentEdges returns a cursor over the incident edges of a node in edge
key order. The cursor yields all outgoing directed edges and all
undirected edges of the node. Incoming directed edges are not indexed
under their target and are not returned. The node itself is not required
to be stored.
*/
func (gm *Manager) IncidentEdges(nodeKey string) (*EdgeCursor, error) {
	prefix := codec.ComposePrefix(nodeKey)

	it, err := gm.gs.Iterator(graphstorage.KeyspaceAdjacency, prefix)
	if err != nil {
		return nil, err
	}

	return &EdgeCursor{gm, it, len(prefix), true, nil, false}, nil
}

/*
EdgeIteratorByProperty returns a cursor over all edges which carry a given
property pair in edge key order.
*/
func (gm *Manager) EdgeIteratorByProperty(propKey string, propValue string) (*EdgeCursor, error) {
	prefix := codec.ComposePrefix(propKey, propValue)

	it, err := gm.gs.Iterator(graphstorage.KeyspaceEdgePropIndex, prefix)
	if err != nil {
		return nil, err
	}

	return &EdgeCursor{gm, it, len(prefix), true, nil, false}, nil
}

/*
EdgeCountsByLabel returns the number of stored edges for every edge label.
*/
func (gm *Manager) EdgeCountsByLabel() (map[string]uint64, error) {
	prefix := codec.ComposePrefix(MetaEdgeLabelCount)

	it, err := gm.gs.Iterator(graphstorage.KeyspaceMeta, prefix)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	counts := make(map[string]uint64)

	for it.HasNext() {
		key, val, err := it.Next()
		if err != nil {
			return nil, err
		}

		count, err := codec.DecodeCount(val)
		if err != nil {
			return nil, err
		}

		counts[string(key[len(prefix):])] = count
	}

	return counts, nil
}

/*
EdgeSchema returns the property keys of all stored edges grouped by their
label. The property key sets are returned as sorted lists.
*/
func (gm *Manager) EdgeSchema() (map[string][]string, error) {
	return gm.readSchema(MetaEdgeLabelSchema)
}

/*
decodeEdge decodes an edge from a stored value.
*/
func decodeEdge(key string, val []byte) (*data.Edge, error) {
	label, end1, end2, directed, props, err := codec.DecodeEdgeValue(val)
	if err != nil {
		return nil, err
	}

	return &data.Edge{Key: key, Label: label, End1: end1, End2: end2,
		Directed: directed, Props: props}, nil
}
