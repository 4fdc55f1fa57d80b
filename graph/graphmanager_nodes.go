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
NodeCount returns the total number of stored nodes.
*/
func (gm *Manager) NodeCount() (uint64, error) {
	return gm.readCount([]byte(MetaNodesTotal))
}

/*
FetchNode fetches a single node from the graph. The returned node is nil
if the node does not exist.
*/
func (gm *Manager) FetchNode(key string) (*data.Node, error) {
	val, err := gm.gs.Get(graphstorage.KeyspaceNodes, []byte(key))
	if err != nil || val == nil {
		return nil, err
	}

	return decodeNode(key, val)
}

/*
StoreNode stores a single node in the graph. Storing a node with an
existing key is an error - stored nodes are never mutated.
*/
func (gm *Manager) StoreNode(node *data.Node) error {

	// Check if the node can be stored

	if err := gm.checkNode(node); err != nil {
		return err
	}

	// Take writer lock

	gm.mutex.Lock()
	defer gm.mutex.Unlock()

	// Check for an existing node with the same key

	val, err := gm.gs.Get(graphstorage.KeyspaceNodes, []byte(node.Key))
	if err != nil {
		return err
	} else if val != nil {
		return &util.GraphError{
			Type:   util.ErrInvalidData,
			Detail: fmt.Sprintf("Node %v exists already", node.Key),
		}
	}

	// Build up the write batch which touches all affected keyspaces

	ops := []graphstorage.Op{{
		Keyspace: graphstorage.KeyspaceNodes,
		Key:      []byte(node.Key),
		Value:    codec.EncodeNodeValue(node.Label, node.Props),
	}}

	ops = append(ops, propIndexOps(graphstorage.KeyspaceNodePropIndex,
		node.Key, node.Props)...)

	count, err := gm.NodeCount()
	if err != nil {
		return err
	}

	ops = append(ops, countOp([]byte(MetaNodesTotal), count+1))

	schemaOp, err := gm.schemaOp(MetaNodeLabelSchema, node.Label, node.Props)
	if err != nil {
		return err
	}
	if schemaOp != nil {
		ops = append(ops, *schemaOp)
	}

	return gm.gs.WriteBatch(ops)
}

/*
NodeIterator returns a cursor over all stored nodes in node key order.
*/
func (gm *Manager) NodeIterator() (*NodeCursor, error) {
	it, err := gm.gs.Iterator(graphstorage.KeyspaceNodes, nil)
	if err != nil {
		return nil, err
	}

	return &NodeCursor{gm, it, 0, false, nil, false}, nil
}

/*
NodeIteratorByProperty returns a cursor over all nodes which carry a given
property pair in node key order.
*/
func (gm *Manager) NodeIteratorByProperty(propKey string, propValue string) (*NodeCursor, error) {
	prefix := codec.ComposePrefix(propKey, propValue)

	it, err := gm.gs.Iterator(graphstorage.KeyspaceNodePropIndex, prefix)
	if err != nil {
		return nil, err
	}

	return &NodeCursor{gm, it, len(prefix), true, nil, false}, nil
}

/*
NodeSchema returns the property keys of all stored nodes grouped by their
label. The property key sets are returned as sorted lists.
*/
func (gm *Manager) NodeSchema() (map[string][]string, error) {
	return gm.readSchema(MetaNodeLabelSchema)
}

/*
decodeNode decodes a node from a stored value.
*/
func decodeNode(key string, val []byte) (*data.Node, error) {
	label, props, err := codec.DecodeNodeValue(val)
	if err != nil {
		return nil, err
	}

	return &data.Node{Key: key, Label: label, Props: props}, nil
}
