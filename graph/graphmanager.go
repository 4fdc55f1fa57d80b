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
	"sync"
	"unicode/utf8"

	"github.com/krotik/petradb/graph/codec"
	"github.com/krotik/petradb/graph/data"
	"github.com/krotik/petradb/graph/graphstorage"
	"github.com/krotik/petradb/graph/util"
)

/*
Manager data structure
*/
type Manager struct {
	gs    graphstorage.Storage // Graph storage of this graph manager
	mutex *sync.RWMutex        // Mutex to protect atomic graph operations
}

/*
NewGraphManager returns a new GraphManager instance.
*/
func NewGraphManager(gs graphstorage.Storage) (*Manager, error) {
	gm := &Manager{gs, &sync.RWMutex{}}

	// Check the version of the graph storage

	val, err := gs.Get(graphstorage.KeyspaceMeta, []byte(MetaVersion))
	if err != nil {
		return nil, err
	}

	if val == nil {

		err = gs.WriteBatch([]graphstorage.Op{{
			Keyspace: graphstorage.KeyspaceMeta,
			Key:      []byte(MetaVersion),
			Value:    codec.EncodeCount(VERSION),
		}})

		if err != nil {
			return nil, err
		}

	} else {

		version, err := codec.DecodeCount(val)
		if err != nil {
			return nil, err
		}

		if version > VERSION {
			return nil, &util.GraphError{
				Type: util.ErrOpening,
				Detail: fmt.Sprintf("Cannot open graph storage of version: %v - "+
					"max supported version: %v", version, VERSION),
			}
		}
	}

	return gm, nil
}

/*
Name returns the name of the graph storage of this graph manager.
*/
func (gm *Manager) Name() string {
	return fmt.Sprint("Graph ", gm.gs.Name())
}

// Validation
// ==========

/*
checkNode checks if a given node can be written to the datastore.
*/
func (gm *Manager) checkNode(node *data.Node) error {
	if err := checkStringValue("Node", "key", node.Key, false); err != nil {
		return err
	}

	if err := checkStringValue("Node", "label", node.Label, true); err != nil {
		return err
	}

	return checkProps("Node", node.Props)
}

/*
checkEdge checks if a given edge can be written to the datastore.
*/
func (gm *Manager) checkEdge(edge *data.Edge) error {
	if err := checkStringValue("Edge", "key", edge.Key, false); err != nil {
		return err
	}

	if err := checkStringValue("Edge", "label", edge.Label, false); err != nil {
		return err
	}

	if err := checkStringValue("Edge", "end1", edge.End1, false); err != nil {
		return err
	}

	if err := checkStringValue("Edge", "end2", edge.End2, false); err != nil {
		return err
	}

	return checkProps("Edge", edge.Props)
}

/*
checkProps checks the property map of a graph item.
*/
func checkProps(name string, props map[string]string) error {

	for k, v := range props {

		if err := checkStringValue(name, "property key", k, false); err != nil {
			return err
		}

		if err := checkStringValue(name, fmt.Sprintf("value of property %v", k),
			v, true); err != nil {
			return err
		}
	}

	return nil
}

/*
checkStringValue checks a single string value of a graph item. All values
must be valid UTF-8 and must not contain the key separator byte.
*/
func checkStringValue(name string, field string, value string, allowEmpty bool) error {

	if !allowEmpty && value == "" {
		return &util.GraphError{
			Type:   util.ErrInvalidData,
			Detail: fmt.Sprintf("%v is missing a %v value", name, field),
		}
	}

	if !utf8.ValidString(value) {
		return &util.GraphError{
			Type:   util.ErrInvalidData,
			Detail: fmt.Sprintf("%v %v is not valid UTF-8", name, field),
		}
	}

	if codec.ContainsKeySep(value) {
		return &util.GraphError{
			Type:   util.ErrInvalidData,
			Detail: fmt.Sprintf("%v %v contains the key separator byte", name, field),
		}
	}

	return nil
}

// Meta keyspace access
// ====================

/*
readCount reads a counter from the meta keyspace. A missing counter is 0.
*/
func (gm *Manager) readCount(key []byte) (uint64, error) {
	val, err := gm.gs.Get(graphstorage.KeyspaceMeta, key)
	if err != nil || val == nil {
		return 0, err
	}

	return codec.DecodeCount(val)
}

/*
countOp creates the write operation which sets a counter in the meta
keyspace.
*/
func countOp(key []byte, count uint64) graphstorage.Op {
	return graphstorage.Op{
		Keyspace: graphstorage.KeyspaceMeta,
		Key:      key,
		Value:    codec.EncodeCount(count),
	}
}

/*
schemaOp creates the write operation which merges property keys into a
per-label schema set in the meta keyspace. It returns no operation if the
stored set already contains all keys.
*/
func (gm *Manager) schemaOp(metaPrefix string, label string,
	props map[string]string) (*graphstorage.Op, error) {

	if len(props) == 0 {
		return nil, nil
	}

	key := codec.ComposeKey(metaPrefix, label)

	set := make(map[string]string)

	val, err := gm.gs.Get(graphstorage.KeyspaceMeta, key)
	if err != nil {
		return nil, err
	}

	if val != nil {
		stored, err := codec.DecodeStringSet(val)
		if err != nil {
			return nil, err
		}

		for _, item := range stored {
			set[item] = ""
		}
	}

	changed := false

	for k := range props {
		if _, ok := set[k]; !ok {
			set[k] = ""
			changed = true
		}
	}

	if !changed {
		return nil, nil
	}

	list := make([]string, 0, len(set))
	for item := range set {
		list = append(list, item)
	}

	return &graphstorage.Op{
		Keyspace: graphstorage.KeyspaceMeta,
		Key:      key,
		Value:    codec.EncodeStringSet(list),
	}, nil
}

/*
readSchema reads all per-label schema sets with a given meta key prefix.
The property key sets are returned as sorted lists.
*/
func (gm *Manager) readSchema(metaPrefix string) (map[string][]string, error) {
	prefix := codec.ComposePrefix(metaPrefix)

	it, err := gm.gs.Iterator(graphstorage.KeyspaceMeta, prefix)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	schema := make(map[string][]string)

	for it.HasNext() {
		key, val, err := it.Next()
		if err != nil {
			return nil, err
		}

		set, err := codec.DecodeStringSet(val)
		if err != nil {
			return nil, err
		}

		schema[string(key[len(prefix):])] = set
	}

	return schema, nil
}

/*
propIndexOps creates the write operations which index an entity under all
of its property pairs.
*/
func propIndexOps(ks graphstorage.Keyspace, key string,
	props map[string]string) []graphstorage.Op {

	ops := make([]graphstorage.Op, 0, len(props))

	for k, v := range props {
		ops = append(ops, graphstorage.Op{
			Keyspace: ks,
			Key:      codec.ComposeKey(k, v, key),
		})
	}

	return ops
}
