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
Package data contains classes and functions to handle graph data.

Nodes

Nodes are items stored in the graph. A node has a unique key, a label and
an open-ended map of string properties. The label may be empty.

Edges

Edges are items stored in the graph. Edges connect nodes. An edge has a
unique key, a non-empty label, two endpoint node keys, a directed flag and
an open-ended map of string properties. The endpoints of an edge are not
required to reference stored nodes.
*/
package data

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
)

/*
Node is an item stored in the graph.
*/
type Node struct {
	Key   string            // Unique key of this node
	Label string            // Label of this node (may be empty)
	Props map[string]string // Properties of this node
}

/*
NewGraphNode creates a new Node instance.
*/
func NewGraphNode(key string, label string) *Node {
	return &Node{key, label, make(map[string]string)}
}

/*
SetProp sets a property of this node.
*/
func (n *Node) SetProp(key string, val string) *Node {
	n.Props[key] = val
	return n
}

/*
PropKeys returns the sorted property keys of this node.
*/
func (n *Node) PropKeys() []string {
	return sortedPropKeys(n.Props)
}

/*
String returns a string representation of this node.
*/
func (n *Node) String() string {
	return dataToString("GraphNode", n.Key, n.Label, n.Props)
}

/*
sortedPropKeys returns the keys of a property map in sorted order.
*/
func sortedPropKeys(props map[string]string) []string {
	keys := make([]string, 0, len(props))

	for key := range props {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

/*
dataToString returns a string representation of a data item.
*/
func dataToString(dataType string, key string, label string, props map[string]string) string {
	var buf bytes.Buffer

	maxlen := len("label")

	for prop := range props {
		if plen := len(prop); plen > maxlen {
			maxlen = plen
		}
	}

	buf.WriteString(dataType + ":\n")

	buf.WriteString(fmt.Sprintf("    %"+
		strconv.Itoa(maxlen)+"v : %v\n", "key", key))
	buf.WriteString(fmt.Sprintf("    %"+
		strconv.Itoa(maxlen)+"v : %v\n", "label", label))

	for _, prop := range sortedPropKeys(props) {
		buf.WriteString(fmt.Sprintf("    %"+
			strconv.Itoa(maxlen)+"v : %v\n", prop, props[prop]))
	}

	return buf.String()
}
