/*
 * PetraDB
 *
 * Copyright 2021 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package data

import (
	"bytes"
	"fmt"
)

/*
Edge is an item stored in the graph which connects two nodes. End1 is the
source and End2 is the target of a directed edge. An undirected edge
participates in traversals from both of its endpoints equivalently.
*/
type Edge struct {
	Key      string            // Unique key of this edge
	Label    string            // Label of this edge
	End1     string            // Node key of the first end of this edge
	End2     string            // Node key of the second end of this edge
	Directed bool              // Flag if this edge is directed from End1 to End2
	Props    map[string]string // Properties of this edge
}

/*
NewGraphEdge creates a new Edge instance.
*/
func NewGraphEdge(key string, label string, end1 string, end2 string, directed bool) *Edge {
	return &Edge{key, label, end1, end2, directed, make(map[string]string)}
}

/*
SetProp sets a property of this edge.
*/
func (e *Edge) SetProp(key string, val string) *Edge {
	e.Props[key] = val
	return e
}

/*
PropKeys returns the sorted property keys of this edge.
*/
func (e *Edge) PropKeys() []string {
	return sortedPropKeys(e.Props)
}

/*
OtherEnd returns the node key of the endpoint which is on the other side
from the given node key.
*/
func (e *Edge) OtherEnd(key string) string {
	if key == e.End1 {
		return e.End2
	} else if key == e.End2 {
		return e.End1
	}
	return ""
}

/*
String returns a string representation of this edge.
*/
func (e *Edge) String() string {
	var buf bytes.Buffer

	buf.WriteString(dataToString("GraphEdge", e.Key, e.Label, e.Props))

	arrow := "<->"
	if e.Directed {
		arrow = "-->"
	}

	buf.WriteString(fmt.Sprintf("    %v %v %v\n", e.End1, arrow, e.End2))

	return buf.String()
}
