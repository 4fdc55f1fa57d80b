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
Package graph contains the main API to the graph datastore.

Manager API

The main API is provided by a Manager object which can be created with the
NewGraphManager() constructor function. The manager provides store and
fetch functionality for nodes and edges as well as the basic traversal
functionality from a node to its incident edges. Stored entities are
never mutated - the datastore is append-only.

Cursors

All queries which can produce more than one result return a cursor. A
cursor does a single lazy forward pass over its results and must be
closed after use. Closing a cursor more than once is a no-op. A cursor
which is drained releases its resources automatically.

Graph databases

A graph manager handles the graph storage and provides the API for the
graph database. The storage is divided into several keyspaces:

Nodes keyspace

	node key -> encoded { label, props }

Edges keyspace

	edge key -> encoded { label, end1, end2, directed, props }

Edges by label keyspace

	label + sep + edge key -> empty
	(a lazy lookup of all edges with a certain label)

Adjacency keyspace

	node key + sep + edge key -> empty
	(a lazy lookup of the incident edges of a certain node - a directed
	edge is only indexed under its source node, an undirected edge is
	indexed under both of its endpoints)

Node / edge property index keyspaces

	prop key + sep + prop value + sep + entity key -> empty
	(a lazy lookup of all entities which carry a certain property pair)

Meta keyspace

	Total counters, per-label edge counters and per-label property key
	sets - see the Meta* constants below.
*/
package graph

/*
VERSION of the GraphManager
*/
const VERSION = 1

// Meta keyspace entries
// =====================

/*
MetaVersion is the meta entry key for version information
*/
const MetaVersion = "ver"

/*
MetaNodesTotal is the meta entry key for the total node count
*/
const MetaNodesTotal = "nodes_total"

/*
MetaEdgesTotal is the meta entry key for the total edge count
*/
const MetaEdgesTotal = "edges_total"

/*
MetaEdgeLabelCount is the meta entry key prefix for per-label edge counts
*/
const MetaEdgeLabelCount = "edge_label_count"

/*
MetaNodeLabelSchema is the meta entry key prefix for per-label node
property key sets
*/
const MetaNodeLabelSchema = "node_label_schema"

/*
MetaEdgeLabelSchema is the meta entry key prefix for per-label edge
property key sets
*/
const MetaEdgeLabelSchema = "edge_label_schema"
