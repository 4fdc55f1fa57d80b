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
	"bytes"
	"reflect"
	"strings"
	"testing"
)

const testGraphFile = `
# A small social graph

@id|@label|name|country
user_101|User|Ana|Mexico
user_102|User|Bob|USA
user_103|User|Carla|Chile

@id|@label|@dir|@out|@in|since
edge_50|KNOWS|T|user_101|user_102|2019
edge_51|WORKS_WITH|T|user_103|user_101|
edge_52|KNOWS|T|user_102|user_103|2021
`

func TestImportPGDF(t *testing.T) {
	gm, gs := newTestManager(t)
	defer gs.Close()

	if err := ImportPGDF(strings.NewReader(testGraphFile), gm); err != nil {
		t.Error(err)
		return
	}

	if count, err := gm.NodeCount(); count != 3 || err != nil {
		t.Error("Unexpected result:", count, err)
		return
	}

	if count, err := gm.EdgeCount(); count != 3 || err != nil {
		t.Error("Unexpected result:", count, err)
		return
	}

	node, err := gm.FetchNode("user_101")
	if err != nil {
		t.Error(err)
		return
	}

	if node.Label != "User" || !reflect.DeepEqual(node.Props, map[string]string{
		"name":    "Ana",
		"country": "Mexico",
	}) {
		t.Error("Unexpected result:", node)
		return
	}

	// An empty trailing field becomes an empty property value

	edge, err := gm.FetchEdge("edge_51")
	if err != nil {
		t.Error(err)
		return
	}

	if edge.Label != "WORKS_WITH" || edge.End1 != "user_103" ||
		edge.End2 != "user_101" || !edge.Directed ||
		edge.Props["since"] != "" {
		t.Error("Unexpected result:", edge)
		return
	}

	counts, err := gm.EdgeCountsByLabel()
	if err != nil {
		t.Error(err)
		return
	}

	if !reflect.DeepEqual(counts, map[string]uint64{
		"KNOWS":      2,
		"WORKS_WITH": 1,
	}) {
		t.Error("Unexpected result:", counts)
		return
	}

	schema, err := gm.NodeSchema()
	if err != nil {
		t.Error(err)
		return
	}

	if !reflect.DeepEqual(schema, map[string][]string{
		"User": {"country", "name"},
	}) {
		t.Error("Unexpected result:", schema)
		return
	}
}

func TestImportPGDFBadRecords(t *testing.T) {
	gm, gs := newTestManager(t)
	defer gs.Close()

	badFile := `
@id|@label|name
node_1|Test|Ana
node_1|Test|Bob
|Test|NoKey
node_2|Test|Carla
`

	// The default import skips bad records and reports them at the end

	err := ImportPGDF(strings.NewReader(badFile), gm)
	if err == nil {
		t.Error("Unexpected result: import of bad records did not report errors")
		return
	}

	if !strings.Contains(err.Error(), "exists already") ||
		!strings.Contains(err.Error(), "missing a key value") {
		t.Error("Unexpected result:", err)
		return
	}

	if count, _ := gm.NodeCount(); count != 2 {
		t.Error("Unexpected result:", count)
		return
	}

	if node, _ := gm.FetchNode("node_1"); node.Props["name"] != "Ana" {
		t.Error("Unexpected result:", node)
		return
	}

	if node, _ := gm.FetchNode("node_2"); node == nil {
		t.Error("Unexpected result: node_2 was not stored")
		return
	}
}

func TestImportPGDFStrict(t *testing.T) {
	gm, gs := newTestManager(t)
	defer gs.Close()

	badFile := `
@id|@label|name
node_1|Test|Ana
node_1|Test|Bob
node_2|Test|Carla
`

	// The strict import stops at the first bad record

	err := ImportPGDFStrict(strings.NewReader(badFile), gm)
	if err == nil || !strings.Contains(err.Error(), "exists already") {
		t.Error("Unexpected result:", err)
		return
	}

	if count, _ := gm.NodeCount(); count != 1 {
		t.Error("Unexpected result:", count)
		return
	}

	if node, _ := gm.FetchNode("node_2"); node != nil {
		t.Error("Unexpected result:", node)
		return
	}
}

func TestExportPGDF(t *testing.T) {
	gm, gs := newTestManager(t)
	defer gs.Close()

	if err := ImportPGDF(strings.NewReader(testGraphFile), gm); err != nil {
		t.Error(err)
		return
	}

	var buf bytes.Buffer

	if err := ExportPGDF(&buf, gm); err != nil {
		t.Error(err)
		return
	}

	// The exported data must produce an equivalent graph when imported

	gm2, gs2 := newTestManager(t)
	defer gs2.Close()

	if err := ImportPGDF(bytes.NewReader(buf.Bytes()), gm2); err != nil {
		t.Error(err)
		return
	}

	if count, _ := gm2.NodeCount(); count != 3 {
		t.Error("Unexpected result:", count)
		return
	}

	if count, _ := gm2.EdgeCount(); count != 3 {
		t.Error("Unexpected result:", count)
		return
	}

	node, _ := gm2.FetchNode("user_103")
	if node == nil || node.Props["country"] != "Chile" {
		t.Error("Unexpected result:", node)
		return
	}

	edge, _ := gm2.FetchEdge("edge_50")
	if edge == nil || edge.End1 != "user_101" || edge.End2 != "user_102" ||
		!edge.Directed || edge.Props["since"] != "2019" {
		t.Error("Unexpected result:", edge)
		return
	}
}
