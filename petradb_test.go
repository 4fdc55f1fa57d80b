/*
 * PetraDB
 *
 * Copyright 2021 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package petradb

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/krotik/common/fileutil"

	"github.com/krotik/petradb/config"
	"github.com/krotik/petradb/graph/util"
)

const GraphDBTestDBDir1 = "dbtest1"

var DBDIRS = []string{GraphDBTestDBDir1}

// Main function for all tests in this package

func TestMain(m *testing.M) {
	flag.Parse()

	for _, dbdir := range DBDIRS {
		if res, _ := fileutil.PathExists(dbdir); res {
			if err := os.RemoveAll(dbdir); err != nil {
				fmt.Print("Could not remove test directory:", err.Error())
			}
		}
	}

	// Run the tests

	res := m.Run()

	// Teardown

	for _, dbdir := range DBDIRS {
		if res, _ := fileutil.PathExists(dbdir); res {
			if err := os.RemoveAll(dbdir); err != nil {
				fmt.Print("Could not remove test directory:", err.Error())
			}
		}
	}

	os.Exit(res)
}

const testImportFile = `@id|@label|name|country
user_101|User|Ana|Mexico
user_102|User|Bob|USA

@id|@label|@dir|@out|@in|since
edge_50|KNOWS|T|user_101|user_102|2019
`

func TestGraphDB(t *testing.T) {
	db, err := OpenGraphDB(GraphDBTestDBDir1)
	if err != nil {
		t.Fatal(err)
	}

	// The config file was created with default values

	if res, _ := fileutil.PathExists(
		filepath.Join(GraphDBTestDBDir1, config.DefaultConfigFile)); !res {
		t.Error("Unexpected result: config file was not created")
		return
	}

	// Importing a missing file is a file access error

	err = db.ImportFile(filepath.Join(GraphDBTestDBDir1, "missing.pgdf"))

	ge, ok := err.(*util.GraphError)
	if !ok || ge.Type != util.ErrFileAccess {
		t.Error("Unexpected result:", err)
		return
	}

	// Import a graph file

	importFile := filepath.Join(GraphDBTestDBDir1, "import.pgdf")

	if err := ioutil.WriteFile(importFile, []byte(testImportFile), 0644); err != nil {
		t.Fatal(err)
	}

	if err := db.ImportFile(importFile); err != nil {
		t.Error(err)
		return
	}

	if count, err := db.GraphManager.NodeCount(); count != 2 || err != nil {
		t.Error("Unexpected result:", count, err)
		return
	}

	// Export the graph to a file

	exportFile := filepath.Join(GraphDBTestDBDir1, "export.pgdf")

	if err := db.ExportFile(exportFile); err != nil {
		t.Error(err)
		return
	}

	if err := db.Close(); err != nil {
		t.Error(err)
		return
	}

	// Reopen the database and check that the data is still there

	db, err = OpenGraphDB(GraphDBTestDBDir1)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	node, err := db.GraphManager.FetchNode("user_101")
	if err != nil || node == nil || node.Props["country"] != "Mexico" {
		t.Error("Unexpected result:", node, err)
		return
	}

	edge, err := db.GraphManager.FetchEdge("edge_50")
	if err != nil || edge == nil || edge.End2 != "user_102" {
		t.Error("Unexpected result:", edge, err)
		return
	}
}

func TestMemoryGraphDB(t *testing.T) {
	db, err := OpenMemoryGraphDB("memtest")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	gm := db.GraphManager

	if count, err := gm.NodeCount(); count != 0 || err != nil {
		t.Error("Unexpected result:", count, err)
		return
	}

	// Strict imports stop at the first bad record

	config.Config[config.EnableStrictImport] = true
	defer config.LoadDefaultConfig()

	importFile := filepath.Join(os.TempDir(), "petradb_strict_test.pgdf")

	err = ioutil.WriteFile(importFile, []byte(`@id|@label
node_1|Test
node_1|Test
node_2|Test
`), 0644)
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(importFile)

	if err := db.ImportFile(importFile); err == nil {
		t.Error("Unexpected result: strict import did not report an error")
		return
	}

	if count, _ := gm.NodeCount(); count != 1 {
		t.Error("Unexpected result:", count)
		return
	}
}
