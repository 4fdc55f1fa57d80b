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
Package petradb is the library façade of PetraDB.

PetraDB is an embedded property-graph storage engine. It persists labeled
nodes and labeled directed or undirected edges, each carrying an
open-ended set of string properties, and serves point lookups,
property-equality scans, adjacency traversals and schema queries over
them. Graph data can be bulk loaded from and dumped to pgdf files.
*/
package petradb

import (
	"os"
	"path/filepath"

	"github.com/krotik/common/logutil"

	"github.com/krotik/petradb/config"
	"github.com/krotik/petradb/graph"
	"github.com/krotik/petradb/graph/graphstorage"
	"github.com/krotik/petradb/graph/util"
)

/*
VERSION of PetraDB
*/
const VERSION = "1.0.0"

/*
Logger for library level events
*/
var log = logutil.GetLogger("petradb")

/*
GraphDB is a handle on an open graph database.
*/
type GraphDB struct {
	GraphManager *graph.Manager       // Graph manager of this database
	storage      graphstorage.Storage // Graph storage of this database
}

/*
OpenGraphDB opens the graph database in a given base directory. The
directory and the database are created if they do not exist yet. The
database is configured through a config file in the base directory which
is created with default values if it is missing.
*/
func OpenGraphDB(baseDir string) (*GraphDB, error) {

	if err := os.MkdirAll(baseDir, 0770); err != nil {
		return nil, &util.GraphError{Type: util.ErrOpening, Detail: err.Error()}
	}

	err := config.LoadConfigFile(filepath.Join(baseDir, config.DefaultConfigFile))
	if err != nil {
		return nil, &util.GraphError{Type: util.ErrOpening, Detail: err.Error()}
	}

	var gs graphstorage.Storage

	if config.Bool(config.MemoryOnlyStorage) {
		gs, err = graphstorage.NewMemoryGraphStorage(baseDir)
	} else {
		gs, err = graphstorage.NewDiskGraphStorage(
			filepath.Join(baseDir, config.Str(config.LocationDatastore)),
			config.Bool(config.EnableReadOnly))
	}

	if err != nil {
		return nil, err
	}

	return newGraphDB(gs)
}

/*
OpenMemoryGraphDB opens a memory-only graph database with the default
configuration. Nothing is persisted to disk.
*/
func OpenMemoryGraphDB(name string) (*GraphDB, error) {
	config.LoadDefaultConfig()

	gs, err := graphstorage.NewMemoryGraphStorage(name)
	if err != nil {
		return nil, err
	}

	return newGraphDB(gs)
}

/*
newGraphDB creates the graph manager on top of an open graph storage.
*/
func newGraphDB(gs graphstorage.Storage) (*GraphDB, error) {
	gm, err := graph.NewGraphManager(gs)
	if err != nil {
		gs.Close()
		return nil, err
	}

	log.Info("Opened graph database ", gs.Name())

	return &GraphDB{gm, gs}, nil
}

/*
Close closes the graph database. All cursors must be closed before
calling Close. Closing an already closed database is a no-op.
*/
func (db *GraphDB) Close() error {
	return db.storage.Close()
}

/*
ImportFile bulk loads a pgdf file into the graph database. Depending on
the configuration, records which cannot be stored either stop the import
or are skipped and reported in a composite error.
*/
func (db *GraphDB) ImportFile(path string) error {
	in, err := os.Open(path)
	if err != nil {
		return &util.GraphError{Type: util.ErrFileAccess, Detail: err.Error()}
	}
	defer in.Close()

	log.Info("Importing ", path)

	if config.Bool(config.EnableStrictImport) {
		return graph.ImportPGDFStrict(in, db.GraphManager)
	}

	return graph.ImportPGDF(in, db.GraphManager)
}

/*
ExportFile dumps the contents of the graph database to a pgdf file.
*/
func (db *GraphDB) ExportFile(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return &util.GraphError{Type: util.ErrFileAccess, Detail: err.Error()}
	}
	defer out.Close()

	log.Info("Exporting to ", path)

	if err := graph.ExportPGDF(out, db.GraphManager); err != nil {
		return err
	}

	if err := out.Sync(); err != nil {
		return &util.GraphError{Type: util.ErrFileAccess, Detail: err.Error()}
	}

	return nil
}
