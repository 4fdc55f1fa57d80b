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
	"io"
	"sort"

	"github.com/krotik/common/errorutil"

	"github.com/krotik/petradb/graph/data"
	"github.com/krotik/petradb/pgdf"
)

/*
ImportPGDF reads graph data in pgdf format from an io.Reader and stores it
in the graph. Each record is written as one atomic batch - the memory use
of the import does not depend on the size of the input.

Records which are malformed or violate a storage rule are skipped. The
returned error is a composite error listing all skipped records or nil if
all records were stored.
*/
func ImportPGDF(in io.Reader, gm *Manager) error {
	ce := errorutil.NewCompositeError()

	importRecords(in, gm, func(err error) error {
		ce.Add(err)
		return nil
	})

	if ce.HasErrors() {
		return ce
	}

	return nil
}

/*
ImportPGDFStrict reads graph data in pgdf format from an io.Reader and
stores it in the graph. The import stops at the first record which is
malformed or violates a storage rule. Previously stored records remain in
the graph.
*/
func ImportPGDFStrict(in io.Reader, gm *Manager) error {
	return importRecords(in, gm, func(err error) error {
		return err
	})
}

/*
importRecords reads and stores pgdf records. Record errors are given to
the handleRecordError function which decides if the import continues.
*/
func importRecords(in io.Reader, gm *Manager,
	handleRecordError func(error) error) error {

	r := pgdf.NewReader(in)

	for {
		rec, err := r.Next()

		if err == io.EOF {
			return nil

		} else if err != nil {

			if _, ok := err.(*pgdf.ParseError); !ok {

				// Errors which are not tied to a single record stop the import

				return err
			}

		} else if rec.IsEdge {
			err = gm.StoreEdge(&data.Edge{
				Key:      rec.ID,
				Label:    rec.Label,
				End1:     rec.End1,
				End2:     rec.End2,
				Directed: rec.Directed,
				Props:    rec.Props,
			})

		} else {
			err = gm.StoreNode(&data.Node{
				Key:   rec.ID,
				Label: rec.Label,
				Props: rec.Props,
			})
		}

		if err != nil {
			if err = handleRecordError(err); err != nil {
				return err
			}
		}
	}
}

/*
ExportPGDF dumps the contents of the graph to an io.Writer in pgdf format.
The output has a node section followed by an edge section. The property
columns of each section are the sorted union of all property keys of the
stored entities.
*/
func ExportPGDF(out io.Writer, gm *Manager) error {
	w := pgdf.NewWriter(out)

	if err := w.WriteComment(fmt.Sprint("Export of ", gm.Name())); err != nil {
		return err
	}

	// Export all nodes

	nodeCols, err := exportColumns(gm.NodeSchema)
	if err != nil {
		return err
	}

	if err := w.WriteNodeHeader(nodeCols); err != nil {
		return err
	}

	nit, err := gm.NodeIterator()
	if err != nil {
		return err
	}
	defer nit.Close()

	for nit.HasNext() {
		node := nit.Next()

		if nit.LastError != nil {
			return nit.LastError
		}

		err = w.WriteRecord(&pgdf.Record{
			ID:    node.Key,
			Label: node.Label,
			Props: node.Props,
		})

		if err != nil {
			return err
		}
	}

	// Export all edges

	edgeCols, err := exportColumns(gm.EdgeSchema)
	if err != nil {
		return err
	}

	if err := w.WriteEdgeHeader(edgeCols); err != nil {
		return err
	}

	eit, err := gm.EdgeIterator()
	if err != nil {
		return err
	}
	defer eit.Close()

	for eit.HasNext() {
		edge := eit.Next()

		if eit.LastError != nil {
			return eit.LastError
		}

		err = w.WriteRecord(&pgdf.Record{
			IsEdge:   true,
			ID:       edge.Key,
			Label:    edge.Label,
			Directed: edge.Directed,
			End1:     edge.End1,
			End2:     edge.End2,
			Props:    edge.Props,
		})

		if err != nil {
			return err
		}
	}

	return nil
}

/*
exportColumns returns the sorted union of all property keys of a schema.
*/
func exportColumns(schema func() (map[string][]string, error)) ([]string, error) {
	sets, err := schema()
	if err != nil {
		return nil, err
	}

	union := make(map[string]string)

	for _, set := range sets {
		for _, key := range set {
			union[key] = ""
		}
	}

	cols := make([]string, 0, len(union))
	for key := range union {
		cols = append(cols, key)
	}

	sort.Strings(cols)

	return cols, nil
}
