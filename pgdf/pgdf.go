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
Package pgdf implements a reader and a writer for the pgdf graph exchange
format.

A pgdf file is a line-oriented UTF-8 text file with pipe-separated fields.
Lines beginning with # are comments, blank lines are skipped. A header
line declares the fields of the records which follow it. A node header
starts with the fields @id and @label, an edge header starts with the
fields @id, @label, @dir, @out and @in. All further header fields are
user property column names. A file may contain multiple header lines -
each header starts a new section.

Record lines list their fields in header order. The @dir field is T for
a directed and F for an undirected edge. Empty fields become empty-string
property values and fields missing at the end of a line are treated as
empty.
*/
package pgdf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

/*
Number of fixed columns of a node record
*/
const numNodeColumns = 2

/*
Number of fixed columns of an edge record
*/
const numEdgeColumns = 5

/*
Record is a single parsed record of a pgdf file.
*/
type Record struct {
	IsEdge   bool              // Flag if this record is an edge record
	ID       string            // Unique ID of the node or edge
	Label    string            // Label of the node or edge
	Directed bool              // Flag if the edge is directed (edges only)
	End1     string            // Source node ID of the edge (edges only)
	End2     string            // Target node ID of the edge (edges only)
	Props    map[string]string // User properties keyed by header column name
}

/*
ParseError is an error which occurred while parsing a pgdf file.
*/
type ParseError struct {
	Line   int    // Line number on which the error occurred
	Detail string // Details of this error
}

/*
Error returns a human-readable string representation of this error.
*/
func (pe *ParseError) Error() string {
	return fmt.Sprintf("Parse error in line %v: %v", pe.Line, pe.Detail)
}

/*
Reader parses records from a pgdf file.
*/
type Reader struct {
	scanner *bufio.Scanner // Line scanner over the input
	line    int            // Current line number
	header  []string       // Property column names of the current section
	isEdge  bool           // Flag if the current section holds edge records
	inSect  bool           // Flag if a header line has been seen
}

/*
NewReader creates a new pgdf Reader instance.
*/
func NewReader(r io.Reader) *Reader {
	return &Reader{bufio.NewScanner(r), 0, nil, false, false}
}

/*
Next returns the next record of the file. It returns io.EOF after the
last record has been read and a ParseError for a malformed line. After a
ParseError the reader can continue with the following line.
*/
func (r *Reader) Next() (*Record, error) {

	for r.scanner.Scan() {
		r.line++

		line := strings.TrimRight(r.scanner.Text(), "\r\n")

		// Skip blank lines and comments

		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Header lines start a new section

		if strings.HasPrefix(line, "@id|") {
			if err := r.readHeader(line); err != nil {
				return nil, err
			}
			continue
		}

		return r.readRecord(line)
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}

	return nil, io.EOF
}

/*
readHeader parses a header line and starts a new section.
*/
func (r *Reader) readHeader(line string) error {
	fields := strings.Split(line, "|")

	isEdge := false

	if hasFixedColumns(fields, "@id", "@label", "@dir", "@out", "@in") {
		isEdge = true
	} else if !hasFixedColumns(fields, "@id", "@label") {
		return &ParseError{r.line, fmt.Sprintf("Invalid header: %v", line)}
	}

	fixed := numNodeColumns
	if isEdge {
		fixed = numEdgeColumns
	}

	var header []string

	for _, col := range fields[fixed:] {

		if strings.HasPrefix(col, "@") {
			return &ParseError{r.line, fmt.Sprintf("Invalid header column: %v", col)}
		}

		// A trailing pipe produces an empty last column which is ignored

		if col != "" {
			header = append(header, col)
		}
	}

	r.header = header
	r.isEdge = isEdge
	r.inSect = true

	return nil
}

/*
readRecord parses a record line of the current section.
*/
func (r *Reader) readRecord(line string) (*Record, error) {
	if !r.inSect {
		return nil, &ParseError{r.line, "Record before the first header line"}
	}

	fields := strings.Split(line, "|")

	fixed := numNodeColumns
	if r.isEdge {
		fixed = numEdgeColumns
	}

	if len(fields) > fixed+len(r.header) {
		return nil, &ParseError{r.line, fmt.Sprintf(
			"Record has %v fields - header declares %v",
			len(fields), fixed+len(r.header))}
	}

	field := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}

	rec := &Record{
		IsEdge: r.isEdge,
		ID:     field(0),
		Label:  field(1),
		Props:  make(map[string]string),
	}

	if r.isEdge {

		switch field(2) {
		case "T":
			rec.Directed = true
		case "F":
			rec.Directed = false
		default:
			return nil, &ParseError{r.line, fmt.Sprintf(
				"Invalid direction flag: %v - must be T or F", field(2))}
		}

		rec.End1 = field(3)
		rec.End2 = field(4)
	}

	for i, col := range r.header {
		rec.Props[col] = field(fixed + i)
	}

	return rec, nil
}

/*
hasFixedColumns checks if the given fields start with the given column names.
*/
func hasFixedColumns(fields []string, cols ...string) bool {
	if len(fields) < len(cols) {
		return false
	}

	for i, col := range cols {
		if fields[i] != col {
			return false
		}
	}

	return true
}
