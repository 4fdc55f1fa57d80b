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
Package util contains utility classes for the graph storage.

GraphError

Models a graph related error. Low-level errors should be wrapped in a GraphError
before they are returned to a client.
*/
package util

import (
	"errors"
	"fmt"
)

/*
GraphError is a graph related error
*/
type GraphError struct {
	Type   error  // Error type (to be used for equal checks)
	Detail string // Details of this error
}

/*
Error returns a human-readable string representation of this error.
*/
func (ge *GraphError) Error() string {
	if ge.Detail != "" {
		return fmt.Sprintf("GraphError: %v (%v)", ge.Type, ge.Detail)
	}

	return fmt.Sprintf("GraphError: %v", ge.Type)
}

/*
Graph storage related error types
*/
var (
	ErrOpening  = errors.New("Failed to open graph storage")
	ErrClosing  = errors.New("Failed to close graph storage")
	ErrReadOnly = errors.New("Failed write to readonly storage")
	ErrReading  = errors.New("Could not read graph information")
	ErrWriting  = errors.New("Could not write graph information")
)

/*
Graph related error types
*/
var (
	ErrInvalidData        = errors.New("Invalid data")
	ErrEncoding           = errors.New("Could not encode graph information")
	ErrDecoding           = errors.New("Could not decode graph information")
	ErrFileAccess         = errors.New("Could not access graph data file")
	ErrIndexInconsistency = errors.New("Index entry points to missing graph information")
	ErrUsage              = errors.New("Invalid usage of graph storage")
)
