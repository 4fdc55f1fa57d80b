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
Package codec contains the byte encoding of graph entities.

Keys

Composite keys are built by joining string components with a zero byte
separator. User-supplied strings must never contain the separator byte
which makes all prefix ranges unambiguous - no escaping is performed.

Values

Values have a one byte version header followed by uvarint length-prefixed
UTF-8 strings. Property entries are written sorted by property key so the
encoding of an entity is deterministic across runs.

Node value:

	ValueVersion label propcount [ propkey propvalue ]*

Edge value:

	ValueVersion label end1 end2 dirflag propcount [ propkey propvalue ]*

Counters are stored as 8 byte little endian unsigned integers. Property
key sets are stored as a sorted uvarint length-prefixed string list with
the same version header.
*/
package codec

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strings"

	"github.com/krotik/petradb/graph/util"
)

/*
KeySep is the separator byte between composite key components. User-supplied
strings must not contain this byte.
*/
const KeySep = 0x00

/*
ValueVersion is the version of the value encoding. Values written with a
different version are rejected when decoding.
*/
const ValueVersion = 0x01

/*
ContainsKeySep checks if a given string contains the key separator byte.
*/
func ContainsKeySep(s string) bool {
	return strings.IndexByte(s, KeySep) != -1
}

/*
ComposeKey joins the given key components with the key separator byte.
*/
func ComposeKey(components ...string) []byte {
	size := len(components) - 1
	for _, c := range components {
		size += len(c)
	}

	key := make([]byte, 0, size)

	for i, c := range components {
		if i > 0 {
			key = append(key, KeySep)
		}
		key = append(key, c...)
	}

	return key
}

/*
ComposePrefix joins the given key components with the key separator byte and
appends a trailing separator. The result is the scan prefix for all keys
which start with the given components.
*/
func ComposePrefix(components ...string) []byte {
	return append(ComposeKey(components...), KeySep)
}

/*
SplitKey splits a composite key into its components.
*/
func SplitKey(key []byte) []string {
	return strings.Split(string(key), string(rune(KeySep)))
}

/*
EncodeNodeValue encodes the label and properties of a node.
*/
func EncodeNodeValue(label string, props map[string]string) []byte {
	val := make([]byte, 1, 1+valueSize(label, props))
	val[0] = ValueVersion

	val = appendString(val, label)
	val = appendProps(val, props)

	return val
}

/*
DecodeNodeValue decodes the label and properties of a node.
*/
func DecodeNodeValue(val []byte) (string, map[string]string, error) {
	rest, err := checkValueVersion(val)
	if err != nil {
		return "", nil, err
	}

	label, rest, err := readString(rest)
	if err != nil {
		return "", nil, err
	}

	props, rest, err := readProps(rest)
	if err != nil {
		return "", nil, err
	}

	if len(rest) != 0 {
		return "", nil, decodeError("Unexpected trailing bytes in node value")
	}

	return label, props, nil
}

/*
EncodeEdgeValue encodes the label, endpoints, direction and properties of
an edge.
*/
func EncodeEdgeValue(label string, end1 string, end2 string, directed bool,
	props map[string]string) []byte {

	val := make([]byte, 1, 2+len(end1)+len(end2)+valueSize(label, props))
	val[0] = ValueVersion

	val = appendString(val, label)
	val = appendString(val, end1)
	val = appendString(val, end2)

	if directed {
		val = append(val, 1)
	} else {
		val = append(val, 0)
	}

	val = appendProps(val, props)

	return val
}

/*
DecodeEdgeValue decodes the label, endpoints, direction and properties of
an edge.
*/
func DecodeEdgeValue(val []byte) (string, string, string, bool, map[string]string, error) {
	var label, end1, end2 string
	var props map[string]string

	rest, err := checkValueVersion(val)

	if err == nil {
		label, rest, err = readString(rest)
	}
	if err == nil {
		end1, rest, err = readString(rest)
	}
	if err == nil {
		end2, rest, err = readString(rest)
	}

	if err != nil {
		return "", "", "", false, nil, err
	}

	if len(rest) == 0 {
		return "", "", "", false, nil, decodeError("Edge value is missing the direction flag")
	}

	directed := rest[0] != 0

	props, rest, err = readProps(rest[1:])
	if err != nil {
		return "", "", "", false, nil, err
	}

	if len(rest) != 0 {
		return "", "", "", false, nil, decodeError("Unexpected trailing bytes in edge value")
	}

	return label, end1, end2, directed, props, nil
}

/*
EncodeCount encodes a counter value.
*/
func EncodeCount(count uint64) []byte {
	val := make([]byte, 8)
	binary.LittleEndian.PutUint64(val, count)
	return val
}

/*
DecodeCount decodes a counter value.
*/
func DecodeCount(val []byte) (uint64, error) {
	if len(val) != 8 {
		return 0, decodeError(fmt.Sprintf("Counter value has invalid size: %v", len(val)))
	}
	return binary.LittleEndian.Uint64(val), nil
}

/*
EncodeStringSet encodes a set of strings as a sorted string list.
*/
func EncodeStringSet(set []string) []byte {
	sorted := make([]string, len(set))
	copy(sorted, set)
	sort.Strings(sorted)

	val := make([]byte, 1, 16)
	val[0] = ValueVersion

	val = binary.AppendUvarint(val, uint64(len(sorted)))
	for _, item := range sorted {
		val = appendString(val, item)
	}

	return val
}

/*
DecodeStringSet decodes a set of strings. The returned list is sorted.
*/
func DecodeStringSet(val []byte) ([]string, error) {
	rest, err := checkValueVersion(val)
	if err != nil {
		return nil, err
	}

	count, rest, err := readUvarint(rest)
	if err != nil {
		return nil, err
	}

	set := make([]string, 0, count)

	for i := uint64(0); i < count; i++ {
		var item string

		if item, rest, err = readString(rest); err != nil {
			return nil, err
		}

		set = append(set, item)
	}

	if len(rest) != 0 {
		return nil, decodeError("Unexpected trailing bytes in string set value")
	}

	return set, nil
}

// Internal encoding helpers
// =========================

/*
valueSize estimates the encoded size of a label and a property map.
*/
func valueSize(label string, props map[string]string) int {
	size := len(label) + 10

	for k, v := range props {
		size += len(k) + len(v) + 4
	}

	return size
}

/*
appendString appends a length-prefixed string.
*/
func appendString(val []byte, s string) []byte {
	val = binary.AppendUvarint(val, uint64(len(s)))
	return append(val, s...)
}

/*
appendProps appends a property map sorted by property key.
*/
func appendProps(val []byte, props map[string]string) []byte {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	val = binary.AppendUvarint(val, uint64(len(keys)))

	for _, k := range keys {
		val = appendString(val, k)
		val = appendString(val, props[k])
	}

	return val
}

/*
checkValueVersion checks the version header of a value.
*/
func checkValueVersion(val []byte) ([]byte, error) {
	if len(val) == 0 {
		return nil, decodeError("Value is empty")
	}

	if val[0] != ValueVersion {
		return nil, decodeError(fmt.Sprintf(
			"Value has unknown encoding version: %v - supported version: %v",
			val[0], ValueVersion))
	}

	return val[1:], nil
}

/*
readUvarint reads a uvarint from the head of a value.
*/
func readUvarint(val []byte) (uint64, []byte, error) {
	num, n := binary.Uvarint(val)
	if n <= 0 {
		return 0, nil, decodeError("Could not read length prefix")
	}
	return num, val[n:], nil
}

/*
readString reads a length-prefixed string from the head of a value.
*/
func readString(val []byte) (string, []byte, error) {
	size, rest, err := readUvarint(val)
	if err != nil {
		return "", nil, err
	}

	if uint64(len(rest)) < size {
		return "", nil, decodeError("String value is truncated")
	}

	return string(rest[:size]), rest[size:], nil
}

/*
readProps reads a property map from the head of a value.
*/
func readProps(val []byte) (map[string]string, []byte, error) {
	count, rest, err := readUvarint(val)
	if err != nil {
		return nil, nil, err
	}

	props := make(map[string]string)

	for i := uint64(0); i < count; i++ {
		var k, v string

		if k, rest, err = readString(rest); err != nil {
			return nil, nil, err
		}
		if v, rest, err = readString(rest); err != nil {
			return nil, nil, err
		}

		props[k] = v
	}

	return props, rest, nil
}

/*
decodeError creates a new decoding error.
*/
func decodeError(detail string) error {
	return &util.GraphError{Type: util.ErrDecoding, Detail: detail}
}
