/*
 * PetraDB
 *
 * Copyright 2021 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"testing"
)

const testconf = "testconfig"

func TestConfig(t *testing.T) {

	Config = nil

	ioutil.WriteFile(testconf, []byte(`{
    "EnableReadOnly": true
}`), 0644)

	defer func() {
		if err := os.Remove(testconf); err != nil {
			fmt.Print("Could not remove test config file:", err.Error())
		}
	}()

	if err := LoadConfigFile(testconf); err != nil {
		t.Error(err)
		return
	}

	if res := Str(EnableReadOnly); res != "true" {
		t.Error("Unexpected result:", res)
		return
	}

	if res := Bool(EnableReadOnly); !res {
		t.Error("Unexpected result:", res)
		return
	}

	// Missing settings are filled with defaults

	if res := Str(LocationDatastore); res != "db" {
		t.Error("Unexpected result:", res)
		return
	}

	if res := Bool(EnableStrictImport); res {
		t.Error("Unexpected result:", res)
		return
	}

	LoadDefaultConfig()

	if res := Bool(EnableReadOnly); res {
		t.Error("Unexpected result:", res)
		return
	}
}

func TestConfigInt(t *testing.T) {

	LoadDefaultConfig()

	Config["TestValue"] = "123"

	if res := Int("TestValue"); res != 123 {
		t.Error("Unexpected result:", res)
		return
	}
}
