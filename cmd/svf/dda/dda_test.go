// Copyright 2026 The SVF Go Authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package dda

import (
	"testing"

	"github.com/rainoftime/SVF/analysis/config"
)

func TestRun(t *testing.T) {
	for _, args := range [][]string{
		{"../testdata/uaf.yaml"},
		{"-alias-set", "../testdata/uaf.yaml"},
		{"-budget", "0", "-candidates", config.InstrumentedSource, "../testdata/uaf.yaml"},
	} {
		flags, err := NewFlags(args)
		if err != nil {
			t.Fatalf("could not parse flags %v: %v", args, err)
		}
		if err := Run(flags); err != nil {
			t.Errorf("dda tool failed with %v: %v", args, err)
		}
	}
}

func TestRunUnknownStrategy(t *testing.T) {
	flags, err := NewFlags([]string{"-candidates", "every-pointer", "../testdata/uaf.yaml"})
	if err != nil {
		t.Fatalf("could not parse flags: %v", err)
	}
	if err := Run(flags); err == nil {
		t.Errorf("an unknown candidate strategy should fail")
	}
}
