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


package stats

import (
	"testing"

	"github.com/rainoftime/SVF/cmd/svf/tools"
)

func TestRun(t *testing.T) {
	flags, err := tools.NewCommonFlags("stats", []string{"../testdata/uaf.yaml"}, Usage)
	if err != nil {
		t.Fatalf("could not parse flags: %v", err)
	}
	if err := Run(flags); err != nil {
		t.Errorf("stats tool failed: %v", err)
	}
}
