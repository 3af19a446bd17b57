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


// Package stats implements the frontend printing statistics about a value-flow graph.
package stats

import (
	"fmt"
	"os"

	"github.com/rainoftime/SVF/analysis/vfg"
	"github.com/rainoftime/SVF/cmd/svf/tools"
	"gopkg.in/yaml.v3"
)

// Usage is the usage of the stats tool
const Usage = ` Print statistics about a value-flow graph, in yaml.
Usage:
  svf stats [options] <graph file>
Examples:
  % svf stats graph.yaml
`

// Run prints the summary of the graph file
func Run(flags tools.CommonFlags) error {
	g, base, err := tools.LoadGraph(flags)
	if err != nil {
		return err
	}
	out := struct {
		Graph       vfg.Summary `yaml:"graph"`
		BasePointer int         `yaml:"base-pointers"`
	}{
		Graph:       vfg.Summarize(g),
		BasePointer: base.Pointers(),
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("could not print summary: %w", err)
	}
	return enc.Close()
}
