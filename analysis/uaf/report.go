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

package uaf

import (
	"fmt"
	"os"
	"strings"

	"github.com/rainoftime/SVF/analysis/vfg"
	"gopkg.in/yaml.v3"
)

// Stats are the statistics of the use-after-free searches
type Stats struct {
	Sources int `yaml:"sources"`
	Reports int `yaml:"reports"`

	// Pruned is the number of branches cut by the context length bound
	Pruned int `yaml:"pruned"`

	// MaxBackwardCtx and MaxForwardCtx are the longest call strings reached by the backward and forward searches
	MaxBackwardCtx int `yaml:"max-backward-ctx"`
	MaxForwardCtx  int `yaml:"max-forward-ctx"`
}

func (s Stats) String() string {
	return fmt.Sprintf("%d sources, %d reports, %d pruned branches, max. context %d backward, %d forward",
		s.Sources, s.Reports, s.Pruned, s.MaxBackwardCtx, s.MaxForwardCtx)
}

// BugPath is a value-flow path from a freed pointer to a use of the freed memory
type BugPath struct {
	// Source is the freed argument, and DeallocSite the call freeing it
	Source      vfg.VFNodeID   `yaml:"source"`
	DeallocSite vfg.CallSiteID `yaml:"dealloc-site"`

	// Origin is the call site after which the use happens. It is the call site freeing the pointer, or a call site
	// of a function that (transitively) frees it.
	Origin vfg.CallSiteID `yaml:"origin"`

	// Nodes is the sequence of nodes from the source to the use, the use included
	Nodes []vfg.VFNodeID `yaml:"nodes"`

	Use      vfg.VFNodeID `yaml:"use"`
	UseInstr vfg.InstrID  `yaml:"use-instr"`

	// Trace is the printable form of Nodes
	Trace []string `yaml:"trace"`
}

func newBugPath(prog vfg.Graph, src Source, origin *vfg.CallSite, path []*vfg.Node, use *vfg.Node) BugPath {
	p := BugPath{
		Source:      src.Node.ID,
		DeallocSite: src.CallSite.ID,
		Origin:      origin.ID,
		Nodes:       make([]vfg.VFNodeID, 0, len(path)+1),
		Use:         use.ID,
		UseInstr:    use.Instr,
		Trace:       make([]string, 0, len(path)+1),
	}
	for _, n := range append(path[:len(path):len(path)], use) {
		p.Nodes = append(p.Nodes, n.ID)
		p.Trace = append(p.Trace, fmt.Sprintf("%s in %s", n, prog.FuncName(n.Func)))
	}
	return p
}

func (p BugPath) String() string {
	return fmt.Sprintf("freed at cs%d, used at node %d after cs%d: %s", p.DeallocSite, p.Use, p.Origin,
		strings.Join(p.Trace, " -> "))
}

// WriteReport writes the bug paths in a new yaml file of dir and returns the name of the file
func WriteReport(dir string, paths []BugPath) (string, error) {
	f, err := os.CreateTemp(dir, "uaf-*.yaml")
	if err != nil {
		return "", fmt.Errorf("could not create report file: %w", err)
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(paths); err != nil {
		return "", fmt.Errorf("could not write report %s: %w", f.Name(), err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("could not write report %s: %w", f.Name(), err)
	}
	return f.Name(), nil
}
