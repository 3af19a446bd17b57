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

package vfg

import (
	"sort"

	"github.com/rainoftime/SVF/internal/graphutil"
)

// Summary contains statistics about a MemGraph
type Summary struct {
	Pointers          int            `yaml:"pointers"`
	Objects           int            `yaml:"objects"`
	Functions         int            `yaml:"functions"`
	Nodes             int            `yaml:"nodes"`
	NodesByKind       map[string]int `yaml:"nodes-by-kind"`
	Edges             int            `yaml:"edges"`
	EdgesByKind       map[string]int `yaml:"edges-by-kind"`
	CallSites         int            `yaml:"call-sites"`
	IndirectCallSites int            `yaml:"indirect-call-sites"`

	// ValueFlowCycles is the number of strongly connected components of the value-flow graph that contain a cycle
	ValueFlowCycles int `yaml:"value-flow-cycles"`

	// LargestCycle is the number of nodes in the largest of those components
	LargestCycle int `yaml:"largest-cycle"`

	// RecursiveFunctions are the functions that belong to a cycle of the call graph, in order of id
	RecursiveFunctions []string `yaml:"recursive-functions"`
}

// Summarize computes the statistics of the graph
func Summarize(g *MemGraph) Summary {
	s := Summary{
		Pointers:    len(g.Pointers()),
		Functions:   len(g.funcs),
		Nodes:       len(g.nodes),
		NodesByKind: map[string]int{},
		EdgesByKind: map[string]int{},
	}
	g.mu.RLock()
	for _, v := range g.vars {
		if v != nil && v.kind == objectVar {
			s.Objects++
		}
	}
	g.mu.RUnlock()

	vf := graphutil.NewDigraph(len(g.nodes))
	for _, n := range g.nodes {
		s.NodesByKind[n.Kind.String()]++
		for _, e := range g.out[n.ID] {
			s.Edges++
			s.EdgesByKind[e.Kind.String()]++
			vf.AddEdge(int(e.Src.ID), int(e.Dst.ID))
		}
	}
	for _, c := range vf.CyclicComponents() {
		s.ValueFlowCycles++
		if len(c) > s.LargestCycle {
			s.LargestCycle = len(c)
		}
	}

	callees := map[FuncID][]FuncID{}
	for _, cs := range g.CallSites() {
		s.CallSites++
		if cs.IsIndirect() {
			s.IndirectCallSites++
		}
		callees[cs.Func] = append(callees[cs.Func], cs.Targets...)
	}
	funcs := make([]FuncID, len(g.funcs))
	for i := range funcs {
		funcs[i] = FuncID(i)
	}
	rec := graphutil.Recursive(funcs, func(f FuncID) []FuncID { return callees[f] })
	sort.Slice(rec, func(i, j int) bool { return rec[i] < rec[j] })
	for _, f := range rec {
		s.RecursiveFunctions = append(s.RecursiveFunctions, g.FuncName(f))
	}
	return s
}
