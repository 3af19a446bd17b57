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

package alias

import (
	"fmt"
	"math"

	"github.com/rainoftime/SVF/analysis/candidates"
	"github.com/rainoftime/SVF/analysis/pts"
	"github.com/rainoftime/SVF/analysis/vfg"
)

// CheckAliasSets computes the alias set sizes of every candidate of the selector and records them in the selector
func CheckAliasSets(o *Oracle, sel *candidates.InstrumentedSources) {
	for i, id := range sel.Collect() {
		baseSize, demandSize := o.ComputeAliasSet(id)
		sel.SetAliasSetSize(i, baseSize, demandSize)
	}
}

// CheckPairs computes the alias results of every source and destination pair of the selector and records them in
// the selector
func CheckPairs(o *Oracle, sel *candidates.SourceSinkPairs) {
	for _, src := range sel.Collect() {
		for i, dst := range sel.Pairs[src] {
			baseAlias, demandAlias := o.ComputeMayAlias(src, dst)
			sel.Record(src, i, baseAlias, demandAlias)
		}
	}
}

// bucketBounds are the upper bounds of the buckets of the indirect call target histogram
var bucketBounds = []int{0, 1, 2, 3, 4, 5, 6, 7, 10, 30, 100, math.MaxInt}

// Bucket counts the call sites with a number of targets in (previous bucket's Max, Max]
type Bucket struct {
	Max   int `yaml:"max"`
	Count int `yaml:"count"`
}

func (b Bucket) String() string {
	if b.Max == math.MaxInt {
		return fmt.Sprintf(">%d: %d", bucketBounds[len(bucketBounds)-2], b.Count)
	}
	return fmt.Sprintf("<=%d: %d", b.Max, b.Count)
}

// IndirectCallStats contains the targets of the indirect call sites
type IndirectCallStats struct {
	// DemandTargets and BaseTargets are the number of functions each call site may call, according to the
	// demand-driven and the base analysis
	DemandTargets map[vfg.CallSiteID]int `yaml:"demand-targets"`
	BaseTargets   map[vfg.CallSiteID]int `yaml:"base-targets"`

	// Buckets is the histogram of the number of demand-driven targets
	Buckets []Bucket `yaml:"buckets"`
}

// ResolveIndirectCalls computes the targets of the indirect call sites of the selector's candidates
func ResolveIndirectCalls(o *Oracle, sel *candidates.IndirectCalls) IndirectCallStats {
	prog := o.solver.Program()
	stats := IndirectCallStats{
		DemandTargets: map[vfg.CallSiteID]int{},
		BaseTargets:   map[vfg.CallSiteID]int{},
		Buckets:       make([]Bucket, len(bucketBounds)),
	}
	for i, max := range bucketBounds {
		stats.Buckets[i].Max = max
	}
	for _, id := range sel.Collect() {
		for _, csID := range sel.CallSitesOf(id) {
			cs := prog.CallSite(csID)
			n := o.solver.Targets(cs).Len()
			stats.DemandTargets[csID] = n
			stats.BaseTargets[csID] = countFunctions(prog, o.solver.Base().PointsTo(id))
			stats.Buckets[bucketOf(n)].Count++
		}
	}
	return stats
}

func bucketOf(n int) int {
	for i, max := range bucketBounds {
		if n <= max {
			return i
		}
	}
	return len(bucketBounds) - 1
}

func countFunctions(prog vfg.Program, s *pts.Set) int {
	n := 0
	s.ForEach(func(o vfg.NodeID) {
		if prog.IsFunctionObject(o) {
			n++
		}
	})
	return n
}
