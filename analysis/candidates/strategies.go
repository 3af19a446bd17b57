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

package candidates

import (
	"github.com/rainoftime/SVF/analysis/config"
	"github.com/rainoftime/SVF/analysis/pts"
	"github.com/rainoftime/SVF/analysis/vfg"
	"github.com/rainoftime/SVF/internal/funcutil"
)

// AllPointers selects every valid top-level pointer.
//
// If the config lists queries, only the pointers with those names are selected. With the single-load option, of
// all the pointers loaded from the same address only the one with the smallest id is selected.
type AllPointers struct {
	selectorBase
}

// NewAllPointers returns the all-pointers selector
func NewAllPointers(prog vfg.Program, base pts.Oracle, cfg *config.Config, logger *config.LogGroup) *AllPointers {
	s := &AllPointers{selectorBase{kind: config.AllPointers, prog: prog, base: base, config: cfg, logger: logger}}
	s.collect = s.collectPointers
	return s
}

func (s *AllPointers) collectPointers() *pts.Set {
	set := pts.NewSet()
	loadedFrom := map[vfg.NodeID]bool{}
	for _, id := range s.prog.Pointers() {
		if len(s.config.Queries) > 0 && !funcutil.Contains(s.config.Queries, s.prog.Name(id)) {
			continue
		}
		if s.config.SingleLoad {
			if def := s.prog.DefiningNode(id); def != nil && def.Kind == vfg.Load {
				if loadedFrom[def.Src] {
					continue
				}
				loadedFrom[def.Src] = true
			}
		}
		s.admit(set, id)
	}
	return set
}

// IndirectCalls selects the function pointer of every indirect call site, and the virtual table pointer of every
// virtual call site.
type IndirectCalls struct {
	selectorBase
	callSites map[vfg.NodeID][]vfg.CallSiteID
}

// NewIndirectCalls returns the indirect-calls selector
func NewIndirectCalls(prog vfg.Program, base pts.Oracle, cfg *config.Config, logger *config.LogGroup) *IndirectCalls {
	s := &IndirectCalls{
		selectorBase: selectorBase{kind: config.IndirectCalls, prog: prog, base: base, config: cfg, logger: logger},
		callSites:    map[vfg.NodeID][]vfg.CallSiteID{},
	}
	s.collect = s.collectTargets
	return s
}

func (s *IndirectCalls) collectTargets() *pts.Set {
	set := pts.NewSet()
	for _, cs := range s.prog.CallSites() {
		if !cs.IsIndirect() {
			continue
		}
		target := cs.FunPtr
		if cs.Virtual {
			vfg.Assertf(cs.VTablePtr != pts.InvalidID, "virtual call %s has no virtual table pointer", cs)
			target = cs.VTablePtr
		}
		if s.admit(set, target) {
			s.callSites[target] = append(s.callSites[target], cs.ID)
		}
	}
	return set
}

// CallSitesOf returns the indirect call sites whose target is computed from the candidate id
func (s *IndirectCalls) CallSitesOf(id vfg.NodeID) []vfg.CallSiteID {
	s.Collect()
	return s.callSites[id]
}

// InstrumentedSources selects the arguments of the calls to the check-alias-set marker. If the program does not
// call the marker, it selects the pointers freed by deallocation calls instead; with the malloc-only option, only
// the freed pointers that may point to a heap object are selected.
//
// The selector also holds the alias set sizes computed for each candidate.
type InstrumentedSources struct {
	selectorBase

	// DemandSizes[i] is the size of the alias set of the i-th candidate computed by the demand-driven analysis
	DemandSizes []int

	// BaseSizes[i] is the size of the alias set of the i-th candidate computed by the base analysis
	BaseSizes []int
}

// NewInstrumentedSources returns the instrumented-source selector
func NewInstrumentedSources(prog vfg.Program, base pts.Oracle, cfg *config.Config,
	logger *config.LogGroup) *InstrumentedSources {
	s := &InstrumentedSources{
		selectorBase: selectorBase{kind: config.InstrumentedSource, prog: prog, base: base, config: cfg,
			logger: logger},
	}
	s.collect = s.collectSources
	return s
}

func (s *InstrumentedSources) collectSources() *pts.Set {
	set := pts.NewSet()
	markers := 0
	for _, cs := range s.prog.CallSites() {
		if !s.config.Markers.CheckAliasSet.Matches(cs.Package, cs.Callee) {
			continue
		}
		markers++
		vfg.Assertf(len(cs.Args) == 1, "%s should have exactly one argument", cs)
		if ap := s.prog.ActualParmNode(cs.ID, 0); ap != nil {
			s.admit(set, ap.Src)
		}
	}
	if markers == 0 {
		s.logger.Debugf("no call to %s, selecting freed pointers", s.config.Markers.CheckAliasSet)
		s.collectFreed(set)
	}
	s.DemandSizes = make([]int, set.Len())
	s.BaseSizes = make([]int, set.Len())
	return set
}

func (s *InstrumentedSources) collectFreed(set *pts.Set) {
	for _, cs := range s.prog.CallSites() {
		if !s.config.IsDealloc(cs.Package, cs.Callee) {
			continue
		}
		ap := s.prog.ActualParmNode(cs.ID, 0)
		if ap == nil || set.Has(ap.Src) {
			continue
		}
		if s.config.MallocOnly && !s.fromHeap(ap.Src) {
			continue
		}
		s.admit(set, ap.Src)
	}
}

// fromHeap returns true if id is returned by an allocation function, or if the base analysis reports that it may
// point to a heap object
func (s *InstrumentedSources) fromHeap(id vfg.NodeID) bool {
	if def := s.prog.DefiningNode(id); def != nil && def.Kind == vfg.ActualRet {
		cs := s.prog.CallSite(def.CallSite)
		if cs != nil && !cs.IsIndirect() && s.config.IsAlloc(cs.Package, cs.Callee) {
			return true
		}
	}
	heap := false
	s.base.PointsTo(id).ForEach(func(o pts.NodeID) {
		heap = heap || s.prog.IsHeapObject(o)
	})
	return heap
}

// SetAliasSetSize records the sizes of the alias sets of the i-th candidate
func (s *InstrumentedSources) SetAliasSetSize(i int, base, demand int) {
	s.BaseSizes[i] = base
	s.DemandSizes[i] = demand
}

// SourceSinkPairs selects the arguments of the calls to the mark-source marker. Both markers take an integer index
// and a pointer; the pointers passed to the mark-check-pair marker with the index of a source are the destinations
// of that source.
//
// The selector also holds the alias results for each pair. They are initialized to true, i.e. may-alias.
type SourceSinkPairs struct {
	selectorBase

	// Pairs maps each source candidate to its destinations
	Pairs map[vfg.NodeID][]vfg.NodeID

	// DemandResults[src][i] is the alias result of the demand-driven analysis for src and Pairs[src][i]
	DemandResults map[vfg.NodeID][]bool

	// BaseResults[src][i] is the alias result of the base analysis for src and Pairs[src][i]
	BaseResults map[vfg.NodeID][]bool
}

// NewSourceSinkPairs returns the source-sink-pair selector
func NewSourceSinkPairs(prog vfg.Program, base pts.Oracle, cfg *config.Config,
	logger *config.LogGroup) *SourceSinkPairs {
	s := &SourceSinkPairs{
		selectorBase: selectorBase{kind: config.SourceSinkPair, prog: prog, base: base, config: cfg, logger: logger},
		Pairs:         map[vfg.NodeID][]vfg.NodeID{},
		DemandResults: map[vfg.NodeID][]bool{},
		BaseResults:   map[vfg.NodeID][]bool{},
	}
	s.collect = s.collectPairs
	return s
}

// markedPointer returns the index and pointer arguments of a marker call
func (s *SourceSinkPairs) markedPointer(cs *vfg.CallSite) (int64, vfg.NodeID) {
	vfg.Assertf(len(cs.Args) == 2, "%s should have an index and a pointer argument", cs)
	idx, ok := cs.ConstArg(0)
	vfg.Assertf(ok, "the index of %s should be a constant", cs)
	ap := s.prog.ActualParmNode(cs.ID, 1)
	if ap == nil {
		return idx, pts.InvalidID
	}
	return idx, ap.Src
}

func (s *SourceSinkPairs) collectPairs() *pts.Set {
	sources := map[int64]vfg.NodeID{}
	dests := map[int64][]vfg.NodeID{}
	for _, cs := range s.prog.CallSites() {
		switch {
		case s.config.Markers.MarkSource.Matches(cs.Package, cs.Callee):
			idx, ptr := s.markedPointer(cs)
			prev, dup := sources[idx]
			vfg.Assertf(!dup, "%s reuses the source index %d of pointer %d", cs, idx, prev)
			sources[idx] = ptr
		case s.config.Markers.MarkCheckPair.Matches(cs.Package, cs.Callee):
			idx, ptr := s.markedPointer(cs)
			if ptr != pts.InvalidID && s.prog.IsValidTopLevelPtr(ptr) {
				dests[idx] = append(dests[idx], ptr)
			}
		}
	}
	set := pts.NewSet()
	for _, idx := range funcutil.SortedKeys(sources) {
		src := sources[idx]
		if !s.admit(set, src) {
			continue
		}
		s.Pairs[src] = append(s.Pairs[src], dests[idx]...)
	}
	for src, ds := range s.Pairs {
		s.DemandResults[src] = funcutil.Repeat(true, len(ds))
		s.BaseResults[src] = funcutil.Repeat(true, len(ds))
	}
	return set
}

// Record records the alias results for src and its i-th destination
func (s *SourceSinkPairs) Record(src vfg.NodeID, i int, base, demand bool) {
	s.BaseResults[src][i] = base
	s.DemandResults[src][i] = demand
}
