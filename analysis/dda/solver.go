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

// Package dda implements the demand-driven points-to analysis.
//
// A query for a pointer walks the value-flow graph backwards from the definition of the pointer: through copies,
// phis and parameters for top-level pointers, and from loads to the stores that may have written the loaded object.
// The traversal is context-sensitive (call strings of bounded length, see package callstring) and field-sensitive.
// Each step of the traversal consumes one unit of the flow budget; when the budget runs out, the query answers the
// points-to set of the base analysis instead.
//
// Results are cached for the duration of a run. A new run, started by NewRun, starts with an empty cache.
package dda

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rainoftime/SVF/analysis/config"
	"github.com/rainoftime/SVF/analysis/pts"
	"github.com/rainoftime/SVF/analysis/vfg"
)

// Solver answers demand-driven points-to and alias queries. The value returned by a call to an allocation function of
// the config's memory API points to the heap object of the call site; the value returned by another function that
// is not in the program is answered by the base analysis. A Solver is safe for concurrent use.
type Solver struct {
	prog   vfg.Program
	base   pts.Oracle
	logger *config.LogGroup

	budget    int
	maxCtxLen int
	isAlloc   func(pkg, name string) bool

	mu    sync.Mutex
	runID string
	cache *cache
	stats Stats
}

// NewSolver returns a solver for the program, falling back to the base analysis. The flow budget and maximum
// context length are read from the config when the solver is created.
func NewSolver(prog vfg.Program, base pts.Oracle, cfg *config.Config, logger *config.LogGroup) *Solver {
	s := &Solver{
		prog:      prog,
		base:      base,
		logger:    logger,
		budget:    cfg.FlowBudget,
		maxCtxLen: cfg.MaxContextLength,
		isAlloc:   cfg.IsAlloc,
	}
	s.NewRun()
	return s
}

// NewRun starts a new run: the cache is emptied and the statistics are reset
func (s *Solver) NewRun() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runID = uuid.NewString()
	s.cache = newCache()
	s.stats = Stats{}
}

// RunID returns the identifier of the current run
func (s *Solver) RunID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runID
}

// Stats returns a copy of the statistics of the current run
func (s *Solver) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stats
	st.OutOfBudgetQueries = append([]vfg.NodeID(nil), s.stats.OutOfBudgetQueries...)
	return st
}

// Program returns the program the solver runs on
func (s *Solver) Program() vfg.Program {
	return s.prog
}

// Base returns the base analysis of the solver
func (s *Solver) Base() pts.Oracle {
	return s.base
}

// CacheSize returns the number of points-to sets cached in the current run
func (s *Solver) CacheSize() int {
	return s.currentCache().len()
}

func (s *Solver) currentCache() *cache {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache
}

// PointsTo returns the set of objects id may point to. Pointers that are not valid top-level pointers point to
// nothing. Fields of collapsed objects are reported as the collapsed object. The returned set may be modified by the
// caller.
func (s *Solver) PointsTo(id vfg.NodeID) *pts.Set {
	if !s.prog.IsValidTopLevelPtr(id) {
		return pts.NewSet()
	}
	c := s.currentCache()
	if res, ok := c.get(id); ok {
		s.record(func(st *Stats) { st.CacheHits++ })
		return s.summarize(res)
	}
	s.logger.Tracef("query %s", s.prog.Name(id))
	q := newQuery(s)
	res := q.run(id)
	if q.exhausted {
		s.logger.Debugf("query %s out of budget after %d steps, using base analysis", s.prog.Name(id), q.steps)
		res = s.base.PointsTo(id).Copy()
	}
	res = c.put(id, res)
	s.record(func(st *Stats) {
		st.Queries++
		st.Steps += q.steps
		if q.steps > st.MaxSteps {
			st.MaxSteps = q.steps
		}
		if q.exhausted {
			st.OutOfBudget++
			st.OutOfBudgetQueries = append(st.OutOfBudgetQueries, id)
		}
	})
	if s.logger.Level() >= config.TraceLevel {
		s.logger.Tracef("query %s: %s", s.prog.Name(id), res.Format(s.prog.Name))
	}
	return s.summarize(res)
}

// summarize returns a copy of set where the fields of collapsed objects are replaced by their field-insensitive
// object. A set computed before an object was collapsed may still contain its fields.
func (s *Solver) summarize(set *pts.Set) *pts.Set {
	res := pts.NewSet()
	set.ForEach(func(o vfg.NodeID) {
		res.Insert(s.summaryOf(o))
	})
	return res
}

func (s *Solver) summaryOf(o vfg.NodeID) vfg.NodeID {
	if s.prog.IsFieldInsensitive(o) {
		return s.prog.FieldInsensitiveObjectOf(o)
	}
	return o
}

func (s *Solver) record(f func(*Stats)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(&s.stats)
}

// ComputeAliasSet computes the alias set of id. The superset is the set of pointers that the base analysis reports
// as pointing to some object of the demand-driven points-to set of id. The refined set contains the valid pointers
// of the superset, other than id, whose demand-driven points-to set intersects the one of id.
// It returns the sizes of the superset and of the refined set.
func (s *Solver) ComputeAliasSet(id vfg.NodeID) (baseSize int, demandSize int) {
	ptsID := s.PointsTo(id)
	superset := pts.NewSet()
	ptsID.ForEach(func(o vfg.NodeID) {
		superset.Union(s.base.PointedBy(o))
	})
	others := map[vfg.NodeID]*pts.Set{}
	superset.ForEach(func(n vfg.NodeID) {
		if n != id && s.prog.IsValidTopLevelPtr(n) {
			others[n] = s.PointsTo(n)
		}
	})
	// the queries of the other pointers may have collapsed objects of ptsID
	ptsID = s.summarize(ptsID)
	refined := 0
	for _, ptsN := range others {
		if s.summarize(ptsN).Intersects(ptsID) {
			refined++
		}
	}
	return superset.Len(), refined
}

// ComputeMayAlias returns whether a and b may alias according to the base analysis and according to the
// demand-driven analysis. Pointers that may point to the unknown object alias every pointer in the demand-driven
// result. The results are not combined: see config.Config.CombineAlias.
func (s *Solver) ComputeMayAlias(a, b vfg.NodeID) (baseAlias bool, demandAlias bool) {
	baseAlias = s.base.PointsTo(a).Intersects(s.base.PointsTo(b))
	return baseAlias, s.MayAlias(a, b)
}

// MayAlias returns true if a and b may alias according to the demand-driven analysis
func (s *Solver) MayAlias(a, b vfg.NodeID) bool {
	ptsA, ptsB := s.PointsTo(a), s.PointsTo(b)
	// the query of b may have collapsed objects of ptsA
	ptsA = s.summarize(ptsA)
	bh := s.prog.BlackHole()
	return ptsA.Has(bh) || ptsB.Has(bh) || ptsA.Intersects(ptsB)
}

// Targets returns the function objects the target of an indirect call site may point to: the function pointer, or
// the virtual table pointer of a virtual call. Direct call sites have no target.
func (s *Solver) Targets(cs *vfg.CallSite) *pts.Set {
	targets := pts.NewSet()
	node := cs.FunPtr
	if cs.Virtual {
		node = cs.VTablePtr
	}
	if node == pts.InvalidID {
		return targets
	}
	s.PointsTo(node).ForEach(func(o vfg.NodeID) {
		if s.prog.IsFunctionObject(o) {
			targets.Insert(o)
		}
	})
	return targets
}
