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

// Package alias answers alias queries with the demand-driven solver and aggregates statistics comparing its
// precision with the base analysis.
package alias

import (
	"fmt"
	"sync"

	"github.com/rainoftime/SVF/analysis/dda"
	"github.com/rainoftime/SVF/analysis/pts"
	"github.com/rainoftime/SVF/analysis/vfg"
)

// Oracle answers alias queries. It is safe for concurrent use.
type Oracle struct {
	solver *dda.Solver

	mu    sync.Mutex
	stats Stats
}

// Stats are the statistics of the alias queries answered by an Oracle
type Stats struct {
	// AliasSets is the number of alias sets computed, and BaseSizes and DemandSizes the sums of their sizes
	AliasSets   int `yaml:"alias-sets"`
	BaseSizes   int `yaml:"base-sizes"`
	DemandSizes int `yaml:"demand-sizes"`

	// Pairs is the number of pairwise alias queries
	Pairs int `yaml:"pairs"`

	// Refuted is the number of pairs that may alias according to the base analysis, but not according to the
	// demand-driven analysis
	Refuted int `yaml:"refuted"`
}

// AvgBaseSize returns the average size of the alias sets according to the base analysis
func (s Stats) AvgBaseSize() float64 {
	if s.AliasSets == 0 {
		return 0
	}
	return float64(s.BaseSizes) / float64(s.AliasSets)
}

// AvgDemandSize returns the average size of the alias sets according to the demand-driven analysis
func (s Stats) AvgDemandSize() float64 {
	if s.AliasSets == 0 {
		return 0
	}
	return float64(s.DemandSizes) / float64(s.AliasSets)
}

func (s Stats) String() string {
	return fmt.Sprintf("%d alias sets (avg. base size %.2f, avg. demand size %.2f), %d pairs (%d refuted)",
		s.AliasSets, s.AvgBaseSize(), s.AvgDemandSize(), s.Pairs, s.Refuted)
}

// NewOracle returns an oracle answering queries with the solver
func NewOracle(solver *dda.Solver) *Oracle {
	return &Oracle{solver: solver}
}

// Solver returns the solver of the oracle
func (o *Oracle) Solver() *dda.Solver {
	return o.solver
}

// Stats returns the statistics of the queries answered so far
func (o *Oracle) Stats() Stats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stats
}

// PointsTo returns the demand-driven points-to set of id
func (o *Oracle) PointsTo(id vfg.NodeID) *pts.Set {
	return o.solver.PointsTo(id)
}

// ComputeAliasSet returns the sizes of the alias set of id according to the base analysis and according to the
// demand-driven analysis
func (o *Oracle) ComputeAliasSet(id vfg.NodeID) (baseSize int, demandSize int) {
	baseSize, demandSize = o.solver.ComputeAliasSet(id)
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stats.AliasSets++
	o.stats.BaseSizes += baseSize
	o.stats.DemandSizes += demandSize
	return baseSize, demandSize
}

// ComputeMayAlias returns whether a and b may alias according to the base analysis and according to the
// demand-driven analysis
func (o *Oracle) ComputeMayAlias(a, b vfg.NodeID) (baseAlias bool, demandAlias bool) {
	baseAlias, demandAlias = o.solver.ComputeMayAlias(a, b)
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stats.Pairs++
	if baseAlias && !demandAlias {
		o.stats.Refuted++
	}
	return baseAlias, demandAlias
}

// MayAlias returns true if a and b may alias according to the demand-driven analysis. Pointers that may point to
// the unknown object alias every pointer. The query is not counted in the statistics.
func (o *Oracle) MayAlias(a, b vfg.NodeID) bool {
	return o.solver.MayAlias(a, b)
}
