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

// Package candidates selects the pointers the demand-driven analyses are queried on.
//
// Each strategy of the configuration (see config.Options.Candidates) is a Selector. Selectors only admit valid
// top-level pointers of the program graph; other nodes are dropped silently.
package candidates

import (
	"fmt"
	"sync"

	"github.com/rainoftime/SVF/analysis/config"
	"github.com/rainoftime/SVF/analysis/pts"
	"github.com/rainoftime/SVF/analysis/vfg"
)

// CandidateSet is a set of query pointers, in increasing order
type CandidateSet []vfg.NodeID

// Contains returns true if id is in the set
func (c CandidateSet) Contains(id vfg.NodeID) bool {
	for _, x := range c {
		if x == id {
			return true
		}
		if x > id {
			return false
		}
	}
	return false
}

func newCandidateSet(s *pts.Set) CandidateSet {
	return s.Slice()
}

// Selector is a candidate selection strategy. Collect always returns the same set for the same program.
type Selector interface {
	// Kind returns the name of the strategy
	Kind() string

	// Collect returns the candidates of the strategy
	Collect() CandidateSet
}

// selectorBase holds the state shared by all the selectors. The candidates are computed once, by collect.
type selectorBase struct {
	kind    string
	prog    vfg.Program
	base    pts.Oracle
	config  *config.Config
	logger  *config.LogGroup
	once    sync.Once
	results CandidateSet
	collect func() *pts.Set
}

func (s *selectorBase) Kind() string {
	return s.kind
}

func (s *selectorBase) Collect() CandidateSet {
	s.once.Do(func() {
		set := s.collect()
		s.results = newCandidateSet(set)
		s.logger.Debugf("%s: %d candidates", s.kind, len(s.results))
	})
	return s.results
}

// admit adds id to set if it is a valid top-level pointer
func (s *selectorBase) admit(set *pts.Set, id vfg.NodeID) bool {
	if id == pts.InvalidID || !s.prog.IsValidTopLevelPtr(id) {
		return false
	}
	set.Insert(id)
	return true
}

// New returns the selector implementing the strategy kind, one of the strategies of the config package
func New(kind string, prog vfg.Program, base pts.Oracle, cfg *config.Config, logger *config.LogGroup) (Selector,
	error) {
	switch kind {
	case config.AllPointers:
		return NewAllPointers(prog, base, cfg, logger), nil
	case config.IndirectCalls:
		return NewIndirectCalls(prog, base, cfg, logger), nil
	case config.InstrumentedSource:
		return NewInstrumentedSources(prog, base, cfg, logger), nil
	case config.SourceSinkPair:
		return NewSourceSinkPairs(prog, base, cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown candidate strategy %q", kind)
	}
}
