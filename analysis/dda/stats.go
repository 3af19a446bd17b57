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
	"fmt"

	"github.com/rainoftime/SVF/analysis/vfg"
)

// Stats are the statistics of a run of the solver
type Stats struct {
	// Queries is the number of queries computed, i.e. not answered from the cache
	Queries int `yaml:"queries"`

	// OutOfBudget is the number of queries that ran out of budget and were answered by the base analysis
	OutOfBudget int `yaml:"out-of-budget"`

	// OutOfBudgetQueries are the pointers of those queries
	OutOfBudgetQueries []vfg.NodeID `yaml:"out-of-budget-queries"`

	// Steps is the total number of traversal steps, and MaxSteps the largest number of steps of a single query
	Steps    int `yaml:"steps"`
	MaxSteps int `yaml:"max-steps"`

	// CacheHits is the number of queries answered from the cache
	CacheHits int `yaml:"cache-hits"`
}

func (s Stats) String() string {
	return fmt.Sprintf("%d queries (%d out of budget), %d steps (max %d), %d cache hits",
		s.Queries, s.OutOfBudget, s.Steps, s.MaxSteps, s.CacheHits)
}
