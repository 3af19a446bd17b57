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
	"context"
	"fmt"

	"github.com/rainoftime/SVF/analysis/candidates"
	"github.com/rainoftime/SVF/analysis/pts"
	"github.com/rainoftime/SVF/analysis/vfg"
	"golang.org/x/sync/errgroup"
)

// Mode is the kind of query AnswerQueries computes for each candidate
type Mode int

const (
	// PointsToMode computes the points-to set of each candidate
	PointsToMode Mode = iota
	// AliasSetMode computes the alias set sizes of each candidate
	AliasSetMode
)

// Answer is the result of the query for one candidate
type Answer struct {
	Node vfg.NodeID

	// PointsTo is the points-to set of the candidate, in PointsToMode
	PointsTo *pts.Set

	// BaseSize and DemandSize are the sizes of the alias set of the candidate, in AliasSetMode
	BaseSize   int
	DemandSize int
}

// AnswerQueries answers the queries of all the candidates using at most routines goroutines. The answers are in the
// order of the candidates.
// If the program graph violates an invariant of the solver, the error is returned and the remaining queries are
// cancelled.
func AnswerQueries(ctx context.Context, s *Solver, set candidates.CandidateSet, mode Mode,
	routines int) ([]Answer, error) {
	if routines < 1 {
		routines = 1
	}
	answers := make([]Answer, len(set))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(routines)
	for i, id := range set {
		i, id := i, id
		g.Go(func() (err error) {
			if err := gCtx.Err(); err != nil {
				return err
			}
			defer func() {
				if r := recover(); r != nil {
					inv, ok := r.(*vfg.InvariantError)
					if !ok {
						panic(r)
					}
					err = fmt.Errorf("query %s: %w", s.prog.Name(id), inv)
				}
			}()
			answers[i] = answer(s, id, mode)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return answers, nil
}

func answer(s *Solver, id vfg.NodeID, mode Mode) Answer {
	a := Answer{Node: id}
	switch mode {
	case AliasSetMode:
		a.BaseSize, a.DemandSize = s.ComputeAliasSet(id)
	default:
		a.PointsTo = s.PointsTo(id)
	}
	return a
}
