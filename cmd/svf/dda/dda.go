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


// Package dda implements the frontend of the demand-driven points-to analysis.
package dda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rainoftime/SVF/analysis/candidates"
	"github.com/rainoftime/SVF/analysis/config"
	"github.com/rainoftime/SVF/analysis/dda"
	"github.com/rainoftime/SVF/cmd/svf/tools"
	"github.com/rainoftime/SVF/internal/formatutil"
)

// Usage is the usage of the dda tool
const Usage = ` Answer points-to queries with the demand-driven analysis.
Usage:
  svf dda [options] <graph file>
Examples:
  % svf dda -config config.yaml graph.yaml
  % svf dda -budget 100 -candidates indirect-calls graph.yaml
`

// Flags represents the parsed flags of the dda tool
type Flags struct {
	tools.CommonFlags
	candidates string
	aliasSet   bool
}

// NewFlags returns the parsed flags of the dda tool with args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("dda")
	strategy := flags.FlagSet.String("candidates", "", "override the candidate strategy of the config")
	aliasSet := flags.FlagSet.Bool("alias-set", false, "compute alias sets instead of points-to sets")
	tools.SetUsage(flags.FlagSet, Usage)
	common, err := flags.Parse(args)
	if err != nil {
		return Flags{}, err
	}
	return Flags{CommonFlags: common, candidates: *strategy, aliasSet: *aliasSet}, nil
}

// Run runs the demand-driven analysis on the candidates of the graph
func Run(flags Flags) error {
	cfg, err := tools.LoadConfig(flags.CommonFlags)
	if err != nil {
		return err
	}
	if flags.candidates != "" {
		cfg.Candidates = flags.candidates
	}
	if flags.aliasSet {
		cfg.QueryAliasSet = true
	}
	logger := config.NewLogGroup(cfg)
	logger.Infof("%s", formatutil.Faint("svf dda tool - "+tools.Version))

	g, base, err := tools.LoadGraph(flags.CommonFlags)
	if err != nil {
		return err
	}
	solver := dda.NewSolver(g, base, cfg, logger.WithField("run", "dda"))
	sel, err := candidates.New(cfg.Candidates, g, base, cfg, logger)
	if err != nil {
		return err
	}
	set := sel.Collect()
	logger.Infof("%d %s candidates", len(set), sel.Kind())

	mode := dda.PointsToMode
	if cfg.QueryAliasSet {
		mode = dda.AliasSetMode
	}
	start := time.Now()
	answers, err := dda.AnswerQueries(context.Background(), solver, set, mode, cfg.NumRoutines)
	if err != nil {
		return fmt.Errorf("demand-driven analysis failed: %w", err)
	}
	duration := time.Since(start)

	for _, a := range answers {
		name := formatutil.Sanitize(g.Name(a.Node))
		if mode == dda.AliasSetMode {
			logger.Infof("%s: alias set of size %d (base %d)", formatutil.Bold(name), a.DemandSize, a.BaseSize)
		} else {
			logger.Infof("%s -> %s", formatutil.Bold(name), a.PointsTo.Format(g.Name))
		}
	}
	stats := solver.Stats()
	logger.Infof("%s", strings.Repeat("*", 80))
	logger.Infof("Analysis took %3.4f s", duration.Seconds())
	logger.Infof("%s", stats)
	if stats.OutOfBudget > 0 {
		logger.Warnf("%s", formatutil.Yellow(fmt.Sprintf("%d queries ran out of budget", stats.OutOfBudget)))
	}
	return nil
}
