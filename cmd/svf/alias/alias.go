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


// Package alias implements the frontend of the alias clients.
package alias

import (
	"fmt"

	"github.com/rainoftime/SVF/analysis/alias"
	"github.com/rainoftime/SVF/analysis/candidates"
	"github.com/rainoftime/SVF/analysis/config"
	"github.com/rainoftime/SVF/analysis/dda"
	"github.com/rainoftime/SVF/analysis/pts"
	"github.com/rainoftime/SVF/analysis/vfg"
	"github.com/rainoftime/SVF/cmd/svf/tools"
	"github.com/rainoftime/SVF/internal/formatutil"
	"github.com/rainoftime/SVF/internal/funcutil"
)

// Usage is the usage of the alias tool
const Usage = ` Answer alias queries with the demand-driven analysis.
With two pointer names, prints whether they may alias. Otherwise, runs the client of the candidate strategy
of the config: alias set sizes (instrumented-source), pairwise aliasing (source-sink-pair) or indirect
call targets (indirect-calls).
Usage:
  svf alias [options] <graph file> [pointer pointer]
Examples:
  % svf alias graph.yaml p q
  % svf alias -config config.yaml graph.yaml
`

// Run runs the alias tool with flags
func Run(flags tools.CommonFlags) error {
	cfg, err := tools.LoadConfig(flags)
	if err != nil {
		return err
	}
	logger := config.NewLogGroup(cfg)
	logger.Infof("%s", formatutil.Faint("svf alias tool - "+tools.Version))
	g, base, err := tools.LoadGraph(flags)
	if err != nil {
		return err
	}
	oracle := alias.NewOracle(dda.NewSolver(g, base, cfg, logger.WithField("run", "alias")))

	if args := flags.FlagSet.Args()[1:]; len(args) > 0 {
		if len(args) != 2 {
			return fmt.Errorf("expected two pointers, got %d", len(args))
		}
		return queryPair(cfg, logger, g, oracle, args[0], args[1])
	}

	switch cfg.Candidates {
	case config.InstrumentedSource:
		sel := candidates.NewInstrumentedSources(g, base, cfg, logger)
		alias.CheckAliasSets(oracle, sel)
		for i, id := range sel.Collect() {
			logger.Infof("%s: alias set of size %d (base %d)", formatutil.Bold(g.Name(id)), sel.DemandSizes[i],
				sel.BaseSizes[i])
		}
	case config.SourceSinkPair:
		sel := candidates.NewSourceSinkPairs(g, base, cfg, logger)
		alias.CheckPairs(oracle, sel)
		for _, src := range sel.Collect() {
			for i, dst := range sel.Pairs[src] {
				printPair(cfg, logger, g, src, dst, sel.BaseResults[src][i], sel.DemandResults[src][i])
			}
		}
	case config.IndirectCalls:
		stats := alias.ResolveIndirectCalls(oracle, candidates.NewIndirectCalls(g, base, cfg, logger))
		for _, cs := range funcutil.SortedKeys(stats.DemandTargets) {
			targets := targetNames(g, oracle.Solver().Targets(g.CallSite(cs)))
			logger.Infof("%s: %d targets (base %d) %v", g.CallSite(cs), stats.DemandTargets[cs],
				stats.BaseTargets[cs], targets)
		}
		for _, b := range stats.Buckets {
			logger.Infof("  %s", b)
		}
	default:
		sel := candidates.NewAllPointers(g, base, cfg, logger)
		for _, id := range sel.Collect() {
			oracle.ComputeAliasSet(id)
		}
	}
	logger.Infof("%s", oracle.Stats())
	return nil
}

func queryPair(cfg *config.Config, logger *config.LogGroup, g *vfg.MemGraph, oracle *alias.Oracle, a, b string) error {
	pa, ok := g.Lookup(a)
	if !ok || !g.IsValidTopLevelPtr(pa) {
		return fmt.Errorf("%s is not a pointer of the graph", formatutil.Sanitize(a))
	}
	pb, ok := g.Lookup(b)
	if !ok || !g.IsValidTopLevelPtr(pb) {
		return fmt.Errorf("%s is not a pointer of the graph", formatutil.Sanitize(b))
	}
	baseAlias, demandAlias := oracle.ComputeMayAlias(pa, pb)
	printPair(cfg, logger, g, pa, pb, baseAlias, demandAlias)
	return nil
}

func printPair(cfg *config.Config, logger *config.LogGroup, g *vfg.MemGraph, a, b vfg.NodeID,
	baseAlias, demandAlias bool) {
	result := formatutil.Green("no alias")
	if cfg.CombineAlias(baseAlias, demandAlias) {
		result = formatutil.Red("may alias")
	}
	logger.Infof("%s, %s: %s (base %v, demand %v)", formatutil.Sanitize(g.Name(a)), formatutil.Sanitize(g.Name(b)),
		result, baseAlias, demandAlias)
}

// targetNames returns the names of the functions of the function objects in targets
func targetNames(g *vfg.MemGraph, targets *pts.Set) []string {
	var names []string
	targets.ForEach(func(o vfg.NodeID) {
		if fn, ok := g.FunctionOf(o); ok {
			names = append(names, formatutil.Sanitize(g.FuncName(fn)))
		}
	})
	return names
}
