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


// Package uaf implements the frontend of the use-after-free checker.
package uaf

import (
	"strings"
	"time"

	"github.com/rainoftime/SVF/analysis/config"
	"github.com/rainoftime/SVF/analysis/uaf"
	"github.com/rainoftime/SVF/cmd/svf/tools"
	"github.com/rainoftime/SVF/internal/formatutil"
	"github.com/rainoftime/SVF/internal/funcutil"
)

// Usage is the usage of the uaf tool
const Usage = ` Search use-after-free bugs.
Usage:
  svf uaf [options] <graph file>
Examples:
  % svf uaf -max-context 5 graph.yaml
  % svf uaf -config config.yaml graph.yaml
`

// Run runs the use-after-free checker with flags
func Run(flags tools.CommonFlags) error {
	cfg, err := tools.LoadConfig(flags)
	if err != nil {
		return err
	}
	logger := config.NewLogGroup(cfg)
	logger.Infof("%s", formatutil.Faint("svf uaf tool - "+tools.Version))
	g, _, err := tools.LoadGraph(flags)
	if err != nil {
		return err
	}

	checker := uaf.NewChecker(g, cfg, logger.WithField("run", "uaf"))
	start := time.Now()
	paths := checker.Run()
	duration := time.Since(start)

	logger.Infof("%s", strings.Repeat("*", 80))
	logger.Infof("Analysis took %3.4f s", duration.Seconds())
	logger.Infof("%s", checker.Stats())
	if len(paths) == 0 {
		logger.Infof("RESULT:\n\t\t%s", formatutil.Green("No use-after-free detected ✓"))
		return nil
	}
	logger.Errorf("RESULT:\n\t\t%s", formatutil.Red("Use-after-free detected!"))
	for i, p := range paths {
		logger.Warnf("%s %d: freed at %s, used after %s\n%s", formatutil.Red("Bug path"), i+1,
			g.CallSite(p.DeallocSite), g.CallSite(p.Origin),
			formatutil.Indent(strings.Join(funcutil.Map(p.Trace, formatutil.Sanitize), "\n"), 8))
	}
	if cfg.ReportPaths {
		name, err := uaf.WriteReport(cfg.ReportsDir, paths)
		if err != nil {
			logger.Warnf("Could not write report, continuing.")
			logger.Warnf("Error was: %s", err)
		} else {
			logger.Infof("Wrote bug paths in %s", name)
		}
	}
	return nil
}
