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


package main

import (
	"fmt"
	"os"

	"github.com/rainoftime/SVF/cmd/svf/alias"
	"github.com/rainoftime/SVF/cmd/svf/dda"
	"github.com/rainoftime/SVF/cmd/svf/stats"
	"github.com/rainoftime/SVF/cmd/svf/tools"
	"github.com/rainoftime/SVF/cmd/svf/uaf"
)

const usage = `SVF: demand-driven pointer analysis and use-after-free checking over value-flow graphs
Usage:
  svf [tool] [options] <graph file>
Tools:
  - dda: answers the points-to queries of the candidates of the graph
  - alias: answers alias queries, or runs the alias client of the candidate strategy
  - uaf: searches use-after-free bug paths
  - stats: prints statistics about the graph
Examples:
  Run the use-after-free checker: svf uaf -config config.yaml graph.yaml
  Check whether two pointers alias: svf alias graph.yaml p q`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "error: expected subcommand\n%s\n", usage)
		os.Exit(2)
	}

	// hardcode help flag
	if snd := os.Args[1]; snd == "-help" || snd == "--help" {
		fmt.Println(usage)
		return
	}

	// hardcode version flag
	if snd := os.Args[1]; snd == "-version" || snd == "--version" {
		fmt.Println(tools.Version)
		return
	}

	args := os.Args[2:]
	switch cmd := os.Args[1]; cmd {
	case "dda":
		flags, err := dda.NewFlags(args)
		if err != nil {
			errExit(err)
		}
		if err := dda.Run(flags); err != nil {
			errExit(err)
		}
	case "alias":
		flags, err := tools.NewCommonFlags("alias", args, alias.Usage)
		if err != nil {
			errExit(err)
		}
		if err := alias.Run(flags); err != nil {
			errExit(err)
		}
	case "uaf":
		flags, err := tools.NewCommonFlags("uaf", args, uaf.Usage)
		if err != nil {
			errExit(err)
		}
		if err := uaf.Run(flags); err != nil {
			errExit(err)
		}
	case "stats":
		flags, err := tools.NewCommonFlags("stats", args, stats.Usage)
		if err != nil {
			errExit(err)
		}
		if err := stats.Run(flags); err != nil {
			errExit(err)
		}
	default:
		fmt.Fprintf(os.Stderr, "error: unexpected command: %v\n", cmd)
		fmt.Fprintf(os.Stderr, "usage:\n%s\n", usage)
		os.Exit(2)
	}
}

func errExit(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	hint := tools.HintForErrorMessage(err.Error())
	if hint != "" {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	}
	os.Exit(2)
}
