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


// Package tools contains utility types and functions for the svf tool frontends.
package tools

import (
	"flag"
	"fmt"
	"os"

	"github.com/rainoftime/SVF/analysis/config"
	"github.com/rainoftime/SVF/analysis/pts"
	"github.com/rainoftime/SVF/analysis/vfg"
)

// Version is the version of the svf tools
const Version = "v0.3.0"

// UnparsedCommonFlags represents an unparsed CLI sub-command flags.
type UnparsedCommonFlags struct {
	FlagSet    *flag.FlagSet
	ConfigPath *string
	Verbose    *bool
	Budget     *int
	MaxContext *int
}

// NewUnparsedCommonFlags returns an unparsed flag set with a given name.
// This is useful for creating sub-commands that have the flags -config, -verbose, -budget and -max-context but need
// other flags in addition.
func NewUnparsedCommonFlags(name string) UnparsedCommonFlags {
	cmd := flag.NewFlagSet(name, flag.ExitOnError)
	configPath := cmd.String("config", "", "config file path for analysis")
	verbose := cmd.Bool("verbose", false, "verbose printing on standard output")
	budget := cmd.Int("budget", -1, "override the flow budget of the config")
	maxContext := cmd.Int("max-context", -1, "override the max context length of the config")
	return UnparsedCommonFlags{
		FlagSet:    cmd,
		ConfigPath: configPath,
		Verbose:    verbose,
		Budget:     budget,
		MaxContext: maxContext,
	}
}

// Parse parses args and returns the common flags
func (f UnparsedCommonFlags) Parse(args []string) (CommonFlags, error) {
	if err := f.FlagSet.Parse(args); err != nil {
		return CommonFlags{}, fmt.Errorf("failed to parse command %s with args %v: %v", f.FlagSet.Name(), args, err)
	}
	return CommonFlags{
		FlagSet:    f.FlagSet,
		ConfigPath: *f.ConfigPath,
		Verbose:    *f.Verbose,
		Budget:     *f.Budget,
		MaxContext: *f.MaxContext,
	}, nil
}

// CommonFlags represents a parsed CLI sub-command flags.
// E.g., for the command `svf uaf ...`, "uaf" is the sub-command.
type CommonFlags struct {
	FlagSet    *flag.FlagSet
	ConfigPath string
	Verbose    bool

	// Budget and MaxContext are negative when not set on the command line
	Budget     int
	MaxContext int
}

// NewCommonFlags returns a parsed flag set with a given name.
// Returns an error if args are invalid.
// Prints cmdUsage along with flag docs as the --help message.
func NewCommonFlags(name string, args []string, cmdUsage string) (CommonFlags, error) {
	flags := NewUnparsedCommonFlags(name)
	SetUsage(flags.FlagSet, cmdUsage)
	return flags.Parse(args)
}

// SetUsage sets cmd's usage (for --help flag) to output the string cmdUsage
// followed by each flag's documentation.
func SetUsage(cmd *flag.FlagSet, cmdUsage string) {
	cmd.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n", cmdUsage)
		fmt.Fprintf(os.Stderr, "Options:\n")
		cmd.VisitAll(func(f *flag.Flag) {
			fmt.Fprintf(os.Stderr, "  %s: %s (default: %q)\n", f.Name, f.Usage, f.DefValue)
		})
	}
}

// LoadConfig loads the config file from configPath, or returns the default config if configPath is empty. The
// command line overrides are applied to the result.
func LoadConfig(flags CommonFlags) (*config.Config, error) {
	cfg := config.NewDefault()
	if flags.ConfigPath != "" {
		config.SetGlobalConfig(flags.ConfigPath)
		var err error
		cfg, err = config.LoadGlobal()
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %v", flags.ConfigPath, err)
		}
	}
	if flags.Verbose {
		cfg.LogLevel = int(config.DebugLevel)
	}
	if flags.Budget >= 0 {
		cfg.FlowBudget = flags.Budget
	}
	if flags.MaxContext >= 0 {
		cfg.MaxContextLength = flags.MaxContext
	}
	return cfg, nil
}

// LoadGraph loads the graph file given as first positional argument
func LoadGraph(flags CommonFlags) (*vfg.MemGraph, *pts.MapOracle, error) {
	if flags.FlagSet.NArg() < 1 {
		return nil, nil, fmt.Errorf("expected a graph file")
	}
	return vfg.LoadYAMLFile(flags.FlagSet.Arg(0))
}
