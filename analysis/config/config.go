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

package config

import (
	"fmt"
	"os"
	"path"

	"github.com/rainoftime/SVF/internal/funcutil"
	"gopkg.in/yaml.v3"
)

var (
	// The global config file
	configFile string
)

// SetGlobalConfig sets the global config filename
func SetGlobalConfig(filename string) {
	configFile = filename
}

// LoadGlobal loads the config file that has been set by SetGlobalConfig
func LoadGlobal() (*Config, error) {
	return LoadFile(configFile)
}

// Config contains the options of the demand-driven analyses and the identifiers of the functions with a special
// meaning (memory allocators, deallocators and marker functions).
// If some field is not defined in the config file, it keeps the value set by NewDefault.
//
// A Config must not be modified once it has been passed to an analysis.
type Config struct {
	Options `yaml:",inline"`

	// MemoryAPI lists the functions allocating and freeing heap memory
	MemoryAPI MemoryAPISpec `yaml:"memory-api"`

	// Markers identifies the instrumentation calls used by the instrumented-source and source-sink-pair candidate
	// strategies
	Markers MarkerSpec `yaml:"markers"`

	// Queries is a list of pointer names. When non-empty, the all-pointers strategy only selects those pointers.
	Queries []string `yaml:"queries"`
}

// MemoryAPISpec contains the identifiers of allocation and deallocation functions
type MemoryAPISpec struct {
	Alloc   []FunctionIdentifier `yaml:"alloc"`
	Dealloc []FunctionIdentifier `yaml:"dealloc"`
}

// MarkerSpec contains the identifiers of the marker functions inserted by an instrumentation pass
type MarkerSpec struct {
	// CheckAliasSet marks a pointer whose alias set must be computed. It takes exactly one argument.
	CheckAliasSet FunctionIdentifier `yaml:"check-alias-set"`

	// MarkSource marks a source pointer. It takes an integer index and the pointer.
	MarkSource FunctionIdentifier `yaml:"mark-source"`

	// MarkCheckPair marks a pointer to check for aliasing with the source of the same index. It takes an integer
	// index and the pointer.
	MarkCheckPair FunctionIdentifier `yaml:"mark-check-pair"`
}

// Options contains the scalar options of the analyses
type Options struct {
	// ReportsDir is the directory where all the reports will be stored. If the yaml config file this config struct has
	// been loaded does not specify a ReportsDir but sets any Report* option to true, then ReportsDir will be created
	// in the folder of the config file.
	ReportsDir string `yaml:"reports-dir"`

	// ReportPaths specifies whether each use-after-free bug path should be reported in a separate file named
	// uaf-*.yaml in the reports directory
	ReportPaths bool `yaml:"report-paths"`

	// FlowBudget is the number of traversal steps a single points-to query may take before the demand-driven solver
	// falls back to the base points-to analysis. A budget of 0 always falls back.
	FlowBudget int `yaml:"flow-budget"`

	// MaxContextLength bounds the length of the call strings used by the context-sensitive traversals
	MaxContextLength int `yaml:"max-context-length"`

	// SingleLoad collapses the candidate queries for pointers loaded from the same address
	SingleLoad bool `yaml:"single-load"`

	// QueryAliasSet makes the query driver compute alias sets instead of points-to sets
	QueryAliasSet bool `yaml:"query-alias-set"`

	// MallocOnly restricts the candidates found by scanning deallocation sites to pointers returned by an allocation
	// function or pointing to heap objects
	MallocOnly bool `yaml:"malloc-only"`

	// Candidates is the candidate selection strategy: one of all-pointers, indirect-calls, instrumented-source or
	// source-sink-pair
	Candidates string `yaml:"candidates"`

	// AliasRule is how a driver combines base and demand alias results: conservative (or) or veto (and)
	AliasRule string `yaml:"alias-rule"`

	// NumRoutines is the number of goroutines answering queries in parallel
	NumRoutines int `yaml:"num-routines"`

	// MaxAlarms sets a limit for the number of bug paths reported by the use-after-free checker. If MaxAlarms > 0,
	// then at most MaxAlarms will be reported. Otherwise, if MaxAlarms <= 0, it is ignored.
	MaxAlarms int `yaml:"max-alarms"`

	// LogLevel controls the verbosity of the tool
	LogLevel int `yaml:"log-level"`
}

// NewDefault returns a config with the default options and memory functions.
func NewDefault() *Config {
	return &Config{
		MemoryAPI: MemoryAPISpec{
			Alloc:   funcutil.Map(DefaultAllocFunctions, func(s string) FunctionIdentifier { return Function(s) }),
			Dealloc: funcutil.Map(DefaultDeallocFunctions, func(s string) FunctionIdentifier { return Function(s) }),
		},
		Markers: MarkerSpec{
			CheckAliasSet: Function(DefaultCheckAliasSetMarker),
			MarkSource:    Function(DefaultMarkSourceMarker),
			MarkCheckPair: Function(DefaultMarkCheckPairMarker),
		},
		Queries: nil,
		Options: Options{
			ReportsDir:       "",
			ReportPaths:      false,
			FlowBudget:       DefaultFlowBudget,
			MaxContextLength: DefaultMaxContextLength,
			SingleLoad:       true,
			QueryAliasSet:    false,
			MallocOnly:       true,
			Candidates:       AllPointers,
			AliasRule:        ConservativeAliasRule,
			NumRoutines:      1,
			MaxAlarms:        0,
			LogLevel:         int(InfoLevel),
		},
	}
}

// LoadFile reads a configuration from a file
func LoadFile(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	return Load(filename, b)
}

// Load parses the configuration in b. The filename is used to resolve relative paths, and to create a reports
// directory next to the config file if needed.
//
//gocyclo:ignore
func Load(filename string, b []byte) (*Config, error) {
	cfg := NewDefault()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file: %w", err)
	}


	if cfg.ReportPaths {
		if err := setReportsDir(cfg, filename); err != nil {
			return nil, err
		}
	}

	// If logLevel has not been specified (i.e. it is 0) set the default to Info
	if cfg.LogLevel == 0 {
		cfg.LogLevel = int(InfoLevel)
	}

	if cfg.FlowBudget < 0 {
		cfg.FlowBudget = DefaultFlowBudget
	}

	if cfg.MaxContextLength < 0 {
		cfg.MaxContextLength = 0
	}

	if cfg.NumRoutines < 1 {
		cfg.NumRoutines = 1
	}

	if !funcutil.Contains(strategies, cfg.Candidates) {
		return nil, fmt.Errorf("unknown candidate strategy %q, expected one of %v", cfg.Candidates, strategies)
	}

	if !funcutil.Contains(aliasRules, cfg.AliasRule) {
		return nil, fmt.Errorf("unknown alias rule %q, expected one of %v", cfg.AliasRule, aliasRules)
	}

	funcutil.MapInPlace(cfg.MemoryAPI.Alloc, compileRegexes)
	funcutil.MapInPlace(cfg.MemoryAPI.Dealloc, compileRegexes)
	cfg.Markers.CheckAliasSet = compileRegexes(cfg.Markers.CheckAliasSet)
	cfg.Markers.MarkSource = compileRegexes(cfg.Markers.MarkSource)
	cfg.Markers.MarkCheckPair = compileRegexes(cfg.Markers.MarkCheckPair)

	return cfg, nil
}

func setReportsDir(c *Config, filename string) error {
	if c.ReportsDir == "" {
		tmpdir, err := os.MkdirTemp(path.Dir(filename), "*-report")
		if err != nil {
			return fmt.Errorf("could not create temp dir for reports")
		}
		c.ReportsDir = tmpdir
	} else {
		err := os.Mkdir(c.ReportsDir, 0750)
		if err != nil {
			if !os.IsExist(err) {
				return fmt.Errorf("could not create directory %s", c.ReportsDir)
			}
		}
	}
	return nil
}

// Below are functions used to query the configuration on specific facts

// IsAlloc returns true if the function pkg.name allocates heap memory
func (c Config) IsAlloc(pkg, name string) bool {
	return funcutil.Exists(c.MemoryAPI.Alloc, func(f FunctionIdentifier) bool { return f.Matches(pkg, name) })
}

// IsDealloc returns true if the function pkg.name frees heap memory
func (c Config) IsDealloc(pkg, name string) bool {
	return funcutil.Exists(c.MemoryAPI.Dealloc, func(f FunctionIdentifier) bool { return f.Matches(pkg, name) })
}

// CombineAlias combines the alias result of the base analysis and of the demand-driven analysis according to the
// alias rule.
func (c Config) CombineAlias(base, demand bool) bool {
	if c.AliasRule == VetoAliasRule {
		return base && demand
	}
	return base || demand
}

// ReachedMaxAlarms returns true if n alarms is the maximum number of alarms allowed by the config.
func (c Config) ReachedMaxAlarms(n int) bool {
	return c.MaxAlarms > 0 && n >= c.MaxAlarms
}

// Verbose returns true is the configuration verbosity setting is larger than Info (i.e. Debug or Trace)
func (c Config) Verbose() bool {
	return c.LogLevel >= int(DebugLevel)
}
