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
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

//go:embed testdata
var testfsys embed.FS

func loadFromTestDir(filename string) (string, *Config, error) {
	filename = filepath.Join("testdata", filename)
	b, err := testfsys.ReadFile(filename)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read file %v: %v", filename, err)
	}
	config, err := Load(filename, b)
	if err != nil {
		return filename, nil, fmt.Errorf("failed to load file %v: %v", filename, err)
	}
	return filename, config, err
}

func TestFunctionIdentifierMatches(t *testing.T) {
	tests := []struct {
		fid  FunctionIdentifier
		pkg  string
		name string
		want bool
	}{
		{Function("free"), "", "free", true},
		{Function("free"), "libc", "free", true},
		{Function("free"), "", "freeze", false},
		{Function("free|_ZdlPv"), "", "_ZdlPv", true},
		{compileRegexes(FunctionIdentifier{Package: "lib.*", Method: "free"}), "libc", "free", true},
		{compileRegexes(FunctionIdentifier{Package: "lib.*", Method: "free"}), "main", "free", false},
		{FunctionIdentifier{Method: "pp_check"}, "", "pp_check", true},
		{FunctionIdentifier{Method: "pp_check"}, "", "pp_check_alias_set", false},
		{FunctionIdentifier{}, "", "free", false},
		// not a regex: compared as a string
		{compileRegexes(FunctionIdentifier{Method: "f(("}), "", "f((", true},
	}
	for _, test := range tests {
		if got := test.fid.Matches(test.pkg, test.name); got != test.want {
			t.Errorf("%v.Matches(%q, %q) = %v, want %v", test.fid, test.pkg, test.name, got, test.want)
		}
	}
}

func TestNewDefault(t *testing.T) {
	// Test that all methods work on the default config file, and check default values
	c := NewDefault()
	if c.FlowBudget != DefaultFlowBudget {
		t.Errorf("Default flow budget should be %d", DefaultFlowBudget)
	}
	if c.MaxContextLength != DefaultMaxContextLength {
		t.Errorf("Default max context length should be %d", DefaultMaxContextLength)
	}
	if !c.SingleLoad || !c.MallocOnly || c.QueryAliasSet {
		t.Errorf("Default should set single-load and malloc-only, and not query-alias-set")
	}
	if c.Candidates != AllPointers || c.AliasRule != ConservativeAliasRule {
		t.Errorf("Unexpected default strategy %q or alias rule %q", c.Candidates, c.AliasRule)
	}
	if !c.IsDealloc("", "free") || !c.IsAlloc("", "malloc") || c.IsDealloc("", "malloc") {
		t.Errorf("Default memory functions should be recognized")
	}
	if !c.Markers.CheckAliasSet.Matches("", DefaultCheckAliasSetMarker) {
		t.Errorf("Default check-alias-set marker should be %s", DefaultCheckAliasSetMarker)
	}
	if c.Verbose() {
		t.Errorf("Default config should not be verbose")
	}
}

func TestLoadBadFormatFileReturnsError(t *testing.T) {
	for _, name := range []string{"bad_format.yaml", "bad_strategy.yaml", "bad_alias_rule.yaml"} {
		_, config, err := loadFromTestDir(name)
		if config != nil || err == nil {
			t.Errorf("Expected error and nil value when trying to load %s.", name)
		}
	}
}

func TestLoadNonExistentFileReturnsError(t *testing.T) {
	c, err := LoadFile(filepath.Join("testdata", "does-not-exist.yaml"))
	if c != nil || err == nil {
		t.Errorf("Expected error and nil value when trying to load non existent file.")
	}
}

func TestLoadMinimalKeepsDefaults(t *testing.T) {
	fileName, config, err := loadFromTestDir("minimal.yaml")
	if err != nil {
		t.Fatalf("Could not load %s: %v", fileName, err)
	}
	if config.LogLevel != int(InfoLevel) {
		t.Errorf("log-level 0 should be replaced by info")
	}
	if config.FlowBudget != DefaultFlowBudget || !config.SingleLoad {
		t.Errorf("unspecified options should keep their default values")
	}
	if !config.IsDealloc("", "free") {
		t.Errorf("default deallocators should be kept")
	}
}

func TestLoadNegativeValues(t *testing.T) {
	fileName, config, err := loadFromTestDir("negative-values.yaml")
	if err != nil {
		t.Fatalf("Could not load %s: %v", fileName, err)
	}
	if config.FlowBudget != DefaultFlowBudget {
		t.Errorf("negative budget should be replaced by the default, got %d", config.FlowBudget)
	}
	if config.MaxContextLength != 0 {
		t.Errorf("negative context length should be 0, got %d", config.MaxContextLength)
	}
	if config.NumRoutines != 1 {
		t.Errorf("num-routines should be at least 1, got %d", config.NumRoutines)
	}
}

//gocyclo:ignore
func TestLoadFullConfig(t *testing.T) {
	fileName, config, err := loadFromTestDir("full-config.yaml")
	if config == nil || err != nil {
		t.Fatalf("Could not load %s: %v", fileName, err)
	}
	if config.LogLevel != int(TraceLevel) || !config.Verbose() {
		t.Error("full config should have set trace")
	}
	if config.FlowBudget != 500 {
		t.Error("full config should set flow-budget to 500")
	}
	if config.MaxContextLength != 2 {
		t.Error("full config should set max-context-length to 2")
	}
	if config.SingleLoad || config.MallocOnly || !config.QueryAliasSet {
		t.Error("full config should unset single-load and malloc-only, and set query-alias-set")
	}
	if config.Candidates != SourceSinkPair {
		t.Error("full config should use the source-sink-pair strategy")
	}
	if config.AliasRule != VetoAliasRule || config.CombineAlias(true, false) {
		t.Error("full config should use the veto alias rule")
	}
	if config.NumRoutines != 4 {
		t.Error("full config should set num-routines to 4")
	}
	if !config.ReachedMaxAlarms(16) || config.ReachedMaxAlarms(15) {
		t.Error("full config should set MaxAlarms to 16")
	}
	if !config.IsAlloc("", "my_calloc") || config.IsAlloc("", "malloc") {
		t.Error("full config should replace the default allocators")
	}
	if !config.IsDealloc("libc", "free") || config.IsDealloc("main", "free") || !config.IsDealloc("main", "my_free") {
		t.Error("full config deallocators should be matched with their package")
	}
	if !config.Markers.MarkSource.Matches("", "source_marker") ||
		!config.Markers.MarkCheckPair.Matches("", "pair_marker") ||
		!config.Markers.CheckAliasSet.Matches("", "check_aliases") {
		t.Error("full config should set the three markers")
	}
	if strings.Join(config.Queries, ",") != "p,q" {
		t.Errorf("full config should query p and q, got %v", config.Queries)
	}
}

func TestLoadWithReports(t *testing.T) {
	fileName, config, err := loadFromTestDir("config_with_reports.yaml")
	if err != nil {
		t.Fatalf("Could not load %s: %v", fileName, err)
	}
	defer os.Remove(config.ReportsDir)
	if config.ReportsDir != "example-report" || !config.ReportPaths {
		t.Errorf("Reports dir should be example-report")
	}
	if _, err := os.Stat(config.ReportsDir); err != nil {
		t.Errorf("Reports dir should have been created: %v", err)
	}
}

func TestLoadWithNoSpecifiedReportsDir(t *testing.T) {
	fileName, config, err := loadFromTestDir("config_with_reports_no_dir_spec.yaml")
	if config == nil || err != nil {
		t.Fatalf("Could not load %q: %v", fileName, err)
	}
	defer os.Remove(config.ReportsDir)
	if config.ReportsDir == "" {
		t.Errorf("Expected reports-dir to be non-empty after loading config %q", fileName)
	}
}

func TestCombineAlias(t *testing.T) {
	c := NewDefault()
	if !c.CombineAlias(true, false) || !c.CombineAlias(false, true) || c.CombineAlias(false, false) {
		t.Errorf("conservative rule should be a disjunction")
	}
	c.AliasRule = VetoAliasRule
	if c.CombineAlias(true, false) || !c.CombineAlias(true, true) {
		t.Errorf("veto rule should be a conjunction")
	}
}

func TestLogGroupLevels(t *testing.T) {
	c := NewDefault()
	c.LogLevel = int(WarnLevel)
	l := NewLogGroup(c)
	var buf bytes.Buffer
	l.SetAllOutput(&buf)
	l.Infof("hidden %d", 1)
	l.Warnf("shown %d", 2)
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown 2") {
		t.Errorf("warn level should only print warnings, got %q", buf.String())
	}
	buf.Reset()
	l.SetLevel(TraceLevel)
	l.WithField("run", "r1").Tracef("traced")
	if !strings.Contains(buf.String(), "traced") || !strings.Contains(buf.String(), "run=r1") {
		t.Errorf("trace level should print traces with fields, got %q", buf.String())
	}
	if l.Level() != TraceLevel {
		t.Errorf("level should be trace")
	}
}
