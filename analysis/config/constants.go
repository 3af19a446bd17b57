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

const (
	// DefaultFlowBudget is the default number of traversal steps of a demand-driven query
	DefaultFlowBudget = 10000
	// DefaultMaxContextLength is the default bound on call string lengths
	DefaultMaxContextLength = 3

	// AllPointers selects every valid top-level pointer
	AllPointers = "all-pointers"
	// IndirectCalls selects the target pointer of every indirect or virtual call site
	IndirectCalls = "indirect-calls"
	// InstrumentedSource selects the arguments of the check-alias-set marker
	InstrumentedSource = "instrumented-source"
	// SourceSinkPair selects the arguments of the mark-source and mark-check-pair markers
	SourceSinkPair = "source-sink-pair"

	// ConservativeAliasRule reports an alias when either analysis reports one
	ConservativeAliasRule = "conservative"
	// VetoAliasRule reports an alias only when both analyses report one
	VetoAliasRule = "veto"

	// DefaultCheckAliasSetMarker is the name of the check-alias-set marker function
	DefaultCheckAliasSetMarker = "pp_check_alias_set"
	// DefaultMarkSourceMarker is the name of the mark-source marker function
	DefaultMarkSourceMarker = "pp_mark_source"
	// DefaultMarkCheckPairMarker is the name of the mark-check-pair marker function
	DefaultMarkCheckPairMarker = "pp_mark_check_pair"
)

var (
	// DefaultAllocFunctions are the heap allocators recognized when the config does not list any
	DefaultAllocFunctions = []string{"malloc", "calloc", "realloc", "strdup", "_Znwm", "_Znam"}

	// DefaultDeallocFunctions are the heap deallocators recognized when the config does not list any
	DefaultDeallocFunctions = []string{"free", "_ZdlPv", "_ZdaPv"}

	strategies = []string{AllPointers, IndirectCalls, InstrumentedSource, SourceSinkPair}

	aliasRules = []string{ConservativeAliasRule, VetoAliasRule}
)
