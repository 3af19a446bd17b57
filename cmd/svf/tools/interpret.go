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


package tools

import "regexp"

// Captures errors happening before any analysis starts (graph could not load)
var regexCouldNotParse = regexp.MustCompile("could not parse graph file")

// Captures the kind of error that happens when the flags are put after the graph file
var regexMissingGraph = regexp.MustCompile("expected a graph file")

// Captures errors where a statement refers to an undeclared name
var regexUnknownName = regexp.MustCompile("unknown (object|call target|variable)")

// Captures invariant violations found during an analysis
var regexInvariant = regexp.MustCompile("program graph invariant violated")

// HintForErrorMessage looks for specific error message and returns some other message that might help the user
// resolve the problem.
func HintForErrorMessage(errMsg string) string {
	switch {
	case regexCouldNotParse.MatchString(errMsg):
		return "the graph file should be a yaml file with the keys pointers, objects, functions and base-points-to"
	case regexMissingGraph.MatchString(errMsg):
		return "all command line flags should be before the path to the graph file"
	case regexUnknownName.MatchString(errMsg):
		return "objects and functions must be declared in the graph file before they are referenced"
	case regexInvariant.MatchString(errMsg):
		return "the graph file is not consistent with its base points-to analysis"
	}
	return ""
}
