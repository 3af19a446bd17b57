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
	"regexp"
)

// FunctionIdentifier identifies a function by its package (or library) and name. Each field is a regex when it
// can be compiled to one, otherwise a literal string. Empty fields match anything.
type FunctionIdentifier struct {
	Package string `yaml:"package"`
	Method  string `yaml:"method"`

	// This will not be part of the yaml config
	computedRegexs *functionIdentifierRegex
}

type functionIdentifierRegex struct {
	packageRegex *regexp.Regexp
	methodRegex  *regexp.Regexp
}

// Function returns an identifier matching any function named name
func Function(name string) FunctionIdentifier {
	return compileRegexes(FunctionIdentifier{Method: name})
}

// compileRegexes compiles the strings in the identifier into regexes matching the whole string. It compiles all
// fields into regexes or none.
// @ensures fid.computedRegexs == nil || fid.computedRegexs.(*) != nil
func compileRegexes(fid FunctionIdentifier) FunctionIdentifier {
	packageRegex, err := regexp.Compile("^(?:" + fid.Package + ")$")
	if err != nil {
		return fid
	}
	methodRegex, err := regexp.Compile("^(?:" + fid.Method + ")$")
	if err != nil {
		return fid
	}
	fid.computedRegexs = &functionIdentifierRegex{packageRegex, methodRegex}
	return fid
}

// IsEmpty returns true if no field of the identifier is set. An empty identifier matches no function.
func (fid FunctionIdentifier) IsEmpty() bool {
	return fid.Package == "" && fid.Method == ""
}

// Matches returns true if each of the identifier's non-empty fields matches the corresponding argument.
func (fid FunctionIdentifier) Matches(pkg, name string) bool {
	if fid.IsEmpty() {
		return false
	}
	if fid.computedRegexs != nil {
		return (fid.Package == "" || fid.computedRegexs.packageRegex.MatchString(pkg)) &&
			(fid.Method == "" || fid.computedRegexs.methodRegex.MatchString(name))
	}
	return (fid.Package == "" || fid.Package == pkg) && (fid.Method == "" || fid.Method == name)
}

func (fid FunctionIdentifier) String() string {
	if fid.Package == "" {
		return fid.Method
	}
	return fid.Package + "." + fid.Method
}
