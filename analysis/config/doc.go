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

/*
Package config provides a simple way to manage configuration files.

Use [LoadFile](filename) to load a configuration from a specific filename, or [Load](filename, content) when the
content is already in memory.

Use [SetGlobalConfig](filename) to set filename as the global config, and then [LoadGlobal]() to load the global config.

A config file should be in yaml format. The top-level fields can be any of the fields defined in the Config
struct type and in the Options struct type. For example, a valid config file is as follows:

	flow-budget: 5000
	max-context-length: 2
	candidates: instrumented-source
	log-level: 4
	memory-api:
	  alloc:
	    - method: malloc|calloc
	  dealloc:
	    - method: free
	markers:
	  check-alias-set:
	    method: pp_check_alias_set

# Identifying functions

The config uses [FunctionIdentifier] to identify specific functions. The string specifications are seen as regexes
matching the entire name if they can be compiled to regexes, otherwise they are strings.

# Immutability

The analyses copy the options they need when they are constructed; a config should not be modified after it has been
passed to an analysis.
*/
package config
