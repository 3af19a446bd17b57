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

// Package vfg defines the value-flow graph the demand-driven analyses run on, and provides an in-memory
// implementation that can be built programmatically or loaded from a yaml file.
//
// The value-flow graph has two kinds of vertices. Top-level variables and memory objects are identified by a
// [NodeID]; statements are value-flow [Node]s connected by [Edge]s. Every valid top-level pointer is defined by
// exactly one node (SSA form). Direct edges connect definitions to uses of top-level variables, and indirect edges
// connect the statements reading and writing memory objects.
package vfg

// Graph is the read-only view of the value-flow graph
type Graph interface {
	// IsValidTopLevelPtr returns true if id is a top-level pointer with a definition
	IsValidTopLevelPtr(id NodeID) bool

	// DefiningNode returns the node defining the top-level variable id, or nil
	DefiningNode(id NodeID) *Node

	// InEdges returns the edges entering n. The slice must not be modified.
	InEdges(n *Node) []*Edge

	// OutEdges returns the edges leaving n. The slice must not be modified.
	OutEdges(n *Node) []*Edge

	// CallSite returns the call site with the given id, or nil
	CallSite(id CallSiteID) *CallSite

	// CallSites returns all the call sites, ordered by id
	CallSites() []*CallSite

	// ActualParmNode returns the ActualParm node of the i-th argument of the call site, or nil if the argument is
	// not a pointer
	ActualParmNode(cs CallSiteID, i int) *Node

	// Pointers returns all the top-level pointers, in increasing order
	Pointers() []NodeID

	// Reachable returns whether the instruction to is reachable from the instruction from in the control-flow graph.
	// known is false when the graph does not have the information, e.g. for instructions in different functions.
	Reachable(from, to InstrID) (reachable bool, known bool)

	// Name returns a printable name for the variable or object
	Name(id NodeID) string

	// FuncName returns the name of the function
	FuncName(id FuncID) string
}

// ObjectModel contains the queries on memory objects. Field objects are created on demand, therefore
// implementations must be safe for concurrent use.
type ObjectModel interface {
	// IsObject returns true if id is a memory object
	IsObject(id NodeID) bool

	// IsBlackHoleOrConstantObject returns true for the unknown object and for the constant object
	IsBlackHoleOrConstantObject(id NodeID) bool

	// IsHeapObject returns true if the object is heap allocated
	IsHeapObject(id NodeID) bool

	// IsFunctionObject returns true if the object is a function
	IsFunctionObject(id NodeID) bool

	// BlackHole returns the unknown object
	BlackHole() NodeID

	// AllocObjectOf returns the heap object allocated by the call site cs, creating it if necessary
	AllocObjectOf(cs CallSiteID) NodeID

	// MarkFieldInsensitive collapses all the fields of the object into its field-insensitive object
	MarkFieldInsensitive(id NodeID)

	// IsFieldInsensitive returns true if the object has been collapsed
	IsFieldInsensitive(id NodeID) bool

	// FieldInsensitiveObjectOf returns the object summarizing all the fields of the object
	FieldInsensitiveObjectOf(id NodeID) NodeID

	// FieldObjectAt returns the object of the field at offset of the object, creating it if necessary
	FieldObjectAt(id NodeID, offset int) NodeID
}

// Program is the value-flow graph with its object model
type Program interface {
	Graph
	ObjectModel
}
