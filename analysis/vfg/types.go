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

package vfg

import (
	"fmt"

	"github.com/rainoftime/SVF/analysis/pts"
)

// NodeID identifies a top-level variable or a memory object
type NodeID = pts.NodeID

// VFNodeID identifies a node of the value-flow graph
type VFNodeID int

// CallSiteID identifies a call site. The zero value is not a valid call site.
type CallSiteID int

// NoCallSite is the CallSiteID of nodes and edges not attached to any call site
const NoCallSite CallSiteID = 0

// InstrID identifies an instruction of the program
type InstrID int

// NoInstr is the InstrID of nodes that do not correspond to an instruction (parameters, memory nodes)
const NoInstr InstrID = -1

// FuncID identifies a function
type FuncID int

// NodeKind is the kind of statement a value-flow node represents
type NodeKind int

const (
	// Addr is dst = &obj
	Addr NodeKind = iota
	// Copy is dst = src
	Copy
	// Phi is dst = phi(srcs...)
	Phi
	// Gep is dst = &src->field, at a constant offset
	Gep
	// VariantGep is dst = &src[i], at a statically unknown offset
	VariantGep
	// Load is dst = *src
	Load
	// Store is *dst = src
	Store
	// ActualParm is the pointer src passed as an argument at a call site
	ActualParm
	// FormalParm is the definition of the parameter dst at the entry of a function
	FormalParm
	// ActualRet is the definition of dst by the value returned at a call site
	ActualRet
	// FormalRet is the value src returned by a function
	FormalRet
	// Mem is a memory node (memory phi, or the memory read and written by a call)
	Mem
)

var nodeKindNames = [...]string{"addr", "copy", "phi", "gep", "vgep", "load", "store", "actual-parm",
	"formal-parm", "actual-ret", "formal-ret", "mem"}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Defines returns true if nodes of kind k define a top-level variable
func (k NodeKind) Defines() bool {
	switch k {
	case Addr, Copy, Phi, Gep, VariantGep, Load, FormalParm, ActualRet:
		return true
	default:
		return false
	}
}

// Node is a node of the value-flow graph. Nodes are immutable once the graph is built.
type Node struct {
	ID   VFNodeID
	Kind NodeKind

	// Dst is the variable defined by the node, or the pointer operand of a Store
	Dst NodeID

	// Src is the operand of Copy, Gep, VariantGep and Load nodes, the value operand of a Store, and the value passed
	// by ActualParm and FormalRet nodes
	Src NodeID

	// Srcs are the operands of a Phi
	Srcs []NodeID

	// Obj is the object whose address is taken by an Addr
	Obj NodeID

	// Offset is the field offset of a Gep
	Offset int

	// CallSite is the call site of ActualParm and ActualRet nodes
	CallSite CallSiteID

	// Arg is the argument index of ActualParm and FormalParm nodes
	Arg int

	Func  FuncID
	Instr InstrID

	// Label is a user-provided name, used for printing and in the graph files
	Label string
}

// Var returns the top-level variable flowing out of the node, or pts.InvalidID for stores and memory nodes.
func (n *Node) Var() NodeID {
	switch {
	case n.Kind.Defines():
		return n.Dst
	case n.Kind == ActualParm || n.Kind == FormalRet:
		return n.Src
	default:
		return pts.InvalidID
	}
}

func (n *Node) String() string {
	if n.Label != "" {
		return fmt.Sprintf("%s#%d(%s)", n.Kind, n.ID, n.Label)
	}
	return fmt.Sprintf("%s#%d", n.Kind, n.ID)
}

// EdgeKind is the kind of a value-flow edge. Direct edges carry top-level variables, indirect edges carry the
// contents of memory objects.
type EdgeKind int

const (
	// IntraDirect is a def-use edge inside a function
	IntraDirect EdgeKind = iota
	// IntraIndirect is a memory flow inside a function
	IntraIndirect
	// CallDirect is a flow from an actual parameter to a formal parameter
	CallDirect
	// CallIndirect is a memory flow into a callee
	CallIndirect
	// RetDirect is a flow from a formal return to an actual return
	RetDirect
	// RetIndirect is a memory flow out of a callee
	RetIndirect
)

var edgeKindNames = [...]string{"intra", "intra-mem", "call", "call-mem", "ret", "ret-mem"}

func (k EdgeKind) String() string {
	if int(k) < len(edgeKindNames) {
		return edgeKindNames[k]
	}
	return fmt.Sprintf("edge(%d)", int(k))
}

// Edge is an edge of the value-flow graph
type Edge struct {
	Src  *Node
	Dst  *Node
	Kind EdgeKind

	// CallSite is the call site of call and return edges
	CallSite CallSiteID

	// Objects restricts the objects whose contents flow along an indirect edge. A nil set means any object.
	Objects *pts.Set
}

// IsCall returns true for edges entering a callee
func (e *Edge) IsCall() bool {
	return e.Kind == CallDirect || e.Kind == CallIndirect
}

// IsRet returns true for edges returning from a callee
func (e *Edge) IsRet() bool {
	return e.Kind == RetDirect || e.Kind == RetIndirect
}

// IsDirect returns true for edges carrying top-level variables
func (e *Edge) IsDirect() bool {
	return e.Kind == IntraDirect || e.Kind == CallDirect || e.Kind == RetDirect
}

// Carries returns true if the contents of obj may flow along the edge
func (e *Edge) Carries(obj NodeID) bool {
	return !e.IsDirect() && (e.Objects == nil || e.Objects.Has(obj))
}

func (e *Edge) String() string {
	if e.CallSite != NoCallSite {
		return fmt.Sprintf("%s -%s@%d-> %s", e.Src, e.Kind, e.CallSite, e.Dst)
	}
	return fmt.Sprintf("%s -%s-> %s", e.Src, e.Kind, e.Dst)
}

// CallSite is a call instruction
type CallSite struct {
	ID    CallSiteID
	Func  FuncID
	Instr InstrID

	// Package and Callee name the called function of a direct call
	Package string
	Callee  string

	// Args are the arguments of the call. Arguments that are not pointers have no ActualParm node.
	Args []NodeID

	// Consts maps the indices of constant integer arguments to their value
	Consts map[int]int64

	// Ret is the variable receiving the returned value, or pts.InvalidID
	Ret NodeID

	// FunPtr is the function pointer of an indirect call
	FunPtr NodeID

	// VTablePtr is the virtual table pointer of a virtual call
	VTablePtr NodeID
	Virtual   bool

	// Targets are the functions an indirect call is known to call
	Targets []FuncID
}

// IsIndirect returns true for calls through a function pointer or a virtual table
func (cs *CallSite) IsIndirect() bool {
	return cs.Virtual || cs.FunPtr != pts.InvalidID
}

// ConstArg returns the value of the i-th argument if it is an integer constant
func (cs *CallSite) ConstArg(i int) (int64, bool) {
	v, ok := cs.Consts[i]
	return v, ok
}

func (cs *CallSite) String() string {
	switch {
	case cs.Virtual:
		return fmt.Sprintf("cs%d:vcall", cs.ID)
	case cs.FunPtr != pts.InvalidID:
		return fmt.Sprintf("cs%d:icall", cs.ID)
	default:
		return fmt.Sprintf("cs%d:%s", cs.ID, cs.Callee)
	}
}

// ObjectKind is the kind of memory a memory object represents
type ObjectKind int

const (
	// HeapObject is allocated by an allocation function
	HeapObject ObjectKind = iota
	// StackObject is a local variable whose address is taken
	StackObject
	// GlobalObject is a global variable
	GlobalObject
	// FunctionObject is a function whose address is taken
	FunctionObject
	// BlackHoleObject is the unknown object, aliasing everything
	BlackHoleObject
	// ConstantObject is the object representing constant data
	ConstantObject
)

var objectKindNames = [...]string{"heap", "stack", "global", "function", "blackhole", "constant"}

func (k ObjectKind) String() string {
	if int(k) < len(objectKindNames) {
		return objectKindNames[k]
	}
	return fmt.Sprintf("object(%d)", int(k))
}

// ParseObjectKind returns the object kind named s
func ParseObjectKind(s string) (ObjectKind, error) {
	for i, name := range objectKindNames {
		if name == s {
			return ObjectKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown object kind %q", s)
}

// InvariantError is the value of the panics raised when the program graph does not satisfy the properties the
// analyses rely on. It indicates a broken graph, not an analysis imprecision.
type InvariantError struct {
	msg string
}

func (e *InvariantError) Error() string {
	return "program graph invariant violated: " + e.msg
}

// Assertf panics with an *InvariantError if cond is false
func Assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(&InvariantError{msg: fmt.Sprintf(format, args...)})
	}
}
