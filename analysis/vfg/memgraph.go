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
	"sync"

	"github.com/rainoftime/SVF/analysis/pts"
	"github.com/rainoftime/SVF/internal/graphutil"
)

const (
	// BlackHoleID is the NodeID of the unknown object in a MemGraph
	BlackHoleID NodeID = 1
	// ConstantObjID is the NodeID of the constant object in a MemGraph
	ConstantObjID NodeID = 2
)

type varKind int

const (
	pointerVar varKind = iota
	scalarVar
	objectVar
)

type variable struct {
	name string
	kind varKind

	// constant value of a scalar, if any
	constant *int64

	// object information, for objects
	obj *object
}

type object struct {
	kind ObjectKind

	// base is the object this object is a field of. Root objects are their own base.
	base NodeID

	// offset from the base
	offset int

	// fn is the function of a function object
	fn FuncID

	// for root objects only
	fieldInsensitive bool
	fields           map[int]NodeID
}

type function struct {
	name   string
	params []*Node
	ret    *Node
}

// MemGraph is an in-memory Program. It is built by a Builder, or loaded from yaml with LoadYAML.
// The value-flow graph is immutable once built; the object model is guarded by a lock.
type MemGraph struct {
	// mu guards vars, which grows when field and allocation objects are created, and allocs
	mu     sync.RWMutex
	vars   []*variable
	allocs map[CallSiteID]NodeID

	nodes     []*Node
	in        [][]*Edge
	out       [][]*Edge
	defs      map[NodeID]*Node
	callSites []*CallSite
	aparms    map[CallSiteID][]*Node
	funcs     []*function

	// instrFunc maps each instruction to its function; the instructions are the vertices of cfg
	instrFunc []FuncID
	cfg       *graphutil.Digraph

	reachMu    sync.Mutex
	reachCache map[[2]InstrID]bool
}

func newMemGraph() *MemGraph {
	g := &MemGraph{
		vars:       []*variable{nil},
		defs:       map[NodeID]*Node{},
		callSites:  []*CallSite{nil},
		aparms:     map[CallSiteID][]*Node{},
		allocs:     map[CallSiteID]NodeID{},
		cfg:        graphutil.NewDigraph(0),
		reachCache: map[[2]InstrID]bool{},
	}
	g.newObject("blackhole", &object{kind: BlackHoleObject})
	g.newObject("constant", &object{kind: ConstantObject})
	return g
}

func (g *MemGraph) newVar(v *variable) NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.vars = append(g.vars, v)
	return NodeID(len(g.vars) - 1)
}

func (g *MemGraph) newObject(name string, o *object) NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := NodeID(len(g.vars))
	o.base = id
	g.vars = append(g.vars, &variable{name: name, kind: objectVar, obj: o})
	return id
}

func (g *MemGraph) variable(id NodeID) *variable {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if id <= 0 || int(id) >= len(g.vars) {
		return nil
	}
	return g.vars[id]
}

// *************** Graph implementation **********************

// IsValidTopLevelPtr implements Graph
func (g *MemGraph) IsValidTopLevelPtr(id NodeID) bool {
	v := g.variable(id)
	return v != nil && v.kind == pointerVar && g.defs[id] != nil
}

// DefiningNode implements Graph
func (g *MemGraph) DefiningNode(id NodeID) *Node {
	return g.defs[id]
}

// InEdges implements Graph
func (g *MemGraph) InEdges(n *Node) []*Edge {
	return g.in[n.ID]
}

// OutEdges implements Graph
func (g *MemGraph) OutEdges(n *Node) []*Edge {
	return g.out[n.ID]
}

// CallSite implements Graph
func (g *MemGraph) CallSite(id CallSiteID) *CallSite {
	if id <= 0 || int(id) >= len(g.callSites) {
		return nil
	}
	return g.callSites[id]
}

// CallSites implements Graph
func (g *MemGraph) CallSites() []*CallSite {
	return g.callSites[1:]
}

// ActualParmNode implements Graph
func (g *MemGraph) ActualParmNode(cs CallSiteID, i int) *Node {
	parms := g.aparms[cs]
	if i < 0 || i >= len(parms) {
		return nil
	}
	return parms[i]
}

// Pointers implements Graph
func (g *MemGraph) Pointers() []NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var ptrs []NodeID
	for i, v := range g.vars {
		if v != nil && v.kind == pointerVar {
			ptrs = append(ptrs, NodeID(i))
		}
	}
	return ptrs
}

// Nodes returns all the value-flow nodes, ordered by id
func (g *MemGraph) Nodes() []*Node {
	return g.nodes
}

// Node returns the value-flow node with the given id
func (g *MemGraph) Node(id VFNodeID) *Node {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

// Reachable implements Graph. Instructions of the same function are compared on the control-flow graph of the
// function; the answer is unknown (and reachable) in every other case.
func (g *MemGraph) Reachable(from, to InstrID) (bool, bool) {
	if from < 0 || to < 0 || int(from) >= len(g.instrFunc) || int(to) >= len(g.instrFunc) {
		return true, false
	}
	if g.instrFunc[from] != g.instrFunc[to] {
		return true, false
	}
	key := [2]InstrID{from, to}
	g.reachMu.Lock()
	defer g.reachMu.Unlock()
	if r, ok := g.reachCache[key]; ok {
		return r, true
	}
	r := g.cfg.PathExists(int(from), int(to))
	g.reachCache[key] = r
	return r, true
}

// Name implements Graph
func (g *MemGraph) Name(id NodeID) string {
	v := g.variable(id)
	if v == nil || v.name == "" {
		return fmt.Sprintf("n%d", id)
	}
	return v.name
}

// Lookup returns the variable or object with the given name
func (g *MemGraph) Lookup(name string) (NodeID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for i, v := range g.vars {
		if v != nil && v.name == name {
			return NodeID(i), true
		}
	}
	return pts.InvalidID, false
}

// FuncName implements Graph
func (g *MemGraph) FuncName(id FuncID) string {
	if id < 0 || int(id) >= len(g.funcs) {
		return fmt.Sprintf("f%d", id)
	}
	return g.funcs[id].name
}

// *************** ObjectModel implementation **********************

func (g *MemGraph) objectOf(id NodeID) *object {
	v := g.variable(id)
	if v == nil || v.kind != objectVar {
		return nil
	}
	return v.obj
}

// IsObject implements ObjectModel
func (g *MemGraph) IsObject(id NodeID) bool {
	return g.objectOf(id) != nil
}

// IsBlackHoleOrConstantObject implements ObjectModel
func (g *MemGraph) IsBlackHoleOrConstantObject(id NodeID) bool {
	return id == BlackHoleID || id == ConstantObjID
}

// IsHeapObject implements ObjectModel
func (g *MemGraph) IsHeapObject(id NodeID) bool {
	o := g.objectOf(id)
	return o != nil && o.kind == HeapObject
}

// IsFunctionObject implements ObjectModel
func (g *MemGraph) IsFunctionObject(id NodeID) bool {
	o := g.objectOf(id)
	return o != nil && o.kind == FunctionObject
}

// BlackHole implements ObjectModel
func (g *MemGraph) BlackHole() NodeID {
	return BlackHoleID
}

// FunctionOf returns the function of a function object
func (g *MemGraph) FunctionOf(id NodeID) (FuncID, bool) {
	o := g.objectOf(id)
	if o == nil || o.kind != FunctionObject {
		return 0, false
	}
	return o.fn, true
}

// AllocObjectOf implements ObjectModel. The object is the one bound by Builder.AllocObject, or a heap object named
// after the callee and the call site.
func (g *MemGraph) AllocObjectOf(cs CallSiteID) NodeID {
	site := g.CallSite(cs)
	Assertf(site != nil, "allocation at unknown call site %d", cs)
	g.mu.Lock()
	defer g.mu.Unlock()
	if o, ok := g.allocs[cs]; ok {
		return o
	}
	o := NodeID(len(g.vars))
	g.vars = append(g.vars, &variable{
		name: fmt.Sprintf("%s@cs%d", site.Callee, cs),
		kind: objectVar,
		obj:  &object{kind: HeapObject, base: o},
	})
	g.allocs[cs] = o
	return o
}

// MarkFieldInsensitive implements ObjectModel
func (g *MemGraph) MarkFieldInsensitive(id NodeID) {
	o := g.objectOf(id)
	Assertf(o != nil, "%s is not an object", g.Name(id))
	g.mu.Lock()
	defer g.mu.Unlock()
	g.vars[o.base].obj.fieldInsensitive = true
}

// IsFieldInsensitive implements ObjectModel
func (g *MemGraph) IsFieldInsensitive(id NodeID) bool {
	o := g.objectOf(id)
	if o == nil {
		return false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.vars[o.base].obj.fieldInsensitive
}

// FieldInsensitiveObjectOf implements ObjectModel
func (g *MemGraph) FieldInsensitiveObjectOf(id NodeID) NodeID {
	o := g.objectOf(id)
	Assertf(o != nil, "%s is not an object", g.Name(id))
	return o.base
}

// FieldObjectAt implements ObjectModel. Offsets accumulate: the field at offset j of the field at offset i of an
// object is the field at offset i+j of that object.
func (g *MemGraph) FieldObjectAt(id NodeID, offset int) NodeID {
	if g.IsBlackHoleOrConstantObject(id) {
		return id
	}
	o := g.objectOf(id)
	Assertf(o != nil, "field access on %s, which is not an object", g.Name(id))
	g.mu.Lock()
	defer g.mu.Unlock()
	root := g.vars[o.base]
	if root.obj.fieldInsensitive {
		return o.base
	}
	off := o.offset + offset
	if f, ok := root.obj.fields[off]; ok {
		return f
	}
	if root.obj.fields == nil {
		root.obj.fields = map[int]NodeID{}
	}
	f := NodeID(len(g.vars))
	g.vars = append(g.vars, &variable{
		name: fmt.Sprintf("%s.%d", root.name, off),
		kind: objectVar,
		obj:  &object{kind: root.obj.kind, base: o.base, offset: off, fn: root.obj.fn},
	})
	root.obj.fields[off] = f
	return f
}
