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
	"errors"
	"fmt"

	"github.com/rainoftime/SVF/analysis/pts"
)

// Builder builds a MemGraph. Statements added to a function are in sequence in the control-flow graph of the
// function, unless a new block is started with FuncBuilder.NewBlock; jumps add control-flow edges.
//
// Build derives the edges of the value-flow graph:
//   - def-use edges from the definition of every top-level pointer to its uses,
//   - call and return edges between actual and formal parameters and returns of direct calls, and of indirect calls
//     with known targets,
//   - memory edges from every store to every load reachable from it in the same function, unless
//     DisableMemoryEdges has been called.
//
// Memory flows across functions must be added explicitly with MemCallEdge and MemRetEdge.
type Builder struct {
	g       *MemGraph
	funcs   map[string]*FuncBuilder
	order   []*FuncBuilder
	edges   map[edgeKey]bool
	mem     []*Edge
	autoMem bool
	built   bool
	errs    []error
}

type edgeKey struct {
	src, dst VFNodeID
	kind     EdgeKind
	cs       CallSiteID
}

// NewBuilder returns a builder for an empty graph containing only the black hole and constant objects
func NewBuilder() *Builder {
	return &Builder{
		g:       newMemGraph(),
		funcs:   map[string]*FuncBuilder{},
		edges:   map[edgeKey]bool{},
		autoMem: true,
	}
}

func (b *Builder) errorf(format string, args ...any) {
	b.errs = append(b.errs, fmt.Errorf(format, args...))
}

// Pointer adds a top-level pointer variable
func (b *Builder) Pointer(name string) NodeID {
	return b.g.newVar(&variable{name: name, kind: pointerVar})
}

// Scalar adds a top-level variable that is not a pointer
func (b *Builder) Scalar(name string) NodeID {
	return b.g.newVar(&variable{name: name, kind: scalarVar})
}

// Const adds an integer constant
func (b *Builder) Const(name string, value int64) NodeID {
	return b.g.newVar(&variable{name: name, kind: scalarVar, constant: &value})
}

// Object adds a memory object
func (b *Builder) Object(name string, kind ObjectKind) NodeID {
	return b.g.newObject(name, &object{kind: kind})
}

// FunctionObject adds the object representing the address of the function fn
func (b *Builder) FunctionObject(name string, fn *FuncBuilder) NodeID {
	return b.g.newObject(name, &object{kind: FunctionObject, fn: fn.id})
}

// FieldObject returns the field object at offset of obj. Field objects are otherwise created on demand by the
// analyses; this is useful to refer to them in a base points-to analysis.
func (b *Builder) FieldObject(obj NodeID, offset int) NodeID {
	return b.g.FieldObjectAt(obj, offset)
}

// BlackHole returns the unknown object
func (b *Builder) BlackHole() NodeID {
	return BlackHoleID
}

// Lookup returns the variable or object with the given name
func (b *Builder) Lookup(name string) (NodeID, bool) {
	return b.g.Lookup(name)
}

// Func adds a function with the given parameters. Each parameter is defined by a FormalParm node.
func (b *Builder) Func(name string, params ...NodeID) *FuncBuilder {
	if fb, ok := b.funcs[name]; ok {
		b.errorf("function %s declared twice", name)
		return fb
	}
	fn := &function{name: name}
	fb := &FuncBuilder{b: b, id: FuncID(len(b.g.funcs)), fn: fn, last: NoInstr}
	b.g.funcs = append(b.g.funcs, fn)
	b.funcs[name] = fb
	b.order = append(b.order, fb)
	for i, p := range params {
		n := b.newNode(&Node{Kind: FormalParm, Dst: p, Arg: i, Func: fb.id, Instr: NoInstr})
		b.define(p, n)
		fn.params = append(fn.params, n)
	}
	return fb
}

// Function returns the function with the given name
func (b *Builder) Function(name string) (*FuncBuilder, bool) {
	fb, ok := b.funcs[name]
	return fb, ok
}

// AddTarget records that the indirect call cs may call fn
func (b *Builder) AddTarget(cs *CallSite, fn *FuncBuilder) {
	cs.Targets = append(cs.Targets, fn.id)
}

// AllocObject records that the call site cs allocates the heap object obj. Allocation call sites without a recorded
// object allocate an object created on demand.
func (b *Builder) AllocObject(cs *CallSite, obj NodeID) {
	o := b.g.objectOf(obj)
	switch {
	case o == nil:
		b.errorf("%s allocates %s, which is not an object", cs, b.g.Name(obj))
	case o.kind != HeapObject:
		b.errorf("%s allocates %s, which is not a heap object", cs, b.g.Name(obj))
	default:
		b.g.allocs[cs.ID] = obj
	}
}

// DisableMemoryEdges stops Build from adding store to load memory edges; only the explicit ones are kept
func (b *Builder) DisableMemoryEdges() {
	b.autoMem = false
}

// MemEdge adds a memory flow from -> to inside a function. If objs is empty, the contents of any object flow.
func (b *Builder) MemEdge(from, to *Node, objs ...NodeID) {
	b.mem = append(b.mem, &Edge{Src: from, Dst: to, Kind: IntraIndirect, Objects: objectSet(objs)})
}

// MemCallEdge adds a memory flow from the caller side to the callee side of the call site cs
func (b *Builder) MemCallEdge(from, to *Node, cs *CallSite, objs ...NodeID) {
	b.mem = append(b.mem, &Edge{Src: from, Dst: to, Kind: CallIndirect, CallSite: cs.ID, Objects: objectSet(objs)})
}

// MemRetEdge adds a memory flow from the callee side to the caller side of the call site cs
func (b *Builder) MemRetEdge(from, to *Node, cs *CallSite, objs ...NodeID) {
	b.mem = append(b.mem, &Edge{Src: from, Dst: to, Kind: RetIndirect, CallSite: cs.ID, Objects: objectSet(objs)})
}

func objectSet(objs []NodeID) *pts.Set {
	if len(objs) == 0 {
		return nil
	}
	return pts.NewSet(objs...)
}

func (b *Builder) newNode(n *Node) *Node {
	n.ID = VFNodeID(len(b.g.nodes))
	b.g.nodes = append(b.g.nodes, n)
	b.g.in = append(b.g.in, nil)
	b.g.out = append(b.g.out, nil)
	return n
}

func (b *Builder) define(v NodeID, n *Node) {
	x := b.g.variable(v)
	switch {
	case x == nil:
		b.errorf("%s defines unknown variable %d", n, v)
	case x.kind == objectVar:
		b.errorf("%s defines object %s", n, x.name)
	case b.g.defs[v] != nil:
		b.errorf("%s is defined twice, by %s and %s", x.name, b.g.defs[v], n)
	default:
		b.g.defs[v] = n
	}
}

func (b *Builder) addEdge(e *Edge) {
	key := edgeKey{e.Src.ID, e.Dst.ID, e.Kind, e.CallSite}
	if b.edges[key] {
		return
	}
	b.edges[key] = true
	b.g.out[e.Src.ID] = append(b.g.out[e.Src.ID], e)
	b.g.in[e.Dst.ID] = append(b.g.in[e.Dst.ID], e)
}

// Build derives the edges of the graph and returns it. The builder cannot be used after Build.
func (b *Builder) Build() (*MemGraph, error) {
	if b.built {
		return nil, fmt.Errorf("graph already built")
	}
	b.built = true
	b.connectCalls()
	b.connectDefUse()
	if b.autoMem {
		for _, fb := range b.order {
			b.connectMemory(fb)
		}
	}
	for _, e := range b.mem {
		b.addEdge(e)
	}
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	return b.g, nil
}

func (b *Builder) connectCalls() {
	for _, cs := range b.g.CallSites() {
		if !cs.IsIndirect() {
			fb, ok := b.funcs[cs.Callee]
			if !ok {
				// external function
				continue
			}
			cs.Targets = []FuncID{fb.id}
		}
		for _, target := range cs.Targets {
			fn := b.g.funcs[target]
			for i, ap := range b.g.aparms[cs.ID] {
				if ap != nil && i < len(fn.params) {
					b.addEdge(&Edge{Src: ap, Dst: fn.params[i], Kind: CallDirect, CallSite: cs.ID})
				}
			}
			if cs.Ret != pts.InvalidID && fn.ret != nil {
				if ar := b.g.defs[cs.Ret]; ar != nil && ar.Kind == ActualRet {
					b.addEdge(&Edge{Src: fn.ret, Dst: ar, Kind: RetDirect, CallSite: cs.ID})
				}
			}
		}
	}
}

func operands(n *Node) []NodeID {
	switch n.Kind {
	case Copy, Gep, VariantGep, Load, ActualParm, FormalRet:
		return []NodeID{n.Src}
	case Phi:
		return n.Srcs
	case Store:
		return []NodeID{n.Dst, n.Src}
	default:
		return nil
	}
}

func (b *Builder) connectDefUse() {
	for _, n := range b.g.nodes {
		for _, v := range operands(n) {
			x := b.g.variable(v)
			if x == nil {
				b.errorf("%s uses unknown variable %d", n, v)
				continue
			}
			if x.kind != pointerVar {
				continue
			}
			def := b.g.defs[v]
			if def == nil {
				b.errorf("%s is used by %s but never defined", x.name, n)
				continue
			}
			b.addEdge(&Edge{Src: def, Dst: n, Kind: IntraDirect})
		}
	}
}

func (b *Builder) connectMemory(fb *FuncBuilder) {
	for _, s := range fb.stores {
		for _, l := range fb.loads {
			if b.g.cfg.PathExists(int(s.Instr), int(l.Instr)) {
				b.addEdge(&Edge{Src: s, Dst: l, Kind: IntraIndirect})
			}
		}
	}
}

// FuncBuilder adds statements to a function
type FuncBuilder struct {
	b  *Builder
	id FuncID
	fn *function

	// last is the last instruction of the current block
	last InstrID

	stores []*Node
	loads  []*Node
}

// ID returns the id of the function
func (fb *FuncBuilder) ID() FuncID {
	return fb.id
}

func (fb *FuncBuilder) instr() InstrID {
	g := fb.b.g
	i := InstrID(g.cfg.AddVertex())
	g.instrFunc = append(g.instrFunc, fb.id)
	if fb.last != NoInstr {
		g.cfg.AddEdge(int(fb.last), int(i))
	}
	fb.last = i
	return i
}

func (fb *FuncBuilder) stmt(n *Node) *Node {
	n.Func = fb.id
	n.Instr = fb.instr()
	return fb.b.newNode(n)
}

// Addr adds dst = &obj
func (fb *FuncBuilder) Addr(dst, obj NodeID) *Node {
	if !fb.b.g.IsObject(obj) {
		fb.b.errorf("address of %s, which is not an object", fb.b.g.Name(obj))
	}
	n := fb.stmt(&Node{Kind: Addr, Dst: dst, Obj: obj})
	fb.b.define(dst, n)
	return n
}

// Copy adds dst = src
func (fb *FuncBuilder) Copy(dst, src NodeID) *Node {
	n := fb.stmt(&Node{Kind: Copy, Dst: dst, Src: src})
	fb.b.define(dst, n)
	return n
}

// Phi adds dst = phi(srcs...)
func (fb *FuncBuilder) Phi(dst NodeID, srcs ...NodeID) *Node {
	n := fb.stmt(&Node{Kind: Phi, Dst: dst, Srcs: srcs})
	fb.b.define(dst, n)
	return n
}

// Gep adds dst = &src->field where field is at offset
func (fb *FuncBuilder) Gep(dst, src NodeID, offset int) *Node {
	n := fb.stmt(&Node{Kind: Gep, Dst: dst, Src: src, Offset: offset})
	fb.b.define(dst, n)
	return n
}

// VariantGep adds dst = &src[i] for an unknown i
func (fb *FuncBuilder) VariantGep(dst, src NodeID) *Node {
	n := fb.stmt(&Node{Kind: VariantGep, Dst: dst, Src: src})
	fb.b.define(dst, n)
	return n
}

// Load adds dst = *ptr
func (fb *FuncBuilder) Load(dst, ptr NodeID) *Node {
	n := fb.stmt(&Node{Kind: Load, Dst: dst, Src: ptr})
	fb.b.define(dst, n)
	fb.loads = append(fb.loads, n)
	return n
}

// Store adds *ptr = val
func (fb *FuncBuilder) Store(ptr, val NodeID) *Node {
	n := fb.stmt(&Node{Kind: Store, Dst: ptr, Src: val})
	fb.stores = append(fb.stores, n)
	return n
}

// Call adds ret = callee(args...). ret may be pts.InvalidID.
func (fb *FuncBuilder) Call(callee string, ret NodeID, args ...NodeID) *CallSite {
	return fb.call(&CallSite{Callee: callee}, ret, args)
}

// CallIndirect adds ret = (*fptr)(args...)
func (fb *FuncBuilder) CallIndirect(fptr NodeID, ret NodeID, args ...NodeID) *CallSite {
	return fb.call(&CallSite{FunPtr: fptr}, ret, args)
}

// CallVirtual adds ret = vtbl->method(args...)
func (fb *FuncBuilder) CallVirtual(vtbl NodeID, ret NodeID, args ...NodeID) *CallSite {
	return fb.call(&CallSite{VTablePtr: vtbl, Virtual: true}, ret, args)
}

func (fb *FuncBuilder) call(cs *CallSite, ret NodeID, args []NodeID) *CallSite {
	g := fb.b.g
	cs.ID = CallSiteID(len(g.callSites))
	cs.Func = fb.id
	cs.Instr = fb.instr()
	cs.Args = args
	cs.Ret = ret
	cs.Consts = map[int]int64{}
	g.callSites = append(g.callSites, cs)
	parms := make([]*Node, len(args))
	for i, arg := range args {
		x := g.variable(arg)
		if x == nil {
			fb.b.errorf("%s uses unknown variable %d", cs, arg)
			continue
		}
		if x.constant != nil {
			cs.Consts[i] = *x.constant
		}
		if x.kind == pointerVar {
			parms[i] = fb.b.newNode(&Node{Kind: ActualParm, Src: arg, CallSite: cs.ID, Arg: i, Func: fb.id,
				Instr: cs.Instr})
		}
	}
	g.aparms[cs.ID] = parms
	if ret != pts.InvalidID {
		n := fb.b.newNode(&Node{Kind: ActualRet, Dst: ret, CallSite: cs.ID, Func: fb.id, Instr: cs.Instr})
		fb.b.define(ret, n)
	}
	return cs
}

// Return adds the return of v at the exit of the function
func (fb *FuncBuilder) Return(v NodeID) *Node {
	if fb.fn.ret != nil {
		fb.b.errorf("function %s returns twice", fb.fn.name)
		return fb.fn.ret
	}
	n := fb.b.newNode(&Node{Kind: FormalRet, Src: v, Func: fb.id, Instr: NoInstr})
	fb.fn.ret = n
	return n
}

// Mem adds a memory node to the function
func (fb *FuncBuilder) Mem(label string) *Node {
	return fb.b.newNode(&Node{Kind: Mem, Func: fb.id, Instr: NoInstr, Label: label})
}

// NewBlock starts a new basic block: the next statement does not follow the previous one in the control-flow graph
func (fb *FuncBuilder) NewBlock() {
	fb.last = NoInstr
}

// Jump adds a control-flow edge between two instructions of the function. Statement nodes and call sites carry
// their instruction in their Instr field.
func (fb *FuncBuilder) Jump(from, to InstrID) {
	g := fb.b.g
	if !fb.owns(from) || !fb.owns(to) {
		fb.b.errorf("jump from %d to %d is not between instructions of %s", from, to, fb.fn.name)
		return
	}
	g.cfg.AddEdge(int(from), int(to))
}

func (fb *FuncBuilder) owns(i InstrID) bool {
	g := fb.b.g
	return i >= 0 && int(i) < len(g.instrFunc) && g.instrFunc[i] == fb.id
}
