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
	"io"
	"os"

	"github.com/rainoftime/SVF/analysis/pts"
	"gopkg.in/yaml.v3"
)

// graphFile is the yaml representation of a program graph and of its base points-to analysis.
//
//	pointers: [p, q]
//	constants: [{name: zero, value: 0}]
//	objects: [{name: o1, kind: heap}, {name: gobj, kind: function, function: g}]
//	fields: [{object: o1, offsets: [0, 1]}]
//	functions:
//	  - name: main
//	    params: [a]
//	    return: r
//	    body:
//	      - {id: s1, op: addr, dst: p, obj: o1}
//	      - {op: call, callee: malloc, ret: q, obj: o1}
//	      - {op: call, callee: free, args: [p]}
//	    jumps: [[s2, s1]]
//	memory-edges: [{from: s1, to: m1, kind: call, callsite: c1, objects: [o1]}]
//	base-points-to: {p: [o1]}
//
// Names that are used but not declared are pointers.
type graphFile struct {
	Pointers     []string            `yaml:"pointers"`
	Scalars      []string            `yaml:"scalars"`
	Constants    []constDecl         `yaml:"constants"`
	Objects      []objectDecl        `yaml:"objects"`
	Fields       []fieldDecl         `yaml:"fields"`
	Functions    []funcDecl          `yaml:"functions"`
	MemoryEdges  []memEdgeDecl       `yaml:"memory-edges"`
	AutoMemory   *bool               `yaml:"auto-memory-edges"`
	BasePointsTo map[string][]string `yaml:"base-points-to"`
}

type constDecl struct {
	Name  string `yaml:"name"`
	Value int64  `yaml:"value"`
}

type objectDecl struct {
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"`
	Function string `yaml:"function"`
}

type fieldDecl struct {
	Object  string `yaml:"object"`
	Offsets []int  `yaml:"offsets"`
}

type funcDecl struct {
	Name   string      `yaml:"name"`
	Params []string    `yaml:"params"`
	Return string      `yaml:"return"`
	Body   []stmtDecl  `yaml:"body"`
	Jumps  [][2]string `yaml:"jumps"`
}

type stmtDecl struct {
	ID      string   `yaml:"id"`
	Op      string   `yaml:"op"`
	Dst     string   `yaml:"dst"`
	Src     string   `yaml:"src"`
	Srcs    []string `yaml:"srcs"`
	Obj     string   `yaml:"obj"`
	Offset  int      `yaml:"offset"`
	Package string   `yaml:"package"`
	Callee  string   `yaml:"callee"`
	Args    []string `yaml:"args"`
	Ret     string   `yaml:"ret"`
	FunPtr  string   `yaml:"fptr"`
	VTable  string   `yaml:"vtable"`
	Targets []string `yaml:"targets"`
}

type memEdgeDecl struct {
	From     string   `yaml:"from"`
	To       string   `yaml:"to"`
	Kind     string   `yaml:"kind"`
	CallSite string   `yaml:"callsite"`
	Objects  []string `yaml:"objects"`
}

// LoadYAMLFile loads a graph and its base points-to analysis from a yaml file
func LoadYAMLFile(filename string) (*MemGraph, *pts.MapOracle, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open graph file: %w", err)
	}
	defer f.Close()
	return LoadYAML(f)
}

// LoadYAML loads a graph and its base points-to analysis from yaml
func LoadYAML(r io.Reader) (*MemGraph, *pts.MapOracle, error) {
	var gf graphFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&gf); err != nil {
		return nil, nil, fmt.Errorf("could not parse graph file: %w", err)
	}
	l := &loader{b: NewBuilder(), stmts: map[string]*Node{}, calls: map[string]*CallSite{}}
	if gf.AutoMemory != nil && !*gf.AutoMemory {
		l.b.DisableMemoryEdges()
	}
	if err := l.load(&gf); err != nil {
		return nil, nil, err
	}
	g, err := l.b.Build()
	if err != nil {
		return nil, nil, err
	}
	base := pts.NewMapOracle()
	for ptr, objs := range gf.BasePointsTo {
		p, ok := g.Lookup(ptr)
		if !ok {
			return nil, nil, fmt.Errorf("base points-to set of unknown variable %s", ptr)
		}
		for _, obj := range objs {
			o, ok := g.Lookup(obj)
			if !ok || !g.IsObject(o) {
				return nil, nil, fmt.Errorf("base points-to set of %s contains unknown object %s", ptr, obj)
			}
			base.Add(p, o)
		}
	}
	return g, base, nil
}

type loader struct {
	b     *Builder
	stmts map[string]*Node
	calls map[string]*CallSite
}

// v returns the variable named name, declaring a pointer if it does not exist
func (l *loader) v(name string) NodeID {
	if name == "" {
		return pts.InvalidID
	}
	if id, ok := l.b.Lookup(name); ok {
		return id
	}
	return l.b.Pointer(name)
}

func (l *loader) vs(names []string) []NodeID {
	ids := make([]NodeID, len(names))
	for i, name := range names {
		ids[i] = l.v(name)
	}
	return ids
}

func (l *loader) obj(name string) (NodeID, error) {
	id, ok := l.b.Lookup(name)
	if !ok || !l.b.g.IsObject(id) {
		return pts.InvalidID, fmt.Errorf("unknown object %q", name)
	}
	return id, nil
}

//gocyclo:ignore
func (l *loader) load(gf *graphFile) error {
	for _, p := range gf.Pointers {
		l.b.Pointer(p)
	}
	for _, s := range gf.Scalars {
		l.b.Scalar(s)
	}
	for _, c := range gf.Constants {
		l.b.Const(c.Name, c.Value)
	}
	funcs := make([]*FuncBuilder, len(gf.Functions))
	for i, fd := range gf.Functions {
		funcs[i] = l.b.Func(fd.Name, l.vs(fd.Params)...)
	}
	for _, od := range gf.Objects {
		kind, err := ParseObjectKind(od.Kind)
		if err != nil {
			return fmt.Errorf("object %s: %w", od.Name, err)
		}
		if kind == FunctionObject {
			fb, ok := l.b.Function(od.Function)
			if !ok {
				return fmt.Errorf("function object %s of unknown function %q", od.Name, od.Function)
			}
			l.b.FunctionObject(od.Name, fb)
		} else {
			l.b.Object(od.Name, kind)
		}
	}
	for _, fd := range gf.Fields {
		o, err := l.obj(fd.Object)
		if err != nil {
			return err
		}
		for _, off := range fd.Offsets {
			l.b.FieldObject(o, off)
		}
	}
	for i, fd := range gf.Functions {
		if err := l.loadBody(funcs[i], fd); err != nil {
			return fmt.Errorf("function %s: %w", fd.Name, err)
		}
	}
	for _, md := range gf.MemoryEdges {
		if err := l.loadMemEdge(md); err != nil {
			return err
		}
	}
	return nil
}

//gocyclo:ignore
func (l *loader) loadBody(fb *FuncBuilder, fd funcDecl) error {
	instrs := map[string]InstrID{}
	for _, sd := range fd.Body {
		var n *Node
		var cs *CallSite
		switch sd.Op {
		case "addr":
			o, err := l.obj(sd.Obj)
			if err != nil {
				return err
			}
			n = fb.Addr(l.v(sd.Dst), o)
		case "copy":
			n = fb.Copy(l.v(sd.Dst), l.v(sd.Src))
		case "phi":
			n = fb.Phi(l.v(sd.Dst), l.vs(sd.Srcs)...)
		case "gep":
			n = fb.Gep(l.v(sd.Dst), l.v(sd.Src), sd.Offset)
		case "vgep":
			n = fb.VariantGep(l.v(sd.Dst), l.v(sd.Src))
		case "load":
			n = fb.Load(l.v(sd.Dst), l.v(sd.Src))
		case "store":
			n = fb.Store(l.v(sd.Dst), l.v(sd.Src))
		case "call":
			cs = fb.Call(sd.Callee, l.v(sd.Ret), l.vs(sd.Args)...)
			cs.Package = sd.Package
			if sd.Obj != "" {
				o, err := l.obj(sd.Obj)
				if err != nil {
					return err
				}
				l.b.AllocObject(cs, o)
			}
		case "icall":
			cs = fb.CallIndirect(l.v(sd.FunPtr), l.v(sd.Ret), l.vs(sd.Args)...)
		case "vcall":
			cs = fb.CallVirtual(l.v(sd.VTable), l.v(sd.Ret), l.vs(sd.Args)...)
		case "mem":
			n = fb.Mem(sd.ID)
		case "block":
			fb.NewBlock()
		default:
			return fmt.Errorf("unknown operation %q", sd.Op)
		}
		if cs != nil {
			for _, t := range sd.Targets {
				target, ok := l.b.Function(t)
				if !ok {
					return fmt.Errorf("unknown call target %q", t)
				}
				l.b.AddTarget(cs, target)
			}
		}
		if sd.ID == "" {
			continue
		}
		switch {
		case n != nil:
			n.Label = sd.ID
			l.stmts[sd.ID] = n
			instrs[sd.ID] = n.Instr
		case cs != nil:
			l.calls[sd.ID] = cs
			instrs[sd.ID] = cs.Instr
		}
	}
	if fd.Return != "" {
		fb.Return(l.v(fd.Return))
	}
	for _, j := range fd.Jumps {
		from, ok1 := instrs[j[0]]
		to, ok2 := instrs[j[1]]
		if !ok1 || !ok2 {
			return fmt.Errorf("jump between unknown statements %s and %s", j[0], j[1])
		}
		fb.Jump(from, to)
	}
	return nil
}

func (l *loader) loadMemEdge(md memEdgeDecl) error {
	from, ok1 := l.stmts[md.From]
	to, ok2 := l.stmts[md.To]
	if !ok1 || !ok2 {
		return fmt.Errorf("memory edge between unknown statements %s and %s", md.From, md.To)
	}
	objs := make([]NodeID, 0, len(md.Objects))
	for _, name := range md.Objects {
		o, err := l.obj(name)
		if err != nil {
			return err
		}
		objs = append(objs, o)
	}
	switch md.Kind {
	case "", "intra":
		l.b.MemEdge(from, to, objs...)
	case "call", "ret":
		cs, ok := l.calls[md.CallSite]
		if !ok {
			return fmt.Errorf("memory edge at unknown call site %q", md.CallSite)
		}
		if md.Kind == "call" {
			l.b.MemCallEdge(from, to, cs, objs...)
		} else {
			l.b.MemRetEdge(from, to, cs, objs...)
		}
	default:
		return fmt.Errorf("unknown memory edge kind %q", md.Kind)
	}
	return nil
}
