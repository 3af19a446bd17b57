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

package uaf

import (
	"io"
	"os"
	"testing"

	"github.com/rainoftime/SVF/analysis/config"
	"github.com/rainoftime/SVF/analysis/pts"
	"github.com/rainoftime/SVF/analysis/vfg"
	"gopkg.in/yaml.v3"
)

func newTestChecker(g vfg.Graph, maxCtx int, maxAlarms int) *Checker {
	cfg := config.NewDefault()
	cfg.MaxContextLength = maxCtx
	cfg.MaxAlarms = maxAlarms
	logger := config.NewLogGroup(cfg)
	logger.SetAllOutput(io.Discard)
	return NewChecker(g, cfg, logger)
}

func build(t *testing.T, b *vfg.Builder) *vfg.MemGraph {
	t.Helper()
	g, err := b.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return g
}

func checkUses(t *testing.T, paths []BugPath, uses ...*vfg.Node) {
	t.Helper()
	if len(paths) != len(uses) {
		t.Fatalf("expected %d bug paths, got %d: %v", len(uses), len(paths), paths)
	}
	for i, use := range uses {
		p := paths[i]
		if p.Use != use.ID || p.UseInstr != use.Instr {
			t.Errorf("bug path %d should end at %s, got %s", i, use, p)
		}
		if len(p.Nodes) == 0 || p.Nodes[len(p.Nodes)-1] != use.ID || p.Nodes[0] != p.Source {
			t.Errorf("bug path %d should go from its source to its use, got %v", i, p.Nodes)
		}
		if len(p.Trace) != len(p.Nodes) {
			t.Errorf("bug path %d: trace and nodes differ in length", i)
		}
	}
}

func TestUseAfterFreeSameFunction(t *testing.T) {
	b := vfg.NewBuilder()
	p, x, y := b.Pointer("p"), b.Pointer("x"), b.Pointer("y")
	main := b.Func("main")
	main.Call("malloc", p)
	main.Load(y, p)
	free := main.Call("free", pts.InvalidID, p)
	use := main.Load(x, p)
	g := build(t, b)

	c := newTestChecker(g, 3, 0)
	srcs := c.Sources()
	if len(srcs) != 1 || srcs[0].CallSite != free {
		t.Fatalf("expected the call to free as only source, got %v", srcs)
	}
	paths := c.Run()
	checkUses(t, paths, use)
	if paths[0].DeallocSite != free.ID || paths[0].Origin != free.ID {
		t.Errorf("the use should follow the call to free, got %s", paths[0])
	}
	if st := c.Stats(); st.Sources != 1 || st.Reports != 1 {
		t.Errorf("unexpected stats %s", st)
	}
}

func TestUseBeforeFree(t *testing.T) {
	b := vfg.NewBuilder()
	p, x := b.Pointer("p"), b.Pointer("x")
	main := b.Func("main")
	main.Call("malloc", p)
	main.Load(x, p)
	main.Call("free", pts.InvalidID, p)
	g := build(t, b)

	if paths := newTestChecker(g, 3, 0).Run(); len(paths) != 0 {
		t.Errorf("a load before the free is not a bug, got %v", paths)
	}
}

func TestUseAfterFreeInCallee(t *testing.T) {
	// main frees p, then calls h(p) which dereferences it
	b := vfg.NewBuilder()
	p, q, y := b.Pointer("p"), b.Pointer("q"), b.Pointer("y")
	main := b.Func("main")
	main.Call("malloc", p)
	main.Call("free", pts.InvalidID, p)
	main.Call("h", pts.InvalidID, p)
	h := b.Func("h", q)
	use := h.Load(y, q)
	g := build(t, b)

	checkUses(t, newTestChecker(g, 3, 0).Run(), use)

	// entering h requires a call string of length 1
	c := newTestChecker(g, 0, 0)
	if paths := c.Run(); len(paths) != 0 {
		t.Errorf("the use in h should be out of reach, got %v", paths)
	}
	if c.Stats().Pruned == 0 {
		t.Errorf("the call to h should have been pruned")
	}
}

func TestUseAfterFreeAcrossCall(t *testing.T) {
	// f calls g(p), g frees its parameter, and f dereferences p after the call
	b := vfg.NewBuilder()
	p, a, x := b.Pointer("p"), b.Pointer("a"), b.Pointer("x")
	f := b.Func("f")
	f.Call("malloc", p)
	call := f.Call("g", pts.InvalidID, p)
	use := f.Load(x, p)
	g := b.Func("g", a)
	free := g.Call("free", pts.InvalidID, a)
	vg := build(t, b)

	c := newTestChecker(vg, 3, 0)
	paths := c.Run()
	checkUses(t, paths, use)
	if paths[0].DeallocSite != free.ID || paths[0].Origin != call.ID {
		t.Errorf("the use should follow the call to g, got %s", paths[0])
	}
	// the source, the formal parameter, the argument of g, the definition of p and the use
	if len(paths[0].Nodes) != 5 {
		t.Errorf("unexpected path %s", paths[0])
	}
}

func TestUseAfterFreeThroughMemory(t *testing.T) {
	b := vfg.NewBuilder()
	p, q, r, x := b.Pointer("p"), b.Pointer("q"), b.Pointer("r"), b.Pointer("x")
	o := b.Object("o", vfg.StackObject)
	main := b.Func("main")
	main.Call("malloc", p)
	main.Addr(q, o)
	main.Call("free", pts.InvalidID, p)
	// storing the freed pointer is not a use, dereferencing it after loading it back is
	main.Store(q, p)
	main.Load(r, q)
	use := main.Load(x, r)
	g := build(t, b)

	checkUses(t, newTestChecker(g, 3, 0).Run(), use)
}

func TestDoubleFree(t *testing.T) {
	b := vfg.NewBuilder()
	p := b.Pointer("p")
	main := b.Func("main")
	main.Call("malloc", p)
	main.Call("free", pts.InvalidID, p)
	second := main.Call("free", pts.InvalidID, p)
	g := build(t, b)

	c := newTestChecker(g, 3, 0)
	if n := len(c.Sources()); n != 2 {
		t.Fatalf("expected two sources, got %d", n)
	}
	checkUses(t, c.Run(), g.ActualParmNode(second.ID, 0))
}

func TestStoreThroughFreedPointer(t *testing.T) {
	b := vfg.NewBuilder()
	p, v := b.Pointer("p"), b.Pointer("v")
	o := b.Object("o", vfg.HeapObject)
	main := b.Func("main")
	main.Addr(v, o)
	main.Call("malloc", p)
	main.Call("free", pts.InvalidID, p)
	use := main.Store(p, v)
	g := build(t, b)

	checkUses(t, newTestChecker(g, 3, 0).Run(), use)
}

// recursiveGraph is
//
//	main: p = malloc(); g(p); x = *p
//	g(a): if (...) g(a) else free(a)
func recursiveGraph(t *testing.T) (*vfg.MemGraph, *vfg.Node) {
	b := vfg.NewBuilder()
	p, a, x := b.Pointer("p"), b.Pointer("a"), b.Pointer("x")
	main := b.Func("main")
	main.Call("malloc", p)
	main.Call("g", pts.InvalidID, p)
	use := main.Load(x, p)
	g := b.Func("g", a)
	g.Call("g", pts.InvalidID, a)
	g.NewBlock()
	g.Call("free", pts.InvalidID, a)
	return build(t, b), use
}

func TestRecursiveDealloc(t *testing.T) {
	tests := []struct {
		maxCtx  int
		reports int
	}{
		{maxCtx: 0, reports: 0},
		{maxCtx: 1, reports: 1},
		{maxCtx: 3, reports: 1},
		{maxCtx: 8, reports: 1},
	}
	for _, test := range tests {
		g, use := recursiveGraph(t)
		c := newTestChecker(g, test.maxCtx, 0)
		paths := c.Run()
		if len(paths) != test.reports {
			t.Errorf("max context %d: expected %d reports, got %v", test.maxCtx, test.reports, paths)
			continue
		}
		for _, p := range paths {
			if p.Use != use.ID {
				t.Errorf("max context %d: unexpected path %s", test.maxCtx, p)
			}
		}
		if c.Stats().Pruned == 0 {
			t.Errorf("max context %d: the recursion should be pruned", test.maxCtx)
		}
	}
}

func TestContextBound(t *testing.T) {
	for _, maxCtx := range []int{0, 1, 2, 3, 5} {
		g, _ := recursiveGraph(t)
		c := newTestChecker(g, maxCtx, 0)
		c.Run()
		st := c.Stats()
		if st.MaxBackwardCtx > maxCtx+1 || st.MaxForwardCtx > maxCtx {
			t.Errorf("max context %d: call strings exceed the bound: %s", maxCtx, st)
		}
	}
}

func twoUsesGraph(t *testing.T) *vfg.MemGraph {
	b := vfg.NewBuilder()
	p, x, y := b.Pointer("p"), b.Pointer("x"), b.Pointer("y")
	main := b.Func("main")
	main.Call("malloc", p)
	main.Call("free", pts.InvalidID, p)
	main.Load(x, p)
	main.Load(y, p)
	return build(t, b)
}

func TestMaxAlarms(t *testing.T) {
	g := twoUsesGraph(t)
	if n := len(newTestChecker(g, 3, 0).Run()); n != 2 {
		t.Errorf("expected 2 reports without limit, got %d", n)
	}
	if n := len(newTestChecker(g, 3, 1).Run()); n != 1 {
		t.Errorf("expected 1 report with max-alarms 1, got %d", n)
	}
}

func TestSearchStops(t *testing.T) {
	g := twoUsesGraph(t)
	c := newTestChecker(g, 3, 0)
	n := 0
	c.Search(c.Sources()[0], func(BugPath) bool {
		n++
		return false
	})
	if n != 1 {
		t.Errorf("the search should stop after the first report, got %d", n)
	}
}

func TestWriteReport(t *testing.T) {
	g := twoUsesGraph(t)
	paths := newTestChecker(g, 3, 0).Run()
	name, err := WriteReport(t.TempDir(), paths)
	if err != nil {
		t.Fatalf("could not write report: %v", err)
	}
	b, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("could not read report: %v", err)
	}
	var read []BugPath
	if err := yaml.Unmarshal(b, &read); err != nil {
		t.Fatalf("could not parse report: %v", err)
	}
	if len(read) != len(paths) {
		t.Fatalf("expected %d paths in the report, got %d", len(paths), len(read))
	}
	for i := range read {
		if read[i].Use != paths[i].Use || len(read[i].Nodes) != len(paths[i].Nodes) {
			t.Errorf("path %d differs after writing: %s", i, read[i])
		}
	}
}
