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

package candidates

import (
	"io"
	"testing"

	"github.com/rainoftime/SVF/analysis/config"
	"github.com/rainoftime/SVF/analysis/pts"
	"github.com/rainoftime/SVF/analysis/vfg"
	"golang.org/x/exp/slices"
)

func newTestLogger(cfg *config.Config) *config.LogGroup {
	l := config.NewLogGroup(cfg)
	l.SetAllOutput(io.Discard)
	return l
}

func checkValid(t *testing.T, g vfg.Graph, set CandidateSet) {
	for _, id := range set {
		if !g.IsValidTopLevelPtr(id) {
			t.Errorf("candidate %s is not a valid top-level pointer", g.Name(id))
		}
	}
}

func TestAllPointers(t *testing.T) {
	b := vfg.NewBuilder()
	p, q, r, s, u := b.Pointer("p"), b.Pointer("q"), b.Pointer("r"), b.Pointer("s"), b.Pointer("u")
	o := b.Object("o", vfg.HeapObject)
	main := b.Func("main")
	main.Addr(p, o)
	main.Load(q, p)
	main.Load(r, p)
	main.Load(s, q)
	g, err := b.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	base := pts.NewMapOracle()
	tests := []struct {
		name       string
		singleLoad bool
		queries    []string
		want       CandidateSet
	}{
		{"single load", true, nil, CandidateSet{p, q, s}},
		{"all loads", false, nil, CandidateSet{p, q, r, s}},
		{"queries", false, []string{"r", "u"}, CandidateSet{r}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := config.NewDefault()
			cfg.SingleLoad = test.singleLoad
			cfg.Queries = test.queries
			sel := NewAllPointers(g, base, cfg, newTestLogger(cfg))
			got := sel.Collect()
			if !slices.Equal(got, test.want) {
				t.Errorf("expected candidates %v, got %v", test.want, got)
			}
			if got.Contains(u) {
				t.Errorf("u is never defined and should not be a candidate")
			}
			checkValid(t, g, got)
			if again := sel.Collect(); !slices.Equal(again, got) {
				t.Errorf("collect should return the same candidates")
			}
		})
	}
}

func TestIndirectCalls(t *testing.T) {
	b := vfg.NewBuilder()
	fptr, vtbl, p := b.Pointer("fptr"), b.Pointer("vtbl"), b.Pointer("p")
	o := b.Object("o", vfg.HeapObject)
	f := b.Func("f")
	fobj := b.FunctionObject("fobj", f)
	vobj := b.Object("vtable", vfg.GlobalObject)
	main := b.Func("main")
	main.Addr(fptr, fobj)
	main.Addr(vtbl, vobj)
	main.Addr(p, o)
	c1 := main.CallIndirect(fptr, pts.InvalidID, p)
	c2 := main.CallVirtual(vtbl, pts.InvalidID, p)
	c3 := main.CallIndirect(fptr, pts.InvalidID)
	main.Call("f", pts.InvalidID)
	g, err := b.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	cfg := config.NewDefault()
	sel, err := New(config.IndirectCalls, g, pts.NewMapOracle(), cfg, newTestLogger(cfg))
	if err != nil {
		t.Fatalf("could not create selector: %v", err)
	}
	if sel.Kind() != config.IndirectCalls {
		t.Errorf("unexpected kind %s", sel.Kind())
	}
	got := sel.Collect()
	if !slices.Equal(got, CandidateSet{fptr, vtbl}) {
		t.Errorf("expected the function and vtable pointers, got %v", got)
	}
	ic := sel.(*IndirectCalls)
	if !slices.Equal(ic.CallSitesOf(fptr), []vfg.CallSiteID{c1.ID, c3.ID}) {
		t.Errorf("unexpected call sites of fptr %v", ic.CallSitesOf(fptr))
	}
	if !slices.Equal(ic.CallSitesOf(vtbl), []vfg.CallSiteID{c2.ID}) {
		t.Errorf("unexpected call sites of vtbl %v", ic.CallSitesOf(vtbl))
	}
}

func TestVirtualCallWithoutVTablePanics(t *testing.T) {
	b := vfg.NewBuilder()
	main := b.Func("main")
	main.CallVirtual(pts.InvalidID, pts.InvalidID)
	g, err := b.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	cfg := config.NewDefault()
	defer func() {
		if _, ok := recover().(*vfg.InvariantError); !ok {
			t.Errorf("expected an invariant violation")
		}
	}()
	NewIndirectCalls(g, pts.NewMapOracle(), cfg, newTestLogger(cfg)).Collect()
}

func TestInstrumentedSourcesMarkers(t *testing.T) {
	b := vfg.NewBuilder()
	p, q := b.Pointer("p"), b.Pointer("q")
	o := b.Object("o", vfg.HeapObject)
	main := b.Func("main")
	main.Addr(p, o)
	main.Addr(q, o)
	main.Call(config.DefaultCheckAliasSetMarker, pts.InvalidID, p)
	main.Call("free", pts.InvalidID, q)
	g, err := b.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	cfg := config.NewDefault()
	sel := NewInstrumentedSources(g, pts.NewMapOracle(), cfg, newTestLogger(cfg))
	if got := sel.Collect(); !slices.Equal(got, CandidateSet{p}) {
		t.Errorf("only the marked pointer should be selected, got %v", got)
	}
	if len(sel.DemandSizes) != 1 || len(sel.BaseSizes) != 1 {
		t.Fatalf("size vectors should have one entry per candidate")
	}
	sel.SetAliasSetSize(0, 4, 2)
	if sel.BaseSizes[0] != 4 || sel.DemandSizes[0] != 2 {
		t.Errorf("sizes not recorded")
	}
}

func TestInstrumentedSourcesFallback(t *testing.T) {
	b := vfg.NewBuilder()
	p, q, r := b.Pointer("p"), b.Pointer("q"), b.Pointer("r")
	heap := b.Object("heap", vfg.HeapObject)
	stack := b.Object("stack", vfg.StackObject)
	m := b.Pointer("m")
	main := b.Func("main")
	main.Addr(p, heap)
	main.Addr(q, stack)
	main.Copy(r, p)
	// m comes from an allocation function, unknown to the base analysis
	main.Call("malloc", m)
	main.Call("free", pts.InvalidID, p)
	main.Call("free", pts.InvalidID, q)
	main.Call("free", pts.InvalidID, m)
	// freed twice
	main.Call("_ZdlPv", pts.InvalidID, p)
	main.Call("release", pts.InvalidID, r)
	g, err := b.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	base := pts.NewMapOracle()
	base.Add(p, heap)
	base.Add(q, stack)
	base.Add(r, heap)

	tests := []struct {
		mallocOnly bool
		want       CandidateSet
	}{
		{true, CandidateSet{p, m}},
		{false, CandidateSet{p, q, m}},
	}
	for _, test := range tests {
		cfg := config.NewDefault()
		cfg.MallocOnly = test.mallocOnly
		sel := NewInstrumentedSources(g, base, cfg, newTestLogger(cfg))
		got := sel.Collect()
		if !slices.Equal(got, test.want) {
			t.Errorf("malloc-only=%v: expected %v, got %v", test.mallocOnly, test.want, got)
		}
		checkValid(t, g, got)
	}
}

func TestSourceSinkPairs(t *testing.T) {
	b := vfg.NewBuilder()
	p, q, r, s := b.Pointer("p"), b.Pointer("q"), b.Pointer("r"), b.Pointer("s")
	zero, one := b.Const("zero", 0), b.Const("one", 1)
	o := b.Object("o", vfg.HeapObject)
	main := b.Func("main")
	for _, v := range []vfg.NodeID{p, q, r, s} {
		main.Addr(v, o)
	}
	main.Call(config.DefaultMarkSourceMarker, pts.InvalidID, zero, p)
	main.Call(config.DefaultMarkCheckPairMarker, pts.InvalidID, zero, q)
	// no source with index 1
	main.Call(config.DefaultMarkCheckPairMarker, pts.InvalidID, one, s)
	main.Call(config.DefaultMarkCheckPairMarker, pts.InvalidID, zero, r)
	g, err := b.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	cfg := config.NewDefault()
	sel := NewSourceSinkPairs(g, pts.NewMapOracle(), cfg, newTestLogger(cfg))
	if got := sel.Collect(); !slices.Equal(got, CandidateSet{p}) {
		t.Errorf("p should be the only source, got %v", got)
	}
	if !slices.Equal(sel.Pairs[p], []vfg.NodeID{q, r}) {
		t.Errorf("expected destinations q and r, got %v", sel.Pairs[p])
	}
	if !slices.Equal(sel.DemandResults[p], []bool{true, true}) || !slices.Equal(sel.BaseResults[p], []bool{true, true}) {
		t.Errorf("results should be initialized to true")
	}
	sel.Record(p, 1, true, false)
	if !sel.BaseResults[p][1] || sel.DemandResults[p][1] {
		t.Errorf("results not recorded")
	}
}

func TestMarkerArityPanics(t *testing.T) {
	b := vfg.NewBuilder()
	p := b.Pointer("p")
	o := b.Object("o", vfg.HeapObject)
	main := b.Func("main")
	main.Addr(p, o)
	// the index is not a constant
	main.Call(config.DefaultMarkSourceMarker, pts.InvalidID, p, p)
	g, err := b.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	cfg := config.NewDefault()
	defer func() {
		if _, ok := recover().(*vfg.InvariantError); !ok {
			t.Errorf("expected an invariant violation")
		}
	}()
	NewSourceSinkPairs(g, pts.NewMapOracle(), cfg, newTestLogger(cfg)).Collect()
}

func TestDuplicateSourceIndexPanics(t *testing.T) {
	b := vfg.NewBuilder()
	p := b.Pointer("p")
	q := b.Pointer("q")
	zero := b.Const("zero", 0)
	o := b.Object("o", vfg.HeapObject)
	main := b.Func("main")
	main.Addr(p, o)
	main.Addr(q, o)
	main.Call(config.DefaultMarkSourceMarker, pts.InvalidID, zero, p)
	main.Call(config.DefaultMarkSourceMarker, pts.InvalidID, zero, q)
	g, err := b.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	cfg := config.NewDefault()
	defer func() {
		if _, ok := recover().(*vfg.InvariantError); !ok {
			t.Errorf("expected an invariant violation for the reused index")
		}
	}()
	NewSourceSinkPairs(g, pts.NewMapOracle(), cfg, newTestLogger(cfg)).Collect()
}

func TestNewUnknownStrategy(t *testing.T) {
	cfg := config.NewDefault()
	if _, err := New("everything", nil, nil, cfg, newTestLogger(cfg)); err == nil {
		t.Errorf("expected an error for an unknown strategy")
	}
	for _, kind := range []string{config.AllPointers, config.IndirectCalls, config.InstrumentedSource,
		config.SourceSinkPair} {
		sel, err := New(kind, nil, nil, cfg, newTestLogger(cfg))
		if err != nil || sel.Kind() != kind {
			t.Errorf("could not create selector %s: %v", kind, err)
		}
	}
}
