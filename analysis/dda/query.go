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

package dda

import (
	"github.com/rainoftime/SVF/analysis/callstring"
	"github.com/rainoftime/SVF/analysis/pts"
	"github.com/rainoftime/SVF/analysis/vfg"
)

// item identifies a points-to set computed during a query: the points-to set of the variable defined at node, or
// the contents of the object obj at node when mem is true, in the calling context ctx.
type item struct {
	mem  bool
	obj  vfg.NodeID
	node vfg.VFNodeID
	ctx  string
}

// query is the state of a single points-to query. Items are recomputed until none of their points-to sets change;
// within an iteration each item is computed at most once, and an item reached again while it is being computed
// contributes its current set.
type query struct {
	s *Solver

	// steps is the number of traversal steps taken, and exhausted is set when it exceeds the budget
	steps     int
	exhausted bool

	sets    map[item]*pts.Set
	visited map[item]bool
	changed bool
}

func newQuery(s *Solver) *query {
	return &query{s: s, sets: map[item]*pts.Set{}}
}

// run computes the points-to set of the valid pointer id. If the query runs out of budget, the result must be
// discarded.
func (q *query) run(id vfg.NodeID) *pts.Set {
	def := q.s.prog.DefiningNode(id)
	var res *pts.Set
	for {
		q.changed = false
		q.visited = map[item]bool{}
		res = q.findPT(def, callstring.Stack{})
		if q.exhausted || !q.changed {
			return res.Copy()
		}
	}
}

// step consumes one unit of budget and returns false when the budget is exhausted
func (q *query) step() bool {
	if q.exhausted {
		return false
	}
	q.steps++
	if q.steps > q.s.budget {
		q.exhausted = true
	}
	return !q.exhausted
}

// enter returns the current set of it, and whether it must be computed in this iteration
func (q *query) enter(it item) (*pts.Set, bool) {
	cur, ok := q.sets[it]
	if !ok {
		cur = pts.NewSet()
		q.sets[it] = cur
	}
	if q.visited[it] {
		return cur, false
	}
	q.visited[it] = true
	return cur, q.step()
}

func (q *query) update(cur *pts.Set, res *pts.Set) *pts.Set {
	if cur.Union(res) {
		q.changed = true
	}
	return cur
}

// backward applies the edge e, traversed backwards, to the calling context. Returning from a callee pushes the call
// site; entering the callers of a function pops the call site if the context is not empty, and must match it.
func (q *query) backward(ctx callstring.Stack, e *vfg.Edge) (callstring.Stack, bool) {
	switch {
	case e.IsRet():
		return ctx.PushBounded(callstring.FromEdge(e), q.s.maxCtxLen), true
	case e.IsCall():
		top, ok := ctx.Top()
		if !ok {
			return ctx, true
		}
		if top.CallSite == e.CallSite {
			return ctx.Pop(), true
		}
		return ctx, false
	default:
		return ctx, true
	}
}

// operand returns the points-to set of the top-level variable v used in the same function as its definition
func (q *query) operand(v vfg.NodeID, ctx callstring.Stack) *pts.Set {
	def := q.s.prog.DefiningNode(v)
	if def == nil {
		return nil
	}
	return q.findPT(def, ctx)
}

// findPT returns the points-to set of the variable defined by n
//
//gocyclo:ignore
func (q *query) findPT(n *vfg.Node, ctx callstring.Stack) *pts.Set {
	prog := q.s.prog
	cur, compute := q.enter(item{node: n.ID, ctx: ctx.Key()})
	if !compute {
		return cur
	}
	res := pts.NewSet()
	switch n.Kind {
	case vfg.Addr:
		vfg.Assertf(prog.IsObject(n.Obj), "%s takes the address of %s, which is not an object", n, prog.Name(n.Obj))
		res.Insert(n.Obj)
	case vfg.Copy, vfg.ActualParm, vfg.FormalRet:
		res.Union(q.operand(n.Src, ctx))
	case vfg.Phi:
		for _, src := range n.Srcs {
			res.Union(q.operand(src, ctx))
		}
	case vfg.FormalParm:
		res.Union(q.interprocedural(n, ctx))
	case vfg.ActualRet:
		res.Union(q.ret(n, ctx))
	case vfg.Gep, vfg.VariantGep:
		res.Union(q.gep(n, q.operand(n.Src, ctx)))
	case vfg.Load:
		bh := prog.BlackHole()
		q.operand(n.Src, ctx).ForEach(func(o vfg.NodeID) {
			if o == bh {
				res.Insert(bh)
			} else {
				res.Union(q.findMem(o, n, ctx))
			}
		})
	default:
		vfg.Assertf(false, "%s does not define a top-level pointer", n)
	}
	return q.update(cur, res)
}

// interprocedural returns the union of the points-to sets flowing into n through its call or return edges
func (q *query) interprocedural(n *vfg.Node, ctx callstring.Stack) *pts.Set {
	res := pts.NewSet()
	for _, e := range q.s.prog.InEdges(n) {
		if !e.IsDirect() {
			continue
		}
		if next, ok := q.backward(ctx, e); ok {
			res.Union(q.findPT(e.Src, next))
		}
	}
	return res
}

// ret returns the points-to set of the value returned by a call. Allocation functions return their heap object, and
// functions outside the program return what the base analysis reports, or the unknown object.
func (q *query) ret(n *vfg.Node, ctx callstring.Stack) *pts.Set {
	prog := q.s.prog
	cs := prog.CallSite(n.CallSite)
	vfg.Assertf(cs != nil, "%s returns from unknown call site %d", n, n.CallSite)
	if !cs.IsIndirect() && q.s.isAlloc(cs.Package, cs.Callee) {
		return pts.NewSet(prog.AllocObjectOf(cs.ID))
	}
	if hasDirectInEdge(prog, n) || !prog.IsValidTopLevelPtr(n.Dst) {
		return q.interprocedural(n, ctx)
	}
	res := q.s.base.PointsTo(n.Dst).Copy()
	if res.IsEmpty() {
		res.Insert(prog.BlackHole())
	}
	return res
}

func hasDirectInEdge(prog vfg.Program, n *vfg.Node) bool {
	for _, e := range prog.InEdges(n) {
		if e.IsDirect() {
			return true
		}
	}
	return false
}

// findMem returns the points-to set of the contents of the object o before n executes, i.e. the union of the
// values stored in o by the stores reaching n through memory edges
func (q *query) findMem(o vfg.NodeID, n *vfg.Node, ctx callstring.Stack) *pts.Set {
	prog := q.s.prog
	cur, compute := q.enter(item{mem: true, obj: o, node: n.ID, ctx: ctx.Key()})
	if !compute {
		return cur
	}
	res := pts.NewSet()
	for _, e := range prog.InEdges(n) {
		if !e.Carries(o) {
			continue
		}
		next, ok := q.backward(ctx, e)
		if !ok {
			continue
		}
		src := e.Src
		if src.Kind == vfg.Store {
			ptr := q.operand(src.Dst, next)
			if ptr.Has(prog.BlackHole()) || q.s.summarize(ptr).Has(q.s.summaryOf(o)) {
				res.Union(q.operand(src.Src, next))
			}
		}
		// stores are weak updates: the previous contents of o flow through
		res.Union(q.findMem(o, src, next))
	}
	return q.update(cur, res)
}

// gep returns the field objects accessed by n from the objects in src. Sentinel objects are their own fields, a
// variant access collapses the object into its field-insensitive object, and fields of field-insensitive objects are
// the field-insensitive object.
func (q *query) gep(n *vfg.Node, src *pts.Set) *pts.Set {
	prog := q.s.prog
	res := pts.NewSet()
	src.ForEach(func(o vfg.NodeID) {
		switch {
		case prog.IsBlackHoleOrConstantObject(o):
			res.Insert(o)
		case n.Kind == vfg.VariantGep:
			prog.MarkFieldInsensitive(o)
			res.Insert(prog.FieldInsensitiveObjectOf(o))
		case prog.IsFieldInsensitive(o):
			res.Insert(prog.FieldInsensitiveObjectOf(o))
		default:
			res.Insert(prog.FieldObjectAt(o, n.Offset))
		}
	})
	return res
}
