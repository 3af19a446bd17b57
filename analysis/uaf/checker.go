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

// Package uaf implements a use-after-free checker over the value-flow graph.
//
// For every call to a deallocation function, the checker searches backwards from the freed argument for the
// definitions of the freed value. Once the search has crossed back over the call that frees the value, it searches
// forwards from each definition for dereferences of the value that are control-flow reachable from that call.
// Call and return edges are matched with call strings bounded by the max-context-length option.
package uaf

import (
	"github.com/rainoftime/SVF/analysis/callstring"
	"github.com/rainoftime/SVF/analysis/config"
	"github.com/rainoftime/SVF/analysis/vfg"
)

// Source is the freed argument of a call to a deallocation function
type Source struct {
	Node     *vfg.Node
	CallSite *vfg.CallSite
}

// Checker searches use-after-free bug paths
type Checker struct {
	prog      vfg.Graph
	config    *config.Config
	logger    *config.LogGroup
	maxCtxLen int
	stats     Stats
}

// NewChecker returns a checker for the program
func NewChecker(prog vfg.Graph, cfg *config.Config, logger *config.LogGroup) *Checker {
	maxCtxLen := cfg.MaxContextLength
	if maxCtxLen < 0 {
		maxCtxLen = 0
	}
	return &Checker{prog: prog, config: cfg, logger: logger, maxCtxLen: maxCtxLen}
}

// Stats returns the statistics of the searches run so far
func (c *Checker) Stats() Stats {
	return c.stats
}

// Sources returns the first argument of every call to a deallocation function, in call site order
func (c *Checker) Sources() []Source {
	var sources []Source
	for _, cs := range c.prog.CallSites() {
		if !c.config.IsDealloc(cs.Package, cs.Callee) {
			continue
		}
		ap := c.prog.ActualParmNode(cs.ID, 0)
		if ap == nil {
			c.logger.Debugf("%s does not free a pointer", cs)
			continue
		}
		sources = append(sources, Source{Node: ap, CallSite: cs})
	}
	return sources
}

// Run searches the bug paths of every source, until the maximum number of alarms is reached
func (c *Checker) Run() []BugPath {
	var paths []BugPath
	for _, src := range c.Sources() {
		c.Search(src, func(p BugPath) bool {
			paths = append(paths, p)
			return !c.config.ReachedMaxAlarms(len(paths))
		})
		if c.config.ReachedMaxAlarms(len(paths)) {
			c.logger.Infof("reached the maximum number of alarms (%d)", c.config.MaxAlarms)
			break
		}
	}
	c.logger.Debugf("use-after-free search done: %s", c.stats)
	return paths
}

// Search calls yield with each bug path starting at src, and stops when yield returns false
func (c *Checker) Search(src Source, yield func(BugPath) bool) {
	c.stats.Sources++
	s := &search{
		c:        c,
		src:      src,
		yield:    yield,
		bwSeen:   map[bwKey]bool{},
		fwSeen:   map[fwKey]bool{},
		reported: map[reportKey]bool{},
	}
	ctx := callstring.New(callstring.Entry{CallSite: src.CallSite.ID})
	s.backward(src.Node, nil, ctx)
}

type bwKey struct {
	node vfg.VFNodeID
	ctx  string
}

type fwKey struct {
	node   vfg.VFNodeID
	prev   vfg.VFNodeID
	ctx    string
	origin vfg.CallSiteID
	tag    bool
}

type reportKey struct {
	use    vfg.VFNodeID
	origin vfg.CallSiteID
}

// search is the state of the search from one source
type search struct {
	c     *Checker
	src   Source
	yield func(BugPath) bool

	// stopped is set when yield returns false
	stopped bool

	// path is the sequence of nodes from the source to the current node
	path []*vfg.Node

	bwSeen   map[bwKey]bool
	fwSeen   map[fwKey]bool
	reported map[reportKey]bool
}

func idOf(n *vfg.Node) vfg.VFNodeID {
	if n == nil {
		return -1
	}
	return n.ID
}

// backward visits the definitions of the value of cur, prev being the node visited before cur
func (s *search) backward(cur, prev *vfg.Node, ctx callstring.Stack) {
	if s.stopped {
		return
	}
	if ctx.Len() > s.c.maxCtxLen+1 {
		s.c.stats.Pruned++
		return
	}
	key := bwKey{node: cur.ID, ctx: ctx.Key()}
	if s.bwSeen[key] {
		return
	}
	s.bwSeen[key] = true
	s.c.stats.MaxBackwardCtx = max(s.c.stats.MaxBackwardCtx, ctx.Len())

	s.path = append(s.path, cur)
	defer func() { s.path = s.path[:len(s.path)-1] }()

	if top, ok := ctx.Top(); ok && ctx.AllCalls() {
		if cs := s.c.prog.CallSite(top.CallSite); cs != nil {
			s.forward(cur, prev, callstring.Stack{}, cs, true)
		}
	}

	for _, e := range s.c.prog.InEdges(cur) {
		if !carriesValueInto(cur, e) {
			continue
		}
		next := ctx
		if e.IsCall() || e.IsRet() {
			var ok bool
			if next, ok = callstring.MatchBackward(ctx, e); !ok {
				continue
			}
		}
		s.backward(e.Src, cur, next)
	}
}

// forward visits the nodes the value of cur flows to, looking for dereferences reachable from the call site origin.
// Uses are reported only while tag is set.
func (s *search) forward(cur, prev *vfg.Node, ctx callstring.Stack, origin *vfg.CallSite, tag bool) {
	if s.stopped {
		return
	}
	if ctx.Len() > s.c.maxCtxLen {
		s.c.stats.Pruned++
		return
	}
	key := fwKey{node: cur.ID, prev: idOf(prev), ctx: ctx.Key(), origin: origin.ID, tag: tag}
	if s.fwSeen[key] {
		return
	}
	s.fwSeen[key] = true
	s.c.stats.MaxForwardCtx = max(s.c.stats.MaxForwardCtx, ctx.Len())

	if len(s.path) == 0 || s.path[len(s.path)-1] != cur {
		s.path = append(s.path, cur)
		defer func() { s.path = s.path[:len(s.path)-1] }()
	}

	v := cur.Var()
	for _, e := range s.c.prog.OutEdges(cur) {
		child := e.Dst
		if child == prev {
			continue
		}
		if e.IsDirect() && s.isUse(child, v, origin) {
			if tag && s.reachable(origin.Instr, child.Instr) {
				s.report(child, origin)
				if s.stopped {
					return
				}
			}
			continue
		}
		if e.IsDirect() && child.Kind == vfg.Load {
			// the loaded value is not the value being tracked
			continue
		}
		next, childTag := ctx, tag
		if e.IsCall() || e.IsRet() {
			if e.CallSite == origin.ID {
				continue
			}
			var ok bool
			if next, ok = callstring.MatchForward(ctx, e); !ok {
				continue
			}
			if cs := s.c.prog.CallSite(e.CallSite); cs != nil && !s.reachable(origin.Instr, cs.Instr) {
				childTag = false
			}
		}
		s.forward(child, cur, next, origin, childTag)
	}
}

// carriesValueInto returns true if the value of n may come from the source of its in-edge e. A load gets its value
// from memory, and a store only passes on its value operand.
func carriesValueInto(n *vfg.Node, e *vfg.Edge) bool {
	switch n.Kind {
	case vfg.Load:
		return !e.IsDirect()
	case vfg.Store:
		return e.IsDirect() && e.Src.Var() == n.Src
	default:
		return true
	}
}

// isUse returns true if n uses the value v as the pointer it dereferences, or frees it at another call site than
// origin
func (s *search) isUse(n *vfg.Node, v vfg.NodeID, origin *vfg.CallSite) bool {
	switch n.Kind {
	case vfg.Load:
		return n.Src == v
	case vfg.Store:
		return n.Dst == v
	case vfg.ActualParm:
		if n.CallSite == origin.ID || n.Src != v {
			return false
		}
		cs := s.c.prog.CallSite(n.CallSite)
		return cs != nil && s.c.config.IsDealloc(cs.Package, cs.Callee)
	default:
		return false
	}
}

// reachable returns whether to is reachable from from. Unknown reachability is treated as reachable.
func (s *search) reachable(from, to vfg.InstrID) bool {
	r, known := s.c.prog.Reachable(from, to)
	return r || !known
}

func (s *search) report(use *vfg.Node, origin *vfg.CallSite) {
	key := reportKey{use: use.ID, origin: origin.ID}
	if s.reported[key] {
		return
	}
	s.reported[key] = true
	s.c.stats.Reports++
	p := newBugPath(s.c.prog, s.src, origin, s.path, use)
	s.c.logger.Debugf("use-after-free: %s", p)
	if !s.yield(p) {
		s.stopped = true
	}
}
