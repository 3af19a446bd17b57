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

package graphutil

import (
	"github.com/yourbasic/graph"
	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/topo"
)

// Digraph is a directed graph over the dense vertex set 0..Order()-1, to work with existing graph libraries. It
// implements the methods to satisfy yourbasic's graph.Iterator and Gonum's graph.Directed.
type Digraph struct {
	// succ[v] lists the successors of v in insertion order
	succ [][]int

	// pred[v] lists the predecessors of v in insertion order
	pred [][]int

	// arcs is the set of edges, used to ignore duplicates
	arcs map[[2]int]bool
}

// NewDigraph returns a graph with n vertices and no edge
func NewDigraph(n int) *Digraph {
	return &Digraph{
		succ: make([][]int, n),
		pred: make([][]int, n),
		arcs: map[[2]int]bool{},
	}
}

// AddVertex adds a vertex to the graph and returns its index
func (d *Digraph) AddVertex() int {
	d.succ = append(d.succ, nil)
	d.pred = append(d.pred, nil)
	return len(d.succ) - 1
}

// AddEdge adds the edge u -> v. Duplicate edges are ignored. Both vertices must exist.
func (d *Digraph) AddEdge(u, v int) {
	if d.arcs[[2]int{u, v}] {
		return
	}
	d.arcs[[2]int{u, v}] = true
	d.succ[u] = append(d.succ[u], v)
	d.pred[v] = append(d.pred[v], u)
}

// Successors returns the successors of v. The slice must not be modified.
func (d *Digraph) Successors(v int) []int {
	if v < 0 || v >= len(d.succ) {
		return nil
	}
	return d.succ[v]
}

// NumEdges returns the number of edges of the graph
func (d *Digraph) NumEdges() int {
	return len(d.arcs)
}

// PathExists returns true if there is a path from u to v. A vertex always reaches itself.
func (d *Digraph) PathExists(u, v int) bool {
	from, to := d.Node(int64(u)), d.Node(int64(v))
	if from == nil || to == nil {
		return false
	}
	return topo.PathExistsIn(d, from, to)
}

// CyclicComponents returns the strongly connected components of the graph that contain a cycle, i.e. components
// with more than one vertex or with a self-loop.
func (d *Digraph) CyclicComponents() [][]int {
	var cyclic [][]int
	for _, c := range graph.StrongComponents(d) {
		if len(c) > 1 || d.arcs[[2]int{c[0], c[0]}] {
			cyclic = append(cyclic, c)
		}
	}
	return cyclic
}

// *************** yourbasic graph.Iterator implementation **********************

// Order implements the order of the graph.Iterator interface for the Digraph
func (d *Digraph) Order() int {
	return len(d.succ)
}

// Visit implements the graph.Iterator interface for the Digraph
func (d *Digraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	for _, w := range d.Successors(v) {
		if do(w, 1) {
			return true
		}
	}
	return false
}

// *************** Gonum graph interface implementation **********************

// Node implements the Graph interface
func (d *Digraph) Node(id int64) gonum.Node {
	if id < 0 || id >= int64(len(d.succ)) {
		return nil
	}
	return Vertex(id)
}

// Nodes returns the set of nodes in the graph
func (d *Digraph) Nodes() gonum.Nodes {
	ids := make([]int, len(d.succ))
	for i := range ids {
		ids[i] = i
	}
	return newVertexSet(ids)
}

// From returns the set of nodes reachable in one step from the id
func (d *Digraph) From(id int64) gonum.Nodes {
	return newVertexSet(d.Successors(int(id)))
}

// To returns the set of nodes that reach id in one step
func (d *Digraph) To(id int64) gonum.Nodes {
	if id < 0 || id >= int64(len(d.pred)) {
		return newVertexSet(nil)
	}
	return newVertexSet(d.pred[id])
}

// HasEdgeBetween returns a boolean indicating whether an edge exists between the two node identifiers
func (d *Digraph) HasEdgeBetween(xid, yid int64) bool {
	return d.HasEdgeFromTo(xid, yid) || d.HasEdgeFromTo(yid, xid)
}

// HasEdgeFromTo returns whether there is a directed edge from uid to vid
func (d *Digraph) HasEdgeFromTo(uid, vid int64) bool {
	return d.arcs[[2]int{int(uid), int(vid)}]
}

// Edge returns the edge between the two identifiers (nil if none exists)
func (d *Digraph) Edge(uid, vid int64) gonum.Edge {
	if d.HasEdgeFromTo(uid, vid) {
		return Arc{from: Vertex(uid), to: Vertex(vid)}
	}
	return nil
}

// Vertex is a vertex of a Digraph; it implements Gonum's graph.Node
type Vertex int64

// ID returns the id of the vertex
func (v Vertex) ID() int64 {
	return int64(v)
}

// VertexSet implements the graph.Nodes interface, an iterator over a set of vertices
type VertexSet struct {
	ids []int
	cur int
}

func newVertexSet(ids []int) *VertexSet {
	return &VertexSet{ids: ids, cur: -1}
}

// Len returns the number of vertices remaining in the iterator
func (vs *VertexSet) Len() int {
	return len(vs.ids) - vs.cur - 1
}

// Next advances the iterator, and returns false when it is exhausted
func (vs *VertexSet) Next() bool {
	if vs.cur < len(vs.ids)-1 {
		vs.cur++
		return true
	}
	return false
}

// Reset moves the iterator before its first element
func (vs *VertexSet) Reset() {
	vs.cur = -1
}

// Node returns the current vertex of the iterator
func (vs *VertexSet) Node() gonum.Node {
	if vs.cur < 0 || vs.cur >= len(vs.ids) {
		return nil
	}
	return Vertex(vs.ids[vs.cur])
}

// Arc is a directed edge between two vertices; it implements Gonum's graph.Edge
type Arc struct {
	from Vertex
	to   Vertex
}

// From returns the source of the arc
func (a Arc) From() gonum.Node {
	return a.from
}

// To returns the target of the arc
func (a Arc) To() gonum.Node {
	return a.to
}

// ReversedEdge returns a new arc with the ends reversed
func (a Arc) ReversedEdge() gonum.Edge {
	return Arc{from: a.to, to: a.from}
}
