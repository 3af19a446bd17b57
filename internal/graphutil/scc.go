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

// Components returns the strongly connected components of the graph given by its nodes and successors, with
// Tarjan's algorithm. The components are in reverse topological order: a component appears before the components
// that can reach it. The order of the nodes within a component is arbitrary.
func Components[T comparable](nodes []T, successors func(T) []T) [][]T {
	t := &tarjan[T]{
		successors: successors,
		index:      map[T]int{},
		low:        map[T]int{},
		onStack:    map[T]bool{},
	}
	for _, v := range nodes {
		if _, ok := t.index[v]; !ok {
			t.visit(v)
		}
	}
	return t.sccs
}

// Recursive returns the nodes that belong to a cycle: the nodes of components with more than one node, and the
// nodes with an edge to themselves. The nodes are in the order of the components.
func Recursive[T comparable](nodes []T, successors func(T) []T) []T {
	var rec []T
	for _, c := range Components(nodes, successors) {
		if len(c) > 1 || selfLoop(c[0], successors) {
			rec = append(rec, c...)
		}
	}
	return rec
}

func selfLoop[T comparable](v T, successors func(T) []T) bool {
	for _, w := range successors(v) {
		if w == v {
			return true
		}
	}
	return false
}

type tarjan[T comparable] struct {
	successors func(T) []T
	next       int
	index      map[T]int
	low        map[T]int
	stack      []T
	onStack    map[T]bool
	sccs       [][]T
}

func (t *tarjan[T]) visit(v T) {
	t.index[v] = t.next
	t.low[v] = t.next
	t.next++
	t.stack = append(t.stack, v)
	t.onStack[v] = true
	for _, w := range t.successors(v) {
		if _, ok := t.index[w]; !ok {
			t.visit(w)
			t.low[v] = min(t.low[v], t.low[w])
		} else if t.onStack[w] {
			t.low[v] = min(t.low[v], t.index[w])
		}
	}
	if t.low[v] != t.index[v] {
		return
	}
	var scc []T
	for {
		w := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[w] = false
		scc = append(scc, w)
		if w == v {
			break
		}
	}
	t.sccs = append(t.sccs, scc)
}
