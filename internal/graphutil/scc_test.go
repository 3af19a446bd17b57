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
	"math/rand"
	"testing"

	"golang.org/x/exp/slices"
)

type adjacency [][]int

func (a adjacency) nodes() []int {
	nodes := make([]int, len(a))
	for i := range nodes {
		nodes[i] = i
	}
	return nodes
}

func (a adjacency) successors(v int) []int {
	return a[v]
}

func (a adjacency) digraph() *Digraph {
	d := NewDigraph(len(a))
	for v, succs := range a {
		for _, w := range succs {
			d.AddEdge(v, w)
		}
	}
	return d
}

// checkComponents checks that every node is in exactly one component, that the nodes of a component reach each
// other, and that no component reaches a later one
func checkComponents(t *testing.T, a adjacency, sccs [][]int) {
	t.Helper()
	d := a.digraph()
	seen := map[int]bool{}
	for i, c := range sccs {
		for _, x := range c {
			if seen[x] {
				t.Fatalf("%v: node %d is in two components", a, x)
			}
			seen[x] = true
			for _, y := range c {
				if !d.PathExists(x, y) {
					t.Fatalf("%v: %d and %d are in the same component but %d does not reach %d", a, x, y, x, y)
				}
			}
			for _, later := range sccs[i+1:] {
				for _, y := range later {
					if d.PathExists(x, y) {
						t.Fatalf("%v: %d reaches %d of a later component", a, x, y)
					}
				}
			}
		}
	}
	if len(seen) != len(a) {
		t.Fatalf("%v: %d nodes in components, expected %d", a, len(seen), len(a))
	}
}

func randomAdjacency(r *rand.Rand, size int) adjacency {
	a := make(adjacency, size)
	for v := range a {
		for j := 0; j < 3; j++ {
			if r.Float32() < 0.7 {
				a[v] = append(a[v], r.Intn(size))
			}
		}
	}
	return a
}

func TestComponents(t *testing.T) {
	graphs := []adjacency{
		{{0}},
		{{}},
		{{0, 1}, {}},
		{{1, 2}, {3}, {1}, {}},
		{{1, 2}, {3}, {1, 0}, {}},
		{{3, 1}, {0}, {1}, {3}},
	}
	for _, a := range graphs {
		checkComponents(t, a, Components(a.nodes(), a.successors))
	}
	r := rand.New(rand.NewSource(68348438))
	for _, size := range []int{10, 50, 100} {
		for i := 0; i < 20; i++ {
			a := randomAdjacency(r, size)
			checkComponents(t, a, Components(a.nodes(), a.successors))
		}
	}
}

func TestRecursive(t *testing.T) {
	tests := []struct {
		graph adjacency
		want  []int
	}{
		{graph: adjacency{{}, {}}, want: nil},
		{graph: adjacency{{0}, {}}, want: []int{0}},
		{graph: adjacency{{1}, {2}, {0}, {}}, want: []int{0, 1, 2}},
		{graph: adjacency{{1}, {}, {3}, {2}}, want: []int{2, 3}},
	}
	for _, test := range tests {
		got := Recursive(test.graph.nodes(), test.graph.successors)
		slices.Sort(got)
		if !slices.Equal(got, test.want) {
			t.Errorf("%v: expected recursive nodes %v, got %v", test.graph, test.want, got)
		}
	}
}
