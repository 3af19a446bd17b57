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

package pts

// Oracle is a precomputed whole-program points-to analysis. It is used by the demand-driven analyses as a sound
// fallback and as a coarse filter. Sets returned by an Oracle must not be mutated.
type Oracle interface {
	// PointsTo returns the objects the node may point to.
	PointsTo(id NodeID) *Set

	// PointedBy returns the pointers that may point to the object.
	PointedBy(obj NodeID) *Set
}

// MapOracle is an Oracle backed by maps. It is populated with Add before any query is issued.
type MapOracle struct {
	pts map[NodeID]*Set
	rev map[NodeID]*Set
}

// NewMapOracle returns an empty oracle
func NewMapOracle() *MapOracle {
	return &MapOracle{
		pts: map[NodeID]*Set{},
		rev: map[NodeID]*Set{},
	}
}

// Add records that ptr may point to every object in objs, and updates the reverse mapping.
func (m *MapOracle) Add(ptr NodeID, objs ...NodeID) {
	s, ok := m.pts[ptr]
	if !ok {
		s = NewSet()
		m.pts[ptr] = s
	}
	for _, obj := range objs {
		s.Insert(obj)
		r, ok := m.rev[obj]
		if !ok {
			r = NewSet()
			m.rev[obj] = r
		}
		r.Insert(ptr)
	}
}

// PointsTo implements Oracle
func (m *MapOracle) PointsTo(id NodeID) *Set {
	return m.pts[id]
}

// PointedBy implements Oracle
func (m *MapOracle) PointedBy(obj NodeID) *Set {
	return m.rev[obj]
}

// Pointers returns the number of nodes the oracle has a points-to set for.
func (m *MapOracle) Pointers() int {
	return len(m.pts)
}
