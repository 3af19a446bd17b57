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

// Package pts contains the points-to primitives shared by all the analyses: node identifiers, sparse points-to
// sets and the base (whole-program) points-to oracle.
package pts

import (
	"strings"

	"golang.org/x/tools/container/intsets"
)

// NodeID identifies a value or memory object node of the program graph. Identifiers are never reused.
type NodeID int

// InvalidID is the zero NodeID, used when a node is absent.
const InvalidID NodeID = 0

// Set is a points-to set. The representation is a sparse bitvector, which makes union, intersection and emptiness
// tests proportional to the size of the sets and not to the number of nodes in the program.
//
// A nil *Set is a valid empty set for all read-only operations.
type Set struct {
	bits intsets.Sparse
}

// NewSet returns a new set containing ids
func NewSet(ids ...NodeID) *Set {
	s := &Set{}
	for _, id := range ids {
		s.bits.Insert(int(id))
	}
	return s
}

// Insert adds id to the set and returns true if the set changed.
func (s *Set) Insert(id NodeID) bool {
	return s.bits.Insert(int(id))
}

// Has returns true if id is in the set.
func (s *Set) Has(id NodeID) bool {
	if s == nil {
		return false
	}
	return s.bits.Has(int(id))
}

// Len returns the number of elements in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return s.bits.Len()
}

// IsEmpty returns true if the set has no element.
func (s *Set) IsEmpty() bool {
	return s == nil || s.bits.IsEmpty()
}

// Union adds all the elements of other to s, and returns true if s changed.
// @mutates s
func (s *Set) Union(other *Set) bool {
	if other == nil {
		return false
	}
	return s.bits.UnionWith(&other.bits)
}

// Intersects returns true if s and other have at least one element in common.
func (s *Set) Intersects(other *Set) bool {
	if s == nil || other == nil {
		return false
	}
	return s.bits.Intersects(&other.bits)
}

// SubsetOf returns true if every element of s is in other.
func (s *Set) SubsetOf(other *Set) bool {
	if s.IsEmpty() {
		return true
	}
	if other == nil {
		return false
	}
	return s.bits.SubsetOf(&other.bits)
}

// Equals returns true if s and other contain the same elements.
func (s *Set) Equals(other *Set) bool {
	if s.IsEmpty() || other.IsEmpty() {
		return s.IsEmpty() && other.IsEmpty()
	}
	return s.bits.Equals(&other.bits)
}

// Copy returns a fresh set with the same elements as s. The copy of a nil set is an empty non-nil set.
func (s *Set) Copy() *Set {
	c := &Set{}
	if s != nil {
		c.bits.Copy(&s.bits)
	}
	return c
}

// Slice returns the elements of the set in increasing order.
func (s *Set) Slice() []NodeID {
	if s == nil {
		return nil
	}
	ints := s.bits.AppendTo(nil)
	ids := make([]NodeID, len(ints))
	for i, x := range ints {
		ids[i] = NodeID(x)
	}
	return ids
}

// ForEach calls f on every element of the set, in increasing order.
func (s *Set) ForEach(f func(NodeID)) {
	for _, id := range s.Slice() {
		f(id)
	}
}

// String returns a string of the form {1 2 3}
func (s *Set) String() string {
	if s == nil {
		return "{}"
	}
	return s.bits.String()
}

// Format prints the set using the name function to print each element.
func (s *Set) Format(name func(NodeID) string) string {
	var b strings.Builder
	b.WriteString("{")
	for i, id := range s.Slice() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name(id))
	}
	b.WriteString("}")
	return b.String()
}
