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

// Package callstring implements the call strings used as calling contexts by the context-sensitive traversals of
// the value-flow graph.
//
// A Stack is a sequence of unmatched call and return edges. Stacks are values: every operation returns a new stack
// and leaves its receiver unchanged, so a stack can be stored in a traversal frame and shared between branches.
package callstring

import (
	"strconv"
	"strings"

	"github.com/rainoftime/SVF/analysis/vfg"
)

// Entry is a call site crossed by a traversal, in the direction of the call (Ret is false) or of the return
type Entry struct {
	CallSite vfg.CallSiteID
	Ret      bool
}

// FromEdge returns the entry corresponding to crossing the call or return edge e
func FromEdge(e *vfg.Edge) Entry {
	return Entry{CallSite: e.CallSite, Ret: e.IsRet()}
}

func (e Entry) String() string {
	if e.Ret {
		return "r" + strconv.Itoa(int(e.CallSite))
	}
	return "c" + strconv.Itoa(int(e.CallSite))
}

// Stack is a call string. The zero value is the empty call string.
type Stack struct {
	entries []Entry
}

// New returns the stack containing the entries, the last one at the top
func New(entries ...Entry) Stack {
	return Stack{entries: append([]Entry(nil), entries...)}
}

// Len returns the number of entries in the stack
func (s Stack) Len() int {
	return len(s.entries)
}

// IsEmpty returns true when the stack has no entries
func (s Stack) IsEmpty() bool {
	return len(s.entries) == 0
}

// Top returns the entry at the top of the stack. ok is false if the stack is empty.
func (s Stack) Top() (top Entry, ok bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// Push returns the stack with e on top
func (s Stack) Push(e Entry) Stack {
	entries := make([]Entry, len(s.entries), len(s.entries)+1)
	copy(entries, s.entries)
	return Stack{entries: append(entries, e)}
}

// PushBounded returns the stack with e on top, keeping at most k entries by dropping the oldest ones.
// If k <= 0, the result is empty.
func (s Stack) PushBounded(e Entry, k int) Stack {
	if k <= 0 {
		return Stack{}
	}
	p := s.Push(e)
	if len(p.entries) > k {
		p.entries = p.entries[len(p.entries)-k:]
	}
	return p
}

// Pop returns the stack without its top entry. Popping the empty stack returns the empty stack.
func (s Stack) Pop() Stack {
	if len(s.entries) == 0 {
		return s
	}
	return Stack{entries: s.entries[:len(s.entries)-1:len(s.entries)-1]}
}

// AllCalls returns true if every entry of the stack is a call. The empty stack satisfies AllCalls.
func (s Stack) AllCalls() bool {
	for _, e := range s.entries {
		if e.Ret {
			return false
		}
	}
	return true
}

// AllRets returns true if every entry of the stack is a return. The empty stack satisfies AllRets.
func (s Stack) AllRets() bool {
	for _, e := range s.entries {
		if !e.Ret {
			return false
		}
	}
	return true
}

// Entries returns a copy of the entries of the stack, bottom first
func (s Stack) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Key returns a string uniquely identifying the stack, to be used as a map key
func (s Stack) Key() string {
	var b strings.Builder
	for i, e := range s.entries {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(e.String())
	}
	return b.String()
}

func (s Stack) String() string {
	return "[" + s.Key() + "]"
}

// MatchBackward applies the edge e, crossed backwards from its destination to its source, to the stack s. It
// returns the new stack and false if the edge does not match the context.
//
// The top entry is popped when e crosses the same call site in the opposite direction. Otherwise, a call is pushed
// only while the stack holds calls exclusively, and a return is always pushed.
func MatchBackward(s Stack, e *vfg.Edge) (Stack, bool) {
	return match(s, FromEdge(e), false)
}

// MatchForward applies the edge e, crossed forwards from its source to its destination, to the stack s. It is the
// mirror of MatchBackward: a return is pushed only while the stack holds returns exclusively, and a call is always
// pushed.
func MatchForward(s Stack, e *vfg.Edge) (Stack, bool) {
	return match(s, FromEdge(e), true)
}

func match(s Stack, entry Entry, forward bool) (Stack, bool) {
	top, ok := s.Top()
	if !ok {
		return s.Push(entry), true
	}
	if top.CallSite == entry.CallSite && top.Ret != entry.Ret {
		return s.Pop(), true
	}
	// the kind of entry that may only open a context on top of entries of the same kind
	guarded := entry.Ret == forward
	switch {
	case !guarded:
		return s.Push(entry), true
	case forward && s.AllRets():
		return s.Push(entry), true
	case !forward && s.AllCalls():
		return s.Push(entry), true
	default:
		return s, false
	}
}
