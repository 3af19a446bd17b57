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
	"sync"

	"github.com/rainoftime/SVF/analysis/pts"
	"github.com/rainoftime/SVF/analysis/vfg"
)

const numShards = 16

// cache holds the points-to sets computed during a run, sharded by node id
type cache struct {
	shards [numShards]shard
}

type shard struct {
	mu   sync.RWMutex
	sets map[vfg.NodeID]*pts.Set
}

func newCache() *cache {
	c := &cache{}
	for i := range c.shards {
		c.shards[i].sets = map[vfg.NodeID]*pts.Set{}
	}
	return c
}

func (c *cache) shard(id vfg.NodeID) *shard {
	return &c.shards[int(id)%numShards]
}

func (c *cache) get(id vfg.NodeID) (*pts.Set, bool) {
	sh := c.shard(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	s, ok := sh.sets[id]
	return s, ok
}

// put stores the set for id, unless another query stored one first. It returns the stored set.
func (c *cache) put(id vfg.NodeID, s *pts.Set) *pts.Set {
	sh := c.shard(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if prev, ok := sh.sets[id]; ok {
		return prev
	}
	sh.sets[id] = s
	return s
}

func (c *cache) len() int {
	n := 0
	for i := range c.shards {
		c.shards[i].mu.RLock()
		n += len(c.shards[i].sets)
		c.shards[i].mu.RUnlock()
	}
	return n
}
