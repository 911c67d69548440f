package mcts

import "sync"

// transpositionTableCap bounds the table before it is reset wholesale,
// mirroring engine.go's nnEvalCacheCap reset-on-overflow pattern rather
// than an LRU eviction policy.
const transpositionTableCap = 2_000_000

// transpositionTable is a best-effort, racy cross-tree cache keyed by
// position hash (§4.3). Two descents reaching the same position from
// different paths keep their own nodes, but the registered node's
// statistics are added into the node being visited; merges and
// replacements are allowed to race and the
// resulting small amount of double-counted drift is accepted (§9).
type transpositionTable struct {
	mu sync.Mutex
	m  map[uint64]*UCTNode
}

func newTranspositionTable() *transpositionTable {
	return &transpositionTable{m: make(map[uint64]*UCTNode)}
}

// sync looks up hash (§4.3). If a different node is already registered
// canonical for hash, node adopts the registered node's visit/eval
// statistics (best-effort, racy merge — §9); node is then (re-)registered
// as the canonical entry.
func (tt *transpositionTable) sync(hash uint64, node *UCTNode) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	if len(tt.m) >= transpositionTableCap {
		tt.m = make(map[uint64]*UCTNode)
	}
	if existing, ok := tt.m[hash]; ok && existing != node {
		node.mergeFrom(existing)
	}
	tt.m[hash] = node
}

// update re-registers node under hash, replacing whatever was previously
// stored (used after a node's statistics have materially changed, e.g. a
// merge at a different table).
func (tt *transpositionTable) update(hash uint64, node *UCTNode) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.m[hash] = node
}
