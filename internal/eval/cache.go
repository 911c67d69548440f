package eval

import (
	"context"
	"sync"

	"xionghan/internal/game"
)

// cacheCap bounds the cache before it is reset wholesale, matching
// engine.go's nnEvalCache reset-on-overflow behaviour rather than an LRU.
const cacheCap = 500_000

// Cache decorates another Evaluator with a position-hash-keyed memo, since
// MCTS playouts frequently transpose into identical positions by different
// move orders (adapted from engine.go's nnEvalCache; generalised from a
// single int score to the full EvalResult since the MCTS core needs both
// value and policy).
type Cache struct {
	inner game.Evaluator

	mu sync.RWMutex
	m  map[uint64]game.EvalResult
}

func NewCache(inner game.Evaluator) *Cache {
	return &Cache{inner: inner, m: make(map[uint64]game.EvalResult, 1<<18)}
}

func (c *Cache) Evaluate(ctx context.Context, pos game.Position) (game.EvalResult, error) {
	key := pos.Key()
	c.mu.RLock()
	res, ok := c.m[key]
	c.mu.RUnlock()
	if ok {
		return res, nil
	}

	res, err := c.inner.Evaluate(ctx, pos)
	if err != nil {
		return game.EvalResult{}, err
	}

	c.mu.Lock()
	if len(c.m) > cacheCap {
		c.m = make(map[uint64]game.EvalResult, 1<<18)
	}
	c.m[key] = res
	c.mu.Unlock()
	return res, nil
}
