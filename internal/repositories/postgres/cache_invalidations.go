package postgres

import "context"

// cacheInvalidations collects cache work queued during a transaction. A cache
// entry dropped before commit can be refilled from pre-commit state by a
// concurrent reader, so transactional repositories queue their invalidations
// here and WithTransaction flushes the queue after the commit.
type cacheInvalidations struct {
	fns []func(context.Context)
}

func (q *cacheInvalidations) add(fn func(context.Context)) {
	q.fns = append(q.fns, fn)
}

func (q *cacheInvalidations) flush(ctx context.Context) {
	for _, fn := range q.fns {
		fn(ctx)
	}
	q.fns = nil
}

// runOrDefer executes cache work immediately outside a transaction and queues
// it for after commit otherwise.
func runOrDefer(ctx context.Context, pending *cacheInvalidations, fn func(context.Context)) {
	if pending == nil {
		fn(ctx)
		return
	}
	pending.add(fn)
}
