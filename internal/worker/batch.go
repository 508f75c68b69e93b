package worker

import "context"

// Dedupe runs fn once per distinct key, in first-seen order, on a pool of
// the given size. One worker runs the keys strictly sequentially.
func Dedupe[K comparable, T any](ctx context.Context, workers int, keys []K, fn func(ctx context.Context, key K) T) map[K]T {
	out := make(map[K]T, len(keys))
	if len(keys) == 0 {
		return out
	}

	seen := make(map[K]bool, len(keys))
	unique := make([]K, 0, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			unique = append(unique, k)
		}
	}

	if workers <= 1 {
		for _, k := range unique {
			if ctx.Err() != nil {
				break
			}
			out[k] = fn(ctx, k)
		}
		return out
	}

	pool := NewPool[T](ctx, workers)
	pool.Start()
	for _, k := range unique {
		pool.Submit(func(ctx context.Context) T { return fn(ctx, k) })
	}
	results := pool.Wait()

	for i, k := range unique {
		if i < len(results) {
			out[k] = results[i]
		}
	}
	return out
}
