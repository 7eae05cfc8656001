package share

import (
	"context"
	"errors"
	"sync"
)

// Pair is one ordered source-to-target combination of users.
type Pair struct {
	Source UserShared
	Target UserShared
}

// EnumeratePairs returns every ordered pair of distinct users in roster
// order. N users produce N*(N-1) pairs.
func EnumeratePairs(users []UserShared) []Pair {
	var pairs []Pair
	for i, source := range users {
		for j, target := range users {
			if i == j {
				continue
			}
			pairs = append(pairs, Pair{Source: source, Target: target})
		}
	}
	return pairs
}

// RunPairs processes pairs with up to workers concurrent calls. Pairs are
// independent, so fn may run for several pairs at once and completion order
// is not defined. Every pair runs regardless of other pairs' failures; the
// errors are joined and returned once all workers finish.
func RunPairs(ctx context.Context, pairs []Pair, workers int, fn func(context.Context, Pair) error) error {
	if len(pairs) == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(pairs) {
		workers = len(pairs)
	}

	type task struct {
		index int
		pair  Pair
	}
	tasks := make(chan task)
	errs := make([]error, len(pairs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				errs[t.index] = fn(ctx, t.pair)
			}
		}()
	}

	for i, pair := range pairs {
		tasks <- task{index: i, pair: pair}
	}
	close(tasks)
	wg.Wait()

	return errors.Join(errs...)
}
