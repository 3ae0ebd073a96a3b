package paddown

import (
	"context"
	"fmt"
	"sync"
)

const noCandidate = 0x100

// searchParallel has the same result as the sequential search, with up to r.workers queries in flight.
// Candidates are handed out in ascending order, so when a candidate is accepted every lower candidate is already in flight or done.
// Higher in-flight queries are canceled, lower ones run to completion, and the lowest accepted candidate wins.
func (r *run) searchParallel(ctx context.Context, probe []byte, index, from int) (byte, error) {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		next     = from
		best     = noCandidate
		failedAt = noCandidate
		failure  error
		inflight = map[int]context.CancelFunc{}
	)

	bound := func() int {
		return min(best, failedAt)
	}
	cancelAbove := func(c int) {
		for other, cancel := range inflight {
			if other > c {
				cancel()
			}
		}
	}
	take := func() (int, context.Context, bool) {
		mu.Lock()
		defer mu.Unlock()
		if next > 0xff || bound() != noCandidate {
			return 0, nil, false
		}
		c := next
		next++
		callCtx, cancel := context.WithCancel(ctx)
		inflight[c] = cancel
		return c, callCtx, true
	}
	finish := func(c int, valid bool, err error) {
		mu.Lock()
		defer mu.Unlock()
		inflight[c]()
		delete(inflight, c)
		if c > bound() {
			return
		}
		switch {
		case err != nil:
			failedAt, failure = c, err
			cancelAbove(c)
		case valid:
			best = c
			cancelAbove(c)
		}
	}

	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := make([]byte, len(probe))
			copy(buf, probe)
			for {
				c, callCtx, ok := take()
				if !ok {
					return
				}
				buf[index] = byte(c)
				valid, err := r.query(callCtx, buf)
				finish(c, valid, err)
			}
		}()
	}
	wg.Wait()

	if best < failedAt {
		probe[index] = byte(best)
		return byte(best), nil
	}
	if failure != nil {
		return 0, failure
	}
	probe[index] = 0xff
	return 0, fmt.Errorf("%w: at index %d", ErrOracleInconsistency, index)
}
