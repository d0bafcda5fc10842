package runner

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"runnerd/internal/predictor"
)

// RunBatch executes one assembled batch: one output per input row, in input
// order. The call blocks until the batch completes; the worker budget bounds
// internal parallelism only, not how many callers may be in flight.
func (r *Runner) RunBatch(ctx context.Context, input [][]float64) ([]float64, error) {
	if len(input) == 0 {
		return nil, ErrInvalidBatch("empty batch")
	}
	rep := r.replicas[int(r.next.Add(1)-1)%len(r.replicas)]
	rep.setup(r.loader, r.artifact, r.info.Tag)

	rep.mu.Lock()
	rep.lastUsed = time.Now()
	pred, setupErr := rep.pred, rep.err
	rep.mu.Unlock()
	if setupErr != nil {
		// Terminal per replica: fail fast, never retry the load.
		batchesTotal.WithLabelValues(r.info.Tag, "setup_error").Inc()
		return nil, setupErr
	}

	start := time.Now()
	out, err := r.dispatch(ctx, pred, input)
	if err != nil {
		batchesTotal.WithLabelValues(r.info.Tag, "error").Inc()
		return nil, err
	}
	batchesTotal.WithLabelValues(r.info.Tag, "ok").Inc()
	batchDuration.WithLabelValues(r.info.Tag).Observe(time.Since(start).Seconds())
	batchRows.Observe(float64(len(input)))
	return out, nil
}

// dispatch splits the batch into contiguous chunks and scores them under a
// scoped worker pool of at most NumConcurrencyPerReplica goroutines. Chunks
// write disjoint ranges of the output, so row order is preserved by
// construction.
func (r *Runner) dispatch(ctx context.Context, pred predictor.Predictor, input [][]float64) ([]float64, error) {
	n := len(input)
	workers := r.concurrency
	if workers > n {
		workers = n
	}
	out := make([]float64, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	chunk := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		lo, hi := lo, hi
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := pred.Predict(input[lo:hi])
			if err != nil {
				return err
			}
			if len(res) != hi-lo {
				return ErrInvalidBatch("predictor returned wrong row count")
			}
			copy(out[lo:hi], res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
