// Package runner wraps one resolved model artifact in a serving unit whose
// replica count and per-replica worker budget derive from a resource quota.
package runner

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"runnerd/internal/predictor"
	"runnerd/internal/store"
	"runnerd/pkg/types"
)

// State represents the lifecycle state of one replica.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateReady         State = "ready"
	StateFailed        State = "failed"
)

// ArtifactLoader reconstructs a predictor from an artifact file.
// Satisfied by predictor.Codec.
type ArtifactLoader interface {
	Load(path string) (predictor.Predictor, error)
}

// replica is one concurrency-isolated slot holding its own loaded predictor.
// The predictor loads lazily on first use, at most once: a replica that
// failed setup stays failed for the process lifetime.
type replica struct {
	id   int
	once sync.Once

	mu       sync.RWMutex
	state    State
	pred     predictor.Predictor
	err      error
	lastUsed time.Time
}

// setup loads the artifact into this replica. Idempotent: concurrent first
// calls block on the same load and later calls observe its outcome.
func (rep *replica) setup(loader ArtifactLoader, path, tag string) {
	rep.once.Do(func() {
		rep.mu.Lock()
		rep.state = StateLoading
		rep.mu.Unlock()

		pred, err := loader.Load(path)

		rep.mu.Lock()
		defer rep.mu.Unlock()
		if err != nil {
			rep.state = StateFailed
			rep.err = err
			artifactLoadsTotal.WithLabelValues(tag, "error").Inc()
			return
		}
		rep.state = StateReady
		rep.pred = pred
		artifactLoadsTotal.WithLabelValues(tag, "ok").Inc()
	})
}

// Runner serves batched inference for a single registered model version.
// Construct once per process via New; a Runner serves many batches over its
// lifetime and never reloads its model.
type Runner struct {
	info     store.ModelInfo
	artifact string
	quota    types.ResourceQuota
	opts     types.BatchOptions
	loader   ArtifactLoader

	// Concurrency plan, computed once at construction from the quota.
	concurrency int
	replicas    []*replica
	next        atomic.Uint64
}

// New constructs a Runner bound to a resolved ModelInfo. The artifact at
// artifactPath is not loaded until the first batch arrives.
func New(info store.ModelInfo, artifactPath string, quota types.ResourceQuota, opts types.BatchOptions, loader ArtifactLoader) (*Runner, error) {
	if loader == nil {
		return nil, ErrInvalidQuota("nil artifact loader")
	}
	// The predictor families here are CPU-only, so intra-replica parallelism
	// is a worker budget sized to the declared cores. GPU ids in the quota
	// are ignored for this family.
	concurrency := int(math.Round(quota.CPU))
	if concurrency < 1 {
		return nil, ErrInvalidQuota("cpu quota must round to at least 1")
	}
	// CPU-only predictors gain nothing from process-level replication when
	// concurrency is already a per-replica worker budget.
	const numReplica = 1
	replicas := make([]*replica, numReplica)
	for i := range replicas {
		replicas[i] = &replica{id: i, state: StateUninitialized}
	}
	return &Runner{
		info:        info,
		artifact:    artifactPath,
		quota:       quota,
		opts:        opts,
		loader:      loader,
		concurrency: concurrency,
		replicas:    replicas,
	}, nil
}

// NumReplica returns the number of replicas in the concurrency plan.
func (r *Runner) NumReplica() int { return len(r.replicas) }

// NumConcurrencyPerReplica returns the per-replica worker budget.
func (r *Runner) NumConcurrencyPerReplica() int { return r.concurrency }

// RequiredModels returns the tags this runner depends on, for dependency
// resolution by an external orchestrator. Always exactly one tag here.
func (r *Runner) RequiredModels() []string { return []string{r.info.Tag} }

// Info returns the resolved ModelInfo this runner is bound to.
func (r *Runner) Info() store.ModelInfo { return r.info }

// BatchOptions returns the batching hints carried for the caller-side
// batching layer.
func (r *Runner) BatchOptions() types.BatchOptions { return r.opts }

// Status reports the runner's plan and per-replica lifecycle states.
func (r *Runner) Status() types.RunnerStatus {
	st := types.RunnerStatus{
		Tag:                   r.info.Tag,
		NumReplica:            len(r.replicas),
		ConcurrencyPerReplica: r.concurrency,
		Replicas:              make([]types.ReplicaStatus, 0, len(r.replicas)),
	}
	for _, rep := range r.replicas {
		rep.mu.RLock()
		rs := types.ReplicaStatus{ID: rep.id, State: string(rep.state)}
		if !rep.lastUsed.IsZero() {
			rs.LastUsed = rep.lastUsed.Unix()
		}
		if rep.err != nil {
			rs.Error = rep.err.Error()
		}
		rep.mu.RUnlock()
		st.Replicas = append(st.Replicas, rs)
	}
	return st
}
