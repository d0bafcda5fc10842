// Package serving holds the long-lived runner pool behind the HTTP API:
// one lazily constructed runner per registered model version, all sharing
// the daemon's resource quota.
package serving

import (
	"context"
	"sync"
	"time"

	"runnerd/internal/adapter"
	"runnerd/internal/predictor"
	"runnerd/internal/runner"
	"runnerd/internal/store"
	"runnerd/pkg/types"
)

// Pool constructs and caches runners by canonical tag. Runners are created
// on first use and live for the process lifetime; a runner whose replica
// failed setup stays failed until the process restarts.
type Pool struct {
	st           *store.Store
	cdc          predictor.Codec
	quota        types.ResourceQuota
	opts         types.BatchOptions
	defaultModel string
	start        time.Time

	mu      sync.RWMutex
	runners map[string]*runner.Runner
}

// New builds a pool over st. defaultModel may be empty, in which case every
// request must name a model.
func New(st *store.Store, cdc predictor.Codec, quota types.ResourceQuota, opts types.BatchOptions, defaultModel string) *Pool {
	return &Pool{
		st:           st,
		cdc:          cdc,
		quota:        quota,
		opts:         opts,
		defaultModel: defaultModel,
		start:        time.Now(),
		runners:      make(map[string]*runner.Runner),
	}
}

// Predict executes one batch against the requested model's runner.
func (p *Pool) Predict(ctx context.Context, req types.PredictRequest) (types.PredictResponse, error) {
	tag := req.Model
	if tag == "" {
		tag = p.defaultModel
		if tag == "" {
			return types.PredictResponse{}, store.ErrTagNotFound("(unspecified)")
		}
	}
	r, err := p.ensure(tag)
	if err != nil {
		return types.PredictResponse{}, err
	}
	out, err := r.RunBatch(ctx, req.Input)
	if err != nil {
		return types.PredictResponse{}, err
	}
	return types.PredictResponse{Model: r.Info().Tag, Output: out, Rows: len(out)}, nil
}

// ensure returns the cached runner for tag, constructing it on first use.
// The tag is canonicalized first so "name" and "name:vN" share a runner.
func (p *Pool) ensure(tag string) (*runner.Runner, error) {
	info, err := p.st.Resolve(tag)
	if err != nil {
		return nil, err
	}
	p.mu.RLock()
	r, ok := p.runners[info.Tag]
	p.mu.RUnlock()
	if ok {
		return r, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if r, ok := p.runners[info.Tag]; ok {
		return r, nil
	}
	r, err = adapter.LoadRunner(p.st, p.cdc, info.Tag, p.quota, p.opts)
	if err != nil {
		return nil, err
	}
	p.runners[info.Tag] = r
	return r, nil
}

// ListModels returns every committed model version in the store.
func (p *Pool) ListModels() ([]types.Model, error) {
	infos, err := p.st.List()
	if err != nil {
		return nil, err
	}
	out := make([]types.Model, 0, len(infos))
	for _, info := range infos {
		out = append(out, types.Model{
			Tag:       info.Tag,
			Name:      info.Name,
			Version:   info.Version,
			Module:    info.Module,
			Family:    info.Context["family"],
			Path:      info.Path,
			CreatedAt: info.CreatedAt.Unix(),
		})
	}
	return out, nil
}

// Status reports the runner pool state for /status.
func (p *Pool) Status() types.StatusResponse {
	p.mu.RLock()
	defer p.mu.RUnlock()
	resp := types.StatusResponse{
		Runners:        make([]types.RunnerStatus, 0, len(p.runners)),
		UptimeSeconds:  int64(time.Since(p.start).Seconds()),
		ServerTimeUnix: time.Now().Unix(),
	}
	for _, r := range p.runners {
		resp.Runners = append(resp.Runners, r.Status())
	}
	return resp
}

// Ready reports whether the store is reachable.
func (p *Pool) Ready() bool {
	_, err := p.st.List()
	return err == nil
}
