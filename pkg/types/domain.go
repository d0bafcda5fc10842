package types

// ResourceQuota declares the compute budget available to a runner.
// It is supplied by the caller at runner construction and never changes
// for the runner's lifetime.
type ResourceQuota struct {
	// CPU count available to the runner. Fractional values are rounded
	// to the nearest integer when sizing the per-replica worker budget.
	// example: 4
	CPU float64 `json:"cpu" yaml:"cpu" toml:"cpu" example:"4"`
	// Ordered GPU device identifiers. CPU-only predictor families ignore these.
	GPUs []string `json:"gpus,omitempty" yaml:"gpus" toml:"gpus"`
}

// BatchOptions configures how callers group requests into batches before
// they reach a runner. Execution of an assembled batch does not depend on
// these values; they are carried for the external batching layer.
type BatchOptions struct {
	// Maximum number of rows a caller should put in one batch.
	// example: 256
	MaxBatchSize int `json:"max_batch_size,omitempty" yaml:"max_batch_size" toml:"max_batch_size" example:"256"`
	// Maximum time in milliseconds a caller should wait to fill a batch.
	// example: 50
	MaxLatencyMS int `json:"max_latency_ms,omitempty" yaml:"max_latency_ms" toml:"max_latency_ms" example:"50"`
}

// Model is a listing view of one registered model version.
type Model struct {
	// Full versioned tag.
	// example: iris:v1
	Tag string `json:"tag" example:"iris:v1"`
	// User-chosen model name.
	// example: iris
	Name string `json:"name" example:"iris"`
	// System-generated version.
	// example: v1
	Version string `json:"version" example:"v1"`
	// Owning adapter module recorded at save time.
	// example: runnerd.predictor
	Module string `json:"module" example:"runnerd.predictor"`
	// Predictor family recorded in the framework context.
	// example: linear
	Family string `json:"family,omitempty" example:"linear"`
	// Absolute path of the version directory on disk.
	// example: /var/lib/runnerd/models/iris/v1
	Path string `json:"path" example:"/var/lib/runnerd/models/iris/v1"`
	// Registration time in unix seconds.
	// example: 1700000000
	CreatedAt int64 `json:"created_at_unix" example:"1700000000"`
}
