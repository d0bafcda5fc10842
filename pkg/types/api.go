package types

// PredictRequest represents a batch inference request payload.
type PredictRequest struct {
	// Optional model tag. If empty, the server default is used.
	// example: iris:v1
	Model string `json:"model,omitempty" example:"iris:v1"`
	// Batch input: one row per sample.
	// example: [[5.1,3.5,1.4,0.2]]
	Input [][]float64 `json:"input"`
}

// PredictResponse is returned by POST /predict.
type PredictResponse struct {
	// Resolved model tag that served the batch.
	// example: iris:v1
	Model string `json:"model" example:"iris:v1"`
	// One output value per input row, same order as the input.
	// example: [0.12]
	Output []float64 `json:"output"`
	// Number of rows served.
	// example: 1
	Rows int `json:"rows" example:"1"`
}

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	// List of registered model versions.
	Models []Model `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// ReplicaStatus summarizes one runner replica for /status.
type ReplicaStatus struct {
	// Replica id in [0, num_replica).
	// example: 0
	ID int `json:"id" example:"0"`
	// Current lifecycle state (uninitialized, loading, ready, failed).
	// example: ready
	State string `json:"state" example:"ready"`
	// Last time this replica served a batch (unix seconds, 0 if never).
	// example: 1700000000
	LastUsed int64 `json:"last_used_unix,omitempty" example:"1700000000"`
	// Setup error message when the replica is failed.
	Error string `json:"error,omitempty"`
}

// RunnerStatus summarizes a constructed runner for /status.
type RunnerStatus struct {
	// Tag of the model this runner serves.
	// example: iris:v1
	Tag string `json:"tag" example:"iris:v1"`
	// Number of replicas in the concurrency plan.
	// example: 1
	NumReplica int `json:"num_replica" example:"1"`
	// Worker budget per replica derived from the resource quota.
	// example: 4
	ConcurrencyPerReplica int `json:"concurrency_per_replica" example:"4"`
	// Per-replica lifecycle states.
	Replicas []ReplicaStatus `json:"replicas"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Constructed runners keyed by the batches they have served.
	Runners []RunnerStatus `json:"runners"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
	// Optional top-level error message.
	Error string `json:"error,omitempty"`
}
