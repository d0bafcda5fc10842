// Package adapter is the thin façade over the model store and artifact
// codec: Save persists a predictor under a new tag, Load reconstructs it,
// and LoadRunner wraps it in a serving runner.
package adapter

import (
	"path/filepath"

	"runnerd/internal/predictor"
	"runnerd/internal/runner"
	"runnerd/internal/store"
	"runnerd/pkg/types"
)

// ModuleName is the owning-module identity recorded with every artifact
// this adapter saves. Load refuses artifacts saved by a different module.
const ModuleName = "runnerd.predictor"

// artifactName is the artifact file written inside a version directory.
const artifactName = "saved_model.json"

// getModelInfo resolves tag and verifies the artifact belongs to this
// adapter, returning the ModelInfo and the artifact file path.
func getModelInfo(st *store.Store, tag string) (store.ModelInfo, string, error) {
	info, err := st.Resolve(tag)
	if err != nil {
		return store.ModelInfo{}, "", err
	}
	if info.Module != ModuleName {
		return store.ModelInfo{}, "", ErrModuleMismatch(info.Tag, info.Module, ModuleName)
	}
	return info, filepath.Join(info.Path, artifactName), nil
}

// Save registers a new version of name and persists model into it.
// Returns the committed tag. A serialization failure rolls the
// registration back and commits nothing.
func Save(st *store.Store, cdc predictor.Codec, name string, model predictor.Predictor, metadata map[string]any) (string, error) {
	reg, err := st.Register(name, ModuleName, metadata, map[string]string{
		"codec":  predictor.CodecVersion,
		"family": model.Family(),
	})
	if err != nil {
		return "", err
	}
	defer reg.Rollback()
	if err := cdc.Dump(model, filepath.Join(reg.Path, artifactName)); err != nil {
		return "", err
	}
	if _, err := reg.Commit(); err != nil {
		return "", err
	}
	return reg.Tag, nil
}

// Load resolves tag and reconstructs the persisted predictor.
func Load(st *store.Store, cdc predictor.Codec, tag string) (predictor.Predictor, error) {
	_, artifact, err := getModelInfo(st, tag)
	if err != nil {
		return nil, err
	}
	return cdc.Load(artifact)
}

// LoadRunner resolves tag eagerly, to fail fast on a bad tag, and returns a
// runner that defers artifact deserialization until its first batch.
func LoadRunner(st *store.Store, cdc predictor.Codec, tag string, quota types.ResourceQuota, opts types.BatchOptions) (*runner.Runner, error) {
	info, artifact, err := getModelInfo(st, tag)
	if err != nil {
		return nil, err
	}
	return runner.New(info, artifact, quota, opts, cdc)
}
