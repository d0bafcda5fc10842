package predictor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// CodecVersion tags artifacts with the envelope format that wrote them.
// Recorded in the store's framework context at save time.
const CodecVersion = "json/v1"

// envelope is the on-disk artifact format: a variant tag selecting the
// concrete predictor type plus its parameters.
type envelope struct {
	Codec  string          `json:"codec"`
	Family string          `json:"family"`
	Params json.RawMessage `json:"params"`
}

// Codec serializes predictors to and from artifact files.
// The zero value is ready to use.
type Codec struct{}

// Dump writes p to path. Partial writes never land on the final path.
func (Codec) Dump(p Predictor, path string) error {
	if _, ok := families[p.Family()]; !ok {
		return ErrUnknownFamily(p.Family())
	}
	params, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode %s params: %w", p.Family(), err)
	}
	b, err := json.Marshal(envelope{Codec: CodecVersion, Family: p.Family(), Params: params})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("publish artifact: %w", err)
	}
	return nil
}

// Load reconstructs the predictor stored at path.
func (Codec) Load(path string) (Predictor, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrArtifactCorrupt(filepath.Base(path), err.Error())
	}
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, ErrArtifactCorrupt(filepath.Base(path), err.Error())
	}
	if env.Codec != CodecVersion {
		return nil, ErrArtifactCorrupt(filepath.Base(path), "unsupported codec "+env.Codec)
	}
	construct, ok := families[env.Family]
	if !ok {
		return nil, ErrUnknownFamily(env.Family)
	}
	p := construct()
	if err := json.Unmarshal(env.Params, p); err != nil {
		return nil, ErrArtifactCorrupt(filepath.Base(path), err.Error())
	}
	return p, nil
}
