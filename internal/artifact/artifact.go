// Package artifact persists a fitted linear model to a single file.
//
// The file holds exactly two IEEE-754 float64 values, slope then intercept,
// little-endian. Writes go to a temporary file in the target directory that
// is renamed over the target, so readers see either the old or the new model.
package artifact

import (
	"encoding/binary"
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"spese-forecast/internal/regression"
)

// DefaultPath is the artifact file name used when none is configured.
const DefaultPath = "expense_tracker_model.bin"

// Size is the encoded artifact length in bytes.
const Size = 16

// Encode serializes the model parameters.
func Encode(m regression.LinearModel) []byte {
	buf := make([]byte, Size)
	binary.LittleEndian.PutUint64(buf[0:8], math.Float64bits(m.Slope))
	binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(m.Intercept))
	return buf
}

// Decode parses bytes produced by Encode.
func Decode(path string, data []byte) (regression.LinearModel, error) {
	if len(data) != Size {
		return regression.LinearModel{}, &CorruptArtifactError{
			Path:   path,
			Reason: "unexpected size",
		}
	}
	m := regression.LinearModel{
		Slope:     math.Float64frombits(binary.LittleEndian.Uint64(data[0:8])),
		Intercept: math.Float64frombits(binary.LittleEndian.Uint64(data[8:16])),
	}
	if !m.IsFinite() {
		return regression.LinearModel{}, &CorruptArtifactError{
			Path:   path,
			Reason: "parameters are not finite numbers",
		}
	}
	return m, nil
}

// Save writes the model to path, replacing any previous artifact.
func Save(path string, m regression.LinearModel) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(Encode(m)); err != nil {
		tmp.Close()
		cleanup()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return &IOError{Op: "sync", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return &IOError{Op: "close", Path: path, Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return &IOError{Op: "chmod", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return &IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

// Load reads the model stored at path.
func Load(path string) (regression.LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return regression.LinearModel{}, &ArtifactNotFoundError{Path: path}
		}
		return regression.LinearModel{}, &IOError{Op: "read", Path: path, Err: err}
	}
	return Decode(path, data)
}
