package artifact

import "fmt"

// ArtifactNotFoundError is returned when no artifact exists at Path.
type ArtifactNotFoundError struct {
	Path string
}

func (e *ArtifactNotFoundError) Error() string {
	return fmt.Sprintf("model artifact not found: %s", e.Path)
}

// CorruptArtifactError is returned when the artifact cannot be decoded into a
// (slope, intercept) pair.
type CorruptArtifactError struct {
	Path   string
	Reason string
}

func (e *CorruptArtifactError) Error() string {
	return fmt.Sprintf("corrupt model artifact %s: %s", e.Path, e.Reason)
}

// IOError wraps a file-system failure while reading or writing an artifact.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s model artifact %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
