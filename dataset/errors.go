package dataset

import "errors"

var (
	// ErrSchema indicates the catalogue or config file is missing, malformed,
	// or violates the upstream schema (missing field, wrong type).
	ErrSchema = errors.New("dataset: catalogue/config schema violation")
	// ErrArtifactNotFound indicates an expected feature or label file is absent.
	ErrArtifactNotFound = errors.New("dataset: artifact file not found")
	// ErrArtifactFormat indicates an artifact file could not be parsed into the
	// expected 2-D array shape.
	ErrArtifactFormat = errors.New("dataset: artifact content malformed")
	// ErrIndexOutOfRange indicates a sample index outside [0, Len).
	ErrIndexOutOfRange = errors.New("dataset: sample index out of range")
	// ErrShapeMismatch indicates a batch contains inconsistently shaped samples.
	ErrShapeMismatch = errors.New("dataset: sample shapes inconsistent within batch")
)
