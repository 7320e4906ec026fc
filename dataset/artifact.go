package dataset

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Channels lists the label signal types, one persisted array per channel.
var Channels = []string{"onset", "offset", "mpe", "velocity"}

// RecordingArtifacts bundles one recording's feature array and its four label
// channel arrays. All four label matrices share the same pitch-class width;
// velocity is stored as floats alongside the others and cast to class ids at
// window time.
type RecordingArtifacts struct {
	Feature *Matrix
	Labels  map[string]*Matrix
}

// FeaturePath returns the storage location of a recording's feature artifact.
func FeaturePath(dir, basename string) string {
	return filepath.Join(dir, "features", basename+".gob")
}

// LabelPath returns the storage location of one label channel artifact.
func LabelPath(dir, basename, channel string) string {
	return filepath.Join(dir, "labels", basename+"."+channel+".json")
}

// ReadFeature loads a gob-serialized feature matrix.
func ReadFeature(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening feature %s: %w", path, err)
	}
	defer f.Close()

	var m Matrix
	if err := gob.NewDecoder(f).Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: decoding feature %s: %v", ErrArtifactFormat, path, err)
	}
	if m.Rows <= 0 || m.Cols <= 0 || len(m.Data) != m.Rows*m.Cols {
		return nil, fmt.Errorf("%w: feature %s: bad shape %dx%d with %d values",
			ErrArtifactFormat, path, m.Rows, m.Cols, len(m.Data))
	}
	return &m, nil
}

// WriteFeature persists a feature matrix in the format ReadFeature expects.
// The extraction pipeline and test fixtures use it; the dataset itself only reads.
func WriteFeature(path string, m *Matrix) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating feature dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating feature %s: %w", path, err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(m); err != nil {
		return fmt.Errorf("encoding feature %s: %w", path, err)
	}
	return nil
}

// ReadLabel loads one label channel, persisted as a JSON 2-D array of numbers.
// Rows must be non-empty and rectangular.
func ReadLabel(path string) (*Matrix, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading label %s: %w", path, err)
	}

	var rows [][]float32
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("%w: parsing label %s: %v", ErrArtifactFormat, path, err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: label %s: empty array", ErrArtifactFormat, path)
	}

	m := NewMatrix(len(rows), len(rows[0]))
	for r, row := range rows {
		if len(row) != m.Cols {
			return nil, fmt.Errorf("%w: label %s: row %d has %d values, expected %d",
				ErrArtifactFormat, path, r, len(row), m.Cols)
		}
		copy(m.Row(r), row)
	}
	return m, nil
}

// WriteLabel persists one label channel in the format ReadLabel expects.
func WriteLabel(path string, m *Matrix) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating label dir: %w", err)
	}
	rows := make([][]float32, m.Rows)
	for r := range rows {
		rows[r] = m.Row(r)
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encoding label %s: %w", path, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("writing label %s: %w", path, err)
	}
	return nil
}

// LoadRecordingArtifacts reads one recording's feature artifact and all four
// label channels. It is the single load routine behind both the eager cache
// and the uncached re-read path, so the two are equivalent by construction.
func LoadRecordingArtifacts(dir, basename string) (*RecordingArtifacts, error) {
	feature, err := ReadFeature(FeaturePath(dir, basename))
	if err != nil {
		return nil, err
	}

	labels := make(map[string]*Matrix, len(Channels))
	for _, channel := range Channels {
		m, err := ReadLabel(LabelPath(dir, basename, channel))
		if err != nil {
			return nil, err
		}
		labels[channel] = m
	}
	return &RecordingArtifacts{Feature: feature, Labels: labels}, nil
}
