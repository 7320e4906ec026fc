package dataset

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestFeatureArtifactRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	path := FeaturePath(tmp, "a")
	src := sequentialMatrix(5, 3)
	if err := WriteFeature(path, src); err != nil {
		t.Fatalf("WriteFeature failed: %v", err)
	}

	got, err := ReadFeature(path)
	if err != nil {
		t.Fatalf("ReadFeature failed: %v", err)
	}
	if got.Rows != 5 || got.Cols != 3 {
		t.Fatalf("shape: got %dx%d, want 5x3", got.Rows, got.Cols)
	}
	for i := range src.Data {
		if got.Data[i] != src.Data[i] {
			t.Fatalf("value %d: got %v, want %v", i, got.Data[i], src.Data[i])
		}
	}
}

func TestReadFeatureErrors(t *testing.T) {
	tmp := t.TempDir()

	if _, err := ReadFeature(FeaturePath(tmp, "missing")); !errors.Is(err, ErrArtifactNotFound) {
		t.Fatalf("missing file: got %v, want ErrArtifactNotFound", err)
	}

	bad := filepath.Join(tmp, "garbage.gob")
	writeRawFile(t, bad, "this is not gob data")
	if _, err := ReadFeature(bad); !errors.Is(err, ErrArtifactFormat) {
		t.Fatalf("garbage content: got %v, want ErrArtifactFormat", err)
	}
}

func TestReadFeatureRejectsBadShape(t *testing.T) {
	tmp := t.TempDir()
	path := FeaturePath(tmp, "a")
	// Data length disagrees with the declared shape.
	if err := WriteFeature(path, &Matrix{Rows: 4, Cols: 4, Data: make([]float32, 3)}); err != nil {
		t.Fatalf("WriteFeature failed: %v", err)
	}
	if _, err := ReadFeature(path); !errors.Is(err, ErrArtifactFormat) {
		t.Fatalf("got %v, want ErrArtifactFormat", err)
	}
}

func TestLabelArtifactRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	path := LabelPath(tmp, "a", "onset")
	src := sequentialMatrix(4, 2)
	if err := WriteLabel(path, src); err != nil {
		t.Fatalf("WriteLabel failed: %v", err)
	}

	got, err := ReadLabel(path)
	if err != nil {
		t.Fatalf("ReadLabel failed: %v", err)
	}
	if got.Rows != 4 || got.Cols != 2 {
		t.Fatalf("shape: got %dx%d, want 4x2", got.Rows, got.Cols)
	}
	for i := range src.Data {
		if got.Data[i] != src.Data[i] {
			t.Fatalf("value %d: got %v, want %v", i, got.Data[i], src.Data[i])
		}
	}
}

func TestReadLabelErrors(t *testing.T) {
	tmp := t.TempDir()

	if _, err := ReadLabel(LabelPath(tmp, "a", "onset")); !errors.Is(err, ErrArtifactNotFound) {
		t.Fatalf("missing file: got %v, want ErrArtifactNotFound", err)
	}

	cases := []struct {
		name    string
		content string
	}{
		{"not json", `not json`},
		{"not 2-d", `[1, 2, 3]`},
		{"empty array", `[]`},
		{"empty rows", `[[]]`},
		{"ragged rows", `[[1, 2], [3]]`},
		{"non-numeric", `[["x", "y"]]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(tmp, tc.name+".json")
			writeRawFile(t, path, tc.content)
			if _, err := ReadLabel(path); !errors.Is(err, ErrArtifactFormat) {
				t.Fatalf("got %v, want ErrArtifactFormat", err)
			}
		})
	}
}

func TestLoadRecordingArtifacts(t *testing.T) {
	tmp := t.TempDir()
	writeRecording(t, tmp, "a", 8, 3, 8, 2)

	rec, err := LoadRecordingArtifacts(tmp, "a")
	if err != nil {
		t.Fatalf("LoadRecordingArtifacts failed: %v", err)
	}
	if rec.Feature.Rows != 8 || rec.Feature.Cols != 3 {
		t.Fatalf("feature shape: got %dx%d, want 8x3", rec.Feature.Rows, rec.Feature.Cols)
	}
	for _, channel := range Channels {
		m, ok := rec.Labels[channel]
		if !ok {
			t.Fatalf("channel %s missing", channel)
		}
		if m.Rows != 8 || m.Cols != 2 {
			t.Fatalf("channel %s shape: got %dx%d, want 8x2", channel, m.Rows, m.Cols)
		}
	}
}
