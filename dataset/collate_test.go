package dataset

import (
	"errors"
	"io"
	"testing"
)

// makeSample builds a hand-assembled windowed sample with the given time
// dimensions; values are position-coded like the fixtures.
func makeSample(bins, featureFrames, labelFrames, pitches int) *Sample {
	feature := sequentialMatrix(bins, featureFrames)
	return &Sample{
		Feature:  feature,
		Onset:    sequentialMatrix(labelFrames, pitches),
		Offset:   sequentialMatrix(labelFrames, pitches),
		MPE:      sequentialMatrix(labelFrames, pitches),
		Velocity: NewIntMatrix(labelFrames, pitches),
	}
}

func TestCollateUniformBatch(t *testing.T) {
	samples := []*Sample{
		makeSample(3, 4, 4, 2),
		makeSample(3, 4, 4, 2),
		makeSample(3, 4, 4, 2),
	}
	samples[1].Feature.Set(2, 3, 999)

	b, err := Collate(samples)
	if err != nil {
		t.Fatalf("Collate failed: %v", err)
	}
	if b.BatchSize != 3 || b.Bins != 3 || b.FeatureFrames != 4 {
		t.Fatalf("batch dims: %+v", b)
	}
	if b.LabelFrames != 4 || b.Pitches != 2 {
		t.Fatalf("label dims: %+v", b)
	}
	if len(b.Features) != 3*3*4 {
		t.Fatalf("feature buffer: got %d values, want %d", len(b.Features), 3*3*4)
	}
	if len(b.Onsets) != 3*4*2 || len(b.Velocities) != 3*4*2 {
		t.Fatalf("label buffers: onsets %d velocities %d, want %d", len(b.Onsets), len(b.Velocities), 3*4*2)
	}
	// Sample 1's marked cell lands at batch offset 1, row 2, col 3.
	if got := b.Features[1*12+2*4+3]; got != 999 {
		t.Fatalf("stacked value: got %v, want 999", got)
	}
}

func TestCollateShapeMismatch(t *testing.T) {
	cases := []struct {
		name string
		odd  *Sample
	}{
		{"longer feature window", makeSample(3, 6, 4, 2)},
		{"longer label window", makeSample(3, 4, 6, 2)},
		{"different pitch width", makeSample(3, 4, 4, 5)},
		{"different bin count", makeSample(7, 4, 4, 2)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			samples := []*Sample{makeSample(3, 4, 4, 2), tc.odd}
			if _, err := Collate(samples); !errors.Is(err, ErrShapeMismatch) {
				t.Fatalf("got %v, want ErrShapeMismatch", err)
			}
		})
	}
}

func TestCollateEmptyBatch(t *testing.T) {
	if _, err := Collate(nil); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("got %v, want ErrShapeMismatch", err)
	}
}

func TestCollateOverlengthSampleFromDataset(t *testing.T) {
	tmp := t.TempDir()
	// One entry with the pad-floor length and one longer: collating the two
	// together is the realistic shape-mismatch failure.
	entries := []CatalogueEntry{
		{Basename: "a", Feature: span(0, 4), Label: span(0, 4)},
		{Basename: "a", Feature: span(0, 6), Label: span(0, 6)},
	}
	writeFixtureDataset(t, tmp, entries, 8, 3, 8, 2)

	ds, err := New(tmp, WithNumFrames(4))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	samples, err := ds.Batch([]int{0, 1})
	if err != nil {
		t.Fatalf("Batch failed: %v", err)
	}
	if _, err := Collate(samples); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("got %v, want ErrShapeMismatch", err)
	}
}

func TestBatchToGomlxTensors(t *testing.T) {
	samples := []*Sample{makeSample(3, 4, 4, 2), makeSample(3, 4, 4, 2)}
	b, err := Collate(samples)
	if err != nil {
		t.Fatalf("Collate failed: %v", err)
	}
	feature, labels, err := b.ToGomlxTensors()
	if err != nil {
		t.Fatalf("ToGomlxTensors failed: %v", err)
	}
	if feature == nil {
		t.Fatalf("feature tensor is nil")
	}
	if len(labels) != 4 {
		t.Fatalf("label tensors: got %d, want 4", len(labels))
	}
	for i, lt := range labels {
		if lt == nil {
			t.Fatalf("label tensor %d is nil", i)
		}
	}
}

func TestYieldEpochAndRestart(t *testing.T) {
	tmp := t.TempDir()
	entries := make([]CatalogueEntry, 5)
	for i := range entries {
		entries[i] = CatalogueEntry{Basename: "a", Feature: span(0, 4), Label: span(0, 4)}
	}
	writeFixtureDataset(t, tmp, entries, 8, 3, 8, 2)

	ds, err := New(tmp, WithNumFrames(4), WithBatchSize(2))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	batches := 0
	for {
		_, inputs, labels, err := ds.Yield()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Yield failed: %v", err)
		}
		if len(inputs) != 1 || len(labels) != 4 {
			t.Fatalf("Yield tensors: inputs %d labels %d, want 1 and 4", len(inputs), len(labels))
		}
		batches++
	}
	// 5 samples at batch size 2: batches of 2, 2, 1.
	if batches != 3 {
		t.Fatalf("batches per epoch: got %d, want 3", batches)
	}

	if err := ds.Restart(); err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	if _, _, _, err := ds.Yield(); err != nil {
		t.Fatalf("Yield after Restart failed: %v", err)
	}
}
