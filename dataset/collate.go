package dataset

import (
	"fmt"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// Sample is one windowed training example. Feature is [bins x frames] with
// the time axis last; the label matrices are [frames x pitches]. Onset and
// offset keep their stored representation, MPE is a float mask, Velocity
// holds integer class ids.
type Sample struct {
	Feature  *Matrix
	Onset    *Matrix
	Offset   *Matrix
	MPE      *Matrix
	Velocity *IntMatrix
}

// Batch holds a collated batch as flat contiguous buffers plus shape
// metadata, one buffer per tensor position.
type Batch struct {
	BatchSize int

	// feature shape: [BatchSize x Bins x FeatureFrames]
	Features      []float32
	Bins          int
	FeatureFrames int

	// label shapes: [BatchSize x LabelFrames x Pitches]
	Onsets      []float32
	Offsets     []float32
	MPEs        []float32
	Velocities  []int32
	LabelFrames int
	Pitches     int
}

// Collate stacks samples along a new leading batch dimension. Every sample
// must agree on every tensor's shape; a disagreement wraps ErrShapeMismatch
// rather than truncating, since silently cutting a longer feature window
// would break its alignment with the label tensors. Over-length feature
// windows (spans longer than the pad floor) are the realistic way this
// triggers.
func Collate(samples []*Sample) (*Batch, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrShapeMismatch)
	}

	first := samples[0]
	b := &Batch{
		BatchSize:     len(samples),
		Bins:          first.Feature.Rows,
		FeatureFrames: first.Feature.Cols,
		LabelFrames:   first.Onset.Rows,
		Pitches:       first.Onset.Cols,
	}

	for i, s := range samples {
		if s.Feature.Rows != b.Bins || s.Feature.Cols != b.FeatureFrames {
			return nil, fmt.Errorf("%w: feature of sample %d is %dx%d, sample 0 is %dx%d",
				ErrShapeMismatch, i, s.Feature.Rows, s.Feature.Cols, b.Bins, b.FeatureFrames)
		}
		for name, m := range map[string]*Matrix{"onset": s.Onset, "offset": s.Offset, "mpe": s.MPE} {
			if m.Rows != b.LabelFrames || m.Cols != b.Pitches {
				return nil, fmt.Errorf("%w: %s of sample %d is %dx%d, sample 0 is %dx%d",
					ErrShapeMismatch, name, i, m.Rows, m.Cols, b.LabelFrames, b.Pitches)
			}
		}
		if s.Velocity.Rows != b.LabelFrames || s.Velocity.Cols != b.Pitches {
			return nil, fmt.Errorf("%w: velocity of sample %d is %dx%d, sample 0 is %dx%d",
				ErrShapeMismatch, i, s.Velocity.Rows, s.Velocity.Cols, b.LabelFrames, b.Pitches)
		}
	}

	featureStride := b.Bins * b.FeatureFrames
	labelStride := b.LabelFrames * b.Pitches
	b.Features = make([]float32, b.BatchSize*featureStride)
	b.Onsets = make([]float32, b.BatchSize*labelStride)
	b.Offsets = make([]float32, b.BatchSize*labelStride)
	b.MPEs = make([]float32, b.BatchSize*labelStride)
	b.Velocities = make([]int32, b.BatchSize*labelStride)

	for i, s := range samples {
		copy(b.Features[i*featureStride:], s.Feature.Data)
		copy(b.Onsets[i*labelStride:], s.Onset.Data)
		copy(b.Offsets[i*labelStride:], s.Offset.Data)
		copy(b.MPEs[i*labelStride:], s.MPE.Data)
		copy(b.Velocities[i*labelStride:], s.Velocity.Data)
	}
	return b, nil
}

// ToGomlxTensors converts the batch into gomlx tensors: the feature tensor
// and the four label tensors in channel order (onset, offset, mpe, velocity).
func (b *Batch) ToGomlxTensors() (*tensors.Tensor, []*tensors.Tensor, error) {
	if b.BatchSize == 0 {
		return nil, nil, fmt.Errorf("%w: empty batch", ErrShapeMismatch)
	}

	feature := tensors.FromAnyValue(nest3(b.Features, b.BatchSize, b.Bins, b.FeatureFrames))
	labels := []*tensors.Tensor{
		tensors.FromAnyValue(nest3(b.Onsets, b.BatchSize, b.LabelFrames, b.Pitches)),
		tensors.FromAnyValue(nest3(b.Offsets, b.BatchSize, b.LabelFrames, b.Pitches)),
		tensors.FromAnyValue(nest3(b.MPEs, b.BatchSize, b.LabelFrames, b.Pitches)),
		tensors.FromAnyValue(nest3(b.Velocities, b.BatchSize, b.LabelFrames, b.Pitches)),
	}
	return feature, labels, nil
}

// nest3 views a flat buffer as a [batch][rows][cols] nested slice without
// copying, the form tensors.FromAnyValue accepts.
func nest3[T float32 | int32](flat []T, batch, rows, cols int) [][][]T {
	out := make([][][]T, batch)
	idx := 0
	for i := 0; i < batch; i++ {
		out[i] = make([][]T, rows)
		for r := 0; r < rows; r++ {
			out[i][r] = flat[idx : idx+cols]
			idx += cols
		}
	}
	return out
}
