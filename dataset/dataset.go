package dataset

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// Dataset assembles fixed-length training windows of time-aligned audio
// features and multi-channel transcription labels (onset, offset, mpe,
// velocity). It sits between an offline feature/label extraction pipeline and
// a model-training loop: the catalogue on disk says which slice of which
// recording makes up each training example, and Sample materializes that
// slice, boundary-padded, as equal-length tensors.
//
// After construction all shared state is read-only; Sample, Batch and Collate
// only read shared arrays and allocate locals, so they are safe to call from
// concurrent workers. The epoch cursor used by Yield/Restart/Shuffle is the
// exception: those three are meant for a single consuming training loop.
type Dataset struct {
	// NumFrames is the fixed window length samples are padded to.
	NumFrames int

	// BatchSize used by Yield.
	BatchSize int

	dir       string
	catalogue []CatalogueEntry
	config    *Config
	cache     *ArtifactCache
	noCache   bool
	silence   float32

	// epoch order and cursor for the train.Dataset surface
	perm   []int
	cursor int
	rng    *rand.Rand
}

// Option configures a Dataset at construction.
type Option func(*Dataset)

// WithNumFrames overrides the default window length of 128 frames.
func WithNumFrames(n int) Option {
	return func(d *Dataset) { d.NumFrames = n }
}

// WithBatchSize overrides the default Yield batch size of 8.
func WithBatchSize(n int) Option {
	return func(d *Dataset) { d.BatchSize = n }
}

// WithoutCache disables eager artifact caching: every Sample call re-reads
// the recording's artifacts from disk. Output is identical to the cached
// path; the trade is construction time and residency against per-call I/O.
func WithoutCache() Option {
	return func(d *Dataset) { d.cache = nil; d.noCache = true }
}

// WithSeed fixes the RNG used by Shuffle-less epoch ordering.
func WithSeed(seed int64) Option {
	return func(d *Dataset) { d.rng = rand.New(rand.NewSource(seed)) }
}

// New loads the catalogue and configuration under dir and, unless
// WithoutCache is given, eagerly materializes every referenced recording's
// artifacts in memory.
func New(dir string, opts ...Option) (*Dataset, error) {
	catalogue, err := LoadCatalogue(dir)
	if err != nil {
		return nil, err
	}
	config, err := LoadConfig(dir)
	if err != nil {
		return nil, err
	}

	d := &Dataset{
		NumFrames: 128,
		BatchSize: 8,
		dir:       dir,
		catalogue: catalogue,
		config:    config,
		silence:   silenceValue(*config.Feature.LogOffset),
		rng:       rand.New(rand.NewSource(1)),
	}
	for _, opt := range opts {
		opt(d)
	}

	if !d.noCache {
		cache, err := NewArtifactCache(dir, catalogue)
		if err != nil {
			return nil, err
		}
		d.cache = cache
	}

	d.perm = make([]int, len(catalogue))
	for i := range d.perm {
		d.perm[i] = i
	}
	return d, nil
}

// Len returns the number of catalogue entries, which is the number of
// training examples regardless of how many distinct recordings back them.
func (d *Dataset) Len() int {
	return len(d.catalogue)
}

// Config returns the loaded dataset configuration.
func (d *Dataset) Config() *Config {
	return d.config
}

// Catalogue returns the loaded catalogue entries in file order.
func (d *Dataset) Catalogue() []CatalogueEntry {
	return d.catalogue
}

// Sample windows the catalogue entry at idx into one training example: a
// [bins x NumFrames] feature matrix (time axis last) and four
// [NumFrames x pitches] label matrices. Short slices are padded — features
// with the silence value log(log_offset), labels with zero. A negative
// feature onset is expected input, not an error. The stored catalogue entry
// is never mutated, so repeated calls are idempotent.
func (d *Dataset) Sample(idx int) (*Sample, error) {
	if idx < 0 || idx >= len(d.catalogue) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, idx, len(d.catalogue))
	}
	entry := d.catalogue[idx]

	rec, err := d.artifacts(entry.Basename)
	if err != nil {
		return nil, err
	}

	feature := windowFeature(rec.Feature, entry.Feature, d.NumFrames, d.silence)

	onset := windowLabel(rec.Labels["onset"], entry.Label, d.NumFrames)
	offset := windowLabel(rec.Labels["offset"], entry.Label, d.NumFrames)
	mpe := windowLabel(rec.Labels["mpe"], entry.Label, d.NumFrames)
	velocity := castVelocity(windowLabel(rec.Labels["velocity"], entry.Label, d.NumFrames))

	return &Sample{
		Feature:  feature.Transposed(),
		Onset:    onset,
		Offset:   offset,
		MPE:      mpe,
		Velocity: velocity,
	}, nil
}

// Batch windows multiple catalogue entries by index.
func (d *Dataset) Batch(indices []int) ([]*Sample, error) {
	samples := make([]*Sample, len(indices))
	for i, idx := range indices {
		s, err := d.Sample(idx)
		if err != nil {
			return nil, err
		}
		samples[i] = s
	}
	return samples, nil
}

// artifacts resolves a recording's bundle from the cache, or re-reads it from
// disk when the cache is disabled. Both paths go through
// LoadRecordingArtifacts, so their output is identical.
func (d *Dataset) artifacts(basename string) (*RecordingArtifacts, error) {
	if d.cache != nil {
		if rec, ok := d.cache.Get(basename); ok {
			return rec, nil
		}
	}
	return LoadRecordingArtifacts(d.dir, basename)
}

// Shuffle permutes the order in which Yield visits the catalogue. Sample's
// index-to-entry mapping is untouched: Sample(i) returns the same example
// before and after a shuffle.
func (d *Dataset) Shuffle(seed int64) {
	d.rng = rand.New(rand.NewSource(seed))
	d.rng.Shuffle(len(d.perm), func(i, j int) {
		d.perm[i], d.perm[j] = d.perm[j], d.perm[i]
	})
}

// Name identifies the dataset for the gomlx training loop.
func (d *Dataset) Name() string {
	return "pianoRoll"
}

// Yield returns the next batch for the gomlx train.Dataset interface: the
// feature tensor as the single input, and onset, offset, mpe and velocity
// tensors as the labels, in that order. It returns io.EOF once the epoch is
// exhausted; Restart begins the next epoch.
func (d *Dataset) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	if d.cursor >= len(d.perm) {
		return nil, nil, nil, io.EOF
	}
	end := d.cursor + d.BatchSize
	if end > len(d.perm) {
		end = len(d.perm)
	}
	indices := d.perm[d.cursor:end]
	d.cursor = end

	samples, err := d.Batch(indices)
	if err != nil {
		return nil, nil, nil, err
	}
	batch, err := Collate(samples)
	if err != nil {
		return nil, nil, nil, err
	}
	feature, labelTensors, err := batch.ToGomlxTensors()
	if err != nil {
		return nil, nil, nil, err
	}
	return nil, []*tensors.Tensor{feature}, labelTensors, nil
}

// Restart resets the epoch cursor for another pass over the catalogue.
func (d *Dataset) Restart() error {
	d.cursor = 0
	return nil
}
