package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FrameSpan is a half-open [OnsetFrame, OffsetFrame) range of frame indices.
// OnsetFrame may be negative for feature spans: the window then begins before
// the recording's feature array and the missing leading frames are synthesized
// as silence during windowing. OffsetFrame may run past the end of the source
// array; the overhang is padded.
type FrameSpan struct {
	OnsetFrame  int `json:"onset_frame"`
	OffsetFrame int `json:"offset_frame"`
}

// Len returns the number of frames the span selects.
func (s FrameSpan) Len() int {
	return s.OffsetFrame - s.OnsetFrame
}

// CatalogueEntry references one training example: a feature span and a label
// span into the artifacts of a single recording. Label timelines may be offset
// from feature timelines, so the two spans need not be numerically identical.
type CatalogueEntry struct {
	Basename string    `json:"basename"`
	Feature  FrameSpan `json:"feature"`
	Label    FrameSpan `json:"label"`
}

// Metadata describes the provenance of one source recording. It is loaded for
// reporting only; the windower never reads it.
type Metadata struct {
	CanonicalComposer string  `json:"canonical_composer"`
	CanonicalTitle    string  `json:"canonical_title"`
	Split             string  `json:"split"`
	Year              int     `json:"year"`
	MidiFilename      string  `json:"midi_filename"`
	AudioFilename     string  `json:"audio_filename"`
	Duration          float64 `json:"duration"`
}

// FeatureConfig holds the constants of the upstream feature extraction. Only
// LogOffset is required: log(LogOffset) is the feature-space value that
// represents silence, and every padded feature cell is filled with it.
type FeatureConfig struct {
	SampleRate int      `json:"sample_rate"`
	HopLength  int      `json:"hop_length"`
	Bins       int      `json:"bins"`
	LogOffset  *float64 `json:"log_offset"`
}

// Config is the dataset configuration persisted next to the catalogue.
type Config struct {
	Feature FeatureConfig `json:"feature"`
}

// mapping.json entries decode through this shadow type so absent fields are
// distinguishable from zero values.
type catalogueEntryJSON struct {
	Basename *string    `json:"basename"`
	Feature  *FrameSpan `json:"feature"`
	Label    *FrameSpan `json:"label"`
}

// LoadCatalogue reads <dir>/mapping.json and returns its entries in file
// order. Order is significant: it defines the index-to-sample mapping for
// random access. Any structural problem wraps ErrSchema.
func LoadCatalogue(dir string) ([]CatalogueEntry, error) {
	path := filepath.Join(dir, "mapping.json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrSchema, path, err)
	}

	var decoded []catalogueEntryJSON
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrSchema, path, err)
	}

	entries := make([]CatalogueEntry, len(decoded))
	for i, e := range decoded {
		if e.Basename == nil || *e.Basename == "" {
			return nil, fmt.Errorf("%w: entry %d: missing basename", ErrSchema, i)
		}
		if e.Feature == nil {
			return nil, fmt.Errorf("%w: entry %d (%s): missing feature span", ErrSchema, i, *e.Basename)
		}
		if e.Label == nil {
			return nil, fmt.Errorf("%w: entry %d (%s): missing label span", ErrSchema, i, *e.Basename)
		}
		// Label spans are produced on a non-negative timeline upstream; a
		// negative label onset is a broken catalogue, not a window to correct.
		if e.Label.OnsetFrame < 0 {
			return nil, fmt.Errorf("%w: entry %d (%s): negative label onset_frame %d",
				ErrSchema, i, *e.Basename, e.Label.OnsetFrame)
		}
		entries[i] = CatalogueEntry{Basename: *e.Basename, Feature: *e.Feature, Label: *e.Label}
	}
	return entries, nil
}

// LoadConfig reads <dir>/config.json and validates the required constants.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, "config.json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrSchema, path, err)
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrSchema, path, err)
	}
	if cfg.Feature.LogOffset == nil {
		return nil, fmt.Errorf("%w: %s: missing feature.log_offset", ErrSchema, path)
	}
	if *cfg.Feature.LogOffset <= 0 {
		return nil, fmt.Errorf("%w: %s: feature.log_offset must be positive, got %v",
			ErrSchema, path, *cfg.Feature.LogOffset)
	}
	return &cfg, nil
}

// LoadMetadata reads the optional <dir>/metadata.json, a basename-keyed map of
// recording provenance. A missing file is not an error: it returns an empty map.
func LoadMetadata(dir string) (map[string]Metadata, error) {
	path := filepath.Join(dir, "metadata.json")
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]Metadata{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrSchema, path, err)
	}

	var meta map[string]Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrSchema, path, err)
	}
	return meta, nil
}
