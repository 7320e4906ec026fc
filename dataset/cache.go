package dataset

import "fmt"

// ArtifactCache owns the in-memory artifacts of every recording the catalogue
// references, keyed by basename. It is populated once at construction and
// read-only afterwards, so any number of goroutines may call Get concurrently.
//
// Memory cost is proportional to the number of distinct recordings, not the
// number of catalogue entries: the full corpus stays resident for the life of
// the cache. A training loop that spreads sample fetches across worker
// processes either shares one cache or pays that cost once per worker.
type ArtifactCache struct {
	recordings map[string]*RecordingArtifacts

	// load is swapped out by tests to count invocations.
	load func(dir, basename string) (*RecordingArtifacts, error)
}

// NewArtifactCache eagerly loads the artifacts of every distinct recording the
// catalogue references. Each basename is loaded at most once no matter how
// many entries point to it.
func NewArtifactCache(dir string, entries []CatalogueEntry) (*ArtifactCache, error) {
	c := &ArtifactCache{
		recordings: make(map[string]*RecordingArtifacts),
		load:       LoadRecordingArtifacts,
	}
	if err := c.populate(dir, entries); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *ArtifactCache) populate(dir string, entries []CatalogueEntry) error {
	for _, entry := range entries {
		if _, ok := c.recordings[entry.Basename]; ok {
			continue
		}
		rec, err := c.load(dir, entry.Basename)
		if err != nil {
			return fmt.Errorf("caching artifacts for %s: %w", entry.Basename, err)
		}
		c.recordings[entry.Basename] = rec
	}
	return nil
}

// Get returns the cached bundle for a recording, or false if the catalogue
// never referenced it.
func (c *ArtifactCache) Get(basename string) (*RecordingArtifacts, bool) {
	rec, ok := c.recordings[basename]
	return rec, ok
}

// Len returns the number of distinct recordings held.
func (c *ArtifactCache) Len() int {
	return len(c.recordings)
}
