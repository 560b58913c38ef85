// Package source gives access to one opened mass spectrometry file. Values
// are transformed on first access and kept in a cache owned by the source.
package source

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/524D/mzcore/internal/cache"
	"github.com/524D/mzcore/internal/cv"
	"github.com/524D/mzcore/internal/model"
	"github.com/524D/mzcore/internal/query"
	"github.com/524D/mzcore/internal/transform"
)

// Source is one opened file. It is safe for concurrent use; concurrent
// first accesses of the same id may both transform it.
type Source struct {
	id     uuid.UUID
	path   string
	format transform.Format
	t      transform.Transformer
	cache  *cache.Cache
	logger *slog.Logger

	cacheOpts []cache.Option

	// empty holds the list categories that were read and found empty;
	// the cache does not store empty collections.
	mu    sync.Mutex
	empty map[cache.Category]bool
}

type Option func(*Source)

// WithLogger sets the logger of the source and its cache.
func WithLogger(l *slog.Logger) Option {
	return func(s *Source) {
		s.logger = l
	}
}

// WithCacheOptions passes options to the cache of the source.
func WithCacheOptions(opts ...cache.Option) Option {
	return func(s *Source) {
		s.cacheOpts = append(s.cacheOpts, opts...)
	}
}

// Open reads the file at path.
func Open(path string, opts ...Option) (*Source, error) {
	doc, err := transform.Open(path)
	if err != nil {
		return nil, err
	}
	s := New(doc, opts...)
	s.path = path
	s.logger = s.logger.With("path", path)
	s.logger.Debug("opened data source", "format", doc.Format.String())
	return s, nil
}

// New wraps t. A *transform.Document keeps its format.
func New(t transform.Transformer, opts ...Option) *Source {
	s := &Source{
		id:     uuid.New(),
		t:      t,
		logger: slog.Default(),
		empty:  make(map[cache.Category]bool),
	}
	if doc, ok := t.(*transform.Document); ok {
		s.format = doc.Format
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("source", s.id.String())
	s.cache = cache.New(append([]cache.Option{cache.WithLogger(s.logger)}, s.cacheOpts...)...)
	return s
}

func (s *Source) ID() uuid.UUID            { return s.id }
func (s *Source) Path() string             { return s.path }
func (s *Source) Format() transform.Format { return s.format }

// Close drops everything cached. The source stays usable.
func (s *Source) Close() error {
	s.cache.ClearAll()
	s.mu.Lock()
	clear(s.empty)
	s.mu.Unlock()
	return nil
}

func (s *Source) SpectrumIDs() []string {
	return metadata(s, cache.SpectrumIDs, s.t.SpectrumIDs)
}

func (s *Source) IdentificationIDs() []string {
	return metadata(s, cache.IdentificationIDs, s.t.IdentificationIDs)
}

// Spectrum returns the spectrum with the given id.
func (s *Source) Spectrum(id string) (*model.Spectrum, error) {
	if sp, ok := cache.Lookup[*model.Spectrum](s.cache, cache.Spectrum, id); ok {
		return sp, nil
	}
	sp, err := s.t.Spectrum(id)
	if err != nil {
		return nil, fmt.Errorf("spectrum %q: %w", id, err)
	}
	if err := s.cache.StoreValue(cache.Spectrum, id, sp); err != nil {
		s.logger.Warn("caching spectrum failed", "id", id, "error", err)
	}
	return sp, nil
}

// Identification returns the protein identification with the given id.
func (s *Source) Identification(id string) (*model.Identification, error) {
	if ident, ok := cache.Lookup[*model.Identification](s.cache, cache.Identification, id); ok {
		return ident, nil
	}
	ident, err := s.t.Identification(id)
	if err != nil {
		return nil, fmt.Errorf("identification %q: %w", id, err)
	}
	if err := s.cache.StoreValue(cache.Identification, id, ident); err != nil {
		s.logger.Warn("caching identification failed", "id", id, "error", err)
	}
	return ident, nil
}

// derived returns the value of cat for id, computing it with calc from the
// spectrum on first use.
func derived[T any](s *Source, cat cache.Category, id string, calc func(*model.Spectrum) T) (T, error) {
	if v, ok := cache.Lookup[T](s.cache, cat, id); ok {
		return v, nil
	}
	var zero T
	sp, err := s.Spectrum(id)
	if err != nil {
		return zero, err
	}
	v := calc(sp)
	if err := s.cache.StoreValue(cat, id, v); err != nil {
		s.logger.Warn("caching derived value failed", "category", cat.String(), "id", id, "error", err)
	}
	return v, nil
}

// MsLevel returns the ms level of a spectrum, or -1.
func (s *Source) MsLevel(id string) (int, error) {
	return derived(s, cache.MsLevel, id, query.GetMsLevel)
}

// PrecursorCharge returns the charge of the first precursor ion, or -1.
func (s *Source) PrecursorCharge(id string) (int, error) {
	return derived(s, cache.PrecursorCharge, id, query.GetPrecursorCharge)
}

// PrecursorMz returns the m/z of the first precursor ion, or -1.
func (s *Source) PrecursorMz(id string) (float64, error) {
	return derived(s, cache.PrecursorMz, id, query.GetPrecursorMz)
}

// ProteinCoverage returns the number of covered residues of an
// identification, or -1 when it has no peptides.
func (s *Source) ProteinCoverage(id string) (int, error) {
	if v, ok := cache.Lookup[int](s.cache, cache.ProteinCoverage, id); ok {
		return v, nil
	}
	ident, err := s.Identification(id)
	if err != nil {
		return -1, err
	}
	coverage, ok := query.GetProteinCoverage(ident)
	if !ok {
		coverage = -1
	}
	if err := s.cache.StoreValue(cache.ProteinCoverage, id, coverage); err != nil {
		s.logger.Warn("caching protein coverage failed", "id", id, "error", err)
	}
	return coverage, nil
}

// SearchEngineTypes returns the search engines that scored any protein or
// peptide of the file, in order of first appearance.
func (s *Source) SearchEngineTypes() ([]cv.SearchEngineType, error) {
	if s.cache.HasCategory(cache.SearchEngineTypes) {
		return cache.Values[cv.SearchEngineType](s.cache, cache.SearchEngineTypes), nil
	}
	if s.knownEmpty(cache.SearchEngineTypes) {
		return nil, nil
	}
	found := []any{}
	seen := make(map[cv.SearchEngineType]bool)
	add := func(sc *model.Score) {
		for _, e := range sc.SearchEngineTypes() {
			if !seen[e] {
				seen[e] = true
				found = append(found, e)
			}
		}
	}
	for _, id := range s.IdentificationIDs() {
		ident, err := s.Identification(id)
		if err != nil {
			return nil, err
		}
		add(ident.Score)
		for _, p := range ident.Peptides() {
			if p.SpectrumIdentification != nil {
				add(p.SpectrumIdentification.Score)
			}
		}
	}
	s.storeList(cache.SearchEngineTypes, found)
	out := make([]cv.SearchEngineType, len(found))
	for i, e := range found {
		out[i] = e.(cv.SearchEngineType)
	}
	return out, nil
}

// metadata returns the list in cat, reading it from fetch on first use.
func metadata[T any](s *Source, cat cache.Category, fetch func() []T) []T {
	if s.cache.HasCategory(cat) {
		return cache.Values[T](s.cache, cat)
	}
	if s.knownEmpty(cat) {
		return nil
	}
	list := fetch()
	items := make([]any, 0, len(list))
	for _, v := range list {
		items = append(items, v)
	}
	s.storeList(cat, items)
	return list
}

func (s *Source) knownEmpty(cat cache.Category) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.empty[cat]
}

// storeList caches items in cat, or records that cat is empty.
func (s *Source) storeList(cat cache.Category, items []any) {
	if len(items) == 0 {
		s.mu.Lock()
		s.empty[cat] = true
		s.mu.Unlock()
		return
	}
	if err := s.cache.StoreCollection(cat, items); err != nil {
		s.logger.Warn("caching list failed", "category", cat.String(), "error", err)
	}
}

func (s *Source) InstrumentConfigurations() []*model.InstrumentConfiguration {
	return metadata(s, cache.InstrumentConfigurations, s.t.InstrumentConfigurations)
}

func (s *Source) SourceFiles() []*model.SourceFile {
	return metadata(s, cache.SourceFiles, s.t.SourceFiles)
}

func (s *Source) Software() []*model.Software {
	return metadata(s, cache.Software, s.t.Software)
}

func (s *Source) DataProcessings() []*model.DataProcessing {
	return metadata(s, cache.DataProcessings, s.t.DataProcessings)
}

func (s *Source) Samples() []*model.Sample {
	return metadata(s, cache.Samples, s.t.Samples)
}

func (s *Source) Contacts() []*model.Contact {
	return metadata(s, cache.Contacts, s.t.Contacts)
}

func (s *Source) CVLookups() []*model.CVLookup {
	return metadata(s, cache.CVLookups, s.t.CVLookups)
}
