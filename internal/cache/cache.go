// Package cache is a category keyed store for the entities of one open
// data source. Every category is backed by a set, a list or a map, chosen
// by its Descriptor. Backing structures are created on first write and
// synchronized individually.
package cache

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
)

var (
	// ErrNilKey means a nil key was supplied
	ErrNilKey = errors.New("cache: nil key")
	// ErrNilValue means a nil value or collection was supplied
	ErrNilValue = errors.New("cache: nil value")
	// ErrKindMismatch means the operation does not fit the category's structure
	ErrKindMismatch = errors.New("cache: operation does not match category kind")
	// ErrUncomparableKey means the key cannot be used in a set or map
	ErrUncomparableKey = errors.New("cache: key is not comparable")
)

// Cache is safe for concurrent use.
type Cache struct {
	mu     sync.Mutex
	stores map[Category]store

	descriptors map[Category]Descriptor
	metrics     *Metrics
	logger      *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithDescriptors overrides the default descriptors of the given categories.
func WithDescriptors(d map[Category]Descriptor) Option {
	return func(c *Cache) {
		for cat, desc := range d {
			c.descriptors[cat] = desc
		}
	}
}

// WithMetrics records hits, misses and stores in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = l
	}
}

// New returns an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		stores:      make(map[Category]store),
		descriptors: make(map[Category]Descriptor),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Descriptor returns the descriptor in effect for cat.
func (c *Cache) Descriptor(cat Category) Descriptor {
	if d, ok := c.descriptors[cat]; ok {
		return d
	}
	return cat.Descriptor()
}

// storeFor returns the backing structure of cat, creating it when create
// is set. Lookup and creation happen under one lock.
func (c *Cache) storeFor(cat Category, create bool) store {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.stores[cat]
	if !ok && create {
		s = newStore(c.Descriptor(cat))
		c.stores[cat] = s
	}
	return s
}

func (c *Cache) fail(op string, cat Category, err error) error {
	c.logger.Error("cache precondition failed", "op", op, "category", cat.String(), "error", err)
	return fmt.Errorf("%s %s: %w", op, cat, err)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func checkKey(key any) error {
	if isNil(key) {
		return ErrNilKey
	}
	// The dynamic check also catches interface fields holding slices or maps.
	if !reflect.ValueOf(key).Comparable() {
		return ErrUncomparableKey
	}
	return nil
}

// Store adds key to a set category.
func (c *Cache) Store(cat Category, key any) error {
	if err := checkKey(key); err != nil {
		return c.fail("store", cat, err)
	}
	if c.Descriptor(cat).Kind != SetKind {
		return c.fail("store", cat, ErrKindMismatch)
	}
	c.storeFor(cat, true).(*setStore).add(key)
	c.metrics.stored(cat, 1)
	return nil
}

// StoreValue sets key to value in a map category.
func (c *Cache) StoreValue(cat Category, key, value any) error {
	if err := checkKey(key); err != nil {
		return c.fail("store", cat, err)
	}
	if isNil(value) {
		return c.fail("store", cat, ErrNilValue)
	}
	if c.Descriptor(cat).Kind != MapKind {
		return c.fail("store", cat, ErrKindMismatch)
	}
	c.storeFor(cat, true).(*mapStore).put(key, value)
	c.metrics.stored(cat, 1)
	return nil
}

// StoreMap adds all entries of values to a map category. An empty map is
// a no-op.
func (c *Cache) StoreMap(cat Category, values map[any]any) error {
	if values == nil {
		return c.fail("store batch", cat, ErrNilValue)
	}
	if len(values) == 0 {
		return nil
	}
	if c.Descriptor(cat).Kind != MapKind {
		return c.fail("store batch", cat, ErrKindMismatch)
	}
	for k, v := range values {
		if err := checkKey(k); err != nil {
			return c.fail("store batch", cat, err)
		}
		if isNil(v) {
			return c.fail("store batch", cat, ErrNilValue)
		}
	}
	c.storeFor(cat, true).(*mapStore).putAll(values)
	c.metrics.stored(cat, len(values))
	return nil
}

// StoreCollection appends values to a list category, or adds them to a
// set category. An empty slice is a no-op.
func (c *Cache) StoreCollection(cat Category, values []any) error {
	if values == nil {
		return c.fail("store batch", cat, ErrNilValue)
	}
	if len(values) == 0 {
		return nil
	}
	for _, v := range values {
		if isNil(v) {
			return c.fail("store batch", cat, ErrNilValue)
		}
	}
	switch c.Descriptor(cat).Kind {
	case ListKind:
		c.storeFor(cat, true).(*listStore).addAll(values)
	case SetKind:
		for _, v := range values {
			if err := checkKey(v); err != nil {
				return c.fail("store batch", cat, err)
			}
		}
		s := c.storeFor(cat, true).(*setStore)
		for _, v := range values {
			s.add(v)
		}
	default:
		return c.fail("store batch", cat, ErrKindMismatch)
	}
	c.metrics.stored(cat, len(values))
	return nil
}

// Get returns the value of key in a map category, or key itself when it is
// a member of a set category.
func (c *Cache) Get(cat Category, key any) (any, bool) {
	if checkKey(key) != nil {
		return nil, false
	}
	var (
		v  any
		ok bool
	)
	switch s := c.storeFor(cat, false).(type) {
	case *mapStore:
		v, ok = s.get(key)
	case *setStore:
		if ok = s.has(key); ok {
			v = key
		}
	}
	c.metrics.lookedUp(cat, ok)
	return v, ok
}

// GetAll returns a copy of the whole category: a map[any]any for maps and
// a []any for lists and sets, in insertion order.
func (c *Cache) GetAll(cat Category) (any, bool) {
	s := c.storeFor(cat, false)
	if s == nil {
		c.metrics.lookedUp(cat, false)
		return nil, false
	}
	c.metrics.lookedUp(cat, true)
	return s.snapshot(), true
}

// GetInBatch returns the values of the given keys; missing keys are skipped.
func (c *Cache) GetInBatch(cat Category, keys []any) []any {
	out := make([]any, 0, len(keys))
	for _, k := range keys {
		if v, ok := c.Get(cat, k); ok {
			out = append(out, v)
		}
	}
	return out
}

// HasCategory reports whether anything was stored in cat.
func (c *Cache) HasCategory(cat Category) bool {
	return c.storeFor(cat, false) != nil
}

// Clear drops the content of cat.
func (c *Cache) Clear(cat Category) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.stores, cat)
}

// ClearAll drops everything.
func (c *Cache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stores = make(map[Category]store)
}

// Lookup is Get with the value converted to T.
func Lookup[T any](c *Cache, cat Category, key any) (T, bool) {
	var zero T
	v, ok := c.Get(cat, key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Values returns the members of a list or set category that are of type T.
func Values[T any](c *Cache, cat Category) []T {
	all, ok := c.GetAll(cat)
	if !ok {
		return nil
	}
	items, ok := all.([]any)
	if !ok {
		return nil
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if t, ok := it.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

// Entries returns the entries of a map category whose key and value have
// types K and V.
func Entries[K comparable, V any](c *Cache, cat Category) map[K]V {
	all, ok := c.GetAll(cat)
	if !ok {
		return nil
	}
	m, ok := all.(map[any]any)
	if !ok {
		return nil
	}
	out := make(map[K]V, len(m))
	for k, v := range m {
		kk, ok1 := k.(K)
		vv, ok2 := v.(V)
		if ok1 && ok2 {
			out[kk] = vv
		}
	}
	return out
}
