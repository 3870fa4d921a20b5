package network

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"powermap/core/internal/metrics"
	"powermap/core/internal/model"
)

// DefaultSchemaCacheSize comfortably exceeds the number of attribute names in use
const DefaultSchemaCacheSize = 64

type schemaEntry struct {
	loc   model.Locator
	found bool
}

// Resolver maps attribute names to values for an entity. It owns the cache of
// attribute storage locations; per-entity values are never cached.
type Resolver struct {
	store   Store
	schema  *lru.Cache[string, schemaEntry]
	group   singleflight.Group
	metrics *metrics.Registry
	logger  *slog.Logger
}

// NewResolver creates a resolver over store. m and logger may be nil.
func NewResolver(store Store, cacheSize int, m *metrics.Registry, logger *slog.Logger) *Resolver {
	if cacheSize <= 0 {
		cacheSize = DefaultSchemaCacheSize
	}
	// lru.New only fails on a non-positive size
	cache, _ := lru.New[string, schemaEntry](cacheSize)
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{store: store, schema: cache, metrics: m, logger: logger}
}

// Locate returns where the store keeps an attribute. Found and not-found
// answers are cached; store errors are not, so a later call retries.
func (r *Resolver) Locate(ctx context.Context, name string) (model.Locator, bool) {
	if e, ok := r.schema.Get(name); ok {
		r.metrics.RecordSchemaLookup("hit")
		return e.loc, e.found
	}

	v, err, _ := r.group.Do(name, func() (any, error) {
		if e, ok := r.schema.Get(name); ok {
			return e, nil
		}
		loc, found, err := r.store.ResolveAttributeSchema(ctx, name)
		if err != nil {
			return nil, err
		}
		e := schemaEntry{loc: loc, found: found}
		r.schema.Add(name, e)
		return e, nil
	})
	if err != nil {
		r.metrics.RecordSchemaLookup("error")
		r.logger.Warn("attribute schema lookup failed", "attribute", name, "error", err)
		return model.Locator{}, false
	}
	r.metrics.RecordSchemaLookup("miss")
	e := v.(schemaEntry)
	if !e.found {
		r.logger.Debug("attribute not defined in store", "attribute", name)
	}
	return e.loc, e.found
}

// Locators resolves several attribute names at once, skipping undefined ones
func (r *Resolver) Locators(ctx context.Context, names ...string) []model.Locator {
	var out []model.Locator
	for _, name := range names {
		if loc, ok := r.Locate(ctx, name); ok {
			out = append(out, loc)
		}
	}
	return out
}

// Lookup fetches the raw value of an attribute for one entity. The boolean
// is false when the attribute is undefined, unset, or the store failed.
func (r *Resolver) Lookup(ctx context.Context, id int64, name string) (string, bool) {
	loc, ok := r.Locate(ctx, name)
	if !ok {
		return "", false
	}
	recs, err := r.store.GetEntities(ctx, []int64{id}, []model.Locator{loc}, 1)
	if err != nil {
		r.logger.Warn("attribute value lookup failed", "entity", id, "attribute", name, "error", err)
		return "", false
	}
	if len(recs) == 0 {
		return "", false
	}
	v, ok := recs[0].Values[loc.Column]
	return v, ok
}

// Resolve returns the attribute value or def
func (r *Resolver) Resolve(ctx context.Context, id int64, name, def string) string {
	if v, ok := r.Lookup(ctx, id, name); ok {
		return v
	}
	r.metrics.RecordAttributeDefault(name)
	return def
}

// ResolveInt returns the attribute as an integer, or def when it is absent or not numeric
func (r *Resolver) ResolveInt(ctx context.Context, id int64, name string, def int) int {
	if v, ok := r.Lookup(ctx, id, name); ok {
		if n, ok := parseLevel(v); ok {
			return n
		}
	}
	r.metrics.RecordAttributeDefault(name)
	return def
}

// IntFrom reads an integer attribute from an already fetched record
func (r *Resolver) IntFrom(ctx context.Context, rec model.EntityRecord, name string, def int) int {
	if loc, ok := r.Locate(ctx, name); ok {
		if n, ok := parseLevel(rec.Values[loc.Column]); ok {
			return n
		}
	}
	r.metrics.RecordAttributeDefault(name)
	return def
}

// StringFrom reads a text attribute from an already fetched record
func (r *Resolver) StringFrom(ctx context.Context, rec model.EntityRecord, name, def string) string {
	if loc, ok := r.Locate(ctx, name); ok {
		if v, ok := rec.Values[loc.Column]; ok {
			return v
		}
	}
	r.metrics.RecordAttributeDefault(name)
	return def
}

// HasValue reports whether a record carries any value for the attribute
func (r *Resolver) HasValue(ctx context.Context, rec model.EntityRecord, name string) bool {
	loc, ok := r.Locate(ctx, name)
	if !ok {
		return false
	}
	v, ok := rec.Values[loc.Column]
	return ok && strings.TrimSpace(v) != ""
}

// parseLevel accepts integers and integral decimals such as "4.0"
func parseLevel(v string) (int, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}
