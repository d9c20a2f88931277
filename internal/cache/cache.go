// Package cache keeps recent classifications keyed by statement text.
package cache

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nethalo/sqlclass/internal/classifier"
)

// DefaultSize is the number of records kept when no size is configured.
const DefaultSize = 4096

type entry struct {
	sql string
	rec *classifier.Record
}

// Cache is a fixed-size LRU of classification records. It is safe for
// concurrent use.
type Cache struct {
	classifier *classifier.Classifier
	records    *lru.Cache[uint64, entry]

	lookups *prometheus.CounterVec
}

// New returns a cache of size records in front of c. If reg is not nil the
// hit and miss counters are registered with it.
func New(c *classifier.Classifier, size int, reg prometheus.Registerer) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	records, err := lru.New[uint64, entry](size)
	if err != nil {
		return nil, fmt.Errorf("creating record cache: %w", err)
	}

	lookups := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sqlclass",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Counter of cache lookups by result.",
		}, []string{"result"})
	if reg != nil {
		if err := reg.Register(lookups); err != nil {
			return nil, fmt.Errorf("registering cache metrics: %w", err)
		}
	}

	return &Cache{
		classifier: c,
		records:    records,
		lookups:    lookups,
	}, nil
}

// GetOrClassify returns the cached record for sql, classifying it on a
// miss. Records are shared between callers and must not be modified.
func (c *Cache) GetOrClassify(sql string) *classifier.Record {
	key := keyOf(sql)
	if e, ok := c.records.Get(key); ok && e.sql == sql {
		c.lookups.WithLabelValues("hit").Inc()
		return e.rec
	}

	c.lookups.WithLabelValues("miss").Inc()
	rec := c.classifier.Classify(sql)
	c.records.Add(key, entry{sql: sql, rec: rec})
	return rec
}

func keyOf(sql string) uint64 {
	return xxhash.Sum64String(sql)
}

// Len returns the number of cached records.
func (c *Cache) Len() int {
	return c.records.Len()
}

// Purge drops every cached record.
func (c *Cache) Purge() {
	c.records.Purge()
}
