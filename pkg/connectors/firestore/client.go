package firestore

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/vistatrade/firesync/pkg/logger"
	"github.com/vistatrade/firesync/pkg/storage/cache"
)

const (
	cacheKeyCollections = "firestore:collections"
	cacheKeyPrefix      = "firestore:collection:"
)

// Client is a rate-limited, cached, retrying reader over a remote
// Firestore project. All remote calls share one admission gate so the
// whole process stays under the provider's request budget.
//
// The client degrades rather than fails: when the SDK cannot be
// initialized (missing credentials) or a call ultimately fails, every
// operation yields an empty result and the rest of the system keeps
// running with zero rows.
type Client struct {
	config  *Config
	remote  remoteStore
	limiter *rate.Limiter
	cache   cache.Cache
	tracer  trace.Tracer
	log     *logger.Logger

	// sleep is the backoff delay hook, replaced in tests
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a Firestore client. A failed SDK initialization is
// logged once and leaves the client in degraded mode instead of
// returning an error.
func NewClient(ctx context.Context, config *Config, store cache.Cache, log *logger.Logger) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if log == nil {
		log = logger.Nop()
	}

	c := newClient(config, nil, store, log)

	remote, err := newSDKStore(ctx, config)
	if err != nil {
		log.WithError(err).Warn("firestore client unavailable, operating in degraded mode")
		return c
	}
	c.remote = remote

	return c
}

func newClient(config *Config, remote remoteStore, store cache.Cache, log *logger.Logger) *Client {
	return &Client{
		config:  config,
		remote:  remote,
		limiter: rate.NewLimiter(rate.Every(config.RequestInterval), 1),
		cache:   store,
		tracer:  otel.Tracer("firestore-client"),
		log:     log,
		sleep:   sleepContext,
	}
}

// Close releases the underlying SDK connection
func (c *Client) Close() error {
	if c.remote == nil {
		return nil
	}
	return c.remote.Close()
}

// Available reports whether the remote client initialized successfully
func (c *Client) Available() bool {
	return c.remote != nil
}

// CacheStats returns the read cache's performance counters, or nil when
// the client runs uncached
func (c *Client) CacheStats(ctx context.Context) *cache.Stats {
	if c.cache == nil {
		return nil
	}
	return c.cache.Stats(ctx)
}

// ListCollections returns the names of all top-level remote collections.
// Results are cached for the collection-list TTL; failures yield an
// empty slice.
func (c *Client) ListCollections(ctx context.Context, useCache bool) []string {
	ctx, span := c.tracer.Start(ctx, "firestore.list_collections")
	defer span.End()

	if useCache && c.cache != nil {
		if cached, err := c.cache.Get(ctx, cacheKeyCollections); err == nil {
			if names, ok := cached.([]string); ok {
				span.SetAttributes(attribute.Bool("cache.hit", true))
				return names
			}
		}
	}

	if c.remote == nil {
		return nil
	}

	result, err := c.executeWithRetry(ctx, func(ctx context.Context) (interface{}, error) {
		return c.remote.ListCollections(ctx)
	})
	if err != nil {
		span.RecordError(err)
		c.log.WithError(err).Error("failed to list collections")
		return nil
	}

	names := result.([]string)
	if c.cache != nil {
		c.cache.Set(ctx, cacheKeyCollections, names, c.config.CollectionListTTL)
	}

	span.SetAttributes(attribute.Int("firestore.collection_count", len(names)))
	c.log.WithField("count", len(names)).Debug("fetched collection listing")

	return names
}

// ListDocuments returns every document of a collection, optionally capped
// at limit. Each document carries its identity in the "id" field. Results
// are cached for the document-list TTL; failures yield an empty slice.
func (c *Client) ListDocuments(ctx context.Context, collection string, useCache bool, limit int) []Document {
	ctx, span := c.tracer.Start(ctx, "firestore.list_documents")
	defer span.End()
	span.SetAttributes(attribute.String("firestore.collection", collection))

	key := cacheKeyPrefix + collection
	if useCache && c.cache != nil {
		if cached, err := c.cache.Get(ctx, key); err == nil {
			if docs, ok := cached.([]Document); ok {
				span.SetAttributes(attribute.Bool("cache.hit", true))
				return docs
			}
		}
	}

	if c.remote == nil {
		return nil
	}

	result, err := c.executeWithRetry(ctx, func(ctx context.Context) (interface{}, error) {
		return c.remote.ListDocuments(ctx, collection, limit)
	})
	if err != nil {
		span.RecordError(err)
		c.log.WithError(err).WithField("collection", collection).Error("failed to list documents")
		return nil
	}

	docs := result.([]Document)
	if c.cache != nil {
		c.cache.Set(ctx, key, docs, c.config.DocumentListTTL)
	}

	span.SetAttributes(attribute.Int("firestore.document_count", len(docs)))
	c.log.WithFields(map[string]interface{}{
		"collection": collection,
		"count":      len(docs),
	}).Debug("fetched collection documents")

	return docs
}

// GetDocument fetches one document by id. Uncached and unretried:
// read-your-writes freshness matters more than throughput here.
func (c *Client) GetDocument(ctx context.Context, collection, id string) (Document, bool) {
	ctx, span := c.tracer.Start(ctx, "firestore.get_document")
	defer span.End()
	span.SetAttributes(
		attribute.String("firestore.collection", collection),
		attribute.String("firestore.document_id", id),
	)

	if c.remote == nil {
		return nil, false
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, false
	}

	doc, err := c.remote.GetDocument(ctx, collection, id)
	if err != nil {
		if err != ErrNotFound {
			span.RecordError(err)
			c.log.WithError(err).WithField("collection", collection).Error("failed to fetch document")
		}
		return nil, false
	}

	return doc, true
}

// QueryDocuments performs an uncached filtered read. Supported operators:
// ==, !=, <, <=, >, >=.
func (c *Client) QueryDocuments(ctx context.Context, collection, field string, op QueryOperator, value interface{}) []Document {
	ctx, span := c.tracer.Start(ctx, "firestore.query_documents")
	defer span.End()
	span.SetAttributes(
		attribute.String("firestore.collection", collection),
		attribute.String("firestore.query_field", field),
		attribute.String("firestore.query_op", string(op)),
	)

	if c.remote == nil {
		return nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, c.config.CallTimeout)
	defer cancel()

	docs, err := c.remote.QueryDocuments(callCtx, collection, field, op, value)
	if err != nil {
		span.RecordError(err)
		c.log.WithError(err).WithField("collection", collection).Error("query failed")
		return nil
	}

	return docs
}

// InvalidateCache drops the cached document listing for a collection, or
// every cached entry when collection is empty
func (c *Client) InvalidateCache(ctx context.Context, collection string) {
	if c.cache == nil {
		return
	}
	if collection != "" {
		c.cache.Delete(ctx, cacheKeyPrefix+collection)
		return
	}
	c.cache.Clear(ctx)
}

// executeWithRetry runs op under the shared rate limiter with bounded
// exponential backoff. Only transient quota/deadline errors are retried;
// all other errors abandon immediately.
func (c *Client) executeWithRetry(ctx context.Context, op func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	delay := c.config.InitialBackoff

	var lastErr error
	for attempt := 1; attempt <= c.config.MaxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		callCtx, cancel := context.WithTimeout(ctx, c.config.CallTimeout)
		result, err := op(callCtx)
		cancel()

		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isTransient(err) {
			c.log.WithError(err).Debug("non-retryable error, abandoning")
			return nil, err
		}

		if attempt < c.config.MaxAttempts {
			c.log.WithFields(map[string]interface{}{
				"attempt": attempt,
				"delay":   delay.String(),
			}).Warn("quota error, backing off")

			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
			delay *= 2
		}
	}

	return nil, lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
