package sync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vistatrade/firesync/pkg/connectors/firestore"
	"github.com/vistatrade/firesync/pkg/logger"
)

// Fetcher is the remote read surface the orchestrator drives. The
// Firestore client satisfies it; tests substitute fakes.
type Fetcher interface {
	ListCollections(ctx context.Context, useCache bool) []string
	ListDocuments(ctx context.Context, collection string, useCache bool, limit int) []firestore.Document
}

// High-volume collections are capped per run
const highVolumeLimit = 500

// handler binds one remote collection to its entity sync routine
type handler struct {
	limit int
	sync  func(ctx context.Context, docs []firestore.Document) Stats
}

// Orchestrator discovers remote collections and dispatches each to the
// matching synchronizer routine. Collections are processed sequentially:
// throughput is bounded by the fetcher's shared rate limiter, so
// parallel dispatch would only queue on the same gate.
type Orchestrator struct {
	fetcher  Fetcher
	handlers map[string]handler
	log      *logger.Logger
	tracer   trace.Tracer
}

// NewOrchestrator wires the orchestrator's static dispatch table
func NewOrchestrator(fetcher Fetcher, s *Synchronizer, log *logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}

	// Older deployments published some collections under *_collection
	// names; both spellings map to the same routine.
	handlers := map[string]handler{
		"purchases":                          {sync: s.SyncPurchases},
		"purchases_collection":               {sync: s.SyncPurchases},
		"premium_signals_payments":           {sync: s.SyncSignalPayments},
		"premium_signals_payments_collection": {sync: s.SyncSignalPayments},
		"signal_notifications":               {limit: highVolumeLimit, sync: s.SyncSignalNotifications},
		"signal_notifications_collection":    {limit: highVolumeLimit, sync: s.SyncSignalNotifications},
		"user_progress":                      {sync: s.SyncCourseProgress},
		"user_progress_collection":           {sync: s.SyncCourseProgress},
		"premium_signals":                    {sync: s.SyncSignals},
		"premium_signals_subscriptions":      {sync: s.SyncSignalSubscriptions},
		"courses":                            {sync: s.SyncCourses},
		"fcm_tokens":                         {limit: highVolumeLimit, sync: s.SyncDeviceTokens},
		"app_notifications":                  {sync: s.SyncAnnouncements},
		"testimonials":                       {sync: s.SyncTestimonials},
		"users":                              {sync: s.SyncAccounts},
	}

	return &Orchestrator{
		fetcher:  fetcher,
		handlers: handlers,
		log:      log,
		tracer:   otel.Tracer("sync-orchestrator"),
	}
}

// Collections returns the collection names the orchestrator can sync
func (o *Orchestrator) Collections() []string {
	names := make([]string, 0, len(o.handlers))
	for name := range o.handlers {
		names = append(names, name)
	}
	return names
}

// SyncCollection syncs one remote collection by name. Unknown names
// produce a structured error value with zero counters, not a failure.
func (o *Orchestrator) SyncCollection(ctx context.Context, name string) Stats {
	ctx, span := o.tracer.Start(ctx, "orchestrator.sync_collection")
	defer span.End()
	span.SetAttributes(attribute.String("sync.collection", name))

	h, ok := o.handlers[strings.ToLower(name)]
	if !ok {
		return Stats{Error: fmt.Sprintf("no sync handler for collection: %s", name)}
	}

	// Always a live read: syncing stale cached documents would re-apply
	// values the remote has already moved past
	docs := o.fetcher.ListDocuments(ctx, name, false, h.limit)
	return h.sync(ctx, docs)
}

// SyncAll discovers every remote collection and syncs each in listing
// order. Best effort: every failure mode contributes zero or low
// statistics for its collection and the loop always completes.
func (o *Orchestrator) SyncAll(ctx context.Context) map[string]Stats {
	runID := uuid.New().String()
	log := o.log.WithField("run_id", runID)

	ctx, span := o.tracer.Start(ctx, "orchestrator.sync_all")
	defer span.End()
	span.SetAttributes(attribute.String("sync.run_id", runID))

	started := time.Now()
	collections := o.fetcher.ListCollections(ctx, false)

	all := make(map[string]Stats, len(collections))
	var totals Stats
	for _, name := range collections {
		stats := o.SyncCollection(ctx, name)
		all[name] = stats
		totals.Merge(stats)

		log.WithFields(map[string]interface{}{
			"collection": name,
			"created":    stats.Created,
			"updated":    stats.Updated,
			"errors":     stats.Errors,
			"total":      stats.Total,
		}).Info("collection synced")
	}

	log.WithFields(map[string]interface{}{
		"collections": len(collections),
		"created":     totals.Created,
		"updated":     totals.Updated,
		"errors":      totals.Errors,
		"duration":    time.Since(started).String(),
	}).Info("sync run complete")

	return all
}
