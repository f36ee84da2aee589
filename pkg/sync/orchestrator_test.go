package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vistatrade/firesync/pkg/connectors/firestore"
)

// fakeFetcher serves canned collections and documents and records how
// it was asked for them.
type fakeFetcher struct {
	collections []string
	documents   map[string][]firestore.Document

	lastLimit    int
	lastUseCache bool
}

func (f *fakeFetcher) ListCollections(ctx context.Context, useCache bool) []string {
	f.lastUseCache = useCache
	return f.collections
}

func (f *fakeFetcher) ListDocuments(ctx context.Context, collection string, useCache bool, limit int) []firestore.Document {
	f.lastUseCache = useCache
	f.lastLimit = limit
	return f.documents[collection]
}

func newTestOrchestrator(t *testing.T) (*Orchestrator, *fakeFetcher) {
	t.Helper()
	fetcher := &fakeFetcher{documents: map[string][]firestore.Document{}}
	s, _ := newTestSynchronizer(t)
	return NewOrchestrator(fetcher, s, nil), fetcher
}

func TestSyncCollectionUnknownName(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	stats := o.SyncCollection(context.Background(), "mystery_collection")
	assert.Equal(t, "no sync handler for collection: mystery_collection", stats.Error)
	assert.Zero(t, stats.Created)
	assert.Zero(t, stats.Updated)
	assert.Zero(t, stats.Errors)
	assert.Zero(t, stats.Total)
}

func TestSyncCollectionCaseInsensitive(t *testing.T) {
	o, fetcher := newTestOrchestrator(t)
	fetcher.documents["Purchases"] = []firestore.Document{{"id": "p1"}}

	stats := o.SyncCollection(context.Background(), "Purchases")
	assert.Empty(t, stats.Error)
	assert.Equal(t, 1, stats.Created)
}

func TestSyncCollectionBypassesCache(t *testing.T) {
	o, fetcher := newTestOrchestrator(t)
	fetcher.lastUseCache = true

	o.SyncCollection(context.Background(), "purchases")
	assert.False(t, fetcher.lastUseCache, "sync reads must hit the remote, not the cache")
}

func TestSyncCollectionAliasedNames(t *testing.T) {
	o, fetcher := newTestOrchestrator(t)
	fetcher.documents["purchases_collection"] = []firestore.Document{{"id": "p1"}}

	stats := o.SyncCollection(context.Background(), "purchases_collection")
	assert.Empty(t, stats.Error)
	assert.Equal(t, 1, stats.Created)
}

func TestSyncCollectionHighVolumeLimit(t *testing.T) {
	o, fetcher := newTestOrchestrator(t)

	o.SyncCollection(context.Background(), "signal_notifications")
	assert.Equal(t, 500, fetcher.lastLimit)

	o.SyncCollection(context.Background(), "fcm_tokens")
	assert.Equal(t, 500, fetcher.lastLimit)

	o.SyncCollection(context.Background(), "purchases")
	assert.Zero(t, fetcher.lastLimit, "regular collections are fetched unbounded")
}

func TestSyncAllAggregates(t *testing.T) {
	o, fetcher := newTestOrchestrator(t)
	fetcher.collections = []string{"purchases", "courses", "mystery_collection"}
	fetcher.documents["purchases"] = []firestore.Document{
		{"id": "p1"},
		{"status": "missing id"},
	}
	fetcher.documents["courses"] = []firestore.Document{
		{"id": "c1", "title": "Basics"},
	}

	all := o.SyncAll(context.Background())
	require.Len(t, all, 3)

	assert.Equal(t, Stats{Created: 1, Errors: 1, Total: 2}, all["purchases"])
	assert.Equal(t, Stats{Created: 1, Total: 1}, all["courses"])
	assert.Equal(t, "no sync handler for collection: mystery_collection", all["mystery_collection"].Error)
}

func TestSyncAllEmptyListing(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	all := o.SyncAll(context.Background())
	assert.Empty(t, all)
}

func TestCollectionsCoverDispatchTable(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	names := o.Collections()
	assert.Contains(t, names, "purchases")
	assert.Contains(t, names, "users")
	assert.Contains(t, names, "fcm_tokens")
	assert.Contains(t, names, "signal_notifications_collection")
	assert.Len(t, names, 15)
}
