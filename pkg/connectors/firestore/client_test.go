package firestore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vistatrade/firesync/pkg/logger"
	"github.com/vistatrade/firesync/pkg/storage/cache"
)

// fakeRemote scripts remote responses and records call activity
type fakeRemote struct {
	collections []string
	documents   map[string][]Document

	// errs is consumed one per call before responses succeed
	errs []error

	listCalls  int
	docCalls   int
	callTimes  []time.Time
	lastLimit  int
	queryField string
}

func (f *fakeRemote) nextErr() error {
	if len(f.errs) == 0 {
		return nil
	}
	err := f.errs[0]
	f.errs = f.errs[1:]
	return err
}

func (f *fakeRemote) ListCollections(ctx context.Context) ([]string, error) {
	f.listCalls++
	f.callTimes = append(f.callTimes, time.Now())
	if err := f.nextErr(); err != nil {
		return nil, err
	}
	return f.collections, nil
}

func (f *fakeRemote) ListDocuments(ctx context.Context, collection string, limit int) ([]Document, error) {
	f.docCalls++
	f.lastLimit = limit
	if err := f.nextErr(); err != nil {
		return nil, err
	}
	return f.documents[collection], nil
}

func (f *fakeRemote) GetDocument(ctx context.Context, collection, id string) (Document, error) {
	for _, doc := range f.documents[collection] {
		if doc.ID() == id {
			return doc, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRemote) QueryDocuments(ctx context.Context, collection, field string, op QueryOperator, value interface{}) ([]Document, error) {
	f.queryField = field
	if err := f.nextErr(); err != nil {
		return nil, err
	}
	return f.documents[collection], nil
}

func (f *fakeRemote) Close() error { return nil }

func quotaError() error {
	return status.Error(codes.ResourceExhausted, "quota exceeded")
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.RequestInterval = time.Millisecond
	cfg.InitialBackoff = time.Millisecond
	return cfg
}

func newTestClient(t *testing.T, remote remoteStore, store cache.Cache) *Client {
	t.Helper()
	return newClient(testConfig(), remote, store, logger.Nop())
}

func TestListCollections(t *testing.T) {
	remote := &fakeRemote{collections: []string{"purchases", "courses"}}
	client := newTestClient(t, remote, nil)

	names := client.ListCollections(context.Background(), false)
	assert.Equal(t, []string{"purchases", "courses"}, names)
}

func TestListCollectionsCached(t *testing.T) {
	remote := &fakeRemote{collections: []string{"purchases"}}
	store := cache.NewMemoryCache(nil)
	defer store.Close()
	client := newTestClient(t, remote, store)
	ctx := context.Background()

	first := client.ListCollections(ctx, true)
	second := client.ListCollections(ctx, true)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, remote.listCalls, "second call should be served from cache")
}

func TestListCollectionsCacheBypass(t *testing.T) {
	remote := &fakeRemote{collections: []string{"purchases"}}
	store := cache.NewMemoryCache(nil)
	defer store.Close()
	client := newTestClient(t, remote, store)
	ctx := context.Background()

	client.ListCollections(ctx, true)
	client.ListCollections(ctx, false)

	assert.Equal(t, 2, remote.listCalls)
}

func TestListDocumentsInjectsLimit(t *testing.T) {
	remote := &fakeRemote{documents: map[string][]Document{
		"signal_notifications": {{"id": "n1"}},
	}}
	client := newTestClient(t, remote, nil)

	docs := client.ListDocuments(context.Background(), "signal_notifications", false, 500)
	require.Len(t, docs, 1)
	assert.Equal(t, 500, remote.lastLimit)
	assert.Equal(t, "n1", docs[0].ID())
}

func TestFailureNotCached(t *testing.T) {
	remote := &fakeRemote{
		collections: []string{"purchases"},
		errs:        []error{errors.New("boom")},
	}
	store := cache.NewMemoryCache(nil)
	defer store.Close()
	client := newTestClient(t, remote, store)
	ctx := context.Background()

	assert.Empty(t, client.ListCollections(ctx, true))

	// The failed result must not poison the cache
	names := client.ListCollections(ctx, true)
	assert.Equal(t, []string{"purchases"}, names)
}

func TestRetryTransientThenSucceed(t *testing.T) {
	remote := &fakeRemote{
		collections: []string{"purchases"},
		errs:        []error{quotaError(), quotaError()},
	}
	client := newTestClient(t, remote, nil)

	var delays []time.Duration
	client.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	names := client.ListCollections(context.Background(), false)

	assert.Equal(t, []string{"purchases"}, names)
	assert.Equal(t, 3, remote.listCalls)
	require.Len(t, delays, 2)
	// Exponential backoff with base factor 2
	assert.Equal(t, 2*delays[0], delays[1])
}

func TestRetryExhaustedSwallowed(t *testing.T) {
	remote := &fakeRemote{
		collections: []string{"purchases"},
		errs:        []error{quotaError(), quotaError(), quotaError()},
	}
	client := newTestClient(t, remote, nil)
	client.sleep = func(ctx context.Context, d time.Duration) error { return nil }

	names := client.ListCollections(context.Background(), false)

	assert.Empty(t, names)
	assert.Equal(t, 3, remote.listCalls)
}

func TestNonTransientFailsFast(t *testing.T) {
	remote := &fakeRemote{
		collections: []string{"purchases"},
		errs:        []error{status.Error(codes.PermissionDenied, "denied")},
	}
	client := newTestClient(t, remote, nil)

	names := client.ListCollections(context.Background(), false)

	assert.Empty(t, names)
	assert.Equal(t, 1, remote.listCalls, "permanent errors must not be retried")
}

func TestDeadlineTreatedAsTransient(t *testing.T) {
	assert.True(t, isTransient(status.Error(codes.DeadlineExceeded, "deadline")))
	assert.True(t, isTransient(context.DeadlineExceeded))
	assert.True(t, isTransient(quotaError()))
	assert.False(t, isTransient(errors.New("schema error")))
	assert.False(t, isTransient(nil))
}

func TestRateLimiterSpacing(t *testing.T) {
	remote := &fakeRemote{collections: []string{"a"}}
	cfg := testConfig()
	cfg.RequestInterval = 50 * time.Millisecond
	client := newClient(cfg, remote, nil, logger.Nop())
	ctx := context.Background()

	client.ListCollections(ctx, false)
	client.ListCollections(ctx, false)

	require.Len(t, remote.callTimes, 2)
	gap := remote.callTimes[1].Sub(remote.callTimes[0])
	assert.GreaterOrEqual(t, gap, 50*time.Millisecond,
		"back-to-back calls must be separated by the minimum interval")
}

func TestDegradedMode(t *testing.T) {
	client := newClient(testConfig(), nil, nil, logger.Nop())
	ctx := context.Background()

	assert.False(t, client.Available())
	assert.Empty(t, client.ListCollections(ctx, true))
	assert.Empty(t, client.ListDocuments(ctx, "purchases", true, 0))
	assert.Empty(t, client.QueryDocuments(ctx, "purchases", "status", OpEqual, "paid"))

	_, ok := client.GetDocument(ctx, "purchases", "p1")
	assert.False(t, ok)

	assert.NoError(t, client.Close())
}

func TestGetDocument(t *testing.T) {
	remote := &fakeRemote{documents: map[string][]Document{
		"purchases": {{"id": "p1", "amount": 9.5}},
	}}
	client := newTestClient(t, remote, nil)
	ctx := context.Background()

	doc, ok := client.GetDocument(ctx, "purchases", "p1")
	require.True(t, ok)
	assert.Equal(t, 9.5, doc["amount"])

	_, ok = client.GetDocument(ctx, "purchases", "missing")
	assert.False(t, ok)
}

func TestInvalidateCache(t *testing.T) {
	remote := &fakeRemote{
		collections: []string{"purchases"},
		documents:   map[string][]Document{"purchases": {{"id": "p1"}}},
	}
	store := cache.NewMemoryCache(nil)
	defer store.Close()
	client := newTestClient(t, remote, store)
	ctx := context.Background()

	client.ListDocuments(ctx, "purchases", true, 0)
	client.InvalidateCache(ctx, "purchases")
	client.ListDocuments(ctx, "purchases", true, 0)
	assert.Equal(t, 2, remote.docCalls)

	client.ListCollections(ctx, true)
	client.InvalidateCache(ctx, "")
	client.ListCollections(ctx, true)
	assert.Equal(t, 2, remote.listCalls)
}
