package firestore

import (
	"context"
	"fmt"

	gfirestore "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// sdkStore implements remoteStore over the Firestore SDK
type sdkStore struct {
	client *gfirestore.Client
}

func newSDKStore(ctx context.Context, config *Config) (*sdkStore, error) {
	if config.ProjectID == "" {
		return nil, fmt.Errorf("firestore project id is not configured")
	}

	var opts []option.ClientOption
	if config.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(config.CredentialsFile))
	}

	client, err := gfirestore.NewClient(ctx, config.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return &sdkStore{client: client}, nil
}

func (s *sdkStore) ListCollections(ctx context.Context) ([]string, error) {
	it := s.client.Collections(ctx)

	var names []string
	for {
		col, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list collections: %w", err)
		}
		names = append(names, col.ID)
	}

	return names, nil
}

func (s *sdkStore) ListDocuments(ctx context.Context, collection string, limit int) ([]Document, error) {
	query := s.client.Collection(collection).Query
	if limit > 0 {
		query = query.Limit(limit)
	}

	return drainDocuments(query.Documents(ctx))
}

func (s *sdkStore) GetDocument(ctx context.Context, collection, id string) (Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document %s/%s: %w", collection, id, err)
	}

	return snapshotDocument(snap), nil
}

func (s *sdkStore) QueryDocuments(ctx context.Context, collection, field string, op QueryOperator, value interface{}) ([]Document, error) {
	query := s.client.Collection(collection).Where(field, string(op), value)
	return drainDocuments(query.Documents(ctx))
}

func (s *sdkStore) Close() error {
	return s.client.Close()
}

func drainDocuments(it *gfirestore.DocumentIterator) ([]Document, error) {
	defer it.Stop()

	var docs []Document
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to stream documents: %w", err)
		}
		docs = append(docs, snapshotDocument(snap))
	}

	return docs, nil
}

// snapshotDocument flattens a snapshot into a Document with the identity
// injected under "id"
func snapshotDocument(snap *gfirestore.DocumentSnapshot) Document {
	doc := Document(snap.Data())
	if doc == nil {
		doc = Document{}
	}
	doc["id"] = snap.Ref.ID
	return doc
}
