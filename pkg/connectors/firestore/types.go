package firestore

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Config contains configuration for the Firestore client
type Config struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`

	// Rate limiting: minimum spacing between remote calls, shared across
	// every operation of this client
	RequestInterval time.Duration `yaml:"request_interval"`

	// Per-call deadline for listing/streaming operations
	CallTimeout time.Duration `yaml:"call_timeout"`

	// Retry configuration for quota errors
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`

	// Cache TTL classes
	CollectionListTTL time.Duration `yaml:"collection_list_ttl"`
	DocumentListTTL   time.Duration `yaml:"document_list_ttl"`
}

// DefaultConfig returns default Firestore client configuration
func DefaultConfig() *Config {
	return &Config{
		RequestInterval:   500 * time.Millisecond,
		CallTimeout:       30 * time.Second,
		MaxAttempts:       3,
		InitialBackoff:    1 * time.Second,
		CollectionListTTL: 5 * time.Minute,
		DocumentListTTL:   1 * time.Minute,
	}
}

// QueryOperator is a field comparison operator for filtered reads
type QueryOperator string

// Supported query operators
const (
	OpEqual          QueryOperator = "=="
	OpNotEqual       QueryOperator = "!="
	OpLess           QueryOperator = "<"
	OpLessOrEqual    QueryOperator = "<="
	OpGreater        QueryOperator = ">"
	OpGreaterOrEqual QueryOperator = ">="
)

// remoteStore is the thin surface of the remote document database the
// client depends on. The production implementation wraps the Firestore
// SDK; tests substitute fakes.
type remoteStore interface {
	ListCollections(ctx context.Context) ([]string, error)
	ListDocuments(ctx context.Context, collection string, limit int) ([]Document, error)
	GetDocument(ctx context.Context, collection, id string) (Document, error)
	QueryDocuments(ctx context.Context, collection, field string, op QueryOperator, value interface{}) ([]Document, error)
	Close() error
}

// ErrNotFound indicates the requested document does not exist
var ErrNotFound = errors.New("document not found")

// isTransient classifies provider errors into the two kinds the engine
// distinguishes. Quota exhaustion and deadline overruns are retried;
// everything else fails fast so programming errors are not masked as
// throttling.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.ResourceExhausted, codes.DeadlineExceeded:
			return true
		}
	}
	return false
}
