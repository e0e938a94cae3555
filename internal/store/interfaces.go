package store

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-study-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// DocumentStore is the persistence collaborator for every user-scoped
// collection. Paths follow [models.UserRoot]; every call is checked against
// the user ID carried by ctx (see utils.WithUserID) and fails with
// [ErrPermissionDenied] for foreign or unowned paths.
type DocumentStore interface {
	// List returns every document of the collection at path in creation order.
	List(ctx context.Context, path string) ([]models.Document, error)
	// Get returns one document or [ErrDocumentNotFound].
	Get(ctx context.Context, path, id string) (models.Document, error)
	// Create inserts a new document. An empty id is replaced by a generated one.
	Create(ctx context.Context, path, id string, data json.RawMessage) (models.Document, error)
	// Put inserts or replaces the document.
	Put(ctx context.Context, path, id string, data json.RawMessage) (models.Document, error)
	// Update replaces the body of an existing document or fails with
	// [ErrDocumentNotFound].
	Update(ctx context.Context, path, id string, data json.RawMessage) (models.Document, error)
	// Delete removes one document together with every subcollection below
	// it (path/id/...), atomically, or fails with [ErrDocumentNotFound].
	Delete(ctx context.Context, path, id string) error
	// DeleteTree removes every document whose collection path equals prefix
	// or lies below it, atomically.
	DeleteTree(ctx context.Context, prefix string) error
}

// UserRepository stores sign-in identities.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, userID int64) (models.User, error)
	UpdateEmail(ctx context.Context, userID int64, email string) error
	UpdatePasswordHash(ctx context.Context, userID int64, hash string) error
	// BumpSessionVersion invalidates every issued token and returns the new
	// version.
	BumpSessionVersion(ctx context.Context, userID int64) (int64, error)
	DeleteUser(ctx context.Context, userID int64) error
}

// ChangeFeed fans out "collection at path changed" notifications.
type ChangeFeed interface {
	Publish(ctx context.Context, path string) error
	// Subscribe registers fn for every published path until the returned
	// function is called.
	Subscribe(fn func(path string)) (unsubscribe func())
	Close() error
}

// ErrorClassificator decides whether a driver error is worth retrying.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// IDGenerator issues document ids.
type IDGenerator interface {
	Generate() string
}
