// Package store is the access layer over the MongoDB collections. It is
// constructed once at startup and injected into the controllers, so the
// rule-set and handlers stay testable without a live database.
package store

import (
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNoDocuments mirrors the driver sentinel so callers only import store.
var ErrNoDocuments = mongo.ErrNoDocuments

type Store struct {
	users *mongo.Collection
	teams *mongo.Collection
	tasks *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		users: db.Collection("users"),
		teams: db.Collection("teams"),
		tasks: db.Collection("tasks"),
	}
}

// IsNotFound reports whether err is the driver's no-documents sentinel.
func IsNotFound(err error) bool {
	return err == mongo.ErrNoDocuments
}

// IsDuplicateKey reports whether err is a unique index violation, used to
// classify duplicate email registrations.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
