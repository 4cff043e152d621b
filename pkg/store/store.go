// Package store archives detection runs so the server can list and replay
// past results. Three backends exist: an in-memory store for development
// and tests, a file store for single-instance deployments, and MongoDB for
// deployments that keep history across restarts.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/scipopt/stairheur/pkg/detection"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
)

// Record is one archived detection run.
type Record struct {
	// ID uniquely identifies the record, assigned by the caller.
	ID string `json:"id" bson:"_id"`

	// Problem is the display name of the instance the run was made on.
	Problem string `json:"problem" bson:"problem"`

	// SourceHash fingerprints the instance content for deduplication.
	SourceHash string `json:"source_hash" bson:"source_hash"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	Result *detection.Result `json:"result" bson:"result"`
}

// Store archives detection records.
type Store interface {
	// Save inserts or replaces a record by ID.
	Save(ctx context.Context, rec *Record) error

	// Get returns the record with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first. A limit of zero
	// means no limit.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Delete removes a record. Deleting a missing record returns
	// ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
