// Package storage wraps the S3-compatible bucket behind the narrow interface
// the bot needs. Every call is a single network round-trip; callers treat all
// of them as fallible and surface failures as error screens.
package storage

import (
	"context"
	"time"

	"github.com/dmitrijs2005/filekeeper/internal/bot/models"
)

// HiddenPrefix marks objects the bot keeps for itself (auth state). They are
// excluded from user-visible listings.
const HiddenPrefix = ".filekeeper/"

type Repository interface {
	// List returns snapshots of the objects under prefix, hidden objects
	// excluded.
	List(ctx context.Context, prefix string) ([]models.StoredObject, error)

	// Upload stores data under path, overwriting any existing object.
	Upload(ctx context.Context, path string, data []byte, contentType string) error

	// Download fetches the whole object into memory.
	Download(ctx context.Context, path string) ([]byte, error)

	// Remove deletes the given objects in one call.
	Remove(ctx context.Context, paths []string) error

	// Move renames an object (copy, then delete the source).
	Move(ctx context.Context, oldPath, newPath string) error

	// PublicURL builds the directly shareable URL for path. It does not
	// verify the object exists.
	PublicURL(path string) string

	// PresignedGetURL builds a time-limited download URL, for buckets that
	// are not publicly readable.
	PresignedGetURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}
