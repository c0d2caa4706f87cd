// Package models holds the data structures shared between the bot's
// components: storage object snapshots and per-user session state.
package models

import "time"

// StoredObject is a point-in-time snapshot of one object in the bucket,
// fetched per operation. The storage backend owns the authoritative state;
// nothing here is cached across handler invocations.
type StoredObject struct {
	Path        string
	SizeBytes   int64
	CreatedAt   time.Time
	ContentType string
}
