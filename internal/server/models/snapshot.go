// Package models defines server-side data models persisted in the database.
package models

import "time"

// Snapshot is a published, immutable copy of a record. ShareID is the
// public lookup code; Data holds the frozen record JSON exactly as
// received at publish time. Snapshots are written once and never updated.
type Snapshot struct {
	// ShareID is the unique share code embedded in share URLs.
	ShareID string
	// OwnerID is the account that published the snapshot.
	OwnerID string
	// Data is the record document, serialized JSON.
	Data []byte
	// StorageKey is the object-storage key of the archived copy, empty
	// when archiving is not configured.
	StorageKey string
	// SharedAt is the publish timestamp.
	SharedAt time.Time
}
