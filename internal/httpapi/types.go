// Package httpapi defines the JSON request/response shapes shared by the
// sharing server and the CLI client. The wire format mirrors the record's
// on-disk JSON so published snapshots stay readable by any client version.
package httpapi

import "time"

// Row is one canvassed address entry inside a published snapshot.
type Row struct {
	ID      string `json:"id"`
	HouseNo string `json:"houseNo"`
	Date    string `json:"date"`
	Symbol  string `json:"symbol"`
	Remarks string `json:"remarks"`
}

// Snapshot is the immutable, frozen-at-publish-time copy of a record.
// ID carries the share identifier on resolved snapshots.
type Snapshot struct {
	ID            string    `json:"id"`
	Street        string    `json:"street"`
	TerrNo        string    `json:"terrNo"`
	PublisherName string    `json:"publisherName"`
	Rows          []Row     `json:"rows"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	OwnerID       string    `json:"ownerId"`
	SharedAt      time.Time `json:"sharedAt"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	UserID string `json:"user_id"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type PublishRequest struct {
	Record Snapshot `json:"record"`
}

type PublishResponse struct {
	ShareID  string `json:"share_id"`
	ShareURL string `json:"share_url"`
}

// SnapshotListItem is one entry in the caller's published-snapshot list.
type SnapshotListItem struct {
	ShareID  string    `json:"share_id"`
	SharedAt time.Time `json:"shared_at"`
}

type SnapshotListResponse struct {
	Snapshots []SnapshotListItem `json:"snapshots"`
}

type ExportResponse struct {
	URL string `json:"url"`
}

type PingResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the uniform error body for non-2xx replies.
type ErrorResponse struct {
	Error string `json:"error"`
}
