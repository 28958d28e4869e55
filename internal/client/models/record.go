// Package models defines territory record types: records, rows, outcome
// symbols and aggregated stats.
package models

import "time"

// Row is one canvassed address entry on a record.
type Row struct {
	ID      string `json:"id"`
	HouseNo string `json:"houseNo"`
	Date    string `json:"date"` // calendar date, YYYY-MM-DD
	Symbol  Symbol `json:"symbol"`
	Remarks string `json:"remarks"`
}

// Record is one street/territory worksheet. Rows keep insertion order;
// the display order is the stored order, nothing is sorted.
type Record struct {
	ID            string    `json:"id"`
	Street        string    `json:"street"`
	TerrNo        string    `json:"terrNo"`
	PublisherName string    `json:"publisherName"`
	Rows          []Row     `json:"rows"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// OwnerID is set only on published (shared) copies.
	OwnerID string `json:"ownerId,omitempty"`

	// ReadOnly tags records resolved from a share code. It is never
	// serialized; callers must not route read-only records into any
	// mutating operation.
	ReadOnly bool `json:"-"`
}

// Clone returns a deep copy of the record. Published snapshots are clones,
// so later local edits never leak into them.
func (r *Record) Clone() *Record {
	c := *r
	c.Rows = make([]Row, len(r.Rows))
	copy(c.Rows, r.Rows)
	return &c
}

// RecordPatch carries a partial update for a record. Nil fields are
// left untouched.
type RecordPatch struct {
	Street        *string
	TerrNo        *string
	PublisherName *string
	Rows          *[]Row
}

// RowPatch carries a partial update for a single row. Nil fields are
// left untouched.
type RowPatch struct {
	HouseNo *string
	Date    *string
	Symbol  *Symbol
	Remarks *string
}

// Apply merges the patch into the row.
func (p RowPatch) Apply(row *Row) {
	if p.HouseNo != nil {
		row.HouseNo = *p.HouseNo
	}
	if p.Date != nil {
		row.Date = *p.Date
	}
	if p.Symbol != nil {
		row.Symbol = *p.Symbol
	}
	if p.Remarks != nil {
		row.Remarks = *p.Remarks
	}
}

// Apply merges the patch into the record.
func (p RecordPatch) Apply(r *Record) {
	if p.Street != nil {
		r.Street = *p.Street
	}
	if p.TerrNo != nil {
		r.TerrNo = *p.TerrNo
	}
	if p.PublisherName != nil {
		r.PublisherName = *p.PublisherName
	}
	if p.Rows != nil {
		r.Rows = *p.Rows
	}
}
