package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// DocumentLinks maps named applicant documents to their URLs
// (iban, motivation, records, learningAgreement, irs, presentation, ...).
type DocumentLinks map[string]string

// Value serialises the links for JSONB storage.
func (d DocumentLinks) Value() (driver.Value, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}

// Scan loads the links from JSONB storage.
func (d *DocumentLinks) Scan(src interface{}) error {
	return scanJSON(src, d, "documents")
}

// Application is one imported applicant row, owned by an edition.
// Immutable once imported except via re-import, which merges by ID.
type Application struct {
	ID                 string        `db:"id" json:"id"`
	EditionID          string        `db:"edition_id" json:"edition_id"`
	RowIndex           int           `db:"row_index" json:"row_index"`
	Name               string        `db:"name" json:"name"`
	Email              string        `db:"email" json:"email"`
	University         string        `db:"university" json:"university"`
	Course             string        `db:"course" json:"course"`
	DestinationCity    string        `db:"destination_city" json:"destination_city"`
	DestinationCountry string        `db:"destination_country" json:"destination_country"`
	Semester           string        `db:"semester" json:"semester"`
	AcademicYear       string        `db:"academic_year" json:"academic_year"`
	Documents          DocumentLinks `db:"documents" json:"documents"`
	CreatedAt          time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time     `db:"updated_at" json:"updated_at"`
}

// BatchResult accounts for one chunked batch upsert. Earlier chunks are
// never rolled back when a later chunk fails, so partial success is a
// valid outcome and must be surfaced.
type BatchResult struct {
	Total        int    `json:"total"`
	Upserted     int    `json:"upserted"`
	Chunks       int    `json:"chunks"`
	FailedChunk  int    `json:"failed_chunk,omitempty"`
	FailedReason string `json:"failed_reason,omitempty"`
}

// Partial reports whether some but not all chunks were applied.
func (r BatchResult) Partial() bool {
	return r.Upserted > 0 && r.Upserted < r.Total
}
