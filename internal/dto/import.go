package dto

// ImportRequest carries a parsed CSV for import into an edition: the
// header row plus the data rows, exactly as read from the file.
type ImportRequest struct {
	Header []string   `json:"header" validate:"required,min=1"`
	Rows   [][]string `json:"rows" validate:"required,min=1"`
	Async  bool       `json:"async"`
}

// ColumnMapping resolves application fields to CSV column indexes.
// A field absent from the map was not found in the header.
type ColumnMapping map[string]int
