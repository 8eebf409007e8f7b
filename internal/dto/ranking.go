package dto

import "github.com/esn-apps/scholarship-review-api/internal/models"

// RankingEntry is one ranked application. Total is the flat score: the
// per-criterion mean across roles, summed. Discarded applications are
// excluded from the ranking entirely.
type RankingEntry struct {
	Rank          int                 `json:"rank"`
	ApplicationID string              `json:"application_id"`
	Name          string              `json:"name"`
	University    string              `json:"university"`
	Destination   string              `json:"destination"`
	Status        models.ReviewStatus `json:"status"`
	Total         float64             `json:"total"`
	Criteria      map[string]float64  `json:"criteria"`
}
