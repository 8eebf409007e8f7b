package dto

import "github.com/esn-apps/scholarship-review-api/internal/models"

// CommentInput is a single comment submitted alongside a review save.
type CommentInput struct {
	Text string `json:"text" validate:"required"`
}

// SaveReviewRequest is a partial review update. Only the fields present
// are merged into the stored review; omitted scores and checklist keys
// stay untouched. Status, when supplied, overrides the automatic
// promotion rules.
type SaveReviewRequest struct {
	Scores       models.ScoreSet      `json:"scores"`
	VerifiedDocs map[string]bool      `json:"verified_docs"`
	Comment      *CommentInput        `json:"comment"`
	Status       *models.ReviewStatus `json:"status"`
}

// ReviewItem pairs an application with its review for edition listings.
type ReviewItem struct {
	ApplicationID string         `json:"application_id"`
	Review        *models.Review `json:"review"`
	Total         float64        `json:"total"`
}
