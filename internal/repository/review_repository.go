package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/esn-apps/scholarship-review-api/internal/models"
)

const reviewColumns = `application_id, edition_id, status, scores, verified_docs, comments, last_updated`

// ReviewRepository manages persistence for review records. One review
// row exists per application, shared by all evaluator roles.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository constructs a ReviewRepository.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// MapByEdition returns the edition's reviews keyed by application ID.
func (r *ReviewRepository) MapByEdition(ctx context.Context, editionID string) (map[string]*models.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE edition_id = $1`, reviewColumns)
	var reviews []models.Review
	if err := r.db.SelectContext(ctx, &reviews, query, editionID); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	byApp := make(map[string]*models.Review, len(reviews))
	for i := range reviews {
		byApp[reviews[i].ApplicationID] = &reviews[i]
	}
	return byApp, nil
}

// Find fetches the review for one application. sql.ErrNoRows means the
// application has never been touched.
func (r *ReviewRepository) Find(ctx context.Context, editionID, applicationID string) (*models.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE edition_id = $1 AND application_id = $2`, reviewColumns)
	var review models.Review
	if err := r.db.GetContext(ctx, &review, query, editionID, applicationID); err != nil {
		return nil, err
	}
	return &review, nil
}

// Upsert writes the full merged review row. Callers merge before
// writing; concurrent writers are last-write-wins at row granularity.
func (r *ReviewRepository) Upsert(ctx context.Context, review *models.Review) error {
	const query = `INSERT INTO reviews (application_id, edition_id, status, scores, verified_docs, comments, last_updated)
        VALUES (:application_id, :edition_id, :status, :scores, :verified_docs, :comments, :last_updated)
        ON CONFLICT (edition_id, application_id) DO UPDATE SET
        status = EXCLUDED.status,
        scores = EXCLUDED.scores,
        verified_docs = EXCLUDED.verified_docs,
        comments = EXCLUDED.comments,
        last_updated = EXCLUDED.last_updated`
	if _, err := r.db.NamedExecContext(ctx, query, review); err != nil {
		return fmt.Errorf("upsert review: %w", err)
	}
	return nil
}
