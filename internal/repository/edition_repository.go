package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/esn-apps/scholarship-review-api/internal/models"
)

// EditionRepository manages persistence for editions.
type EditionRepository struct {
	db *sqlx.DB
}

// NewEditionRepository constructs an EditionRepository.
func NewEditionRepository(db *sqlx.DB) *EditionRepository {
	return &EditionRepository{db: db}
}

// List returns all editions, newest first.
func (r *EditionRepository) List(ctx context.Context) ([]models.Edition, error) {
	const query = `SELECT id, name, academic_year, semester, active, created_at
        FROM editions ORDER BY created_at DESC`
	var editions []models.Edition
	if err := r.db.SelectContext(ctx, &editions, query); err != nil {
		return nil, fmt.Errorf("list editions: %w", err)
	}
	return editions, nil
}

// FindByID fetches a single edition.
func (r *EditionRepository) FindByID(ctx context.Context, id string) (*models.Edition, error) {
	const query = `SELECT id, name, academic_year, semester, active, created_at
        FROM editions WHERE id = $1`
	var edition models.Edition
	if err := r.db.GetContext(ctx, &edition, query, id); err != nil {
		return nil, err
	}
	return &edition, nil
}

// Create inserts a new edition.
func (r *EditionRepository) Create(ctx context.Context, edition *models.Edition) error {
	if edition.ID == "" {
		edition.ID = uuid.NewString()
	}
	if edition.CreatedAt.IsZero() {
		edition.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO editions (id, name, academic_year, semester, active, created_at)
        VALUES (:id, :name, :academic_year, :semester, :active, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, edition); err != nil {
		return fmt.Errorf("create edition: %w", err)
	}
	return nil
}

// Update modifies an existing edition.
func (r *EditionRepository) Update(ctx context.Context, edition *models.Edition) error {
	const query = `UPDATE editions SET name = :name, academic_year = :academic_year,
        semester = :semester, active = :active WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, edition); err != nil {
		return fmt.Errorf("update edition: %w", err)
	}
	return nil
}

// Delete removes an edition record. Applications and reviews in the
// partition are retained; deletion does not cascade.
func (r *EditionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM editions WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete edition: %w", err)
	}
	return nil
}
