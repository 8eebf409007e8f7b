package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/esn-apps/scholarship-review-api/internal/models"
)

// DefaultImportChunkSize bounds how many applications go into a single
// batch transaction. Matches the hosted store limit the import was
// originally sized against.
const DefaultImportChunkSize = 450

const applicationColumns = `id, edition_id, row_index, name, email, university, course,
        destination_city, destination_country, semester, academic_year, documents, created_at, updated_at`

// ApplicationRepository manages persistence for imported applications.
type ApplicationRepository struct {
	db        *sqlx.DB
	chunkSize int
}

// NewApplicationRepository constructs an ApplicationRepository.
func NewApplicationRepository(db *sqlx.DB, chunkSize int) *ApplicationRepository {
	if chunkSize <= 0 {
		chunkSize = DefaultImportChunkSize
	}
	return &ApplicationRepository{db: db, chunkSize: chunkSize}
}

// ListByEdition returns an edition's applications in import order.
func (r *ApplicationRepository) ListByEdition(ctx context.Context, editionID string) ([]models.Application, error) {
	query := fmt.Sprintf(`SELECT %s FROM applications WHERE edition_id = $1 ORDER BY row_index ASC`, applicationColumns)
	var apps []models.Application
	if err := r.db.SelectContext(ctx, &apps, query, editionID); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// FindByID fetches a single application.
func (r *ApplicationRepository) FindByID(ctx context.Context, editionID, id string) (*models.Application, error) {
	query := fmt.Sprintf(`SELECT %s FROM applications WHERE edition_id = $1 AND id = $2`, applicationColumns)
	var app models.Application
	if err := r.db.GetContext(ctx, &app, query, editionID, id); err != nil {
		return nil, err
	}
	return &app, nil
}

// BatchUpsert bulk-upserts applications in chunks. Each chunk is one
// transaction: it applies fully or not at all. A committed chunk is
// never rolled back when a later chunk fails, so the returned result
// may report partial success.
func (r *ApplicationRepository) BatchUpsert(ctx context.Context, editionID string, apps []models.Application) (models.BatchResult, error) {
	result := models.BatchResult{Total: len(apps)}
	if len(apps) == 0 {
		return result, nil
	}

	for start := 0; start < len(apps); start += r.chunkSize {
		end := start + r.chunkSize
		if end > len(apps) {
			end = len(apps)
		}
		result.Chunks++
		if err := r.upsertChunk(ctx, editionID, apps[start:end]); err != nil {
			result.FailedChunk = result.Chunks
			result.FailedReason = err.Error()
			return result, fmt.Errorf("batch upsert chunk %d: %w", result.Chunks, err)
		}
		result.Upserted += end - start
	}
	return result, nil
}

func (r *ApplicationRepository) upsertChunk(ctx context.Context, editionID string, apps []models.Application) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	placeholders := make([]string, 0, len(apps))
	args := make([]interface{}, 0, len(apps)*13)
	for i := range apps {
		app := &apps[i]
		app.EditionID = editionID
		if app.CreatedAt.IsZero() {
			app.CreatedAt = now
		}
		app.UpdatedAt = now
		base := len(args)
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10, base+11, base+12, base+13, base+14))
		args = append(args, app.ID, app.EditionID, app.RowIndex, app.Name, app.Email, app.University, app.Course,
			app.DestinationCity, app.DestinationCountry, app.Semester, app.AcademicYear, app.Documents, app.CreatedAt, app.UpdatedAt)
	}

	query := fmt.Sprintf(`INSERT INTO applications (%s) VALUES %s
        ON CONFLICT (edition_id, id) DO UPDATE SET
        row_index = EXCLUDED.row_index,
        name = EXCLUDED.name,
        email = EXCLUDED.email,
        university = EXCLUDED.university,
        course = EXCLUDED.course,
        destination_city = EXCLUDED.destination_city,
        destination_country = EXCLUDED.destination_country,
        semester = EXCLUDED.semester,
        academic_year = EXCLUDED.academic_year,
        documents = EXCLUDED.documents,
        updated_at = EXCLUDED.updated_at`,
		applicationColumns, strings.Join(placeholders, ", "))

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return tx.Commit()
}

// CountByEdition returns the number of applications in an edition.
func (r *ApplicationRepository) CountByEdition(ctx context.Context, editionID string) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM applications WHERE edition_id = $1", editionID); err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	return total, nil
}
