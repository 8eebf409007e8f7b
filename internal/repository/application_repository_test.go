package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esn-apps/scholarship-review-api/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func makeApplications(n int) []models.Application {
	apps := make([]models.Application, n)
	for i := range apps {
		apps[i] = models.Application{
			ID:       fmt.Sprintf("app-%d", i),
			RowIndex: i,
			Name:     fmt.Sprintf("Applicant %d", i),
		}
	}
	return apps
}

func TestApplicationRepositoryListByEdition(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewApplicationRepository(db, 0)

	rows := sqlmock.NewRows([]string{"id", "edition_id", "row_index", "name", "email", "university", "course",
		"destination_city", "destination_country", "semester", "academic_year", "documents", "created_at", "updated_at"}).
		AddRow("app-1", "ed-1", 0, "Ana", "ana@example.org", "UP", "EE", "Lyon", "France", "S1", "2025/2026", []byte(`{"iban":"http://x"}`), time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM applications WHERE edition_id = \\$1 ORDER BY row_index ASC").
		WithArgs("ed-1").
		WillReturnRows(rows)

	apps, err := repo.ListByEdition(context.Background(), "ed-1")
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "app-1", apps[0].ID)
	assert.Equal(t, "http://x", apps[0].Documents["iban"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryBatchUpsertSingleChunk(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewApplicationRepository(db, 450)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO applications").WillReturnResult(sqlmock.NewResult(0, 450))
	mock.ExpectCommit()

	result, err := repo.BatchUpsert(context.Background(), "ed-1", makeApplications(450))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Chunks)
	assert.Equal(t, 450, result.Upserted)
	assert.False(t, result.Partial())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryBatchUpsertTwoChunks(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewApplicationRepository(db, 450)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO applications").WillReturnResult(sqlmock.NewResult(0, 450))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO applications").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := repo.BatchUpsert(context.Background(), "ed-1", makeApplications(451))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Chunks)
	assert.Equal(t, 451, result.Upserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryBatchUpsertPartialFailure(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewApplicationRepository(db, 100)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO applications").WillReturnResult(sqlmock.NewResult(0, 100))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO applications").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	result, err := repo.BatchUpsert(context.Background(), "ed-1", makeApplications(150))
	require.Error(t, err)
	assert.Equal(t, 100, result.Upserted)
	assert.Equal(t, 2, result.FailedChunk)
	assert.True(t, result.Partial())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryBatchUpsertEmpty(t *testing.T) {
	db, _, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewApplicationRepository(db, 450)

	result, err := repo.BatchUpsert(context.Background(), "ed-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Chunks)
}

func TestApplicationRepositoryCountByEdition(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewApplicationRepository(db, 0)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM applications WHERE edition_id = $1")).
		WithArgs("ed-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	total, err := repo.CountByEdition(context.Background(), "ed-1")
	require.NoError(t, err)
	assert.Equal(t, 42, total)
}
