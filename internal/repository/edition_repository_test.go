package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esn-apps/scholarship-review-api/internal/models"
)

func TestEditionRepositoryListNewestFirst(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewEditionRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "academic_year", "semester", "active", "created_at"}).
		AddRow("ed-2", "Spring 2026", "2025/2026", "S2", true, time.Now()).
		AddRow("ed-1", "Fall 2025", "2025/2026", "S1", false, time.Now().Add(-time.Hour))
	mock.ExpectQuery("SELECT (.+) FROM editions ORDER BY created_at DESC").
		WillReturnRows(rows)

	editions, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, editions, 2)
	assert.Equal(t, "ed-2", editions[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEditionRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewEditionRepository(db)

	mock.ExpectExec("INSERT INTO editions").
		WillReturnResult(sqlmock.NewResult(1, 1))

	edition := &models.Edition{Name: "Fall 2026", AcademicYear: "2026/2027", Semester: "S1", Active: true}
	require.NoError(t, repo.Create(context.Background(), edition))
	assert.NotEmpty(t, edition.ID)
	assert.False(t, edition.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEditionRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewEditionRepository(db)

	mock.ExpectExec("DELETE FROM editions WHERE id = \\$1").
		WithArgs("ed-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "ed-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
