package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esn-apps/scholarship-review-api/internal/models"
)

func TestReviewRepositoryMapByEdition(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	rows := sqlmock.NewRows([]string{"application_id", "edition_id", "status", "scores", "verified_docs", "comments", "last_updated"}).
		AddRow("app-1", "ed-1", "in_progress", []byte(`{"motivation":{"president":18}}`), []byte(`{"iban":true}`), []byte(`[]`), time.Now()).
		AddRow("app-2", "ed-1", "reviewed", []byte(`{}`), []byte(`{}`), []byte(`[{"text":"solid","author":"Ana"}]`), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM reviews WHERE edition_id = \\$1").
		WithArgs("ed-1").
		WillReturnRows(rows)

	reviews, err := repo.MapByEdition(context.Background(), "ed-1")
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, models.ReviewInProgress, reviews["app-1"].Status)
	score := reviews["app-1"].Scores.Get(models.CriterionMotivation, models.RolePresident)
	assert.True(t, score.Set)
	assert.Equal(t, 18.0, score.Value)
	require.Len(t, reviews["app-2"].Comments, 1)
	assert.Equal(t, "solid", reviews["app-2"].Comments[0].Text)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepositoryFindNoRows(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM reviews WHERE edition_id = \\$1 AND application_id = \\$2").
		WithArgs("ed-1", "app-9").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Find(context.Background(), "ed-1", "app-9")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestReviewRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectExec("INSERT INTO reviews").
		WillReturnResult(sqlmock.NewResult(0, 1))

	review := &models.Review{
		ApplicationID: "app-1",
		EditionID:     "ed-1",
		Status:        models.ReviewInProgress,
		Scores:        models.ScoreSet{models.CriterionFit: {models.RoleCF: {Value: 7, Set: true}}},
		LastUpdated:   time.Now().UTC(),
	}
	require.NoError(t, repo.Upsert(context.Background(), review))
	assert.NoError(t, mock.ExpectationsWereMet())
}
