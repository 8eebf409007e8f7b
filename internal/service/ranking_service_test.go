package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esn-apps/scholarship-review-api/internal/models"
	appErrors "github.com/esn-apps/scholarship-review-api/pkg/errors"
)

type stubRankingCache struct {
	store map[string][]byte
	gets  int
	sets  int
}

func newStubRankingCache() *stubRankingCache {
	return &stubRankingCache{store: map[string][]byte{}}
}

func (s *stubRankingCache) Get(_ context.Context, key string, dest interface{}) error {
	s.gets++
	raw, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *stubRankingCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	s.sets++
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = raw
	return nil
}

func scoredReview(status models.ReviewStatus, scores models.ScoreSet) *models.Review {
	return &models.Review{Status: status, Scores: scores}
}

func newTestRankingService(apps []models.Application, reviews map[string]*models.Review, cache *stubRankingCache) *RankingService {
	return NewRankingService(
		&stubApplicationLister{applications: apps},
		&stubReviewReader{reviews: reviews},
		cache,
		time.Minute,
		nil,
		nil,
	)
}

func TestRankingOrdersByTotalDescending(t *testing.T) {
	apps := applicationsFixture("a", "b", "c")
	reviews := map[string]*models.Review{
		"a": scoredReview(models.ReviewInProgress, models.ScoreSet{
			models.CriterionMotivation: {models.RolePresident: {Value: 10, Set: true}},
		}),
		"c": scoredReview(models.ReviewReviewed, models.ScoreSet{
			models.CriterionMotivation: {models.RolePresident: {Value: 20, Set: true}},
			models.CriterionFit:        {models.RoleEO: {Value: 5, Set: true}},
		}),
	}
	svc := newTestRankingService(apps, reviews, newStubRankingCache())

	entries, err := svc.Ranking(context.Background(), "ed-1")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "c", entries[0].ApplicationID)
	assert.Equal(t, 25.0, entries[0].Total)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "a", entries[1].ApplicationID)
	// Untouched application ranks last with a zero total.
	assert.Equal(t, "b", entries[2].ApplicationID)
	assert.Equal(t, 0.0, entries[2].Total)
	assert.Equal(t, models.ReviewNotStarted, entries[2].Status)
}

func TestRankingAveragesRolesPerCriterion(t *testing.T) {
	apps := applicationsFixture("a")
	reviews := map[string]*models.Review{
		"a": scoredReview(models.ReviewInProgress, models.ScoreSet{
			models.CriterionMotivation: {
				models.RolePresident: {Value: 10, Set: true},
				models.RoleEO:        {Value: 20, Set: true},
			},
		}),
	}
	svc := newTestRankingService(apps, reviews, newStubRankingCache())

	entries, err := svc.Ranking(context.Background(), "ed-1")
	require.NoError(t, err)
	assert.Equal(t, 15.0, entries[0].Total)
	assert.Equal(t, 15.0, entries[0].Criteria["motivation"])
}

func TestRankingExcludesDiscarded(t *testing.T) {
	apps := applicationsFixture("a", "b")
	reviews := map[string]*models.Review{
		"a": {Status: models.ReviewDiscarded},
	}
	svc := newTestRankingService(apps, reviews, newStubRankingCache())

	entries, err := svc.Ranking(context.Background(), "ed-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b", entries[0].ApplicationID)
}

func TestRankingTiesKeepImportOrder(t *testing.T) {
	apps := applicationsFixture("a", "b", "c")
	svc := newTestRankingService(apps, map[string]*models.Review{}, newStubRankingCache())

	entries, err := svc.Ranking(context.Background(), "ed-1")
	require.NoError(t, err)
	assert.Equal(t, "a", entries[0].ApplicationID)
	assert.Equal(t, "b", entries[1].ApplicationID)
	assert.Equal(t, "c", entries[2].ApplicationID)
}

func TestRankingServesFromCache(t *testing.T) {
	apps := applicationsFixture("a")
	cache := newStubRankingCache()
	svc := newTestRankingService(apps, map[string]*models.Review{}, cache)

	_, err := svc.Ranking(context.Background(), "ed-1")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	_, err = svc.Ranking(context.Background(), "ed-1")
	require.NoError(t, err)
	// Second read hits the cache, no second recompute/store.
	assert.Equal(t, 2, cache.gets)
	assert.Equal(t, 1, cache.sets)
}

func TestRankingExportCSV(t *testing.T) {
	apps := applicationsFixture("a")
	apps[0].Name = "Ana"
	apps[0].University = "UP"
	svc := newTestRankingService(apps, map[string]*models.Review{}, newStubRankingCache())

	data, err := svc.ExportCSV(context.Background(), "ed-1")
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, "Rank,Name,University"))
	assert.Contains(t, content, "1,Ana,UP")
}

func TestRankingExportPDF(t *testing.T) {
	apps := applicationsFixture("a")
	svc := newTestRankingService(apps, map[string]*models.Review{}, newStubRankingCache())

	data, err := svc.ExportPDF(context.Background(), "ed-1")
	require.NoError(t, err)
	assert.True(t, len(data) > 0)
	assert.Equal(t, "%PDF", string(data[:4]))
}
