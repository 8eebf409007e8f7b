package scoring

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esn-apps/scholarship-review-api/internal/models"
)

func scoresFromJSON(t *testing.T, raw string) models.ScoreSet {
	t.Helper()
	var set models.ScoreSet
	require.NoError(t, json.Unmarshal([]byte(raw), &set))
	return set
}

func TestTotalNilReview(t *testing.T) {
	assert.Equal(t, 0.0, Total(nil))
}

func TestTotalCoercesStringScores(t *testing.T) {
	set := scoresFromJSON(t, `{
		"motivation": {"president": 10},
		"academic": {"president": 5},
		"presentation": {"president": 0},
		"fit": {"president": "7"}
	}`)
	review := &models.Review{Scores: set}
	assert.Equal(t, 22.0, Total(review))
}

func TestTotalIgnoresUnparseableValues(t *testing.T) {
	set := scoresFromJSON(t, `{
		"motivation": {"president": "abc", "eo": 12},
		"fit": {"president": ""}
	}`)
	review := &models.Review{Scores: set}
	assert.Equal(t, 12.0, Total(review))
}

func TestTotalAveragesAcrossRoles(t *testing.T) {
	set := scoresFromJSON(t, `{
		"motivation": {"president": 10, "eo": 20},
		"academic": {"cf": 5}
	}`)
	review := &models.Review{Scores: set}
	assert.Equal(t, 20.0, Total(review))
}

func TestTotalIdempotent(t *testing.T) {
	set := scoresFromJSON(t, `{"motivation": {"president": 18}}`)
	review := &models.Review{Scores: set}
	first := Total(review)
	second := Total(review)
	assert.Equal(t, first, second)
}

func TestRoleCompleteNilReview(t *testing.T) {
	assert.False(t, RoleComplete(nil, models.RolePresident))
}

func TestRoleCompleteExplicitZeroCounts(t *testing.T) {
	set := scoresFromJSON(t, `{
		"motivation": {"president": 0},
		"presentation": {"president": 15}
	}`)
	review := &models.Review{Scores: set}
	assert.True(t, RoleComplete(review, models.RolePresident))
}

func TestRoleCompleteMissingCriterion(t *testing.T) {
	set := scoresFromJSON(t, `{"motivation": {"president": 15}}`)
	review := &models.Review{Scores: set}
	assert.False(t, RoleComplete(review, models.RolePresident))
}

func TestRoleCompleteEmptyStringIsUnset(t *testing.T) {
	set := scoresFromJSON(t, `{
		"motivation": {"president": 12},
		"presentation": {"president": ""}
	}`)
	review := &models.Review{Scores: set}
	assert.False(t, RoleComplete(review, models.RolePresident))
}

func TestRoleCompletePerRoleIsolation(t *testing.T) {
	set := scoresFromJSON(t, `{
		"motivation": {"president": 12, "eo": 9},
		"presentation": {"president": 15}
	}`)
	review := &models.Review{Scores: set}
	assert.True(t, RoleComplete(review, models.RolePresident))
	assert.False(t, RoleComplete(review, models.RoleEO))
}

func TestTouched(t *testing.T) {
	assert.False(t, Touched(nil))
	assert.False(t, Touched(&models.Review{Status: models.ReviewNotStarted}))
	assert.True(t, Touched(&models.Review{Status: models.ReviewInProgress}))
	assert.True(t, Touched(&models.Review{Scores: scoresFromJSON(t, `{"fit": {"cf": 0}}`)}))
	assert.True(t, Touched(&models.Review{VerifiedDocs: models.DocChecklist{"iban": true}}))
	assert.True(t, Touched(&models.Review{Comments: models.CommentList{{Text: "ok"}}}))
	assert.False(t, Touched(&models.Review{VerifiedDocs: models.DocChecklist{"iban": false}}))
}
