// Package scoring holds the pure score calculations shared by the
// review, session and ranking services. Functions here never error on
// malformed input; they degrade to zero values.
package scoring

import (
	"github.com/esn-apps/scholarship-review-api/internal/models"
)

// RequiredCriteria lists the criteria every evaluator role must score
// before its work on an application counts as complete. The session
// queue filter and the status resolver share this single definition.
var RequiredCriteria = []models.Criterion{
	models.CriterionMotivation,
	models.CriterionPresentation,
}

// Total computes the flat ranking score of a review: for each criterion
// the mean of the role scores that are set, summed across criteria.
// A nil review or an empty score set totals 0. Idempotent and
// side-effect free; no clamping (the UI constrains inputs to 0-25).
func Total(review *models.Review) float64 {
	if review == nil {
		return 0
	}
	total := 0.0
	for _, criterion := range models.Criteria {
		total += CriterionValue(review.Scores, criterion)
	}
	return total
}

// CriterionValue is the flat value of one criterion: the mean of the
// set role scores, 0 when no role has scored it.
func CriterionValue(scores models.ScoreSet, criterion models.Criterion) float64 {
	roles := scores[criterion]
	sum := 0.0
	count := 0
	for _, score := range roles {
		if !score.Set {
			continue
		}
		sum += score.Value
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// RoleComplete reports whether the role has submitted a score for every
// required criterion. An explicit zero counts as submitted; an unset or
// empty value does not. A nil review fails closed.
func RoleComplete(review *models.Review, role models.ReviewerRole) bool {
	if review == nil {
		return false
	}
	for _, criterion := range RequiredCriteria {
		if !review.Scores.Get(criterion, role).Set {
			return false
		}
	}
	return true
}

// Touched reports whether a review shows any activity at all: a set
// score from any role, a verified document, a comment, or a status past
// not_started. Session queues surface touched applications first.
func Touched(review *models.Review) bool {
	if review == nil {
		return false
	}
	if review.Status != "" && review.Status != models.ReviewNotStarted {
		return true
	}
	for _, roles := range review.Scores {
		for _, score := range roles {
			if score.Set {
				return true
			}
		}
	}
	if review.VerifiedDocs.VerifiedCount() > 0 {
		return true
	}
	return len(review.Comments) > 0
}
