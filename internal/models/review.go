package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ReviewerRole identifies one of the fixed evaluator identities.
type ReviewerRole string

const (
	RolePresident ReviewerRole = "president"
	RoleEO        ReviewerRole = "eo"
	RoleCF        ReviewerRole = "cf"
)

// ReviewerRoles lists every evaluator role.
var ReviewerRoles = []ReviewerRole{RolePresident, RoleEO, RoleCF}

// ValidReviewerRole reports whether the value names a known evaluator role.
func ValidReviewerRole(role ReviewerRole) bool {
	switch role {
	case RolePresident, RoleEO, RoleCF:
		return true
	}
	return false
}

// Criterion is one of the fixed scoring dimensions.
type Criterion string

const (
	CriterionMotivation   Criterion = "motivation"
	CriterionAcademic     Criterion = "academic"
	CriterionPresentation Criterion = "presentation"
	CriterionFit          Criterion = "fit"
)

// Criteria lists every scoring dimension in ranking order.
var Criteria = []Criterion{CriterionMotivation, CriterionAcademic, CriterionPresentation, CriterionFit}

// ReviewStatus is the explicit lifecycle state of a review record.
type ReviewStatus string

const (
	ReviewNotStarted ReviewStatus = "not_started"
	ReviewInProgress ReviewStatus = "in_progress"
	ReviewReviewed   ReviewStatus = "reviewed"
	ReviewDiscarded  ReviewStatus = "discarded"
)

// ValidReviewStatus reports whether the value names a known lifecycle state.
func ValidReviewStatus(status ReviewStatus) bool {
	switch status {
	case ReviewNotStarted, ReviewInProgress, ReviewReviewed, ReviewDiscarded:
		return true
	}
	return false
}

// RequiredVerifiedDocs is the number of document checks that must be
// verified before a review auto-promotes to reviewed.
const RequiredVerifiedDocs = 6

// Score is a single criterion score as submitted by a reviewer.
// JSON numbers and numeric strings are accepted; empty strings and
// null decode as unset. An explicit zero is a set score.
type Score struct {
	Value float64
	Set   bool
}

// UnmarshalJSON coerces numbers and numeric strings, never erroring on
// malformed input: anything unparseable is simply unset.
func (s *Score) UnmarshalJSON(b []byte) error {
	s.Value = 0
	s.Set = false

	raw := strings.TrimSpace(string(b))
	if raw == "" || raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return nil
		}
		str = strings.TrimSpace(str)
		if str == "" {
			return nil
		}
		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return nil
		}
		s.Value = v
		s.Set = true
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	s.Value = v
	s.Set = true
	return nil
}

// MarshalJSON renders set scores as numbers and unset scores as null.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Set {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// RoleScores maps evaluator roles to their submitted score for one criterion.
type RoleScores map[ReviewerRole]Score

// ScoreSet is the single tagged score structure: criterion → role → score.
// Both the flat ranking total and per-role completion derive from it.
type ScoreSet map[Criterion]RoleScores

// Get returns the score a role submitted for a criterion.
func (s ScoreSet) Get(criterion Criterion, role ReviewerRole) Score {
	if s == nil {
		return Score{}
	}
	return s[criterion][role]
}

// Merge overlays the other set onto this one, role by role, returning
// the merged result. Entries absent from other are preserved.
func (s ScoreSet) Merge(other ScoreSet) ScoreSet {
	if len(other) == 0 {
		return s
	}
	merged := make(ScoreSet, len(s)+len(other))
	for criterion, roles := range s {
		copied := make(RoleScores, len(roles))
		for role, score := range roles {
			copied[role] = score
		}
		merged[criterion] = copied
	}
	for criterion, roles := range other {
		existing, ok := merged[criterion]
		if !ok {
			existing = make(RoleScores, len(roles))
			merged[criterion] = existing
		}
		for role, score := range roles {
			existing[role] = score
		}
	}
	return merged
}

// Value serialises the set for JSONB storage.
func (s ScoreSet) Value() (driver.Value, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s)
}

// Scan loads the set from JSONB storage.
func (s *ScoreSet) Scan(src interface{}) error {
	return scanJSON(src, s, "scores")
}

// DocChecklist records per-document verification flags.
type DocChecklist map[string]bool

// VerifiedCount returns how many documents are checked off.
func (d DocChecklist) VerifiedCount() int {
	count := 0
	for _, ok := range d {
		if ok {
			count++
		}
	}
	return count
}

// Value serialises the checklist for JSONB storage.
func (d DocChecklist) Value() (driver.Value, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}

// Scan loads the checklist from JSONB storage.
func (d *DocChecklist) Scan(src interface{}) error {
	return scanJSON(src, d, "verified_docs")
}

// Comment is one annotation on a review.
type Comment struct {
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	AuthorID  string    `json:"author_id"`
	Timestamp time.Time `json:"timestamp"`
}

// CommentList is the ordered comment sequence on a review.
type CommentList []Comment

// Value serialises the comments for JSONB storage.
func (c CommentList) Value() (driver.Value, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c)
}

// Scan loads the comments from JSONB storage.
func (c *CommentList) Scan(src interface{}) error {
	return scanJSON(src, c, "comments")
}

// Review is the mutable evaluation record attached to one application.
type Review struct {
	ApplicationID string       `db:"application_id" json:"application_id"`
	EditionID     string       `db:"edition_id" json:"edition_id"`
	Status        ReviewStatus `db:"status" json:"status"`
	Scores        ScoreSet     `db:"scores" json:"scores"`
	VerifiedDocs  DocChecklist `db:"verified_docs" json:"verified_docs"`
	Comments      CommentList  `db:"comments" json:"comments"`
	LastUpdated   time.Time    `db:"last_updated" json:"last_updated"`
}

// ReviewEvent is published on the edition feed whenever a review changes.
type ReviewEvent struct {
	EditionID     string    `json:"edition_id"`
	ApplicationID string    `json:"application_id"`
	Review        *Review   `json:"review"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func scanJSON(src, dest interface{}, label string) error {
	if src == nil {
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan %s: unsupported type %T", label, src)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("scan %s: %w", label, err)
	}
	return nil
}
