package models

import "time"

// SessionStats tracks progress through a session queue.
type SessionStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// ReviewSession is the ephemeral queue-walk state for one reviewer.
// It is persisted to the session store on every change while active and
// removed entirely when the session ends; it is never authoritative
// review data.
type ReviewSession struct {
	ReviewerID   string       `json:"reviewer_id"`
	EditionID    string       `json:"edition_id"`
	IsActive     bool         `json:"is_active"`
	Role         ReviewerRole `json:"role"`
	Queue        []string     `json:"queue"`
	CurrentIndex int          `json:"current_index"`
	StartTime    time.Time    `json:"start_time"`
	Stats        SessionStats `json:"stats"`
}

// CurrentApplication returns the queue entry at the current index.
func (s *ReviewSession) CurrentApplication() (string, bool) {
	if s == nil || !s.IsActive || s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Queue) {
		return "", false
	}
	return s.Queue[s.CurrentIndex], true
}

// IdleSession returns the canonical idle shape.
func IdleSession(reviewerID string) *ReviewSession {
	return &ReviewSession{
		ReviewerID:   reviewerID,
		IsActive:     false,
		Role:         "",
		Queue:        []string{},
		CurrentIndex: 0,
	}
}
