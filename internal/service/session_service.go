package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/esn-apps/scholarship-review-api/internal/models"
	"github.com/esn-apps/scholarship-review-api/internal/scoring"
	appErrors "github.com/esn-apps/scholarship-review-api/pkg/errors"
)

type sessionStore interface {
	Load(ctx context.Context, reviewerID string) (*models.ReviewSession, error)
	Save(ctx context.Context, session *models.ReviewSession) error
	Delete(ctx context.Context, reviewerID string) error
}

type sessionApplicationLister interface {
	ListByEdition(ctx context.Context, editionID string) ([]models.Application, error)
}

type sessionReviewReader interface {
	MapByEdition(ctx context.Context, editionID string) (map[string]*models.Review, error)
}

// SessionStep reports the outcome of one navigation operation.
// Finished signals the queue is exhausted; it is transient, the session
// stays active until the caller ends it. Moved is false when the
// operation was a bounds-checked no-op.
type SessionStep struct {
	ApplicationID string `json:"application_id,omitempty"`
	Index         int    `json:"index"`
	Finished      bool   `json:"finished"`
	Moved         bool   `json:"moved"`
}

// SessionService drives a reviewer's queue-walk through an edition's
// pending applications. Every state change is round-tripped through the
// session store; the stored record is removed when the session ends.
type SessionService struct {
	sessions     sessionStore
	applications sessionApplicationLister
	reviews      sessionReviewReader
	logger       *zap.Logger
}

// NewSessionService constructs a SessionService.
func NewSessionService(sessions sessionStore, applications sessionApplicationLister, reviews sessionReviewReader, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		sessions:     sessions,
		applications: applications,
		reviews:      reviews,
		logger:       logger,
	}
}

// Start builds the pending queue for the role and activates a session.
// Applications are pending when they are not discarded and the role has
// not yet completed its required scores. Touched applications surface
// before untouched ones; ties keep import order. An empty queue is a
// distinct no-pending-work outcome, never an empty active session.
func (s *SessionService) Start(ctx context.Context, reviewerID string, role models.ReviewerRole, editionID string) (*models.ReviewSession, error) {
	if !models.ValidReviewerRole(role) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown reviewer role")
	}
	if editionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "editionId is required")
	}

	applications, err := s.applications.ListByEdition(ctx, editionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load applications")
	}
	if len(applications) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "edition has no applications")
	}
	reviews, err := s.reviews.MapByEdition(ctx, editionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reviews")
	}

	queue := buildQueue(applications, reviews, role)
	if len(queue) == 0 {
		return nil, appErrors.ErrNoPendingWork
	}

	session := &models.ReviewSession{
		ReviewerID:   reviewerID,
		EditionID:    editionID,
		IsActive:     true,
		Role:         role,
		Queue:        queue,
		CurrentIndex: 0,
		StartTime:    time.Now().UTC(),
		Stats:        models.SessionStats{Total: len(queue)},
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}
	return session, nil
}

// Current returns the reviewer's active session.
func (s *SessionService) Current(ctx context.Context, reviewerID string) (*models.ReviewSession, error) {
	return s.sessions.Load(ctx, reviewerID)
}

// Next advances to the following queue entry. At the last entry it
// returns the finished sentinel without moving; repeated calls are
// stable.
func (s *SessionService) Next(ctx context.Context, reviewerID string) (*SessionStep, error) {
	session, err := s.sessions.Load(ctx, reviewerID)
	if err != nil {
		return nil, err
	}
	if session.CurrentIndex >= len(session.Queue)-1 {
		return &SessionStep{Index: session.CurrentIndex, Finished: true}, nil
	}
	session.CurrentIndex++
	session.Stats.Completed = session.CurrentIndex
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}
	return &SessionStep{ApplicationID: session.Queue[session.CurrentIndex], Index: session.CurrentIndex, Moved: true}, nil
}

// Previous steps back one entry. At index 0 it is a no-op.
func (s *SessionService) Previous(ctx context.Context, reviewerID string) (*SessionStep, error) {
	session, err := s.sessions.Load(ctx, reviewerID)
	if err != nil {
		return nil, err
	}
	if session.CurrentIndex <= 0 {
		return &SessionStep{Index: session.CurrentIndex}, nil
	}
	session.CurrentIndex--
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}
	return &SessionStep{ApplicationID: session.Queue[session.CurrentIndex], Index: session.CurrentIndex, Moved: true}, nil
}

// Jump moves to an arbitrary queue position. Out-of-range indexes are
// no-ops reporting failure, never errors.
func (s *SessionService) Jump(ctx context.Context, reviewerID string, index int) (*SessionStep, error) {
	session, err := s.sessions.Load(ctx, reviewerID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(session.Queue) {
		return &SessionStep{Index: session.CurrentIndex}, nil
	}
	session.CurrentIndex = index
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}
	return &SessionStep{ApplicationID: session.Queue[index], Index: index, Moved: true}, nil
}

// Resume skips forward past applications the role has already completed,
// persisting the advanced index. It returns the first still-pending
// entry or the finished sentinel when none remain.
func (s *SessionService) Resume(ctx context.Context, reviewerID string) (*SessionStep, error) {
	session, err := s.sessions.Load(ctx, reviewerID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.MapByEdition(ctx, session.EditionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reviews")
	}

	completed := 0
	for _, id := range session.Queue {
		if scoring.RoleComplete(reviews[id], session.Role) {
			completed++
		}
	}
	session.Stats.Completed = completed

	index := session.CurrentIndex
	for index < len(session.Queue) && scoring.RoleComplete(reviews[session.Queue[index]], session.Role) {
		index++
	}

	if index >= len(session.Queue) {
		session.CurrentIndex = len(session.Queue) - 1
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
		}
		return &SessionStep{Index: session.CurrentIndex, Finished: true}, nil
	}

	moved := index != session.CurrentIndex
	session.CurrentIndex = index
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}
	return &SessionStep{ApplicationID: session.Queue[index], Index: index, Moved: moved}, nil
}

// End resets the reviewer to the canonical idle shape, removing the
// stored session record.
func (s *SessionService) End(ctx context.Context, reviewerID string) (*models.ReviewSession, error) {
	if err := s.sessions.Delete(ctx, reviewerID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear session")
	}
	return models.IdleSession(reviewerID), nil
}

func buildQueue(applications []models.Application, reviews map[string]*models.Review, role models.ReviewerRole) []string {
	type entry struct {
		id      string
		touched bool
	}
	entries := make([]entry, 0, len(applications))
	for _, app := range applications {
		review := reviews[app.ID]
		if review != nil && review.Status == models.ReviewDiscarded {
			continue
		}
		if scoring.RoleComplete(review, role) {
			continue
		}
		entries = append(entries, entry{id: app.ID, touched: scoring.Touched(review)})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].touched && !entries[j].touched
	})
	queue := make([]string, len(entries))
	for i, e := range entries {
		queue[i] = e.id
	}
	return queue
}
