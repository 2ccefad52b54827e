package activity

import (
	"context"
	"time"
)

// Service moves activities through their lifecycle.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new activity Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Transition applies tr to a and returns the stored result.
func (s *Service) Transition(ctx context.Context, a *Activity, tr Transition) (*Activity, error) {
	fields, err := Plan(a, tr, s.now())
	if err != nil {
		return nil, err
	}
	return s.repo.Apply(ctx, a.ID, fields)
}

// Assign gives a to userID. Membership is checked by the caller.
func (s *Service) Assign(ctx context.Context, a *Activity, userID string) (*Activity, error) {
	fields, err := PlanAssign(a, userID, s.now())
	if err != nil {
		return nil, err
	}
	return s.repo.Apply(ctx, a.ID, fields)
}
