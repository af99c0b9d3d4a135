package engine

import (
	"context"
	"time"

	"github.com/EliteSamurai/RehabFlow-sub000/internal/model"
)

// Sequencer moves an enrollment forward after its current step's message
// was sent. Updates are guarded on the step the caller saw, so a
// concurrent advance surfaces as a stale-advance error instead of a
// skipped or repeated step.
type Sequencer struct {
	enrollments EnrollmentStore
	now         func() time.Time
}

func NewSequencer(e EnrollmentStore) *Sequencer {
	return &Sequencer{enrollments: e, now: time.Now}
}

func (s *Sequencer) AdvanceAfterSend(ctx context.Context, e *model.CampaignEnrollment) error {
	now := s.now()
	if e.CurrentStep >= model.RecoverySteps {
		return s.enrollments.Complete(ctx, e.ID, e.CurrentStep, model.CompletedSentinel(now))
	}
	return s.enrollments.Advance(ctx, e.ID, e.CurrentStep, now.Add(model.StepDelay(e.CurrentStep)))
}
