package engine

import (
	"context"
	"time"

	"github.com/EliteSamurai/RehabFlow-sub000/internal/model"
	"github.com/EliteSamurai/RehabFlow-sub000/pkg/logger"
)

// Reminder bands, expressed as half-open intervals over the time left
// until the appointment starts. An appointment due in exactly 24h falls
// in the 24h band; one due in 24h05m does not match anything yet and is
// picked up on a later tick.
var reminderBands = []struct {
	tag      string
	min, max time.Duration
}{
	{model.Tag24Hour, 23 * time.Hour, 24 * time.Hour},
	{model.Tag4Hour, 3*time.Hour + 30*time.Minute, 4*time.Hour + 30*time.Minute},
	{model.Tag1Hour, 30 * time.Minute, 1*time.Hour + 30*time.Minute},
}

func bandFor(untilStart time.Duration) (string, bool) {
	for _, b := range reminderBands {
		if untilStart > b.min && untilStart <= b.max {
			return b.tag, true
		}
	}
	return "", false
}

// Resolver computes the set of messages that are due right now:
// appointment reminders whose band matches and recovery steps whose
// next_message_due has passed. It never sends anything.
type Resolver struct {
	appointments AppointmentStore
	patients     PatientStore
	clinics      ClinicStore
	logs         MessageLogStore
	enrollments  EnrollmentStore
	now          func() time.Time
}

func NewResolver(a AppointmentStore, p PatientStore, c ClinicStore, l MessageLogStore, e EnrollmentStore) *Resolver {
	return &Resolver{
		appointments: a,
		patients:     p,
		clinics:      c,
		logs:         l,
		enrollments:  e,
		now:          time.Now,
	}
}

// ResolveDue returns due reminders followed by due recovery steps.
// Items that fail an auxiliary lookup are skipped with a warning so one
// broken row cannot starve the rest of the run.
func (r *Resolver) ResolveDue(ctx context.Context) ([]*DueMessage, error) {
	now := r.now()

	due, err := r.resolveReminders(ctx, now)
	if err != nil {
		return nil, err
	}
	recovery, err := r.resolveRecovery(ctx, now)
	if err != nil {
		return nil, err
	}
	return append(due, recovery...), nil
}

func (r *Resolver) resolveReminders(ctx context.Context, now time.Time) ([]*DueMessage, error) {
	appts, err := r.appointments.FindUpcoming(ctx, now, now.Add(upcomingScanWindow))
	if err != nil {
		return nil, err
	}

	clinics := map[string]*model.Clinic{}
	var out []*DueMessage
	for _, a := range appts {
		tag, ok := bandFor(a.ScheduledAt.Sub(now))
		if !ok {
			continue
		}

		sent, err := r.logs.ExistsReminder(ctx, a.ID, tag)
		if err != nil {
			logger.Warn("reminder lookup failed", "appointment", a.ID, "error", err)
			continue
		}
		if sent {
			continue
		}

		p, err := r.patients.Get(ctx, a.PatientID)
		if err != nil {
			logger.Warn("patient lookup failed", "patient", a.PatientID, "appointment", a.ID, "error", err)
			continue
		}
		if !p.SMSOptIn {
			continue
		}

		c, err := r.clinic(ctx, clinics, a.ClinicID)
		if err != nil {
			logger.Warn("clinic lookup failed", "clinic", a.ClinicID, "appointment", a.ID, "error", err)
			continue
		}

		out = append(out, &DueMessage{
			Kind:        KindAppointment,
			Tag:         tag,
			Body:        reminderBody(tag, p, c, a),
			Patient:     p,
			Clinic:      c,
			Appointment: a,
		})
	}
	return out, nil
}

func (r *Resolver) resolveRecovery(ctx context.Context, now time.Time) ([]*DueMessage, error) {
	enrollments, err := r.enrollments.FindDue(ctx, now)
	if err != nil {
		return nil, err
	}

	clinics := map[string]*model.Clinic{}
	var out []*DueMessage
	for _, e := range enrollments {
		sent, err := r.logs.ExistsRecoveryStep(ctx, e.ID, e.CurrentStep)
		if err != nil {
			logger.Warn("recovery step lookup failed", "enrollment", e.ID, "error", err)
			continue
		}
		if sent {
			continue
		}

		p, err := r.patients.Get(ctx, e.PatientID)
		if err != nil {
			logger.Warn("patient lookup failed", "patient", e.PatientID, "enrollment", e.ID, "error", err)
			continue
		}
		if !p.SMSOptIn {
			continue
		}

		c, err := r.clinic(ctx, clinics, e.ClinicID)
		if err != nil {
			logger.Warn("clinic lookup failed", "clinic", e.ClinicID, "enrollment", e.ID, "error", err)
			continue
		}

		out = append(out, &DueMessage{
			Kind:       KindRecovery,
			Tag:        model.RecoveryStepTag(e.CurrentStep),
			Body:       recoveryBody(e.CurrentStep, p, c),
			Patient:    p,
			Clinic:     c,
			Enrollment: e,
		})
	}
	return out, nil
}

func (r *Resolver) clinic(ctx context.Context, cache map[string]*model.Clinic, id string) (*model.Clinic, error) {
	if c, ok := cache[id]; ok {
		return c, nil
	}
	c, err := r.clinics.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	cache[id] = c
	return c, nil
}
