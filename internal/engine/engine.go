package engine

import (
	"context"
	"time"

	gateway "github.com/EliteSamurai/RehabFlow-sub000/internal/gateways"
	"github.com/EliteSamurai/RehabFlow-sub000/internal/model"
)

// Policy constants. Fixed by product decision, not configuration.
const (
	// NoShowGrace is how far past its start time a still-scheduled
	// appointment must be before the sweep marks it a no-show.
	NoShowGrace = 2 * time.Hour

	// upcomingScanWindow bounds the reminder candidate query. Nothing
	// further out than the widest band can be due.
	upcomingScanWindow = 25 * time.Hour
)

// ReminderKind distinguishes the two outbound message families.
type ReminderKind string

const (
	KindAppointment ReminderKind = "appointment"
	KindRecovery    ReminderKind = "recovery"
)

// DueMessage is one message the resolver decided must go out right now.
type DueMessage struct {
	Kind        ReminderKind
	Tag         string
	Body        string
	Patient     *model.Patient
	Clinic      *model.Clinic
	Appointment *model.Appointment        // set for KindAppointment
	Enrollment  *model.CampaignEnrollment // set for KindRecovery
}

type AppointmentStore interface {
	FindUpcoming(ctx context.Context, from, to time.Time) ([]*model.Appointment, error)
	FindOverdueScheduled(ctx context.Context, cutoff time.Time) ([]*model.Appointment, error)
	MarkNoShow(ctx context.Context, id string) (bool, error)
}

type PatientStore interface {
	Get(ctx context.Context, id string) (*model.Patient, error)
}

type ClinicStore interface {
	Get(ctx context.Context, id string) (*model.Clinic, error)
}

type MessageLogStore interface {
	ExistsReminder(ctx context.Context, appointmentID, tag string) (bool, error)
	ExistsRecoveryStep(ctx context.Context, enrollmentID int64, step int) (bool, error)
}

type EnrollmentStore interface {
	Create(ctx context.Context, e *model.CampaignEnrollment) (*model.CampaignEnrollment, error)
	FindDue(ctx context.Context, now time.Time) ([]*model.CampaignEnrollment, error)
	Advance(ctx context.Context, id int64, fromStep int, nextDue time.Time) error
	Complete(ctx context.Context, id int64, fromStep int, sentinel time.Time) error
}

// Gateway is the send side the orchestrator talks to.
type Gateway interface {
	Send(ctx context.Context, m *gateway.OutboundMessage) (*gateway.SendResult, error)
	HealthCheck(ctx context.Context) error
}
