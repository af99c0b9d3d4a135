package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/EliteSamurai/RehabFlow-sub000/internal/model"
	"github.com/EliteSamurai/RehabFlow-sub000/pkg/logger"
	"github.com/EliteSamurai/RehabFlow-sub000/pkg/prom"
)

// SweepItemError records one appointment the sweep could not process.
type SweepItemError struct {
	AppointmentID string `json:"appointment_id"`
	Err           string `json:"error"`
}

// SweepResult summarizes one no-show sweep pass.
type SweepResult struct {
	Marked   int              `json:"marked"`
	Enrolled int              `json:"enrolled"`
	Errors   []SweepItemError `json:"errors,omitempty"`
}

// Sweep finds appointments whose start time is more than the grace
// period in the past and are still just "scheduled", flips them to
// no_show and enrolls the patient in the recovery drip.
type Sweep struct {
	appointments AppointmentStore
	patients     PatientStore
	enrollments  EnrollmentStore
	now          func() time.Time
}

func NewSweep(a AppointmentStore, p PatientStore, e EnrollmentStore) *Sweep {
	return &Sweep{appointments: a, patients: p, enrollments: e, now: time.Now}
}

func (s *Sweep) Run(ctx context.Context) (SweepResult, error) {
	now := s.now()
	var res SweepResult

	overdue, err := s.appointments.FindOverdueScheduled(ctx, now.Add(-NoShowGrace))
	if err != nil {
		return res, err
	}

	for _, a := range overdue {
		ok, err := s.appointments.MarkNoShow(ctx, a.ID)
		if err != nil {
			res.Errors = append(res.Errors, SweepItemError{AppointmentID: a.ID, Err: err.Error()})
			continue
		}
		if !ok {
			// Lost the race to a confirm or an earlier sweep. Not an error.
			continue
		}
		res.Marked++

		p, err := s.patients.Get(ctx, a.PatientID)
		if err != nil {
			res.Errors = append(res.Errors, SweepItemError{AppointmentID: a.ID, Err: fmt.Sprintf("patient lookup: %v", err)})
			continue
		}
		if !p.SMSOptIn {
			continue
		}

		_, err = s.enrollments.Create(ctx, &model.CampaignEnrollment{
			ClinicID:       a.ClinicID,
			PatientID:      a.PatientID,
			AppointmentID:  a.ID,
			CurrentStep:    1,
			NextMessageDue: now,
			PatientName:    p.FirstName + " " + p.LastName,
		})
		if err != nil {
			res.Errors = append(res.Errors, SweepItemError{AppointmentID: a.ID, Err: fmt.Sprintf("enroll: %v", err)})
			continue
		}
		res.Enrolled++
	}

	if res.Marked > 0 {
		prom.AddNoShowsMarked(float64(res.Marked))
	}
	logger.Info("no-show sweep finished",
		"overdue", len(overdue), "marked", res.Marked, "enrolled", res.Enrolled, "errors", len(res.Errors))
	return res, nil
}

// Peek reports how many appointments a real sweep would mark, without
// touching anything. Used by dry runs.
func (s *Sweep) Peek(ctx context.Context) (int, error) {
	overdue, err := s.appointments.FindOverdueScheduled(ctx, s.now().Add(-NoShowGrace))
	if err != nil {
		return 0, err
	}
	return len(overdue), nil
}
