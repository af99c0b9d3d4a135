package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/EliteSamurai/RehabFlow-sub000/internal/model"
)

func TestBandFor(t *testing.T) {
	tests := []struct {
		name       string
		untilStart time.Duration
		wantTag    string
		wantMatch  bool
	}{
		{"exactly 24h", 24 * time.Hour, model.Tag24Hour, true},
		{"23h30m", 23*time.Hour + 30*time.Minute, model.Tag24Hour, true},
		{"24h05m is not due yet", 24*time.Hour + 5*time.Minute, "", false},
		{"exactly 23h is the open edge", 23 * time.Hour, "", false},
		{"4h", 4 * time.Hour, model.Tag4Hour, true},
		{"4h30m inclusive edge", 4*time.Hour + 30*time.Minute, model.Tag4Hour, true},
		{"3h30m open edge", 3*time.Hour + 30*time.Minute, "", false},
		{"1h", time.Hour, model.Tag1Hour, true},
		{"45m", 45 * time.Minute, model.Tag1Hour, true},
		{"30m open edge", 30 * time.Minute, "", false},
		{"10m", 10 * time.Minute, "", false},
		{"2h sits between bands", 2 * time.Hour, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, ok := bandFor(tt.untilStart)
			assert.Equal(t, tt.wantMatch, ok)
			assert.Equal(t, tt.wantTag, tag)
		})
	}
}

func newTestResolver(appts *MockAppointmentStore, patients *MockPatientStore, clinics *MockClinicStore, logs *MockMessageLogStore, enrollments *MockEnrollmentStore, now time.Time) *Resolver {
	r := NewResolver(appts, patients, clinics, logs, enrollments)
	r.now = func() time.Time { return now }
	return r
}

func TestResolver_ResolveDue_Reminders(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	clinic := &model.Clinic{ID: "c1", Name: "Riverside PT", SenderNumber: "+15550100001", Timezone: "UTC"}
	patient := &model.Patient{ID: "p1", ClinicID: "c1", FirstName: "Ana", Phone: "+15550200001", SMSOptIn: true}

	t.Run("appointment in 24h band produces a reminder", func(t *testing.T) {
		appts := new(MockAppointmentStore)
		patients := new(MockPatientStore)
		clinics := new(MockClinicStore)
		logs := new(MockMessageLogStore)
		enrollments := new(MockEnrollmentStore)

		appt := &model.Appointment{ID: "a1", ClinicID: "c1", PatientID: "p1",
			ScheduledAt: now.Add(24 * time.Hour), Status: model.AppointmentScheduled}

		appts.On("FindUpcoming", mock.Anything, now, now.Add(upcomingScanWindow)).
			Return([]*model.Appointment{appt}, nil)
		logs.On("ExistsReminder", mock.Anything, "a1", model.Tag24Hour).Return(false, nil)
		patients.On("Get", mock.Anything, "p1").Return(patient, nil)
		clinics.On("Get", mock.Anything, "c1").Return(clinic, nil)
		enrollments.On("FindDue", mock.Anything, now).Return([]*model.CampaignEnrollment{}, nil)

		r := newTestResolver(appts, patients, clinics, logs, enrollments, now)
		due, err := r.ResolveDue(context.Background())

		require.NoError(t, err)
		require.Len(t, due, 1)
		assert.Equal(t, KindAppointment, due[0].Kind)
		assert.Equal(t, model.Tag24Hour, due[0].Tag)
		assert.Contains(t, due[0].Body, "Ana")
		assert.Contains(t, due[0].Body, "Riverside PT")
		assert.Contains(t, due[0].Body, "Reply STOP to opt out.")
	})

	t.Run("already-sent reminder is skipped", func(t *testing.T) {
		appts := new(MockAppointmentStore)
		patients := new(MockPatientStore)
		clinics := new(MockClinicStore)
		logs := new(MockMessageLogStore)
		enrollments := new(MockEnrollmentStore)

		appt := &model.Appointment{ID: "a1", ClinicID: "c1", PatientID: "p1",
			ScheduledAt: now.Add(time.Hour), Status: model.AppointmentScheduled}

		appts.On("FindUpcoming", mock.Anything, mock.Anything, mock.Anything).
			Return([]*model.Appointment{appt}, nil)
		logs.On("ExistsReminder", mock.Anything, "a1", model.Tag1Hour).Return(true, nil)
		enrollments.On("FindDue", mock.Anything, now).Return([]*model.CampaignEnrollment{}, nil)

		r := newTestResolver(appts, patients, clinics, logs, enrollments, now)
		due, err := r.ResolveDue(context.Background())

		require.NoError(t, err)
		assert.Empty(t, due)
		patients.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("opted-out patient is skipped", func(t *testing.T) {
		appts := new(MockAppointmentStore)
		patients := new(MockPatientStore)
		clinics := new(MockClinicStore)
		logs := new(MockMessageLogStore)
		enrollments := new(MockEnrollmentStore)

		appt := &model.Appointment{ID: "a1", ClinicID: "c1", PatientID: "p1",
			ScheduledAt: now.Add(4 * time.Hour), Status: model.AppointmentScheduled}
		optedOut := &model.Patient{ID: "p1", ClinicID: "c1", FirstName: "Ana", Phone: "+15550200001", SMSOptIn: false}

		appts.On("FindUpcoming", mock.Anything, mock.Anything, mock.Anything).
			Return([]*model.Appointment{appt}, nil)
		logs.On("ExistsReminder", mock.Anything, "a1", model.Tag4Hour).Return(false, nil)
		patients.On("Get", mock.Anything, "p1").Return(optedOut, nil)
		enrollments.On("FindDue", mock.Anything, now).Return([]*model.CampaignEnrollment{}, nil)

		r := newTestResolver(appts, patients, clinics, logs, enrollments, now)
		due, err := r.ResolveDue(context.Background())

		require.NoError(t, err)
		assert.Empty(t, due)
	})

	t.Run("appointment outside every band is skipped", func(t *testing.T) {
		appts := new(MockAppointmentStore)
		patients := new(MockPatientStore)
		clinics := new(MockClinicStore)
		logs := new(MockMessageLogStore)
		enrollments := new(MockEnrollmentStore)

		appt := &model.Appointment{ID: "a1", ClinicID: "c1", PatientID: "p1",
			ScheduledAt: now.Add(24*time.Hour + 5*time.Minute), Status: model.AppointmentScheduled}

		appts.On("FindUpcoming", mock.Anything, mock.Anything, mock.Anything).
			Return([]*model.Appointment{appt}, nil)
		enrollments.On("FindDue", mock.Anything, now).Return([]*model.CampaignEnrollment{}, nil)

		r := newTestResolver(appts, patients, clinics, logs, enrollments, now)
		due, err := r.ResolveDue(context.Background())

		require.NoError(t, err)
		assert.Empty(t, due)
		logs.AssertNotCalled(t, "ExistsReminder", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestResolver_ResolveDue_Recovery(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	clinic := &model.Clinic{ID: "c1", Name: "Riverside PT", SenderNumber: "+15550100001", Timezone: "UTC"}
	patient := &model.Patient{ID: "p1", ClinicID: "c1", FirstName: "Ana", Phone: "+15550200001", SMSOptIn: true}

	t.Run("due enrollment step produces a recovery message", func(t *testing.T) {
		appts := new(MockAppointmentStore)
		patients := new(MockPatientStore)
		clinics := new(MockClinicStore)
		logs := new(MockMessageLogStore)
		enrollments := new(MockEnrollmentStore)

		e := &model.CampaignEnrollment{ID: 7, ClinicID: "c1", PatientID: "p1",
			AppointmentID: "a1", CurrentStep: 2, Status: model.EnrollmentActive,
			NextMessageDue: now.Add(-time.Minute)}

		appts.On("FindUpcoming", mock.Anything, mock.Anything, mock.Anything).
			Return([]*model.Appointment{}, nil)
		enrollments.On("FindDue", mock.Anything, now).Return([]*model.CampaignEnrollment{e}, nil)
		logs.On("ExistsRecoveryStep", mock.Anything, int64(7), 2).Return(false, nil)
		patients.On("Get", mock.Anything, "p1").Return(patient, nil)
		clinics.On("Get", mock.Anything, "c1").Return(clinic, nil)

		r := newTestResolver(appts, patients, clinics, logs, enrollments, now)
		due, err := r.ResolveDue(context.Background())

		require.NoError(t, err)
		require.Len(t, due, 1)
		assert.Equal(t, KindRecovery, due[0].Kind)
		assert.Equal(t, "recovery_step_2", due[0].Tag)
		assert.Same(t, e, due[0].Enrollment)
		assert.Contains(t, due[0].Body, "Reply STOP to opt out.")
	})

	t.Run("step already sent is skipped", func(t *testing.T) {
		appts := new(MockAppointmentStore)
		patients := new(MockPatientStore)
		clinics := new(MockClinicStore)
		logs := new(MockMessageLogStore)
		enrollments := new(MockEnrollmentStore)

		e := &model.CampaignEnrollment{ID: 7, ClinicID: "c1", PatientID: "p1",
			AppointmentID: "a1", CurrentStep: 3, Status: model.EnrollmentActive}

		appts.On("FindUpcoming", mock.Anything, mock.Anything, mock.Anything).
			Return([]*model.Appointment{}, nil)
		enrollments.On("FindDue", mock.Anything, now).Return([]*model.CampaignEnrollment{e}, nil)
		logs.On("ExistsRecoveryStep", mock.Anything, int64(7), 3).Return(true, nil)

		r := newTestResolver(appts, patients, clinics, logs, enrollments, now)
		due, err := r.ResolveDue(context.Background())

		require.NoError(t, err)
		assert.Empty(t, due)
	})
}
