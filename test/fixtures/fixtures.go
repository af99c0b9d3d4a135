package fixtures

import (
	"time"

	"github.com/EliteSamurai/RehabFlow-sub000/internal/model"
)

var (
	TestClinic1 = model.Clinic{
		ID:           "11111111-1111-1111-1111-111111111111",
		Name:         "Riverside Physical Therapy",
		SenderNumber: "+15550100001",
		Timezone:     "America/New_York",
	}

	TestClinic2 = model.Clinic{
		ID:           "22222222-2222-2222-2222-222222222222",
		Name:         "Summit Rehab",
		SenderNumber: "+15550100002",
		Timezone:     "America/Los_Angeles",
	}
)

func NewTestPatient(clinicID, firstName, phone string, optIn bool) *model.Patient {
	return &model.Patient{
		ClinicID:  clinicID,
		FirstName: firstName,
		LastName:  "Tester",
		Phone:     phone,
		SMSOptIn:  optIn,
	}
}

func NewTestAppointment(clinicID, patientID string, scheduledAt time.Time, status model.AppointmentStatus) *model.Appointment {
	return &model.Appointment{
		ClinicID:    clinicID,
		PatientID:   patientID,
		ScheduledAt: scheduledAt,
		Status:      status,
	}
}

func NewTestEnrollment(clinicID, patientID, appointmentID string, step int, due time.Time) *model.CampaignEnrollment {
	return &model.CampaignEnrollment{
		ClinicID:       clinicID,
		PatientID:      patientID,
		AppointmentID:  appointmentID,
		Campaign:       model.CampaignNoShowRecovery,
		Status:         model.EnrollmentActive,
		CurrentStep:    step,
		NextMessageDue: due,
		PatientName:    "Test Patient",
	}
}
