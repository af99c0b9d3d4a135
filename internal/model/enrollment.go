package model

import (
	"time"
)

const CampaignNoShowRecovery = "no_show_recovery"

// RecoverySteps is the last step of the no-show recovery sequence.
const RecoverySteps = 4

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
)

// CampaignEnrollment tracks one patient's progress through the recovery
// drip for one missed appointment. current_step only ever increases.
type CampaignEnrollment struct {
	ID             int64            `json:"id"`
	ClinicID       string           `json:"clinic_id"`
	PatientID      string           `json:"patient_id"`
	AppointmentID  string           `json:"appointment_id"` // the missed visit that triggered enrollment
	Campaign       string           `json:"campaign"`
	Status         EnrollmentStatus `json:"status"`
	CurrentStep    int              `json:"current_step"` // 1..RecoverySteps
	NextMessageDue time.Time        `json:"next_message_due"`
	PatientName    string           `json:"patient_name"` // snapshot at enrollment time
	CreatedAt      time.Time        `json:"created_at"`
}

// StepDelay is the wait before the step AFTER the given one becomes due.
func StepDelay(step int) time.Duration {
	switch step {
	case 1:
		return time.Hour
	case 2, 3:
		return 24 * time.Hour
	}
	return 0
}

// CompletedSentinel is the next_message_due written when the sequence
// finishes. A far-future timestamp instead of NULL keeps due-scan queries
// free of null handling.
func CompletedSentinel(now time.Time) time.Time {
	return now.AddDate(100, 0, 0)
}
