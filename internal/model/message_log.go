package model

import "time"

// MessageStatus is the lifecycle state of a send attempt.
type MessageStatus string

const (
	MessageStatusSent        MessageStatus = "sent"
	MessageStatusFailed      MessageStatus = "failed"
	MessageStatusDelivered   MessageStatus = "delivered"
	MessageStatusUndelivered MessageStatus = "undelivered"
	MessageStatusReceived    MessageStatus = "received"
)

type MessageDirection string

const (
	DirectionOutbound MessageDirection = "outbound"
	DirectionInbound  MessageDirection = "inbound"
)

// Reminder tags. A log row carrying one of these for an appointment (or an
// enrollment step) is the idempotency marker that stops a duplicate send.
const (
	Tag24Hour = "24h"
	Tag4Hour  = "4h"
	Tag1Hour  = "1h"
)

// MessageLog is an append-only record of every send attempt, win or lose,
// plus inbound replies. It is never updated except for provider delivery
// status sync.
type MessageLog struct {
	ID            int64            `json:"id"`
	ClinicID      string           `json:"clinic_id"`
	PatientID     string           `json:"patient_id"`
	Phone         string           `json:"phone"`
	Body          string           `json:"body"`
	Direction     MessageDirection `json:"direction"`
	Status        MessageStatus    `json:"status"`
	ProviderID    string           `json:"provider_id,omitempty"`
	ReminderTag   string           `json:"reminder_tag,omitempty"`
	AppointmentID *string          `json:"appointment_id,omitempty"`
	EnrollmentID  *int64           `json:"enrollment_id,omitempty"`
	ErrorText     string           `json:"error_text,omitempty"`
	NeedsReview   bool             `json:"needs_review"`
	CreatedAt     time.Time        `json:"created_at"`
}

// RecoveryStepTag is the idempotency tag for a recovery-sequence step.
func RecoveryStepTag(step int) string {
	switch step {
	case 1:
		return "recovery_step_1"
	case 2:
		return "recovery_step_2"
	case 3:
		return "recovery_step_3"
	case 4:
		return "recovery_step_4"
	}
	return ""
}
