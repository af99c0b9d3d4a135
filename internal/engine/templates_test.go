package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/EliteSamurai/RehabFlow-sub000/internal/model"
)

func TestReminderBody_UsesClinicTimezone(t *testing.T) {
	clinic := &model.Clinic{Name: "Riverside PT", Timezone: "America/New_York"}
	patient := &model.Patient{FirstName: "Ana"}
	// 18:00 UTC is 14:00 (2 PM) in New York during DST.
	appt := &model.Appointment{ScheduledAt: time.Date(2025, 6, 3, 18, 0, 0, 0, time.UTC)}

	body := reminderBody(model.Tag4Hour, patient, clinic, appt)

	assert.Contains(t, body, "2:00 PM")
	assert.Contains(t, body, "Riverside PT")
}

func TestRecoveryBody_EveryStepEndsWithOptOut(t *testing.T) {
	clinic := &model.Clinic{Name: "Riverside PT", Timezone: "UTC"}
	patient := &model.Patient{FirstName: "Ana"}

	seen := map[string]bool{}
	for step := 1; step <= model.RecoverySteps; step++ {
		body := recoveryBody(step, patient, clinic)
		assert.True(t, len(body) > 0)
		assert.Contains(t, body, "Ana")
		assert.Regexp(t, `Reply STOP to opt out\.$`, body)
		assert.False(t, seen[body], "step %d reuses another step's text", step)
		seen[body] = true
	}
}
