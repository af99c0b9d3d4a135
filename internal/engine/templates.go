package engine

import (
	"fmt"
	"time"

	"github.com/EliteSamurai/RehabFlow-sub000/internal/model"
)

const optOutFooter = "Reply STOP to opt out."

// apptTimeInClinic formats an appointment start for the patient, in the
// clinic's local timezone.
func apptTimeInClinic(at time.Time, clinic *model.Clinic) string {
	return at.In(clinic.Location()).Format("Monday, Jan 2 at 3:04 PM")
}

func reminderBody(tag string, p *model.Patient, c *model.Clinic, a *model.Appointment) string {
	when := apptTimeInClinic(a.ScheduledAt, c)
	var msg string
	switch tag {
	case model.Tag24Hour:
		msg = fmt.Sprintf("Hi %s, this is %s. Reminder: you have a physical therapy appointment on %s. Reply YES to confirm, or call us if you need to reschedule.", p.FirstName, c.Name, when)
	case model.Tag4Hour:
		msg = fmt.Sprintf("Hi %s, your appointment at %s is coming up today at %s. We look forward to seeing you!", p.FirstName, c.Name, clockInClinic(a.ScheduledAt, c))
	case model.Tag1Hour:
		msg = fmt.Sprintf("Hi %s, see you soon! Your appointment at %s starts at %s.", p.FirstName, c.Name, clockInClinic(a.ScheduledAt, c))
	default:
		msg = fmt.Sprintf("Hi %s, reminder from %s: your appointment is on %s.", p.FirstName, c.Name, when)
	}
	return msg + " " + optOutFooter
}

func clockInClinic(at time.Time, clinic *model.Clinic) string {
	return at.In(clinic.Location()).Format("3:04 PM")
}

func recoveryBody(step int, p *model.Patient, c *model.Clinic) string {
	var msg string
	switch step {
	case 1:
		msg = fmt.Sprintf("Hi %s, we missed you at %s today. Is everything okay? Reply YES and we'll help you rebook, or give us a call.", p.FirstName, c.Name)
	case 2:
		msg = fmt.Sprintf("Hi %s, staying on schedule makes a real difference in your recovery. %s has openings this week. Reply YES to grab one.", p.FirstName, c.Name)
	case 3:
		msg = fmt.Sprintf("Hi %s, your therapist at %s asked us to check in. Consistent visits are the fastest path back to full strength. Reply YES to get back on the calendar.", p.FirstName, c.Name)
	default:
		msg = fmt.Sprintf("Hi %s, this is our last check-in from %s for now. Whenever you're ready to continue your care, call us or reply YES and we'll take it from there.", p.FirstName, c.Name)
	}
	return msg + " " + optOutFooter
}
