package model

import "time"

type Clinic struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SenderNumber string `json:"sender_number"` // E.164, the number reminders come from
	Timezone     string `json:"timezone"`      // IANA name, e.g. "America/Chicago"
}

// Location resolves the clinic's IANA timezone, falling back to UTC so a
// bad row never breaks message formatting.
func (c Clinic) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
