package model

type Patient struct {
	ID        string `json:"id"`
	ClinicID  string `json:"clinic_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"` // E.164
	SMSOptIn  bool   `json:"sms_opt_in"`
}
