package gateway

import (
	"context"
	"errors"

	"github.com/EliteSamurai/RehabFlow-sub000/internal/model"
	"github.com/EliteSamurai/RehabFlow-sub000/pkg/logger"
)

var ErrPatientOptedOut = errors.New("patient has opted out of sms")

// OutboundMessage is one message the engine wants delivered, with
// enough identity attached to write the idempotency log row.
type OutboundMessage struct {
	ClinicID      string
	PatientID     string
	To            string
	From          string
	Body          string
	Tag           string
	AppointmentID *string
	EnrollmentID  *int64
}

// SendResult reports what happened. LogErr carries a telemetry-write
// failure separately from the send outcome: the message may well have
// reached the patient even when the log row did not land, and callers
// decide how loudly to complain.
type SendResult struct {
	ProviderID string
	Status     model.MessageStatus
	LogErr     error
}

type PatientStore interface {
	Get(ctx context.Context, id string) (*model.Patient, error)
}

type MessageLogStore interface {
	Create(ctx context.Context, m *model.MessageLog) (*model.MessageLog, error)
}

// SMSGateway is the single path every outbound message takes: a final
// opt-in check against the current row, the provider call, and a log
// write for both outcomes. The resolver checked opt-in too, but a STOP
// can land between resolve and send.
type SMSGateway struct {
	provider ProviderAPI
	patients PatientStore
	logs     MessageLogStore
}

func NewSMSGateway(provider ProviderAPI, patients PatientStore, logs MessageLogStore) *SMSGateway {
	return &SMSGateway{provider: provider, patients: patients, logs: logs}
}

func (g *SMSGateway) HealthCheck(ctx context.Context) error {
	return g.provider.Health(ctx)
}

func (g *SMSGateway) Send(ctx context.Context, m *OutboundMessage) (*SendResult, error) {
	p, err := g.patients.Get(ctx, m.PatientID)
	if err != nil {
		return nil, err
	}
	if !p.SMSOptIn {
		return nil, ErrPatientOptedOut
	}

	resp, sendErr := g.provider.Send(ctx, &SendRequest{
		To:       m.To,
		From:     m.From,
		Body:     m.Body,
		ClinicID: m.ClinicID,
	})

	res := &SendResult{}
	log := &model.MessageLog{
		ClinicID:      m.ClinicID,
		PatientID:     m.PatientID,
		Phone:         m.To,
		Body:          m.Body,
		Direction:     model.DirectionOutbound,
		ReminderTag:   m.Tag,
		AppointmentID: m.AppointmentID,
		EnrollmentID:  m.EnrollmentID,
	}

	if sendErr != nil {
		log.Status = model.MessageStatusFailed
		log.ErrorText = sendErr.Error()
		res.Status = model.MessageStatusFailed
	} else {
		log.Status = model.MessageStatusSent
		log.ProviderID = resp.MessageID
		res.Status = model.MessageStatusSent
		res.ProviderID = resp.MessageID
	}

	if _, logErr := g.logs.Create(ctx, log); logErr != nil {
		res.LogErr = logErr
		logger.Error("gateway: message log write failed",
			"patient_id", m.PatientID, "tag", m.Tag, "error", logErr)
	}

	return res, sendErr
}
