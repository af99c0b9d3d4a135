package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/fasthttp/router"

	"github.com/EliteSamurai/RehabFlow-sub000/internal/model"
	xhttp "github.com/EliteSamurai/RehabFlow-sub000/pkg/http"
	"github.com/EliteSamurai/RehabFlow-sub000/pkg/logger"
	"github.com/EliteSamurai/RehabFlow-sub000/pkg/prom"
	"github.com/EliteSamurai/RehabFlow-sub000/pkg/worker"
)

type PatientService interface {
	GetByPhone(ctx context.Context, phone string) (*model.Patient, error)
	SetOptInByPhone(ctx context.Context, phone string, optIn bool) (int64, error)
}

type AppointmentService interface {
	NextScheduledForPatient(ctx context.Context, patientID string, after time.Time) (*model.Appointment, error)
	Confirm(ctx context.Context, id string) (bool, error)
}

type MessageLogService interface {
	Create(ctx context.Context, m *model.MessageLog) (*model.MessageLog, error)
	UpdateStatusByProviderID(ctx context.Context, providerID string, status model.MessageStatus) (int64, error)
}

// InboundJob is one patient reply queued for background processing.
type InboundJob struct {
	From string
	To   string
	Body string
	Sid  string
}

// WebhookHandler receives provider callbacks. The provider retries on
// anything but a 2xx, and a retried STOP or status update is harmless,
// so every request is acknowledged with 200 no matter what happens
// while handling it. Inbound replies are pushed onto a worker pool so
// the acknowledgement never waits on the database.
type WebhookHandler struct {
	patients     PatientService
	appointments AppointmentService
	logs         MessageLogService
	pool         *worker.WorkerManager
	now          func() time.Time
}

func RegisterWebhookRoutes(e *router.Group, h *WebhookHandler) {
	e.POST("/webhook/sms", h.Receive)
}

func NewWebhookHandler(patients PatientService, appointments AppointmentService, logs MessageLogService, pool *worker.WorkerManager) *WebhookHandler {
	h := &WebhookHandler{
		patients:     patients,
		appointments: appointments,
		logs:         logs,
		pool:         pool,
		now:          time.Now,
	}
	pool.SetWorker(h.processJob)
	return h
}

// Receive handles the provider's form-encoded callback: either a
// delivery-status update for a message we sent, or an inbound reply.
func (h *WebhookHandler) Receive(ctx *xhttp.RequestCtx) {
	args := ctx.PostArgs()
	form := func(key string) string { return string(args.Peek(key)) }

	sid := form("MessageSid")
	status := form("MessageStatus")
	if status == "" {
		status = form("SmsStatus")
	}
	body := form("Body")

	if status != "" && body == "" {
		h.applyStatusCallback(ctx, sid, status)
	} else {
		h.pool.Enqueue(&InboundJob{
			From: form("From"),
			To:   form("To"),
			Body: body,
			Sid:  sid,
		})
	}

	ctx.Response.Header.Set("Content-Type", "application/xml")
	ctx.Response.SetStatusCode(xhttp.StatusOK)
	ctx.Response.SetBodyString("<Response></Response>")
}

func (h *WebhookHandler) applyStatusCallback(ctx context.Context, sid, status string) {
	mapped, ok := mapProviderStatus(status)
	if !ok {
		logger.Debug("webhook: ignoring status callback", "sid", sid, "status", status)
		return
	}
	n, err := h.logs.UpdateStatusByProviderID(ctx, sid, mapped)
	if err != nil {
		logger.Error("webhook: status update failed", "sid", sid, "error", err)
		return
	}
	if n == 0 {
		logger.Warn("webhook: status callback for unknown message", "sid", sid)
	}
}

func mapProviderStatus(status string) (model.MessageStatus, bool) {
	switch strings.ToLower(status) {
	case "delivered":
		return model.MessageStatusDelivered, true
	case "undelivered":
		return model.MessageStatusUndelivered, true
	case "failed":
		return model.MessageStatusFailed, true
	case "sent":
		return model.MessageStatusSent, true
	}
	return "", false
}

func (h *WebhookHandler) processJob(_ int, job interface{}) {
	in, ok := job.(*InboundJob)
	if !ok {
		logger.Warn("webhook: unexpected job type on pool")
		return
	}
	h.ProcessInbound(context.Background(), in)
}

// ProcessInbound classifies one reply and applies its effect. The reply
// is logged whether or not a keyword matched; unmatched ones are flagged
// for a human to look at.
func (h *WebhookHandler) ProcessInbound(ctx context.Context, in *InboundJob) {
	intent, needsReview := h.applyInbound(ctx, in)
	prom.IncWebhookInbound(intent)

	log := &model.MessageLog{
		Phone:       in.From,
		Body:        in.Body,
		Direction:   model.DirectionInbound,
		Status:      model.MessageStatusReceived,
		ProviderID:  in.Sid,
		NeedsReview: needsReview,
	}
	if p, err := h.patients.GetByPhone(ctx, in.From); err == nil {
		log.PatientID = p.ID
		log.ClinicID = p.ClinicID
	}
	if _, err := h.logs.Create(ctx, log); err != nil {
		logger.Error("webhook: inbound log write failed", "from", in.From, "error", err)
	}
}

// applyInbound returns the classified intent and whether the message
// needs human review.
func (h *WebhookHandler) applyInbound(ctx context.Context, in *InboundJob) (string, bool) {
	keyword := strings.ToUpper(strings.TrimSpace(in.Body))

	switch keyword {
	case "STOP", "STOPALL", "UNSUBSCRIBE", "CANCEL", "END", "QUIT":
		if _, err := h.patients.SetOptInByPhone(ctx, in.From, false); err != nil {
			logger.Error("webhook: opt-out failed", "from", in.From, "error", err)
		}
		return "opt_out", false

	case "START", "UNSTOP", "SUBSCRIBE":
		if _, err := h.patients.SetOptInByPhone(ctx, in.From, true); err != nil {
			logger.Error("webhook: opt-in failed", "from", in.From, "error", err)
		}
		return "opt_in", false

	case "YES", "CONFIRM", "C":
		return "confirm", !h.confirmNextAppointment(ctx, in.From)

	case "DONE", "COMPLETE":
		// Exercise completion. The log row itself is the record.
		return "exercise_done", false
	}

	if n, err := strconv.Atoi(keyword); err == nil && n >= 0 && n <= 10 {
		// Pain scale reply. Kept in the log for the clinic to review trends.
		return "pain_level", false
	}

	return "unmatched", true
}

func (h *WebhookHandler) confirmNextAppointment(ctx context.Context, phone string) bool {
	p, err := h.patients.GetByPhone(ctx, phone)
	if err != nil {
		logger.Warn("webhook: confirm from unknown number", "from", phone)
		return false
	}
	appt, err := h.appointments.NextScheduledForPatient(ctx, p.ID, h.now())
	if err != nil {
		logger.Warn("webhook: confirm with no upcoming appointment", "patient_id", p.ID)
		return false
	}
	ok, err := h.appointments.Confirm(ctx, appt.ID)
	if err != nil {
		logger.Error("webhook: confirm failed", "appointment_id", appt.ID, "error", err)
		return false
	}
	return ok
}
