package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	gateway "github.com/EliteSamurai/RehabFlow-sub000/internal/gateways"
	"github.com/EliteSamurai/RehabFlow-sub000/pkg/logger"
	"github.com/EliteSamurai/RehabFlow-sub000/pkg/prom"
	"github.com/EliteSamurai/RehabFlow-sub000/pkg/ratelimit"
)

// RunOptions controls one dispatch run.
type RunOptions struct {
	// DryRun reports what the run would do without marking no-shows or
	// sending anything.
	DryRun bool
}

// Report is the outcome of one dispatch run, returned to the trigger
// endpoint as its response body.
type Report struct {
	Success   bool        `json:"success"`
	DryRun    bool        `json:"dry_run,omitempty"`
	Processed int         `json:"processed"`
	Pending   int         `json:"pending"`
	Sweep     SweepResult `json:"sweep"`
	Errors    []string    `json:"errors,omitempty"`
	Duration  string      `json:"duration"`
}

// Orchestrator runs the full dispatch cycle: provider health check,
// single-flight lock, no-show sweep, due-message resolution, then a
// rate-limited send loop.
type Orchestrator struct {
	sweep     *Sweep
	resolver  *Resolver
	sequencer *Sequencer
	gateway   Gateway
	limiter   *ratelimit.Limiter
	lock      *RunLock
	now       func() time.Time
}

func NewOrchestrator(sweep *Sweep, resolver *Resolver, sequencer *Sequencer, gw Gateway, limiter *ratelimit.Limiter, lock *RunLock) *Orchestrator {
	return &Orchestrator{
		sweep:     sweep,
		resolver:  resolver,
		sequencer: sequencer,
		gateway:   gw,
		limiter:   limiter,
		lock:      lock,
		now:       time.Now,
	}
}

func (o *Orchestrator) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	start := o.now()
	report := &Report{DryRun: opts.DryRun}
	finish := func(err error) (*Report, error) {
		report.Duration = o.now().Sub(start).String()
		report.Success = err == nil && len(report.Errors) == 0
		prom.ObserveDispatchDuration(o.now().Sub(start).Seconds())
		return report, err
	}

	// A misconfigured or dead provider fails the whole run up front,
	// before anything is marked or locked.
	if err := o.gateway.HealthCheck(ctx); err != nil {
		return finish(fmt.Errorf("provider health check: %w", err))
	}

	release, err := o.lock.Acquire()
	if err != nil {
		if errors.Is(err, ErrRunInProgress) {
			logger.Info("dispatch: run already in progress, skipping")
		}
		return finish(err)
	}
	defer release()

	if opts.DryRun {
		wouldMark, err := o.sweep.Peek(ctx)
		if err != nil {
			return finish(fmt.Errorf("sweep peek: %w", err))
		}
		report.Sweep.Marked = wouldMark

		due, err := o.resolver.ResolveDue(ctx)
		if err != nil {
			return finish(fmt.Errorf("resolve: %w", err))
		}
		report.Pending = len(due)
		return finish(nil)
	}

	sweepRes, err := o.sweep.Run(ctx)
	if err != nil {
		return finish(fmt.Errorf("sweep: %w", err))
	}
	report.Sweep = sweepRes
	for _, e := range sweepRes.Errors {
		report.Errors = append(report.Errors, fmt.Sprintf("sweep %s: %s", e.AppointmentID, e.Err))
	}
	prom.IncSweepRun()

	due, err := o.resolver.ResolveDue(ctx)
	if err != nil {
		return finish(fmt.Errorf("resolve: %w", err))
	}
	report.Pending = len(due)

	perClinic := map[string]int{}
	for _, msg := range due {
		perClinic[msg.Clinic.ID]++
	}
	for id, n := range perClinic {
		prom.SetRemindersPending(id, float64(n))
	}

	for _, msg := range due {
		if err := o.limiter.Wait(ctx); err != nil {
			return finish(fmt.Errorf("rate limiter: %w", err))
		}
		o.dispatchOne(ctx, msg, report)
	}

	logger.Info("dispatch run finished", "due", len(due), "sent", report.Processed, "errors", len(report.Errors))
	return finish(nil)
}

func (o *Orchestrator) dispatchOne(ctx context.Context, msg *DueMessage, report *Report) {
	out := &gateway.OutboundMessage{
		ClinicID:  msg.Clinic.ID,
		PatientID: msg.Patient.ID,
		To:        msg.Patient.Phone,
		From:      msg.Clinic.SenderNumber,
		Body:      msg.Body,
		Tag:       msg.Tag,
	}
	if msg.Appointment != nil {
		id := msg.Appointment.ID
		out.AppointmentID = &id
	}
	if msg.Enrollment != nil {
		id := msg.Enrollment.ID
		out.EnrollmentID = &id
	}

	res, err := o.gateway.Send(ctx, out)
	if err != nil {
		if errors.Is(err, gateway.ErrPatientOptedOut) {
			// Opted out between resolve and send. Not a failure.
			return
		}
		prom.IncSendFailure(string(msg.Kind))
		report.Errors = append(report.Errors, fmt.Sprintf("send %s %s: %v", msg.Kind, msg.Tag, err))
		return
	}
	if res.LogErr != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("log %s %s: %v", msg.Kind, msg.Tag, res.LogErr))
	}

	report.Processed++
	prom.IncReminderSent(string(msg.Kind))

	if msg.Kind == KindRecovery {
		if err := o.sequencer.AdvanceAfterSend(ctx, msg.Enrollment); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("advance enrollment %d: %v", msg.Enrollment.ID, err))
		}
	}
}

// PendingCount is the number of messages a run would send right now.
// Serves the HEAD probe on the trigger endpoint.
func (o *Orchestrator) PendingCount(ctx context.Context) (int, error) {
	due, err := o.resolver.ResolveDue(ctx)
	if err != nil {
		return 0, err
	}
	return len(due), nil
}
