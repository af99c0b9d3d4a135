package handlers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/fasthttp/router"

	"github.com/EliteSamurai/RehabFlow-sub000/internal/engine"
	xhttp "github.com/EliteSamurai/RehabFlow-sub000/pkg/http"
)

type DispatchService interface {
	Run(ctx context.Context, opts engine.RunOptions) (*engine.Report, error)
	PendingCount(ctx context.Context) (int, error)
}

// TriggerHandler exposes the dispatch run to the cron caller. Every verb
// requires the shared secret; a failed check returns 401 before any
// engine code runs.
type TriggerHandler struct {
	svc    DispatchService
	secret string
}

func RegisterTriggerRoutes(e *router.Group, h *TriggerHandler) {
	e.GET("/engine/run", h.Run)
	e.POST("/engine/run", h.RunWithOptions)
	e.HEAD("/engine/run", h.Probe)
}

func NewTriggerHandler(svc DispatchService, secret string) *TriggerHandler {
	return &TriggerHandler{svc: svc, secret: secret}
}

// authorized accepts the secret as "Authorization: Bearer <secret>" or,
// for callers that cannot set headers, as a ?secret= query parameter.
func (h *TriggerHandler) authorized(ctx *xhttp.RequestCtx) bool {
	if h.secret == "" {
		return false
	}

	presented := ""
	if auth := string(ctx.Request.Header.Peek("Authorization")); auth != "" {
		presented = strings.TrimPrefix(auth, "Bearer ")
	} else if q := query(ctx, "secret"); q != "" {
		presented = q
	}
	if presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(h.secret)) == 1
}

func (h *TriggerHandler) Run(ctx *xhttp.RequestCtx) {
	if !h.authorized(ctx) {
		writeError(ctx, xhttp.StatusUnauthorized, "unauthorized")
		return
	}
	h.run(ctx, engine.RunOptions{})
}

type runRequest struct {
	DryRun bool `json:"dry_run"`
}

func (h *TriggerHandler) RunWithOptions(ctx *xhttp.RequestCtx) {
	if !h.authorized(ctx) {
		writeError(ctx, xhttp.StatusUnauthorized, "unauthorized")
		return
	}

	var req runRequest
	if body := ctx.PostBody(); len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
	}
	h.run(ctx, engine.RunOptions{DryRun: req.DryRun})
}

func (h *TriggerHandler) run(ctx *xhttp.RequestCtx, opts engine.RunOptions) {
	report, err := h.svc.Run(ctx, opts)
	if err != nil {
		if errors.Is(err, engine.ErrRunInProgress) {
			writeError(ctx, xhttp.StatusConflict, err.Error())
			return
		}
		writeJSON(ctx, xhttp.StatusInternalServerError, map[string]any{
			"error":  err.Error(),
			"report": report,
		})
		return
	}
	writeJSON(ctx, xhttp.StatusOK, report)
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"error": msg})
}

// Probe answers uptime checks with headers only.
func (h *TriggerHandler) Probe(ctx *xhttp.RequestCtx) {
	if !h.authorized(ctx) {
		ctx.SetStatusCode(xhttp.StatusUnauthorized)
		return
	}

	pending, err := h.svc.PendingCount(ctx)
	if err != nil {
		ctx.Response.Header.Set("X-Engine-Status", "degraded")
		ctx.SetStatusCode(xhttp.StatusInternalServerError)
		return
	}
	ctx.Response.Header.Set("X-Engine-Status", "ok")
	ctx.Response.Header.Set("X-Pending-Messages", strconv.Itoa(pending))
	ctx.SetStatusCode(xhttp.StatusOK)
}
