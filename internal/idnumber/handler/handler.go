package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"idcard/internal/idnumber/domain"
	"idcard/internal/idnumber/service"
	"idcard/pkg/platform/httputil"
	"idcard/pkg/requestcontext"
)

// Service defines the identity number operations exposed over HTTP.
type Service interface {
	Validate(ctx context.Context, raw string) service.Validation
	Inspect(ctx context.Context, req service.InspectRequest) (*service.Profile, error)
	Birth(ctx context.Context, req service.BirthRequest) (*service.BirthParts, error)
	Mask(ctx context.Context, req service.MaskRequest) (string, error)
	Upgrade(ctx context.Context, raw string) (domain.IdentityNumber, error)
}

// Handler wires identity number endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an identity number handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1/id-numbers", func(r chi.Router) {
		r.Post("/validate", h.HandleValidate)
		r.Post("/inspect", h.HandleInspect)
		r.Post("/birth", h.HandleBirth)
		r.Post("/mask", h.HandleMask)
		r.Post("/upgrade", h.HandleUpgrade)
	})
}

// HandleValidate handles POST /v1/id-numbers/validate. An invalid number is
// a 200 response with valid=false.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ValidateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	httputil.WriteJSON(w, http.StatusOK, fromValidation(h.service.Validate(ctx, req.IDNumber)))
}

// HandleInspect handles POST /v1/id-numbers/inspect.
func (h *Handler) HandleInspect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[InspectRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	profile, err := h.service.Inspect(ctx, req.ToService())
	if err != nil {
		h.writeServiceError(ctx, w, "inspect", requestID, err)
		return
	}

	h.logger.InfoContext(ctx, "identity number inspected",
		"request_id", requestID,
		"id_number", profile.Masked,
		"format", profile.Format,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, fromProfile(profile))
}

// HandleBirth handles POST /v1/id-numbers/birth.
func (h *Handler) HandleBirth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[BirthRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	parts, err := h.service.Birth(ctx, req.ToService())
	if err != nil {
		h.writeServiceError(ctx, w, "birth", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromBirthParts(parts))
}

// HandleMask handles POST /v1/id-numbers/mask.
func (h *Handler) HandleMask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[MaskRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	masked, err := h.service.Mask(ctx, req.ToService())
	if err != nil {
		h.writeServiceError(ctx, w, "mask", requestID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, MaskResponse{Masked: masked})
}

// HandleUpgrade handles POST /v1/id-numbers/upgrade. This is the only
// endpoint that returns a full number.
func (h *Handler) HandleUpgrade(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[IDNumberRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	n, err := h.service.Upgrade(ctx, req.IDNumber)
	if err != nil {
		h.writeServiceError(ctx, w, "upgrade", requestID, err)
		return
	}

	h.logger.InfoContext(ctx, "identity number upgraded",
		"request_id", requestID,
		"id_number", n,
	)
	httputil.WriteJSON(w, http.StatusOK, UpgradeResponse{IDNumber: n.Value()})
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, op, requestID string, err error) {
	h.logger.WarnContext(ctx, "identity number request failed",
		"request_id", requestID,
		"operation", op,
		"error", err,
	)
	httputil.WriteError(w, err)
}
