// Package handler wires the profile endpoints to the profile service.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dojohub/internal/profile"
	"dojohub/internal/profile/service"
	id "dojohub/pkg/domain"
	dErrors "dojohub/pkg/domain-errors"
	"dojohub/pkg/platform/httputil"
	"dojohub/pkg/requestcontext"
)

// Service defines the profile operations the handler exposes.
type Service interface {
	Create(ctx context.Context, actor id.UserID, p *profile.Profile) (profile.View, error)
	Resolve(ctx context.Context, viewer, subject id.UserID) (profile.View, error)
	SaveYouthProfile(ctx context.Context, actor id.UserID, sub service.Submission) (*profile.Profile, error)
	UpdateYouthProfile(ctx context.Context, actor id.UserID, sub service.Submission) (*profile.Profile, error)
}

// Handler wires profile endpoints to the profile service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a profile handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts profile endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/profiles", h.HandleCreate)
	r.Get("/profiles/{userID}", h.HandleResolve)
	r.Post("/profiles/youth", h.HandleSaveYouth)
	r.Put("/profiles/youth", h.HandleUpdateYouth)
}

// HandleCreate handles POST /profiles requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.UserID(ctx)
	if actor.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	p, ok := httputil.Decode[profile.Profile](w, r)
	if !ok {
		return
	}

	view, err := h.service.Create(ctx, actor, &p)
	if err != nil {
		h.logger.ErrorContext(ctx, "profile creation failed",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", actor,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, view)
}

// HandleResolve handles GET /profiles/{userID} requests. The viewer may be
// anonymous; redaction handles the rest.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subject, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	view, err := h.service.Resolve(ctx, requestcontext.UserID(ctx), subject)
	if err != nil {
		h.logger.ErrorContext(ctx, "profile resolution failed",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", subject,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// HandleSaveYouth handles POST /profiles/youth requests.
func (h *Handler) HandleSaveYouth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.UserID(ctx)
	if actor.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	sub, ok := httputil.Decode[service.Submission](w, r)
	if !ok {
		return
	}

	saved, err := h.service.SaveYouthProfile(ctx, actor, sub)
	if err != nil {
		h.logger.ErrorContext(ctx, "youth profile save failed",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", actor,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, saved)
}

// HandleUpdateYouth handles PUT /profiles/youth requests.
func (h *Handler) HandleUpdateYouth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.UserID(ctx)
	if actor.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	sub, ok := httputil.Decode[service.Submission](w, r)
	if !ok {
		return
	}

	updated, err := h.service.UpdateYouthProfile(ctx, actor, sub)
	if err != nil {
		h.logger.ErrorContext(ctx, "youth profile update failed",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", actor,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}
