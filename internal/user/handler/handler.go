// Package handler wires the users endpoints to the users service.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dojohub/internal/account"
	"dojohub/internal/user"
	"dojohub/internal/user/service"
	id "dojohub/pkg/domain"
	dErrors "dojohub/pkg/domain-errors"
	"dojohub/pkg/platform/httputil"
	"dojohub/pkg/requestcontext"
)

// Service defines the user operations the handler exposes.
type Service interface {
	Load(ctx context.Context, userID id.UserID) (*user.User, error)
	List(ctx context.Context, ids []id.UserID) ([]*user.User, error)
	Register(ctx context.Context, req service.RegisterRequest) (account.RegisterResult, error)
	Promote(ctx context.Context, userID id.UserID, roles []string) (*user.User, error)
	GetUsersByEmails(ctx context.Context, query string) ([]service.EmailMatch, error)
	Update(ctx context.Context, u *user.User) (*user.User, error)
	InitUserTypes() []id.InitUserType
	IsChampion(ctx context.Context, userID id.UserID) (service.ChampionStatus, error)
	CreateReset(ctx context.Context, req service.CreateResetRequest) error
	ExecuteReset(ctx context.Context, token id.ResetID, password, repeat string) (service.ResetOutcome, error)
}

// Handler wires user endpoints to the users service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a users handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts user endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/users/register", h.HandleRegister)
	r.Post("/users/list", h.HandleList)
	r.Get("/users/search", h.HandleSearchByEmail)
	r.Get("/users/init-user-types", h.HandleInitUserTypes)
	r.Post("/users/reset-password", h.HandleCreateReset)
	r.Post("/users/execute-reset", h.HandleExecuteReset)
	r.Get("/users/{userID}", h.HandleLoad)
	r.Get("/users/{userID}/is-champion", h.HandleIsChampion)
	r.Post("/users/{userID}/promote", h.HandlePromote)
	r.Put("/users", h.HandleUpdate)
}

// HandleRegister handles POST /users/register requests.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[service.RegisterRequest](w, r)
	if !ok {
		return
	}

	result, err := h.service.Register(ctx, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "registration failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, result)
}

// HandleLoad handles GET /users/{userID} requests.
func (h *Handler) HandleLoad(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if requestcontext.UserID(ctx).IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	u, err := h.service.Load(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, u)
}

type listRequest struct {
	IDs []id.UserID `json:"ids"`
}

// HandleList handles POST /users/list requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if requestcontext.UserID(ctx).IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.Decode[listRequest](w, r)
	if !ok {
		return
	}

	users, err := h.service.List(ctx, req.IDs)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, users)
}

type promoteRequest struct {
	Roles []string `json:"roles"`
}

// HandlePromote handles POST /users/{userID}/promote requests.
func (h *Handler) HandlePromote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.UserID(ctx)
	if actor.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.Decode[promoteRequest](w, r)
	if !ok {
		return
	}

	promoted, err := h.service.Promote(ctx, userID, req.Roles)
	if err != nil {
		h.logger.ErrorContext(ctx, "promotion failed",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, promoted)
}

// HandleSearchByEmail handles GET /users/search?email= requests.
func (h *Handler) HandleSearchByEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if requestcontext.UserID(ctx).IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	query := r.URL.Query().Get("email")
	if query == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "email query is required"))
		return
	}

	matches, err := h.service.GetUsersByEmails(ctx, query)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, matches)
}

// HandleUpdate handles PUT /users requests.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if requestcontext.UserID(ctx).IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	u, ok := httputil.Decode[user.User](w, r)
	if !ok {
		return
	}

	updated, err := h.service.Update(ctx, &u)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

// HandleInitUserTypes handles GET /users/init-user-types requests.
func (h *Handler) HandleInitUserTypes(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.InitUserTypes())
}

// HandleIsChampion handles GET /users/{userID}/is-champion requests.
func (h *Handler) HandleIsChampion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	status, err := h.service.IsChampion(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

// HandleCreateReset handles POST /users/reset-password requests. Always
// anonymous; this is how locked-out users get back in.
func (h *Handler) HandleCreateReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[service.CreateResetRequest](w, r)
	if !ok {
		return
	}

	if err := h.service.CreateReset(ctx, req); err != nil {
		h.logger.ErrorContext(ctx, "reset creation failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type executeResetRequest struct {
	Token    id.ResetID `json:"token"`
	Password string     `json:"password"`
	Repeat   string     `json:"repeat"`
}

// HandleExecuteReset handles POST /users/execute-reset requests.
func (h *Handler) HandleExecuteReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[executeResetRequest](w, r)
	if !ok {
		return
	}

	outcome, err := h.service.ExecuteReset(ctx, req.Token, req.Password, req.Repeat)
	if err != nil {
		h.logger.ErrorContext(ctx, "reset execution failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, outcome)
}
