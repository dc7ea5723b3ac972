package rbac

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sentinel-iam/sentinel/internal/permissions"
	"github.com/sentinel-iam/sentinel/internal/platform/httpx"
)

// Guard supplies the authorization middleware applied to provisioning
// routes. Implemented by the auth token middleware.
type Guard interface {
	RequireRole(role string) func(http.Handler) http.Handler
	RequirePermission(permission string) func(http.Handler) http.Handler
}

// Handler wires HTTP endpoints for role and permission provisioning.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     Guard
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard Guard) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		guard:     guard,
		validator: validator.New(),
	}
}

// MountRoutes registers provisioning routes on the provided router. All of
// them are restricted to the SuperAdmin role.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole("SuperAdmin"))
		r.Get("/roles", h.listRoles)
		r.Post("/roles", h.createRole)
		r.Get("/roles/{name}/claims", h.roleClaims)
		r.Post("/roles/{name}/permissions", h.grantModule)
		r.Get("/permissions", h.listPermissions)
	})
}

type roleResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.ListRoles(r.Context())
	if err != nil {
		h.logger.Error("list roles", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]roleResponse, 0, len(roles))
	for _, role := range roles {
		out = append(out, roleResponse{ID: role.ID, Name: role.Name})
	}
	httpx.JSON(w, http.StatusOK, out)
}

type createRoleRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

func (h *Handler) createRole(w http.ResponseWriter, r *http.Request) {
	var req createRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid json body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "role name cannot be empty")
		return
	}
	role, err := h.service.CreateRole(r.Context(), req.Name)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, roleResponse{ID: role.ID, Name: role.Name})
}

func (h *Handler) roleClaims(w http.ResponseWriter, r *http.Request) {
	claims, err := h.service.RoleClaims(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if claims == nil {
		claims = []Claim{}
	}
	httpx.JSON(w, http.StatusOK, claims)
}

type grantModuleRequest struct {
	Module string `json:"module" validate:"required,max=64"`
}

func (h *Handler) grantModule(w http.ResponseWriter, r *http.Request) {
	var req grantModuleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid json body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "module cannot be empty")
		return
	}
	if err := h.service.GrantModule(r.Context(), chi.URLParam(r, "name"), req.Module); err != nil {
		h.logger.Error("grant module", slog.String("module", req.Module), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "granted"})
}

func (h *Handler) listPermissions(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, permissions.All())
}
