package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/vinsolit/lendenbook/internal/core"
	"github.com/vinsolit/lendenbook/internal/service"
)

type AdminController struct {
	adminService core.AdminService
	logger       *zap.Logger
}

func NewAdminController(adminService core.AdminService, logger *zap.Logger) *AdminController {
	return &AdminController{
		adminService: adminService,
		logger:       logger,
	}
}

func (c *AdminController) GetAllRecords(w http.ResponseWriter, r *http.Request) {
	records, err := c.adminService.AllRecords(r.Context())
	if err != nil {
		c.logger.Error("Failed to list all records", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if len(records) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	render.JSON(w, r, records)
}

func (c *AdminController) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := c.adminService.ListUsers(r.Context())
	if err != nil {
		c.logger.Error("Failed to list users", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, users)
}

func (c *AdminController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	// The store would happily cascade-delete the bootstrap admin; the
	// protection lives here at the edge.
	if username == service.AdminUsername {
		http.Error(w, "The admin account cannot be deleted", http.StatusForbidden)
		return
	}

	if err := c.adminService.DeleteUser(r.Context(), username); err != nil {
		switch err {
		case service.ErrUserNotFound:
			http.Error(w, "User not found", http.StatusNotFound)
		default:
			c.logger.Error("Failed to delete user",
				zap.String("username", username),
				zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}
