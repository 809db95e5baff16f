package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gestor-labs/be-case-tracking/internal/logger"
)

// UserHandler lists operators for attribution pickers in the UI.
type UserHandler struct {
	users UserAPI
	log   *logger.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users UserAPI, log *logger.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// List handles GET /users.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	c.JSON(http.StatusOK, out)
}
