package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/annotation-layers/backend/internal/auth"
	"github.com/annotation-layers/backend/internal/i18n"
	"github.com/annotation-layers/backend/internal/models"
	"github.com/annotation-layers/backend/internal/views"
)

// Login exchanges credentials for an access token. The token is also set as
// the session cookie so the admin pages accept it.
// @Summary Log in
// @Tags security
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/v1/security/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindFailed(c, err)
		return
	}

	token, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: i18n.T(h.printer(c), "Invalid username or password."),
			})
			return
		}
		h.logger.Error("Failed to issue token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "failed to log in",
		})
		return
	}

	h.auth.SetSessionCookie(c, token)
	c.JSON(http.StatusOK, models.LoginResponse{AccessToken: token})
}

// Menu returns the navigation tree of the views.
func (h *Handler) Menu(c *gin.Context) {
	c.JSON(http.StatusOK, models.MenuResponse{
		Result: views.Menu(h.printer(c), views.All()...),
	})
}
