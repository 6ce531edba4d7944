package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hvigueras/edificio-admin/internal/core/domain"
	logicv1 "github.com/hvigueras/edificio-admin/internal/logic/v1"
)

// Login authenticates with email and password and returns a fresh token
// together with the user record.
func (h *Handler) Login(c *gin.Context) {
	logger := zerolog.Ctx(c.Request.Context())

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": "Email y password son obligatorios"})
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, logicv1.ErrCredencialesInvalidas), errors.Is(err, logicv1.ErrUsuarioNoEncontrado):
			// An unknown email reads the same as a wrong password.
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "msg": "Credenciales incorrectas"})
		default:
			logger.Error().Err(err).Msg("Fallo el login")
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "msg": "Error interno del servidor"})
		}
		return
	}

	logger.Info().Int("usuario_id", resp.Usuario.ID).Str("rol", resp.Usuario.Rol).Msg("Login correcto")
	c.JSON(http.StatusOK, resp)
}

// Renovar exchanges a still valid token for a new one. The old token is
// revoked in the same operation.
func (h *Handler) Renovar(c *gin.Context) {
	logger := zerolog.Ctx(c.Request.Context())

	token := c.GetHeader("x-token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "msg": "Token requerido"})
		return
	}

	resp, err := h.auth.Renovar(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, logicv1.ErrSesionNoEncontrada), errors.Is(err, logicv1.ErrSesionExpirada):
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "msg": "Token invalido o expirado"})
		default:
			logger.Error().Err(err).Msg("Fallo la renovacion de token")
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "msg": "Error interno del servidor"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
