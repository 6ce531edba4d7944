// Package v1 exposes the condominium REST API over gin. Handlers bind
// JSON, call the Logic layer and translate sentinel errors into HTTP
// statuses; they hold no business rules of their own.
package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	logicv1 "github.com/hvigueras/edificio-admin/internal/logic/v1"
	"github.com/hvigueras/edificio-admin/internal/core/domain"
)

// claveUsuarioCtx is the gin context key the auth middleware stores the
// resolved user under.
const claveUsuarioCtx = "usuario"

// Handler groups the HTTP handlers for API v1.
// Dependencies are injected via the constructor, no global state.
type Handler struct {
	auth     *logicv1.AuthService
	usuarios *logicv1.UsuariosService
	finanzas *logicv1.FinanzasService
	anuncios *logicv1.AnunciosService
}

// NewHandler creates a new Handler with the given services.
func NewHandler(auth *logicv1.AuthService, usuarios *logicv1.UsuariosService, finanzas *logicv1.FinanzasService, anuncios *logicv1.AnunciosService) *Handler {
	return &Handler{auth: auth, usuarios: usuarios, finanzas: finanzas, anuncios: anuncios}
}

// RegisterRoutes registers every API v1 route on the given router group.
// Everything except login requires a valid token; mutations additionally
// require an administrator.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
	rg.GET("/auth/renovar", h.Renovar)

	auth := rg.Group("", h.TokenRequerido())
	{
		auth.GET("/usuarios", h.ListarUsuarios)
		auth.GET("/cuotas", h.ListarCuotas)
		auth.GET("/gastos", h.ListarGastos)
		auth.GET("/fondos", h.ListarFondos)
		auth.GET("/anuncios", h.ListarAnuncios)
		auth.GET("/cierres", h.ListarCierres)
		auth.GET("/parcialidades", h.ListarParcialidades)
		auth.GET("/dashboard/resumen", h.Resumen)
	}

	admin := rg.Group("", h.TokenRequerido(), h.SoloAdmin())
	{
		admin.POST("/usuarios", h.CrearUsuario)
		admin.PUT("/usuarios/:id", h.ActualizarUsuario)
		admin.DELETE("/usuarios/:id", h.EliminarUsuario)

		admin.POST("/cuotas/generar", h.GenerarCuotas)
		admin.PUT("/cuotas/:id/pagar", h.PagarCuota)

		admin.POST("/gastos", h.CrearGasto)
		admin.PUT("/gastos/:id", h.ActualizarGasto)
		admin.DELETE("/gastos/:id", h.EliminarGasto)

		admin.POST("/fondos/transferencia", h.Transferir)

		admin.POST("/anuncios", h.CrearAnuncio)
		admin.PUT("/anuncios/:id", h.ActualizarAnuncio)
		admin.DELETE("/anuncios/:id", h.EliminarAnuncio)

		admin.POST("/cierres", h.EjecutarCierre)
		admin.PUT("/parcialidades/:id/pagar", h.PagarParcialidad)
	}
}

// TokenRequerido resolves the x-token header to a user and stores it in
// the request context. Missing or invalid tokens get a 401.
func (h *Handler) TokenRequerido() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("x-token")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "msg": "Token requerido"})
			return
		}

		u, err := h.auth.UsuarioPorToken(c.Request.Context(), token)
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("Token invalido")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "msg": "Token invalido o expirado"})
			return
		}
		c.Set(claveUsuarioCtx, u)
		c.Next()
	}
}

// SoloAdmin rejects requests whose user is not an administrator.
func (h *Handler) SoloAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := usuarioActual(c)
		if u == nil || !u.EsPrivilegiado() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "msg": "Se requiere rol de administrador"})
			return
		}
		c.Next()
	}
}

// usuarioActual returns the user the auth middleware resolved, or nil.
func usuarioActual(c *gin.Context) *domain.Usuario {
	v, ok := c.Get(claveUsuarioCtx)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.Usuario)
	return u
}

// respondError maps a logic-layer error onto the API error envelope.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := "Error interno del servidor"

	switch {
	case errors.Is(err, logicv1.ErrUsuarioExiste):
		status, msg = http.StatusBadRequest, "El email ya esta registrado"
	case errors.Is(err, logicv1.ErrAdminProtegido):
		status, msg = http.StatusForbidden, "No se puede eliminar al administrador principal"
	case errors.Is(err, logicv1.ErrNoEncontrado), errors.Is(err, logicv1.ErrUsuarioNoEncontrado):
		status, msg = http.StatusNotFound, "No encontrado"
	case errors.Is(err, logicv1.ErrSaldoInsuficiente):
		status, msg = http.StatusBadRequest, "Saldo insuficiente en el fondo de origen"
	case errors.Is(err, logicv1.ErrMontoInvalido):
		status, msg = http.StatusBadRequest, "El monto debe ser mayor a cero"
	case errors.Is(err, logicv1.ErrCierreExiste):
		status, msg = http.StatusConflict, "El periodo ya fue cerrado"
	case errors.Is(err, logicv1.ErrCuotaPagada):
		status, msg = http.StatusConflict, "La cuota ya esta pagada"
	}

	if status == http.StatusInternalServerError {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("Error no clasificado")
	}
	c.JSON(status, gin.H{"ok": false, "msg": msg})
}
