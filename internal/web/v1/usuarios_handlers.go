package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hvigueras/edificio-admin/internal/core/domain"
)

// ListarUsuarios returns every registered user.
func (h *Handler) ListarUsuarios(c *gin.Context) {
	usuarios, err := h.usuarios.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "usuarios": usuarios})
}

type crearUsuarioRequest struct {
	Nombre       string `json:"nombre" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	Departamento string `json:"departamento"`
	Rol          string `json:"rol"`
}

// CrearUsuario registers a new user. Duplicate emails are rejected.
func (h *Handler) CrearUsuario(c *gin.Context) {
	var req crearUsuarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": "Datos de usuario incompletos"})
		return
	}

	u := domain.Usuario{
		Nombre:       req.Nombre,
		Email:        req.Email,
		Departamento: req.Departamento,
		Rol:          req.Rol,
	}
	creado, err := h.usuarios.Crear(c.Request.Context(), u, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "usuario": creado})
}

type actualizarUsuarioRequest struct {
	Nombre       string `json:"nombre"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Departamento string `json:"departamento"`
	Rol          string `json:"rol"`
}

// ActualizarUsuario updates an existing user. The password only changes
// when a new one is provided.
func (h *Handler) ActualizarUsuario(c *gin.Context) {
	id, ok := idDeRuta(c)
	if !ok {
		return
	}

	var req actualizarUsuarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": "Datos de usuario invalidos"})
		return
	}

	u := domain.Usuario{
		ID:           id,
		Nombre:       req.Nombre,
		Email:        req.Email,
		Departamento: req.Departamento,
		Rol:          req.Rol,
	}
	if err := h.usuarios.Actualizar(c.Request.Context(), u, req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "usuario": u})
}

// EliminarUsuario deletes a user. The primary administrator cannot be
// removed.
func (h *Handler) EliminarUsuario(c *gin.Context) {
	id, ok := idDeRuta(c)
	if !ok {
		return
	}
	if err := h.usuarios.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "msg": "Usuario eliminado"})
}

// idDeRuta parses the :id path parameter. On failure it writes the error
// response itself and reports false so the caller can bail out.
func idDeRuta(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": "Identificador invalido"})
		return 0, false
	}
	return id, true
}
