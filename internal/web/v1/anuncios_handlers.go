package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hvigueras/edificio-admin/internal/core/domain"
)

// ListarAnuncios returns every notice, active or not.
func (h *Handler) ListarAnuncios(c *gin.Context) {
	anuncios, err := h.anuncios.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "anuncios": anuncios})
}

// CrearAnuncio publishes a new notice. Notices start out active.
func (h *Handler) CrearAnuncio(c *gin.Context) {
	var a domain.Anuncio
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": "Datos de anuncio invalidos"})
		return
	}
	creado, err := h.anuncios.Crear(c.Request.Context(), a)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "anuncio": creado})
}

// ActualizarAnuncio modifies an existing notice.
func (h *Handler) ActualizarAnuncio(c *gin.Context) {
	id, ok := idDeRuta(c)
	if !ok {
		return
	}
	var a domain.Anuncio
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": "Datos de anuncio invalidos"})
		return
	}
	a.ID = id
	if err := h.anuncios.Actualizar(c.Request.Context(), a); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "anuncio": a})
}

// EliminarAnuncio removes a notice.
func (h *Handler) EliminarAnuncio(c *gin.Context) {
	id, ok := idDeRuta(c)
	if !ok {
		return
	}
	if err := h.anuncios.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "msg": "Anuncio eliminado"})
}
