package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hvigueras/edificio-admin/internal/core/domain"
)

// ListarCuotas returns the monthly fees, optionally filtered by the
// "departamento" query parameter.
func (h *Handler) ListarCuotas(c *gin.Context) {
	cuotas, err := h.finanzas.ListarCuotas(c.Request.Context(), c.Query("departamento"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "cuotas": cuotas})
}

type generarCuotasRequest struct {
	Mes   int     `json:"mes" binding:"required,min=1,max=12"`
	Anio  int     `json:"anio" binding:"required,min=2020"`
	Monto float64 `json:"monto" binding:"required,gt=0"`
}

// GenerarCuotas creates one fee per unit for the given month.
func (h *Handler) GenerarCuotas(c *gin.Context) {
	var req generarCuotasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": "Mes, anio y monto son obligatorios"})
		return
	}
	cuotas, err := h.finanzas.GenerarCuotas(c.Request.Context(), req.Mes, req.Anio, req.Monto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "cuotas": cuotas})
}

type pagoRequest struct {
	Comprobante string `json:"comprobante"`
}

// PagarCuota marks a fee as paid.
func (h *Handler) PagarCuota(c *gin.Context) {
	id, ok := idDeRuta(c)
	if !ok {
		return
	}
	var req pagoRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": "Datos de pago invalidos"})
		return
	}
	cuota, err := h.finanzas.RegistrarPago(c.Request.Context(), id, req.Comprobante)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "cuota": cuota})
}

// ListarGastos returns every recorded expense.
func (h *Handler) ListarGastos(c *gin.Context) {
	gastos, err := h.finanzas.ListarGastos(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "gastos": gastos})
}

// CrearGasto records a new expense.
func (h *Handler) CrearGasto(c *gin.Context) {
	var g domain.Gasto
	if err := c.ShouldBindJSON(&g); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": "Datos de gasto invalidos"})
		return
	}
	creado, err := h.finanzas.CrearGasto(c.Request.Context(), g)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "gasto": creado})
}

// ActualizarGasto modifies an existing expense.
func (h *Handler) ActualizarGasto(c *gin.Context) {
	id, ok := idDeRuta(c)
	if !ok {
		return
	}
	var g domain.Gasto
	if err := c.ShouldBindJSON(&g); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": "Datos de gasto invalidos"})
		return
	}
	g.ID = id
	if err := h.finanzas.ActualizarGasto(c.Request.Context(), g); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "gasto": g})
}

// EliminarGasto removes an expense.
func (h *Handler) EliminarGasto(c *gin.Context) {
	id, ok := idDeRuta(c)
	if !ok {
		return
	}
	if err := h.finanzas.EliminarGasto(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "msg": "Gasto eliminado"})
}

// ListarFondos returns the building funds with their balances.
func (h *Handler) ListarFondos(c *gin.Context) {
	fondos, err := h.finanzas.ListarFondos(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "fondos": fondos})
}

// Transferir moves money between two funds.
func (h *Handler) Transferir(c *gin.Context) {
	var t domain.Transferencia
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": "Datos de transferencia invalidos"})
		return
	}
	if err := h.finanzas.Transferir(c.Request.Context(), t); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "msg": "Transferencia realizada"})
}

// ListarCierres returns the monthly closings.
func (h *Handler) ListarCierres(c *gin.Context) {
	cierres, err := h.finanzas.ListarCierres(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "cierres": cierres})
}

type cierreRequest struct {
	Mes  int `json:"mes" binding:"required,min=1,max=12"`
	Anio int `json:"anio" binding:"required,min=2020"`
}

// EjecutarCierre closes the accounting period for a month. A period can
// only be closed once.
func (h *Handler) EjecutarCierre(c *gin.Context) {
	var req cierreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": "Mes y anio son obligatorios"})
		return
	}
	cierre, err := h.finanzas.EjecutarCierre(c.Request.Context(), req.Mes, req.Anio)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "cierre": cierre})
}

// ListarParcialidades returns the installment plans, optionally filtered
// by the "departamento" query parameter.
func (h *Handler) ListarParcialidades(c *gin.Context) {
	parcialidades, err := h.finanzas.ListarParcialidades(c.Request.Context(), c.Query("departamento"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "parcialidades": parcialidades})
}

type pagoParcialidadRequest struct {
	Monto      float64 `json:"monto" binding:"required,gt=0"`
	TotalAnual float64 `json:"total_anual" binding:"required,gt=0"`
}

// PagarParcialidad applies a payment to an installment plan.
func (h *Handler) PagarParcialidad(c *gin.Context) {
	id, ok := idDeRuta(c)
	if !ok {
		return
	}
	var req pagoParcialidadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": "Monto y total anual son obligatorios"})
		return
	}
	p, err := h.finanzas.PagarParcialidad(c.Request.Context(), id, req.Monto, req.TotalAnual)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "parcialidad": p})
}

// Resumen returns the aggregate figures shown on the dashboard.
func (h *Handler) Resumen(c *gin.Context) {
	resumen, err := h.finanzas.Resumen(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "resumen": resumen})
}
