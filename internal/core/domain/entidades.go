// Package domain holds the condominium domain entities and the data-access
// contracts implemented by the repository layer. Field names follow the JSON
// conventions of the upstream REST API (Spanish, snake_case).
package domain

import "time"

// Roles de usuario.
const (
	RolInquilino  = "inquilino"
	RolAdmin      = "admin"
	RolSuperAdmin = "superadmin"
)

// Estados de cuota.
const (
	CuotaPendiente = "pendiente"
	CuotaPagada    = "pagado"
	CuotaVencida   = "vencido"
	CuotaParcial   = "parcial"
)

// Estados de cierre contable.
const (
	CierreAbierto = "abierto"
	CierreCerrado = "cerrado"
)

// Usuario is a registered account: a tenant, an administrator or the
// superadmin. PasswordHash never leaves the server.
type Usuario struct {
	ID             int       `json:"id"`
	Nombre         string    `json:"nombre"`
	Email          string    `json:"email"`
	Rol            string    `json:"rol"`
	Departamento   string    `json:"departamento,omitempty"`
	RolEditor      string    `json:"rol_editor,omitempty"`
	PermisosEditor []string  `json:"permisos_editor,omitempty"`
	PasswordHash   string    `json:"-"`
	CreadoEn       time.Time `json:"creado_en,omitzero"`
}

// EsPrivilegiado reports whether the user may administer the building.
// Role comparison is exact; roles are stored lowercase.
func (u *Usuario) EsPrivilegiado() bool {
	return u.Rol == RolAdmin || u.Rol == RolSuperAdmin
}

// Cuota is the monthly maintenance fee owed by one unit.
type Cuota struct {
	ID               int        `json:"id"`
	Departamento     string     `json:"departamento"`
	Mes              int        `json:"mes"`
	Anio             int        `json:"anio"`
	Monto            float64    `json:"monto"`
	Estado           string     `json:"estado"`
	FechaVencimiento time.Time  `json:"fecha_vencimiento"`
	FechaPago        *time.Time `json:"fecha_pago,omitempty"`
	ComprobantePago  string     `json:"comprobante_pago,omitempty"`
}

// Gasto is an operating expense recorded against the building budget.
type Gasto struct {
	ID        int       `json:"id"`
	Fecha     time.Time `json:"fecha"`
	Concepto  string    `json:"concepto"`
	Categoria string    `json:"categoria"`
	Monto     float64   `json:"monto"`
	Proveedor string    `json:"proveedor,omitempty"`
}

// Fondo is a named pool of building money (reserva, operacion, ...).
type Fondo struct {
	ID     int     `json:"id"`
	Nombre string  `json:"nombre"`
	Saldo  float64 `json:"saldo"`
}

// Transferencia moves money between two fondos.
type Transferencia struct {
	OrigenID  int     `json:"origen_id"`
	DestinoID int     `json:"destino_id"`
	Monto     float64 `json:"monto"`
	Concepto  string  `json:"concepto,omitempty"`
}

// Anuncio is a building-wide notice shown to tenants.
type Anuncio struct {
	ID               int        `json:"id"`
	Titulo           string     `json:"titulo"`
	Contenido        string     `json:"contenido"`
	Tipo             string     `json:"tipo"`
	Activo           bool       `json:"activo"`
	FechaPublicacion time.Time  `json:"fecha_publicacion"`
	FechaFin         *time.Time `json:"fecha_fin,omitempty"`
}

// Cierre is the accounting closure for one month.
type Cierre struct {
	ID              int     `json:"id"`
	Mes             int     `json:"mes"`
	Anio            int     `json:"anio"`
	IngresosTotales float64 `json:"ingresos_totales"`
	GastosTotales   float64 `json:"gastos_totales"`
	Balance         float64 `json:"balance"`
	Estado          string  `json:"estado"`
}

// Parcialidad is one installment toward the annual special assessment.
type Parcialidad struct {
	ID                 int     `json:"id"`
	Departamento       string  `json:"departamento"`
	UsuarioNombre      string  `json:"usuario_nombre"`
	NumeroParcialidad  int     `json:"numero_parcialidad"`
	MontoPagado        float64 `json:"monto_pagado"`
	Estado             string  `json:"estado"`
	ProgresoPorcentaje float64 `json:"progreso_porcentaje"`
}

// ResumenDashboard aggregates the landing-page numbers.
type ResumenDashboard struct {
	CuotasPendientes int     `json:"cuotas_pendientes"`
	GastosDelMes     float64 `json:"gastos_del_mes"`
	SaldoFondos      float64 `json:"saldo_fondos"`
	AnunciosActivos  int     `json:"anuncios_activos"`
}

// LoginRequest carries the credentials posted to /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is the payload returned by login and token renewal.
type AuthResponse struct {
	OK      bool     `json:"ok"`
	Token   string   `json:"token"`
	Usuario *Usuario `json:"usuario"`
}
