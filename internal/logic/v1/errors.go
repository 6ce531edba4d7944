// Package v1 provides the condominium business logic for API version 1.
//
// Error Handling:
// This package defines sentinel errors that represent common business
// failures. These errors should be wrapped with context using
// fmt.Errorf("%w") when returned from business logic methods.
//
// Error Checking (in handlers):
//
//	switch {
//	case errors.Is(err, logicv1.ErrCredencialesInvalidas):
//	    c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "msg": "Credenciales incorrectas"})
//	case errors.Is(err, logicv1.ErrAdminProtegido):
//	    c.JSON(http.StatusForbidden, gin.H{"ok": false, "msg": "No se puede eliminar al administrador principal"})
//	default:
//	    c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "msg": "Error interno"})
//	}
package v1

import "errors"

// Sentinel errors for condominium operations.
// These errors should be wrapped with context using fmt.Errorf("%w") when returned.
var (
	// ErrCredencialesInvalidas indicates the provided credentials are incorrect.
	// HTTP Status: 401 Unauthorized
	ErrCredencialesInvalidas = errors.New("credenciales invalidas")

	// ErrUsuarioNoEncontrado indicates the user does not exist.
	// HTTP Status: 404 Not Found (401 on auth paths, to not reveal existence)
	ErrUsuarioNoEncontrado = errors.New("usuario no encontrado")

	// ErrUsuarioExiste indicates the email is already registered.
	// HTTP Status: 400 Bad Request
	ErrUsuarioExiste = errors.New("el email ya esta registrado")

	// ErrSesionNoEncontrada indicates the session token does not exist.
	// HTTP Status: 401 Unauthorized
	ErrSesionNoEncontrada = errors.New("sesion no encontrada")

	// ErrSesionExpirada indicates the session token has expired.
	// HTTP Status: 401 Unauthorized
	ErrSesionExpirada = errors.New("sesion expirada")

	// ErrAdminProtegido indicates an attempt to delete the primary
	// administrator account, which must always exist.
	// HTTP Status: 403 Forbidden
	ErrAdminProtegido = errors.New("el administrador principal no puede eliminarse")

	// ErrNoEncontrado indicates the requested entity does not exist.
	// HTTP Status: 404 Not Found
	ErrNoEncontrado = errors.New("no encontrado")

	// ErrSaldoInsuficiente indicates the source fondo cannot cover the
	// requested transfer.
	// HTTP Status: 400 Bad Request
	ErrSaldoInsuficiente = errors.New("saldo insuficiente en el fondo de origen")

	// ErrMontoInvalido indicates a zero or negative amount.
	// HTTP Status: 400 Bad Request
	ErrMontoInvalido = errors.New("el monto debe ser mayor a cero")

	// ErrCierreExiste indicates the month already has a closure.
	// HTTP Status: 409 Conflict
	ErrCierreExiste = errors.New("el periodo ya fue cerrado")

	// ErrCuotaPagada indicates a payment against an already settled cuota.
	// HTTP Status: 409 Conflict
	ErrCuotaPagada = errors.New("la cuota ya esta pagada")
)
