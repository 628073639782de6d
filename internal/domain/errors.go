package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// El mapeo a códigos HTTP vive en la capa de interfaces.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// ErrScopeViolation indica que la entidad existe pero pertenece a otra
	// empresa o a una bodega fuera del alcance del usuario. Se registra para
	// auditoría y se responde al cliente como NOT_FOUND para no revelar la
	// existencia del recurso.
	ErrScopeViolation = errors.New("entidad fuera del alcance del usuario")

	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidAmount     = errors.New("monto inválido")
	ErrOverpayment       = errors.New("el abono excede el saldo de la venta")
	ErrHasPayments       = errors.New("la venta tiene abonos registrados")
	ErrAlreadyConverted  = errors.New("el cliente potencial ya fue convertido")
	ErrAlreadyScheduled  = errors.New("la venta ya tiene una entrega agendada")
	ErrLineFull          = errors.New("la línea de compra ya alcanzó la cantidad esperada")
	ErrInvalidState      = errors.New("transición de estado inválida")
)
