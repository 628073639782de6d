package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pago derivados de una venta. Nunca se almacenan como campo
// editable: toda lectura los recalcula desde la suma de abonos.
const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
)

// Sale representa una venta finalizada contra uno o más artículos.
// Total es la suma de los subtotales de sus líneas, fijada en la creación.
// Solo muta por agregado/eliminación de abonos; es eliminable únicamente
// mientras no tenga abonos.
type Sale struct {
	ID          string
	CompanyID   string
	WarehouseID string
	LeadID      string // vacío si la venta no tiene cliente registrado
	Method      string // método de pago acordado
	Total       decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PaymentStatus deriva el estado de pago desde el total abonado.
// PAID solo cuando lo abonado iguala el total; el alta de abonos garantiza
// que nunca lo exceda.
func (s *Sale) PaymentStatus(paid decimal.Decimal) string {
	if paid.Equal(s.Total) {
		return PaymentStatusPaid
	}
	return PaymentStatusPending
}

// Outstanding devuelve el saldo pendiente. Por construcción nunca es
// negativo: el alta de abonos rechaza cualquier exceso.
func (s *Sale) Outstanding(paid decimal.Decimal) decimal.Decimal {
	return s.Total.Sub(paid)
}

// SaleDetail es una línea de venta. UnitPrice es una instantánea del precio
// del artículo al momento de la venta; cambios posteriores del artículo no
// alteran ventas históricas.
type SaleDetail struct {
	ID        string
	SaleID    string
	ItemID    string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal de la línea.
func (d *SaleDetail) Subtotal() decimal.Decimal {
	return d.UnitPrice.Mul(decimal.NewFromInt(int64(d.Quantity)))
}

// Payment representa un abono (pago parcial o total) contra una venta.
// Invariante: la suma de abonos de una venta nunca excede su total.
type Payment struct {
	ID        string
	SaleID    string
	Amount    decimal.Decimal
	Method    string
	Date      time.Time
	CreatedAt time.Time
}
