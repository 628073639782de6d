package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lote de compra, derivados del avance de sus líneas.
const (
	PurchasePending    = "PENDING"
	PurchaseProcessing = "PROCESSING"
	PurchaseCompleted  = "COMPLETED"
)

// Purchase representa un lote de compra a proveedor: declara el desglose
// esperado por categoría y rastrea cuántos artículos concretos se han creado
// contra cada línea. Las líneas nunca se eliminan una vez referenciadas.
type Purchase struct {
	ID         string
	CompanyID  string
	SupplierID string
	Code       string
	Method     string // método de pago al proveedor
	Total      decimal.Decimal
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PurchaseDetail es una línea del lote: cantidad esperada por categoría y
// contador de artículos creados. Invariante: ItemsCreated <= ExpectedQty.
type PurchaseDetail struct {
	ID           string
	PurchaseID   string
	CategoryID   string
	ExpectedQty  int
	UnitCost     decimal.Decimal
	ItemsCreated int
}

// Subtotal esperado de la línea.
func (d *PurchaseDetail) Subtotal() decimal.Decimal {
	return d.UnitCost.Mul(decimal.NewFromInt(int64(d.ExpectedQty)))
}

// PurchaseStatus deriva el estado del lote desde sus líneas:
// COMPLETED cuando toda línea alcanzó su cantidad esperada, PROCESSING si
// alguna línea tiene avance parcial, PENDING en otro caso.
func PurchaseStatus(details []*PurchaseDetail) string {
	if len(details) == 0 {
		return PurchasePending
	}
	complete := true
	started := false
	for _, d := range details {
		if d.ItemsCreated < d.ExpectedQty {
			complete = false
		}
		if d.ItemsCreated > 0 {
			started = true
		}
	}
	switch {
	case complete:
		return PurchaseCompleted
	case started:
		return PurchaseProcessing
	default:
		return PurchasePending
	}
}
