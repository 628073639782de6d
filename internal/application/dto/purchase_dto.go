package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLineRequest línea esperada del lote de compra.
type PurchaseLineRequest struct {
	CategoryID  string          `json:"category_id" validate:"required"`
	ExpectedQty int             `json:"expected_qty" validate:"min=1"`
	UnitCost    decimal.Decimal `json:"unit_cost" validate:"required"`
}

// CreatePurchaseRequest entrada para registrar un lote de compra.
type CreatePurchaseRequest struct {
	SupplierID string                `json:"supplier_id" validate:"required"`
	Code       string                `json:"code" validate:"required"`
	Method     string                `json:"method"`
	Notes      string                `json:"notes"`
	Lines      []PurchaseLineRequest `json:"lines" validate:"required,min=1"`
}

// PurchaseLineResponse línea con avance de creación de artículos.
type PurchaseLineResponse struct {
	ID           string          `json:"id"`
	CategoryID   string          `json:"category_id"`
	ExpectedQty  int             `json:"expected_qty"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	ItemsCreated int             `json:"items_created"`
}

// PurchaseResponse lote con estado derivado del avance de sus líneas.
type PurchaseResponse struct {
	ID         string                 `json:"id"`
	CompanyID  string                 `json:"company_id"`
	SupplierID string                 `json:"supplier_id"`
	Code       string                 `json:"code"`
	Method     string                 `json:"method,omitempty"`
	Total      decimal.Decimal        `json:"total"`
	Status     string                 `json:"status"`
	Notes      string                 `json:"notes,omitempty"`
	Lines      []PurchaseLineResponse `json:"lines,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// PurchaseListResponse lista paginada de lotes.
type PurchaseListResponse struct {
	Items []PurchaseResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
