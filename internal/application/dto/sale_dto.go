package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de una venta: artículo y cantidad. El precio unitario
// se toma como instantánea del artículo al momento de la venta.
type SaleLineRequest struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=1"`
}

// CreateSaleRequest entrada de reserveAndCheckout: reserva los artículos y
// crea la venta en una sola transacción. LeadID y LeadInfo son excluyentes;
// LeadInfo captura un cliente nuevo en la misma operación.
type CreateSaleRequest struct {
	WarehouseID    string             `json:"warehouse_id" validate:"required"`
	Lines          []SaleLineRequest  `json:"lines" validate:"required,min=1"`
	LeadID         string             `json:"lead_id"`
	LeadInfo       *CreateLeadRequest `json:"lead_info"`
	Method         string             `json:"method" validate:"required"`
	InitialPayment *decimal.Decimal   `json:"initial_payment"`
}

// AddPaymentRequest alta de abono contra una venta.
type AddPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Method string          `json:"method" validate:"required"`
}

// SaleDetailResponse línea de venta.
type SaleDetailResponse struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PaymentResponse abono registrado.
type PaymentResponse struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
	Date   time.Time       `json:"date"`
}

// SaleResponse venta con estado de pago derivado de sus abonos.
type SaleResponse struct {
	ID            string               `json:"id"`
	CompanyID     string               `json:"company_id"`
	WarehouseID   string               `json:"warehouse_id"`
	LeadID        string               `json:"lead_id,omitempty"`
	Method        string               `json:"method"`
	Total         decimal.Decimal      `json:"total"`
	Paid          decimal.Decimal      `json:"paid"`
	Outstanding   decimal.Decimal      `json:"outstanding"`
	PaymentStatus string               `json:"payment_status"`
	Details       []SaleDetailResponse `json:"details,omitempty"`
	Payments      []PaymentResponse    `json:"payments,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
