package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un artículo directo (sin lote).
type CreateItemRequest struct {
	WarehouseID string           `json:"warehouse_id" validate:"required"`
	Title       string           `json:"title" validate:"required,min=1,max=200"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       int              `json:"stock" validate:"min=1"`
	CategoryID  string           `json:"category_id"`
	Size        string           `json:"size"`
}

// ItemPayload datos del artículo creado contra una línea de compra.
// La bodega destino y la categoría de la línea se resuelven en el caso de uso.
type ItemPayload struct {
	WarehouseID string           `json:"warehouse_id" validate:"required"`
	Title       string           `json:"title" validate:"required,min=1,max=200"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       int              `json:"stock" validate:"min=1"`
	Size        string           `json:"size"`
}

// UpdateItemPriceRequest cambio de precio de venta.
type UpdateItemPriceRequest struct {
	Price decimal.Decimal `json:"price" validate:"required"`
}

// UpdateItemStockRequest cambio directo de stock (corrección de staff).
type UpdateItemStockRequest struct {
	Stock int `json:"stock" validate:"min=0"`
}

// ReserveItemRequest reserva de unidades desde el checkout público.
type ReserveItemRequest struct {
	Quantity int `json:"quantity" validate:"min=1"`
}

// ReleaseItemRequest reversa manual: repone unidades al stock.
type ReleaseItemRequest struct {
	Quantity int `json:"quantity" validate:"min=1"`
}

// ListItemsRequest filtros de listado.
type ListItemsRequest struct {
	Status      string `query:"status" validate:"omitempty,oneof=AVAILABLE PENDING SOLD"`
	CategoryID  string `query:"category_id"`
	WarehouseID string `query:"warehouse_id"`
	Search      string `query:"search"`
	PageRequest
}

// ItemResponse salida de un artículo.
type ItemResponse struct {
	ID             string           `json:"id"`
	CompanyID      string           `json:"company_id"`
	WarehouseID    string           `json:"warehouse_id"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Price          *decimal.Decimal `json:"price"`
	Stock          int              `json:"stock"`
	Status         string           `json:"status"`
	CategoryID     string           `json:"category_id,omitempty"`
	PurchaseLineID string           `json:"purchase_line_id,omitempty"`
	Size           string           `json:"size,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ItemListResponse lista paginada de artículos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
