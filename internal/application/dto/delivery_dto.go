package dto

import "time"

// ScheduleDeliveryRequest agenda una entrega. SaleID y LeadID son
// excluyentes: con SaleID la venta debe estar pagada; con LeadID se trata de
// una entrega externa al libro de ventas.
type ScheduleDeliveryRequest struct {
	SaleID      string    `json:"sale_id"`
	LeadID      string    `json:"lead_id"`
	WarehouseID string    `json:"warehouse_id" validate:"required"`
	Kind        string    `json:"kind" validate:"required,oneof=HOME_DELIVERY STORE_PICKUP CARRIER_SHIPMENT"`
	Date        time.Time `json:"date" validate:"required"`
	Address     string    `json:"address"`
	Region      string    `json:"region"`
	Carrier     string    `json:"carrier"`
	Notes       string    `json:"notes"`
}

// DeliveryResponse entrega agendada.
type DeliveryResponse struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	WarehouseID string    `json:"warehouse_id"`
	SaleID      string    `json:"sale_id,omitempty"`
	LeadID      string    `json:"lead_id,omitempty"`
	Kind        string    `json:"kind"`
	Date        time.Time `json:"date"`
	Address     string    `json:"address,omitempty"`
	Region      string    `json:"region,omitempty"`
	Carrier     string    `json:"carrier,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// DeliveryListResponse lista paginada de entregas.
type DeliveryListResponse struct {
	Items []DeliveryResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
