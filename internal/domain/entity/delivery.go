package entity

import "time"

// Tipos de entrega.
const (
	DeliveryHome    = "HOME_DELIVERY"
	DeliveryPickup  = "STORE_PICKUP"
	DeliveryCarrier = "CARRIER_SHIPMENT"
)

// Estados de una entrega. La máquina solo avanza:
// SCHEDULED → IN_TRANSIT → DELIVERED, sin reversas.
const (
	DeliveryScheduled = "SCHEDULED"
	DeliveryInTransit = "IN_TRANSIT"
	DeliveryDelivered = "DELIVERED"
)

// Delivery representa una entrega agendada. Puede estar atada a una venta
// (máximo una entrega por venta, solo con la venta pagada) o solo a un
// cliente potencial para entregas externas al libro de ventas.
type Delivery struct {
	ID          string
	CompanyID   string
	WarehouseID string
	SaleID      string // vacío en entregas externas
	LeadID      string // vacío si la entrega viene de una venta sin cliente
	Kind        string
	Date        time.Time
	Address     string // requerido para HOME_DELIVERY y CARRIER_SHIPMENT
	Region      string // destino, requerido para CARRIER_SHIPMENT
	Carrier     string // transportadora, requerido para CARRIER_SHIPMENT
	Notes       string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
