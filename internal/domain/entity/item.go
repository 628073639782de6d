package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de disponibilidad de un artículo.
// El stock es la fuente de verdad; el estado es una bandera gruesa:
// AVAILABLE implica stock > 0 y SOLD implica stock = 0. PENDING marca un
// artículo totalmente reservado a la espera de confirmación de venta.
const (
	ItemAvailable = "AVAILABLE"
	ItemPending   = "PENDING"
	ItemSold      = "SOLD"
)

// Item representa un artículo del inventario de una tienda.
// Price es nulo hasta que se asigne; se puede reservar sin precio pero no
// vender. Una vez referenciado por una venta nunca se elimina físicamente
// (solo se oculta con Hidden).
type Item struct {
	ID             string
	CompanyID      string
	WarehouseID    string
	Title          string
	Description    string
	Price          *decimal.Decimal
	Stock          int
	Status         string
	CategoryID     string // vacío si no tiene categoría
	PurchaseLineID string // vacío si no proviene de una línea de compra
	Size           string // talla o variante
	Hidden         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// StatusForStock deriva el estado a partir del stock resultante de una
// liberación o reversa: con unidades disponibles vuelve a AVAILABLE,
// sin unidades queda PENDING (reservado).
func StatusForStock(stock int) string {
	if stock > 0 {
		return ItemAvailable
	}
	return ItemPending
}
