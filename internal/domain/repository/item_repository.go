package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tienda-pro/internal/domain/entity"
)

// ItemFilter filtros para listar artículos.
type ItemFilter struct {
	Status      string
	CategoryID  string
	WarehouseID string
	// WarehouseIDs restringe el listado a las bodegas permitidas del actor
	// (roles no admin); vacío = sin restricción.
	WarehouseIDs []string
	Search       string // coincidencia sobre título y descripción
	Limit        int
	Offset       int
}

// ItemRepository define el puerto de persistencia para Item (DIP).
//
// Reserve es la única vía de decremento de stock por reserva y debe ser un
// update condicional (decrementa solo si hay stock suficiente): dos reservas
// concurrentes que sumen más que el stock disponible resultan en exactamente
// un éxito y un ErrInsufficientStock, nunca en sobreventa.
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetForUpdate(id string) (*entity.Item, error)
	List(companyID string, f ItemFilter) ([]*entity.Item, error)
	Update(item *entity.Item) error

	// Reserve decrementa stock en qty si status=AVAILABLE y stock>=qty;
	// si el stock llega a 0 el estado pasa a PENDING. Devuelve el artículo
	// resultante o ErrInsufficientStock.
	Reserve(id string, qty int) (*entity.Item, error)
	// MarkSold fija SOLD sobre un artículo PENDING con stock 0.
	MarkSold(id string) error
	// Release repone qty unidades (reversa manual o eliminación de venta) y
	// recalcula el estado desde el stock resultante.
	Release(id string, qty int) (*entity.Item, error)
	// UpdatePrice cambia el precio de venta; falla sobre artículos SOLD.
	UpdatePrice(id string, price decimal.Decimal) error
	// UpdateStock fija el stock y recalcula estado; falla sobre artículos SOLD.
	UpdateStock(id string, stock int) error
	SetHidden(id string, hidden bool) error
}
