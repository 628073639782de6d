package repository

import "github.com/tu-usuario/tienda-pro/internal/domain/entity"

// DeliveryRepository define el puerto de persistencia para Delivery (DIP).
type DeliveryRepository interface {
	Create(delivery *entity.Delivery) error
	GetByID(id string) (*entity.Delivery, error)
	GetForUpdate(id string) (*entity.Delivery, error)
	// GetBySale devuelve la entrega de la venta o nil si no existe.
	GetBySale(saleID string) (*entity.Delivery, error)
	// ListByCompany lista las entregas de la empresa; con warehouseIDs no
	// vacío restringe a esas bodegas.
	ListByCompany(companyID string, warehouseIDs []string, limit, offset int) ([]*entity.Delivery, error)
	UpdateStatus(id, status string) error
	DeleteBySale(saleID string) error
}
