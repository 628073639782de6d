package repository

import "github.com/tu-usuario/tienda-pro/internal/domain/entity"

// PurchaseRepository define el puerto de persistencia para Purchase (DIP).
//
// IncrementItemsCreated debe ser un update condicional: incrementa
// items_created solo si items_created < expected_qty, de lo contrario
// devuelve ErrLineFull. Así dos altas de artículo concurrentes contra la
// última vacante de una línea resultan en un éxito y un ErrLineFull.
type PurchaseRepository interface {
	Create(purchase *entity.Purchase) error
	CreateDetail(detail *entity.PurchaseDetail) error
	GetByID(id string) (*entity.Purchase, error)
	GetDetailByID(detailID string) (*entity.PurchaseDetail, error)
	GetDetails(purchaseID string) ([]*entity.PurchaseDetail, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Purchase, error)
	IncrementItemsCreated(detailID string) (*entity.PurchaseDetail, error)
	// HasCreatedItems indica si alguna línea del lote ya tiene artículos.
	HasCreatedItems(purchaseID string) (bool, error)
	DeleteDetails(purchaseID string) error
	Delete(id string) error
}
