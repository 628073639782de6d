package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tienda-pro/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para Sale y sus líneas (DIP).
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateDetail(detail *entity.SaleDetail) error
	GetByID(id string) (*entity.Sale, error)
	GetForUpdate(id string) (*entity.Sale, error)
	GetDetails(saleID string) ([]*entity.SaleDetail, error)
	// ListByCompany lista las ventas de la empresa; con warehouseIDs no vacío
	// restringe a esas bodegas.
	ListByCompany(companyID string, warehouseIDs []string, limit, offset int) ([]*entity.Sale, error)
	DeleteDetails(saleID string) error
	Delete(id string) error
}

// PaymentRepository define el puerto de persistencia para Payment (DIP).
// SumBySale es la fuente del estado de pago derivado: nunca se materializa
// un acumulado aparte que pueda divergir.
type PaymentRepository interface {
	Create(payment *entity.Payment) error
	GetByID(id string) (*entity.Payment, error)
	ListBySale(saleID string) ([]*entity.Payment, error)
	SumBySale(saleID string) (decimal.Decimal, error)
	CountBySale(saleID string) (int, error)
	Delete(id string) error
}
