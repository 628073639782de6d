package repository

import "github.com/tu-usuario/tienda-pro/internal/domain/entity"

// LeadRepository define el puerto de persistencia para Lead (DIP).
// ListByCompany ordena del más reciente al más antiguo; con search no vacío
// la búsqueda es insensible a mayúsculas y acentos sobre nombre, apellido y
// dígitos del teléfono.
type LeadRepository interface {
	Create(lead *entity.Lead) error
	GetByID(id string) (*entity.Lead, error)
	GetForUpdate(id string) (*entity.Lead, error)
	ListByCompany(companyID, search string, limit, offset int) ([]*entity.Lead, error)
	Update(lead *entity.Lead) error
}
