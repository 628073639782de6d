// Package identity define la identidad resuelta que toda operación del núcleo
// recibe como primer argumento. Reemplaza cualquier estado global de sesión:
// los casos de uso no consultan el request, reciben este valor.
package identity

import "github.com/tu-usuario/tienda-pro/internal/domain"

// Identity identifica al actor: usuario, empresa (tenant), rol y bodegas
// permitidas. Para el rol admin la lista de bodegas se ignora (acceso total
// dentro de su empresa).
type Identity struct {
	UserID       string
	CompanyID    string
	Role         string // admin, bodeguero, vendedor
	WarehouseIDs []string
}

// CheckCompany verifica que la entidad pertenezca a la empresa del actor.
func (id Identity) CheckCompany(companyID string) error {
	if companyID == "" || companyID != id.CompanyID {
		return domain.ErrScopeViolation
	}
	return nil
}

// CheckWarehouse verifica empresa y, para roles no admin, que la bodega esté
// dentro del conjunto permitido del actor.
func (id Identity) CheckWarehouse(companyID, warehouseID string) error {
	if err := id.CheckCompany(companyID); err != nil {
		return err
	}
	if !id.CanWarehouse(warehouseID) {
		return domain.ErrScopeViolation
	}
	return nil
}

// CanWarehouse indica si el actor puede operar sobre la bodega.
// Un actor no admin sin bodegas asignadas no puede operar sobre ninguna.
func (id Identity) CanWarehouse(warehouseID string) bool {
	if id.Role == "admin" {
		return true
	}
	for _, w := range id.WarehouseIDs {
		if w == warehouseID {
			return true
		}
	}
	return false
}
