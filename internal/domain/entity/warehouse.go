package entity

import "time"

// Warehouse representa una bodega o sucursal donde residen los artículos.
// Un usuario no admin puede estar restringido a un subconjunto de bodegas.
type Warehouse struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
