package entity

import "time"

// Supplier representa un proveedor de lotes de compra.
type Supplier struct {
	ID        string
	CompanyID string
	Name      string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
