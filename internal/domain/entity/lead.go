package entity

import "time"

// Estados de un cliente potencial.
const (
	LeadPending   = "PENDING"
	LeadConverted = "CONVERTED"
)

// Lead representa un cliente potencial capturado en el checkout público o por
// el personal. Transiciona PENDING→CONVERTED exactamente una vez, al quedar
// vinculado a su primera venta; compras posteriores referencian al mismo
// cliente sin reconvertirlo.
type Lead struct {
	ID        string
	CompanyID string
	FirstName string
	LastName  string
	Phone     string
	Status    string
	SaleID    string // venta de la conversión; vacío mientras está PENDING
	CreatedAt time.Time
	UpdatedAt time.Time
}
