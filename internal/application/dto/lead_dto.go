package dto

import "time"

// CreateLeadRequest entrada para capturar un cliente potencial.
type CreateLeadRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone" validate:"required"`
}

// ListLeadsRequest listado con búsqueda opcional.
type ListLeadsRequest struct {
	Search string `query:"search"`
	PageRequest
}

// LeadResponse salida de un cliente potencial.
type LeadResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Status    string    `json:"status"`
	SaleID    string    `json:"sale_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LeadListResponse lista paginada de clientes potenciales.
type LeadListResponse struct {
	Items []LeadResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
