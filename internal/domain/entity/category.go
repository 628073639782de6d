package entity

import "time"

// Category representa una categoría de artículos (por empresa).
type Category struct {
	ID        string
	CompanyID string
	Name      string
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
