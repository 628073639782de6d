package entity

import "time"

// Company representa una tienda/tenant del sistema (multi-tenant).
// Nunca se elimina físicamente; se desactiva con Status.
type Company struct {
	ID        string
	Name      string
	Phone     string // canal de contacto (WhatsApp)
	LogoURL   string
	Slogan    string
	Address   string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
