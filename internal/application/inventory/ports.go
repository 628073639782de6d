package inventory

import (
	"context"

	"github.com/tu-usuario/tienda-pro/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando un
// repositorio de artículos atado a esa tx. Garantiza atomicidad para las
// operaciones de disponibilidad.
type TxRunner interface {
	Run(ctx context.Context, fn func(itemRepo repository.ItemRepository) error) error
}
