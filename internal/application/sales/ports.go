package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tienda-pro/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Cada operación del libro de ventas corre
// completa en una sola transacción: reserva, venta, abonos y conversión del
// cliente confirman o se revierten juntos.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		saleRepo repository.SaleRepository,
		paymentRepo repository.PaymentRepository,
		leadRepo repository.LeadRepository,
		deliveryRepo repository.DeliveryRepository,
	) error) error
}

// ReceiptLine línea del comprobante de venta.
type ReceiptLine struct {
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// ReceiptData datos para generar el comprobante de una venta.
type ReceiptData struct {
	SaleID        string
	CompanyName   string
	CustomerName  string
	Date          time.Time
	Lines         []ReceiptLine
	Total         decimal.Decimal
	Paid          decimal.Decimal
	Outstanding   decimal.Decimal
	PaymentStatus string
}

// ReceiptGenerator genera el comprobante PDF de una venta.
type ReceiptGenerator interface {
	Generate(data ReceiptData) ([]byte, error)
}
