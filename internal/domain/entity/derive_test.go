package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/tienda-pro/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Estado de pago de una venta: derivado de la suma de abonos, nunca almacenado.
// ──────────────────────────────────────────────────────────────────────────────

func TestSale_PaymentStatus_SinAbonosEsPending(t *testing.T) {
	s := &entity.Sale{Total: decimal.NewFromInt(90)}
	assert.Equal(t, entity.PaymentStatusPending, s.PaymentStatus(decimal.Zero),
		"sin abonos la venta debe quedar PENDING")
}

func TestSale_PaymentStatus_AbonoParcialEsPending(t *testing.T) {
	s := &entity.Sale{Total: decimal.NewFromInt(90)}
	assert.Equal(t, entity.PaymentStatusPending, s.PaymentStatus(decimal.NewFromInt(30)),
		"con abono parcial la venta sigue PENDING")
}

func TestSale_PaymentStatus_TotalAbonadoEsPaid(t *testing.T) {
	s := &entity.Sale{Total: decimal.NewFromInt(90)}
	assert.Equal(t, entity.PaymentStatusPaid, s.PaymentStatus(decimal.NewFromInt(90)),
		"abonado = total debe derivar PAID")
}

func TestSale_Outstanding(t *testing.T) {
	s := &entity.Sale{Total: decimal.NewFromInt(90)}
	assert.True(t, s.Outstanding(decimal.NewFromInt(30)).Equal(decimal.NewFromInt(60)),
		"el saldo pendiente debe ser total menos abonado")
	assert.True(t, s.Outstanding(decimal.NewFromInt(90)).IsZero(),
		"venta pagada debe tener saldo cero")
}

func TestSaleDetail_Subtotal(t *testing.T) {
	d := &entity.SaleDetail{Quantity: 2, UnitPrice: decimal.NewFromInt(20)}
	assert.True(t, d.Subtotal().Equal(decimal.NewFromInt(40)),
		"subtotal = cantidad x precio unitario")
}

// ──────────────────────────────────────────────────────────────────────────────
// Estado de un lote de compra: derivado del avance de sus líneas.
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseStatus_SinAvanceEsPending(t *testing.T) {
	details := []*entity.PurchaseDetail{
		{ExpectedQty: 3, ItemsCreated: 0},
		{ExpectedQty: 2, ItemsCreated: 0},
	}
	assert.Equal(t, entity.PurchasePending, entity.PurchaseStatus(details))
}

func TestPurchaseStatus_AvanceParcialEsProcessing(t *testing.T) {
	details := []*entity.PurchaseDetail{
		{ExpectedQty: 3, ItemsCreated: 1},
		{ExpectedQty: 2, ItemsCreated: 0},
	}
	assert.Equal(t, entity.PurchaseProcessing, entity.PurchaseStatus(details),
		"cualquier línea con avance parcial deriva PROCESSING")
}

func TestPurchaseStatus_TodasLasLineasCompletasEsCompleted(t *testing.T) {
	details := []*entity.PurchaseDetail{
		{ExpectedQty: 3, ItemsCreated: 3},
		{ExpectedQty: 2, ItemsCreated: 2},
	}
	assert.Equal(t, entity.PurchaseCompleted, entity.PurchaseStatus(details))
}

func TestPurchaseStatus_UnaLineaIncompletaNoEsCompleted(t *testing.T) {
	details := []*entity.PurchaseDetail{
		{ExpectedQty: 3, ItemsCreated: 3},
		{ExpectedQty: 2, ItemsCreated: 1},
	}
	assert.Equal(t, entity.PurchaseProcessing, entity.PurchaseStatus(details),
		"el lote no está COMPLETED hasta que toda línea alcance su cantidad esperada")
}

func TestPurchaseStatus_SinLineasEsPending(t *testing.T) {
	assert.Equal(t, entity.PurchasePending, entity.PurchaseStatus(nil))
}

func TestPurchaseDetail_Subtotal(t *testing.T) {
	d := &entity.PurchaseDetail{ExpectedQty: 4, UnitCost: decimal.NewFromInt(25)}
	assert.True(t, d.Subtotal().Equal(decimal.NewFromInt(100)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Estado derivado del stock tras una reposición.
// ──────────────────────────────────────────────────────────────────────────────

func TestStatusForStock(t *testing.T) {
	assert.Equal(t, entity.ItemAvailable, entity.StatusForStock(1),
		"con unidades el artículo vuelve a AVAILABLE")
	assert.Equal(t, entity.ItemPending, entity.StatusForStock(0),
		"sin unidades el artículo queda PENDING")
}
