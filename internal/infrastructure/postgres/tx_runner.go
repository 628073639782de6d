package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/tienda-pro/internal/application/deliveries"
	"github.com/tu-usuario/tienda-pro/internal/application/inventory"
	"github.com/tu-usuario/tienda-pro/internal/application/leads"
	"github.com/tu-usuario/tienda-pro/internal/application/purchases"
	"github.com/tu-usuario/tienda-pro/internal/application/sales"
	"github.com/tu-usuario/tienda-pro/internal/domain/repository"
)

// Un único runner satisface los puertos transaccionales de todos los flujos.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ sales.TxRunner = (*TxRunner)(nil)
var _ purchases.TxRunner = (*TxRunner)(nil)
var _ deliveries.TxRunner = (*TxRunner)(nil)
var _ leads.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Run inicia una transacción con el repo de artículos atado a la tx.
func (r *TxRunner) Run(ctx context.Context, fn func(itemRepo repository.ItemRepository) error) error {
	return r.inTx(ctx, func(tx Querier) error {
		return fn(NewItemRepository(tx))
	})
}

// RunSale inicia una transacción con los repos del checkout y el libro de ventas.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
	leadRepo repository.LeadRepository,
	deliveryRepo repository.DeliveryRepository,
) error) error {
	return r.inTx(ctx, func(tx Querier) error {
		return fn(
			NewItemRepository(tx),
			NewSaleRepository(tx),
			NewPaymentRepository(tx),
			NewLeadRepository(tx),
			NewDeliveryRepository(tx),
		)
	})
}

// RunPurchase inicia una transacción con los repos de lotes de compra y artículos.
func (r *TxRunner) RunPurchase(ctx context.Context, fn func(
	purchaseRepo repository.PurchaseRepository,
	itemRepo repository.ItemRepository,
) error) error {
	return r.inTx(ctx, func(tx Querier) error {
		return fn(NewPurchaseRepository(tx), NewItemRepository(tx))
	})
}

// RunDelivery inicia una transacción con los repos del agendamiento de entregas.
func (r *TxRunner) RunDelivery(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
	leadRepo repository.LeadRepository,
	deliveryRepo repository.DeliveryRepository,
) error) error {
	return r.inTx(ctx, func(tx Querier) error {
		return fn(
			NewSaleRepository(tx),
			NewPaymentRepository(tx),
			NewLeadRepository(tx),
			NewDeliveryRepository(tx),
		)
	})
}

// RunLead inicia una transacción con los repos de clientes y ventas.
func (r *TxRunner) RunLead(ctx context.Context, fn func(
	leadRepo repository.LeadRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return r.inTx(ctx, func(tx Querier) error {
		return fn(NewLeadRepository(tx), NewSaleRepository(tx))
	})
}
