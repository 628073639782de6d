package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/tienda-pro/internal/domain"
	"github.com/tu-usuario/tienda-pro/internal/domain/entity"
	"github.com/tu-usuario/tienda-pro/internal/domain/repository"
)

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)

const deliveryColumns = `id, company_id, warehouse_id, sale_id, lead_id, kind, date, address, region, carrier, notes, status, created_at, updated_at`

// DeliveryRepo implementación del puerto DeliveryRepository sobre PostgreSQL (usable con pool o tx).
// sale_id y lead_id son columnas anulables: cada entrega tiene exactamente un
// origen. Un índice único parcial sobre sale_id (WHERE sale_id IS NOT NULL)
// respalda la regla de una entrega por venta sin que las entregas externas
// (por cliente) colisionen entre sí.
type DeliveryRepo struct {
	q Querier
}

// NewDeliveryRepository construye el adaptador de persistencia para entregas. Pasar pool o tx (Querier).
func NewDeliveryRepository(q Querier) *DeliveryRepo {
	return &DeliveryRepo{q: q}
}

// Create persiste una entrega agendada.
func (r *DeliveryRepo) Create(delivery *entity.Delivery) error {
	query := `
		INSERT INTO deliveries (` + deliveryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		delivery.ID, delivery.CompanyID, delivery.WarehouseID, nullIfEmpty(delivery.SaleID),
		nullIfEmpty(delivery.LeadID), delivery.Kind, delivery.Date, delivery.Address,
		delivery.Region, delivery.Carrier, delivery.Notes, delivery.Status,
		delivery.CreatedAt, delivery.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyScheduled
		}
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// GetByID obtiene una entrega por ID.
func (r *DeliveryRepo) GetByID(id string) (*entity.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get delivery")
}

// GetForUpdate obtiene una entrega bloqueando su fila hasta el fin de la tx.
func (r *DeliveryRepo) GetForUpdate(id string) (*entity.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get delivery for update")
}

// GetBySale devuelve la entrega de la venta o nil si no existe.
func (r *DeliveryRepo) GetBySale(saleID string) (*entity.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE sale_id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, saleID), "get delivery by sale")
}

// ListByCompany lista entregas por empresa ordenadas por fecha de entrega.
// Con warehouseIDs no vacío restringe a esas bodegas.
func (r *DeliveryRepo) ListByCompany(companyID string, warehouseIDs []string, limit, offset int) ([]*entity.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE company_id = $1`
	args := []any{companyID}
	if len(warehouseIDs) > 0 {
		args = append(args, warehouseIDs)
		query += fmt.Sprintf(" AND warehouse_id = ANY($%d)", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY date LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()
	var list []*entity.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// UpdateStatus avanza el estado de una entrega.
func (r *DeliveryRepo) UpdateStatus(id, status string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE deliveries SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("update delivery status: %w", err)
	}
	return nil
}

// DeleteBySale elimina la entrega de una venta (al eliminar la venta).
func (r *DeliveryRepo) DeleteBySale(saleID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM deliveries WHERE sale_id = $1`, saleID)
	if err != nil {
		return fmt.Errorf("delete delivery by sale: %w", err)
	}
	return nil
}

func (r *DeliveryRepo) scanOne(row pgx.Row, op string) (*entity.Delivery, error) {
	d, err := scanDelivery(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return d, nil
}

func scanDelivery(row pgx.Row) (*entity.Delivery, error) {
	var d entity.Delivery
	var saleID, leadID *string
	err := row.Scan(
		&d.ID, &d.CompanyID, &d.WarehouseID, &saleID, &leadID, &d.Kind,
		&d.Date, &d.Address, &d.Region, &d.Carrier, &d.Notes, &d.Status,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if saleID != nil {
		d.SaleID = *saleID
	}
	if leadID != nil {
		d.LeadID = *leadID
	}
	return &d, nil
}
