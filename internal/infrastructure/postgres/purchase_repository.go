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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `id, company_id, supplier_id, code, method, total, notes, created_at, updated_at`
const purchaseDetailColumns = `id, purchase_id, category_id, expected_qty, unit_cost, items_created`

// PurchaseRepo implementación del puerto PurchaseRepository sobre PostgreSQL (usable con pool o tx).
// El estado del lote nunca se almacena: se deriva de sus líneas en lectura.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador de persistencia para lotes de compra. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste un lote de compra.
func (r *PurchaseRepo) Create(purchase *entity.Purchase) error {
	query := `
		INSERT INTO purchases (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		purchase.ID, purchase.CompanyID, purchase.SupplierID, purchase.Code,
		purchase.Method, purchase.Total, purchase.Notes, purchase.CreatedAt, purchase.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// CreateDetail persiste una línea del lote.
func (r *PurchaseRepo) CreateDetail(detail *entity.PurchaseDetail) error {
	query := `
		INSERT INTO purchase_details (` + purchaseDetailColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		detail.ID, detail.PurchaseID, detail.CategoryID, detail.ExpectedQty,
		detail.UnitCost, detail.ItemsCreated,
	)
	if err != nil {
		return fmt.Errorf("insert purchase detail: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`
	var p entity.Purchase
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.CompanyID, &p.SupplierID, &p.Code, &p.Method, &p.Total,
		&p.Notes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return &p, nil
}

// GetDetailByID obtiene una línea por ID.
func (r *PurchaseRepo) GetDetailByID(detailID string) (*entity.PurchaseDetail, error) {
	query := `SELECT ` + purchaseDetailColumns + ` FROM purchase_details WHERE id = $1`
	d, err := scanPurchaseDetail(r.q.QueryRow(context.Background(), query, detailID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase detail: %w", err)
	}
	return d, nil
}

// GetDetails obtiene las líneas de un lote.
func (r *PurchaseRepo) GetDetails(purchaseID string) ([]*entity.PurchaseDetail, error) {
	query := `SELECT ` + purchaseDetailColumns + ` FROM purchase_details WHERE purchase_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("get purchase details: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseDetail
	for rows.Next() {
		d, err := scanPurchaseDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase detail: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// ListByCompany lista lotes por empresa, más recientes primero.
func (r *PurchaseRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Purchase, error) {
	query := `
		SELECT ` + purchaseColumns + `
		FROM purchases WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		var p entity.Purchase
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.SupplierID, &p.Code, &p.Method,
			&p.Total, &p.Notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// IncrementItemsCreated incremento condicional: solo procede mientras la
// línea tenga vacantes. Dos altas concurrentes contra la última vacante
// resultan en un éxito y un ErrLineFull.
func (r *PurchaseRepo) IncrementItemsCreated(detailID string) (*entity.PurchaseDetail, error) {
	query := `
		UPDATE purchase_details
		SET items_created = items_created + 1
		WHERE id = $1 AND items_created < expected_qty
		RETURNING ` + purchaseDetailColumns
	d, err := scanPurchaseDetail(r.q.QueryRow(context.Background(), query, detailID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLineFull
		}
		return nil, fmt.Errorf("increment items created: %w", err)
	}
	return d, nil
}

// HasCreatedItems indica si alguna línea del lote ya tiene artículos creados.
func (r *PurchaseRepo) HasCreatedItems(purchaseID string) (bool, error) {
	var has bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM purchase_details WHERE purchase_id = $1 AND items_created > 0)`,
		purchaseID,
	).Scan(&has)
	if err != nil {
		return false, fmt.Errorf("has created items: %w", err)
	}
	return has, nil
}

// DeleteDetails elimina las líneas de un lote.
func (r *PurchaseRepo) DeleteDetails(purchaseID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM purchase_details WHERE purchase_id = $1`, purchaseID)
	if err != nil {
		return fmt.Errorf("delete purchase details: %w", err)
	}
	return nil
}

// Delete elimina un lote por ID.
func (r *PurchaseRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	return nil
}

func scanPurchaseDetail(row pgx.Row) (*entity.PurchaseDetail, error) {
	var d entity.PurchaseDetail
	err := row.Scan(&d.ID, &d.PurchaseID, &d.CategoryID, &d.ExpectedQty, &d.UnitCost, &d.ItemsCreated)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
