package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tienda-pro/internal/domain"
	"github.com/tu-usuario/tienda-pro/internal/domain/entity"
	"github.com/tu-usuario/tienda-pro/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, company_id, warehouse_id, title, description, price, stock, status, category_id, purchase_line_id, size, hidden, created_at, updated_at`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
// Las transiciones de estado son updates condicionales: la fila solo cambia si
// la precondición se cumple en la BD, nunca en memoria.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para artículos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un nuevo artículo.
func (r *ItemRepo) Create(item *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.CompanyID, item.WarehouseID, item.Title, item.Description,
		item.Price, item.Stock, item.Status, item.CategoryID, item.PurchaseLineID,
		item.Size, item.Hidden, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get item")
}

// GetForUpdate obtiene un artículo bloqueando su fila hasta el fin de la tx.
func (r *ItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get item for update")
}

// List lista artículos de la empresa con filtros y paginación.
func (r *ItemRepo) List(companyID string, f repository.ItemFilter) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE company_id = $1 AND NOT hidden`
	args := []any{companyID}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if f.WarehouseID != "" {
		args = append(args, f.WarehouseID)
		query += fmt.Sprintf(" AND warehouse_id = $%d", len(args))
	} else if len(f.WarehouseIDs) > 0 {
		args = append(args, f.WarehouseIDs)
		query += fmt.Sprintf(" AND warehouse_id = ANY($%d)", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		query += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// Update actualiza los campos editables del artículo. Estado y stock se
// manejan por las operaciones condicionales, no por aquí.
func (r *ItemRepo) Update(item *entity.Item) error {
	query := `
		UPDATE items SET title = $2, description = $3, category_id = $4, size = $5, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Title, item.Description, item.CategoryID, item.Size,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// Reserve decremento condicional: solo procede con el artículo AVAILABLE y
// stock suficiente. Dos reservas concurrentes que excedan el stock resultan
// en exactamente un éxito.
func (r *ItemRepo) Reserve(id string, qty int) (*entity.Item, error) {
	query := `
		UPDATE items
		SET stock = stock - $2,
		    status = CASE WHEN stock - $2 = 0 THEN 'PENDING' ELSE status END,
		    updated_at = now()
		WHERE id = $1 AND status = 'AVAILABLE' AND stock >= $2
		RETURNING ` + itemColumns
	item, err := r.scanOne(r.q.QueryRow(context.Background(), query, id, qty), "reserve item")
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrInsufficientStock
	}
	return item, nil
}

// MarkSold fija SOLD sobre un artículo totalmente reservado.
func (r *ItemRepo) MarkSold(id string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE items SET status = 'SOLD', updated_at = now() WHERE id = $1 AND status = 'PENDING' AND stock = 0`,
		id,
	)
	if err != nil {
		return fmt.Errorf("mark item sold: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

// Release repone qty unidades y recalcula el estado desde el stock resultante.
func (r *ItemRepo) Release(id string, qty int) (*entity.Item, error) {
	query := `
		UPDATE items
		SET stock = stock + $2,
		    status = CASE WHEN stock + $2 > 0 THEN 'AVAILABLE' ELSE 'PENDING' END,
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + itemColumns
	item, err := r.scanOne(r.q.QueryRow(context.Background(), query, id, qty), "release item")
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// UpdatePrice cambia el precio; los artículos SOLD son historia inmutable.
func (r *ItemRepo) UpdatePrice(id string, price decimal.Decimal) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE items SET price = $2, updated_at = now() WHERE id = $1 AND status <> 'SOLD'`,
		id, price,
	)
	if err != nil {
		return fmt.Errorf("update item price: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

// UpdateStock fija el stock (corrección de staff) y recalcula el estado.
func (r *ItemRepo) UpdateStock(id string, stock int) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE items
		 SET stock = $2,
		     status = CASE WHEN $2 > 0 THEN 'AVAILABLE' ELSE 'PENDING' END,
		     updated_at = now()
		 WHERE id = $1 AND status <> 'SOLD'`,
		id, stock,
	)
	if err != nil {
		return fmt.Errorf("update item stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

// SetHidden oculta o muestra un artículo sin eliminarlo.
func (r *ItemRepo) SetHidden(id string, hidden bool) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE items SET hidden = $2, updated_at = now() WHERE id = $1`,
		id, hidden,
	)
	if err != nil {
		return fmt.Errorf("set item hidden: %w", err)
	}
	return nil
}

func (r *ItemRepo) scanOne(row pgx.Row, op string) (*entity.Item, error) {
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return it, nil
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(
		&it.ID, &it.CompanyID, &it.WarehouseID, &it.Title, &it.Description,
		&it.Price, &it.Stock, &it.Status, &it.CategoryID, &it.PurchaseLineID,
		&it.Size, &it.Hidden, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}
