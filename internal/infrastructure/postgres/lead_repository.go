package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/jackc/pgx/v5"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tu-usuario/tienda-pro/internal/domain/entity"
	"github.com/tu-usuario/tienda-pro/internal/domain/repository"
)

var _ repository.LeadRepository = (*LeadRepo)(nil)

const leadColumns = `id, company_id, first_name, last_name, phone, status, sale_id, created_at, updated_at`

// LeadRepo implementación del puerto LeadRepository sobre PostgreSQL (usable con pool o tx).
// La columna search_text guarda nombre y apellido normalizados (minúsculas,
// sin acentos) para que la búsqueda no dependa de extensiones de la BD.
type LeadRepo struct {
	q Querier
}

// NewLeadRepository construye el adaptador de persistencia para clientes potenciales. Pasar pool o tx (Querier).
func NewLeadRepository(q Querier) *LeadRepo {
	return &LeadRepo{q: q}
}

// Create persiste un cliente potencial.
func (r *LeadRepo) Create(lead *entity.Lead) error {
	query := `
		INSERT INTO leads (` + leadColumns + `, search_text, phone_digits)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		lead.ID, lead.CompanyID, lead.FirstName, lead.LastName, lead.Phone,
		lead.Status, lead.SaleID, lead.CreatedAt, lead.UpdatedAt,
		normalizeSearch(lead.FirstName+" "+lead.LastName), onlyDigits(lead.Phone),
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente potencial por ID.
func (r *LeadRepo) GetByID(id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get lead")
}

// GetForUpdate obtiene un cliente potencial bloqueando su fila hasta el fin de la tx.
func (r *LeadRepo) GetForUpdate(id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get lead for update")
}

// ListByCompany lista clientes potenciales, más recientes primero. Con search
// no vacío filtra por nombre normalizado o dígitos del teléfono.
func (r *LeadRepo) ListByCompany(companyID, search string, limit, offset int) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE company_id = $1`
	args := []any{companyID}
	if search != "" {
		args = append(args, "%"+normalizeSearch(search)+"%")
		idx := len(args)
		query += fmt.Sprintf(" AND (search_text LIKE $%d", idx)
		if digits := onlyDigits(search); digits != "" {
			args = append(args, "%"+digits+"%")
			query += fmt.Sprintf(" OR phone_digits LIKE $%d", len(args))
		}
		query += ")"
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lead
	for rows.Next() {
		var l entity.Lead
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.FirstName, &l.LastName, &l.Phone,
			&l.Status, &l.SaleID, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// Update actualiza contacto, estado y venta de conversión; rehace los campos
// de búsqueda normalizados.
func (r *LeadRepo) Update(lead *entity.Lead) error {
	query := `
		UPDATE leads
		SET first_name = $2, last_name = $3, phone = $4, status = $5, sale_id = $6,
		    search_text = $7, phone_digits = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		lead.ID, lead.FirstName, lead.LastName, lead.Phone, lead.Status, lead.SaleID,
		normalizeSearch(lead.FirstName+" "+lead.LastName), onlyDigits(lead.Phone),
		lead.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	return nil
}

func (r *LeadRepo) scanOne(row pgx.Row, op string) (*entity.Lead, error) {
	var l entity.Lead
	err := row.Scan(&l.ID, &l.CompanyID, &l.FirstName, &l.LastName, &l.Phone,
		&l.Status, &l.SaleID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &l, nil
}

// normalizeSearch pasa a minúsculas y elimina marcas diacríticas ("José" -> "jose").
func normalizeSearch(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// onlyDigits conserva solo los dígitos de un teléfono.
func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
