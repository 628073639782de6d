package leads

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/tienda-pro/internal/application/dto"
	"github.com/tu-usuario/tienda-pro/internal/domain"
	"github.com/tu-usuario/tienda-pro/internal/domain/entity"
	"github.com/tu-usuario/tienda-pro/internal/domain/identity"
	"github.com/tu-usuario/tienda-pro/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando los
// repositorios de clientes y ventas atados a esa tx.
type TxRunner interface {
	RunLead(ctx context.Context, fn func(
		leadRepo repository.LeadRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// LeadUseCase administra el registro de clientes potenciales y su conversión
// única PENDING→CONVERTED al vincularse con una venta.
type LeadUseCase struct {
	txRunner TxRunner
	leadRepo repository.LeadRepository
}

// NewLeadUseCase construye el caso de uso.
func NewLeadUseCase(txRunner TxRunner, leadRepo repository.LeadRepository) *LeadUseCase {
	return &LeadUseCase{txRunner: txRunner, leadRepo: leadRepo}
}

// Create captura un cliente potencial en estado PENDING.
func (uc *LeadUseCase) Create(ident identity.Identity, in dto.CreateLeadRequest) (*dto.LeadResponse, error) {
	if in.FirstName == "" || in.Phone == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	lead := &entity.Lead{
		ID:        uuid.New().String(),
		CompanyID: ident.CompanyID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Status:    entity.LeadPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.leadRepo.Create(lead); err != nil {
		return nil, err
	}
	return toLeadResponse(lead), nil
}

// GetByID obtiene un cliente potencial dentro del alcance del actor.
func (uc *LeadUseCase) GetByID(ident identity.Identity, id string) (*dto.LeadResponse, error) {
	lead, err := uc.loadScoped(ident, id)
	if err != nil {
		return nil, err
	}
	return toLeadResponse(lead), nil
}

// List lista clientes potenciales de la empresa, más recientes primero, con
// búsqueda insensible a mayúsculas y acentos sobre nombre y teléfono.
func (uc *LeadUseCase) List(ident identity.Identity, in dto.ListLeadsRequest) (*dto.LeadListResponse, error) {
	in.DefaultPage()
	list, err := uc.leadRepo.ListByCompany(ident.CompanyID, in.Search, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LeadResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toLeadResponse(l))
	}
	return &dto.LeadListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// Update edita los datos de contacto. El estado y la venta de conversión no
// son editables por esta vía.
func (uc *LeadUseCase) Update(ident identity.Identity, id string, in dto.CreateLeadRequest) (*dto.LeadResponse, error) {
	if in.FirstName == "" || in.Phone == "" {
		return nil, domain.ErrInvalidInput
	}
	lead, err := uc.loadScoped(ident, id)
	if err != nil {
		return nil, err
	}
	lead.FirstName = in.FirstName
	lead.LastName = in.LastName
	lead.Phone = in.Phone
	lead.UpdatedAt = time.Now()
	if err := uc.leadRepo.Update(lead); err != nil {
		return nil, err
	}
	return toLeadResponse(lead), nil
}

// Convert vincula el cliente con una venta y lo marca CONVERTED. La
// conversión ocurre una sola vez: repetirla con la misma venta es idempotente
// y con una venta distinta falla con ErrAlreadyConverted.
func (uc *LeadUseCase) Convert(ctx context.Context, ident identity.Identity, id, saleID string) (*dto.LeadResponse, error) {
	var out *entity.Lead
	err := uc.txRunner.RunLead(ctx, func(
		leadRepo repository.LeadRepository,
		saleRepo repository.SaleRepository,
	) error {
		lead, err := leadRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if lead == nil {
			return domain.ErrNotFound
		}
		if err := ident.CheckCompany(lead.CompanyID); err != nil {
			return err
		}
		sale, err := saleRepo.GetByID(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if err := ident.CheckCompany(sale.CompanyID); err != nil {
			return err
		}
		if lead.Status == entity.LeadConverted {
			if lead.SaleID == saleID {
				out = lead
				return nil
			}
			return domain.ErrAlreadyConverted
		}
		lead.Status = entity.LeadConverted
		lead.SaleID = saleID
		lead.UpdatedAt = time.Now()
		if err := leadRepo.Update(lead); err != nil {
			return err
		}
		out = lead
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toLeadResponse(out), nil
}

func (uc *LeadUseCase) loadScoped(ident identity.Identity, id string) (*entity.Lead, error) {
	lead, err := uc.leadRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, domain.ErrNotFound
	}
	if err := ident.CheckCompany(lead.CompanyID); err != nil {
		return nil, err
	}
	return lead, nil
}

func toLeadResponse(l *entity.Lead) *dto.LeadResponse {
	return &dto.LeadResponse{
		ID:        l.ID,
		CompanyID: l.CompanyID,
		FirstName: l.FirstName,
		LastName:  l.LastName,
		Phone:     l.Phone,
		Status:    l.Status,
		SaleID:    l.SaleID,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
