package deliveries

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
// repositorios del agendamiento atados a esa tx.
type TxRunner interface {
	RunDelivery(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		paymentRepo repository.PaymentRepository,
		leadRepo repository.LeadRepository,
		deliveryRepo repository.DeliveryRepository,
	) error) error
}

// DeliveryUseCase agenda entregas. Una venta admite máximo una entrega y solo
// con el pago completo; la máquina de estados avanza sin reversas.
type DeliveryUseCase struct {
	txRunner      TxRunner
	deliveryRepo  repository.DeliveryRepository
	warehouseRepo repository.WarehouseRepository
}

// NewDeliveryUseCase construye el caso de uso.
func NewDeliveryUseCase(
	txRunner TxRunner,
	deliveryRepo repository.DeliveryRepository,
	warehouseRepo repository.WarehouseRepository,
) *DeliveryUseCase {
	return &DeliveryUseCase{
		txRunner:      txRunner,
		deliveryRepo:  deliveryRepo,
		warehouseRepo: warehouseRepo,
	}
}

// Schedule agenda una entrega. Con SaleID la venta se bloquea, debe estar
// pagada y no tener entrega previa; con LeadID la entrega es externa al libro
// de ventas y solo exige que el cliente exista en la empresa.
func (uc *DeliveryUseCase) Schedule(ctx context.Context, ident identity.Identity, in dto.ScheduleDeliveryRequest) (*dto.DeliveryResponse, error) {
	if err := validateRequest(in); err != nil {
		return nil, err
	}
	wh, err := uc.warehouseRepo.GetByID(in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}
	if err := ident.CheckWarehouse(wh.CompanyID, wh.ID); err != nil {
		return nil, err
	}

	var delivery *entity.Delivery
	err = uc.txRunner.RunDelivery(ctx, func(
		saleRepo repository.SaleRepository,
		paymentRepo repository.PaymentRepository,
		leadRepo repository.LeadRepository,
		deliveryRepo repository.DeliveryRepository,
	) error {
		if in.SaleID != "" {
			sale, err := saleRepo.GetForUpdate(in.SaleID)
			if err != nil {
				return err
			}
			if sale == nil {
				return domain.ErrNotFound
			}
			if err := ident.CheckWarehouse(sale.CompanyID, sale.WarehouseID); err != nil {
				return err
			}
			paid, err := paymentRepo.SumBySale(in.SaleID)
			if err != nil {
				return err
			}
			if sale.PaymentStatus(paid) != entity.PaymentStatusPaid {
				return domain.ErrInvalidState
			}
			existing, err := deliveryRepo.GetBySale(in.SaleID)
			if err != nil {
				return err
			}
			if existing != nil {
				return domain.ErrAlreadyScheduled
			}
		} else {
			lead, err := leadRepo.GetByID(in.LeadID)
			if err != nil {
				return err
			}
			if lead == nil {
				return domain.ErrNotFound
			}
			if err := ident.CheckCompany(lead.CompanyID); err != nil {
				return err
			}
		}

		now := time.Now()
		delivery = &entity.Delivery{
			ID:          uuid.New().String(),
			CompanyID:   ident.CompanyID,
			WarehouseID: in.WarehouseID,
			SaleID:      in.SaleID,
			LeadID:      in.LeadID,
			Kind:        in.Kind,
			Date:        in.Date,
			Address:     in.Address,
			Region:      in.Region,
			Carrier:     in.Carrier,
			Notes:       in.Notes,
			Status:      entity.DeliveryScheduled,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return deliveryRepo.Create(delivery)
	})
	if err != nil {
		return nil, err
	}
	return toDeliveryResponse(delivery), nil
}

// Advance mueve la entrega SCHEDULED→IN_TRANSIT. Cualquier otro estado de
// partida falla: la máquina no tiene reversas ni saltos hacia atrás.
func (uc *DeliveryUseCase) Advance(ctx context.Context, ident identity.Identity, id string) (*dto.DeliveryResponse, error) {
	return uc.transition(ctx, ident, id, func(d *entity.Delivery) (string, error) {
		if d.Status != entity.DeliveryScheduled {
			return "", domain.ErrInvalidState
		}
		return entity.DeliveryInTransit, nil
	})
}

// Complete marca la entrega DELIVERED. Completar una entrega ya entregada es
// idempotente; sin entrega que completar la operación falla.
func (uc *DeliveryUseCase) Complete(ctx context.Context, ident identity.Identity, id string) (*dto.DeliveryResponse, error) {
	return uc.transition(ctx, ident, id, func(d *entity.Delivery) (string, error) {
		if d.Status == entity.DeliveryDelivered {
			return "", nil // ya entregada, sin cambio
		}
		return entity.DeliveryDelivered, nil
	})
}

// GetByID obtiene una entrega dentro del alcance del actor.
func (uc *DeliveryUseCase) GetByID(ident identity.Identity, id string) (*dto.DeliveryResponse, error) {
	d, err := uc.deliveryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	if err := ident.CheckWarehouse(d.CompanyID, d.WarehouseID); err != nil {
		return nil, err
	}
	return toDeliveryResponse(d), nil
}

// List lista entregas de la empresa, próximas primero. Los roles no admin
// solo ven las entregas de sus bodegas asignadas.
func (uc *DeliveryUseCase) List(ident identity.Identity, page dto.PageRequest) (*dto.DeliveryListResponse, error) {
	page.DefaultPage()
	var warehouseIDs []string
	if ident.Role != entity.RoleAdmin {
		if len(ident.WarehouseIDs) == 0 {
			return &dto.DeliveryListResponse{
				Items: []dto.DeliveryResponse{},
				Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
			}, nil
		}
		warehouseIDs = ident.WarehouseIDs
	}
	list, err := uc.deliveryRepo.ListByCompany(ident.CompanyID, warehouseIDs, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DeliveryResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *toDeliveryResponse(d))
	}
	return &dto.DeliveryListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func (uc *DeliveryUseCase) transition(ctx context.Context, ident identity.Identity, id string, next func(*entity.Delivery) (string, error)) (*dto.DeliveryResponse, error) {
	var out *entity.Delivery
	err := uc.txRunner.RunDelivery(ctx, func(
		_ repository.SaleRepository,
		_ repository.PaymentRepository,
		_ repository.LeadRepository,
		deliveryRepo repository.DeliveryRepository,
	) error {
		d, err := deliveryRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrInvalidState
		}
		if err := ident.CheckWarehouse(d.CompanyID, d.WarehouseID); err != nil {
			return err
		}
		status, err := next(d)
		if err != nil {
			return err
		}
		if status != "" && status != d.Status {
			if err := deliveryRepo.UpdateStatus(id, status); err != nil {
				return err
			}
			d.Status = status
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toDeliveryResponse(out), nil
}

// validateRequest exige exactamente un origen (venta o cliente) y los campos
// logísticos que el tipo de entrega requiere.
func validateRequest(in dto.ScheduleDeliveryRequest) error {
	if (in.SaleID == "") == (in.LeadID == "") {
		return domain.ErrInvalidInput
	}
	if in.WarehouseID == "" || in.Date.IsZero() {
		return domain.ErrInvalidInput
	}
	switch in.Kind {
	case entity.DeliveryHome:
		if in.Address == "" {
			return domain.ErrInvalidInput
		}
	case entity.DeliveryCarrier:
		if in.Address == "" || in.Region == "" || in.Carrier == "" {
			return domain.ErrInvalidInput
		}
	case entity.DeliveryPickup:
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

func toDeliveryResponse(d *entity.Delivery) *dto.DeliveryResponse {
	return &dto.DeliveryResponse{
		ID:          d.ID,
		CompanyID:   d.CompanyID,
		WarehouseID: d.WarehouseID,
		SaleID:      d.SaleID,
		LeadID:      d.LeadID,
		Kind:        d.Kind,
		Date:        d.Date,
		Address:     d.Address,
		Region:      d.Region,
		Carrier:     d.Carrier,
		Notes:       d.Notes,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
	}
}
