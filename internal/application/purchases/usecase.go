package purchases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tienda-pro/internal/application/dto"
	"github.com/tu-usuario/tienda-pro/internal/application/inventory"
	"github.com/tu-usuario/tienda-pro/internal/domain"
	"github.com/tu-usuario/tienda-pro/internal/domain/entity"
	"github.com/tu-usuario/tienda-pro/internal/domain/identity"
	"github.com/tu-usuario/tienda-pro/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando los
// repositorios de compras y artículos atados a esa tx.
type TxRunner interface {
	RunPurchase(ctx context.Context, fn func(
		purchaseRepo repository.PurchaseRepository,
		itemRepo repository.ItemRepository,
	) error) error
}

// PurchaseUseCase administra los lotes de compra a proveedor: el desglose
// esperado por categoría, el alta de artículos contra cada línea y el estado
// del lote derivado del avance (nunca almacenado).
type PurchaseUseCase struct {
	txRunner      TxRunner
	purchaseRepo  repository.PurchaseRepository
	supplierRepo  repository.SupplierRepository
	categoryRepo  repository.CategoryRepository
	warehouseRepo repository.WarehouseRepository
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(
	txRunner TxRunner,
	purchaseRepo repository.PurchaseRepository,
	supplierRepo repository.SupplierRepository,
	categoryRepo repository.CategoryRepository,
	warehouseRepo repository.WarehouseRepository,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		txRunner:      txRunner,
		purchaseRepo:  purchaseRepo,
		supplierRepo:  supplierRepo,
		categoryRepo:  categoryRepo,
		warehouseRepo: warehouseRepo,
	}
}

// Create registra un lote de compra con sus líneas esperadas. El total es la
// suma de costo unitario por cantidad esperada de cada línea.
func (uc *PurchaseUseCase) Create(ctx context.Context, ident identity.Identity, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if in.Code == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	sup, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if sup == nil {
		return nil, domain.ErrNotFound
	}
	if err := ident.CheckCompany(sup.CompanyID); err != nil {
		return nil, err
	}
	for _, ln := range in.Lines {
		if ln.ExpectedQty < 1 || ln.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		cat, err := uc.categoryRepo.GetByID(ln.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, domain.ErrNotFound
		}
		if err := ident.CheckCompany(cat.CompanyID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	purchase := &entity.Purchase{
		ID:         uuid.New().String(),
		CompanyID:  ident.CompanyID,
		SupplierID: in.SupplierID,
		Code:       in.Code,
		Method:     in.Method,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	details := make([]*entity.PurchaseDetail, 0, len(in.Lines))
	total := decimal.Zero
	for _, ln := range in.Lines {
		d := &entity.PurchaseDetail{
			ID:          uuid.New().String(),
			PurchaseID:  purchase.ID,
			CategoryID:  ln.CategoryID,
			ExpectedQty: ln.ExpectedQty,
			UnitCost:    ln.UnitCost,
		}
		details = append(details, d)
		total = total.Add(d.Subtotal())
	}
	purchase.Total = total

	err = uc.txRunner.RunPurchase(ctx, func(
		purchaseRepo repository.PurchaseRepository,
		_ repository.ItemRepository,
	) error {
		if err := purchaseRepo.Create(purchase); err != nil {
			return err
		}
		for _, d := range details {
			if err := purchaseRepo.CreateDetail(d); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(purchase, details), nil
}

// GetByID obtiene un lote con sus líneas y estado derivado.
func (uc *PurchaseUseCase) GetByID(ident identity.Identity, id string) (*dto.PurchaseResponse, error) {
	purchase, err := uc.loadScoped(ident, id)
	if err != nil {
		return nil, err
	}
	details, err := uc.purchaseRepo.GetDetails(id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(purchase, details), nil
}

// List lista lotes de la empresa con estado derivado por lote.
func (uc *PurchaseUseCase) List(ident identity.Identity, page dto.PageRequest) (*dto.PurchaseListResponse, error) {
	page.DefaultPage()
	list, err := uc.purchaseRepo.ListByCompany(ident.CompanyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		details, err := uc.purchaseRepo.GetDetails(p.ID)
		if err != nil {
			return nil, err
		}
		resp := uc.toResponse(p, details)
		resp.Lines = nil
		items = append(items, *resp)
	}
	return &dto.PurchaseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// CreateItem da de alta un artículo concreto contra una línea del lote:
// incrementa items_created con tope en la cantidad esperada y crea el
// artículo AVAILABLE, en una sola transacción. Cada alta cuenta un artículo
// sin importar el stock declarado en su carga.
func (uc *PurchaseUseCase) CreateItem(ctx context.Context, ident identity.Identity, purchaseID, detailID string, in dto.ItemPayload) (*dto.ItemResponse, error) {
	if in.Title == "" || in.WarehouseID == "" || in.Stock < 1 {
		return nil, domain.ErrInvalidInput
	}
	purchase, err := uc.loadScoped(ident, purchaseID)
	if err != nil {
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

	var item *entity.Item
	err = uc.txRunner.RunPurchase(ctx, func(
		purchaseRepo repository.PurchaseRepository,
		itemRepo repository.ItemRepository,
	) error {
		detail, err := purchaseRepo.GetDetailByID(detailID)
		if err != nil {
			return err
		}
		if detail == nil || detail.PurchaseID != purchase.ID {
			return domain.ErrNotFound
		}
		if _, err := purchaseRepo.IncrementItemsCreated(detailID); err != nil {
			return err
		}
		now := time.Now()
		item = &entity.Item{
			ID:             uuid.New().String(),
			CompanyID:      ident.CompanyID,
			WarehouseID:    in.WarehouseID,
			Title:          in.Title,
			Description:    in.Description,
			Price:          in.Price,
			Stock:          in.Stock,
			Status:         entity.ItemAvailable,
			CategoryID:     detail.CategoryID,
			PurchaseLineID: detail.ID,
			Size:           in.Size,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		return itemRepo.Create(item)
	})
	if err != nil {
		return nil, err
	}
	return inventory.ToItemResponse(item), nil
}

// Delete elimina un lote sin artículos creados. Con artículos contra alguna
// línea el lote es historia inmutable (ErrConflict).
func (uc *PurchaseUseCase) Delete(ctx context.Context, ident identity.Identity, id string) error {
	if _, err := uc.loadScoped(ident, id); err != nil {
		return err
	}
	return uc.txRunner.RunPurchase(ctx, func(
		purchaseRepo repository.PurchaseRepository,
		_ repository.ItemRepository,
	) error {
		has, err := purchaseRepo.HasCreatedItems(id)
		if err != nil {
			return err
		}
		if has {
			return domain.ErrConflict
		}
		if err := purchaseRepo.DeleteDetails(id); err != nil {
			return err
		}
		return purchaseRepo.Delete(id)
	})
}

func (uc *PurchaseUseCase) loadScoped(ident identity.Identity, id string) (*entity.Purchase, error) {
	purchase, err := uc.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, domain.ErrNotFound
	}
	if err := ident.CheckCompany(purchase.CompanyID); err != nil {
		return nil, err
	}
	return purchase, nil
}

func (uc *PurchaseUseCase) toResponse(p *entity.Purchase, details []*entity.PurchaseDetail) *dto.PurchaseResponse {
	resp := &dto.PurchaseResponse{
		ID:         p.ID,
		CompanyID:  p.CompanyID,
		SupplierID: p.SupplierID,
		Code:       p.Code,
		Method:     p.Method,
		Total:      p.Total,
		Status:     entity.PurchaseStatus(details),
		Notes:      p.Notes,
		CreatedAt:  p.CreatedAt,
	}
	for _, d := range details {
		resp.Lines = append(resp.Lines, dto.PurchaseLineResponse{
			ID:           d.ID,
			CategoryID:   d.CategoryID,
			ExpectedQty:  d.ExpectedQty,
			UnitCost:     d.UnitCost,
			ItemsCreated: d.ItemsCreated,
		})
	}
	return resp
}
