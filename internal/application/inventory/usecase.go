package inventory

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

// ItemUseCase opera la máquina de disponibilidad de artículos:
// AVAILABLE → PENDING → SOLD con reversas manuales, decremento condicional
// de stock y mutaciones de precio/stock vetadas sobre artículos vendidos.
type ItemUseCase struct {
	txRunner      TxRunner
	itemRepo      repository.ItemRepository
	warehouseRepo repository.WarehouseRepository
	categoryRepo  repository.CategoryRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	warehouseRepo repository.WarehouseRepository,
	categoryRepo repository.CategoryRepository,
) *ItemUseCase {
	return &ItemUseCase{
		txRunner:      txRunner,
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
		categoryRepo:  categoryRepo,
	}
}

// Create crea un artículo directo (sin lote de compra) en estado AVAILABLE.
func (uc *ItemUseCase) Create(ident identity.Identity, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if in.Title == "" || in.WarehouseID == "" || in.Stock < 1 {
		return nil, domain.ErrInvalidInput
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
	if in.CategoryID != "" {
		cat, err := uc.categoryRepo.GetByID(in.CategoryID)
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
	item := &entity.Item{
		ID:          uuid.New().String(),
		CompanyID:   ident.CompanyID,
		WarehouseID: in.WarehouseID,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Status:      entity.ItemAvailable,
		CategoryID:  in.CategoryID,
		Size:        in.Size,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.itemRepo.Create(item); err != nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

// GetByID obtiene un artículo dentro del alcance del actor.
func (uc *ItemUseCase) GetByID(ident identity.Identity, id string) (*dto.ItemResponse, error) {
	item, err := uc.loadScoped(ident, id)
	if err != nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

// List lista artículos de la empresa con filtros. Los roles no admin solo
// ven las bodegas que tienen asignadas.
func (uc *ItemUseCase) List(ident identity.Identity, in dto.ListItemsRequest) (*dto.ItemListResponse, error) {
	in.DefaultPage()
	f := repository.ItemFilter{
		Status:      in.Status,
		CategoryID:  in.CategoryID,
		WarehouseID: in.WarehouseID,
		Search:      in.Search,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}
	if in.WarehouseID != "" {
		if !ident.CanWarehouse(in.WarehouseID) {
			return nil, domain.ErrScopeViolation
		}
	} else if ident.Role != entity.RoleAdmin {
		f.WarehouseIDs = ident.WarehouseIDs
	}
	list, err := uc.itemRepo.List(ident.CompanyID, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *ToItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// Reserve reserva unidades desde el checkout: decremento condicional en una
// transacción. Si el stock llega a 0 el artículo queda PENDING.
func (uc *ItemUseCase) Reserve(ctx context.Context, ident identity.Identity, id string, qty int) (*dto.ItemResponse, error) {
	if qty < 1 {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.loadScoped(ident, id); err != nil {
		return nil, err
	}
	var out *entity.Item
	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository) error {
		reserved, err := itemRepo.Reserve(id, qty)
		if err != nil {
			return err
		}
		out = reserved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToItemResponse(out), nil
}

// Release reversa manual: repone unidades a un artículo PENDING o SOLD y
// recalcula el estado desde el stock resultante. Soporta devoluciones
// parciales (la cantidad la decide el llamador).
func (uc *ItemUseCase) Release(ctx context.Context, ident identity.Identity, id string, qty int) (*dto.ItemResponse, error) {
	if qty < 1 {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.loadScoped(ident, id); err != nil {
		return nil, err
	}
	var out *entity.Item
	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository) error {
		item, err := itemRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if item.Status == entity.ItemAvailable {
			return domain.ErrInvalidState
		}
		released, err := itemRepo.Release(id, qty)
		if err != nil {
			return err
		}
		out = released
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToItemResponse(out), nil
}

// UpdatePrice cambia el precio de venta. El precio de un artículo SOLD es
// historia inmutable.
func (uc *ItemUseCase) UpdatePrice(ident identity.Identity, id string, in dto.UpdateItemPriceRequest) (*dto.ItemResponse, error) {
	item, err := uc.loadScoped(ident, id)
	if err != nil {
		return nil, err
	}
	if item.Status == entity.ItemSold {
		return nil, domain.ErrInvalidState
	}
	if in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.itemRepo.UpdatePrice(id, in.Price); err != nil {
		return nil, err
	}
	return uc.GetByID(ident, id)
}

// UpdateStock corrección directa de stock por el staff; veta artículos SOLD.
func (uc *ItemUseCase) UpdateStock(ident identity.Identity, id string, in dto.UpdateItemStockRequest) (*dto.ItemResponse, error) {
	item, err := uc.loadScoped(ident, id)
	if err != nil {
		return nil, err
	}
	if item.Status == entity.ItemSold {
		return nil, domain.ErrInvalidState
	}
	if in.Stock < 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.itemRepo.UpdateStock(id, in.Stock); err != nil {
		return nil, err
	}
	return uc.GetByID(ident, id)
}

// Hide oculta un artículo (los referenciados por ventas nunca se eliminan).
func (uc *ItemUseCase) Hide(ident identity.Identity, id string, hidden bool) error {
	if _, err := uc.loadScoped(ident, id); err != nil {
		return err
	}
	return uc.itemRepo.SetHidden(id, hidden)
}

// loadScoped carga el artículo y aplica el guard de alcance empresa+bodega.
func (uc *ItemUseCase) loadScoped(ident identity.Identity, id string) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if err := ident.CheckWarehouse(item.CompanyID, item.WarehouseID); err != nil {
		return nil, err
	}
	return item, nil
}

// ToItemResponse convierte la entidad al DTO de salida.
func ToItemResponse(it *entity.Item) *dto.ItemResponse {
	if it == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:             it.ID,
		CompanyID:      it.CompanyID,
		WarehouseID:    it.WarehouseID,
		Title:          it.Title,
		Description:    it.Description,
		Price:          it.Price,
		Stock:          it.Stock,
		Status:         it.Status,
		CategoryID:     it.CategoryID,
		PurchaseLineID: it.PurchaseLineID,
		Size:           it.Size,
		CreatedAt:      it.CreatedAt,
		UpdatedAt:      it.UpdatedAt,
	}
}
