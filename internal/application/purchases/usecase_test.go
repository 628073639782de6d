package purchases_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/tienda-pro/internal/application/dto"
	"github.com/tu-usuario/tienda-pro/internal/application/purchases"
	"github.com/tu-usuario/tienda-pro/internal/domain"
	"github.com/tu-usuario/tienda-pro/internal/domain/entity"
	"github.com/tu-usuario/tienda-pro/internal/domain/identity"
	"github.com/tu-usuario/tienda-pro/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. IncrementItemsCreated replica el update condicional:
// incrementa solo si items_created < expected_qty, de lo contrario ErrLineFull.
// ──────────────────────────────────────────────────────────────────────────────

type fakePurchaseRepo struct {
	purchases map[string]*entity.Purchase
	details   map[string]*entity.PurchaseDetail
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{
		purchases: make(map[string]*entity.Purchase),
		details:   make(map[string]*entity.PurchaseDetail),
	}
}

func (r *fakePurchaseRepo) Create(p *entity.Purchase) error { r.purchases[p.ID] = p; return nil }
func (r *fakePurchaseRepo) CreateDetail(d *entity.PurchaseDetail) error {
	r.details[d.ID] = d
	return nil
}
func (r *fakePurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	p, ok := r.purchases[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}
func (r *fakePurchaseRepo) GetDetailByID(detailID string) (*entity.PurchaseDetail, error) {
	d, ok := r.details[detailID]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}
func (r *fakePurchaseRepo) GetDetails(purchaseID string) ([]*entity.PurchaseDetail, error) {
	var out []*entity.PurchaseDetail
	for _, d := range r.details {
		if d.PurchaseID == purchaseID {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (r *fakePurchaseRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Purchase, error) {
	var out []*entity.Purchase
	for _, p := range r.purchases {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r *fakePurchaseRepo) IncrementItemsCreated(detailID string) (*entity.PurchaseDetail, error) {
	d, ok := r.details[detailID]
	if !ok || d.ItemsCreated >= d.ExpectedQty {
		return nil, domain.ErrLineFull
	}
	d.ItemsCreated++
	cp := *d
	return &cp, nil
}
func (r *fakePurchaseRepo) HasCreatedItems(purchaseID string) (bool, error) {
	for _, d := range r.details {
		if d.PurchaseID == purchaseID && d.ItemsCreated > 0 {
			return true, nil
		}
	}
	return false, nil
}
func (r *fakePurchaseRepo) DeleteDetails(purchaseID string) error {
	for id, d := range r.details {
		if d.PurchaseID == purchaseID {
			delete(r.details, id)
		}
	}
	return nil
}
func (r *fakePurchaseRepo) Delete(id string) error { delete(r.purchases, id); return nil }

type fakeItemRepo struct {
	items map[string]*entity.Item
}

func (r *fakeItemRepo) Create(it *entity.Item) error { r.items[it.ID] = it; return nil }
func (r *fakeItemRepo) GetByID(id string) (*entity.Item, error) {
	return r.items[id], nil
}
func (r *fakeItemRepo) GetForUpdate(id string) (*entity.Item, error) { return r.GetByID(id) }
func (r *fakeItemRepo) List(companyID string, f repository.ItemFilter) ([]*entity.Item, error) {
	return nil, nil
}
func (r *fakeItemRepo) Update(it *entity.Item) error                      { return nil }
func (r *fakeItemRepo) Reserve(id string, qty int) (*entity.Item, error)  { return nil, nil }
func (r *fakeItemRepo) MarkSold(id string) error                          { return nil }
func (r *fakeItemRepo) Release(id string, qty int) (*entity.Item, error)  { return nil, nil }
func (r *fakeItemRepo) UpdatePrice(id string, p decimal.Decimal) error    { return nil }
func (r *fakeItemRepo) UpdateStock(id string, stock int) error            { return nil }
func (r *fakeItemRepo) SetHidden(id string, hidden bool) error            { return nil }

type fakeSupplierRepo struct{ suppliers map[string]*entity.Supplier }

func (r *fakeSupplierRepo) Create(s *entity.Supplier) error { return nil }
func (r *fakeSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	return r.suppliers[id], nil
}
func (r *fakeSupplierRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Supplier, error) {
	return nil, nil
}
func (r *fakeSupplierRepo) Update(s *entity.Supplier) error { return nil }

type fakeCategoryRepo struct{ categories map[string]*entity.Category }

func (r *fakeCategoryRepo) Create(c *entity.Category) error { return nil }
func (r *fakeCategoryRepo) GetByID(id string) (*entity.Category, error) {
	return r.categories[id], nil
}
func (r *fakeCategoryRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Category, error) {
	return nil, nil
}
func (r *fakeCategoryRepo) Update(c *entity.Category) error { return nil }

type fakeWarehouseRepo struct{ warehouses map[string]*entity.Warehouse }

func (r *fakeWarehouseRepo) Create(w *entity.Warehouse) error { return nil }
func (r *fakeWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return r.warehouses[id], nil
}
func (r *fakeWarehouseRepo) Update(w *entity.Warehouse) error { return nil }
func (r *fakeWarehouseRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	return nil, nil
}

type fakeTxRunner struct {
	purchaseRepo repository.PurchaseRepository
	itemRepo     repository.ItemRepository
}

func (t *fakeTxRunner) RunPurchase(ctx context.Context, fn func(
	purchaseRepo repository.PurchaseRepository,
	itemRepo repository.ItemRepository,
) error) error {
	return fn(t.purchaseRepo, t.itemRepo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCompanyID   = "company-1"
	testWarehouseID = "warehouse-1"
	testSupplierID  = "supplier-1"
	testCategoryID  = "category-1"
)

func adminIdentity() identity.Identity {
	return identity.Identity{UserID: "user-1", CompanyID: testCompanyID, Role: entity.RoleAdmin}
}

func buildUseCase() (*purchases.PurchaseUseCase, *fakePurchaseRepo, *fakeItemRepo) {
	purchaseRepo := newFakePurchaseRepo()
	itemRepo := &fakeItemRepo{items: make(map[string]*entity.Item)}
	supplierRepo := &fakeSupplierRepo{suppliers: map[string]*entity.Supplier{
		testSupplierID: {ID: testSupplierID, CompanyID: testCompanyID, Name: "Proveedor Uno"},
	}}
	categoryRepo := &fakeCategoryRepo{categories: map[string]*entity.Category{
		testCategoryID: {ID: testCategoryID, CompanyID: testCompanyID, Name: "Calzado"},
	}}
	warehouseRepo := &fakeWarehouseRepo{warehouses: map[string]*entity.Warehouse{
		testWarehouseID: {ID: testWarehouseID, CompanyID: testCompanyID, Name: "Principal"},
	}}
	uc := purchases.NewPurchaseUseCase(
		&fakeTxRunner{purchaseRepo: purchaseRepo, itemRepo: itemRepo},
		purchaseRepo, supplierRepo, categoryRepo, warehouseRepo,
	)
	return uc, purchaseRepo, itemRepo
}

func crearLote(t *testing.T, uc *purchases.PurchaseUseCase, expectedQty int) *dto.PurchaseResponse {
	t.Helper()
	out, err := uc.Create(context.Background(), adminIdentity(), dto.CreatePurchaseRequest{
		SupplierID: testSupplierID,
		Code:       "LOTE-001",
		Lines: []dto.PurchaseLineRequest{
			{CategoryID: testCategoryID, ExpectedQty: expectedQty, UnitCost: decimal.NewFromInt(25)},
		},
	})
	require.NoError(t, err)
	return out
}

func itemPayload() dto.ItemPayload {
	price := decimal.NewFromInt(60)
	return dto.ItemPayload{
		WarehouseID: testWarehouseID,
		Title:       "Bota de trabajo",
		Price:       &price,
		Stock:       1,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro del lote
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseCreate_TotalDesdeLasLineas(t *testing.T) {
	uc, _, _ := buildUseCase()
	out, err := uc.Create(context.Background(), adminIdentity(), dto.CreatePurchaseRequest{
		SupplierID: testSupplierID,
		Code:       "LOTE-002",
		Lines: []dto.PurchaseLineRequest{
			{CategoryID: testCategoryID, ExpectedQty: 4, UnitCost: decimal.NewFromInt(25)},
			{CategoryID: testCategoryID, ExpectedQty: 2, UnitCost: decimal.NewFromInt(10)},
		},
	})
	require.NoError(t, err)
	// 4x25 + 2x10 = 120
	assert.True(t, out.Total.Equal(decimal.NewFromInt(120)), "total esperado 120, obtuvo %s", out.Total)
	assert.Equal(t, entity.PurchasePending, out.Status, "un lote nuevo nace PENDING")
	assert.Len(t, out.Lines, 2)
}

func TestPurchaseCreate_ProveedorDeOtraEmpresa(t *testing.T) {
	uc, _, _ := buildUseCase()
	ident := identity.Identity{UserID: "user-9", CompanyID: "otra-empresa", Role: entity.RoleAdmin}
	_, err := uc.Create(context.Background(), ident, dto.CreatePurchaseRequest{
		SupplierID: testSupplierID,
		Code:       "LOTE-003",
		Lines: []dto.PurchaseLineRequest{
			{CategoryID: testCategoryID, ExpectedQty: 1, UnitCost: decimal.NewFromInt(5)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrScopeViolation)
}

func TestPurchaseCreate_CantidadCeroEsInvalida(t *testing.T) {
	uc, _, _ := buildUseCase()
	_, err := uc.Create(context.Background(), adminIdentity(), dto.CreatePurchaseRequest{
		SupplierID: testSupplierID,
		Code:       "LOTE-004",
		Lines: []dto.PurchaseLineRequest{
			{CategoryID: testCategoryID, ExpectedQty: 0, UnitCost: decimal.NewFromInt(5)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta de artículos contra líneas
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseCreateItem_IncrementaAvanceYHeredaCategoria(t *testing.T) {
	uc, _, itemRepo := buildUseCase()
	lote := crearLote(t, uc, 2)
	lineID := lote.Lines[0].ID

	item, err := uc.CreateItem(context.Background(), adminIdentity(), lote.ID, lineID, itemPayload())
	require.NoError(t, err)
	assert.Equal(t, entity.ItemAvailable, item.Status)
	assert.Equal(t, testCategoryID, item.CategoryID, "el artículo hereda la categoría de la línea")
	assert.Equal(t, lineID, item.PurchaseLineID)
	assert.NotNil(t, itemRepo.items[item.ID])

	got, err := uc.GetByID(adminIdentity(), lote.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Lines[0].ItemsCreated)
	assert.Equal(t, entity.PurchaseProcessing, got.Status,
		"con avance parcial el lote deriva PROCESSING")
}

func TestPurchaseCreateItem_LineaLlenaFalla(t *testing.T) {
	uc, _, _ := buildUseCase()
	lote := crearLote(t, uc, 1)
	lineID := lote.Lines[0].ID

	_, err := uc.CreateItem(context.Background(), adminIdentity(), lote.ID, lineID, itemPayload())
	require.NoError(t, err)

	_, err = uc.CreateItem(context.Background(), adminIdentity(), lote.ID, lineID, itemPayload())
	assert.ErrorIs(t, err, domain.ErrLineFull,
		"el contador de la línea tiene tope en la cantidad esperada")
}

func TestPurchaseCreateItem_CompletarTodasLasLineasDerivaCompleted(t *testing.T) {
	uc, _, _ := buildUseCase()
	lote := crearLote(t, uc, 2)
	lineID := lote.Lines[0].ID

	for i := 0; i < 2; i++ {
		_, err := uc.CreateItem(context.Background(), adminIdentity(), lote.ID, lineID, itemPayload())
		require.NoError(t, err)
	}

	got, err := uc.GetByID(adminIdentity(), lote.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseCompleted, got.Status)
}

func TestPurchaseCreateItem_LineaDeOtroLote(t *testing.T) {
	uc, repo, _ := buildUseCase()
	lote := crearLote(t, uc, 1)
	repo.details["ajena"] = &entity.PurchaseDetail{
		ID: "ajena", PurchaseID: "otro-lote", CategoryID: testCategoryID, ExpectedQty: 5,
	}

	_, err := uc.CreateItem(context.Background(), adminIdentity(), lote.ID, "ajena", itemPayload())
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"una línea de otro lote no es direccionable desde este")
}

// ──────────────────────────────────────────────────────────────────────────────
// Eliminación
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseDelete_SinArticulosCreados(t *testing.T) {
	uc, repo, _ := buildUseCase()
	lote := crearLote(t, uc, 2)

	require.NoError(t, uc.Delete(context.Background(), adminIdentity(), lote.ID))
	assert.Empty(t, repo.purchases)
	assert.Empty(t, repo.details, "las líneas se eliminan junto con el lote")
}

func TestPurchaseDelete_ConArticulosEsHistoriaInmutable(t *testing.T) {
	uc, repo, _ := buildUseCase()
	lote := crearLote(t, uc, 2)

	_, err := uc.CreateItem(context.Background(), adminIdentity(), lote.ID, lote.Lines[0].ID, itemPayload())
	require.NoError(t, err)

	err = uc.Delete(context.Background(), adminIdentity(), lote.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NotEmpty(t, repo.purchases, "el lote con artículos creados nunca se elimina")
}
