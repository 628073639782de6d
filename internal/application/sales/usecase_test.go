package sales_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/tienda-pro/internal/application/dto"
	"github.com/tu-usuario/tienda-pro/internal/application/sales"
	"github.com/tu-usuario/tienda-pro/internal/domain"
	"github.com/tu-usuario/tienda-pro/internal/domain/entity"
	"github.com/tu-usuario/tienda-pro/internal/domain/identity"
	"github.com/tu-usuario/tienda-pro/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	items      map[string]*entity.Item
	sales      map[string]*entity.Sale
	details    map[string][]*entity.SaleDetail
	payments   map[string]*entity.Payment
	leads      map[string]*entity.Lead
	deliveries map[string]*entity.Delivery
}

func newMemStore() *memStore {
	return &memStore{
		items:      make(map[string]*entity.Item),
		sales:      make(map[string]*entity.Sale),
		details:    make(map[string][]*entity.SaleDetail),
		payments:   make(map[string]*entity.Payment),
		leads:      make(map[string]*entity.Lead),
		deliveries: make(map[string]*entity.Delivery),
	}
}

type memItemRepo struct{ s *memStore }

func (r *memItemRepo) Create(it *entity.Item) error { r.s.items[it.ID] = it; return nil }
func (r *memItemRepo) GetByID(id string) (*entity.Item, error) {
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}
func (r *memItemRepo) GetForUpdate(id string) (*entity.Item, error) { return r.GetByID(id) }
func (r *memItemRepo) List(companyID string, f repository.ItemFilter) ([]*entity.Item, error) {
	return nil, nil
}
func (r *memItemRepo) Update(it *entity.Item) error { r.s.items[it.ID] = it; return nil }
func (r *memItemRepo) Reserve(id string, qty int) (*entity.Item, error) {
	it, ok := r.s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if it.Status != entity.ItemAvailable || it.Stock < qty {
		return nil, domain.ErrInsufficientStock
	}
	it.Stock -= qty
	if it.Stock == 0 {
		it.Status = entity.ItemPending
	}
	cp := *it
	return &cp, nil
}
func (r *memItemRepo) MarkSold(id string) error {
	it, ok := r.s.items[id]
	if !ok || it.Status != entity.ItemPending || it.Stock != 0 {
		return domain.ErrInvalidState
	}
	it.Status = entity.ItemSold
	return nil
}
func (r *memItemRepo) Release(id string, qty int) (*entity.Item, error) {
	it, ok := r.s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	it.Stock += qty
	it.Status = entity.StatusForStock(it.Stock)
	cp := *it
	return &cp, nil
}
func (r *memItemRepo) UpdatePrice(id string, price decimal.Decimal) error { return nil }
func (r *memItemRepo) UpdateStock(id string, stock int) error             { return nil }
func (r *memItemRepo) SetHidden(id string, hidden bool) error             { return nil }

type memSaleRepo struct{ s *memStore }

func (r *memSaleRepo) Create(sale *entity.Sale) error { r.s.sales[sale.ID] = sale; return nil }
func (r *memSaleRepo) CreateDetail(d *entity.SaleDetail) error {
	r.s.details[d.SaleID] = append(r.s.details[d.SaleID], d)
	return nil
}
func (r *memSaleRepo) GetByID(id string) (*entity.Sale, error) {
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *sale
	return &cp, nil
}
func (r *memSaleRepo) GetForUpdate(id string) (*entity.Sale, error) { return r.GetByID(id) }
func (r *memSaleRepo) GetDetails(saleID string) ([]*entity.SaleDetail, error) {
	return r.s.details[saleID], nil
}
func (r *memSaleRepo) ListByCompany(companyID string, warehouseIDs []string, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, sale := range r.s.sales {
		if sale.CompanyID != companyID {
			continue
		}
		if len(warehouseIDs) > 0 && !contains(warehouseIDs, sale.WarehouseID) {
			continue
		}
		out = append(out, sale)
	}
	return out, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
func (r *memSaleRepo) DeleteDetails(saleID string) error { delete(r.s.details, saleID); return nil }
func (r *memSaleRepo) Delete(id string) error            { delete(r.s.sales, id); return nil }

type memPaymentRepo struct{ s *memStore }

func (r *memPaymentRepo) Create(p *entity.Payment) error { r.s.payments[p.ID] = p; return nil }
func (r *memPaymentRepo) GetByID(id string) (*entity.Payment, error) {
	p, ok := r.s.payments[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}
func (r *memPaymentRepo) ListBySale(saleID string) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, p := range r.s.payments {
		if p.SaleID == saleID {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r *memPaymentRepo) SumBySale(saleID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range r.s.payments {
		if p.SaleID == saleID {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}
func (r *memPaymentRepo) CountBySale(saleID string) (int, error) {
	n := 0
	for _, p := range r.s.payments {
		if p.SaleID == saleID {
			n++
		}
	}
	return n, nil
}
func (r *memPaymentRepo) Delete(id string) error { delete(r.s.payments, id); return nil }

type memLeadRepo struct{ s *memStore }

func (r *memLeadRepo) Create(l *entity.Lead) error { r.s.leads[l.ID] = l; return nil }
func (r *memLeadRepo) GetByID(id string) (*entity.Lead, error) {
	l, ok := r.s.leads[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}
func (r *memLeadRepo) GetForUpdate(id string) (*entity.Lead, error) { return r.GetByID(id) }
func (r *memLeadRepo) ListByCompany(companyID, search string, limit, offset int) ([]*entity.Lead, error) {
	return nil, nil
}
func (r *memLeadRepo) Update(l *entity.Lead) error { r.s.leads[l.ID] = l; return nil }

type memDeliveryRepo struct{ s *memStore }

func (r *memDeliveryRepo) Create(d *entity.Delivery) error { r.s.deliveries[d.ID] = d; return nil }
func (r *memDeliveryRepo) GetByID(id string) (*entity.Delivery, error) {
	d, ok := r.s.deliveries[id]
	if !ok {
		return nil, nil
	}
	return d, nil
}
func (r *memDeliveryRepo) GetForUpdate(id string) (*entity.Delivery, error) { return r.GetByID(id) }
func (r *memDeliveryRepo) GetBySale(saleID string) (*entity.Delivery, error) {
	for _, d := range r.s.deliveries {
		if d.SaleID == saleID {
			return d, nil
		}
	}
	return nil, nil
}
func (r *memDeliveryRepo) ListByCompany(companyID string, warehouseIDs []string, limit, offset int) ([]*entity.Delivery, error) {
	return nil, nil
}
func (r *memDeliveryRepo) UpdateStatus(id, status string) error { return nil }
func (r *memDeliveryRepo) DeleteBySale(saleID string) error {
	for id, d := range r.s.deliveries {
		if d.SaleID == saleID {
			delete(r.s.deliveries, id)
		}
	}
	return nil
}

type memWarehouseRepo struct{ warehouses map[string]*entity.Warehouse }

func (r *memWarehouseRepo) Create(w *entity.Warehouse) error { return nil }
func (r *memWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return r.warehouses[id], nil
}
func (r *memWarehouseRepo) Update(w *entity.Warehouse) error { return nil }
func (r *memWarehouseRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	return nil, nil
}

type memCompanyRepo struct{ companies map[string]*entity.Company }

func (r *memCompanyRepo) Create(c *entity.Company) error { return nil }
func (r *memCompanyRepo) GetByID(id string) (*entity.Company, error) {
	return r.companies[id], nil
}
func (r *memCompanyRepo) Update(c *entity.Company) error { return nil }
func (r *memCompanyRepo) List(limit, offset int) ([]*entity.Company, error) { return nil, nil }

type memTxRunner struct {
	itemRepo     repository.ItemRepository
	saleRepo     repository.SaleRepository
	paymentRepo  repository.PaymentRepository
	leadRepo     repository.LeadRepository
	deliveryRepo repository.DeliveryRepository
}

func (t *memTxRunner) RunSale(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
	leadRepo repository.LeadRepository,
	deliveryRepo repository.DeliveryRepository,
) error) error {
	return fn(t.itemRepo, t.saleRepo, t.paymentRepo, t.leadRepo, t.deliveryRepo)
}

type stubReceipts struct{}

func (stubReceipts) Generate(data sales.ReceiptData) ([]byte, error) {
	return []byte("%PDF-stub"), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCompanyID   = "company-1"
	testWarehouseID = "warehouse-1"
)

func adminIdentity() identity.Identity {
	return identity.Identity{UserID: "user-1", CompanyID: testCompanyID, Role: entity.RoleAdmin}
}

// vendedorIdentity actor no admin limitado a las bodegas indicadas.
func vendedorIdentity(warehouseIDs ...string) identity.Identity {
	return identity.Identity{
		UserID: "user-2", CompanyID: testCompanyID,
		Role: entity.RoleVendedor, WarehouseIDs: warehouseIDs,
	}
}

func buildUseCase() (*sales.SaleUseCase, *memStore) {
	s := newMemStore()
	itemRepo := &memItemRepo{s: s}
	saleRepo := &memSaleRepo{s: s}
	paymentRepo := &memPaymentRepo{s: s}
	leadRepo := &memLeadRepo{s: s}
	deliveryRepo := &memDeliveryRepo{s: s}
	tx := &memTxRunner{
		itemRepo: itemRepo, saleRepo: saleRepo, paymentRepo: paymentRepo,
		leadRepo: leadRepo, deliveryRepo: deliveryRepo,
	}
	warehouseRepo := &memWarehouseRepo{warehouses: map[string]*entity.Warehouse{
		testWarehouseID: {ID: testWarehouseID, CompanyID: testCompanyID, Name: "Principal", Active: true},
	}}
	companyRepo := &memCompanyRepo{companies: map[string]*entity.Company{
		testCompanyID: {ID: testCompanyID, Name: "Tienda Demo"},
	}}
	uc := sales.NewSaleUseCase(tx, saleRepo, paymentRepo, itemRepo, leadRepo, warehouseRepo, companyRepo, stubReceipts{})
	return uc, s
}

func seedItem(s *memStore, id string, price int64, stock int) {
	p := decimal.NewFromInt(price)
	s.items[id] = &entity.Item{
		ID:          id,
		CompanyID:   testCompanyID,
		WarehouseID: testWarehouseID,
		Title:       "Artículo " + id,
		Price:       &p,
		Stock:       stock,
		Status:      entity.ItemAvailable,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Checkout
// ──────────────────────────────────────────────────────────────────────────────

func TestSaleCreate_TotalYReservaPorLinea(t *testing.T) {
	uc, s := buildUseCase()
	seedItem(s, "item-a", 50, 3)
	seedItem(s, "item-b", 20, 5)

	out, err := uc.Create(context.Background(), adminIdentity(), dto.CreateSaleRequest{
		WarehouseID: testWarehouseID,
		Method:      "efectivo",
		Lines: []dto.SaleLineRequest{
			{ItemID: "item-a", Quantity: 1},
			{ItemID: "item-b", Quantity: 2},
		},
	})
	require.NoError(t, err)

	// 50 + 2x20 = 90
	assert.True(t, out.Total.Equal(decimal.NewFromInt(90)), "total = suma de subtotales, obtuvo %s", out.Total)
	assert.Equal(t, entity.PaymentStatusPending, out.PaymentStatus)
	assert.True(t, out.Paid.IsZero())
	assert.Len(t, out.Details, 2)

	assert.Equal(t, 2, s.items["item-a"].Stock, "la reserva decrementa el stock")
	assert.Equal(t, 3, s.items["item-b"].Stock)
}

func TestSaleCreate_AgotaStockYMarcaSold(t *testing.T) {
	uc, s := buildUseCase()
	seedItem(s, "item-a", 50, 2)

	_, err := uc.Create(context.Background(), adminIdentity(), dto.CreateSaleRequest{
		WarehouseID: testWarehouseID,
		Method:      "efectivo",
		Lines:       []dto.SaleLineRequest{{ItemID: "item-a", Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ItemSold, s.items["item-a"].Status,
		"vender la última unidad marca el artículo SOLD")
}

func TestSaleCreate_ConsumeReservaCompletaPrevia(t *testing.T) {
	uc, s := buildUseCase()
	p := decimal.NewFromInt(50)
	// Artículo reservado por completo desde el endpoint de reserva.
	s.items["item-a"] = &entity.Item{
		ID: "item-a", CompanyID: testCompanyID, WarehouseID: testWarehouseID,
		Title: "Reservado", Price: &p, Stock: 0, Status: entity.ItemPending,
	}

	out, err := uc.Create(context.Background(), adminIdentity(), dto.CreateSaleRequest{
		WarehouseID: testWarehouseID,
		Method:      "efectivo",
		Lines:       []dto.SaleLineRequest{{ItemID: "item-a", Quantity: 1}},
	})
	require.NoError(t, err, "un artículo totalmente reservado debe ser vendible")
	assert.True(t, out.Total.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, entity.ItemSold, s.items["item-a"].Status,
		"la venta consume la reserva previa y marca SOLD")
	assert.Equal(t, 0, s.items["item-a"].Stock)
}

func TestSaleCreate_AbonoInicialQuedaRegistrado(t *testing.T) {
	uc, s := buildUseCase()
	seedItem(s, "item-a", 90, 1)

	initial := decimal.NewFromInt(30)
	out, err := uc.Create(context.Background(), adminIdentity(), dto.CreateSaleRequest{
		WarehouseID:    testWarehouseID,
		Method:         "efectivo",
		Lines:          []dto.SaleLineRequest{{ItemID: "item-a", Quantity: 1}},
		InitialPayment: &initial,
	})
	require.NoError(t, err)
	assert.True(t, out.Paid.Equal(decimal.NewFromInt(30)))
	assert.True(t, out.Outstanding.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, entity.PaymentStatusPending, out.PaymentStatus)
}

func TestSaleCreate_AbonoInicialMayorAlTotal(t *testing.T) {
	uc, s := buildUseCase()
	seedItem(s, "item-a", 90, 1)

	initial := decimal.NewFromInt(100)
	_, err := uc.Create(context.Background(), adminIdentity(), dto.CreateSaleRequest{
		WarehouseID:    testWarehouseID,
		Method:         "efectivo",
		Lines:          []dto.SaleLineRequest{{ItemID: "item-a", Quantity: 1}},
		InitialPayment: &initial,
	})
	assert.ErrorIs(t, err, domain.ErrOverpayment)
}

func TestSaleCreate_LineasDuplicadasSonInvalidas(t *testing.T) {
	uc, s := buildUseCase()
	seedItem(s, "item-a", 50, 5)

	_, err := uc.Create(context.Background(), adminIdentity(), dto.CreateSaleRequest{
		WarehouseID: testWarehouseID,
		Method:      "efectivo",
		Lines: []dto.SaleLineRequest{
			{ItemID: "item-a", Quantity: 1},
			{ItemID: "item-a", Quantity: 2},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSaleCreate_ArticuloSinPrecioNoEsVendible(t *testing.T) {
	uc, s := buildUseCase()
	s.items["item-x"] = &entity.Item{
		ID: "item-x", CompanyID: testCompanyID, WarehouseID: testWarehouseID,
		Title: "Sin precio", Stock: 3, Status: entity.ItemAvailable,
	}
	_, err := uc.Create(context.Background(), adminIdentity(), dto.CreateSaleRequest{
		WarehouseID: testWarehouseID,
		Method:      "efectivo",
		Lines:       []dto.SaleLineRequest{{ItemID: "item-x", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"un artículo sin precio se puede reservar pero no vender")
}

func TestSaleCreate_PrecioEsInstantanea(t *testing.T) {
	uc, s := buildUseCase()
	seedItem(s, "item-a", 50, 2)

	out, err := uc.Create(context.Background(), adminIdentity(), dto.CreateSaleRequest{
		WarehouseID: testWarehouseID,
		Method:      "efectivo",
		Lines:       []dto.SaleLineRequest{{ItemID: "item-a", Quantity: 1}},
	})
	require.NoError(t, err)

	// Subir el precio del artículo no altera la venta histórica.
	nuevo := decimal.NewFromInt(80)
	s.items["item-a"].Price = &nuevo

	got, err := uc.GetByID(adminIdentity(), out.ID)
	require.NoError(t, err)
	assert.True(t, got.Details[0].UnitPrice.Equal(decimal.NewFromInt(50)),
		"la línea conserva la instantánea del precio al momento de la venta")
	assert.True(t, got.Total.Equal(decimal.NewFromInt(50)))
}

func TestSaleCreate_ConvierteClienteNuevo(t *testing.T) {
	uc, s := buildUseCase()
	seedItem(s, "item-a", 50, 1)

	out, err := uc.Create(context.Background(), adminIdentity(), dto.CreateSaleRequest{
		WarehouseID: testWarehouseID,
		Method:      "efectivo",
		Lines:       []dto.SaleLineRequest{{ItemID: "item-a", Quantity: 1}},
		LeadInfo:    &dto.CreateLeadRequest{FirstName: "María", Phone: "3001234567"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, out.LeadID)

	lead := s.leads[out.LeadID]
	require.NotNil(t, lead)
	assert.Equal(t, entity.LeadConverted, lead.Status,
		"el cliente capturado en el checkout queda CONVERTED")
	assert.Equal(t, out.ID, lead.SaleID, "la conversión referencia la venta que la causó")
}

func TestSaleCreate_ClienteYaConvertidoNoSeReconvierte(t *testing.T) {
	uc, s := buildUseCase()
	seedItem(s, "item-a", 50, 1)
	s.leads["lead-1"] = &entity.Lead{
		ID: "lead-1", CompanyID: testCompanyID, FirstName: "Ana", Phone: "300",
		Status: entity.LeadConverted, SaleID: "venta-anterior",
	}

	out, err := uc.Create(context.Background(), adminIdentity(), dto.CreateSaleRequest{
		WarehouseID: testWarehouseID,
		Method:      "efectivo",
		Lines:       []dto.SaleLineRequest{{ItemID: "item-a", Quantity: 1}},
		LeadID:      "lead-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "lead-1", out.LeadID, "la venta queda vinculada al cliente")
	assert.Equal(t, "venta-anterior", s.leads["lead-1"].SaleID,
		"la conversión ocurre una sola vez; la venta de conversión no cambia")
}

func TestSaleCreate_LeadIDYLeadInfoSonExcluyentes(t *testing.T) {
	uc, s := buildUseCase()
	seedItem(s, "item-a", 50, 1)

	_, err := uc.Create(context.Background(), adminIdentity(), dto.CreateSaleRequest{
		WarehouseID: testWarehouseID,
		Method:      "efectivo",
		Lines:       []dto.SaleLineRequest{{ItemID: "item-a", Quantity: 1}},
		LeadID:      "lead-1",
		LeadInfo:    &dto.CreateLeadRequest{FirstName: "Ana", Phone: "300"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Abonos
// ──────────────────────────────────────────────────────────────────────────────

func crearVenta(t *testing.T, uc *sales.SaleUseCase, s *memStore, total int64) *dto.SaleResponse {
	t.Helper()
	seedItem(s, "item-venta", total, 1)
	out, err := uc.Create(context.Background(), adminIdentity(), dto.CreateSaleRequest{
		WarehouseID: testWarehouseID,
		Method:      "efectivo",
		Lines:       []dto.SaleLineRequest{{ItemID: "item-venta", Quantity: 1}},
	})
	require.NoError(t, err)
	return out
}

func TestAddPayment_CompletarElTotalDerivaPaid(t *testing.T) {
	uc, s := buildUseCase()
	venta := crearVenta(t, uc, s, 90)

	out, err := uc.AddPayment(context.Background(), adminIdentity(), venta.ID,
		dto.AddPaymentRequest{Amount: decimal.NewFromInt(30), Method: "efectivo"})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPending, out.PaymentStatus)

	out, err = uc.AddPayment(context.Background(), adminIdentity(), venta.ID,
		dto.AddPaymentRequest{Amount: decimal.NewFromInt(60), Method: "transferencia"})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, out.PaymentStatus,
		"30 + 60 = 90 debe derivar PAID")
	assert.True(t, out.Outstanding.IsZero())
}

func TestAddPayment_ExcederElTotalFalla(t *testing.T) {
	uc, s := buildUseCase()
	venta := crearVenta(t, uc, s, 90)

	_, err := uc.AddPayment(context.Background(), adminIdentity(), venta.ID,
		dto.AddPaymentRequest{Amount: decimal.NewFromInt(90), Method: "efectivo"})
	require.NoError(t, err)

	_, err = uc.AddPayment(context.Background(), adminIdentity(), venta.ID,
		dto.AddPaymentRequest{Amount: decimal.NewFromInt(1), Method: "efectivo"})
	assert.ErrorIs(t, err, domain.ErrOverpayment,
		"la suma de abonos nunca puede exceder el total")
}

func TestAddPayment_MontoNoPositivoEsInvalido(t *testing.T) {
	uc, s := buildUseCase()
	venta := crearVenta(t, uc, s, 90)

	_, err := uc.AddPayment(context.Background(), adminIdentity(), venta.ID,
		dto.AddPaymentRequest{Amount: decimal.Zero, Method: "efectivo"})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = uc.AddPayment(context.Background(), adminIdentity(), venta.ID,
		dto.AddPaymentRequest{Amount: decimal.NewFromInt(-5), Method: "efectivo"})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestDeletePayment_VentaPagadaVuelveAPending(t *testing.T) {
	uc, s := buildUseCase()
	venta := crearVenta(t, uc, s, 90)

	out, err := uc.AddPayment(context.Background(), adminIdentity(), venta.ID,
		dto.AddPaymentRequest{Amount: decimal.NewFromInt(90), Method: "efectivo"})
	require.NoError(t, err)
	require.Equal(t, entity.PaymentStatusPaid, out.PaymentStatus)

	out, err = uc.DeletePayment(context.Background(), adminIdentity(), venta.ID, out.Payments[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPending, out.PaymentStatus,
		"sin abonos el estado derivado vuelve a PENDING")
}

func TestDeletePayment_AbonoDeOtraVenta(t *testing.T) {
	uc, s := buildUseCase()
	venta := crearVenta(t, uc, s, 90)
	s.payments["ajeno"] = &entity.Payment{ID: "ajeno", SaleID: "otra-venta", Amount: decimal.NewFromInt(10)}

	_, err := uc.DeletePayment(context.Background(), adminIdentity(), venta.ID, "ajeno")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Eliminación de ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestSaleDelete_ConAbonosEsInmutable(t *testing.T) {
	uc, s := buildUseCase()
	venta := crearVenta(t, uc, s, 90)

	_, err := uc.AddPayment(context.Background(), adminIdentity(), venta.ID,
		dto.AddPaymentRequest{Amount: decimal.NewFromInt(10), Method: "efectivo"})
	require.NoError(t, err)

	err = uc.Delete(context.Background(), adminIdentity(), venta.ID)
	assert.ErrorIs(t, err, domain.ErrHasPayments)
	assert.NotNil(t, s.sales[venta.ID], "la venta debe seguir existiendo")
}

func TestSaleDelete_SinAbonosReponeStock(t *testing.T) {
	uc, s := buildUseCase()
	seedItem(s, "item-a", 50, 1)

	out, err := uc.Create(context.Background(), adminIdentity(), dto.CreateSaleRequest{
		WarehouseID: testWarehouseID,
		Method:      "efectivo",
		Lines:       []dto.SaleLineRequest{{ItemID: "item-a", Quantity: 1}},
	})
	require.NoError(t, err)
	require.Equal(t, entity.ItemSold, s.items["item-a"].Status)

	require.NoError(t, uc.Delete(context.Background(), adminIdentity(), out.ID))

	assert.Nil(t, s.sales[out.ID])
	assert.Equal(t, 1, s.items["item-a"].Stock, "eliminar la venta repone el stock reservado")
	assert.Equal(t, entity.ItemAvailable, s.items["item-a"].Status)
}

func TestSaleDelete_BorraEntregaAgendada(t *testing.T) {
	uc, s := buildUseCase()
	venta := crearVenta(t, uc, s, 90)
	s.deliveries["del-1"] = &entity.Delivery{
		ID: "del-1", CompanyID: testCompanyID, SaleID: venta.ID, Status: entity.DeliveryScheduled,
	}

	require.NoError(t, uc.Delete(context.Background(), adminIdentity(), venta.ID))
	assert.Nil(t, s.deliveries["del-1"], "la entrega de la venta eliminada no debe sobrevivir")
}

// ──────────────────────────────────────────────────────────────────────────────
// Alcance y comprobante
// ──────────────────────────────────────────────────────────────────────────────

func TestSaleGetByID_OtraEmpresaFueraDeAlcance(t *testing.T) {
	uc, s := buildUseCase()
	venta := crearVenta(t, uc, s, 90)

	ident := identity.Identity{UserID: "user-9", CompanyID: "otra-empresa", Role: entity.RoleAdmin}
	_, err := uc.GetByID(ident, venta.ID)
	assert.ErrorIs(t, err, domain.ErrScopeViolation)
}

func TestSaleGetByID_VendedorDeOtraBodegaFueraDeAlcance(t *testing.T) {
	uc, s := buildUseCase()
	venta := crearVenta(t, uc, s, 90)

	_, err := uc.GetByID(vendedorIdentity("warehouse-2"), venta.ID)
	assert.ErrorIs(t, err, domain.ErrScopeViolation,
		"una venta de otra bodega queda fuera del alcance de un vendedor")
}

func TestAddPayment_VendedorDeOtraBodegaFueraDeAlcance(t *testing.T) {
	uc, s := buildUseCase()
	venta := crearVenta(t, uc, s, 90)

	_, err := uc.AddPayment(context.Background(), vendedorIdentity("warehouse-2"), venta.ID,
		dto.AddPaymentRequest{Amount: decimal.NewFromInt(30), Method: "efectivo"})
	assert.ErrorIs(t, err, domain.ErrScopeViolation)
	assert.Empty(t, s.payments, "el abono fuera de alcance no debe registrarse")
}

func TestDeletePayment_VendedorDeOtraBodegaFueraDeAlcance(t *testing.T) {
	uc, s := buildUseCase()
	venta := crearVenta(t, uc, s, 90)

	out, err := uc.AddPayment(context.Background(), adminIdentity(), venta.ID,
		dto.AddPaymentRequest{Amount: decimal.NewFromInt(30), Method: "efectivo"})
	require.NoError(t, err)

	_, err = uc.DeletePayment(context.Background(), vendedorIdentity("warehouse-2"), venta.ID, out.Payments[0].ID)
	assert.ErrorIs(t, err, domain.ErrScopeViolation)
	assert.Len(t, s.payments, 1, "el abono debe sobrevivir")
}

func TestSaleDelete_VendedorDeOtraBodegaFueraDeAlcance(t *testing.T) {
	uc, s := buildUseCase()
	venta := crearVenta(t, uc, s, 90)

	err := uc.Delete(context.Background(), vendedorIdentity("warehouse-2"), venta.ID)
	assert.ErrorIs(t, err, domain.ErrScopeViolation)
	assert.NotNil(t, s.sales[venta.ID], "la venta debe seguir existiendo")
}

func TestSaleList_VendedorSoloVeSusBodegas(t *testing.T) {
	uc, s := buildUseCase()
	s.sales["venta-1"] = &entity.Sale{ID: "venta-1", CompanyID: testCompanyID, WarehouseID: testWarehouseID}
	s.sales["venta-2"] = &entity.Sale{ID: "venta-2", CompanyID: testCompanyID, WarehouseID: "warehouse-2"}

	out, err := uc.List(vendedorIdentity(testWarehouseID), dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1, "el listado se limita a las bodegas asignadas")
	assert.Equal(t, "venta-1", out.Items[0].ID)

	// Sin bodegas asignadas el listado queda vacío.
	out, err = uc.List(vendedorIdentity(), dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}

func TestSaleReceipt_GeneraPDF(t *testing.T) {
	uc, s := buildUseCase()
	venta := crearVenta(t, uc, s, 90)

	pdf, err := uc.Receipt(adminIdentity(), venta.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}
