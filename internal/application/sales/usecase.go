package sales

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tienda-pro/internal/application/dto"
	"github.com/tu-usuario/tienda-pro/internal/domain"
	"github.com/tu-usuario/tienda-pro/internal/domain/entity"
	"github.com/tu-usuario/tienda-pro/internal/domain/identity"
	"github.com/tu-usuario/tienda-pro/internal/domain/repository"
)

// SaleUseCase opera el libro de ventas: checkout atómico con reserva de
// artículos, abonos con tope en el total y eliminación solo sin abonos.
// El estado de pago nunca se almacena: toda lectura lo deriva de los abonos.
type SaleUseCase struct {
	txRunner      TxRunner
	saleRepo      repository.SaleRepository
	paymentRepo   repository.PaymentRepository
	itemRepo      repository.ItemRepository
	leadRepo      repository.LeadRepository
	warehouseRepo repository.WarehouseRepository
	companyRepo   repository.CompanyRepository
	receipts      ReceiptGenerator
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
	itemRepo repository.ItemRepository,
	leadRepo repository.LeadRepository,
	warehouseRepo repository.WarehouseRepository,
	companyRepo repository.CompanyRepository,
	receipts ReceiptGenerator,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:      txRunner,
		saleRepo:      saleRepo,
		paymentRepo:   paymentRepo,
		itemRepo:      itemRepo,
		leadRepo:      leadRepo,
		warehouseRepo: warehouseRepo,
		companyRepo:   companyRepo,
		receipts:      receipts,
	}
}

// Create es el checkout: reserva cada línea, crea la venta con instantánea de
// precios, registra el abono inicial y convierte al cliente potencial, todo en
// una transacción. Cualquier falla revierte la operación completa.
//
// Las líneas se procesan en orden ascendente de artículo para que dos ventas
// concurrentes sobre los mismos artículos no se bloqueen mutuamente.
//
// Un artículo totalmente reservado (PENDING con stock cero) es vendible:
// la venta consume la reserva previa y lo marca SOLD directamente.
func (uc *SaleUseCase) Create(ctx context.Context, ident identity.Identity, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Lines) == 0 || in.Method == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.LeadID != "" && in.LeadInfo != nil {
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

	lines := make([]dto.SaleLineRequest, len(in.Lines))
	copy(lines, in.Lines)
	sort.Slice(lines, func(i, j int) bool { return lines[i].ItemID < lines[j].ItemID })
	for i, ln := range lines {
		if ln.ItemID == "" || ln.Quantity < 1 {
			return nil, domain.ErrInvalidInput
		}
		if i > 0 && ln.ItemID == lines[i-1].ItemID {
			return nil, domain.ErrInvalidInput
		}
	}

	var sale *entity.Sale
	err = uc.txRunner.RunSale(ctx, func(
		itemRepo repository.ItemRepository,
		saleRepo repository.SaleRepository,
		paymentRepo repository.PaymentRepository,
		leadRepo repository.LeadRepository,
		_ repository.DeliveryRepository,
	) error {
		now := time.Now()

		var lead *entity.Lead
		switch {
		case in.LeadInfo != nil:
			if in.LeadInfo.FirstName == "" || in.LeadInfo.Phone == "" {
				return domain.ErrInvalidInput
			}
			lead = &entity.Lead{
				ID:        uuid.New().String(),
				CompanyID: ident.CompanyID,
				FirstName: in.LeadInfo.FirstName,
				LastName:  in.LeadInfo.LastName,
				Phone:     in.LeadInfo.Phone,
				Status:    entity.LeadPending,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := leadRepo.Create(lead); err != nil {
				return err
			}
		case in.LeadID != "":
			l, err := leadRepo.GetForUpdate(in.LeadID)
			if err != nil {
				return err
			}
			if l == nil {
				return domain.ErrNotFound
			}
			if err := ident.CheckCompany(l.CompanyID); err != nil {
				return err
			}
			lead = l
		}

		total := decimal.Zero
		details := make([]*entity.SaleDetail, 0, len(lines))
		for _, ln := range lines {
			item, err := itemRepo.GetForUpdate(ln.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.ErrNotFound
			}
			if err := ident.CheckWarehouse(item.CompanyID, item.WarehouseID); err != nil {
				return err
			}
			if item.WarehouseID != in.WarehouseID {
				return domain.ErrInvalidInput
			}
			if item.Price == nil {
				// reservable sin precio, vendible no
				return domain.ErrInvalidInput
			}
			if item.Status == entity.ItemPending && item.Stock == 0 {
				// Reserva previa completa: se consume y pasa a SOLD.
				if err := itemRepo.MarkSold(ln.ItemID); err != nil {
					return err
				}
			} else {
				reserved, err := itemRepo.Reserve(ln.ItemID, ln.Quantity)
				if err != nil {
					return err
				}
				if reserved.Stock == 0 {
					if err := itemRepo.MarkSold(ln.ItemID); err != nil {
						return err
					}
				}
			}
			d := &entity.SaleDetail{
				ID:        uuid.New().String(),
				ItemID:    ln.ItemID,
				Quantity:  ln.Quantity,
				UnitPrice: *item.Price,
			}
			details = append(details, d)
			total = total.Add(d.Subtotal())
		}

		s := &entity.Sale{
			ID:          uuid.New().String(),
			CompanyID:   ident.CompanyID,
			WarehouseID: in.WarehouseID,
			Method:      in.Method,
			Total:       total,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if lead != nil {
			s.LeadID = lead.ID
		}
		if err := saleRepo.Create(s); err != nil {
			return err
		}
		for _, d := range details {
			d.SaleID = s.ID
			if err := saleRepo.CreateDetail(d); err != nil {
				return err
			}
		}

		if in.InitialPayment != nil {
			amount := *in.InitialPayment
			if !amount.IsPositive() {
				return domain.ErrInvalidAmount
			}
			if amount.GreaterThan(total) {
				return domain.ErrOverpayment
			}
			p := &entity.Payment{
				ID:        uuid.New().String(),
				SaleID:    s.ID,
				Amount:    amount,
				Method:    in.Method,
				Date:      now,
				CreatedAt: now,
			}
			if err := paymentRepo.Create(p); err != nil {
				return err
			}
		}

		// La conversión del cliente ocurre una sola vez; compras posteriores
		// quedan vinculadas sin reconvertirlo.
		if lead != nil && lead.Status == entity.LeadPending {
			lead.Status = entity.LeadConverted
			lead.SaleID = s.ID
			lead.UpdatedAt = now
			if err := leadRepo.Update(lead); err != nil {
				return err
			}
		}

		sale = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.buildResponse(sale, true)
}

// GetByID devuelve una venta con sus líneas, abonos y estado de pago derivado.
func (uc *SaleUseCase) GetByID(ident identity.Identity, id string) (*dto.SaleResponse, error) {
	sale, err := uc.loadScoped(ident, id)
	if err != nil {
		return nil, err
	}
	return uc.buildResponse(sale, true)
}

// List lista las ventas de la empresa, más recientes primero. Los roles no
// admin solo ven las ventas de sus bodegas asignadas.
func (uc *SaleUseCase) List(ident identity.Identity, page dto.PageRequest) (*dto.SaleListResponse, error) {
	page.DefaultPage()
	var warehouseIDs []string
	if ident.Role != entity.RoleAdmin {
		if len(ident.WarehouseIDs) == 0 {
			return &dto.SaleListResponse{
				Items: []dto.SaleResponse{},
				Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
			}, nil
		}
		warehouseIDs = ident.WarehouseIDs
	}
	list, err := uc.saleRepo.ListByCompany(ident.CompanyID, warehouseIDs, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		resp, err := uc.buildResponse(s, false)
		if err != nil {
			return nil, err
		}
		items = append(items, *resp)
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// AddPayment registra un abono. La suma de abonos nunca puede exceder el
// total: la venta se bloquea durante la verificación para que dos abonos
// concurrentes no lo sobrepasen.
func (uc *SaleUseCase) AddPayment(ctx context.Context, ident identity.Identity, saleID string, in dto.AddPaymentRequest) (*dto.SaleResponse, error) {
	if in.Method == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	var sale *entity.Sale
	err := uc.txRunner.RunSale(ctx, func(
		_ repository.ItemRepository,
		saleRepo repository.SaleRepository,
		paymentRepo repository.PaymentRepository,
		_ repository.LeadRepository,
		_ repository.DeliveryRepository,
	) error {
		s, err := saleRepo.GetForUpdate(saleID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if err := ident.CheckWarehouse(s.CompanyID, s.WarehouseID); err != nil {
			return err
		}
		paid, err := paymentRepo.SumBySale(saleID)
		if err != nil {
			return err
		}
		if paid.Add(in.Amount).GreaterThan(s.Total) {
			return domain.ErrOverpayment
		}
		now := time.Now()
		p := &entity.Payment{
			ID:        uuid.New().String(),
			SaleID:    saleID,
			Amount:    in.Amount,
			Method:    in.Method,
			Date:      now,
			CreatedAt: now,
		}
		if err := paymentRepo.Create(p); err != nil {
			return err
		}
		sale = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.buildResponse(sale, true)
}

// DeletePayment elimina un abono (corrección de staff). Si la venta estaba
// pagada vuelve a PENDING por derivación, sin estado que actualizar.
func (uc *SaleUseCase) DeletePayment(ctx context.Context, ident identity.Identity, saleID, paymentID string) (*dto.SaleResponse, error) {
	var sale *entity.Sale
	err := uc.txRunner.RunSale(ctx, func(
		_ repository.ItemRepository,
		saleRepo repository.SaleRepository,
		paymentRepo repository.PaymentRepository,
		_ repository.LeadRepository,
		_ repository.DeliveryRepository,
	) error {
		s, err := saleRepo.GetForUpdate(saleID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if err := ident.CheckWarehouse(s.CompanyID, s.WarehouseID); err != nil {
			return err
		}
		p, err := paymentRepo.GetByID(paymentID)
		if err != nil {
			return err
		}
		if p == nil || p.SaleID != saleID {
			return domain.ErrNotFound
		}
		if err := paymentRepo.Delete(paymentID); err != nil {
			return err
		}
		sale = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.buildResponse(sale, true)
}

// Delete elimina una venta sin abonos: repone el stock reservado de cada
// línea, borra su entrega agendada si existe y elimina líneas y venta en una
// transacción. Con abonos registrados la venta es inmutable (ErrHasPayments).
func (uc *SaleUseCase) Delete(ctx context.Context, ident identity.Identity, id string) error {
	return uc.txRunner.RunSale(ctx, func(
		itemRepo repository.ItemRepository,
		saleRepo repository.SaleRepository,
		paymentRepo repository.PaymentRepository,
		_ repository.LeadRepository,
		deliveryRepo repository.DeliveryRepository,
	) error {
		s, err := saleRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if err := ident.CheckWarehouse(s.CompanyID, s.WarehouseID); err != nil {
			return err
		}
		count, err := paymentRepo.CountBySale(id)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrHasPayments
		}
		details, err := saleRepo.GetDetails(id)
		if err != nil {
			return err
		}
		for _, d := range details {
			if _, err := itemRepo.Release(d.ItemID, d.Quantity); err != nil {
				return err
			}
		}
		if err := deliveryRepo.DeleteBySale(id); err != nil {
			return err
		}
		if err := saleRepo.DeleteDetails(id); err != nil {
			return err
		}
		return saleRepo.Delete(id)
	})
}

// Receipt genera el comprobante PDF de la venta.
func (uc *SaleUseCase) Receipt(ident identity.Identity, id string) ([]byte, error) {
	sale, err := uc.loadScoped(ident, id)
	if err != nil {
		return nil, err
	}
	details, err := uc.saleRepo.GetDetails(id)
	if err != nil {
		return nil, err
	}
	paid, err := uc.paymentRepo.SumBySale(id)
	if err != nil {
		return nil, err
	}

	data := ReceiptData{
		SaleID:        sale.ID,
		Date:          sale.CreatedAt,
		Total:         sale.Total,
		Paid:          paid,
		Outstanding:   sale.Outstanding(paid),
		PaymentStatus: sale.PaymentStatus(paid),
	}
	if company, err := uc.companyRepo.GetByID(sale.CompanyID); err != nil {
		return nil, err
	} else if company != nil {
		data.CompanyName = company.Name
	}
	if sale.LeadID != "" {
		lead, err := uc.leadRepo.GetByID(sale.LeadID)
		if err != nil {
			return nil, err
		}
		if lead != nil {
			data.CustomerName = lead.FirstName + " " + lead.LastName
		}
	}
	for _, d := range details {
		title := d.ItemID
		if item, err := uc.itemRepo.GetByID(d.ItemID); err != nil {
			return nil, err
		} else if item != nil {
			title = item.Title
		}
		data.Lines = append(data.Lines, ReceiptLine{
			Title:     title,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
			Subtotal:  d.Subtotal(),
		})
	}
	return uc.receipts.Generate(data)
}

func (uc *SaleUseCase) loadScoped(ident identity.Identity, id string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if err := ident.CheckWarehouse(sale.CompanyID, sale.WarehouseID); err != nil {
		return nil, err
	}
	return sale, nil
}

// buildResponse arma el DTO derivando el estado de pago desde los abonos.
// Con full=false omite líneas y abonos (listados).
func (uc *SaleUseCase) buildResponse(sale *entity.Sale, full bool) (*dto.SaleResponse, error) {
	paid, err := uc.paymentRepo.SumBySale(sale.ID)
	if err != nil {
		return nil, err
	}
	resp := &dto.SaleResponse{
		ID:            sale.ID,
		CompanyID:     sale.CompanyID,
		WarehouseID:   sale.WarehouseID,
		LeadID:        sale.LeadID,
		Method:        sale.Method,
		Total:         sale.Total,
		Paid:          paid,
		Outstanding:   sale.Outstanding(paid),
		PaymentStatus: sale.PaymentStatus(paid),
		CreatedAt:     sale.CreatedAt,
	}
	if !full {
		return resp, nil
	}
	details, err := uc.saleRepo.GetDetails(sale.ID)
	if err != nil {
		return nil, err
	}
	for _, d := range details {
		resp.Details = append(resp.Details, dto.SaleDetailResponse{
			ID:        d.ID,
			ItemID:    d.ItemID,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
			Subtotal:  d.Subtotal(),
		})
	}
	payments, err := uc.paymentRepo.ListBySale(sale.ID)
	if err != nil {
		return nil, err
	}
	for _, p := range payments {
		resp.Payments = append(resp.Payments, dto.PaymentResponse{
			ID:     p.ID,
			Amount: p.Amount,
			Method: p.Method,
			Date:   p.Date,
		})
	}
	return resp, nil
}
