package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestionale-api/internal/application/dto"
	"github.com/jhoicas/gestionale-api/internal/domain"
	fiscal "github.com/jhoicas/gestionale-api/internal/domain/billing"
	"github.com/jhoicas/gestionale-api/internal/domain/entity"
	"github.com/jhoicas/gestionale-api/internal/domain/repository"
)

// InvoiceConfig parámetros de facturación que vienen de la configuración.
type InvoiceConfig struct {
	DefaultTaxRate  decimal.Decimal // 0.22 si es cero
	StrictLifecycle bool
}

// InvoiceUseCase casos de uso de facturas: totales derivados de la base imponible y ciclo de vida.
type InvoiceUseCase struct {
	txRunner     BillingTxRunner
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	lifecycle    *fiscal.Lifecycle
	defaultRate  decimal.Decimal
	obs          Observer
	log          zerolog.Logger
}

// NewInvoiceUseCase construye el caso de uso. obs puede ser nil.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	cfg InvoiceConfig,
	obs Observer,
	log zerolog.Logger,
) *InvoiceUseCase {
	rate := cfg.DefaultTaxRate
	if rate.IsZero() {
		rate = fiscal.DefaultTaxRate
	}
	if obs == nil {
		obs = nopObserver{}
	}
	return &InvoiceUseCase{
		txRunner:     txRunner,
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		lifecycle:    fiscal.InvoiceLifecycle(cfg.StrictLifecycle),
		defaultRate:  rate,
		obs:          obs,
		log:          log,
	}
}

func (uc *InvoiceUseCase) rate(r *decimal.Decimal) decimal.Decimal {
	if r == nil {
		return uc.defaultRate
	}
	return *r
}

// Preview calcula iva y total sin persistir nada.
func (uc *InvoiceUseCase) Preview(in dto.PreviewTotalsRequest) (dto.TotalsResponse, error) {
	t, err := fiscal.Recompute(in.TaxableBase, uc.rate(in.TaxRate))
	if err != nil {
		return dto.TotalsResponse{}, err
	}
	return totalsResponse(t), nil
}

// Create crea la factura en borrador. Si trae líneas, la base imponible es la suma de sus importes.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	number := strings.TrimSpace(in.Number)
	if number == "" {
		return nil, fmt.Errorf("número obligatorio: %w", domain.ErrInvalidInput)
	}

	lines := make([]*entity.InvoiceLine, 0, len(in.Lines))
	base := in.TaxableBase
	if len(in.Lines) > 0 {
		amounts := make([]decimal.Decimal, 0, len(in.Lines))
		for _, l := range in.Lines {
			line, err := newLine(l)
			if err != nil {
				return nil, err
			}
			lines = append(lines, line)
			amounts = append(amounts, line.LineTotal)
		}
		base = fiscal.SumLines(amounts)
	}
	totals, err := fiscal.Recompute(base, uc.rate(in.TaxRate))
	if err != nil {
		return nil, err
	}

	inv := &entity.Invoice{
		Number:      number,
		CustomerID:  in.CustomerID,
		DueDate:     in.DueDate,
		Status:      entity.InvoiceDraft,
		TaxableBase: totals.TaxableBase,
		TaxRate:     totals.TaxRate,
		Tax:         totals.Tax,
		Total:       totals.Total,
		Notes:       in.Notes,
	}
	if in.IssueDate != nil {
		inv.IssueDate = *in.IssueDate
	}

	err = uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository, customerRepo repository.CustomerRepository) error {
		if inv.CustomerID != nil {
			customer, err := customerRepo.GetByID(ctx, *inv.CustomerID)
			if err != nil {
				return err
			}
			if customer == nil {
				return fmt.Errorf("cliente %d: %w", *inv.CustomerID, domain.ErrNotFound)
			}
			inv.Customer = customer
		}
		existing, err := invoiceRepo.GetByNumber(ctx, number)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("factura %s: %w", number, domain.ErrDuplicate)
		}
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		for _, l := range lines {
			l.InvoiceID = inv.ID
			if err := invoiceRepo.CreateLine(ctx, l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Int64("invoice_id", inv.ID).Str("number", inv.Number).Str("total", inv.Total.String()).Msg("factura creada")
	out := dto.InvoiceFromEntity(inv, lines)
	return &out, nil
}

// Get obtiene la factura con cliente y líneas.
func (uc *InvoiceUseCase) Get(ctx context.Context, id int64) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrInvoiceNotFound
	}
	lines, err := uc.invoiceRepo.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}
	// Filas modificadas fuera de la aplicación: se devuelven tal cual, pero queda constancia.
	if err := fiscal.ValidateTotals(inv, lines); err != nil {
		uc.log.Warn().Err(err).Int64("invoice_id", id).Str("number", inv.Number).Msg("totales incoherentes")
	}
	out := dto.InvoiceFromEntity(inv, lines)
	return &out, nil
}

// List facturas más recientes primero, con cliente.
func (uc *InvoiceUseCase) List(ctx context.Context, f repository.InvoiceFilter) ([]dto.InvoiceResponse, error) {
	if f.Status != "" && !uc.lifecycle.Valid(f.Status) {
		return nil, fmt.Errorf("estado %q: %w", f.Status, domain.ErrInvalidInput)
	}
	if f.Limit <= 0 {
		f.Limit = 50
	}
	list, err := uc.invoiceRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, dto.InvoiceFromEntity(inv, nil))
	}
	return out, nil
}

// UpdateTaxableBase fija la base (y opcionalmente el tipo) de una factura en borrador sin líneas
// y recalcula iva y total.
func (uc *InvoiceUseCase) UpdateTaxableBase(ctx context.Context, id int64, in dto.TaxableBaseRequest) (*dto.InvoiceResponse, error) {
	var (
		inv   *entity.Invoice
		lines []*entity.InvoiceLine
	)
	err := uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository, _ repository.CustomerRepository) error {
		var err error
		inv, err = uc.editable(ctx, invoiceRepo, id)
		if err != nil {
			return err
		}
		lines, err = invoiceRepo.ListLines(ctx, id)
		if err != nil {
			return err
		}
		if len(lines) > 0 {
			return fmt.Errorf("la base imponible se calcula a partir de las líneas: %w", domain.ErrInvalidInput)
		}
		rate := inv.TaxRate
		if in.TaxRate != nil {
			rate = *in.TaxRate
		}
		return uc.applyTotals(ctx, invoiceRepo, inv, in.TaxableBase, rate)
	})
	if err != nil {
		return nil, err
	}
	out := dto.InvoiceFromEntity(inv, lines)
	return &out, nil
}

// AddLine añade una línea a una factura en borrador; la base pasa a ser la suma de las líneas.
func (uc *InvoiceUseCase) AddLine(ctx context.Context, id int64, in dto.InvoiceLineRequest) (*dto.InvoiceResponse, error) {
	line, err := newLine(in)
	if err != nil {
		return nil, err
	}
	var (
		inv   *entity.Invoice
		lines []*entity.InvoiceLine
	)
	err = uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository, _ repository.CustomerRepository) error {
		var err error
		inv, err = uc.editable(ctx, invoiceRepo, id)
		if err != nil {
			return err
		}
		line.InvoiceID = id
		if err := invoiceRepo.CreateLine(ctx, line); err != nil {
			return err
		}
		lines, err = invoiceRepo.ListLines(ctx, id)
		if err != nil {
			return err
		}
		amounts := make([]decimal.Decimal, 0, len(lines))
		for _, l := range lines {
			amounts = append(amounts, l.LineTotal)
		}
		return uc.applyTotals(ctx, invoiceRepo, inv, fiscal.SumLines(amounts), inv.TaxRate)
	})
	if err != nil {
		return nil, err
	}
	out := dto.InvoiceFromEntity(inv, lines)
	return &out, nil
}

// Transition cambia el estado. Solo persiste el estado: los totales no se tocan.
// Pasar al mismo estado no escribe nada.
func (uc *InvoiceUseCase) Transition(ctx context.Context, id int64, to string) (*dto.InvoiceResponse, error) {
	var (
		inv  *entity.Invoice
		from string
	)
	err := uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository, _ repository.CustomerRepository) error {
		var err error
		inv, err = invoiceRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrInvoiceNotFound
		}
		from = inv.Status
		if err := uc.lifecycle.Check(from, to); err != nil {
			return fmt.Errorf("%s → %s: %w", from, to, err)
		}
		if from == to {
			return nil
		}
		if err := invoiceRepo.UpdateStatus(ctx, id, to); err != nil {
			return err
		}
		inv.Status = to
		return nil
	})
	if err != nil {
		return nil, err
	}
	if from != to {
		uc.obs.InvoiceTransition(from, to)
		uc.log.Info().Int64("invoice_id", id).Str("from", from).Str("to", to).Msg("estado de factura cambiado")
	}
	out := dto.InvoiceFromEntity(inv, nil)
	return &out, nil
}

// Delete elimina la factura y sus líneas.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id int64) error {
	return uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository, _ repository.CustomerRepository) error {
		return invoiceRepo.Delete(ctx, id)
	})
}

func (uc *InvoiceUseCase) editable(ctx context.Context, repo repository.InvoiceRepository, id int64) (*entity.Invoice, error) {
	inv, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrInvoiceNotFound
	}
	if inv.Status != entity.InvoiceDraft {
		return nil, domain.ErrInvoiceNotEditable
	}
	return inv, nil
}

func (uc *InvoiceUseCase) applyTotals(ctx context.Context, repo repository.InvoiceRepository, inv *entity.Invoice, base, rate decimal.Decimal) error {
	t, err := fiscal.Recompute(base, rate)
	if err != nil {
		return err
	}
	inv.TaxableBase, inv.TaxRate, inv.Tax, inv.Total = t.TaxableBase, t.TaxRate, t.Tax, t.Total
	inv.UpdatedAt = time.Now().UTC()
	return repo.UpdateTotals(ctx, inv)
}

func newLine(in dto.InvoiceLineRequest) (*entity.InvoiceLine, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return nil, fmt.Errorf("descripción de línea obligatoria: %w", domain.ErrInvalidInput)
	}
	total, err := fiscal.LineTotal(in.Quantity, in.UnitPrice)
	if err != nil {
		return nil, err
	}
	return &entity.InvoiceLine{
		ProductID:   in.ProductID,
		Description: desc,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		LineTotal:   total,
	}, nil
}

func totalsResponse(t fiscal.Totals) dto.TotalsResponse {
	return dto.TotalsResponse{TaxableBase: t.TaxableBase, TaxRate: t.TaxRate, Tax: t.Tax, Total: t.Total}
}
