package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	clientdomain "github.com/smallbiznis/facturo/internal/client/domain"
	invoicedomain "github.com/smallbiznis/facturo/internal/invoice/domain"
	sequencedomain "github.com/smallbiznis/facturo/internal/sequence/domain"
	tenantdomain "github.com/smallbiznis/facturo/internal/tenant/domain"
	"github.com/smallbiznis/facturo/pkg/db/pagination"
	"github.com/smallbiznis/facturo/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	TenantSvc   tenantdomain.Service
	ClientSvc   clientdomain.Service
	SequenceSvc sequencedomain.Service
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node

	tenantSvc   tenantdomain.Service
	clientSvc   clientdomain.Service
	sequenceSvc sequencedomain.Service
}

func New(p Params) invoicedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("invoice.service"),
		genID: p.GenID,

		tenantSvc:   p.TenantSvc,
		clientSvc:   p.ClientSvc,
		sequenceSvc: p.SequenceSvc,
	}
}

// issueInput is the validated form of an IssueRequest.
type issueInput struct {
	slug      string
	clientRef clientdomain.Ref
	issueDate time.Time
	dueDate   time.Time
	currency  string
	subtotal  decimal.Decimal
	taxTotal  decimal.Decimal
	total     decimal.Decimal
	quoteRef  *string
}

func (s *Service) Issue(ctx context.Context, req invoicedomain.IssueRequest) (invoicedomain.IssueResponse, error) {
	// All field checks run before any lookup or allocation: a validation
	// error must never advance a counter or touch storage.
	input, err := validateIssueRequest(req)
	if err != nil {
		return invoicedomain.IssueResponse{}, err
	}

	tenant, err := s.tenantSvc.ResolveSlug(ctx, input.slug)
	if err != nil {
		return invoicedomain.IssueResponse{}, err
	}

	client, err := s.clientSvc.Resolve(ctx, tenant.ID, input.clientRef)
	if err != nil {
		return invoicedomain.IssueResponse{}, err
	}

	alloc, err := s.sequenceSvc.Allocate(ctx, tenant.ID, tenant.InvoicePrefix)
	if err != nil {
		return invoicedomain.IssueResponse{}, err
	}

	now := time.Now().UTC()
	inv := invoicedomain.Invoice{
		ID:         s.genID.Generate(),
		TenantID:   tenant.ID,
		ClientID:   client.ID,
		Number:     alloc.Number,
		Sequence:   alloc.Sequence,
		Status:     invoicedomain.InvoiceStatusDraft,
		Currency:   input.currency,
		IssueDate:  input.issueDate,
		DueDate:    input.dueDate,
		Subtotal:   input.subtotal,
		TaxTotal:   input.taxTotal,
		Total:      input.total,
		BalanceDue: input.total,
		QuoteRef:   input.quoteRef,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.db.WithContext(ctx).Create(&inv).Error; err != nil {
		// The allocated number is burned here; sparse numbering is accepted,
		// reusing a number is not.
		s.log.Error("invoice header insert failed",
			zap.String("tenant_id", tenant.ID.String()),
			zap.String("number", alloc.Number),
			zap.Error(err),
		)
		return invoicedomain.IssueResponse{}, invoicedomain.ErrPersistence
	}

	resp := invoicedomain.IssueResponse{
		ID:     inv.ID.String(),
		Number: inv.Number,
	}

	if len(req.Lines) > 0 {
		items := s.buildLineItems(tenant.ID, inv.ID, req.Lines, now)
		if err := s.db.WithContext(ctx).Create(&items).Error; err != nil {
			// Non-fatal: the header is valid and retrievable, the caller may
			// retry just the items.
			s.log.Warn("line item insert failed",
				zap.String("invoice_id", inv.ID.String()),
				zap.Int("count", len(items)),
				zap.Error(err),
			)
			resp.LineItemsError = "line_items_failed"
		}
	}

	return resp, nil
}

func (s *Service) buildLineItems(tenantID, invoiceID snowflake.ID, lines []invoicedomain.IssueLine, now time.Time) []invoicedomain.InvoiceLineItem {
	items := make([]invoicedomain.InvoiceLineItem, 0, len(lines))
	for i, line := range lines {
		quantity := coerceDecimal(line.Quantity)
		unitPrice := coerceDecimal(line.UnitPrice)
		lineTotal := coerceDecimal(line.LineTotal)
		if line.LineTotal == nil {
			lineTotal = quantity.Mul(unitPrice).Round(2)
		}
		items = append(items, invoicedomain.InvoiceLineItem{
			ID:          s.genID.Generate(),
			TenantID:    tenantID,
			InvoiceID:   invoiceID,
			Description: strings.TrimSpace(line.Description),
			Quantity:    quantity,
			UnitPrice:   unitPrice,
			LineTotal:   lineTotal,
			Position:    i + 1,
			CreatedAt:   now,
		})
	}
	return items
}

func (s *Service) List(ctx context.Context, req invoicedomain.ListInvoiceRequest) (invoicedomain.ListInvoiceResponse, error) {
	tenantID, ok := tenantctx.TenantID(ctx)
	if !ok || tenantID == 0 {
		return invoicedomain.ListInvoiceResponse{}, invoicedomain.ErrInvalidTenant
	}

	filter := &invoicedomain.Invoice{TenantID: tenantID}
	if req.Status != nil {
		filter.Status = *req.Status
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	// The cursor carries the same key the query orders by: concurrent
	// issuance can hand out IDs in a different order than sequences, so
	// paging on ID would skip or repeat rows at page boundaries.
	query := s.db.WithContext(ctx).
		Where(filter).
		Order("sequence ASC").
		Limit(pageSize + 1)

	if token := strings.TrimSpace(req.PageToken); token != "" {
		cursor, err := pagination.DecodeCursor(token)
		if err != nil {
			return invoicedomain.ListInvoiceResponse{}, err
		}
		if cursor.Sequence > 0 {
			query = query.Where("sequence > ?", cursor.Sequence)
		}
	}

	var invoices []invoicedomain.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		return invoicedomain.ListInvoiceResponse{}, err
	}

	resp := invoicedomain.ListInvoiceResponse{}
	if len(invoices) > pageSize {
		invoices = invoices[:pageSize]
		resp.HasMore = true
		token, err := pagination.EncodeCursor(pagination.Cursor{
			Sequence: invoices[len(invoices)-1].Sequence,
		})
		if err != nil {
			return invoicedomain.ListInvoiceResponse{}, err
		}
		resp.NextPageToken = token
	}
	resp.Invoices = invoices

	return resp, nil
}

func (s *Service) GetByNumber(ctx context.Context, number string) (invoicedomain.InvoiceDetail, error) {
	tenantID, ok := tenantctx.TenantID(ctx)
	if !ok || tenantID == 0 {
		return invoicedomain.InvoiceDetail{}, invoicedomain.ErrInvalidTenant
	}
	return s.FindByTenantNumber(ctx, tenantID, number)
}

func (s *Service) FindByTenantNumber(ctx context.Context, tenantID snowflake.ID, number string) (invoicedomain.InvoiceDetail, error) {
	number = strings.TrimSpace(number)
	if tenantID == 0 || number == "" {
		return invoicedomain.InvoiceDetail{}, invoicedomain.ErrInvoiceNotFound
	}

	var inv invoicedomain.Invoice
	err := s.db.WithContext(ctx).
		Where(&invoicedomain.Invoice{TenantID: tenantID, Number: number}).
		First(&inv).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return invoicedomain.InvoiceDetail{}, invoicedomain.ErrInvoiceNotFound
		}
		return invoicedomain.InvoiceDetail{}, err
	}

	var lines []invoicedomain.InvoiceLineItem
	err = s.db.WithContext(ctx).
		Where(&invoicedomain.InvoiceLineItem{TenantID: tenantID, InvoiceID: inv.ID}).
		Order("position ASC").
		Find(&lines).Error
	if err != nil {
		return invoicedomain.InvoiceDetail{}, err
	}

	return invoicedomain.InvoiceDetail{Invoice: inv, Lines: lines}, nil
}

func validateIssueRequest(req invoicedomain.IssueRequest) (issueInput, error) {
	input := issueInput{}

	input.slug = strings.ToLower(strings.TrimSpace(req.TenantSlug))
	if input.slug == "" {
		return issueInput{}, invoicedomain.ErrMissingTenantSlug
	}

	input.clientRef = clientdomain.Ref{
		ID:         strings.TrimSpace(req.ClientID),
		ExternalID: strings.TrimSpace(req.ClientExternalID),
	}
	if input.clientRef.Empty() {
		return issueInput{}, invoicedomain.ErrMissingClientRef
	}

	issueDate, err := parseDate(req.IssueDate)
	if err != nil {
		return issueInput{}, invoicedomain.ErrInvalidIssueDate
	}
	input.issueDate = issueDate

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return issueInput{}, invoicedomain.ErrInvalidDueDate
	}
	input.dueDate = dueDate

	input.currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if len(input.currency) != 3 {
		return issueInput{}, invoicedomain.ErrInvalidCurrency
	}

	if input.subtotal, err = parseAmount(req.Subtotal); err != nil {
		return issueInput{}, invoicedomain.ErrInvalidAmount
	}
	if input.taxTotal, err = parseAmount(req.TaxTotal); err != nil {
		return issueInput{}, invoicedomain.ErrInvalidAmount
	}
	if input.total, err = parseAmount(req.Total); err != nil {
		return issueInput{}, invoicedomain.ErrInvalidAmount
	}

	if quote := strings.TrimSpace(req.QuoteRef); quote != "" {
		input.quoteRef = &quote
	}

	return input, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func parseAmount(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(raw))
}

// coerceDecimal applies basic numeric coercion to caller-supplied line
// values; anything non-numeric becomes zero.
func coerceDecimal(v any) decimal.Decimal {
	switch typed := v.(type) {
	case nil:
		return decimal.Zero
	case float64:
		return decimal.NewFromFloat(typed)
	case int:
		return decimal.NewFromInt(int64(typed))
	case int64:
		return decimal.NewFromInt(typed)
	case json.Number:
		parsed, err := decimal.NewFromString(typed.String())
		if err != nil {
			return decimal.Zero
		}
		return parsed
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(typed))
		if err != nil {
			return decimal.Zero
		}
		return parsed
	default:
		return decimal.Zero
	}
}
