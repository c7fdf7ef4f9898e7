package service

import (
	"context"
	"fmt"

	clientdomain "github.com/smallbiznis/facturo/internal/client/domain"
	documentdomain "github.com/smallbiznis/facturo/internal/document/domain"
	invoicedomain "github.com/smallbiznis/facturo/internal/invoice/domain"
	"github.com/smallbiznis/facturo/internal/objectstore"
	"github.com/smallbiznis/facturo/internal/providers/pdf"
	tenantdomain "github.com/smallbiznis/facturo/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	TenantSvc  tenantdomain.Service
	ClientSvc  clientdomain.Service
	InvoiceSvc invoicedomain.Service
	Store      objectstore.Store
	Renderer   pdf.Provider
}

type Service struct {
	log *zap.Logger

	tenantSvc  tenantdomain.Service
	clientSvc  clientdomain.Service
	invoiceSvc invoicedomain.Service
	store      objectstore.Store
	renderer   pdf.Provider
}

func New(p Params) documentdomain.Service {
	return &Service{
		log:        p.Log.Named("document.service"),
		tenantSvc:  p.TenantSvc,
		clientSvc:  p.ClientSvc,
		invoiceSvc: p.InvoiceSvc,
		store:      p.Store,
		renderer:   p.Renderer,
	}
}

func (s *Service) GetLink(ctx context.Context, tenantSlug, number string) (objectstore.SignedURL, error) {
	tenant, err := s.tenantSvc.ResolveSlug(ctx, tenantSlug)
	if err != nil {
		return objectstore.SignedURL{}, err
	}

	// The number alone is not globally unique; checking the invoice under
	// this tenant blocks link-guessing across tenants.
	detail, err := s.invoiceSvc.FindByTenantNumber(ctx, tenant.ID, number)
	if err != nil {
		return objectstore.SignedURL{}, err
	}

	key := fmt.Sprintf("%s/%s.pdf", tenant.Slug, detail.Number)

	exists, err := s.store.Exists(ctx, key)
	if err != nil {
		return objectstore.SignedURL{}, documentdomain.ErrGenerationFailed
	}
	if exists {
		// Idempotent fast path: never regenerate an existing document.
		return s.store.PresignGet(ctx, key)
	}

	data, err := s.buildInvoiceData(ctx, tenant, detail)
	if err != nil {
		return objectstore.SignedURL{}, err
	}

	blob, err := s.renderer.GenerateInvoice(ctx, data)
	if err != nil {
		s.log.Error("invoice render failed",
			zap.String("tenant", tenant.Slug),
			zap.String("number", detail.Number),
			zap.Error(err),
		)
		return objectstore.SignedURL{}, documentdomain.ErrGenerationFailed
	}

	if err := s.store.Upload(ctx, key, blob, "application/pdf"); err != nil {
		return objectstore.SignedURL{}, documentdomain.ErrGenerationFailed
	}

	s.log.Info("invoice document generated",
		zap.String("tenant", tenant.Slug),
		zap.String("number", detail.Number),
		zap.Int("bytes", len(blob)),
	)

	return s.store.PresignGet(ctx, key)
}

func (s *Service) buildInvoiceData(ctx context.Context, tenant tenantdomain.Tenant, detail invoicedomain.InvoiceDetail) (pdf.InvoiceData, error) {
	client, err := s.clientSvc.Resolve(ctx, tenant.ID, clientdomain.Ref{ID: detail.ClientID.String()})
	if err != nil {
		return pdf.InvoiceData{}, err
	}

	items := make([]pdf.InvoiceItem, 0, len(detail.Lines))
	for _, line := range detail.Lines {
		items = append(items, pdf.InvoiceItem{
			Description: line.Description,
			Quantity:    line.Quantity.String(),
			UnitPrice:   line.UnitPrice.StringFixed(2),
			LineTotal:   line.LineTotal.StringFixed(2),
		})
	}

	return pdf.InvoiceData{
		TenantName:  tenant.Name,
		TenantEmail: tenant.SupportEmail,
		Number:      detail.Number,
		Status:      string(detail.Status),
		IssueDate:   detail.IssueDate.Format("2006-01-02"),
		DueDate:     detail.DueDate.Format("2006-01-02"),
		Currency:    detail.Currency,
		BillToName:  client.Name,
		BillToEmail: client.Email,
		BillToAddr:  client.Address,
		Items:       items,
		Subtotal:    detail.Subtotal.StringFixed(2),
		TaxTotal:    detail.TaxTotal.StringFixed(2),
		Total:       detail.Total.StringFixed(2),
		BalanceDue:  detail.BalanceDue.StringFixed(2),
	}, nil
}
