package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	gosimpleslug "github.com/gosimple/slug"
	"github.com/smallbiznis/facturo/internal/invoice/format"
	"github.com/smallbiznis/facturo/internal/tenant/domain"
	"github.com/smallbiznis/facturo/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("tenant.service"),
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateTenantRequest) (domain.Tenant, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Tenant{}, domain.ErrInvalidName
	}

	rawSlug := strings.TrimSpace(req.Slug)
	if rawSlug == "" {
		rawSlug = name
	}
	normalized := gosimpleslug.Make(rawSlug)
	if normalized == "" {
		return domain.Tenant{}, domain.ErrInvalidSlug
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}
	if len(currency) != 3 {
		return domain.Tenant{}, domain.ErrInvalidCurrency
	}

	prefix := strings.ToUpper(strings.TrimSpace(req.InvoicePrefix))
	if prefix != "" && !format.ValidPrefix(prefix) {
		// Rejected here, otherwise every issuance for this tenant would
		// fail at number formatting.
		return domain.Tenant{}, domain.ErrInvalidInvoicePrefix
	}

	now := time.Now().UTC()
	tenant := domain.Tenant{
		ID:            s.genID.Generate(),
		Name:          name,
		Slug:          normalized,
		Currency:      currency,
		InvoicePrefix: prefix,
		SupportEmail:  strings.TrimSpace(req.SupportEmail),
		Metadata:      datatypes.JSONMap{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.db.WithContext(ctx).Create(&tenant).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Tenant{}, domain.ErrSlugTaken
		}
		return domain.Tenant{}, err
	}

	s.log.Info("tenant created",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("slug", tenant.Slug),
	)

	return tenant, nil
}

func (s *Service) ResolveSlug(ctx context.Context, slug string) (domain.Tenant, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return domain.Tenant{}, domain.ErrInvalidSlug
	}

	var tenant domain.Tenant
	err := s.db.WithContext(ctx).
		Where(&domain.Tenant{Slug: slug}).
		First(&tenant).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Tenant{}, domain.ErrTenantNotFound
		}
		return domain.Tenant{}, err
	}

	return tenant, nil
}
