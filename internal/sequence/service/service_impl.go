package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/facturo/internal/config"
	"github.com/smallbiznis/facturo/internal/invoice/format"
	"github.com/smallbiznis/facturo/internal/sequence/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Numbering *config.NumberingConfigHolder
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	numbering *config.NumberingConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("sequence.service"),
		numbering: p.Numbering,
	}
}

func (s *Service) Allocate(ctx context.Context, tenantID snowflake.ID, prefix string) (domain.Allocation, error) {
	if tenantID == 0 {
		return domain.Allocation{}, domain.ErrInvalidTenant
	}

	// Single upsert so the first allocation for a tenant creates the counter
	// row at 1 and later ones advance it, with no window for two callers to
	// observe the same value. Touches exactly one row: tenant A never blocks
	// tenant B.
	var seq int64
	err := s.db.WithContext(ctx).Raw(
		`INSERT INTO invoice_counters (tenant_id, value, updated_at)
		 VALUES (?, 1, ?)
		 ON CONFLICT (tenant_id)
		 DO UPDATE SET value = invoice_counters.value + 1, updated_at = EXCLUDED.updated_at
		 RETURNING value`,
		tenantID,
		time.Now().UTC(),
	).Scan(&seq).Error
	if err != nil {
		s.log.Error("counter advance failed",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
		return domain.Allocation{}, domain.ErrAllocationFailed
	}
	if seq <= 0 {
		return domain.Allocation{}, domain.ErrAllocationFailed
	}

	cfg := s.numbering.Get()
	if prefix == "" {
		prefix = cfg.DefaultPrefix
	}
	number, err := format.FormatInvoiceNumber(prefix, cfg.PadWidth, seq)
	if err != nil {
		return domain.Allocation{}, domain.ErrAllocationFailed
	}

	return domain.Allocation{Sequence: seq, Number: number}, nil
}

func (s *Service) Current(ctx context.Context, tenantID snowflake.ID) (int64, error) {
	if tenantID == 0 {
		return 0, domain.ErrInvalidTenant
	}

	var value int64
	err := s.db.WithContext(ctx).Raw(
		`SELECT COALESCE(
			(SELECT value FROM invoice_counters WHERE tenant_id = ?), 0)`,
		tenantID,
	).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}
