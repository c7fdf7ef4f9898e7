package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/facturo/internal/client/domain"
	"github.com/smallbiznis/facturo/pkg/db"
	"github.com/smallbiznis/facturo/pkg/db/pagination"
	"github.com/smallbiznis/facturo/pkg/tenantctx"
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
		log:   p.Log.Named("client.service"),
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateClientRequest) (domain.Client, error) {
	tenantID, ok := tenantctx.TenantID(ctx)
	if !ok || tenantID == 0 {
		return domain.Client{}, domain.ErrInvalidTenant
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Client{}, domain.ErrInvalidName
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.Client{}, domain.ErrInvalidEmail
	}

	var externalID *string
	if value := strings.TrimSpace(req.ExternalID); value != "" {
		externalID = &value
	}

	now := time.Now().UTC()
	client := domain.Client{
		ID:         s.genID.Generate(),
		TenantID:   tenantID,
		ExternalID: externalID,
		Name:       name,
		Email:      email,
		Phone:      strings.TrimSpace(req.Phone),
		Address:    strings.TrimSpace(req.Address),
		Metadata:   datatypes.JSONMap{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.db.WithContext(ctx).Create(&client).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Client{}, domain.ErrClientExists
		}
		return domain.Client{}, err
	}

	return client, nil
}

func (s *Service) List(ctx context.Context, req domain.ListClientRequest) (domain.ListClientResponse, error) {
	tenantID, ok := tenantctx.TenantID(ctx)
	if !ok || tenantID == 0 {
		return domain.ListClientResponse{}, domain.ErrInvalidTenant
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	// Ordering and cursor share the ID as key; snowflake IDs are
	// time-ordered, so this is also insertion order.
	query := s.db.WithContext(ctx).
		Where(&domain.Client{TenantID: tenantID}).
		Order("id ASC").
		Limit(pageSize + 1)

	if token := strings.TrimSpace(req.PageToken); token != "" {
		cursor, err := pagination.DecodeCursor(token)
		if err != nil {
			return domain.ListClientResponse{}, err
		}
		if cursor.ID != "" {
			lastID, err := snowflake.ParseString(cursor.ID)
			if err != nil {
				return domain.ListClientResponse{}, err
			}
			query = query.Where("id > ?", lastID)
		}
	}

	var clients []domain.Client
	if err := query.Find(&clients).Error; err != nil {
		return domain.ListClientResponse{}, err
	}

	resp := domain.ListClientResponse{}
	if len(clients) > pageSize {
		clients = clients[:pageSize]
		resp.HasMore = true
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID: clients[len(clients)-1].ID.String(),
		})
		if err != nil {
			return domain.ListClientResponse{}, err
		}
		resp.NextPageToken = token
	}
	resp.Clients = clients

	return resp, nil
}

func (s *Service) Resolve(ctx context.Context, tenantID snowflake.ID, ref domain.Ref) (domain.Client, error) {
	if tenantID == 0 {
		return domain.Client{}, domain.ErrInvalidTenant
	}
	if ref.Empty() {
		return domain.Client{}, domain.ErrClientRefMissing
	}

	if raw := strings.TrimSpace(ref.ID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return domain.Client{}, domain.ErrClientNotFound
		}
		return s.findOne(ctx, &domain.Client{ID: id, TenantID: tenantID})
	}

	externalID := strings.TrimSpace(ref.ExternalID)
	return s.findOne(ctx, &domain.Client{TenantID: tenantID, ExternalID: &externalID})
}

func (s *Service) findOne(ctx context.Context, filter *domain.Client) (domain.Client, error) {
	var client domain.Client
	err := s.db.WithContext(ctx).Where(filter).First(&client).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Client{}, domain.ErrClientNotFound
		}
		return domain.Client{}, err
	}
	return client, nil
}
