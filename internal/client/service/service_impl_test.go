package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/facturo/internal/client/domain"
	"github.com/smallbiznis/facturo/pkg/db/pagination"
	"github.com/smallbiznis/facturo/pkg/tenantctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Client{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{DB: db, Log: zap.NewNop(), GenID: node}), node
}

func seedClient(t *testing.T, svc domain.Service, tenantID snowflake.ID, externalID string) domain.Client {
	t.Helper()

	ctx := tenantctx.WithTenantID(context.Background(), tenantID)
	client, err := svc.Create(ctx, domain.CreateClientRequest{
		ExternalID: externalID,
		Name:       "Jane Smith",
		Email:      fmt.Sprintf("jane+%s@example.com", externalID),
	})
	require.NoError(t, err)
	return client
}

func TestResolveByID(t *testing.T) {
	svc, node := newTestService(t)
	tenantID := node.Generate()
	created := seedClient(t, svc, tenantID, "crm-001")

	resolved, err := svc.Resolve(context.Background(), tenantID, domain.Ref{ID: created.ID.String()})
	assert.NoError(t, err)
	assert.Equal(t, created.ID, resolved.ID)
}

func TestResolveByExternalID(t *testing.T) {
	svc, node := newTestService(t)
	tenantID := node.Generate()
	created := seedClient(t, svc, tenantID, "crm-002")

	resolved, err := svc.Resolve(context.Background(), tenantID, domain.Ref{ExternalID: "crm-002"})
	assert.NoError(t, err)
	assert.Equal(t, created.ID, resolved.ID)
}

func TestResolveInternalIDWins(t *testing.T) {
	svc, node := newTestService(t)
	tenantID := node.Generate()
	first := seedClient(t, svc, tenantID, "crm-a")
	seedClient(t, svc, tenantID, "crm-b")

	// Both identifiers supplied and pointing at different records: the
	// internal ID decides.
	resolved, err := svc.Resolve(context.Background(), tenantID, domain.Ref{
		ID:         first.ID.String(),
		ExternalID: "crm-b",
	})
	assert.NoError(t, err)
	assert.Equal(t, first.ID, resolved.ID)
}

func TestResolveMissingRef(t *testing.T) {
	svc, node := newTestService(t)

	_, err := svc.Resolve(context.Background(), node.Generate(), domain.Ref{})
	assert.ErrorIs(t, err, domain.ErrClientRefMissing)
}

func TestResolveMalformedID(t *testing.T) {
	svc, node := newTestService(t)

	_, err := svc.Resolve(context.Background(), node.Generate(), domain.Ref{ID: "not-a-snowflake"})
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
}

func TestResolveCrossTenantHidden(t *testing.T) {
	svc, node := newTestService(t)
	tenantA := node.Generate()
	tenantB := node.Generate()
	created := seedClient(t, svc, tenantA, "crm-003")

	_, err := svc.Resolve(context.Background(), tenantB, domain.Ref{ID: created.ID.String()})
	assert.ErrorIs(t, err, domain.ErrClientNotFound)

	_, err = svc.Resolve(context.Background(), tenantB, domain.Ref{ExternalID: "crm-003"})
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
}

func TestCreateRequiresTenant(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateClientRequest{
		Name:  "Jane Smith",
		Email: "jane@example.com",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTenant)
}

func TestListPagesWithoutSkipsOrRepeats(t *testing.T) {
	svc, node := newTestService(t)
	tenantID := node.Generate()
	for i := 0; i < 5; i++ {
		seedClient(t, svc, tenantID, fmt.Sprintf("crm-%03d", i))
	}

	ctx := tenantctx.WithTenantID(context.Background(), tenantID)
	seen := make(map[string]int)
	token := ""
	for {
		resp, err := svc.List(ctx, domain.ListClientRequest{
			Pagination: pagination.Pagination{PageSize: 2, PageToken: token},
		})
		require.NoError(t, err)
		for _, c := range resp.Clients {
			seen[c.ID.String()]++
		}
		if !resp.HasMore {
			break
		}
		token = resp.NextPageToken
	}

	assert.Len(t, seen, 5)
	for id, count := range seen {
		assert.Equal(t, 1, count, "client %s returned more than once", id)
	}
}

func TestListScopedToTenant(t *testing.T) {
	svc, node := newTestService(t)
	tenantA := node.Generate()
	tenantB := node.Generate()
	seedClient(t, svc, tenantA, "crm-a1")
	seedClient(t, svc, tenantA, "crm-a2")
	seedClient(t, svc, tenantB, "crm-b1")

	ctx := tenantctx.WithTenantID(context.Background(), tenantA)
	resp, err := svc.List(ctx, domain.ListClientRequest{})
	assert.NoError(t, err)
	assert.Len(t, resp.Clients, 2)
	for _, c := range resp.Clients {
		assert.Equal(t, tenantA, c.TenantID)
	}
}
