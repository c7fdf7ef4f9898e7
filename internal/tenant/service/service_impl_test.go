package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/facturo/internal/tenant/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Tenant{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{DB: db, Log: zap.NewNop(), GenID: node})
}

func TestCreateAndResolveSlug(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateTenantRequest{
		Name:          "Acme Co",
		Slug:          "acme-co",
		Currency:      "usd",
		InvoicePrefix: "acme",
	})
	require.NoError(t, err)
	assert.Equal(t, "acme-co", created.Slug)
	assert.Equal(t, "USD", created.Currency)
	assert.Equal(t, "ACME", created.InvoicePrefix)

	resolved, err := svc.ResolveSlug(ctx, "acme-co")
	assert.NoError(t, err)
	assert.Equal(t, created.ID, resolved.ID)
}

func TestResolveSlugNormalizesInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateTenantRequest{Name: "Acme Co", Slug: "acme-co"})
	require.NoError(t, err)

	resolved, err := svc.ResolveSlug(ctx, "  ACME-CO  ")
	assert.NoError(t, err)
	assert.Equal(t, "acme-co", resolved.Slug)
}

func TestResolveSlugNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ResolveSlug(context.Background(), "ghost-co")
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
}

func TestResolveSlugEmpty(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ResolveSlug(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidSlug)
}

func TestCreateSlugFromName(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), domain.CreateTenantRequest{Name: "Globex Corporation"})
	require.NoError(t, err)
	assert.Equal(t, "globex-corporation", created.Slug)
}

func TestCreateDuplicateSlug(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateTenantRequest{Name: "Acme Co", Slug: "acme-co"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateTenantRequest{Name: "Acme Two", Slug: "acme-co"})
	assert.ErrorIs(t, err, domain.ErrSlugTaken)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateTenantRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateTenantRequest{Name: "Acme Co", Currency: "DOLLARS"})
	assert.ErrorIs(t, err, domain.ErrInvalidCurrency)
}

func TestCreateRejectsBadInvoicePrefix(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// A prefix the number formatter would reject must not be stored, or
	// every later issuance for the tenant fails.
	cases := []string{"1X", "IN-V", "ABCDEFGHIJKLM"}
	for _, prefix := range cases {
		_, err := svc.Create(ctx, domain.CreateTenantRequest{
			Name:          "Acme Co",
			Slug:          "acme-" + strings.ToLower(prefix),
			InvoicePrefix: prefix,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInvoicePrefix, "prefix %q", prefix)
	}

	created, err := svc.Create(ctx, domain.CreateTenantRequest{
		Name:          "Acme Co",
		Slug:          "acme-ok",
		InvoicePrefix: "acme9",
	})
	require.NoError(t, err)
	assert.Equal(t, "ACME9", created.InvoicePrefix)
}
