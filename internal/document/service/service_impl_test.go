package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/smallbiznis/facturo/internal/client/domain"
	documentdomain "github.com/smallbiznis/facturo/internal/document/domain"
	invoicedomain "github.com/smallbiznis/facturo/internal/invoice/domain"
	"github.com/smallbiznis/facturo/internal/objectstore"
	"github.com/smallbiznis/facturo/internal/providers/pdf"
	tenantdomain "github.com/smallbiznis/facturo/internal/tenant/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockTenantSvc struct {
	mock.Mock
}

func (m *mockTenantSvc) Create(ctx context.Context, req tenantdomain.CreateTenantRequest) (tenantdomain.Tenant, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(tenantdomain.Tenant), args.Error(1)
}

func (m *mockTenantSvc) ResolveSlug(ctx context.Context, slug string) (tenantdomain.Tenant, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(tenantdomain.Tenant), args.Error(1)
}

type mockClientSvc struct {
	mock.Mock
}

func (m *mockClientSvc) Create(ctx context.Context, req clientdomain.CreateClientRequest) (clientdomain.Client, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(clientdomain.Client), args.Error(1)
}

func (m *mockClientSvc) List(ctx context.Context, req clientdomain.ListClientRequest) (clientdomain.ListClientResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(clientdomain.ListClientResponse), args.Error(1)
}

func (m *mockClientSvc) Resolve(ctx context.Context, tenantID snowflake.ID, ref clientdomain.Ref) (clientdomain.Client, error) {
	args := m.Called(ctx, tenantID, ref)
	return args.Get(0).(clientdomain.Client), args.Error(1)
}

type mockInvoiceSvc struct {
	mock.Mock
}

func (m *mockInvoiceSvc) Issue(ctx context.Context, req invoicedomain.IssueRequest) (invoicedomain.IssueResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(invoicedomain.IssueResponse), args.Error(1)
}

func (m *mockInvoiceSvc) List(ctx context.Context, req invoicedomain.ListInvoiceRequest) (invoicedomain.ListInvoiceResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(invoicedomain.ListInvoiceResponse), args.Error(1)
}

func (m *mockInvoiceSvc) GetByNumber(ctx context.Context, number string) (invoicedomain.InvoiceDetail, error) {
	args := m.Called(ctx, number)
	return args.Get(0).(invoicedomain.InvoiceDetail), args.Error(1)
}

func (m *mockInvoiceSvc) FindByTenantNumber(ctx context.Context, tenantID snowflake.ID, number string) (invoicedomain.InvoiceDetail, error) {
	args := m.Called(ctx, tenantID, number)
	return args.Get(0).(invoicedomain.InvoiceDetail), args.Error(1)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Upload(ctx context.Context, key string, body []byte, contentType string) error {
	args := m.Called(ctx, key, body, contentType)
	return args.Error(0)
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) PresignGet(ctx context.Context, key string) (objectstore.SignedURL, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(objectstore.SignedURL), args.Error(1)
}

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) GenerateInvoice(ctx context.Context, data pdf.InvoiceData) ([]byte, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type documentFixture struct {
	tenantSvc  *mockTenantSvc
	clientSvc  *mockClientSvc
	invoiceSvc *mockInvoiceSvc
	store      *mockStore
	renderer   *mockRenderer
	svc        documentdomain.Service
}

func newDocumentFixture(t *testing.T) *documentFixture {
	t.Helper()

	f := &documentFixture{
		tenantSvc:  &mockTenantSvc{},
		clientSvc:  &mockClientSvc{},
		invoiceSvc: &mockInvoiceSvc{},
		store:      &mockStore{},
		renderer:   &mockRenderer{},
	}
	f.svc = New(Params{
		Log:        zap.NewNop(),
		TenantSvc:  f.tenantSvc,
		ClientSvc:  f.clientSvc,
		InvoiceSvc: f.invoiceSvc,
		Store:      f.store,
		Renderer:   f.renderer,
	})
	return f
}

func testTenant(node *snowflake.Node) tenantdomain.Tenant {
	return tenantdomain.Tenant{
		ID:   node.Generate(),
		Name: "Acme Co",
		Slug: "acme-co",
	}
}

func testDetail(node *snowflake.Node, tenantID snowflake.ID) invoicedomain.InvoiceDetail {
	return invoicedomain.InvoiceDetail{
		Invoice: invoicedomain.Invoice{
			ID:       node.Generate(),
			TenantID: tenantID,
			ClientID: node.Generate(),
			Number:   "INV-000042",
			Sequence: 42,
			Status:   invoicedomain.InvoiceStatusDraft,
			Currency: "USD",
		},
	}
}

func TestGetLinkExistingDocumentNotRegenerated(t *testing.T) {
	f := newDocumentFixture(t)
	node, _ := snowflake.NewNode(1)
	tenant := testTenant(node)
	detail := testDetail(node, tenant.ID)
	ctx := context.Background()

	signed := objectstore.SignedURL{
		URL:       "https://cdn.example.com/acme-co/INV-000042.pdf?sig=abc",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	f.tenantSvc.On("ResolveSlug", mock.Anything, "acme-co").Return(tenant, nil)
	f.invoiceSvc.On("FindByTenantNumber", mock.Anything, tenant.ID, "INV-000042").Return(detail, nil)
	f.store.On("Exists", mock.Anything, "acme-co/INV-000042.pdf").Return(true, nil)
	f.store.On("PresignGet", mock.Anything, "acme-co/INV-000042.pdf").Return(signed, nil)

	link, err := f.svc.GetLink(ctx, "acme-co", "INV-000042")
	require.NoError(t, err)
	assert.Equal(t, signed.URL, link.URL)

	f.renderer.AssertNotCalled(t, "GenerateInvoice", mock.Anything, mock.Anything)
	f.store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetLinkGeneratesOnFirstAccess(t *testing.T) {
	f := newDocumentFixture(t)
	node, _ := snowflake.NewNode(1)
	tenant := testTenant(node)
	detail := testDetail(node, tenant.ID)
	client := clientdomain.Client{ID: detail.ClientID, TenantID: tenant.ID, Name: "Jane Smith", Email: "jane@example.com"}
	ctx := context.Background()

	blob := []byte("%PDF-1.7 fake")
	signed := objectstore.SignedURL{URL: "https://cdn.example.com/doc?sig=xyz", ExpiresAt: time.Now().Add(time.Hour)}

	f.tenantSvc.On("ResolveSlug", mock.Anything, "acme-co").Return(tenant, nil)
	f.invoiceSvc.On("FindByTenantNumber", mock.Anything, tenant.ID, "INV-000042").Return(detail, nil)
	f.store.On("Exists", mock.Anything, "acme-co/INV-000042.pdf").Return(false, nil)
	f.clientSvc.On("Resolve", mock.Anything, tenant.ID, clientdomain.Ref{ID: detail.ClientID.String()}).Return(client, nil)
	f.renderer.On("GenerateInvoice", mock.Anything, mock.AnythingOfType("pdf.InvoiceData")).Return(blob, nil)
	f.store.On("Upload", mock.Anything, "acme-co/INV-000042.pdf", blob, "application/pdf").Return(nil)
	f.store.On("PresignGet", mock.Anything, "acme-co/INV-000042.pdf").Return(signed, nil)

	link, err := f.svc.GetLink(ctx, "acme-co", "INV-000042")
	require.NoError(t, err)
	assert.Equal(t, signed.URL, link.URL)
	f.store.AssertExpectations(t)
	f.renderer.AssertExpectations(t)
}

func TestGetLinkCrossTenantNotFound(t *testing.T) {
	f := newDocumentFixture(t)
	node, _ := snowflake.NewNode(1)
	other := tenantdomain.Tenant{ID: node.Generate(), Name: "Globex", Slug: "globex"}

	f.tenantSvc.On("ResolveSlug", mock.Anything, "globex").Return(other, nil)
	f.invoiceSvc.On("FindByTenantNumber", mock.Anything, other.ID, "INV-000042").
		Return(invoicedomain.InvoiceDetail{}, invoicedomain.ErrInvoiceNotFound)

	_, err := f.svc.GetLink(context.Background(), "globex", "INV-000042")
	assert.ErrorIs(t, err, invoicedomain.ErrInvoiceNotFound)

	f.store.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
}

func TestGetLinkUnknownTenant(t *testing.T) {
	f := newDocumentFixture(t)

	f.tenantSvc.On("ResolveSlug", mock.Anything, "ghost-co").
		Return(tenantdomain.Tenant{}, tenantdomain.ErrTenantNotFound)

	_, err := f.svc.GetLink(context.Background(), "ghost-co", "INV-000001")
	assert.ErrorIs(t, err, tenantdomain.ErrTenantNotFound)
}

func TestGetLinkRenderFailure(t *testing.T) {
	f := newDocumentFixture(t)
	node, _ := snowflake.NewNode(1)
	tenant := testTenant(node)
	detail := testDetail(node, tenant.ID)
	client := clientdomain.Client{ID: detail.ClientID, TenantID: tenant.ID, Name: "Jane Smith", Email: "jane@example.com"}

	f.tenantSvc.On("ResolveSlug", mock.Anything, "acme-co").Return(tenant, nil)
	f.invoiceSvc.On("FindByTenantNumber", mock.Anything, tenant.ID, "INV-000042").Return(detail, nil)
	f.store.On("Exists", mock.Anything, "acme-co/INV-000042.pdf").Return(false, nil)
	f.clientSvc.On("Resolve", mock.Anything, tenant.ID, mock.Anything).Return(client, nil)
	f.renderer.On("GenerateInvoice", mock.Anything, mock.Anything).Return(nil, errors.New("render exploded"))

	_, err := f.svc.GetLink(context.Background(), "acme-co", "INV-000042")
	assert.ErrorIs(t, err, documentdomain.ErrGenerationFailed)

	f.store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
