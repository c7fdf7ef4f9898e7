package pdf

import "context"

// InvoiceData is the view rendered into the invoice document.
type InvoiceData struct {
	TenantName  string
	TenantEmail string
	Number      string
	Status      string
	IssueDate   string
	DueDate     string
	Currency    string
	BillToName  string
	BillToEmail string
	BillToAddr  string
	Items       []InvoiceItem
	Subtotal    string
	TaxTotal    string
	Total       string
	BalanceDue  string
}

// InvoiceItem is one rendered invoice line.
type InvoiceItem struct {
	Description string
	Quantity    string
	UnitPrice   string
	LineTotal   string
}

// Provider renders invoice documents. Invoked only when no document exists
// yet for the invoice.
type Provider interface {
	GenerateInvoice(ctx context.Context, data InvoiceData) ([]byte, error)
}
