package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	clientdomain "github.com/smallbiznis/facturo/internal/client/domain"
	invoicedomain "github.com/smallbiznis/facturo/internal/invoice/domain"
	tenantdomain "github.com/smallbiznis/facturo/internal/tenant/domain"
)

func (s *Server) IssueInvoice(c *gin.Context) {
	var req invoicedomain.IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.Issue(c.Request.Context(), req)
	if err != nil {
		// Issuance treats unknown references as bad input rather than
		// missing resources: the caller named them, nothing was consumed.
		switch {
		case errors.Is(err, tenantdomain.ErrTenantNotFound):
			AbortWithError(c, newValidationError("tenant", "tenant_not_found", "unknown tenant"))
		case errors.Is(err, clientdomain.ErrClientNotFound):
			AbortWithError(c, newValidationError("client_uuid", "client_not_found", "unknown client"))
		default:
			AbortWithError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListInvoices(c *gin.Context) {
	var req invoicedomain.ListInvoiceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Invoices, "page_info": resp.PageInfo})
}

func (s *Server) GetInvoiceByNumber(c *gin.Context) {
	number := strings.TrimSpace(c.Param("number"))
	if number == "" {
		AbortWithError(c, newValidationError("number", "invalid_number", "invoice number is required"))
		return
	}

	item, err := s.invoiceSvc.GetByNumber(c.Request.Context(), number)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}
