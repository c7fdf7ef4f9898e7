package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetInvoiceDocument redirects to a time-limited signed URL for the rendered
// invoice PDF, generating it on first access.
func (s *Server) GetInvoiceDocument(c *gin.Context) {
	number := strings.TrimSpace(c.Param("number"))
	if number == "" {
		AbortWithError(c, newValidationError("number", "invalid_number", "invoice number is required"))
		return
	}

	tenant, ok := tenantFromContext(c)
	if !ok {
		AbortWithError(c, ErrInternal)
		return
	}

	link, err := s.documentSvc.GetLink(c.Request.Context(), tenant.Slug, number)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Redirect(http.StatusFound, link.URL)
}
