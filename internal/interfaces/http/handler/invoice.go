package handler

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"

	invoicingapp "github.com/facture/backend/internal/application/invoicing"
	"github.com/facture/backend/internal/infrastructure/render"
	"github.com/gin-gonic/gin"
)

// InvoiceHandler handles document rendering endpoints
type InvoiceHandler struct {
	BaseHandler
	invoicingService *invoicingapp.Service
	artifactStore    render.ArtifactStore
}

// NewInvoiceHandler creates a new InvoiceHandler. The artifact store may be
// nil, in which case the download endpoint reports 404 for every path.
func NewInvoiceHandler(invoicingService *invoicingapp.Service, artifactStore render.ArtifactStore) *InvoiceHandler {
	return &InvoiceHandler{
		invoicingService: invoicingService,
		artifactStore:    artifactStore,
	}
}

// RegisterRoutes registers invoice routes on the API group
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.POST("/render", h.Render)
		invoices.GET("/backends", h.ListBackends)
		invoices.GET("/artifacts/*path", h.DownloadArtifact)
	}
}

// Render produces an invoice document and streams it back as an attachment
func (h *InvoiceHandler) Render(c *gin.Context) {
	var req invoicingapp.GenerateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	doc, err := h.invoicingService.GenerateDocument(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Header("X-Render-Backend", doc.Backend)
	c.Header("X-From-Cache", strconv.FormatBool(doc.FromCache))
	if doc.ArtifactURL != "" {
		c.Header("X-Artifact-URL", doc.ArtifactURL)
	}
	c.Data(http.StatusOK, doc.MIMEType, doc.Data)
}

// ListBackends lists the render backends available on this deployment
func (h *InvoiceHandler) ListBackends(c *gin.Context) {
	h.Success(c, h.invoicingService.ListBackends())
}

// DownloadArtifact serves a previously archived document
func (h *InvoiceHandler) DownloadArtifact(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("path"), "/")
	if key == "" || strings.Contains(key, "..") {
		h.BadRequest(c, "Invalid artifact path")
		return
	}

	if h.artifactStore == nil {
		h.NotFound(c, "Artifact storage is not configured")
		return
	}

	reader, err := h.artifactStore.Get(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		h.InternalError(c, "Failed to read artifact")
		return
	}

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(key)))
	c.Data(http.StatusOK, contentType, data)
}
