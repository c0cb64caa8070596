package handler

import (
	directoryapp "github.com/facture/backend/internal/application/directory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DirectoryHandler handles manufacturer profile and client directory endpoints
type DirectoryHandler struct {
	BaseHandler
	directoryService *directoryapp.Service
}

// NewDirectoryHandler creates a new DirectoryHandler
func NewDirectoryHandler(directoryService *directoryapp.Service) *DirectoryHandler {
	return &DirectoryHandler{
		directoryService: directoryService,
	}
}

// RegisterRoutes registers directory routes on the API group
func (h *DirectoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/manufacturer", h.GetManufacturer)
	rg.PUT("/manufacturer", h.UpsertManufacturer)

	clients := rg.Group("/clients")
	{
		clients.GET("", h.ListClients)
		clients.POST("", h.CreateClient)
		clients.GET("/:id", h.GetClient)
		clients.PUT("/:id", h.UpdateClient)
		clients.DELETE("/:id", h.DeleteClient)
	}
}

// GetManufacturer returns the manufacturer profile
func (h *DirectoryHandler) GetManufacturer(c *gin.Context) {
	manufacturer, err := h.directoryService.GetManufacturer(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, manufacturer)
}

// UpsertManufacturer creates the manufacturer profile on first call and
// partially updates it afterwards
func (h *DirectoryHandler) UpsertManufacturer(c *gin.Context) {
	var req directoryapp.UpdatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	manufacturer, err := h.directoryService.UpsertManufacturer(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, manufacturer)
}

// ListClients returns a paginated client list
func (h *DirectoryHandler) ListClients(c *gin.Context) {
	var query directoryapp.ListClientsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.directoryService.ListClients(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetClient returns a single client by ID
func (h *DirectoryHandler) GetClient(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	client, err := h.directoryService.GetClient(c.Request.Context(), clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, client)
}

// CreateClient creates a new client
func (h *DirectoryHandler) CreateClient(c *gin.Context) {
	var req directoryapp.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	client, err := h.directoryService.CreateClient(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, client)
}

// UpdateClient partially updates an existing client
func (h *DirectoryHandler) UpdateClient(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	var req directoryapp.UpdatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	client, err := h.directoryService.UpdateClient(c.Request.Context(), clientID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, client)
}

// DeleteClient deletes a client
func (h *DirectoryHandler) DeleteClient(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	if err := h.directoryService.DeleteClient(c.Request.Context(), clientID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
