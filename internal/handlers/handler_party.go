package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sitebooks/sitebooks/internal/apperrors"
	"github.com/sitebooks/sitebooks/internal/core/domain"
	portssvc "github.com/sitebooks/sitebooks/internal/core/ports/services"
	"github.com/sitebooks/sitebooks/internal/dto"
	"github.com/sitebooks/sitebooks/internal/middleware"
)

// partyHandler manages customers and vendors.
type partyHandler struct {
	partyService portssvc.PartySvcFacade
}

// newPartyHandler creates a new partyHandler.
func newPartyHandler(ps portssvc.PartySvcFacade) *partyHandler {
	return &partyHandler{
		partyService: ps,
	}
}

// registerPartyRoutes registers routes related to customers and vendors.
func registerPartyRoutes(rg *gin.RouterGroup, partyService portssvc.PartySvcFacade) {
	h := newPartyHandler(partyService)

	customers := rg.Group("/customers")
	{
		customers.POST("", h.createCustomer)
		customers.GET("", h.listCustomers)
		customers.GET("/:id", h.getCustomer)
	}

	vendors := rg.Group("/vendors")
	{
		vendors.POST("", h.createVendor)
		vendors.GET("", h.listVendors)
		vendors.GET("/:id", h.getVendor)
	}
}

func (h *partyHandler) getParty(c *gin.Context, kind string, find func(ctx context.Context, id int64) (*domain.Party, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	partyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	party, err := find(c.Request.Context(), partyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": kind + " not found"})
		} else {
			logger.Error("Failed to get "+kind, slog.Int64("party_id", partyID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve " + kind})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPartyResponse(party))
}

func (h *partyHandler) listParties(c *gin.Context, kind string, list func(ctx context.Context) ([]domain.Party, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	parties, err := list(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list "+kind, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list " + kind})
		return
	}

	c.JSON(http.StatusOK, dto.ToListPartyResponse(parties))
}

func (h *partyHandler) createParty(c *gin.Context, kind string, create func(ctx context.Context, req dto.CreatePartyRequest, caller domain.Caller) (*domain.Party, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	caller, ok := middleware.GetCallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	party, err := create(c.Request.Context(), req, caller)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create "+kind, slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create " + kind})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToPartyResponse(party))
}

// createCustomer godoc
// @Summary Create a customer
// @Tags customers
// @Accept  json
// @Produce  json
// @Param   customer body dto.CreatePartyRequest true "Customer details"
// @Success 201 {object} dto.PartyResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Router /customers [post]
func (h *partyHandler) createCustomer(c *gin.Context) {
	h.createParty(c, "customer", h.partyService.CreateCustomer)
}

// createVendor godoc
// @Summary Create a vendor
// @Tags vendors
// @Accept  json
// @Produce  json
// @Param   vendor body dto.CreatePartyRequest true "Vendor details"
// @Success 201 {object} dto.PartyResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Router /vendors [post]
func (h *partyHandler) createVendor(c *gin.Context) {
	h.createParty(c, "vendor", h.partyService.CreateVendor)
}

// getCustomer godoc
// @Summary Get a customer by ID
// @Tags customers
// @Produce  json
// @Param   id path int true "Customer ID"
// @Success 200 {object} dto.PartyResponse
// @Failure 404 {object} map[string]string "Customer not found"
// @Router /customers/{id} [get]
func (h *partyHandler) getCustomer(c *gin.Context) {
	h.getParty(c, "Customer", h.partyService.GetCustomerByID)
}

// getVendor godoc
// @Summary Get a vendor by ID
// @Tags vendors
// @Produce  json
// @Param   id path int true "Vendor ID"
// @Success 200 {object} dto.PartyResponse
// @Failure 404 {object} map[string]string "Vendor not found"
// @Router /vendors/{id} [get]
func (h *partyHandler) getVendor(c *gin.Context) {
	h.getParty(c, "Vendor", h.partyService.GetVendorByID)
}

// listCustomers godoc
// @Summary List customers
// @Tags customers
// @Produce  json
// @Success 200 {array} dto.PartyResponse
// @Router /customers [get]
func (h *partyHandler) listCustomers(c *gin.Context) {
	h.listParties(c, "customers", h.partyService.ListCustomers)
}

// listVendors godoc
// @Summary List vendors
// @Tags vendors
// @Produce  json
// @Success 200 {array} dto.PartyResponse
// @Router /vendors [get]
func (h *partyHandler) listVendors(c *gin.Context) {
	h.listParties(c, "vendors", h.partyService.ListVendors)
}
