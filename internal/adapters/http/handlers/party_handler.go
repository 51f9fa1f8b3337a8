package handlers

import (
	"strconv"

	"vgt-backoffice/internal/adapters/http/middleware"
	"vgt-backoffice/internal/core/services"
	"vgt-backoffice/internal/pkg/pagination"
	"vgt-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PartyHandler handles the party directory endpoints
type PartyHandler struct {
	partyService *services.PartyService
}

// NewPartyHandler creates a new party handler
func NewPartyHandler(partyService *services.PartyService) *PartyHandler {
	return &PartyHandler{
		partyService: partyService,
	}
}

// ListParties handles listing parties
// @Summary List parties
// @Description consignor and consignee filters also return parties of type both
// @Tags Parties
// @Produce json
// @Security BearerAuth
// @Param type query string false "consignor, consignee, both or billing"
// @Param search query string false "Code, name or GSTIN"
// @Param include_inactive query bool false "Admins only"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /parties [get]
func (h *PartyHandler) ListParties(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	includeInactive, _ := strconv.ParseBool(c.Query("include_inactive"))

	input := &services.ListPartiesInput{
		Type:            c.Query("type"),
		Search:          c.Query("search"),
		IncludeInactive: includeInactive,
	}

	parties, total, err := h.partyService.ListParties(c.UserContext(), middleware.CurrentActor(c), input, params)
	if err != nil {
		return fail(c, err, "Failed to list parties")
	}

	return response.Success(c, "Parties retrieved successfully", pagination.NewResponse(parties, params, total))
}

// GetParty handles getting a party by code
// @Summary Get party
// @Tags Parties
// @Produce json
// @Security BearerAuth
// @Param code path string true "Party code"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /parties/{code} [get]
func (h *PartyHandler) GetParty(c *fiber.Ctx) error {
	party, err := h.partyService.GetParty(c.UserContext(), middleware.CurrentActor(c), c.Params("code"))
	if err != nil {
		return fail(c, err, "Failed to get party")
	}

	return response.Success(c, "Party retrieved successfully", fiber.Map{
		"party": party,
	})
}

// CreateParty handles creating a party
// @Summary Create party
// @Description The six digit party code is allocated by the server
// @Tags Parties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.PartyInput true "Party data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /parties [post]
func (h *PartyHandler) CreateParty(c *fiber.Ctx) error {
	var input services.PartyInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	party, err := h.partyService.CreateParty(c.UserContext(), middleware.CurrentActor(c), &input)
	if err != nil {
		return fail(c, err, "Failed to create party")
	}

	return response.Created(c, "Party created successfully", fiber.Map{
		"party": party,
	})
}

// UpdateParty handles updating a party
// @Summary Update party
// @Tags Parties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "Party code"
// @Param body body services.PartyInput true "Party data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /parties/{code} [put]
func (h *PartyHandler) UpdateParty(c *fiber.Ctx) error {
	var input services.PartyInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	party, err := h.partyService.UpdateParty(c.UserContext(), middleware.CurrentActor(c), c.Params("code"), &input)
	if err != nil {
		return fail(c, err, "Failed to update party")
	}

	return response.Success(c, "Party updated successfully", fiber.Map{
		"party": party,
	})
}

// DeactivateParty handles deactivating a party (Admin only)
// @Summary Deactivate party
// @Tags Parties
// @Produce json
// @Security BearerAuth
// @Param code path string true "Party code"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /parties/{code} [delete]
func (h *PartyHandler) DeactivateParty(c *fiber.Ctx) error {
	if err := h.partyService.DeactivateParty(c.UserContext(), middleware.CurrentActor(c), c.Params("code")); err != nil {
		return fail(c, err, "Failed to deactivate party")
	}

	return response.Success(c, "Party deactivated successfully", nil)
}
