package handlers

import (
	"strconv"

	"vgt-backoffice/internal/adapters/http/middleware"
	"vgt-backoffice/internal/core/services"
	"vgt-backoffice/internal/pkg/pagination"
	"vgt-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ConsignmentHandler handles consignment booking endpoints
type ConsignmentHandler struct {
	consignmentService *services.ConsignmentService
}

// NewConsignmentHandler creates a new consignment handler
func NewConsignmentHandler(consignmentService *services.ConsignmentService) *ConsignmentHandler {
	return &ConsignmentHandler{
		consignmentService: consignmentService,
	}
}

// ListConsignments handles listing consignments
// @Summary List consignments
// @Tags Consignments
// @Produce json
// @Security BearerAuth
// @Param search query string false "CN number, consignor or consignee"
// @Param branch query string false "Booking or destination branch code"
// @Param from query string false "Booking date from (YYYY-MM-DD)"
// @Param to query string false "Booking date to (YYYY-MM-DD)"
// @Param include_cancelled query bool false "Include cancelled bookings"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /consignments [get]
func (h *ConsignmentHandler) ListConsignments(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	includeCancelled, _ := strconv.ParseBool(c.Query("include_cancelled"))

	input := &services.ListConsignmentsInput{
		Search:           c.Query("search"),
		Branch:           c.Query("branch"),
		From:             c.Query("from"),
		To:               c.Query("to"),
		IncludeCancelled: includeCancelled,
	}

	consignments, total, err := h.consignmentService.ListConsignments(c.UserContext(), middleware.CurrentActor(c), input, params)
	if err != nil {
		return fail(c, err, "Failed to list consignments")
	}

	return response.Success(c, "Consignments retrieved successfully", pagination.NewResponse(consignments, params, total))
}

// CreateConsignment handles booking a consignment
// @Summary Book consignment
// @Description Freight totals are recomputed by the server
// @Tags Consignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ConsignmentInput true "Booking data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /consignments [post]
func (h *ConsignmentHandler) CreateConsignment(c *fiber.Ctx) error {
	var input services.ConsignmentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	cn, err := h.consignmentService.CreateConsignment(c.UserContext(), middleware.CurrentActor(c), &input)
	if err != nil {
		return fail(c, err, "Failed to book consignment")
	}

	return response.Created(c, "Consignment booked successfully", fiber.Map{
		"consignment": cn,
	})
}

// GetConsignment handles getting a consignment by CN number
// @Summary Get consignment
// @Tags Consignments
// @Produce json
// @Security BearerAuth
// @Param cn_no path string true "CN number"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /consignments/{cn_no} [get]
func (h *ConsignmentHandler) GetConsignment(c *fiber.Ctx) error {
	cn, err := h.consignmentService.GetConsignment(c.UserContext(), middleware.CurrentActor(c), c.Params("cn_no"))
	if err != nil {
		return fail(c, err, "Failed to get consignment")
	}

	return response.Success(c, "Consignment retrieved successfully", fiber.Map{
		"consignment": cn,
	})
}

// AddTrackingEvent handles appending a tracking event
// @Summary Add tracking event
// @Tags Consignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param cn_no path string true "CN number"
// @Param body body services.TrackingInput true "Tracking event"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /consignments/{cn_no}/tracking [post]
func (h *ConsignmentHandler) AddTrackingEvent(c *fiber.Ctx) error {
	var input services.TrackingInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	cn, err := h.consignmentService.AddTrackingEvent(c.UserContext(), middleware.CurrentActor(c), c.Params("cn_no"), &input)
	if err != nil {
		return fail(c, err, "Failed to add tracking event")
	}

	return response.Success(c, "Tracking updated successfully", fiber.Map{
		"consignment": cn,
	})
}

// CancelConsignment handles cancelling a booking
// @Summary Cancel consignment
// @Tags Consignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param cn_no path string true "CN number"
// @Param body body services.CancelInput true "Cancellation reason"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /consignments/{cn_no}/cancel [post]
func (h *ConsignmentHandler) CancelConsignment(c *fiber.Ctx) error {
	var input services.CancelInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	cn, err := h.consignmentService.CancelConsignment(c.UserContext(), middleware.CurrentActor(c), c.Params("cn_no"), &input)
	if err != nil {
		return fail(c, err, "Failed to cancel consignment")
	}

	return response.Success(c, "Consignment cancelled successfully", fiber.Map{
		"consignment": cn,
	})
}
