package handlers

import (
	"fmt"
	"time"

	"vgt-backoffice/internal/adapters/http/middleware"
	"vgt-backoffice/internal/core/services"
	"vgt-backoffice/internal/pkg/pagination"
	"vgt-backoffice/internal/pkg/response"
	"vgt-backoffice/internal/pkg/spreadsheet"

	"github.com/gofiber/fiber/v2"
)

// ChallanHandler handles lorry challan endpoints
type ChallanHandler struct {
	challanService *services.ChallanService
}

// NewChallanHandler creates a new challan handler
func NewChallanHandler(challanService *services.ChallanService) *ChallanHandler {
	return &ChallanHandler{
		challanService: challanService,
	}
}

// ListChallans handles listing challans
// @Summary List challans
// @Tags Challans
// @Produce json
// @Security BearerAuth
// @Param search query string false "Challan number, vehicle or driver"
// @Param branch query string false "Origin or destination branch code"
// @Param type query string false "MAIN or FOC"
// @Param status query string false "Challan status"
// @Param from query string false "Challan date from (YYYY-MM-DD)"
// @Param to query string false "Challan date to (YYYY-MM-DD)"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /challans [get]
func (h *ChallanHandler) ListChallans(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	challans, total, err := h.challanService.ListChallans(c.UserContext(), middleware.CurrentActor(c), listChallansInput(c), params)
	if err != nil {
		return fail(c, err, "Failed to list challans")
	}

	return response.Success(c, "Challans retrieved successfully", pagination.NewResponse(challans, params, total))
}

// CreateChallan handles creating a challan
// @Summary Create challan
// @Description Hire totals and the challan number are computed by the server
// @Tags Challans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ChallanInput true "Challan data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /challans [post]
func (h *ChallanHandler) CreateChallan(c *fiber.Ctx) error {
	var input services.ChallanInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	challan, err := h.challanService.CreateChallan(c.UserContext(), middleware.CurrentActor(c), &input)
	if err != nil {
		return fail(c, err, "Failed to create challan")
	}

	return response.Created(c, "Challan created successfully", fiber.Map{
		"challan": challan,
	})
}

// GetChallan handles getting a challan by number
// @Summary Get challan
// @Tags Challans
// @Produce json
// @Security BearerAuth
// @Param challan_no path string true "Challan number"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /challans/{challan_no} [get]
func (h *ChallanHandler) GetChallan(c *fiber.Ctx) error {
	challan, err := h.challanService.GetChallan(c.UserContext(), middleware.CurrentActor(c), c.Params("challan_no"))
	if err != nil {
		return fail(c, err, "Failed to get challan")
	}

	return response.Success(c, "Challan retrieved successfully", fiber.Map{
		"challan": challan,
	})
}

// ExportChallans handles the challan register download
// @Summary Export challans
// @Description Download the filtered challan register as an xlsx workbook
// @Tags Challans
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param branch query string false "Origin or destination branch code"
// @Param from query string false "Challan date from (YYYY-MM-DD)"
// @Param to query string false "Challan date to (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 400 {object} response.Response
// @Router /challans/export [get]
func (h *ChallanHandler) ExportChallans(c *fiber.Ctx) error {
	buf, err := h.challanService.ExportChallans(c.UserContext(), middleware.CurrentActor(c), listChallansInput(c))
	if err != nil {
		return fail(c, err, "Failed to export challans")
	}

	filename := fmt.Sprintf("challans_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Set(fiber.HeaderContentType, spreadsheet.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}

func listChallansInput(c *fiber.Ctx) *services.ListChallansInput {
	return &services.ListChallansInput{
		Search: c.Query("search"),
		Branch: c.Query("branch"),
		Type:   c.Query("type"),
		Status: c.Query("status"),
		From:   c.Query("from"),
		To:     c.Query("to"),
	}
}
