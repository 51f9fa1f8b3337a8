package handlers

import (
	"vgt-backoffice/internal/core/freight"
	"vgt-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CalcHandler exposes the freight and hire calculator to the booking forms
type CalcHandler struct{}

// NewCalcHandler creates a new calculator handler
func NewCalcHandler() *CalcHandler {
	return &CalcHandler{}
}

// Hire recomputes a challan hire section
// @Summary Calculate hire totals
// @Description Accepts a partially filled hire form; missing or malformed values count as zero
// @Tags Calculator
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body freight.Hire true "Hire fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /calc/hire [post]
func (h *CalcHandler) Hire(c *fiber.Ctx) error {
	fields, err := parseFields(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	hire := freight.ComputeHireTotals(freight.HireFromFields(fields)).Rounded()

	return response.Success(c, "Hire calculated", fiber.Map{
		"hire": hire,
	})
}

// Freight recomputes a consignment freight section
// @Summary Calculate freight
// @Description Accepts a partially filled freight form; missing or malformed values count as zero
// @Tags Calculator
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body freight.Freight true "Freight fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /calc/freight [post]
func (h *CalcHandler) Freight(c *fiber.Ctx) error {
	fields, err := parseFields(c)
	if err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	priced := freight.ComputeFreight(freight.FreightFromFields(fields)).Rounded()

	return response.Success(c, "Freight calculated", fiber.Map{
		"freight": priced,
	})
}

func parseFields(c *fiber.Ctx) (freight.Fields, error) {
	fields := freight.Fields{}
	if len(c.Body()) == 0 {
		return fields, nil
	}
	if err := c.BodyParser(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}
